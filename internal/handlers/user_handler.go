package handlers

import (
	"github.com/gofiber/fiber/v2"

	"resume-optimizer/internal/repositories"
)

type UserHandler struct {
	userRepo       repositories.UserRepository
	initialCredits int
}

func NewUserHandler(userRepo repositories.UserRepository, initialCredits int) *UserHandler {
	return &UserHandler{
		userRepo:       userRepo,
		initialCredits: initialCredits,
	}
}

// HandleMe handles GET /users/me
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userRepo.GetOrCreate(userID, h.initialCredits)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load user account",
		})
	}

	return c.JSON(user)
}
