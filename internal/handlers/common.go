package handlers

import (
	"github.com/gofiber/fiber/v2"
)

const userIDHeader = "X-User-ID"

// requireUserID reads the caller identity from the X-User-ID header. Identity
// is established upstream by the API gateway; an absent header means the
// request never passed through it. The returned error is a *fiber.Error
// rendered by the app error handler.
func requireUserID(c *fiber.Ctx) (string, error) {
	userID := c.Get(userIDHeader)
	if userID == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
	}
	return userID, nil
}
