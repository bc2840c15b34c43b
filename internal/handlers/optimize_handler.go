package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resume-optimizer/internal/models"
	"resume-optimizer/internal/repositories"
	"resume-optimizer/internal/services"
)

type OptimizeHandler struct {
	optRepo          repositories.OptimizationRepository
	docRepo          repositories.DocumentRepository
	jobRepo          repositories.JobRepository
	userRepo         repositories.UserRepository
	optimizerService services.OptimizerService
	worker           services.Worker
	initialCredits   int
}

func NewOptimizeHandler(
	optRepo repositories.OptimizationRepository,
	docRepo repositories.DocumentRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	optimizerService services.OptimizerService,
	worker services.Worker,
	initialCredits int,
) *OptimizeHandler {
	return &OptimizeHandler{
		optRepo:          optRepo,
		docRepo:          docRepo,
		jobRepo:          jobRepo,
		userRepo:         userRepo,
		optimizerService: optimizerService,
		worker:           worker,
		initialCredits:   initialCredits,
	}
}

// HandleOptimize handles POST /optimize. The request is accepted and queued;
// the worker does the heavy lifting.
func (h *OptimizeHandler) HandleOptimize(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.OptimizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.DocumentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "document_id is required",
		})
	}
	if req.JobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_id is required",
		})
	}

	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document_id format",
		})
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job_id format",
		})
	}

	doc, err := h.docRepo.FindByID(docID)
	if err != nil || doc.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume not found",
		})
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil || job.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	if _, err := h.userRepo.GetOrCreate(userID, h.initialCredits); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load user account",
		})
	}

	if err := h.userRepo.DeductCredit(userID); err != nil {
		if errors.Is(err, repositories.ErrInsufficientCredits) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error": "You have no optimization credits left",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to spend credit",
		})
	}

	opt := &models.Optimization{
		ID:                 uuid.New(),
		UserID:             userID,
		DocumentID:         docID,
		JobID:              jobID,
		CustomInstructions: req.CustomInstructions,
		Status:             models.StatusQueued,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	if err := h.optRepo.Create(opt); err != nil {
		// The credit is already spent; give it back.
		h.userRepo.AddCredits(userID, 1)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create optimization job",
		})
	}

	h.worker.EnqueueJob(opt.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.OptimizeResponse{
		ID:     opt.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleGetResult handles GET /optimizations/:id
func (h *OptimizeHandler) HandleGetResult(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	opt, err := h.findUserOptimization(c, userID)
	if err != nil {
		return err
	}

	response := models.OptimizationResultResponse{
		ID:     opt.ID.String(),
		Status: string(opt.Status),
	}

	if opt.Status == models.StatusCompleted {
		response.OptimizedResume = opt.OptimizedResume
		response.Analysis = opt.Analysis
	}

	if opt.Status == models.StatusFailed {
		response.ErrorMessage = opt.ErrorMessage
	}

	return c.JSON(response)
}

// HandleList handles GET /optimizations
func (h *OptimizeHandler) HandleList(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	opts, err := h.optRepo.FindByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list optimizations",
		})
	}

	responses := make([]models.OptimizationResultResponse, 0, len(opts))
	for _, opt := range opts {
		responses = append(responses, models.OptimizationResultResponse{
			ID:     opt.ID.String(),
			Status: string(opt.Status),
		})
	}

	return c.JSON(fiber.Map{
		"optimizations": responses,
	})
}

// HandleDownload handles GET /optimizations/:id/download
func (h *OptimizeHandler) HandleDownload(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	opt, err := h.findUserOptimization(c, userID)
	if err != nil {
		return err
	}

	if opt.Status != models.StatusCompleted || len(opt.ResumePDF) == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Optimization is not completed yet",
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="optimized_resume_%s.pdf"`, opt.ID))
	return c.Send(opt.ResumePDF)
}

// HandleCoverLetter handles POST /optimizations/:id/cover-letter. Generation
// is synchronous; repeated calls return the stored letter.
func (h *OptimizeHandler) HandleCoverLetter(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	opt, err := h.findUserOptimization(c, userID)
	if err != nil {
		return err
	}

	if opt.Status != models.StatusCompleted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Optimization is not completed yet",
		})
	}

	pdfBytes, err := h.optimizerService.GenerateCoverLetter(c.Context(), opt.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate cover letter",
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="cover_letter_%s.pdf"`, opt.ID))
	return c.Send(pdfBytes)
}

func (h *OptimizeHandler) findUserOptimization(c *fiber.Ctx, userID string) (*models.Optimization, error) {
	optID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid optimization ID format")
	}

	opt, err := h.optRepo.FindByID(optID)
	if err != nil || opt.UserID != userID {
		return nil, fiber.NewError(fiber.StatusNotFound, "Optimization not found")
	}

	return opt, nil
}
