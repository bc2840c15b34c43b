package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resume-optimizer/internal/models"
	"resume-optimizer/internal/repositories"
	"resume-optimizer/internal/services"
)

type JobHandler struct {
	jobRepo       repositories.JobRepository
	jobFetcher    services.JobFetcherService
	geminiService services.GeminiService
	jobIndex      services.JobIndexService
	chunker       services.TextChunker
}

func NewJobHandler(
	jobRepo repositories.JobRepository,
	jobFetcher services.JobFetcherService,
	geminiService services.GeminiService,
	jobIndex services.JobIndexService,
	chunker services.TextChunker,
) *JobHandler {
	return &JobHandler{
		jobRepo:       jobRepo,
		jobFetcher:    jobFetcher,
		geminiService: geminiService,
		jobIndex:      jobIndex,
		chunker:       chunker,
	}
}

// HandleCreate handles POST /jobs. The posting comes either from a URL that we
// fetch and parse, or from fields supplied directly in the body.
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	job := &models.Job{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     req.Title,
		Company:   req.Company,
		URL:       req.URL,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	job.Description = req.Description

	if req.URL != "" && req.Description == "" {
		details, err := h.jobFetcher.FetchJob(c.Context(), req.URL)
		if err != nil {
			if errors.Is(err, services.ErrJobNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Job posting not found at the given URL",
				})
			}
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Failed to fetch the job posting",
			})
		}

		if job.Title == "" {
			job.Title = details.Title
		}
		if job.Company == "" {
			job.Company = details.Company
		}
		job.Description = details.Description
	}

	if job.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Either url or description is required",
		})
	}

	if err := h.jobRepo.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save job posting",
		})
	}

	// Index the description for similar-jobs search. The job itself is saved
	// either way.
	if err := h.indexJob(c, job); err != nil {
		log.Printf("⚠️  Failed to index job %s: %v\n", job.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *JobHandler) indexJob(c *fiber.Ctx, job *models.Job) error {
	chunks := h.chunker.ChunkText(job.Description, 1000, 200)
	if len(chunks) == 0 {
		return nil
	}

	embeddings := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := h.geminiService.GenerateEmbedding(c.Context(), chunk)
		if err != nil {
			return err
		}
		embeddings = append(embeddings, embedding)
	}

	return h.jobIndex.IndexJob(c.Context(), job.ID, job.UserID, chunks, embeddings)
}

// HandleList handles GET /jobs
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobRepo.FindByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list jobs",
		})
	}

	return c.JSON(fiber.Map{
		"jobs": jobs,
	})
}

// HandleDelete handles DELETE /jobs/:id
func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	if err := h.jobRepo.Delete(jobID, userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	if err := h.jobIndex.DeleteJob(c.Context(), jobID); err != nil {
		log.Printf("⚠️  Failed to remove job %s from index: %v\n", jobID, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSimilar handles GET /jobs/:id/similar
func (h *JobHandler) HandleSimilar(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil || job.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	embedding, err := h.geminiService.GenerateEmbedding(c.Context(), job.Description)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to embed job description",
		})
	}

	matches, err := h.jobIndex.SearchSimilar(c.Context(), embedding, userID, 6)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search similar jobs",
		})
	}

	// The queried job is its own best match.
	ids := make([]uuid.UUID, 0, len(matches))
	scores := make(map[uuid.UUID]float32, len(matches))
	for _, m := range matches {
		if m.JobID == jobID {
			continue
		}
		ids = append(ids, m.JobID)
		scores[m.JobID] = m.Score
	}

	jobs, err := h.jobRepo.FindByIDs(ids)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load similar jobs",
		})
	}

	responses := make([]models.SimilarJobResponse, 0, len(jobs))
	for _, j := range jobs {
		responses = append(responses, models.SimilarJobResponse{
			Job:   j,
			Score: scores[j.ID],
		})
	}

	return c.JSON(fiber.Map{
		"similar_jobs": responses,
	})
}
