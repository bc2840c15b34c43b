package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"resume-optimizer/internal/models"
	"resume-optimizer/internal/repositories"
)

// OptimizerService runs the full optimization pipeline for a queued request:
// extract the stored resume, prompt the model, split the completion into
// resume and analysis, and render the styled PDF.
type OptimizerService interface {
	ProcessOptimization(ctx context.Context, optID uuid.UUID) error
	GenerateCoverLetter(ctx context.Context, optID uuid.UUID) ([]byte, error)
}

type optimizerService struct {
	optRepo       repositories.OptimizationRepository
	docRepo       repositories.DocumentRepository
	jobRepo       repositories.JobRepository
	geminiService GeminiService
	extractor     PDFExtractorService
	renderer      PDFRendererService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewOptimizerService(
	optRepo repositories.OptimizationRepository,
	docRepo repositories.DocumentRepository,
	jobRepo repositories.JobRepository,
	geminiService GeminiService,
	extractor PDFExtractorService,
	renderer PDFRendererService,
	maxRetries int,
) OptimizerService {
	return &optimizerService{
		optRepo:       optRepo,
		docRepo:       docRepo,
		jobRepo:       jobRepo,
		geminiService: geminiService,
		extractor:     extractor,
		renderer:      renderer,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

func (o *optimizerService) ProcessOptimization(ctx context.Context, optID uuid.UUID) error {
	if err := o.optRepo.UpdateStatus(optID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("🔄 Starting optimization for job ID: %s\n", optID)

	opt, err := o.optRepo.FindByID(optID)
	if err != nil {
		o.optRepo.UpdateError(optID, err.Error())
		return fmt.Errorf("failed to get optimization: %w", err)
	}

	doc, err := o.docRepo.FindByID(opt.DocumentID)
	if err != nil {
		o.optRepo.UpdateError(optID, fmt.Sprintf("Resume document not found: %v", err))
		return fmt.Errorf("failed to get resume document: %w", err)
	}

	job, err := o.jobRepo.FindByID(opt.JobID)
	if err != nil {
		o.optRepo.UpdateError(optID, fmt.Sprintf("Job posting not found: %v", err))
		return fmt.Errorf("failed to get job: %w", err)
	}

	// Step 1: Extract the stored resume text
	log.Println("📄 Extracting resume text...")
	raw, err := os.ReadFile(doc.FilePath)
	if err != nil {
		o.optRepo.UpdateError(optID, fmt.Sprintf("Failed to read resume file: %v", err))
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	resumeText, err := o.extractor.ExtractText(raw)
	if err != nil {
		var parseErr *DocumentParseError
		if errors.As(err, &parseErr) {
			o.optRepo.UpdateError(optID, "We could not read your file. Please upload a text-based PDF resume.")
		} else {
			o.optRepo.UpdateError(optID, fmt.Sprintf("Failed to extract resume text: %v", err))
		}
		return fmt.Errorf("failed to extract resume text: %w", err)
	}

	// Step 2: Generate the optimized resume and analysis in one completion
	log.Println("🤖 Optimizing resume with LLM...")
	prompt := o.promptBuilder.BuildOptimizationPrompt(resumeText, job, opt.CustomInstructions)

	completion, err := o.geminiService.CompleteWithRetry(ctx, OptimizerSystemPrompt, prompt, 0.7, o.maxRetries)
	if err != nil {
		o.optRepo.UpdateError(optID, fmt.Sprintf("Failed to optimize resume: %v", err))
		return fmt.Errorf("failed to optimize resume: %w", err)
	}

	// Step 3: Split the completion into resume body and analysis sections
	var resumeBody, analysis string
	if HasSectionMarkers(completion) {
		parsed := SplitCompletion(completion)
		resumeBody = parsed.ResumeBody
		analysis = parsed.Analysis()
	} else {
		// Older prompt format used labelled PART blocks.
		resumeBody, analysis = SplitLegacyParts(completion)
	}

	// Step 4: Render the styled resume PDF
	log.Println("📑 Rendering resume PDF...")
	pdfBytes, err := o.renderer.Render(resumeBody, RenderModeResume)
	if err != nil {
		var renderErr *RenderError
		if errors.As(err, &renderErr) {
			o.optRepo.UpdateError(optID, "We could not generate your document. Please try again.")
		} else {
			o.optRepo.UpdateError(optID, fmt.Sprintf("Failed to render resume PDF: %v", err))
		}
		return fmt.Errorf("failed to render resume PDF: %w", err)
	}

	// Step 5: Save results
	log.Println("💾 Saving optimization results...")
	updateData := &repositories.OptimizationUpdateData{
		ResumeText:      &resumeText,
		OptimizedResume: &resumeBody,
		Analysis:        &analysis,
		ResumePDF:       pdfBytes,
	}

	if err := o.optRepo.UpdateResult(optID, updateData); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	log.Printf("✅ Optimization completed successfully for job ID: %s\n", optID)
	return nil
}

// GenerateCoverLetter runs the second, independent prompt cycle for a
// completed optimization and stores the rendered letter PDF.
func (o *optimizerService) GenerateCoverLetter(ctx context.Context, optID uuid.UUID) ([]byte, error) {
	opt, err := o.optRepo.FindByID(optID)
	if err != nil {
		return nil, fmt.Errorf("failed to get optimization: %w", err)
	}

	if opt.Status != models.StatusCompleted || opt.OptimizedResume == nil {
		return nil, fmt.Errorf("optimization is not completed yet")
	}

	if len(opt.CoverLetterPDF) > 0 {
		return opt.CoverLetterPDF, nil
	}

	job, err := o.jobRepo.FindByID(opt.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	log.Printf("🤖 Generating cover letter for optimization %s\n", optID)
	prompt := o.promptBuilder.BuildCoverLetterPrompt(*opt.OptimizedResume, job)

	letter, err := o.geminiService.CompleteWithRetry(ctx, CoverLetterSystemPrompt, prompt, 0.7, o.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate cover letter: %w", err)
	}

	pdfBytes, err := o.renderer.Render(letter, RenderModeCoverLetter)
	if err != nil {
		return nil, fmt.Errorf("failed to render cover letter PDF: %w", err)
	}

	if err := o.optRepo.UpdateCoverLetter(optID, pdfBytes); err != nil {
		return nil, fmt.Errorf("failed to save cover letter: %w", err)
	}

	log.Printf("✅ Cover letter generated for optimization %s\n", optID)
	return pdfBytes, nil
}
