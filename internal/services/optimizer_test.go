package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-optimizer/internal/models"
	"resume-optimizer/internal/repositories"
)

type fakeOptRepo struct {
	opt      *models.Optimization
	statuses []models.OptimizationStatus
	result   *repositories.OptimizationUpdateData
	errorMsg string
	letter   []byte
}

func (f *fakeOptRepo) Create(opt *models.Optimization) error { f.opt = opt; return nil }

func (f *fakeOptRepo) FindByID(id uuid.UUID) (*models.Optimization, error) {
	if f.opt == nil || f.opt.ID != id {
		return nil, errors.New("optimization not found")
	}
	return f.opt, nil
}

func (f *fakeOptRepo) FindByUser(userID string) ([]models.Optimization, error) { return nil, nil }

func (f *fakeOptRepo) UpdateStatus(id uuid.UUID, status models.OptimizationStatus) error {
	f.statuses = append(f.statuses, status)
	f.opt.Status = status
	return nil
}

func (f *fakeOptRepo) UpdateResult(id uuid.UUID, result *repositories.OptimizationUpdateData) error {
	f.result = result
	f.opt.Status = models.StatusCompleted
	f.opt.OptimizedResume = result.OptimizedResume
	return nil
}

func (f *fakeOptRepo) UpdateCoverLetter(id uuid.UUID, pdf []byte) error {
	f.letter = pdf
	f.opt.CoverLetterPDF = pdf
	return nil
}

func (f *fakeOptRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	f.errorMsg = errorMsg
	f.opt.Status = models.StatusFailed
	return nil
}

func (f *fakeOptRepo) FindPendingJobs(limit int) ([]models.Optimization, error) { return nil, nil }

type fakeDocRepo struct {
	doc *models.Document
}

func (f *fakeDocRepo) Create(doc *models.Document) error { return nil }
func (f *fakeDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	if f.doc == nil || f.doc.ID != id {
		return nil, errors.New("document not found")
	}
	return f.doc, nil
}
func (f *fakeDocRepo) FindByUser(userID string) ([]models.Document, error) { return nil, nil }
func (f *fakeDocRepo) Delete(id uuid.UUID, userID string) error { return nil }

type fakeJobRepo struct {
	job *models.Job
}

func (f *fakeJobRepo) Create(job *models.Job) error { return nil }
func (f *fakeJobRepo) FindByID(id uuid.UUID) (*models.Job, error) {
	if f.job == nil || f.job.ID != id {
		return nil, errors.New("job not found")
	}
	return f.job, nil
}
func (f *fakeJobRepo) FindByIDs(ids []uuid.UUID) ([]models.Job, error) { return nil, nil }
func (f *fakeJobRepo) FindByUser(userID string) ([]models.Job, error)  { return nil, nil }
func (f *fakeJobRepo) FindAll() ([]models.Job, error)                  { return nil, nil }
func (f *fakeJobRepo) Delete(id uuid.UUID, userID string) error        { return nil }

type fakeGemini struct {
	completion string
	err        error
	prompts    []string
}

func (f *fakeGemini) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	f.prompts = append(f.prompts, userPrompt)
	return f.completion, f.err
}

func (f *fakeGemini) CompleteWithRetry(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxRetries int) (string, error) {
	return f.Complete(ctx, systemPrompt, userPrompt, temperature)
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return make([]float32, 768), nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(raw []byte) (*PDFContent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &PDFContent{Text: f.text, PageCount: 1}, nil
}

func (f *fakeExtractor) ExtractText(raw []byte) (string, error) {
	content, err := f.Extract(raw)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

func newTestFixture(t *testing.T, gemini GeminiService, extractor PDFExtractorService) (OptimizerService, *fakeOptRepo) {
	t.Helper()

	resumePath := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(resumePath, []byte("%PDF-fake"), 0644))

	docID := uuid.New()
	jobID := uuid.New()

	docRepo := &fakeDocRepo{doc: &models.Document{
		ID:       docID,
		UserID:   "user-1",
		FilePath: resumePath,
	}}
	jobRepo := &fakeJobRepo{job: &models.Job{
		ID:          jobID,
		UserID:      "user-1",
		Title:       "Go Engineer",
		Company:     "Acme",
		Description: "Build services in Go.",
	}}
	optRepo := &fakeOptRepo{opt: &models.Optimization{
		ID:         uuid.New(),
		UserID:     "user-1",
		DocumentID: docID,
		JobID:      jobID,
		Status:     models.StatusQueued,
	}}

	svc := NewOptimizerService(optRepo, docRepo, jobRepo, gemini, extractor, NewPDFRendererService(), 3)
	return svc, optRepo
}

func TestProcessOptimization_HappyPath(t *testing.T) {
	completion := strings.Join([]string{
		"JOHN DOE",
		"***PROFESSIONAL SUMMARY***",
		"Go engineer, ten years.",
		"[SECTION:IMPROVEMENTS]",
		"• Matched keywords",
		"[/SECTION]",
		"[SECTION:INTERVIEW]",
		"• Review goroutine patterns",
		"[/SECTION]",
	}, "\n")

	gemini := &fakeGemini{completion: completion}
	svc, optRepo := newTestFixture(t, gemini, &fakeExtractor{text: "John Doe\nEngineer"})

	err := svc.ProcessOptimization(context.Background(), optRepo.opt.ID)

	require.NoError(t, err)
	assert.Equal(t, []models.OptimizationStatus{models.StatusProcessing}, optRepo.statuses)

	require.NotNil(t, optRepo.result)
	assert.Equal(t, "John Doe\nEngineer", *optRepo.result.ResumeText)
	assert.Equal(t, "JOHN DOE\n***PROFESSIONAL SUMMARY***\nGo engineer, ten years.", *optRepo.result.OptimizedResume)
	assert.Contains(t, *optRepo.result.Analysis, "[IMPROVEMENTS]")
	assert.Contains(t, *optRepo.result.Analysis, "[INTERVIEW]")
	assert.NotContains(t, *optRepo.result.Analysis, "[/SECTION]")
	assert.True(t, strings.HasPrefix(string(optRepo.result.ResumePDF), "%PDF-"))

	// The prompt carried the job and the extracted resume.
	require.Len(t, gemini.prompts, 1)
	assert.Contains(t, gemini.prompts[0], "Go Engineer")
	assert.Contains(t, gemini.prompts[0], "John Doe\nEngineer")
}

func TestProcessOptimization_LegacyCompletionFallback(t *testing.T) {
	completion := "PART 1: OPTIMIZED RESUME\nJOHN DOE\nEngineer\nPART 2: DETAILED ANALYSIS\nSolid rewrite."

	svc, optRepo := newTestFixture(t, &fakeGemini{completion: completion}, &fakeExtractor{text: "John Doe"})

	err := svc.ProcessOptimization(context.Background(), optRepo.opt.ID)

	require.NoError(t, err)
	require.NotNil(t, optRepo.result)
	assert.Equal(t, "JOHN DOE\nEngineer", *optRepo.result.OptimizedResume)
	assert.Equal(t, "Solid rewrite.", *optRepo.result.Analysis)
}

func TestProcessOptimization_UnreadableResume(t *testing.T) {
	extractor := &fakeExtractor{err: newDocumentParseError(9, errors.New("bad xref"))}
	svc, optRepo := newTestFixture(t, &fakeGemini{completion: "unused"}, extractor)

	err := svc.ProcessOptimization(context.Background(), optRepo.opt.ID)

	require.Error(t, err)
	assert.Equal(t, models.StatusFailed, optRepo.opt.Status)
	assert.Contains(t, optRepo.errorMsg, "could not read your file")
	assert.Nil(t, optRepo.result)
}

func TestProcessOptimization_CompletionFailure(t *testing.T) {
	gemini := &fakeGemini{err: errors.New("model overloaded")}
	svc, optRepo := newTestFixture(t, gemini, &fakeExtractor{text: "John Doe"})

	err := svc.ProcessOptimization(context.Background(), optRepo.opt.ID)

	require.Error(t, err)
	assert.Equal(t, models.StatusFailed, optRepo.opt.Status)
	assert.Contains(t, optRepo.errorMsg, "Failed to optimize resume")
}

func TestGenerateCoverLetter(t *testing.T) {
	gemini := &fakeGemini{completion: "Dear Hiring Manager,\n\nI would love to join Acme.\n\nSincerely,\nJohn"}
	svc, optRepo := newTestFixture(t, gemini, &fakeExtractor{text: "John Doe"})

	resume := "JOHN DOE\nEngineer"
	optRepo.opt.Status = models.StatusCompleted
	optRepo.opt.OptimizedResume = &resume

	pdfBytes, err := svc.GenerateCoverLetter(context.Background(), optRepo.opt.ID)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdfBytes), "%PDF-"))
	assert.Equal(t, pdfBytes, optRepo.letter)

	// Second call returns the stored letter without another completion.
	again, err := svc.GenerateCoverLetter(context.Background(), optRepo.opt.ID)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, again)
	assert.Len(t, gemini.prompts, 1)
}

func TestGenerateCoverLetter_NotCompleted(t *testing.T) {
	svc, optRepo := newTestFixture(t, &fakeGemini{completion: "x"}, &fakeExtractor{text: "x"})

	_, err := svc.GenerateCoverLetter(context.Background(), optRepo.opt.ID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not completed")
}
