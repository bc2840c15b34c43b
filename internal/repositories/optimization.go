package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resume-optimizer/internal/models"
)

type OptimizationRepository interface {
	Create(opt *models.Optimization) error
	FindByID(id uuid.UUID) (*models.Optimization, error)
	FindByUser(userID string) ([]models.Optimization, error)
	UpdateStatus(id uuid.UUID, status models.OptimizationStatus) error
	UpdateResult(id uuid.UUID, result *OptimizationUpdateData) error
	UpdateCoverLetter(id uuid.UUID, pdf []byte) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Optimization, error)
}

type OptimizationUpdateData struct {
	ResumeText      *string
	OptimizedResume *string
	Analysis        *string
	ResumePDF       []byte
}

type optimizationRepository struct {
	db *gorm.DB
}

func NewOptimizationRepository(db *gorm.DB) OptimizationRepository {
	return &optimizationRepository{db: db}
}

func (r *optimizationRepository) Create(opt *models.Optimization) error {
	if err := r.db.Create(opt).Error; err != nil {
		return fmt.Errorf("failed to create optimization: %w", err)
	}
	return nil
}

func (r *optimizationRepository) FindByID(id uuid.UUID) (*models.Optimization, error) {
	var opt models.Optimization
	if err := r.db.Where("id = ?", id).First(&opt).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("optimization not found")
		}
		return nil, fmt.Errorf("failed to find optimization: %w", err)
	}
	return &opt, nil
}

func (r *optimizationRepository) FindByUser(userID string) ([]models.Optimization, error) {
	var opts []models.Optimization
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&opts).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list optimizations: %w", err)
	}

	return opts, nil
}

func (r *optimizationRepository) UpdateStatus(id uuid.UUID, status models.OptimizationStatus) error {
	result := r.db.Model(&models.Optimization{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("optimization not found")
	}

	return nil
}

func (r *optimizationRepository) UpdateResult(id uuid.UUID, data *OptimizationUpdateData) error {
	updates := map[string]interface{}{
		"status":     models.StatusCompleted,
		"updated_at": time.Now(),
	}

	if data.ResumeText != nil {
		updates["resume_text"] = *data.ResumeText
	}
	if data.OptimizedResume != nil {
		updates["optimized_resume"] = *data.OptimizedResume
	}
	if data.Analysis != nil {
		updates["analysis"] = *data.Analysis
	}
	if data.ResumePDF != nil {
		updates["resume_pdf"] = data.ResumePDF
	}

	result := r.db.Model(&models.Optimization{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("optimization not found")
	}

	return nil
}

func (r *optimizationRepository) UpdateCoverLetter(id uuid.UUID, pdf []byte) error {
	result := r.db.Model(&models.Optimization{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"cover_letter_pdf": pdf,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save cover letter: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("optimization not found")
	}

	return nil
}

func (r *optimizationRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Optimization{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("optimization not found")
	}

	return nil
}

func (r *optimizationRepository) FindPendingJobs(limit int) ([]models.Optimization, error) {
	var opts []models.Optimization
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&opts).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return opts, nil
}
