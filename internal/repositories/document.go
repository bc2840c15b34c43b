package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resume-optimizer/internal/models"
)

type DocumentRepository interface {
	Create(doc *models.Document) error
	FindByID(id uuid.UUID) (*models.Document, error)
	FindByUser(userID string) ([]models.Document, error)
	Delete(id uuid.UUID, userID string) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(doc *models.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *documentRepository) FindByID(id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := r.db.Where("id = ?", id).First(&doc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("document not found")
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return &doc, nil
}

func (r *documentRepository) FindByUser(userID string) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&docs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, nil
}

func (r *documentRepository) Delete(id uuid.UUID, userID string) error {
	result := r.db.
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Document{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete document: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("document not found")
	}

	return nil
}
