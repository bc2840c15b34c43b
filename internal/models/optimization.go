package models

import (
	"time"

	"github.com/google/uuid"
)

type OptimizationStatus string

const (
	StatusQueued     OptimizationStatus = "queued"
	StatusProcessing OptimizationStatus = "processing"
	StatusCompleted  OptimizationStatus = "completed"
	StatusFailed     OptimizationStatus = "failed"
)

// Optimization is one resume-rewrite run: an uploaded document matched against
// a saved job, processed asynchronously by the worker.
type Optimization struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID             string             `gorm:"type:text;not null;index" json:"user_id"`
	DocumentID         uuid.UUID          `gorm:"type:uuid;not null" json:"document_id"`
	JobID              uuid.UUID          `gorm:"type:uuid;not null" json:"job_id"`
	CustomInstructions string             `gorm:"type:text" json:"custom_instructions,omitempty"`
	Status             OptimizationStatus `gorm:"not null;default:'queued'" json:"status"`
	ResumeText         *string            `gorm:"type:text" json:"-"`
	OptimizedResume    *string            `gorm:"type:text" json:"optimized_resume,omitempty"`
	Analysis           *string            `gorm:"type:text" json:"analysis,omitempty"`
	ResumePDF          []byte             `gorm:"type:bytea" json:"-"`
	CoverLetterPDF     []byte             `gorm:"type:bytea" json:"-"`
	ErrorMessage       *string            `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt          time.Time          `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
	Job      Job      `gorm:"foreignKey:JobID" json:"-"`
}

func (Optimization) TableName() string {
	return "optimizations"
}
