package models

import (
	"time"

	"github.com/google/uuid"
)

// Job is a saved job posting, either scraped from a URL or entered directly.
type Job struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID      string    `gorm:"type:text;not null;index" json:"user_id"`
	Title       string    `gorm:"type:text" json:"title"`
	Company     string    `gorm:"type:text" json:"company"`
	Description string    `gorm:"type:text" json:"description"`
	URL         string    `gorm:"type:text" json:"url"`
	CreatedAt   time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}

// JobDetails is what the posting fetcher returns before anything is persisted.
type JobDetails struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	URL         string `json:"url"`
}
