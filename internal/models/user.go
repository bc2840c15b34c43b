package models

import "time"

// User tracks the credit balance for an externally-authenticated user. The ID
// is the opaque identifier supplied by the caller; it is trusted as-is.
type User struct {
	ID        string    `gorm:"type:text;primary_key" json:"id"`
	Credits   int       `gorm:"not null;default:0" json:"credits"`
	Plan      string    `gorm:"type:text;default:'free'" json:"plan"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (u *User) TableName() string {
	return "users"
}
