package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Task belongs to exactly one user. The owner column is never part of
// the JSON representation; it is implied by the authenticated session.
type Task struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	IsDone      bool      `json:"is_done" gorm:"not null;default:false"`
	UserID      uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
