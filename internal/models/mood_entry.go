package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mood entry sources
const (
	MoodSourceManual     = "manual"
	MoodSourceAIDetected = "ai_detected"
)

// MoodEntry is one labeled emotional-state observation. Entries are
// immutable after creation; several per day are allowed.
type MoodEntry struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID      `json:"user_id" gorm:"type:uuid;index;not null"`
	Date        string         `json:"date" gorm:"index;not null"`
	Mood        string         `json:"mood" gorm:"not null"`
	Confidence  float64        `json:"confidence" gorm:"default:1"`
	Description *string        `json:"description"`
	Source      string         `json:"source" gorm:"not null;default:manual"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (m *MoodEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type CreateMoodEntryRequest struct {
	Date        string  `json:"date"`
	Mood        string  `json:"mood" validate:"required"`
	Confidence  float64 `json:"confidence"`
	Description *string `json:"description"`
}
