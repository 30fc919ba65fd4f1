package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LessonLearned mirrors Accomplishment: one extracted lesson per row, owned
// by a daily entry.
type LessonLearned struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID      `json:"user_id" gorm:"type:uuid;index;not null"`
	DailyEntryID uuid.UUID      `json:"daily_entry_id" gorm:"type:uuid;index;not null"`
	Lesson       string         `json:"lesson" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (l *LessonLearned) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
