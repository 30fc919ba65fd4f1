package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Accomplishment is one extracted accomplishment tied to a daily entry,
// written in a batch when evening analysis completes.
type Accomplishment struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID      `json:"user_id" gorm:"type:uuid;index;not null"`
	DailyEntryID   uuid.UUID      `json:"daily_entry_id" gorm:"type:uuid;index;not null"`
	Accomplishment string         `json:"accomplishment" gorm:"not null"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

func (a *Accomplishment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
