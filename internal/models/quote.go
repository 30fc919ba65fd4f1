package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Quote struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Text      string         `json:"text" gorm:"not null"`
	Author    string         `json:"author"`
	Category  string         `json:"category"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
