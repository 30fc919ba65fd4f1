package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat message roles
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatSession struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;index;not null"`
	Title     string         `json:"title"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Messages []ChatMessage `json:"messages,omitempty" gorm:"foreignKey:SessionID"`
}

func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ChatMessage is one turn in a session. Rows are appended, never mutated.
type ChatMessage struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID   uuid.UUID      `json:"session_id" gorm:"type:uuid;index;not null"`
	UserID      uuid.UUID      `json:"user_id" gorm:"type:uuid;index;not null"`
	Role        string         `json:"role" gorm:"not null"`
	Message     string         `json:"message" gorm:"not null"`
	Response    *string        `json:"response"`
	ContextUsed bool           `json:"context_used" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Chat DTOs
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ContextChatRequest struct {
	Message   string     `json:"message" validate:"required"`
	SessionID *uuid.UUID `json:"sessionId"`
}

type CreateSessionRequest struct {
	Title string `json:"title"`
}
