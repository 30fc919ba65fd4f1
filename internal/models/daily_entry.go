package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyEntry holds one user's plan and reflection for a single calendar
// date. Dates are ISO YYYY-MM-DD strings; (user_id, date) is unique and
// saves merge into the existing row.
type DailyEntry struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID      `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_entry_user_date;not null"`
	Date              string         `json:"date" gorm:"uniqueIndex:idx_entry_user_date;not null"`
	MorningPlan       *string        `json:"morning_plan"`
	MorningTranscript *string        `json:"morning_transcript"`
	EveningReflection *string        `json:"evening_reflection"`
	EveningTranscript *string        `json:"evening_transcript"`
	GeneratedTasks    *string        `json:"generated_tasks"`  // JSON-encoded TaskBreakdown
	EveningAnalysis   *string        `json:"evening_analysis"` // JSON-encoded EveningAnalysis
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`

	Accomplishments []Accomplishment `json:"accomplishments,omitempty" gorm:"foreignKey:DailyEntryID"`
	Lessons         []LessonLearned  `json:"lessons,omitempty" gorm:"foreignKey:DailyEntryID"`
}

func (e *DailyEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ReflectionLength is the rune count of the evening reflection, 0 when the
// entry has none.
func (e *DailyEntry) ReflectionLength() int {
	if e.EveningReflection == nil {
		return 0
	}
	return len([]rune(*e.EveningReflection))
}

// TaskBreakdown is the structured plan generated from a morning plan: one
// top priority, three secondary, five minor.
type TaskBreakdown struct {
	Priority1 string   `json:"priority1"`
	Priority3 []string `json:"priority3"`
	Priority5 []string `json:"priority5"`
}

// EveningAnalysis is the structured result of analyzing an evening
// reflection.
type EveningAnalysis struct {
	Summary         string   `json:"summary"`
	Accomplishments []string `json:"accomplishments"`
	LessonsLearned  []string `json:"lessons_learned"`
	Mood            string   `json:"mood"`
	MoodConfidence  float64  `json:"mood_confidence"`
}

type UpsertDailyEntryRequest struct {
	MorningPlan       *string `json:"morning_plan"`
	MorningTranscript *string `json:"morning_transcript"`
	EveningReflection *string `json:"evening_reflection"`
	EveningTranscript *string `json:"evening_transcript"`
}
