package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MetricType names a tracked progress metric.
type MetricType string

const (
	MetricMoodScore         MetricType = "mood_score"
	MetricTaskCompletion    MetricType = "task_completion"
	MetricReflectionQuality MetricType = "reflection_quality"
	MetricConsistency       MetricType = "consistency"
)

// ProgressMetric is one scalar measurement of a metric for a date. At most
// one row exists per (user, metric type, date); later writes overwrite.
type ProgressMetric struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID      `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_metric_user_type_date;not null"`
	MetricType MetricType     `json:"metric_type" gorm:"uniqueIndex:idx_metric_user_type_date;not null"`
	Value      float64        `json:"value" gorm:"not null"`
	Date       string         `json:"date" gorm:"uniqueIndex:idx_metric_user_type_date;not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (p *ProgressMetric) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
