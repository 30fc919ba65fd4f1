package database

import (
	"strings"

	"github.com/maren/innerlog-api/internal/config"
	"github.com/maren/innerlog-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database named by the URL: PostgreSQL when it starts
// with "postgres", SQLite otherwise. The handle is returned to the caller
// and injected where needed; there is no package-level instance.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.DailyEntry{},
		&models.MoodEntry{},
		&models.Accomplishment{},
		&models.LessonLearned{},
		&models.ProgressMetric{},
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.Quote{},
		&models.Notification{},
	)
}
