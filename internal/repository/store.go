package repository

import (
	"github.com/google/uuid"

	"github.com/maren/innerlog-api/internal/models"
)

// Store is the persistence gateway. Handlers and the analytics components
// receive it explicitly; there is no package-level database handle. A fake
// Store stands in for the database in tests.
type Store interface {
	// Users
	CreateUser(user *models.User) error
	UserByEmail(email string) (*models.User, error)
	UserByID(id uuid.UUID) (*models.User, error)
	UpdateUser(user *models.User) error
	SetFCMToken(userID uuid.UUID, token string) error

	// Daily entries
	UpsertDailyEntry(userID uuid.UUID, date string, req models.UpsertDailyEntryRequest) (*models.DailyEntry, error)
	SaveDailyEntry(entry *models.DailyEntry) error
	DailyEntry(userID uuid.UUID, date string) (*models.DailyEntry, error)
	DailyEntries(userID uuid.UUID, limit int) ([]models.DailyEntry, error)

	// Mood entries
	CreateMoodEntry(entry *models.MoodEntry) error
	MoodEntries(userID uuid.UUID, days int) ([]models.MoodEntry, error)

	// Accomplishments and lessons (owned by a daily entry)
	CreateAccomplishments(userID, entryID uuid.UUID, texts []string) error
	Accomplishments(userID uuid.UUID, days int) ([]models.Accomplishment, error)
	CreateLessons(userID, entryID uuid.UUID, texts []string) error
	Lessons(userID uuid.UUID, days int) ([]models.LessonLearned, error)

	// Progress metrics
	UpsertProgress(userID uuid.UUID, metric models.MetricType, value float64, date string) error
	ProgressData(userID uuid.UUID, days int) ([]models.ProgressMetric, error)

	// Chat
	CreateChatSession(userID uuid.UUID, title string) (*models.ChatSession, error)
	ChatSession(userID, sessionID uuid.UUID) (*models.ChatSession, error)
	ChatSessions(userID uuid.UUID) ([]models.ChatSession, error)
	CreateChatMessage(message *models.ChatMessage) error
	ChatMessages(sessionID uuid.UUID) ([]models.ChatMessage, error)

	// Quotes
	RandomQuote() (*models.Quote, error)

	// Notifications
	CreateNotification(notification *models.Notification) error
	Notifications(userID uuid.UUID, offset, limit int) ([]models.Notification, int64, int64, error)
	MarkNotificationRead(userID, notificationID uuid.UUID) (bool, error)
	MarkAllNotificationsRead(userID uuid.UUID) error
}
