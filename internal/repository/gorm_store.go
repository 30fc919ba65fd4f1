package repository

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maren/innerlog-api/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// GormStore implements Store on a GORM handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// windowStart is the ISO date `days` days before today.
func windowStart(days int) string {
	return time.Now().AddDate(0, 0, -days).Format("2006-01-02")
}

// Users

func (s *GormStore) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *GormStore) UserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) UserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) UpdateUser(user *models.User) error {
	return s.db.Save(user).Error
}

func (s *GormStore) SetFCMToken(userID uuid.UUID, token string) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", token).Error
}

// Daily entries

// UpsertDailyEntry merges the provided fields into the (user, date) row,
// creating it on first save. Absent request fields leave existing values
// untouched.
func (s *GormStore) UpsertDailyEntry(userID uuid.UUID, date string, req models.UpsertDailyEntryRequest) (*models.DailyEntry, error) {
	var entry models.DailyEntry
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		entry = models.DailyEntry{UserID: userID, Date: date}
	}

	if req.MorningPlan != nil {
		entry.MorningPlan = req.MorningPlan
	}
	if req.MorningTranscript != nil {
		entry.MorningTranscript = req.MorningTranscript
	}
	if req.EveningReflection != nil {
		entry.EveningReflection = req.EveningReflection
	}
	if req.EveningTranscript != nil {
		entry.EveningTranscript = req.EveningTranscript
	}

	if err := s.db.Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *GormStore) SaveDailyEntry(entry *models.DailyEntry) error {
	return s.db.Save(entry).Error
}

func (s *GormStore) DailyEntry(userID uuid.UUID, date string) (*models.DailyEntry, error) {
	var entry models.DailyEntry
	if err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (s *GormStore) DailyEntries(userID uuid.UUID, limit int) ([]models.DailyEntry, error) {
	var entries []models.DailyEntry
	err := s.db.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// Mood entries

func (s *GormStore) CreateMoodEntry(entry *models.MoodEntry) error {
	return s.db.Create(entry).Error
}

func (s *GormStore) MoodEntries(userID uuid.UUID, days int) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	err := s.db.Where("user_id = ? AND date >= ?", userID, windowStart(days)).
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	return entries, err
}

// Accomplishments and lessons

func (s *GormStore) CreateAccomplishments(userID, entryID uuid.UUID, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	rows := make([]models.Accomplishment, len(texts))
	for i, text := range texts {
		rows[i] = models.Accomplishment{UserID: userID, DailyEntryID: entryID, Accomplishment: text}
	}
	return s.db.Create(&rows).Error
}

func (s *GormStore) Accomplishments(userID uuid.UUID, days int) ([]models.Accomplishment, error) {
	var rows []models.Accomplishment
	err := s.db.
		Joins("JOIN daily_entries ON daily_entries.id = accomplishments.daily_entry_id").
		Where("accomplishments.user_id = ? AND daily_entries.date >= ?", userID, windowStart(days)).
		Order("accomplishments.created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (s *GormStore) CreateLessons(userID, entryID uuid.UUID, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	rows := make([]models.LessonLearned, len(texts))
	for i, text := range texts {
		rows[i] = models.LessonLearned{UserID: userID, DailyEntryID: entryID, Lesson: text}
	}
	return s.db.Create(&rows).Error
}

func (s *GormStore) Lessons(userID uuid.UUID, days int) ([]models.LessonLearned, error) {
	var rows []models.LessonLearned
	err := s.db.
		Joins("JOIN daily_entries ON daily_entries.id = lesson_learneds.daily_entry_id").
		Where("lesson_learneds.user_id = ? AND daily_entries.date >= ?", userID, windowStart(days)).
		Order("lesson_learneds.created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Progress metrics

// UpsertProgress writes one metric value for a date, overwriting any
// existing (user, metric, date) row.
func (s *GormStore) UpsertProgress(userID uuid.UUID, metric models.MetricType, value float64, date string) error {
	row := models.ProgressMetric{
		UserID:     userID,
		MetricType: metric,
		Value:      value,
		Date:       date,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "metric_type"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *GormStore) ProgressData(userID uuid.UUID, days int) ([]models.ProgressMetric, error) {
	var rows []models.ProgressMetric
	err := s.db.Where("user_id = ? AND date >= ?", userID, windowStart(days)).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

// Chat

func (s *GormStore) CreateChatSession(userID uuid.UUID, title string) (*models.ChatSession, error) {
	if title == "" {
		title = "Chat " + time.Now().Format("Jan 2, 2006")
	}
	session := models.ChatSession{UserID: userID, Title: title}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *GormStore) ChatSession(userID, sessionID uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := s.db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *GormStore) ChatSessions(userID uuid.UUID) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := s.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (s *GormStore) CreateChatMessage(message *models.ChatMessage) error {
	if err := s.db.Create(message).Error; err != nil {
		return err
	}
	// Bump the session so it sorts to the top of the list.
	return s.db.Model(&models.ChatSession{}).
		Where("id = ?", message.SessionID).
		Update("updated_at", time.Now()).Error
}

func (s *GormStore) ChatMessages(sessionID uuid.UUID) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := s.db.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// Quotes

func (s *GormStore) RandomQuote() (*models.Quote, error) {
	var quotes []models.Quote
	if err := s.db.Limit(50).Find(&quotes).Error; err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, ErrNotFound
	}
	return &quotes[rand.Intn(len(quotes))], nil
}

// Notifications

func (s *GormStore) CreateNotification(notification *models.Notification) error {
	return s.db.Create(notification).Error
}

func (s *GormStore) Notifications(userID uuid.UUID, offset, limit int) ([]models.Notification, int64, int64, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, 0, err
	}

	var total, unread int64
	s.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total)
	s.db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", userID, false).Count(&unread)

	return notifications, total, unread, nil
}

func (s *GormStore) MarkNotificationRead(userID, notificationID uuid.UUID) (bool, error) {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	return result.RowsAffected > 0, result.Error
}

func (s *GormStore) MarkAllNotificationsRead(userID uuid.UUID) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

var _ Store = (*GormStore)(nil)
