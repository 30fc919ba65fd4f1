package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/maren/innerlog-api/internal/models"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
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
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return NewGormStore(db)
}

func isoDaysAgo(n int) string {
	return time.Now().AddDate(0, 0, -n).Format("2006-01-02")
}

func strPtr(s string) *string { return &s }

func TestUpsertDailyEntry_CreatesThenMerges(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()
	date := isoDaysAgo(0)

	first, err := store.UpsertDailyEntry(userID, date, models.UpsertDailyEntryRequest{
		MorningPlan: strPtr("write the report"),
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := store.UpsertDailyEntry(userID, date, models.UpsertDailyEntryRequest{
		EveningReflection: strPtr("the report went well"),
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second upsert created a new row: %s != %s", second.ID, first.ID)
	}
	if second.MorningPlan == nil || *second.MorningPlan != "write the report" {
		t.Error("morning plan was lost by the evening upsert")
	}
	if second.EveningReflection == nil || *second.EveningReflection != "the report went well" {
		t.Error("evening reflection not saved")
	}

	entries, err := store.DailyEntries(userID, 10)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries for (user, date) = %d rows, want 1", len(entries))
	}
}

func TestUpsertDailyEntry_OverwritesProvidedField(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()
	date := isoDaysAgo(0)

	if _, err := store.UpsertDailyEntry(userID, date, models.UpsertDailyEntryRequest{
		MorningPlan: strPtr("old plan"),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	entry, err := store.UpsertDailyEntry(userID, date, models.UpsertDailyEntryRequest{
		MorningPlan: strPtr("new plan"),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if *entry.MorningPlan != "new plan" {
		t.Errorf("morning plan = %q, want %q", *entry.MorningPlan, "new plan")
	}
}

func TestDailyEntry_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.DailyEntry(uuid.New(), isoDaysAgo(0))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsertProgress_OneRowPerMetricDate(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()
	date := isoDaysAgo(0)

	if err := store.UpsertProgress(userID, models.MetricMoodScore, 55, date); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := store.UpsertProgress(userID, models.MetricMoodScore, 72.5, date); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := store.ProgressData(userID, 7)
	if err != nil {
		t.Fatalf("progress data: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 after repeated upsert", len(rows))
	}
	if rows[0].Value != 72.5 {
		t.Errorf("value = %.2f, want 72.5 (latest write wins)", rows[0].Value)
	}
}

func TestUpsertProgress_DistinctMetricsCoexist(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()
	date := isoDaysAgo(0)

	for _, m := range []models.MetricType{models.MetricMoodScore, models.MetricConsistency, models.MetricReflectionQuality} {
		if err := store.UpsertProgress(userID, m, 10, date); err != nil {
			t.Fatalf("upsert %s: %v", m, err)
		}
	}

	rows, err := store.ProgressData(userID, 7)
	if err != nil {
		t.Fatalf("progress data: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want 3", len(rows))
	}
}

func TestMoodEntries_WindowFilter(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	for _, daysAgo := range []int{0, 3, 40} {
		entry := models.MoodEntry{
			UserID:     userID,
			Date:       isoDaysAgo(daysAgo),
			Mood:       "calm",
			Confidence: 1,
			Source:     models.MoodSourceManual,
		}
		if err := store.CreateMoodEntry(&entry); err != nil {
			t.Fatalf("create mood: %v", err)
		}
	}

	moods, err := store.MoodEntries(userID, 30)
	if err != nil {
		t.Fatalf("mood entries: %v", err)
	}
	if len(moods) != 2 {
		t.Errorf("moods in 30-day window = %d, want 2", len(moods))
	}
}

func TestAccomplishments_JoinWindow(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	recent, err := store.UpsertDailyEntry(userID, isoDaysAgo(1), models.UpsertDailyEntryRequest{})
	if err != nil {
		t.Fatalf("upsert recent entry: %v", err)
	}
	old, err := store.UpsertDailyEntry(userID, isoDaysAgo(40), models.UpsertDailyEntryRequest{})
	if err != nil {
		t.Fatalf("upsert old entry: %v", err)
	}

	if err := store.CreateAccomplishments(userID, recent.ID, []string{"finished the draft"}); err != nil {
		t.Fatalf("create recent accomplishments: %v", err)
	}
	if err := store.CreateAccomplishments(userID, old.ID, []string{"ancient history"}); err != nil {
		t.Fatalf("create old accomplishments: %v", err)
	}

	rows, err := store.Accomplishments(userID, 7)
	if err != nil {
		t.Fatalf("accomplishments: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 inside the window", len(rows))
	}
	if rows[0].Accomplishment != "finished the draft" {
		t.Errorf("accomplishment = %q", rows[0].Accomplishment)
	}
}

func TestLessons_JoinWindow(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	entry, err := store.UpsertDailyEntry(userID, isoDaysAgo(2), models.UpsertDailyEntryRequest{})
	if err != nil {
		t.Fatalf("upsert entry: %v", err)
	}
	if err := store.CreateLessons(userID, entry.ID, []string{"start earlier", "ask for help"}); err != nil {
		t.Fatalf("create lessons: %v", err)
	}

	rows, err := store.Lessons(userID, 7)
	if err != nil {
		t.Fatalf("lessons: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}
}

func TestChatMessages_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	session, err := store.CreateChatSession(userID, "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if session.Title == "" {
		t.Error("empty title was not defaulted")
	}

	msg := models.ChatMessage{
		SessionID:   session.ID,
		UserID:      userID,
		Role:        models.ChatRoleUser,
		Message:     "I had a rough day",
		Response:    strPtr("That sounds hard. Want to talk through it?"),
		ContextUsed: true,
	}
	if err := store.CreateChatMessage(&msg); err != nil {
		t.Fatalf("create message: %v", err)
	}

	messages, err := store.ChatMessages(session.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(messages))
	}
	if messages[0].Response == nil || !messages[0].ContextUsed {
		t.Error("response or context flag not persisted")
	}
}

func TestChatSession_OwnershipScoped(t *testing.T) {
	store := newTestStore(t)
	owner := uuid.New()

	session, err := store.CreateChatSession(owner, "private")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if _, err := store.ChatSession(uuid.New(), session.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for another user", err)
	}
}

func TestRandomQuote_EmptyTable(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.RandomQuote(); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNotifications_CountsAndRead(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	var first models.Notification
	for i := 0; i < 3; i++ {
		n := models.Notification{
			UserID: userID,
			Type:   models.NotificationAnalysisReady,
			Title:  fmt.Sprintf("notification %d", i),
		}
		if err := store.CreateNotification(&n); err != nil {
			t.Fatalf("create notification: %v", err)
		}
		if i == 0 {
			first = n
		}
	}

	found, err := store.MarkNotificationRead(userID, first.ID)
	if err != nil || !found {
		t.Fatalf("mark read = (%v, %v), want (true, nil)", found, err)
	}

	notifications, total, unread, err := store.Notifications(userID, 0, 20)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifications) != 3 || total != 3 || unread != 2 {
		t.Errorf("list/total/unread = %d/%d/%d, want 3/3/2", len(notifications), total, unread)
	}

	if found, _ := store.MarkNotificationRead(uuid.New(), first.ID); found {
		t.Error("another user could mark the notification read")
	}

	if err := store.MarkAllNotificationsRead(userID); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	_, _, unread, err = store.Notifications(userID, 0, 20)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if unread != 0 {
		t.Errorf("unread = %d, want 0 after mark-all", unread)
	}
}
