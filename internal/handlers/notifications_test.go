package handlers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/maren/innerlog-api/internal/middleware"
	"github.com/maren/innerlog-api/internal/models"
	"github.com/maren/innerlog-api/internal/repository"
)

func newNotificationsApp(store repository.Store) *fiber.App {
	h := NewNotificationHandler(store)

	app := fiber.New()
	api := app.Group("/api", middleware.Protected(testSecret))
	api.Get("/notifications", h.GetNotifications)
	api.Put("/notifications/:id/read", h.MarkNotificationRead)
	api.Post("/notifications/read-all", h.MarkAllRead)
	api.Post("/device-token", h.RegisterDeviceToken)
	return app
}

func seedNotifications(t *testing.T, store repository.Store, userID uuid.UUID, n int) []models.Notification {
	t.Helper()
	out := make([]models.Notification, n)
	for i := 0; i < n; i++ {
		out[i] = models.Notification{
			UserID: userID,
			Type:   models.NotificationMoodCheckIn,
			Title:  "How are you feeling?",
		}
		if err := store.CreateNotification(&out[i]); err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}
	return out
}

func TestGetNotifications_Pagination(t *testing.T) {
	store := newHandlerStore(t)
	app := newNotificationsApp(store)
	userID := uuid.New()
	seedNotifications(t, store, userID, 25)

	resp, err := app.Test(authedJSONRequest(t, userID, http.MethodGet, "/api/notifications?page=2&limit=20", ""))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Notifications []models.Notification `json:"notifications"`
		Total         int64                 `json:"total"`
		Unread        int64                 `json:"unread"`
		Page          int                   `json:"page"`
	}
	decodeBody(t, resp, &body)

	if body.Total != 25 || body.Unread != 25 {
		t.Errorf("total/unread = %d/%d, want 25/25", body.Total, body.Unread)
	}
	if len(body.Notifications) != 5 {
		t.Errorf("page 2 size = %d, want 5", len(body.Notifications))
	}
	if body.Page != 2 {
		t.Errorf("page = %d, want 2", body.Page)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	store := newHandlerStore(t)
	app := newNotificationsApp(store)
	userID := uuid.New()
	seeded := seedNotifications(t, store, userID, 2)

	resp, err := app.Test(authedJSONRequest(t, userID, http.MethodPut,
		"/api/notifications/"+seeded[0].ID.String()+"/read", ""))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	_, _, unread, err := store.Notifications(userID, 0, 20)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if unread != 1 {
		t.Errorf("unread = %d, want 1", unread)
	}
}

func TestMarkNotificationRead_OtherUsersNotification(t *testing.T) {
	store := newHandlerStore(t)
	app := newNotificationsApp(store)
	seeded := seedNotifications(t, store, uuid.New(), 1)

	resp, err := app.Test(authedJSONRequest(t, uuid.New(), http.MethodPut,
		"/api/notifications/"+seeded[0].ID.String()+"/read", ""))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestMarkAllRead(t *testing.T) {
	store := newHandlerStore(t)
	app := newNotificationsApp(store)
	userID := uuid.New()
	seedNotifications(t, store, userID, 3)

	resp, err := app.Test(authedJSONRequest(t, userID, http.MethodPost, "/api/notifications/read-all", ""))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	_, _, unread, err := store.Notifications(userID, 0, 20)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if unread != 0 {
		t.Errorf("unread = %d, want 0", unread)
	}
}

func TestRegisterDeviceToken(t *testing.T) {
	store := newHandlerStore(t)
	app := newNotificationsApp(store)

	user := models.User{Email: "push@example.com"}
	if err := store.CreateUser(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	resp, err := app.Test(authedJSONRequest(t, user.ID, http.MethodPost, "/api/device-token",
		`{"token":"fcm-token-abc"}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	reloaded, err := store.UserByID(user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.FCMToken != "fcm-token-abc" {
		t.Errorf("fcm token = %q", reloaded.FCMToken)
	}

	resp, err = app.Test(authedJSONRequest(t, user.ID, http.MethodPost, "/api/device-token", `{}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400 without a token", resp.StatusCode)
	}
}
