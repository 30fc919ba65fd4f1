package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maren/innerlog-api/internal/analytics"
	"github.com/maren/innerlog-api/internal/middleware"
	"github.com/maren/innerlog-api/internal/models"
	"github.com/maren/innerlog-api/internal/repository"
)

func newChatApp(store repository.Store, ai *fakeGenerator) *fiber.App {
	log := zerolog.Nop()
	h := NewChatHandler(store, analytics.NewAssembler(store, log), ai, NewHub(log), log)

	app := fiber.New()
	chat := app.Group("/api/chat", middleware.Protected(testSecret))
	chat.Post("/", h.Chat)
	chat.Post("/context", h.ContextChat)
	chat.Get("/sessions", h.ListSessions)
	chat.Post("/sessions", h.CreateSession)
	chat.Get("/sessions/:id/messages", h.ListMessages)
	return app
}

func TestChat_Plain(t *testing.T) {
	ai := &fakeGenerator{reply: "That sounds like a lot. What part weighed on you most?"}
	app := newChatApp(newHandlerStore(t), ai)

	resp, err := app.Test(authedJSONRequest(t, uuid.New(), http.MethodPost, "/api/chat/",
		`{"message":"long day at work"}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Response string `json:"response"`
	}
	decodeBody(t, resp, &body)
	if body.Response != ai.reply {
		t.Errorf("response = %q", body.Response)
	}
}

func TestChat_RequiresMessage(t *testing.T) {
	app := newChatApp(newHandlerStore(t), &fakeGenerator{})

	resp, err := app.Test(authedJSONRequest(t, uuid.New(), http.MethodPost, "/api/chat/", `{}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestChat_UpstreamFailure(t *testing.T) {
	app := newChatApp(newHandlerStore(t), &fakeGenerator{err: errors.New("unavailable")})

	resp, err := app.Test(authedJSONRequest(t, uuid.New(), http.MethodPost, "/api/chat/",
		`{"message":"hello"}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestContextChat_CreatesSessionLazily(t *testing.T) {
	store := newHandlerStore(t)
	ai := &fakeGenerator{reply: "It makes sense you feel drained after a week like that."}
	app := newChatApp(store, ai)
	userID := uuid.New()

	resp, err := app.Test(authedJSONRequest(t, userID, http.MethodPost, "/api/chat/context",
		`{"message":"I feel drained"}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Response    string    `json:"response"`
		SessionID   uuid.UUID `json:"sessionId"`
		ContextUsed bool      `json:"contextUsed"`
	}
	decodeBody(t, resp, &body)

	if body.SessionID == uuid.Nil {
		t.Fatal("no session created")
	}
	if !body.ContextUsed {
		t.Error("contextUsed = false, want true when fetches succeed")
	}

	messages, err := store.ChatMessages(body.SessionID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(messages))
	}
	if messages[0].Message != "I feel drained" {
		t.Errorf("message = %q", messages[0].Message)
	}
	if messages[0].Response == nil || *messages[0].Response != ai.reply {
		t.Error("assistant response not persisted with the exchange")
	}
}

func TestContextChat_ReusesExistingSession(t *testing.T) {
	store := newHandlerStore(t)
	ai := &fakeGenerator{reply: "ok"}
	app := newChatApp(store, ai)
	userID := uuid.New()

	session, err := store.CreateChatSession(userID, "check-in")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	body := `{"message":"following up","sessionId":"` + session.ID.String() + `"}`
	resp, err := app.Test(authedJSONRequest(t, userID, http.MethodPost, "/api/chat/context", body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		SessionID uuid.UUID `json:"sessionId"`
	}
	decodeBody(t, resp, &out)
	if out.SessionID != session.ID {
		t.Errorf("sessionId = %s, want %s", out.SessionID, session.ID)
	}
}

func TestContextChat_RejectsForeignSession(t *testing.T) {
	store := newHandlerStore(t)
	app := newChatApp(store, &fakeGenerator{reply: "ok"})

	session, err := store.CreateChatSession(uuid.New(), "not yours")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	body := `{"message":"hi","sessionId":"` + session.ID.String() + `"}`
	resp, err := app.Test(authedJSONRequest(t, uuid.New(), http.MethodPost, "/api/chat/context", body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListMessages_ForeignSessionNotFound(t *testing.T) {
	store := newHandlerStore(t)
	app := newChatApp(store, &fakeGenerator{})

	session, err := store.CreateChatSession(uuid.New(), "private")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	resp, err := app.Test(authedJSONRequest(t, uuid.New(), http.MethodGet,
		"/api/chat/sessions/"+session.ID.String()+"/messages", ""))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateAndListSessions(t *testing.T) {
	store := newHandlerStore(t)
	app := newChatApp(store, &fakeGenerator{})
	userID := uuid.New()

	resp, err := app.Test(authedJSONRequest(t, userID, http.MethodPost, "/api/chat/sessions",
		`{"title":"evening check-in"}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	resp, err = app.Test(authedJSONRequest(t, userID, http.MethodGet, "/api/chat/sessions", ""))
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var sessions []models.ChatSession
	decodeBody(t, resp, &sessions)
	if len(sessions) != 1 || sessions[0].Title != "evening check-in" {
		t.Errorf("sessions = %+v", sessions)
	}
}
