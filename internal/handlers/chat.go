package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maren/innerlog-api/internal/analytics"
	"github.com/maren/innerlog-api/internal/llm"
	"github.com/maren/innerlog-api/internal/middleware"
	"github.com/maren/innerlog-api/internal/models"
	"github.com/maren/innerlog-api/internal/repository"
)

type ChatHandler struct {
	store     repository.Store
	assembler *analytics.Assembler
	ai        llm.Generator
	hub       *Hub
	log       zerolog.Logger
}

func NewChatHandler(store repository.Store, assembler *analytics.Assembler, ai llm.Generator, hub *Hub, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{store: store, assembler: assembler, ai: ai, hub: hub, log: log}
}

// Chat is the plain completion endpoint: no history, no persistence.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	response, err := h.ai.Generate(c.Context(), "", req.Message)
	if err != nil {
		h.log.Warn().Err(err).Msg("chat completion failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to get response",
		})
	}

	return c.JSON(fiber.Map{
		"response": response,
	})
}

// ContextChat answers with the user's journal history woven into the
// prompt. The session is created lazily on the first message; the exchange
// is appended to it and broadcast to the session's websocket room.
func (h *ChatHandler) ContextChat(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.ContextChatRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	var session *models.ChatSession
	var err error
	if req.SessionID != nil {
		session, err = h.store.ChatSession(userID, *req.SessionID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
	} else {
		session, err = h.store.CreateChatSession(userID, "")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create session",
			})
		}
	}

	// Absent context means "no personalization", never an error.
	bundle := h.assembler.UserContext(c.Context(), userID, analytics.DefaultContextDays)

	response, err := h.ai.Generate(c.Context(), llm.ChatSystemPrompt, llm.ContextChatPrompt(bundle, req.Message))
	if err != nil {
		h.log.Warn().Err(err).Str("session", session.ID.String()).Msg("context chat failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to get response",
		})
	}

	message := models.ChatMessage{
		SessionID:   session.ID,
		UserID:      userID,
		Role:        models.ChatRoleUser,
		Message:     req.Message,
		Response:    &response,
		ContextUsed: bundle != nil,
	}
	if err := h.store.CreateChatMessage(&message); err != nil {
		// The response was generated; losing the transcript row is logged,
		// not surfaced.
		h.log.Warn().Err(err).Str("session", session.ID.String()).Msg("failed to persist chat message")
	}

	h.hub.Broadcast(session.ID, userID, WSEvent{
		Type:      EventChatMessage,
		SessionID: session.ID.String(),
		UserID:    userID.String(),
		Data:      message,
	})

	return c.JSON(fiber.Map{
		"response":    response,
		"sessionId":   session.ID,
		"contextUsed": bundle != nil,
	})
}

func (h *ChatHandler) CreateSession(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		req.Title = ""
	}

	session, err := h.store.CreateChatSession(userID, req.Title)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *ChatHandler) ListSessions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	sessions, err := h.store.ChatSessions(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch sessions",
		})
	}
	if sessions == nil {
		sessions = []models.ChatSession{}
	}

	return c.JSON(sessions)
}

func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	if _, err := h.store.ChatSession(userID, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch session",
		})
	}

	messages, err := h.store.ChatMessages(sessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch messages",
		})
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	return c.JSON(messages)
}
