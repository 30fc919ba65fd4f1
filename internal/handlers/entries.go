package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/maren/innerlog-api/internal/llm"
	"github.com/maren/innerlog-api/internal/middleware"
	"github.com/maren/innerlog-api/internal/models"
	"github.com/maren/innerlog-api/internal/repository"
	"github.com/maren/innerlog-api/internal/services"
)

type EntryHandler struct {
	store repository.Store
	ai    llm.Generator
	push  *services.PushService
	log   zerolog.Logger
}

func NewEntryHandler(store repository.Store, ai llm.Generator, push *services.PushService, log zerolog.Logger) *EntryHandler {
	return &EntryHandler{store: store, ai: ai, push: push, log: log}
}

// parseDateParam validates the :date path segment.
func parseDateParam(c *fiber.Ctx) (string, error) {
	date := c.Params("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", err
	}
	return date, nil
}

// UpsertEntry merges the request fields into the (user, date) entry,
// creating it on first save.
func (h *EntryHandler) UpsertEntry(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	date, err := parseDateParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	var req models.UpsertDailyEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	entry, err := h.store.UpsertDailyEntry(userID, date, req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save entry",
		})
	}

	return c.JSON(entry)
}

func (h *EntryHandler) GetEntry(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	date, err := parseDateParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	entry, err := h.store.DailyEntry(userID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No entry found for this date",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch entry",
		})
	}

	return c.JSON(entry)
}

func (h *EntryHandler) ListEntries(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "30"))
	if limit < 1 || limit > 100 {
		limit = 30
	}

	entries, err := h.store.DailyEntries(userID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch entries",
		})
	}
	if entries == nil {
		entries = []models.DailyEntry{}
	}

	return c.JSON(entries)
}

// GenerateTasks turns the entry's morning plan into a 1-3-5 task breakdown.
// When the model output cannot be parsed the canned breakdown is used and
// the response says so; callers can tell a real breakdown from the
// fallback.
func (h *EntryHandler) GenerateTasks(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	date, err := parseDateParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	entry, err := h.store.DailyEntry(userID, date)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No entry found for this date",
		})
	}
	if entry.MorningPlan == nil || *entry.MorningPlan == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Entry has no morning plan",
		})
	}

	raw, err := h.ai.Generate(c.Context(), "", llm.TaskBreakdownPrompt(*entry.MorningPlan))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to generate tasks",
		})
	}

	fallback := false
	breakdown, err := llm.ParseTaskBreakdown(raw)
	if err != nil {
		h.log.Warn().Err(err).Str("date", date).Msg("task breakdown unparsable, using fallback")
		breakdown = llm.FallbackTaskBreakdown()
		fallback = true
	}

	encoded, err := json.Marshal(breakdown)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to encode tasks",
		})
	}
	tasksJSON := string(encoded)
	entry.GeneratedTasks = &tasksJSON
	if err := h.store.SaveDailyEntry(entry); err != nil {
		// Advisory: the breakdown is still returned.
		h.log.Warn().Err(err).Str("date", date).Msg("failed to persist generated tasks")
	}

	return c.JSON(fiber.Map{
		"tasks":    breakdown,
		"fallback": fallback,
	})
}

// AnalyzeEvening runs the evening reflection through the model, stores the
// structured analysis, writes the extracted accomplishments and lessons,
// and records the detected mood.
func (h *EntryHandler) AnalyzeEvening(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	date, err := parseDateParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	entry, err := h.store.DailyEntry(userID, date)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No entry found for this date",
		})
	}
	if entry.EveningReflection == nil || *entry.EveningReflection == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Entry has no evening reflection",
		})
	}

	plan := ""
	if entry.MorningPlan != nil {
		plan = *entry.MorningPlan
	}

	raw, err := h.ai.Generate(c.Context(), "", llm.EveningAnalysisPrompt(plan, *entry.EveningReflection))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to analyze reflection",
		})
	}

	analysis, err := llm.ParseEveningAnalysis(raw)
	if err != nil {
		// Nothing trustworthy to persist; hand back the canned shape.
		h.log.Warn().Err(err).Str("date", date).Msg("evening analysis unparsable")
		return c.JSON(fiber.Map{
			"analysis": models.EveningAnalysis{Summary: "Reflection saved. Analysis was unavailable this time."},
			"fallback": true,
		})
	}

	encoded, err := json.Marshal(analysis)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to encode analysis",
		})
	}
	analysisJSON := string(encoded)
	entry.EveningAnalysis = &analysisJSON
	if err := h.store.SaveDailyEntry(entry); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save analysis",
		})
	}

	if err := h.store.CreateAccomplishments(userID, entry.ID, analysis.Accomplishments); err != nil {
		h.log.Warn().Err(err).Str("date", date).Msg("failed to save accomplishments")
	}
	if err := h.store.CreateLessons(userID, entry.ID, analysis.LessonsLearned); err != nil {
		h.log.Warn().Err(err).Str("date", date).Msg("failed to save lessons")
	}

	if analysis.Mood != "" {
		mood := models.MoodEntry{
			UserID:     userID,
			Date:       date,
			Mood:       analysis.Mood,
			Confidence: clampConfidence(analysis.MoodConfidence),
			Source:     models.MoodSourceAIDetected,
		}
		if err := h.store.CreateMoodEntry(&mood); err != nil {
			h.log.Warn().Err(err).Str("date", date).Msg("failed to save detected mood")
		}
	}

	notifyUser(h.store, h.push, h.log, userID, models.NotificationAnalysisReady,
		"Your evening analysis is ready",
		"Open today's entry to see what stood out.",
		map[string]interface{}{"date": date})

	return c.JSON(fiber.Map{
		"analysis": analysis,
		"fallback": false,
	})
}
