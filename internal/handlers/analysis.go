package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maren/innerlog-api/internal/analytics"
	"github.com/maren/innerlog-api/internal/llm"
	"github.com/maren/innerlog-api/internal/middleware"
	"github.com/maren/innerlog-api/internal/models"
	"github.com/maren/innerlog-api/internal/repository"
)

// Analysis types accepted by the dispatch endpoint.
const (
	AnalysisDailyComparison     = "daily_comparison"
	AnalysisProgressTracking    = "progress_tracking"
	AnalysisMoodPatterns        = "mood_patterns"
	AnalysisEncouragingFeedback = "encouraging_feedback"
)

type AnalysisRequest struct {
	Type string `json:"type" validate:"required"`
	Date string `json:"date"`
}

type AnalysisHandler struct {
	store      repository.Store
	aggregator *analytics.Aggregator
	assembler  *analytics.Assembler
	ai         llm.Generator
	log        zerolog.Logger
}

func NewAnalysisHandler(store repository.Store, aggregator *analytics.Aggregator, assembler *analytics.Assembler, ai llm.Generator, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{store: store, aggregator: aggregator, assembler: assembler, ai: ai, log: log}
}

func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req AnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	switch req.Type {
	case AnalysisDailyComparison:
		return h.dailyComparison(c, userID, date)
	case AnalysisProgressTracking:
		return h.progressTracking(c, userID)
	case AnalysisMoodPatterns:
		return h.moodPatterns(c, userID)
	case AnalysisEncouragingFeedback:
		return h.encouragingFeedback(c, userID, date)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis type",
		})
	}
}

// dailyComparison compares the morning plan against the evening's
// accomplishments. Missing entry for the date is the one genuine
// caller-facing error; an unparsable model response degrades to the canned
// comparison.
func (h *AnalysisHandler) dailyComparison(c *fiber.Ctx, userID uuid.UUID, date string) error {
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

	morningPlan := ""
	if entry.MorningPlan != nil {
		morningPlan = *entry.MorningPlan
	}
	generatedTasks := "null"
	if entry.GeneratedTasks != nil {
		generatedTasks = *entry.GeneratedTasks
	}

	// Accomplishments come from the stored evening analysis.
	var accomplishments []string
	if entry.EveningAnalysis != nil {
		var analysis models.EveningAnalysis
		if err := json.Unmarshal([]byte(*entry.EveningAnalysis), &analysis); err == nil {
			accomplishments = analysis.Accomplishments
		}
	}

	raw, err := h.ai.Generate(c.Context(), "", llm.DailyComparisonPrompt(morningPlan, generatedTasks, accomplishments))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to generate comparison",
		})
	}

	fallback := false
	comparison, err := llm.ParseDailyComparison(raw)
	if err != nil {
		h.log.Warn().Err(err).Str("date", date).Msg("daily comparison unparsable, using fallback")
		comparison = llm.FallbackDailyComparison(accomplishments)
		fallback = true
	}

	// Advisory write: the comparison is returned regardless.
	if err := h.store.UpsertProgress(userID, models.MetricTaskCompletion, comparison.CompletionPercentage, date); err != nil {
		h.log.Warn().Err(err).Str("date", date).Msg("task completion upsert failed")
	}

	return c.JSON(fiber.Map{
		"analysis": comparison,
		"fallback": fallback,
	})
}

func (h *AnalysisHandler) progressTracking(c *fiber.Ctx, userID uuid.UUID) error {
	progress := h.aggregator.Snapshot(userID)

	historical, err := h.store.ProgressData(userID, analytics.DefaultWindowDays)
	if err != nil {
		h.log.Warn().Err(err).Str("user", userID.String()).Msg("historical progress fetch failed")
		historical = nil
	}
	if historical == nil {
		historical = []models.ProgressMetric{}
	}

	return c.JSON(fiber.Map{
		"progress":        progress,
		"historical_data": historical,
	})
}

func (h *AnalysisHandler) moodPatterns(c *fiber.Ctx, userID uuid.UUID) error {
	moods, err := h.store.MoodEntries(userID, analytics.DefaultWindowDays)
	if err != nil {
		h.log.Warn().Err(err).Str("user", userID.String()).Msg("mood fetch failed, reporting no data")
		moods = nil
	}

	result := analytics.AnalyzePatterns(moods)
	return c.JSON(result)
}

// encouragingFeedback never fails outward: any LLM or fetch problem yields
// the canned encouragement.
func (h *AnalysisHandler) encouragingFeedback(c *fiber.Ctx, userID uuid.UUID, date string) error {
	bundle := h.assembler.UserContext(c.Context(), userID, analytics.DefaultContextDays)

	today, err := h.store.DailyEntry(userID, date)
	if err != nil {
		today = nil
	}

	feedback, err := h.ai.Generate(c.Context(), "", llm.FeedbackPrompt(bundle, today))
	if err != nil || feedback == "" {
		if err != nil {
			h.log.Warn().Err(err).Str("user", userID.String()).Msg("feedback generation failed, using fallback")
		}
		feedback = llm.FallbackFeedback
	}

	return c.JSON(fiber.Map{
		"feedback": feedback,
	})
}
