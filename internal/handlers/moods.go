package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/maren/innerlog-api/internal/middleware"
	"github.com/maren/innerlog-api/internal/models"
	"github.com/maren/innerlog-api/internal/repository"
)

type MoodHandler struct {
	store repository.Store
}

func NewMoodHandler(store repository.Store) *MoodHandler {
	return &MoodHandler{store: store}
}

// clampConfidence keeps confidence inside [0,1]; out-of-range values are
// clamped at write time so stored data is always in range.
func clampConfidence(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

func (h *MoodHandler) CreateMood(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateMoodEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Mood == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Mood is required",
		})
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	confidence := req.Confidence
	if confidence == 0 {
		confidence = 1 // a manual check-in is certain by default
	}

	entry := models.MoodEntry{
		UserID:      userID,
		Date:        date,
		Mood:        req.Mood,
		Confidence:  clampConfidence(confidence),
		Description: req.Description,
		Source:      models.MoodSourceManual,
	}
	if err := h.store.CreateMoodEntry(&entry); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save mood",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *MoodHandler) ListMoods(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	days, _ := strconv.Atoi(c.Query("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}

	moods, err := h.store.MoodEntries(userID, days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch moods",
		})
	}
	if moods == nil {
		moods = []models.MoodEntry{}
	}

	return c.JSON(moods)
}
