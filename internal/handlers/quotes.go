package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/maren/innerlog-api/internal/repository"
)

type QuoteHandler struct {
	store repository.Store
}

func NewQuoteHandler(store repository.Store) *QuoteHandler {
	return &QuoteHandler{store: store}
}

// RandomQuote returns one inspirational quote, or a null quote when none
// are seeded.
func (h *QuoteHandler) RandomQuote(c *fiber.Ctx) error {
	quote, err := h.store.RandomQuote()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(fiber.Map{"quote": nil})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch quote",
		})
	}

	return c.JSON(fiber.Map{"quote": quote})
}
