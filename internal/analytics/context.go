package analytics

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/maren/innerlog-api/internal/models"
)

// DefaultContextDays is the trailing window assembled for prompt context.
const DefaultContextDays = 7

// TruncateLimit is the per-field character budget applied when formatting
// free text into a prompt.
const TruncateLimit = 150

// ContextSource is what the assembler reads from the persistence gateway.
type ContextSource interface {
	DailyEntries(userID uuid.UUID, limit int) ([]models.DailyEntry, error)
	MoodEntries(userID uuid.UUID, days int) ([]models.MoodEntry, error)
	Accomplishments(userID uuid.UUID, days int) ([]models.Accomplishment, error)
	Lessons(userID uuid.UUID, days int) ([]models.LessonLearned, error)
}

// ContextBundle is the bounded slice of a user's history handed to prompt
// templates.
type ContextBundle struct {
	DailyEntries    []models.DailyEntry    `json:"dailyEntries"`
	MoodEntries     []models.MoodEntry     `json:"moodEntries"`
	Accomplishments []models.Accomplishment `json:"accomplishments"`
	Lessons         []models.LessonLearned `json:"lessons"`
}

// Assembler gathers recent history for LLM prompt personalization. It is
// purely read-side and degrades to a nil bundle when any fetch fails;
// callers treat an absent bundle as "no personalization available".
type Assembler struct {
	src ContextSource
	log zerolog.Logger
}

func NewAssembler(src ContextSource, log zerolog.Logger) *Assembler {
	return &Assembler{src: src, log: log}
}

// UserContext fetches the four history slices concurrently and joins them
// into one bundle.
func (a *Assembler) UserContext(ctx context.Context, userID uuid.UUID, days int) *ContextBundle {
	if days <= 0 {
		days = DefaultContextDays
	}

	var bundle ContextBundle
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		bundle.DailyEntries, err = a.src.DailyEntries(userID, days)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.MoodEntries, err = a.src.MoodEntries(userID, days)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.Accomplishments, err = a.src.Accomplishments(userID, days)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.Lessons, err = a.src.Lessons(userID, days)
		return err
	})

	if err := g.Wait(); err != nil {
		a.log.Warn().Err(err).Str("user", userID.String()).Msg("context fetch failed, continuing without personalization")
		return nil
	}
	return &bundle
}

// Truncate hard-cuts s to the given rune budget, appending an ellipsis
// marker. Strings within budget pass through unchanged. The cut is not
// word-boundary aware.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
