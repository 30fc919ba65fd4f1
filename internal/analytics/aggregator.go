package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maren/innerlog-api/internal/models"
)

// DefaultWindowDays is the trailing window the aggregator reads.
const DefaultWindowDays = 30

// Source is the read side the aggregator needs from the persistence
// gateway.
type Source interface {
	DailyEntries(userID uuid.UUID, limit int) ([]models.DailyEntry, error)
	MoodEntries(userID uuid.UUID, days int) ([]models.MoodEntry, error)
}

// Sink is the write side: the advisory metric upserts.
type Sink interface {
	UpsertProgress(userID uuid.UUID, metric models.MetricType, value float64, date string) error
}

// Progress is the aggregate returned to callers, field-for-field the shape
// the UI renders.
type Progress struct {
	Consistency       float64 `json:"consistency"`
	MoodScore         float64 `json:"mood_score"`
	ReflectionQuality float64 `json:"reflection_quality"`
	TotalEntries      int     `json:"total_entries"`
	TotalMoods        int     `json:"total_moods"`
}

// Aggregator computes consistency, average mood, and reflection quality
// over a trailing window and writes the results back as today's progress
// metrics. The write-back is best-effort: a failed upsert is logged and the
// computed numbers are still returned.
type Aggregator struct {
	src        Source
	sink       Sink
	log        zerolog.Logger
	windowDays int
	now        func() time.Time
}

func NewAggregator(src Source, sink Sink, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		src:        src,
		sink:       sink,
		log:        log,
		windowDays: DefaultWindowDays,
		now:        time.Now,
	}
}

// Snapshot computes the three scores for the user's trailing window and
// upserts them for today. Fetch failures degrade to empty data rather than
// failing the computation.
func (a *Aggregator) Snapshot(userID uuid.UUID) Progress {
	entries, err := a.src.DailyEntries(userID, a.windowDays)
	if err != nil {
		a.log.Warn().Err(err).Str("user", userID.String()).Msg("daily entry fetch failed, using empty window")
		entries = nil
	}
	moods, err := a.src.MoodEntries(userID, a.windowDays)
	if err != nil {
		a.log.Warn().Err(err).Str("user", userID.String()).Msg("mood entry fetch failed, using empty window")
		moods = nil
	}

	progress := Progress{
		Consistency:       a.consistency(len(entries)),
		MoodScore:         averageMoodScore(moods),
		ReflectionQuality: reflectionQuality(entries),
		TotalEntries:      len(entries),
		TotalMoods:        len(moods),
	}

	today := a.now().Format("2006-01-02")
	a.persist(userID, models.MetricConsistency, progress.Consistency, today)
	a.persist(userID, models.MetricMoodScore, progress.MoodScore, today)
	a.persist(userID, models.MetricReflectionQuality, progress.ReflectionQuality, today)

	return progress
}

// consistency is entries per window day as a percentage, capped at 100.
func (a *Aggregator) consistency(entryCount int) float64 {
	score := float64(entryCount) / float64(a.windowDays) * 100
	if score > 100 {
		score = 100
	}
	return score
}

// averageMoodScore is the mean mood score over the window, neutral when no
// moods were recorded.
func averageMoodScore(moods []models.MoodEntry) float64 {
	if len(moods) == 0 {
		return neutralScore
	}
	sum := 0
	for _, m := range moods {
		sum += MoodScore(m.Mood)
	}
	return float64(sum) / float64(len(moods))
}

// reflectionQuality scores each entry min(100, reflection rune length) and
// averages over every fetched entry. Entries without an evening reflection
// count as 0 in the denominator.
func reflectionQuality(entries []models.DailyEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		quality := float64(e.ReflectionLength())
		if quality > 100 {
			quality = 100
		}
		sum += quality
	}
	return sum / float64(len(entries))
}

func (a *Aggregator) persist(userID uuid.UUID, metric models.MetricType, value float64, date string) {
	if err := a.sink.UpsertProgress(userID, metric, value, date); err != nil {
		a.log.Warn().Err(err).
			Str("user", userID.String()).
			Str("metric", string(metric)).
			Msg("progress upsert failed")
	}
}
