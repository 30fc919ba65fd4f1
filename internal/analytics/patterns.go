package analytics

import (
	"fmt"

	"github.com/maren/innerlog-api/internal/models"
)

// Trend classifications
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

const subWindowSize = 7

// MoodPatterns characterizes a user's recent mood trajectory.
type MoodPatterns struct {
	MostCommonMood   string         `json:"most_common_mood"`
	MoodDistribution map[string]int `json:"mood_distribution"`
	Trend            string         `json:"trend"`
	RecentAverage    float64        `json:"recent_average"`
	PreviousAverage  float64        `json:"previous_average"`
}

// PatternResult pairs the patterns with the rendered insight. Patterns is
// nil when there is not enough data to compute a trend.
type PatternResult struct {
	Patterns *MoodPatterns `json:"patterns"`
	Insights string        `json:"insights"`
}

// AnalyzePatterns computes the mood distribution, the most common mood, and
// a two-window trend over mood entries ordered newest-first. Count ties on
// the most common mood break to the lexicographically smallest label so the
// result does not depend on map iteration order.
func AnalyzePatterns(moods []models.MoodEntry) PatternResult {
	if len(moods) == 0 {
		return PatternResult{Insights: "Not enough mood data yet"}
	}

	distribution := make(map[string]int)
	for _, m := range moods {
		distribution[m.Mood]++
	}

	mostCommon := ""
	best := 0
	for mood, count := range distribution {
		if count > best || (count == best && mood < mostCommon) {
			mostCommon = mood
			best = count
		}
	}

	recent := subWindowAverage(moods, 0, subWindowSize)
	previous := subWindowAverage(moods, subWindowSize, 2*subWindowSize)

	trend := TrendStable
	switch {
	case recent > previous:
		trend = TrendImproving
	case recent < previous:
		trend = TrendDeclining
	}

	patterns := &MoodPatterns{
		MostCommonMood:   mostCommon,
		MoodDistribution: distribution,
		Trend:            trend,
		RecentAverage:    recent,
		PreviousAverage:  previous,
	}
	return PatternResult{
		Patterns: patterns,
		Insights: moodInsight(mostCommon, trend, recent),
	}
}

// subWindowAverage is the mean mood score of moods[from:to), neutral when
// the slice is empty.
func subWindowAverage(moods []models.MoodEntry, from, to int) float64 {
	if from > len(moods) {
		from = len(moods)
	}
	if to > len(moods) {
		to = len(moods)
	}
	window := moods[from:to]
	if len(window) == 0 {
		return neutralScore
	}
	sum := 0
	for _, m := range window {
		sum += MoodScore(m.Mood)
	}
	return float64(sum) / float64(len(window))
}

// moodInsight renders the fixed-template insight string keyed by trend
// direction and recent-average band.
func moodInsight(mostCommon, trend string, recentAverage float64) string {
	insight := fmt.Sprintf("Your most common mood lately has been %q. ", mostCommon)

	switch trend {
	case TrendImproving:
		insight += "Great news - your mood has been trending upward! "
	case TrendDeclining:
		insight += "Your mood has dipped recently, but this is temporary. "
	default:
		insight += "Your mood has been stable. "
	}

	switch {
	case recentAverage >= 70:
		insight += "You're in a really positive space right now."
	case recentAverage >= 50:
		insight += "You're maintaining a balanced emotional state."
	default:
		insight += "Remember that difficult emotions are temporary. You're stronger than you know."
	}

	return insight
}
