package analytics

import "strings"

// moodScores maps a mood label to a wellbeing score in [0,100].
var moodScores = map[string]int{
	"happy":      90,
	"content":    80,
	"satisfied":  75,
	"calm":       70,
	"neutral":    50,
	"tired":      40,
	"stressed":   30,
	"anxious":    25,
	"frustrated": 20,
	"sad":        15,
	"angry":      10,
}

// neutralScore is the midpoint used for unknown labels and empty windows.
const neutralScore = 50

// MoodScore maps a mood label (case-insensitive) to its wellbeing score.
// Labels outside the table score neutral, so the function is total over all
// strings.
func MoodScore(mood string) int {
	if score, ok := moodScores[strings.ToLower(mood)]; ok {
		return score
	}
	return neutralScore
}
