package analytics

import "testing"

func TestMoodScore_KnownLabels(t *testing.T) {
	cases := map[string]int{
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

	for label, want := range cases {
		if got := MoodScore(label); got != want {
			t.Errorf("MoodScore(%q) = %d, want %d", label, got, want)
		}
	}
}

func TestMoodScore_CaseInsensitive(t *testing.T) {
	for _, label := range []string{"Happy", "HAPPY", "hApPy"} {
		if got := MoodScore(label); got != 90 {
			t.Errorf("MoodScore(%q) = %d, want 90", label, got)
		}
	}
}

func TestMoodScore_UnknownLabelsAreNeutral(t *testing.T) {
	for _, label := range []string{"", "ecstatic", "meh", "🙂", "very happy"} {
		if got := MoodScore(label); got != 50 {
			t.Errorf("MoodScore(%q) = %d, want 50", label, got)
		}
	}
}
