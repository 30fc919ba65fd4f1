package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/maren/innerlog-api/internal/models"
)

// ErrUnparsable marks LLM output that could not be decoded into the
// requested structure. Callers decide the fallback policy; the parser never
// substitutes one silently.
var ErrUnparsable = errors.New("unparsable llm output")

// DailyComparison is the structured result of comparing a morning plan with
// the evening's accomplishments.
type DailyComparison struct {
	CompletionPercentage   float64  `json:"completion_percentage"`
	CompletedTasks         []string `json:"completed_tasks"`
	MissedTasks            []string `json:"missed_tasks"`
	UnexpectedAchievements []string `json:"unexpected_achievements"`
	Insights               string   `json:"insights"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
}

// ParseTaskBreakdown decodes a generated task breakdown.
func ParseTaskBreakdown(raw string) (models.TaskBreakdown, error) {
	var breakdown models.TaskBreakdown
	if err := decodeJSON(raw, &breakdown); err != nil {
		return models.TaskBreakdown{}, err
	}
	if breakdown.Priority1 == "" {
		return models.TaskBreakdown{}, fmt.Errorf("%w: missing priority1", ErrUnparsable)
	}
	return breakdown, nil
}

// ParseEveningAnalysis decodes an evening reflection analysis.
func ParseEveningAnalysis(raw string) (models.EveningAnalysis, error) {
	var analysis models.EveningAnalysis
	if err := decodeJSON(raw, &analysis); err != nil {
		return models.EveningAnalysis{}, err
	}
	return analysis, nil
}

// ParseDailyComparison decodes a plan-vs-accomplishments comparison.
func ParseDailyComparison(raw string) (DailyComparison, error) {
	var comparison DailyComparison
	if err := decodeJSON(raw, &comparison); err != nil {
		return DailyComparison{}, err
	}
	return comparison, nil
}

// FallbackTaskBreakdown is the canned breakdown used when generation or
// parsing fails.
func FallbackTaskBreakdown() models.TaskBreakdown {
	return models.TaskBreakdown{
		Priority1: "Focus on the most important thing you planned today",
		Priority3: []string{
			"Break your plan into smaller steps",
			"Take a proper break mid-day",
			"Review how the day went this evening",
		},
		Priority5: []string{
			"Tidy your workspace",
			"Drink enough water",
			"Take a short walk",
			"Write down anything on your mind",
			"Plan tomorrow's first task",
		},
	}
}

// FallbackDailyComparison is the canned comparison used when generation or
// parsing fails. The evening's known accomplishments seed the completed
// list.
func FallbackDailyComparison(accomplishments []string) DailyComparison {
	completed := accomplishments
	if len(completed) > 3 {
		completed = completed[:3]
	}
	return DailyComparison{
		CompletionPercentage: 60,
		CompletedTasks:       completed,
		MissedTasks:          []string{},
		UnexpectedAchievements: []string{},
		Insights:               "You made progress today! Every step forward counts.",
		ImprovementSuggestions: []string{
			"Continue with your current approach",
			"Celebrate your wins",
		},
	}
}

// FallbackFeedback is returned when the feedback generation call fails.
const FallbackFeedback = "You're making progress every day! Your commitment to self-reflection shows real strength. Keep believing in yourself!"

// decodeJSON unmarshals model output that may be wrapped in markdown code
// fences or surrounded by prose.
func decodeJSON(raw string, v any) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	// Models sometimes add prose around the object; decode the outermost
	// braces only.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("%w: no JSON object found", ErrUnparsable)
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	return nil
}
