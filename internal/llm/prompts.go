package llm

import (
	"fmt"
	"math"
	"strings"

	"github.com/maren/innerlog-api/internal/analytics"
	"github.com/maren/innerlog-api/internal/models"
)

// ChatSystemPrompt frames the conversational companion.
const ChatSystemPrompt = `You are a compassionate AI mental health companion. You have access to the user's journal entries, mood patterns, and personal growth journey. Always respond with empathy, understanding, and therapeutic insights.

Key Guidelines:
- Be supportive and non-judgmental
- Draw insights from their journal patterns
- Provide practical mental health advice
- Encourage positive mental health practices
- Reference their specific experiences when relevant
- Maintain appropriate boundaries (you're a companion, not a replacement for professional therapy)`

// TaskBreakdownPrompt asks for a 1-3-5 breakdown of a morning plan.
func TaskBreakdownPrompt(plan string) string {
	return fmt.Sprintf(`Break the following morning plan into a prioritized task list: one single most important task, three medium tasks, and five small tasks.

Morning plan: %q

Respond with JSON only:
{
  "priority1": "the single most important task",
  "priority3": ["task", "task", "task"],
  "priority5": ["task", "task", "task", "task", "task"]
}`, plan)
}

// EveningAnalysisPrompt asks for a structured analysis of an evening
// reflection against the day's plan.
func EveningAnalysisPrompt(morningPlan, reflection string) string {
	return fmt.Sprintf(`Analyze this evening reflection against the morning plan. Extract concrete accomplishments and lessons learned, and detect the writer's overall mood.

Morning plan: %q
Evening reflection: %q

Respond with JSON only:
{
  "summary": "two-sentence summary of the day",
  "accomplishments": ["..."],
  "lessons_learned": ["..."],
  "mood": "one word, e.g. happy, content, tired, stressed",
  "mood_confidence": 0.8
}`, morningPlan, reflection)
}

// DailyComparisonPrompt asks for a plan-vs-outcome comparison.
func DailyComparisonPrompt(morningPlan, generatedTasks string, accomplishments []string) string {
	var b strings.Builder
	b.WriteString("Compare the morning plans vs evening accomplishments for today:\n\n")
	fmt.Fprintf(&b, "Morning Plan: %q\n", morningPlan)
	fmt.Fprintf(&b, "Generated Tasks: %s\n", generatedTasks)
	fmt.Fprintf(&b, "Evening Accomplishments: %s\n\n", strings.Join(accomplishments, "; "))
	b.WriteString(`Please provide:
1. Task completion percentage
2. What was accomplished vs planned
3. Unexpected achievements
4. Areas for improvement
5. Encouraging insights

Format as JSON:
{
  "completion_percentage": 75,
  "completed_tasks": ["task1", "task2"],
  "missed_tasks": ["task3"],
  "unexpected_achievements": ["surprise accomplishment"],
  "insights": "Encouraging insight about the day",
  "improvement_suggestions": ["suggestion1", "suggestion2"]
}`)
	return b.String()
}

// FeedbackPrompt asks for encouraging feedback grounded in recent history.
// A nil bundle produces a prompt without personalization.
func FeedbackPrompt(bundle *analytics.ContextBundle, today *models.DailyEntry) string {
	var b strings.Builder
	b.WriteString("Based on this user's recent mental health journey, provide encouraging and supportive feedback:\n\n")
	if bundle != nil {
		writeContext(&b, bundle)
	}
	if today != nil {
		b.WriteString("Today's entry:\n")
		writeEntry(&b, *today)
		b.WriteString("\n")
	}
	b.WriteString(`Provide encouraging feedback that:
1. Acknowledges their progress
2. Highlights positive patterns
3. Offers gentle motivation
4. Provides specific, actionable encouragement

Keep it warm, personal, and under 200 words.`)
	return b.String()
}

// ContextChatPrompt builds the context-aware chat turn.
func ContextChatPrompt(bundle *analytics.ContextBundle, message string) string {
	var b strings.Builder
	if bundle != nil {
		writeContext(&b, bundle)
	}
	fmt.Fprintf(&b, "User's current message: %s\n\n", message)
	b.WriteString("Please respond with empathy and personalized insights based on their journal history. Keep responses conversational, supportive, and under 300 words.")
	return b.String()
}

// writeContext renders a bounded, truncated view of the bundle.
func writeContext(b *strings.Builder, bundle *analytics.ContextBundle) {
	if len(bundle.DailyEntries) > 0 {
		b.WriteString("Recent Journal Entries:\n")
		for _, entry := range capEntries(bundle.DailyEntries, 5) {
			writeEntry(b, entry)
		}
		b.WriteString("\n")
	}

	if len(bundle.MoodEntries) > 0 {
		b.WriteString("Recent Mood Patterns:\n")
		for _, mood := range capMoods(bundle.MoodEntries, 7) {
			desc := ""
			if mood.Description != nil {
				desc = *mood.Description
			}
			fmt.Fprintf(b, "%s: %s (%d%% confidence) - %s\n",
				mood.Date, mood.Mood, int(math.Round(mood.Confidence*100)), desc)
		}
		b.WriteString("\n")
	}

	if len(bundle.Accomplishments) > 0 {
		b.WriteString("Recent Accomplishments:\n")
		for i, acc := range bundle.Accomplishments {
			if i == 5 {
				break
			}
			fmt.Fprintf(b, "- %s\n", acc.Accomplishment)
		}
		b.WriteString("\n")
	}

	if len(bundle.Lessons) > 0 {
		b.WriteString("Recent Lessons Learned:\n")
		for i, lesson := range bundle.Lessons {
			if i == 5 {
				break
			}
			fmt.Fprintf(b, "- %s\n", lesson.Lesson)
		}
		b.WriteString("\n")
	}
}

func writeEntry(b *strings.Builder, entry models.DailyEntry) {
	fmt.Fprintf(b, "%s: ", entry.Date)
	if entry.MorningPlan != nil {
		fmt.Fprintf(b, "Morning plan: %s ", analytics.Truncate(*entry.MorningPlan, analytics.TruncateLimit))
	}
	if entry.EveningReflection != nil {
		fmt.Fprintf(b, "Evening reflection: %s", analytics.Truncate(*entry.EveningReflection, analytics.TruncateLimit))
	}
	b.WriteString("\n")
}

func capEntries(entries []models.DailyEntry, n int) []models.DailyEntry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

func capMoods(moods []models.MoodEntry, n int) []models.MoodEntry {
	if len(moods) > n {
		return moods[:n]
	}
	return moods
}
