package llm

import "context"

// Generator is a text-completion capability. Two implementations exist:
// Gemini (analysis, task breakdown, feedback) and Claude (the chat
// companion). Handlers depend on this interface so tests can substitute a
// canned generator.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
