package output

import (
	"context"

	"control-agent/internal/domain/entity"
)

// CompletionPort is the boundary to the hosted language model.
//
// Chat is the conversational entry point: it maintains the bounded rolling
// history and may fail with an error (missing credential, network). The
// one-shot helpers (GeneratePlan, AnalyzeOutput, ExtractEntities) are
// stateless per call and never error across the boundary: malformed or
// missing model output degrades to a fallback value.
type CompletionPort interface {
	Chat(ctx context.Context, userMessage string) (string, error)
	CompleteOneShot(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error)

	GeneratePlan(ctx context.Context, goal string) []entity.PlanStep
	AnalyzeOutput(ctx context.Context, command, output string) entity.OutputAnalysis
	ExtractEntities(ctx context.Context, text string, entityTypes []string) map[string][]string

	SetSystemPrompt(prompt string)
	ResetHistory()
	History() []entity.Message
}
