package openai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"control-agent/internal/application/port/output"
	"control-agent/internal/application/service"
	"control-agent/internal/domain/entity"
	"control-agent/internal/infrastructure/prompts"
)

var _ output.CompletionPort = (*Adapter)(nil)

// ErrNoAPIKey is returned by Chat and CompleteOneShot when the adapter was
// built without a credential. No network call is attempted in that state.
var ErrNoAPIKey = errors.New("completion unavailable: no API key configured")

// historyLimit bounds the rolling conversation. When exceeded, system
// messages are kept and the rest is trimmed to the most recent entries.
const (
	historyLimit = 20
	historyKeep  = 19
)

type Adapter struct {
	client       *openai.Client
	model        string
	systemPrompt string
	history      []entity.Message
	logger       output.LoggerPort
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

func NewAdapter(cfg Config, logger output.LoggerPort) *Adapter {
	a := &Adapter{
		model:        cfg.Model,
		systemPrompt: prompts.DefaultSystemPrompt,
		logger:       logger,
	}
	if a.model == "" {
		a.model = openai.GPT4
	}

	if cfg.APIKey == "" {
		logger.Warn("no API key configured, completion requests will fail")
		return a
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	a.client = openai.NewClientWithConfig(clientCfg)
	return a
}

func (a *Adapter) Chat(ctx context.Context, userMessage string) (string, error) {
	if a.client == nil {
		return "", ErrNoAPIKey
	}

	a.record(entity.Message{Role: entity.RoleUser, Content: userMessage})
	a.ensureSystemPrompt()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    toOpenAIMessages(a.history),
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		a.logger.Error("chat completion failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}

	reply := resp.Choices[0].Message.Content
	a.record(entity.Message{Role: entity.RoleAssistant, Content: reply})
	return reply, nil
}

func (a *Adapter) CompleteOneShot(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error) {
	if a.client == nil {
		return "", ErrNoAPIKey
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// GeneratePlan asks for a numbered plan toward the goal. Failures never
// surface as errors: an unreachable model yields a single error step and an
// unparseable reply becomes one manual step carrying the raw text.
func (a *Adapter) GeneratePlan(ctx context.Context, goal string) []entity.PlanStep {
	reply, err := a.CompleteOneShot(ctx, prompts.PlanSystemPrompt, prompts.PlanRequest(goal), 0.7, 1500)
	if err != nil {
		a.logger.Error("plan generation failed", "goal", goal, "error", err)
		return []entity.PlanStep{{
			Step:        "1",
			Action:      "Error",
			Description: err.Error(),
		}}
	}

	steps, ok := service.DecodePlan(reply)
	if !ok {
		a.logger.Warn("plan reply was not valid JSON, degrading to manual step")
		return []entity.PlanStep{{
			Step:        "1",
			Action:      "Manual",
			Description: reply,
		}}
	}
	return steps
}

func (a *Adapter) AnalyzeOutput(ctx context.Context, command, output string) entity.OutputAnalysis {
	reply, err := a.CompleteOneShot(ctx, prompts.AnalysisSystemPrompt, prompts.AnalysisRequest(command, output), 0.3, 1000)
	if err != nil {
		a.logger.Error("output analysis failed", "command", command, "error", err)
		falsy := false
		return entity.OutputAnalysis{
			Success:     &falsy,
			KeyFindings: []string{},
			NextSteps:   []string{},
			Err:         err.Error(),
		}
	}

	analysis, ok := service.DecodeAnalysis(reply)
	if !ok {
		return entity.OutputAnalysis{
			KeyFindings: []string{reply},
			NextSteps:   []string{},
		}
	}
	return analysis
}

func (a *Adapter) ExtractEntities(ctx context.Context, text string, entityTypes []string) map[string][]string {
	empty := func() map[string][]string {
		out := make(map[string][]string, len(entityTypes))
		for _, t := range entityTypes {
			out[t] = []string{}
		}
		return out
	}

	reply, err := a.CompleteOneShot(ctx, prompts.EntitiesSystemPrompt, prompts.EntitiesRequest(text, entityTypes), 0.3, 1000)
	if err != nil {
		a.logger.Error("entity extraction failed", "error", err)
		return empty()
	}

	entities, ok := service.DecodeEntities(reply)
	if !ok {
		return empty()
	}
	return entities
}

// SetSystemPrompt replaces any system messages already in the history with
// the given prompt.
func (a *Adapter) SetSystemPrompt(prompt string) {
	kept := a.history[:0:0]
	for _, msg := range a.history {
		if msg.Role != entity.RoleSystem {
			kept = append(kept, msg)
		}
	}
	a.history = append(kept, entity.Message{Role: entity.RoleSystem, Content: prompt})
	a.systemPrompt = prompt
}

// ResetHistory drops everything except system messages.
func (a *Adapter) ResetHistory() {
	kept := a.history[:0:0]
	for _, msg := range a.history {
		if msg.Role == entity.RoleSystem {
			kept = append(kept, msg)
		}
	}
	a.history = kept
}

func (a *Adapter) History() []entity.Message {
	out := make([]entity.Message, len(a.history))
	copy(out, a.history)
	return out
}

// record appends a message and trims the history once it grows past the
// limit: all system messages survive, then the most recent non-system ones.
func (a *Adapter) record(msg entity.Message) {
	a.history = append(a.history, msg)
	if len(a.history) <= historyLimit {
		return
	}

	var system, other []entity.Message
	for _, m := range a.history {
		if m.Role == entity.RoleSystem {
			system = append(system, m)
		} else {
			other = append(other, m)
		}
	}
	if len(other) > historyKeep {
		other = other[len(other)-historyKeep:]
	}
	a.history = append(system, other...)
}

func (a *Adapter) ensureSystemPrompt() {
	for _, msg := range a.history {
		if msg.Role == entity.RoleSystem {
			return
		}
	}
	a.history = append([]entity.Message{{Role: entity.RoleSystem, Content: a.systemPrompt}}, a.history...)
}

func toOpenAIMessages(messages []entity.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return out
}
