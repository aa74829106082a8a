package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"control-agent/internal/application/port/input"
	"control-agent/internal/application/port/output"
	"control-agent/internal/application/service"
	"control-agent/internal/domain/entity"
)

var _ input.Agent = (*Agent)(nil)

var urlRe = regexp.MustCompile(`https?://[^\s]+`)

const (
	// snapshot summaries keep the last command's output short enough for
	// every prompt to carry them.
	summaryLimit = 500
	// extracted page text returned to the model.
	contentLimit = 1000
	// extracted links returned to the model.
	linkLimit = 20
)

// Agent couples the terminal, the browser and the completion client behind
// the two orchestration entry points. It is not safe for concurrent use; the
// CLI drives it from a single loop.
type Agent struct {
	terminal   output.TerminalPort
	browser    output.BrowserPort
	completion output.CompletionPort
	logger     output.LoggerPort

	commandTimeout time.Duration
	snapshot       entity.ContextSnapshot
	history        []entity.TaskRecord
}

func NewAgent(
	terminal output.TerminalPort,
	browser output.BrowserPort,
	completion output.CompletionPort,
	logger output.LoggerPort,
	commandTimeout time.Duration,
) *Agent {
	a := &Agent{
		terminal:       terminal,
		browser:        browser,
		completion:     completion,
		logger:         logger,
		commandTimeout: commandTimeout,
	}
	a.RefreshSnapshot()
	return a
}

// RefreshSnapshot re-reads the live state into the context snapshot. Browser
// fields go to nil whenever the session cannot report a location.
func (a *Agent) RefreshSnapshot() {
	a.snapshot.WorkingDir = a.terminal.WorkingDir()

	a.snapshot.BrowserURL = nil
	a.snapshot.BrowserTitle = nil
	if url, ok := a.browser.CurrentURL(); ok {
		a.snapshot.BrowserURL = &url
	}
	if title, ok := a.browser.Title(); ok {
		a.snapshot.BrowserTitle = &title
	}
}

func (a *Agent) Snapshot() entity.ContextSnapshot {
	return a.snapshot
}

func (a *Agent) SystemInfo(ctx context.Context) map[string]string {
	return a.terminal.SystemInfo(ctx)
}

func (a *Agent) TaskHistory() []entity.TaskRecord {
	out := make([]entity.TaskRecord, len(a.history))
	copy(out, a.history)
	return out
}

// RunCommand executes one terminal command and folds a truncated summary of
// its output into the snapshot.
func (a *Agent) RunCommand(ctx context.Context, command string) entity.ExecutionResult {
	a.logger.Info("executing terminal command", "command", command)
	result := a.terminal.Execute(ctx, command, a.commandTimeout)

	a.snapshot.LastCommand = command
	a.snapshot.LastResult = &entity.CommandSummary{
		Status: result.Status,
		Stdout: truncate(result.Stdout, summaryLimit),
		Stderr: truncate(result.Stderr, summaryLimit),
	}
	a.RefreshSnapshot()
	return result
}

// RunBrowserAction dispatches one browser primitive by name. Unknown names
// and missing required parameters produce explicit failures.
func (a *Agent) RunBrowserAction(ctx context.Context, name entity.BrowserActionName, params map[string]string) entity.BrowserResult {
	a.logger.Info("executing browser action", "action", string(name))
	if params == nil {
		params = map[string]string{}
	}

	var result entity.BrowserResult

	switch name {
	case entity.BrowserNavigate:
		url := params["url"]
		if url == "" {
			result = entity.BrowserResult{Success: false, Message: "Missing url parameter for navigate"}
			break
		}
		if a.browser.Navigate(ctx, url) {
			result = entity.BrowserResult{Success: true, Message: "Navigated to " + url}
		} else {
			result = entity.BrowserResult{Success: false, Message: "Failed to navigate to " + url}
		}

	case entity.BrowserClick:
		kind, value := selectorParams(params)
		if value == "" {
			result = entity.BrowserResult{Success: false, Message: "Missing selector_value parameter for click"}
			break
		}
		if a.browser.Click(ctx, kind, value) {
			result = entity.BrowserResult{Success: true, Message: "Clicked element " + value}
		} else {
			result = entity.BrowserResult{Success: false, Message: "Failed to click element " + value}
		}

	case entity.BrowserInput:
		kind, value := selectorParams(params)
		if value == "" {
			result = entity.BrowserResult{Success: false, Message: "Missing selector_value parameter for input"}
			break
		}
		if a.browser.TypeText(ctx, kind, value, params["text"], true) {
			result = entity.BrowserResult{Success: true, Message: "Input text to element " + value}
		} else {
			result = entity.BrowserResult{Success: false, Message: "Failed to input text to element " + value}
		}

	case entity.BrowserExtract:
		contentType := params["content_type"]
		if contentType == "" {
			contentType = "text"
		}
		switch contentType {
		case "text":
			text := a.browser.ExtractText(ctx)
			result = entity.BrowserResult{
				Success: true,
				Message: "Text extracted",
				Content: truncate(text, contentLimit),
			}
		case "links":
			links := a.browser.ExtractLinks(ctx)
			if len(links) > linkLimit {
				links = links[:linkLimit]
			}
			encoded, _ := json.Marshal(links)
			result = entity.BrowserResult{
				Success: true,
				Message: fmt.Sprintf("Extracted %d links", len(links)),
				Content: string(encoded),
			}
		default:
			result = entity.BrowserResult{Success: false, Message: "Unknown content_type: " + contentType}
		}

	case entity.BrowserScreenshot:
		filename := params["filename"]
		if filename == "" {
			filename = "screenshot.png"
		}
		if a.browser.Screenshot(ctx, filename) {
			result = entity.BrowserResult{Success: true, Message: "Screenshot saved to " + filename}
		} else {
			result = entity.BrowserResult{Success: false, Message: "Failed to take screenshot"}
		}

	default:
		result = entity.BrowserResult{Success: false, Message: "Unsupported browser action: " + string(name)}
	}

	a.snapshot.LastBrowserAction = &entity.BrowserOutcome{
		Action: name,
		Params: params,
		Result: result.Message,
	}
	a.RefreshSnapshot()
	return result
}

// ProcessRequest runs one decision round: the model sees the request plus the
// current context snapshot, and every action extracted from its reply is
// dispatched in order. A completion failure is folded into the reply so the
// round still yields a response result.
func (a *Agent) ProcessRequest(ctx context.Context, request string) *entity.RequestOutcome {
	a.logger.Info("processing request", "request", request)
	a.RefreshSnapshot()

	reply, err := a.completion.Chat(ctx, withContext(request, a.snapshot))
	if err != nil {
		a.logger.Error("completion failed", "error", err)
		reply = "Error: " + err.Error()
	}

	actions := service.Extract(reply)

	results := make([]entity.ActionResult, 0, len(actions))
	for _, action := range actions {
		switch action.Kind {
		case entity.ActionTerminal:
			result := a.RunCommand(ctx, action.Command)
			out := result.Stdout
			if result.Status != 0 {
				out = result.Stderr
			}
			results = append(results, entity.ActionResult{
				Kind:    entity.ActionTerminal,
				Command: action.Command,
				Status:  result.Status,
				Output:  out,
			})

		case entity.ActionBrowser:
			result := a.RunBrowserAction(ctx, action.Name, action.Params)
			results = append(results, entity.ActionResult{
				Kind:          entity.ActionBrowser,
				BrowserAction: action.Name,
				Params:        action.Params,
				Success:       result.Success,
				Message:       result.Message,
				Content:       result.Content,
			})

		case entity.ActionResponse:
			results = append(results, entity.ActionResult{
				Kind: entity.ActionResponse,
				Text: action.Text,
			})
		}
	}

	record := entity.TaskRecord{
		Request: request,
		Reply:   reply,
		Actions: actions,
		Results: results,
	}
	a.history = append(a.history, record)

	return &entity.RequestOutcome{
		Request: request,
		Reply:   reply,
		Actions: actions,
		Results: results,
	}
}

// ExecutePlan asks the model for a plan and routes each step by its action
// label: terminal labels run a command, browser labels navigate, and anything
// else goes back through request processing.
func (a *Agent) ExecutePlan(ctx context.Context, goal string) *entity.PlanOutcome {
	a.logger.Info("executing plan", "goal", goal)
	plan := a.completion.GeneratePlan(ctx, goal)

	results := make([]entity.StepResult, 0, len(plan))
	for _, step := range plan {
		a.logger.Info("executing plan step", "step", step.Step, "action", step.Action)

		switch strings.ToLower(step.Action) {
		case "terminal", "command", "shell":
			command := step.Description
			if _, after, ok := strings.Cut(step.Description, ":"); ok {
				command = strings.TrimSpace(after)
			}
			result := a.RunCommand(ctx, command)
			out := result.Stdout
			if result.Status != 0 {
				out = result.Stderr
			}
			results = append(results, entity.StepResult{
				Step:    step.Step,
				Action:  step.Action,
				Command: command,
				Status:  result.Status,
				Output:  out,
			})

		case "browser", "web", "navigate":
			params := map[string]string{}
			if match := urlRe.FindString(step.Description); match != "" {
				params["url"] = match
			}
			result := a.RunBrowserAction(ctx, entity.BrowserNavigate, params)
			results = append(results, entity.StepResult{
				Step:          step.Step,
				Action:        step.Action,
				BrowserAction: entity.BrowserNavigate,
				Params:        params,
				Success:       result.Success,
				Message:       result.Message,
			})

		default:
			outcome := a.ProcessRequest(ctx, step.Description)
			results = append(results, entity.StepResult{
				Step:        step.Step,
				Action:      step.Action,
				Description: step.Description,
				Results:     outcome.Results,
			})
		}
	}

	return &entity.PlanOutcome{
		Goal:    goal,
		Plan:    plan,
		Results: results,
	}
}

func selectorParams(params map[string]string) (kind, value string) {
	kind = params["selector_type"]
	if kind == "" {
		kind = "id"
	}
	return kind, params["selector_value"]
}

func withContext(request string, snapshot entity.ContextSnapshot) string {
	encoded, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return request
	}
	return request + "\n\nCurrent context:\n" + string(encoded)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
