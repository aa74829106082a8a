package entity

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PlanStep is one step of a model-generated plan. Action is a free-form label,
// bucketed case-insensitively by the orchestrator; the command or URL a step
// needs is derived from Description at execution time.
type PlanStep struct {
	Step        string `json:"step"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// UnmarshalJSON tolerates numeric step identifiers, which models produce about
// as often as strings.
func (s *PlanStep) UnmarshalJSON(data []byte) error {
	var raw struct {
		Step        json.RawMessage `json:"step"`
		Action      string          `json:"action"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Action = raw.Action
	s.Description = raw.Description
	s.Step = coerceStepID(raw.Step)
	return nil
}

func coerceStepID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.FormatFloat(asNumber, 'f', -1, 64)
	}
	return strings.TrimSpace(string(raw))
}

// StepResult records the execution of one plan step, preserving the step
// identifier and declared action label from the plan.
type StepResult struct {
	Step   string `json:"step"`
	Action string `json:"action"`

	// terminal bucket
	Command string `json:"command,omitempty"`
	Status  int    `json:"status,omitempty"`
	Output  string `json:"output,omitempty"`

	// browser bucket
	BrowserAction BrowserActionName `json:"browser_action,omitempty"`
	Params        map[string]string `json:"params,omitempty"`
	Success       bool              `json:"success,omitempty"`
	Message       string            `json:"message,omitempty"`

	// other buckets are routed back through request processing
	Description string         `json:"description,omitempty"`
	Results     []ActionResult `json:"results,omitempty"`
}

// PlanOutcome pairs a plan with its per-step results in execution order.
type PlanOutcome struct {
	Goal    string       `json:"goal"`
	Plan    []PlanStep   `json:"plan"`
	Results []StepResult `json:"results"`
}
