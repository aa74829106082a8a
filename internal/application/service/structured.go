package service

import (
	"encoding/json"
	"strings"

	"control-agent/internal/domain/entity"
)

// ExtractJSONPayload strips a markdown code fence from around a JSON reply.
// Models wrap structured output in ```json fences about half the time; the
// other half arrives bare. Anything else is returned trimmed for the caller's
// decoder to reject.
func ExtractJSONPayload(content string) string {
	trimmed := strings.TrimSpace(content)

	if idx := strings.Index(trimmed, "```json"); idx >= 0 {
		rest := trimmed[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if end := strings.Index(trimmed, "```"); end >= 0 {
			trimmed = trimmed[:end]
		}
		return strings.TrimSpace(trimmed)
	}

	return trimmed
}

// DecodePlan recovers a step list from a plan reply. Accepted shapes are an
// object with a "steps" array and a bare array; anything else reports ok=false
// and the caller falls back to a degraded single-step plan.
func DecodePlan(content string) ([]entity.PlanStep, bool) {
	payload := ExtractJSONPayload(content)

	var wrapped struct {
		Steps []entity.PlanStep `json:"steps"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapped); err == nil && len(wrapped.Steps) > 0 {
		return wrapped.Steps, true
	}

	var bare []entity.PlanStep
	if err := json.Unmarshal([]byte(payload), &bare); err == nil && len(bare) > 0 {
		return bare, true
	}

	return nil, false
}

// DecodeAnalysis recovers an output analysis from a model reply.
func DecodeAnalysis(content string) (entity.OutputAnalysis, bool) {
	payload := ExtractJSONPayload(content)

	var analysis entity.OutputAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return entity.OutputAnalysis{}, false
	}
	return analysis, true
}

// DecodeEntities recovers an entity-type -> values mapping from a model reply.
func DecodeEntities(content string) (map[string][]string, bool) {
	payload := ExtractJSONPayload(content)

	var entities map[string][]string
	if err := json.Unmarshal([]byte(payload), &entities); err != nil || entities == nil {
		return nil, false
	}
	return entities, true
}
