package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONPayload(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with prose before", "Here is the result:\n```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"unterminated fence", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"whitespace", "  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONPayload(tt.input))
		})
	}
}

func TestDecodePlan_WrappedSteps(t *testing.T) {
	reply := `{"steps": [{"step": "1", "action": "terminal", "description": "Run: ls"}]}`

	steps, ok := DecodePlan(reply)
	require.True(t, ok)
	require.Len(t, steps, 1)
	assert.Equal(t, "1", steps[0].Step)
	assert.Equal(t, "terminal", steps[0].Action)
}

func TestDecodePlan_BareList(t *testing.T) {
	reply := "```json\n[{\"step\": 1, \"action\": \"browser\", \"description\": \"open https://example.com\"}]\n```"

	steps, ok := DecodePlan(reply)
	require.True(t, ok)
	require.Len(t, steps, 1)
	assert.Equal(t, "1", steps[0].Step, "numeric step ids are coerced to strings")
}

func TestDecodePlan_Invalid(t *testing.T) {
	for _, reply := range []string{"not json at all", "{}", "[]", ""} {
		_, ok := DecodePlan(reply)
		assert.False(t, ok, "reply %q should not decode", reply)
	}
}

func TestDecodeAnalysis(t *testing.T) {
	reply := `{"success": true, "key_findings": ["one"], "next_steps": []}`

	analysis, ok := DecodeAnalysis(reply)
	require.True(t, ok)
	require.NotNil(t, analysis.Success)
	assert.True(t, *analysis.Success)
	assert.Equal(t, []string{"one"}, analysis.KeyFindings)
}

func TestDecodeAnalysis_Invalid(t *testing.T) {
	_, ok := DecodeAnalysis("the command succeeded, probably")
	assert.False(t, ok)
}

func TestDecodeEntities(t *testing.T) {
	reply := "```json\n{\"urls\": [\"https://example.com\"], \"emails\": []}\n```"

	entities, ok := DecodeEntities(reply)
	require.True(t, ok)
	assert.Equal(t, []string{"https://example.com"}, entities["urls"])
	assert.Empty(t, entities["emails"])
}

func TestDecodeEntities_Invalid(t *testing.T) {
	_, ok := DecodeEntities("no entities here")
	assert.False(t, ok)
}
