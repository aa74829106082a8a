// Package prompts holds the embedded prompt texts and the builders for the
// specialized one-shot requests.
package prompts

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed system.txt
var DefaultSystemPrompt string

//go:embed plan.txt
var PlanSystemPrompt string

//go:embed analysis.txt
var AnalysisSystemPrompt string

//go:embed entities.txt
var EntitiesSystemPrompt string

func PlanRequest(goal string) string {
	return fmt.Sprintf("Generate a detailed step-by-step plan to achieve this goal: %s\n\n"+
		"Provide the plan as JSON with a list of steps, each with 'step' (number), "+
		"'action' (command or action type), and 'description' (explanation) keys.", goal)
}

func AnalysisRequest(command, output string) string {
	return fmt.Sprintf("Analyze the following command output and extract key information:\n\n"+
		"Command: %s\n\nOutput:\n%s\n\n"+
		"Provide analysis as JSON with keys: success (boolean), key_findings (list), next_steps (list).",
		command, output)
}

func EntitiesRequest(text string, entityTypes []string) string {
	return fmt.Sprintf("Extract the following entity types from the text: %s\n\nText:\n%s\n\n"+
		"Provide results as JSON with entity types as keys and lists of extracted entities as values.",
		strings.Join(entityTypes, ", "), text)
}
