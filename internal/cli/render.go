package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"control-agent/internal/domain/entity"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

func renderExecution(out io.Writer, result entity.ExecutionResult) {
	if result.OK() {
		successColor.Fprintln(out, "Status: Success")
	} else {
		failColor.Fprintf(out, "Status: Failed (%d)\n", result.Status)
	}
	if result.Stdout != "" {
		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintln(out, result.Stdout)
	}
	if result.Stderr != "" && !result.OK() {
		fmt.Fprintln(out, "\nError:")
		fmt.Fprintln(out, result.Stderr)
	}
}

func renderBrowser(out io.Writer, result entity.BrowserResult) {
	if result.Success {
		successColor.Fprintf(out, "Result: %s\n", result.Message)
	} else {
		failColor.Fprintf(out, "Result: %s\n", result.Message)
	}
	if result.Content != "" {
		fmt.Fprintln(out, "\nContent:")
		dimColor.Fprintln(out, truncate(result.Content, 500))
	}
}

func renderOutcome(out io.Writer, outcome *entity.RequestOutcome) {
	for _, result := range outcome.Results {
		switch result.Kind {
		case entity.ActionResponse:
			headerColor.Fprintln(out, "\nAI Response:")
			fmt.Fprintln(out, result.Text)

		case entity.ActionTerminal:
			fmt.Fprintf(out, "\nExecuted command: %s\n", result.Command)
			if result.Status == 0 {
				successColor.Fprintln(out, "Status: Success")
			} else {
				failColor.Fprintln(out, "Status: Failed")
			}
			fmt.Fprintf(out, "Output: %s\n", result.Output)

		case entity.ActionBrowser:
			fmt.Fprintf(out, "\nBrowser action: %s\n", result.BrowserAction)
			fmt.Fprintf(out, "Result: %s\n", result.Message)
		}
	}
	fmt.Fprintln(out)
}

func renderPlan(out io.Writer, outcome *entity.PlanOutcome) {
	headerColor.Fprintln(out, "\nPlan Execution Results:")
	fmt.Fprintln(out, "----------------------")

	fmt.Fprintln(out, "\nPlan:")
	for _, step := range outcome.Plan {
		fmt.Fprintf(out, "%s. %s: %s\n", step.Step, step.Action, step.Description)
	}

	fmt.Fprintln(out, "\nExecution Results:")
	for i, step := range outcome.Results {
		stepNum := step.Step
		if stepNum == "" {
			stepNum = fmt.Sprintf("%d", i+1)
		}
		fmt.Fprintf(out, "\nStep %s:\n", stepNum)

		switch {
		case step.Command != "":
			fmt.Fprintf(out, "Command: %s\n", step.Command)
			if step.Status == 0 {
				successColor.Fprintln(out, "Status: Success")
			} else {
				failColor.Fprintln(out, "Status: Failed")
			}
			fmt.Fprintf(out, "Output: %s\n", truncate(step.Output, 200))

		case step.BrowserAction != "":
			fmt.Fprintf(out, "Browser Action: %s\n", step.BrowserAction)
			fmt.Fprintf(out, "Result: %s\n", step.Message)

		default:
			fmt.Fprintf(out, "Action: %s\n", step.Action)
			fmt.Fprintf(out, "Description: %s\n", step.Description)
			fmt.Fprintf(out, "Results: %d action(s) performed\n", len(step.Results))
		}
	}

	fmt.Fprintln(out, "\nPlan execution completed!")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
