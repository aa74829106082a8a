package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"control-agent/internal/application/port/input"
	"control-agent/internal/domain/entity"
)

// REPL is the interactive command loop. Lines starting with a known keyword
// are handled directly; everything else is forwarded to the agent as a
// request for the model.
type REPL struct {
	agent   input.Agent
	scanner *bufio.Scanner
	out     io.Writer
	history []string
}

func NewREPL(agent input.Agent, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		agent:   agent,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (r *REPL) RunInteractive(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			fmt.Fprintln(r.out, "\nInterrupted. Type 'exit' to quit.")
		}
	}()

	fmt.Fprintln(r.out, "\nControl Agent")
	fmt.Fprintln(r.out, "-------------")
	fmt.Fprintln(r.out, "Type 'help' for available commands")
	fmt.Fprintln(r.out, "Type 'exit' to quit")

	for {
		fmt.Fprint(r.out, "\n> ")
		if !r.scanner.Scan() {
			fmt.Fprintln(r.out, "\nExiting...")
			return
		}
		if !r.ProcessCommand(ctx, r.scanner.Text()) {
			return
		}
	}
}

// ProcessCommand handles one input line. The return value is false when the
// loop should stop.
func (r *REPL) ProcessCommand(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}

	lower := strings.ToLower(line)
	if lower != "exit" && lower != "quit" {
		r.history = append(r.history, line)
	}

	switch {
	case lower == "exit" || lower == "quit":
		fmt.Fprintln(r.out, "Goodbye!")
		return false

	case lower == "help":
		r.showHelp()

	case lower == "status":
		r.showStatus(ctx)

	case lower == "history":
		r.showHistory()

	case strings.HasPrefix(lower, "execute "):
		command := strings.TrimSpace(line[len("execute "):])
		r.runCommand(ctx, command)

	case strings.HasPrefix(lower, "browse "):
		url := strings.TrimSpace(line[len("browse "):])
		r.runBrowse(ctx, url)

	case strings.HasPrefix(lower, "plan "):
		goal := strings.TrimSpace(line[len("plan "):])
		r.runPlan(ctx, goal)

	default:
		r.processRequest(ctx, line)
	}

	return true
}

func (r *REPL) showHelp() {
	fmt.Fprintln(r.out, "\nAvailable commands:")
	fmt.Fprintln(r.out, "  help                  - Show this help information")
	fmt.Fprintln(r.out, "  status                - Show agent status")
	fmt.Fprintln(r.out, "  history               - Show command history")
	fmt.Fprintln(r.out, "  execute <command>     - Execute a terminal command directly")
	fmt.Fprintln(r.out, "  browse <url>          - Navigate to a URL directly")
	fmt.Fprintln(r.out, "  plan <goal>           - Generate and execute a plan for a goal")
	fmt.Fprintln(r.out, "  exit, quit            - Exit the program")
	fmt.Fprintln(r.out, "\nAnything else is sent to the model as a request.")
}

func (r *REPL) showStatus(ctx context.Context) {
	snapshot := r.agent.Snapshot()

	fmt.Fprintln(r.out, "\nAgent Status:")
	fmt.Fprintf(r.out, "Working directory: %s\n", snapshot.WorkingDir)
	if uname, ok := r.agent.SystemInfo(ctx)["os"]; ok {
		fmt.Fprintf(r.out, "System: %s\n", uname)
	}
	if snapshot.BrowserURL != nil {
		fmt.Fprintf(r.out, "Browser URL: %s\n", *snapshot.BrowserURL)
	} else {
		fmt.Fprintln(r.out, "Browser URL: Not browsing")
	}
	if snapshot.BrowserTitle != nil {
		fmt.Fprintf(r.out, "Browser Title: %s\n", *snapshot.BrowserTitle)
	}
	if snapshot.LastCommand != "" {
		fmt.Fprintf(r.out, "Last command: %s\n", snapshot.LastCommand)
	}
	fmt.Fprintf(r.out, "Tasks processed: %d\n", len(r.agent.TaskHistory()))
}

func (r *REPL) showHistory() {
	if len(r.history) == 0 {
		fmt.Fprintln(r.out, "No commands in history")
		return
	}
	for i, cmd := range r.history {
		fmt.Fprintf(r.out, "%d. %s\n", i+1, cmd)
	}
}

func (r *REPL) runCommand(ctx context.Context, command string) {
	fmt.Fprintf(r.out, "\nExecuting: %s\n", command)
	result := r.agent.RunCommand(ctx, command)
	renderExecution(r.out, result)
}

func (r *REPL) runBrowse(ctx context.Context, url string) {
	fmt.Fprintf(r.out, "\nNavigating to: %s\n", url)
	result := r.agent.RunBrowserAction(ctx, entity.BrowserNavigate, map[string]string{"url": url})
	renderBrowser(r.out, result)
}

func (r *REPL) runPlan(ctx context.Context, goal string) {
	fmt.Fprintf(r.out, "\nGenerating and executing plan for: %s\n", goal)
	fmt.Fprintln(r.out, "This may take some time...")
	outcome := r.agent.ExecutePlan(ctx, goal)
	renderPlan(r.out, outcome)
}

func (r *REPL) processRequest(ctx context.Context, request string) {
	fmt.Fprintf(r.out, "\nProcessing: %s\n", request)
	fmt.Fprintln(r.out, "Thinking...")
	outcome := r.agent.ProcessRequest(ctx, request)
	renderOutcome(r.out, outcome)
}
