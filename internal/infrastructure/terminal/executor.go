package terminal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"control-agent/internal/application/port/output"
	"control-agent/internal/domain/entity"

	"github.com/google/shlex"
)

var _ output.TerminalPort = (*Executor)(nil)

// DefaultTimeout bounds a single command when the caller passes zero.
const DefaultTimeout = 60 * time.Second

// Executor runs commands as direct processes, without a shell. The command
// string is split into words with POSIX quoting rules, so pipes and
// redirections are not interpreted.
type Executor struct {
	workingDir string
	logger     output.LoggerPort
}

func NewExecutor(workingDir string, logger output.LoggerPort) *Executor {
	if workingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workingDir = wd
		} else {
			workingDir = "."
		}
	}
	return &Executor{workingDir: workingDir, logger: logger}
}

func (e *Executor) Execute(ctx context.Context, command string, timeout time.Duration) entity.ExecutionResult {
	result := entity.ExecutionResult{
		Command:     command,
		Status:      -1,
		StdoutLines: []string{},
		StderrLines: []string{},
	}

	args, err := shlex.Split(command)
	if err != nil || len(args) == 0 {
		result.Stderr = fmt.Sprintf("invalid command: %v", err)
		result.StderrLines = splitLines(result.Stderr)
		return result
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = e.workingDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("executing command", "command", command, "dir", e.workingDir)
	runErr := cmd.Run()

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	switch {
	case ctx.Err() == context.DeadlineExceeded:
		result.Status = -1
		result.Stderr = fmt.Sprintf("Command timed out after %.0fs", timeout.Seconds())
	case runErr == nil:
		result.Status = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.Status = exitErr.ExitCode()
		} else {
			result.Status = -1
			if result.Stderr == "" {
				result.Stderr = runErr.Error()
			}
		}
	}

	result.StdoutLines = splitLines(result.Stdout)
	result.StderrLines = splitLines(result.Stderr)
	return result
}

func (e *Executor) WorkingDir() string {
	return e.workingDir
}

// ChangeDir switches the directory used for subsequent commands. The target
// must exist; a false return leaves the current directory untouched.
func (e *Executor) ChangeDir(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	e.workingDir = dir
	return true
}

// SystemInfo gathers platform facts for context snapshots. Each probe fails
// independently, so a missing tool just drops its key.
func (e *Executor) SystemInfo(ctx context.Context) map[string]string {
	info := make(map[string]string)

	probes := map[string]string{
		"os":     "uname -a",
		"memory": "free -h",
		"disk":   "df -h",
	}
	for key, command := range probes {
		res := e.Execute(ctx, command, 10*time.Second)
		if res.OK() {
			info[key] = strings.TrimSpace(res.Stdout)
		}
	}

	if model := cpuModel(); model != "" {
		info["cpu"] = model
	}

	return info
}

// cpuModel reads the first model name from /proc/cpuinfo. Piping through
// grep would need a shell, which Execute deliberately avoids.
func cpuModel() string {
	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "model name") {
			if _, value, ok := strings.Cut(line, ":"); ok {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// splitLines turns captured output into lines, with empty output producing
// an empty slice rather than a single empty line.
func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
