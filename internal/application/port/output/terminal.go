package output

import (
	"context"
	"time"

	"control-agent/internal/domain/entity"
)

// TerminalPort runs shell commands against a working directory. Execute never
// returns an error: timeouts and spawn failures are folded into the result
// record with status -1.
type TerminalPort interface {
	Execute(ctx context.Context, command string, timeout time.Duration) entity.ExecutionResult
	WorkingDir() string
	ChangeDir(dir string) bool
	SystemInfo(ctx context.Context) map[string]string
}
