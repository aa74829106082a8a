package input

import (
	"context"

	"control-agent/internal/domain/entity"
)

// Agent is the orchestrator's public surface. Neither operation returns an
// error: component failures are folded into the outcome records.
type Agent interface {
	// ProcessRequest runs one round of: model call, action extraction,
	// dispatch of every extracted action in order.
	ProcessRequest(ctx context.Context, request string) *entity.RequestOutcome

	// ExecutePlan asks the model for a plan and executes its steps in order,
	// routing each by its declared action label.
	ExecutePlan(ctx context.Context, goal string) *entity.PlanOutcome

	// RunCommand dispatches a single terminal command directly.
	RunCommand(ctx context.Context, command string) entity.ExecutionResult

	// RunBrowserAction dispatches a single browser primitive directly.
	RunBrowserAction(ctx context.Context, name entity.BrowserActionName, params map[string]string) entity.BrowserResult

	RefreshSnapshot()
	Snapshot() entity.ContextSnapshot
	SystemInfo(ctx context.Context) map[string]string
	TaskHistory() []entity.TaskRecord
}
