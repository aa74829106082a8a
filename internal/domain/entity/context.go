package entity

// CommandSummary is the truncated view of the last command kept in the context
// snapshot so the model sees recent output without oversized prompts.
type CommandSummary struct {
	Status int    `json:"status"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// BrowserOutcome records the last browser action and its outcome message.
type BrowserOutcome struct {
	Action BrowserActionName `json:"action"`
	Params map[string]string `json:"params"`
	Result string            `json:"result"`
}

// ContextSnapshot describes where the agent currently is. It is serialized and
// attached to every conversational model call, refreshed immediately before.
// BrowserURL and BrowserTitle are nil when no navigation has happened yet or
// the session could not be queried. Mutated only by the orchestrator.
type ContextSnapshot struct {
	WorkingDir        string          `json:"terminal_dir"`
	BrowserURL        *string         `json:"browser_url"`
	BrowserTitle      *string         `json:"browser_title"`
	LastCommand       string          `json:"last_command,omitempty"`
	LastResult        *CommandSummary `json:"last_result,omitempty"`
	LastBrowserAction *BrowserOutcome `json:"last_browser_action,omitempty"`
}
