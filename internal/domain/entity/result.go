package entity

// ExecutionResult is the uniform record of one command execution. Status 0 means
// success, any positive value is the command's own exit code, and -1 is reserved
// for executions that could not complete at all (timeout, spawn failure).
// Stdout and Stderr are always present, defaulting to empty strings.
type ExecutionResult struct {
	Status      int      `json:"status"`
	Stdout      string   `json:"stdout"`
	Stderr      string   `json:"stderr"`
	StdoutLines []string `json:"stdout_lines"`
	StderrLines []string `json:"stderr_lines"`
	Command     string   `json:"command"`
}

// OK reports whether the command ran and exited cleanly.
func (r ExecutionResult) OK() bool { return r.Status == 0 }

// BrowserResult is the uniform outcome of one browser primitive. Failures carry
// a descriptive message instead of an error value.
type BrowserResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Content string `json:"content,omitempty"`
}

// ActionResult records the dispatch of a single extracted action.
type ActionResult struct {
	Kind ActionKind `json:"action"`

	// terminal dispatch
	Command string `json:"command,omitempty"`
	Status  int    `json:"status,omitempty"`
	Output  string `json:"output,omitempty"`

	// browser dispatch
	BrowserAction BrowserActionName `json:"browser_action,omitempty"`
	Params        map[string]string `json:"params,omitempty"`
	Success       bool              `json:"success"`
	Message       string            `json:"message,omitempty"`
	Content       string            `json:"content,omitempty"`

	// response recording
	Text string `json:"text,omitempty"`
}

// RequestOutcome is the full record of one ProcessRequest round: the raw model
// reply, the actions extracted from it, and the per-action results in dispatch
// order.
type RequestOutcome struct {
	Request string         `json:"request"`
	Reply   string         `json:"ai_response"`
	Actions []Action       `json:"actions"`
	Results []ActionResult `json:"results"`
}

// TaskRecord is one entry of the orchestrator's task history log.
type TaskRecord struct {
	Request string         `json:"request"`
	Reply   string         `json:"response"`
	Actions []Action       `json:"actions"`
	Results []ActionResult `json:"results"`
}
