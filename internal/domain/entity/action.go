package entity

// ActionKind tags the variants of an Action extracted from a model reply.
type ActionKind string

const (
	ActionTerminal ActionKind = "terminal"
	ActionBrowser  ActionKind = "browser"
	ActionResponse ActionKind = "response"
)

// BrowserActionName is the closed set of browser primitives the agent dispatches on.
// Unknown names route to an explicit unsupported branch, never a silent fallthrough.
type BrowserActionName string

const (
	BrowserNavigate   BrowserActionName = "navigate"
	BrowserClick      BrowserActionName = "click"
	BrowserInput      BrowserActionName = "input"
	BrowserExtract    BrowserActionName = "extract"
	BrowserScreenshot BrowserActionName = "screenshot"
)

// Action is one structured instruction derived from a model reply. Exactly one
// variant is populated, selected by Kind. Actions live for a single dispatch
// round; they are not persisted beyond the task record of the exchange that
// produced them.
type Action struct {
	Kind ActionKind

	// Kind == ActionTerminal
	Command string

	// Kind == ActionBrowser
	Name   BrowserActionName
	Params map[string]string

	// Kind == ActionResponse
	Text string
}

func NewTerminalAction(command string) Action {
	return Action{Kind: ActionTerminal, Command: command}
}

func NewBrowserAction(name BrowserActionName, params map[string]string) Action {
	if params == nil {
		params = map[string]string{}
	}
	return Action{Kind: ActionBrowser, Name: name, Params: params}
}

func NewResponseAction(text string) Action {
	return Action{Kind: ActionResponse, Text: text}
}
