package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"control-agent/internal/application/port/output"
	"control-agent/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                      {}
func (nopLogger) Info(string, ...any)                       {}
func (nopLogger) Warn(string, ...any)                       {}
func (nopLogger) Error(string, ...any)                      {}
func (l nopLogger) WithField(string, any) output.LoggerPort { return l }
func (nopLogger) Close() error                              { return nil }

type fakeTerminal struct {
	workingDir string
	executed   []string
	results    map[string]entity.ExecutionResult
}

func newFakeTerminal() *fakeTerminal {
	return &fakeTerminal{workingDir: "/home/user", results: map[string]entity.ExecutionResult{}}
}

func (f *fakeTerminal) Execute(_ context.Context, command string, _ time.Duration) entity.ExecutionResult {
	f.executed = append(f.executed, command)
	if r, ok := f.results[command]; ok {
		r.Command = command
		return r
	}
	return entity.ExecutionResult{
		Status:      0,
		Stdout:      "ok\n",
		StdoutLines: []string{"ok"},
		StderrLines: []string{},
		Command:     command,
	}
}

func (f *fakeTerminal) WorkingDir() string { return f.workingDir }
func (f *fakeTerminal) ChangeDir(dir string) bool {
	f.workingDir = dir
	return true
}
func (f *fakeTerminal) SystemInfo(context.Context) map[string]string { return map[string]string{} }

type fakeBrowser struct {
	url        string
	title      string
	hasPage    bool
	navigateOK bool
	clickOK    bool
	typeOK     bool

	text  string
	links []entity.Link

	navigated   []string
	clicked     [][2]string
	screenshots []string
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{navigateOK: true, clickOK: true, typeOK: true}
}

func (f *fakeBrowser) Navigate(_ context.Context, url string) bool {
	f.navigated = append(f.navigated, url)
	if f.navigateOK {
		f.url = url
		f.title = "Page at " + url
		f.hasPage = true
	}
	return f.navigateOK
}

func (f *fakeBrowser) CurrentURL() (string, bool) { return f.url, f.hasPage }
func (f *fakeBrowser) Title() (string, bool)      { return f.title, f.hasPage }

func (f *fakeBrowser) Click(_ context.Context, kind, value string) bool {
	f.clicked = append(f.clicked, [2]string{kind, value})
	return f.clickOK
}

func (f *fakeBrowser) TypeText(_ context.Context, _, _, _ string, _ bool) bool { return f.typeOK }
func (f *fakeBrowser) ExtractText(context.Context) string                      { return f.text }
func (f *fakeBrowser) ExtractLinks(context.Context) []entity.Link              { return f.links }
func (f *fakeBrowser) Screenshot(_ context.Context, path string) bool {
	f.screenshots = append(f.screenshots, path)
	return true
}
func (f *fakeBrowser) Close() {}

type fakeCompletion struct {
	reply     string
	err       error
	plan      []entity.PlanStep
	lastInput string
}

func (f *fakeCompletion) Chat(_ context.Context, userMessage string) (string, error) {
	f.lastInput = userMessage
	return f.reply, f.err
}

func (f *fakeCompletion) CompleteOneShot(context.Context, string, string, float32, int) (string, error) {
	return "", errors.New("not wired in this test")
}

func (f *fakeCompletion) GeneratePlan(context.Context, string) []entity.PlanStep { return f.plan }
func (f *fakeCompletion) AnalyzeOutput(context.Context, string, string) entity.OutputAnalysis {
	return entity.OutputAnalysis{}
}
func (f *fakeCompletion) ExtractEntities(context.Context, string, []string) map[string][]string {
	return map[string][]string{}
}
func (f *fakeCompletion) SetSystemPrompt(string)    {}
func (f *fakeCompletion) ResetHistory()             {}
func (f *fakeCompletion) History() []entity.Message { return nil }

func newTestAgent(term *fakeTerminal, browser *fakeBrowser, completion *fakeCompletion) *Agent {
	return NewAgent(term, browser, completion, nopLogger{}, time.Minute)
}

func TestRefreshSnapshot_NoBrowserSession(t *testing.T) {
	agent := newTestAgent(newFakeTerminal(), newFakeBrowser(), &fakeCompletion{})

	snapshot := agent.Snapshot()

	assert.Equal(t, "/home/user", snapshot.WorkingDir)
	assert.Nil(t, snapshot.BrowserURL)
	assert.Nil(t, snapshot.BrowserTitle)
}

func TestRefreshSnapshot_AfterNavigation(t *testing.T) {
	browser := newFakeBrowser()
	agent := newTestAgent(newFakeTerminal(), browser, &fakeCompletion{})

	agent.RunBrowserAction(context.Background(), entity.BrowserNavigate, map[string]string{"url": "https://example.com"})

	snapshot := agent.Snapshot()
	require.NotNil(t, snapshot.BrowserURL)
	assert.Equal(t, "https://example.com", *snapshot.BrowserURL)
	require.NotNil(t, snapshot.BrowserTitle)
}

func TestRunCommand_UpdatesSnapshot(t *testing.T) {
	term := newFakeTerminal()
	term.results["cat big.txt"] = entity.ExecutionResult{
		Status: 0,
		Stdout: strings.Repeat("x", 600),
	}
	agent := newTestAgent(term, newFakeBrowser(), &fakeCompletion{})

	result := agent.RunCommand(context.Background(), "cat big.txt")

	assert.Equal(t, 0, result.Status)
	assert.Len(t, result.Stdout, 600, "full output is returned to the caller")

	snapshot := agent.Snapshot()
	assert.Equal(t, "cat big.txt", snapshot.LastCommand)
	require.NotNil(t, snapshot.LastResult)
	assert.Len(t, snapshot.LastResult.Stdout, 503, "snapshot keeps 500 chars plus ellipsis")
	assert.True(t, strings.HasSuffix(snapshot.LastResult.Stdout, "..."))
}

func TestRunCommand_ShortOutputNotTruncated(t *testing.T) {
	agent := newTestAgent(newFakeTerminal(), newFakeBrowser(), &fakeCompletion{})

	agent.RunCommand(context.Background(), "echo hi")

	snapshot := agent.Snapshot()
	require.NotNil(t, snapshot.LastResult)
	assert.Equal(t, "ok\n", snapshot.LastResult.Stdout)
}

func TestRunBrowserAction_NavigateMissingURL(t *testing.T) {
	browser := newFakeBrowser()
	agent := newTestAgent(newFakeTerminal(), browser, &fakeCompletion{})

	result := agent.RunBrowserAction(context.Background(), entity.BrowserNavigate, nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "url")
	assert.Empty(t, browser.navigated)
}

func TestRunBrowserAction_ClickDefaultsSelectorType(t *testing.T) {
	browser := newFakeBrowser()
	agent := newTestAgent(newFakeTerminal(), browser, &fakeCompletion{})

	result := agent.RunBrowserAction(context.Background(), entity.BrowserClick, map[string]string{"selector_value": "submit"})

	assert.True(t, result.Success)
	require.Len(t, browser.clicked, 1)
	assert.Equal(t, [2]string{"id", "submit"}, browser.clicked[0])
}

func TestRunBrowserAction_ClickMissingSelector(t *testing.T) {
	agent := newTestAgent(newFakeTerminal(), newFakeBrowser(), &fakeCompletion{})

	result := agent.RunBrowserAction(context.Background(), entity.BrowserClick, map[string]string{"selector_type": "css"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "selector_value")
}

func TestRunBrowserAction_ExtractTextTruncated(t *testing.T) {
	browser := newFakeBrowser()
	browser.text = strings.Repeat("y", 1200)
	agent := newTestAgent(newFakeTerminal(), browser, &fakeCompletion{})

	result := agent.RunBrowserAction(context.Background(), entity.BrowserExtract, nil)

	assert.True(t, result.Success)
	assert.Len(t, result.Content, 1003)
	assert.True(t, strings.HasSuffix(result.Content, "..."))
}

func TestRunBrowserAction_ExtractLinksCapped(t *testing.T) {
	browser := newFakeBrowser()
	for i := 0; i < 30; i++ {
		browser.links = append(browser.links, entity.Link{Text: "link", Href: "https://example.com"})
	}
	agent := newTestAgent(newFakeTerminal(), browser, &fakeCompletion{})

	result := agent.RunBrowserAction(context.Background(), entity.BrowserExtract, map[string]string{"content_type": "links"})

	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "20 links")
}

func TestRunBrowserAction_ScreenshotDefaultFilename(t *testing.T) {
	browser := newFakeBrowser()
	agent := newTestAgent(newFakeTerminal(), browser, &fakeCompletion{})

	result := agent.RunBrowserAction(context.Background(), entity.BrowserScreenshot, nil)

	assert.True(t, result.Success)
	require.Len(t, browser.screenshots, 1)
	assert.Equal(t, "screenshot.png", browser.screenshots[0])
}

func TestRunBrowserAction_Unsupported(t *testing.T) {
	agent := newTestAgent(newFakeTerminal(), newFakeBrowser(), &fakeCompletion{})

	result := agent.RunBrowserAction(context.Background(), "hover", nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Unsupported browser action")
}

func TestRunBrowserAction_RecordsOutcome(t *testing.T) {
	agent := newTestAgent(newFakeTerminal(), newFakeBrowser(), &fakeCompletion{})

	agent.RunBrowserAction(context.Background(), entity.BrowserNavigate, map[string]string{"url": "https://example.com"})

	snapshot := agent.Snapshot()
	require.NotNil(t, snapshot.LastBrowserAction)
	assert.Equal(t, entity.BrowserNavigate, snapshot.LastBrowserAction.Action)
	assert.Contains(t, snapshot.LastBrowserAction.Result, "Navigated to")
}

func TestProcessRequest_DispatchesActions(t *testing.T) {
	term := newFakeTerminal()
	completion := &fakeCompletion{
		reply: "Listing files:\n```bash\nls -la\n```\nBROWSER_ACTION: navigate url=https://example.com",
	}
	agent := newTestAgent(term, newFakeBrowser(), completion)

	outcome := agent.ProcessRequest(context.Background(), "show me the files")

	require.Len(t, outcome.Results, 3)
	assert.Equal(t, entity.ActionTerminal, outcome.Results[0].Kind)
	assert.Equal(t, "ls -la", outcome.Results[0].Command)
	assert.Equal(t, "ok\n", outcome.Results[0].Output)

	assert.Equal(t, entity.ActionBrowser, outcome.Results[1].Kind)
	assert.True(t, outcome.Results[1].Success)

	assert.Equal(t, entity.ActionResponse, outcome.Results[2].Kind)
	assert.Equal(t, []string{"ls -la"}, term.executed)
}

func TestProcessRequest_FailedCommandReportsStderr(t *testing.T) {
	term := newFakeTerminal()
	term.results["bad"] = entity.ExecutionResult{Status: 2, Stdout: "partial", Stderr: "bad: not found"}
	completion := &fakeCompletion{reply: "```bash\nbad\n```"}
	agent := newTestAgent(term, newFakeBrowser(), completion)

	outcome := agent.ProcessRequest(context.Background(), "run it")

	require.NotEmpty(t, outcome.Results)
	assert.Equal(t, 2, outcome.Results[0].Status)
	assert.Equal(t, "bad: not found", outcome.Results[0].Output)
}

func TestProcessRequest_AttachesContext(t *testing.T) {
	completion := &fakeCompletion{reply: "hello"}
	agent := newTestAgent(newFakeTerminal(), newFakeBrowser(), completion)

	agent.ProcessRequest(context.Background(), "what's up")

	assert.True(t, strings.HasPrefix(completion.lastInput, "what's up"))
	assert.Contains(t, completion.lastInput, "Current context:")
	assert.Contains(t, completion.lastInput, `"terminal_dir": "/home/user"`)
	assert.Contains(t, completion.lastInput, `"browser_url": null`)
}

func TestProcessRequest_ChatErrorFolded(t *testing.T) {
	completion := &fakeCompletion{err: errors.New("connection refused")}
	agent := newTestAgent(newFakeTerminal(), newFakeBrowser(), completion)

	outcome := agent.ProcessRequest(context.Background(), "anything")

	assert.Contains(t, outcome.Reply, "connection refused")
	require.Len(t, outcome.Results, 1)
	assert.Equal(t, entity.ActionResponse, outcome.Results[0].Kind)
	assert.Contains(t, outcome.Results[0].Text, "connection refused")
}

func TestProcessRequest_AppendsTaskHistory(t *testing.T) {
	completion := &fakeCompletion{reply: "plain answer"}
	agent := newTestAgent(newFakeTerminal(), newFakeBrowser(), completion)

	agent.ProcessRequest(context.Background(), "first")
	agent.ProcessRequest(context.Background(), "second")

	history := agent.TaskHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Request)
	assert.Equal(t, "second", history[1].Request)
	assert.Equal(t, "plain answer", history[0].Reply)
}

func TestExecutePlan_RoutesSteps(t *testing.T) {
	term := newFakeTerminal()
	browser := newFakeBrowser()
	completion := &fakeCompletion{
		reply: "done",
		plan: []entity.PlanStep{
			{Step: "1", Action: "Terminal", Description: "Run the listing: ls -la"},
			{Step: "2", Action: "browser", Description: "Open https://example.com/docs in the browser"},
			{Step: "3", Action: "analysis", Description: "summarize what you saw"},
		},
	}
	agent := newTestAgent(term, browser, completion)

	outcome := agent.ExecutePlan(context.Background(), "inspect the docs")

	assert.Equal(t, "inspect the docs", outcome.Goal)
	require.Len(t, outcome.Results, 3)

	assert.Equal(t, "1", outcome.Results[0].Step)
	assert.Equal(t, "ls -la", outcome.Results[0].Command, "command is the text after the colon")

	assert.Equal(t, "2", outcome.Results[1].Step)
	assert.Equal(t, entity.BrowserNavigate, outcome.Results[1].BrowserAction)
	assert.Equal(t, "https://example.com/docs", outcome.Results[1].Params["url"])
	assert.True(t, outcome.Results[1].Success)

	assert.Equal(t, "3", outcome.Results[2].Step)
	assert.Equal(t, "summarize what you saw", outcome.Results[2].Description)
	assert.NotEmpty(t, outcome.Results[2].Results, "other steps route through request processing")
}

func TestExecutePlan_TerminalStepWithoutColon(t *testing.T) {
	term := newFakeTerminal()
	completion := &fakeCompletion{
		plan: []entity.PlanStep{{Step: "1", Action: "shell", Description: "whoami"}},
	}
	agent := newTestAgent(term, newFakeBrowser(), completion)

	outcome := agent.ExecutePlan(context.Background(), "identify")

	require.Len(t, outcome.Results, 1)
	assert.Equal(t, "whoami", outcome.Results[0].Command)
}

func TestExecutePlan_BrowserStepMissingURL(t *testing.T) {
	browser := newFakeBrowser()
	completion := &fakeCompletion{
		plan: []entity.PlanStep{{Step: "1", Action: "web", Description: "open the dashboard"}},
	}
	agent := newTestAgent(newFakeTerminal(), browser, completion)

	outcome := agent.ExecutePlan(context.Background(), "check dashboard")

	require.Len(t, outcome.Results, 1)
	assert.False(t, outcome.Results[0].Success)
	assert.Contains(t, outcome.Results[0].Message, "url")
	assert.Empty(t, browser.navigated)
}

func TestExecutePlan_EmptyPlan(t *testing.T) {
	agent := newTestAgent(newFakeTerminal(), newFakeBrowser(), &fakeCompletion{})

	outcome := agent.ExecutePlan(context.Background(), "nothing")

	assert.Empty(t, outcome.Results)
	assert.Empty(t, outcome.Plan)
}
