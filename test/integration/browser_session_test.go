package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"control-agent/internal/infrastructure/browser/rod"
	"control-agent/internal/infrastructure/logger"
)

// These tests launch a real headless Chromium. Run with -short to skip them.

func testPage() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
  <h1>Hello World</h1>
  <a href="/next">Next page</a>
  <input id="query" name="q" type="text">
  <button id="go">Go</button>
</body>
</html>`)
	}))
}

func newSession(t *testing.T) *rod.Session {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser integration test in short mode")
	}

	cfg := rod.DefaultConfig()
	session, err := rod.NewSession(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(session.Close)
	return session
}

func TestSession_Navigate(t *testing.T) {
	server := testPage()
	defer server.Close()
	session := newSession(t)
	ctx := context.Background()

	assert.True(t, session.Navigate(ctx, server.URL))

	url, ok := session.CurrentURL()
	require.True(t, ok)
	assert.Equal(t, server.URL+"/", url)

	title, ok := session.Title()
	require.True(t, ok)
	assert.Equal(t, "Test Page", title)
}

func TestSession_URLUnknownBeforeNavigation(t *testing.T) {
	session := newSession(t)

	_, ok := session.CurrentURL()
	assert.False(t, ok)
	_, ok = session.Title()
	assert.False(t, ok)
}

func TestSession_NavigateFailure(t *testing.T) {
	session := newSession(t)

	ok := session.Navigate(context.Background(), "http://127.0.0.1:1/unreachable")
	assert.False(t, ok)

	_, known := session.CurrentURL()
	assert.False(t, known, "a failed first navigation leaves the location unknown")
}

func TestSession_ExtractTextAndLinks(t *testing.T) {
	server := testPage()
	defer server.Close()
	session := newSession(t)
	ctx := context.Background()

	require.True(t, session.Navigate(ctx, server.URL))

	text := session.ExtractText(ctx)
	assert.Contains(t, text, "Hello World")

	links := session.ExtractLinks(ctx)
	require.NotEmpty(t, links)
	assert.Equal(t, "Next page", links[0].Text)
	assert.Equal(t, server.URL+"/next", links[0].Href)
}

func TestSession_TypeText(t *testing.T) {
	server := testPage()
	defer server.Close()
	session := newSession(t)
	ctx := context.Background()

	require.True(t, session.Navigate(ctx, server.URL))
	assert.True(t, session.TypeText(ctx, "id", "query", "golang", true))
	assert.True(t, session.Click(ctx, "id", "go"))
}

func TestSession_Screenshot(t *testing.T) {
	server := testPage()
	defer server.Close()
	session := newSession(t)
	ctx := context.Background()

	require.True(t, session.Navigate(ctx, server.URL))

	path := filepath.Join(t.TempDir(), "shot")
	assert.True(t, session.Screenshot(ctx, path))

	_, err := os.Stat(path + ".jpg")
	assert.NoError(t, err, "extension is appended when missing")
}
