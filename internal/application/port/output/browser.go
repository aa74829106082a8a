package output

import (
	"context"

	"control-agent/internal/domain/entity"
)

// BrowserPort wraps a stateful browser session. Every operation degrades to
// false / empty / nil on failure; nothing panics or errors across this
// boundary. CurrentURL and Title report ok=false until a navigation has
// succeeded or when the page cannot be queried.
type BrowserPort interface {
	Navigate(ctx context.Context, url string) bool
	CurrentURL() (string, bool)
	Title() (string, bool)

	Click(ctx context.Context, selectorKind, selectorValue string) bool
	TypeText(ctx context.Context, selectorKind, selectorValue, text string, clearFirst bool) bool

	ExtractText(ctx context.Context) string
	ExtractLinks(ctx context.Context) []entity.Link
	Screenshot(ctx context.Context, path string) bool

	Close()
}
