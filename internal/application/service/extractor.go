package service

import (
	"regexp"
	"strings"

	"control-agent/internal/domain/entity"
)

// maxCommandLines rejects fenced blocks that look like a code listing rather
// than a command to run.
const maxCommandLines = 5

var (
	codeBlockRe     = regexp.MustCompile("(?s)```(?:bash|shell|sh)?\\s*(.*?)\\s*```")
	browserMarkerRe = regexp.MustCompile(`BROWSER_ACTION:[ \t]*(\w+)(?:[ \t]+([^\n]+))?`)
	fallbackNavRe   = regexp.MustCompile(`(?i)(?:navigate to|go to)\s+(https?://[^\s]+)`)
)

// Extract parses a model reply into an ordered action sequence. It is a pure
// function of its input: fenced shell blocks become terminal actions,
// BROWSER_ACTION marker lines become browser actions, and when neither is
// present a "navigate to <url>" phrase is accepted as a last resort.
//
// When the structured passes matched anything, the matched substrings are
// stripped and the residual text is appended as a single trailing response
// action. The phrase fallback yields only the navigation, with no trailing
// response action. A reply with no action signal at all comes back as one
// response action holding the entire original text.
func Extract(response string) []entity.Action {
	var actions []entity.Action

	for _, match := range codeBlockRe.FindAllStringSubmatch(response, -1) {
		candidate := match[1]
		if looksLikeListing(candidate) {
			continue
		}
		actions = append(actions, entity.NewTerminalAction(strings.TrimSpace(candidate)))
	}

	for _, match := range browserMarkerRe.FindAllStringSubmatch(response, -1) {
		name := entity.BrowserActionName(strings.ToLower(match[1]))
		actions = append(actions, entity.NewBrowserAction(name, parseParams(match[2])))
	}

	structured := len(actions) > 0

	if !structured {
		if match := fallbackNavRe.FindStringSubmatch(response); match != nil {
			return []entity.Action{
				entity.NewBrowserAction(entity.BrowserNavigate, map[string]string{"url": match[1]}),
			}
		}
	}

	if structured {
		residual := codeBlockRe.ReplaceAllString(response, "")
		residual = browserMarkerRe.ReplaceAllString(residual, "")
		actions = append(actions, entity.NewResponseAction(strings.TrimSpace(residual)))
		return actions
	}

	return []entity.Action{entity.NewResponseAction(response)}
}

func looksLikeListing(block string) bool {
	if len(strings.Split(block, "\n")) > maxCommandLines {
		return true
	}
	return strings.Contains(block, "def ") || strings.Contains(block, "class ")
}

// parseParams reads whitespace-separated key=value tokens. Tokens without an
// equals sign are dropped silently; no tokens at all yields an empty, non-nil
// map.
func parseParams(raw string) map[string]string {
	params := map[string]string{}
	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		params[key] = value
	}
	return params
}
