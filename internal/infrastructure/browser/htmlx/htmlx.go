// Package htmlx distills rendered pages into plain text and link lists.
package htmlx

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"control-agent/internal/domain/entity"
)

var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"svg":      true,
	"iframe":   true,
}

// ExtractText returns the visible text of a document with whitespace
// collapsed to single spaces. A parse failure yields the empty string.
func ExtractText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	collectText(doc, &sb)

	return strings.Join(strings.Fields(sb.String()), " ")
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode && skippedTags[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// ExtractLinks returns every anchor with both text and an href. Relative
// hrefs are resolved against baseURL when it parses.
func ExtractLinks(rawHTML, baseURL string) []entity.Link {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	base, baseErr := url.Parse(baseURL)

	var links []entity.Link
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attrValue(n, "href")
			text := anchorText(n)
			if href != "" && text != "" {
				if baseErr == nil {
					if ref, err := url.Parse(href); err == nil {
						href = base.ResolveReference(ref).String()
					}
				}
				links = append(links, entity.Link{Text: text, Href: href})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

func anchorText(n *html.Node) string {
	var sb strings.Builder
	collectText(n, &sb)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}
