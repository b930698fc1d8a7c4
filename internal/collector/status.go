package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// statusSpanClass is the class of the span carrying the market status label
// on the quote page. Selector-coupled and brittle, so status checks are never
// fatal.
const statusSpanClass = "C(#6e7780) Fz(12px) Fw(b)"

// StatusChecker scrapes a quote page for the market open/closed label.
type StatusChecker struct {
	URL    string
	Client *http.Client
}

// NewStatusChecker creates a checker for the given quote page URL.
func NewStatusChecker(pageURL string) *StatusChecker {
	return &StatusChecker{
		URL:    pageURL,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// IsClosed reports whether the market status label starts with "收盤".
func (s *StatusChecker) IsClosed(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return false, fmt.Errorf("market status request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetch market status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("fetch market status: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return false, fmt.Errorf("parse market status page: %w", err)
	}
	label, ok := findSpanText(doc, statusSpanClass)
	if !ok {
		return false, fmt.Errorf("market status label not found")
	}
	return strings.HasPrefix(label, "收盤"), nil
}

// findSpanText walks the document for the first <span> with the given class
// and returns its concatenated text.
func findSpanText(n *html.Node, class string) (string, bool) {
	if n.Type == html.ElementNode && n.Data == "span" {
		for _, attr := range n.Attr {
			if attr.Key == "class" && attr.Val == class {
				return nodeText(n), true
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text, ok := findSpanText(c, class); ok {
			return text, ok
		}
	}
	return "", false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		} else {
			b.WriteString(nodeText(c))
		}
	}
	return b.String()
}
