package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Navigator loads one page at a time and exposes DOM queries against it.
// A Navigator is a single long-lived resource; callers own it and must Close it.
type Navigator interface {
	// Load navigates to url, replacing the current page.
	Load(ctx context.Context, url string) error
	// WaitFor blocks until selector is present or timeout elapses.
	// A timeout is reported through the result, not the error; the error is
	// reserved for transport failures and cancellation.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (WaitResult, error)
	// FindAll returns every element matching selector on the current page, without waiting.
	FindAll(ctx context.Context, selector string) ([]Element, error)
	// Close releases the underlying browser or connections.
	Close() error
}

// WaitResult is the outcome of a bounded wait: Found with an element, or timed out.
type WaitResult struct {
	Element Element
	Found   bool
}

// Found returns a successful wait result.
func Found(el Element) WaitResult {
	return WaitResult{Element: el, Found: true}
}

// TimedOut returns the result of a wait that gave up.
func TimedOut() WaitResult {
	return WaitResult{}
}

// Element is a node of a page snapshot.
type Element struct {
	sel *goquery.Selection
}

// NewElement wraps a goquery selection; only its first node is used.
func NewElement(sel *goquery.Selection) Element {
	return Element{sel: sel.First()}
}

// Valid reports whether the element refers to a node.
func (e Element) Valid() bool {
	return e.sel != nil && e.sel.Length() > 0
}

// Attr returns the value of attribute name and whether it is present.
func (e Element) Attr(name string) (string, bool) {
	if !e.Valid() {
		return "", false
	}
	return e.sel.Attr(name)
}

// Text returns the element's text the way a browser renders it: <br> becomes
// a line break and every other whitespace run collapses to one space.
func (e Element) Text() string {
	if !e.Valid() {
		return ""
	}
	var sb strings.Builder
	writeText(&sb, e.sel)

	lines := strings.Split(sb.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

var sourceNewlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func writeText(sb *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		switch goquery.NodeName(node) {
		case "#text":
			sb.WriteString(sourceNewlines.Replace(node.Text()))
		case "br":
			sb.WriteByte('\n')
		default:
			writeText(sb, node)
		}
	})
}

// FindAll returns descendants matching selector in document order.
func (e Element) FindAll(selector string) []Element {
	if !e.Valid() {
		return nil
	}
	return elements(e.sel.Find(selector))
}

// First returns the first descendant matching selector.
func (e Element) First(selector string) (Element, bool) {
	if !e.Valid() {
		return Element{}, false
	}
	found := e.sel.Find(selector)
	if found.Length() == 0 {
		return Element{}, false
	}
	return NewElement(found), true
}

// ParseDocument parses an HTML page into its root element.
func ParseDocument(html string) (Element, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Element{}, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return Element{sel: doc.Selection}, nil
}

func elements(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, Element{sel: s})
	})
	return out
}
