// Package parser turns raw catalogue pages (HTML or JSON) into typed,
// validated records. Parsers are pure: no I/O, and one malformed record
// never aborts the page it appears on.
package parser

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Document is the HTML query capability the parsers depend on. It wraps
// the underlying query library so record parsers never touch it directly.
type Document struct {
	root *goquery.Document
}

// Selection is a set of matched nodes.
type Selection struct {
	sel *goquery.Selection
}

// ParseDocument parses raw HTML into a queryable document.
func ParseDocument(content []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: doc}, nil
}

// Find returns the nodes matching the CSS selector.
func (d *Document) Find(selector string) *Selection {
	return &Selection{sel: d.root.Find(selector)}
}

// Find searches within the current selection.
func (s *Selection) Find(selector string) *Selection {
	return &Selection{sel: s.sel.Find(selector)}
}

// First narrows the selection to its first node.
func (s *Selection) First() *Selection {
	return &Selection{sel: s.sel.First()}
}

// Length returns the number of matched nodes.
func (s *Selection) Length() int {
	return s.sel.Length()
}

// Text returns the combined text of the matched nodes, trimmed.
func (s *Selection) Text() string {
	return trimText(s.sel.Text())
}

// Attr returns the named attribute of the first matched node.
func (s *Selection) Attr(name string) (string, bool) {
	return s.sel.Attr(name)
}

// Each iterates over the matched nodes.
func (s *Selection) Each(fn func(i int, node *Selection)) {
	s.sel.Each(func(i int, gs *goquery.Selection) {
		fn(i, &Selection{sel: gs})
	})
}

// text returns the trimmed text of the first selector match inside s,
// or "" when there is no match. A missing node yields a zero value,
// never a panic.
func (s *Selection) text(selector string) string {
	return s.Find(selector).First().Text()
}

// attr returns the named attribute of the first selector match inside s.
func (s *Selection) attr(selector, name string) string {
	v, _ := s.Find(selector).First().Attr(name)
	return v
}
