// Package dom models the host page the widget mounts into. It wraps the
// x/net/html node tree with the small set of operations the widget engine
// needs: container resolution, isolated mount points with an optional
// declarative shadow root, idempotent teardown, and a head-level injection
// registry with per-instance ownership.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document wraps a parsed host page.
type Document struct {
	root *html.Node
}

// Parse reads a host page. The html parser never fails on malformed input;
// it repairs the tree the way browsers do, which is exactly the tolerance a
// third-party widget needs.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses a host page held in memory.
func ParseString(page string) (*Document, error) {
	return Parse(strings.NewReader(page))
}

// NewDocument builds a minimal empty host page.
func NewDocument() *Document {
	doc, err := ParseString("<!DOCTYPE html><html><head></head><body></body></html>")
	if err != nil {
		panic(err)
	}
	return doc
}

// Root exposes the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Head returns the document head element.
func (d *Document) Head() *html.Node {
	return find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "head"
	})
}

// Body returns the document body element.
func (d *Document) Body() *html.Node {
	return find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	})
}

// FindByID returns the first element with the given id.
func (d *Document) FindByID(id string) *html.Node {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && Attr(n, "id") == id
	})
}

// FindByClass returns the first element carrying the given class.
func (d *Document) FindByClass(class string) *html.Node {
	if strings.TrimSpace(class) == "" {
		return nil
	}
	return find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && HasClass(n, class)
	})
}

// HTML serializes the document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("dom: render document: %w", err)
	}
	return buf.String(), nil
}

func find(root *html.Node, pred func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	if pred(root) {
		return root
	}
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if match := find(child, pred); match != nil {
			return match
		}
	}
	return nil
}
