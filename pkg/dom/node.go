package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element builds an element node with attribute pairs: key1, value1, key2,
// value2, ...
func Element(tag string, attrPairs ...string) *html.Node {
	node := &html.Node{Type: html.ElementNode, Data: tag}
	for i := 0; i+1 < len(attrPairs); i += 2 {
		SetAttr(node, attrPairs[i], attrPairs[i+1])
	}
	return node
}

// Text builds a text node.
func Text(content string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: content}
}

// Attr returns the value of an attribute, or "" when absent.
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present, regardless of value.
func HasAttr(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, value string) {
	if n == nil {
		return
	}
	for i, attr := range n.Attr {
		if attr.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	for i, attr := range n.Attr {
		if attr.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// HasClass reports whether the element's class list contains class.
func HasClass(n *html.Node, class string) bool {
	for _, existing := range strings.Fields(Attr(n, "class")) {
		if existing == class {
			return true
		}
	}
	return false
}

// AddClass appends a class if absent.
func AddClass(n *html.Node, class string) {
	if class == "" || HasClass(n, class) {
		return
	}
	existing := Attr(n, "class")
	if existing == "" {
		SetAttr(n, "class", class)
		return
	}
	SetAttr(n, "class", existing+" "+class)
}

// RemoveClass removes a class if present.
func RemoveClass(n *html.Node, class string) {
	classes := strings.Fields(Attr(n, "class"))
	out := classes[:0]
	for _, existing := range classes {
		if existing != class {
			out = append(out, existing)
		}
	}
	SetAttr(n, "class", strings.Join(out, " "))
}

// Detach removes a node from its parent. Safe when already detached.
func Detach(n *html.Node) {
	if n == nil || n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// ClearChildren detaches every child of n.
func ClearChildren(n *html.Node) {
	if n == nil {
		return
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// Query returns the first descendant (excluding n itself) matching pred.
func Query(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if match := find(child, pred); match != nil {
			return match
		}
	}
	return nil
}

// QueryAll collects every descendant matching pred in document order.
func QueryAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	if n == nil {
		return out
	}
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if pred(child) {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(n)
	return out
}

// ByTag returns a predicate matching elements by tag name.
func ByTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

// ByClass returns a predicate matching elements carrying class.
func ByClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && HasClass(n, class)
	}
}

// InnerText concatenates the text content beneath n.
func InnerText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			builder.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return builder.String()
}

// RenderNode serializes a single node subtree.
func RenderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("dom: render node: %w", err)
	}
	return buf.String(), nil
}

// ParseFragment parses markup in a body context and returns the top-level
// nodes, so template-rendered chrome can be grafted into the tree.
func ParseFragment(markup string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	return nodes, nil
}
