package dom

import "golang.org/x/net/html"

// RenderTarget abstracts where widget markup lands. The strategy is chosen
// once at mount time and used uniformly by all rendering code: a declarative
// shadow root when the capability is enabled, the host element itself
// otherwise. The fallback path relies on the nevent-* class namespace for
// isolation instead.
type RenderTarget interface {
	// Root is the node all widget markup is appended to.
	Root() *html.Node
	// Kind names the strategy, for diagnostics and tests.
	Kind() string
}

type shadowTarget struct {
	template *html.Node
}

func newShadowTarget(host *html.Node) *shadowTarget {
	template := Element("template", "shadowrootmode", "open")
	host.AppendChild(template)
	return &shadowTarget{template: template}
}

func (t *shadowTarget) Root() *html.Node { return t.template }
func (t *shadowTarget) Kind() string     { return "shadow" }

type plainTarget struct {
	host *html.Node
}

func (t *plainTarget) Root() *html.Node { return t.host }
func (t *plainTarget) Kind() string     { return "plain" }
