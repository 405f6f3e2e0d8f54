package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// HeadInjector manages the only resource the widget mutates outside its own
// mount subtree: document-head elements (font links, font-face styles).
// Injections dedupe by stable element id across instances, and every
// instance tracks exactly the nodes it personally inserted so teardown
// removes those and nothing a sibling widget added.
type HeadInjector struct {
	doc   *Document
	owned []*html.Node
}

// NewHeadInjector builds an injector for the document.
func NewHeadInjector(doc *Document) *HeadInjector {
	return &HeadInjector{doc: doc}
}

// Inject inserts the node built by build under the given stable id unless
// an element with that id already exists in the head. It reports whether
// this call inserted the node.
func (h *HeadInjector) Inject(id string, build func() *html.Node) bool {
	if h == nil || h.doc == nil || strings.TrimSpace(id) == "" || build == nil {
		return false
	}
	head := h.doc.Head()
	if head == nil {
		return false
	}
	if h.doc.FindByID(id) != nil {
		return false
	}

	node := build()
	if node == nil {
		return false
	}
	SetAttr(node, "id", id)
	head.AppendChild(node)
	h.owned = append(h.owned, node)
	return true
}

// Owned reports how many head elements this instance inserted.
func (h *HeadInjector) Owned() int {
	if h == nil {
		return 0
	}
	return len(h.owned)
}

// RemoveOwned detaches exactly the elements this instance inserted.
// Idempotent.
func (h *HeadInjector) RemoveOwned() {
	if h == nil {
		return
	}
	for _, node := range h.owned {
		Detach(node)
	}
	h.owned = nil
}
