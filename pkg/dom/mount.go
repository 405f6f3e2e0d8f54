package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/nevent-io/go-widget/pkg/boundary"
)

// WidgetAttr tags the single host element a widget instance owns inside the
// container.
const WidgetAttr = "data-nevent-widget"

// hostStyle resets every inherited CSS property on the host element so the
// widget renders identically regardless of host page styling.
const hostStyle = "all:initial;display:block;box-sizing:border-box;"

// MountOption customises a MountManager.
type MountOption func(*MountManager)

// WithShadow toggles the shadow-root strategy. Enabled by default; disable
// to exercise the plain fallback path.
func WithShadow(enabled bool) MountOption {
	return func(m *MountManager) {
		m.shadow = enabled
	}
}

// MountManager resolves the widget's container and owns its mount point
// from creation through idempotent teardown.
type MountManager struct {
	doc         *Document
	containerID string
	shadow      bool

	container *html.Node
	host      *html.Node
	target    RenderTarget
	mounted   bool
}

// NewMountManager builds a manager for the given document. containerID may
// be empty, in which case FindContainer falls back to the well-known
// container class.
func NewMountManager(doc *Document, containerID string, options ...MountOption) *MountManager {
	m := &MountManager{doc: doc, containerID: strings.TrimSpace(containerID), shadow: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// FindContainer resolves the host container: explicit id first, then the
// well-known class selector. The returned error carries the
// CONTAINER_NOT_FOUND code; callers surface it through the boundary rather
// than throwing it out of init.
func (m *MountManager) FindContainer() (*html.Node, error) {
	if m.doc == nil {
		return nil, boundary.NewError(boundary.CodeContainerNotFound, "no document to mount into")
	}
	if m.containerID != "" {
		if node := m.doc.FindByID(m.containerID); node != nil {
			return node, nil
		}
		return nil, boundary.Errorf(boundary.CodeContainerNotFound,
			"container #%s not found", m.containerID)
	}
	if node := m.doc.FindByClass("nevent-widget-container"); node != nil {
		return node, nil
	}
	return nil, boundary.NewError(boundary.CodeContainerNotFound,
		"no container element found; add an element with id or the nevent-widget-container class")
}

// Mount creates the host element inside the container and selects the
// render target strategy. Mounting twice without an Unmount is a
// programming error.
func (m *MountManager) Mount() (RenderTarget, error) {
	if m.mounted {
		return nil, fmt.Errorf("dom: already mounted")
	}

	container, err := m.FindContainer()
	if err != nil {
		return nil, err
	}

	host := Element("div",
		WidgetAttr, "",
		"class", "nevent-widget-host",
		"style", hostStyle,
	)
	container.AppendChild(host)

	var target RenderTarget
	if m.shadow {
		target = newShadowTarget(host)
	} else {
		target = &plainTarget{host: host}
	}

	m.container = container
	m.host = host
	m.target = target
	m.mounted = true
	return target, nil
}

// Mounted reports whether the manager currently owns a live mount.
func (m *MountManager) Mounted() bool {
	return m.mounted
}

// Host returns the host element, or nil before Mount/after Unmount.
func (m *MountManager) Host() *html.Node {
	if !m.mounted {
		return nil
	}
	return m.host
}

// RenderRoot returns the node widget markup is appended to, or nil when
// unmounted.
func (m *MountManager) RenderRoot() *html.Node {
	if !m.mounted || m.target == nil {
		return nil
	}
	return m.target.Root()
}

// TargetKind names the active render strategy, or "" when unmounted.
func (m *MountManager) TargetKind() string {
	if !m.mounted || m.target == nil {
		return ""
	}
	return m.target.Kind()
}

// PinMinHeight pins the host's current rendered height as a minimum so
// swapping the form for a success panel causes no layout shift.
func (m *MountManager) PinMinHeight(px int) {
	if !m.mounted || px <= 0 {
		return
	}
	style := Attr(m.host, "style")
	SetAttr(m.host, "style", fmt.Sprintf("%smin-height:%dpx;", style, px))
}

// Rerender clears every child of the render root and re-invokes the render
// pipeline. Used for locale switches without a full destroy/init cycle.
func (m *MountManager) Rerender(build func(root *html.Node) error) error {
	root := m.RenderRoot()
	if root == nil {
		return fmt.Errorf("dom: rerender before mount")
	}
	ClearChildren(root)
	if build == nil {
		return nil
	}
	return build(root)
}

// Unmount removes the host element and its subtree from the container.
// Safe to call when never mounted or already unmounted.
func (m *MountManager) Unmount() {
	if !m.mounted {
		return
	}
	Detach(m.host)
	m.container = nil
	m.host = nil
	m.target = nil
	m.mounted = false
}
