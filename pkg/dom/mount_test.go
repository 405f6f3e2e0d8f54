package dom_test

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/nevent-io/go-widget/pkg/boundary"
	"github.com/nevent-io/go-widget/pkg/dom"
)

const hostPage = `<!DOCTYPE html>
<html><head><title>Host</title></head>
<body>
  <div id="signup"></div>
  <div class="nevent-widget-container"></div>
</body></html>`

func parsePage(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(hostPage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestFindContainer_IDFirstThenClass(t *testing.T) {
	doc := parsePage(t)

	byID, err := dom.NewMountManager(doc, "signup").FindContainer()
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if dom.Attr(byID, "id") != "signup" {
		t.Fatalf("wrong container resolved")
	}

	byClass, err := dom.NewMountManager(doc, "").FindContainer()
	if err != nil {
		t.Fatalf("find by class: %v", err)
	}
	if !dom.HasClass(byClass, "nevent-widget-container") {
		t.Fatalf("expected class container")
	}
}

func TestFindContainer_MissingYieldsCodedError(t *testing.T) {
	doc := parsePage(t)

	_, err := dom.NewMountManager(doc, "nope").FindContainer()
	if err == nil {
		t.Fatalf("expected error")
	}
	var normalized *boundary.NormalizedError
	if !errors.As(err, &normalized) || normalized.Code != boundary.CodeContainerNotFound {
		t.Fatalf("expected CONTAINER_NOT_FOUND, got %v", err)
	}
}

func TestMount_ShadowTargetAndAttrs(t *testing.T) {
	doc := parsePage(t)
	manager := dom.NewMountManager(doc, "signup")

	target, err := manager.Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if target.Kind() != "shadow" {
		t.Fatalf("expected shadow target, got %s", target.Kind())
	}

	host := manager.Host()
	if !dom.HasAttr(host, "data-nevent-widget") {
		t.Fatalf("host missing widget attribute")
	}
	if !strings.Contains(dom.Attr(host, "style"), "all:initial") {
		t.Fatalf("host style not reset: %q", dom.Attr(host, "style"))
	}
}

func TestMount_PlainFallback(t *testing.T) {
	doc := parsePage(t)
	manager := dom.NewMountManager(doc, "signup", dom.WithShadow(false))

	target, err := manager.Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if target.Kind() != "plain" {
		t.Fatalf("expected plain target, got %s", target.Kind())
	}
	if target.Root() != manager.Host() {
		t.Fatalf("plain target should render into the host element")
	}
}

func TestUnmount_Idempotent(t *testing.T) {
	doc := parsePage(t)
	manager := dom.NewMountManager(doc, "signup")

	if _, err := manager.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}
	manager.Unmount()
	manager.Unmount()

	if manager.Mounted() {
		t.Fatalf("manager still mounted")
	}
	if doc.FindByID("signup").FirstChild != nil {
		t.Fatalf("host element left in container")
	}
}

func TestUnmount_BeforeMountIsNoOp(t *testing.T) {
	manager := dom.NewMountManager(parsePage(t), "signup")
	manager.Unmount()
}

func TestRerender_ClearsChildren(t *testing.T) {
	doc := parsePage(t)
	manager := dom.NewMountManager(doc, "signup")
	if _, err := manager.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}

	root := manager.RenderRoot()
	root.AppendChild(dom.Element("div", "class", "nevent-status"))
	root.AppendChild(dom.Element("div", "class", "nevent-status"))

	err := manager.Rerender(func(r *html.Node) error {
		r.AppendChild(dom.Element("form", "class", "nevent-form"))
		return nil
	})
	if err != nil {
		t.Fatalf("rerender: %v", err)
	}

	statuses := dom.QueryAll(root, dom.ByClass("nevent-status"))
	if len(statuses) != 0 {
		t.Fatalf("stale children survived rerender: %d", len(statuses))
	}
	if dom.Query(root, dom.ByTag("form")) == nil {
		t.Fatalf("rebuilt form missing")
	}
}
