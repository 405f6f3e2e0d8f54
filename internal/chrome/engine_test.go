package chrome_test

import (
	"strings"
	"testing"
	"testing/fstest"

	gotemplate "github.com/goliatone/go-template"

	"github.com/nevent-io/go-widget/internal/chrome"
)

func TestRenderEmbeddedWidgetShell(t *testing.T) {
	engine, err := chrome.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := engine.Render("widget", map[string]any{
		"widgetId":       "wgt_123",
		"title":          "Stay in touch",
		"css":            ".nevent-root { color: red; }",
		"offlineMessage": "You appear to be offline",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		`data-widget-id="wgt_123"`,
		"<style>.nevent-root { color: red; }</style>",
		"Stay in touch",
		`class="nevent-body"`,
		`role="alert"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("shell missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEscapesUntrustedValues(t *testing.T) {
	engine, err := chrome.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := engine.Render("widget", map[string]any{
		"widgetId": "wgt_123",
		"title":    `<script>alert(1)</script>`,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("title not escaped:\n%s", out)
	}
}

func TestRichTextFilterSanitizes(t *testing.T) {
	engine, err := chrome.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := engine.Render("widget", map[string]any{
		"widgetId": "wgt_123",
		"title":    "t",
		"subtitle": `Read the <a href="https://nevent.io/privacy">policy</a><script>x()</script>`,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, `<a href="https://nevent.io/privacy" rel="nofollow">policy</a>`) {
		t.Fatalf("link stripped from subtitle:\n%s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("script survived sanitization:\n%s", out)
	}
}

func TestRenderSuccessPanel(t *testing.T) {
	engine, err := chrome.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := engine.Render("success", map[string]any{
		"successTitle":   "Thank you!",
		"successMessage": "Check your inbox.",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "Thank you!") || !strings.Contains(out, "Check your inbox.") {
		t.Fatalf("success panel incomplete:\n%s", out)
	}
}

func TestRenderInlineTemplate(t *testing.T) {
	engine, err := chrome.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := engine.Render("hello {{ name|trim }}", map[string]any{"name": "  world  "})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "hello world" {
		t.Fatalf("Render = %q", out)
	}
}

func TestWithFSOverridesShells(t *testing.T) {
	engine, err := chrome.New(chrome.WithFS(fstest.MapFS{
		"widget.tpl": {Data: []byte("custom {{ widgetId }}")},
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := engine.Render("widget", map[string]any{"widgetId": "wgt_9"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "custom wgt_9" {
		t.Fatalf("Render = %q", out)
	}
}

func TestGoTemplateOptionsAreDiscarded(t *testing.T) {
	engine, err := chrome.New(chrome.WithGoTemplateOptions(gotemplate.WithExtension(".tmpl")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// The extension stays .tpl; the go-template option must not leak through.
	out, err := engine.Render("widget", map[string]any{"widgetId": "wgt_1", "title": "t"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, `data-widget-id="wgt_1"`) {
		t.Fatalf("embedded shell not rendered:\n%s", out)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine, err := chrome.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := engine.Render("missing", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestGlobalData(t *testing.T) {
	engine, err := chrome.New(chrome.WithGlobalData(map[string]any{"brand": "nevent"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := engine.Render("powered by {{ brand }}", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "powered by nevent" {
		t.Fatalf("Render = %q", out)
	}
}
