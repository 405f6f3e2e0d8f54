package widget

import (
	theme "github.com/goliatone/go-theme"

	"github.com/nevent-io/go-widget/internal/chrome"
	"github.com/nevent-io/go-widget/pkg/boundary"
	"github.com/nevent-io/go-widget/pkg/fetch"
	"github.com/nevent-io/go-widget/pkg/i18n"
)

// Option customizes widget construction.
type Option func(*Widget)

// WithBoundary replaces the default error boundary, typically to share one
// boundary between several widgets on a page.
func WithBoundary(bnd *boundary.Boundary) Option {
	return func(w *Widget) {
		if bnd != nil {
			w.bnd = bnd
		}
	}
}

// WithFetcher replaces the retrying HTTP client.
func WithFetcher(fetcher *fetch.Fetcher) Option {
	return func(w *Widget) {
		if fetcher != nil {
			w.fetcher = fetcher
		}
	}
}

// WithCatalog replaces the embedded translation catalog.
func WithCatalog(catalog *i18n.Catalog) Option {
	return func(w *Widget) {
		if catalog != nil {
			w.catalog = catalog
		}
	}
}

// WithChrome replaces the shell template engine.
func WithChrome(engine *chrome.Engine) Option {
	return func(w *Widget) {
		if engine != nil {
			w.shell = engine
		}
	}
}

// WithTheme applies a theme manifest; its tokens become CSS variables under
// the nevent prefix. Variant selects a token overlay and may be empty.
func WithTheme(manifest *theme.Manifest, variant string) Option {
	return func(w *Widget) {
		w.manifest = manifest
		w.themeVariant = variant
	}
}

// WithShadowRoot toggles the declarative shadow root. Disabled, the widget
// renders directly into the host element and relies on class namespacing.
func WithShadowRoot(enabled bool) Option {
	return func(w *Widget) {
		w.shadow = enabled
	}
}
