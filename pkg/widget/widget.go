// Package widget wires the full subscription widget together: config
// resolution against the backend, mounting into a host document, the
// schema-driven form, fonts, connectivity, and teardown. Construction only
// validates; everything that can fail at runtime happens inside Init and is
// routed through the error boundary rather than surfacing to the host.
package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	theme "github.com/goliatone/go-theme"
	"golang.org/x/net/html"

	"github.com/nevent-io/go-widget/internal/chrome"
	"github.com/nevent-io/go-widget/internal/styles"
	"github.com/nevent-io/go-widget/pkg/boundary"
	"github.com/nevent-io/go-widget/pkg/config"
	"github.com/nevent-io/go-widget/pkg/connection"
	"github.com/nevent-io/go-widget/pkg/dom"
	"github.com/nevent-io/go-widget/pkg/fetch"
	"github.com/nevent-io/go-widget/pkg/fonts"
	"github.com/nevent-io/go-widget/pkg/form"
	"github.com/nevent-io/go-widget/pkg/i18n"
	"github.com/nevent-io/go-widget/pkg/submit"
)

// State tracks the widget lifecycle. Transitions only move forward except
// ready → ready on locale changes.
type State string

const (
	StateCreated      State = "created"
	StateInitializing State = "initializing"
	StateReady        State = "ready"
	StateDestroyed    State = "destroyed"
)

// Widget renders one subscription form into a host document.
type Widget struct {
	mu sync.Mutex

	cfg     config.Config
	state   State
	doc     *dom.Document
	bnd     *boundary.Boundary
	arena   *boundary.TimerArena
	monitor *connection.Monitor
	fetcher *fetch.Fetcher
	catalog *i18n.Catalog
	shell   *chrome.Engine

	manifest     *theme.Manifest
	themeVariant string
	shadow       bool

	mount      *dom.MountManager
	head       *dom.HeadInjector
	engine     *form.Engine
	controller *submit.Controller

	rootNode    *html.Node
	bodyNode    *html.Node
	statusNode  *html.Node
	bannerNode  *html.Node
	unsubscribe func()
}

// New validates the configuration and prepares a widget. The only
// synchronous failure is an invalid config; anything else waits for Init.
func New(doc *dom.Document, userCfg config.Config, options ...Option) (*Widget, error) {
	cfg := config.Resolve(userCfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = dom.NewDocument()
	}

	w := &Widget{
		cfg:     cfg,
		state:   StateCreated,
		doc:     doc,
		monitor: connection.NewMonitor(),
		arena:   boundary.NewTimerArena(),
		catalog: i18n.Default(),
		shadow:  true,
	}
	for _, opt := range options {
		opt(w)
	}

	if w.bnd == nil {
		w.bnd = boundary.New(
			boundary.WithDebug(cfg.Debug),
			boundary.WithHandler(func(err *boundary.NormalizedError) {
				if hook := w.cfg.Hooks.OnError; hook != nil {
					hook(err)
				}
			}),
		)
	}
	if w.fetcher == nil {
		w.fetcher = fetch.New(
			fetch.WithStatus(w.monitor),
			fetch.WithArena(w.arena),
		)
	}
	if w.shell == nil {
		shell, err := chrome.New()
		if err != nil {
			return nil, fmt.Errorf("widget: chrome engine: %w", err)
		}
		w.shell = shell
	}

	return w, nil
}

// Init loads the server configuration, mounts, and renders. Calling Init on
// a destroyed widget is a no-op; a failed init leaves the widget created so
// the host may retry. All failures are dispatched through the boundary and
// returned normalized; a panic anywhere below is intercepted and dispatched
// instead of reaching the host.
func (w *Widget) Init(ctx context.Context) error {
	var err error
	w.bnd.RunCtx(ctx, "widget: init", func(ctx context.Context) error {
		err = w.init(ctx)
		return nil
	})
	return err
}

func (w *Widget) init(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateDestroyed:
		return nil
	case StateReady, StateInitializing:
		return nil
	}
	w.state = StateInitializing

	// Roll back on any failure below, including a panic unwinding to the
	// boundary, so the host may retry Init.
	completed := false
	defer func() {
		if !completed {
			w.state = StateCreated
		}
	}()

	if hook := w.cfg.Hooks.OnLoad; hook != nil {
		boundary.WrapCallback(w.bnd, "onLoad", hook)(map[string]any{"widgetId": w.cfg.WidgetID})
	}

	w.loadServerConfig(ctx)

	if err := w.render(); err != nil {
		norm := boundary.Normalize(err, "widget: init")
		w.bnd.Dispatch(norm)
		return norm
	}

	w.unsubscribe = w.monitor.Subscribe(func(online bool) {
		w.bnd.Run("connectionChange", func() error {
			w.setOffline(!online)
			return nil
		})
	})

	w.state = StateReady
	completed = true
	if hook := w.cfg.Hooks.OnReady; hook != nil {
		boundary.WrapCallback(w.bnd, "onReady", hook)(map[string]any{"widgetId": w.cfg.WidgetID})
	}
	return nil
}

// loadServerConfig fetches remote settings and merges them over the resolved
// config. Failure falls back to local settings after dispatching
// CONFIG_LOAD_FAILED; a broken backend must never block rendering.
func (w *Widget) loadServerConfig(ctx context.Context) {
	url := fmt.Sprintf("%s/public/widget/%s/config?tenantId=%s", w.cfg.APIURL, w.cfg.WidgetID, w.cfg.TenantID)

	resp, err := w.fetcher.FetchWithRetry(ctx, url, fetch.Options{Method: http.MethodGet}, w.cfg.ConfigRetries)
	if err != nil {
		norm := boundary.Normalize(err, "widget: load config")
		norm.Code = boundary.CodeConfigLoadFailed
		w.bnd.Dispatch(norm)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		w.bnd.Dispatch(boundary.Errorf(boundary.CodeConfigLoadFailed,
			"widget: load config: status %d", resp.StatusCode))
		return
	}

	var server config.ServerConfig
	if err := json.NewDecoder(resp.Body).Decode(&server); err != nil {
		w.bnd.Dispatch(boundary.Normalize(err, "widget: decode config"))
		return
	}
	w.cfg = config.MergeServer(w.cfg, server)
}

// render mounts the host element and builds the shell and form. Called with
// the lock held, both from Init and from SetLocale.
func (w *Widget) render() error {
	if w.mount == nil {
		w.mount = dom.NewMountManager(w.doc, w.cfg.ContainerID, dom.WithShadow(w.shadow))
		if _, err := w.mount.Mount(); err != nil {
			return err
		}
		w.head = dom.NewHeadInjector(w.doc)
	}

	err := w.mount.Rerender(func(root *html.Node) error {
		markup, err := w.shell.Render("widget", w.shellData())
		if err != nil {
			return err
		}
		nodes, err := dom.ParseFragment(markup)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			root.AppendChild(n)
		}

		w.rootNode = dom.Query(root, dom.ByClass("nevent-root"))
		w.bodyNode = dom.Query(root, dom.ByClass("nevent-body"))
		w.statusNode = dom.Query(root, dom.ByClass("nevent-status"))
		w.bannerNode = dom.Query(root, dom.ByClass("nevent-offline-banner"))
		if w.bodyNode == nil {
			return boundary.NewError(boundary.CodeUnknown, "widget: shell missing body node")
		}

		w.engine = form.New(&w.cfg, w.catalog)
		return w.engine.Build(w.bodyNode)
	})
	if err != nil {
		return err
	}

	w.controller = submit.NewController(&w.cfg, w.engine, w.fetcher, w.bnd, w.arena, w.monitor, &view{w: w})

	fonts.NewLoader(w.head).Load(w.cfg.Fonts)
	w.applyOffline(!w.monitor.Online())
	return nil
}

func (w *Widget) shellData() map[string]any {
	m := form.NewMessages(&w.cfg, w.catalog)
	title := w.cfg.Title
	if title == "" {
		title = m.Get("title")
	}
	return map[string]any{
		"widgetId":       w.cfg.WidgetID,
		"title":          title,
		"offlineMessage": m.Get("offlineMessage"),
		"css": styles.Build(
			w.cfg.Styles, w.cfg.CustomCSS, w.cfg.Animations,
			w.manifest, w.themeVariant,
		),
	}
}

// Submit runs a submission with current form state. Panics below the call
// are intercepted by the boundary.
func (w *Widget) Submit(ctx context.Context) error {
	var err error
	w.bnd.RunCtx(ctx, "widget: submit", func(ctx context.Context) error {
		err = w.submit(ctx)
		return nil
	})
	return err
}

func (w *Widget) submit(ctx context.Context) error {
	w.mu.Lock()
	controller := w.controller
	state := w.state
	w.mu.Unlock()

	if state != StateReady || controller == nil {
		return boundary.NewError(boundary.CodeUnknown, "widget: submit before init")
	}
	return controller.Submit(ctx)
}

// SetValue forwards a field value to the form engine.
func (w *Widget) SetValue(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.engine == nil {
		return boundary.NewError(boundary.CodeUnknown, "widget: set value before init")
	}
	return w.engine.SetValue(field, value)
}

// SetConsent forwards the consent checkbox state.
func (w *Widget) SetConsent(granted bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.engine != nil {
		w.engine.SetConsent(granted)
	}
}

// SetOnline drives the connection monitor, typically from host-side
// visibility or network probes.
func (w *Widget) SetOnline(online bool) {
	w.monitor.SetOnline(online)
}

// GetLocale returns the active locale.
func (w *Widget) GetLocale() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.catalog.Resolve(w.cfg.Locale)
}

// SetLocale switches languages and rerenders in place. Field values are
// dropped with the old tree; connection and head state survive. Panics in
// the rerender path are intercepted by the boundary.
func (w *Widget) SetLocale(locale string) error {
	var err error
	w.bnd.Run("widget: set locale", func() error {
		err = w.setLocale(locale)
		return nil
	})
	return err
}

func (w *Widget) setLocale(locale string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateReady {
		w.cfg.Locale = locale
		return nil
	}

	previous := w.cfg.Locale
	w.cfg.Locale = locale
	completed := false
	defer func() {
		if !completed {
			w.cfg.Locale = previous
		}
	}()

	if err := w.render(); err != nil {
		norm := boundary.Normalize(err, "widget: set locale")
		w.bnd.Dispatch(norm)
		return norm
	}
	completed = true
	return nil
}

// Destroy tears the widget down: timers, subscriptions, head elements, and
// the mounted subtree. Destroy is idempotent and a destroyed widget ignores
// later Init calls.
func (w *Widget) Destroy() {
	w.bnd.Run("widget: destroy", func() error {
		w.destroy()
		return nil
	})
}

func (w *Widget) destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateDestroyed {
		return
	}
	w.state = StateDestroyed

	w.arena.StopAll()
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
	if w.head != nil {
		w.head.RemoveOwned()
	}
	if w.mount != nil {
		w.mount.Unmount()
	}
	w.engine = nil
	w.controller = nil
}

// State returns the current lifecycle state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Config returns a copy of the resolved configuration.
func (w *Widget) Config() config.Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// HTML renders the whole host document.
func (w *Widget) HTML() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc.HTML()
}

// Boundary exposes the widget's error boundary so hosts can attach a
// handler after construction.
func (w *Widget) Boundary() *boundary.Boundary { return w.bnd }

func (w *Widget) setOffline(offline bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.applyOffline(offline)
}

func (w *Widget) applyOffline(offline bool) {
	if w.bannerNode == nil {
		return
	}
	if offline {
		dom.SetAttr(w.bannerNode, "data-visible", "true")
	} else {
		dom.SetAttr(w.bannerNode, "data-visible", "false")
	}
	if w.engine != nil {
		w.engine.SetBusy(offline)
	}
}
