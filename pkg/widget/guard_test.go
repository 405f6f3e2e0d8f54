package widget

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nevent-io/go-widget/pkg/boundary"
	"github.com/nevent-io/go-widget/pkg/config"
	"github.com/nevent-io/go-widget/pkg/dom"
)

const guardHostPage = `<!doctype html><html><head></head><body><div id="signup"></div></body></html>`

func newGuardWidget(t *testing.T, options ...Option) *Widget {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	doc, err := dom.ParseString(guardHostPage)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	w, err := New(doc, config.Config{
		WidgetID:    "wgt_1",
		TenantID:    "tnt_1",
		ContainerID: "signup",
		APIURL:      server.URL,
	}, options...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

// A broken internal component must not let a panic escape a public method;
// the boundary intercepts it and the widget stays retryable.
func TestInitContainsPanicAndStaysRetryable(t *testing.T) {
	var dispatched []*boundary.NormalizedError
	bnd := boundary.New(boundary.WithHandler(func(e *boundary.NormalizedError) {
		dispatched = append(dispatched, e)
	}))
	w := newGuardWidget(t, WithBoundary(bnd))

	monitor := w.monitor
	w.monitor = nil // render now dereferences a nil monitor

	if err := w.Init(context.Background()); err != nil {
		t.Fatalf("Init returned %v, want nil with the panic dispatched", err)
	}
	if len(dispatched) == 0 {
		t.Fatal("panic was not dispatched through the boundary")
	}
	if got := w.State(); got != StateCreated {
		t.Fatalf("state after contained panic = %q, want %q", got, StateCreated)
	}

	w.monitor = monitor
	if err := w.Init(context.Background()); err != nil {
		t.Fatalf("retry Init: %v", err)
	}
	if got := w.State(); got != StateReady {
		t.Fatalf("state after retry = %q, want %q", got, StateReady)
	}
}

func TestSetLocaleContainsPanicAndRollsBack(t *testing.T) {
	w := newGuardWidget(t)
	if err := w.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	w.monitor = nil
	if err := w.SetLocale("es"); err != nil {
		t.Fatalf("SetLocale returned %v, want nil with the panic dispatched", err)
	}
	if got := w.GetLocale(); got != "en" {
		t.Fatalf("locale after contained panic = %q, want rollback to en", got)
	}
	if got := w.State(); got != StateReady {
		t.Fatalf("state = %q, want %q", got, StateReady)
	}
}
