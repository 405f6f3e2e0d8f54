// Package submit coordinates the subscription flow: validation, the consent
// gate, the POST with retry, and the success/error transitions. It does not
// touch the node tree directly; the widget supplies a View for that.
package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/nevent-io/go-widget/pkg/boundary"
	"github.com/nevent-io/go-widget/pkg/config"
	"github.com/nevent-io/go-widget/pkg/connection"
	"github.com/nevent-io/go-widget/pkg/fetch"
	"github.com/nevent-io/go-widget/pkg/form"
)

// View is the rendering surface the controller drives. Implementations swap
// the form for the success panel and show transient error copy.
type View interface {
	ShowSuccess()
	ShowError(message string)
	HideError()
}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller owns one widget's submission lifecycle. A controller is safe
// for concurrent Submit calls; only one request is ever in flight.
type Controller struct {
	cfg      *config.Config
	fetcher  *fetch.Fetcher
	engine   *form.Engine
	bnd      *boundary.Boundary
	arena    *boundary.TimerArena
	status   connection.Status
	view     View
	now      func() time.Time
	inFlight atomic.Bool

	hideTimer boundary.TimerHandle
}

func NewController(cfg *config.Config, engine *form.Engine, fetcher *fetch.Fetcher, bnd *boundary.Boundary, arena *boundary.TimerArena, status connection.Status, view View, options ...Option) *Controller {
	c := &Controller{
		cfg:     cfg,
		fetcher: fetcher,
		engine:  engine,
		bnd:     bnd,
		arena:   arena,
		status:  status,
		view:    view,
		now:     time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Submit runs one submission attempt. Duplicate calls while a request is in
// flight are dropped. Validation failures render inline and return nil; only
// transport and API failures surface as errors, already dispatched through
// the boundary.
func (c *Controller) Submit(ctx context.Context) error {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer c.inFlight.Store(false)

	if errs := c.engine.Validate(); len(errs) > 0 {
		return nil
	}

	if c.status != nil && !c.status.Online() {
		err := boundary.NewError(boundary.CodeOffline, c.engine.Messages().Get("offlineMessage"))
		c.fail(err)
		return err
	}

	c.view.HideError()
	c.engine.SetBusy(true)
	defer c.engine.SetBusy(false)

	payload := c.Payload()

	if hook := c.cfg.Hooks.OnSubmit; hook != nil {
		boundary.WrapCallback(c.bnd, "onSubmit", hook)(payload)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		norm := boundary.Normalize(err, "submit: encode payload")
		c.fail(norm)
		return norm
	}

	resp, err := c.fetcher.FetchWithRetry(ctx, c.subscribeURL(), fetch.Options{
		Method: http.MethodPost,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	}, c.cfg.SubmitRetries)
	if err != nil {
		if c.stopped() {
			return nil
		}
		norm := boundary.Normalize(err, "submit")
		c.fail(norm)
		return norm
	}
	defer resp.Body.Close()

	if c.stopped() {
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		norm := c.apiError(resp)
		c.fail(norm)
		return norm
	}

	c.succeed(decodeSuccess(resp))
	return nil
}

// stopped reports whether the owning widget has been destroyed. The widget
// stops the arena during teardown; a submission that resolves after that
// point must not fire hooks or touch the view.
func (c *Controller) stopped() bool {
	return c.arena != nil && c.arena.Stopped()
}

// decodeSuccess extracts the data object from the 2xx response envelope
// {data:{success, message?, subscriptionId?}}. A body that cannot be decoded
// still counts as a success.
func decodeSuccess(resp *http.Response) map[string]any {
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	if envelope.Data == nil {
		return map[string]any{"success": true}
	}
	return envelope.Data
}

// InFlight reports whether a submission is currently running.
func (c *Controller) InFlight() bool { return c.inFlight.Load() }

// Payload builds the subscription request body from current form state. The
// email field travels at the top level; everything else nests under
// properties.
func (c *Controller) Payload() map[string]any {
	values := c.engine.Values()

	payload := map[string]any{
		"widgetId": c.cfg.WidgetID,
		"locale":   c.engine.Messages().Locale(),
	}
	if email, ok := values["email"]; ok {
		payload["email"] = email
		delete(values, "email")
	}
	if len(values) > 0 {
		payload["properties"] = values
	}
	if c.engine.HasConsentBlock() {
		payload["consent"] = map[string]any{
			"marketing": c.engine.Consent(),
			"timestamp": c.now().UTC().Format(time.RFC3339),
		}
	}
	return payload
}

func (c *Controller) subscribeURL() string {
	return fmt.Sprintf("%s/public/widget/%s/subscribe?tenantId=%s", c.cfg.APIURL, c.cfg.WidgetID, c.cfg.TenantID)
}

func (c *Controller) succeed(response map[string]any) {
	if hook := c.cfg.Hooks.OnSuccess; hook != nil {
		boundary.WrapCallback(c.bnd, "onSuccess", hook)(response)
	}
	c.view.ShowSuccess()

	if c.cfg.ResetOnSuccess && c.cfg.SuccessResetDelay > 0 {
		c.arena.AfterFunc(c.cfg.SuccessResetDelay, func() {
			c.bnd.Run("resetAfterSuccess", func() error {
				c.engine.Reset()
				return nil
			})
		})
	}
}

func (c *Controller) fail(err *boundary.NormalizedError) {
	c.bnd.Dispatch(err)

	message := err.Message
	if err.Code != boundary.CodeOffline {
		message = c.engine.Messages().Get("errorMessage")
	}
	c.view.ShowError(message)

	if c.cfg.ErrorAutoHide > 0 {
		c.hideTimer.Stop()
		c.hideTimer = c.arena.AfterFunc(c.cfg.ErrorAutoHide, func() {
			c.view.HideError()
		})
	}
}

func (c *Controller) apiError(resp *http.Response) *boundary.NormalizedError {
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode == http.StatusTooManyRequests {
		norm := boundary.Normalize(body, "submit")
		norm.Code = boundary.CodeRateLimitExceeded
		norm.Status = resp.StatusCode
		return norm
	}

	norm := boundary.Normalize(body, "submit")
	if norm.Code == boundary.CodeUnknown {
		norm.Code = boundary.CodeAPIError
	}
	norm.Status = resp.StatusCode
	return norm
}
