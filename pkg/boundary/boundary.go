// Package boundary isolates widget failures from host code. Every public
// entry point of the widget engine runs inside one of the guards defined
// here, so a panic or error raised anywhere in widget code is normalized,
// dispatched to the registered handler, and never propagates to the caller.
package boundary

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handler receives every normalized error the boundary intercepts. Handler
// panics are swallowed; they must never re-enter widget code.
type Handler func(*NormalizedError)

// Reporter forwards normalized errors to an external error-reporting sink.
// Reporter failures do not affect boundary behaviour.
type Reporter interface {
	Report(*NormalizedError)
}

// Option customises a Boundary before construction.
type Option func(*Boundary)

// WithDebug enables console logging of every intercepted error.
func WithDebug(debug bool) Option {
	return func(b *Boundary) {
		b.debug = debug
	}
}

// WithLogger overrides the logger used in debug mode.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Boundary) {
		if logger != nil {
			b.log = logger
		}
	}
}

// WithLogPrefix names the logger so host pages embedding several widgets can
// tell their log lines apart.
func WithLogPrefix(prefix string) Option {
	return func(b *Boundary) {
		if prefix != "" {
			b.prefix = prefix
		}
	}
}

// WithHandler registers the initial error handler.
func WithHandler(handler Handler) Option {
	return func(b *Boundary) {
		b.handler = handler
	}
}

// WithReporter attaches an external error-reporting sink.
func WithReporter(reporter Reporter) Option {
	return func(b *Boundary) {
		b.reporter = reporter
	}
}

// Boundary normalizes and dispatches failures. The zero value is unusable;
// construct with New.
type Boundary struct {
	mu       sync.RWMutex
	handler  Handler
	reporter Reporter
	debug    bool
	prefix   string
	log      *zap.Logger
}

// New constructs a Boundary applying any provided options. Without a handler
// errors are swallowed after optional debug logging.
func New(options ...Option) *Boundary {
	b := &Boundary{prefix: "nevent-widget"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	if b.log == nil {
		if b.debug {
			logger, err := zap.NewDevelopment()
			if err != nil {
				logger = zap.NewNop()
			}
			b.log = logger
		} else {
			b.log = zap.NewNop()
		}
	}
	b.log = b.log.Named(b.prefix)
	return b
}

// SetErrorHandler replaces the active handler. A nil handler means
// subsequent errors are swallowed silently.
func (b *Boundary) SetErrorHandler(handler Handler) {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()
}

// Debug reports whether debug logging is enabled.
func (b *Boundary) Debug() bool {
	if b == nil {
		return false
	}
	return b.debug
}

// Logger exposes the boundary logger so collaborators share the prefix.
func (b *Boundary) Logger() *zap.Logger {
	if b == nil || b.log == nil {
		return zap.NewNop()
	}
	return b.log
}

// Run executes fn, intercepting both returned errors and panics. It reports
// whether fn completed without failure.
func (b *Boundary) Run(context string, fn func() error) (ok bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			b.Dispatch(Normalize(recovered, context))
			ok = false
		}
	}()
	if fn == nil {
		return true
	}
	if err := fn(); err != nil {
		b.Dispatch(Normalize(err, context))
		return false
	}
	return true
}

// RunCtx executes fn with a context, intercepting returned errors and
// panics. The suspended operation never rejects outward.
func (b *Boundary) RunCtx(ctx context.Context, name string, fn func(context.Context) error) (ok bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			b.Dispatch(Normalize(recovered, name))
			ok = false
		}
	}()
	if fn == nil {
		return true
	}
	if err := fn(ctx); err != nil {
		b.Dispatch(Normalize(err, name))
		return false
	}
	return true
}

// Dispatch routes a pre-normalized error through the reporter, handler, and
// debug log. Handler and reporter panics are contained here.
func (b *Boundary) Dispatch(err *NormalizedError) {
	if b == nil || err == nil {
		return
	}

	b.mu.RLock()
	handler := b.handler
	reporter := b.reporter
	b.mu.RUnlock()

	if reporter != nil {
		func() {
			defer func() { recover() }()
			reporter.Report(err)
		}()
	}

	if b.debug {
		b.log.Error("widget error",
			zap.String("code", string(err.Code)),
			zap.String("message", err.Message),
			zap.Int("status", err.Status),
		)
	}

	if handler == nil {
		return
	}
	func() {
		defer func() {
			if recovered := recover(); recovered != nil && b.debug {
				b.log.Error("error handler failed",
					zap.String("original", err.Message),
					zap.Any("handler_failure", recovered),
				)
			}
		}()
		handler(err)
	}()
}

// Guard executes fn and returns its result. On failure the zero value is
// returned together with ok=false; the error is dispatched, never
// propagated.
func Guard[T any](b *Boundary, context string, fn func() (T, error)) (result T, ok bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			b.Dispatch(Normalize(recovered, context))
			var zero T
			result, ok = zero, false
		}
	}()
	if fn == nil {
		var zero T
		return zero, false
	}
	value, err := fn()
	if err != nil {
		b.Dispatch(Normalize(err, context))
		var zero T
		return zero, false
	}
	return value, true
}

// GuardCtx is Guard over an operation that may suspend at network or timer
// boundaries. The returned ok is false when the operation failed or the
// context was cancelled.
func GuardCtx[T any](b *Boundary, ctx context.Context, name string, fn func(context.Context) (T, error)) (result T, ok bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			b.Dispatch(Normalize(recovered, name))
			var zero T
			result, ok = zero, false
		}
	}()
	if fn == nil {
		var zero T
		return zero, false
	}
	value, err := fn(ctx)
	if err != nil {
		b.Dispatch(Normalize(err, name))
		var zero T
		return zero, false
	}
	return value, true
}

// WrapCallback returns a safe proxy around a possibly-absent host callback.
// Calling the proxy when cb is nil is a no-op; when present, panics are
// intercepted and reported with a "callback:<name>" prefix.
func WrapCallback[T any](b *Boundary, name string, cb func(T)) func(T) {
	return func(arg T) {
		if cb == nil {
			return
		}
		defer func() {
			if recovered := recover(); recovered != nil {
				b.Dispatch(Normalize(recovered, "callback:"+name))
			}
		}()
		cb(arg)
	}
}
