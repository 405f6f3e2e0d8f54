// Package gowidget embeds subscription and chat widgets into server-rendered
// host pages. The root package re-exports the common entry points; the
// subpackages under pkg/ carry the full API.
package gowidget

import (
	"context"

	"github.com/nevent-io/go-widget/pkg/boundary"
	"github.com/nevent-io/go-widget/pkg/chatbot"
	"github.com/nevent-io/go-widget/pkg/config"
	"github.com/nevent-io/go-widget/pkg/dom"
	"github.com/nevent-io/go-widget/pkg/widget"
)

// Config is the user-facing widget configuration.
type Config = config.Config

// ServerConfig is the payload shape of the remote config endpoint.
type ServerConfig = config.ServerConfig

// NormalizedError is the error shape surfaced through handlers and hooks.
type NormalizedError = boundary.NormalizedError

// Widget renders a subscription form into a host document.
type Widget = widget.Widget

// Chatbot renders a conversational surface into a host document.
type Chatbot = chatbot.Chatbot

// Error codes surfaced through hooks and returned errors.
const (
	CodeNetworkError        = boundary.CodeNetworkError
	CodeAPIError            = boundary.CodeAPIError
	CodeConfigLoadFailed    = boundary.CodeConfigLoadFailed
	CodeContainerNotFound   = boundary.CodeContainerNotFound
	CodeInvalidConfig       = boundary.CodeInvalidConfig
	CodeRateLimitExceeded   = boundary.CodeRateLimitExceeded
	CodeConversationExpired = boundary.CodeConversationExpired
	CodeOffline             = boundary.CodeOffline
)

// NewWidget constructs a subscription widget against a parsed host document.
func NewWidget(doc *dom.Document, cfg Config, options ...widget.Option) (*Widget, error) {
	return widget.New(doc, cfg, options...)
}

// NewChatbot constructs a chatbot against a parsed host document.
func NewChatbot(doc *dom.Document, cfg Config, options ...chatbot.Option) (*Chatbot, error) {
	return chatbot.New(doc, cfg, options...)
}

// RenderHTML is the simplest entry point: parse the host page, initialize a
// widget into it, and return the resulting document. Use NewWidget directly
// when you need the live instance for submissions or locale changes.
func RenderHTML(ctx context.Context, hostHTML string, cfg Config, options ...widget.Option) (string, error) {
	doc, err := dom.ParseString(hostHTML)
	if err != nil {
		return "", err
	}
	w, err := widget.New(doc, cfg, options...)
	if err != nil {
		return "", err
	}
	if err := w.Init(ctx); err != nil {
		return "", err
	}
	return w.HTML()
}
