// Package config resolves widget configuration from three layers: built-in
// defaults, user-supplied options, and server-provided overrides fetched
// during init. Identity fields are validated at construction; everything
// else degrades to a default rather than blocking render.
package config

import (
	"strings"
	"time"

	"github.com/nevent-io/go-widget/pkg/boundary"
	"github.com/nevent-io/go-widget/pkg/schema"
)

const (
	// DefaultAPIURL is the production backend base URL.
	DefaultAPIURL = "https://api.nevent.io"

	// DefaultContainerClass is queried when no container id is configured.
	DefaultContainerClass = "nevent-widget-container"
)

// Hooks are the host-page callbacks. Every hook is optional and is only
// ever invoked through the error boundary's safe proxy.
type Hooks struct {
	OnLoad    func(map[string]any)
	OnReady   func(map[string]any)
	OnSubmit  func(map[string]any)
	OnSuccess func(map[string]any)
	OnError   func(*boundary.NormalizedError)
}

// Font describes one font-family reference in the style configuration.
// Remote fonts batch into a single stylesheet link; self-hosted fonts emit
// one @font-face rule each.
type Font struct {
	Family string `json:"family"`
	URL    string `json:"url,omitempty"`
	Source string `json:"source,omitempty"` // "remote" (default) or "self"
	Weight string `json:"weight,omitempty"`
	Style  string `json:"style,omitempty"`
}

// Styles carries presentation settings. Components holds per-component
// declaration blocks (form, input, button, banner, panel) that merge
// key-wise when the server overrides them.
type Styles struct {
	PrimaryColor    string                       `json:"primaryColor,omitempty"`
	BackgroundColor string                       `json:"backgroundColor,omitempty"`
	TextColor       string                       `json:"textColor,omitempty"`
	ErrorColor      string                       `json:"errorColor,omitempty"`
	BorderRadius    string                       `json:"borderRadius,omitempty"`
	FontFamily      string                       `json:"fontFamily,omitempty"`
	Direction       string                       `json:"direction,omitempty"` // ltr or rtl
	Components      map[string]map[string]string `json:"components,omitempty"`
}

// Config is the fully resolved widget configuration. It is created once at
// construction, mutated only by merging server overrides during init, and
// immutable thereafter except explicit locale changes.
type Config struct {
	// Identity; both are required at construction.
	WidgetID string
	TenantID string

	// Network.
	APIURL string
	Token  string

	ContainerID string
	Locale      string

	// Behaviour.
	Analytics      bool
	Debug          bool
	Animations     bool
	ResetOnSuccess bool

	// Presentation.
	Title            string
	CompanyName      string
	PrivacyPolicyURL string
	CustomCSS        string
	Styles           Styles
	Fonts            []Font

	// Messages overrides the embedded dictionaries, keyed locale → key →
	// string. A partial override never wipes unrelated entries.
	Messages map[string]map[string]string

	Fields []schema.FieldConfiguration
	Layout []schema.LayoutElement

	Hooks Hooks

	// Timing.
	SuccessResetDelay time.Duration
	ErrorAutoHide     time.Duration

	// Retry budgets. Config load keeps a small budget because it has a safe
	// default fallback; submission retries harder.
	ConfigRetries int
	SubmitRetries int
}

// Defaults returns the built-in configuration layer.
func Defaults() Config {
	return Config{
		APIURL:            DefaultAPIURL,
		Locale:            "en",
		Animations:        true,
		Styles:            defaultStyles(),
		Fields:            schema.DefaultFields(),
		SuccessResetDelay: 3 * time.Second,
		ErrorAutoHide:     5 * time.Second,
		ConfigRetries:     1,
		SubmitRetries:     3,
	}
}

func defaultStyles() Styles {
	return Styles{
		PrimaryColor:    "#2563eb",
		BackgroundColor: "#ffffff",
		TextColor:       "#111827",
		ErrorColor:      "#dc2626",
		BorderRadius:    "6px",
		Direction:       "ltr",
	}
}

// Validate checks construction invariants. It is the only error path
// allowed to surface synchronously from widget construction.
func (c Config) Validate() error {
	if strings.TrimSpace(c.WidgetID) == "" {
		return boundary.NewError(boundary.CodeInvalidConfig, "widgetId is required")
	}
	if strings.TrimSpace(c.TenantID) == "" {
		return boundary.NewError(boundary.CodeInvalidConfig, "tenantId is required")
	}
	return nil
}
