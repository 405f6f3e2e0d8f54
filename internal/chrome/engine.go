// Package chrome renders the static HTML shells around a widget's dynamic
// content: the outer wrapper, the success panel, and the chat surface. The
// shells live as pongo2 templates so integrators can swap them via WithFS
// without recompiling.
package chrome

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/nevent-io/go-widget/internal/styles"
)

// Option configures the chrome engine before construction.
type Option func(*config)

type config struct {
	templates  fs.FS
	extension  string
	globalData map[string]any
}

// WithFS replaces the embedded template set.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobalData seeds context values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithGoTemplateOptions accepts options for the github.com/goliatone/go-template
// engine so hosts can pass one option list to either engine. The pongo2 set has
// no equivalent knobs, so the options are discarded.
func WithGoTemplateOptions(_ ...gotemplatepkg.Option) Option {
	return func(*config) {}
}

// Engine is a cached pongo2 template set.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	tplExt      string
}

// New constructs an Engine. Without options it serves the embedded shells.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".tpl",
		templates: EmbeddedFS(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("nevent-chrome", pongo2.NewFSLoader(cfg.templates)),
		templates:   make(map[string]*pongo2.Template),
		tplExt:      cfg.extension,
	}
	registerDefaultFilters()

	if len(cfg.globalData) > 0 {
		ctx, err := convertToContext(cfg.globalData)
		if err != nil {
			return nil, fmt.Errorf("chrome: convert global data: %w", err)
		}
		engine.templateSet.Globals = ctx
	}

	return engine, nil
}

// Render executes the named template. Inline template content (anything
// containing pongo2 delimiters) is rendered directly.
func (e *Engine) Render(name string, data any) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("chrome: engine is nil")
	}
	if isTemplateContent(name) {
		return e.renderString(name, data)
	}

	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}

	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("chrome: convert data: %w", err)
	}

	var buf bytes.Buffer

	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()

	if err != nil {
		return "", fmt.Errorf("chrome: execute template %q: %w", templatePath, err)
	}
	return buf.String(), nil
}

func (e *Engine) renderString(content string, data any) (string, error) {
	tmpl, err := e.templateSet.FromString(content)
	if err != nil {
		return "", fmt.Errorf("chrome: parse template string: %w", err)
	}

	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("chrome: convert data: %w", err)
	}

	var buf bytes.Buffer

	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()

	if err != nil {
		return "", fmt.Errorf("chrome: execute template string: %w", err)
	}
	return buf.String(), nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("chrome: load template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("richtext") {
		_ = pongo2.RegisterFilter("richtext", filterRichText)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterRichText sanitizes a value down to the inline vocabulary allowed in
// hint and legal copy and marks the result safe for direct output.
func filterRichText(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(styles.SanitizeRichText(in.String())), nil
}

func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		out := make(pongo2.Context, len(v))
		for key, value := range v {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			out[key] = value
		}
		return out, nil
	default:
		m, err := jsonToMap(v)
		if err != nil {
			return nil, err
		}
		return convertToContext(m)
	}
}

func jsonToMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
