// Package form renders a schema-driven subscription form into a mounted
// render root and owns its field state: values, consent, and per-field
// validation errors. The engine mutates the node tree it built, so a widget
// rerender swaps the whole form out rather than patching in place.
package form

import (
	"fmt"
	"strconv"

	"golang.org/x/net/html"

	"github.com/nevent-io/go-widget/internal/styles"
	"github.com/nevent-io/go-widget/pkg/boundary"
	"github.com/nevent-io/go-widget/pkg/config"
	"github.com/nevent-io/go-widget/pkg/dom"
	"github.com/nevent-io/go-widget/pkg/i18n"
	"github.com/nevent-io/go-widget/pkg/schema"
)

const (
	fieldIDPrefix = "nevent-f-"
	consentName   = "nevent-consent"
)

type fieldState struct {
	cfg     schema.FieldConfiguration
	wrapper *html.Node
	control *html.Node
	radios  []*html.Node
	errNode *html.Node
	value   string
}

// Engine builds and owns one form instance.
type Engine struct {
	fields   []schema.FieldConfiguration
	layout   []schema.LayoutElement
	messages *Messages

	companyName string
	privacyURL  string

	root    *html.Node
	states  map[string]*fieldState
	order   []string
	consent bool

	consentInput *html.Node
	consentErr   *html.Node
	submitBtn    *html.Node
}

// New prepares an engine from resolved configuration. Nothing is rendered
// until Build.
func New(cfg *config.Config, catalog *i18n.Catalog) *Engine {
	fields := cfg.Fields
	if len(fields) == 0 {
		fields = schema.DefaultFields()
	}
	layout := cfg.Layout
	if len(layout) == 0 {
		layout = schema.DefaultLayout(fields)
	} else {
		layout = schema.NormalizeLayout(layout, fields)
	}

	return &Engine{
		fields:      fields,
		layout:      layout,
		messages:    NewMessages(cfg, catalog),
		companyName: cfg.CompanyName,
		privacyURL:  cfg.PrivacyPolicyURL,
		states:      make(map[string]*fieldState, len(fields)),
	}
}

// Messages exposes the engine's copy resolver so callers reuse the same
// locale fallback chain.
func (e *Engine) Messages() *Messages { return e.messages }

// Build renders the form into parent and records node references for later
// state updates. Building twice replaces the previous rendering.
func (e *Engine) Build(parent *html.Node) error {
	if parent == nil {
		return fmt.Errorf("form: build: nil parent")
	}

	e.root = dom.Element("form", "class", "nevent-form", "novalidate", "")
	e.states = make(map[string]*fieldState, len(e.fields))
	e.order = e.order[:0]

	byName := make(map[string]schema.FieldConfiguration, len(e.fields))
	for _, f := range e.fields {
		byName[f.FieldName] = f
	}

	for _, el := range e.layout {
		switch el.Kind {
		case schema.ElementField:
			cfg, ok := byName[el.FieldName]
			if !ok {
				continue
			}
			if el.Width != 0 {
				cfg.Width = el.Width
			}
			state, err := e.renderField(cfg)
			if err != nil {
				return err
			}
			e.root.AppendChild(state.wrapper)
			e.states[cfg.FieldName] = state
			e.order = append(e.order, cfg.FieldName)
		case schema.ElementLegal:
			e.root.AppendChild(e.renderLegal())
		case schema.ElementSubmit:
			e.root.AppendChild(e.renderSubmit())
		}
	}

	parent.AppendChild(e.root)
	return nil
}

// Root returns the form element, or nil before Build.
func (e *Engine) Root() *html.Node { return e.root }

// Fields returns the field configurations in layout order.
func (e *Engine) Fields() []schema.FieldConfiguration {
	out := make([]schema.FieldConfiguration, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.states[name].cfg)
	}
	return out
}

// SetValue records a field value and reflects it into the rendered control.
func (e *Engine) SetValue(field, value string) error {
	state, ok := e.states[field]
	if !ok {
		return fmt.Errorf("form: unknown field %q", field)
	}
	state.value = value
	e.reflectValue(state)
	return nil
}

// Value returns the current value of a field.
func (e *Engine) Value(field string) string {
	if state, ok := e.states[field]; ok {
		return state.value
	}
	return ""
}

// SetConsent records the marketing consent checkbox state.
func (e *Engine) SetConsent(granted bool) {
	e.consent = granted
	if e.consentInput != nil {
		if granted {
			dom.SetAttr(e.consentInput, "checked", "")
		} else {
			dom.RemoveAttr(e.consentInput, "checked")
		}
	}
	if granted {
		e.setConsentError("")
	}
}

// Consent reports whether marketing consent has been granted.
func (e *Engine) Consent() bool { return e.consent }

// HasConsentBlock reports whether the layout renders a consent checkbox.
func (e *Engine) HasConsentBlock() bool { return e.consentInput != nil }

// Values returns the collected field values. Number fields parse to float64;
// empty optional fields are omitted.
func (e *Engine) Values() map[string]any {
	out := make(map[string]any, len(e.order))
	for _, name := range e.order {
		state := e.states[name]
		if state.value == "" {
			continue
		}
		if state.cfg.Type == schema.FieldTypeNumber {
			if n, err := strconv.ParseFloat(state.value, 64); err == nil {
				out[name] = n
				continue
			}
		}
		out[name] = state.value
	}
	return out
}

// Reset clears all values, consent, and visible errors.
func (e *Engine) Reset() {
	for _, state := range e.states {
		state.value = ""
		e.reflectValue(state)
		e.setFieldError(state, "")
	}
	e.SetConsent(false)
}

// SetBusy toggles the submit button's disabled state.
func (e *Engine) SetBusy(busy bool) {
	if e.submitBtn == nil {
		return
	}
	if busy {
		dom.SetAttr(e.submitBtn, "disabled", "")
	} else {
		dom.RemoveAttr(e.submitBtn, "disabled")
	}
}

func (e *Engine) renderField(cfg schema.FieldConfiguration) (*fieldState, error) {
	id := fieldIDPrefix + cfg.FieldName
	wrapper := dom.Element("div",
		"class", "nevent-field "+widthClass(cfg.Width),
		"data-field", cfg.FieldName,
	)

	label := dom.Element("label", "class", "nevent-label", "for", id)
	label.AppendChild(dom.Text(e.labelFor(cfg)))
	wrapper.AppendChild(label)

	state := &fieldState{cfg: cfg, wrapper: wrapper}

	switch cfg.Type.Control() {
	case schema.ControlSelect:
		state.control = e.renderSelect(cfg, id)
		wrapper.AppendChild(state.control)
	case schema.ControlTextarea:
		state.control = dom.Element("textarea",
			"class", "nevent-textarea", "id", id, "name", cfg.FieldName,
			"placeholder", cfg.Placeholder, "rows", "3",
		)
		wrapper.AppendChild(state.control)
	default:
		if cfg.Type == schema.FieldTypeRadio && len(cfg.Options) > 0 {
			group := dom.Element("div", "class", "nevent-radio-group", "role", "radiogroup")
			for i, opt := range cfg.Options {
				radio := dom.Element("input",
					"class", "nevent-radio",
					"type", "radio",
					"id", fmt.Sprintf("%s-%d", id, i),
					"name", cfg.FieldName,
					"value", opt.Value,
				)
				optLabel := dom.Element("label", "for", fmt.Sprintf("%s-%d", id, i))
				optLabel.AppendChild(dom.Text(opt.Label))
				group.AppendChild(radio)
				group.AppendChild(optLabel)
				state.radios = append(state.radios, radio)
			}
			state.control = group
			wrapper.AppendChild(group)
		} else {
			state.control = dom.Element("input",
				"class", "nevent-input",
				"id", id, "name", cfg.FieldName,
				"type", inputType(cfg.Type),
				"placeholder", cfg.Placeholder,
			)
			wrapper.AppendChild(state.control)
		}
	}

	if cfg.Required {
		dom.SetAttr(state.control, "aria-required", "true")
		if cfg.Type.Control() != schema.ControlSelect && cfg.Type != schema.FieldTypeRadio {
			dom.SetAttr(state.control, "required", "")
		}
	}

	if cfg.Hint != "" {
		hint := dom.Element("div", "class", "nevent-hint", "id", id+"-hint")
		if err := appendRichText(hint, cfg.Hint); err != nil {
			return nil, err
		}
		dom.SetAttr(state.control, "aria-describedby", id+"-hint")
		wrapper.AppendChild(hint)
	}

	state.errNode = dom.Element("div",
		"class", "nevent-field-error",
		"id", id+"-error",
		"data-visible", "false",
		"aria-live", "polite",
	)
	wrapper.AppendChild(state.errNode)

	return state, nil
}

func (e *Engine) renderSelect(cfg schema.FieldConfiguration, id string) *html.Node {
	sel := dom.Element("select", "class", "nevent-select", "id", id, "name", cfg.FieldName)

	placeholder := cfg.Placeholder
	if placeholder == "" {
		placeholder = e.labelFor(cfg)
	}
	empty := dom.Element("option", "value", "")
	empty.AppendChild(dom.Text(placeholder))
	sel.AppendChild(empty)

	for _, opt := range cfg.Options {
		node := dom.Element("option", "value", opt.Value)
		node.AppendChild(dom.Text(opt.Label))
		sel.AppendChild(node)
	}
	return sel
}

func (e *Engine) renderLegal() *html.Node {
	block := dom.Element("div", "class", "nevent-consent nevent-w-100")

	e.consentInput = dom.Element("input",
		"class", "nevent-checkbox",
		"type", "checkbox",
		"id", consentName,
		"name", consentName,
	)
	block.AppendChild(e.consentInput)

	label := dom.Element("label", "for", consentName)
	label.AppendChild(dom.Text(e.consentLabel()))
	if e.privacyURL != "" {
		label.AppendChild(dom.Text(" "))
		link := dom.Element("a",
			"href", e.privacyURL,
			"target", "_blank",
			"rel", "noopener noreferrer",
		)
		link.AppendChild(dom.Text(e.messages.Get("privacyPolicy")))
		label.AppendChild(link)
	}
	block.AppendChild(label)

	e.consentErr = dom.Element("div",
		"class", "nevent-field-error",
		"data-visible", "false",
		"aria-live", "polite",
	)
	block.AppendChild(e.consentErr)

	return block
}

func (e *Engine) renderSubmit() *html.Node {
	wrapper := dom.Element("div", "class", "nevent-actions nevent-w-100")
	e.submitBtn = dom.Element("button", "type", "submit", "class", "nevent-submit")
	e.submitBtn.AppendChild(dom.Text(e.messages.Get("subscribeButton")))
	wrapper.AppendChild(e.submitBtn)
	return wrapper
}

func (e *Engine) labelFor(cfg schema.FieldConfiguration) string {
	if cfg.FieldName == "email" {
		if msg := e.messages.Get("emailLabel"); msg != "emailLabel" {
			return msg
		}
	}
	return cfg.DisplayName
}

func (e *Engine) consentLabel() string {
	msg := e.messages.Get("consentLabel")
	if e.companyName != "" {
		return fmt.Sprintf("%s (%s)", msg, e.companyName)
	}
	return msg
}

func (e *Engine) reflectValue(state *fieldState) {
	if state.control == nil {
		return
	}
	switch {
	case len(state.radios) > 0:
		for _, radio := range state.radios {
			if dom.Attr(radio, "value") == state.value && state.value != "" {
				dom.SetAttr(radio, "checked", "")
			} else {
				dom.RemoveAttr(radio, "checked")
			}
		}
	case state.cfg.Type == schema.FieldTypeCheckbox:
		if state.value == "true" {
			dom.SetAttr(state.control, "checked", "")
		} else {
			dom.RemoveAttr(state.control, "checked")
		}
	case state.cfg.Type.Control() == schema.ControlSelect:
		for _, opt := range dom.QueryAll(state.control, dom.ByTag("option")) {
			if dom.Attr(opt, "value") == state.value && state.value != "" {
				dom.SetAttr(opt, "selected", "")
			} else {
				dom.RemoveAttr(opt, "selected")
			}
		}
	case state.cfg.Type.Control() == schema.ControlTextarea:
		dom.ClearChildren(state.control)
		if state.value != "" {
			state.control.AppendChild(dom.Text(state.value))
		}
	default:
		if state.value == "" {
			dom.RemoveAttr(state.control, "value")
		} else {
			dom.SetAttr(state.control, "value", state.value)
		}
	}
}

func (e *Engine) setFieldError(state *fieldState, message string) {
	if state.errNode == nil {
		return
	}
	dom.ClearChildren(state.errNode)
	target := state.control
	if len(state.radios) > 0 {
		target = state.radios[0]
	}
	if message == "" {
		dom.SetAttr(state.errNode, "data-visible", "false")
		if target != nil {
			dom.RemoveAttr(target, "aria-invalid")
		}
		return
	}
	state.errNode.AppendChild(dom.Text(message))
	dom.SetAttr(state.errNode, "data-visible", "true")
	if target != nil {
		dom.SetAttr(target, "aria-invalid", "true")
	}
}

func (e *Engine) setConsentError(message string) {
	if e.consentErr == nil {
		return
	}
	dom.ClearChildren(e.consentErr)
	if message == "" {
		dom.SetAttr(e.consentErr, "data-visible", "false")
		return
	}
	e.consentErr.AppendChild(dom.Text(message))
	dom.SetAttr(e.consentErr, "data-visible", "true")
}

func appendRichText(parent *html.Node, content string) error {
	nodes, err := dom.ParseFragment(styles.SanitizeRichText(content))
	if err != nil {
		return boundary.NewError(boundary.CodeSanitizationError, "form: sanitize hint: "+err.Error())
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

func widthClass(width int) string {
	switch schema.NormalizeWidth(width) {
	case 25:
		return "nevent-w-25"
	case 50:
		return "nevent-w-50"
	case 75:
		return "nevent-w-75"
	default:
		return "nevent-w-100"
	}
}

func inputType(t schema.FieldType) string {
	switch t {
	case schema.FieldTypeList:
		return "text"
	default:
		return string(t)
	}
}
