package form

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/nevent-io/go-widget/pkg/schema"
)

// FieldError describes one failed validation, with the message already
// localized. Field is empty for the consent error.
type FieldError struct {
	Field      string
	MessageKey string
	Message    string
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks every field plus the consent checkbox and reflects the
// results into the rendered tree. An empty slice means the form may submit.
func (e *Engine) Validate() []FieldError {
	var errs []FieldError

	for _, name := range e.order {
		state := e.states[name]
		if key := validateField(state.cfg, state.value); key != "" {
			msg := e.messages.Get(key)
			e.setFieldError(state, msg)
			errs = append(errs, FieldError{Field: name, MessageKey: key, Message: msg})
		} else {
			e.setFieldError(state, "")
		}
	}

	if e.consentInput != nil && !e.consent {
		msg := e.messages.Get("consentRequired")
		e.setConsentError(msg)
		errs = append(errs, FieldError{MessageKey: "consentRequired", Message: msg})
	} else {
		e.setConsentError("")
	}

	return errs
}

// ValidateField checks a single field and updates only its error node.
func (e *Engine) ValidateField(name string) *FieldError {
	state, ok := e.states[name]
	if !ok {
		return nil
	}
	if key := validateField(state.cfg, state.value); key != "" {
		msg := e.messages.Get(key)
		e.setFieldError(state, msg)
		return &FieldError{Field: name, MessageKey: key, Message: msg}
	}
	e.setFieldError(state, "")
	return nil
}

// validateField returns a message key, or "" when the value passes. Required
// wins over format checks; optional empty values always pass.
func validateField(cfg schema.FieldConfiguration, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if cfg.Required {
			return "requiredField"
		}
		return ""
	}

	switch cfg.Type {
	case schema.FieldTypeEmail:
		if !emailPattern.MatchString(trimmed) {
			return "invalidEmail"
		}
	case schema.FieldTypeTel:
		if !validPhone(trimmed) {
			return "invalidPhone"
		}
	case schema.FieldTypeNumber:
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return "invalidNumber"
		}
	case schema.FieldTypeURL:
		if !validURL(trimmed) {
			return "invalidURL"
		}
	}
	return ""
}

// validPhone accepts an optional leading + and 7 to 15 digits, ignoring
// common separators.
func validPhone(value string) bool {
	cleaned := strings.TrimPrefix(value, "+")
	digits := 0
	for _, r := range cleaned {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// separator
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

func validURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
