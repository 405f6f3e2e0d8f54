package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/nevent-io/go-widget/pkg/form"
	"github.com/nevent-io/go-widget/pkg/schema"
)

// Fill walks the form's fields in layout order, prompting for each one and
// writing validated values back into the engine. Consent is prompted last
// when the form renders a consent block. The engine's own validators run per
// answer so the terminal flow rejects exactly what the widget would.
func Fill(ctx context.Context, driver PromptDriver, engine *form.Engine) error {
	for _, field := range engine.Fields() {
		if err := fillField(ctx, driver, engine, field); err != nil {
			return err
		}
	}

	if engine.HasConsentBlock() {
		granted, err := driver.Confirm(ctx, ConfirmConfig{
			Message: engine.Messages().Get("consentLabel"),
		})
		if err != nil {
			return err
		}
		engine.SetConsent(granted)
		if !granted {
			return errors.New("tui: consent declined")
		}
	}

	if errs := engine.Validate(); len(errs) > 0 {
		return fmt.Errorf("tui: %d fields failed validation", len(errs))
	}
	return nil
}

func fillField(ctx context.Context, driver PromptDriver, engine *form.Engine, field schema.FieldConfiguration) error {
	message := field.DisplayName
	if field.Required {
		message += " (required)"
	}

	validator := func(value string) error {
		if err := engine.SetValue(field.FieldName, value); err != nil {
			return err
		}
		if ferr := engine.ValidateField(field.FieldName); ferr != nil {
			return errors.New(ferr.Message)
		}
		return nil
	}

	switch {
	case len(field.Options) > 0:
		labels := make([]string, 0, len(field.Options)+1)
		values := make([]string, 0, len(field.Options)+1)
		if !field.Required {
			labels = append(labels, "(skip)")
			values = append(values, "")
		}
		for _, opt := range field.Options {
			labels = append(labels, opt.Label)
			values = append(values, opt.Value)
		}
		idx, err := driver.Select(ctx, SelectConfig{
			Message: message,
			Options: labels,
			Help:    field.Hint,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(values) {
			return fmt.Errorf("tui: no selection for %s", field.FieldName)
		}
		return engine.SetValue(field.FieldName, values[idx])

	case field.Type == schema.FieldTypeCheckbox:
		checked, err := driver.Confirm(ctx, ConfirmConfig{Message: message, Help: field.Hint})
		if err != nil {
			return err
		}
		value := ""
		if checked {
			value = "true"
		}
		return engine.SetValue(field.FieldName, value)

	case field.Type == schema.FieldTypePassword:
		value, err := driver.Password(ctx, InputConfig{
			Message:   message,
			Help:      field.Hint,
			Validator: validator,
		})
		if err != nil {
			return err
		}
		return engine.SetValue(field.FieldName, value)

	case field.Type == schema.FieldTypeTextarea:
		value, err := driver.TextArea(ctx, InputConfig{Message: message, Help: field.Hint})
		if err != nil {
			return err
		}
		return engine.SetValue(field.FieldName, value)

	default:
		value, err := driver.Input(ctx, InputConfig{
			Message:   message,
			Help:      field.Hint,
			Validator: validator,
		})
		if err != nil {
			return err
		}
		return engine.SetValue(field.FieldName, value)
	}
}
