package schema

import (
	"fmt"
	"sort"
	"strings"
)

// RawFieldConfig is the wire shape the config endpoint returns. The
// semantic key, when present, overrides the property definition id as the
// form field name.
type RawFieldConfig struct {
	PropertyDefinitionID string      `json:"propertyDefinitionId"`
	SemanticKey          string      `json:"semanticKey,omitempty"`
	DisplayName          string      `json:"displayName,omitempty"`
	DataType             string      `json:"dataType,omitempty"`
	Enabled              bool        `json:"enabled"`
	Required             bool        `json:"required"`
	Hint                 string      `json:"hint,omitempty"`
	Placeholder          string      `json:"placeholder,omitempty"`
	Options              []RawOption `json:"options,omitempty"`
	AllowedValues        []string    `json:"allowedValues,omitempty"`
	Width                int         `json:"width,omitempty"`
	DisplayOrder         int         `json:"displayOrder,omitempty"`
}

// RawOption tolerates both {value,label} objects and bare strings upstream;
// bare strings land in Value with an empty Label.
type RawOption struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// dataTypeTable maps wire data types onto the closed FieldType set.
var dataTypeTable = map[string]FieldType{
	"TEXT":     FieldTypeText,
	"STRING":   FieldTypeText,
	"EMAIL":    FieldTypeEmail,
	"PHONE":    FieldTypeTel,
	"TEL":      FieldTypeTel,
	"NUMBER":   FieldTypeNumber,
	"INTEGER":  FieldTypeNumber,
	"URL":      FieldTypeURL,
	"PASSWORD": FieldTypePassword,
	"SELECT":   FieldTypeSelect,
	"LIST":     FieldTypeList,
	"ENUM":     FieldTypeSelect,
	"BOOLEAN":  FieldTypeCheckbox,
	"CHECKBOX": FieldTypeCheckbox,
	"RADIO":    FieldTypeRadio,
	"TEXTAREA": FieldTypeTextarea,
	"DATE":     FieldTypeDate,
	"TIME":     FieldTypeTime,
	"FILE":     FieldTypeFile,
}

// AdaptFields converts raw wire entries into the validated field set:
// disabled entries are dropped, names are resolved (semanticKey wins),
// duplicates rejected, entries sorted by display order, and an email field
// injected when the set has none. An empty or fully-disabled input yields
// the default set.
func AdaptFields(raw []RawFieldConfig) ([]FieldConfiguration, error) {
	fields := make([]FieldConfiguration, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, entry := range raw {
		if !entry.Enabled {
			continue
		}
		name := strings.TrimSpace(entry.SemanticKey)
		if name == "" {
			name = strings.TrimSpace(entry.PropertyDefinitionID)
		}
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("schema: duplicate field name %q", name)
		}
		seen[name] = struct{}{}

		fieldType := adaptDataType(entry.DataType, name)
		fields = append(fields, FieldConfiguration{
			FieldName:    name,
			DisplayName:  displayNameFor(entry, name),
			Type:         fieldType,
			Required:     entry.Required,
			Hint:         entry.Hint,
			Placeholder:  entry.Placeholder,
			Options:      adaptOptions(entry, fieldType),
			Width:        NormalizeWidth(entry.Width),
			DisplayOrder: entry.DisplayOrder,
		})
	}

	if len(fields) == 0 {
		return DefaultFields(), nil
	}

	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].DisplayOrder < fields[j].DisplayOrder
	})

	return ensureEmailField(fields), nil
}

// adaptDataType resolves the wire data type, treating a field literally
// named "email" as an email input even when the server tags it TEXT.
func adaptDataType(dataType, name string) FieldType {
	if strings.EqualFold(name, "email") {
		return FieldTypeEmail
	}
	if mapped, ok := dataTypeTable[strings.ToUpper(strings.TrimSpace(dataType))]; ok {
		return mapped
	}
	return FieldTypeText
}

func displayNameFor(entry RawFieldConfig, name string) string {
	if display := strings.TrimSpace(entry.DisplayName); display != "" {
		return display
	}
	return titleize(name)
}

func adaptOptions(entry RawFieldConfig, fieldType FieldType) []Option {
	if fieldType != FieldTypeSelect && fieldType != FieldTypeList && fieldType != FieldTypeRadio {
		return nil
	}

	out := make([]Option, 0, len(entry.Options)+len(entry.AllowedValues))
	for _, raw := range entry.Options {
		value := strings.TrimSpace(raw.Value)
		if value == "" {
			continue
		}
		label := strings.TrimSpace(raw.Label)
		if label == "" {
			label = titleize(value)
		}
		out = append(out, Option{Value: value, Label: label})
	}
	if len(out) > 0 {
		return out
	}

	// Fallback allowed-value list for servers that send plain strings.
	for _, value := range entry.AllowedValues {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		out = append(out, Option{Value: value, Label: titleize(value)})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ensureEmailField guarantees exactly one email-typed field so submission
// stays well-formed.
func ensureEmailField(fields []FieldConfiguration) []FieldConfiguration {
	for _, field := range fields {
		if field.Type == FieldTypeEmail {
			return fields
		}
	}
	injected := DefaultEmailField()
	injected.DisplayOrder = 0
	return append([]FieldConfiguration{injected}, fields...)
}

// NormalizeWidth clamps a width percentage onto the {25,50,75,100} grid.
// Zero and out-of-range widths become full rows.
func NormalizeWidth(width int) int {
	switch {
	case width <= 0 || width > 100:
		return 100
	case width <= 25:
		return 25
	case width <= 50:
		return 50
	case width <= 75:
		return 75
	default:
		return 100
	}
}

func titleize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
