// Package schema models the field configurations a widget renders. Field
// schemas arrive from the backend in a raw wire format and are adapted into
// the closed FieldType set; when no usable schema arrives the package
// synthesizes the default single-email-field configuration.
package schema

// FieldType is the closed set of input kinds the form engine renders.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeNumber   FieldType = "number"
	FieldTypeURL      FieldType = "url"
	FieldTypePassword FieldType = "password"
	FieldTypeSelect   FieldType = "select"
	FieldTypeList     FieldType = "list"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDate     FieldType = "date"
	FieldTypeTime     FieldType = "time"
	FieldTypeFile     FieldType = "file"
)

// ControlKind names the concrete HTML control a field type maps to.
type ControlKind string

const (
	ControlInput    ControlKind = "input"
	ControlSelect   ControlKind = "select"
	ControlTextarea ControlKind = "textarea"
)

// controlTable is the exhaustive FieldType → control mapping. Adding a new
// field type means one entry here plus one validator in the form engine.
var controlTable = map[FieldType]ControlKind{
	FieldTypeText:     ControlInput,
	FieldTypeEmail:    ControlInput,
	FieldTypeTel:      ControlInput,
	FieldTypeNumber:   ControlInput,
	FieldTypeURL:      ControlInput,
	FieldTypePassword: ControlInput,
	FieldTypeSelect:   ControlSelect,
	FieldTypeList:     ControlSelect,
	FieldTypeCheckbox: ControlInput,
	FieldTypeRadio:    ControlInput,
	FieldTypeTextarea: ControlTextarea,
	FieldTypeDate:     ControlInput,
	FieldTypeTime:     ControlInput,
	FieldTypeFile:     ControlInput,
}

// Valid reports whether the type belongs to the closed set.
func (t FieldType) Valid() bool {
	_, ok := controlTable[t]
	return ok
}

// Control returns the HTML control kind for the type. Unknown types render
// as plain text inputs so a forward-compatible server cannot break the form.
func (t FieldType) Control() ControlKind {
	if kind, ok := controlTable[t]; ok {
		return kind
	}
	return ControlInput
}

// Option is a normalized {value,label} pair for select/list fields.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldConfiguration is one schema entry per form input. FieldName doubles
// as the form key and the DOM name attribute and must be unique within the
// active set.
type FieldConfiguration struct {
	FieldName    string    `json:"fieldName"`
	DisplayName  string    `json:"displayName,omitempty"`
	Type         FieldType `json:"type"`
	Required     bool      `json:"required"`
	Hint         string    `json:"hint,omitempty"`
	Placeholder  string    `json:"placeholder,omitempty"`
	Options      []Option  `json:"options,omitempty"`
	Width        int       `json:"width,omitempty"`
	DisplayOrder int       `json:"displayOrder,omitempty"`
}

// ElementKind distinguishes layout entries so legal/submit blocks can
// interleave with fields.
type ElementKind string

const (
	ElementField  ElementKind = "field"
	ElementLegal  ElementKind = "legal"
	ElementSubmit ElementKind = "submit"
)

// LayoutElement orders and sizes one rendered block. Width is a percentage
// share of a row; elements below 100 co-occupy a row.
type LayoutElement struct {
	Kind      ElementKind `json:"kind"`
	FieldName string      `json:"fieldName,omitempty"`
	Order     int         `json:"order"`
	Width     int         `json:"width"`
}

// DefaultEmailField is the synthesized configuration used when the server
// provides no usable schema.
func DefaultEmailField() FieldConfiguration {
	return FieldConfiguration{
		FieldName:    "email",
		DisplayName:  "Email",
		Type:         FieldTypeEmail,
		Required:     true,
		Width:        100,
		DisplayOrder: 1,
	}
}

// DefaultFields returns the fallback single-email-field set.
func DefaultFields() []FieldConfiguration {
	return []FieldConfiguration{DefaultEmailField()}
}
