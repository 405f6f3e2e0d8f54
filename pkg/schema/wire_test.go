package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nevent-io/go-widget/pkg/schema"
)

func TestAdaptFields_SemanticKeyWinsAndOrderApplies(t *testing.T) {
	raw := []schema.RawFieldConfig{
		{
			PropertyDefinitionID: "prop-123",
			SemanticKey:          "company",
			DataType:             "TEXT",
			Enabled:              true,
			DisplayOrder:         2,
			Width:                50,
		},
		{
			PropertyDefinitionID: "email",
			DataType:             "TEXT",
			Enabled:              true,
			Required:             true,
			DisplayOrder:         1,
		},
		{
			PropertyDefinitionID: "disabled-field",
			DataType:             "TEXT",
			Enabled:              false,
		},
	}

	fields, err := schema.AdaptFields(raw)
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}

	want := []schema.FieldConfiguration{
		{
			FieldName:    "email",
			DisplayName:  "Email",
			Type:         schema.FieldTypeEmail,
			Required:     true,
			Width:        100,
			DisplayOrder: 1,
		},
		{
			FieldName:    "company",
			DisplayName:  "Company",
			Type:         schema.FieldTypeText,
			Width:        50,
			DisplayOrder: 2,
		},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestAdaptFields_InjectsEmailWhenMissing(t *testing.T) {
	fields, err := schema.AdaptFields([]schema.RawFieldConfig{
		{PropertyDefinitionID: "name", DataType: "TEXT", Enabled: true},
	})
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}

	if len(fields) != 2 {
		t.Fatalf("expected injected email field, got %d fields", len(fields))
	}
	if fields[0].Type != schema.FieldTypeEmail {
		t.Fatalf("expected email field first, got %s", fields[0].Type)
	}
}

func TestAdaptFields_EmptyInputYieldsDefaults(t *testing.T) {
	fields, err := schema.AdaptFields(nil)
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	if diff := cmp.Diff(schema.DefaultFields(), fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestAdaptFields_DuplicateNamesRejected(t *testing.T) {
	_, err := schema.AdaptFields([]schema.RawFieldConfig{
		{PropertyDefinitionID: "email", Enabled: true},
		{PropertyDefinitionID: "prop-9", SemanticKey: "email", Enabled: true},
	})
	if err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestAdaptFields_SelectOptions(t *testing.T) {
	fields, err := schema.AdaptFields([]schema.RawFieldConfig{
		{
			PropertyDefinitionID: "topic",
			DataType:             "SELECT",
			Enabled:              true,
			Options: []schema.RawOption{
				{Value: "news", Label: "News"},
				{Value: "product_updates"},
			},
		},
	})
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}

	var topic schema.FieldConfiguration
	for _, field := range fields {
		if field.FieldName == "topic" {
			topic = field
		}
	}
	want := []schema.Option{
		{Value: "news", Label: "News"},
		{Value: "product_updates", Label: "Product Updates"},
	}
	if diff := cmp.Diff(want, topic.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestAdaptFields_AllowedValuesFallback(t *testing.T) {
	fields, err := schema.AdaptFields([]schema.RawFieldConfig{
		{
			PropertyDefinitionID: "plan",
			DataType:             "LIST",
			Enabled:              true,
			AllowedValues:        []string{"free", "pro"},
		},
	})
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}

	for _, field := range fields {
		if field.FieldName != "plan" {
			continue
		}
		if len(field.Options) != 2 || field.Options[0].Value != "free" {
			t.Fatalf("unexpected options: %+v", field.Options)
		}
		return
	}
	t.Fatalf("plan field not found")
}

func TestNormalizeWidth(t *testing.T) {
	cases := map[int]int{0: 100, 10: 25, 25: 25, 33: 50, 50: 50, 66: 75, 75: 75, 80: 100, 100: 100, 140: 100}
	for in, want := range cases {
		if got := schema.NormalizeWidth(in); got != want {
			t.Fatalf("NormalizeWidth(%d) = %d, want %d", in, got, want)
		}
	}
}
