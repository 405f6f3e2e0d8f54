package config_test

import (
	"testing"

	"github.com/nevent-io/go-widget/pkg/config"
	"github.com/nevent-io/go-widget/pkg/schema"
)

func TestMergeServer_PartialStylesKeepUserValues(t *testing.T) {
	resolved := config.Resolve(config.Config{
		WidgetID: "w",
		TenantID: "t",
		Styles: config.Styles{
			PrimaryColor: "#ff0000",
			Components: map[string]map[string]string{
				"button": {"font-weight": "600"},
			},
		},
	})

	merged := config.MergeServer(resolved, config.ServerConfig{
		Title: "Stay in the loop",
		Styles: &config.Styles{
			BackgroundColor: "#fafafa",
			Components: map[string]map[string]string{
				"button": {"text-transform": "uppercase"},
			},
		},
	})

	if merged.Title != "Stay in the loop" {
		t.Fatalf("title not applied: %q", merged.Title)
	}
	if merged.Styles.PrimaryColor != "#ff0000" {
		t.Fatalf("user primary color wiped by server styles")
	}
	if merged.Styles.BackgroundColor != "#fafafa" {
		t.Fatalf("server background not applied")
	}
	button := merged.Styles.Components["button"]
	if button["font-weight"] != "600" || button["text-transform"] != "uppercase" {
		t.Fatalf("component block not merged key-wise: %v", button)
	}
}

func TestMergeServer_MessagesMergeKeyWise(t *testing.T) {
	resolved := config.Resolve(config.Config{
		WidgetID: "w",
		TenantID: "t",
		Messages: map[string]map[string]string{
			"en": {"title": "Join our list", "subscribeButton": "Sign up"},
		},
	})

	merged := config.MergeServer(resolved, config.ServerConfig{
		Messages: map[string]map[string]string{
			"en": {"title": "Stay posted"},
			"es": {"title": "Mantente al dia"},
		},
	})

	en := merged.Messages["en"]
	if en["title"] != "Stay posted" || en["subscribeButton"] != "Sign up" {
		t.Fatalf("en block not merged key-wise: %v", en)
	}
	if merged.Messages["es"]["title"] != "Mantente al dia" {
		t.Fatalf("new locale block not added: %v", merged.Messages["es"])
	}
	if resolved.Messages["en"]["title"] != "Join our list" {
		t.Fatalf("merge mutated its input: %v", resolved.Messages["en"])
	}
}

func TestMergeServer_FieldListReplacesWholesale(t *testing.T) {
	resolved := config.Resolve(config.Config{WidgetID: "w", TenantID: "t"})

	merged := config.MergeServer(resolved, config.ServerConfig{
		FieldConfigurations: []schema.RawFieldConfig{
			{PropertyDefinitionID: "email", Enabled: true, Required: true, DisplayOrder: 1, DataType: "TEXT"},
			{PropertyDefinitionID: "company", Enabled: true, DisplayOrder: 2, DataType: "TEXT"},
		},
	})

	if len(merged.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(merged.Fields))
	}
	if merged.Fields[0].FieldName != "email" || merged.Fields[0].Type != schema.FieldTypeEmail {
		t.Fatalf("unexpected first field: %+v", merged.Fields[0])
	}
}

func TestMergeServer_EmptyPayloadKeepsDefaults(t *testing.T) {
	resolved := config.Resolve(config.Config{WidgetID: "w", TenantID: "t"})
	merged := config.MergeServer(resolved, config.ServerConfig{})

	if len(merged.Fields) != 1 || merged.Fields[0].FieldName != "email" {
		t.Fatalf("defaults lost on empty server payload: %+v", merged.Fields)
	}
}

func TestMergeServer_BadFieldListKeepsCurrentSet(t *testing.T) {
	resolved := config.Resolve(config.Config{WidgetID: "w", TenantID: "t"})
	merged := config.MergeServer(resolved, config.ServerConfig{
		FieldConfigurations: []schema.RawFieldConfig{
			{PropertyDefinitionID: "email", Enabled: true},
			{PropertyDefinitionID: "email", Enabled: true},
		},
	})

	if len(merged.Fields) != 1 {
		t.Fatalf("expected default set kept on adapter error, got %+v", merged.Fields)
	}
}
