package styles_test

import (
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/nevent-io/go-widget/internal/styles"
	"github.com/nevent-io/go-widget/pkg/config"
)

func TestBuildEmitsConfiguredVariables(t *testing.T) {
	cfg := config.Defaults().Styles
	cfg.PrimaryColor = "#123456"
	cfg.BorderRadius = "12px"

	css := styles.Build(cfg, "", true, nil, "")

	for _, want := range []string{
		"--nevent-primary: #123456;",
		"--nevent-radius: 12px;",
		".nevent-form",
		".nevent-w-50",
		"transition: border-color",
	} {
		if !strings.Contains(css, want) {
			t.Fatalf("stylesheet missing %q:\n%s", want, css)
		}
	}
}

func TestBuildAnimationsDisabled(t *testing.T) {
	css := styles.Build(config.Defaults().Styles, "", false, nil, "")
	if strings.Contains(css, "transition:") {
		t.Fatalf("expected no transition rules:\n%s", css)
	}
}

func TestBuildAppendsCustomCSSLast(t *testing.T) {
	custom := ".nevent-submit { background: rebeccapurple; }"
	css := styles.Build(config.Defaults().Styles, custom, false, nil, "")

	idx := strings.Index(css, custom)
	if idx < 0 {
		t.Fatalf("custom CSS not present:\n%s", css)
	}
	if rest := css[idx+len(custom):]; strings.Contains(rest, "{") {
		t.Fatalf("custom CSS is not last: %q follows it", rest)
	}
}

func TestBuildComponentOverrides(t *testing.T) {
	cfg := config.Defaults().Styles
	cfg.Components = map[string]map[string]string{
		"submit": {"text-transform": "uppercase"},
	}

	css := styles.Build(cfg, "", false, nil, "")
	if !strings.Contains(css, ".nevent-submit {\n  text-transform: uppercase;\n}") {
		t.Fatalf("component block missing:\n%s", css)
	}
}

func TestBuildThemeTokens(t *testing.T) {
	manifest := &theme.Manifest{
		Name:   "brand",
		Tokens: map[string]string{"accent": "#ff0000"},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"accent": "#00ff00", "surface": "#111111"}},
		},
	}

	cfg := config.Defaults().Styles
	cfg.PrimaryColor = "#123456"

	css := styles.Build(cfg, "", false, manifest, "dark")

	if !strings.Contains(css, "--nevent-accent: #00ff00;") {
		t.Fatalf("variant token not applied:\n%s", css)
	}
	if !strings.Contains(css, "--nevent-surface: #111111;") {
		t.Fatalf("variant-only token missing:\n%s", css)
	}
	// Explicit style config wins over a colliding theme token.
	if !strings.Contains(css, "--nevent-primary: #123456;") {
		t.Fatalf("config primary overridden:\n%s", css)
	}
}

func TestBuildRTLDirection(t *testing.T) {
	cfg := config.Defaults().Styles
	cfg.Direction = "rtl"
	if !strings.Contains(styles.Build(cfg, "", false, nil, ""), "direction: rtl;") {
		t.Fatal("rtl direction not applied")
	}
}

func TestSanitizeRichText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "keeps links",
			input: `See <a href="https://nevent.io/privacy" target="_blank">policy</a>`,
			want:  `See <a href="https://nevent.io/privacy" target="_blank" rel="nofollow">policy</a>`,
		},
		{
			name:  "strips scripts",
			input: `hi <script>alert(1)</script><b>there</b>`,
			want:  "hi <b>there</b>",
		},
		{
			name:  "strips event handlers",
			input: `<span onclick="x()">ok</span>`,
			want:  "<span>ok</span>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := styles.SanitizeRichText(tt.input); got != tt.want {
				t.Fatalf("SanitizeRichText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeRichTextRejectsUnsafeSchemes(t *testing.T) {
	got := styles.SanitizeRichText(`<a href="javascript:alert(1)">policy</a>`)
	if strings.Contains(got, "javascript:") {
		t.Fatalf("unsafe scheme survived: %q", got)
	}
	if !strings.Contains(got, "policy") {
		t.Fatalf("link text dropped: %q", got)
	}
}
