// Package styles generates the widget's namespaced stylesheet. Every rule
// targets a nevent-* class so the non-shadow fallback path cannot collide
// with host page CSS. Custom CSS from the host is appended verbatim after
// the generated rules, per the configuration contract.
package styles

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/nevent-io/go-widget/pkg/config"
)

// Build renders the stylesheet for the resolved configuration. Theme tokens,
// when a manifest is supplied, become --nevent-* CSS variables that the
// generated rules consume; explicit style config wins over theme tokens.
func Build(cfg config.Styles, customCSS string, animations bool, manifest *theme.Manifest, variant string) string {
	var b strings.Builder

	b.WriteString(":host, .nevent-widget-host {\n")
	writeVars(&b, cfg, manifest, variant)
	b.WriteString("}\n")

	direction := cfg.Direction
	if direction != "rtl" {
		direction = "ltr"
	}

	fmt.Fprintf(&b, `
.nevent-root {
  direction: %s;
  font-family: var(--nevent-font-family);
  color: var(--nevent-text);
  background: var(--nevent-bg);
  border-radius: var(--nevent-radius);
  padding: 16px;
}
.nevent-form { display: flex; flex-wrap: wrap; gap: 12px; }
.nevent-field { display: flex; flex-direction: column; gap: 4px; }
.nevent-w-25 { flex: 0 0 calc(25%% - 9px); }
.nevent-w-50 { flex: 0 0 calc(50%% - 6px); }
.nevent-w-75 { flex: 0 0 calc(75%% - 3px); }
.nevent-w-100 { flex: 0 0 100%%; }
.nevent-label { font-size: 14px; font-weight: 500; }
.nevent-input, .nevent-select, .nevent-textarea {
  padding: 8px 10px;
  border: 1px solid #d1d5db;
  border-radius: var(--nevent-radius);
  font: inherit;
}
.nevent-input[aria-invalid="true"], .nevent-select[aria-invalid="true"], .nevent-textarea[aria-invalid="true"] {
  border-color: var(--nevent-error);
}
.nevent-hint { font-size: 12px; color: #6b7280; }
.nevent-field-error { display: none; font-size: 12px; color: var(--nevent-error); }
.nevent-field-error[data-visible="true"] { display: block; }
.nevent-consent { display: flex; align-items: flex-start; gap: 8px; font-size: 13px; }
.nevent-submit {
  background: var(--nevent-primary);
  color: #ffffff;
  border: 0;
  border-radius: var(--nevent-radius);
  padding: 10px 18px;
  cursor: pointer;
}
.nevent-submit[disabled] { opacity: 0.6; cursor: default; }
.nevent-status { display: none; font-size: 14px; padding: 8px 0; }
.nevent-status[data-visible="true"] { display: block; }
.nevent-status--error { color: var(--nevent-error); }
.nevent-success { text-align: center; padding: 24px 8px; }
.nevent-offline-banner {
  display: none;
  background: #fef3c7;
  color: #92400e;
  font-size: 13px;
  padding: 6px 10px;
  border-radius: var(--nevent-radius);
}
.nevent-offline-banner[data-visible="true"] { display: block; }
.nevent-chat-panel { display: none; flex-direction: column; gap: 8px; }
.nevent-chat-panel[data-open="true"] { display: flex; }
.nevent-chat-message { padding: 6px 10px; border-radius: var(--nevent-radius); max-width: 85%%; }
.nevent-chat-message--user { background: var(--nevent-primary); color: #ffffff; align-self: flex-end; }
.nevent-chat-message--bot { background: #f3f4f6; align-self: flex-start; }
`, direction)

	if animations {
		b.WriteString(`
.nevent-input, .nevent-select, .nevent-textarea { transition: border-color 120ms ease; }
.nevent-submit { transition: opacity 120ms ease, background 120ms ease; }
.nevent-status, .nevent-offline-banner { transition: opacity 150ms ease; }
`)
	}

	writeComponentBlocks(&b, cfg.Components)

	if custom := strings.TrimSpace(customCSS); custom != "" {
		b.WriteString("\n/* custom */\n")
		b.WriteString(custom)
		b.WriteString("\n")
	}

	return b.String()
}

func writeVars(b *strings.Builder, cfg config.Styles, manifest *theme.Manifest, variant string) {
	vars := map[string]string{
		"--nevent-primary":     cfg.PrimaryColor,
		"--nevent-bg":          cfg.BackgroundColor,
		"--nevent-text":        cfg.TextColor,
		"--nevent-error":       cfg.ErrorColor,
		"--nevent-radius":      cfg.BorderRadius,
		"--nevent-font-family": fontFamilyVar(cfg.FontFamily),
	}

	for token, value := range themeTokens(manifest, variant) {
		name := "--nevent-" + token
		if existing, ok := vars[name]; !ok || existing == "" {
			vars[name] = value
		}
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if vars[name] == "" {
			continue
		}
		fmt.Fprintf(b, "  %s: %s;\n", name, vars[name])
	}
}

// themeTokens flattens manifest tokens with the variant overlay applied.
func themeTokens(manifest *theme.Manifest, variant string) map[string]string {
	if manifest == nil {
		return nil
	}
	out := make(map[string]string, len(manifest.Tokens))
	for token, value := range manifest.Tokens {
		out[token] = value
	}
	if variant == "" {
		return out
	}
	if v, ok := manifest.Variants[variant]; ok {
		for token, value := range v.Tokens {
			out[token] = value
		}
	}
	return out
}

func fontFamilyVar(family string) string {
	if strings.TrimSpace(family) == "" {
		return "system-ui, sans-serif"
	}
	return family
}

func writeComponentBlocks(b *strings.Builder, components map[string]map[string]string) {
	if len(components) == 0 {
		return
	}
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		block := components[name]
		if len(block) == 0 {
			continue
		}
		properties := make([]string, 0, len(block))
		for property := range block {
			properties = append(properties, property)
		}
		sort.Strings(properties)

		fmt.Fprintf(b, "\n.nevent-%s {\n", name)
		for _, property := range properties {
			fmt.Fprintf(b, "  %s: %s;\n", property, block[property])
		}
		b.WriteString("}\n")
	}
}
