// Package i18n provides the key→string lookup service the widgets consume.
// Dictionaries ship embedded as YAML; unknown locales fall back to the
// default, unknown keys fall back to the default locale's value, then the
// key itself.
package i18n

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used whenever a requested locale is not supported.
const DefaultLocale = "en"

// Translator mirrors the lookup seam renderers depend on: resolve a key for
// a locale or report an error so callers can apply their fallback policy.
type Translator interface {
	Translate(locale, key string) (string, error)
}

// Catalog is an immutable set of parsed dictionaries.
type Catalog struct {
	locales map[string]map[string]string
}

// Load parses every YAML dictionary in fsys (one file per locale, named
// <locale>.yaml).
func Load(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{locales: make(map[string]map[string]string)}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", path, err)
		}

		var entries map[string]string
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("i18n: parse %s: %w", path, err)
		}

		locale := normalizeLocale(strings.TrimSuffix(filepath.Base(path), ext))
		if locale == "" {
			return fmt.Errorf("i18n: file %s does not name a locale", path)
		}
		catalog.locales[locale] = entries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// Default returns the embedded catalog. The embedded dictionaries are
// vetted at build time, so a parse failure here is a programming error.
func Default() *Catalog {
	catalog, err := Load(EmbeddedFS())
	if err != nil {
		panic(err)
	}
	return catalog
}

// Supported reports whether the catalog carries the locale.
func (c *Catalog) Supported(locale string) bool {
	_, ok := c.locales[normalizeLocale(locale)]
	return ok
}

// Locales lists the catalog's locales, sorted.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.locales))
	for locale := range c.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Resolve maps an arbitrary requested locale to a supported one. Region
// subtags are stripped ("es-MX" resolves to "es"); anything unsupported
// resolves to the default.
func (c *Catalog) Resolve(locale string) string {
	normalized := normalizeLocale(locale)
	if _, ok := c.locales[normalized]; ok {
		return normalized
	}
	if base, _, found := strings.Cut(normalized, "-"); found {
		if _, ok := c.locales[base]; ok {
			return base
		}
	}
	return DefaultLocale
}

// Translate implements Translator with the catalog's fallback policy.
func (c *Catalog) Translate(locale, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("i18n: key is required")
	}

	if entries, ok := c.locales[c.Resolve(locale)]; ok {
		if value, ok := entries[key]; ok && value != "" {
			return value, nil
		}
	}
	if entries, ok := c.locales[DefaultLocale]; ok {
		if value, ok := entries[key]; ok && value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("i18n: missing translation %q", key)
}

// MustTranslate resolves a key, falling back to the key itself so rendering
// never blocks on a missing string.
func (c *Catalog) MustTranslate(locale, key string) string {
	value, err := c.Translate(locale, key)
	if err != nil {
		return key
	}
	return value
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(locale, "_", "-")))
}
