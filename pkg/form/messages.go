package form

import (
	"github.com/nevent-io/go-widget/pkg/config"
	"github.com/nevent-io/go-widget/pkg/i18n"
)

// Messages resolves UI copy for one locale: per-widget overrides first, then
// the embedded dictionaries, then the key itself.
type Messages struct {
	locale    string
	overrides map[string]map[string]string
	catalog   *i18n.Catalog
}

func NewMessages(cfg *config.Config, catalog *i18n.Catalog) *Messages {
	if catalog == nil {
		catalog = i18n.Default()
	}
	locale := cfg.Locale
	if locale == "" {
		locale = i18n.DefaultLocale
	}
	return &Messages{
		locale:    catalog.Resolve(locale),
		overrides: cfg.Messages,
		catalog:   catalog,
	}
}

func (m *Messages) Locale() string { return m.locale }

// Get returns the message for key, falling back through override, catalog,
// then the key itself.
func (m *Messages) Get(key string) string {
	if byLocale, ok := m.overrides[m.locale]; ok {
		if msg, ok := byLocale[key]; ok && msg != "" {
			return msg
		}
	}
	return m.catalog.MustTranslate(m.locale, key)
}
