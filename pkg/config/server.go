package config

import (
	"strings"

	"github.com/nevent-io/go-widget/pkg/schema"
)

// ServerConfig is the payload the config endpoint returns. Every field is
// optional; a partial payload only overrides what it names.
type ServerConfig struct {
	Title               string                       `json:"title,omitempty"`
	CompanyName         string                       `json:"companyName,omitempty"`
	PrivacyPolicyURL    string                       `json:"privacyPolicyUrl,omitempty"`
	FieldConfigurations []schema.RawFieldConfig      `json:"fieldConfigurations,omitempty"`
	Layout              []schema.LayoutElement       `json:"layout,omitempty"`
	Styles              *Styles                      `json:"styles,omitempty"`
	Messages            map[string]map[string]string `json:"messages,omitempty"`
	Fonts               []Font                       `json:"fonts,omitempty"`
}

// MergeServer overlays server-provided settings on an already resolved
// config. Field and layout lists replace the default set wholesale when
// present and non-empty; styles and messages merge key-wise so a partial
// server payload never wipes user-set values. An unusable field list keeps
// the current set; config problems must never block rendering.
func MergeServer(resolved Config, server ServerConfig) Config {
	out := resolved

	if strings.TrimSpace(server.Title) != "" {
		out.Title = server.Title
	}
	if strings.TrimSpace(server.CompanyName) != "" {
		out.CompanyName = server.CompanyName
	}
	if strings.TrimSpace(server.PrivacyPolicyURL) != "" {
		out.PrivacyPolicyURL = server.PrivacyPolicyURL
	}

	if server.Styles != nil {
		out.Styles = mergeStyles(resolved.Styles, *server.Styles)
	}
	out.Messages = mergeMessages(resolved.Messages, server.Messages)
	if len(server.Fonts) > 0 {
		out.Fonts = server.Fonts
	}

	if len(server.FieldConfigurations) > 0 {
		if fields, err := schema.AdaptFields(server.FieldConfigurations); err == nil {
			out.Fields = fields
		}
	}
	if len(server.Layout) > 0 {
		out.Layout = schema.NormalizeLayout(server.Layout, out.Fields)
	}

	return out
}
