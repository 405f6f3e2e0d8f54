package config

import "strings"

// DeepMerge recursively merges src over dst and returns the result without
// mutating either input. Plain objects merge key-wise; arrays and scalars
// are replaced wholesale. This is the merge primitive behind both the
// user-config and server-config layers.
func DeepMerge(dst, src map[string]any) map[string]any {
	if len(dst) == 0 && len(src) == 0 {
		return map[string]any{}
	}

	out := make(map[string]any, len(dst)+len(src))
	for key, value := range dst {
		out[key] = value
	}
	for key, value := range src {
		existing, ok := out[key]
		if !ok {
			out[key] = value
			continue
		}
		existingMap, existingIsMap := existing.(map[string]any)
		valueMap, valueIsMap := value.(map[string]any)
		if existingIsMap && valueIsMap {
			out[key] = DeepMerge(existingMap, valueMap)
			continue
		}
		out[key] = value
	}
	return out
}

// Resolve merges a user-supplied config over the built-in defaults. Zero
// values in the user config keep the default; the identity fields are
// carried as given (Validate rejects empty ones at construction).
func Resolve(user Config) Config {
	resolved := Defaults()

	resolved.WidgetID = user.WidgetID
	resolved.TenantID = user.TenantID
	resolved.Token = user.Token
	resolved.ContainerID = user.ContainerID

	if strings.TrimSpace(user.APIURL) != "" {
		resolved.APIURL = strings.TrimRight(user.APIURL, "/")
	}
	if strings.TrimSpace(user.Locale) != "" {
		resolved.Locale = user.Locale
	}

	resolved.Analytics = user.Analytics
	resolved.Debug = user.Debug
	resolved.ResetOnSuccess = user.ResetOnSuccess
	if user.Animations {
		resolved.Animations = true
	}

	if user.Title != "" {
		resolved.Title = user.Title
	}
	if user.CompanyName != "" {
		resolved.CompanyName = user.CompanyName
	}
	if user.PrivacyPolicyURL != "" {
		resolved.PrivacyPolicyURL = user.PrivacyPolicyURL
	}
	resolved.CustomCSS = user.CustomCSS
	resolved.Styles = mergeStyles(resolved.Styles, user.Styles)
	if len(user.Fonts) > 0 {
		resolved.Fonts = user.Fonts
	}
	resolved.Messages = mergeMessages(resolved.Messages, user.Messages)

	if len(user.Fields) > 0 {
		resolved.Fields = user.Fields
	}
	if len(user.Layout) > 0 {
		resolved.Layout = user.Layout
	}

	resolved.Hooks = user.Hooks

	if user.SuccessResetDelay > 0 {
		resolved.SuccessResetDelay = user.SuccessResetDelay
	}
	if user.ErrorAutoHide > 0 {
		resolved.ErrorAutoHide = user.ErrorAutoHide
	}
	if user.ConfigRetries > 0 {
		resolved.ConfigRetries = user.ConfigRetries
	}
	if user.SubmitRetries > 0 {
		resolved.SubmitRetries = user.SubmitRetries
	}

	return resolved
}

// mergeStyles overlays non-empty scalar values and merges component blocks
// key-wise, so a partial override never wipes unrelated declarations.
func mergeStyles(base, overlay Styles) Styles {
	out := base
	if overlay.PrimaryColor != "" {
		out.PrimaryColor = overlay.PrimaryColor
	}
	if overlay.BackgroundColor != "" {
		out.BackgroundColor = overlay.BackgroundColor
	}
	if overlay.TextColor != "" {
		out.TextColor = overlay.TextColor
	}
	if overlay.ErrorColor != "" {
		out.ErrorColor = overlay.ErrorColor
	}
	if overlay.BorderRadius != "" {
		out.BorderRadius = overlay.BorderRadius
	}
	if overlay.FontFamily != "" {
		out.FontFamily = overlay.FontFamily
	}
	if overlay.Direction != "" {
		out.Direction = overlay.Direction
	}

	if len(overlay.Components) > 0 {
		out.Components = fromNested(DeepMerge(toNested(base.Components), toNested(overlay.Components)))
	}
	return out
}

func mergeMessages(base, overlay map[string]map[string]string) map[string]map[string]string {
	if len(overlay) == 0 {
		return base
	}
	return fromNested(DeepMerge(toNested(base), toNested(overlay)))
}

// toNested and fromNested bridge the typed message and component blocks to
// the generic merge primitive.
func toNested(blocks map[string]map[string]string) map[string]any {
	out := make(map[string]any, len(blocks))
	for name, block := range blocks {
		inner := make(map[string]any, len(block))
		for key, value := range block {
			inner[key] = value
		}
		out[name] = inner
	}
	return out
}

func fromNested(merged map[string]any) map[string]map[string]string {
	out := make(map[string]map[string]string, len(merged))
	for name, value := range merged {
		inner, ok := value.(map[string]any)
		if !ok {
			continue
		}
		block := make(map[string]string, len(inner))
		for key, v := range inner {
			if s, ok := v.(string); ok {
				block[key] = s
			}
		}
		out[name] = block
	}
	return out
}
