// Package fonts loads the typefaces a widget configuration names into the
// host document head. Remote stylesheet fonts (Google Fonts and friends) are
// batched into a single link element; self-hosted fonts become @font-face
// rules in one style element. Injection is deduplicated across widget
// instances by a signature derived from the font set.
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/nevent-io/go-widget/pkg/config"
	"github.com/nevent-io/go-widget/pkg/dom"
)

const idPrefix = "nevent-fonts-"

// Loader injects fonts through a head injector so ownership follows the
// widget instance lifecycle.
type Loader struct {
	injector *dom.HeadInjector
}

func NewLoader(injector *dom.HeadInjector) *Loader {
	return &Loader{injector: injector}
}

// Load injects the elements for fonts. Fonts without a URL are skipped; a
// duplicate load with the same font set is a no-op. Returns how many head
// elements this loader added.
func (l *Loader) Load(fonts []config.Font) int {
	stylesheets, faces := partition(fonts)
	if len(stylesheets) == 0 && len(faces) == 0 {
		return 0
	}

	sig := Signature(fonts)
	added := 0

	if len(stylesheets) > 0 {
		id := idPrefix + "link-" + sig
		if l.injector.Inject(id, func() *html.Node {
			return dom.Element("link",
				"id", id,
				"rel", "stylesheet",
				"href", batchURL(stylesheets),
			)
		}) {
			added++
		}
	}

	if len(faces) > 0 {
		id := idPrefix + "face-" + sig
		if l.injector.Inject(id, func() *html.Node {
			node := dom.Element("style", "id", id, "type", "text/css")
			node.AppendChild(dom.Text(fontFaceCSS(faces)))
			return node
		}) {
			added++
		}
	}

	return added
}

// Signature is a stable identifier for a font set: the sorted, joined family
// names. Two configurations naming the same families share head elements.
func Signature(fonts []config.Font) string {
	families := make([]string, 0, len(fonts))
	seen := make(map[string]bool, len(fonts))
	for _, f := range fonts {
		family := strings.TrimSpace(f.Family)
		if family == "" || seen[family] {
			continue
		}
		seen[family] = true
		families = append(families, family)
	}
	sort.Strings(families)

	joined := strings.Join(families, "-")
	joined = strings.ToLower(joined)
	return strings.ReplaceAll(joined, " ", "_")
}

func partition(fonts []config.Font) (stylesheets, faces []config.Font) {
	for _, f := range fonts {
		if strings.TrimSpace(f.URL) == "" {
			continue
		}
		if f.Source == "face" || isFontFile(f.URL) {
			faces = append(faces, f)
			continue
		}
		stylesheets = append(stylesheets, f)
	}
	return stylesheets, faces
}

func isFontFile(url string) bool {
	for _, ext := range []string{".woff2", ".woff", ".ttf", ".otf"} {
		if strings.HasSuffix(strings.ToLower(url), ext) {
			return true
		}
	}
	return false
}

// batchURL collapses multiple stylesheet fonts into one request when they all
// point at the Google Fonts CSS2 endpoint; otherwise the first URL wins and
// the rest are carried as additional family parameters only when compatible.
func batchURL(fonts []config.Font) string {
	const gfPrefix = "https://fonts.googleapis.com/css2"

	allGoogle := true
	for _, f := range fonts {
		if !strings.HasPrefix(f.URL, gfPrefix) {
			allGoogle = false
			break
		}
	}
	if !allGoogle || len(fonts) == 1 {
		return fonts[0].URL
	}

	params := make([]string, 0, len(fonts)+1)
	for _, f := range fonts {
		if q := strings.IndexByte(f.URL, '?'); q >= 0 {
			for _, p := range strings.Split(f.URL[q+1:], "&") {
				if strings.HasPrefix(p, "family=") {
					params = append(params, p)
				}
			}
		}
	}
	params = append(params, "display=swap")
	return gfPrefix + "?" + strings.Join(params, "&")
}

func fontFaceCSS(fonts []config.Font) string {
	var b strings.Builder
	for _, f := range fonts {
		weight := f.Weight
		if weight == "" {
			weight = "400"
		}
		style := f.Style
		if style == "" {
			style = "normal"
		}
		fmt.Fprintf(&b, "@font-face{font-family:%q;src:url(%q) format(%q);font-weight:%s;font-style:%s;font-display:swap;}\n",
			f.Family, f.URL, formatFor(f.URL), weight, style)
	}
	return b.String()
}

func formatFor(url string) string {
	switch {
	case strings.HasSuffix(url, ".woff2"):
		return "woff2"
	case strings.HasSuffix(url, ".woff"):
		return "woff"
	case strings.HasSuffix(url, ".otf"):
		return "opentype"
	default:
		return "truetype"
	}
}
