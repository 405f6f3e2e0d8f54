package styles

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextOnce   sync.Once
	richTextPolicy *bluemonday.Policy
)

// SanitizeRichText strips everything from hint and legal copy except a small
// inline vocabulary. Links keep href and target only.
func SanitizeRichText(input string) string {
	richTextOnce.Do(func() {
		p := bluemonday.StrictPolicy()
		p.AllowElements("a", "b", "strong", "i", "em", "br", "span")
		p.AllowAttrs("href", "target", "rel").OnElements("a")
		p.AllowURLSchemes("http", "https", "mailto")
		p.RequireParseableURLs(true)
		p.RequireNoFollowOnLinks(true)
		richTextPolicy = p
	})
	return richTextPolicy.Sanitize(input)
}
