package i18n

import (
	"embed"
	"io/fs"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// EmbeddedFS returns the bundled dictionaries. Callers may pass this
// filesystem to Load to use the default locale set.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		// The embed directive guarantees the subpath exists, so panic is
		// acceptable here.
		panic(err)
	}
	return sub
}
