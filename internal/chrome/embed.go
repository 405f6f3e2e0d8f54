package chrome

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// EmbeddedFS exposes the built-in shell templates rooted at the template
// directory, so names resolve without a templates/ prefix.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic("chrome: embedded templates missing: " + err.Error())
	}
	return sub
}
