package widget

import (
	"github.com/nevent-io/go-widget/pkg/boundary"
	"github.com/nevent-io/go-widget/pkg/dom"
	"github.com/nevent-io/go-widget/pkg/form"
)

// view adapts the widget's node tree to the submission controller. The
// success swap pins the host's current height first so the page does not
// jump when the form disappears.
type view struct {
	w *Widget
}

func (v *view) ShowSuccess() {
	w := v.w
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.bodyNode == nil {
		return
	}
	w.mount.PinMinHeight(successMinHeight)

	m := form.NewMessages(&w.cfg, w.catalog)
	markup, err := w.shell.Render("success", map[string]any{
		"successTitle":   m.Get("successTitle"),
		"successMessage": m.Get("successMessage"),
	})
	if err != nil {
		w.bnd.Dispatch(boundary.Normalize(err, "widget: render success"))
		return
	}
	nodes, err := dom.ParseFragment(markup)
	if err != nil {
		w.bnd.Dispatch(boundary.Normalize(err, "widget: parse success"))
		return
	}

	dom.ClearChildren(w.bodyNode)
	for _, n := range nodes {
		w.bodyNode.AppendChild(n)
	}
}

func (v *view) ShowError(message string) {
	w := v.w
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.statusNode == nil {
		return
	}
	dom.ClearChildren(w.statusNode)
	w.statusNode.AppendChild(dom.Text(message))
	dom.SetAttr(w.statusNode, "data-visible", "true")
}

func (v *view) HideError() {
	w := v.w
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.statusNode == nil {
		return
	}
	dom.ClearChildren(w.statusNode)
	dom.SetAttr(w.statusNode, "data-visible", "false")
}

// successMinHeight approximates the rendered form height in pixels so the
// success panel does not collapse the container.
const successMinHeight = 120
