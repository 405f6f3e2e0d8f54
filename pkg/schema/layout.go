package schema

import "sort"

// NormalizeLayout validates and orders server-provided layout entries for
// the given field set. Entries naming unknown fields are dropped; widths are
// clamped to the grid. When the result lacks a legal or submit element the
// missing blocks are appended, preserving the invariant that every rendered
// form carries a consent block and a submit button.
func NormalizeLayout(layout []LayoutElement, fields []FieldConfiguration) []LayoutElement {
	if len(layout) == 0 {
		return DefaultLayout(fields)
	}

	known := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		known[field.FieldName] = struct{}{}
	}

	out := make([]LayoutElement, 0, len(layout)+2)
	placed := make(map[string]struct{}, len(layout))
	hasLegal := false
	hasSubmit := false

	for _, element := range layout {
		switch element.Kind {
		case ElementField:
			if _, ok := known[element.FieldName]; !ok {
				continue
			}
			if _, dup := placed[element.FieldName]; dup {
				continue
			}
			placed[element.FieldName] = struct{}{}
		case ElementLegal:
			if hasLegal {
				continue
			}
			hasLegal = true
		case ElementSubmit:
			if hasSubmit {
				continue
			}
			hasSubmit = true
		default:
			continue
		}
		element.Width = NormalizeWidth(element.Width)
		out = append(out, element)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })

	next := 0
	if n := len(out); n > 0 {
		next = out[n-1].Order + 1
	}

	// Fields the layout skipped still render, in schema order, after the
	// declared elements but before consent and submit.
	insertAt := len(out)
	for i, element := range out {
		if element.Kind == ElementLegal || element.Kind == ElementSubmit {
			insertAt = i
			break
		}
	}
	var missing []LayoutElement
	for _, field := range fields {
		if _, ok := placed[field.FieldName]; ok {
			continue
		}
		missing = append(missing, LayoutElement{
			Kind:      ElementField,
			FieldName: field.FieldName,
			Order:     next,
			Width:     NormalizeWidth(field.Width),
		})
		next++
	}
	if len(missing) > 0 {
		out = append(out[:insertAt], append(missing, out[insertAt:]...)...)
	}

	if !hasLegal {
		out = append(out, LayoutElement{Kind: ElementLegal, Order: next, Width: 100})
		next++
	}
	if !hasSubmit {
		out = append(out, LayoutElement{Kind: ElementSubmit, Order: next, Width: 100})
	}
	return out
}

// DefaultLayout renders all fields in schema order at their configured
// width, then the consent block, then the submit button.
func DefaultLayout(fields []FieldConfiguration) []LayoutElement {
	out := make([]LayoutElement, 0, len(fields)+2)
	for i, field := range fields {
		out = append(out, LayoutElement{
			Kind:      ElementField,
			FieldName: field.FieldName,
			Order:     i,
			Width:     NormalizeWidth(field.Width),
		})
	}
	out = append(out,
		LayoutElement{Kind: ElementLegal, Order: len(fields), Width: 100},
		LayoutElement{Kind: ElementSubmit, Order: len(fields) + 1, Width: 100},
	)
	return out
}
