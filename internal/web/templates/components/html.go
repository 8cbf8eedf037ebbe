// Package components holds the templ components shared by several pages.
package components

import (
	"context"
	"io"
	"maps"
	"slices"

	"github.com/a-h/templ"
)

// HTML writes markup for a component. The first write error sticks and
// every later write is skipped, so a component checks once at the end.
type HTML struct {
	w   io.Writer
	err error
}

// Component adapts a function writing through HTML into a templ.Component
func Component(fn func(ctx context.Context, h *HTML)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &HTML{w: w}
		fn(ctx, h)
		return h.err
	})
}

// Raw writes trusted markup as is
func (h *HTML) Raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

// Text writes escaped text
func (h *HTML) Text(s string) {
	h.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with the value escaped
func (h *HTML) Attr(name, value string) {
	h.Raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// Href writes an href attribute; unsafe schemes are replaced by templ
func (h *HTML) Href(url string) {
	h.Attr("href", string(templ.URL(url)))
}

// BoolAttr writes a bare attribute such as checked when on is set
func (h *HTML) BoolAttr(name string, on bool) {
	if on {
		h.Raw(" ", name)
	}
}

// Render renders a nested component into the same output
func (h *HTML) Render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Hidden writes one hidden input per entry, in key order
func (h *HTML) Hidden(values map[string]string) {
	for _, name := range slices.Sorted(maps.Keys(values)) {
		h.Raw(`<input type="hidden"`)
		h.Attr("name", name)
		h.Attr("value", values[name])
		h.Raw(">\n")
	}
}

// ErrorMessage writes an alert paragraph when msg is set
func ErrorMessage(msg string) templ.Component {
	return Component(func(_ context.Context, h *HTML) {
		if msg == "" {
			return
		}
		h.Raw(`<p class="error" role="alert">`)
		h.Text(msg)
		h.Raw("</p>\n")
	})
}
