package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter keeps the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// text writes s escaped for element content or a quoted attribute value.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// url writes a sanitized, escaped URL for an href attribute.
func (hw *htmlWriter) url(s string) {
	hw.raw(templ.EscapeString(string(templ.URL(s))))
}

func (hw *htmlWriter) number(n int) {
	hw.raw(strconv.Itoa(n))
}

// child renders c in place.
func (hw *htmlWriter) child(ctx context.Context, c templ.Component) {
	if hw.err != nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

// component adapts a markup-writing function to templ.Component.
func component(fn func(ctx context.Context, hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		fn(ctx, hw)
		return hw.err
	})
}
