package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// htmlBuilder accumulates markup and escapes text nodes on the way in.
type htmlBuilder struct {
	strings.Builder
}

func (b *htmlBuilder) raw(parts ...string) {
	for _, p := range parts {
		b.WriteString(p)
	}
}

func (b *htmlBuilder) text(s string) {
	b.WriteString(templ.EscapeString(s))
}

func (b *htmlBuilder) component(ctx context.Context, c templ.Component) error {
	return c.Render(ctx, &b.Builder)
}

func (b *htmlBuilder) flush(w io.Writer) error {
	_, err := io.WriteString(w, b.String())
	return err
}
