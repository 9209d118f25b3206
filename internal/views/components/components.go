package components

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// NavLink is one entry of the page navigation.
type NavLink struct {
	Label   string
	Path    string
	Section string
}

func linkState(active, section string) string {
	if active == section {
		return "active"
	}
	return "inactive"
}

// Nav renders the top navigation, marking the link for the active section.
func Nav(active string, links []NavLink) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<nav>`)
		for _, link := range links {
			b.WriteString(`<a href="`)
			b.WriteString(templ.EscapeString(link.Path))
			b.WriteString(`" data-nav-section="`)
			b.WriteString(templ.EscapeString(link.Section))
			b.WriteString(`" data-state="`)
			b.WriteString(linkState(active, link.Section))
			b.WriteString(`">`)
			b.WriteString(templ.EscapeString(link.Label))
			b.WriteString(`</a> `)
		}
		b.WriteString(`</nav>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// StatCard renders a labelled headline figure with an optional detail line.
func StatCard(label, value, detail string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="stat"><span class="stat-label">`)
		b.WriteString(templ.EscapeString(label))
		b.WriteString(`</span> <strong class="stat-value">`)
		b.WriteString(templ.EscapeString(value))
		b.WriteString(`</strong>`)
		if detail != "" {
			b.WriteString(` <small>`)
			b.WriteString(templ.EscapeString(detail))
			b.WriteString(`</small>`)
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
