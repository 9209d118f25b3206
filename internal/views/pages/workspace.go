package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"crumb/internal/views/components"
	"crumb/internal/views/layout"
)

// FormulaSummary is one line of the formula index.
type FormulaSummary struct {
	ID        string
	Name      string
	Version   int
	Hydration string
	UpdatedAt string
}

// WorkspaceData is the content of the signed-in landing page.
type WorkspaceData struct {
	UserName string
	Formulas []FormulaSummary
}

var workspaceLinks = []components.NavLink{
	{Label: "Formulas", Path: "/app", Section: "formulas"},
	{Label: "Sign out", Path: "/logout", Section: "logout"},
}

// Workspace lists the signed-in baker's formulas with links to their sheets.
func Workspace(data WorkspaceData) templ.Component {
	return layout.Layout("Formulas", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b htmlBuilder
		if err := b.component(ctx, components.Nav("formulas", workspaceLinks)); err != nil {
			return err
		}
		b.raw(`<h1>Formulas</h1>`)
		if data.UserName != "" {
			b.raw(`<p class="meta">Signed in as `)
			b.text(data.UserName)
			b.raw(`</p>`)
		}
		if len(data.Formulas) == 0 {
			b.raw(`<p class="empty">No formulas yet. Import a sheet or create one through the API.</p>`)
			return b.flush(w)
		}
		b.raw(`<table><thead><tr><th>Name</th><th class="num">Version</th><th class="num">Hydration</th><th>Updated</th></tr></thead><tbody>`)
		for _, f := range data.Formulas {
			b.raw(`<tr><td><a href="/app/formulas/`, templ.EscapeString(f.ID), `/sheet">`)
			b.text(f.Name)
			b.raw(`</a></td><td class="num">`, fmt.Sprint(f.Version), `</td><td class="num">`)
			b.text(f.Hydration)
			b.raw(`</td><td>`)
			b.text(f.UpdatedAt)
			b.raw(`</td></tr>`)
		}
		b.raw(`</tbody></table>`)
		return b.flush(w)
	}))
}
