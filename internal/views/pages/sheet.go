package pages

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"crumb/internal/views/components"
	"crumb/internal/views/layout"
)

// SheetRow is one printable ingredient line. Empty columns are omitted.
type SheetRow struct {
	Label      string
	Weight     string
	Percentage string
}

// SheetSection groups the rows mixed together in one build step.
type SheetSection struct {
	Title  string
	Detail string
	Rows   []SheetRow
	Total  SheetRow
}

// SheetStat is a headline figure printed above the sections.
type SheetStat struct {
	Label  string
	Value  string
	Detail string
}

// SheetFinding is an analysis message shown at the foot of the sheet.
type SheetFinding struct {
	Severity string
	Message  string
}

// BakeSheetData aggregates everything required to render a printable bake sheet.
type BakeSheetData struct {
	FormulaName    string
	FormulaVersion int
	Yield          string
	ShowWeight     bool
	ShowPercentage bool
	Stats          []SheetStat
	Sections       []SheetSection
	Findings       []SheetFinding
	Notes          string
	LotNumber      string
	PrintedAt      time.Time
}

// LotNumber builds the batch reference printed on a sheet.
func LotNumber(printedAt time.Time, version int) string {
	return fmt.Sprintf("BAKE-%s-%03d", printedAt.Format("20060102"), version)
}

// FormatSheetDate renders the supplied time using a bakery-friendly layout.
func FormatSheetDate(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.Format("02 Jan 2006 15:04")
}

// BakeSheet renders the printable production sheet for one formula.
func BakeSheet(data BakeSheetData) templ.Component {
	title := fmt.Sprintf("%s v%d", data.FormulaName, data.FormulaVersion)
	return layout.Layout(title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b htmlBuilder
		b.raw(`<header><h1>`)
		b.text(data.FormulaName)
		b.raw(`</h1><p class="meta">Version `, fmt.Sprint(data.FormulaVersion))
		if data.Yield != "" {
			b.raw(` &middot; `)
			b.text(data.Yield)
		}
		if data.LotNumber != "" {
			b.raw(` &middot; Lot `)
			b.text(data.LotNumber)
		}
		if date := FormatSheetDate(data.PrintedAt); date != "" {
			b.raw(` &middot; Printed `)
			b.text(date)
		}
		b.raw(`</p></header>`)

		if len(data.Stats) > 0 {
			b.raw(`<section class="stats">`)
			for _, stat := range data.Stats {
				if err := b.component(ctx, components.StatCard(stat.Label, stat.Value, stat.Detail)); err != nil {
					return err
				}
			}
			b.raw(`</section>`)
		}

		for _, section := range data.Sections {
			writeSection(&b, section, data.ShowWeight, data.ShowPercentage)
		}

		if len(data.Findings) > 0 {
			b.raw(`<section class="findings"><h2>Checks</h2><ul>`)
			for _, finding := range data.Findings {
				b.raw(`<li class="finding-`, templ.EscapeString(finding.Severity), `">`)
				b.text(finding.Message)
				b.raw(`</li>`)
			}
			b.raw(`</ul></section>`)
		}

		if notes := strings.TrimSpace(data.Notes); notes != "" {
			b.raw(`<section class="notes"><h2>Notes</h2>`)
			for _, line := range strings.Split(notes, "\n") {
				b.raw(`<p>`)
				b.text(line)
				b.raw(`</p>`)
			}
			b.raw(`</section>`)
		}
		return b.flush(w)
	}))
}

func writeSection(b *htmlBuilder, section SheetSection, showWeight, showPercentage bool) {
	b.raw(`<section><h2>`)
	b.text(section.Title)
	b.raw(`</h2>`)
	if section.Detail != "" {
		b.raw(`<p class="detail">`)
		b.text(section.Detail)
		b.raw(`</p>`)
	}
	b.raw(`<table><thead><tr><th>Ingredient</th>`)
	if showWeight {
		b.raw(`<th class="num">Weight</th>`)
	}
	if showPercentage {
		b.raw(`<th class="num">Baker's %</th>`)
	}
	b.raw(`</tr></thead><tbody>`)
	for _, row := range section.Rows {
		writeRow(b, "td", row, showWeight, showPercentage)
	}
	b.raw(`</tbody>`)
	if section.Total.Label != "" {
		b.raw(`<tfoot>`)
		writeRow(b, "th", section.Total, showWeight, showPercentage)
		b.raw(`</tfoot>`)
	}
	b.raw(`</table></section>`)
}

func writeRow(b *htmlBuilder, cell string, row SheetRow, showWeight, showPercentage bool) {
	b.raw(`<tr><`, cell, `>`)
	b.text(row.Label)
	b.raw(`</`, cell, `>`)
	if showWeight {
		b.raw(`<`, cell, ` class="num">`)
		b.text(row.Weight)
		b.raw(`</`, cell, `>`)
	}
	if showPercentage {
		b.raw(`<`, cell, ` class="num">`)
		b.text(row.Percentage)
		b.raw(`</`, cell, `>`)
	}
	b.raw(`</tr>`)
}
