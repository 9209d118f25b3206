package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const stylesheet = `body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:52rem;color:#2b2118}
table{border-collapse:collapse;width:100%;margin-bottom:1.5rem}
th,td{padding:.25rem .5rem;border-bottom:1px solid #e4d9cc;text-align:left}
td.num,th.num{text-align:right;font-variant-numeric:tabular-nums}
.finding-error{color:#a12a1c}.finding-warning{color:#a36a00}.finding-info{color:#44606e}
@media print{nav,form{display:none}body{margin:0}}`

// Layout wraps content in the document shell shared by every page.
func Layout(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`+
			templ.EscapeString(title)+`</title><style>`+stylesheet+`</style></head><body>`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
