package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func sampleSheet() BakeSheetData {
	return BakeSheetData{
		FormulaName:    "Country <Loaf>",
		FormulaVersion: 3,
		Yield:          "2 × 975 g",
		ShowWeight:     true,
		ShowPercentage: true,
		Stats:          []SheetStat{{Label: "Hydration", Value: "72.0%"}},
		Sections: []SheetSection{{
			Title:  "Final mix",
			Detail: "Spiral mixer",
			Rows:   []SheetRow{{Label: "Bread flour", Weight: "700.0 g", Percentage: "70.0%"}},
			Total:  SheetRow{Label: "Total", Weight: "1950.0 g", Percentage: "195.0%"},
		}},
		Findings:  []SheetFinding{{Severity: "warning", Message: "Salt is low"}},
		Notes:     "Retard overnight.\nBake hot.",
		LotNumber: LotNumber(time.Date(2025, 4, 12, 7, 30, 0, 0, time.UTC), 3),
		PrintedAt: time.Date(2025, 4, 12, 7, 30, 0, 0, time.UTC),
	}
}

func TestLotNumber(t *testing.T) {
	if got := LotNumber(time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC), 7); got != "BAKE-20250412-007" {
		t.Fatalf("unexpected lot number %q", got)
	}
}

func TestFormatSheetDate(t *testing.T) {
	if got := FormatSheetDate(time.Time{}); got != "" {
		t.Fatalf("expected empty string for zero time, got %q", got)
	}
	if got := FormatSheetDate(time.Date(2025, 4, 12, 7, 30, 0, 0, time.UTC)); got != "12 Apr 2025 07:30" {
		t.Fatalf("unexpected date %q", got)
	}
}

func TestBakeSheetRendersAllParts(t *testing.T) {
	out := renderString(t, BakeSheet(sampleSheet()))

	for _, token := range []string{
		"<title>Country &lt;Loaf&gt; v3</title>",
		"Country &lt;Loaf&gt;",
		"Lot BAKE-20250412-003",
		"Printed 12 Apr 2025 07:30",
		"Spiral mixer",
		"<td>Bread flour</td>",
		`<td class="num">700.0 g</td>`,
		`<th class="num">195.0%</th>`,
		`<li class="finding-warning">Salt is low</li>`,
		"<p>Bake hot.</p>",
		"72.0%",
	} {
		if !strings.Contains(out, token) {
			t.Fatalf("expected sheet to contain %q: %s", token, out)
		}
	}
}

func TestBakeSheetHonoursColumns(t *testing.T) {
	data := sampleSheet()
	data.ShowPercentage = false
	out := renderString(t, BakeSheet(data))

	if strings.Contains(out, "Baker's %") || strings.Contains(out, "70.0%") {
		t.Fatalf("expected percentage column to be hidden: %s", out)
	}
	if !strings.Contains(out, "700.0 g") {
		t.Fatalf("expected weight column: %s", out)
	}
}

func TestLoginAndSignupForms(t *testing.T) {
	out := renderString(t, Login("Invalid email or password.", "baker@crumb.app"))
	if !strings.Contains(out, `action="/login"`) || !strings.Contains(out, `value="baker@crumb.app"`) {
		t.Fatalf("unexpected login form: %s", out)
	}
	if !strings.Contains(out, "Invalid email or password.") {
		t.Fatalf("expected message in login form: %s", out)
	}

	out = renderString(t, Signup("", "Robin", ""))
	if strings.Contains(out, `role="alert"`) {
		t.Fatalf("expected no message element: %s", out)
	}
	if !strings.Contains(out, `name="confirm_password"`) || !strings.Contains(out, `value="Robin"`) {
		t.Fatalf("unexpected signup form: %s", out)
	}
}

func TestWorkspaceListsFormulas(t *testing.T) {
	out := renderString(t, Workspace(WorkspaceData{}))
	if !strings.Contains(out, "No formulas yet.") {
		t.Fatalf("expected empty state: %s", out)
	}

	out = renderString(t, Workspace(WorkspaceData{
		UserName: "Robin",
		Formulas: []FormulaSummary{{ID: "abc", Name: "Baguette", Version: 2, Hydration: "68.0%"}},
	}))
	for _, token := range []string{`href="/app/formulas/abc/sheet"`, "Baguette", "68.0%", "Signed in as Robin", `data-state="active"`} {
		if !strings.Contains(out, token) {
			t.Fatalf("expected workspace to contain %q: %s", token, out)
		}
	}
}
