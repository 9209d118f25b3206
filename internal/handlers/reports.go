package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"crumb/internal/aggregate"
	"crumb/internal/analysis"
	"crumb/internal/formatting"
	"crumb/internal/table"
	"crumb/internal/views/pages"
	"crumb/models"
)

var (
	errInvalidDisplayMode = errors.New("handlers: invalid display mode")
	errInvalidPrecision   = errors.New("handlers: invalid display precision")
)

type tableCell struct {
	table.Row
	Display string `json:"display"`
}

type tableBreakdown struct {
	Name        string      `json:"name"`
	Kind        string      `json:"kind"`
	Rows        []tableCell `json:"rows"`
	TotalWeight float64     `json:"total_weight"`
	Percentage  float64     `json:"percentage"`
	Hydration   float64     `json:"hydration"`
	Display     string      `json:"display"`
}

type tableResponse struct {
	FormulaID    uuid.UUID                 `json:"formula_id"`
	Version      int                       `json:"version"`
	Display      models.DisplayPreferences `json:"display"`
	Empty        bool                      `json:"empty"`
	TotalFlour   string                    `json:"total_flour"`
	TotalFormula []tableCell               `json:"total_formula"`
	FinalMix     []tableCell               `json:"final_mix"`
	Preferments  []tableBreakdown          `json:"preferments"`
	Soakers      []tableBreakdown          `json:"soakers"`
}

type analysisResponse struct {
	FormulaID uuid.UUID          `json:"formula_id"`
	Version   int                `json:"version"`
	Summary   aggregate.Summary  `json:"summary"`
	Findings  []analysis.Finding `json:"findings"`
	Worst     analysis.Severity  `json:"worst,omitempty"`
	Valid     bool               `json:"valid"`
}

// displayPreferences applies the optional mode and precision query
// overrides on top of the formula's stored preferences.
func displayPreferences(r *http.Request, stored models.DisplayPreferences) (models.DisplayPreferences, error) {
	prefs := stored
	query := r.URL.Query()
	if raw := strings.TrimSpace(query.Get("mode")); raw != "" {
		switch mode := models.DisplayMode(strings.ToLower(raw)); mode {
		case models.DisplayPercentage, models.DisplayWeight, models.DisplayBoth:
			prefs.Mode = mode
		default:
			return models.DisplayPreferences{}, errInvalidDisplayMode
		}
	}
	if raw := strings.TrimSpace(query.Get("precision")); raw != "" {
		precision, err := strconv.Atoi(raw)
		if err != nil || precision < 0 {
			return models.DisplayPreferences{}, errInvalidPrecision
		}
		prefs.Precision = precision
	}
	return prefs.Normalized(), nil
}

func formatRows(rows []table.Row, prefs models.DisplayPreferences) []tableCell {
	cells := make([]tableCell, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, tableCell{Row: row, Display: formatting.Cell(row.Weight, row.Percentage, prefs)})
	}
	return cells
}

func formatBreakdowns(breakdowns []table.Breakdown, prefs models.DisplayPreferences) []tableBreakdown {
	out := make([]tableBreakdown, 0, len(breakdowns))
	for _, bd := range breakdowns {
		out = append(out, tableBreakdown{
			Name:        bd.Name,
			Kind:        bd.Kind,
			Rows:        formatRows(bd.Rows, prefs),
			TotalWeight: bd.TotalWeight,
			Percentage:  bd.Percentage,
			Hydration:   bd.Hydration,
			Display:     formatting.Cell(bd.TotalWeight, bd.Percentage, prefs),
		})
	}
	return out
}

func buildTableResponse(f models.Formula, prefs models.DisplayPreferences) tableResponse {
	t := table.Build(f)
	return tableResponse{
		FormulaID:    f.ID,
		Version:      f.Version,
		Display:      prefs,
		Empty:        t.Empty(),
		TotalFlour:   formatting.Weight(t.TotalFlour, prefs.Precision),
		TotalFormula: formatRows(t.TotalFormula, prefs),
		FinalMix:     formatRows(t.FinalMix, prefs),
		Preferments:  formatBreakdowns(t.Preferments, prefs),
		Soakers:      formatBreakdowns(t.Soakers, prefs),
	}
}

// FormulaTable returns the baker's-percentage table of a formula with every
// cell rendered for display.
func FormulaTable(w http.ResponseWriter, r *http.Request) {
	_, f, ok := loadFormula(w, r)
	if !ok {
		return
	}

	prefs, err := displayPreferences(r, f.Display)
	if err != nil {
		switch {
		case errors.Is(err, errInvalidDisplayMode):
			writeJSONError(w, http.StatusBadRequest, `Display mode must be "percentage", "weight" or "both".`)
		default:
			writeJSONError(w, http.StatusBadRequest, "Display precision must be a non-negative integer.")
		}
		return
	}
	writeJSON(w, http.StatusOK, buildTableResponse(f, prefs))
}

// FormulaAnalysis returns the aggregate summary and the analysis findings of
// a formula.
func FormulaAnalysis(w http.ResponseWriter, r *http.Request) {
	_, f, ok := loadFormula(w, r)
	if !ok {
		return
	}

	findings := analysis.Analyze(f, thresholds)
	if findings == nil {
		findings = []analysis.Finding{}
	}
	writeJSON(w, http.StatusOK, analysisResponse{
		FormulaID: f.ID,
		Version:   f.Version,
		Summary:   aggregate.Summarize(f),
		Findings:  findings,
		Worst:     analysis.Worst(findings),
		Valid:     !analysis.HasErrors(findings),
	})
}

// BakeSheet renders the printable bake sheet of a formula.
func BakeSheet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		redirectToLogin(w, r)
		return
	}
	id, err := formulaIDParam(r)
	if err != nil {
		http.Error(w, "Invalid formula id.", http.StatusBadRequest)
		return
	}
	f, _, err := formulas.Latest(r.Context(), userID, id)
	if err != nil {
		writeStoreError(w, r, err, "load the formula")
		return
	}

	prefs, err := displayPreferences(r, f.Display)
	if err != nil {
		prefs = f.Display.Normalized()
	}
	renderComponent(w, r, pages.BakeSheet(buildBakeSheetData(f, prefs)))
}

func sheetRows(rows []table.Row, precision int) []pages.SheetRow {
	out := make([]pages.SheetRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, sheetRow(row.Label, row.Weight, row.Percentage, precision))
	}
	return out
}

func sheetRow(label string, weight, percentage float64, precision int) pages.SheetRow {
	return pages.SheetRow{
		Label:      label,
		Weight:     formatting.Weight(weight, precision),
		Percentage: formatting.Percent(percentage, precision),
	}
}

// mixAdditions picks the total-formula rows that go into the final mix as
// finished components: preferments, soakers, inclusions and enrichments.
func mixAdditions(rows []table.Row) []table.Row {
	var out []table.Row
	for _, row := range rows {
		switch row.Category {
		case table.CategoryFlour, table.CategoryWater, table.CategorySalt, table.CategoryYeast:
			continue
		}
		out = append(out, row)
	}
	return out
}

func buildBakeSheetData(f models.Formula, prefs models.DisplayPreferences) pages.BakeSheetData {
	now := nowFunc().UTC()
	p := prefs.Precision
	t := table.Build(f)
	summary := aggregate.Summarize(f)

	data := pages.BakeSheetData{
		FormulaName:    f.Name,
		FormulaVersion: f.Version,
		ShowWeight:     prefs.Mode != models.DisplayPercentage,
		ShowPercentage: prefs.Mode != models.DisplayWeight,
		Notes:          f.Notes,
		LotNumber:      pages.LotNumber(now, f.Version),
		PrintedAt:      now,
		Stats: []pages.SheetStat{
			{Label: "Total flour", Value: formatting.Weight(summary.TotalFlour, p)},
			{Label: "Hydration", Value: formatting.Percent(summary.Hydration, p)},
			{Label: "Salt", Value: formatting.Percent(summary.SaltPercentage, p)},
			{Label: "Prefermented flour", Value: formatting.Percent(summary.PrefermentedFlourPercentage, p)},
			{Label: "Dough weight", Value: formatting.Weight(summary.TotalWeight, p)},
		},
	}
	if f.Yield.Pieces > 0 {
		data.Yield = fmt.Sprintf("%d × %s", f.Yield.Pieces, formatting.Weight(f.Yield.WeightPerPiece, p))
	}

	for i, bd := range t.Preferments {
		detail := fmt.Sprintf("%s hydration", formatting.Percent(bd.Hydration, p))
		if i < len(f.Preferments) {
			pref := f.Preferments[i]
			detail = pref.Kind.Label() + " · " + detail
			if pref.BuildHours > 0 {
				detail += fmt.Sprintf(" · %s h", formatting.Number(pref.BuildHours, p))
			}
		}
		data.Sections = append(data.Sections, pages.SheetSection{
			Title:  bd.Name,
			Detail: detail,
			Rows:   sheetRows(bd.Rows, p),
			Total:  sheetRow("Total", bd.TotalWeight, bd.Percentage, p),
		})
	}
	for _, bd := range t.Soakers {
		data.Sections = append(data.Sections, pages.SheetSection{
			Title:  bd.Name,
			Detail: fmt.Sprintf("%s hydration", formatting.Percent(bd.Hydration, p)),
			Rows:   sheetRows(bd.Rows, p),
			Total:  sheetRow("Total", bd.TotalWeight, bd.Percentage, p),
		})
	}
	if !t.Empty() {
		finalRows := append(append([]table.Row(nil), t.FinalMix...), mixAdditions(t.TotalFormula)...)
		finalWeight := 0.0
		for _, row := range finalRows {
			finalWeight += row.Weight
		}
		finalMix := pages.SheetSection{
			Title: "Final mix",
			Rows:  sheetRows(finalRows, p),
			Total: sheetRow("Total", finalWeight, table.Sum(finalRows), p),
		}
		if method := f.FinalMix.MixMethod; method != models.MixUnassigned {
			finalMix.Detail = "Mix: " + strings.ReplaceAll(string(method), "_", " ")
		}
		data.Sections = append(data.Sections, finalMix)
		data.Sections = append(data.Sections, pages.SheetSection{
			Title:  "Total formula",
			Detail: "Flour, water, salt and yeast include what the preferments and soakers carry.",
			Rows:   sheetRows(t.TotalFormula, p),
		})
	}

	for _, finding := range analysis.Analyze(f, thresholds) {
		data.Findings = append(data.Findings, pages.SheetFinding{
			Severity: string(finding.Severity),
			Message:  finding.Message,
		})
	}
	return data
}
