// Package table builds baker's-percentage tables from a formula.
package table

import (
	"strings"

	"crumb/internal/aggregate"
	"crumb/models"
)

// Category classifies a table row for presentation.
type Category string

const (
	CategoryFlour      Category = "flour"
	CategoryWater      Category = "water"
	CategorySalt       Category = "salt"
	CategoryYeast      Category = "yeast"
	CategoryStarter    Category = "starter"
	CategoryPreferment Category = "preferment"
	CategorySoaker     Category = "soaker"
	CategoryGrain      Category = "grain"
	CategoryInclusion  Category = "inclusion"
	CategoryFat        Category = "fat"
	CategorySweetener  Category = "sweetener"
	CategoryDairy      Category = "dairy"
	CategoryEgg        Category = "egg"
	CategoryOther      Category = "other"
)

// CategoryForEnrichment maps an enrichment kind onto its table category.
func CategoryForEnrichment(kind models.EnrichmentKind) Category {
	switch kind {
	case models.EnrichmentFat:
		return CategoryFat
	case models.EnrichmentSweetener:
		return CategorySweetener
	case models.EnrichmentDairy:
		return CategoryDairy
	case models.EnrichmentEgg:
		return CategoryEgg
	default:
		return CategoryOther
	}
}

// Row is one line of a percentage table. Ref is set when the row maps onto a
// single quantity that the scaling engine can resolve.
type Row struct {
	Label      string                `json:"label"`
	Weight     float64               `json:"weight"`
	Percentage float64               `json:"percentage"`
	Category   Category              `json:"category"`
	Ref        *models.IdentifierRef `json:"ref,omitempty"`
}

// Breakdown expands a preferment or soaker into its own rows.
type Breakdown struct {
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	Rows        []Row   `json:"rows"`
	TotalWeight float64 `json:"total_weight"`
	Percentage  float64 `json:"percentage"`
	Hydration   float64 `json:"hydration"`
}

// Table is the categorized percentage view of a formula.
type Table struct {
	TotalFlour   float64     `json:"total_flour"`
	TotalFormula []Row       `json:"total_formula"`
	FinalMix     []Row       `json:"final_mix"`
	Preferments  []Breakdown `json:"preferments"`
	Soakers      []Breakdown `json:"soakers"`
}

// Empty reports whether the table carries no rows at all.
func (t Table) Empty() bool {
	return len(t.TotalFormula) == 0 && len(t.FinalMix) == 0 && len(t.Preferments) == 0 && len(t.Soakers) == 0
}

// Build produces the percentage table for f. Every percentage, including the
// ones inside preferment and soaker breakdowns, uses the formula-wide total
// flour as its base. A formula without significant flour yields an empty table.
func Build(f models.Formula) Table {
	flour := aggregate.TotalFlour(f)
	if !aggregate.Significant(flour) {
		return Table{}
	}

	b := builder{flour: flour}
	return Table{
		TotalFlour:   flour,
		TotalFormula: b.totalFormula(f),
		FinalMix:     b.finalMix(f.FinalMix),
		Preferments:  b.preferments(f.Preferments),
		Soakers:      b.soakers(f.Soakers),
	}
}

type builder struct {
	flour float64
}

func (b builder) row(label string, weight float64, category Category, ref *models.IdentifierRef) Row {
	return Row{
		Label:      label,
		Weight:     weight,
		Percentage: aggregate.PercentOfFlour(weight, b.flour),
		Category:   category,
		Ref:        ref,
	}
}

func refTo(id models.Identifier) *models.IdentifierRef {
	ref := models.RefOf(id)
	return &ref
}

func (b builder) totalFormula(f models.Formula) []Row {
	rows := make([]Row, 0, 4+len(f.Preferments)+len(f.Soakers)+len(f.FinalMix.Inclusions)+len(f.FinalMix.Enrichments))

	rows = append(rows, b.flourTypes(f.FinalMix.Flours)...)
	rows = append(rows, b.row("Water", aggregate.TotalWater(f), CategoryWater, nil))
	if salt := aggregate.TotalSalt(f); salt > 0 {
		rows = append(rows, b.row("Salt", salt, CategorySalt, nil))
	}
	if yeast := aggregate.TotalYeast(f); yeast > 0 {
		rows = append(rows, b.row("Yeast", yeast, CategoryYeast, nil))
	}
	for _, p := range f.Preferments {
		rows = append(rows, b.row(p.DisplayName(), p.TotalWeight(), CategoryPreferment, refTo(models.PrefermentTotal{ID: p.ID})))
	}
	for _, s := range f.Soakers {
		rows = append(rows, b.row(s.DisplayName(), s.TotalWeight(), CategorySoaker, refTo(models.SoakerTotal{ID: s.ID})))
	}
	for _, inc := range f.FinalMix.Inclusions {
		rows = append(rows, b.row(inc.Name, inc.Weight, CategoryInclusion, refTo(models.InclusionRef{ID: inc.ID})))
	}
	for _, e := range f.FinalMix.Enrichments {
		rows = append(rows, b.row(e.Name, e.Weight, CategoryForEnrichment(e.Kind), refTo(models.EnrichmentRef{ID: e.ID})))
	}
	return rows
}

// flourTypes sums final-mix flours by type, keeping first-seen order. Type
// names compare case-insensitively.
func (b builder) flourTypes(flours []models.Flour) []Row {
	type group struct {
		label  string
		weight float64
		flours []models.Flour
	}
	order := make([]string, 0, len(flours))
	groups := make(map[string]*group, len(flours))
	for _, fl := range flours {
		label := flourLabel(fl.Type)
		key := strings.ToLower(label)
		g, ok := groups[key]
		if !ok {
			g = &group{label: label}
			groups[key] = g
			order = append(order, key)
		}
		g.weight += fl.Weight
		g.flours = append(g.flours, fl)
	}

	rows := make([]Row, 0, len(order))
	for _, key := range order {
		g := groups[key]
		var ref *models.IdentifierRef
		if len(g.flours) == 1 {
			ref = refTo(models.FinalFlour{ID: g.flours[0].ID})
		}
		rows = append(rows, b.row(g.label, g.weight, CategoryFlour, ref))
	}
	return rows
}

func flourLabel(value string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return "Flour"
}

func (b builder) finalMix(m models.FinalMix) []Row {
	rows := make([]Row, 0, len(m.Flours)+3)
	for _, fl := range m.Flours {
		rows = append(rows, b.row(flourLabel(fl.Type), fl.Weight, CategoryFlour, refTo(models.FinalFlour{ID: fl.ID})))
	}
	rows = append(rows, b.row("Water", m.Water, CategoryWater, refTo(models.FinalWater{})))
	if m.Salt > 0 {
		rows = append(rows, b.row("Salt", m.Salt, CategorySalt, refTo(models.FinalSalt{})))
	}
	if m.Yeast > 0 {
		rows = append(rows, b.row("Yeast", m.Yeast, CategoryYeast, refTo(models.FinalYeast{})))
	}
	return rows
}

func (b builder) preferments(preferments []models.Preferment) []Breakdown {
	out := make([]Breakdown, 0, len(preferments))
	for _, p := range preferments {
		rows := []Row{
			b.row("Flour", p.Flour, CategoryFlour, refTo(models.PrefermentFlour{ID: p.ID})),
			b.row("Water", p.Water, CategoryWater, refTo(models.PrefermentWater{ID: p.ID})),
		}
		if p.HasStarter() {
			rows = append(rows, b.row("Starter", p.Starter.Weight, CategoryStarter, nil))
		}
		if p.Yeast > 0 {
			rows = append(rows, b.row("Yeast", p.Yeast, CategoryYeast, nil))
		}
		out = append(out, Breakdown{
			Name:        p.DisplayName(),
			Kind:        string(p.Kind),
			Rows:        rows,
			TotalWeight: p.TotalWeight(),
			Percentage:  aggregate.PercentOfFlour(p.TotalWeight(), b.flour),
			Hydration:   p.Hydration(),
		})
	}
	return out
}

func (b builder) soakers(soakers []models.Soaker) []Breakdown {
	out := make([]Breakdown, 0, len(soakers))
	for _, s := range soakers {
		rows := make([]Row, 0, len(s.Grains)+2)
		for _, g := range s.Grains {
			rows = append(rows, b.row(g.Name, g.Weight, CategoryGrain, nil))
		}
		rows = append(rows, b.row("Water", s.Water, CategoryWater, nil))
		if s.Salt > 0 {
			rows = append(rows, b.row("Salt", s.Salt, CategorySalt, nil))
		}
		out = append(out, Breakdown{
			Name:        s.DisplayName(),
			Kind:        "soaker",
			Rows:        rows,
			TotalWeight: s.TotalWeight(),
			Percentage:  aggregate.PercentOfFlour(s.TotalWeight(), b.flour),
			Hydration:   s.Hydration(),
		})
	}
	return out
}

// Sum adds up the percentages of rows.
func Sum(rows []Row) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.Percentage
	}
	return total
}
