// Package analysis classifies a formula's derived metrics into findings.
//
// Critical checks run first. When any of them reports an error the remaining
// rule groups are skipped so a broken formula does not produce a cascade of
// meaningless banding findings.
package analysis

import (
	"fmt"

	"crumb/internal/aggregate"
	"crumb/models"
)

// Severity grades a finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Category groups findings by the part of the formula they concern.
type Category string

const (
	CategoryFlour        Category = "flour"
	CategoryWater        Category = "water"
	CategoryLeavening    Category = "leavening"
	CategoryHydration    Category = "hydration"
	CategorySalt         Category = "salt"
	CategoryPrefermented Category = "prefermented_flour"
	CategoryYeast        Category = "yeast"
	CategoryPreferment   Category = "preferment"
	CategorySoaker       Category = "soaker"
	CategoryInclusion    Category = "inclusion"
	CategoryEnrichment   Category = "enrichment"
)

// Finding is one observation about a formula. Value carries the measured
// metric when there is one.
type Finding struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Value    *float64 `json:"value,omitempty"`
}

// Worst returns the highest severity among findings, or "" when there are
// none.
func Worst(findings []Finding) Severity {
	var worst Severity
	for _, f := range findings {
		if f.Severity.rank() > worst.rank() {
			worst = f.Severity
		}
	}
	return worst
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	return Worst(findings) == SeverityError
}

// Validate analyzes f with the default thresholds.
func Validate(f models.Formula) []Finding {
	return Analyze(f, DefaultThresholds())
}

// Analyze evaluates every rule group against f in a fixed order.
func Analyze(f models.Formula, th Thresholds) []Finding {
	a := analyzer{th: th, summary: aggregate.Summarize(f)}

	a.critical(f)
	if HasErrors(a.findings) {
		return a.findings
	}

	a.hydration()
	a.salt()
	a.prefermented()
	a.yeast(f)
	for _, p := range f.Preferments {
		a.preferment(p)
	}
	for _, s := range f.Soakers {
		a.soaker(s)
	}
	a.additions(f.FinalMix)
	return a.findings
}

type analyzer struct {
	th       Thresholds
	summary  aggregate.Summary
	findings []Finding
}

func (a *analyzer) add(severity Severity, category Category, value *float64, format string, args ...any) {
	a.findings = append(a.findings, Finding{
		Severity: severity,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Value:    value,
	})
}

func ptr(v float64) *float64 {
	return &v
}

func (a *analyzer) critical(f models.Formula) {
	if !aggregate.Significant(a.summary.TotalFlour) {
		a.add(SeverityError, CategoryFlour, nil, "Formula has no flour; baker's percentages cannot be computed")
	}
	if !aggregate.Significant(a.summary.TotalWater) {
		a.add(SeverityError, CategoryWater, nil, "Formula has no water")
	}
	if a.summary.TotalYeast <= 0 && !f.HasStarter() {
		a.add(SeverityWarning, CategoryLeavening, nil, "Formula has no commercial yeast and no starter")
	}
}

func (a *analyzer) hydration() {
	h := a.summary.Hydration
	switch {
	case h < a.th.HydrationErrorLow:
		a.add(SeverityError, CategoryHydration, ptr(h), "Hydration %.1f%% is too low to form a workable dough", h)
	case h < a.th.HydrationWarningLow:
		a.add(SeverityWarning, CategoryHydration, ptr(h), "Hydration %.1f%% is very stiff", h)
	case h >= a.th.HydrationErrorHigh:
		a.add(SeverityError, CategoryHydration, ptr(h), "Hydration %.1f%% is closer to a batter than a dough", h)
	case h > a.th.HydrationWarningHigh:
		a.add(SeverityWarning, CategoryHydration, ptr(h), "Hydration %.1f%% is very slack and will be hard to shape", h)
	}
}

func (a *analyzer) salt() {
	s := a.summary.SaltPercentage
	switch {
	case !aggregate.Significant(s):
		a.add(SeverityError, CategorySalt, ptr(s), "Formula has no salt")
	case s < a.th.SaltWarningLow:
		a.add(SeverityWarning, CategorySalt, ptr(s), "Salt %.2f%% is low; expect a bland, fast-fermenting dough", s)
	case s >= a.th.SaltWarningHigh:
		a.add(SeverityWarning, CategorySalt, ptr(s), "Salt %.2f%% is high and will slow fermentation noticeably", s)
	case s < a.th.SaltInfoLow:
		a.add(SeverityInfo, CategorySalt, ptr(s), "Salt %.2f%% is on the low side", s)
	case s > a.th.SaltInfoHigh:
		a.add(SeverityInfo, CategorySalt, ptr(s), "Salt %.2f%% is on the high side", s)
	}
}

func (a *analyzer) prefermented() {
	p := a.summary.PrefermentedFlourPercentage
	switch {
	case p >= a.th.PrefermentedWarning:
		a.add(SeverityWarning, CategoryPrefermented, ptr(p), "%.1f%% of the flour is prefermented; the dough may be weak and acidic", p)
	case p >= a.th.PrefermentedInfo:
		a.add(SeverityInfo, CategoryPrefermented, ptr(p), "%.1f%% of the flour is prefermented", p)
	}
}

func (a *analyzer) yeast(f models.Formula) {
	y := a.summary.YeastPercentage
	switch {
	case y >= a.th.YeastWarningHigh:
		a.add(SeverityWarning, CategoryYeast, ptr(y), "Yeast %.2f%% is high; fermentation will be very fast", y)
	case a.summary.TotalYeast > 0 && y < a.th.YeastInfoLow && !f.HasStarter():
		a.add(SeverityInfo, CategoryYeast, ptr(y), "Yeast %.2f%% is low; plan for a long fermentation", y)
	}
}

func (a *analyzer) preferment(p models.Preferment) {
	name := p.DisplayName()
	if band, ok := a.th.PrefermentHydration[p.Kind]; ok && aggregate.Significant(p.Flour) {
		if h := p.Hydration(); !band.Contains(h) {
			a.add(SeverityInfo, CategoryPreferment, ptr(h),
				"%s hydration %.0f%% is outside the usual %.0f-%.0f%% for a %s",
				name, h, band.Min, band.Max, p.Kind.Label())
		}
	}
	switch {
	case p.BuildHours < a.th.BuildHoursMin:
		a.add(SeverityWarning, CategoryPreferment, ptr(p.BuildHours), "%s ferments for only %.1f hours", name, p.BuildHours)
	case p.BuildHours > a.th.BuildHoursMax:
		a.add(SeverityInfo, CategoryPreferment, ptr(p.BuildHours), "%s ferments for %.1f hours and may overproof", name, p.BuildHours)
	}
}

func (a *analyzer) soaker(s models.Soaker) {
	name := s.DisplayName()
	if len(s.Grains) > 0 {
		h := s.Hydration()
		switch {
		case h < a.th.SoakerHydrationMin:
			a.add(SeverityWarning, CategorySoaker, ptr(h), "%s hydration %.0f%% is too low; grains will pull water from the dough", name, h)
		case h > a.th.SoakerHydrationMax:
			a.add(SeverityInfo, CategorySoaker, ptr(h), "%s hydration %.0f%% leaves free water in the soaker", name, h)
		}
	}
	if s.SoakHours < a.th.SoakHoursMin && !s.BoilingWater {
		a.add(SeverityWarning, CategorySoaker, ptr(s.SoakHours), "%s soaks for only %.1f hours in cold water", name, s.SoakHours)
	}
}

func (a *analyzer) additions(m models.FinalMix) {
	flour := a.summary.TotalFlour
	if pct := aggregate.PercentOfFlour(m.TotalInclusions(), flour); pct > a.th.InclusionMax {
		a.add(SeverityWarning, CategoryInclusion, ptr(pct), "Inclusions are %.1f%% of flour and may tear the gluten network", pct)
	}
	if pct := aggregate.PercentOfFlour(m.TotalEnrichments(), flour); pct > a.th.EnrichmentMax {
		a.add(SeverityInfo, CategoryEnrichment, ptr(pct), "Enrichments are %.1f%% of flour; expect a slower rise", pct)
	}
}
