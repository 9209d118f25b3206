// Package aggregate computes formula-wide totals and baker's-percentage ratios.
//
// Every function is pure and O(n) in the number of ingredients. Nothing is
// rounded here; rounding is a display concern handled by internal/formatting.
package aggregate

import (
	"math"

	"crumb/models"
)

// Significant reports whether x is distinguishable from zero, tolerating the
// floating-point noise left behind by repeated scaling.
func Significant(x float64) bool {
	return math.Abs(x) > epsilon
}

// epsilon is the machine epsilon for float64.
const epsilon = 2.220446049250313e-16

// PercentOfFlour expresses part as a percentage of flour, or 0 when flour is
// not significant.
func PercentOfFlour(part, flour float64) float64 {
	if !Significant(flour) {
		return 0
	}
	return part * 100 / flour
}

// TotalFlour sums final-mix flours and every preferment's flour, including the
// flour carried by starters. Soaker grains never count as flour.
func TotalFlour(f models.Formula) float64 {
	total := f.FinalMix.TotalFlour()
	for _, p := range f.Preferments {
		total += p.TotalFlour()
	}
	return total
}

// TotalWater sums final-mix water, preferment water including starter water,
// and soaker water.
func TotalWater(f models.Formula) float64 {
	total := f.FinalMix.Water
	for _, p := range f.Preferments {
		total += p.TotalWater()
	}
	for _, s := range f.Soakers {
		total += s.Water
	}
	return total
}

// TotalSalt sums final-mix and soaker salt. Preferments carry no salt.
func TotalSalt(f models.Formula) float64 {
	total := f.FinalMix.Salt
	for _, s := range f.Soakers {
		total += s.Salt
	}
	return total
}

// TotalYeast sums commercial yeast from the final mix and every preferment.
func TotalYeast(f models.Formula) float64 {
	total := f.FinalMix.Yeast
	for _, p := range f.Preferments {
		total += p.Yeast
	}
	return total
}

// TotalWeight is the dough weight: final mix plus every preferment and soaker.
func TotalWeight(f models.Formula) float64 {
	total := f.FinalMix.TotalWeight()
	for _, p := range f.Preferments {
		total += p.TotalWeight()
	}
	for _, s := range f.Soakers {
		total += s.TotalWeight()
	}
	return total
}

// PrefermentedFlour is the flour that went through some preferment.
func PrefermentedFlour(f models.Formula) float64 {
	total := 0.0
	for _, p := range f.Preferments {
		total += p.TotalFlour()
	}
	return total
}

func Hydration(f models.Formula) float64 {
	return PercentOfFlour(TotalWater(f), TotalFlour(f))
}

func SaltPercentage(f models.Formula) float64 {
	return PercentOfFlour(TotalSalt(f), TotalFlour(f))
}

func YeastPercentage(f models.Formula) float64 {
	return PercentOfFlour(TotalYeast(f), TotalFlour(f))
}

func PrefermentedFlourPercentage(f models.Formula) float64 {
	return PercentOfFlour(PrefermentedFlour(f), TotalFlour(f))
}

// Summary gathers every aggregate metric of a formula.
type Summary struct {
	TotalFlour                  float64 `json:"total_flour"`
	TotalWater                  float64 `json:"total_water"`
	TotalSalt                   float64 `json:"total_salt"`
	TotalYeast                  float64 `json:"total_yeast"`
	TotalWeight                 float64 `json:"total_weight"`
	PrefermentedFlour           float64 `json:"prefermented_flour"`
	Hydration                   float64 `json:"hydration"`
	SaltPercentage              float64 `json:"salt_percentage"`
	YeastPercentage             float64 `json:"yeast_percentage"`
	PrefermentedFlourPercentage float64 `json:"prefermented_flour_percentage"`
}

// Summarize computes all metrics in a single pass over the totals.
func Summarize(f models.Formula) Summary {
	flour := TotalFlour(f)
	water := TotalWater(f)
	salt := TotalSalt(f)
	yeast := TotalYeast(f)
	prefermented := PrefermentedFlour(f)
	return Summary{
		TotalFlour:                  flour,
		TotalWater:                  water,
		TotalSalt:                   salt,
		TotalYeast:                  yeast,
		TotalWeight:                 TotalWeight(f),
		PrefermentedFlour:           prefermented,
		Hydration:                   PercentOfFlour(water, flour),
		SaltPercentage:              PercentOfFlour(salt, flour),
		YeastPercentage:             PercentOfFlour(yeast, flour),
		PrefermentedFlourPercentage: PercentOfFlour(prefermented, flour),
	}
}
