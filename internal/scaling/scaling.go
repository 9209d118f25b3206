// Package scaling rescales formulas by a single multiplicative factor.
//
// Every entry point returns a new, fully independent Formula and never
// modifies its input. Degenerate inputs (an insignificant total weight, a
// stale identifier, a non-positive target) produce an unchanged copy instead
// of an error.
package scaling

import (
	"math"
	"time"

	"github.com/google/uuid"

	"crumb/internal/aggregate"
	"crumb/models"
)

var nowFunc = time.Now

// ApplyFactor multiplies every weight-bearing leaf of f by factor. Ratios
// (starter hydration), names, kinds, stages, hours and temperatures are left
// untouched. The result carries the next version and a fresh LastModified.
func ApplyFactor(f models.Formula, factor float64) models.Formula {
	out := f.Clone()
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return out
	}

	for i := range out.Preferments {
		p := &out.Preferments[i]
		p.Flour *= factor
		p.Water *= factor
		p.Yeast *= factor
		if p.Starter != nil {
			p.Starter.Weight *= factor
		}
	}

	for i := range out.Soakers {
		s := &out.Soakers[i]
		for j := range s.Grains {
			s.Grains[j].Weight *= factor
		}
		s.Water *= factor
		s.Salt *= factor
	}

	m := &out.FinalMix
	for i := range m.Flours {
		m.Flours[i].Weight *= factor
	}
	m.Water *= factor
	m.Salt *= factor
	m.Yeast *= factor
	for i := range m.Inclusions {
		m.Inclusions[i].Weight *= factor
	}
	for i := range m.Enrichments {
		m.Enrichments[i].Weight *= factor
	}

	out.Yield.WeightPerPiece *= factor
	stamp(&out, f.Version)
	return out
}

func stamp(f *models.Formula, previous int) {
	f.Version = previous + 1
	f.LastModified = nowFunc().UTC()
}

// ScaleByYield rescales f so the dough weighs pieces × weightPerPiece. The
// requested yield is stored exactly rather than derived from the factor.
func ScaleByYield(f models.Formula, pieces int, weightPerPiece float64) models.Formula {
	current := aggregate.TotalWeight(f)
	if !aggregate.Significant(current) || pieces <= 0 || weightPerPiece <= 0 {
		return f.Clone()
	}

	target := float64(pieces) * weightPerPiece
	out := ApplyFactor(f, target/current)
	out.Yield = models.Yield{Pieces: pieces, WeightPerPiece: weightPerPiece}
	return out
}

// ScaleByIngredient rescales f so the quantity named by id weighs target.
// The piece count is held; weight per piece follows the new total.
func ScaleByIngredient(f models.Formula, id models.Identifier, target float64) models.Formula {
	current := ResolveWeight(id, f)
	if !aggregate.Significant(current) || target <= 0 {
		return f.Clone()
	}

	out := ApplyFactor(f, target/current)
	pin(&out, id, target)

	pieces := f.Yield.Pieces
	if pieces <= 0 {
		pieces = 1
	}
	out.Yield = models.Yield{
		Pieces:         pieces,
		WeightPerPiece: aggregate.TotalWeight(out) / float64(pieces),
	}
	return out
}

// pin writes target into the leaf named by id so the requested weight is
// exact. Composite identifiers (whole preferments and soakers) are left as
// scaled.
func pin(f *models.Formula, id models.Identifier, target float64) {
	switch v := id.(type) {
	case models.FinalFlour:
		for i := range f.FinalMix.Flours {
			if f.FinalMix.Flours[i].ID == v.ID {
				f.FinalMix.Flours[i].Weight = target
				return
			}
		}
	case models.FinalWater:
		f.FinalMix.Water = target
	case models.FinalSalt:
		f.FinalMix.Salt = target
	case models.FinalYeast:
		f.FinalMix.Yeast = target
	case models.PrefermentFlour:
		if p := findPreferment(f, v.ID); p != nil {
			p.Flour = target
		}
	case models.PrefermentWater:
		if p := findPreferment(f, v.ID); p != nil {
			p.Water = target
		}
	case models.InclusionRef:
		for i := range f.FinalMix.Inclusions {
			if f.FinalMix.Inclusions[i].ID == v.ID {
				f.FinalMix.Inclusions[i].Weight = target
				return
			}
		}
	case models.EnrichmentRef:
		for i := range f.FinalMix.Enrichments {
			if f.FinalMix.Enrichments[i].ID == v.ID {
				f.FinalMix.Enrichments[i].Weight = target
				return
			}
		}
	}
}

func findPreferment(f *models.Formula, id uuid.UUID) *models.Preferment {
	for i := range f.Preferments {
		if f.Preferments[i].ID == id {
			return &f.Preferments[i]
		}
	}
	return nil
}
