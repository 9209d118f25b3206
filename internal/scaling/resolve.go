package scaling

import (
	"fmt"

	"crumb/models"
)

// ResolveWeight returns the current weight of the quantity named by id. A
// stale identifier resolves to 0 so dependent scaling degrades to a no-op.
func ResolveWeight(id models.Identifier, f models.Formula) float64 {
	switch v := id.(type) {
	case nil:
		return 0
	case models.FinalFlour:
		for _, fl := range f.FinalMix.Flours {
			if fl.ID == v.ID {
				return fl.Weight
			}
		}
		return 0
	case models.FinalWater:
		return f.FinalMix.Water
	case models.FinalSalt:
		return f.FinalMix.Salt
	case models.FinalYeast:
		return f.FinalMix.Yeast
	case models.PrefermentTotal:
		if p, ok := f.Preferment(v.ID); ok {
			return p.TotalWeight()
		}
		return 0
	case models.PrefermentFlour:
		if p, ok := f.Preferment(v.ID); ok {
			return p.Flour
		}
		return 0
	case models.PrefermentWater:
		if p, ok := f.Preferment(v.ID); ok {
			return p.Water
		}
		return 0
	case models.SoakerTotal:
		if s, ok := f.Soaker(v.ID); ok {
			return s.TotalWeight()
		}
		return 0
	case models.InclusionRef:
		for _, inc := range f.FinalMix.Inclusions {
			if inc.ID == v.ID {
				return inc.Weight
			}
		}
		return 0
	case models.EnrichmentRef:
		for _, e := range f.FinalMix.Enrichments {
			if e.ID == v.ID {
				return e.Weight
			}
		}
		return 0
	default:
		panic(fmt.Sprintf("scaling: unhandled identifier %T", id))
	}
}

// Measurement is one observed weight for an ingredient.
type Measurement struct {
	Identifier models.Identifier
	Actual     float64
}

// MisweighReference records what a correction was based on.
type MisweighReference struct {
	Ingredient models.IdentifierRef `json:"ingredient"`
	Expected   float64              `json:"expected"`
	Actual     float64              `json:"actual"`
	Delta      float64              `json:"delta"`
}

// CorrectMisweigh rescales f around the first measurement so that everything
// else matches what actually went into the bowl. Only the first measurement
// drives the factor; the rest are ignored. Without measurements f is
// returned unchanged with a zero reference.
func CorrectMisweigh(f models.Formula, measurements ...Measurement) (models.Formula, MisweighReference) {
	if len(measurements) == 0 || measurements[0].Identifier == nil {
		return f.Clone(), MisweighReference{}
	}

	m := measurements[0]
	expected := ResolveWeight(m.Identifier, f)
	ref := MisweighReference{
		Ingredient: models.RefOf(m.Identifier),
		Expected:   expected,
		Actual:     m.Actual,
		Delta:      m.Actual - expected,
	}
	return ScaleByIngredient(f, m.Identifier, m.Actual), ref
}
