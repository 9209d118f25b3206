package models

import (
	"strings"

	"github.com/google/uuid"
)

// PrefermentKind enumerates the supported preferment styles.
type PrefermentKind string

const (
	Poolish       PrefermentKind = "poolish"
	Biga          PrefermentKind = "biga"
	Levain        PrefermentKind = "levain"
	PateFermentee PrefermentKind = "pate_fermentee"
	Sponge        PrefermentKind = "sponge"
)

var prefermentLabels = map[PrefermentKind]string{
	Poolish:       "Poolish",
	Biga:          "Biga",
	Levain:        "Levain",
	PateFermentee: "Pâte Fermentée",
	Sponge:        "Sponge",
}

// PrefermentKinds lists every kind in display order.
func PrefermentKinds() []PrefermentKind {
	return []PrefermentKind{Poolish, Biga, Levain, PateFermentee, Sponge}
}

// Label returns the human readable name of the kind.
func (k PrefermentKind) Label() string {
	if label, ok := prefermentLabels[k]; ok {
		return label
	}
	return string(k)
}

// Valid reports whether k is a known kind.
func (k PrefermentKind) Valid() bool {
	_, ok := prefermentLabels[k]
	return ok
}

// ParsePrefermentKind maps free text such as "Pâte fermentée" or "pate-fermentee"
// onto a kind.
func ParsePrefermentKind(value string) (PrefermentKind, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("â", "a", "é", "e", "-", "_", " ", "_").Replace(normalized)
	kind := PrefermentKind(normalized)
	return kind, kind.Valid()
}

// Starter is a sourdough culture added to a preferment. Its own hydration may
// differ from the preferment's apparent hydration.
type Starter struct {
	Weight    float64 `json:"weight"`
	Hydration float64 `json:"hydration"`
}

// FlourContribution is the flour share of the starter weight.
func (s Starter) FlourContribution() float64 {
	return s.Weight / (1 + s.Hydration/100)
}

// WaterContribution is the water share of the starter weight.
func (s Starter) WaterContribution() float64 {
	return s.Weight - s.FlourContribution()
}

// Preferment is a portion of dough fermented ahead of the final mix.
type Preferment struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Kind        PrefermentKind `json:"kind"`
	Flour       float64        `json:"flour"`
	Water       float64        `json:"water"`
	Starter     *Starter       `json:"starter,omitempty"`
	Yeast       float64        `json:"yeast,omitempty"`
	BuildHours  float64        `json:"build_hours"`
	Temperature float64        `json:"temperature"`
}

// Hydration is the apparent hydration, water over flour, ignoring the starter.
func (p Preferment) Hydration() float64 {
	if p.Flour == 0 {
		return 0
	}
	return p.Water / p.Flour * 100
}

// StarterWeight returns the starter weight or 0 when none is present.
func (p Preferment) StarterWeight() float64 {
	if p.Starter == nil {
		return 0
	}
	return p.Starter.Weight
}

// HasStarter reports whether the preferment carries a non-empty starter.
func (p Preferment) HasStarter() bool {
	return p.Starter != nil && p.Starter.Weight > 0
}

// TotalFlour includes the flour carried by the starter.
func (p Preferment) TotalFlour() float64 {
	if p.Starter == nil {
		return p.Flour
	}
	return p.Flour + p.Starter.FlourContribution()
}

// TotalWater includes the water carried by the starter.
func (p Preferment) TotalWater() float64 {
	if p.Starter == nil {
		return p.Water
	}
	return p.Water + p.Starter.WaterContribution()
}

func (p Preferment) TotalWeight() float64 {
	return p.Flour + p.Water + p.StarterWeight() + p.Yeast
}

// DisplayName falls back to the kind label when the preferment is unnamed.
func (p Preferment) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return p.Kind.Label()
}

func (p Preferment) Clone() Preferment {
	out := p
	if p.Starter != nil {
		starter := *p.Starter
		out.Starter = &starter
	}
	return out
}
