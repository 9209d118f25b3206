package models

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Grain is one seed or grain hydrated by a soaker.
type Grain struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Weight float64   `json:"weight"`
}

// Soaker hydrates grains and seeds ahead of the final mix. It contributes
// water to the formula but never flour.
type Soaker struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Grains       []Grain   `json:"grains"`
	Water        float64   `json:"water"`
	Salt         float64   `json:"salt,omitempty"`
	SoakHours    float64   `json:"soak_hours"`
	Temperature  float64   `json:"temperature"`
	BoilingWater bool      `json:"boiling_water"`
}

func (s Soaker) TotalGrainWeight() float64 {
	total := 0.0
	for _, g := range s.Grains {
		total += g.Weight
	}
	return total
}

func (s Soaker) TotalWeight() float64 {
	return s.TotalGrainWeight() + s.Water + s.Salt
}

// Hydration is water over grain weight, 0 when the soaker has no grains.
func (s Soaker) Hydration() float64 {
	grains := s.TotalGrainWeight()
	if grains == 0 {
		return 0
	}
	return s.Water / grains * 100
}

func (s Soaker) DisplayName() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return "Soaker"
}

func (s Soaker) Clone() Soaker {
	out := s
	if s.Grains != nil {
		out.Grains = slices.Clone(s.Grains)
	}
	return out
}
