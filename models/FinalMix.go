package models

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// AdditionStage is the point of the process where an inclusion is added.
type AdditionStage string

const (
	StageMix        AdditionStage = "mix"
	StageLamination AdditionStage = "lamination"
	StageBulk       AdditionStage = "bulk"
	StageShaping    AdditionStage = "shaping"
	StageTopping    AdditionStage = "topping"
)

// ParseAdditionStage maps free text onto a stage, defaulting to StageMix.
func ParseAdditionStage(value string) AdditionStage {
	switch stage := AdditionStage(strings.ToLower(strings.TrimSpace(value))); stage {
	case StageMix, StageLamination, StageBulk, StageShaping, StageTopping:
		return stage
	default:
		return StageMix
	}
}

// EnrichmentKind classifies enrichments for percentage tables.
type EnrichmentKind string

const (
	EnrichmentFat       EnrichmentKind = "fat"
	EnrichmentSweetener EnrichmentKind = "sweetener"
	EnrichmentDairy     EnrichmentKind = "dairy"
	EnrichmentEgg       EnrichmentKind = "egg"
	EnrichmentOther     EnrichmentKind = "other"
)

// ParseEnrichmentKind maps free text onto a kind, defaulting to EnrichmentOther.
func ParseEnrichmentKind(value string) EnrichmentKind {
	switch kind := EnrichmentKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case EnrichmentFat, EnrichmentSweetener, EnrichmentDairy, EnrichmentEgg:
		return kind
	case "eggs":
		return EnrichmentEgg
	case "sugar", "honey", "malt":
		return EnrichmentSweetener
	case "butter", "oil":
		return EnrichmentFat
	case "milk":
		return EnrichmentDairy
	default:
		return EnrichmentOther
	}
}

// MixMethod describes how the final dough is mixed.
type MixMethod string

const (
	MixHand       MixMethod = "hand"
	MixStand      MixMethod = "stand_mixer"
	MixSpiral     MixMethod = "spiral"
	MixNoKnead    MixMethod = "no_knead"
	MixUnassigned MixMethod = ""
)

// Flour is one flour type in the final mix. Several types may be combined.
type Flour struct {
	ID     uuid.UUID `json:"id"`
	Type   string    `json:"type"`
	Weight float64   `json:"weight"`
}

// Inclusion is a non-flour addition such as nuts, fruit or cheese.
type Inclusion struct {
	ID     uuid.UUID     `json:"id"`
	Name   string        `json:"name"`
	Weight float64       `json:"weight"`
	Stage  AdditionStage `json:"stage"`
}

// Enrichment is a fat, sweetener, dairy, egg or other enriching ingredient.
type Enrichment struct {
	ID     uuid.UUID      `json:"id"`
	Name   string         `json:"name"`
	Weight float64        `json:"weight"`
	Kind   EnrichmentKind `json:"kind"`
}

// FinalMix holds the ingredients added at final mixing.
type FinalMix struct {
	Flours      []Flour      `json:"flours"`
	Water       float64      `json:"water"`
	Salt        float64      `json:"salt"`
	Yeast       float64      `json:"yeast,omitempty"`
	Inclusions  []Inclusion  `json:"inclusions"`
	Enrichments []Enrichment `json:"enrichments"`
	MixMethod   MixMethod    `json:"mix_method"`
	Temperature float64      `json:"temperature"`
}

func (m FinalMix) TotalFlour() float64 {
	total := 0.0
	for _, f := range m.Flours {
		total += f.Weight
	}
	return total
}

func (m FinalMix) TotalInclusions() float64 {
	total := 0.0
	for _, inc := range m.Inclusions {
		total += inc.Weight
	}
	return total
}

func (m FinalMix) TotalEnrichments() float64 {
	total := 0.0
	for _, e := range m.Enrichments {
		total += e.Weight
	}
	return total
}

// TotalWeight sums every final-mix ingredient.
func (m FinalMix) TotalWeight() float64 {
	return m.TotalFlour() + m.Water + m.Salt + m.Yeast + m.TotalInclusions() + m.TotalEnrichments()
}

func (m FinalMix) Clone() FinalMix {
	out := m
	if m.Flours != nil {
		out.Flours = slices.Clone(m.Flours)
	}
	if m.Inclusions != nil {
		out.Inclusions = slices.Clone(m.Inclusions)
	}
	if m.Enrichments != nil {
		out.Enrichments = slices.Clone(m.Enrichments)
	}
	return out
}
