package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// IdentifierKind is the wire tag of an Identifier variant.
type IdentifierKind string

const (
	KindFinalFlour      IdentifierKind = "final_flour"
	KindFinalWater      IdentifierKind = "final_water"
	KindFinalSalt       IdentifierKind = "final_salt"
	KindFinalYeast      IdentifierKind = "final_yeast"
	KindPrefermentTotal IdentifierKind = "preferment"
	KindPrefermentFlour IdentifierKind = "preferment_flour"
	KindPrefermentWater IdentifierKind = "preferment_water"
	KindSoakerTotal     IdentifierKind = "soaker"
	KindInclusion       IdentifierKind = "inclusion"
	KindEnrichment      IdentifierKind = "enrichment"
)

// Identifier names one weighable quantity inside a Formula. The set of
// variants is closed: only types in this package implement it.
type Identifier interface {
	Kind() IdentifierKind
	isIdentifier()
}

// FinalFlour references one flour entry of the final mix.
type FinalFlour struct{ ID uuid.UUID }

// FinalWater references the final-mix water.
type FinalWater struct{}

// FinalSalt references the final-mix salt.
type FinalSalt struct{}

// FinalYeast references the final-mix yeast.
type FinalYeast struct{}

// PrefermentTotal references a whole preferment by its total weight.
type PrefermentTotal struct{ ID uuid.UUID }

// PrefermentFlour references the flour of a preferment.
type PrefermentFlour struct{ ID uuid.UUID }

// PrefermentWater references the water of a preferment.
type PrefermentWater struct{ ID uuid.UUID }

// SoakerTotal references a whole soaker by its total weight.
type SoakerTotal struct{ ID uuid.UUID }

// InclusionRef references one final-mix inclusion.
type InclusionRef struct{ ID uuid.UUID }

// EnrichmentRef references one final-mix enrichment.
type EnrichmentRef struct{ ID uuid.UUID }

func (FinalFlour) Kind() IdentifierKind      { return KindFinalFlour }
func (FinalWater) Kind() IdentifierKind      { return KindFinalWater }
func (FinalSalt) Kind() IdentifierKind       { return KindFinalSalt }
func (FinalYeast) Kind() IdentifierKind      { return KindFinalYeast }
func (PrefermentTotal) Kind() IdentifierKind { return KindPrefermentTotal }
func (PrefermentFlour) Kind() IdentifierKind { return KindPrefermentFlour }
func (PrefermentWater) Kind() IdentifierKind { return KindPrefermentWater }
func (SoakerTotal) Kind() IdentifierKind     { return KindSoakerTotal }
func (InclusionRef) Kind() IdentifierKind    { return KindInclusion }
func (EnrichmentRef) Kind() IdentifierKind   { return KindEnrichment }

func (FinalFlour) isIdentifier()      {}
func (FinalWater) isIdentifier()      {}
func (FinalSalt) isIdentifier()       {}
func (FinalYeast) isIdentifier()      {}
func (PrefermentTotal) isIdentifier() {}
func (PrefermentFlour) isIdentifier() {}
func (PrefermentWater) isIdentifier() {}
func (SoakerTotal) isIdentifier()     {}
func (InclusionRef) isIdentifier()    {}
func (EnrichmentRef) isIdentifier()   {}

// IdentifierRef is the serialisable form of an Identifier.
type IdentifierRef struct {
	Kind IdentifierKind `json:"kind"`
	ID   uuid.UUID      `json:"id,omitempty"`
}

// RefOf converts an Identifier to its wire form.
func RefOf(id Identifier) IdentifierRef {
	switch v := id.(type) {
	case FinalFlour:
		return IdentifierRef{Kind: KindFinalFlour, ID: v.ID}
	case FinalWater:
		return IdentifierRef{Kind: KindFinalWater}
	case FinalSalt:
		return IdentifierRef{Kind: KindFinalSalt}
	case FinalYeast:
		return IdentifierRef{Kind: KindFinalYeast}
	case PrefermentTotal:
		return IdentifierRef{Kind: KindPrefermentTotal, ID: v.ID}
	case PrefermentFlour:
		return IdentifierRef{Kind: KindPrefermentFlour, ID: v.ID}
	case PrefermentWater:
		return IdentifierRef{Kind: KindPrefermentWater, ID: v.ID}
	case SoakerTotal:
		return IdentifierRef{Kind: KindSoakerTotal, ID: v.ID}
	case InclusionRef:
		return IdentifierRef{Kind: KindInclusion, ID: v.ID}
	case EnrichmentRef:
		return IdentifierRef{Kind: KindEnrichment, ID: v.ID}
	default:
		panic(fmt.Sprintf("models: unhandled identifier %T", id))
	}
}

// Identifier converts the wire form back to a typed Identifier.
func (r IdentifierRef) Identifier() (Identifier, error) {
	needsID := func(build func(uuid.UUID) Identifier) (Identifier, error) {
		if r.ID == uuid.Nil {
			return nil, fmt.Errorf("identifier %q requires an id", r.Kind)
		}
		return build(r.ID), nil
	}
	switch r.Kind {
	case KindFinalFlour:
		return needsID(func(id uuid.UUID) Identifier { return FinalFlour{ID: id} })
	case KindFinalWater:
		return FinalWater{}, nil
	case KindFinalSalt:
		return FinalSalt{}, nil
	case KindFinalYeast:
		return FinalYeast{}, nil
	case KindPrefermentTotal:
		return needsID(func(id uuid.UUID) Identifier { return PrefermentTotal{ID: id} })
	case KindPrefermentFlour:
		return needsID(func(id uuid.UUID) Identifier { return PrefermentFlour{ID: id} })
	case KindPrefermentWater:
		return needsID(func(id uuid.UUID) Identifier { return PrefermentWater{ID: id} })
	case KindSoakerTotal:
		return needsID(func(id uuid.UUID) Identifier { return SoakerTotal{ID: id} })
	case KindInclusion:
		return needsID(func(id uuid.UUID) Identifier { return InclusionRef{ID: id} })
	case KindEnrichment:
		return needsID(func(id uuid.UUID) Identifier { return EnrichmentRef{ID: id} })
	default:
		return nil, fmt.Errorf("unknown identifier kind %q", r.Kind)
	}
}

// MarshalIdentifier encodes an Identifier as JSON.
func MarshalIdentifier(id Identifier) ([]byte, error) {
	return json.Marshal(RefOf(id))
}

// UnmarshalIdentifier decodes JSON produced by MarshalIdentifier.
func UnmarshalIdentifier(data []byte) (Identifier, error) {
	var ref IdentifierRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, err
	}
	return ref.Identifier()
}
