package models

import (
	"time"

	"github.com/google/uuid"
)

// DisplayMode selects which columns a presentation layer renders.
type DisplayMode string

const (
	DisplayPercentage DisplayMode = "percentage"
	DisplayWeight     DisplayMode = "weight"
	DisplayBoth       DisplayMode = "both"
)

// DefaultPrecision is the rounding precision used when a formula does not set one.
const DefaultPrecision = 1

// Formula is the aggregate root of a bread formula. Values are treated as
// immutable: engines return new Formulas instead of patching existing ones.
type Formula struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Version      int                `json:"version"`
	Notes        string             `json:"notes,omitempty"`
	Yield        Yield              `json:"yield"`
	Preferments  []Preferment       `json:"preferments"`
	Soakers      []Soaker           `json:"soakers"`
	FinalMix     FinalMix           `json:"final_mix"`
	Display      DisplayPreferences `json:"display"`
	CreatedAt    time.Time          `json:"created_at"`
	LastModified time.Time          `json:"last_modified"`
}

// Yield describes how many pieces a formula produces and their weight.
type Yield struct {
	Pieces         int     `json:"pieces"`
	WeightPerPiece float64 `json:"weight_per_piece"`
}

// Total returns the combined dough weight the yield asks for.
func (y Yield) Total() float64 {
	return float64(y.Pieces) * y.WeightPerPiece
}

// DisplayPreferences hold presentation hints. Rounding is applied by callers
// at display time only.
type DisplayPreferences struct {
	Mode      DisplayMode `json:"mode"`
	Precision int         `json:"precision"`
}

// Normalized fills in defaults for unset preferences.
func (d DisplayPreferences) Normalized() DisplayPreferences {
	switch d.Mode {
	case DisplayPercentage, DisplayWeight, DisplayBoth:
	default:
		d.Mode = DisplayBoth
	}
	if d.Precision < 0 {
		d.Precision = DefaultPrecision
	}
	return d
}

// NewFormula returns an empty formula with a fresh identity, version 1 and
// timestamps set to now.
func NewFormula(name string, now time.Time) Formula {
	now = now.UTC()
	return Formula{
		ID:           uuid.New(),
		Name:         name,
		Version:      1,
		Yield:        Yield{Pieces: 1},
		Display:      DisplayPreferences{Mode: DisplayBoth, Precision: DefaultPrecision},
		CreatedAt:    now,
		LastModified: now,
	}
}

// Clone returns a deep copy that shares no slices or pointers with f.
func (f Formula) Clone() Formula {
	out := f
	if f.Preferments != nil {
		out.Preferments = make([]Preferment, len(f.Preferments))
		for i, p := range f.Preferments {
			out.Preferments[i] = p.Clone()
		}
	}
	if f.Soakers != nil {
		out.Soakers = make([]Soaker, len(f.Soakers))
		for i, s := range f.Soakers {
			out.Soakers[i] = s.Clone()
		}
	}
	out.FinalMix = f.FinalMix.Clone()
	return out
}

// Preferment returns the preferment with the given id.
func (f Formula) Preferment(id uuid.UUID) (Preferment, bool) {
	for _, p := range f.Preferments {
		if p.ID == id {
			return p, true
		}
	}
	return Preferment{}, false
}

// Soaker returns the soaker with the given id.
func (f Formula) Soaker(id uuid.UUID) (Soaker, bool) {
	for _, s := range f.Soakers {
		if s.ID == id {
			return s, true
		}
	}
	return Soaker{}, false
}

// HasStarter reports whether any preferment carries a sourdough starter.
func (f Formula) HasStarter() bool {
	for _, p := range f.Preferments {
		if p.HasStarter() {
			return true
		}
	}
	return false
}

// AssignMissingIDs gives every component without an identity a fresh one.
// Decoders and importers call it so identifiers always resolve.
func (f *Formula) AssignMissingIDs() {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	for i := range f.Preferments {
		if f.Preferments[i].ID == uuid.Nil {
			f.Preferments[i].ID = uuid.New()
		}
	}
	for i := range f.Soakers {
		if f.Soakers[i].ID == uuid.Nil {
			f.Soakers[i].ID = uuid.New()
		}
		for j := range f.Soakers[i].Grains {
			if f.Soakers[i].Grains[j].ID == uuid.Nil {
				f.Soakers[i].Grains[j].ID = uuid.New()
			}
		}
	}
	for i := range f.FinalMix.Flours {
		if f.FinalMix.Flours[i].ID == uuid.Nil {
			f.FinalMix.Flours[i].ID = uuid.New()
		}
	}
	for i := range f.FinalMix.Inclusions {
		if f.FinalMix.Inclusions[i].ID == uuid.Nil {
			f.FinalMix.Inclusions[i].ID = uuid.New()
		}
	}
	for i := range f.FinalMix.Enrichments {
		if f.FinalMix.Enrichments[i].ID == uuid.Nil {
			f.FinalMix.Enrichments[i].ID = uuid.New()
		}
	}
}
