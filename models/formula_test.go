package models

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestStarterContributions(t *testing.T) {
	t.Parallel()

	starter := Starter{Weight: 150, Hydration: 50}
	nearlyEqual(t, "flour", starter.FlourContribution(), 100)
	nearlyEqual(t, "water", starter.WaterContribution(), 50)

	liquid := Starter{Weight: 200, Hydration: 100}
	nearlyEqual(t, "flour", liquid.FlourContribution(), 100)
	nearlyEqual(t, "water", liquid.WaterContribution(), 100)
}

func TestPrefermentDerivedValues(t *testing.T) {
	t.Parallel()

	p := Preferment{Kind: Levain, Flour: 200, Water: 160, Starter: &Starter{Weight: 40, Hydration: 100}, Yeast: 1}
	nearlyEqual(t, "hydration", p.Hydration(), 80)
	nearlyEqual(t, "total weight", p.TotalWeight(), 401)
	nearlyEqual(t, "total flour", p.TotalFlour(), 220)
	nearlyEqual(t, "total water", p.TotalWater(), 180)
	if !p.HasStarter() {
		t.Fatal("expected starter to be detected")
	}

	empty := Preferment{Kind: Poolish}
	nearlyEqual(t, "empty hydration", empty.Hydration(), 0)
	if empty.DisplayName() != "Poolish" {
		t.Fatalf("DisplayName() = %q, want Poolish", empty.DisplayName())
	}
}

func TestSoakerDerivedValues(t *testing.T) {
	t.Parallel()

	s := Soaker{Grains: []Grain{{Name: "flax", Weight: 60}, {Name: "oats", Weight: 40}}, Water: 120, Salt: 2}
	nearlyEqual(t, "grain weight", s.TotalGrainWeight(), 100)
	nearlyEqual(t, "total weight", s.TotalWeight(), 222)
	nearlyEqual(t, "hydration", s.Hydration(), 120)

	nearlyEqual(t, "no grains hydration", Soaker{Water: 50}.Hydration(), 0)
}

func TestFormulaCloneIsIndependent(t *testing.T) {
	t.Parallel()

	f := NewFormula("Country", time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	f.Preferments = []Preferment{{ID: uuid.New(), Kind: Levain, Flour: 100, Water: 100, Starter: &Starter{Weight: 20, Hydration: 100}}}
	f.Soakers = []Soaker{{ID: uuid.New(), Grains: []Grain{{Name: "rye chops", Weight: 50}}, Water: 50}}
	f.FinalMix.Flours = []Flour{{ID: uuid.New(), Type: "bread", Weight: 900}}
	f.FinalMix.Inclusions = []Inclusion{{ID: uuid.New(), Name: "walnuts", Weight: 100}}
	f.FinalMix.Enrichments = []Enrichment{{ID: uuid.New(), Name: "honey", Weight: 20, Kind: EnrichmentSweetener}}

	clone := f.Clone()
	clone.Preferments[0].Starter.Weight = 99
	clone.Soakers[0].Grains[0].Weight = 99
	clone.FinalMix.Flours[0].Weight = 99
	clone.FinalMix.Inclusions[0].Weight = 99
	clone.FinalMix.Enrichments[0].Weight = 99

	nearlyEqual(t, "starter", f.Preferments[0].Starter.Weight, 20)
	nearlyEqual(t, "grain", f.Soakers[0].Grains[0].Weight, 50)
	nearlyEqual(t, "flour", f.FinalMix.Flours[0].Weight, 900)
	nearlyEqual(t, "inclusion", f.FinalMix.Inclusions[0].Weight, 100)
	nearlyEqual(t, "enrichment", f.FinalMix.Enrichments[0].Weight, 20)
}

func TestIdentifierRoundTrip(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	cases := []Identifier{
		FinalFlour{ID: id},
		FinalWater{},
		FinalSalt{},
		FinalYeast{},
		PrefermentTotal{ID: id},
		PrefermentFlour{ID: id},
		PrefermentWater{ID: id},
		SoakerTotal{ID: id},
		InclusionRef{ID: id},
		EnrichmentRef{ID: id},
	}

	for _, want := range cases {
		want := want
		t.Run(string(want.Kind()), func(t *testing.T) {
			t.Parallel()
			data, err := MarshalIdentifier(want)
			if err != nil {
				t.Fatalf("MarshalIdentifier: %v", err)
			}
			got, err := UnmarshalIdentifier(data)
			if err != nil {
				t.Fatalf("UnmarshalIdentifier(%s): %v", data, err)
			}
			if got != want {
				t.Fatalf("round trip = %#v, want %#v", got, want)
			}
		})
	}
}

func TestIdentifierRefRejectsMissingID(t *testing.T) {
	t.Parallel()

	if _, err := (IdentifierRef{Kind: KindFinalFlour}).Identifier(); err == nil {
		t.Fatal("expected error for final_flour without id")
	}
	if _, err := (IdentifierRef{Kind: "crust"}).Identifier(); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestParsePrefermentKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		want  PrefermentKind
		ok    bool
	}{
		{"Poolish", Poolish, true},
		{"pâte fermentée", PateFermentee, true},
		{"pate-fermentee", PateFermentee, true},
		{" levain ", Levain, true},
		{"starter", PrefermentKind("starter"), false},
	}
	for _, tt := range cases {
		got, ok := ParsePrefermentKind(tt.value)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParsePrefermentKind(%q) = %q, %t; want %q, %t", tt.value, got, ok, tt.want, tt.ok)
		}
	}
}
