package scaling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crumb/internal/aggregate"
	"crumb/internal/samples"
	"crumb/models"
)

const tolerance = 1e-9

var (
	createdAt = time.Date(2025, 4, 12, 7, 30, 0, 0, time.UTC)
	scaledAt  = time.Date(2025, 4, 13, 9, 0, 0, 0, time.UTC)
)

func useFixedClock(t *testing.T) {
	t.Helper()
	previous := nowFunc
	nowFunc = func() time.Time { return scaledAt }
	t.Cleanup(func() { nowFunc = previous })
}

func TestScaleByYield(t *testing.T) {
	useFixedClock(t)
	f := samples.BasicLevain(createdAt)

	scaled := ScaleByYield(f, 4, 700)

	assert.InDelta(t, 2800, aggregate.TotalWeight(scaled), 1e-6)
	assert.InDelta(t, 60, aggregate.Hydration(scaled), tolerance)
	assert.InDelta(t, aggregate.SaltPercentage(f), aggregate.SaltPercentage(scaled), tolerance)
	assert.InDelta(t, 20, aggregate.PrefermentedFlourPercentage(scaled), tolerance)
	assert.Equal(t, models.Yield{Pieces: 4, WeightPerPiece: 700}, scaled.Yield)
	assert.Equal(t, f.Version+1, scaled.Version)
	assert.Equal(t, scaledAt, scaled.LastModified)
	assert.Equal(t, f.CreatedAt, scaled.CreatedAt)
}

func TestScaleByYieldPreservesRatiosAcrossSamples(t *testing.T) {
	useFixedClock(t)
	for name, f := range map[string]models.Formula{
		"country": samples.CountryLoaf(createdAt),
		"brioche": samples.PoolishBrioche(createdAt),
	} {
		scaled := ScaleByYield(f, 3, 450)
		assert.InDelta(t, 1350, aggregate.TotalWeight(scaled), 1e-6, name)
		assert.InDelta(t, aggregate.Hydration(f), aggregate.Hydration(scaled), 1e-9, name)
		assert.InDelta(t, aggregate.YeastPercentage(f), aggregate.YeastPercentage(scaled), 1e-9, name)
		assert.InDelta(t, aggregate.PrefermentedFlourPercentage(f), aggregate.PrefermentedFlourPercentage(scaled), 1e-9, name)
	}
}

func TestScaleByYieldNoOps(t *testing.T) {
	useFixedClock(t)
	empty := models.NewFormula("Empty", createdAt)

	got := ScaleByYield(empty, 4, 700)
	assert.Equal(t, empty, got)

	f := samples.BasicLevain(createdAt)
	assert.Equal(t, f, ScaleByYield(f, 0, 700))
	assert.Equal(t, f, ScaleByYield(f, 2, -1))
}

func TestScaleByIngredient(t *testing.T) {
	useFixedClock(t)
	f := samples.BasicLevain(createdAt)
	flourID := f.FinalMix.Flours[0].ID

	scaled := ScaleByIngredient(f, models.FinalFlour{ID: flourID}, 1200)

	assert.Equal(t, 1200.0, scaled.FinalMix.Flours[0].Weight)
	assert.InDelta(t, 60, aggregate.Hydration(scaled), tolerance)
	assert.InDelta(t, 300, scaled.Preferments[0].Flour, tolerance)
	assert.InDelta(t, 24, scaled.FinalMix.Salt, tolerance)
	assert.Equal(t, 2, scaled.Yield.Pieces)
	assert.InDelta(t, aggregate.TotalWeight(scaled)/2, scaled.Yield.WeightPerPiece, tolerance)
	assert.Equal(t, f.Version+1, scaled.Version)
}

func TestScaleByIngredientStaleIdentifierIsNoOp(t *testing.T) {
	useFixedClock(t)
	f := samples.BasicLevain(createdAt)

	assert.Equal(t, f, ScaleByIngredient(f, models.FinalFlour{ID: uuid.New()}, 1200))
	assert.Equal(t, f, ScaleByIngredient(f, models.FinalYeast{}, 5))
	assert.Equal(t, f, ScaleByIngredient(f, models.FinalWater{}, 0))
}

func TestScalingDoesNotMutateInput(t *testing.T) {
	useFixedClock(t)
	f := samples.CountryLoaf(createdAt)
	snapshot := f.Clone()

	_ = ScaleByYield(f, 5, 500)
	_ = ScaleByIngredient(f, models.SoakerTotal{ID: f.Soakers[0].ID}, 400)
	_, _ = CorrectMisweigh(f, Measurement{Identifier: models.FinalWater{}, Actual: 700})

	assert.Equal(t, snapshot, f)
}

func TestApplyFactorLeavesRatiosAlone(t *testing.T) {
	useFixedClock(t)
	f := samples.CountryLoaf(createdAt)

	doubled := ApplyFactor(f, 2)

	require.NotNil(t, doubled.Preferments[0].Starter)
	assert.Equal(t, 40.0, doubled.Preferments[0].Starter.Weight)
	assert.Equal(t, 100.0, doubled.Preferments[0].Starter.Hydration)
	assert.Equal(t, f.Preferments[0].BuildHours, doubled.Preferments[0].BuildHours)
	assert.Equal(t, f.Soakers[0].SoakHours, doubled.Soakers[0].SoakHours)
	assert.Equal(t, 160.0, doubled.FinalMix.Inclusions[0].Weight)
	assert.Equal(t, models.StageLamination, doubled.FinalMix.Inclusions[0].Stage)
	assert.Equal(t, 1950.0, doubled.Yield.WeightPerPiece)
	assert.Equal(t, 2, doubled.Yield.Pieces)
	assert.InDelta(t, 2*aggregate.TotalWeight(f), aggregate.TotalWeight(doubled), 1e-9)
}

func TestResolveWeightCoversEveryIdentifier(t *testing.T) {
	f := samples.CountryLoaf(createdAt)
	brioche := samples.PoolishBrioche(createdAt)
	p := f.Preferments[0]

	tests := []struct {
		name string
		f    models.Formula
		id   models.Identifier
		want float64
	}{
		{"final flour", f, models.FinalFlour{ID: f.FinalMix.Flours[1].ID}, 190},
		{"final water", f, models.FinalWater{}, 620},
		{"final salt", f, models.FinalSalt{}, 19},
		{"final yeast", brioche, models.FinalYeast{}, 6},
		{"preferment total", f, models.PrefermentTotal{ID: p.ID}, 180},
		{"preferment flour", f, models.PrefermentFlour{ID: p.ID}, 100},
		{"preferment water", f, models.PrefermentWater{ID: p.ID}, 60},
		{"soaker total", f, models.SoakerTotal{ID: f.Soakers[0].ID}, 161},
		{"inclusion", f, models.InclusionRef{ID: f.FinalMix.Inclusions[0].ID}, 80},
		{"enrichment", brioche, models.EnrichmentRef{ID: brioche.FinalMix.Enrichments[1].ID}, 150},
		{"stale preferment", f, models.PrefermentFlour{ID: uuid.New()}, 0},
		{"stale soaker", f, models.SoakerTotal{ID: uuid.New()}, 0},
		{"nil", f, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ResolveWeight(tt.id, tt.f), tolerance)
		})
	}
}

func TestCorrectMisweighClosesTheLoop(t *testing.T) {
	useFixedClock(t)
	f := samples.CountryLoaf(createdAt)
	p := f.Preferments[0]

	ids := []models.Identifier{
		models.FinalFlour{ID: f.FinalMix.Flours[0].ID},
		models.FinalWater{},
		models.FinalSalt{},
		models.PrefermentTotal{ID: p.ID},
		models.PrefermentWater{ID: p.ID},
		models.SoakerTotal{ID: f.Soakers[0].ID},
		models.InclusionRef{ID: f.FinalMix.Inclusions[0].ID},
	}

	for _, id := range ids {
		expected := ResolveWeight(id, f)
		actual := expected * 1.13

		corrected, ref := CorrectMisweigh(f, Measurement{Identifier: id, Actual: actual})

		assert.InDelta(t, actual, ResolveWeight(id, corrected), 1e-9, string(id.Kind()))
		assert.InDelta(t, aggregate.Hydration(f), aggregate.Hydration(corrected), 1e-9, string(id.Kind()))
		assert.Equal(t, models.RefOf(id), ref.Ingredient)
		assert.InDelta(t, expected, ref.Expected, tolerance)
		assert.InDelta(t, actual, ref.Actual, tolerance)
		assert.InDelta(t, actual-expected, ref.Delta, tolerance)
		assert.Equal(t, f.Version+1, corrected.Version)
	}
}

func TestCorrectMisweighUsesFirstMeasurement(t *testing.T) {
	useFixedClock(t)
	f := samples.BasicLevain(createdAt)

	corrected, ref := CorrectMisweigh(f,
		Measurement{Identifier: models.FinalSalt{}, Actual: 20},
		Measurement{Identifier: models.FinalWater{}, Actual: 100},
	)

	assert.Equal(t, models.KindFinalSalt, ref.Ingredient.Kind)
	assert.Equal(t, 20.0, corrected.FinalMix.Salt)
	assert.InDelta(t, 500, corrected.FinalMix.Water, tolerance)
}

func TestCorrectMisweighWithoutMeasurements(t *testing.T) {
	f := samples.BasicLevain(createdAt)

	corrected, ref := CorrectMisweigh(f)
	assert.Equal(t, f, corrected)
	assert.Equal(t, MisweighReference{}, ref)
}

func TestChainedScalingKeepsIncrementingVersion(t *testing.T) {
	useFixedClock(t)
	f := samples.BasicLevain(createdAt)

	once := ScaleByYield(f, 4, 700)
	twice := ScaleByIngredient(once, models.FinalWater{}, 500)

	assert.Equal(t, f.Version+2, twice.Version)
	assert.InDelta(t, 60, aggregate.Hydration(twice), 1e-9)
}
