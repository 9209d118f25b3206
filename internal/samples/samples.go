// Package samples builds reference formulas used by the demo database seed,
// the importer examples and tests.
package samples

import (
	"time"

	"github.com/google/uuid"

	"crumb/models"
)

// BasicLevain is a plain 60% hydration loaf: 800 g bread flour, 400 g water,
// 16 g salt and a 200/200 levain. Total flour is 1000 g.
func BasicLevain(now time.Time) models.Formula {
	f := models.NewFormula("Basic Levain", now)
	f.Preferments = []models.Preferment{{
		ID:          uuid.New(),
		Name:        "Levain",
		Kind:        models.Levain,
		Flour:       200,
		Water:       200,
		BuildHours:  12,
		Temperature: 24,
	}}
	f.FinalMix = models.FinalMix{
		Flours:      []models.Flour{{ID: uuid.New(), Type: "Bread flour", Weight: 800}},
		Water:       400,
		Salt:        16,
		MixMethod:   models.MixHand,
		Temperature: 25,
	}
	f.Yield = models.Yield{Pieces: 2, WeightPerPiece: 808}
	return f
}

// CountryLoaf is a mixed-flour sourdough with a starter-built levain and a
// seed soaker.
func CountryLoaf(now time.Time) models.Formula {
	f := models.NewFormula("Seeded Country Loaf", now)
	f.Notes = "Cold retard overnight; bake at 250°C with steam."
	f.Preferments = []models.Preferment{{
		ID:          uuid.New(),
		Name:        "Stiff levain",
		Kind:        models.Levain,
		Flour:       100,
		Water:       60,
		Starter:     &models.Starter{Weight: 20, Hydration: 100},
		BuildHours:  10,
		Temperature: 24,
	}}
	f.Soakers = []models.Soaker{{
		ID:   uuid.New(),
		Name: "Seed soaker",
		Grains: []models.Grain{
			{ID: uuid.New(), Name: "Flax", Weight: 40},
			{ID: uuid.New(), Name: "Sunflower", Weight: 40},
		},
		Water:        80,
		Salt:         1,
		SoakHours:    8,
		Temperature:  20,
		BoilingWater: false,
	}}
	f.FinalMix = models.FinalMix{
		Flours: []models.Flour{
			{ID: uuid.New(), Type: "Bread flour", Weight: 700},
			{ID: uuid.New(), Type: "Whole wheat", Weight: 190},
		},
		Water:       620,
		Salt:        19,
		Inclusions:  []models.Inclusion{{ID: uuid.New(), Name: "Toasted walnuts", Weight: 80, Stage: models.StageLamination}},
		MixMethod:   models.MixSpiral,
		Temperature: 26,
	}
	f.Yield = models.Yield{Pieces: 2, WeightPerPiece: 975}
	return f
}

// PoolishBrioche is an enriched, yeasted dough built on a poolish.
func PoolishBrioche(now time.Time) models.Formula {
	f := models.NewFormula("Poolish Brioche", now)
	f.Preferments = []models.Preferment{{
		ID:          uuid.New(),
		Name:        "Poolish",
		Kind:        models.Poolish,
		Flour:       150,
		Water:       150,
		Yeast:       0.3,
		BuildHours:  14,
		Temperature: 20,
	}}
	f.FinalMix = models.FinalMix{
		Flours: []models.Flour{{ID: uuid.New(), Type: "Bread flour", Weight: 350}},
		Water:  40,
		Salt:   10,
		Yeast:  6,
		Enrichments: []models.Enrichment{
			{ID: uuid.New(), Name: "Butter", Weight: 200, Kind: models.EnrichmentFat},
			{ID: uuid.New(), Name: "Eggs", Weight: 150, Kind: models.EnrichmentEgg},
			{ID: uuid.New(), Name: "Sugar", Weight: 60, Kind: models.EnrichmentSweetener},
			{ID: uuid.New(), Name: "Milk", Weight: 50, Kind: models.EnrichmentDairy},
		},
		MixMethod:   models.MixStand,
		Temperature: 24,
	}
	f.Yield = models.Yield{Pieces: 2, WeightPerPiece: 583.15}
	return f
}
