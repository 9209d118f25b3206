package analysis

import "crumb/models"

// Range is an inclusive band of acceptable values.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the band.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Thresholds holds every tunable limit used by Analyze. Percentages are
// baker's percentages against total flour.
type Thresholds struct {
	HydrationErrorLow    float64
	HydrationWarningLow  float64
	HydrationWarningHigh float64
	HydrationErrorHigh   float64

	SaltWarningLow  float64
	SaltInfoLow     float64
	SaltInfoHigh    float64
	SaltWarningHigh float64

	PrefermentedInfo    float64
	PrefermentedWarning float64

	YeastWarningHigh float64
	YeastInfoLow     float64

	BuildHoursMin float64
	BuildHoursMax float64

	SoakerHydrationMin float64
	SoakerHydrationMax float64
	SoakHoursMin       float64

	InclusionMax  float64
	EnrichmentMax float64

	PrefermentHydration map[models.PrefermentKind]Range
}

// DefaultThresholds returns the stock limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HydrationErrorLow:    45,
		HydrationWarningLow:  55,
		HydrationWarningHigh: 85,
		HydrationErrorHigh:   110,

		SaltWarningLow:  1.0,
		SaltInfoLow:     1.5,
		SaltInfoHigh:    3.0,
		SaltWarningHigh: 3.5,

		PrefermentedInfo:    40,
		PrefermentedWarning: 60,

		YeastWarningHigh: 3,
		YeastInfoLow:     0.2,

		BuildHoursMin: 4,
		BuildHoursMax: 24,

		SoakerHydrationMin: 50,
		SoakerHydrationMax: 200,
		SoakHoursMin:       2,

		InclusionMax:  30,
		EnrichmentMax: 20,

		PrefermentHydration: DefaultPrefermentHydration(),
	}
}

// DefaultPrefermentHydration returns the usual hydration band per preferment
// kind.
func DefaultPrefermentHydration() map[models.PrefermentKind]Range {
	return map[models.PrefermentKind]Range{
		models.Poolish:       {Min: 90, Max: 110},
		models.Biga:          {Min: 45, Max: 65},
		models.Levain:        {Min: 50, Max: 125},
		models.PateFermentee: {Min: 55, Max: 75},
		models.Sponge:        {Min: 55, Max: 75},
	}
}
