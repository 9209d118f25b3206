// Package formatting turns raw engine numbers into display strings. It is the
// only place values are rounded.
package formatting

import (
	"github.com/shopspring/decimal"

	"crumb/models"
)

// MaxPrecision caps the number of decimal places shown.
const MaxPrecision = 4

func places(precision int) int32 {
	switch {
	case precision < 0:
		return models.DefaultPrecision
	case precision > MaxPrecision:
		return MaxPrecision
	default:
		return int32(precision)
	}
}

// Round rounds value to precision decimal places, half away from zero.
func Round(value float64, precision int) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(places(precision)).Float64()
	return rounded
}

// Number renders value with exactly precision decimal places.
func Number(value float64, precision int) string {
	return decimal.NewFromFloat(value).StringFixed(places(precision))
}

// Weight renders a gram weight such as "812.5 g".
func Weight(value float64, precision int) string {
	return Number(value, precision) + " g"
}

// Percent renders a baker's percentage such as "65.0%".
func Percent(value float64, precision int) string {
	return Number(value, precision) + "%"
}

// Cell renders a weight and its percentage according to the formula's
// display preferences.
func Cell(weight, percentage float64, prefs models.DisplayPreferences) string {
	prefs = prefs.Normalized()
	switch prefs.Mode {
	case models.DisplayWeight:
		return Weight(weight, prefs.Precision)
	case models.DisplayPercentage:
		return Percent(percentage, prefs.Precision)
	default:
		return Weight(weight, prefs.Precision) + " (" + Percent(percentage, prefs.Precision) + ")"
	}
}
