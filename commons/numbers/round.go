package numbers

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds half up to a whole number.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Round1 rounds half up to one decimal place.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

var half = decimal.NewFromFloat(0.5)

// Dollars rounds a money amount half up to whole dollars, the same way as Round.
func Dollars(d decimal.Decimal) float64 {
	return d.Add(half).Floor().InexactFloat64()
}

// Or returns v unless it is zero.
func Or(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}
