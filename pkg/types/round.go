package types

import "github.com/shopspring/decimal"

// Round2 rounds f half away from zero to 2 decimal places, the precision every
// monetary and price value is reported with.
func Round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
