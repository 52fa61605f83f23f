package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Quantize rounds x to the given number of fractional digits, half away from zero.
// The float is first read back at its shortest decimal representation, so
// 1.005 rounds to 1.01 rather than falling victim to binary error.
func Quantize(x float64, decimals int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(decimals).InexactFloat64()
}
