package parse

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Average returns the arithmetic mean of values, ok=false when empty.
// The sum is accumulated in exact decimal arithmetic so long price series
// do not drift.
func Average(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum.Div(decimal.NewFromInt(int64(len(values)))).InexactFloat64(), true
}

// Median returns the middle value of values (mean of the two middle values for
// an even count), ok=false when empty. values is not modified.
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	middle := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[middle], true
	}

	pair := decimal.NewFromFloat(sorted[middle-1]).Add(decimal.NewFromFloat(sorted[middle]))
	return pair.Div(decimal.NewFromInt(2)).InexactFloat64(), true
}

// Difference returns a − b computed exactly.
func Difference(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64()
}
