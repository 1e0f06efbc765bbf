package gonewton

import (
	"math"
	"math/big"
	"strconv"
)

// Precision is a number of significant decimal digits.
type Precision int

// DefaultPrecision is the number of significant digits every evaluation is
// rounded to.
const DefaultPrecision Precision = 11

// Round rounds v to p significant decimal digits, ties to even.
// Zero, NaN, infinities and non-positive precisions pass through unchanged.
func (p Precision) Round(v float64) float64 {
	if p <= 0 || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f := new(big.Float).SetMode(big.ToNearestEven).SetFloat64(v)
	// Rounding up at the top of the float64 range yields ±Inf with ErrRange.
	r, _ := strconv.ParseFloat(f.Text('e', int(p)-1), 64)
	return r
}

func (p Precision) valid() bool { return p > 0 && p <= 17 }
