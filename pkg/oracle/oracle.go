// Package oracle computes an independent reference dot product using
// math/big.Float at a generous fixed precision, for cross-checking
// pkg/accum's exact-integer rounding against a second, unrelated code
// path. It is never used on the production hot path — only by tests,
// tools/xverify and the CLI's `compute --verify` flag.
package oracle

import (
	"math"
	"math/big"

	"github.com/oisee/ddotrepro/pkg/decode"
)

// precisionBits is generous enough that rounding inside the oracle itself
// never competes with the final round-to-nearest-even step: every
// intermediate product and partial sum is exact at this precision for any
// pair of binary64 operands (products range from 2^-2148 up to below
// 2^2048, about 4200 bits between them; this leaves ample headroom for
// carries across a large number of terms).
const precisionBits = 4608

// DotRepro computes Σ x[i]*y[i] independently of pkg/accum, rounding the
// final big.Float sum to the nearest binary64 (ties to even, matching
// math/big's default RoundToNearestEven mode). Returns the same
// exceptional values (NaN, ±Inf) as ddot.DotRepro for the same inputs.
func DotRepro(x, y []float64) float64 {
	if len(x) != len(y) {
		panic("oracle: x and y have different lengths")
	}

	var sawNaN, sawInvalid, sawPosInf, sawNegInf bool
	sum := new(big.Float).SetPrec(precisionBits)

	for i := range x {
		cx, _ := decode.Decode(x[i])
		cy, _ := decode.Decode(y[i])
		xInf := cx == decode.ClassPosInf || cx == decode.ClassNegInf
		yInf := cy == decode.ClassPosInf || cy == decode.ClassNegInf

		switch {
		case cx == decode.ClassNaN || cy == decode.ClassNaN:
			sawNaN = true
		case xInf && y[i] == 0:
			sawInvalid = true
		case yInf && x[i] == 0:
			sawInvalid = true
		case xInf || yInf:
			sign := math.Copysign(1, x[i]) * math.Copysign(1, y[i])
			if sign > 0 {
				sawPosInf = true
			} else {
				sawNegInf = true
			}
		default:
			term := new(big.Float).SetPrec(precisionBits).SetFloat64(x[i])
			term.Mul(term, new(big.Float).SetPrec(precisionBits).SetFloat64(y[i]))
			sum.Add(sum, term)
		}
	}

	switch {
	case sawNaN || sawInvalid || (sawPosInf && sawNegInf):
		return decode.CanonicalNaN()
	case sawPosInf:
		return math.Inf(1)
	case sawNegInf:
		return math.Inf(-1)
	}

	result, _ := sum.Float64()
	return result
}
