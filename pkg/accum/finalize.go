package accum

import (
	"math"

	"github.com/oisee/ddotrepro/pkg/decode"
	"github.com/oisee/ddotrepro/pkg/except"
)

// subnormalShift is the fixed right-shift, in accumulator units (2^EMIN),
// that aligns a magnitude onto the 2^-1074 grid every subnormal binary64
// mantissa is expressed in: -EMIN - 1074 == 1074.
const subnormalShift = -int(EMIN) - 1074

// Finalize rounds the accumulator's exact value to the nearest binary64,
// ties to even, folding in exc's exceptional-value priority first.
//
// Priority, matching SPEC_FULL.md §4.2/§4.4: NaN (from any NaN operand, any
// 0*inf term, or colliding +Inf/-Inf contributions) beats a clean infinity,
// which beats the rounded finite result. Every NaN result is the canonical
// quiet NaN (decode.CanonicalNaNBits).
func (a *Accumulator) Finalize(exc except.State) float64 {
	switch {
	case exc.Has(except.FlagNaN) || exc.Has(except.FlagInvalid):
		return decode.CanonicalNaN()
	case exc.Has(except.FlagPosInf) && exc.Has(except.FlagNegInf):
		return decode.CanonicalNaN()
	case exc.Has(except.FlagPosInf):
		return math.Inf(1)
	case exc.Has(except.FlagNegInf):
		return math.Inf(-1)
	}
	return a.round()
}

// round performs the round-to-nearest-even conversion of the exact
// two's-complement integer a.limbs (a value of A * 2^EMIN) to the closest
// binary64, with no exceptional flags in play.
func (a *Accumulator) round() float64 {
	if isZero(&a.limbs) {
		return 0
	}
	neg := isNegative(&a.limbs)
	mag := magnitude(&a.limbs)

	k := bitLen(&mag) - 1
	unbiasedExp := int64(k) + int64(EMIN)

	if unbiasedExp > 1023 {
		return signedInf(neg)
	}

	var shift int
	subnormal := unbiasedExp < -1022
	if subnormal {
		shift = subnormalShift
	} else {
		shift = k - 52
	}

	mant := wordAt(&mag, shift) & ((uint64(1) << 53) - 1)
	var round, sticky bool
	if shift > 0 {
		round = bitAt(&mag, shift-1) != 0
		sticky = anyBitSetBelow(&mag, shift-1)
	}

	if round && (sticky || mant&1 == 1) {
		mant++
	}

	var biasedExp uint64
	var frac uint64

	if subnormal {
		if mant&(uint64(1)<<52) != 0 {
			// Rounded up across the subnormal/normal boundary.
			biasedExp = 1
			frac = 0
		} else {
			biasedExp = 0
			frac = mant
		}
	} else {
		if mant&(uint64(1)<<53) != 0 {
			// Carry out of the 53-bit mantissa: renormalize.
			mant >>= 1
			unbiasedExp++
			if unbiasedExp > 1023 {
				return signedInf(neg)
			}
		}
		biasedExp = uint64(unbiasedExp+1023)
		frac = mant & ((uint64(1) << 52) - 1)
	}

	bitsOut := biasedExp << 52
	bitsOut |= frac
	if neg {
		bitsOut |= uint64(1) << 63
	}
	return math.Float64frombits(bitsOut)
}

func signedInf(neg bool) float64 {
	if neg {
		return math.Inf(-1)
	}
	return math.Inf(1)
}
