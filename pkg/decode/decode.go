// Package decode classifies and exactly decomposes IEEE-754 binary64 values.
//
// Every finite value is turned into a Triple{Sign, S, E} such that
// value == Sign * S * 2^E exactly, with S an integer in [0, 2^53). Special
// values (NaN, ±Inf) are reported via Class without a Triple, since they
// carry no finite significand/exponent pair.
package decode

import "math"

// Class identifies which IEEE-754 category a binary64 value falls into.
type Class uint8

const (
	ClassFinite Class = iota
	ClassPosInf
	ClassNegInf
	ClassNaN
)

// String renders a Class for logging and test failure messages.
func (c Class) String() string {
	switch c {
	case ClassFinite:
		return "finite"
	case ClassPosInf:
		return "+inf"
	case ClassNegInf:
		return "-inf"
	case ClassNaN:
		return "nan"
	default:
		return "unknown"
	}
}

// Triple is the exact decomposition of a finite binary64: value = Sign * S * 2^E.
//
// S is always < 2^53 (normals carry the implicit leading bit, subnormals
// don't). Zero is encoded as S == 0, E == 0, Sign == +1 regardless of the
// original sign bit — signed zero does not propagate through the sum
// (see SPEC_FULL.md §4.1).
type Triple struct {
	Sign int8 // +1 or -1
	S    uint64
	E    int32
}

// IsZero reports whether the triple encodes an exact zero.
func (t Triple) IsZero() bool {
	return t.S == 0
}

// expBias is the IEEE-754 binary64 exponent bias.
const expBias = 1023

// mantissaBits is the number of explicit fraction bits in binary64.
const mantissaBits = 52

// MinSubnormalExponent is E for the smallest-magnitude subnormal (S=1).
// value = 1 * 2^MinSubnormalExponent = 2^-1074.
const MinSubnormalExponent = 1 - expBias - mantissaBits

// CanonicalNaNBits is the single NaN bit pattern this package normalizes
// every NaN input and every NaN output to: sign 0, exponent all-ones,
// fraction MSB set, remaining fraction bits zero. Mirrors the WebAssembly
// float-canonicalization constant for binary64.
const CanonicalNaNBits uint64 = 0x7FF8000000000000

// Decode classifies d and, for finite values, returns its exact Triple.
// The returned Triple is only meaningful when class == ClassFinite.
func Decode(d float64) (class Class, t Triple) {
	raw := math.Float64bits(d)
	sign := int8(1)
	if raw>>63 != 0 {
		sign = -1
	}
	e := uint32(raw>>mantissaBits) & 0x7FF
	f := raw & ((uint64(1) << mantissaBits) - 1)

	switch {
	case e == 0x7FF:
		if f != 0 {
			return ClassNaN, Triple{}
		}
		if sign < 0 {
			return ClassNegInf, Triple{}
		}
		return ClassPosInf, Triple{}
	case e == 0 && f == 0:
		// Finite zero, either sign: normalized away for accumulation purposes.
		return ClassFinite, Triple{Sign: 1, S: 0, E: 0}
	case e == 0:
		// Subnormal: no implicit leading bit.
		return ClassFinite, Triple{Sign: sign, S: f, E: MinSubnormalExponent}
	default:
		s := (uint64(1) << mantissaBits) | f
		exp := int32(e) - expBias - mantissaBits
		return ClassFinite, Triple{Sign: sign, S: s, E: exp}
	}
}

// CanonicalNaN returns the canonical quiet NaN as a float64.
func CanonicalNaN() float64 {
	return math.Float64frombits(CanonicalNaNBits)
}
