// Package accum implements the exact fixed-point superaccumulator at the
// heart of the reproducible dot product: a wide two's-complement integer
// that represents a partial sum in units of 2^EMIN, updated by exact
// integer arithmetic so that the result is invariant under any reordering
// or reblocking of the terms that feed it.
//
// The accumulator is stored as a fixed-size array of 64-bit limbs,
// least-significant limb first, following the limb-array conventions of
// Go's own arbitrary-precision integer implementation (carry/borrow
// propagation via math/bits.Add64/Sub64 rather than a big.Int, since the
// width here is a compile-time constant, not something that ever grows).
package accum

import (
	"math/bits"

	"github.com/oisee/ddotrepro/pkg/decode"
	"github.com/oisee/ddotrepro/pkg/except"
)

// EMIN is the fixed-point grid exponent: the accumulator's value is
// A * 2^EMIN. -2148 = 2*(-1074), the exponent of the smallest nonzero
// exact product of two subnormals — the smallest value any term can
// contribute, and therefore the natural units for the whole register.
const EMIN int32 = -2148

// NumLimbs is the number of 64-bit limbs in the accumulator, giving
// NumLimbs*64 = 4608 bits of two's-complement range. SPEC_FULL.md §3
// derives a minimum width of ~4240 bits (the span from EMIN up to the
// largest binary64 product, plus carry bits for up to 2^53 terms); this
// rounds up to a whole number of limbs with comfortable slack on top.
const NumLimbs = 72

// Accumulator is a wide fixed-point integer in units of 2^EMIN, updated
// by exact integer addition. The zero value is the zero accumulator.
type Accumulator struct {
	limbs [NumLimbs]uint64
}

// New returns a zero-valued accumulator.
func New() *Accumulator {
	return &Accumulator{}
}

// FromLimbs reconstructs an accumulator from a previously snapshotted
// limb array (see pkg/report), for resuming a checkpointed reduction.
func FromLimbs(limbs [NumLimbs]uint64) *Accumulator {
	return &Accumulator{limbs: limbs}
}

// Limbs returns a copy of the accumulator's raw limb array, for
// checkpointing (see pkg/report.BlockResult).
func (a *Accumulator) Limbs() [NumLimbs]uint64 {
	return a.limbs
}

// Reset zeros the accumulator in place, for reuse across blocks.
func (a *Accumulator) Reset() {
	for i := range a.limbs {
		a.limbs[i] = 0
	}
}

// Add folds the exact product of two finite decoded triples into the
// accumulator. Terms where either operand is an exact zero contribute
// nothing and are skipped, matching the spec's "signed zero contributes
// the integer 0" edge policy.
func (a *Accumulator) Add(tx, ty decode.Triple) {
	if tx.IsZero() || ty.IsZero() {
		return
	}
	hi, lo := bits.Mul64(tx.S, ty.S)
	shift := int(tx.E) + int(ty.E) - int(EMIN)
	// By construction (see SPEC_FULL.md §4.3) shift is always >= 0: the
	// smallest possible tx.E+ty.E is 2*MinSubnormalExponent == EMIN.
	if int(tx.Sign)*int(ty.Sign) > 0 {
		addShifted(&a.limbs, lo, hi, shift)
	} else {
		subShifted(&a.limbs, lo, hi, shift)
	}
}

// Merge folds src's value into dst, for combining per-block accumulators
// in a parallel reduction. Exact limb-wise addition with carry
// propagation — the same operation Add uses internally, just without a
// shift, since both operands already share the same 2^EMIN grid.
func Merge(dst, src *Accumulator) {
	var carry uint64
	for i := 0; i < NumLimbs; i++ {
		sum, c := bits.Add64(dst.limbs[i], src.limbs[i], carry)
		dst.limbs[i] = sum
		carry = c
	}
}

// ShouldSkip reports whether exc has already reached a terminal
// exceptional state, meaning no further Add call in this block can change
// the eventual Finalize result. Pure optimization; callers remain correct
// if they ignore it and keep accumulating.
func ShouldSkip(exc except.State) bool {
	return exc.Terminal()
}

// addShifted adds the unsigned 128-bit value (hi:lo) shifted left by
// shift bits into limbs, with carry propagation through the rest of the
// array.
func addShifted(limbs *[NumLimbs]uint64, lo, hi uint64, shift int) {
	w0, w1, w2 := shiftWords(lo, hi, shift)
	idx := shift / 64
	addWordAt(limbs, idx, w0)
	addWordAt(limbs, idx+1, w1)
	addWordAt(limbs, idx+2, w2)
}

// subShifted subtracts the unsigned 128-bit value (hi:lo) shifted left by
// shift bits from limbs, with borrow propagation.
func subShifted(limbs *[NumLimbs]uint64, lo, hi uint64, shift int) {
	w0, w1, w2 := shiftWords(lo, hi, shift)
	idx := shift / 64
	subWordAt(limbs, idx, w0)
	subWordAt(limbs, idx+1, w1)
	subWordAt(limbs, idx+2, w2)
}

// shiftWords splits (hi:lo) << shift into up to three 64-bit words aligned
// to 64-bit limb boundaries, ready to be added at limb index shift/64.
func shiftWords(lo, hi uint64, shift int) (w0, w1, w2 uint64) {
	bitOff := uint(shift % 64)
	if bitOff == 0 {
		return lo, hi, 0
	}
	w0 = lo << bitOff
	w1 = (lo >> (64 - bitOff)) | (hi << bitOff)
	w2 = hi >> (64 - bitOff)
	return w0, w1, w2
}

// addWordAt adds word into limbs at index idx, propagating any carry
// through subsequent limbs. Indices at or beyond NumLimbs are silently
// dropped: by the spec's width argument this never happens for valid
// binary64 inputs, and a fixed-width register has nowhere else to put it.
func addWordAt(limbs *[NumLimbs]uint64, idx int, word uint64) {
	if idx >= NumLimbs || word == 0 {
		return
	}
	sum, carry := bits.Add64(limbs[idx], word, 0)
	limbs[idx] = sum
	for i := idx + 1; carry != 0 && i < NumLimbs; i++ {
		sum, carry = bits.Add64(limbs[i], 0, carry)
		limbs[i] = sum
	}
}

// subWordAt subtracts word from limbs at index idx, propagating any
// borrow through subsequent limbs.
func subWordAt(limbs *[NumLimbs]uint64, idx int, word uint64) {
	if idx >= NumLimbs {
		return
	}
	diff, borrow := bits.Sub64(limbs[idx], word, 0)
	limbs[idx] = diff
	for i := idx + 1; borrow != 0 && i < NumLimbs; i++ {
		diff, borrow = bits.Sub64(limbs[i], 0, borrow)
		limbs[i] = diff
	}
}

// isNegative reports whether limbs, read as a two's-complement integer,
// is negative (top bit of the top limb set).
func isNegative(limbs *[NumLimbs]uint64) bool {
	return limbs[NumLimbs-1]>>63 != 0
}

// isZero reports whether limbs is exactly zero.
func isZero(limbs *[NumLimbs]uint64) bool {
	for _, w := range limbs {
		if w != 0 {
			return false
		}
	}
	return true
}

// magnitude returns the absolute value of limbs as an unsigned limb
// array, negating via two's-complement (invert + 1) when limbs is
// negative.
func magnitude(limbs *[NumLimbs]uint64) [NumLimbs]uint64 {
	if !isNegative(limbs) {
		return *limbs
	}
	var m [NumLimbs]uint64
	var carry uint64 = 1
	for i := 0; i < NumLimbs; i++ {
		inv := ^limbs[i]
		sum, c := bits.Add64(inv, carry, 0)
		m[i] = sum
		carry = c
	}
	return m
}

// bitLen returns the position of the most significant set bit plus one
// (i.e. 2^(bitLen-1) <= m < 2^bitLen), or 0 if m is zero.
func bitLen(m *[NumLimbs]uint64) int {
	for i := NumLimbs - 1; i >= 0; i-- {
		if m[i] != 0 {
			return i*64 + bits.Len64(m[i])
		}
	}
	return 0
}

// wordAt returns the 64-bit word whose bit 0 is bit bitPos of m (i.e.
// floor(m / 2^bitPos) truncated to 64 bits), treating m as an arbitrarily
// wide unsigned integer padded with zeros above NumLimbs*64.
func wordAt(m *[NumLimbs]uint64, bitPos int) uint64 {
	if bitPos < 0 {
		return 0
	}
	limbIdx := bitPos / 64
	if limbIdx >= NumLimbs {
		return 0
	}
	bitOff := uint(bitPos % 64)
	lo := m[limbIdx] >> bitOff
	var hi uint64
	if limbIdx+1 < NumLimbs {
		hi = m[limbIdx+1] << (64 - bitOff)
	}
	return lo | hi
}

// bitAt returns bit pos of m as 0 or 1.
func bitAt(m *[NumLimbs]uint64, pos int) uint64 {
	if pos < 0 {
		return 0
	}
	limbIdx := pos / 64
	if limbIdx >= NumLimbs {
		return 0
	}
	return (m[limbIdx] >> uint(pos%64)) & 1
}

// anyBitSetBelow reports whether any bit in [0, pos) of m is set.
func anyBitSetBelow(m *[NumLimbs]uint64, pos int) bool {
	if pos <= 0 {
		return false
	}
	fullLimbs := pos / 64
	rem := pos % 64
	for i := 0; i < fullLimbs && i < NumLimbs; i++ {
		if m[i] != 0 {
			return true
		}
	}
	if rem > 0 && fullLimbs < NumLimbs {
		mask := (uint64(1) << uint(rem)) - 1
		if m[fullLimbs]&mask != 0 {
			return true
		}
	}
	return false
}
