// Package ddot wires the decoder, exceptional-value tracker, and
// superaccumulator into the reproducible dot product's entry points:
// DotRepro (sequential) and DotReproParallel (block-parallel).
package ddot

import (
	"github.com/oisee/ddotrepro/pkg/accum"
	"github.com/oisee/ddotrepro/pkg/decode"
	"github.com/oisee/ddotrepro/pkg/except"
)

// DotRepro computes a reproducible dot product of x and y: bit-identical
// regardless of term order, block size, or worker count, and correctly
// rounded to nearest-even when the result is finite.
//
// len(x) != len(y) panics: a caller-controlled invariant violation, not a
// value-level error. Length 0 returns +0.0. x and y may alias.
func DotRepro(x, y []float64) float64 {
	if len(x) != len(y) {
		panic("ddot: x and y have different lengths")
	}
	a := accum.New()
	var exc except.State
	accumulate(a, &exc, x, y)
	return a.Finalize(exc)
}

// accumulate folds every term x[i]*y[i] into a and exc, stopping early
// once exc reaches a terminal state (ShouldSkip), since no further term
// can change the outcome.
func accumulate(a *accum.Accumulator, exc *except.State, x, y []float64) {
	for i := range x {
		if accum.ShouldSkip(*exc) {
			return
		}
		addTerm(a, exc, x[i], y[i])
	}
}

// addTerm classifies one operand pair and either records an exceptional
// contribution or folds the exact product into a.
func addTerm(a *accum.Accumulator, exc *except.State, xv, yv float64) {
	cx, tx := decode.Decode(xv)
	cy, ty := decode.Decode(yv)

	nan := cx == decode.ClassNaN || cy == decode.ClassNaN
	xInf := cx == decode.ClassPosInf || cx == decode.ClassNegInf
	yInf := cy == decode.ClassPosInf || cy == decode.ClassNegInf

	switch {
	case nan:
		exc.Observe(true, false, false, false)
	case xInf && yInf:
		sign := infSign(cx) * infSign(cy)
		exc.Observe(false, false, sign > 0, sign < 0)
	case xInf:
		if ty.IsZero() {
			exc.Observe(false, true, false, false)
			return
		}
		sign := infSign(cx) * int(ty.Sign)
		exc.Observe(false, false, sign > 0, sign < 0)
	case yInf:
		if tx.IsZero() {
			exc.Observe(false, true, false, false)
			return
		}
		sign := int(tx.Sign) * infSign(cy)
		exc.Observe(false, false, sign > 0, sign < 0)
	default:
		a.Add(tx, ty)
	}
}

// infSign returns the sign of an infinity class, or 0 for a non-infinity
// class (never called with one in practice).
func infSign(c decode.Class) int {
	switch c {
	case decode.ClassPosInf:
		return 1
	case decode.ClassNegInf:
		return -1
	default:
		return 0
	}
}
