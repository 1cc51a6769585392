// Package partition randomly stresses the block boundaries the
// reproducible dot product's parallel path can be split along, asserting
// that every mutated partition still reproduces the sequential result
// bit-for-bit. It searches for a counterexample to reproducibility across
// irregular block shapes, and is expected to always fail to find one.
package partition

import "math/rand/v2"

// Partition is a sorted set of interior cut points in (0, n) splitting
// [0, n) into len(Bounds)+1 contiguous blocks.
type Partition struct {
	N      int
	Bounds []int
}

// Even returns the partition produced by splitting [0, n) into blocks of
// blockSize (the final block may be shorter), the natural starting point
// for mutation.
func Even(n, blockSize int) Partition {
	if blockSize <= 0 || blockSize >= n {
		return Partition{N: n}
	}
	var bounds []int
	for b := blockSize; b < n; b += blockSize {
		bounds = append(bounds, b)
	}
	return Partition{N: n, Bounds: bounds}
}

// Mutator applies random split/merge/shift moves to a Partition, using
// math/rand/v2's PCG source for seeded, reproducible sequences of moves.
type Mutator struct {
	rng *rand.Rand
}

// NewMutator creates a Mutator seeded from seed1/seed2 (PCG's two-word
// seed), for reproducible fuzz runs given a fixed --seed.
func NewMutator(seed1, seed2 uint64) *Mutator {
	return &Mutator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Mutate returns a new Partition derived from p by one random move:
// split a block in two, merge two adjacent blocks, or shift a boundary.
// The input Partition is not modified.
func (m *Mutator) Mutate(p Partition) Partition {
	switch {
	case len(p.Bounds) == 0:
		return m.split(p)
	default:
		r := m.rng.IntN(100)
		switch {
		case r < 40:
			return m.split(p)
		case r < 70:
			return m.merge(p)
		default:
			return m.shift(p)
		}
	}
}

// split inserts a new random boundary inside a randomly chosen existing
// block.
func (m *Mutator) split(p Partition) Partition {
	starts := append([]int{0}, p.Bounds...)
	ends := append(append([]int{}, p.Bounds...), p.N)

	idx := m.rng.IntN(len(starts))
	lo, hi := starts[idx], ends[idx]
	if hi-lo < 2 {
		return p // block too small to split, no-op
	}
	cut := lo + 1 + m.rng.IntN(hi-lo-1)
	out := Partition{N: p.N, Bounds: insertSorted(p.Bounds, cut)}
	return out
}

// merge removes a randomly chosen boundary, fusing two adjacent blocks.
func (m *Mutator) merge(p Partition) Partition {
	if len(p.Bounds) == 0 {
		return p
	}
	idx := m.rng.IntN(len(p.Bounds))
	out := make([]int, 0, len(p.Bounds)-1)
	out = append(out, p.Bounds[:idx]...)
	out = append(out, p.Bounds[idx+1:]...)
	return Partition{N: p.N, Bounds: out}
}

// shift nudges a randomly chosen boundary left or right by one index,
// staying strictly between its neighbors.
func (m *Mutator) shift(p Partition) Partition {
	if len(p.Bounds) == 0 {
		return p
	}
	idx := m.rng.IntN(len(p.Bounds))
	out := append([]int(nil), p.Bounds...)

	lo := 0
	if idx > 0 {
		lo = out[idx-1]
	}
	hi := p.N
	if idx+1 < len(out) {
		hi = out[idx+1]
	}
	if hi-lo < 3 {
		return p // no room to shift without colliding with a neighbor
	}

	delta := 1
	if m.rng.IntN(2) == 0 {
		delta = -1
	}
	next := out[idx] + delta
	if next <= lo || next >= hi {
		return p
	}
	out[idx] = next
	return Partition{N: p.N, Bounds: out}
}

// insertSorted inserts v into the sorted slice s, returning a new slice.
func insertSorted(s []int, v int) []int {
	out := make([]int, 0, len(s)+1)
	inserted := false
	for _, b := range s {
		if !inserted && v < b {
			out = append(out, v)
			inserted = true
		}
		out = append(out, b)
	}
	if !inserted {
		out = append(out, v)
	}
	return out
}
