package partition

import (
	"math"

	"github.com/oisee/ddotrepro/pkg/ddot"
)

// Mismatch describes a partition that produced a different result than
// the sequential reduction — if Run ever returns one, it is a
// reproducibility bug, not a benign fuzzing outcome.
type Mismatch struct {
	Partition Partition
	Want      float64
	Got       float64
}

// Run fuzzes iterations random mutations of an even starting partition
// (block size chosen from n/8, at least 1) against x and y, asserting
// DotReproWithBoundaries always agrees bit-for-bit with DotRepro. Returns
// the first Mismatch found, or nil if none did (the expected outcome).
func Run(x, y []float64, iterations int, seed1, seed2 uint64) *Mismatch {
	n := len(x)
	want := ddot.DotRepro(x, y)
	wantBits := math.Float64bits(want)

	blockSize := n / 8
	if blockSize < 1 {
		blockSize = 1
	}
	p := Even(n, blockSize)
	m := NewMutator(seed1, seed2)

	for i := 0; i < iterations; i++ {
		p = m.Mutate(p)
		got := ddot.DotReproWithBoundaries(x, y, p.Bounds)
		if math.Float64bits(got) != wantBits && !(math.IsNaN(got) && math.IsNaN(want)) {
			return &Mismatch{Partition: p, Want: want, Got: got}
		}
	}
	return nil
}
