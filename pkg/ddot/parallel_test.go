package ddot

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestDotReproParallelEmptyIsZero(t *testing.T) {
	got := DotReproParallel(nil, nil, ParallelConfig{})
	if got != 0 || math.Signbit(got) {
		t.Errorf("DotReproParallel(nil,nil,...) = %v, want +0.0", got)
	}
}

func TestDotReproParallelLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on length mismatch")
		}
	}()
	DotReproParallel([]float64{1, 2}, []float64{1}, ParallelConfig{})
}

func TestDotReproParallelMatchesSequential(t *testing.T) {
	n := 997 // deliberately not a multiple of common worker counts
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i%13-6) * 1.5
		y[i] = float64(i%7-3) * 2.25
	}
	want := DotRepro(x, y)

	configs := []ParallelConfig{
		{NumWorkers: 1},
		{NumWorkers: 2},
		{NumWorkers: 4},
		{NumWorkers: 17},
		{BlockSize: 1},
		{BlockSize: 31},
		{BlockSize: n},
		{BlockSize: n * 2},
	}
	for _, cfg := range configs {
		got := DotReproParallel(x, y, cfg)
		if math.Float64bits(got) != math.Float64bits(want) {
			t.Errorf("cfg=%+v: DotReproParallel = %v, want %v (sequential)", cfg, got, want)
		}
	}
}

func TestDotReproParallelExceptionalMerge(t *testing.T) {
	x := []float64{math.Inf(1), 1.0, math.NaN(), -3.0}
	y := []float64{1.0, 1.0, 1.0, 1.0}
	want := DotRepro(x, y)
	got := DotReproParallel(x, y, ParallelConfig{NumWorkers: 4})
	if !math.IsNaN(want) || !math.IsNaN(got) {
		t.Fatalf("want and got should both be NaN: want=%v got=%v", want, got)
	}
}

// TestPartitionInvariant is a pgregory.net/rapid property test covering
// the spec's blocking-invariance property directly: for any generated
// pair of equal-length float slices and any block size, the parallel
// result matches the sequential one bit-for-bit.
func TestPartitionInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 200).Draw(rt, "n")
		x := make([]float64, n)
		y := make([]float64, n)
		gen := rapid.Float64Range(-1e6, 1e6)
		for i := 0; i < n; i++ {
			x[i] = gen.Draw(rt, "x")
			y[i] = gen.Draw(rt, "y")
		}
		blockSize := rapid.IntRange(1, 64).Draw(rt, "blockSize")
		workers := rapid.IntRange(1, 16).Draw(rt, "workers")

		want := DotRepro(x, y)
		byBlock := DotReproParallel(x, y, ParallelConfig{BlockSize: blockSize})
		byWorkers := DotReproParallel(x, y, ParallelConfig{NumWorkers: workers})

		if math.Float64bits(byBlock) != math.Float64bits(want) {
			t.Fatalf("block size %d: got %v, want %v", blockSize, byBlock, want)
		}
		if math.Float64bits(byWorkers) != math.Float64bits(want) {
			t.Fatalf("%d workers: got %v, want %v", workers, byWorkers, want)
		}
	})
}

// TestPermutationInvariantProperty is the rapid-driven counterpart to
// TestDotReproPermutationInvariance, covering random slices and random
// permutations rather than one fixed example.
func TestPermutationInvariantProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 50).Draw(rt, "n")
		gen := rapid.Float64Range(-1e8, 1e8)
		x := make([]float64, n)
		y := make([]float64, n)
		for i := 0; i < n; i++ {
			x[i] = gen.Draw(rt, "x")
			y[i] = gen.Draw(rt, "y")
		}
		perm := make([]int, n)
		for i := range perm {
			perm[i] = i
		}
		for i := n - 1; i > 0; i-- {
			j := rapid.IntRange(0, i).Draw(rt, "swap")
			perm[i], perm[j] = perm[j], perm[i]
		}
		px := make([]float64, n)
		py := make([]float64, n)
		for i, p := range perm {
			px[i] = x[p]
			py[i] = y[p]
		}

		want := DotRepro(x, y)
		got := DotRepro(px, py)
		if math.Float64bits(got) != math.Float64bits(want) {
			rt.Fatalf("permuted result %v != base result %v", got, want)
		}
	})
}
