package main

import (
	"math"

	"github.com/oisee/ddotrepro/pkg/ddot"
)

// runScenarios executes the literal worked examples from SPEC_FULL.md §8,
// the same set pkg/ddot/scenarios_test.go checks under `go test`, exposed
// here for a standalone CI smoke run via `ddotrepro scenarios`.
func runScenarios() []scenarioResult {
	var out []scenarioResult

	check := func(name string, got, want float64) {
		pass := math.Float64bits(got) == math.Float64bits(want)
		out = append(out, scenarioResult{name: name, pass: pass})
	}
	checkNaN := func(name string, got float64) {
		out = append(out, scenarioResult{name: name, pass: math.IsNaN(got) && math.Float64bits(got) == 0x7FF8000000000000})
	}

	check("ones sum to 3.0",
		ddot.DotRepro([]float64{1, 1, 1}, []float64{1, 1, 1}), 3.0)

	check("cancellation recovers 1.0",
		ddot.DotRepro([]float64{1e20, 1.0, -1e20}, []float64{1, 1, 1}), 1.0)

	check("subnormal sum",
		ddot.DotRepro([]float64{math.Float64frombits(1), math.Float64frombits(1)}, []float64{1, 1}),
		math.Float64frombits(2))

	checkNaN("zero times infinity is invalid",
		ddot.DotRepro([]float64{math.Inf(1), 1}, []float64{0, 1}))

	checkNaN("opposite infinities collide",
		ddot.DotRepro([]float64{math.Inf(1), math.Inf(-1)}, []float64{1, 1}))

	checkNaN("nan operand propagates",
		ddot.DotRepro([]float64{math.NaN(), 1}, []float64{1, 1}))

	n := 100
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = 1.0
		y[i] = 0.1
	}
	seq := ddot.DotRepro(x, y)
	blocked := ddot.DotReproParallel(x, y, ddot.ParallelConfig{BlockSize: 7})
	check("block size 7 matches sequential", blocked, seq)

	return out
}
