//go:build ignore

// xverify cross-verifies pkg/ddot's superaccumulator result against
// pkg/oracle's independent math/big reference across a battery of
// generated vectors, including exceptional-value cases.
// Run: go run tools/xverify/main.go
package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"github.com/oisee/ddotrepro/pkg/ddot"
	"github.com/oisee/ddotrepro/pkg/oracle"
)

type testCase struct {
	name string
	x, y []float64
}

func main() {
	cases := []testCase{
		{"ones", []float64{1, 1, 1}, []float64{1, 1, 1}},
		{"cancellation", []float64{1e20, 1, -1e20}, []float64{1, 1, 1}},
		{"subnormal sum", []float64{math.Float64frombits(1), math.Float64frombits(1)}, []float64{1, 1}},
		{"invalid zero times inf", []float64{math.Inf(1), 1}, []float64{0, 1}},
		{"opposite infinities", []float64{math.Inf(1), math.Inf(-1)}, []float64{1, 1}},
		{"nan operand", []float64{math.NaN(), 1}, []float64{1, 1}},
	}
	cases = append(cases, randomCases(200, rand.NewPCG(1, 2))...)

	mismatches := 0
	for _, tc := range cases {
		got := ddot.DotRepro(tc.x, tc.y)
		want := oracle.DotRepro(tc.x, tc.y)
		if math.Float64bits(got) == math.Float64bits(want) {
			continue
		}
		if math.IsNaN(got) && math.IsNaN(want) {
			continue
		}
		mismatches++
		fmt.Fprintf(os.Stderr, "MISMATCH %s:\n  ddot:   %v (%#x)\n  oracle: %v (%#x)\n",
			tc.name, got, math.Float64bits(got), want, math.Float64bits(want))
	}

	fmt.Fprintf(os.Stderr, "\n%d cases checked, %d mismatches\n", len(cases), mismatches)
	if mismatches > 0 {
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, "ALL CASES MATCH")
}

func randomCases(n int, rng *rand.Rand) []testCase {
	out := make([]testCase, n)
	for i := range out {
		length := rng.IntN(50)
		x := make([]float64, length)
		y := make([]float64, length)
		for j := range x {
			x[j] = (rng.Float64()*2 - 1) * math.Pow(10, float64(rng.IntN(300)-150))
			y[j] = (rng.Float64()*2 - 1) * math.Pow(10, float64(rng.IntN(300)-150))
		}
		out[i] = testCase{name: fmt.Sprintf("random-%d", i), x: x, y: y}
	}
	return out
}
