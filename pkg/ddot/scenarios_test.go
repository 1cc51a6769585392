package ddot

import (
	"math"
	"testing"
)

// TestScenarios runs the literal worked examples from SPEC_FULL.md §8.
func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{
			name: "ones",
			x:    []float64{1.0, 1.0, 1.0},
			y:    []float64{1.0, 1.0, 1.0},
			want: 3.0,
		},
		{
			name: "cancellation recovers small term",
			x:    []float64{1e20, 1.0, -1e20},
			y:    []float64{1.0, 1.0, 1.0},
			want: 1.0,
		},
		{
			name: "subnormal sum",
			x:    []float64{math.Float64frombits(1), math.Float64frombits(1)},
			y:    []float64{1.0, 1.0},
			want: math.Float64frombits(2),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DotRepro(tc.x, tc.y)
			if got != tc.want {
				t.Errorf("DotRepro(%v,%v) = %v (%#x), want %v (%#x)",
					tc.x, tc.y, got, math.Float64bits(got), tc.want, math.Float64bits(tc.want))
			}
		})
	}
}

// TestScenariosNaN covers the exceptional-output scenarios, which must
// all collapse to the single canonical quiet NaN bit pattern.
func TestScenariosNaN(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
	}{
		{
			name: "inf times zero is invalid",
			x:    []float64{math.Inf(1), 1.0},
			y:    []float64{0.0, 1.0},
		},
		{
			name: "opposite infinities collide",
			x:    []float64{math.Inf(1), math.Inf(-1)},
			y:    []float64{1.0, 1.0},
		},
		{
			name: "nan operand propagates",
			x:    []float64{math.NaN(), 1.0},
			y:    []float64{1.0, 1.0},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DotRepro(tc.x, tc.y)
			if !math.IsNaN(got) {
				t.Fatalf("DotRepro(%v,%v) = %v, want NaN", tc.x, tc.y, got)
			}
			if math.Float64bits(got) != 0x7FF8000000000000 {
				t.Errorf("DotRepro(%v,%v) bits = %#x, want canonical quiet NaN", tc.x, tc.y, math.Float64bits(got))
			}
		})
	}
}

// TestScenarioBlockSizeInvariance checks scenario 7: summing 100 terms
// sequentially vs. with an odd block size of 7 must be bit-identical.
func TestScenarioBlockSizeInvariance(t *testing.T) {
	n := 100
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = 1.0
		y[i] = 0.1
	}

	seq := DotRepro(x, y)
	blocked := DotReproParallel(x, y, ParallelConfig{BlockSize: 7})
	if math.Float64bits(seq) != math.Float64bits(blocked) {
		t.Errorf("sequential = %v (%#x), block-size-7 = %v (%#x)",
			seq, math.Float64bits(seq), blocked, math.Float64bits(blocked))
	}
}

// TestOnlyPositiveInfinity and TestOnlyNegativeInfinity check the
// single-sign infinity outcomes, distinct from the NaN-colliding cases
// above.
func TestOnlyPositiveInfinity(t *testing.T) {
	got := DotRepro([]float64{math.Inf(1), 1.0}, []float64{1.0, 1.0})
	if !math.IsInf(got, 1) {
		t.Errorf("got %v, want +Inf", got)
	}
}

func TestOnlyNegativeInfinity(t *testing.T) {
	got := DotRepro([]float64{math.Inf(-1), 1.0}, []float64{1.0, 1.0})
	if !math.IsInf(got, -1) {
		t.Errorf("got %v, want -Inf", got)
	}
}
