// Package report persists progress for long-running benchmark and fuzz
// sessions around the dot product kernel: per-block snapshots and gob
// checkpoints.
package report

import (
	"sort"
	"sync"

	"github.com/oisee/ddotrepro/pkg/accum"
	"github.com/oisee/ddotrepro/pkg/except"
)

// BlockResult is a snapshot of one block's contribution to a reduction:
// its index range, its accumulator's exact limb state, and its
// exceptional-value flags. Not part of the mathematical contract — purely
// a diagnostics/checkpoint concern.
type BlockResult struct {
	StartIdx int
	EndIdx   int
	Limbs    [accum.NumLimbs]uint64
	Except   except.State
}

// Accumulator reconstructs the accum.Accumulator this block snapshotted.
func (b BlockResult) Accumulator() *accum.Accumulator {
	return accum.FromLimbs(b.Limbs)
}

// Log collects BlockResults from a benchmark or fuzz run, guarded by a
// mutex since blocks are typically reported from worker goroutines.
type Log struct {
	mu      sync.Mutex
	results []BlockResult
}

// NewLog creates an empty block log.
func NewLog() *Log {
	return &Log{}
}

// Add records one block's result.
func (l *Log) Add(r BlockResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, r)
}

// Results returns a copy of all recorded blocks, sorted by start index.
func (l *Log) Results() []BlockResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]BlockResult, len(l.results))
	copy(out, l.results)
	sort.Slice(out, func(i, j int) bool { return out[i].StartIdx < out[j].StartIdx })
	return out
}

// Len returns the number of recorded blocks.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.results)
}
