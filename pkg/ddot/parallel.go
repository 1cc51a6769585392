package ddot

import (
	"runtime"
	"sync"

	"github.com/oisee/ddotrepro/pkg/accum"
	"github.com/oisee/ddotrepro/pkg/except"
)

// ParallelConfig controls how DotReproParallel partitions work across
// goroutines. A zero-value ParallelConfig is filled in with runtime.NumCPU
// workers and an even split of the index range.
type ParallelConfig struct {
	// NumWorkers is the number of goroutines to run. Defaults to
	// runtime.NumCPU() when <= 0.
	NumWorkers int
	// BlockSize, when > 0, overrides NumWorkers-based splitting with a
	// fixed chunk length (the last chunk may be shorter).
	BlockSize int
}

// chunk is a contiguous, half-open index range [start, end).
type chunk struct {
	start, end int
}

// DotReproParallel computes the same reproducible dot product as
// DotRepro, but splits x/y into blocks processed by independent
// goroutines, one private accumulator and exception state per block,
// merged via accum.Merge/except.Merge before finalizing.
//
// Because every block update is exact integer arithmetic on a shared
// fixed-point grid, the result is bit-identical to DotRepro regardless of
// NumWorkers or BlockSize.
func DotReproParallel(x, y []float64, cfg ParallelConfig) float64 {
	if len(x) != len(y) {
		panic("ddot: x and y have different lengths")
	}
	n := len(x)
	if n == 0 {
		return accum.New().Finalize(except.State{})
	}

	chunks := partition(n, cfg)
	return runChunks(x, y, chunks)
}

// DotReproWithBoundaries computes the reproducible dot product using an
// explicit, arbitrary partition of [0, len(x)) given as sorted interior
// cut points (each in (0, n)). Used by pkg/partition to fuzz irregular
// block shapes that ParallelConfig's even/fixed-size splitting can't
// express.
func DotReproWithBoundaries(x, y []float64, boundaries []int) float64 {
	if len(x) != len(y) {
		panic("ddot: x and y have different lengths")
	}
	n := len(x)
	if n == 0 {
		return accum.New().Finalize(except.State{})
	}
	return runChunks(x, y, chunksFromBoundaries(n, boundaries))
}

// runChunks processes each chunk on its own goroutine into a private
// accumulator and exception state, then merges all of them into one
// before finalizing: goroutine-per-chunk with a WaitGroup fan-in.
func runChunks(x, y []float64, chunks []chunk) float64 {
	if len(chunks) == 1 {
		return DotRepro(x[chunks[0].start:chunks[0].end], y[chunks[0].start:chunks[0].end])
	}

	results := make([]struct {
		a   *accum.Accumulator
		exc except.State
	}, len(chunks))

	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for i, c := range chunks {
		i, c := i, c
		go func() {
			defer wg.Done()
			a := accum.New()
			var exc except.State
			accumulate(a, &exc, x[c.start:c.end], y[c.start:c.end])
			results[i].a = a
			results[i].exc = exc
		}()
	}
	wg.Wait()

	merged := accum.New()
	var mergedExc except.State
	for _, r := range results {
		accum.Merge(merged, r.a)
		mergedExc = except.Merge(mergedExc, r.exc)
	}
	return merged.Finalize(mergedExc)
}

// chunksFromBoundaries turns a sorted list of interior cut points into
// contiguous chunks covering [0, n).
func chunksFromBoundaries(n int, boundaries []int) []chunk {
	if len(boundaries) == 0 {
		return []chunk{{0, n}}
	}
	chunks := make([]chunk, 0, len(boundaries)+1)
	start := 0
	for _, b := range boundaries {
		chunks = append(chunks, chunk{start, b})
		start = b
	}
	chunks = append(chunks, chunk{start, n})
	return chunks
}

// partition splits [0, n) into chunks according to cfg, following
// BlockSize when set and otherwise splitting as evenly as possible across
// NumWorkers goroutines.
func partition(n int, cfg ParallelConfig) []chunk {
	if cfg.BlockSize > 0 {
		return partitionByBlockSize(n, cfg.BlockSize)
	}
	workers := cfg.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return []chunk{{0, n}}
	}
	return partitionEvenly(n, workers)
}

func partitionByBlockSize(n, blockSize int) []chunk {
	var chunks []chunk
	for start := 0; start < n; start += blockSize {
		end := start + blockSize
		if end > n {
			end = n
		}
		chunks = append(chunks, chunk{start, end})
	}
	return chunks
}

func partitionEvenly(n, workers int) []chunk {
	base := n / workers
	rem := n % workers
	chunks := make([]chunk, 0, workers)
	start := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < rem {
			size++
		}
		if size == 0 {
			continue
		}
		chunks = append(chunks, chunk{start, start + size})
		start += size
	}
	return chunks
}
