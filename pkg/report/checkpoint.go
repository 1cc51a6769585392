package report

import (
	"encoding/gob"
	"os"

	"github.com/oisee/ddotrepro/pkg/accum"
	"github.com/oisee/ddotrepro/pkg/except"
)

// Checkpoint holds resumable state for a long-running `bench` sweep: the
// blocks completed so far and how far through the configured size sweep
// the run got.
type Checkpoint struct {
	Blocks        []BlockResult
	CompletedSize int // number of sizes of the sweep already completed (index of the next size to run)
	CompletedPass int // number of repetitions completed at CompletedSize
}

func init() {
	gob.Register(except.State{})
}

// SaveCheckpoint writes ckpt to path as a gob stream.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(ckpt)
}

// LoadCheckpoint reads a Checkpoint previously written by SaveCheckpoint.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}

// MergedAccumulator replays every block in ckpt into a single accumulator
// and exception state, for resuming a reduction from a checkpoint.
func (c *Checkpoint) MergedAccumulator() (*accum.Accumulator, except.State) {
	merged := accum.New()
	var exc except.State
	for _, b := range c.Blocks {
		accum.Merge(merged, b.Accumulator())
		exc = except.Merge(exc, b.Except)
	}
	return merged, exc
}
