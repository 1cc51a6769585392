package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oisee/ddotrepro/pkg/accum"
	"github.com/oisee/ddotrepro/pkg/decode"
	"github.com/oisee/ddotrepro/pkg/except"
)

func TestLogAddAndResults(t *testing.T) {
	l := NewLog()
	l.Add(BlockResult{StartIdx: 10, EndIdx: 20})
	l.Add(BlockResult{StartIdx: 0, EndIdx: 10})
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	got := l.Results()
	if got[0].StartIdx != 0 || got[1].StartIdx != 10 {
		t.Errorf("Results() not sorted by StartIdx: %+v", got)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	a := accum.New()
	_, one := decode.Decode(1.0)
	_, two := decode.Decode(2.0)
	a.Add(one, two)

	var exc except.State
	exc.Set(except.FlagPosInf)

	orig := &Checkpoint{
		Blocks: []BlockResult{
			{StartIdx: 0, EndIdx: 100, Limbs: a.Limbs(), Except: exc},
		},
		CompletedSize: 2,
		CompletedPass: 3,
	}

	path := filepath.Join(t.TempDir(), "ckpt.gob")
	if err := SaveCheckpoint(path, orig); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}
	got, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if got.CompletedSize != orig.CompletedSize || got.CompletedPass != orig.CompletedPass {
		t.Errorf("checkpoint scalar fields mismatch: got %+v, want %+v", got, orig)
	}
	if len(got.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(got.Blocks))
	}
	if !got.Blocks[0].Except.Has(except.FlagPosInf) {
		t.Error("checkpointed except.State lost FlagPosInf across gob round trip")
	}
	if got.Blocks[0].Limbs != a.Limbs() {
		t.Error("checkpointed limbs do not match original accumulator")
	}
}

func TestCheckpointMergedAccumulator(t *testing.T) {
	a1 := accum.New()
	_, three := decode.Decode(3.0)
	_, four := decode.Decode(4.0)
	a1.Add(three, four) // 12

	a2 := accum.New()
	_, five := decode.Decode(5.0)
	_, six := decode.Decode(6.0)
	a2.Add(five, six) // 30

	ckpt := &Checkpoint{
		Blocks: []BlockResult{
			{StartIdx: 0, EndIdx: 1, Limbs: a1.Limbs()},
			{StartIdx: 1, EndIdx: 2, Limbs: a2.Limbs()},
		},
	}
	merged, exc := ckpt.MergedAccumulator()
	got := merged.Finalize(exc)
	if got != 42 {
		t.Errorf("MergedAccumulator finalize = %v, want 42", got)
	}
}

func TestLoadCheckpointMissingFile(t *testing.T) {
	_, err := LoadCheckpoint(filepath.Join(os.TempDir(), "does-not-exist-ddotrepro.gob"))
	if err == nil {
		t.Fatal("expected error loading nonexistent checkpoint")
	}
}
