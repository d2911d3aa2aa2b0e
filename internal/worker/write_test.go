package worker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/superoptimizer/volcano/internal/csvio"
)

func TestWriteOutputWritesAllFiveFiles(t *testing.T) {
	dir := t.TempDir()
	out := &Output{
		Coord:       Coord{Z: 128, Y: 0, X: 256},
		Superpixels: []csvio.SuperpixelRecord{{Z: 1, Y: 2, X: 3, Intensity: 50, PixelCount: 10}},
		Chords:      [][]uint32{{0}},
		ChordStats:  []csvio.ChordStatsRecord{{ChordID: 0, NumSuperpixels: 1}},
		ChordPoints: []csvio.ChordPointRecord{{ChordID: 0, SuperpixelID: 0}},
		FiberChords: []csvio.FiberChordRecord{{ChordID: 0}},
	}

	if err := WriteOutput(dir, out, false); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	paths := csvio.NewPaths(dir, [3]int{128, 0, 256}, false)
	for _, p := range []string{paths.Superpixels, paths.Chords, paths.ChordStats, paths.ChordPoints, paths.ChordFiber} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
		}
		if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
			t.Errorf("expected no leftover tmp file for %s", p)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected exactly 5 files in %s, got %d", dir, len(entries))
	}
}

func TestWriteOutputLeavesNoFinalFilesOnFailure(t *testing.T) {
	// A directory that does not exist makes every os.Create fail,
	// exercising the "none written" half of the all-or-nothing contract.
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	out := &Output{Coord: Coord{}}

	if err := WriteOutput(dir, out, false); err == nil {
		t.Fatalf("expected an error writing into a nonexistent directory")
	}

	paths := csvio.NewPaths(dir, [3]int{0, 0, 0}, false)
	for _, p := range []string{paths.Superpixels, paths.Chords, paths.ChordStats, paths.ChordPoints, paths.ChordFiber} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("expected no final file at %s after a failed write", p)
		}
	}
}
