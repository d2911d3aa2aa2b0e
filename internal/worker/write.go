package worker

import (
	"fmt"
	"os"

	"github.com/superoptimizer/volcano/internal/csvio"
)

// WriteOutput serialises an Output's record sets to dir using the
// standard five-file naming convention (csvio.NewPaths), guaranteeing
// either all five files land at their final names or none do: each is
// first written to a ".tmp" sibling, and only once every write has
// succeeded are all five renamed into place. Grounded on
// internal/store/fs_store.go's single-file temp+rename pattern,
// generalised here to a multi-file per-chunk output set per
// SPEC_FULL.md §7 ("either all CSVs are written or none are").
func WriteOutput(dir string, out *Output, compressed bool) error {
	origin := [3]int{out.Coord.Z, out.Coord.Y, out.Coord.X}
	paths := csvio.NewPaths(dir, origin, compressed)

	type write struct {
		tmp, final string
	}
	var writes []write

	stage := func(final string, fn func(tmp string) error) error {
		tmp := final + ".tmp"
		if err := fn(tmp); err != nil {
			return err
		}
		writes = append(writes, write{tmp: tmp, final: final})
		return nil
	}

	cleanup := func() {
		for _, w := range writes {
			os.Remove(w.tmp)
		}
	}

	if err := stage(paths.Superpixels, func(tmp string) error {
		return csvio.WriteSuperpixels(tmp, out.Superpixels, compressed)
	}); err != nil {
		cleanup()
		return fmt.Errorf("worker: writing superpixels csv: %w", err)
	}
	if err := stage(paths.Chords, func(tmp string) error {
		return csvio.WriteChords(tmp, out.Chords, compressed)
	}); err != nil {
		cleanup()
		return fmt.Errorf("worker: writing chords csv: %w", err)
	}
	if err := stage(paths.ChordStats, func(tmp string) error {
		return csvio.WriteChordStats(tmp, out.ChordStats, compressed)
	}); err != nil {
		cleanup()
		return fmt.Errorf("worker: writing chord stats csv: %w", err)
	}
	if err := stage(paths.ChordPoints, func(tmp string) error {
		return csvio.WriteChordPoints(tmp, out.ChordPoints, compressed)
	}); err != nil {
		cleanup()
		return fmt.Errorf("worker: writing chord points csv: %w", err)
	}
	if err := stage(paths.ChordFiber, func(tmp string) error {
		return csvio.WriteFiberChordLabels(tmp, out.FiberChords, compressed)
	}); err != nil {
		cleanup()
		return fmt.Errorf("worker: writing fiber labels csv: %w", err)
	}

	for i, w := range writes {
		if err := os.Rename(w.tmp, w.final); err != nil {
			for _, done := range writes[:i] {
				os.Remove(done.final)
			}
			for _, rest := range writes[i:] {
				os.Remove(rest.tmp)
			}
			return fmt.Errorf("worker: renaming %s into place: %w", w.final, err)
		}
	}
	return nil
}
