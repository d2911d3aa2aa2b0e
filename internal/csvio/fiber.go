package csvio

import "strconv"

// FiberChordRecord is one row of the supplemented chords.fiber.Z.Y.X.csv
// (SPEC_FULL.md's SUPPLEMENTED FEATURES section), grounded on
// original_source/volcano.c's per-chord fiber-connected-component
// tagging: each chord is annotated with the distinct fiber-mask
// component labels its superpixels touch, capped at 32 per the
// original's assert(label<32).
type FiberChordRecord struct {
	ChordID     int
	FiberLabels []uint32
}

const maxFiberLabels = 32

// WriteFiberChordLabels writes chords.fiber.Z.Y.X.csv: header
// chord_id,fiber_labels, where fiber_labels is a comma-joined list
// (possibly empty) of distinct component labels, truncated to
// maxFiberLabels entries.
func WriteFiberChordLabels(path string, records []FiberChordRecord, compressed bool) error {
	wc, w, err := openWriter(path, compressed)
	if err != nil {
		return err
	}
	defer wc.Close()

	if err := w.Write([]string{"chord_id", "fiber_labels"}); err != nil {
		return err
	}
	for _, r := range records {
		labels := r.FiberLabels
		if len(labels) > maxFiberLabels {
			labels = labels[:maxFiberLabels]
		}
		joined := ""
		for i, l := range labels {
			if i > 0 {
				joined += ","
			}
			joined += strconv.FormatUint(uint64(l), 10)
		}
		if err := w.Write([]string{strconv.Itoa(r.ChordID), joined}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
