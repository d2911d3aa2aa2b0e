package csvio

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteChords writes chords.Z.Y.X.csv: header "points", each row a
// comma-joined list of superpixel ids for one ordered chord.
func WriteChords(path string, chords [][]uint32, compressed bool) error {
	wc, w, err := openWriter(path, compressed)
	if err != nil {
		return err
	}
	defer wc.Close()

	if err := w.Write([]string{"points"}); err != nil {
		return err
	}
	for _, c := range chords {
		ids := make([]string, len(c))
		for i, id := range c {
			ids[i] = strconv.FormatUint(uint64(id), 10)
		}
		if err := w.Write([]string{strings.Join(ids, ",")}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadChords reads a chords CSV written by WriteChords, returning the
// ordered id sequences in file order.
func ReadChords(path string, compressed bool) ([][]uint32, error) {
	rc, r, err := openReader(path, compressed)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	if err := expectHeader(header, "points"); err != nil {
		return nil, err
	}

	var out [][]uint32
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) != 1 {
			return nil, fmt.Errorf("csvio: expected 1 field, got %d", len(row))
		}
		parts := strings.Split(row[0], ",")
		ids := make([]uint32, len(parts))
		for i, p := range parts {
			v, err := strconv.ParseUint(p, 10, 32)
			if err != nil {
				return nil, err
			}
			ids[i] = uint32(v)
		}
		out = append(out, ids)
	}
	return out, nil
}

// ChordStatsRecord is one row of chords.stats.Z.Y.X.csv.
type ChordStatsRecord struct {
	ChordID        int
	NumSuperpixels int
	TotalLength    float64
	AvgStep        float64
	Straightness   float64
	AvgIntensity   float64
	MinIntensity   float64
	MaxIntensity   float64
	BBoxZSize      float64
	BBoxYSize      float64
	BBoxXSize      float64
}

var chordStatsHeader = []string{
	"chord_id", "num_superpixels", "total_length", "avg_step", "straightness",
	"avg_intensity", "min_intensity", "max_intensity",
	"bbox_z_size", "bbox_y_size", "bbox_x_size",
}

// WriteChordStats writes chords.stats.Z.Y.X.csv.
func WriteChordStats(path string, records []ChordStatsRecord, compressed bool) error {
	wc, w, err := openWriter(path, compressed)
	if err != nil {
		return err
	}
	defer wc.Close()

	if err := w.Write(chordStatsHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ChordID),
			strconv.Itoa(r.NumSuperpixels),
			strconv.FormatFloat(r.TotalLength, 'f', 4, 64),
			strconv.FormatFloat(r.AvgStep, 'f', 4, 64),
			strconv.FormatFloat(r.Straightness, 'f', 4, 64),
			strconv.FormatFloat(r.AvgIntensity, 'f', 4, 64),
			strconv.FormatFloat(r.MinIntensity, 'f', 4, 64),
			strconv.FormatFloat(r.MaxIntensity, 'f', 4, 64),
			strconv.FormatFloat(r.BBoxZSize, 'f', 4, 64),
			strconv.FormatFloat(r.BBoxYSize, 'f', 4, 64),
			strconv.FormatFloat(r.BBoxXSize, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ChordPointRecord is one row of chords.only.Z.Y.X.csv.
type ChordPointRecord struct {
	ChordID      int
	SuperpixelID uint32
	Z, Y, X      float64
	Intensity    float64
	PixelCount   uint32
}

var chordPointsHeader = []string{"chord_id", "superpixel_id", "z", "y", "x", "intensity", "pixel_count"}

// WriteChordPoints writes chords.only.Z.Y.X.csv: one row per
// (chord, point) pair.
func WriteChordPoints(path string, records []ChordPointRecord, compressed bool) error {
	wc, w, err := openWriter(path, compressed)
	if err != nil {
		return err
	}
	defer wc.Close()

	if err := w.Write(chordPointsHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ChordID),
			strconv.FormatUint(uint64(r.SuperpixelID), 10),
			strconv.FormatFloat(r.Z, 'f', 1, 64),
			strconv.FormatFloat(r.Y, 'f', 1, 64),
			strconv.FormatFloat(r.X, 'f', 1, 64),
			strconv.FormatFloat(r.Intensity, 'f', 1, 64),
			strconv.FormatUint(uint64(r.PixelCount), 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
