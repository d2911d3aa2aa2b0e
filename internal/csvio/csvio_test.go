package csvio

import (
	"path/filepath"
	"reflect"
	"strconv"
	"testing"
)

func TestSuperpixelRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "superpixels.0.0.0.csv")

	records := []SuperpixelRecord{
		{Z: 1.5, Y: 2.25, X: 3.05, Intensity: 128.45, PixelCount: 8},
		{Z: 0, Y: 0, X: 0, Intensity: 0, PixelCount: 0},
	}
	if err := WriteSuperpixels(path, records, false); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSuperpixels(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	// Compare rounded to 1 decimal place, matching the on-disk format.
	for i := range records {
		if round1(got[i].Z) != round1(records[i].Z) ||
			round1(got[i].Intensity) != round1(records[i].Intensity) ||
			got[i].PixelCount != records[i].PixelCount {
			t.Fatalf("record %d mismatch: got %+v want %+v", i, got[i], records[i])
		}
	}
}

func round1(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}

func TestSuperpixelRoundTripCompressed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "superpixels.0.0.0.csv.gz")

	records := []SuperpixelRecord{{Z: 5, Y: 6, X: 7, Intensity: 200, PixelCount: 42}}
	if err := WriteSuperpixels(path, records, true); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSuperpixels(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].PixelCount != 42 {
		t.Fatalf("unexpected round-trip result: %+v", got)
	}
}

func TestChordRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chords.0.0.0.csv")

	chords := [][]uint32{{1, 2, 3}, {10, 20}}
	if err := WriteChords(path, chords, false); err != nil {
		t.Fatal(err)
	}
	got, err := ReadChords(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 chords, got %d", len(got))
	}
	if !reflect.DeepEqual(got[0], chords[0]) {
		t.Fatalf("chord 0 mismatch: got %v want %v", got[0], chords[0])
	}
	if !reflect.DeepEqual(got[1], chords[1]) {
		t.Fatalf("chord 1 mismatch: got %v want %v", got[1], chords[1])
	}
}

func TestChordStatsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chords.stats.0.0.0.csv")
	records := []ChordStatsRecord{
		{ChordID: 0, NumSuperpixels: 12, TotalLength: 11.2, AvgStep: 1.02, Straightness: 0.95,
			AvgIntensity: 120, MinIntensity: 80, MaxIntensity: 180, BBoxZSize: 12, BBoxYSize: 3, BBoxXSize: 2},
	}
	if err := WriteChordStats(path, records, false); err != nil {
		t.Fatal(err)
	}
}

func TestChordPointsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chords.only.0.0.0.csv")
	records := []ChordPointRecord{
		{ChordID: 0, SuperpixelID: 5, Z: 1, Y: 2, X: 3, Intensity: 90, PixelCount: 6},
	}
	if err := WriteChordPoints(path, records, false); err != nil {
		t.Fatal(err)
	}
}

func TestChunkCoordDividesBy128(t *testing.T) {
	z, y, x := ChunkCoord([3]int{256, 384, 0})
	if z != 2 || y != 3 || x != 0 {
		t.Fatalf("expected (2,3,0), got (%d,%d,%d)", z, y, x)
	}
}

func TestNewPathsCompressedSuffix(t *testing.T) {
	p := NewPaths("/tmp/out", [3]int{128, 128, 128}, true)
	if filepath.Ext(p.Superpixels) != ".gz" {
		t.Fatalf("expected .gz suffix, got %s", p.Superpixels)
	}
}
