// Package csvio implements the four CSV schemas that persist superpixel
// and chord output per chunk, grounded on original_source/util.h's
// superpixels_to_csv/csv_to_superpixels/chords_to_csv/
// chords_with_data_to_csv family, plus a gzip-wrapped variant of each
// (the source's zlib compressed_csv functions, reimplemented against
// the standard compress/gzip package).
package csvio

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// SuperpixelRecord is one row of superpixels.Z.Y.X.csv: header
// z,y,x,intensity,pixel_count.
type SuperpixelRecord struct {
	Z, Y, X   float64
	Intensity float64
	PixelCount uint32
}

func openWriter(path string, compressed bool) (io.WriteCloser, *csv.Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	if !compressed {
		return f, csv.NewWriter(f), nil
	}
	gz := gzip.NewWriter(f)
	return &gzipFileCloser{gz: gz, f: f}, csv.NewWriter(gz), nil
}

type gzipFileCloser struct {
	gz *gzip.Writer
	f  *os.File
}

func (g *gzipFileCloser) Write(p []byte) (int, error) { return g.gz.Write(p) }
func (g *gzipFileCloser) Close() error {
	if err := g.gz.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

func openReader(path string, compressed bool) (io.ReadCloser, *csv.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if !compressed {
		return f, csv.NewReader(f), nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return &gzipFileReadCloser{gz: gz, f: f}, csv.NewReader(gz), nil
}

type gzipFileReadCloser struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipFileReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }
func (g *gzipFileReadCloser) Close() error {
	g.gz.Close()
	return g.f.Close()
}

// WriteSuperpixels writes the superpixels CSV (optionally gzip-wrapped)
// with one row per record, formatted to one decimal place for the
// position/intensity fields as the original source's "%.1f" format does.
func WriteSuperpixels(path string, records []SuperpixelRecord, compressed bool) error {
	wc, w, err := openWriter(path, compressed)
	if err != nil {
		return err
	}
	defer wc.Close()

	if err := w.Write([]string{"z", "y", "x", "intensity", "pixel_count"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
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

// ReadSuperpixels reads a superpixels CSV written by WriteSuperpixels.
func ReadSuperpixels(path string, compressed bool) ([]SuperpixelRecord, error) {
	rc, r, err := openReader(path, compressed)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	if err := expectHeader(header, "z", "y", "x", "intensity", "pixel_count"); err != nil {
		return nil, err
	}

	var out []SuperpixelRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, err := parseSuperpixelRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseSuperpixelRow(row []string) (SuperpixelRecord, error) {
	if len(row) != 5 {
		return SuperpixelRecord{}, fmt.Errorf("csvio: expected 5 fields, got %d", len(row))
	}
	z, err := strconv.ParseFloat(row[0], 64)
	if err != nil {
		return SuperpixelRecord{}, err
	}
	y, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return SuperpixelRecord{}, err
	}
	x, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return SuperpixelRecord{}, err
	}
	intensity, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return SuperpixelRecord{}, err
	}
	count, err := strconv.ParseUint(row[4], 10, 32)
	if err != nil {
		return SuperpixelRecord{}, err
	}
	return SuperpixelRecord{Z: z, Y: y, X: x, Intensity: intensity, PixelCount: uint32(count)}, nil
}

func expectHeader(got []string, want ...string) error {
	if len(got) != len(want) {
		return fmt.Errorf("csvio: header field count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("csvio: header mismatch: got %v want %v", got, want)
		}
	}
	return nil
}
