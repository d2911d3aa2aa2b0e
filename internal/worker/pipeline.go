package worker

import (
	"fmt"
	"math/rand"

	"github.com/superoptimizer/volcano/internal/adjacency"
	"github.com/superoptimizer/volcano/internal/chord"
	"github.com/superoptimizer/volcano/internal/chordstats"
	"github.com/superoptimizer/volcano/internal/preprocess"
	"github.com/superoptimizer/volcano/internal/scalarfield"
	"github.com/superoptimizer/volcano/internal/snic"
)

// Coord is a chunk's origin in global voxel coordinates (always a
// multiple of Config.ChunkSize along each axis).
type Coord struct {
	Z, Y, X int
}

// zero reports whether c is the zero coordinate (z=y=x=0), used as the
// "no resume point set" sentinel for Config.StartCoord.
func (c Coord) zero() bool {
	return c == Coord{}
}

// after reports whether c sorts strictly after other in the Z/Y/X walk
// order used by Pool.runRange.
func (c Coord) after(other Coord) bool {
	if c.Z != other.Z {
		return c.Z > other.Z
	}
	if c.Y != other.Y {
		return c.Y > other.Y
	}
	return c.X > other.X
}

// Result summarises one chunk's processing outcome, used for logging
// and job-progress reporting.
type Result struct {
	Coord          Coord
	Skipped        bool
	SkipReason     string
	NumSuperpixels int
	NumChords      int
	NumFiberLabels int
}

// maxOf returns the largest value in a field's raw buffer, mirroring
// original_source/volcano.h's vs_chunk_max used for the fiber gate.
func maxOf(f *scalarfield.Field) float32 {
	raw := f.Raw()
	if len(raw) == 0 {
		return 0
	}
	m := raw[0]
	for _, v := range raw[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// ProcessChunk runs the full per-chunk pipeline over already-fetched
// volume and fiber fields: denoise+segment the volume, cluster it with
// SNIC, build the adjacency graph, grow chords, label the fiber mask's
// connected components, and return a summary plus the output records
// ready for CSV serialisation. It performs no I/O itself — callers
// (Pool.processOne) own fetching and writing — mirroring
// original_source/volcano.c's worker_thread body, minus its file I/O.
//
// A chunk whose fiber mask maximum is below cfg.FiberMaxThreshold is
// skipped (neither an error nor a partial result), matching the
// original's `if (vs_chunk_max(fiberchunk) < 0.5f) goto cleanup;` gate.
func ProcessChunk(cfg Config, volume, fiber *scalarfield.Field, coord Coord, rng *rand.Rand) (*Result, *Output, error) {
	if maxOf(fiber) < cfg.FiberMaxThreshold {
		return &Result{Coord: coord, Skipped: true, SkipReason: "fiber mask below threshold"}, nil, nil
	}

	denoised := preprocess.AvgPoolDenoise(volume, cfg.DenoiseKernel)
	cleaned := preprocess.SegmentAndClean(denoised, cfg.IsoThreshold, cfg.IsoThreshold+cfg.IsoRange)

	// The fiber store's chunk layout transposes y and x relative to the
	// volume store; original_source/volcano.c reads the fiber chunk key
	// as "z.x.y" while the volume chunk key is "z/y/x", then explicitly
	// re-transposes the decoded array from "zxy" to "zyx" before use.
	// Preserved here exactly since no rationale for the asymmetry is
	// given in the kept source and the spec is silent on it.
	fiberZYX, err := preprocess.Transpose(fiber, "zxy", "zyx")
	if err != nil {
		return nil, nil, fmt.Errorf("worker: transposing fiber chunk: %w", err)
	}
	dilatedFiber := preprocess.Dilate(fiberZYX, cfg.FiberDilateRadius)

	snicResult, err := snic.Cluster(cleaned, cfg.SnicParams)
	if err != nil {
		return nil, nil, fmt.Errorf("worker: snic clustering: %w", err)
	}
	filtered := snic.Filter(snicResult, cfg.FilterNMin, cfg.FilterCMin)

	graph, err := adjacency.Build(filtered.Labels, cleaned, len(filtered.Superpixels))
	if err != nil {
		return nil, nil, fmt.Errorf("worker: building adjacency graph: %w", err)
	}

	centroids := make([]chord.Centroid, len(filtered.Superpixels))
	for i, sp := range filtered.Superpixels {
		centroids[i] = chord.Centroid{Z: sp.Z, Y: sp.Y, X: sp.X, Intensity: sp.C}
	}

	lz, ly, lx := cleaned.Dims()
	bounds := [2][3]float64{{0, 0, 0}, {float64(lz), float64(ly), float64(lx)}}
	chords := chord.Grow(centroids, graph, cfg.Axis, cfg.ChordConfig, bounds, rng)

	labeledFiber, numFiberLabels := preprocess.LabelComponents(dilatedFiber)

	out := buildOutput(coord, filtered.Superpixels, chords, centroids, labeledFiber)

	return &Result{
		Coord:          coord,
		NumSuperpixels: len(filtered.Superpixels),
		NumChords:      len(chords),
		NumFiberLabels: numFiberLabels,
	}, out, nil
}
