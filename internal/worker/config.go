// Package worker orchestrates the per-chunk pipeline — fetch, preprocess,
// SNIC, adjacency, chord growth, fiber tagging, and CSV output — across a
// pool of goroutines, one per disjoint Z-range of the scroll volume.
// Grounded on original_source/volcano.c's worker_thread (the single-chunk
// body) and scroll_1a_snic_chord (the thread-per-Z-range fan-out), and on
// the teacher's internal/server job-tracking shape for the pool itself.
package worker

import (
	"github.com/superoptimizer/volcano/internal/chord"
	"github.com/superoptimizer/volcano/internal/snic"
)

// Config bundles every tunable the pipeline needs for one run, mirroring
// original_source/volcano.c's compile-time constants (zmax/ymax/xmax,
// iso, dims) as runtime configuration instead.
type Config struct {
	// ChunkSize is the cube side of one zarr chunk (128 in the original).
	ChunkSize int
	// Zmax, Ymax, Xmax bound the volume's voxel extent along each axis.
	Zmax, Ymax, Xmax int

	// DenoiseKernel is the box-filter window passed to
	// preprocess.AvgPoolDenoise. Default 3.
	DenoiseKernel int
	// IsoThreshold is segment_and_clean's flood-fill iso floor. Default 32.
	IsoThreshold float32
	// IsoRange is added to IsoThreshold to form the flood-fill seed
	// (start) threshold, mirroring the original's "iso + 96.0f". Default 96.
	IsoRange float32

	// FiberMaxThreshold gates chunk processing: a chunk whose fiber mask
	// maximum is below this value is skipped entirely. Default 0.5.
	FiberMaxThreshold float32
	// FiberDilateRadius grows the (eroded, per the original's comment)
	// fiber mask before component labelling. Default 7.
	FiberDilateRadius int

	SnicParams  snic.Params
	FilterNMin  uint32
	FilterCMin  float64

	Axis        chord.Axis
	ChordConfig chord.Config

	OutputDir  string
	Compressed bool

	NumWorkers int
	RandSeed   int64

	// StartCoord, when non-zero, resumes a walk by skipping every chunk
	// that sorts at or before it in Z/Y/X lexicographic walk order. Used
	// by internal/server to resume a job from its last checkpoint.
	StartCoord Coord
}

// DefaultConfig returns the original source's own constants translated
// into runtime configuration (iso=32, dims=128 implied by ChunkSize,
// dilate radius 7, fiber gate 0.5, chord axis 0 i.e. Z).
func DefaultConfig() Config {
	return Config{
		ChunkSize:         128,
		DenoiseKernel:     3,
		IsoThreshold:      32.0,
		IsoRange:          96.0,
		FiberMaxThreshold: 0.5,
		FiberDilateRadius: 7,
		SnicParams:        snic.DefaultParams(),
		FilterNMin:        1,
		FilterCMin:        32.0,
		Axis:              chord.AxisZ,
		ChordConfig:       chord.DefaultConfig(),
		NumWorkers:        1,
		RandSeed:          42,
	}
}
