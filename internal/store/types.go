package store

import (
	"fmt"
	"time"
)

// JobConfig holds configuration for a volume-processing job (checkpoint copy).
// This avoids import cycles with the server package.
type JobConfig struct {
	VolumeURL   string `json:"volumeUrl"`
	VolumeArray string `json:"volumeArray"`
	FiberURL    string `json:"fiberUrl"`
	FiberArray  string `json:"fiberArray"`
	OutputDir   string `json:"outputDir"`
	Zmax        int    `json:"zmax"`
	Ymax        int    `json:"ymax"`
	Xmax        int    `json:"xmax"`
	Axis        string `json:"axis"` // z, y, or x
	NumWorkers  int    `json:"numWorkers"`
	Seed        int64  `json:"seed"`
	Compressed  bool   `json:"compressed"`
	// CheckpointInterval is how often, in seconds, progress is persisted (0 = disabled).
	CheckpointInterval int `json:"checkpointInterval,omitempty"`
}

// Checkpoint represents saved progress through a chunked volume-processing
// run that can be resumed later. All fields are serialized to JSON for
// persistence.
//
// Resume Handling:
//
// The checkpoint saves how far the chunk walk has progressed, not any
// in-memory clustering state. This keeps resume simple:
//
// SAVED STATE:
//   - LastCoord: the last chunk coordinate that finished writing its CSVs
//   - ChunksProcessed / ChunksSkipped: running totals for progress reporting
//   - Config: the job configuration (volume/fiber sources, extent, axis, ...)
//
// RESUME STRATEGY:
// Resuming a job re-walks the Z/Y/X chunk grid from Config and skips any
// coordinate at or before LastCoord in walk order. Because each chunk's
// CSV output is written atomically (internal/worker.WriteOutput), a chunk
// either has a complete set of output files or none at all, so skipping by
// coordinate never resumes into a half-written chunk.
type Checkpoint struct {
	// JobID is the unique identifier for this processing job.
	JobID string `json:"jobId"`

	// LastCoord is the chunk coordinate most recently completed.
	LastCoord ChunkCoord `json:"lastCoord"`

	// ChunksProcessed is the number of chunks successfully written so far.
	ChunksProcessed int `json:"chunksProcessed"`

	// ChunksSkipped is the number of chunks skipped (e.g. empty fiber mask).
	ChunksSkipped int `json:"chunksSkipped"`

	// ChunksTotal is the total number of chunks the walk expects to visit,
	// derived from Config's extent and chunk size.
	ChunksTotal int `json:"chunksTotal"`

	// Timestamp records when this checkpoint was created.
	Timestamp time.Time `json:"timestamp"`

	// Config holds the job configuration, needed for validation during resume.
	// We ensure that resumed jobs use compatible settings (same volume, axis, etc.)
	Config JobConfig `json:"config"`
}

// ChunkCoord identifies a chunk's origin within the volume grid.
type ChunkCoord struct {
	Z int `json:"z"`
	Y int `json:"y"`
	X int `json:"x"`
}

// CheckpointInfo contains metadata about a checkpoint without repeating the
// full job configuration. Used for listing checkpoints efficiently.
type CheckpointInfo struct {
	// JobID is the unique identifier for this checkpoint.
	JobID string `json:"jobId"`

	// ChunksProcessed is the number of chunks completed at checkpoint time.
	ChunksProcessed int `json:"chunksProcessed"`

	// ChunksTotal is the total expected chunk count.
	ChunksTotal int `json:"chunksTotal"`

	// Timestamp records when this checkpoint was created.
	Timestamp time.Time `json:"timestamp"`

	// VolumeURL is the source volume zarr store URL.
	VolumeURL string `json:"volumeUrl"`

	// OutputDir is the directory the job is writing CSVs into.
	OutputDir string `json:"outputDir"`
}

// NewCheckpoint creates a checkpoint from job progress.
// This is a helper for converting runtime job state to a persistable checkpoint.
func NewCheckpoint(jobID string, lastCoord ChunkCoord, chunksProcessed, chunksSkipped, chunksTotal int, config JobConfig) *Checkpoint {
	return &Checkpoint{
		JobID:           jobID,
		LastCoord:       lastCoord,
		ChunksProcessed: chunksProcessed,
		ChunksSkipped:   chunksSkipped,
		ChunksTotal:     chunksTotal,
		Timestamp:       time.Now(),
		Config:          config,
	}
}

// ToInfo converts a full Checkpoint to CheckpointInfo (metadata only).
func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{
		JobID:           c.JobID,
		ChunksProcessed: c.ChunksProcessed,
		ChunksTotal:     c.ChunksTotal,
		Timestamp:       c.Timestamp,
		VolumeURL:       c.Config.VolumeURL,
		OutputDir:       c.Config.OutputDir,
	}
}

// Validate checks if the checkpoint has valid data.
// Returns an error if any required field is missing or invalid.
func (c *Checkpoint) Validate() error {
	if c.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if c.ChunksProcessed < 0 {
		return &ValidationError{Field: "ChunksProcessed", Reason: "cannot be negative"}
	}
	if c.ChunksSkipped < 0 {
		return &ValidationError{Field: "ChunksSkipped", Reason: "cannot be negative"}
	}
	if c.ChunksTotal < 0 {
		return &ValidationError{Field: "ChunksTotal", Reason: "cannot be negative"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if c.Config.VolumeURL == "" {
		return &ValidationError{Field: "Config.VolumeURL", Reason: "cannot be empty"}
	}
	if c.Config.FiberURL == "" {
		return &ValidationError{Field: "Config.FiberURL", Reason: "cannot be empty"}
	}
	if c.Config.Zmax <= 0 || c.Config.Ymax <= 0 || c.Config.Xmax <= 0 {
		return &ValidationError{Field: "Config.Zmax/Ymax/Xmax", Reason: "must be positive"}
	}
	if c.ChunksProcessed+c.ChunksSkipped > c.ChunksTotal && c.ChunksTotal > 0 {
		return &ValidationError{
			Field:  "ChunksProcessed",
			Reason: fmt.Sprintf("processed+skipped (%d) exceeds total (%d)", c.ChunksProcessed+c.ChunksSkipped, c.ChunksTotal),
		}
	}
	return nil
}

// ValidationError represents a checkpoint validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks if this checkpoint can be resumed with the given config.
// Returns an error if the configs are incompatible.
func (c *Checkpoint) IsCompatible(config JobConfig) error {
	if c.Config.VolumeURL != config.VolumeURL {
		return &CompatibilityError{
			Field:    "VolumeURL",
			Expected: c.Config.VolumeURL,
			Actual:   config.VolumeURL,
		}
	}
	if c.Config.FiberURL != config.FiberURL {
		return &CompatibilityError{
			Field:    "FiberURL",
			Expected: c.Config.FiberURL,
			Actual:   config.FiberURL,
		}
	}
	if c.Config.Axis != config.Axis {
		return &CompatibilityError{
			Field:    "Axis",
			Expected: c.Config.Axis,
			Actual:   config.Axis,
		}
	}
	if c.Config.Zmax != config.Zmax || c.Config.Ymax != config.Ymax || c.Config.Xmax != config.Xmax {
		return &CompatibilityError{
			Field:    "Zmax/Ymax/Xmax",
			Expected: fmt.Sprintf("%d/%d/%d", c.Config.Zmax, c.Config.Ymax, c.Config.Xmax),
			Actual:   fmt.Sprintf("%d/%d/%d", config.Zmax, config.Ymax, config.Xmax),
		}
	}
	return nil
}

// CompatibilityError represents a checkpoint compatibility error.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
