package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/superoptimizer/volcano/internal/store"
	"github.com/superoptimizer/volcano/internal/worker"
	"github.com/superoptimizer/volcano/internal/zarr"
)

// runJob executes a chunk-processing job in the background.
// If checkpointStore is not nil and job has CheckpointInterval > 0, periodic
// checkpoints of the job's walk progress are saved.
func runJob(ctx context.Context, jm *JobManager, checkpointStore store.Store, jobID string) error {
	return runJobFromCoord(ctx, jm, checkpointStore, jobID, store.ChunkCoord{})
}

// runJobFromCoord is runJob, but skips every chunk at or before resumeFrom
// in walk order — used to continue a job from its last checkpoint.
func runJobFromCoord(ctx context.Context, jm *JobManager, checkpointStore store.Store, jobID string, resumeFrom store.ChunkCoord) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) { j.State = StateRunning }); err != nil {
		return err
	}

	slog.Info("starting job", "job_id", jobID, "volume", job.Config.VolumeURL)

	cfg := workerConfigFromJobConfig(job.Config)
	cfg.StartCoord = worker.Coord{Z: resumeFrom.Z, Y: resumeFrom.Y, X: resumeFrom.X}

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	checkpointEnabled := checkpointStore != nil && job.Config.CheckpointInterval > 0
	checkpointDone := make(chan struct{})
	if checkpointEnabled {
		go monitorCheckpoints(ctx, jm, checkpointStore, jobID, checkpointDone)
	} else {
		close(checkpointDone)
	}

	src := &worker.Source{
		Volume:     zarr.NewFetcher(job.Config.VolumeURL),
		VolumePath: job.Config.VolumeArray,
		Fiber:      zarr.NewFetcher(job.Config.FiberURL),
		FiberPath:  job.Config.FiberArray,
	}
	pool := worker.NewPool(cfg, src)

	start := time.Now()
	runErr := pool.Run(ctx, func(r worker.Result) {
		jm.UpdateJob(jobID, func(j *Job) {
			if r.Skipped {
				j.ChunksSkipped++
			} else {
				j.ChunksProcessed++
			}
			j.CurrentZ, j.CurrentY, j.CurrentX = r.Coord.Z, r.Coord.Y, r.Coord.X
		})

		j, _ := jm.GetJob(jobID)
		jm.broadcaster.Broadcast(ProgressEvent{
			JobID:           jobID,
			State:           StateRunning,
			ChunksProcessed: j.ChunksProcessed,
			ChunksSkipped:   j.ChunksSkipped,
			ChunksTotal:     j.ChunksTotal,
			Timestamp:       time.Now(),
		})
	})

	close(checkpointDone)
	elapsed := time.Since(start)

	if runErr != nil && ctx.Err() != nil {
		markJobCancelled(jm, jobID)
		return ctx.Err()
	}

	endTime := time.Now()
	if runErr != nil {
		markJobFailed(jm, jobID, runErr)
		return runErr
	}

	err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	j, _ := jm.GetJob(jobID)
	chunksPerSecond := float64(0)
	if elapsed.Seconds() > 0 {
		chunksPerSecond = float64(j.ChunksProcessed+j.ChunksSkipped) / elapsed.Seconds()
	}

	slog.Info("job completed", "job_id", jobID, "elapsed", elapsed,
		"chunks_processed", j.ChunksProcessed, "chunks_skipped", j.ChunksSkipped,
		"chunks_per_second", chunksPerSecond)

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:           jobID,
		State:           StateCompleted,
		ChunksProcessed: j.ChunksProcessed,
		ChunksSkipped:   j.ChunksSkipped,
		ChunksTotal:     j.ChunksTotal,
		Timestamp:       time.Now(),
	})

	return nil
}

// workerConfigFromJobConfig translates the persisted job configuration into
// the worker package's runtime Config, applying worker.DefaultConfig for
// every pipeline tunable the HTTP job-creation surface doesn't expose.
func workerConfigFromJobConfig(jc JobConfig) worker.Config {
	cfg := worker.DefaultConfig()
	cfg.Zmax, cfg.Ymax, cfg.Xmax = jc.Zmax, jc.Ymax, jc.Xmax
	cfg.NumWorkers = jc.NumWorkers
	cfg.Compressed = jc.Compressed
	cfg.OutputDir = jc.OutputDir
	cfg.RandSeed = jc.Seed
	switch jc.Axis {
	case "y", "Y":
		cfg.Axis = 1
	case "x", "X":
		cfg.Axis = 2
	default:
		cfg.Axis = 0
	}
	return cfg
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("job cancelled", "job_id", jobID)
}

// monitorCheckpoints periodically saves job-progress checkpoints.
func monitorCheckpoints(ctx context.Context, jm *JobManager, checkpointStore store.Store, jobID string, done chan struct{}) {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return
	}

	interval := time.Duration(job.Config.CheckpointInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			saveCheckpoint(jm, checkpointStore, jobID)
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := saveCheckpoint(jm, checkpointStore, jobID); err != nil {
				slog.Error("failed to save checkpoint", "job_id", jobID, "error", err)
			}
		}
	}
}

// saveCheckpoint persists the current walk progress for the given job.
func saveCheckpoint(jm *JobManager, checkpointStore store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	checkpoint := store.NewCheckpoint(
		jobID,
		store.ChunkCoord{Z: job.CurrentZ, Y: job.CurrentY, X: job.CurrentX},
		job.ChunksProcessed,
		job.ChunksSkipped,
		job.ChunksTotal,
		job.Config,
	)

	if err := checkpointStore.SaveCheckpoint(jobID, checkpoint); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	slog.Info("checkpoint saved", "job_id", jobID,
		"chunks_processed", job.ChunksProcessed, "last_coord", checkpoint.LastCoord)
	return nil
}
