package server

import (
	"context"
	"errors"
	"testing"

	"github.com/superoptimizer/volcano/internal/store"
)

func TestRunJob_InvalidVolumeURL(t *testing.T) {
	jm := NewJobManager()
	config := testConfig()
	config.VolumeURL = "http://127.0.0.1:1/no-such-host"

	job := jm.CreateJob(config)

	ctx := context.Background()
	err := runJob(ctx, jm, nil, job.ID)

	if err == nil {
		t.Error("runJob should fail with an unreachable volume URL")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}

	if updated.Error == "" {
		t.Error("Error message should be set")
	}
}

func TestRunJob_NotFound(t *testing.T) {
	jm := NewJobManager()

	ctx := context.Background()
	err := runJob(ctx, jm, nil, "nonexistent")

	if err == nil {
		t.Error("runJob should fail for an unknown job ID")
	}
}

func TestRunJob_CancelledBeforeStart(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runJob(ctx, jm, nil, job.ID)

	if err == nil {
		t.Error("runJob should return an error when the context is already cancelled")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCancelled {
		t.Errorf("Job should be cancelled, got %s", updated.State)
	}
}

func TestWorkerConfigFromJobConfig(t *testing.T) {
	jc := testConfig()
	jc.Axis = "y"
	jc.Compressed = true

	cfg := workerConfigFromJobConfig(jc)

	if cfg.Zmax != jc.Zmax || cfg.Ymax != jc.Ymax || cfg.Xmax != jc.Xmax {
		t.Error("extent should carry over from JobConfig")
	}
	if cfg.NumWorkers != jc.NumWorkers {
		t.Error("NumWorkers should carry over from JobConfig")
	}
	if !cfg.Compressed {
		t.Error("Compressed should carry over from JobConfig")
	}
	if cfg.Axis != 1 {
		t.Errorf("y axis should map to 1, got %d", cfg.Axis)
	}
}

func TestSaveCheckpoint(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testConfig())
	jm.UpdateJob(job.ID, func(j *Job) {
		j.ChunksProcessed = 4
		j.ChunksSkipped = 1
		j.ChunksTotal = 20
		j.CurrentZ, j.CurrentY, j.CurrentX = 256, 128, 0
	})

	tmpDir := t.TempDir()
	fsStore, err := store.NewFSStore(tmpDir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := saveCheckpoint(jm, fsStore, job.ID); err != nil {
		t.Fatalf("saveCheckpoint failed: %v", err)
	}

	checkpoint, err := fsStore.LoadCheckpoint(job.ID)
	if err != nil {
		t.Fatalf("LoadCheckpoint failed: %v", err)
	}

	if checkpoint.ChunksProcessed != 4 {
		t.Errorf("expected ChunksProcessed 4, got %d", checkpoint.ChunksProcessed)
	}
	if checkpoint.LastCoord != (store.ChunkCoord{Z: 256, Y: 128, X: 0}) {
		t.Errorf("unexpected LastCoord: %+v", checkpoint.LastCoord)
	}
}

func TestMarkJobFailedAndCancelled(t *testing.T) {
	jm := NewJobManager()

	j1 := jm.CreateJob(testConfig())
	markJobFailed(jm, j1.ID, errors.New("simulated failure"))
	updated1, _ := jm.GetJob(j1.ID)
	if updated1.State != StateFailed || updated1.Error == "" {
		t.Error("markJobFailed should set state failed and an error message")
	}
	if updated1.EndTime == nil {
		t.Error("markJobFailed should set EndTime")
	}

	j2 := jm.CreateJob(testConfig())
	markJobCancelled(jm, j2.ID)
	updated2, _ := jm.GetJob(j2.ID)
	if updated2.State != StateCancelled {
		t.Error("markJobCancelled should set state cancelled")
	}
	if updated2.EndTime == nil {
		t.Error("markJobCancelled should set EndTime")
	}
}
