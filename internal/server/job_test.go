package server

import (
	"testing"
	"time"
)

func testConfig() JobConfig {
	return JobConfig{
		VolumeURL:  "https://example.com/volume.zarr",
		FiberURL:   "https://example.com/fiber.zarr",
		OutputDir:  "./output",
		Zmax:       256,
		Ymax:       256,
		Xmax:       256,
		Axis:       "z",
		NumWorkers: 2,
		Seed:       42,
	}
}

func TestJobManager_CreateJob(t *testing.T) {
	jm := NewJobManager()

	config := testConfig()
	job := jm.CreateJob(config)

	if job.ID == "" {
		t.Error("Job ID should not be empty")
	}

	if job.State != StatePending {
		t.Errorf("Initial state should be pending, got %s", job.State)
	}

	if job.Config.VolumeURL != config.VolumeURL {
		t.Errorf("Config not set correctly")
	}
}

func TestJobManager_GetJob(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob(testConfig())

	retrieved, exists := jm.GetJob(job.ID)
	if !exists {
		t.Error("Job should exist")
	}

	if retrieved.ID != job.ID {
		t.Error("Retrieved wrong job")
	}

	_, exists = jm.GetJob("nonexistent")
	if exists {
		t.Error("Should not find nonexistent job")
	}
}

func TestJobManager_ListJobs(t *testing.T) {
	jm := NewJobManager()

	if len(jm.ListJobs()) != 0 {
		t.Error("Should start with no jobs")
	}

	c1, c2 := testConfig(), testConfig()
	c1.VolumeURL = "https://example.com/volume1.zarr"
	c2.VolumeURL = "https://example.com/volume2.zarr"
	jm.CreateJob(c1)
	jm.CreateJob(c2)

	jobs := jm.ListJobs()
	if len(jobs) != 2 {
		t.Errorf("Expected 2 jobs, got %d", len(jobs))
	}
}

func TestJobManager_UpdateJob(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob(testConfig())

	err := jm.UpdateJob(job.ID, func(j *Job) {
		j.State = StateRunning
		j.ChunksProcessed = 10
		j.ChunksTotal = 64
	})

	if err != nil {
		t.Errorf("Update should succeed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateRunning {
		t.Error("State should be updated")
	}
	if updated.ChunksProcessed != 10 {
		t.Error("ChunksProcessed should be updated")
	}
	if updated.ChunksTotal != 64 {
		t.Error("ChunksTotal should be updated")
	}

	err = jm.UpdateJob("nonexistent", func(j *Job) {})
	if err == nil {
		t.Error("Update of nonexistent job should fail")
	}
}

func TestJobManager_ThreadSafety(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob(testConfig())

	// Simulate concurrent updates
	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(iteration int) {
			jm.UpdateJob(job.ID, func(j *Job) {
				j.ChunksProcessed = iteration
				time.Sleep(1 * time.Millisecond)
			})
			done <- true
		}(i)
	}

	// Wait for all updates
	for i := 0; i < 10; i++ {
		<-done
	}

	// Should not crash - actual value depends on race
	_, exists := jm.GetJob(job.ID)
	if !exists {
		t.Error("Job should still exist after concurrent updates")
	}
}

func TestJobManager_GetRunningJobs(t *testing.T) {
	jm := NewJobManager()

	j1 := jm.CreateJob(testConfig())
	j2 := jm.CreateJob(testConfig())
	jm.CreateJob(testConfig())

	jm.UpdateJob(j1.ID, func(j *Job) { j.State = StateRunning })
	jm.UpdateJob(j2.ID, func(j *Job) { j.State = StateRunning })

	running := jm.GetRunningJobs()
	if len(running) != 2 {
		t.Errorf("Expected 2 running jobs, got %d", len(running))
	}
}
