package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/superoptimizer/volcano/internal/ui"
)

// handleIndex handles GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	jobs := s.jobManager.ListJobs()

	jobItems := make([]ui.JobListItem, len(jobs))
	for i, job := range jobs {
		jobItems[i] = ui.JobListItem{
			ID:              job.ID,
			State:           string(job.State),
			VolumeURL:       job.Config.VolumeURL,
			Axis:            job.Config.Axis,
			ChunksProcessed: job.ChunksProcessed,
			ChunksSkipped:   job.ChunksSkipped,
			ChunksTotal:     job.ChunksTotal,
			StartTime:       job.StartTime,
			EndTime:         job.EndTime,
			Error:           job.Error,
		}
	}

	if err := ui.JobList(jobItems).Render(r.Context(), w); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}

// handleJobDetail handles GET /jobs/:id
func (s *Server) handleJobDetail(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Path[len("/jobs/"):]

	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ui.JobNotFound(jobID).Render(r.Context(), w); err != nil {
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var elapsed float64
	if job.EndTime != nil {
		elapsed = job.EndTime.Sub(job.StartTime).Seconds()
	} else {
		elapsed = time.Since(job.StartTime).Seconds()
	}

	chunksPerSecond := float64(0)
	if elapsed > 0 {
		chunksPerSecond = float64(job.ChunksProcessed+job.ChunksSkipped) / elapsed
	}

	jobDetail := ui.JobDetail{
		ID:              job.ID,
		State:           string(job.State),
		VolumeURL:       job.Config.VolumeURL,
		FiberURL:        job.Config.FiberURL,
		OutputDir:       job.Config.OutputDir,
		Axis:            job.Config.Axis,
		Zmax:            job.Config.Zmax,
		Ymax:            job.Config.Ymax,
		Xmax:            job.Config.Xmax,
		ChunksProcessed: job.ChunksProcessed,
		ChunksSkipped:   job.ChunksSkipped,
		ChunksTotal:     job.ChunksTotal,
		CurrentZ:        job.CurrentZ,
		CurrentY:        job.CurrentY,
		CurrentX:        job.CurrentX,
		StartTime:       job.StartTime,
		EndTime:         job.EndTime,
		ElapsedSec:      elapsed,
		ChunksPerSecond: chunksPerSecond,
		Error:           job.Error,
	}

	if err := ui.JobDetailPage(jobDetail).Render(r.Context(), w); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}

// handleCreatePage handles GET /create and POST /create
func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.handleCreatePageGet(w, r)
	} else if r.Method == http.MethodPost {
		s.handleCreatePagePost(w, r)
	} else {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCreatePageGet renders the job creation form
func (s *Server) handleCreatePageGet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := ui.CreateJobPage("").Render(r.Context(), w); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}

// handleCreatePagePost processes the job creation form submission
func (s *Server) handleCreatePagePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		ui.CreateJobPage("Failed to parse form data").Render(r.Context(), w)
		return
	}

	volumeURL := r.FormValue("volumeUrl")
	fiberURL := r.FormValue("fiberUrl")

	if volumeURL == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		ui.CreateJobPage("Volume zarr URL is required").Render(r.Context(), w)
		return
	}
	if fiberURL == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		ui.CreateJobPage("Fiber zarr URL is required").Render(r.Context(), w)
		return
	}

	zmax, err := strconv.Atoi(r.FormValue("zmax"))
	if err != nil || zmax <= 0 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		ui.CreateJobPage("Zmax must be a positive integer").Render(r.Context(), w)
		return
	}

	ymax, err := strconv.Atoi(r.FormValue("ymax"))
	if err != nil || ymax <= 0 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		ui.CreateJobPage("Ymax must be a positive integer").Render(r.Context(), w)
		return
	}

	xmax, err := strconv.Atoi(r.FormValue("xmax"))
	if err != nil || xmax <= 0 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		ui.CreateJobPage("Xmax must be a positive integer").Render(r.Context(), w)
		return
	}

	workers, err := strconv.Atoi(r.FormValue("workers"))
	if err != nil || workers <= 0 {
		workers = 1
	}

	seed, err := strconv.ParseInt(r.FormValue("seed"), 10, 64)
	if err != nil {
		seed = 42
	}

	axis := r.FormValue("axis")
	if axis == "" {
		axis = "z"
	}

	volumeArray := r.FormValue("volumeArray")
	if volumeArray == "" {
		volumeArray = "0"
	}
	fiberArray := r.FormValue("fiberArray")
	if fiberArray == "" {
		fiberArray = "0"
	}
	outputDir := r.FormValue("outputDir")
	if outputDir == "" {
		outputDir = "./output"
	}

	config := JobConfig{
		VolumeURL:   volumeURL,
		VolumeArray: volumeArray,
		FiberURL:    fiberURL,
		FiberArray:  fiberArray,
		OutputDir:   outputDir,
		Zmax:        zmax,
		Ymax:        ymax,
		Xmax:        xmax,
		Axis:        axis,
		NumWorkers:  workers,
		Seed:        seed,
	}

	job := s.jobManager.CreateJob(config)
	job.ChunksTotal = estimateChunksTotal(config)

	// Run with context.Background() so a client navigating away doesn't cancel the job.
	go runJob(context.Background(), s.jobManager, s.store, job.ID)

	http.Redirect(w, r, "/jobs/"+job.ID, http.StatusSeeOther)
}
