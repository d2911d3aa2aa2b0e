package worker

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

// ProgressFunc is invoked once per processed (including skipped) chunk,
// letting callers (internal/server's job tracker) surface live progress
// without this package depending on server/store types.
type ProgressFunc func(Result)

// Pool fans a volume's chunk grid out across NumWorkers goroutines, each
// owning a disjoint, contiguous range of Z-chunk-coordinates — mirroring
// original_source/volcano.c's scroll_1a_snic_chord, which partitions
// zmax into num_threads equal Z-ranges and gives each its own
// pthread_create'd worker_thread.
type Pool struct {
	Cfg    Config
	Source *Source
}

// NewPool builds a Pool over src using cfg.
func NewPool(cfg Config, src *Source) *Pool {
	return &Pool{Cfg: cfg, Source: src}
}

// Run processes every chunk in the configured volume extent, calling
// onProgress after each chunk (success or skip). Cancellation is
// checked between chunks only — a chunk already in flight always runs
// to completion, never aborted mid-chunk, per SPEC_FULL.md §5.
func (p *Pool) Run(ctx context.Context, onProgress ProgressFunc) error {
	if err := p.Source.LoadMetadata(ctx); err != nil {
		return err
	}

	numWorkers := p.Cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}
	// Each worker's Z-range is a whole number of chunks, so every range
	// starts on a chunk boundary.
	zChunks := (p.Cfg.Zmax + p.Cfg.ChunkSize - 1) / p.Cfg.ChunkSize
	chunkPerWorker := (zChunks + numWorkers - 1) / numWorkers * p.Cfg.ChunkSize
	if chunkPerWorker <= 0 {
		chunkPerWorker = p.Cfg.ChunkSize
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		zStart := w * chunkPerWorker
		zEnd := (w + 1) * chunkPerWorker
		if w == numWorkers-1 {
			zEnd = p.Cfg.Zmax
		}

		wg.Add(1)
		go func(workerNum, zStart, zEnd int) {
			defer wg.Done()
			p.runRange(ctx, workerNum, zStart, zEnd, onProgress)
		}(w, zStart, zEnd)
	}
	wg.Wait()
	return ctx.Err()
}

func (p *Pool) runRange(ctx context.Context, workerNum, zStart, zEnd int, onProgress ProgressFunc) {
	cfg := p.Cfg
	rng := rand.New(rand.NewSource(cfg.RandSeed + int64(workerNum)))

	slog.Info("worker starting", "worker", workerNum, "z_start", zStart, "z_end", zEnd)
	for z := zStart; z < zEnd; z += cfg.ChunkSize {
		for y := 0; y < cfg.Ymax; y += cfg.ChunkSize {
			for x := 0; x < cfg.Xmax; x += cfg.ChunkSize {
				select {
				case <-ctx.Done():
					slog.Info("worker stopping on cancellation", "worker", workerNum)
					return
				default:
				}

				coord := Coord{Z: z, Y: y, X: x}
				if !cfg.StartCoord.zero() && !coord.after(cfg.StartCoord) {
					continue
				}
				start := time.Now()
				result, err := p.processOne(ctx, cfg, coord, rng)
				elapsed := time.Since(start)
				if err != nil {
					slog.Error("chunk processing failed", "worker", workerNum, "z", z, "y", y, "x", x, "error", err)
					continue
				}
				slog.Info("chunk processed", "worker", workerNum, "z", z, "y", y, "x", x,
					"skipped", result.Skipped, "num_superpixels", result.NumSuperpixels,
					"num_chords", result.NumChords, "elapsed", elapsed)
				if onProgress != nil {
					onProgress(*result)
				}
			}
		}
	}
	slog.Info("worker done", "worker", workerNum)
}

func (p *Pool) processOne(ctx context.Context, cfg Config, coord Coord, rng *rand.Rand) (*Result, error) {
	// A chunk that has started runs to completion; cancellation only
	// keeps runRange from starting the next one.
	ctx = context.WithoutCancel(ctx)
	volume, err := p.Source.FetchChunk(ctx, cfg, coord)
	if err != nil {
		return nil, err
	}
	fiber, err := p.Source.FetchFiberChunk(ctx, cfg, coord)
	if err != nil {
		return nil, err
	}

	result, out, err := ProcessChunk(cfg, volume, fiber, coord, rng)
	if err != nil {
		return nil, err
	}
	if result.Skipped {
		return result, nil
	}
	if err := WriteOutput(cfg.OutputDir, out, cfg.Compressed); err != nil {
		return nil, err
	}
	return result, nil
}
