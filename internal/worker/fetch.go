package worker

import (
	"context"
	"fmt"

	"github.com/superoptimizer/volcano/internal/scalarfield"
	"github.com/superoptimizer/volcano/internal/zarr"
)

// Source bundles the two zarr-backed inputs a chunk needs: the scroll
// volume array and the fiber-prediction mask array, each its own
// fetcher since they are typically hosted at different base URLs
// (original_source/volcano.c's SCROLL_1A_VOLUME_PATH vs.
// SCROLL_1A_FIBER_PATH).
type Source struct {
	Volume      *zarr.Fetcher
	VolumePath  string // array path within Volume's base URL, e.g. "0"
	Fiber       *zarr.Fetcher
	FiberPath   string

	volumeMeta zarr.Metadata
	fiberMeta  zarr.Metadata
}

// LoadMetadata fetches both arrays' .zarray documents once, up front, so
// every subsequent chunk fetch can decode without a repeated metadata
// round-trip.
func (s *Source) LoadMetadata(ctx context.Context) error {
	vm, err := s.Volume.FetchMetadata(ctx, s.VolumePath)
	if err != nil {
		return fmt.Errorf("worker: fetching volume metadata: %w", err)
	}
	fm, err := s.Fiber.FetchMetadata(ctx, s.FiberPath)
	if err != nil {
		return fmt.Errorf("worker: fetching fiber metadata: %w", err)
	}
	s.volumeMeta, s.fiberMeta = vm, fm
	return nil
}

// FetchChunk retrieves and decodes the volume chunk at coord. Coord
// must be chunk-aligned; the chunk index is coord/ChunkSize per axis,
// matching original_source/volcano.c's "z/128, y/128, x/128" addressing.
func (s *Source) FetchChunk(ctx context.Context, cfg Config, coord Coord) (*scalarfield.Field, error) {
	cz, cy, cx := coord.Z/cfg.ChunkSize, coord.Y/cfg.ChunkSize, coord.X/cfg.ChunkSize
	data, err := s.Volume.FetchChunk(ctx, s.VolumePath, cz, cy, cx)
	if err != nil {
		return nil, fmt.Errorf("worker: fetching volume chunk (%d,%d,%d): %w", cz, cy, cx, err)
	}
	lz, ly, lx := int(s.volumeMeta.Chunks[0]), int(s.volumeMeta.Chunks[1]), int(s.volumeMeta.Chunks[2])
	field, err := zarr.DecodeChunk(data, s.volumeMeta.DType, lz, ly, lx)
	if err != nil {
		return nil, fmt.Errorf("worker: decoding volume chunk (%d,%d,%d): %w", cz, cy, cx, err)
	}
	field.Origin = [3]int{coord.Z, coord.Y, coord.X}
	return field, nil
}

// FetchFiberChunk retrieves and decodes the fiber-mask chunk for coord.
// The fiber store's chunk-key axis order is z.x.y rather than the
// volume store's z/y/x, preserved exactly per original_source/volcano.c
// line 85 (see pipeline.go's ProcessChunk doc comment for the
// corresponding in-memory re-transpose).
func (s *Source) FetchFiberChunk(ctx context.Context, cfg Config, coord Coord) (*scalarfield.Field, error) {
	cz, cy, cx := coord.Z/cfg.ChunkSize, coord.Y/cfg.ChunkSize, coord.X/cfg.ChunkSize
	data, err := s.Fiber.FetchChunk(ctx, s.FiberPath, cz, cx, cy)
	if err != nil {
		return nil, fmt.Errorf("worker: fetching fiber chunk (%d,%d,%d): %w", cz, cx, cy, err)
	}
	lz, ly, lx := int(s.fiberMeta.Chunks[0]), int(s.fiberMeta.Chunks[1]), int(s.fiberMeta.Chunks[2])
	field, err := zarr.DecodeChunk(data, s.fiberMeta.DType, lz, ly, lx)
	if err != nil {
		return nil, fmt.Errorf("worker: decoding fiber chunk (%d,%d,%d): %w", cz, cx, cy, err)
	}
	field.Origin = [3]int{coord.Z, coord.Y, coord.X}
	return field, nil
}
