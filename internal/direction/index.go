// Package direction implements the volume direction index: a capped
// uniform spatial grid of (position, unit-direction) records supporting
// approximate local-parallelism queries during chord growth.
//
// Cell lists store indices into an append-only record slice, never
// pointers or slice headers. This is the soundness fix flagged in
// SPEC_FULL.md §9: the original C source links records into cell lists
// via raw `next` pointers into a `realloc`-grown array, which is
// undefined behaviour the moment the array relocates. Resolving
// through an index on every traversal makes the Go slice's own growth
// (which may move the backing array) harmless.
package direction

import "math"

// Record is one stored (position, direction) sample.
type Record struct {
	Pos [3]float64
	Dir [3]float64
}

// Index is a G x G x G uniform grid over a bounding box, each cell
// holding up to MaxRecordsPerCell record indices.
type Index struct {
	records []Record

	grid      int
	maxPerCell int
	rMax      float64
	kNeigh    int

	minBounds [3]float64
	cellSize  [3]float64

	cells [][]int32 // len == grid*grid*grid, each a capped list of record indices
}

// Config bundles the index's tunables, all with the spec's recommended
// defaults available via DefaultConfig.
type Config struct {
	Grid          int     // cells per axis, default 32
	MaxPerCell    int     // default 32-64; DefaultConfig uses 48
	RMax          float64 // default 8-16; DefaultConfig uses 12
	KNeigh        int     // default 8-16; DefaultConfig uses 12
	ReserveRecords int    // optional up-front capacity reservation
}

// DefaultConfig returns the spec's recommended default tuning.
func DefaultConfig() Config {
	return Config{Grid: 32, MaxPerCell: 48, RMax: 12, KNeigh: 12}
}

// New builds an empty index over the axis-aligned box
// [min, min+extent) for each of the three axes.
func New(min, extent [3]float64, cfg Config) *Index {
	if cfg.Grid <= 0 {
		cfg.Grid = 32
	}
	if cfg.MaxPerCell <= 0 {
		cfg.MaxPerCell = 48
	}
	if cfg.RMax <= 0 {
		cfg.RMax = 12
	}
	if cfg.KNeigh <= 0 {
		cfg.KNeigh = 12
	}

	idx := &Index{
		grid:       cfg.Grid,
		maxPerCell: cfg.MaxPerCell,
		rMax:       cfg.RMax,
		kNeigh:     cfg.KNeigh,
		minBounds:  min,
		cells:      make([][]int32, cfg.Grid*cfg.Grid*cfg.Grid),
	}
	for i := 0; i < 3; i++ {
		size := extent[i] / float64(cfg.Grid)
		if size <= 0 {
			size = 1
		}
		idx.cellSize[i] = size
	}
	if cfg.ReserveRecords > 0 {
		idx.records = make([]Record, 0, cfg.ReserveRecords)
	}
	return idx
}

func (idx *Index) cellCoord(pos [3]float64) [3]int {
	var c [3]int
	for i := 0; i < 3; i++ {
		v := int((pos[i] - idx.minBounds[i]) / idx.cellSize[i])
		if v < 0 {
			v = 0
		}
		if v >= idx.grid {
			v = idx.grid - 1
		}
		c[i] = v
	}
	return c
}

func (idx *Index) cellLinear(c [3]int) int {
	return (c[0]*idx.grid+c[1])*idx.grid + c[2]
}

// Add appends a new (pos, dir) record to the append-only array and, if
// its cell is below capacity, links the record index into that cell.
// Overflowing cells silently drop the record from spatial queries; it
// remains retrievable from the array but unreachable by ParallelScore.
func (idx *Index) Add(pos, dir [3]float64) {
	recIdx := int32(len(idx.records))
	idx.records = append(idx.records, Record{Pos: pos, Dir: dir})

	cell := idx.cellLinear(idx.cellCoord(pos))
	if len(idx.cells[cell]) < idx.maxPerCell {
		idx.cells[cell] = append(idx.cells[cell], recIdx)
	}
}

// Len returns the number of records ever added (including ones dropped
// from their cell due to overflow).
func (idx *Index) Len() int { return len(idx.records) }

// ParallelScore visits the 3x3x3 block of cells around pos's cell,
// accumulating |dir . record.dir| for records within RMax, stopping
// after KNeigh contributions. Returns the mean alignment, or 1 if no
// record contributed ("no local context yet, do not penalise").
func (idx *Index) ParallelScore(pos, dir [3]float64) float64 {
	center := idx.cellCoord(pos)

	var sum float64
	var count int

	for dz := -1; dz <= 1 && count < idx.kNeigh; dz++ {
		for dy := -1; dy <= 1 && count < idx.kNeigh; dy++ {
			for dx := -1; dx <= 1 && count < idx.kNeigh; dx++ {
				cz, cy, cx := center[0]+dz, center[1]+dy, center[2]+dx
				if cz < 0 || cy < 0 || cx < 0 || cz >= idx.grid || cy >= idx.grid || cx >= idx.grid {
					continue
				}
				for _, ri := range idx.cells[idx.cellLinear([3]int{cz, cy, cx})] {
					if count >= idx.kNeigh {
						break
					}
					rec := idx.records[ri]
					if dist(pos, rec.Pos) > idx.rMax {
						continue
					}
					sum += math.Abs(dot(dir, rec.Dir))
					count++
				}
			}
		}
	}

	if count == 0 {
		return 1
	}
	return sum / float64(count)
}

func dist(a, b [3]float64) float64 {
	dz := a[0] - b[0]
	dy := a[1] - b[1]
	dx := a[2] - b[2]
	return math.Sqrt(dz*dz + dy*dy + dx*dx)
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
