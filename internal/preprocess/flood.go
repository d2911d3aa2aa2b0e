package preprocess

import "github.com/superoptimizer/volcano/internal/scalarfield"

var floodNeighbors6 = [6][3]int{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// FloodFill grows a mask outward from every voxel at or above
// startThreshold, along 6-connected neighbours whose value is at or
// above isoThreshold (isoThreshold is normally <= startThreshold so
// the fill can spread into dimmer connected tissue once seeded).
// Grounded on original_source/preprocess.h's flood_fill_f32.
func FloodFill(f *scalarfield.Field, isoThreshold, startThreshold float32) []bool {
	lz, ly, lx := f.Dims()
	n := lz * ly * lx
	mask := make([]bool, n)
	visited := make([]bool, n)

	idx := func(z, y, x int) int { return z*ly*lx + y*lx + x }

	type pos struct{ z, y, x int }
	var queue []pos
	for z := 0; z < lz; z++ {
		for y := 0; y < ly; y++ {
			for x := 0; x < lx; x++ {
				if f.At(z, y, x) >= startThreshold {
					i := idx(z, y, x)
					mask[i] = true
					visited[i] = true
					queue = append(queue, pos{z, y, x})
				}
			}
		}
	}

	for qi := 0; qi < len(queue); qi++ {
		cur := queue[qi]
		for _, d := range floodNeighbors6 {
			nz, ny, nx := cur.z+d[0], cur.y+d[1], cur.x+d[2]
			if !f.InBounds(nz, ny, nx) {
				continue
			}
			i := idx(nz, ny, nx)
			if visited[i] || f.At(nz, ny, nx) < isoThreshold {
				continue
			}
			mask[i] = true
			visited[i] = true
			queue = append(queue, pos{nz, ny, nx})
		}
	}
	return mask
}

// SegmentAndClean zeroes every voxel not reached by FloodFill, e.g. to
// discard disconnected noise outside the scroll's wound sheet.
// Grounded on original_source/preprocess.h's segment_and_clean_f32.
func SegmentAndClean(f *scalarfield.Field, isoThreshold, startThreshold float32) *scalarfield.Field {
	mask := FloodFill(f, isoThreshold, startThreshold)
	lz, ly, lx := f.Dims()
	out := scalarfield.New(lz, ly, lx)
	i := 0
	for z := 0; z < lz; z++ {
		for y := 0; y < ly; y++ {
			for x := 0; x < lx; x++ {
				if mask[i] {
					out.Set(z, y, x, f.At(z, y, x))
				}
				i++
			}
		}
	}
	return out
}
