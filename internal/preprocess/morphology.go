package preprocess

import "github.com/superoptimizer/volcano/internal/scalarfield"

// Dilate grows nonzero regions by radius voxels under a cube structuring
// element (max over the (2*radius+1)^3 neighbourhood), grounded on
// original_source/volcano.c's worker_thread call to vs_dilate(fiberchunk,7)
// — vs_dilate itself isn't among the retrieved headers, so the
// structuring element shape is inferred as the standard cube
// neighbourhood rather than a sphere, consistent with how every other
// kept neighbourhood operation in this pipeline (avgpool, maxpool,
// convolve3d) uses a cube window.
func Dilate(f *scalarfield.Field, radius int) *scalarfield.Field {
	lz, ly, lx := f.Dims()
	out := scalarfield.New(lz, ly, lx)
	out.Origin = f.Origin

	for z := 0; z < lz; z++ {
		for y := 0; y < ly; y++ {
			for x := 0; x < lx; x++ {
				var maxV float32
				for dz := -radius; dz <= radius; dz++ {
					for dy := -radius; dy <= radius; dy++ {
						for dx := -radius; dx <= radius; dx++ {
							v, ok := f.TryAt(z+dz, y+dy, x+dx)
							if ok && v > maxV {
								maxV = v
							}
						}
					}
				}
				out.Set(z, y, x, maxV)
			}
		}
	}
	return out
}

// LabelComponents assigns a distinct positive label (1-based) to each
// 6-connected component of nonzero voxels, leaving background voxels at
// 0. Returns the label field and the number of components found.
// Grounded on original_source/volcano.c's vs_chunk_label_components,
// used there to split a binary fiber mask into distinct papyrus-sheet
// sections before per-chord tagging.
func LabelComponents(f *scalarfield.Field) (*scalarfield.Field, int) {
	lz, ly, lx := f.Dims()
	labels := scalarfield.New(lz, ly, lx)
	labels.Origin = f.Origin

	nextLabel := float32(0)
	type pos struct{ z, y, x int }

	for z := 0; z < lz; z++ {
		for y := 0; y < ly; y++ {
			for x := 0; x < lx; x++ {
				if f.At(z, y, x) == 0 || labels.At(z, y, x) != 0 {
					continue
				}
				nextLabel++
				queue := []pos{{z, y, x}}
				labels.Set(z, y, x, nextLabel)
				for len(queue) > 0 {
					p := queue[0]
					queue = queue[1:]
					for _, n := range floodNeighbors6 {
						nz, ny, nx := p.z+n[0], p.y+n[1], p.x+n[2]
						v, ok := f.TryAt(nz, ny, nx)
						if !ok || v == 0 {
							continue
						}
						lv, _ := labels.TryAt(nz, ny, nx)
						if lv != 0 {
							continue
						}
						labels.Set(nz, ny, nx, nextLabel)
						queue = append(queue, pos{nz, ny, nx})
					}
				}
			}
		}
	}
	return labels, int(nextLabel)
}
