// Package preprocess implements the volume-preparation hooks that run
// before SNIC clustering: denoising, segmentation, pooling,
// normalisation, histogram equalisation, and axis transposition.
// Grounded on original_source/preprocess.h and volcano.h's commented
// pooling/convolution routines.
package preprocess

import "github.com/superoptimizer/volcano/internal/scalarfield"

// AvgPoolDenoise replaces each voxel with the mean of its centered
// kernel-sized neighbourhood (kernel should be odd), clamped to the
// field bounds at edges. Grounded on preprocess.h's vs_avgpool_denoise.
func AvgPoolDenoise(f *scalarfield.Field, kernel int) *scalarfield.Field {
	lz, ly, lx := f.Dims()
	out := scalarfield.New(lz, ly, lx)
	half := kernel / 2

	for z := 0; z < lz; z++ {
		for y := 0; y < ly; y++ {
			for x := 0; x < lx; x++ {
				var sum float64
				count := 0
				for zi := -half; zi <= half; zi++ {
					for yi := -half; yi <= half; yi++ {
						for xi := -half; xi <= half; xi++ {
							nz, ny, nx := z+zi, y+yi, x+xi
							if v, ok := f.TryAt(nz, ny, nx); ok {
								sum += float64(v)
								count++
							}
						}
					}
				}
				if count == 0 {
					out.Set(z, y, x, f.At(z, y, x))
					continue
				}
				out.Set(z, y, x, float32(sum/float64(count)))
			}
		}
	}
	return out
}
