package preprocess

import "github.com/superoptimizer/volcano/internal/scalarfield"

func ceilDivPool(a, b int) int { return (a + b - 1) / b }

// AvgPool downsamples f by striding a kernel-sized averaging window,
// producing a field of ceil(dim/stride) per axis. Grounded on
// original_source/volcano.h's avgpool.
func AvgPool(f *scalarfield.Field, kernel, stride int) *scalarfield.Field {
	lz, ly, lx := f.Dims()
	olz := ceilDivPool(lz, stride)
	oly := ceilDivPool(ly, stride)
	olx := ceilDivPool(lx, stride)
	out := scalarfield.New(olz, oly, olx)

	for z := 0; z < olz; z++ {
		for y := 0; y < oly; y++ {
			for x := 0; x < olx; x++ {
				var sum float64
				count := 0
				for zi := 0; zi < kernel; zi++ {
					for yi := 0; yi < kernel; yi++ {
						for xi := 0; xi < kernel; xi++ {
							if v, ok := f.TryAt(z*stride+zi, y*stride+yi, x*stride+xi); ok {
								sum += float64(v)
								count++
							}
						}
					}
				}
				if count == 0 {
					continue
				}
				out.Set(z, y, x, float32(sum/float64(count)))
			}
		}
	}
	return out
}

// MaxPool downsamples f by striding a kernel-sized max window. The
// original's maxpool was kept commented out in favour of avgpool; it
// is supplemented here since the spec names both average and max
// pooling among the preprocessing hooks.
func MaxPool(f *scalarfield.Field, kernel, stride int) *scalarfield.Field {
	lz, ly, lx := f.Dims()
	olz := ceilDivPool(lz, stride)
	oly := ceilDivPool(ly, stride)
	olx := ceilDivPool(lx, stride)
	out := scalarfield.New(olz, oly, olx)

	for z := 0; z < olz; z++ {
		for y := 0; y < oly; y++ {
			for x := 0; x < olx; x++ {
				max := float32(0)
				found := false
				for zi := 0; zi < kernel; zi++ {
					for yi := 0; yi < kernel; yi++ {
						for xi := 0; xi < kernel; xi++ {
							v, ok := f.TryAt(z*stride+zi, y*stride+yi, x*stride+xi)
							if !ok {
								continue
							}
							if !found || v > max {
								max = v
								found = true
							}
						}
					}
				}
				out.Set(z, y, x, max)
			}
		}
	}
	return out
}

// BoxKernel builds a normalised size^3 averaging kernel, grounded on
// original_source/volcano.h's create_box_kernel.
func BoxKernel(size int) *scalarfield.Field {
	k := scalarfield.New(size, size, size)
	k.Fill(1.0 / float32(size*size*size))
	return k
}

// Convolve3D applies kernel to f with zero-padding at the boundary,
// grounded on original_source/volcano.h's convolve3d.
func Convolve3D(f, kernel *scalarfield.Field) *scalarfield.Field {
	lz, ly, lx := f.Dims()
	klz, _, _ := kernel.Dims()
	pad := klz / 2
	out := scalarfield.New(lz, ly, lx)

	for z := 0; z < lz; z++ {
		for y := 0; y < ly; y++ {
			for x := 0; x < lx; x++ {
				var sum float32
				for kz := 0; kz < klz; kz++ {
					for ky := 0; ky < klz; ky++ {
						for kx := 0; kx < klz; kx++ {
							iz, iy, ix := z+kz-pad, y+ky-pad, x+kx-pad
							if v, ok := f.TryAt(iz, iy, ix); ok {
								sum += v * kernel.At(kz, ky, kx)
							}
						}
					}
				}
				out.Set(z, y, x, sum)
			}
		}
	}
	return out
}

// UnsharpMask3D sharpens f by subtracting a box-blurred copy, scaled
// by amount, grounded on original_source/volcano.h's unsharp_mask_3d.
func UnsharpMask3D(f *scalarfield.Field, amount float32, kernelSize int) *scalarfield.Field {
	kernel := BoxKernel(kernelSize)
	blurred := Convolve3D(f, kernel)
	lz, ly, lx := f.Dims()
	out := scalarfield.New(lz, ly, lx)
	for z := 0; z < lz; z++ {
		for y := 0; y < ly; y++ {
			for x := 0; x < lx; x++ {
				original := f.At(z, y, x)
				blur := blurred.At(z, y, x)
				out.Set(z, y, x, original+amount*(original-blur))
			}
		}
	}
	return out
}
