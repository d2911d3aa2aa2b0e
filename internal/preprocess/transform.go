package preprocess

import (
	"fmt"

	"github.com/superoptimizer/volcano/internal/scalarfield"
)

// Normalize rescales every voxel linearly so the field's [min, max]
// maps onto [0, 1]. A constant field is left at 0 throughout rather
// than dividing by zero.
func Normalize(f *scalarfield.Field) *scalarfield.Field {
	raw := f.Raw()
	minVal, maxVal := raw[0], raw[0]
	for _, v := range raw {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	lz, ly, lx := f.Dims()
	out := scalarfield.New(lz, ly, lx)
	span := maxVal - minVal
	if span == 0 {
		return out
	}
	for i, v := range raw {
		out.Raw()[i] = (v - minVal) / span
	}
	return out
}

// EqualizeHistogram remaps intensities through the cumulative
// distribution of their histogram, spreading out the most common
// values. Built on the binning scheme in histogram.go.
func EqualizeHistogram(f *scalarfield.Field, numBins int) *scalarfield.Field {
	hist := FieldHistogram(f, numBins)
	n := len(f.Raw())
	if n == 0 {
		return f
	}

	cdf := make([]float32, len(hist.Bins))
	var running uint32
	for i, c := range hist.Bins {
		running += c
		cdf[i] = float32(running) / float32(n)
	}

	lz, ly, lx := f.Dims()
	out := scalarfield.New(lz, ly, lx)
	span := hist.MaxValue - hist.MinValue
	for i, v := range f.Raw() {
		bin := hist.BinIndex(v)
		eq := cdf[bin]
		out.Raw()[i] = hist.MinValue + eq*span
	}
	return out
}

// axisOf reports the source axis index (0=z,1=y,2=x) for a letter.
func axisOf(c byte) (int, error) {
	switch c {
	case 'z', 'Z':
		return 0, nil
	case 'y', 'Y':
		return 1, nil
	case 'x', 'X':
		return 2, nil
	default:
		return 0, fmt.Errorf("preprocess: invalid axis letter %q", c)
	}
}

// Transpose permutes f's axes according to a "zyx"-style letter pair,
// e.g. from="zxy", to="zyx" swaps the y and x axes. Grounded on
// original_source/volcano.c's vs_transpose call preceding fiber-mask
// alignment with the intensity volume.
func Transpose(f *scalarfield.Field, from, to string) (*scalarfield.Field, error) {
	if len(from) != 3 || len(to) != 3 {
		return nil, fmt.Errorf("preprocess: axis strings must have length 3, got %q %q", from, to)
	}
	for i := 0; i < 3; i++ {
		if _, err := axisOf(from[i]); err != nil {
			return nil, err
		}
		if _, err := axisOf(to[i]); err != nil {
			return nil, err
		}
	}

	// perm[i] = which axis of `from`-ordered dims supplies output axis i.
	perm := make([]int, 3)
	for outPos := 0; outPos < 3; outPos++ {
		srcPos := -1
		for i := 0; i < 3; i++ {
			if from[i] == to[outPos] {
				srcPos = i
				break
			}
		}
		if srcPos < 0 {
			return nil, fmt.Errorf("preprocess: axis letter %q in %q not found in %q", string(to[outPos]), to, from)
		}
		perm[outPos] = srcPos
	}

	lz, ly, lx := f.Dims()
	dims := [3]int{lz, ly, lx}
	outDims := [3]int{dims[perm[0]], dims[perm[1]], dims[perm[2]]}
	out := scalarfield.New(outDims[0], outDims[1], outDims[2])

	for z := 0; z < lz; z++ {
		for y := 0; y < ly; y++ {
			for x := 0; x < lx; x++ {
				src := [3]int{z, y, x}
				dst := [3]int{src[perm[0]], src[perm[1]], src[perm[2]]}
				out.Set(dst[0], dst[1], dst[2], f.At(z, y, x))
			}
		}
	}
	return out, nil
}
