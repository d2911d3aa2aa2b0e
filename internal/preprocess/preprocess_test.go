package preprocess

import (
	"testing"

	"github.com/superoptimizer/volcano/internal/scalarfield"
)

func uniformField(lz, ly, lx int, v float32) *scalarfield.Field {
	f := scalarfield.New(lz, ly, lx)
	f.Fill(v)
	return f
}

func TestAvgPoolDenoiseUniformFieldUnchanged(t *testing.T) {
	f := uniformField(5, 5, 5, 3)
	out := AvgPoolDenoise(f, 3)
	for _, v := range out.Raw() {
		if v != 3 {
			t.Fatalf("expected uniform denoise to preserve value, got %v", v)
		}
	}
}

func TestFloodFillSpreadsFromSeedAboveThreshold(t *testing.T) {
	f := scalarfield.New(3, 3, 3)
	f.Fill(0)
	f.Set(1, 1, 1, 1.0)
	f.Set(1, 1, 0, 0.6)
	mask := FloodFill(f, 0.5, 0.9)
	idx := 1*3*3 + 1*3 + 0
	if !mask[idx] {
		t.Fatal("expected connected voxel above iso threshold to be included in the mask")
	}
	if mask[0] {
		t.Fatal("expected disconnected voxel below threshold to be excluded")
	}
}

func TestSegmentAndCleanZeroesUnreachedVoxels(t *testing.T) {
	f := scalarfield.New(3, 3, 3)
	f.Fill(0)
	f.Set(1, 1, 1, 1.0)
	f.Set(0, 0, 0, 0.6)
	out := SegmentAndClean(f, 0.5, 0.9)
	if out.At(0, 0, 0) != 0 {
		t.Fatal("expected a voxel above iso but below the seed threshold, disconnected from any seed region, to be zeroed")
	}
	if out.At(1, 1, 1) == 0 {
		t.Fatal("expected the seed voxel itself to survive segmentation")
	}
}

func TestAvgPoolHalvesDimensions(t *testing.T) {
	f := uniformField(4, 4, 4, 2)
	out := AvgPool(f, 2, 2)
	lz, ly, lx := out.Dims()
	if lz != 2 || ly != 2 || lx != 2 {
		t.Fatalf("expected 2x2x2 output, got %dx%dx%d", lz, ly, lx)
	}
	if out.At(0, 0, 0) != 2 {
		t.Fatalf("expected uniform pooled value 2, got %v", out.At(0, 0, 0))
	}
}

func TestMaxPoolPicksLargestValue(t *testing.T) {
	f := scalarfield.New(2, 2, 2)
	f.Fill(1)
	f.Set(0, 0, 0, 9)
	out := MaxPool(f, 2, 2)
	if out.At(0, 0, 0) != 9 {
		t.Fatalf("expected max-pooled value 9, got %v", out.At(0, 0, 0))
	}
}

func TestBoxKernelSumsToOne(t *testing.T) {
	k := BoxKernel(3)
	var sum float32
	for _, v := range k.Raw() {
		sum += v
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("expected box kernel to sum to ~1, got %v", sum)
	}
}

func TestConvolve3DUniformFieldUnchanged(t *testing.T) {
	f := uniformField(5, 5, 5, 4)
	k := BoxKernel(3)
	out := Convolve3D(f, k)
	if out.At(2, 2, 2) < 3.9 || out.At(2, 2, 2) > 4.1 {
		t.Fatalf("expected convolution of uniform field to preserve its value, got %v", out.At(2, 2, 2))
	}
}

func TestNormalizeMapsRangeToZeroOne(t *testing.T) {
	f := scalarfield.New(1, 1, 3)
	f.Set(0, 0, 0, 10)
	f.Set(0, 0, 1, 20)
	f.Set(0, 0, 2, 30)
	out := Normalize(f)
	if out.At(0, 0, 0) != 0 || out.At(0, 0, 2) != 1 {
		t.Fatalf("expected endpoints to map to 0 and 1, got %v %v", out.At(0, 0, 0), out.At(0, 0, 2))
	}
}

func TestNormalizeConstantFieldStaysZero(t *testing.T) {
	f := uniformField(2, 2, 2, 7)
	out := Normalize(f)
	for _, v := range out.Raw() {
		if v != 0 {
			t.Fatalf("expected constant field to normalize to all zero, got %v", v)
		}
	}
}

func TestFieldHistogramBinsEverything(t *testing.T) {
	f := scalarfield.New(1, 1, 4)
	f.Set(0, 0, 0, 0)
	f.Set(0, 0, 1, 1)
	f.Set(0, 0, 2, 2)
	f.Set(0, 0, 3, 3)
	hist := FieldHistogram(f, 4)
	var total uint32
	for _, c := range hist.Bins {
		total += c
	}
	if total != 4 {
		t.Fatalf("expected all 4 voxels binned, got %d", total)
	}
}

func TestCalculateStatsOnUniformHistogram(t *testing.T) {
	f := uniformField(2, 2, 2, 5)
	hist := FieldHistogram(f, 1)
	stats := hist.CalculateStats()
	if stats.Mean != 5 {
		t.Fatalf("expected mean 5 for uniform field, got %v", stats.Mean)
	}
	if stats.StdDev != 0 {
		t.Fatalf("expected zero std-dev for uniform field, got %v", stats.StdDev)
	}
}

func TestTransposeSwapsAxes(t *testing.T) {
	f := scalarfield.New(2, 3, 4)
	f.Set(1, 2, 3, 42)
	out, err := Transpose(f, "zyx", "zxy")
	if err != nil {
		t.Fatal(err)
	}
	lz, ly, lx := out.Dims()
	if lz != 2 || ly != 4 || lx != 3 {
		t.Fatalf("expected dims 2x4x3 after zyx->zxy transpose, got %dx%dx%d", lz, ly, lx)
	}
	if out.At(1, 3, 2) != 42 {
		t.Fatalf("expected transposed value at (1,3,2), got %v", out.At(1, 3, 2))
	}
}

func TestTransposeRejectsInvalidAxisLetters(t *testing.T) {
	f := scalarfield.New(1, 1, 1)
	if _, err := Transpose(f, "zyx", "zyq"); err == nil {
		t.Fatal("expected an error for an invalid axis letter")
	}
}
