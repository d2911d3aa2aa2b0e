package preprocess

import (
	"math"

	"github.com/superoptimizer/volcano/internal/scalarfield"
)

// Histogram bins intensity values over [MinValue, MaxValue), grounded
// on original_source/volcano.h's histogram/histogram_new/get_bin_index.
type Histogram struct {
	Bins     []uint32
	MinValue float32
	MaxValue float32
	BinWidth float32
}

// NewHistogram allocates an empty histogram over the given range.
func NewHistogram(numBins int, minValue, maxValue float32) *Histogram {
	return &Histogram{
		Bins:     make([]uint32, numBins),
		MinValue: minValue,
		MaxValue: maxValue,
		BinWidth: (maxValue - minValue) / float32(numBins),
	}
}

// BinIndex returns the bin a value falls into, clamped at the edges.
func (h *Histogram) BinIndex(value float32) int {
	if value <= h.MinValue {
		return 0
	}
	if value >= h.MaxValue {
		return len(h.Bins) - 1
	}
	bin := int((value - h.MinValue) / h.BinWidth)
	if bin >= len(h.Bins) {
		bin = len(h.Bins) - 1
	}
	return bin
}

// FieldHistogram scans every voxel of f once to find its range, then
// bins every voxel, mirroring chunk_histogram/slice_histogram's
// two-pass (min/max, then bin) structure.
func FieldHistogram(f *scalarfield.Field, numBins int) *Histogram {
	raw := f.Raw()
	minVal := float32(math.MaxFloat32)
	maxVal := float32(-math.MaxFloat32)
	for _, v := range raw {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	hist := NewHistogram(numBins, minVal, maxVal)
	for _, v := range raw {
		hist.Bins[hist.BinIndex(v)]++
	}
	return hist
}

// Stats summarises a histogram's shape, grounded on
// original_source/volcano.h's calculate_histogram_stats.
type Stats struct {
	Mean      float32
	StdDev    float32
	Median    float32
	Mode      float32
	ModeCount uint32
}

func (h *Histogram) binCenter(i int) float32 {
	return h.MinValue + (float32(i)+0.5)*h.BinWidth
}

// CalculateStats computes mean, std-dev, median, and mode from the
// binned counts.
func (h *Histogram) CalculateStats() Stats {
	var stats Stats
	var totalCount uint64
	var weightedSum float64
	var maxCount uint32

	for i, count := range h.Bins {
		center := h.binCenter(i)
		weightedSum += float64(center) * float64(count)
		totalCount += uint64(count)
		if count > maxCount {
			maxCount = count
			stats.Mode = center
			stats.ModeCount = count
		}
	}
	if totalCount == 0 {
		return stats
	}
	stats.Mean = float32(weightedSum / float64(totalCount))

	var varianceSum float64
	for i, count := range h.Bins {
		diff := h.binCenter(i) - stats.Mean
		varianceSum += float64(diff) * float64(diff) * float64(count)
	}
	stats.StdDev = float32(math.Sqrt(varianceSum / float64(totalCount)))

	medianCount := totalCount / 2
	var running uint64
	for i, count := range h.Bins {
		running += uint64(count)
		if running >= medianCount {
			stats.Median = h.binCenter(i)
			break
		}
	}
	return stats
}
