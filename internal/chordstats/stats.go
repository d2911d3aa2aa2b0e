// Package chordstats computes the per-chord summary statistics written
// to chords.stats.Z.Y.X.csv (SPEC_FULL.md §6). The original source's
// analyze_chords is referenced by name at its call site in
// original_source/volcano.c but its body is not among the retrieved
// original_source files, so these statistics are derived directly from
// the CSV schema's own field names (chord_id, num_superpixels,
// total_length, avg_step, straightness, avg_intensity, min_intensity,
// max_intensity, bbox_z_size, bbox_y_size, bbox_x_size) rather than
// transcribed from a C implementation.
package chordstats

import "math"

// Stats is one chord's summary row.
type Stats struct {
	ChordID        int
	NumSuperpixels int
	TotalLength    float64
	AvgStep        float64
	Straightness   float64
	AvgIntensity   float64
	MinIntensity   float64
	MaxIntensity   float64
	BBoxZSize      float64
	BBoxYSize      float64
	BBoxXSize      float64
}

// Point is the minimal per-superpixel view Analyze needs.
type Point struct {
	Z, Y, X   float64
	Intensity float64
}

// Analyze computes summary statistics for one chord's ordered points.
// TotalLength is the sum of Euclidean step distances; Straightness is
// the straight-line start-to-end distance divided by TotalLength
// (1 for a single-point or zero-length chord, since there is nothing to
// deviate from); bbox sizes are the span of each axis across the
// chord's points.
func Analyze(chordID int, points []Point) Stats {
	s := Stats{ChordID: chordID, NumSuperpixels: len(points)}
	if len(points) == 0 {
		return s
	}

	minZ, maxZ := points[0].Z, points[0].Z
	minY, maxY := points[0].Y, points[0].Y
	minX, maxX := points[0].X, points[0].X
	s.MinIntensity, s.MaxIntensity = points[0].Intensity, points[0].Intensity
	sumIntensity := 0.0

	for _, p := range points {
		if p.Z < minZ {
			minZ = p.Z
		}
		if p.Z > maxZ {
			maxZ = p.Z
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Intensity < s.MinIntensity {
			s.MinIntensity = p.Intensity
		}
		if p.Intensity > s.MaxIntensity {
			s.MaxIntensity = p.Intensity
		}
		sumIntensity += p.Intensity
	}
	s.AvgIntensity = sumIntensity / float64(len(points))
	s.BBoxZSize = maxZ - minZ
	s.BBoxYSize = maxY - minY
	s.BBoxXSize = maxX - minX

	for i := 1; i < len(points); i++ {
		dz := points[i].Z - points[i-1].Z
		dy := points[i].Y - points[i-1].Y
		dx := points[i].X - points[i-1].X
		s.TotalLength += math.Sqrt(dz*dz + dy*dy + dx*dx)
	}
	if len(points) > 1 {
		s.AvgStep = s.TotalLength / float64(len(points)-1)
	}

	if s.TotalLength > 0 {
		first, last := points[0], points[len(points)-1]
		dz := last.Z - first.Z
		dy := last.Y - first.Y
		dx := last.X - first.X
		endToEnd := math.Sqrt(dz*dz + dy*dy + dx*dx)
		s.Straightness = endToEnd / s.TotalLength
	} else {
		s.Straightness = 1
	}

	return s
}
