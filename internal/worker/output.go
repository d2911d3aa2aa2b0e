package worker

import (
	"github.com/superoptimizer/volcano/internal/chord"
	"github.com/superoptimizer/volcano/internal/chordstats"
	"github.com/superoptimizer/volcano/internal/csvio"
	"github.com/superoptimizer/volcano/internal/scalarfield"
	"github.com/superoptimizer/volcano/internal/snic"
)

// Output holds every record set one chunk contributes to the four
// SPEC_FULL.md §6 CSV schemas plus the supplemented fiber-label schema,
// fully built in memory so writing them out is a pure I/O step with no
// remaining computation (see write.go's all-or-nothing write).
type Output struct {
	Coord        Coord
	Superpixels  []csvio.SuperpixelRecord
	Chords       [][]uint32
	ChordStats   []csvio.ChordStatsRecord
	ChordPoints  []csvio.ChordPointRecord
	FiberChords  []csvio.FiberChordRecord
}

const maxTrackedFiberLabel = 32

func buildOutput(coord Coord, supers []snic.Superpixel, chords []chord.Chord, centroids []chord.Centroid, labeledFiber *scalarfield.Field) *Output {
	out := &Output{Coord: coord}

	out.Superpixels = make([]csvio.SuperpixelRecord, len(supers))
	for i, sp := range supers {
		out.Superpixels[i] = csvio.SuperpixelRecord{Z: sp.Z, Y: sp.Y, X: sp.X, Intensity: sp.C, PixelCount: sp.N}
	}

	out.Chords = make([][]uint32, len(chords))
	for i, c := range chords {
		out.Chords[i] = c.Points
	}

	for chordID, c := range chords {
		points := make([]chordstats.Point, len(c.Points))
		for j, id := range c.Points {
			cen := centroids[id]
			points[j] = chordstats.Point{Z: cen.Z, Y: cen.Y, X: cen.X, Intensity: cen.Intensity}
			out.ChordPoints = append(out.ChordPoints, csvio.ChordPointRecord{
				ChordID:      chordID,
				SuperpixelID: id,
				Z:            cen.Z, Y: cen.Y, X: cen.X,
				Intensity:  cen.Intensity,
				PixelCount: supers[id].N,
			})
		}
		s := chordstats.Analyze(chordID, points)
		out.ChordStats = append(out.ChordStats, csvio.ChordStatsRecord{
			ChordID:        s.ChordID,
			NumSuperpixels: s.NumSuperpixels,
			TotalLength:    s.TotalLength,
			AvgStep:        s.AvgStep,
			Straightness:   s.Straightness,
			AvgIntensity:   s.AvgIntensity,
			MinIntensity:   s.MinIntensity,
			MaxIntensity:   s.MaxIntensity,
			BBoxZSize:      s.BBoxZSize,
			BBoxYSize:      s.BBoxYSize,
			BBoxXSize:      s.BBoxXSize,
		})

		out.FiberChords = append(out.FiberChords, csvio.FiberChordRecord{
			ChordID:     chordID,
			FiberLabels: fiberLabelsForChord(c, centroids, labeledFiber),
		})
	}

	return out
}

// fiberLabelsForChord returns the distinct fiber-component labels a
// chord's superpixels fall on, capped at maxTrackedFiberLabel entries —
// original_source/volcano.c's `assert(label<32)` / `unique_labels[32]`
// tracking array, reproduced as a dynamic set with the same cap rather
// than assuming the label space itself never exceeds 32.
func fiberLabelsForChord(c chord.Chord, centroids []chord.Centroid, labeledFiber *scalarfield.Field) []uint32 {
	seen := make(map[uint32]bool)
	var labels []uint32
	for _, id := range c.Points {
		cen := centroids[id]
		label, ok := labeledFiber.TryAt(int(cen.Z), int(cen.Y), int(cen.X))
		if !ok || label == 0 {
			continue
		}
		lv := uint32(label)
		if seen[lv] {
			continue
		}
		seen[lv] = true
		labels = append(labels, lv)
		if len(labels) >= maxTrackedFiberLabel {
			break
		}
	}
	return labels
}
