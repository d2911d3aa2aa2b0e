package chord

import (
	"math"
	"math/rand"

	"github.com/superoptimizer/volcano/internal/direction"
)

const (
	degenerateEps    = 0.01
	strongDirMinNorm = 0.001
)

func centroidVec(c Centroid) [3]float64 { return [3]float64{c.Z, c.Y, c.X} }

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func scale(v [3]float64, s float64) [3]float64 {
	return [3]float64{v[0] * s, v[1] * s, v[2] * s}
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func axisIndex(axis Axis) int {
	switch axis {
	case AxisY:
		return 1
	case AxisX:
		return 2
	default:
		return 0
	}
}

// strongestConnectionDir returns the unit vector from u's centroid to
// the centroid of its strongest (max-edge-strength) neighbour, or the
// zero vector if that distance is below strongDirMinNorm.
func strongestConnectionDir(u uint32, supers []Centroid, graph Graph) [3]float64 {
	edges := graph.Edges(u)
	if len(edges) == 0 {
		return [3]float64{}
	}
	best := edges[0]
	for _, e := range edges[1:] {
		if e.Strength > best.Strength {
			best = e
		}
	}
	if int(best.Neighbor) >= len(supers) {
		return [3]float64{}
	}
	d := sub(centroidVec(supers[best.Neighbor]), centroidVec(supers[u]))
	n := norm(d)
	if n < strongDirMinNorm {
		return [3]float64{}
	}
	return scale(d, 1/n)
}

// growPass grows one directional pass (sign=+1 or -1) from seed u,
// returning the ordered superpixel ids appended during this pass and
// mutating available/recentDirs/idx as it proceeds.
func growPass(
	u uint32,
	sign float64,
	axis Axis,
	supers []Centroid,
	graph Graph,
	available []bool,
	recentDirs *[][3]float64,
	idx *direction.Index,
	cfg Config,
) []uint32 {
	var out []uint32
	ai := axisIndex(axis)

	for len(out) < cfg.MaxChordLength {
		strongDir := strongestConnectionDir(u, supers, graph)

		var bestV uint32
		bestScore := math.Inf(-1)
		found := false

		for _, e := range graph.Edges(u) {
			v := e.Neighbor
			if int(v) >= len(supers) || int(v) >= len(available) || !available[v] {
				continue
			}

			dp := sub(centroidVec(supers[v]), centroidVec(supers[u]))
			dist := norm(dp)
			if dist < degenerateEps {
				continue
			}
			dp = scale(dp, 1/dist)

			ap := sign * dp[ai]
			if ap < 0.5*cfg.ProgressThreshold {
				continue
			}

			smoothness := 1.0
			if len(*recentDirs) > 0 {
				var sum float64
				for _, rd := range *recentDirs {
					sum += dot3(dp, rd)
				}
				smoothness = sum / float64(len(*recentDirs))
			}
			if smoothness < 0.7*cfg.SmoothnessThreshold {
				continue
			}

			alignment := math.Abs(dot3(dp, strongDir))
			if math.IsNaN(alignment) {
				alignment = 0.5
			}

			parallel := idx.ParallelScore(centroidVec(supers[v]), dp)

			score := cfg.Weights.Strength*(e.Strength/255) +
				cfg.Weights.Progress*ap +
				cfg.Weights.Parallel*parallel +
				cfg.Weights.Alignment*alignment

			if score > bestScore {
				bestScore = score
				bestV = v
				found = true
			}
		}

		if !found {
			break
		}

		dp := sub(centroidVec(supers[bestV]), centroidVec(supers[u]))
		n := norm(dp)
		if n > 0 {
			dp = scale(dp, 1/n)
		}

		out = append(out, bestV)
		*recentDirs = append(*recentDirs, dp)
		if len(*recentDirs) > cfg.MaxRecentDirs {
			*recentDirs = (*recentDirs)[1:]
		}
		available[bestV] = false
		idx.Add(centroidVec(supers[bestV]), dp)
		u = bestV
	}

	return out
}

// growSingleChord grows bidirectionally from seed, returning the
// finished chord (forward pass appended, backward pass reversed and
// prepended) or nil if it never reaches MinChordLength.
func growSingleChord(seed uint32, axis Axis, supers []Centroid, graph Graph, available []bool, idx *direction.Index, cfg Config) *Chord {
	var recentDirs [][3]float64

	forward := growPass(seed, 1, axis, supers, graph, available, &recentDirs, idx, cfg)

	recentDirs = nil
	backward := growPass(seed, -1, axis, supers, graph, available, &recentDirs, idx, cfg)

	points := make([]uint32, 0, len(forward)+len(backward)+1)
	for i := len(backward) - 1; i >= 0; i-- {
		points = append(points, backward[i])
	}
	points = append(points, seed)
	points = append(points, forward...)

	if len(points) < cfg.MinChordLength {
		return nil
	}
	if len(points) > cfg.MaxChordLength {
		points = points[:cfg.MaxChordLength]
	}
	return &Chord{Points: points}
}

// Grow runs seed selection then bidirectional growth from every
// surviving, still-available seed, returning the compacted array of
// chords meeting MinChordLength. A chord shorter than MinChordLength is
// discarded and its superpixels are NOT returned to the available pool
// (deliberate anti-thrashing, SPEC_FULL.md §9).
func Grow(supers []Centroid, graph Graph, axis Axis, cfg Config, bounds [2][3]float64, rng *rand.Rand) []Chord {
	available := make([]bool, len(supers))
	for i := range available {
		available[i] = true
	}

	extent := sub(bounds[1], bounds[0])
	idx := direction.New(bounds[0], extent, direction.Config{
		Grid:       cfg.DirGrid,
		MaxPerCell: cfg.DirMaxPerCell,
		RMax:       cfg.DirRMax,
		KNeigh:     cfg.DirKNeigh,
	})

	seeds := selectSeeds(supers, graph, axis, cfg, rng)

	var chords []Chord
	for _, seed := range seeds {
		if int(seed) >= len(available) || !available[seed] {
			continue
		}
		available[seed] = false
		c := growSingleChord(seed, axis, supers, graph, available, idx, cfg)
		if c != nil {
			chords = append(chords, *c)
		}
	}
	return chords
}
