package chord

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Graph is the minimal adjacency view seed selection and growth need.
type Graph interface {
	Degree(k uint32) int
	Edges(k uint32) []Edge
}

// Edge mirrors adjacency.Edge without importing that package, so chord
// stays decoupled from the adjacency representation; callers adapt.
type Edge struct {
	Neighbor uint32
	Strength float64
}

func axisCoord(axis Axis, c Centroid) float64 {
	switch axis {
	case AxisY:
		return c.Y
	case AxisX:
		return c.X
	default:
		return c.Z
	}
}

// selectSeeds partitions [minCoord,maxCoord) along axis into
// cfg.NumLayers equal slabs, and within each slab draws up to
// target_count/NumLayers superpixels uniformly at random from those
// whose intensity exceeds the configured percentile and whose degree is
// at least MinConnections.
func selectSeeds(supers []Centroid, graph Graph, axis Axis, cfg Config, rng *rand.Rand) []uint32 {
	if len(supers) == 0 || cfg.NumLayers <= 0 {
		return nil
	}

	intensities := make([]float64, len(supers))
	for i, s := range supers {
		intensities[i] = s.Intensity
	}
	sorted := append([]float64(nil), intensities...)
	sort.Float64s(sorted)
	floor := stat.Quantile(cfg.SeedPercentile/100, stat.LinInterp, sorted, nil)

	minCoord, maxCoord := axisCoord(axis, supers[0]), axisCoord(axis, supers[0])
	for _, s := range supers {
		c := axisCoord(axis, s)
		if c < minCoord {
			minCoord = c
		}
		if c > maxCoord {
			maxCoord = c
		}
	}
	span := maxCoord - minCoord
	if span <= 0 {
		span = 1
	}
	slabWidth := span / float64(cfg.NumLayers)

	pools := make([][]uint32, cfg.NumLayers)
	for k, s := range supers {
		if s.Intensity < floor {
			continue
		}
		if graph.Degree(uint32(k)) < cfg.MinConnections {
			continue
		}
		slab := int((axisCoord(axis, s) - minCoord) / slabWidth)
		if slab < 0 {
			slab = 0
		}
		if slab >= cfg.NumLayers {
			slab = cfg.NumLayers - 1
		}
		pools[slab] = append(pools[slab], uint32(k))
	}

	perSlab := cfg.TargetCount / cfg.NumLayers
	if perSlab <= 0 {
		perSlab = 1
	}

	var seeds []uint32
	for _, pool := range pools {
		if len(seeds) >= cfg.TargetCount {
			break
		}
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		take := perSlab
		if take > len(pool) {
			take = len(pool)
		}
		seeds = append(seeds, pool[:take]...)
	}

	if len(seeds) > cfg.TargetCount {
		seeds = seeds[:cfg.TargetCount]
	}
	return seeds
}
