// Package adjacency builds the weighted superpixel graph from a SNIC
// labelling: a two-pass scan over the 26-neighbourhood of every voxel,
// counting then accumulating (neighbor, strength) edges per cluster.
package adjacency

import (
	"errors"

	"github.com/superoptimizer/volcano/internal/scalarfield"
)

// ErrInvalidSuperpixel mirrors the InvalidSuperpixel error kind: a
// caller asked for edges/degree of a label outside the live range.
var ErrInvalidSuperpixel = errors.New("adjacency: invalid superpixel label")

// Edge is one weighted connection from a cluster to a neighbour.
type Edge struct {
	Neighbor uint32
	Strength float64
}

// Graph is the per-cluster adjacency list. Edges are symmetric:
// strength(k->k') == strength(k'->k).
type Graph struct {
	edges [][]Edge
}

// Edges returns cluster k's neighbour list, or nil if k is out of range.
func (g *Graph) Edges(k uint32) []Edge {
	if int(k) >= len(g.edges) {
		return nil
	}
	return g.edges[k]
}

// Degree returns the number of distinct neighbours of cluster k.
func (g *Graph) Degree(k uint32) int {
	return len(g.Edges(k))
}

// NumClusters returns the number of clusters the graph was built over.
func (g *Graph) NumClusters() int { return len(g.edges) }

// Strength looks up the edge strength from k to neighbor, returning
// (0, false) if no such edge exists.
func (g *Graph) Strength(k, neighbor uint32) (float64, bool) {
	for _, e := range g.Edges(k) {
		if e.Neighbor == neighbor {
			return e.Strength, true
		}
	}
	return 0, false
}

// twentySixNeighbors are every non-zero offset in {-1,0,1}^3 — the
// 26-neighbourhood used for adjacency, distinct from SNIC's
// 6-neighbourhood frontier expansion (SPEC_FULL.md §9, preserved as-is).
var twentySixNeighbors = func() [][3]int {
	var offs [][3]int
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dz == 0 && dy == 0 && dx == 0 {
					continue
				}
				offs = append(offs, [3]int{dz, dy, dx})
			}
		}
	}
	return offs
}()

const unassigned = ^uint32(0)

// Build runs the count-then-accumulate two-pass scan described in
// SPEC_FULL.md §4.D. labels must be z,y,x-natural-order and the same
// length as field.Len(); numClusters bounds the valid label range.
func Build(labels []uint32, field *scalarfield.Field, numClusters int) (*Graph, error) {
	lz, ly, lx := field.Dims()
	if len(labels) != lz*ly*lx {
		return nil, errors.New("adjacency: labels length does not match field dims")
	}

	index := func(z, y, x int) int { return z*ly*lx + y*lx + x }

	// Pass 1: count distinct neighbours per cluster using one "seen"
	// set per cluster, kept for the whole scan.
	counts := make([]int, numClusters)
	seen := make([]map[uint32]bool, numClusters)
	for k := range seen {
		seen[k] = make(map[uint32]bool)
	}

	for z := 0; z < lz; z++ {
		for y := 0; y < ly; y++ {
			for x := 0; x < lx; x++ {
				k := labels[index(z, y, x)]
				if k == unassigned || int(k) >= numClusters {
					continue
				}
				for _, off := range twentySixNeighbors {
					nz, ny, nx := z+off[0], y+off[1], x+off[2]
					if nz < 0 || ny < 0 || nx < 0 || nz >= lz || ny >= ly || nx >= lx {
						continue
					}
					kp := labels[index(nz, ny, nx)]
					if kp == unassigned || kp == k || int(kp) >= numClusters {
						continue
					}
					if !seen[k][kp] {
						seen[k][kp] = true
						counts[k]++
					}
				}
			}
		}
	}

	edges := make([][]Edge, numClusters)
	edgeIndex := make([]map[uint32]int, numClusters)
	for k := range edges {
		edges[k] = make([]Edge, 0, counts[k])
		edgeIndex[k] = make(map[uint32]int, counts[k])
	}

	// Pass 2: accumulate strength into the pre-sized edge lists.
	for z := 0; z < lz; z++ {
		for y := 0; y < ly; y++ {
			for x := 0; x < lx; x++ {
				k := labels[index(z, y, x)]
				if k == unassigned || int(k) >= numClusters {
					continue
				}
				iv := field.At(z, y, x)
				for _, off := range twentySixNeighbors {
					nz, ny, nx := z+off[0], y+off[1], x+off[2]
					if nz < 0 || ny < 0 || nx < 0 || nz >= lz || ny >= ly || nx >= lx {
						continue
					}
					kp := labels[index(nz, ny, nx)]
					if kp == unassigned || kp == k || int(kp) >= numClusters {
						continue
					}
					ivp := field.At(nz, ny, nx)
					s := strength(iv, ivp)

					if pos, ok := edgeIndex[k][kp]; ok {
						edges[k][pos].Strength += s
					} else {
						edgeIndex[k][kp] = len(edges[k])
						edges[k] = append(edges[k], Edge{Neighbor: kp, Strength: s})
					}
				}
			}
		}
	}

	return &Graph{edges: edges}, nil
}
