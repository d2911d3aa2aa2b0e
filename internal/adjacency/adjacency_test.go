package adjacency

import (
	"testing"

	"github.com/superoptimizer/volcano/internal/scalarfield"
	"github.com/superoptimizer/volcano/internal/snic"
)

// TestSymmetryOnSNICOutput is concrete scenario 6: for any label grid
// produced by SNIC, the adjacency map must be symmetric.
func TestSymmetryOnSNICOutput(t *testing.T) {
	f := scalarfield.New(12, 12, 12)
	for z := 0; z < 12; z++ {
		for y := 0; y < 12; y++ {
			for x := 0; x < 12; x++ {
				f.Set(z, y, x, float32((z*37+y*11+x*7)%255))
			}
		}
	}
	res, err := snic.Cluster(f, snic.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	g, err := Build(res.Labels, f, len(res.Superpixels))
	if err != nil {
		t.Fatal(err)
	}

	for k := 0; k < g.NumClusters(); k++ {
		for _, e := range g.Edges(uint32(k)) {
			if e.Strength < 0 {
				t.Fatalf("negative strength %v for edge %d->%d", e.Strength, k, e.Neighbor)
			}
			if e.Neighbor == uint32(k) {
				t.Fatalf("self-edge found on cluster %d", k)
			}
			back, ok := g.Strength(e.Neighbor, uint32(k))
			if !ok {
				t.Fatalf("asymmetric adjacency: %d->%d exists but %d->%d does not", k, e.Neighbor, e.Neighbor, k)
			}
			if diff := back - e.Strength; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("asymmetric strength: %d->%d = %v but %d->%d = %v", k, e.Neighbor, e.Strength, e.Neighbor, k, back)
			}
		}
	}
}

func TestNoDuplicateNeighborEntries(t *testing.T) {
	f := scalarfield.New(10, 10, 10)
	f.Fill(50)
	res, err := snic.Cluster(f, snic.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	g, err := Build(res.Labels, f, len(res.Superpixels))
	if err != nil {
		t.Fatal(err)
	}
	for k := 0; k < g.NumClusters(); k++ {
		seen := make(map[uint32]bool)
		for _, e := range g.Edges(uint32(k)) {
			if seen[e.Neighbor] {
				t.Fatalf("duplicate neighbour entry %d for cluster %d", e.Neighbor, k)
			}
			seen[e.Neighbor] = true
		}
	}
}

// TestUniformFieldAdjacencyStrength is concrete scenario 1's adjacency
// portion: identical intensities everywhere mean every edge has
// strength equal to the number of 26-neighbourhood voxel pairs between
// the two clusters (since 1-|I-I'|/255 = 1 per pair).
func TestUniformFieldAdjacencyStrength(t *testing.T) {
	f := scalarfield.New(16, 16, 16)
	f.Fill(100)
	res, err := snic.Cluster(f, snic.Params{DSeed: 2, M: 1})
	if err != nil {
		t.Fatal(err)
	}
	g, err := Build(res.Labels, f, len(res.Superpixels))
	if err != nil {
		t.Fatal(err)
	}
	for k := 0; k < g.NumClusters(); k++ {
		for _, e := range g.Edges(uint32(k)) {
			// Every contributing voxel pair has strength exactly 1 on a
			// uniform field, so total edge strength must be a positive
			// integer (within float tolerance).
			rounded := float64(int(e.Strength + 0.5))
			if diff := e.Strength - rounded; diff > 1e-6 || diff < -1e-6 {
				t.Fatalf("expected integral strength on uniform field, got %v", e.Strength)
			}
		}
	}
}
