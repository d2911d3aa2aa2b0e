package chord

import (
	"math/rand"
	"testing"

	"github.com/superoptimizer/volcano/internal/direction"
)

// fakeGraph is a simple adjacency stand-in for chord tests: a dense
// grid graph over integer (z,y,x) coordinates, connected along all
// three axes with uniform edge strength.
type fakeGraph struct {
	edges map[uint32][]Edge
}

func (g *fakeGraph) Degree(k uint32) int    { return len(g.edges[k]) }
func (g *fakeGraph) Edges(k uint32) []Edge  { return g.edges[k] }

// buildLineGraph creates n superpixels laid out along the z-axis at
// integer coordinates with intensity rising monotonically, each
// connected to its immediate neighbours with strength 1 (concrete
// scenario 4: chord growth on a ramp).
func buildLineGraph(n int) ([]Centroid, *fakeGraph) {
	supers := make([]Centroid, n)
	g := &fakeGraph{edges: make(map[uint32][]Edge)}
	for i := 0; i < n; i++ {
		supers[i] = Centroid{Z: float64(i), Y: 0, X: 0, Intensity: float64(i)}
		var edges []Edge
		if i > 0 {
			edges = append(edges, Edge{Neighbor: uint32(i - 1), Strength: 1})
		}
		if i < n-1 {
			edges = append(edges, Edge{Neighbor: uint32(i + 1), Strength: 1})
		}
		g.edges[uint32(i)] = edges
	}
	return supers, g
}

func TestRampFieldChordGrowth(t *testing.T) {
	n := 20
	supers, g := buildLineGraph(n)

	cfg := DefaultConfig()
	cfg.MinConnections = 0
	cfg.NumLayers = 1
	cfg.TargetCount = 1
	cfg.MinChordLength = 1
	cfg.MaxChordLength = 128
	cfg.SeedPercentile = 0

	bounds := [2][3]float64{{0, 0, 0}, {float64(n), 1, 1}}
	rng := rand.New(rand.NewSource(1))

	chords := Grow(supers, g, AxisZ, cfg, bounds, rng)
	if len(chords) == 0 {
		t.Fatal("expected at least one chord on a ramp field")
	}
	c := chords[0]
	if len(c.Points) > cfg.MaxChordLength {
		t.Fatalf("chord length %d exceeds MaxChordLength %d", len(c.Points), cfg.MaxChordLength)
	}
	if len(c.Points) < cfg.MinChordLength {
		t.Fatalf("surviving chord shorter than MinChordLength: %d", len(c.Points))
	}
}

func TestMaxChordLengthHardCap(t *testing.T) {
	n := 300
	supers, g := buildLineGraph(n)

	cfg := DefaultConfig()
	cfg.MinConnections = 0
	cfg.NumLayers = 1
	cfg.TargetCount = 1
	cfg.MinChordLength = 1
	cfg.MaxChordLength = 50
	cfg.SeedPercentile = 0

	bounds := [2][3]float64{{0, 0, 0}, {float64(n), 1, 1}}
	rng := rand.New(rand.NewSource(2))

	chords := Grow(supers, g, AxisZ, cfg, bounds, rng)
	for _, c := range chords {
		if len(c.Points) > cfg.MaxChordLength {
			t.Fatalf("chord length %d exceeds hard cap %d", len(c.Points), cfg.MaxChordLength)
		}
	}
}

// TestUnavailableSeedNoOp is concrete scenario 5: running the grower
// with a seed already marked unavailable produces no chord from it.
func TestUnavailableSeedNoOp(t *testing.T) {
	supers, g := buildLineGraph(10)
	cfg := DefaultConfig()
	cfg.MinConnections = 0
	cfg.MinChordLength = 1

	available := make([]bool, len(supers))

	// Seed 0 is unavailable from the start. The helper bypasses seed
	// selection and applies the same availability check Grow's seed loop
	// applies before calling growSingleChord.
	available[0] = false
	for i := 1; i < len(available); i++ {
		available[i] = true
	}
	c := growSingleChordTestHelper(0, supers, g, available, cfg)
	if c != nil {
		t.Fatal("expected no chord grown from an unavailable seed")
	}
}

func growSingleChordTestHelper(seed uint32, supers []Centroid, g Graph, available []bool, cfg Config) *Chord {
	if !available[seed] {
		return nil
	}
	bounds := [2][3]float64{{0, 0, 0}, {float64(len(supers)), 1, 1}}
	extent := sub(bounds[1], bounds[0])
	idx := direction.New(bounds[0], extent, direction.Config{
		Grid:       cfg.DirGrid,
		MaxPerCell: cfg.DirMaxPerCell,
		RMax:       cfg.DirRMax,
		KNeigh:     cfg.DirKNeigh,
	})
	return growSingleChord(seed, AxisZ, supers, g, available, idx, cfg)
}
