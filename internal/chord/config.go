package chord

// Axis names the chosen growth axis.
type Axis int

const (
	AxisZ Axis = iota
	AxisY
	AxisX
)

// Weights are the combined-score coefficients from SPEC_FULL.md §4.F.2.f.
// They need not be validated to sum to 1 — the spec recommends it but a
// caller experimenting with emphasis is free to deviate.
type Weights struct {
	Strength float64
	Progress float64
	Parallel float64
	Alignment float64
}

// DefaultWeights is the spec's recommended default (0.1/0.7/0.1/0.1).
func DefaultWeights() Weights {
	return Weights{Strength: 0.1, Progress: 0.7, Parallel: 0.1, Alignment: 0.1}
}

// LegacyWeights is the original source's alternate weighting
// (0.6/0.2/0.1/0.1, emphasising edge strength over axial progress).
// Not used as a default; kept for parity testing against the original
// behaviour per SPEC_FULL.md §9.
func LegacyWeights() Weights {
	return Weights{Strength: 0.6, Progress: 0.2, Parallel: 0.1, Alignment: 0.1}
}

// Config bundles every tunable named in SPEC_FULL.md §4.F.
type Config struct {
	// NumLayers partitions the axis into this many equal slabs for seed
	// selection. Default 256.
	NumLayers int
	// SeedPercentile is the intensity-percentile floor for seed
	// eligibility within a slab. Default 75 ("prefer bright
	// superpixels"); the original source's actual behaviour
	// (LegacyPercentile = 5) is preserved below for reference, not as
	// the default.
	SeedPercentile float64
	// MinConnections is the adjacency-degree floor for seed eligibility.
	// Default 4.
	MinConnections int
	// TargetCount is the desired total seed count across all slabs.
	TargetCount int

	MinChordLength int // default 8
	MaxChordLength int // default 128

	ProgressThreshold   float64 // default 0.5
	SmoothnessThreshold float64 // default 0.8

	Weights Weights

	// Direction index tuning, forwarded to direction.Config.
	DirGrid       int
	DirMaxPerCell int
	DirRMax       float64
	DirKNeigh     int

	MaxRecentDirs int // default 3
}

// LegacyPercentile documents the original source's actual (likely
// accidental) 5th-percentile seed floor — see SPEC_FULL.md §9.
const LegacyPercentile = 5.0

// DefaultConfig returns the spec's recommended defaults.
func DefaultConfig() Config {
	return Config{
		NumLayers:           256,
		SeedPercentile:      75,
		MinConnections:      4,
		TargetCount:         4096,
		MinChordLength:      8,
		MaxChordLength:      128,
		ProgressThreshold:   0.5,
		SmoothnessThreshold: 0.8,
		Weights:             DefaultWeights(),
		DirGrid:             32,
		DirMaxPerCell:       48,
		DirRMax:             12,
		DirKNeigh:           12,
		MaxRecentDirs:       3,
	}
}
