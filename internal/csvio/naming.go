package csvio

import (
	"fmt"
	"path/filepath"
)

// ChunkSize is the cube side used to derive the Z.Y.X coordinate triple
// from a chunk's voxel origin, per SPEC_FULL.md §6 ("Coordinates Z.Y.X
// are the chunk's origin divided by 128").
const ChunkSize = 128

// ChunkCoord converts a chunk's voxel-space origin into the Z.Y.X
// triple used in output filenames.
func ChunkCoord(origin [3]int) (z, y, x int) {
	return origin[0] / ChunkSize, origin[1] / ChunkSize, origin[2] / ChunkSize
}

// Paths bundles the five (four spec-named plus the supplemented fiber
// variant) output file paths for one chunk, rooted at dir.
type Paths struct {
	Superpixels string
	Chords      string
	ChordStats  string
	ChordPoints string
	ChordFiber  string
}

// NewPaths builds the standard filename set for a chunk at the given
// origin, optionally gzip-suffixed.
func NewPaths(dir string, origin [3]int, compressed bool) Paths {
	z, y, x := ChunkCoord(origin)
	suffix := ".csv"
	if compressed {
		suffix = ".csv.gz"
	}
	name := func(prefix string) string {
		return filepath.Join(dir, fmt.Sprintf("%s.%d.%d.%d%s", prefix, z, y, x, suffix))
	}
	return Paths{
		Superpixels: name("superpixels"),
		Chords:      name("chords"),
		ChordStats:  name("chords.stats"),
		ChordPoints: name("chords.only"),
		ChordFiber:  name("chords.fiber"),
	}
}
