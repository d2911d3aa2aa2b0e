// Package scalarfield holds the dense 3-D intensity grid that SNIC
// clusters. It is deliberately the thinnest layer in the core: a flat
// buffer plus bounds-checked accessors.
package scalarfield

import "fmt"

// Field is a dense Lz*Ly*Lx cube of single-precision intensities,
// addressed in z,y,x-natural order: index(z,y,x) = z*Ly*Lx + y*Lx + x.
type Field struct {
	Lz, Ly, Lx int
	data       []float32

	// Origin is the chunk's position in global voxel coordinates,
	// carried through to CSV output naming (chunk origin / 128).
	Origin [3]int
}

// New allocates a zeroed field of the given dimensions.
func New(lz, ly, lx int) *Field {
	return &Field{
		Lz: lz, Ly: ly, Lx: lx,
		data: make([]float32, lz*ly*lx),
	}
}

// NewFromData wraps an existing buffer without copying. len(data) must
// equal lz*ly*lx.
func NewFromData(lz, ly, lx int, data []float32) (*Field, error) {
	if len(data) != lz*ly*lx {
		return nil, fmt.Errorf("scalarfield: data length %d does not match dims %dx%dx%d", len(data), lz, ly, lx)
	}
	return &Field{Lz: lz, Ly: ly, Lx: lx, data: data}, nil
}

// Dims returns (Lz, Ly, Lx).
func (f *Field) Dims() (int, int, int) { return f.Lz, f.Ly, f.Lx }

// InBounds reports whether (z,y,x) is a valid voxel coordinate.
func (f *Field) InBounds(z, y, x int) bool {
	return z >= 0 && z < f.Lz && y >= 0 && y < f.Ly && x >= 0 && x < f.Lx
}

func (f *Field) index(z, y, x int) int {
	return z*f.Ly*f.Lx + y*f.Lx + x
}

// At reads the intensity at (z,y,x). It panics on out-of-bounds
// coordinates since core callers are expected to check InBounds first;
// this mirrors the "structural invariant violations may abort" policy.
func (f *Field) At(z, y, x int) float32 {
	if !f.InBounds(z, y, x) {
		panic(fmt.Sprintf("scalarfield: out of bounds (%d,%d,%d) for dims (%d,%d,%d)", z, y, x, f.Lz, f.Ly, f.Lx))
	}
	return f.data[f.index(z, y, x)]
}

// TryAt is the non-panicking counterpart of At, used by callers that
// treat out-of-range neighbours as a skip rather than a programming
// error (InputOutOfBounds kind).
func (f *Field) TryAt(z, y, x int) (float32, bool) {
	if !f.InBounds(z, y, x) {
		return 0, false
	}
	return f.data[f.index(z, y, x)], true
}

// Set writes the intensity at (z,y,x).
func (f *Field) Set(z, y, x int, v float32) {
	if !f.InBounds(z, y, x) {
		panic(fmt.Sprintf("scalarfield: out of bounds (%d,%d,%d) for dims (%d,%d,%d)", z, y, x, f.Lz, f.Ly, f.Lx))
	}
	f.data[f.index(z, y, x)] = v
}

// Len returns the total voxel count Lz*Ly*Lx.
func (f *Field) Len() int { return len(f.data) }

// Raw exposes the underlying buffer for bulk operations (preprocessing
// hooks, decoders). Callers must respect the z,y,x-natural layout.
func (f *Field) Raw() []float32 { return f.data }

// Fill sets every voxel to v.
func (f *Field) Fill(v float32) {
	for i := range f.data {
		f.data[i] = v
	}
}
