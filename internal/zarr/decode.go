package zarr

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/superoptimizer/volcano/internal/scalarfield"
)

// DecodeChunk converts a raw (uncompressed) chunk payload into a
// scalarfield.Field of the given voxel dimensions, per the array's
// dtype. Only the "<f4" and "|u1" dtypes the original scroll volumes
// actually ship in are handled; blosc-compressed stores must be
// decompressed by the caller before this is called — no pure-Go blosc
// decoder exists in the dependency set this pipeline draws from.
func DecodeChunk(data []byte, dtype string, lz, ly, lx int) (*scalarfield.Field, error) {
	n := lz * ly * lx
	out := make([]float32, n)
	switch dtype {
	case "<f4":
		if len(data) < n*4 {
			return nil, fmt.Errorf("zarr: chunk payload too short for dtype %s: got %d bytes, want %d", dtype, len(data), n*4)
		}
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint32(data[i*4:])
			out[i] = math.Float32frombits(bits)
		}
	case "|u1":
		if len(data) < n {
			return nil, fmt.Errorf("zarr: chunk payload too short for dtype %s: got %d bytes, want %d", dtype, len(data), n)
		}
		for i := 0; i < n; i++ {
			out[i] = float32(data[i])
		}
	default:
		return nil, fmt.Errorf("zarr: unsupported dtype %q", dtype)
	}
	return scalarfield.NewFromData(lz, ly, lx, out)
}
