package adjacency

// Per-voxel-pair intensity-distance kernel used by the accumulate pass.
//
// strength(v,v') = 1 - |I(v)-I(v')|/255
//
// This is a single floating-point subtraction and division over one
// pair of samples at a time, visited through the irregular 26-
// neighbourhood walk in Build — not the contiguous-row layout the
// teacher's per-pixel SAD/SSD kernels batch 8+ pixels from in a single
// instruction. An earlier revision of this file carried a
// golang.org/x/sys/cpu-gated dispatch between a "scalar" and an
// "avx2-shaped" variant of this function, but the two branches computed
// the identical scalar expression — no assembly kernel backed the
// chosen branch, unlike sad_amd64.go's true VPSADBW routine (see
// DESIGN.md). That dispatch was decorative, so it was removed in favour
// of calling this single function directly from Build.
func strength(a, b float32) float64 {
	diff := float64(a) - float64(b)
	if diff < 0 {
		diff = -diff
	}
	return 1 - diff/255
}
