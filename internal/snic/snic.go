// Package snic implements Simple Non-Iterative Clustering over a dense
// scalar field: a priority-driven region-growing pass that labels every
// voxel and produces per-cluster centroid/intensity accumulators.
package snic

import (
	"errors"
	"math"

	"github.com/superoptimizer/volcano/internal/heap"
	"github.com/superoptimizer/volcano/internal/scalarfield"
)

// Unassigned is the sentinel label meaning "not yet claimed" — the
// 0-based-labels-with-MaxUint32-sentinel convention adopted throughout
// this implementation (see SPEC_FULL.md §9).
const Unassigned uint32 = math.MaxUint32

var (
	// ErrInvalidSuperpixel is returned when a label outside the live
	// range, or the unassigned sentinel, is used where a live cluster
	// index is required.
	ErrInvalidSuperpixel = errors.New("snic: invalid superpixel label")
)

// Params configures a single clustering pass.
type Params struct {
	// DSeed is the seeding lattice stride. Default 2.
	DSeed int
	// M is the compactness weight trading positional against intensity
	// distance. Default 1.
	M float64
}

// DefaultParams returns the spec's recommended defaults.
func DefaultParams() Params {
	return Params{DSeed: 2, M: 1.0}
}

// Superpixel is a cluster accumulator. During clustering C/Z/Y/X are
// running sums weighted by N; Finalize divides them into means.
type Superpixel struct {
	C          float64
	Z, Y, X    float64
	N          uint32
}

// Result is the output of a single SNIC pass: one label per voxel
// (z,y,x-natural order, matching scalarfield.Field) and one accumulator
// per cluster.
type Result struct {
	Labels      []uint32
	Superpixels []Superpixel
	Lz, Ly, Lx  int
}

// sixNeighbors are the axis-aligned offsets used to expand the SNIC
// frontier — the 6-neighbourhood, distinct from adjacency's
// 26-neighbourhood (SPEC_FULL.md §9 open question, preserved as-is).
var sixNeighbors = [6][3]int32{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// Cluster runs SNIC over field with the given params and returns the
// label array plus finalized (mean, not sum) superpixel accumulators.
func Cluster(field *scalarfield.Field, p Params) (Result, error) {
	if p.DSeed <= 0 {
		p.DSeed = 2
	}
	if p.M <= 0 {
		p.M = 1.0
	}

	lz, ly, lx := field.Dims()
	total := lz * ly * lx

	labels := make([]uint32, total)
	for i := range labels {
		labels[i] = Unassigned
	}

	// Seed positions on a regular lattice spaced by DSeed. kMax is
	// derived from the actual seed count rather than the
	// (Lz/DSeed)*(Ly/DSeed)*(Lx/DSeed) formula so that every pushed
	// K is guaranteed to index a live accumulator slot regardless of
	// how dims divide by DSeed.
	type seed struct{ z, y, x int32 }
	var seeds []seed
	for z := 0; z < lz; z += p.DSeed {
		for y := 0; y < ly; y += p.DSeed {
			for x := 0; x < lx; x += p.DSeed {
				seeds = append(seeds, seed{int32(z), int32(y), int32(x)})
			}
		}
	}
	kMax := len(seeds)

	supers := make([]Superpixel, kMax)

	h := heap.New(total)

	invwt := (p.M * p.M) * float64(kMax) / float64(total)

	for k, s := range seeds {
		h.Push(heap.Node{D: 0, K: uint32(k), Z: s.z, Y: s.y, X: s.x})
	}

	index := func(z, y, x int32) int {
		return int(z)*ly*lx + int(y)*lx + int(x)
	}

	for h.Len() > 0 {
		node, err := h.Pop()
		if err != nil {
			break
		}
		idx := index(node.Z, node.Y, node.X)
		if labels[idx] != Unassigned {
			continue
		}

		k := node.K
		if int(k) >= len(supers) {
			continue
		}
		labels[idx] = k

		intensity := float64(field.At(int(node.Z), int(node.Y), int(node.X)))
		s := &supers[k]
		s.C += intensity
		s.Z += float64(node.Z)
		s.Y += float64(node.Y)
		s.X += float64(node.X)
		s.N++

		for _, off := range sixNeighbors {
			nz := node.Z + off[0]
			ny := node.Y + off[1]
			nx := node.X + off[2]
			if nz < 0 || ny < 0 || nx < 0 || int(nz) >= lz || int(ny) >= ly || int(nx) >= lx {
				continue
			}
			nIdx := index(nz, ny, nx)
			if labels[nIdx] != Unassigned {
				continue
			}
			nIntensity := float64(field.At(int(nz), int(ny), int(nx)))
			n := float64(s.N)

			dc := 255 * (s.C - nIntensity*n)
			dc *= dc

			ddz := s.Z - float64(nz)*n
			ddy := s.Y - float64(ny)*n
			ddx := s.X - float64(nx)*n
			dpos := ddz*ddz + ddy*ddy + ddx*ddx

			d := (dc + dpos*invwt) / (n * n)

			h.Push(heap.Node{D: d, K: k, Z: nz, Y: ny, X: nx})
		}
	}

	for i := range supers {
		if supers[i].N == 0 {
			continue
		}
		n := float64(supers[i].N)
		supers[i].C /= n
		supers[i].Z /= n
		supers[i].Y /= n
		supers[i].X /= n
	}

	return Result{Labels: labels, Superpixels: supers, Lz: lz, Ly: ly, Lx: lx}, nil
}
