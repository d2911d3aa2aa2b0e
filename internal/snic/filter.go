package snic

// FilterResult is the output of a post-SNIC compaction pass: clusters
// failing the n_min/c_min floors are dropped and surviving labels are
// remapped to a dense [0,len(Superpixels)) range.
type FilterResult struct {
	Labels      []uint32
	Superpixels []Superpixel
}

// Filter drops clusters whose voxel count is below nMin or whose mean
// intensity is below cMin, compacting the superpixel array and
// remapping every surviving label so the "every label indexes a live
// cluster" invariant holds afterward. Voxels whose cluster was dropped
// become Unassigned in the output.
func Filter(r Result, nMin uint32, cMin float64) FilterResult {
	remap := make([]uint32, len(r.Superpixels))
	var kept []Superpixel

	for k, s := range r.Superpixels {
		if s.N < nMin || s.C < cMin {
			remap[k] = Unassigned
			continue
		}
		remap[k] = uint32(len(kept))
		kept = append(kept, s)
	}

	labels := make([]uint32, len(r.Labels))
	for i, lbl := range r.Labels {
		if lbl == Unassigned || int(lbl) >= len(remap) {
			labels[i] = Unassigned
			continue
		}
		labels[i] = remap[lbl]
	}

	return FilterResult{Labels: labels, Superpixels: kept}
}
