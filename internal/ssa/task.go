package ssa

// TaskRegion returns the blocks of the task started by detach, in
// discovery order: everything reachable from its task successor without
// passing the matching reattach. The reattach itself is included.
func TaskRegion(detach *Block) []*Block {
	if detach.Kind != BlockDetach || len(detach.Succs) == 0 {
		return nil
	}
	seen := map[*Block]bool{}
	var region []*Block
	work := []*Block{detach.Succs[0]}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[b] {
			continue
		}
		seen[b] = true
		region = append(region, b)
		if b.Kind == BlockReattach && b.Detach == detach {
			continue
		}
		work = append(work, b.Succs...)
	}
	return region
}

// TaskBlocks returns the set of blocks that belong to some task region of f.
func TaskBlocks(f *Func) map[*Block]bool {
	in := make(map[*Block]bool)
	for _, b := range f.Blocks {
		if b.Kind != BlockDetach {
			continue
		}
		for _, t := range TaskRegion(b) {
			in[t] = true
		}
	}
	return in
}

// Reattach returns the reattach block closing the task started by detach,
// or nil if the task never rejoins.
func Reattach(detach *Block) *Block {
	for _, b := range TaskRegion(detach) {
		if b.Kind == BlockReattach && b.Detach == detach {
			return b
		}
	}
	return nil
}
