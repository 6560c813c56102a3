package ssa

// ReversePostOrder returns the reachable blocks of f in reverse post-order
// from f.Entry. A detach visits its task before its continuation, so a
// task region precedes the code that runs after the spawn.
func ReversePostOrder(f *Func) []*Block {
	visited := make(map[*Block]bool, len(f.Blocks))
	var post []*Block

	var dfs func(b *Block)
	dfs = func(b *Block) {
		visited[b] = true
		for _, s := range b.Succs {
			if !visited[s] {
				dfs(s)
			}
		}
		post = append(post, b)
	}
	dfs(f.Entry)

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// ComputeDom computes the dominator tree of f with the iterative algorithm
// of Cooper, Harvey and Kennedy. It sets Idom and Dominees of every
// reachable block; the entry and unreachable blocks get a nil Idom.
func ComputeDom(f *Func) {
	for _, b := range f.Blocks {
		b.Idom = nil
		b.Dominees = nil
	}
	rpo := ReversePostOrder(f)
	if len(rpo) == 0 {
		return
	}

	order := make(map[*Block]int, len(rpo))
	for i, b := range rpo {
		order[b] = i
	}

	intersect := func(x, y *Block) *Block {
		for x != y {
			for order[x] > order[y] {
				x = x.Idom
			}
			for order[y] > order[x] {
				y = y.Idom
			}
		}
		return x
	}

	entry := rpo[0]
	entry.Idom = entry // sentinel until the fixpoint is reached

	for changed := true; changed; {
		changed = false
		for _, b := range rpo[1:] {
			var idom *Block
			for _, p := range b.Preds {
				if p.Idom == nil {
					continue // not yet processed, or unreachable
				}
				if idom == nil {
					idom = p
				} else {
					idom = intersect(p, idom)
				}
			}
			if idom != nil && b.Idom != idom {
				b.Idom = idom
				changed = true
			}
		}
	}
	entry.Idom = nil

	for _, b := range rpo[1:] {
		b.Idom.Dominees = append(b.Idom.Dominees, b)
	}
}

// Dominates reports whether a dominates b. ComputeDom must have run.
func Dominates(a, b *Block) bool {
	for ; b != nil; b = b.Idom {
		if b == a {
			return true
		}
	}
	return false
}

// ComputeDomFrontier computes the dominance frontier of every block.
// ComputeDom must have run.
func ComputeDomFrontier(f *Func) map[*Block][]*Block {
	df := make(map[*Block][]*Block)
	for _, b := range f.Blocks {
		if len(b.Preds) < 2 {
			continue
		}
		for _, p := range b.Preds {
			for runner := p; runner != nil && runner != b.Idom; runner = runner.Idom {
				df[runner] = appendUnique(df[runner], b)
			}
		}
	}
	return df
}

// appendUnique appends b to list if not already present.
func appendUnique(list []*Block, b *Block) []*Block {
	for _, x := range list {
		if x == b {
			return list
		}
	}
	return append(list, b)
}
