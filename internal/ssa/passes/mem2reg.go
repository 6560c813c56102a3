package passes

import (
	"github.com/you-not-fish/swarm/internal/ssa"
)

// Mem2Reg promotes stack slots to SSA registers by inserting phi nodes at
// the iterated dominance frontier of their stores and renaming along the
// dominator tree.
//
// A slot stays in memory when a spawned task may touch it: slots the
// checker marked as shared and slots with a load or store inside a task
// region. Lifetime markers of promoted slots are dropped.
func Mem2Reg(f *ssa.Func) {
	ssa.ComputeDom(f)

	slots := promotable(f)
	if len(slots) == 0 {
		return
	}

	df := ssa.ComputeDomFrontier(f)
	phis := make(map[*ssa.Block]map[*ssa.Value]*ssa.Value)
	for _, a := range slots {
		for _, b := range iteratedDF(storeBlocks(f, a), df) {
			phi := f.NewValueAtFront(b, ssa.OpPhi, a.Type)
			phi.Args = make([]*ssa.Value, len(b.Preds))
			if phis[b] == nil {
				phis[b] = make(map[*ssa.Value]*ssa.Value)
			}
			phis[b][a] = phi
		}
	}

	r := &renamer{
		f:     f,
		slots: make(map[*ssa.Value]bool, len(slots)),
		stack: make(map[*ssa.Value][]*ssa.Value, len(slots)),
		phis:  phis,
		dead:  make(map[*ssa.Value]bool),
	}
	for _, a := range slots {
		r.slots[a] = true
		// a load before any store reads the zero value
		z := zeroAtFront(f, a)
		r.zeros = append(r.zeros, z)
		r.stack[a] = []*ssa.Value{z}
	}
	r.visit(f.Entry)
	r.sweep()

	removeTrivialPhis(f)
}

// promotable returns the allocas whose every use is a load from, a store
// to, or a kill of the slot, outside of any task region.
func promotable(f *ssa.Func) []*ssa.Value {
	inTask := ssa.TaskBlocks(f)

	var all []*ssa.Value
	blocked := make(map[*ssa.Value]bool)
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == ssa.OpAlloca {
				all = append(all, v)
				if f.Shared[v] {
					blocked[v] = true
				}
			}
		}
	}

	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg.Op != ssa.OpAlloca {
					continue
				}
				switch {
				case v.Op == ssa.OpVarKill:
				case v.Op == ssa.OpLoad || v.Op == ssa.OpStore:
					if i != 0 || inTask[b] {
						blocked[arg] = true
					}
				default:
					blocked[arg] = true
				}
			}
		}
	}

	var out []*ssa.Value
	for _, a := range all {
		if !blocked[a] {
			out = append(out, a)
		}
	}
	return out
}

// storeBlocks returns the blocks storing to slot a.
func storeBlocks(f *ssa.Func, a *ssa.Value) []*ssa.Block {
	var out []*ssa.Block
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == ssa.OpStore && v.Args[0] == a {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// iteratedDF computes the iterated dominance frontier of defs.
func iteratedDF(defs []*ssa.Block, df map[*ssa.Block][]*ssa.Block) []*ssa.Block {
	var result []*ssa.Block
	inResult := make(map[*ssa.Block]bool)
	queued := make(map[*ssa.Block]bool, len(defs))
	work := append([]*ssa.Block(nil), defs...)
	for _, b := range defs {
		queued[b] = true
	}

	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		for _, d := range df[b] {
			if inResult[d] {
				continue
			}
			inResult[d] = true
			result = append(result, d)
			if !queued[d] {
				queued[d] = true
				work = append(work, d)
			}
		}
	}
	return result
}

func zeroAtFront(f *ssa.Func, a *ssa.Value) *ssa.Value {
	z := f.ConstZero(f.Entry, a.Type)
	// ConstZero appends; move it to the front so every use is dominated.
	vals := f.Entry.Values
	copy(vals[1:], vals[:len(vals)-1])
	vals[0] = z
	return z
}

// renamer tracks the reaching definition of every promoted slot during
// the dominator tree walk.
type renamer struct {
	f     *ssa.Func
	slots map[*ssa.Value]bool
	stack map[*ssa.Value][]*ssa.Value
	phis  map[*ssa.Block]map[*ssa.Value]*ssa.Value
	dead  map[*ssa.Value]bool
	zeros []*ssa.Value
}

func (r *renamer) top(a *ssa.Value) *ssa.Value {
	s := r.stack[a]
	return s[len(s)-1]
}

func (r *renamer) visit(b *ssa.Block) {
	pushed := make(map[*ssa.Value]int)
	push := func(a, v *ssa.Value) {
		r.stack[a] = append(r.stack[a], v)
		pushed[a]++
	}

	for a, phi := range r.phis[b] {
		push(a, phi)
	}

	for _, v := range b.Values {
		if len(v.Args) == 0 || !r.slots[v.Args[0]] {
			continue
		}
		a := v.Args[0]
		switch v.Op {
		case ssa.OpLoad:
			r.f.ReplaceUses(v, r.top(a))
			r.dead[v] = true
		case ssa.OpStore:
			push(a, v.Args[1])
			r.dead[v] = true
		case ssa.OpVarKill:
			r.dead[v] = true
		}
	}

	for _, s := range b.Succs {
		pm := r.phis[s]
		if pm == nil {
			continue
		}
		for i, p := range s.Preds {
			if p != b {
				continue
			}
			for a, phi := range pm {
				val := r.top(a)
				phi.Args[i] = val
				val.Uses++
			}
		}
	}

	for _, child := range b.Dominees {
		r.visit(child)
	}

	for a, n := range pushed {
		r.stack[a] = r.stack[a][:len(r.stack[a])-n]
	}
}

// sweep removes the rewritten memory operations, the promoted slots and
// the zero values nothing read.
func (r *renamer) sweep() {
	for _, z := range r.zeros {
		if z.Uses == 0 {
			r.dead[z] = true
		}
	}
	for _, b := range r.f.Blocks {
		live := b.Values[:0]
		for _, v := range b.Values {
			if r.dead[v] {
				for _, arg := range v.Args {
					arg.Uses--
				}
				continue
			}
			live = append(live, v)
		}
		b.Values = live
	}
	for _, b := range r.f.Blocks {
		live := b.Values[:0]
		for _, v := range b.Values {
			if r.slots[v] && v.Uses == 0 {
				continue
			}
			live = append(live, v)
		}
		b.Values = live
	}
}

// removeTrivialPhis replaces phis whose arguments are all the same value
// (or the phi itself) and drops phis left without uses.
func removeTrivialPhis(f *ssa.Func) {
	for changed := true; changed; {
		changed = false
		for _, b := range f.Blocks {
			for _, v := range b.Values {
				if v.Op != ssa.OpPhi {
					continue
				}
				if same := trivialPhi(v); same != nil && v.Uses > 0 {
					f.ReplaceUses(v, same)
					changed = true
				}
			}
		}
		for _, b := range f.Blocks {
			live := b.Values[:0]
			for _, v := range b.Values {
				if v.Op == ssa.OpPhi && v.Uses == 0 {
					for _, arg := range v.Args {
						if arg != nil {
							arg.Uses--
						}
					}
					changed = true
					continue
				}
				live = append(live, v)
			}
			b.Values = live
		}
	}
}

// trivialPhi returns the single value other than phi among its arguments,
// or nil if there are several.
func trivialPhi(phi *ssa.Value) *ssa.Value {
	var unique *ssa.Value
	for _, arg := range phi.Args {
		if arg == nil || arg == phi {
			continue
		}
		if unique == nil {
			unique = arg
		} else if arg != unique {
			return nil
		}
	}
	return unique
}
