package ssa

import (
	"fmt"
	"strings"
)

// terminator is the layout each block kind requires. A negative bound is
// not checked.
type terminator struct {
	succs       int
	minControls int
	maxControls int
}

var terminators = map[BlockKind]terminator{
	BlockPlain:    {succs: 1, minControls: -1, maxControls: -1},
	BlockIf:       {succs: 2, minControls: 1, maxControls: 1},
	BlockReturn:   {succs: 0, minControls: -1, maxControls: 1},
	BlockExit:     {succs: 0, minControls: -1, maxControls: -1},
	BlockDetach:   {succs: 2, minControls: 0, maxControls: 1},
	BlockReattach: {succs: 1, minControls: 0, maxControls: 0},
}

// verifier accumulates the violations found in one function.
type verifier struct {
	f      *Func
	blocks map[*Block]bool
	values map[*Value]bool
	index  map[*Value]int // position of each value in its block
	errs   []string
}

func newVerifier(f *Func) *verifier {
	vf := &verifier{
		f:      f,
		blocks: make(map[*Block]bool, len(f.Blocks)),
		values: make(map[*Value]bool),
		index:  make(map[*Value]int),
	}
	for _, b := range f.Blocks {
		vf.blocks[b] = true
		for i, v := range b.Values {
			vf.values[v] = true
			vf.index[v] = i
		}
	}
	return vf
}

// errorf records a violation. The location is b, b and v, or the
// function itself when b is nil.
func (vf *verifier) errorf(b *Block, v *Value, format string, args ...interface{}) {
	loc := "func " + vf.f.Name
	if b != nil {
		loc += ", " + b.String()
	}
	if v != nil {
		loc += ", " + v.String()
	}
	vf.errs = append(vf.errs, loc+": "+fmt.Sprintf(format, args...))
}

func (vf *verifier) err() error {
	if len(vf.errs) == 0 {
		return nil
	}
	return fmt.Errorf("SSA verification failed:\n  %s", strings.Join(vf.errs, "\n  "))
}

// Verify checks the structural integrity of an SSA function: block and
// value ownership, operand sanity, terminator shapes, edge symmetry and
// the detach/reattach pairing. It reports every violation it finds.
func Verify(f *Func) error {
	vf := newVerifier(f)
	switch {
	case f.Entry == nil:
		vf.errorf(nil, nil, "entry block is nil")
		return vf.err()
	case len(f.Blocks) == 0:
		vf.errorf(nil, nil, "no blocks")
		return vf.err()
	}
	if f.Blocks[0] != f.Entry {
		vf.errorf(nil, nil, "Blocks[0] is not the entry block")
	}
	if n := len(f.Entry.Preds); n != 0 {
		vf.errorf(nil, nil, "entry block %s has %d predecessors, want 0", f.Entry, n)
	}

	for _, b := range f.Blocks {
		if b.Func != f {
			vf.errorf(b, nil, "block Func pointer mismatch")
		}
		for _, v := range b.Values {
			vf.value(b, v)
		}
		vf.terminator(b)
		vf.edges(b)
	}
	vf.tasks()
	return vf.err()
}

func (vf *verifier) value(b *Block, v *Value) {
	if v.Block != b {
		vf.errorf(b, v, "value Block pointer is %s, want %s", v.Block, b)
	}
	// Calls of functions without a result have no type.
	if v.Type == nil && !v.Op.IsVoid() && v.Op != OpStaticCall && v.Op != OpCall {
		vf.errorf(b, v, "non-void %s has nil Type", v.Op)
	}
	for i, arg := range v.Args {
		switch {
		case arg == nil:
			vf.errorf(b, v, "arg[%d] is nil", i)
		case !vf.values[arg]:
			vf.errorf(b, v, "arg[%d] (%s) not found in function", i, arg)
		}
	}

	switch v.Op {
	case OpLoad, OpStore:
		if len(v.Args) == 0 || v.Args[0] == nil || !isSlot(v.Args[0]) {
			vf.errorf(b, v, "%s does not address an alloca or global", v.Op)
		}
	case OpVarKill:
		if len(v.Args) != 1 || v.Args[0] == nil || v.Args[0].Op != OpAlloca {
			vf.errorf(b, v, "VarKill needs exactly one alloca")
		}
	case OpPhi:
		if len(v.Args) != len(b.Preds) {
			vf.errorf(b, v, "phi has %d args but block has %d preds", len(v.Args), len(b.Preds))
		}
	}
}

func (vf *verifier) terminator(b *Block) {
	t, ok := terminators[b.Kind]
	if !ok {
		vf.errorf(b, nil, "block has invalid kind")
		return
	}
	if len(b.Succs) != t.succs {
		vf.errorf(b, nil, "%s block has %d succs, want %d", b.Kind, len(b.Succs), t.succs)
	}
	n := len(b.Controls)
	if t.minControls >= 0 && n < t.minControls || t.maxControls >= 0 && n > t.maxControls {
		vf.errorf(b, nil, "%s block has %d controls", b.Kind, n)
	}
	for i, c := range b.Controls {
		switch {
		case c == nil && b.Kind != BlockReturn:
			vf.errorf(b, nil, "control[%d] is nil", i)
		case c != nil && !vf.values[c]:
			vf.errorf(b, nil, "control[%d] (%s) not found in function", i, c)
		}
	}

	switch b.Kind {
	case BlockDetach:
		if b.AuxInt < 0 || b.AuxInt > 2 {
			vf.errorf(b, nil, "detach block has invalid domain %d", b.AuxInt)
		}
		if !vf.f.Protected {
			vf.errorf(b, nil, "detach in a function not marked protected")
		}
	case BlockReattach:
		d := b.Detach
		switch {
		case d == nil:
			vf.errorf(b, nil, "reattach block has no detach")
		case d.Kind != BlockDetach || !vf.blocks[d]:
			vf.errorf(b, nil, "reattach closes %s, which is not a detach of the function", d)
		case len(b.Succs) == 1 && len(d.Succs) == 2 && b.Succs[0] != d.Succs[1]:
			vf.errorf(b, nil, "reattach continues at %s, detach %s continues at %s", b.Succs[0], d, d.Succs[1])
		}
	}
}

// edges checks that every successor edge has its predecessor twin and
// the other way round.
func (vf *verifier) edges(b *Block) {
	for _, s := range b.Succs {
		if !vf.blocks[s] {
			vf.errorf(b, nil, "successor %s not in function", s)
		} else if !containsBlock(s.Preds, b) {
			vf.errorf(b, nil, "successor %s does not have %s as predecessor", s, b)
		}
	}
	for _, p := range b.Preds {
		if !vf.blocks[p] {
			vf.errorf(b, nil, "predecessor %s not in function", p)
		} else if !containsBlock(p.Succs, b) {
			vf.errorf(b, nil, "predecessor %s does not have %s as successor", p, b)
		}
	}
}

// tasks checks that no block of a task region leaves the function.
func (vf *verifier) tasks() {
	for _, d := range vf.f.Blocks {
		if d.Kind != BlockDetach || len(d.Succs) != 2 {
			continue
		}
		for _, b := range TaskRegion(d) {
			if b.Kind == BlockReturn {
				vf.errorf(b, nil, "block returns from the function inside the task started by %s", d)
			}
		}
	}
}

func isSlot(v *Value) bool { return v.Op == OpAlloca || v.Op == OpGlobal }

func containsBlock(bs []*Block, b *Block) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}

// VerifyDom runs Verify and then checks that every use is dominated by
// its definition. ComputeDom must have been called. Unreachable blocks
// are not checked.
func VerifyDom(f *Func) error {
	if err := Verify(f); err != nil {
		return err
	}
	vf := newVerifier(f)
	reachable := vf.reachable()

	if f.Entry.Idom != nil {
		vf.errorf(nil, nil, "entry %s has non-nil Idom %s", f.Entry, f.Entry.Idom)
	}
	for _, b := range f.Blocks {
		if !reachable[b] {
			continue
		}
		if b != f.Entry {
			switch b.Idom {
			case nil:
				vf.errorf(b, nil, "reachable block has nil Idom")
			case b:
				vf.errorf(b, nil, "block is its own Idom")
			}
		}
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg != nil {
					vf.use(b, v, i, arg)
				}
			}
		}
		for i, c := range b.Controls {
			if c != nil && c.Block != b && !Dominates(c.Block, b) {
				vf.errorf(b, nil, "control[%d] %s defined in %s which does not dominate %s", i, c, c.Block, b)
			}
		}
	}
	return vf.err()
}

// use checks that arg, operand i of v in b, is available where it is
// used. A phi operand must be available at the end of the matching
// predecessor.
func (vf *verifier) use(b *Block, v *Value, i int, arg *Value) {
	if v.Op == OpPhi {
		if i < len(b.Preds) && !Dominates(arg.Block, b.Preds[i]) {
			vf.errorf(b, v, "phi arg[%d] %s defined in %s which does not dominate pred %s", i, arg, arg.Block, b.Preds[i])
		}
		return
	}
	if arg.Block == b {
		if vf.index[arg] >= vf.index[v] {
			vf.errorf(b, v, "arg[%d] %s defined at index %d, used at index %d (same block)", i, arg, vf.index[arg], vf.index[v])
		}
		return
	}
	if !Dominates(arg.Block, b) {
		vf.errorf(b, v, "arg[%d] %s defined in %s which does not dominate %s", i, arg, arg.Block, b)
	}
}

func (vf *verifier) reachable() map[*Block]bool {
	seen := make(map[*Block]bool)
	work := []*Block{vf.f.Entry}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[b] {
			continue
		}
		seen[b] = true
		work = append(work, b.Succs...)
	}
	return seen
}
