package ssa

import (
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// Func represents an SSA function.
// It contains a control flow graph of Blocks, each containing Values.
type Func struct {
	Name string
	Sig  *types.Func

	// Blocks is the list of basic blocks. Blocks[0] is always the entry block.
	Blocks []*Block
	Entry  *Block

	// Protected is set for functions that contain a spawn. Control flow
	// in them never leaves a task region except through its reattach.
	Protected bool

	// Shared holds the allocas whose storage a detached task reads or
	// writes in place. They are never promoted to registers.
	Shared map[*Value]bool

	Pos syntax.Pos

	nextValueID ID
	nextBlockID ID
}

// NewFunc creates a new SSA function with the given name and signature.
// An entry block is automatically created.
func NewFunc(name string, sig *types.Func) *Func {
	f := &Func{
		Name:   name,
		Sig:    sig,
		Shared: make(map[*Value]bool),
	}
	f.Entry = f.NewBlock(BlockPlain)
	return f
}

// NewBlock creates a new basic block with the given kind and appends it to the function.
func (f *Func) NewBlock(kind BlockKind) *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Kind: kind,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Func) newValue(b *Block, op Op, typ types.Type, args []*Value) *Value {
	v := &Value{
		ID:    f.nextValueID,
		Op:    op,
		Type:  typ,
		Block: b,
	}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	return v
}

// NewValue creates a new Value at the end of block b.
func (f *Func) NewValue(b *Block, op Op, typ types.Type, args ...*Value) *Value {
	v := f.newValue(b, op, typ, args)
	b.Values = append(b.Values, v)
	return v
}

// NewValuePos is NewValue with a source position.
func (f *Func) NewValuePos(b *Block, op Op, typ types.Type, pos syntax.Pos, args ...*Value) *Value {
	v := f.NewValue(b, op, typ, args...)
	v.Pos = pos
	return v
}

// NewValueAtFront creates a new Value at the start of block b.
// Phis are placed this way.
func (f *Func) NewValueAtFront(b *Block, op Op, typ types.Type, args ...*Value) *Value {
	v := f.newValue(b, op, typ, args)
	b.Values = append([]*Value{v}, b.Values...)
	return v
}

// ConstZero creates the zero value of t in block b.
func (f *Func) ConstZero(b *Block, t types.Type) *Value {
	switch {
	case types.IsFloatType(t):
		return f.NewValue(b, OpConstFloat, t)
	case types.IsBooleanType(t):
		return f.NewValue(b, OpConstBool, t)
	case types.IsStringType(t):
		v := f.NewValue(b, OpConstString, t)
		v.Aux = ""
		return v
	}
	return f.NewValue(b, OpConst64, t)
}

// ReplaceUses redirects every use of old, in Args and Controls, to new.
func (f *Func) ReplaceUses(old, new *Value) {
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg == old {
					v.ReplaceArg(i, new)
				}
			}
		}
		for i, c := range b.Controls {
			if c == old {
				old.Uses--
				b.Controls[i] = new
				new.Uses++
			}
		}
	}
}

// RemoveBlock deletes an unreachable block that has no predecessors.
// Its successors forget it as a predecessor.
func (f *Func) RemoveBlock(dead *Block) {
	for _, s := range dead.Succs {
		s.removePred(dead)
	}
	for i, b := range f.Blocks {
		if b == dead {
			f.Blocks = append(f.Blocks[:i], f.Blocks[i+1:]...)
			return
		}
	}
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the total number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}
