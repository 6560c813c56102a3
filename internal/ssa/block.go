package ssa

import (
	"fmt"

	"github.com/you-not-fish/swarm/internal/syntax"
)

// BlockKind describes how a basic block terminates.
type BlockKind int

const (
	BlockInvalid  BlockKind = iota
	BlockPlain              // jump to Succs[0]
	BlockIf                 // if Controls[0] then Succs[0] else Succs[1]
	BlockReturn             // Controls[0] = result, absent for void
	BlockExit               // panic; no successors
	BlockDetach             // start a task: Succs = [task, continuation]
	BlockReattach           // end of the task started by Detach: Succs = [continuation]
)

var blockKindNames = [...]string{
	BlockInvalid:  "invalid",
	BlockPlain:    "plain",
	BlockIf:       "if",
	BlockReturn:   "ret",
	BlockExit:     "exit",
	BlockDetach:   "detach",
	BlockReattach: "reattach",
}

func (k BlockKind) String() string {
	if k >= 0 && int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block represents a basic block in the control flow graph.
// A block contains a sequence of non-branching Values, followed by
// a terminator indicated by its Kind.
type Block struct {
	ID   ID
	Kind BlockKind

	// Controls holds the terminator's operand values.
	// For BlockIf: the condition.
	// For BlockReturn: the result, if any.
	// For BlockDetach: the promoted int timestamp, if the spawn has one.
	Controls []*Value

	// AuxInt is the domain kind of a BlockDetach.
	AuxInt int64

	// Detach is the BlockDetach a BlockReattach closes.
	Detach *Block

	// Succs lists the successor blocks in the CFG.
	Succs []*Block

	// Preds lists the predecessor blocks in the CFG.
	Preds []*Block

	Values []*Value
	Func   *Func

	// Pos is the source position of the statement that ends the block,
	// where one is meaningful.
	Pos syntax.Pos

	// Dominator tree, populated by ComputeDom.
	Idom     *Block
	Dominees []*Block
}

// String returns a short string representation (e.g., "b3").
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// AddSucc adds a successor block, updating both Succs and the successor's Preds.
func (b *Block) AddSucc(succ *Block) {
	b.Succs = append(b.Succs, succ)
	succ.Preds = append(succ.Preds, b)
}

// SetControl sets the branch/return control value.
func (b *Block) SetControl(v *Value) {
	b.Controls = []*Value{v}
	if v != nil {
		v.Uses++
	}
}

func (b *Block) NumSuccs() int  { return len(b.Succs) }
func (b *Block) NumPreds() int  { return len(b.Preds) }
func (b *Block) NumValues() int { return len(b.Values) }

// Domain returns the domain kind of a detach block.
func (b *Block) Domain() syntax.DomainKind { return syntax.DomainKind(b.AuxInt) }

// HasTimestamp reports whether a detach block carries a timestamp.
func (b *Block) HasTimestamp() bool {
	return b.Kind == BlockDetach && len(b.Controls) > 0 && b.Controls[0] != nil
}

// removePred removes p from the predecessors of b.
func (b *Block) removePred(p *Block) {
	for i, x := range b.Preds {
		if x == p {
			b.Preds = append(b.Preds[:i], b.Preds[i+1:]...)
			return
		}
	}
}
