package ssa

import (
	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
	"github.com/you-not-fish/swarm/internal/types2"
)

// spawnStmt lowers a spawn statement.
//
// The header runs in the current block, which then becomes a BlockDetach
// carrying the domain and the promoted timestamp. The body is lowered into
// the task region; falling off its end or breaking out of it jumps to a
// BlockReattach that rejoins the continuation. The header variables die
// at the head of the continuation, after the task has ended. A task that
// always panics has no reattach and kills nothing.
func (b *builder) spawnStmt(s *syntax.SpawnStmt) {
	if s.Body() == nil {
		diag.ICE(s.Pos(), "spawn without body")
	}
	sp := b.info.Spawns[s]
	if sp == nil {
		diag.ICE(s.Pos(), "%s was not accepted by the checker", s.Keyword())
	}
	b.fn.Protected = true

	var slots []*Value
	outer := b.header
	b.header = &slots
	if init := s.Init(); init != nil {
		b.stmt(init)
	}
	if d := s.CondVar(); d != nil && b.b != nil {
		b.varDecl(d)
	}
	var ts *Value
	if sp.HasTimestamp() && b.b != nil {
		ts = b.timestamp(s.Timestamp(), sp)
	}
	b.header = outer
	if b.b == nil {
		// the init clause panicked
		return
	}

	detach := b.b
	detach.Kind = BlockDetach
	detach.AuxInt = int64(sp.Domain)
	detach.Pos = s.Pos()
	if ts != nil {
		detach.SetControl(ts)
	}

	task := b.fn.NewBlock(BlockPlain)
	reattach := b.fn.NewBlock(BlockReattach)
	reattach.Detach = detach
	reattach.Pos = s.End()
	cont := b.fn.NewBlock(BlockPlain)
	detach.AddSucc(task)
	detach.AddSucc(cont)

	b.targets = append(b.targets, target{stmt: s, brk: reattach})
	b.b = task
	b.stmt(s.Body())
	if b.b != nil {
		b.b.AddSucc(reattach)
	}
	b.targets = b.targets[:len(b.targets)-1]

	if len(reattach.Preds) == 0 {
		b.fn.RemoveBlock(reattach)
	} else {
		reattach.AddSucc(cont)
		for i := len(slots) - 1; i >= 0; i-- {
			b.fn.NewValue(cont, OpVarKill, nil, slots[i])
		}
	}
	b.b = cont
}

// timestamp evaluates the header timestamp and promotes it to int.
func (b *builder) timestamp(e syntax.Expr, sp *types2.Spawn) *Value {
	if types.IsDependent(sp.Timestamp) {
		diag.ICE(e.Pos(), "dependent timestamp of type %s in a lowered function", sp.Timestamp)
	}
	v := b.expr(e)
	intType := types.Typ[types.Int]
	switch {
	case types.IsBooleanType(sp.Timestamp):
		return b.fn.NewValuePos(b.b, OpBoolToInt, intType, e.Pos(), v)
	case types.IsEnumType(sp.Timestamp):
		return b.fn.NewValue(b.b, OpCopy, intType, v)
	}
	return v
}

// inTask reports whether the statement being lowered is inside a spawn body.
func (b *builder) inTask() bool {
	for _, t := range b.targets {
		if _, ok := t.stmt.(*syntax.SpawnStmt); ok {
			return true
		}
	}
	return false
}
