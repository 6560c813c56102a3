package ssa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
	"github.com/you-not-fish/swarm/internal/types2"
)

func TestBuildBodilessSpawn(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
func work() {}
func main() {
	spawn work()
}
`), "main")
	assert.True(t, fn.Protected)

	detach := fn.Entry
	require.Equal(t, BlockDetach, detach.Kind)
	assert.Empty(t, detach.Controls, "no timestamp")
	assert.False(t, detach.HasTimestamp())
	assert.Equal(t, syntax.SameDomain, detach.Domain())
	require.Len(t, detach.Succs, 2)

	task, cont := detach.Succs[0], detach.Succs[1]
	assert.Len(t, values(fn, OpStaticCall), 1)
	assert.Same(t, task, values(fn, OpStaticCall)[0].Block)

	reattach := Reattach(detach)
	require.NotNil(t, reattach)
	assert.Equal(t, []*Block{cont}, reattach.Succs)
	assert.Empty(t, reattach.Values, "nothing to kill")
	assert.Equal(t, BlockReturn, cont.Kind)
}

func TestBuildSpawnShape(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
func main() {
	println("before")
	spawn_sub (7) {
		println("task")
	}
	println("after")
}
`), "main")

	detaches := blocks(fn, BlockDetach)
	require.Len(t, detaches, 1)
	detach := detaches[0]
	assert.Equal(t, syntax.Subdomain, detach.Domain())
	require.True(t, detach.HasTimestamp())
	assert.Equal(t, OpConst64, detach.Controls[0].Op)
	assert.Equal(t, int64(7), detach.Controls[0].AuxInt)
	assert.True(t, detach.Pos.IsValid())

	region := TaskRegion(detach)
	prints := values(fn, OpPrintln)
	require.Len(t, prints, 3)
	assert.Same(t, detach, prints[0].Block, "code before the spawn stays in the parent")
	assert.Contains(t, region, prints[1].Block)
	assert.NotContains(t, region, prints[2].Block)
	assert.Same(t, detach.Succs[1], prints[2].Block)

	reattach := Reattach(detach)
	require.NotNil(t, reattach)
	assert.Same(t, detach, reattach.Detach)
	assert.True(t, reattach.Pos.IsValid())
}

func TestBuildSpawnDomains(t *testing.T) {
	tests := []struct {
		stmt string
		want syntax.DomainKind
	}{
		{"spawn (1) work()", syntax.SameDomain},
		{"spawn_sub (1) work()", syntax.Subdomain},
		{"spawn_super (1) work()", syntax.Superdomain},
		{"swarm_spawn_super (1) work()", syntax.Superdomain},
	}
	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			fn := getFunc(t, buildFromSource(t, "package main\nfunc work() {}\nfunc main() {\n\t"+tt.stmt+"\n}\n"), "main")
			require.Equal(t, BlockDetach, fn.Entry.Kind)
			assert.Equal(t, tt.want, fn.Entry.Domain())
		})
	}
}

func TestBuildSpawnTimestampPromotion(t *testing.T) {
	t.Run("bool", func(t *testing.T) {
		fn := getFunc(t, buildFromSource(t, `package main
func main() {
	x := 1
	spawn (x < 2) println(x)
}
`), "main")
		ts := fn.Entry.Controls
		require.Len(t, ts, 1)
		assert.Equal(t, OpBoolToInt, ts[0].Op)
		assert.Equal(t, types.Typ[types.Int], ts[0].Type)
		assert.Equal(t, OpLt64, ts[0].Args[0].Op)
	})

	t.Run("enum", func(t *testing.T) {
		fn := getFunc(t, buildFromSource(t, `package main
type Phase enum { Early, Late }
func main() {
	p := Late
	spawn_sub (p) println(1)
}
`), "main")
		ts := fn.Entry.Controls
		require.Len(t, ts, 1)
		assert.Equal(t, OpCopy, ts[0].Op)
		assert.Equal(t, types.Typ[types.Int], ts[0].Type)
	})

	t.Run("int", func(t *testing.T) {
		fn := getFunc(t, buildFromSource(t, `package main
func main() {
	n := 3
	spawn (n * 2) println(n)
}
`), "main")
		ts := fn.Entry.Controls
		require.Len(t, ts, 1)
		assert.Equal(t, OpMul64, ts[0].Op)
	})
}

func TestBuildSpawnHeaderOrder(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
func mark() {}
func main() {
	spawn (mark(); c := 4) println(c)
}
`), "main")
	detach := fn.Entry
	require.Equal(t, BlockDetach, detach.Kind)

	// init, then the condition variable, then the timestamp, all in the
	// block that opens the task
	var order []Op
	for _, v := range detach.Values {
		switch v.Op {
		case OpStaticCall, OpStore, OpLoad:
			order = append(order, v.Op)
		}
	}
	assert.Equal(t, []Op{OpStaticCall, OpStore, OpLoad}, order)
	assert.Same(t, detach.Controls[0], detach.Values[len(detach.Values)-1])
}

func TestBuildSpawnConversionTimestamp(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
type E enum { A, B }
func main() {
	x := 1
	spawn_sub (E(x)) {
		println(x)
	}
}
`), "main")
	detach := fn.Entry
	require.Equal(t, BlockDetach, detach.Kind)
	require.True(t, detach.HasTimestamp())
	ts := detach.Controls[0]
	assert.Equal(t, OpCopy, ts.Op, "enum promoted to int")
	assert.Same(t, types.Typ[types.Int], ts.Type)
	require.Len(t, ts.Args, 1)
	assert.Equal(t, OpCopy, ts.Args[0].Op, "int converted to E")
	assert.True(t, types.IsEnumType(ts.Args[0].Type))
}

func TestBuildSpawnParenthesizedTimestamp(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
func main() {
	x := 1
	spawn ((x + 1) * 2) {
		println(x)
	}
}
`), "main")
	detach := fn.Entry
	require.Equal(t, BlockDetach, detach.Kind)
	ts := detach.Controls[0]
	require.Equal(t, OpMul64, ts.Op)
	assert.Equal(t, OpAdd64, ts.Args[0].Op)
	assert.EqualValues(t, 2, ts.Args[1].AuxInt)
}

func TestBuildSpawnHeaderKills(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
func main() {
	spawn (a := 1; b := a + 1) {
		println(a, b)
	}
}
`), "main")
	reattach := Reattach(fn.Entry)
	require.NotNil(t, reattach)
	assert.Empty(t, reattach.Values, "the task ends before the header dies")
	cont := fn.Entry.Succs[1]
	assert.Equal(t, []*Block{cont}, reattach.Succs)

	kills := values(fn, OpVarKill)
	require.Len(t, kills, 2)
	for _, k := range kills {
		assert.Same(t, cont, k.Block, "header lifetimes end in the continuation")
	}
	assert.Same(t, kills[0], cont.Values[0])
	assert.Same(t, kills[1], cont.Values[1])
	assert.Equal(t, "b", kills[0].Args[0].Aux, "reverse declaration order")
	assert.Equal(t, "a", kills[1].Args[0].Aux)
}

func TestBuildSpawnBodyLocalsNotKilled(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
func main() {
	spawn (1) {
		w := 2
		println(w)
	}
}
`), "main")
	assert.Empty(t, values(fn, OpVarKill))
}

func TestBuildSpawnShared(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
func main() {
	x := 1
	y := 2
	spawn (i := y; i) {
		println(x, i)
	}
}
`), "main")
	slots := map[string]*Value{}
	for _, a := range values(fn, OpAlloca) {
		slots[a.Aux.(string)] = a
	}
	require.Len(t, slots, 3)
	assert.True(t, fn.Shared[slots["x"]])
	assert.False(t, fn.Shared[slots["y"]])
	assert.False(t, fn.Shared[slots["i"]])
}

func TestBuildSpawnBreak(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
func main() {
	x := 1
	spawn (x) {
		if x > 0 {
			break
		}
		println(x)
	}
}
`), "main")
	reattach := Reattach(fn.Entry)
	require.NotNil(t, reattach)
	assert.Len(t, reattach.Preds, 2, "break and fall-through both reach the reattach")
}

func TestBuildSpawnLoopInTask(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
func main() {
	spawn (1) {
		i := 0
		for i < 3 {
			i = i + 1
			if i == 1 {
				continue
			}
			println(i)
		}
	}
}
`), "main")
	region := TaskRegion(fn.Entry)
	require.NotEmpty(t, region)
	for _, b := range blocks(fn, BlockIf) {
		assert.Contains(t, region, b)
	}
}

func TestBuildSpawnPanics(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
func main() {
	spawn (n := 1; n) {
		panic("boom")
	}
	println(2)
}
`), "main")
	assert.Nil(t, Reattach(fn.Entry))
	assert.Empty(t, blocks(fn, BlockReattach))
	assert.Empty(t, values(fn, OpVarKill))
	assert.Equal(t, BlockExit, fn.Entry.Succs[0].Kind)
}

func TestBuildNestedSpawn(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
func main() {
	spawn (1) {
		spawn_sub (2) println(3)
	}
}
`), "main")
	detaches := blocks(fn, BlockDetach)
	require.Len(t, detaches, 2)
	outer, inner := detaches[0], detaches[1]
	assert.Contains(t, TaskRegion(outer), inner)
	assert.Contains(t, TaskRegion(outer), Reattach(inner))
	assert.NotContains(t, TaskRegion(inner), Reattach(outer))
}

func TestBuildSpawnAfterReturnPath(t *testing.T) {
	fn := getFunc(t, buildFromSource(t, `package main
func h(x int) int {
	if x > 0 {
		return x
	}
	spawn (x) println(x)
	return 0
}
`), "h")
	assert.True(t, fn.Protected)
	assert.Len(t, blocks(fn, BlockReturn), 2)
}

func TestBuildUnacceptedSpawnIsInternalError(t *testing.T) {
	src := "package main\nfunc main() {\n\tspawn (1) println(2)\n}\n"
	var diags diag.List
	file := syntax.NewParser("test.swarm", strings.NewReader(src), diags.Handler()).Parse()
	info := types2.NewInfo()
	_, err := types2.Check(file, &types2.Config{Error: diags.Handler()}, info)
	require.NoError(t, err)
	require.Len(t, info.Spawns, 1)

	for s := range info.Spawns {
		delete(info.Spawns, s)
	}
	_, err = BuildFile(file, info, nil)
	var ice *diag.InternalError
	require.ErrorAs(t, err, &ice)
	assert.Contains(t, ice.Msg, "was not accepted by the checker")
}

func TestPrintSpawnFunc(t *testing.T) {
	got := Sprint(getFunc(t, buildFromSource(t, `package main
func main() {
	spawn_super (c := 5) println(c)
}
`), "main"))
	assert.True(t, strings.HasPrefix(got, "func main() (protected):\n"))
	assert.Contains(t, got, "[super] -> b1 b3")
	assert.Contains(t, got, "Reattach b0 -> b3")
	assert.Contains(t, got, "VarKill v")
}
