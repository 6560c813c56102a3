package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/swarm/internal/diag"
)

func TestParseSpawnForms(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		keyword Token
		domain  DomainKind
		header  bool
		init    bool
		condVar string
		ts      string // fully parenthesized timestamp, "" if none
	}{
		{"bodiless", "spawn f()", _Spawn, SameDomain, false, false, "", ""},
		{"timestamp", "spawn (t) f()", _Spawn, SameDomain, true, false, "", "t"},
		{"init_and_timestamp", "spawn (i := 0; i + 1) { f() }", _Spawn, SameDomain, true, true, "", "(i + 1)"},
		{"sub_condvar", "spawn_sub (x := t * 2) { f() }", _SpawnSub, Subdomain, true, false, "x", "x"},
		{"super_var_decl", "spawn_super (var v int = t) f()", _SpawnSuper, Superdomain, true, false, "v", "v"},
		{"alias", "swarm_spawn_sub (t) f()", _SpawnSub, Subdomain, true, false, "", "t"},
		{"init_then_condvar", "spawn (f(); var n = t) f()", _Spawn, SameDomain, true, true, "n", "n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := body(t, tt.src)
			require.Len(t, stmts, 1)
			s, ok := stmts[0].(*SpawnStmt)
			require.True(t, ok, "got %T", stmts[0])

			assert.Equal(t, tt.keyword, s.Keyword())
			assert.Equal(t, tt.domain, s.Domain())
			assert.Equal(t, tt.header, s.HasHeader())
			assert.Equal(t, tt.init, s.Init() != nil)
			if tt.condVar != "" {
				require.NotNil(t, s.CondVar())
				assert.Equal(t, tt.condVar, s.CondVar().Name.Value)
				assert.NotNil(t, s.CondVar().Value)
			} else {
				assert.Nil(t, s.CondVar())
			}
			if tt.ts != "" {
				require.NotNil(t, s.Timestamp())
				assert.Equal(t, tt.ts, fullyParenthesized(s.Timestamp()))
			} else {
				assert.Nil(t, s.Timestamp())
			}
			assert.NotNil(t, s.Body())
		})
	}
}

func TestParseSpawnEmptyBody(t *testing.T) {
	stmts := body(t, "spawn (t) ;\nspawn { ; }")
	require.Len(t, stmts, 2)
	assert.IsType(t, &EmptyStmt{}, stmts[0].(*SpawnStmt).Body())
	blk := stmts[1].(*SpawnStmt).Body().(*BlockStmt)
	require.Len(t, blk.Stmts, 1)
	assert.IsType(t, &EmptyStmt{}, blk.Stmts[0])
}

func TestParseSpawnErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		msg  string
	}{
		{"sub_without_timestamp", "spawn_sub f()", diag.DomainSpawnWithoutTimestamp, "domain spawn without timestamp: spawn_sub"},
		{"super_without_timestamp", "spawn_super { a := 1 }", diag.DomainSpawnWithoutTimestamp, "domain spawn without timestamp: spawn_super"},
		{"alias_without_timestamp", "swarm_spawn_super f()", diag.DomainSpawnWithoutTimestamp, "spawn_super"},
		{"empty_header", "spawn () f()", diag.BadSpawnHeader, "missing timestamp"},
		{"init_without_timestamp", "spawn (f(); ) g()", diag.BadSpawnHeader, "missing timestamp"},
		{"three_clauses", "spawn (a; b; c) f()", diag.BadSpawnHeader, "expected ) after spawn header"},
		{"assignment", "spawn (x = 1) f()", diag.BadSpawnHeader, "cannot use assignment"},
		{"uninitialized_var", "spawn (var v int) f()", diag.BadSpawnHeader, "must be initialized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, errs := parse(t, "package main\nfunc main() {\n\t"+tt.src+"\n\tafter()\n}\n")
			require.Len(t, errs, 1, "diagnostics: %v", errs)
			assert.Equal(t, tt.code, errs[0].Code)
			assert.Equal(t, diag.Error, errs[0].Severity)
			assert.Contains(t, errs[0].Msg, tt.msg)

			// the statement is skipped and parsing resumes after it
			stmts := mainBody(t, f)
			require.Len(t, stmts, 2)
			assert.IsType(t, &BadStmt{}, stmts[0])
			call := stmts[1].(*ExprStmt).X.(*CallExpr)
			assert.Equal(t, "after", call.Fun.(*Name).Value)
		})
	}
}

func TestSpawnBranchTargets(t *testing.T) {
	stmts := body(t, `for {
	spawn {
		break
	}
	spawn (t) {
		for { continue }
		continue
	}
	spawn (t) break
}`)
	loop := stmts[0].(*ForStmt)
	require.Len(t, loop.Body.Stmts, 3)

	plain := loop.Body.Stmts[0].(*SpawnStmt)
	brk := plain.Body().(*BlockStmt).Stmts[0].(*BranchStmt)
	assert.Same(t, plain, brk.Target, "break inside a spawn body ends the task")

	hdr := loop.Body.Stmts[1].(*SpawnStmt)
	inner := hdr.Body().(*BlockStmt).Stmts[0].(*ForStmt)
	assert.Same(t, inner, inner.Body.Stmts[0].(*BranchStmt).Target)
	outerCont := hdr.Body().(*BlockStmt).Stmts[1].(*BranchStmt)
	assert.Same(t, loop, outerCont.Target, "continue targets the enclosing loop")

	direct := loop.Body.Stmts[2].(*SpawnStmt)
	assert.Same(t, direct, direct.Body().(*BranchStmt).Target)
}

func TestSpawnChildrenOrder(t *testing.T) {
	stmts := body(t, "spawn (i := 1; n := i) f()")
	s := stmts[0].(*SpawnStmt)

	kids := s.Children()
	require.Len(t, kids, 4)
	assert.Same(t, s.Init(), kids[0])
	assert.Same(t, s.CondVar(), kids[1])
	assert.Same(t, s.Timestamp(), kids[2])
	assert.Same(t, s.Body(), kids[3])

	ts := s.Timestamp().(*Name)
	assert.Equal(t, "n", ts.Value)
	assert.Equal(t, s.CondVar().Name.Pos(), ts.Pos())
}

func TestNewSpawnStmt(t *testing.T) {
	pos := NewPos("b.swarm", 3, 2)
	stub := &EmptyStmt{}
	ts := &Name{Value: "t"}

	t.Run("same_domain_default_keyword", func(t *testing.T) {
		s, err := NewSpawnStmt(SpawnParts{Pos: pos, Body: stub})
		require.NoError(t, err)
		assert.Equal(t, _Spawn, s.Keyword())
		assert.Equal(t, SameDomain, s.Domain())
		assert.Equal(t, pos, s.Pos())
		assert.Len(t, s.Children(), 1)
	})

	t.Run("sub_with_header", func(t *testing.T) {
		s, err := NewSpawnStmt(SpawnParts{Pos: pos, Header: true, Cond: ts, Body: stub, Sub: true})
		require.NoError(t, err)
		assert.Equal(t, Subdomain, s.Domain())
		assert.Equal(t, _SpawnSub, s.Keyword())
		assert.Same(t, ts, s.Timestamp())
	})

	t.Run("sub_and_super", func(t *testing.T) {
		s, err := NewSpawnStmt(SpawnParts{Pos: pos, Header: true, Cond: ts, Body: stub, Sub: true, Super: true})
		assert.Nil(t, s)
		var ice *diag.InternalError
		require.ErrorAs(t, err, &ice)
		assert.Contains(t, ice.Msg, "both subdomain and superdomain")
	})

	t.Run("missing_body", func(t *testing.T) {
		_, err := NewSpawnStmt(SpawnParts{Pos: pos, Header: true, Cond: ts})
		var ice *diag.InternalError
		require.ErrorAs(t, err, &ice)
	})

	t.Run("domain_without_header", func(t *testing.T) {
		_, err := NewSpawnStmt(SpawnParts{Pos: pos, Body: stub, Super: true})
		var d diag.Diagnostic
		require.ErrorAs(t, err, &d)
		assert.Equal(t, diag.DomainSpawnWithoutTimestamp, d.Code)
		assert.Equal(t, pos, d.Pos)
	})

	t.Run("condvar_and_cond", func(t *testing.T) {
		v := &VarDecl{Name: &Name{Value: "v"}, Value: ts}
		_, err := NewSpawnStmt(SpawnParts{Pos: pos, Header: true, CondVar: v, Cond: ts, Body: stub})
		var ice *diag.InternalError
		require.ErrorAs(t, err, &ice)
	})

	t.Run("clauses_without_header", func(t *testing.T) {
		_, err := NewSpawnStmt(SpawnParts{Pos: pos, Cond: ts, Body: stub})
		var ice *diag.InternalError
		require.ErrorAs(t, err, &ice)
	})

	t.Run("bad_keyword", func(t *testing.T) {
		_, err := NewSpawnStmt(SpawnParts{Pos: pos, Keyword: _For, Body: stub})
		var ice *diag.InternalError
		require.ErrorAs(t, err, &ice)
	})
}

func TestDomainKind(t *testing.T) {
	assert.Equal(t, "same", SameDomain.String())
	assert.Equal(t, "sub", Subdomain.String())
	assert.Equal(t, "super", Superdomain.String())
	assert.Equal(t, _Spawn, SameDomain.Keyword())
	assert.Equal(t, _SpawnSub, Subdomain.Keyword())
	assert.Equal(t, _SpawnSuper, Superdomain.Keyword())
}
