package types2

import (
	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// exprContext is the evaluation context of the expressions being checked.
type exprContext uint8

const (
	// evaluated expressions run when the enclosing statement runs.
	evaluated exprContext = iota
	// potentiallyEvaluated expressions run later, or not at all, on
	// behalf of the statement: the body of a spawn.
	potentiallyEvaluated
)

// funcContext is the per-function state of the checker.
type funcContext struct {
	decl *syntax.FuncDecl
	sig  *types.Func

	// branchProtected is set once the body contains a spawn; control flow
	// may then not leave a task.
	branchProtected bool

	// targets are the enclosing jump targets, innermost last: *ForStmt
	// and *SpawnStmt.
	targets []syntax.Stmt

	exprs []exprContext

	// spawnScopes are the header scopes of the enclosing spawns.
	spawnScopes []*types.Scope
}

func newFuncContext(decl *syntax.FuncDecl, sig *types.Func) *funcContext {
	return &funcContext{decl: decl, sig: sig, exprs: []exprContext{evaluated}}
}

func (f *funcContext) pushTarget(s syntax.Stmt) { f.targets = append(f.targets, s) }

func (f *funcContext) popTarget(s syntax.Stmt) {
	n := len(f.targets)
	if n == 0 || f.targets[n-1] != s {
		diag.ICE(s.Pos(), "unbalanced jump target stack")
	}
	f.targets = f.targets[:n-1]
}

// innermostSpawn returns the index of the innermost enclosing spawn in
// targets, or -1.
func (f *funcContext) innermostSpawn() int {
	for i := len(f.targets) - 1; i >= 0; i-- {
		if _, ok := f.targets[i].(*syntax.SpawnStmt); ok {
			return i
		}
	}
	return -1
}

// targetIndex returns the index of s in targets, or -1.
func (f *funcContext) targetIndex(s syntax.Stmt) int {
	for i := len(f.targets) - 1; i >= 0; i-- {
		if f.targets[i] == s {
			return i
		}
	}
	return -1
}

func (f *funcContext) pushExprContext(k exprContext) { f.exprs = append(f.exprs, k) }

func (f *funcContext) popExprContext() exprContext {
	n := len(f.exprs)
	if n <= 1 {
		diag.ICE(f.decl.Pos(), "expression context stack underflow in %s", f.decl.Name.Value)
	}
	k := f.exprs[n-1]
	f.exprs = f.exprs[:n-1]
	return k
}

func (f *funcContext) currentExprContext() exprContext { return f.exprs[len(f.exprs)-1] }

// enterSpawn and exitSpawn bracket the header and body of a spawn whose
// declarations live in scope.
func (f *funcContext) enterSpawn(s *syntax.SpawnStmt, scope *types.Scope) {
	f.pushTarget(s)
	f.spawnScopes = append(f.spawnScopes, scope)
}

func (f *funcContext) exitSpawn(s *syntax.SpawnStmt) {
	f.popTarget(s)
	f.spawnScopes = f.spawnScopes[:len(f.spawnScopes)-1]
}

// captures reports whether a use of v here reads it from outside the
// innermost task.
func (f *funcContext) captures(v *types.Var) bool {
	if f.currentExprContext() != potentiallyEvaluated || len(f.spawnScopes) == 0 {
		return false
	}
	return !f.spawnScopes[len(f.spawnScopes)-1].Contains(v.Parent())
}

// finish asserts that every push had a matching pop.
func (f *funcContext) finish() {
	if len(f.exprs) != 1 || len(f.targets) != 0 {
		diag.ICE(f.decl.Pos(), "unbalanced function context in %s: %d expression contexts, %d targets",
			f.decl.Name.Value, len(f.exprs), len(f.targets))
	}
}

// markBranchProtected records that the current function contains a spawn.
func (c *Checker) markBranchProtected() {
	if c.fctx == nil {
		diag.ICE(types.NoPos, "spawn outside function body")
	}
	c.fctx.branchProtected = true
	c.info.Protected[c.fctx.decl] = true
}
