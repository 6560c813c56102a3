package types2

import (
	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// stmts checks a list of statements.
func (c *Checker) stmts(list []syntax.Stmt) {
	for _, s := range list {
		c.stmt(s)
	}
}

// stmt checks a single statement.
func (c *Checker) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.EmptyStmt, *syntax.BadStmt:
		// nothing to check

	case *syntax.ExprStmt:
		c.exprStmt(s)

	case *syntax.AssignStmt:
		c.assignStmt(s)

	case *syntax.BlockStmt:
		c.blockStmt(s, "block")

	case *syntax.IfStmt:
		c.ifStmt(s)

	case *syntax.ForStmt:
		c.forStmt(s)

	case *syntax.ReturnStmt:
		c.returnStmt(s)

	case *syntax.BranchStmt:
		c.branchStmt(s)

	case *syntax.DeclStmt:
		c.declStmt(s)

	case *syntax.SpawnStmt:
		if s.HasHeader() {
			c.checkSpawn(s)
		} else {
			c.checkBodilessSpawn(s)
		}

	default:
		c.invalidAST(s.Pos(), "unexpected statement %T", s)
	}
}

// exprStmt checks an expression statement. Only calls may be used as
// statements.
func (c *Checker) exprStmt(s *syntax.ExprStmt) {
	var x operand
	c.expr(&x, s.X)
	if x.mode == invalid || x.mode == novalue {
		return
	}
	if _, ok := unparen(s.X).(*syntax.CallExpr); ok && x.mode != typexpr {
		c.convertUntyped(&x, types.DefaultType(x.typ))
		return
	}
	c.typeErrorf(s.Pos(), "%s is not used", syntax.String(s.X))
}

// blockStmt checks a block statement in a new scope.
func (c *Checker) blockStmt(s *syntax.BlockStmt, comment string) {
	c.openScope(s, comment)
	c.stmts(s.Stmts)
	c.closeScope()
}

// ifStmt checks an if statement.
func (c *Checker) ifStmt(s *syntax.IfStmt) {
	c.openScope(s, "if")
	defer c.closeScope()

	c.condition(s.Cond, "if")
	if isEmptyBody(s.Then) {
		c.cautionf(s.Then.Pos(), diag.EmptyBody, "empty body in if statement")
	}
	c.blockStmt(s.Then, "if then")

	switch els := s.Else.(type) {
	case nil:
	case *syntax.BlockStmt:
		c.blockStmt(els, "if else")
	case *syntax.IfStmt:
		c.ifStmt(els)
	default:
		c.invalidAST(els.Pos(), "unexpected else branch %T", els)
	}
}

// condition checks the condition of an if or for statement.
func (c *Checker) condition(e syntax.Expr, what string) {
	var x operand
	if !c.valueOperand(&x, e) {
		return
	}
	if !types.IsBooleanType(x.typ) {
		c.typeErrorf(e.Pos(), "non-boolean condition in %s statement", what)
		return
	}
	c.convertUntyped(&x, types.Typ[types.Bool])
}

// forStmt checks a for statement.
func (c *Checker) forStmt(s *syntax.ForStmt) {
	c.openScope(s, "for")
	defer c.closeScope()

	if s.Cond != nil {
		c.condition(s.Cond, "for")
	}
	if isEmptyBody(s.Body) {
		c.cautionf(s.Body.Pos(), diag.EmptyBody, "empty body in for statement")
	}

	c.fctx.pushTarget(s)
	c.blockStmt(s.Body, "for body")
	c.fctx.popTarget(s)
}

// returnStmt checks a return statement.
func (c *Checker) returnStmt(s *syntax.ReturnStmt) {
	if c.fctx.innermostSpawn() >= 0 {
		c.errorf(s.Pos(), diag.ReturnInSpawn, "cannot return from %s inside a spawned task", c.fctx.decl.Name.Value)
	}

	result := c.fctx.sig.Result()
	if s.Result == nil {
		if result != nil {
			c.typeErrorf(s.Pos(), "not enough return values\n\thave ()\n\twant (%s)", result)
		}
		return
	}

	var x operand
	if !c.valueOperand(&x, s.Result) {
		return
	}
	if result == nil {
		c.typeErrorf(s.Result.Pos(), "too many return values")
		return
	}
	c.assignment(&x, result, "return statement")
}

// branchStmt checks that a break or continue does not leave a task.
// Targets are resolved by the parser.
func (c *Checker) branchStmt(s *syntax.BranchStmt) {
	if s.Target == nil {
		return // reported by the parser
	}
	target := c.fctx.targetIndex(s.Target)
	if target < 0 {
		c.invalidAST(s.Pos(), "%s target %T does not enclose it", s.Tok, s.Target)
	}
	if spawn := c.fctx.innermostSpawn(); spawn > target {
		c.errorf(s.Pos(), diag.BranchCrossesSpawn, "%s would leave the spawned task at %s", s.Tok, c.fctx.targets[spawn].Pos())
	}
}

// declStmt checks a local variable declaration.
func (c *Checker) declStmt(s *syntax.DeclStmt) {
	decl, ok := s.Decl.(*syntax.VarDecl)
	if !ok {
		c.invalidAST(s.Pos(), "unexpected declaration %T in statement context", s.Decl)
	}
	c.localVarDecl(decl)
}

// localVarDecl declares a local variable. It returns nil if the
// declaration is invalid; the name is still declared so later uses do
// not report it as undefined.
func (c *Checker) localVarDecl(decl *syntax.VarDecl) *types.Var {
	typ := c.varType(decl)
	if typ == nil {
		c.declare(decl.Name, types.NewVar(decl.Name.Pos(), decl.Name.Value, types.Typ[types.Invalid]))
		return nil
	}
	v := types.NewVar(decl.Name.Pos(), decl.Name.Value, typ)
	if !c.declare(decl.Name, v) {
		return nil
	}
	return v
}

// assignStmt checks an assignment or short variable declaration.
func (c *Checker) assignStmt(s *syntax.AssignStmt) {
	if s.IsDefine() {
		c.shortVarDecl(s)
		return
	}

	var left, right operand
	c.expr(&left, s.LHS)
	okRight := c.valueOperand(&right, s.RHS)
	if left.mode == invalid || !okRight {
		return
	}
	if left.mode != variable {
		c.typeErrorf(s.LHS.Pos(), "cannot assign to %s", syntax.String(s.LHS))
		return
	}
	c.assignment(&right, left.typ, "assignment")
}

// shortVarDecl handles x := expr.
func (c *Checker) shortVarDecl(s *syntax.AssignStmt) {
	name, ok := s.LHS.(*syntax.Name)
	if !ok {
		c.invalidAST(s.LHS.Pos(), "non-name on left side of :=")
	}

	var typ types.Type = types.Typ[types.Invalid]
	var val operand
	if c.valueOperand(&val, s.RHS) {
		typ = types.DefaultType(val.typ)
		c.convertUntyped(&val, typ)
	}
	c.declare(name, types.NewVar(name.Pos(), name.Value, typ))
}

// isEmptyBody reports whether s is a lone semicolon or a block made only
// of semicolons. An empty block {} is not an empty body.
func isEmptyBody(s syntax.Stmt) bool {
	switch s := s.(type) {
	case *syntax.EmptyStmt:
		return true
	case *syntax.BlockStmt:
		if len(s.Stmts) == 0 {
			return false
		}
		for _, st := range s.Stmts {
			if _, ok := st.(*syntax.EmptyStmt); !ok {
				return false
			}
		}
		return true
	}
	return false
}

func unparen(e syntax.Expr) syntax.Expr {
	for {
		p, ok := e.(*syntax.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

// blockMustReturn reports whether all control-flow paths in this statement
// list end in a terminating statement.
func (c *Checker) blockMustReturn(stmts []syntax.Stmt) bool {
	for i := len(stmts) - 1; i >= 0; i-- {
		if _, ok := stmts[i].(*syntax.EmptyStmt); ok {
			continue
		}
		return c.stmtMustReturn(stmts[i])
	}
	return false
}

func (c *Checker) stmtMustReturn(s syntax.Stmt) bool {
	switch s := s.(type) {
	case *syntax.ReturnStmt:
		return true
	case *syntax.BlockStmt:
		return c.blockMustReturn(s.Stmts)
	case *syntax.ExprStmt:
		return c.isPanicCall(s.X)
	case *syntax.IfStmt:
		if s.Else == nil || !c.blockMustReturn(s.Then.Stmts) {
			return false
		}
		return c.stmtMustReturn(s.Else)
	case *syntax.ForStmt:
		return s.Cond == nil && !hasBreak(s)
	}
	return false
}

func (c *Checker) isPanicCall(e syntax.Expr) bool {
	call, ok := unparen(e).(*syntax.CallExpr)
	if !ok {
		return false
	}
	name, ok := call.Fun.(*syntax.Name)
	if !ok {
		return false
	}
	b, ok := c.info.Uses[name].(*types.Builtin)
	return ok && b.Kind() == types.BuiltinPanic
}

// hasBreak reports whether a break targets loop.
func hasBreak(loop *syntax.ForStmt) bool {
	found := false
	syntax.Inspect(loop.Body, func(n syntax.Node) bool {
		if b, ok := n.(*syntax.BranchStmt); ok && b.Tok == syntax.Break && b.Target == loop {
			found = true
		}
		return !found
	})
	return found
}
