package types2

import (
	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// checkBodilessSpawn checks a spawn without a (init; timestamp) header.
func (c *Checker) checkBodilessSpawn(s *syntax.SpawnStmt) {
	c.spawnPrologue(s)

	ok := true
	if s.Domain() != syntax.SameDomain {
		c.errorf(s.Pos(), diag.DomainSpawnWithoutTimestamp,
			"domain spawn without timestamp: %s requires a (init; timestamp) header", s.Keyword())
		ok = false
	}

	scope := c.openScope(s, "spawn")
	c.spawnBody(s, scope)
	c.closeScope()

	if ok {
		c.info.Spawns[s] = &Spawn{Domain: s.Domain(), Scope: scope}
	}
}

// checkSpawn checks a spawn with a header. The header is validated first;
// a rejected spawn still has its body checked but is not recorded.
func (c *Checker) checkSpawn(s *syntax.SpawnStmt) {
	c.spawnPrologue(s)

	scope := c.openScope(s, "spawn")
	sp := c.spawnHeader(s)
	if sp != nil && isEmptyBody(s.Body()) {
		c.cautionf(s.Body().Pos(), diag.EmptySpawnBody, "empty body in %s statement", s.Keyword())
	}
	c.spawnBody(s, scope)
	c.closeScope()

	if sp != nil {
		sp.Scope = scope
		c.info.Spawns[s] = sp
	}
}

// spawnPrologue runs the checks shared by both spawn forms before the
// header and body are looked at.
func (c *Checker) spawnPrologue(s *syntax.SpawnStmt) {
	if s.Body() == nil {
		diag.ICE(s.Pos(), "spawn without body")
	}
	if !c.conf.IgnoreUnusedResult {
		if es, ok := s.Body().(*syntax.ExprStmt); ok {
			if _, call := unparen(es.X).(*syntax.CallExpr); !call {
				c.cautionf(es.Pos(), diag.UnusedResult, "result of spawned expression %s is unused", syntax.String(es.X))
			}
		}
	}
	c.markBranchProtected()
}

// spawnHeader checks the init clause, the condition variable and the
// timestamp. It returns nil if the spawn is rejected.
func (c *Checker) spawnHeader(s *syntax.SpawnStmt) *Spawn {
	if init := s.Init(); init != nil {
		c.stmt(init)
	}

	var cv *types.Var
	if d := s.CondVar(); d != nil {
		if cv = c.localVarDecl(d); cv == nil {
			return nil
		}
	}

	ts := s.Timestamp()
	if ts == nil {
		c.errorf(s.Pos(), diag.MissingTimestamp, "%s header has no timestamp", s.Keyword())
		return nil
	}

	var x operand
	c.expr(&x, ts)
	switch x.mode {
	case invalid:
		return nil
	case novalue, builtin, typexpr:
		c.errorf(ts.Pos(), diag.InvalidTimestamp, "invalid spawn timestamp %s", &x)
		return nil
	}

	pre := types.DefaultType(x.typ)
	promoted := types.Type(types.Typ[types.Int])
	if types.IsDependent(pre) {
		promoted = pre
	} else if !types.IsIntegralOrEnum(pre) {
		c.errorf(ts.Pos(), diag.TimestampNotIntegral,
			"spawn timestamp %s must be integral or enum, not %s", syntax.String(ts), pre)
		return nil
	}
	c.convertUntyped(&x, pre)

	if isKnownBoolean(ts, pre) {
		c.cautionf(s.Pos(), diag.BoolTimestamp, "boolean spawn timestamp %s is promoted to int", syntax.String(ts))
	}

	return &Spawn{Domain: s.Domain(), CondVar: cv, Timestamp: pre, Promoted: promoted}
}

// spawnBody checks the body of s as a potentially evaluated task.
func (c *Checker) spawnBody(s *syntax.SpawnStmt, scope *types.Scope) {
	c.fctx.enterSpawn(s, scope)
	c.fctx.pushExprContext(potentiallyEvaluated)

	// A discarded expression was already flagged by spawnPrologue.
	if es, ok := s.Body().(*syntax.ExprStmt); ok {
		var x operand
		c.expr(&x, es.X)
		if x.isValue() {
			c.convertUntyped(&x, types.DefaultType(x.typ))
		}
	} else {
		c.stmt(s.Body())
	}

	if k := c.fctx.popExprContext(); k != potentiallyEvaluated {
		diag.ICE(s.Pos(), "spawn body left expression context %d", k)
	}
	c.fctx.exitSpawn(s)
}

// isKnownBoolean reports whether the timestamp is known to be a boolean
// value: bool typed, or a comparison, negation or logical expression.
func isKnownBoolean(e syntax.Expr, t types.Type) bool {
	if t != nil && types.IsBooleanType(t) {
		return true
	}
	switch e := e.(type) {
	case *syntax.ParenExpr:
		return isKnownBoolean(e.X, nil)
	case *syntax.Operation:
		if e.Y == nil {
			return e.Op == syntax.Not
		}
		return e.Op.IsComparison() || e.Op.IsLogical()
	}
	return false
}
