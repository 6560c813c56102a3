package types2

import (
	"go/constant"

	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// call checks a call expression: a function call, a builtin call or a
// conversion T(x).
func (c *Checker) call(x *operand, e *syntax.CallExpr) {
	c.expr(x, e.Fun)
	switch x.mode {
	case invalid:
		c.useArgs(e.Args)
	case typexpr:
		c.conversion(x, e)
	case builtin:
		c.builtinCall(x, e)
	default:
		c.funcCall(x, e)
	}
	x.pos = e.Pos()
	x.expr = e
}

// useArgs checks arguments of a call that already failed, for their
// diagnostics.
func (c *Checker) useArgs(args []syntax.Expr) {
	for _, arg := range args {
		var a operand
		c.expr(&a, arg)
	}
}

// funcCall handles calls of declared functions.
func (c *Checker) funcCall(x *operand, e *syntax.CallExpr) {
	sig, ok := x.typ.(*types.Func)
	if !ok {
		c.typeErrorf(e.Fun.Pos(), "invalid operation: cannot call non-function %s", x)
		c.useArgs(e.Args)
		x.setInvalid()
		return
	}

	if sig.IsGeneric() {
		c.typeErrorf(e.Fun.Pos(), "cannot call generic function %s: instantiation is not supported", syntax.String(e.Fun))
		c.useArgs(e.Args)
		x.setInvalid()
		return
	}

	c.checkCallArgs(e, sig)

	if sig.Result() != nil {
		x.setValue(sig.Result())
	} else {
		x.mode = novalue
		x.typ = nil
		x.val = nil
	}
}

// checkCallArgs checks function call arguments against sig.
func (c *Checker) checkCallArgs(e *syntax.CallExpr, sig *types.Func) {
	want := sig.NumParams()
	if got := len(e.Args); got != want {
		qualifier := "not enough"
		if got > want {
			qualifier = "too many"
		}
		c.typeErrorf(e.Rparen, "%s arguments in call to %s: have %d, want %d", qualifier, syntax.String(e.Fun), got, want)
	}

	for i, arg := range e.Args {
		var a operand
		if !c.valueOperand(&a, arg) {
			continue
		}
		if i < want {
			c.assignment(&a, sig.Param(i).Type(), "argument")
		}
	}
}

// conversion handles T(x).
func (c *Checker) conversion(x *operand, e *syntax.CallExpr) {
	T := x.typ
	if len(e.Args) != 1 {
		c.typeErrorf(e.Pos(), "conversion to %s needs exactly one argument", T)
		c.useArgs(e.Args)
		x.setInvalid()
		return
	}

	var arg operand
	if !c.valueOperand(&arg, e.Args[0]) {
		x.setInvalid()
		return
	}
	if !types.ConvertibleTo(arg.typ, T) {
		c.typeErrorf(arg.pos, "cannot convert %s to type %s", &arg, T)
		x.setInvalid()
		return
	}

	if arg.mode == constant_ && isConstType(T) {
		val := arg.val
		switch {
		case types.IsFloatType(T):
			val = constant.ToFloat(val)
		case types.IsIntegerType(T) || types.IsEnumType(T):
			val = constant.ToInt(val)
			if val.Kind() != constant.Int {
				c.typeErrorf(arg.pos, "cannot convert %s to type %s (truncated)", &arg, T)
				x.setInvalid()
				return
			}
		}
		c.convertUntyped(&arg, types.DefaultType(arg.typ))
		x.setConst(T, val)
		return
	}

	c.convertUntyped(&arg, types.DefaultType(arg.typ))
	x.setValue(T)
}

// isConstType reports whether constants of type T exist.
func isConstType(T types.Type) bool {
	if types.IsEnumType(T) {
		return true
	}
	b, ok := T.Underlying().(*types.Basic)
	return ok && b.Info() != 0
}

// builtinCall handles println and panic.
func (c *Checker) builtinCall(x *operand, e *syntax.CallExpr) {
	name, ok := e.Fun.(*syntax.Name)
	if !ok {
		c.invalidAST(e.Fun.Pos(), "unexpected builtin expression %T", e.Fun)
	}
	b := c.info.Uses[name].(*types.Builtin)

	switch b.Kind() {
	case types.BuiltinPrintln:
		for _, arg := range e.Args {
			var a operand
			if !c.valueOperand(&a, arg) {
				continue
			}
			if !isPrintable(a.typ) {
				c.typeErrorf(arg.Pos(), "cannot print %s", &a)
				continue
			}
			c.convertUntyped(&a, types.DefaultType(a.typ))
		}

	case types.BuiltinPanic:
		if len(e.Args) != 1 {
			c.typeErrorf(e.Pos(), "panic requires exactly one argument")
			c.useArgs(e.Args)
			break
		}
		var a operand
		if c.valueOperand(&a, e.Args[0]) {
			c.assignment(&a, types.Typ[types.String], "argument to panic")
		}

	default:
		c.invalidAST(name.Pos(), "unknown builtin %s", name.Value)
	}

	x.mode = novalue
	x.typ = nil
	x.val = nil
}

// isPrintable reports whether println accepts values of type t.
func isPrintable(t types.Type) bool {
	if types.IsEnumType(t) {
		return true
	}
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info() != 0
}
