package types2

import (
	"go/constant"
	"go/token"
	"strconv"

	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// expr evaluates an expression and sets x to the result.
func (c *Checker) expr(x *operand, e syntax.Expr) {
	c.exprInternal(x, e)
	if x.mode != invalid {
		c.recordType(e, x)
	}
}

// exprInternal is the main expression checking function.
func (c *Checker) exprInternal(x *operand, e syntax.Expr) {
	x.setInvalid()
	x.pos = e.Pos()
	x.expr = e

	switch e := e.(type) {
	case *syntax.Name:
		c.ident(x, e)
	case *syntax.BasicLit:
		c.basicLit(x, e)
	case *syntax.Operation:
		if e.Y == nil {
			c.unary(x, e)
		} else {
			c.binary(x, e)
		}
	case *syntax.CallExpr:
		c.call(x, e)
	case *syntax.ParenExpr:
		c.expr(x, e.X)
		x.expr = e
	case *syntax.EnumType:
		c.typExpr(x, e)
	case *syntax.BadExpr:
		// reported by the parser
	default:
		c.invalidAST(e.Pos(), "unexpected expression %T", e)
	}
}

// ident evaluates an identifier.
func (c *Checker) ident(x *operand, name *syntax.Name) {
	obj := c.resolve(name)
	if obj == nil {
		return
	}

	switch obj := obj.(type) {
	case *types.Var:
		obj.MarkUsed()
		if c.fctx != nil && obj.Parent() != c.pkg.Scope() && c.fctx.captures(obj) {
			c.info.Captured[obj] = true
		}
		x.mode = variable
		x.typ = obj.Type()
		if types.IsInvalid(x.typ) {
			x.setInvalid()
		}
	case *types.Const:
		if obj.Type() == types.Typ[types.UntypedBool] {
			x.setConst(obj.Type(), constant.MakeBool(obj.Val() != 0))
		} else {
			x.setConst(obj.Type(), constant.MakeInt64(obj.Val()))
		}
	case *types.TypeName:
		x.mode = typexpr
		c.typeName(x, name)
	case *types.FuncObj:
		if obj.Signature() == nil {
			return
		}
		x.setValue(obj.Signature())
	case *types.Builtin:
		x.mode = builtin
		x.typ = obj.Type()
	default:
		c.invalidAST(name.Pos(), "unexpected object %T", obj)
	}
}

// basicLit evaluates a basic literal (int, float, string).
func (c *Checker) basicLit(x *operand, lit *syntax.BasicLit) {
	switch lit.Kind {
	case syntax.IntLit:
		val, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			c.typeErrorf(lit.Pos(), "invalid integer literal %s", lit.Value)
			return
		}
		x.setConst(types.Typ[types.UntypedInt], constant.MakeInt64(val))

	case syntax.FloatLit:
		val, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			c.typeErrorf(lit.Pos(), "invalid float literal %s", lit.Value)
			return
		}
		x.setConst(types.Typ[types.UntypedFloat], constant.MakeFloat64(val))

	case syntax.StringLit:
		// already decoded by the scanner
		x.setConst(types.Typ[types.UntypedString], constant.MakeString(lit.Value))

	default:
		c.invalidAST(lit.Pos(), "unknown literal kind %v", lit.Kind)
	}
}

// valueOperand evaluates e and reports an error unless it has a value.
func (c *Checker) valueOperand(x *operand, e syntax.Expr) bool {
	c.expr(x, e)
	switch x.mode {
	case invalid:
		return false
	case novalue:
		c.typeErrorf(e.Pos(), "%s (no value) used as value", syntax.String(e))
	case builtin:
		c.typeErrorf(e.Pos(), "%s must be called", syntax.String(e))
	case typexpr:
		c.typeErrorf(e.Pos(), "%s is not an expression", syntax.String(e))
	default:
		return true
	}
	x.setInvalid()
	return false
}

// unary evaluates a unary operation.
func (c *Checker) unary(x *operand, e *syntax.Operation) {
	if !c.valueOperand(x, e.X) {
		return
	}
	x.pos = e.Pos()

	switch e.Op {
	case syntax.Not:
		if !types.IsBooleanType(x.typ) {
			c.typeErrorf(e.Pos(), "operator ! not defined on %s", x)
			x.setInvalid()
			return
		}
		if x.mode == constant_ {
			x.val = constant.UnaryOp(token.NOT, x.val, 0)
			return
		}
		x.setValue(x.typ)

	case syntax.Sub:
		if !types.IsNumericType(x.typ) {
			c.typeErrorf(e.Pos(), "operator - not defined on %s", x)
			x.setInvalid()
			return
		}
		if x.mode == constant_ {
			x.val = constant.UnaryOp(token.SUB, x.val, 0)
			return
		}
		x.setValue(x.typ)

	default:
		c.invalidAST(e.Pos(), "unknown unary operator %s", e.Op)
	}
}

// binary evaluates a binary operation.
func (c *Checker) binary(x *operand, e *syntax.Operation) {
	var y operand
	okx := c.valueOperand(x, e.X)
	oky := c.valueOperand(&y, e.Y)
	if !okx || !oky {
		x.setInvalid()
		return
	}

	switch op := e.Op; {
	case op.IsComparison():
		c.comparison(x, &y, op)
	case op.IsLogical():
		c.logical(x, &y, op)
	default:
		c.arithmetic(x, &y, op)
	}
	x.pos = e.Pos()
	x.expr = e
}

// matchTypes converts untyped operands to the type of the other operand.
// It reports an error and returns false if the types are incompatible.
func (c *Checker) matchTypes(x, y *operand, op syntax.Token) bool {
	xu, yu := types.IsUntypedType(x.typ), types.IsUntypedType(y.typ)
	switch {
	case xu && yu:
		// Mixed untyped int/float constants become untyped float.
		if types.IsNumericType(x.typ) && types.IsNumericType(y.typ) &&
			(types.IsFloatType(x.typ) || types.IsFloatType(y.typ)) {
			x.typ = types.Typ[types.UntypedFloat]
			y.typ = types.Typ[types.UntypedFloat]
		}
		if types.Identical(x.typ, y.typ) {
			return true
		}
	case xu:
		if types.AssignableTo(x.typ, y.typ) {
			c.convertUntyped(x, y.typ)
			return true
		}
	case yu:
		if types.AssignableTo(y.typ, x.typ) {
			c.convertUntyped(y, x.typ)
			return true
		}
	default:
		if types.Identical(x.typ, y.typ) {
			return true
		}
	}
	c.typeErrorf(x.pos, "invalid operation: %s %s %s (mismatched types %s and %s)",
		syntax.String(x.expr), op, syntax.String(y.expr), x.typ, y.typ)
	return false
}

// comparison handles ==, !=, <, <=, >, >=.
func (c *Checker) comparison(x, y *operand, op syntax.Token) {
	if !c.matchTypes(x, y, op) {
		x.setInvalid()
		return
	}

	if op.IsEquality() {
		if !types.Comparable(x.typ) {
			c.typeErrorf(x.pos, "operator %s not defined on %s", op, x)
			x.setInvalid()
			return
		}
	} else if !types.Ordered(x.typ) {
		c.typeErrorf(x.pos, "operator %s not defined on %s", op, x)
		x.setInvalid()
		return
	}

	if x.mode == constant_ && y.mode == constant_ {
		x.setConst(types.Typ[types.UntypedBool], constant.MakeBool(constant.Compare(x.val, goToken(op), y.val)))
		return
	}
	c.convertUntyped(x, types.DefaultType(x.typ))
	c.convertUntyped(y, types.DefaultType(y.typ))
	x.setValue(types.Typ[types.Bool])
}

// logical handles && and ||.
func (c *Checker) logical(x, y *operand, op syntax.Token) {
	if !types.IsBooleanType(x.typ) || !types.IsBooleanType(y.typ) {
		c.typeErrorf(x.pos, "operator %s not defined on %s", op, x)
		x.setInvalid()
		return
	}
	if !c.matchTypes(x, y, op) {
		x.setInvalid()
		return
	}

	if x.mode == constant_ && y.mode == constant_ {
		x.val = constant.BinaryOp(x.val, goToken(op), y.val)
		return
	}
	x.setValue(x.typ)
}

// arithmetic handles +, -, *, / and %.
func (c *Checker) arithmetic(x, y *operand, op syntax.Token) {
	if !c.matchTypes(x, y, op) {
		x.setInvalid()
		return
	}

	switch {
	case types.IsStringType(x.typ):
		if op != syntax.Add {
			c.typeErrorf(x.pos, "operator %s not defined on %s", op, x)
			x.setInvalid()
			return
		}
	case types.IsNumericType(x.typ):
		if op == syntax.Rem && types.IsFloatType(x.typ) {
			c.typeErrorf(x.pos, "operator %% not defined on %s", x)
			x.setInvalid()
			return
		}
	default:
		c.typeErrorf(x.pos, "operator %s not defined on %s", op, x)
		x.setInvalid()
		return
	}

	if (op == syntax.Div || op == syntax.Rem) && y.mode == constant_ && constant.Sign(y.val) == 0 {
		c.typeErrorf(y.pos, "invalid operation: division by zero")
		x.setInvalid()
		return
	}

	if x.mode == constant_ && y.mode == constant_ {
		tok := goToken(op)
		if tok == token.QUO && types.IsIntegerType(x.typ) {
			tok = token.QUO_ASSIGN // truncating division

		}
		x.val = constant.BinaryOp(x.val, tok, y.val)
		return
	}
	x.setValue(x.typ)
}

// goToken maps an operator to the go/token operator used for folding.
func goToken(op syntax.Token) token.Token {
	switch op {
	case syntax.Add:
		return token.ADD
	case syntax.Sub:
		return token.SUB
	case syntax.Mul:
		return token.MUL
	case syntax.Div:
		return token.QUO
	case syntax.Rem:
		return token.REM
	case syntax.Eql:
		return token.EQL
	case syntax.Neq:
		return token.NEQ
	case syntax.Lss:
		return token.LSS
	case syntax.Leq:
		return token.LEQ
	case syntax.Gtr:
		return token.GTR
	case syntax.Geq:
		return token.GEQ
	case syntax.AndAnd:
		return token.LAND
	case syntax.OrOr:
		return token.LOR
	}
	return token.ILLEGAL
}

// convertUntyped gives an untyped operand the type target and updates
// the recorded type of its expression tree.
func (c *Checker) convertUntyped(x *operand, target types.Type) {
	if !types.IsUntypedType(x.typ) || types.IsUntypedType(target) {
		return
	}
	if x.mode == constant_ && types.IsFloatType(target) {
		x.val = constant.ToFloat(x.val)
	}
	x.typ = target
	if x.expr != nil {
		c.updateExprType(x.expr, target)
	}
}

// updateExprType rewrites the recorded untyped types in e to typ.
func (c *Checker) updateExprType(e syntax.Expr, typ types.Type) {
	tv, ok := c.info.Types[e]
	if !ok || !types.IsUntypedType(tv.Type) {
		return
	}
	if tv.Value != nil && types.IsFloatType(typ) {
		tv.Value = constant.ToFloat(tv.Value)
	}
	switch e := e.(type) {
	case *syntax.ParenExpr:
		c.updateExprType(e.X, typ)
	case *syntax.Operation:
		if e.Y == nil {
			c.updateExprType(e.X, typ)
		} else if !e.Op.IsComparison() {
			// operands of a comparison keep their own types
			c.updateExprType(e.X, typ)
			c.updateExprType(e.Y, typ)
		}
	}
	tv.Type = typ
	c.info.Types[e] = tv
}

// assignment checks whether x can be assigned to type T.
func (c *Checker) assignment(x *operand, T types.Type, context string) bool {
	if x.mode == invalid || types.IsInvalid(T) {
		return false
	}
	if types.AssignableTo(x.typ, T) {
		c.convertUntyped(x, T)
		return true
	}
	c.typeErrorf(x.pos, "cannot use %s as %s value in %s", x, T, context)
	x.setInvalid()
	return false
}
