package ssa

import (
	"go/constant"

	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
	"github.com/you-not-fish/swarm/internal/types2"
)

// expr lowers an expression to an SSA value. Calls without result return nil.
func (b *builder) expr(e syntax.Expr) *Value {
	// Check for constant expressions first.
	if tv, ok := b.info.Types[e]; ok && tv.IsConstant() {
		return b.constValue(e, tv)
	}

	switch e := e.(type) {
	case *syntax.Name:
		return b.nameExpr(e)
	case *syntax.Operation:
		if e.Y == nil {
			return b.unaryExpr(e)
		}
		return b.binaryExpr(e)
	case *syntax.CallExpr:
		return b.callExpr(e)
	case *syntax.ParenExpr:
		return b.expr(e.X)
	}
	diag.ICE(e.Pos(), "cannot lower expression %T", e)
	return nil
}

// constValue generates an SSA constant from a type-checked constant.
func (b *builder) constValue(e syntax.Expr, tv types2.TypeAndValue) *Value {
	typ := types.DefaultType(tv.Type)
	val := tv.Value
	if val == nil {
		diag.ICE(e.Pos(), "constant %s has no value", syntax.String(e))
	}

	switch {
	case types.IsFloatType(typ):
		f, _ := constant.Float64Val(constant.ToFloat(val))
		v := b.fn.NewValue(b.b, OpConstFloat, typ)
		v.AuxFloat = f
		return v

	case types.IsIntegerType(typ), types.IsEnumType(typ):
		// go/constant may keep an integral result as an exact rational.
		n, exact := constant.Int64Val(constant.ToInt(val))
		if !exact {
			diag.ICE(e.Pos(), "constant %s overflows %s", val, typ)
		}
		v := b.fn.NewValue(b.b, OpConst64, typ)
		v.AuxInt = n
		return v

	case types.IsBooleanType(typ):
		v := b.fn.NewValue(b.b, OpConstBool, typ)
		if constant.BoolVal(val) {
			v.AuxInt = 1
		}
		return v

	case types.IsStringType(typ):
		v := b.fn.NewValue(b.b, OpConstString, typ)
		v.Aux = constant.StringVal(val)
		return v
	}
	diag.ICE(e.Pos(), "constant of unexpected type %s", typ)
	return nil
}

// nameExpr lowers a variable reference to a load from its slot.
func (b *builder) nameExpr(e *syntax.Name) *Value {
	obj := b.info.Uses[e]
	switch obj := obj.(type) {
	case *types.Var:
		return b.fn.NewValuePos(b.b, OpLoad, obj.Type(), e.Pos(), b.slot(e.Pos(), obj))
	case *types.FuncObj:
		v := b.fn.NewValue(b.b, OpFuncAddr, obj.Signature())
		v.Aux = obj
		return v
	case nil:
		diag.ICE(e.Pos(), "no object for %s", e.Value)
	}
	diag.ICE(e.Pos(), "%s (%T) is not a value", e.Value, obj)
	return nil
}

// unaryExpr handles ! and unary -.
func (b *builder) unaryExpr(e *syntax.Operation) *Value {
	x := b.expr(e.X)
	typ := b.exprType(e)
	switch e.Op {
	case syntax.Not:
		return b.fn.NewValue(b.b, OpNot, typ, x)
	case syntax.Sub:
		if types.IsFloatType(typ) {
			return b.fn.NewValue(b.b, OpNegF64, typ, x)
		}
		return b.fn.NewValue(b.b, OpNeg64, typ, x)
	}
	diag.ICE(e.Pos(), "unknown unary operator %s", e.Op)
	return nil
}

// binaryExpr handles binary operations.
func (b *builder) binaryExpr(e *syntax.Operation) *Value {
	if e.Op.IsLogical() {
		return b.shortCircuit(e)
	}

	x := b.expr(e.X)
	y := b.expr(e.Y)
	xTyp := b.exprType(e.X)
	resTyp := b.exprType(e)

	switch {
	case types.IsStringType(xTyp):
		if e.Op == syntax.Add {
			return b.fn.NewValuePos(b.b, OpConcatString, resTyp, e.Pos(), x, y)
		}
		// a op b becomes compare(a, b) op 0
		cmp := b.fn.NewValue(b.b, OpCmpString, types.Typ[types.Int], x, y)
		zero := b.fn.NewValue(b.b, OpConst64, types.Typ[types.Int])
		return b.fn.NewValue(b.b, intBinOp(e.Pos(), e.Op), resTyp, cmp, zero)

	case types.IsBooleanType(xTyp):
		op := OpEqBool
		switch e.Op {
		case syntax.Eql:
		case syntax.Neq:
			op = OpNeqBool
		default:
			diag.ICE(e.Pos(), "operator %s on bool", e.Op)
		}
		return b.fn.NewValue(b.b, op, resTyp, x, y)

	case types.IsFloatType(xTyp):
		return b.fn.NewValue(b.b, floatBinOp(e.Pos(), e.Op), resTyp, x, y)
	}

	v := b.fn.NewValue(b.b, intBinOp(e.Pos(), e.Op), resTyp, x, y)
	if v.Op == OpDiv64 || v.Op == OpMod64 {
		v.Pos = e.Pos()
	}
	return v
}

// shortCircuit implements short-circuit evaluation for && and ||.
func (b *builder) shortCircuit(e *syntax.Operation) *Value {
	typ := b.exprType(e)
	left := b.expr(e.X)

	bRight := b.fn.NewBlock(BlockPlain)
	bShort := b.fn.NewBlock(BlockPlain)
	bMerge := b.fn.NewBlock(BlockPlain)

	b.b.Kind = BlockIf
	b.b.SetControl(left)

	isAnd := e.Op == syntax.AndAnd
	if isAnd {
		b.b.AddSucc(bRight) // true  → eval right
		b.b.AddSucc(bShort) // false → short-circuit
	} else {
		b.b.AddSucc(bShort)
		b.b.AddSucc(bRight)
	}

	// && short-circuits to false, || to true
	shortVal := b.fn.NewValue(bShort, OpConstBool, typ)
	if !isAnd {
		shortVal.AuxInt = 1
	}
	bShort.AddSucc(bMerge)

	b.b = bRight
	right := b.expr(e.Y)
	// The right operand may have ended in another block.
	b.b.AddSucc(bMerge)

	b.b = bMerge
	return b.fn.NewValue(bMerge, OpPhi, typ, shortVal, right)
}

func intBinOp(pos syntax.Pos, tok syntax.Token) Op {
	switch tok {
	case syntax.Add:
		return OpAdd64
	case syntax.Sub:
		return OpSub64
	case syntax.Mul:
		return OpMul64
	case syntax.Div:
		return OpDiv64
	case syntax.Rem:
		return OpMod64
	case syntax.Eql:
		return OpEq64
	case syntax.Neq:
		return OpNeq64
	case syntax.Lss:
		return OpLt64
	case syntax.Leq:
		return OpLeq64
	case syntax.Gtr:
		return OpGt64
	case syntax.Geq:
		return OpGeq64
	}
	diag.ICE(pos, "no integer operation for %s", tok)
	return OpInvalid
}

func floatBinOp(pos syntax.Pos, tok syntax.Token) Op {
	switch tok {
	case syntax.Add:
		return OpAddF64
	case syntax.Sub:
		return OpSubF64
	case syntax.Mul:
		return OpMulF64
	case syntax.Div:
		return OpDivF64
	case syntax.Eql:
		return OpEqF64
	case syntax.Neq:
		return OpNeqF64
	case syntax.Lss:
		return OpLtF64
	case syntax.Leq:
		return OpLeqF64
	case syntax.Gtr:
		return OpGtF64
	case syntax.Geq:
		return OpGeqF64
	}
	diag.ICE(pos, "no float operation for %s", tok)
	return OpInvalid
}

// callExpr handles function calls, builtin calls and conversions.
func (b *builder) callExpr(e *syntax.CallExpr) *Value {
	tv := b.info.Types[e.Fun]
	switch {
	case tv.IsBuiltin():
		return b.builtinCall(e)
	case tv.IsType():
		return b.conversion(e, tv.Type)
	}

	args := make([]*Value, 0, len(e.Args))
	for _, arg := range e.Args {
		args = append(args, b.expr(arg))
	}

	sig, ok := tv.Type.(*types.Func)
	if !ok {
		diag.ICE(e.Pos(), "call of non-function %s", syntax.String(e.Fun))
	}

	// Declared functions are called directly.
	if name, ok := unparen(e.Fun).(*syntax.Name); ok {
		if obj, ok := b.info.Uses[name].(*types.FuncObj); ok {
			v := b.fn.NewValuePos(b.b, OpStaticCall, sig.Result(), e.Pos(), args...)
			v.Aux = obj
			return v
		}
	}

	callee := b.expr(e.Fun)
	v := b.fn.NewValuePos(b.b, OpCall, sig.Result(), e.Pos(), callee)
	for _, arg := range args {
		v.AddArg(arg)
	}
	return v
}

// conversion lowers T(x) for a non-constant x.
func (b *builder) conversion(e *syntax.CallExpr, to types.Type) *Value {
	x := b.expr(e.Args[0])
	from := b.exprType(e.Args[0])
	switch {
	case types.IsFloatType(to) && !types.IsFloatType(from):
		return b.fn.NewValue(b.b, OpIntToFloat, to, x)
	case !types.IsFloatType(to) && types.IsFloatType(from):
		return b.fn.NewValue(b.b, OpFloatToInt, to, x)
	}
	// Same representation; only the type changes.
	return b.fn.NewValue(b.b, OpCopy, to, x)
}

// builtinCall handles calls to builtin functions.
func (b *builder) builtinCall(e *syntax.CallExpr) *Value {
	name, ok := unparen(e.Fun).(*syntax.Name)
	if !ok {
		diag.ICE(e.Pos(), "builtin called through %T", e.Fun)
	}
	bi, ok := b.info.Uses[name].(*types.Builtin)
	if !ok {
		diag.ICE(e.Pos(), "%s is not a builtin", name.Value)
	}

	switch bi.Kind() {
	case types.BuiltinPrintln:
		args := make([]*Value, len(e.Args))
		for i, arg := range e.Args {
			args[i] = b.expr(arg)
		}
		b.fn.NewValuePos(b.b, OpPrintln, nil, e.Pos(), args...)
		return nil

	case types.BuiltinPanic:
		msg := b.expr(e.Args[0])
		b.fn.NewValuePos(b.b, OpPanic, nil, e.Pos(), msg)
		b.b.Kind = BlockExit
		b.b.Pos = e.Pos()
		b.b = nil
		return nil
	}
	diag.ICE(e.Pos(), "unhandled builtin %s", bi.Name())
	return nil
}

// exprType returns the concrete type of an expression.
func (b *builder) exprType(e syntax.Expr) types.Type {
	tv, ok := b.info.Types[e]
	if !ok {
		diag.ICE(e.Pos(), "no type for %s", syntax.String(e))
	}
	return types.DefaultType(tv.Type)
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
