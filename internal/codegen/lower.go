package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/you-not-fish/swarm/internal/rtabi"
	"github.com/you-not-fish/swarm/internal/ssa"
	"github.com/you-not-fish/swarm/internal/types"
)

const stringType = rtabi.LLVMTypeString

// binaryInsts gives the instruction and operand type of each two-operand
// op that maps to a single LLVM instruction.
var binaryInsts = map[ssa.Op][2]string{
	ssa.OpAdd64: {"add", "i64"},
	ssa.OpSub64: {"sub", "i64"},
	ssa.OpMul64: {"mul", "i64"},
	ssa.OpDiv64: {"sdiv", "i64"},
	ssa.OpMod64: {"srem", "i64"},

	ssa.OpAddF64: {"fadd", "double"},
	ssa.OpSubF64: {"fsub", "double"},
	ssa.OpMulF64: {"fmul", "double"},
	ssa.OpDivF64: {"fdiv", "double"},

	ssa.OpEq64:  {"icmp eq", "i64"},
	ssa.OpNeq64: {"icmp ne", "i64"},
	ssa.OpLt64:  {"icmp slt", "i64"},
	ssa.OpLeq64: {"icmp sle", "i64"},
	ssa.OpGt64:  {"icmp sgt", "i64"},
	ssa.OpGeq64: {"icmp sge", "i64"},

	ssa.OpEqF64:  {"fcmp oeq", "double"},
	ssa.OpNeqF64: {"fcmp une", "double"},
	ssa.OpLtF64:  {"fcmp olt", "double"},
	ssa.OpLeqF64: {"fcmp ole", "double"},
	ssa.OpGtF64:  {"fcmp ogt", "double"},
	ssa.OpGeqF64: {"fcmp oge", "double"},

	ssa.OpEqBool:  {"icmp eq", "i1"},
	ssa.OpNeqBool: {"icmp ne", "i1"},
}

// unaryInsts are the one-operand ops. The verb receives the operand.
var unaryInsts = map[ssa.Op]string{
	ssa.OpNeg64:      "sub i64 0, %s",
	ssa.OpNegF64:     "fneg double %s",
	ssa.OpNot:        "xor i1 %s, true",
	ssa.OpIntToFloat: "sitofp i64 %s to double",
	ssa.OpFloatToInt: "fptosi double %s to i64",
	ssa.OpBoolToInt:  "zext i1 %s to i64",
}

// lowerFunc emits the definition of fn.
func (g *generator) lowerFunc(fn *ssa.Func) {
	var params []string
	if fn.Sig != nil {
		for i := 0; i < fn.Sig.NumParams(); i++ {
			p := fn.Sig.Param(i)
			params = append(params, llvmType(p.Type())+" "+paramName(i, p.Name()))
		}
	}
	g.e.emit("define %s %s(%s) {", llvmReturnType(fn.Sig), g.funcSymbol(fn), strings.Join(params, ", "))
	for _, b := range fn.Blocks {
		g.e.emitLabel(b)
		for _, v := range b.Values {
			g.lowerValue(v)
		}
		g.lowerTerminator(b)
	}
	g.e.emit("}")
}

func (g *generator) lowerValue(v *ssa.Value) {
	if bi, ok := binaryInsts[v.Op]; ok {
		g.e.emitInst("%s = %s %s %s, %s", valueName(v), bi[0], bi[1], g.operand(v.Args[0]), g.operand(v.Args[1]))
		return
	}
	if format, ok := unaryInsts[v.Op]; ok {
		g.e.emitInst("%s = "+format, valueName(v), g.operand(v.Args[0]))
		return
	}

	switch v.Op {
	case ssa.OpConst64, ssa.OpConstFloat, ssa.OpConstBool, ssa.OpGlobal, ssa.OpArg, ssa.OpFuncAddr:
		// Referenced by name or inlined at each use; see operand.
	case ssa.OpConstString:
		g.lowerConstString(v)
	case ssa.OpCmpString:
		g.e.emitInst("%s = call i64 @%s(%s %s, %s %s)", valueName(v), rtabi.FnStringCompare,
			stringType, g.operand(v.Args[0]), stringType, g.operand(v.Args[1]))
	case ssa.OpConcatString:
		g.e.emitInst("%s = call %s @%s(%s %s, %s %s)", valueName(v), stringType, rtabi.FnStringConcat,
			stringType, g.operand(v.Args[0]), stringType, g.operand(v.Args[1]))

	case ssa.OpAlloca:
		g.e.emitInst("%s = alloca %s, align %d", valueName(v), llvmType(v.Type), g.sizes.Alignof(v.Type))
	case ssa.OpLoad:
		g.e.emitInst("%s = load %s, ptr %s", valueName(v), llvmType(v.Type), g.operand(v.Args[0]))
	case ssa.OpStore:
		val := v.Args[1]
		g.e.emitInst("store %s %s, ptr %s", llvmType(val.Type), g.operand(val), g.operand(v.Args[0]))
	case ssa.OpVarKill:
		slot := v.Args[0]
		g.e.emitInst("call void @%s(i64 %d, ptr %s)", rtabi.LLVMLifetimeEnd, g.sizes.Sizeof(slot.Type), g.operand(slot))

	case ssa.OpPhi:
		g.lowerPhi(v)
	case ssa.OpCopy:
		// LLVM has no plain copy; use an identity operation.
		x, lt := g.operand(v.Args[0]), llvmType(v.Type)
		if lt == rtabi.LLVMTypeInt {
			g.e.emitInst("%s = add i64 %s, 0", valueName(v), x)
		} else {
			g.e.emitInst("%s = select i1 true, %s %s, %s %s", valueName(v), lt, x, lt, x)
		}

	case ssa.OpPrintln:
		g.lowerPrintln(v)
	case ssa.OpPanic:
		g.e.emitInst("call void @%s(%s %s)", rtabi.FnPanicString, stringType, g.operand(v.Args[0]))
	case ssa.OpStaticCall:
		fn := v.Aux.(*types.FuncObj)
		g.emitCall(v, llvmReturnType(fn.Signature()), globalName(fn.Name()), fn.Signature(), v.Args)
	case ssa.OpCall:
		callee := v.Args[0]
		sig, ok := callee.Type.Underlying().(*types.Func)
		if !ok {
			g.errorf("%s: call of non-function %s", v.Block.Func.Name, callee.Type)
			return
		}
		g.emitCall(v, llvmFuncType(sig), g.operand(callee), sig, v.Args[1:])

	default:
		g.errorf("%s: unhandled op %s", v.Block.Func.Name, v.Op)
	}
}

// emitCall emits a call of callee, written with type fnType. The result
// is bound to v unless sig has none.
func (g *generator) emitCall(v *ssa.Value, fnType, callee string, sig *types.Func, args []*ssa.Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = llvmType(sig.Param(i).Type()) + " " + g.operand(a)
	}
	call := fmt.Sprintf("call %s %s(%s)", fnType, callee, strings.Join(parts, ", "))
	if sig.Result() == nil {
		g.e.emitInst("%s", call)
		return
	}
	g.e.emitInst("%s = %s", valueName(v), call)
}

func (g *generator) lowerTerminator(b *ssa.Block) {
	br := func(to *ssa.Block) { g.e.emitInst("br label %%%s", blockName(to)) }
	switch b.Kind {
	case ssa.BlockPlain:
		if len(b.Succs) == 0 {
			g.e.emitInst("unreachable")
			return
		}
		br(b.Succs[0])
	case ssa.BlockIf:
		g.e.emitInst("br i1 %s, label %%%s, label %%%s",
			g.operand(b.Controls[0]), blockName(b.Succs[0]), blockName(b.Succs[1]))
	case ssa.BlockReturn:
		if len(b.Controls) == 0 {
			g.e.emitInst("ret void")
			return
		}
		ret := b.Controls[0]
		g.e.emitInst("ret %s %s", llvmType(ret.Type), g.operand(ret))
	case ssa.BlockExit:
		g.e.emitInst("unreachable")
	case ssa.BlockDetach:
		ts, hasTS := "0", "false"
		if b.HasTimestamp() {
			ts, hasTS = g.operand(b.Controls[0]), "true"
		}
		g.e.emitInst("call void @%s(i64 %s, i1 %s, %s %d)", rtabi.FnTaskDetach, ts, hasTS, rtabi.LLVMTypeDomain, b.AuxInt)
		br(b.Succs[0])
	case ssa.BlockReattach:
		g.e.emitInst("call void @%s()", rtabi.FnTaskReattach)
		br(b.Succs[0])
	default:
		g.errorf("%s: unhandled block kind %s", b.Func.Name, b.Kind)
	}
}

// edgeEmitted reports whether the CFG edge p → b exists in the emitted
// IR. The edge from a detach to its continuation does not: the only way
// to reach the continuation at run time is through the reattach.
func edgeEmitted(p, b *ssa.Block) bool {
	return p.Kind != ssa.BlockDetach || p.Succs[1] != b || p.Succs[0] == b
}

// operand returns v as an LLVM operand. Scalar constants are inlined;
// parameters, globals and functions are named directly.
func (g *generator) operand(v *ssa.Value) string {
	switch v.Op {
	case ssa.OpConst64:
		return strconv.FormatInt(v.AuxInt, 10)
	case ssa.OpConstFloat:
		return formatFloat(v.AuxFloat)
	case ssa.OpConstBool:
		return strconv.FormatBool(v.AuxInt != 0)
	case ssa.OpArg:
		name, _ := v.Aux.(string)
		return paramName(int(v.AuxInt), name)
	case ssa.OpGlobal:
		return globalName(v.Aux.(*ssa.Global).Name)
	case ssa.OpFuncAddr:
		return globalName(v.Aux.(*types.FuncObj).Name())
	}
	return valueName(v)
}

// lowerPhi emits a phi with one incoming value per emitted edge.
func (g *generator) lowerPhi(v *ssa.Value) {
	var in []string
	for i, arg := range v.Args {
		if pred := v.Block.Preds[i]; edgeEmitted(pred, v.Block) {
			in = append(in, fmt.Sprintf("[ %s, %%%s ]", g.operand(arg), blockName(pred)))
		}
	}
	if len(in) == 0 {
		// only reachable through a detach whose task never reattaches
		g.e.emitInst("%s = freeze %s poison", valueName(v), llvmType(v.Type))
		return
	}
	g.e.emitInst("%s = phi %s %s", valueName(v), llvmType(v.Type), strings.Join(in, ", "))
}

func (g *generator) lowerConstString(v *ssa.Value) {
	s := v.Aux.(string)
	if s == "" {
		g.e.emitInst("%s = insertvalue %s zeroinitializer, i64 0, 1", valueName(v), stringType)
		return
	}
	g.stringValue(valueName(v), s)
}

// stringValue builds the {ptr, i64} value of s into dst, or into a new
// temporary if dst is empty, and returns its name.
func (g *generator) stringValue(dst, s string) string {
	t := g.e.nextTmp()
	if dst == "" {
		dst = g.e.nextTmp()
	}
	g.e.emitInst("%s = insertvalue %s undef, ptr @.str.%d, 0", t, stringType, g.stringIndex(s))
	g.e.emitInst("%s = insertvalue %s %s, i64 %d, 1", dst, stringType, t, len(s))
	return dst
}

// lowerPrintln prints each argument, separated by spaces, then a newline.
func (g *generator) lowerPrintln(v *ssa.Value) {
	for i, arg := range v.Args {
		if i > 0 {
			sp := g.stringValue("", " ")
			g.e.emitInst("call void @%s(%s %s)", rtabi.FnPrintString, stringType, sp)
		}
		g.printArg(arg)
	}
	g.e.emitInst("call void @%s()", rtabi.FnPrintln)
}

func (g *generator) printArg(arg *ssa.Value) {
	t, x := arg.Type, g.operand(arg)
	switch {
	case types.IsBooleanType(t):
		// rt_print_bool takes an i8.
		tmp := g.e.nextTmp()
		g.e.emitInst("%s = zext i1 %s to i8", tmp, x)
		g.e.emitInst("call void @%s(i8 %s)", rtabi.FnPrintBool, tmp)
	case types.IsFloatType(t):
		g.e.emitInst("call void @%s(double %s)", rtabi.FnPrintF64, x)
	case types.IsStringType(t):
		g.e.emitInst("call void @%s(%s %s)", rtabi.FnPrintString, stringType, x)
	case types.IsIntegerType(t), types.IsEnumType(t):
		g.e.emitInst("call void @%s(i64 %s)", rtabi.FnPrintI64, x)
	default:
		g.errorf("cannot print a value of type %s", t)
	}
}

// formatFloat formats f as an LLVM hex float literal, exact for every
// value including the non-finite ones.
func formatFloat(f float64) string {
	return fmt.Sprintf("0x%016X", math.Float64bits(f))
}

// stringIndex returns the index of s in the string table, adding it if
// needed.
func (g *generator) stringIndex(s string) int {
	if idx, ok := g.stringMap[s]; ok {
		return idx
	}
	g.stringMap[s] = len(g.strings)
	g.strings = append(g.strings, s)
	return len(g.strings) - 1
}
