// Package ssa implements the SSA intermediate representation of the swarm
// compiler and its construction from the checked syntax tree.
//
// Locals live in allocas until passes.Mem2Reg promotes them. A spawn ends
// its block with a BlockDetach whose task region runs up to the matching
// BlockReattach.
package ssa

// Op represents an SSA operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConst64     // integer or enum constant; AuxInt = value
	OpConstFloat  // float constant; AuxFloat = value
	OpConstBool   // bool constant; AuxInt = 0 or 1
	OpConstString // string constant; Aux = string value

	// Integer arithmetic
	OpAdd64
	OpSub64
	OpMul64
	OpDiv64
	OpMod64
	OpNeg64

	// Float arithmetic
	OpAddF64
	OpSubF64
	OpMulF64
	OpDivF64
	OpNegF64

	// Integer comparison
	OpEq64
	OpNeq64
	OpLt64
	OpLeq64
	OpGt64
	OpGeq64

	// Float comparison
	OpEqF64
	OpNeqF64
	OpLtF64
	OpLeqF64
	OpGtF64
	OpGeqF64

	// Strings
	OpCmpString    // three-way compare; result < 0, 0 or > 0
	OpConcatString // Args[0] + Args[1]

	// Boolean
	OpNot
	OpEqBool
	OpNeqBool

	// Memory
	OpAlloca  // stack slot; Type = slot type; Aux = name
	OpGlobal  // package variable slot; Type = variable type; Aux = *Global
	OpLoad    // Args[0] = alloca
	OpStore   // Args[0] = alloca, Args[1] = value
	OpVarKill // end of a slot's lifetime; Args[0] = alloca

	// Conversion
	OpIntToFloat
	OpFloatToInt
	OpBoolToInt // timestamp promotion: false → 0, true → 1

	// Calls
	OpStaticCall // Aux = *types.FuncObj; Args = arguments
	OpCall       // indirect call; Args[0] = callee, Args[1:] = arguments
	OpFuncAddr   // function value; Aux = *types.FuncObj

	// SSA-specific
	OpPhi  // Args = one per predecessor
	OpCopy // identity; also retypes between int and enum
	OpArg  // AuxInt = param index; Aux = param name

	// Builtins
	OpPrintln // Args = values to print
	OpPanic   // Args[0] = message

	opCount
)

// OpInfo holds metadata about an SSA operation.
type OpInfo struct {
	Name   string
	IsPure bool // no side effects
	IsVoid bool // produces no value
}

var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConst64:     {Name: "Const64", IsPure: true},
	OpConstFloat:  {Name: "ConstFloat", IsPure: true},
	OpConstBool:   {Name: "ConstBool", IsPure: true},
	OpConstString: {Name: "ConstString", IsPure: true},

	OpAdd64: {Name: "Add64", IsPure: true},
	OpSub64: {Name: "Sub64", IsPure: true},
	OpMul64: {Name: "Mul64", IsPure: true},
	OpDiv64: {Name: "Div64"}, // traps on zero
	OpMod64: {Name: "Mod64"},
	OpNeg64: {Name: "Neg64", IsPure: true},

	OpAddF64: {Name: "AddF64", IsPure: true},
	OpSubF64: {Name: "SubF64", IsPure: true},
	OpMulF64: {Name: "MulF64", IsPure: true},
	OpDivF64: {Name: "DivF64", IsPure: true},
	OpNegF64: {Name: "NegF64", IsPure: true},

	OpEq64:  {Name: "Eq64", IsPure: true},
	OpNeq64: {Name: "Neq64", IsPure: true},
	OpLt64:  {Name: "Lt64", IsPure: true},
	OpLeq64: {Name: "Leq64", IsPure: true},
	OpGt64:  {Name: "Gt64", IsPure: true},
	OpGeq64: {Name: "Geq64", IsPure: true},

	OpEqF64:  {Name: "EqF64", IsPure: true},
	OpNeqF64: {Name: "NeqF64", IsPure: true},
	OpLtF64:  {Name: "LtF64", IsPure: true},
	OpLeqF64: {Name: "LeqF64", IsPure: true},
	OpGtF64:  {Name: "GtF64", IsPure: true},
	OpGeqF64: {Name: "GeqF64", IsPure: true},

	OpCmpString:    {Name: "CmpString", IsPure: true},
	OpConcatString: {Name: "ConcatString"}, // allocates

	OpNot:     {Name: "Not", IsPure: true},
	OpEqBool:  {Name: "EqBool", IsPure: true},
	OpNeqBool: {Name: "NeqBool", IsPure: true},

	OpAlloca:  {Name: "Alloca"},
	OpGlobal:  {Name: "Global", IsPure: true},
	OpLoad:    {Name: "Load"},
	OpStore:   {Name: "Store", IsVoid: true},
	OpVarKill: {Name: "VarKill", IsVoid: true},

	OpIntToFloat: {Name: "IntToFloat", IsPure: true},
	OpFloatToInt: {Name: "FloatToInt", IsPure: true},
	OpBoolToInt:  {Name: "BoolToInt", IsPure: true},

	OpStaticCall: {Name: "StaticCall"},
	OpCall:       {Name: "Call"},
	OpFuncAddr:   {Name: "FuncAddr", IsPure: true},

	OpPhi:  {Name: "Phi", IsPure: true},
	OpCopy: {Name: "Copy", IsPure: true},
	OpArg:  {Name: "Arg", IsPure: true},

	OpPrintln: {Name: "Println", IsVoid: true},
	OpPanic:   {Name: "Panic", IsVoid: true},
}

func (o Op) String() string { return o.Info().Name }

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && o < opCount {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure reports whether the op has no side effects.
func (o Op) IsPure() bool { return o.Info().IsPure }

// IsVoid reports whether the op produces no value.
func (o Op) IsVoid() bool { return o.Info().IsVoid }

// IsConst reports whether the op is a constant.
func (o Op) IsConst() bool { return o >= OpConst64 && o <= OpConstString }
