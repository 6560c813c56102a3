package types2

import (
	"go/constant"

	"github.com/you-not-fish/swarm/internal/src"
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// operandMode describes the mode of an operand.
type operandMode int

const (
	invalid   operandMode = iota // operand is invalid
	novalue                      // operand has no value (void function call)
	builtin                      // operand is a built-in function
	typexpr                      // operand is a type expression
	constant_                    // operand is a constant value
	variable                     // operand is an addressable variable
	value                        // operand is a computed value (not addressable)
)

var modeNames = [...]string{
	invalid:   "invalid operand",
	novalue:   "no value",
	builtin:   "built-in",
	typexpr:   "type",
	constant_: "constant",
	variable:  "variable",
	value:     "value",
}

func (m operandMode) String() string { return modeNames[m] }

// operand represents the result of evaluating an expression.
type operand struct {
	mode operandMode
	pos  src.Pos
	typ  types.Type
	val  constant.Value // only valid when mode == constant_
	expr syntax.Expr
}

func (x *operand) String() string {
	if x.mode == invalid {
		return "invalid operand"
	}
	s := x.mode.String()
	if x.expr != nil {
		s = syntax.String(x.expr) + " (" + s
		if x.typ != nil {
			s += " of type " + x.typ.String()
		}
		return s + ")"
	}
	if x.typ != nil {
		s += " of type " + x.typ.String()
	}
	return s
}

// isValue reports whether x can be used where a value is expected.
func (x *operand) isValue() bool {
	return x.mode == constant_ || x.mode == variable || x.mode == value
}

func (x *operand) setConst(typ types.Type, val constant.Value) {
	x.mode = constant_
	x.typ = typ
	x.val = val
}

func (x *operand) setValue(typ types.Type) {
	x.mode = value
	x.typ = typ
	x.val = nil
}

func (x *operand) setInvalid() {
	x.mode = invalid
	x.typ = nil
	x.val = nil
}
