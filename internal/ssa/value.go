package ssa

import (
	"fmt"

	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// ID numbers the values and blocks of a Func.
type ID int32

// A Value is one SSA computation, defined once.
type Value struct {
	ID    ID
	Op    Op
	Block *Block
	Pos   syntax.Pos

	// Type is the result type, or the slot type for OpAlloca. It is nil
	// for void operations and for calls of functions without a result.
	Type types.Type

	Args     []*Value
	AuxInt   int64
	AuxFloat float64
	Aux      interface{}

	// Uses counts the references to v from Args and block Controls.
	Uses int32
}

func (v *Value) String() string { return fmt.Sprintf("v%d", v.ID) }

func (v *Value) IsPure() bool { return v.Op.IsPure() }

// AddArg appends arg to the arguments of v.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	arg.Uses++
}

// SetArgs replaces all arguments of v.
func (v *Value) SetArgs(args []*Value) {
	for _, a := range v.Args {
		a.Uses--
	}
	v.Args = make([]*Value, 0, len(args))
	for _, a := range args {
		v.AddArg(a)
	}
}

// ReplaceArg makes x the i'th argument of v.
func (v *Value) ReplaceArg(i int, x *Value) {
	v.Args[i].Uses--
	v.Args[i] = x
	x.Uses++
}
