package types

import "strings"

// Func represents a function signature.
type Func struct {
	typ
	tparams []*TypeParam
	params  []*Var
	result  Type // nil for no result
}

// NewFunc creates a new function type.
func NewFunc(tparams []*TypeParam, params []*Var, result Type) *Func {
	return &Func{tparams: tparams, params: params, result: result}
}

// TypeParams returns the type parameters, nil for a non-generic function.
func (f *Func) TypeParams() []*TypeParam { return f.tparams }

// IsGeneric reports whether f declares type parameters.
func (f *Func) IsGeneric() bool { return len(f.tparams) > 0 }

func (f *Func) Params() []*Var   { return f.params }
func (f *Func) NumParams() int   { return len(f.params) }
func (f *Func) Param(i int) *Var { return f.params[i] }
func (f *Func) Result() Type     { return f.result }
func (f *Func) Underlying() Type { return f }

func (f *Func) String() string {
	var b strings.Builder
	b.WriteString("func")
	if len(f.tparams) > 0 {
		b.WriteByte('[')
		for i, tp := range f.tparams {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(tp.String())
			b.WriteByte(' ')
			b.WriteString(tp.constraint.String())
		}
		b.WriteByte(']')
	}
	b.WriteByte('(')
	for i, p := range f.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type().String())
	}
	b.WriteByte(')')
	if f.result != nil {
		b.WriteByte(' ')
		b.WriteString(f.result.String())
	}
	return b.String()
}
