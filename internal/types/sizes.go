package types

import "github.com/you-not-fish/swarm/internal/rtabi"

// Sizes reports the in-memory size and alignment of types, using the
// runtime ABI constants.
type Sizes struct{}

// DefaultSizes is the default Sizes implementation.
var DefaultSizes = &Sizes{}

// layout is a size and an alignment, in bytes.
type layout struct{ size, align int64 }

var basicLayout = map[BasicKind]layout{
	Bool:   {rtabi.SizeBool, rtabi.AlignBool},
	Int:    {rtabi.SizeInt, rtabi.AlignInt},
	Float:  {rtabi.SizeFloat, rtabi.AlignFloat},
	String: {rtabi.SizeString, rtabi.AlignString},
}

// layoutOf returns the layout of T. Type parameters, untyped and
// invalid types have size 0 and alignment 1.
func layoutOf(T Type) layout {
	switch t := T.Underlying().(type) {
	case *Basic:
		if l, ok := basicLayout[t.Kind()]; ok {
			return l
		}
	case *Enum:
		return layout{rtabi.SizeEnum, rtabi.AlignEnum}
	case *Func:
		return layout{rtabi.SizePtr, rtabi.AlignPtr}
	}
	return layout{0, 1}
}

// Sizeof returns the size of T in bytes.
func (s *Sizes) Sizeof(T Type) int64 { return layoutOf(T).size }

// Alignof returns the alignment of T in bytes.
func (s *Sizes) Alignof(T Type) int64 { return layoutOf(T).align }
