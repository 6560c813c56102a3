package types

import "github.com/you-not-fish/swarm/internal/src"

// NoPos is the zero position value, used for predeclared objects.
var NoPos src.Pos

// Universe is the root scope. It holds the predeclared types, the
// constants true and false, and the builtins println and panic.
var Universe = newUniverse()

func newUniverse() *Scope {
	s := NewScope(nil, NoPos, NoPos, "universe")
	for _, k := range []BasicKind{Bool, Int, Float, String, Any} {
		s.Insert(NewTypeName(NoPos, Typ[k].name, Typ[k]))
	}
	for name, val := range map[string]int64{"false": 0, "true": 1} {
		s.Insert(NewConst(NoPos, name, Typ[UntypedBool], val))
	}
	s.Insert(NewBuiltin("println", BuiltinPrintln))
	s.Insert(NewBuiltin("panic", BuiltinPanic))
	return s
}

// UniverseTrue and UniverseFalse return the predeclared boolean constants.
func UniverseTrue() *Const  { return Universe.Lookup("true").(*Const) }
func UniverseFalse() *Const { return Universe.Lookup("false").(*Const) }

// UniversePanic returns the panic builtin.
func UniversePanic() *Builtin { return Universe.Lookup("panic").(*Builtin) }
