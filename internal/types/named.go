package types

// Named is a declared type. Enum types are always named; their
// underlying type is an *Enum.
type Named struct {
	typ
	obj        *TypeName
	underlying Type // nil while the declaration is being resolved
}

// NewNamed creates a named type and makes it the type of obj.
func NewNamed(obj *TypeName, underlying Type) *Named {
	n := &Named{obj: obj, underlying: underlying}
	if obj != nil {
		obj.typ = n
	}
	return n
}

func (n *Named) Obj() *TypeName           { return n.obj }
func (n *Named) SetUnderlying(under Type) { n.underlying = under }

// Underlying returns the invalid type while the declaration is unresolved.
func (n *Named) Underlying() Type {
	if n.underlying != nil {
		return n.underlying
	}
	return Typ[Invalid]
}

func (n *Named) String() string {
	if n.obj == nil {
		return "unnamed"
	}
	return n.obj.Name()
}
