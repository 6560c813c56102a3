package types

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota // invalid type

	Bool
	Int
	Float
	String

	// Kinds of constant expressions.
	UntypedBool
	UntypedInt
	UntypedFloat
	UntypedString

	// Any is the only type parameter constraint. It is not a value type.
	Any
)

// BasicInfo is a set of properties of a basic type.
type BasicInfo int

const (
	IsBoolean BasicInfo = 1 << iota
	IsInteger
	IsFloat
	IsString
	IsUntyped
	IsNumeric = IsInteger | IsFloat
)

// Basic is one of the predeclared types.
type Basic struct {
	typ
	kind BasicKind
	info BasicInfo
	name string
}

func (b *Basic) Kind() BasicKind  { return b.kind }
func (b *Basic) Info() BasicInfo  { return b.info }
func (b *Basic) Name() string     { return b.name }
func (b *Basic) Underlying() Type { return b }
func (b *Basic) String() string   { return b.name }

func basic(kind BasicKind, info BasicInfo, name string) *Basic {
	return &Basic{kind: kind, info: info, name: name}
}

// Typ holds the predeclared basic types, indexed by BasicKind.
// Typ[Invalid] is given to expressions that failed to check.
var Typ = []*Basic{
	Invalid:       basic(Invalid, 0, "invalid type"),
	Bool:          basic(Bool, IsBoolean, "bool"),
	Int:           basic(Int, IsInteger, "int"),
	Float:         basic(Float, IsFloat, "float"),
	String:        basic(String, IsString, "string"),
	UntypedBool:   basic(UntypedBool, IsBoolean|IsUntyped, "untyped bool"),
	UntypedInt:    basic(UntypedInt, IsInteger|IsUntyped, "untyped int"),
	UntypedFloat:  basic(UntypedFloat, IsFloat|IsUntyped, "untyped float"),
	UntypedString: basic(UntypedString, IsString|IsUntyped, "untyped string"),
	Any:           basic(Any, 0, "any"),
}

// defaults maps each untyped kind to the type a constant of that kind
// takes when nothing else determines it.
var defaults = map[BasicKind]BasicKind{
	UntypedBool:   Bool,
	UntypedInt:    Int,
	UntypedFloat:  Float,
	UntypedString: String,
}

// representable lists the typed kinds an untyped constant of a kind
// converts to implicitly.
var representable = map[BasicKind][]BasicKind{
	UntypedBool:   {Bool},
	UntypedInt:    {Int, Float},
	UntypedFloat:  {Float},
	UntypedString: {String},
}
