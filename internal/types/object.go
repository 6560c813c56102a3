package types

import "github.com/you-not-fish/swarm/internal/src"

// An Object is a named entity a scope can hold: a variable, a constant,
// a type name, a function or a builtin.
type Object interface {
	Name() string
	Type() Type
	Pos() src.Pos
	Parent() *Scope // declaring scope, nil until inserted

	setParent(*Scope)
	aObject()
}

type object struct {
	name   string
	typ    Type
	pos    src.Pos
	parent *Scope
}

func newObject(pos src.Pos, name string, typ Type) object {
	return object{name: name, typ: typ, pos: pos}
}

func (o *object) Name() string       { return o.name }
func (o *object) Type() Type         { return o.typ }
func (o *object) Pos() src.Pos       { return o.pos }
func (o *object) Parent() *Scope     { return o.parent }
func (o *object) setParent(s *Scope) { o.parent = s }
func (*object) aObject()             {}

// Var is a variable or a parameter. Variables declared in a spawn
// header live in the header scope.
type Var struct {
	object
	used bool
}

func NewVar(pos src.Pos, name string, typ Type) *Var {
	return &Var{object: newObject(pos, name, typ)}
}

// SetType fills in the type of a variable declared without one.
func (v *Var) SetType(typ Type) { v.typ = typ }
func (v *Var) MarkUsed()        { v.used = true }
func (v *Var) Used() bool       { return v.used }

// Const is true, false or an enum member. Val is the ordinal; true is 1.
type Const struct {
	object
	val int64
}

func NewConst(pos src.Pos, name string, typ Type, val int64) *Const {
	return &Const{object: newObject(pos, name, typ), val: val}
}

func (c *Const) Val() int64 { return c.val }

// TypeName is the object a type declaration introduces.
type TypeName struct {
	object
}

func NewTypeName(pos src.Pos, name string, typ Type) *TypeName {
	return &TypeName{object: newObject(pos, name, typ)}
}

// FuncObj is a declared function. Its signature is set once the
// declaration header has been checked.
type FuncObj struct {
	object
	sig *Func
}

func NewFuncObj(pos src.Pos, name string) *FuncObj {
	return &FuncObj{object: newObject(pos, name, nil)}
}

func (f *FuncObj) Signature() *Func { return f.sig }

func (f *FuncObj) SetSignature(sig *Func) {
	f.sig = sig
	f.typ = sig
}

// BuiltinKind identifies a builtin function.
type BuiltinKind int

const (
	BuiltinPrintln BuiltinKind = iota
	BuiltinPanic
)

// Builtin is println or panic. It has no type of its own; calls are
// checked per builtin.
type Builtin struct {
	object
	kind BuiltinKind
}

func NewBuiltin(name string, kind BuiltinKind) *Builtin {
	return &Builtin{object: newObject(src.Pos{}, name, Typ[Invalid]), kind: kind}
}

func (b *Builtin) Kind() BuiltinKind { return b.kind }
