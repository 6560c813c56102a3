package types

// TypeParam is a function type parameter. Expressions of a type parameter
// type are dependent: their concrete type is only known per instantiation.
type TypeParam struct {
	typ
	obj        *TypeName
	index      int
	constraint Type
}

// NewTypeParam creates the index'th type parameter of a function, bound to obj.
func NewTypeParam(obj *TypeName, index int, constraint Type) *TypeParam {
	tp := &TypeParam{obj: obj, index: index, constraint: constraint}
	if obj != nil {
		obj.typ = tp
	}
	return tp
}

func (t *TypeParam) Obj() *TypeName   { return t.obj }
func (t *TypeParam) Index() int       { return t.index }
func (t *TypeParam) Constraint() Type { return t.constraint }
func (t *TypeParam) Underlying() Type { return t }
func (t *TypeParam) String() string   { return t.obj.Name() }
