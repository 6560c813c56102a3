package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicTypes(t *testing.T) {
	tests := []struct {
		kind BasicKind
		name string
		info BasicInfo
	}{
		{Bool, "bool", IsBoolean},
		{Int, "int", IsInteger},
		{Float, "float", IsFloat},
		{String, "string", IsString},
		{UntypedBool, "untyped bool", IsBoolean | IsUntyped},
		{UntypedInt, "untyped int", IsInteger | IsUntyped},
		{UntypedFloat, "untyped float", IsFloat | IsUntyped},
		{UntypedString, "untyped string", IsString | IsUntyped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := Typ[tt.kind]
			require.NotNil(t, typ)
			assert.Equal(t, tt.kind, typ.Kind())
			assert.Equal(t, tt.info, typ.Info())
			assert.Equal(t, tt.name, typ.String())
			assert.Same(t, typ, typ.Underlying())
		})
	}
}

// newEnum declares type name enum { members... }.
func newEnum(name string, members ...string) *Named {
	tn := NewTypeName(NoPos, name, nil)
	n := NewNamed(tn, nil)
	e := NewEnum()
	for _, m := range members {
		e.AddMember(NewConst(NoPos, m, n, 0))
	}
	n.SetUnderlying(e)
	return n
}

func TestEnumType(t *testing.T) {
	color := newEnum("Color", "Red", "Green", "Blue")
	e, ok := color.Underlying().(*Enum)
	require.True(t, ok)

	require.Equal(t, 3, e.NumMembers())
	assert.Equal(t, int64(0), e.Member(0).Val())
	assert.Equal(t, int64(2), e.Lookup("Blue").Val())
	assert.Nil(t, e.Lookup("Mauve"))
	assert.Same(t, color, e.Member(1).Type())
	assert.Equal(t, "Color", color.String())
	assert.Equal(t, "enum{Red, Green, Blue}", e.String())
}

func TestNamedTypeUnresolved(t *testing.T) {
	n := NewNamed(NewTypeName(NoPos, "T", nil), nil)
	assert.Same(t, Typ[Invalid], n.Underlying())
	assert.Same(t, n, n.Obj().Type())
}

func TestFuncType(t *testing.T) {
	tn := NewTypeName(NoPos, "T", nil)
	tp := NewTypeParam(tn, 0, Typ[Any])
	sig := NewFunc([]*TypeParam{tp}, []*Var{NewVar(NoPos, "x", tp), NewVar(NoPos, "n", Typ[Int])}, tp)

	assert.True(t, sig.IsGeneric())
	assert.Equal(t, 2, sig.NumParams())
	assert.Same(t, tp, sig.Result())
	assert.Equal(t, "func[T any](T, int) T", sig.String())

	void := NewFunc(nil, nil, nil)
	assert.False(t, void.IsGeneric())
	assert.Equal(t, "func()", void.String())
}

func TestTypeParam(t *testing.T) {
	tn := NewTypeName(NoPos, "K", nil)
	tp := NewTypeParam(tn, 1, Typ[Any])
	assert.Same(t, tp, tn.Type())
	assert.Equal(t, 1, tp.Index())
	assert.Equal(t, "K", tp.String())
	assert.Same(t, tp, tp.Underlying())
}
