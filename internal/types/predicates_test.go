package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentical(t *testing.T) {
	color := newEnum("Color", "Red")
	phase := newEnum("Phase", "Init")
	tp := NewTypeParam(NewTypeName(NoPos, "T", nil), 0, Typ[Any])

	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same_basic", Typ[Int], Typ[Int], true},
		{"diff_basic", Typ[Int], Typ[Float], false},
		{"same_enum", color, color, true},
		{"diff_enum", color, phase, false},
		{"enum_vs_int", color, Typ[Int], false},
		{"same_tparam", tp, tp, true},
		{"tparam_vs_int", tp, Typ[Int], false},
		{"same_sig", NewFunc(nil, []*Var{NewVar(NoPos, "a", Typ[Int])}, nil), NewFunc(nil, []*Var{NewVar(NoPos, "b", Typ[Int])}, nil), true},
		{"diff_result", NewFunc(nil, nil, Typ[Int]), NewFunc(nil, nil, nil), false},
		{"nil", nil, Typ[Int], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Identical(tt.a, tt.b))
		})
	}
}

func TestAssignableTo(t *testing.T) {
	id := NewNamed(NewTypeName(NoPos, "Id", nil), Typ[Int])
	tests := []struct {
		name string
		v, t Type
		want bool
	}{
		{"identical", Typ[Int], Typ[Int], true},
		{"untyped_int_to_float", Typ[UntypedInt], Typ[Float], true},
		{"untyped_float_to_int", Typ[UntypedFloat], Typ[Int], false},
		{"untyped_int_to_named", Typ[UntypedInt], id, true},
		{"int_to_named", Typ[Int], id, false},
		{"untyped_bool", Typ[UntypedBool], Typ[Bool], true},
		{"untyped_string_to_int", Typ[UntypedString], Typ[Int], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssignableTo(tt.v, tt.t))
		})
	}
}

func TestConvertibleTo(t *testing.T) {
	color := newEnum("Color", "Red")
	id := NewNamed(NewTypeName(NoPos, "Id", nil), Typ[Int])
	tp := NewTypeParam(NewTypeName(NoPos, "T", nil), 0, Typ[Any])

	assert.True(t, ConvertibleTo(Typ[Int], Typ[Float]))
	assert.True(t, ConvertibleTo(color, Typ[Int]))
	assert.True(t, ConvertibleTo(Typ[Int], color))
	assert.True(t, ConvertibleTo(id, Typ[Int]))
	assert.False(t, ConvertibleTo(Typ[String], Typ[Int]))
	assert.False(t, ConvertibleTo(Typ[Bool], Typ[Int]))
	assert.False(t, ConvertibleTo(tp, Typ[Int]))
}

func TestIsIntegralOrEnum(t *testing.T) {
	color := newEnum("Color", "Red")
	id := NewNamed(NewTypeName(NoPos, "Id", nil), Typ[Int])

	for _, T := range []Type{Typ[Int], Typ[UntypedInt], Typ[Bool], Typ[UntypedBool], color, id} {
		assert.True(t, IsIntegralOrEnum(T), "%s", T)
	}
	for _, T := range []Type{Typ[Float], Typ[UntypedFloat], Typ[String], NewFunc(nil, nil, nil)} {
		assert.False(t, IsIntegralOrEnum(T), "%s", T)
	}
}

func TestIsDependent(t *testing.T) {
	tp := NewTypeParam(NewTypeName(NoPos, "T", nil), 0, Typ[Any])
	assert.True(t, IsDependent(tp))
	assert.True(t, IsDependent(NewFunc([]*TypeParam{tp}, []*Var{NewVar(NoPos, "x", tp)}, nil)))
	assert.True(t, IsDependent(NewFunc(nil, nil, tp)))
	assert.False(t, IsDependent(Typ[Int]))
	assert.False(t, IsDependent(newEnum("Color")))
	assert.False(t, IsDependent(NewFunc(nil, []*Var{NewVar(NoPos, "x", Typ[Int])}, Typ[Bool])))
}

func TestDefaultType(t *testing.T) {
	assert.Same(t, Typ[Bool], DefaultType(Typ[UntypedBool]))
	assert.Same(t, Typ[Int], DefaultType(Typ[UntypedInt]))
	assert.Same(t, Typ[Float], DefaultType(Typ[UntypedFloat]))
	assert.Same(t, Typ[String], DefaultType(Typ[UntypedString]))
	assert.Same(t, Typ[Int], DefaultType(Typ[Int]))
}

func TestComparableOrdered(t *testing.T) {
	color := newEnum("Color", "Red")
	assert.True(t, Comparable(Typ[Bool]))
	assert.True(t, Comparable(color))
	assert.False(t, Comparable(Typ[Invalid]))
	assert.False(t, Comparable(NewFunc(nil, nil, nil)))

	assert.True(t, Ordered(Typ[String]))
	assert.True(t, Ordered(color))
	assert.False(t, Ordered(Typ[Bool]))
}

func TestBasicPredicates(t *testing.T) {
	assert.True(t, IsUntypedType(Typ[UntypedFloat]))
	assert.False(t, IsUntypedType(Typ[Float]))
	assert.True(t, IsBooleanType(Typ[UntypedBool]))
	assert.True(t, IsNumericType(Typ[UntypedInt]))
	assert.False(t, IsNumericType(Typ[String]))
	assert.True(t, IsStringType(Typ[String]))
	assert.True(t, IsInvalid(nil))
	assert.True(t, IsInvalid(Typ[Invalid]))
	assert.False(t, IsInvalid(Typ[Int]))
}
