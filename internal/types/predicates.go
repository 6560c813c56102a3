package types

// Identical reports whether x and y are identical types. Named types,
// enums and type parameters are identical only to themselves.
func Identical(x, y Type) bool {
	if x == y {
		return true
	}
	switch x := x.(type) {
	case *Basic:
		y, ok := y.(*Basic)
		return ok && x.kind == y.kind
	case *Func:
		y, ok := y.(*Func)
		return ok && identicalSigs(x, y)
	}
	return false
}

func identicalSigs(x, y *Func) bool {
	if len(x.tparams) != len(y.tparams) || len(x.params) != len(y.params) {
		return false
	}
	for i, p := range x.params {
		if !Identical(p.Type(), y.params[i].Type()) {
			return false
		}
	}
	if x.result == nil || y.result == nil {
		return x.result == nil && y.result == nil
	}
	return Identical(x.result, y.result)
}

// AssignableTo reports whether a value of type V is assignable to type T:
// the types are identical, or V is untyped and its constants fit T.
func AssignableTo(V, T Type) bool {
	return Identical(V, T) || isUntyped(V) && fitsUntyped(V.(*Basic), T)
}

// ConvertibleTo reports whether a value of type V can be converted to T
// with T(x): identical underlying types, or numeric and enum types in any
// combination.
func ConvertibleTo(V, T Type) bool {
	switch {
	case AssignableTo(V, T), Identical(V.Underlying(), T.Underlying()):
		return true
	case IsDependent(V), IsDependent(T):
		return false
	}
	return numericOrEnum(V) && numericOrEnum(T)
}

func numericOrEnum(T Type) bool { return hasInfo(T, IsNumeric) || IsEnumType(T) }

func fitsUntyped(v *Basic, T Type) bool {
	t, ok := T.Underlying().(*Basic)
	if !ok {
		return false
	}
	for _, k := range representable[v.kind] {
		if t.kind == k {
			return true
		}
	}
	return false
}

// hasInfo reports whether the underlying type of T is basic and has one
// of the properties in mask.
func hasInfo(T Type, mask BasicInfo) bool {
	b, ok := T.Underlying().(*Basic)
	return ok && b.info&mask != 0
}

func isUntyped(T Type) bool {
	b, ok := T.(*Basic)
	return ok && b.info&IsUntyped != 0
}

func IsUntypedType(T Type) bool { return isUntyped(T) }
func IsBooleanType(T Type) bool { return hasInfo(T, IsBoolean) }
func IsIntegerType(T Type) bool { return hasInfo(T, IsInteger) }
func IsFloatType(T Type) bool   { return hasInfo(T, IsFloat) }
func IsNumericType(T Type) bool { return hasInfo(T, IsNumeric) }
func IsStringType(T Type) bool  { return hasInfo(T, IsString) }

// IsEnumType reports whether T is an enum type.
func IsEnumType(T Type) bool {
	_, ok := T.Underlying().(*Enum)
	return ok
}

// IsInvalid reports whether T is missing or the invalid type.
func IsInvalid(T Type) bool {
	return T == nil || T == Typ[Invalid]
}

// IsIntegralOrEnum reports whether T is int, bool (typed or untyped) or
// an enum. These are the types a timestamp may have.
func IsIntegralOrEnum(T Type) bool {
	return hasInfo(T, IsInteger|IsBoolean) || IsEnumType(T)
}

// IsDependent reports whether T mentions a type parameter, so that its
// concrete type is only known per instantiation.
func IsDependent(T Type) bool {
	switch t := T.(type) {
	case *TypeParam:
		return true
	case *Func:
		for _, p := range t.params {
			if IsDependent(p.Type()) {
				return true
			}
		}
		return t.result != nil && IsDependent(t.result)
	}
	return false
}

// DefaultType returns the type an untyped constant of type T takes.
// Typed types are returned unchanged.
func DefaultType(T Type) Type {
	if b, ok := T.(*Basic); ok {
		if k, ok := defaults[b.kind]; ok {
			return Typ[k]
		}
	}
	return T
}

// Comparable reports whether values of type T can be compared with == or !=.
func Comparable(T Type) bool {
	switch t := T.Underlying().(type) {
	case *Basic:
		return t.kind != Invalid && t.kind != Any
	case *Enum, *TypeParam:
		return true
	}
	return false
}

// Ordered reports whether values of type T can be ordered with <, <=, >, >=.
func Ordered(T Type) bool {
	return IsEnumType(T) || hasInfo(T, IsNumeric|IsString)
}
