package types2

import (
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// typExpr evaluates a type expression and sets x to the resulting type.
func (c *Checker) typExpr(x *operand, e syntax.Expr) {
	x.mode = typexpr
	x.pos = e.Pos()
	x.expr = e

	switch e := e.(type) {
	case *syntax.Name:
		c.typeName(x, e)
	case *syntax.ParenExpr:
		c.typExpr(x, e.X)
	case *syntax.EnumType:
		c.typeErrorf(e.Pos(), "enum type is only allowed in a type declaration")
		x.setInvalid()
	case *syntax.BadExpr:
		x.setInvalid()
	default:
		c.typeErrorf(e.Pos(), "%s is not a type", syntax.String(e))
		x.setInvalid()
	}

	if x.mode != invalid {
		c.recordType(e, x)
	}
}

// typeName resolves a type name.
func (c *Checker) typeName(x *operand, name *syntax.Name) {
	obj := c.resolve(name)
	if obj == nil {
		x.setInvalid()
		return
	}

	tn, ok := obj.(*types.TypeName)
	if !ok {
		c.typeErrorf(name.Pos(), "%s is not a type", name.Value)
		x.setInvalid()
		return
	}
	if named, ok := tn.Type().(*types.Named); ok {
		c.resolveNamed(named)
	}
	switch t := tn.Type(); {
	case t == nil || t == types.Typ[types.Invalid]:
		x.setInvalid()
	case t == types.Typ[types.Any]:
		c.typeErrorf(name.Pos(), "cannot use any outside a type parameter list")
		x.setInvalid()
	default:
		x.typ = t
	}
}
