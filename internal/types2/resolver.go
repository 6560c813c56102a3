package types2

import (
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// typeDeclState tracks the resolution of a type declaration.
type typeDeclState uint8

const (
	unresolved typeDeclState = iota
	resolving
	resolved
)

type typeDeclInfo struct {
	decl  *syntax.TypeDecl
	state typeDeclState
}

// collectDecls collects all top-level declarations and creates
// placeholder objects for them in the package scope.
func (c *Checker) collectDecls(decls []syntax.Decl) {
	c.typeDecls = make(map[*types.Named]*typeDeclInfo)
	for _, d := range decls {
		switch decl := d.(type) {
		case *syntax.TypeDecl:
			c.collectTypeDecl(decl)
		case *syntax.VarDecl:
			c.declare(decl.Name, types.NewVar(decl.Name.Pos(), decl.Name.Value, nil))
		case *syntax.FuncDecl:
			obj := types.NewFuncObj(decl.Name.Pos(), decl.Name.Value)
			c.funcDecls[decl] = obj
			c.declare(decl.Name, obj)
		default:
			c.invalidAST(d.Pos(), "unexpected declaration %T", d)
		}
	}
}

// collectTypeDecl declares the type name. Enum types are complete at this
// point: their members are declared as package constants right away.
func (c *Checker) collectTypeDecl(decl *syntax.TypeDecl) {
	tn := types.NewTypeName(decl.Name.Pos(), decl.Name.Value, nil)
	named := types.NewNamed(tn, nil)
	if !c.declare(decl.Name, tn) {
		return
	}

	enum, ok := decl.Type.(*syntax.EnumType)
	if !ok {
		c.typeDecls[named] = &typeDeclInfo{decl: decl}
		return
	}

	e := types.NewEnum()
	for _, m := range enum.Members {
		member := types.NewConst(m.Pos(), m.Value, named, 0)
		if c.declare(m, member) {
			e.AddMember(member)
		}
	}
	named.SetUnderlying(e)
}

// resolve resolves a name to an object.
// It reports an error if the name is undefined.
func (c *Checker) resolve(name *syntax.Name) types.Object {
	if name.Value == "_" {
		c.typeErrorf(name.Pos(), "cannot use _ as value")
		return nil
	}
	obj := c.lookup(name.Value)
	if obj == nil {
		c.typeErrorf(name.Pos(), "undefined: %s", name.Value)
		return nil
	}
	c.recordUse(name, obj)
	return obj
}

// resolveType resolves a type expression and returns the resulting type,
// or nil if it is invalid.
func (c *Checker) resolveType(e syntax.Expr) types.Type {
	var x operand
	c.typExpr(&x, e)
	if x.mode == invalid {
		return nil
	}
	return x.typ
}
