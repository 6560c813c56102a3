package types2

import (
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// checkTypeDecl resolves the underlying type of a non-enum type declaration.
func (c *Checker) checkTypeDecl(decl *syntax.TypeDecl) {
	tn, ok := c.info.Defs[decl.Name].(*types.TypeName)
	if !ok {
		return // redeclared; already reported
	}
	if named, ok := tn.Type().(*types.Named); ok {
		c.resolveNamed(named)
	}
}

// resolveNamed resolves named on first use, so declarations may refer to
// types declared later in the file.
func (c *Checker) resolveNamed(named *types.Named) {
	info := c.typeDecls[named]
	if info == nil || info.state == resolved {
		return
	}
	if info.state == resolving {
		c.typeErrorf(info.decl.Name.Pos(), "invalid recursive type %s", named)
		named.SetUnderlying(types.Typ[types.Invalid])
		info.state = resolved
		return
	}

	info.state = resolving
	// Type declarations are resolved in package scope, wherever the
	// first use is.
	saved := c.scope
	c.scope = c.pkg.Scope()
	under := c.resolveType(info.decl.Type)
	c.scope = saved

	if info.state == resolved {
		return // cycle reported while resolving
	}
	info.state = resolved
	if under == nil {
		named.SetUnderlying(types.Typ[types.Invalid])
		return
	}
	if types.IsDependent(under) || under == types.Typ[types.Any] {
		c.typeErrorf(info.decl.Type.Pos(), "cannot use %s as underlying type of %s", under, named)
		named.SetUnderlying(types.Typ[types.Invalid])
		return
	}
	named.SetUnderlying(under.Underlying())
}

// checkVarDecl type-checks a package-level variable declaration.
func (c *Checker) checkVarDecl(decl *syntax.VarDecl) {
	v, ok := c.info.Defs[decl.Name].(*types.Var)
	if !ok {
		return
	}
	if typ := c.varType(decl); typ != nil {
		v.SetType(typ)
	} else {
		v.SetType(types.Typ[types.Invalid])
	}
}

// varType determines the type of a variable declaration from its
// annotation and initializer. It returns nil after reporting an error.
func (c *Checker) varType(decl *syntax.VarDecl) types.Type {
	var typ types.Type
	if decl.Type != nil {
		typ = c.resolveType(decl.Type)
		if typ == nil {
			return nil
		}
	}

	if decl.Value != nil {
		var val operand
		c.expr(&val, decl.Value)
		switch {
		case val.mode == invalid:
			return nil
		case val.mode == novalue:
			c.typeErrorf(decl.Value.Pos(), "%s (no value) used as value", syntax.String(decl.Value))
			return nil
		case !val.isValue():
			c.typeErrorf(decl.Value.Pos(), "%s is not an expression", syntax.String(decl.Value))
			return nil
		}

		if typ == nil {
			typ = types.DefaultType(val.typ)
			c.convertUntyped(&val, typ)
		} else {
			c.assignment(&val, typ, "variable declaration")
		}
	}

	if typ == nil {
		c.typeErrorf(decl.Pos(), "missing type or initializer in variable declaration")
	}
	return typ
}

// checkFuncSignature type-checks a function signature. It opens the
// function scope that holds the type parameters, the parameters and the
// top-level statements of the body.
func (c *Checker) checkFuncSignature(decl *syntax.FuncDecl) {
	fn := c.funcDecls[decl]
	if fn == nil {
		return
	}

	scope := types.NewScope(c.scope, decl.Pos(), decl.End(), "func "+decl.Name.Value)
	c.info.Scopes[decl] = scope
	saved := c.scope
	c.scope = scope
	defer func() { c.scope = saved }()

	var tparams []*types.TypeParam
	for i, f := range decl.TParams {
		tn := types.NewTypeName(f.Name.Pos(), f.Name.Value, nil)
		tp := types.NewTypeParam(tn, i, types.Typ[types.Any])
		tparams = append(tparams, tp)
		c.constraint(f.Type)
		c.declare(f.Name, tn)
	}

	params := make([]*types.Var, len(decl.Params))
	for i, p := range decl.Params {
		ptype := c.resolveType(p.Type)
		if ptype == nil {
			ptype = types.Typ[types.Invalid]
		}
		params[i] = types.NewVar(p.Name.Pos(), p.Name.Value, ptype)
	}

	var result types.Type
	if decl.Result != nil {
		result = c.resolveType(decl.Result)
		if result == nil {
			result = types.Typ[types.Invalid]
		}
	}

	fn.SetSignature(types.NewFunc(tparams, params, result))

	if decl.Name.Value == "main" && c.pkg.Name() == "main" {
		if len(tparams) > 0 || len(params) > 0 || result != nil {
			c.typeErrorf(decl.Name.Pos(), "func main must have no type parameters, arguments and no return values")
		}
	}
}

// constraint checks a type parameter constraint, which must be any.
func (c *Checker) constraint(e syntax.Expr) types.Type {
	name, ok := e.(*syntax.Name)
	if ok {
		if tn, ok := c.lookup(name.Value).(*types.TypeName); ok && tn.Type() == types.Typ[types.Any] {
			c.recordUse(name, tn)
			return tn.Type()
		}
	}
	c.typeErrorf(e.Pos(), "type parameter constraint must be any, not %s", syntax.String(e))
	return nil
}

// checkFuncBody type-checks a function body.
func (c *Checker) checkFuncBody(decl *syntax.FuncDecl) {
	fn := c.funcDecls[decl]
	scope := c.info.Scopes[decl]
	if fn == nil || fn.Signature() == nil || scope == nil || decl.Body == nil {
		return
	}
	sig := fn.Signature()

	savedScope, savedCtx := c.scope, c.fctx
	c.scope = scope
	c.fctx = newFuncContext(decl, sig)
	defer func() {
		c.scope, c.fctx = savedScope, savedCtx
	}()

	for i, p := range sig.Params() {
		c.declare(decl.Params[i].Name, p)
	}

	c.stmts(decl.Body.Stmts)

	if sig.Result() != nil && !c.blockMustReturn(decl.Body.Stmts) {
		c.typeErrorf(decl.Body.Rbrace, "missing return")
	}

	c.fctx.finish()
}
