package types2

import (
	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// Checker holds the state of one type-checking run.
type Checker struct {
	conf  *Config
	info  *Info
	pkg   *types.Package
	scope *types.Scope // innermost open scope

	fctx *funcContext // function body being checked; nil at package level

	// Declared objects by node, independent of the current scope.
	funcDecls map[*syntax.FuncDecl]*types.FuncObj
	typeDecls map[*types.Named]*typeDeclInfo

	errors int
	first  diag.Diagnostic
}

// checkFile checks one file. Top-level declarations are collected first,
// so that order in the file does not matter; then type declarations,
// signatures, package variables and function bodies are checked in that
// order, each phase over the whole file.
func (c *Checker) checkFile(file *syntax.File) {
	name := "main"
	if file.PkgName != nil {
		name = file.PkgName.Value
	}
	c.pkg = types.NewPackage(name)
	c.scope = c.pkg.Scope()
	c.info.Scopes[file] = c.scope

	c.collectDecls(file.Decls)
	phases := []func(syntax.Decl){
		func(d syntax.Decl) {
			if td, ok := d.(*syntax.TypeDecl); ok {
				c.checkTypeDecl(td)
			}
		},
		func(d syntax.Decl) {
			if fd, ok := d.(*syntax.FuncDecl); ok {
				c.checkFuncSignature(fd)
			}
		},
		func(d syntax.Decl) {
			if vd, ok := d.(*syntax.VarDecl); ok {
				c.checkVarDecl(vd)
			}
		},
		func(d syntax.Decl) {
			if fd, ok := d.(*syntax.FuncDecl); ok {
				c.checkFuncBody(fd)
			}
		},
	}
	for _, phase := range phases {
		for _, d := range file.Decls {
			phase(d)
		}
	}
}

// openScope opens a scope for n, nested in the current one.
func (c *Checker) openScope(n syntax.Node, comment string) *types.Scope {
	c.scope = types.NewScope(c.scope, n.Pos(), n.End(), comment)
	c.info.Scopes[n] = c.scope
	return c.scope
}

func (c *Checker) closeScope() { c.scope = c.scope.Parent() }

func (c *Checker) lookup(name string) types.Object {
	obj, _ := c.scope.LookupParent(name)
	return obj
}

// declare inserts obj into the current scope under name and records the
// definition. The blank name is recorded but never inserted.
func (c *Checker) declare(name *syntax.Name, obj types.Object) bool {
	if name.Value != "_" && c.scope.Insert(obj) != nil {
		c.typeErrorf(name.Pos(), "%s redeclared in this block", name.Value)
		return false
	}
	c.info.Defs[name] = obj
	return true
}

func (c *Checker) recordType(e syntax.Expr, x *operand) {
	c.info.Types[e] = TypeAndValue{Type: x.typ, Value: x.val, mode: x.mode}
}

func (c *Checker) recordUse(name *syntax.Name, obj types.Object) { c.info.Uses[name] = obj }
