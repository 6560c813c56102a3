package types

// Package represents a checked swarm package.
type Package struct {
	name  string
	scope *Scope
}

// NewPackage creates a new package with the given name.
func NewPackage(name string) *Package {
	return &Package{
		name:  name,
		scope: NewScope(Universe, NoPos, NoPos, "package "+name),
	}
}

func (p *Package) Name() string   { return p.name }
func (p *Package) Scope() *Scope  { return p.scope }
func (p *Package) String() string { return p.name }
