package types2

import (
	"go/constant"

	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
)

// Config specifies the configuration for type checking.
type Config struct {
	// Error is called for each diagnostic, cautions included.
	// If nil, diagnostics are only counted.
	Error diag.Handler

	// Sizes provides type size and alignment information.
	// If nil, DefaultSizes is used.
	Sizes *types.Sizes

	// IgnoreUnusedResult suppresses the caution for a spawned
	// expression whose value is discarded.
	IgnoreUnusedResult bool
}

// Info holds the results of type checking.
type Info struct {
	// Types maps expressions to their type and value information.
	// Untyped constants are recorded with the type they were converted to.
	Types map[syntax.Expr]TypeAndValue

	// Defs maps defining identifiers to their declared objects.
	Defs map[*syntax.Name]types.Object

	// Uses maps referencing identifiers to their referenced objects.
	Uses map[*syntax.Name]types.Object

	// Scopes maps nodes to the scopes they open: File, FuncDecl, BlockStmt,
	// IfStmt, ForStmt and SpawnStmt.
	Scopes map[syntax.Node]*types.Scope

	// Spawns holds one entry per accepted spawn statement.
	// Rejected spawns have no entry.
	Spawns map[*syntax.SpawnStmt]*Spawn

	// Protected records the functions whose bodies contain a spawn.
	// Control flow in such functions may not leave a task.
	Protected map[*syntax.FuncDecl]bool

	// Captured records local variables declared outside a spawn and
	// used inside its body. Their storage is shared with the task.
	Captured map[*types.Var]bool
}

// Spawn describes a validated spawn statement.
type Spawn struct {
	Domain syntax.DomainKind

	// CondVar is the condition variable declared in the header, or nil.
	CondVar *types.Var

	// Timestamp is the type of the timestamp before promotion; nil for a
	// spawn without header. Untyped constants have their default type.
	Timestamp types.Type

	// Promoted is the type the timestamp is passed to the runtime as.
	// It is int, or the timestamp type itself when that is dependent.
	Promoted types.Type

	// Scope is the scope holding the header declarations.
	Scope *types.Scope
}

// HasTimestamp reports whether the spawn carries an ordering timestamp.
func (s *Spawn) HasTimestamp() bool { return s.Timestamp != nil }

// TypeAndValue holds the type and value information for an expression.
type TypeAndValue struct {
	Type  types.Type
	Value constant.Value // nil if not constant
	mode  operandMode
}

// IsVoid reports whether the expression has no value (void function call).
func (tv TypeAndValue) IsVoid() bool { return tv.mode == novalue }

// IsBuiltin reports whether the expression is a built-in function.
func (tv TypeAndValue) IsBuiltin() bool { return tv.mode == builtin }

// IsType reports whether the expression is a type expression.
func (tv TypeAndValue) IsType() bool { return tv.mode == typexpr }

// IsConstant reports whether the expression is a constant.
func (tv TypeAndValue) IsConstant() bool { return tv.mode == constant_ }

// IsAddressable reports whether the expression is a variable.
func (tv TypeAndValue) IsAddressable() bool { return tv.mode == variable }

// IsValue reports whether the expression has a value.
func (tv TypeAndValue) IsValue() bool {
	return tv.mode == constant_ || tv.mode == variable || tv.mode == value
}

// NewInfo returns an Info with all maps allocated.
func NewInfo() *Info {
	return &Info{
		Types:     make(map[syntax.Expr]TypeAndValue),
		Defs:      make(map[*syntax.Name]types.Object),
		Uses:      make(map[*syntax.Name]types.Object),
		Scopes:    make(map[syntax.Node]*types.Scope),
		Spawns:    make(map[*syntax.SpawnStmt]*Spawn),
		Protected: make(map[*syntax.FuncDecl]bool),
		Captured:  make(map[*types.Var]bool),
	}
}

// Check type-checks a parsed file.
// It returns the package for the file and the first error encountered, if
// any. A broken compiler invariant is returned as a *diag.InternalError.
func Check(file *syntax.File, conf *Config, info *Info) (pkg *types.Package, err error) {
	if conf == nil {
		conf = &Config{}
	}
	if conf.Sizes == nil {
		conf.Sizes = types.DefaultSizes
	}
	if info == nil {
		info = NewInfo()
	}
	fill(info)

	c := &Checker{
		conf:      conf,
		info:      info,
		funcDecls: make(map[*syntax.FuncDecl]*types.FuncObj),
	}

	defer diag.Recover(&err)
	c.checkFile(file)

	if c.errors > 0 {
		return c.pkg, c.first
	}
	return c.pkg, nil
}

// fill allocates the maps a caller left nil.
func fill(info *Info) {
	if info.Types == nil {
		info.Types = make(map[syntax.Expr]TypeAndValue)
	}
	if info.Defs == nil {
		info.Defs = make(map[*syntax.Name]types.Object)
	}
	if info.Uses == nil {
		info.Uses = make(map[*syntax.Name]types.Object)
	}
	if info.Scopes == nil {
		info.Scopes = make(map[syntax.Node]*types.Scope)
	}
	if info.Spawns == nil {
		info.Spawns = make(map[*syntax.SpawnStmt]*Spawn)
	}
	if info.Protected == nil {
		info.Protected = make(map[*syntax.FuncDecl]bool)
	}
	if info.Captured == nil {
		info.Captured = make(map[*types.Var]bool)
	}
}
