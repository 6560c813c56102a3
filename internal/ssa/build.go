package ssa

import (
	"go/constant"

	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
	"github.com/you-not-fish/swarm/internal/types2"
)

// InitFunc is the name of the synthesized function that evaluates the
// non-constant package variable initializers.
const InitFunc = "init"

// Program is the SSA form of a file.
type Program struct {
	Globals []*Global
	Funcs   []*Func

	// Init evaluates the package variable initializers that are not
	// constant; nil if there are none. It is also listed in Funcs.
	Init *Func
}

// Func returns the function named name, or nil.
func (p *Program) Func(name string) *Func {
	for _, f := range p.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Global is a package variable.
type Global struct {
	Name string
	Type types.Type
	Obj  *types.Var

	// Value is the constant initial value; nil means zero or computed by
	// the Program's Init function.
	Value constant.Value
}

func (g *Global) String() string { return g.Name }

// builder holds the state for lowering a single function from the checked
// syntax tree to SSA.
type builder struct {
	info    *types2.Info
	sizes   *types.Sizes
	globals map[*types.Var]*Global

	fn *Func
	b  *Block // current block; nil when unreachable

	vars map[types.Object]*Value

	// targets are the enclosing break/continue targets, innermost last.
	targets []target

	// header collects the slots declared by the spawn header being
	// lowered; nil outside headers.
	header *[]*Value
}

// target is a statement branches may jump out of.
type target struct {
	stmt syntax.Stmt
	brk  *Block
	cont *Block // nil for spawns
}

// BuildFile lowers every non-generic function of file to SSA.
// A broken invariant of the checked tree is returned as a
// *diag.InternalError.
func BuildFile(file *syntax.File, info *types2.Info, sizes *types.Sizes) (prog *Program, err error) {
	defer diag.Recover(&err)
	if sizes == nil {
		sizes = types.DefaultSizes
	}

	prog = &Program{}
	globals := make(map[*types.Var]*Global)
	var inits []*syntax.VarDecl
	for _, decl := range file.Decls {
		d, ok := decl.(*syntax.VarDecl)
		if !ok {
			continue
		}
		obj, ok := info.Defs[d.Name].(*types.Var)
		if !ok {
			if d.Name.Value == "_" {
				continue
			}
			diag.ICE(d.Pos(), "no object for package variable %s", d.Name.Value)
		}
		g := &Global{Name: d.Name.Value, Type: obj.Type(), Obj: obj}
		if d.Value != nil {
			if tv := info.Types[d.Value]; tv.IsConstant() {
				g.Value = tv.Value
			} else {
				inits = append(inits, d)
			}
		}
		globals[obj] = g
		prog.Globals = append(prog.Globals, g)
	}

	if len(inits) > 0 {
		prog.Init = buildInit(inits, info, sizes, globals)
		prog.Funcs = append(prog.Funcs, prog.Init)
	}

	for _, decl := range file.Decls {
		fd, ok := decl.(*syntax.FuncDecl)
		if !ok || fd.Body == nil || fd.IsGeneric() {
			continue
		}
		prog.Funcs = append(prog.Funcs, buildFunc(fd, info, sizes, globals))
	}
	return prog, nil
}

func newBuilder(fn *Func, info *types2.Info, sizes *types.Sizes, globals map[*types.Var]*Global) *builder {
	return &builder{
		info:    info,
		sizes:   sizes,
		globals: globals,
		fn:      fn,
		b:       fn.Entry,
		vars:    make(map[types.Object]*Value),
	}
}

// buildInit synthesizes the function storing the computed initial values
// of package variables, in declaration order.
func buildInit(inits []*syntax.VarDecl, info *types2.Info, sizes *types.Sizes, globals map[*types.Var]*Global) *Func {
	fn := NewFunc(InitFunc, types.NewFunc(nil, nil, nil))
	b := newBuilder(fn, info, sizes, globals)
	for _, d := range inits {
		g := globals[info.Defs[d.Name].(*types.Var)]
		val := b.expr(d.Value)
		b.fn.NewValuePos(b.b, OpStore, nil, d.Pos(), b.global(g), val)
	}
	b.b.Kind = BlockReturn
	return fn
}

// buildFunc builds an SSA function from a FuncDecl.
func buildFunc(fd *syntax.FuncDecl, info *types2.Info, sizes *types.Sizes, globals map[*types.Var]*Global) *Func {
	funcObj, ok := info.Defs[fd.Name].(*types.FuncObj)
	if !ok {
		diag.ICE(fd.Pos(), "no function object for %s", fd.Name.Value)
	}
	sig := funcObj.Signature()

	fn := NewFunc(fd.Name.Value, sig)
	fn.Pos = fd.Pos()
	b := newBuilder(fn, info, sizes, globals)

	// Parameters live in allocas like any other local.
	for i := 0; i < sig.NumParams(); i++ {
		param := sig.Param(i)
		arg := fn.NewValue(fn.Entry, OpArg, param.Type())
		arg.AuxInt = int64(i)
		arg.Aux = param.Name()

		slot := b.local(param)
		fn.NewValue(fn.Entry, OpStore, nil, slot, arg)
	}

	b.stmts(fd.Body.Stmts)

	// Falling off the end is a void return.
	if b.b != nil {
		b.b.Kind = BlockReturn
	}

	if info.Protected[fd] && !fn.Protected {
		diag.ICE(fd.Pos(), "function %s is protected but lowered no spawn", fd.Name.Value)
	}
	return fn
}

// entryAlloca creates an alloca in the entry block. All allocas are placed
// there for mem2reg.
func (b *builder) entryAlloca(typ types.Type, name string) *Value {
	entry := b.fn.Entry
	v := b.fn.newValue(entry, OpAlloca, typ, nil)
	v.Aux = name

	// Keep allocas ahead of the entry block's other values.
	i := 0
	for i < len(entry.Values) && entry.Values[i].Op == OpAlloca {
		i++
	}
	entry.Values = append(entry.Values, nil)
	copy(entry.Values[i+1:], entry.Values[i:])
	entry.Values[i] = v
	return v
}

// local creates the stack slot for v. Inside a spawn header the slot is
// also recorded for the task to kill.
func (b *builder) local(v *types.Var) *Value {
	slot := b.entryAlloca(v.Type(), v.Name())
	b.vars[v] = slot
	if b.info.Captured[v] {
		b.fn.Shared[slot] = true
	}
	if b.header != nil {
		*b.header = append(*b.header, slot)
	}
	return slot
}

// global returns a reference to the slot of a package variable.
func (b *builder) global(g *Global) *Value {
	v := b.fn.NewValue(b.b, OpGlobal, g.Type)
	v.Aux = g
	return v
}

// slot returns the storage of the variable obj: an alloca or a global.
func (b *builder) slot(pos syntax.Pos, obj types.Object) *Value {
	if slot, ok := b.vars[obj]; ok {
		return slot
	}
	if v, ok := obj.(*types.Var); ok {
		if g, ok := b.globals[v]; ok {
			return b.global(g)
		}
	}
	diag.ICE(pos, "no storage for %s", obj.Name())
	return nil
}

// stmts lowers a list of statements.
func (b *builder) stmts(list []syntax.Stmt) {
	for _, s := range list {
		if b.b == nil {
			// unreachable code after return, break, continue or panic
			break
		}
		b.stmt(s)
	}
}

// stmt dispatches a statement to the appropriate lowering method.
func (b *builder) stmt(s syntax.Stmt) {
	if b.b == nil {
		return
	}
	switch s := s.(type) {
	case *syntax.EmptyStmt:
		// no-op
	case *syntax.ExprStmt:
		b.expr(s.X)
	case *syntax.DeclStmt:
		if d, ok := s.Decl.(*syntax.VarDecl); ok {
			b.varDecl(d)
		}
	case *syntax.AssignStmt:
		b.assignStmt(s)
	case *syntax.ReturnStmt:
		b.returnStmt(s)
	case *syntax.IfStmt:
		b.ifStmt(s)
	case *syntax.ForStmt:
		b.forStmt(s)
	case *syntax.BranchStmt:
		b.branchStmt(s)
	case *syntax.BlockStmt:
		b.stmts(s.Stmts)
	case *syntax.SpawnStmt:
		b.spawnStmt(s)
	default:
		diag.ICE(s.Pos(), "cannot lower %T", s)
	}
}

// varDecl lowers var x [T] [= value]. Without a value the slot is zeroed.
func (b *builder) varDecl(d *syntax.VarDecl) {
	obj, ok := b.info.Defs[d.Name].(*types.Var)
	if !ok {
		if d.Name.Value == "_" && d.Value != nil {
			b.expr(d.Value)
			return
		}
		diag.ICE(d.Pos(), "no object for variable %s", d.Name.Value)
	}

	var val *Value
	if d.Value != nil {
		val = b.expr(d.Value)
	} else {
		val = b.fn.ConstZero(b.b, obj.Type())
	}
	slot := b.local(obj)
	b.fn.NewValuePos(b.b, OpStore, nil, d.Pos(), slot, val)
}

// assignStmt handles assignment (=) and short declaration (:=).
func (b *builder) assignStmt(s *syntax.AssignStmt) {
	if s.IsDefine() {
		name := s.LHS.(*syntax.Name)
		val := b.expr(s.RHS)
		obj, ok := b.info.Defs[name].(*types.Var)
		if !ok {
			if name.Value == "_" {
				return
			}
			diag.ICE(name.Pos(), "no object for %s", name.Value)
		}
		slot := b.local(obj)
		b.fn.NewValuePos(b.b, OpStore, nil, s.Pos(), slot, val)
		return
	}

	val := b.expr(s.RHS)
	b.fn.NewValuePos(b.b, OpStore, nil, s.Pos(), b.addr(s.LHS), val)
}

// addr returns the slot an assignment stores to.
func (b *builder) addr(e syntax.Expr) *Value {
	switch e := e.(type) {
	case *syntax.Name:
		obj := b.info.Uses[e]
		if obj == nil {
			diag.ICE(e.Pos(), "no object for %s", e.Value)
		}
		return b.slot(e.Pos(), obj)
	case *syntax.ParenExpr:
		return b.addr(e.X)
	}
	diag.ICE(e.Pos(), "cannot assign to %T", e)
	return nil
}

// returnStmt handles: return [expr].
func (b *builder) returnStmt(s *syntax.ReturnStmt) {
	if b.inTask() {
		diag.ICE(s.Pos(), "return inside a spawned task")
	}
	var val *Value
	if s.Result != nil {
		val = b.expr(s.Result)
	}
	// b.b may have changed during evaluation (short-circuit operators).
	b.b.Kind = BlockReturn
	b.b.Pos = s.Pos()
	if val != nil {
		b.b.SetControl(val)
	}
	b.b = nil
}

// ifStmt handles: if cond { then } [else { ... }]
func (b *builder) ifStmt(s *syntax.IfStmt) {
	cond := b.expr(s.Cond)

	bThen := b.fn.NewBlock(BlockPlain)
	bDone := b.fn.NewBlock(BlockPlain)
	bElse := bDone
	if s.Else != nil {
		bElse = b.fn.NewBlock(BlockPlain)
	}

	b.b.Kind = BlockIf
	b.b.SetControl(cond)
	b.b.AddSucc(bThen)
	b.b.AddSucc(bElse)

	b.b = bThen
	b.stmts(s.Then.Stmts)
	if b.b != nil {
		b.b.AddSucc(bDone)
	}

	if s.Else != nil {
		b.b = bElse
		b.stmt(s.Else)
		if b.b != nil {
			b.b.AddSucc(bDone)
		}
	}

	if len(bDone.Preds) > 0 {
		b.b = bDone
	} else {
		// both branches left; the join block is dead
		b.fn.RemoveBlock(bDone)
		b.b = nil
	}
}

// forStmt handles: for [cond] { body }
func (b *builder) forStmt(s *syntax.ForStmt) {
	bHeader := b.fn.NewBlock(BlockPlain)
	bBody := b.fn.NewBlock(BlockPlain)
	bExit := b.fn.NewBlock(BlockPlain)

	b.b.AddSucc(bHeader)

	b.b = bHeader
	if s.Cond != nil {
		cond := b.expr(s.Cond)
		b.b.Kind = BlockIf
		b.b.SetControl(cond)
		b.b.AddSucc(bBody)
		b.b.AddSucc(bExit)
	} else {
		b.b.AddSucc(bBody)
	}

	b.targets = append(b.targets, target{stmt: s, brk: bExit, cont: bHeader})
	b.b = bBody
	b.stmts(s.Body.Stmts)
	if b.b != nil {
		b.b.AddSucc(bHeader)
	}
	b.targets = b.targets[:len(b.targets)-1]

	if len(bExit.Preds) > 0 {
		b.b = bExit
	} else {
		// for {} without break never exits
		b.fn.RemoveBlock(bExit)
		b.b = nil
	}
}

// branchStmt handles break and continue. Their targets were resolved by
// the parser and validated by the checker.
func (b *builder) branchStmt(s *syntax.BranchStmt) {
	for i := len(b.targets) - 1; i >= 0; i-- {
		t := b.targets[i]
		if t.stmt != s.Target {
			if _, ok := t.stmt.(*syntax.SpawnStmt); ok {
				diag.ICE(s.Pos(), "%s leaves the spawned task at %s", s.Tok, t.stmt.Pos())
			}
			continue
		}
		dest := t.brk
		if s.Tok.IsContinue() {
			dest = t.cont
		}
		if dest == nil {
			diag.ICE(s.Pos(), "%s has no destination in %T", s.Tok, t.stmt)
		}
		b.b.AddSucc(dest)
		b.b = nil
		return
	}
	diag.ICE(s.Pos(), "%s target is not an enclosing statement", s.Tok)
}
