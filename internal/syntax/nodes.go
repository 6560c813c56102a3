// Package syntax implements lexical and syntactic analysis for swarm source
// files: a scanner with automatic semicolon insertion, a recursive-descent
// parser and the AST it produces.
package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 3 main classes of nodes: Expressions, Statements, and Declarations.
// All nodes implement the Node interface.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	End() Pos // position of the last token belonging to the node
	aNode()
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// SimpleStmt is a statement that may appear as a spawn init clause:
// an expression statement, an assignment or an empty statement.
type SimpleStmt interface {
	Stmt
	aSimpleStmt()
}

// Decl is the interface for all declaration nodes.
type Decl interface {
	Node
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) End() Pos { return n.pos }
func (n *node) aNode()   {}

// SetPos sets the start position of a node. It is meant for code that
// synthesizes trees outside the parser.
func (n *node) SetPos(pos Pos) { n.pos = pos }

type expr struct{ node }

func (*expr) aExpr() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

type simpleStmt struct{ stmt }

func (*simpleStmt) aSimpleStmt() {}

type decl struct{ node }

func (*decl) aDecl() {}

// ----------------------------------------------------------------------------
// Files and Declarations

// File represents a complete source file.
type File struct {
	node
	PkgName *Name
	Decls   []Decl
}

// TypeDecl represents: type Name Type
type TypeDecl struct {
	decl
	Name *Name
	Type Expr // *Name or *EnumType
}

func (d *TypeDecl) End() Pos {
	if d.Type != nil {
		return d.Type.End()
	}
	return d.Name.End()
}

// VarDecl represents: var Name [Type] [= Value]
//
// A VarDecl is also used for the condition variable of a spawn header,
// in which case Value is always set.
type VarDecl struct {
	decl
	Name  *Name
	Type  Expr // nil if inferred
	Value Expr // nil if zero-initialized
}

func (d *VarDecl) End() Pos {
	switch {
	case d.Value != nil:
		return d.Value.End()
	case d.Type != nil:
		return d.Type.End()
	}
	return d.Name.End()
}

// FuncDecl represents: func Name[TParams](Params) Result { Body }
type FuncDecl struct {
	decl
	Name    *Name
	TParams []*Field // type parameters; Type holds the constraint
	Params  []*Field
	Result  Expr // nil for no result
	Body    *BlockStmt
}

func (d *FuncDecl) End() Pos {
	if d.Body != nil {
		return d.Body.End()
	}
	return d.Name.End()
}

// IsGeneric reports whether the function declares type parameters.
func (d *FuncDecl) IsGeneric() bool { return len(d.TParams) > 0 }

// Field is a named parameter or type parameter.
type Field struct {
	node
	Name *Name
	Type Expr
}

// ----------------------------------------------------------------------------
// Expressions

// Name represents an identifier.
type Name struct {
	expr
	Value string
}

// BasicLit represents an int, float or string literal.
type BasicLit struct {
	expr
	Value string // literal text (decoded for strings)
	Kind  LitKind
}

// Operation represents a unary (Y == nil) or binary operation.
type Operation struct {
	expr
	Op Token
	X  Expr
	Y  Expr
}

func (x *Operation) End() Pos {
	if x.Y != nil {
		return x.Y.End()
	}
	return x.X.End()
}

// CallExpr represents Fun(Args...). It is also used for conversions T(x).
type CallExpr struct {
	expr
	Fun    Expr
	Args   []Expr
	Rparen Pos
}

func (x *CallExpr) End() Pos { return x.Rparen }

// ParenExpr represents (X).
type ParenExpr struct {
	expr
	X      Expr
	Rparen Pos
}

func (x *ParenExpr) End() Pos { return x.Rparen }

// EnumType represents enum { A, B, C }.
type EnumType struct {
	expr
	Members []*Name
	Rbrace  Pos
}

func (x *EnumType) End() Pos { return x.Rbrace }

// BadExpr is a placeholder for an expression that failed to parse.
type BadExpr struct {
	expr
}

// ----------------------------------------------------------------------------
// Statements

// EmptyStmt represents a lone semicolon.
type EmptyStmt struct {
	simpleStmt
}

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	simpleStmt
	X Expr
}

func (s *ExprStmt) End() Pos { return s.X.End() }

// AssignStmt represents LHS = RHS or LHS := RHS.
type AssignStmt struct {
	simpleStmt
	Op  Token // _Assign or _Define
	LHS Expr
	RHS Expr
}

func (s *AssignStmt) End() Pos { return s.RHS.End() }

// IsDefine reports whether s is a short variable declaration.
func (s *AssignStmt) IsDefine() bool { return s.Op == _Define }

// BlockStmt represents { Stmts... }.
type BlockStmt struct {
	stmt
	Stmts  []Stmt
	Rbrace Pos
}

func (s *BlockStmt) End() Pos { return s.Rbrace }

// IfStmt represents if Cond Then [else Else].
type IfStmt struct {
	stmt
	Cond Expr
	Then *BlockStmt
	Else Stmt // nil, *IfStmt or *BlockStmt
}

func (s *IfStmt) End() Pos {
	if s.Else != nil {
		return s.Else.End()
	}
	return s.Then.End()
}

// ForStmt represents for [Cond] { Body }. A nil Cond loops forever.
type ForStmt struct {
	stmt
	Cond Expr
	Body *BlockStmt
}

func (s *ForStmt) End() Pos { return s.Body.End() }

// ReturnStmt represents return [Result].
type ReturnStmt struct {
	stmt
	Result Expr
}

func (s *ReturnStmt) End() Pos {
	if s.Result != nil {
		return s.Result.End()
	}
	return s.pos
}

// BranchStmt represents break or continue.
type BranchStmt struct {
	stmt
	Tok Token // _Break or _Continue

	// Target is the statement the branch leaves or continues:
	// a *ForStmt or, for break, a *SpawnStmt. It is nil if the
	// branch has no enclosing target.
	Target Stmt
}

// DeclStmt wraps a var declaration inside a function body.
type DeclStmt struct {
	stmt
	Decl Decl
}

func (s *DeclStmt) End() Pos { return s.Decl.End() }

// BadStmt is a placeholder for a statement that failed to parse.
// The parser skips the offending tokens and continues after it.
type BadStmt struct {
	stmt
	To Pos // last skipped token
}

func (s *BadStmt) End() Pos { return s.To }
