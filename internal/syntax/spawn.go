package syntax

import (
	"github.com/you-not-fish/swarm/internal/diag"
)

// DomainKind selects the ordering domain a spawned task is placed in.
type DomainKind uint8

const (
	SameDomain  DomainKind = iota // same domain as the spawner
	Subdomain                     // a child domain ordered by the timestamp
	Superdomain                   // the parent domain of the spawner
)

func (k DomainKind) String() string {
	switch k {
	case SameDomain:
		return "same"
	case Subdomain:
		return "sub"
	case Superdomain:
		return "super"
	}
	return "DomainKind(?)"
}

// Keyword returns the canonical keyword spelling for k.
func (k DomainKind) Keyword() Token {
	switch k {
	case Subdomain:
		return _SpawnSub
	case Superdomain:
		return _SpawnSuper
	}
	return _Spawn
}

// SpawnStmt is a task spawn:
//
//	spawn Body
//	spawn (Init; Cond) Body
//	spawn_sub (Init; Cond) Body
//	spawn_super (Init; Cond) Body
//
// Nodes are only built by NewSpawnStmt. Optional children are nil when absent.
type SpawnStmt struct {
	stmt
	keyword Token
	init    SimpleStmt
	condVar *VarDecl
	ts      Expr
	body    Stmt
	domain  DomainKind
	header  bool
	rparen  Pos
}

func (s *SpawnStmt) End() Pos {
	if s.body != nil {
		return s.body.End()
	}
	return s.pos
}

// Keyword returns the keyword the statement was written with.
func (s *SpawnStmt) Keyword() Token { return s.keyword }

// Init returns the init clause of the header, or nil.
func (s *SpawnStmt) Init() SimpleStmt { return s.init }

// CondVar returns the declared condition variable, or nil.
func (s *SpawnStmt) CondVar() *VarDecl { return s.condVar }

// Timestamp returns the timestamp expression, or nil. When a condition
// variable is declared the timestamp is a Name referring to it.
func (s *SpawnStmt) Timestamp() Expr { return s.ts }

// Body returns the spawned statement. It is never nil for a built node.
func (s *SpawnStmt) Body() Stmt { return s.body }

func (s *SpawnStmt) Domain() DomainKind { return s.domain }

// HasHeader reports whether the statement used the parenthesized form.
func (s *SpawnStmt) HasHeader() bool { return s.header }

// Rparen returns the position of the header's closing parenthesis.
func (s *SpawnStmt) Rparen() Pos { return s.rparen }

// Children returns the present children in source order:
// init, condition variable, timestamp, body.
func (s *SpawnStmt) Children() []Node {
	var list []Node
	if s.init != nil {
		list = append(list, s.init)
	}
	if s.condVar != nil {
		list = append(list, s.condVar)
	}
	if s.ts != nil {
		list = append(list, s.ts)
	}
	if s.body != nil {
		list = append(list, s.body)
	}
	return list
}

// SpawnParts collects the raw pieces of a spawn statement.
type SpawnParts struct {
	Pos     Pos
	Keyword Token // zero selects the keyword matching the domain
	Header  bool  // parenthesized (init; cond) form

	Init    SimpleStmt
	CondVar *VarDecl // takes precedence over Cond
	Cond    Expr
	Body    Stmt

	Sub, Super bool
	Rparen     Pos
}

// NewSpawnStmt validates parts and builds a spawn statement.
//
// A request for both a sub- and a superdomain, a missing body, or a
// condition given both as variable and expression is a contract violation
// and yields a *diag.InternalError. A domain spawn without a header yields
// a diag.Diagnostic with code DomainSpawnWithoutTimestamp.
func NewSpawnStmt(p SpawnParts) (*SpawnStmt, error) {
	if p.Sub && p.Super {
		return nil, diag.Internalf(p.Pos, "spawn cannot be both subdomain and superdomain")
	}
	domain := SameDomain
	switch {
	case p.Sub:
		domain = Subdomain
	case p.Super:
		domain = Superdomain
	}
	kw := p.Keyword
	if kw == 0 {
		kw = domain.Keyword()
	}
	if !kw.IsSpawn() {
		return nil, diag.Internalf(p.Pos, "invalid spawn keyword %s", kw)
	}
	if domain != SameDomain && !p.Header {
		return nil, diag.Errorf(p.Pos, diag.DomainSpawnWithoutTimestamp,
			"domain spawn without timestamp: %s requires a (init; timestamp) header", kw)
	}
	if !p.Header && (p.Init != nil || p.CondVar != nil || p.Cond != nil) {
		return nil, diag.Internalf(p.Pos, "spawn without header has header clauses")
	}
	if p.CondVar != nil && p.Cond != nil {
		return nil, diag.Internalf(p.Pos, "spawn has both condition variable and condition")
	}
	if p.Body == nil {
		return nil, diag.Internalf(p.Pos, "spawn without body")
	}

	s := &SpawnStmt{
		keyword: kw,
		init:    p.Init,
		condVar: p.CondVar,
		ts:      p.Cond,
		body:    p.Body,
		domain:  domain,
		header:  p.Header,
		rparen:  p.Rparen,
	}
	s.pos = p.Pos
	if v := p.CondVar; v != nil {
		ref := &Name{Value: v.Name.Value}
		ref.pos = v.Name.pos
		s.ts = ref
	}
	return s, nil
}
