// Package syntax implements scanning, parsing and printing of swarm source.
package syntax

import (
	"fmt"

	"github.com/you-not-fish/swarm/internal/src"
)

// Pos is a source position.
type Pos = src.Pos

// NewPos returns the position line:col in filename.
func NewPos(filename string, line, col uint32) Pos { return src.NewPos(filename, line, col) }

// Token is the kind of a lexical token.
type Token uint

const (
	_EOF Token = iota
	_Error

	_Name
	_Literal

	// operators, low to high precedence
	_Assign // =
	_Define // :=
	_OrOr   // ||
	_AndAnd // &&
	_Eql    // ==
	_Neq    // !=
	_Lss    // <
	_Leq    // <=
	_Gtr    // >
	_Geq    // >=
	_Add    // +
	_Sub    // -
	_Mul    // *
	_Div    // /
	_Rem    // %
	_Not    // !

	// delimiters
	_Lparen
	_Rparen
	_Lbrack
	_Rbrack
	_Lbrace
	_Rbrace
	_Comma
	_Semi

	// keywords
	_Break
	_Continue
	_Else
	_Enum
	_For
	_Func
	_If
	_Package
	_Return
	_Spawn
	_SpawnSub
	_SpawnSuper
	_Type
	_Var

	tokenCount
)

var tokenNames = [...]string{
	_EOF:     "EOF",
	_Error:   "ERROR",
	_Name:    "NAME",
	_Literal: "LITERAL",

	_Assign: "=",
	_Define: ":=",
	_OrOr:   "||",
	_AndAnd: "&&",
	_Eql:    "==",
	_Neq:    "!=",
	_Lss:    "<",
	_Leq:    "<=",
	_Gtr:    ">",
	_Geq:    ">=",
	_Add:    "+",
	_Sub:    "-",
	_Mul:    "*",
	_Div:    "/",
	_Rem:    "%",
	_Not:    "!",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",

	_Break:      "break",
	_Continue:   "continue",
	_Else:       "else",
	_Enum:       "enum",
	_For:        "for",
	_Func:       "func",
	_If:         "if",
	_Package:    "package",
	_Return:     "return",
	_Spawn:      "spawn",
	_SpawnSub:   "spawn_sub",
	_SpawnSuper: "spawn_super",
	_Type:       "type",
	_Var:        "var",
}

func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Precedence returns the binding strength of a binary operator, or 0.
//
//	1: ||
//	2: &&
//	3: == != < <= > >=
//	4: + -
//	5: * / %
func (t Token) Precedence() int {
	switch t {
	case _OrOr:
		return 1
	case _AndAnd:
		return 2
	case _Eql, _Neq, _Lss, _Leq, _Gtr, _Geq:
		return 3
	case _Add, _Sub:
		return 4
	case _Mul, _Div, _Rem:
		return 5
	}
	return 0
}

func (t Token) IsKeyword() bool    { return t >= _Break && t <= _Var }
func (t Token) IsOperator() bool   { return t >= _Assign && t <= _Not }
func (t Token) IsEOF() bool        { return t == _EOF }
func (t Token) IsDefine() bool     { return t == _Define }
func (t Token) IsBreak() bool      { return t == _Break }
func (t Token) IsContinue() bool   { return t == _Continue }
func (t Token) IsLogical() bool    { return t == _AndAnd || t == _OrOr }
func (t Token) IsComparison() bool { return t.Precedence() == 3 }

// IsEquality reports whether t is == or !=.
func (t Token) IsEquality() bool { return t == _Eql || t == _Neq }

// IsSpawn reports whether t is one of the spawn keywords.
func (t Token) IsSpawn() bool { return t == _Spawn || t == _SpawnSub || t == _SpawnSuper }

// Operator tokens used outside the package.
const (
	Add    Token = _Add
	Sub    Token = _Sub
	Mul    Token = _Mul
	Div    Token = _Div
	Rem    Token = _Rem
	Not    Token = _Not
	Eql    Token = _Eql
	Neq    Token = _Neq
	Lss    Token = _Lss
	Leq    Token = _Leq
	Gtr    Token = _Gtr
	Geq    Token = _Geq
	AndAnd Token = _AndAnd
	OrOr   Token = _OrOr
	Assign Token = _Assign
	Define Token = _Define
	Break  Token = _Break
	Cont   Token = _Continue

	Spawn      Token = _Spawn
	SpawnSub   Token = _SpawnSub
	SpawnSuper Token = _SpawnSuper
)

// LitKind is the kind of a literal token.
type LitKind uint8

const (
	IntLit LitKind = iota
	FloatLit
	StringLit
)

func (k LitKind) String() string {
	switch k {
	case IntLit:
		return "int"
	case FloatLit:
		return "float"
	case StringLit:
		return "string"
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// Predeclared names (int, bool, println, any, ...) are not keywords; they
// scan as _Name and resolve in the universe scope.
var keywords = map[string]Token{
	"break":    _Break,
	"continue": _Continue,
	"else":     _Else,
	"enum":     _Enum,
	"for":      _For,
	"func":     _Func,
	"if":       _If,
	"package":  _Package,
	"return":   _Return,
	"type":     _Type,
	"var":      _Var,

	"spawn":       _Spawn,
	"spawn_sub":   _SpawnSub,
	"spawn_super": _SpawnSuper,

	// long spellings
	"swarm_spawn":       _Spawn,
	"swarm_spawn_sub":   _SpawnSub,
	"swarm_spawn_super": _SpawnSuper,
}

// LookupKeyword returns the keyword token for ident, or _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
