package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{_EOF, "EOF"},
		{_Name, "NAME"},
		{_Define, ":="},
		{_AndAnd, "&&"},
		{_Rem, "%"},
		{_Semi, ";"},
		{_Enum, "enum"},
		{_Spawn, "spawn"},
		{_SpawnSub, "spawn_sub"},
		{_SpawnSuper, "spawn_super"},
		{tokenCount + 3, "token(45)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.tok.String())
	}
}

func TestTokenNamesComplete(t *testing.T) {
	for tok := Token(0); tok < tokenCount; tok++ {
		assert.NotEmpty(t, tokenNames[tok], "token %d has no name", tok)
	}
}

func TestPrecedence(t *testing.T) {
	assert.Equal(t, 1, _OrOr.Precedence())
	assert.Equal(t, 2, _AndAnd.Precedence())
	for _, tok := range []Token{_Eql, _Neq, _Lss, _Leq, _Gtr, _Geq} {
		assert.Equal(t, 3, tok.Precedence(), tok.String())
		assert.True(t, tok.IsComparison())
	}
	assert.Equal(t, 4, _Add.Precedence())
	assert.Equal(t, 5, _Mul.Precedence())
	assert.Equal(t, 0, _Assign.Precedence())
	assert.Equal(t, 0, _Not.Precedence())
}

func TestLookupKeyword(t *testing.T) {
	tests := map[string]Token{
		"break":             _Break,
		"enum":              _Enum,
		"spawn":             _Spawn,
		"spawn_sub":         _SpawnSub,
		"spawn_super":       _SpawnSuper,
		"swarm_spawn":       _Spawn,
		"swarm_spawn_sub":   _SpawnSub,
		"swarm_spawn_super": _SpawnSuper,
		"spawner":           _Name,
		"int":               _Name,
	}
	for ident, want := range tests {
		assert.Equal(t, want, LookupKeyword(ident), ident)
	}
}

func TestTokenPredicates(t *testing.T) {
	assert.True(t, _Spawn.IsKeyword())
	assert.True(t, _Var.IsKeyword())
	assert.False(t, _Name.IsKeyword())
	assert.True(t, _Not.IsOperator())
	assert.False(t, _Lparen.IsOperator())
	assert.True(t, _SpawnSuper.IsSpawn())
	assert.False(t, _For.IsSpawn())
	assert.True(t, _OrOr.IsLogical())
	assert.True(t, _Neq.IsEquality())
	assert.False(t, _Lss.IsEquality())
}

func TestLitKindString(t *testing.T) {
	assert.Equal(t, "int", IntLit.String())
	assert.Equal(t, "float", FloatLit.String())
	assert.Equal(t, "string", StringLit.String())
}
