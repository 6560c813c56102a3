package syntax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// shape lists the node kinds and names of a tree in walk order,
// ignoring positions.
func shape(n Node) []string {
	var out []string
	Inspect(n, func(n Node) bool {
		switch n := n.(type) {
		case *Name:
			out = append(out, "Name:"+n.Value)
		case *BasicLit:
			out = append(out, "Lit:"+n.Value)
		case *Operation:
			out = append(out, "Op:"+n.Op.String())
		case *SpawnStmt:
			out = append(out, fmt.Sprintf("Spawn:%s:%v", n.Domain(), n.HasHeader()))
		default:
			out = append(out, fmt.Sprintf("%T", n))
		}
		return true
	})
	return out
}

func TestFormatGolden(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "format", "spawn.swarm"))
	require.NoError(t, err)

	f := mustParse(t, string(src))
	var buf bytes.Buffer
	require.NoError(t, Format(&buf, f))

	newGoldie(t).Assert(t, "spawn", buf.Bytes())
}

func TestFormatRoundTrip(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "format", "spawn.swarm"))
	require.NoError(t, err)

	first := mustParse(t, string(src))
	text := String(first)
	second := mustParse(t, text)

	assert.Equal(t, shape(first), shape(second), "formatted source parses to an equivalent tree")
	assert.Equal(t, text, String(second), "formatting is idempotent")
}

func TestFormatSpawnForms(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"spawn f()", "spawn f()"},
		{"swarm_spawn_super (t) f()", "spawn_super (t) f()"},
		{"spawn (n := t) f()", "spawn (n := t) f()"},
		{"spawn (var n int = t) f()", "spawn (var n int = t) f()"},
		{"spawn (g(); t+1) ;", "spawn (g(); t + 1) ;"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			stmts := body(t, tt.src)
			assert.Equal(t, tt.want, String(stmts[0]))
		})
	}
}

func TestFormatQuote(t *testing.T) {
	assert.Equal(t, `"a\tb\"\\\x01é"`, quote("a\tb\"\\\x01é"))
}

func TestFprintTreeGolden(t *testing.T) {
	f := mustParse(t, "package p\nfunc f(t int) {\n\tspawn_sub (n := t) break\n}\n")
	var buf bytes.Buffer
	Fprint(&buf, f)
	newGoldie(t).Assert(t, "tree_spawn_sub", buf.Bytes())
}

func TestFprintJSONSpawn(t *testing.T) {
	stmts := body(t, "spawn_super (i := 0; t) f()")
	var buf bytes.Buffer
	require.NoError(t, FprintJSON(&buf, stmts[0]))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "SpawnStmt", got["type"])
	assert.Equal(t, "spawn_super", got["keyword"])
	assert.Equal(t, "super", got["domain"])
	assert.Equal(t, true, got["header"])
	assert.Contains(t, got, "init")
	assert.Contains(t, got, "timestamp")
	assert.NotContains(t, got, "condvar")
	assert.True(t, strings.HasPrefix(got["pos"].(string), "test.swarm:3:"))
}
