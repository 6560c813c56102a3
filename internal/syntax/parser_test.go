package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/swarm/internal/diag"
)

// ----------------------------------------------------------------------------
// Test helpers

func parse(t *testing.T, src string) (*File, []diag.Diagnostic) {
	t.Helper()
	var list diag.List
	p := NewParser("test.swarm", strings.NewReader(src), list.Handler())
	f := p.Parse()
	require.NotNil(t, f)
	return f, list.All()
}

func mustParse(t *testing.T, src string) *File {
	t.Helper()
	f, errs := parse(t, src)
	require.Empty(t, errs, "unexpected diagnostics")
	return f
}

// body parses stmts as the body of func main and returns its statements.
func body(t *testing.T, stmts string) []Stmt {
	t.Helper()
	f := mustParse(t, "package main\nfunc main() {\n"+stmts+"\n}\n")
	return mainBody(t, f)
}

func mainBody(t *testing.T, f *File) []Stmt {
	t.Helper()
	for _, d := range f.Decls {
		if fn, ok := d.(*FuncDecl); ok && fn.Name.Value == "main" {
			return fn.Body.Stmts
		}
	}
	t.Fatal("no func main")
	return nil
}

// ----------------------------------------------------------------------------
// Declarations

func TestParseDecls(t *testing.T) {
	f := mustParse(t, `package main
type Color enum { Red, Green, Blue }
type Id int
var g int = 3
func id[T any](x T) T { return x }
func main() {}
`)
	assert.Equal(t, "main", f.PkgName.Value)
	require.Len(t, f.Decls, 5)

	color := f.Decls[0].(*TypeDecl)
	enum, ok := color.Type.(*EnumType)
	require.True(t, ok)
	require.Len(t, enum.Members, 3)
	assert.Equal(t, "Blue", enum.Members[2].Value)

	id := f.Decls[1].(*TypeDecl)
	assert.Equal(t, "int", id.Type.(*Name).Value)

	g := f.Decls[2].(*VarDecl)
	assert.Equal(t, "g", g.Name.Value)
	assert.Equal(t, "3", g.Value.(*BasicLit).Value)

	fn := f.Decls[3].(*FuncDecl)
	assert.True(t, fn.IsGeneric())
	assert.Equal(t, "T", fn.TParams[0].Name.Value)
	assert.Equal(t, "any", fn.TParams[0].Type.(*Name).Value)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "T", fn.Result.(*Name).Value)

	assert.False(t, f.Decls[4].(*FuncDecl).IsGeneric())
}

func TestParseEnumAcrossLines(t *testing.T) {
	f := mustParse(t, "package p\ntype Phase enum {\n\tInit\n\tRun\n\tDone\n}\n")
	enum := f.Decls[0].(*TypeDecl).Type.(*EnumType)
	assert.Len(t, enum.Members, 3)
}

// ----------------------------------------------------------------------------
// Statements

func TestParseStatements(t *testing.T) {
	stmts := body(t, `var x int = 1
y := 2
x = x + y*3
if x > 2 { println(x) } else if x < 0 { println(0) } else { println(1) }
for x < 10 { x = x + 1; continue }
for { break }
;
return`)
	require.Len(t, stmts, 8)

	assert.IsType(t, &DeclStmt{}, stmts[0])
	def := stmts[1].(*AssignStmt)
	assert.True(t, def.IsDefine())

	assign := stmts[2].(*AssignStmt)
	sum := assign.RHS.(*Operation)
	assert.Equal(t, _Add, sum.Op)
	assert.Equal(t, _Mul, sum.Y.(*Operation).Op)

	ifs := stmts[3].(*IfStmt)
	elif, ok := ifs.Else.(*IfStmt)
	require.True(t, ok)
	assert.IsType(t, &BlockStmt{}, elif.Else)

	loop := stmts[4].(*ForStmt)
	require.NotNil(t, loop.Cond)
	cont := loop.Body.Stmts[1].(*BranchStmt)
	assert.Same(t, loop, cont.Target)

	forever := stmts[5].(*ForStmt)
	assert.Nil(t, forever.Cond)
	assert.Same(t, forever, forever.Body.Stmts[0].(*BranchStmt).Target)

	assert.IsType(t, &EmptyStmt{}, stmts[6])
	assert.Nil(t, stmts[7].(*ReturnStmt).Result)
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a || b && c", "(a || (b && c))"},
		{"a + b * c", "(a + (b * c))"},
		{"a - b - c", "((a - b) - c)"},
		{"a < b == c", "((a < b) == c)"},
		{"-a * b", "((-a) * b)"},
		{"!a && b", "((!a) && b)"},
		{"f(a, b + 1)", "f(a, (b + 1))"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			stmts := body(t, tt.src)
			assert.Equal(t, tt.want, fullyParenthesized(stmts[0].(*ExprStmt).X))
		})
	}
}

func fullyParenthesized(x Expr) string {
	switch x := x.(type) {
	case *Name:
		return x.Value
	case *BasicLit:
		return x.Value
	case *ParenExpr:
		return fullyParenthesized(x.X)
	case *Operation:
		if x.Y == nil {
			return "(" + x.Op.String() + fullyParenthesized(x.X) + ")"
		}
		return "(" + fullyParenthesized(x.X) + " " + x.Op.String() + " " + fullyParenthesized(x.Y) + ")"
	case *CallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = fullyParenthesized(a)
		}
		return fullyParenthesized(x.Fun) + "(" + strings.Join(args, ", ") + ")"
	}
	return "?"
}

func TestParseBranchOutsideLoop(t *testing.T) {
	_, errs := parse(t, "package main\nfunc main() {\n\tbreak\n\tcontinue\n}\n")
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Msg, "break is not in a loop or spawn")
	assert.Contains(t, errs[1].Msg, "continue is not in a loop")
}

func TestParseRecovery(t *testing.T) {
	f, errs := parse(t, "package main\nfunc main() {\n\tx := ;\n\ty := 2\n}\n")
	require.Len(t, errs, 1)
	assert.Equal(t, diag.Syntax, errs[0].Code)
	assert.Contains(t, errs[0].Msg, "expected operand")

	stmts := mainBody(t, f)
	require.Len(t, stmts, 2)
	assert.IsType(t, &BadExpr{}, stmts[0].(*AssignStmt).RHS)
	assert.Equal(t, "y", stmts[1].(*AssignStmt).LHS.(*Name).Value)
}

func TestParseDefineNeedsName(t *testing.T) {
	_, errs := parse(t, "package main\nfunc main() {\n\tf() := 1\n}\n")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Msg, "non-name on left side of :=")
}

func TestParseErrorLimit(t *testing.T) {
	var list diag.List
	p := NewParser("test.swarm", strings.NewReader("package main\nfunc main() { @ @ @ @ }\n"), list.Handler())
	p.SetMaxErrors(2)
	p.Parse()

	all := list.All()
	require.Len(t, all, 3)
	assert.Contains(t, all[2].Msg, "too many errors")
	assert.Equal(t, 2, p.Errors())
}

func TestParseFileFirstError(t *testing.T) {
	f, err := ParseFile("test.swarm", strings.NewReader("package main\nvar = 1\n"), nil)
	require.NotNil(t, f)
	require.Error(t, err)

	var d diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, uint32(2), d.Pos.Line())
}

func TestParseWithoutASI(t *testing.T) {
	var list diag.List
	p := NewParser("test.swarm", strings.NewReader("package main; func main() { x := 1; spawn (x) { println(x); }; }"), list.Handler())
	p.SetASIEnabled(false)
	f := p.Parse()
	require.Empty(t, list.All())
	stmts := mainBody(t, f)
	require.Len(t, stmts, 2)
	assert.IsType(t, &SpawnStmt{}, stmts[1])
}
