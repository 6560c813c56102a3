package syntax

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Format writes node as canonical source text. The output of a parsed file
// parses again to an equivalent tree.
func Format(w io.Writer, node Node) error {
	var f formatter
	f.node(node)
	_, err := w.Write(f.buf.Bytes())
	return err
}

// String returns the canonical source text of node.
func String(node Node) string {
	var f formatter
	f.node(node)
	return f.buf.String()
}

type formatter struct {
	buf    bytes.Buffer
	indent int
}

func (f *formatter) print(args ...interface{}) {
	for _, a := range args {
		fmt.Fprint(&f.buf, a)
	}
}

func (f *formatter) newline() {
	f.buf.WriteByte('\n')
	for i := 0; i < f.indent; i++ {
		f.buf.WriteByte('\t')
	}
}

func (f *formatter) node(n Node) {
	switch n := n.(type) {
	case *File:
		f.print("package ", n.PkgName.Value, "\n")
		for _, d := range n.Decls {
			f.print("\n")
			f.node(d)
			f.print("\n")
		}
	case Decl:
		f.decl(n)
	case Stmt:
		f.stmt(n)
	case Expr:
		f.expr(n, 0)
	case *Field:
		f.print(n.Name.Value, " ")
		f.expr(n.Type, 0)
	default:
		panic(fmt.Sprintf("syntax: cannot format %T", n))
	}
}

func (f *formatter) decl(d Decl) {
	switch d := d.(type) {
	case *TypeDecl:
		f.print("type ", d.Name.Value, " ")
		f.expr(d.Type, 0)

	case *VarDecl:
		f.print("var ", d.Name.Value)
		if d.Type != nil {
			f.print(" ")
			f.expr(d.Type, 0)
		}
		if d.Value != nil {
			f.print(" = ")
			f.expr(d.Value, 0)
		}

	case *FuncDecl:
		f.print("func ", d.Name.Value)
		if len(d.TParams) > 0 {
			f.print("[")
			f.fields(d.TParams)
			f.print("]")
		}
		f.print("(")
		f.fields(d.Params)
		f.print(")")
		if d.Result != nil {
			f.print(" ")
			f.expr(d.Result, 0)
		}
		f.print(" ")
		f.block(d.Body)
	}
}

func (f *formatter) fields(list []*Field) {
	for i, p := range list {
		if i > 0 {
			f.print(", ")
		}
		f.node(p)
	}
}

func (f *formatter) block(b *BlockStmt) {
	f.print("{")
	f.indent++
	for _, s := range b.Stmts {
		f.newline()
		f.stmt(s)
	}
	f.indent--
	if len(b.Stmts) > 0 {
		f.newline()
	}
	f.print("}")
}

func (f *formatter) stmt(s Stmt) {
	switch s := s.(type) {
	case *EmptyStmt:
		f.print(";")
	case *BadStmt:
		f.print("<bad statement>")
	case *ExprStmt:
		f.expr(s.X, 0)
	case *AssignStmt:
		f.expr(s.LHS, 0)
		f.print(" ", s.Op, " ")
		f.expr(s.RHS, 0)
	case *DeclStmt:
		f.decl(s.Decl)
	case *BlockStmt:
		f.block(s)
	case *IfStmt:
		f.print("if ")
		f.expr(s.Cond, 0)
		f.print(" ")
		f.block(s.Then)
		if s.Else != nil {
			f.print(" else ")
			f.stmt(s.Else)
		}
	case *ForStmt:
		f.print("for ")
		if s.Cond != nil {
			f.expr(s.Cond, 0)
			f.print(" ")
		}
		f.block(s.Body)
	case *ReturnStmt:
		f.print("return")
		if s.Result != nil {
			f.print(" ")
			f.expr(s.Result, 0)
		}
	case *BranchStmt:
		f.print(s.Tok)
	case *SpawnStmt:
		f.spawn(s)
	default:
		panic(fmt.Sprintf("syntax: cannot format %T", s))
	}
}

func (f *formatter) spawn(s *SpawnStmt) {
	f.print(s.keyword)
	if s.header {
		f.print(" (")
		if s.init != nil {
			f.stmt(s.init)
			f.print("; ")
		}
		switch v := s.condVar; {
		case v != nil && v.Type != nil:
			f.decl(v)
		case v != nil:
			f.print(v.Name.Value, " := ")
			f.expr(v.Value, 0)
		default:
			f.expr(s.ts, 0)
		}
		f.print(")")
	}
	f.print(" ")
	f.stmt(s.body)
}

// expr prints x, parenthesizing binary operands that bind looser than prec.
func (f *formatter) expr(x Expr, prec int) {
	switch x := x.(type) {
	case *Name:
		f.print(x.Value)
	case *BasicLit:
		if x.Kind == StringLit {
			f.print(quote(x.Value))
		} else {
			f.print(x.Value)
		}
	case *BadExpr:
		f.print("BAD")
	case *ParenExpr:
		f.print("(")
		f.expr(x.X, 0)
		f.print(")")
	case *Operation:
		if x.Y == nil {
			f.print(x.Op)
			f.expr(x.X, 6)
			return
		}
		oprec := x.Op.Precedence()
		if oprec < prec {
			f.print("(")
		}
		f.expr(x.X, oprec)
		f.print(" ", x.Op, " ")
		f.expr(x.Y, oprec+1)
		if oprec < prec {
			f.print(")")
		}
	case *CallExpr:
		f.expr(x.Fun, 6)
		f.print("(")
		for i, a := range x.Args {
			if i > 0 {
				f.print(", ")
			}
			f.expr(a, 0)
		}
		f.print(")")
	case *EnumType:
		names := make([]string, len(x.Members))
		for i, m := range x.Members {
			names[i] = m.Value
		}
		f.print("enum { ", strings.Join(names, ", "), " }")
	default:
		panic(fmt.Sprintf("syntax: cannot format %T", x))
	}
}

// quote renders a decoded string literal using the escapes the scanner accepts.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		case 0:
			b.WriteString(`\0`)
		default:
			if r < 0x80 && !unicode.IsPrint(r) {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
