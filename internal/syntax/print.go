package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented tree dump of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.node(node)
}

type printer struct {
	w      io.Writer
	indent int
}

// A part is one piece of a node's dump below its header line: text
// lines, child nodes, or both, optionally grouped under "label:".
type part struct {
	label string
	lines []string
	nodes []Node
}

func text(format string, args ...interface{}) part {
	return part{lines: []string{fmt.Sprintf(format, args...)}}
}

// child groups n under label. A nil n yields an empty part, which is not
// printed.
func child(label string, n Node) part {
	if n == nil {
		return part{}
	}
	return part{label: label, nodes: []Node{n}}
}

func (p *printer) line(s string) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.indent), s)
}

func (p *printer) node(n Node) {
	if n == nil {
		return
	}
	head, parts := describe(n)
	p.line(head)
	p.indent++
	for _, pt := range parts {
		p.part(pt)
	}
	p.indent--
}

func (p *printer) part(pt part) {
	if len(pt.lines) == 0 && len(pt.nodes) == 0 {
		return
	}
	if pt.label != "" {
		p.line(pt.label + ":")
		p.indent++
		defer func() { p.indent-- }()
	}
	for _, l := range pt.lines {
		p.line(l)
	}
	for _, n := range pt.nodes {
		p.node(n)
	}
}

// describe returns the header line of n and the parts below it.
func describe(node Node) (string, []part) {
	pos := node.Pos()
	switch n := node.(type) {
	case *File:
		parts := []part{text("Package: %s", n.PkgName.Value)}
		for _, d := range n.Decls {
			parts = append(parts, child("", d))
		}
		return fmt.Sprintf("File %s", pos), parts

	case *TypeDecl:
		return fmt.Sprintf("TypeDecl %s", pos), []part{text("Name: %s", n.Name.Value), child("Type", n.Type)}

	case *EnumType:
		names := make([]string, len(n.Members))
		for i, m := range n.Members {
			names[i] = m.Value
		}
		return fmt.Sprintf("EnumType %s {%s}", pos, strings.Join(names, ", ")), nil

	case *VarDecl:
		parts := []part{text("Name: %s", n.Name.Value)}
		if n.Type != nil {
			parts = append(parts, text("Type: %s", typeString(n.Type)))
		}
		return fmt.Sprintf("VarDecl %s", pos), append(parts, child("Value", n.Value))

	case *FuncDecl:
		parts := []part{
			text("Name: %s", n.Name.Value),
			fieldList("TypeParams", n.TParams),
			fieldList("Params", n.Params),
		}
		if n.Result != nil {
			parts = append(parts, text("Result: %s", typeString(n.Result)))
		}
		if n.Body != nil {
			parts = append(parts, child("Body", n.Body))
		}
		return fmt.Sprintf("FuncDecl %s", pos), parts

	case *Field:
		return fmt.Sprintf("Field %s %s %s", pos, n.Name.Value, typeString(n.Type)), nil

	case *BlockStmt:
		var ps part
		for _, s := range n.Stmts {
			ps.nodes = append(ps.nodes, s)
		}
		return fmt.Sprintf("BlockStmt %s", pos), []part{ps}

	case *IfStmt:
		return fmt.Sprintf("IfStmt %s", pos), []part{child("Cond", n.Cond), child("Then", n.Then), child("Else", n.Else)}

	case *ForStmt:
		return fmt.Sprintf("ForStmt %s", pos), []part{child("Cond", n.Cond), child("Body", n.Body)}

	case *SpawnStmt:
		parts := []part{}
		if n.init != nil {
			parts = append(parts, child("Init", n.init))
		}
		if n.condVar != nil {
			parts = append(parts, child("CondVar", n.condVar))
		}
		if n.ts != nil {
			parts = append(parts, child("Timestamp", n.ts))
		}
		parts = append(parts, child("Body", n.body))
		return fmt.Sprintf("SpawnStmt %s %s domain=%s", pos, n.keyword, n.domain), parts

	case *ReturnStmt:
		return fmt.Sprintf("ReturnStmt %s", pos), []part{child("", n.Result)}

	case *BranchStmt:
		target := "<nil>"
		if n.Target != nil {
			target = strings.TrimPrefix(fmt.Sprintf("%T %s", n.Target, n.Target.Pos()), "*syntax.")
		}
		return fmt.Sprintf("BranchStmt %s %s -> %s", pos, n.Tok, target), nil

	case *AssignStmt:
		return fmt.Sprintf("AssignStmt %s %s", pos, n.Op), []part{child("LHS", n.LHS), child("RHS", n.RHS)}

	case *ExprStmt:
		return fmt.Sprintf("ExprStmt %s", pos), []part{child("", n.X)}

	case *DeclStmt:
		return fmt.Sprintf("DeclStmt %s", pos), []part{child("", n.Decl)}

	case *EmptyStmt:
		return fmt.Sprintf("EmptyStmt %s", pos), nil

	case *BadStmt:
		return fmt.Sprintf("BadStmt %s..%s", pos, n.To), nil

	case *Name:
		return fmt.Sprintf("Name %s %q", pos, n.Value), nil

	case *BasicLit:
		return fmt.Sprintf("BasicLit %s %s %q", pos, n.Kind, n.Value), nil

	case *BadExpr:
		return fmt.Sprintf("BadExpr %s", pos), nil

	case *Operation:
		if n.Y == nil {
			return fmt.Sprintf("UnaryOp %s %s", pos, n.Op), []part{child("", n.X)}
		}
		return fmt.Sprintf("BinaryOp %s %s", pos, n.Op), []part{child("X", n.X), child("Y", n.Y)}

	case *CallExpr:
		args := part{label: "Args"}
		for _, a := range n.Args {
			args.nodes = append(args.nodes, a)
		}
		return fmt.Sprintf("CallExpr %s", pos), []part{child("Fun", n.Fun), args}

	case *ParenExpr:
		return fmt.Sprintf("ParenExpr %s", pos), []part{child("", n.X)}
	}
	return fmt.Sprintf("<%T>", node), nil
}

func fieldList(label string, fields []*Field) part {
	pt := part{label: label}
	for _, f := range fields {
		pt.lines = append(pt.lines, f.Name.Value+" "+typeString(f.Type))
	}
	return pt
}

// typeString returns the source form of a type expression.
func typeString(e Expr) string {
	switch t := e.(type) {
	case nil:
		return "<nil>"
	case *Name:
		return t.Value
	case *EnumType:
		return "enum{...}"
	}
	return fmt.Sprintf("<%T>", e)
}
