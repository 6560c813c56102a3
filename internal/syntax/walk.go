package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk visits node and then, depth first, its children in source order.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}
	for _, c := range children(node) {
		Walk(c, v)
	}
}

// Inspect traverses an AST and calls f for each node.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}

// kids collects the non-nil children of a node. Typed nil pointers are
// dropped by the callers before they get here.
type kids []Node

func (k *kids) add(n Node) {
	if n != nil {
		*k = append(*k, n)
	}
}

func (k *kids) block(b *BlockStmt) {
	if b != nil {
		*k = append(*k, b)
	}
}

func children(node Node) []Node {
	var k kids
	switch n := node.(type) {
	case *File:
		if n.PkgName != nil {
			k.add(n.PkgName)
		}
		for _, d := range n.Decls {
			k.add(d)
		}
	case *TypeDecl:
		k.add(n.Name)
		k.add(n.Type)
	case *EnumType:
		for _, m := range n.Members {
			k.add(m)
		}
	case *VarDecl:
		k.add(n.Name)
		k.add(n.Type)
		k.add(n.Value)
	case *FuncDecl:
		k.add(n.Name)
		for _, f := range n.TParams {
			k.add(f)
		}
		for _, f := range n.Params {
			k.add(f)
		}
		k.add(n.Result)
		k.block(n.Body)
	case *Field:
		k.add(n.Name)
		k.add(n.Type)
	case *BlockStmt:
		for _, s := range n.Stmts {
			k.add(s)
		}
	case *IfStmt:
		k.add(n.Cond)
		k.block(n.Then)
		k.add(n.Else)
	case *ForStmt:
		k.add(n.Cond)
		k.block(n.Body)
	case *SpawnStmt:
		return n.Children()
	case *ReturnStmt:
		k.add(n.Result)
	case *AssignStmt:
		k.add(n.LHS)
		k.add(n.RHS)
	case *ExprStmt:
		k.add(n.X)
	case *DeclStmt:
		k.add(n.Decl)
	case *Operation:
		k.add(n.X)
		k.add(n.Y)
	case *CallExpr:
		k.add(n.Fun)
		for _, a := range n.Args {
			k.add(a)
		}
	case *ParenExpr:
		k.add(n.X)
	}
	return k
}
