package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

type object map[string]interface{}

func newObject(kind string, n Node) object {
	return object{"type": kind, "pos": n.Pos().String()}
}

// setOpt stores the JSON form of n under key if n is present.
func (o object) setOpt(key string, n Node) {
	if !isNil(n) {
		o[key] = toJSON(n)
	}
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *BlockStmt:
		return n == nil
	case *Name:
		return n == nil
	case *VarDecl:
		return n == nil
	}
	return false
}

func toJSON(node Node) interface{} {
	if isNil(node) {
		return nil
	}

	switch n := node.(type) {
	case *File:
		o := newObject("File", n)
		o["package"] = n.PkgName.Value
		o["decls"] = mapSlice(n.Decls)
		return o

	case *TypeDecl:
		o := newObject("TypeDecl", n)
		o["name"] = n.Name.Value
		o["typedef"] = toJSON(n.Type)
		return o

	case *EnumType:
		o := newObject("EnumType", n)
		members := make([]string, len(n.Members))
		for i, m := range n.Members {
			members[i] = m.Value
		}
		o["members"] = members
		return o

	case *VarDecl:
		o := newObject("VarDecl", n)
		o["name"] = n.Name.Value
		o.setOpt("vartype", n.Type)
		o.setOpt("value", n.Value)
		return o

	case *FuncDecl:
		o := newObject("FuncDecl", n)
		o["name"] = n.Name.Value
		if len(n.TParams) > 0 {
			o["tparams"] = mapSlice(n.TParams)
		}
		o["params"] = mapSlice(n.Params)
		o.setOpt("result", n.Result)
		o.setOpt("body", n.Body)
		return o

	case *Field:
		o := newObject("Field", n)
		o["name"] = n.Name.Value
		o["fieldtype"] = toJSON(n.Type)
		return o

	case *BlockStmt:
		o := newObject("BlockStmt", n)
		o["stmts"] = mapSlice(n.Stmts)
		return o

	case *IfStmt:
		o := newObject("IfStmt", n)
		o["cond"] = toJSON(n.Cond)
		o["then"] = toJSON(n.Then)
		o.setOpt("else", n.Else)
		return o

	case *ForStmt:
		o := newObject("ForStmt", n)
		o.setOpt("cond", n.Cond)
		o["body"] = toJSON(n.Body)
		return o

	case *SpawnStmt:
		o := newObject("SpawnStmt", n)
		o["keyword"] = n.keyword.String()
		o["domain"] = n.domain.String()
		o["header"] = n.header
		o.setOpt("init", n.init)
		o.setOpt("condvar", n.condVar)
		o.setOpt("timestamp", n.ts)
		o["body"] = toJSON(n.body)
		return o

	case *ReturnStmt:
		o := newObject("ReturnStmt", n)
		o.setOpt("result", n.Result)
		return o

	case *BranchStmt:
		o := newObject("BranchStmt", n)
		o["token"] = n.Tok.String()
		if n.Target != nil {
			o["target"] = n.Target.Pos().String()
		}
		return o

	case *AssignStmt:
		o := newObject("AssignStmt", n)
		o["op"] = n.Op.String()
		o["lhs"] = toJSON(n.LHS)
		o["rhs"] = toJSON(n.RHS)
		return o

	case *ExprStmt:
		o := newObject("ExprStmt", n)
		o["x"] = toJSON(n.X)
		return o

	case *DeclStmt:
		o := newObject("DeclStmt", n)
		o["decl"] = toJSON(n.Decl)
		return o

	case *EmptyStmt:
		return newObject("EmptyStmt", n)

	case *BadStmt:
		o := newObject("BadStmt", n)
		o["to"] = n.To.String()
		return o

	case *Name:
		o := newObject("Name", n)
		o["value"] = n.Value
		return o

	case *BasicLit:
		o := newObject("BasicLit", n)
		o["kind"] = n.Kind.String()
		o["value"] = n.Value
		return o

	case *BadExpr:
		return newObject("BadExpr", n)

	case *Operation:
		o := newObject("Operation", n)
		o["op"] = n.Op.String()
		o["x"] = toJSON(n.X)
		o.setOpt("y", n.Y)
		return o

	case *CallExpr:
		o := newObject("CallExpr", n)
		o["fun"] = toJSON(n.Fun)
		o["args"] = mapSlice(n.Args)
		return o

	case *ParenExpr:
		o := newObject("ParenExpr", n)
		o["x"] = toJSON(n.X)
		return o
	}
	return object{"type": "Unknown"}
}

func mapSlice[T Node](s []T) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = toJSON(v)
	}
	return result
}
