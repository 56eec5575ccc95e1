package lang

import "encoding/json"

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to a tree of native Go maps and slices. Every
// node becomes a map with a "kind" key, its source "line" and "column", and
// one key per child or attribute.
func (p *Program) ToMap() map[string]any {
	return map[string]any{
		"kind":       "program",
		"statements": blockToNative(p.Stmts),
	}
}

func blockToNative(b Block) []any {
	out := make([]any, len(b))
	for i, s := range b {
		out[i] = nodeToNative(s)
	}

	return out
}

func exprsToNative(exprs []Expr) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = nodeToNative(e)
	}

	return out
}

// nodeToNative converts a single AST node to a map.
func nodeToNative(n Node) map[string]any {
	pos := n.Pos()
	m := map[string]any{
		"line":   pos.Line,
		"column": pos.Column,
	}

	switch n := n.(type) {
	case *IntExpr:
		m["kind"] = "int"
		m["value"] = n.Value

	case *BoolExpr:
		m["kind"] = "bool"
		m["value"] = n.Value

	case *StringExpr:
		m["kind"] = "string"
		m["value"] = n.Value

	case *VarExpr:
		m["kind"] = "var"
		m["name"] = n.Name

	case *ArrayExpr:
		m["kind"] = "array"
		m["elements"] = exprsToNative(n.Elems)

	case *CallExpr:
		m["kind"] = "call"
		m["callee"] = n.Callee
		m["args"] = exprsToNative(n.Args)

	case *IndexExpr:
		m["kind"] = "index"
		m["base"] = nodeToNative(n.Base)
		m["index"] = nodeToNative(n.Index)

	case *UnaryExpr:
		m["kind"] = "unary"
		m["op"] = n.Op.String()
		m["operand"] = nodeToNative(n.Operand)

	case *BinaryExpr:
		m["kind"] = "binary"
		m["op"] = n.Op.String()
		m["lhs"] = nodeToNative(n.LHS)
		m["rhs"] = nodeToNative(n.RHS)

	case *AssignStmt:
		m["kind"] = "assign"
		m["name"] = n.Name
		m["value"] = nodeToNative(n.Value)

	case *ExprStmt:
		m["kind"] = "expr"
		m["value"] = nodeToNative(n.Value)

	case *IfStmt:
		m["kind"] = "if"
		m["cond"] = nodeToNative(n.Cond)
		m["then"] = blockToNative(n.Then)
		m["else"] = blockToNative(n.Else)

	case *DoStmt:
		m["kind"] = "do"
		m["cond"] = nodeToNative(n.Cond)
		m["body"] = blockToNative(n.Body)
		m["post"] = n.Post

	case *FnDef:
		params := make([]any, len(n.Params))
		for i, name := range n.Params {
			params[i] = name
		}

		m["kind"] = "fn"
		m["name"] = n.Name
		m["params"] = params
		m["body"] = blockToNative(n.Body)

	case *ReturnStmt:
		m["kind"] = "return"
		m["value"] = nodeToNative(n.Value)
	}

	return m
}
