package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in canonical source form: one statement per
// line, block bodies indented by indent spaces per level (a tab if indent is
// less than 1), and only the parentheses that precedence requires.
// Parsing the output yields a program equal to p apart from positions.
func (p *Program) Format(w io.Writer, indent int) error {
	f := formatter{unit: "\t"}
	if indent > 0 {
		f.unit = strings.Repeat(" ", indent)
	}

	f.block(p.Stmts, 0)

	_, err := io.WriteString(w, f.buf.String())

	return err
}

// FormatJSON writes the program as JSON to the writer.
func (p *Program) FormatJSON(w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// Print writes an indented tree of the program's nodes, one node per line
// with its source position.
func (p *Program) Print(w io.Writer) error {
	var buf strings.Builder

	buf.WriteString("Program\n")

	for _, s := range p.Stmts {
		printNode(&buf, s, 1)
	}

	_, err := io.WriteString(w, buf.String())

	return err
}

type formatter struct {
	buf  strings.Builder
	unit string
}

func (f *formatter) line(depth int, text string) {
	for range depth {
		f.buf.WriteString(f.unit)
	}

	f.buf.WriteString(text)
	f.buf.WriteByte('\n')
}

func (f *formatter) block(b Block, depth int) {
	for _, s := range b {
		f.stmt(s, depth)
	}
}

func (f *formatter) stmt(s Stmt, depth int) {
	switch s := s.(type) {
	case *AssignStmt:
		f.line(depth, s.Name+" = "+FormatExpr(s.Value))

	case *ExprStmt:
		f.line(depth, FormatExpr(s.Value))

	case *IfStmt:
		f.line(depth, "if "+FormatExpr(s.Cond))
		f.block(s.Then, depth+1)

		if len(s.Else) > 0 {
			f.line(depth, "else")
			f.block(s.Else, depth+1)
		}

		f.line(depth, "end")

	case *DoStmt:
		if s.Post {
			f.line(depth, "do")
			f.block(s.Body, depth+1)
			f.line(depth, "until "+FormatExpr(s.Cond))
		} else {
			f.line(depth, "do "+FormatExpr(s.Cond))
			f.block(s.Body, depth+1)
			f.line(depth, "end")
		}

	case *FnDef:
		f.line(depth, "fn "+s.Name+"("+strings.Join(s.Params, ", ")+")")
		f.block(s.Body, depth+1)
		f.line(depth, "end")

	case *ReturnStmt:
		f.line(depth, "return "+FormatExpr(s.Value))
	}
}

// FormatExpr renders an expression in source form.
func FormatExpr(e Expr) string {
	switch e := e.(type) {
	case *IntExpr:
		return strconv.FormatInt(e.Value, 10)

	case *BoolExpr:
		return strconv.FormatBool(e.Value)

	case *StringExpr:
		return `"` + e.Value + `"`

	case *VarExpr:
		return e.Name

	case *ArrayExpr:
		return "[" + formatList(e.Elems) + "]"

	case *CallExpr:
		return e.Callee + "(" + formatList(e.Args) + ")"

	case *IndexExpr:
		base := FormatExpr(e.Base)

		switch e.Base.(type) {
		case *BinaryExpr, *UnaryExpr:
			base = "(" + base + ")"
		}

		return base + "[" + FormatExpr(e.Index) + "]"

	case *UnaryExpr:
		operand := FormatExpr(e.Operand)

		switch e.Operand.(type) {
		case *BinaryExpr:
			operand = "(" + operand + ")"

		case *IntExpr, *IndexExpr:
			// A minus sign directly before a literal is folded into
			// the literal when parsed.
			if e.Op == OpNeg {
				operand = "(" + operand + ")"
			}
		}

		if e.Op == OpNot {
			return "not " + operand
		}

		return "-" + operand

	case *BinaryExpr:
		prec := e.Op.precedence()

		lhs := FormatExpr(e.LHS)
		if b, ok := e.LHS.(*BinaryExpr); ok && b.Op.precedence() < prec {
			lhs = "(" + lhs + ")"
		}

		rhs := FormatExpr(e.RHS)
		if b, ok := e.RHS.(*BinaryExpr); ok && b.Op.precedence() <= prec {
			rhs = "(" + rhs + ")"
		}

		return lhs + " " + e.Op.String() + " " + rhs

	default:
		return "<?>"
	}
}

func formatList(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = FormatExpr(e)
	}

	return strings.Join(parts, ", ")
}

func printNode(buf *strings.Builder, n Node, depth int) {
	buf.WriteString(strings.Repeat("  ", depth))

	label := func(format string, args ...any) {
		fmt.Fprintf(buf, format, args...)
		fmt.Fprintf(buf, " @%s\n", n.Pos())
	}

	children := func(nodes ...Node) {
		for _, c := range nodes {
			printNode(buf, c, depth+1)
		}
	}

	section := func(name string, b Block) {
		buf.WriteString(strings.Repeat("  ", depth+1))
		buf.WriteString(name)
		buf.WriteByte('\n')

		for _, s := range b {
			printNode(buf, s, depth+2)
		}
	}

	switch n := n.(type) {
	case *IntExpr:
		label("Int %d", n.Value)

	case *BoolExpr:
		label("Bool %t", n.Value)

	case *StringExpr:
		label("String %q", n.Value)

	case *VarExpr:
		label("Var %s", n.Name)

	case *ArrayExpr:
		label("Array (%d)", len(n.Elems))
		children(exprNodes(n.Elems)...)

	case *CallExpr:
		label("Call %s (%d)", n.Callee, len(n.Args))
		children(exprNodes(n.Args)...)

	case *IndexExpr:
		label("Index")
		children(n.Base, n.Index)

	case *UnaryExpr:
		label("Unary %s", n.Op)
		children(n.Operand)

	case *BinaryExpr:
		label("Binary %s", n.Op)
		children(n.LHS, n.RHS)

	case *AssignStmt:
		label("Assign %s", n.Name)
		children(n.Value)

	case *ExprStmt:
		label("ExprStmt")
		children(n.Value)

	case *IfStmt:
		label("If")
		children(n.Cond)
		section("Then", n.Then)

		if len(n.Else) > 0 {
			section("Else", n.Else)
		}

	case *DoStmt:
		if n.Post {
			label("Do until")
		} else {
			label("Do while")
		}

		children(n.Cond)
		section("Body", n.Body)

	case *FnDef:
		label("FnDef %s(%s)", n.Name, strings.Join(n.Params, ", "))
		section("Body", n.Body)

	case *ReturnStmt:
		label("Return")
		children(n.Value)
	}
}

func exprNodes(exprs []Expr) []Node {
	nodes := make([]Node, len(exprs))
	for i, e := range exprs {
		nodes[i] = e
	}

	return nodes
}
