package lang

import (
	"iter"
	"strconv"
)

// Node is implemented by every AST node. Pos returns the position of the
// token that defines the node.
type Node interface {
	Pos() Position
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Block is an ordered sequence of statements.
type Block []Stmt

// Program is the root of a parsed source file: an ordered sequence of
// top-level statements.
//
// A Program is never modified after parsing, so a single Program may be run
// any number of times, concurrently or by different interpreters.
type Program struct {
	Stmts Block
}

// All returns an iterator over the top-level statements of the program.
func (p *Program) All() iter.Seq[Stmt] {
	return func(yield func(Stmt) bool) {
		for _, s := range p.Stmts {
			if !yield(s) {
				return
			}
		}
	}
}

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota // -
	OpNot                // not
)

// String returns the source spelling of the operator.
func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"

	case OpNot:
		return "not"

	default:
		return "UnaryOp(" + strconv.Itoa(int(op)) + ")"
	}
}

// BinaryOp is an infix operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
)

var binaryOpNames = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpEq:  "==",
	OpNeq: "!=",
	OpLt:  "<",
	OpLte: "<=",
	OpGt:  ">",
	OpGte: ">=",
	OpAnd: "and",
	OpOr:  "or",
}

// String returns the source spelling of the operator.
func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}

	return "BinaryOp(" + strconv.Itoa(int(op)) + ")"
}

// precedence returns the binding strength of the operator; higher binds
// tighter.
func (op BinaryOp) precedence() int {
	switch op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpEq, OpNeq:
		return 3
	case OpLt, OpLte, OpGt, OpGte:
		return 4
	case OpAdd, OpSub:
		return 5
	default:
		return 6
	}
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// IntExpr is an integer literal.
type IntExpr struct {
	Position
	Value int64
}

// BoolExpr is a boolean literal.
type BoolExpr struct {
	Position
	Value bool
}

// StringExpr is a string literal with its quotes removed.
type StringExpr struct {
	Position
	Value string
}

// VarExpr is a reference to a named binding.
type VarExpr struct {
	Position
	Name string
}

// ArrayExpr is an array literal.
type ArrayExpr struct {
	Position
	Elems []Expr
}

// CallExpr calls the function bound to Callee.
type CallExpr struct {
	Position
	Callee string
	Args   []Expr
}

// IndexExpr selects an element of an array or a byte of a string.
type IndexExpr struct {
	Position
	Base  Expr
	Index Expr
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Position
	Op      UnaryOp
	Operand Expr
}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Position
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

func (*IntExpr) exprNode()    {}
func (*BoolExpr) exprNode()   {}
func (*StringExpr) exprNode() {}
func (*VarExpr) exprNode()    {}
func (*ArrayExpr) exprNode()  {}
func (*CallExpr) exprNode()   {}
func (*IndexExpr) exprNode()  {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// AssignStmt binds the value of an expression to a name.
type AssignStmt struct {
	Position
	Name  string
	Value Expr
}

// ExprStmt evaluates an expression for its effect.
type ExprStmt struct {
	Position
	Value Expr
}

// IfStmt executes Then if Cond is true, otherwise Else. Either block may be
// empty.
type IfStmt struct {
	Position
	Cond Expr
	Then Block
	Else Block
}

// DoStmt is a loop. If Post is false the condition is tested before each
// iteration and the loop runs while it is true (do cond ... end). If Post is
// true the body runs first and the loop stops once the condition is true
// (do ... until cond).
type DoStmt struct {
	Position
	Cond Expr
	Body Block
	Post bool
}

// FnDef defines a named function in the current scope.
type FnDef struct {
	Position
	Name   string
	Params []string
	Body   Block
}

// ReturnStmt returns a value from the enclosing function.
type ReturnStmt struct {
	Position
	Value Expr
}

func (*AssignStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
func (*IfStmt) stmtNode()     {}
func (*DoStmt) stmtNode()     {}
func (*FnDef) stmtNode()      {}
func (*ReturnStmt) stmtNode() {}
