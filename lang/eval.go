package lang

import (
	"context"
	"io"
	"log/slog"
	"math"

	"github.com/ardnew/dolang/log"
)

// Interpreter evaluates programs against a persistent global scope.
//
// The global scope is created by [New] with the builtins already bound and
// survives across calls to [Interpreter.Run], so successive programs see each
// other's bindings. An Interpreter is not safe for concurrent use.
type Interpreter struct {
	logger   log.Logger
	stdout   io.Writer
	maxDepth int

	global *Env
	depth  int // active user function calls
}

// New returns an interpreter with a fresh global scope.
func New(opts ...Option) *Interpreter {
	o := makeOptions(opts...)

	return &Interpreter{
		logger:   o.logger,
		stdout:   o.stdout,
		maxDepth: o.maxDepth,
		global:   newGlobalEnv(),
	}
}

// RunString parses src and runs it in a new interpreter.
func RunString(ctx context.Context, src string, opts ...Option) error {
	prog, err := Parse(ctx, src, opts...)
	if err != nil {
		return err
	}

	return New(opts...).Run(ctx, prog)
}

// Global returns the interpreter's global scope.
func (in *Interpreter) Global() *Env { return in.global }

// Reset discards every binding and restores a fresh global scope.
func (in *Interpreter) Reset() {
	in.global = newGlobalEnv()
	in.depth = 0
}

// Run executes the top-level statements of prog in order. It stops at the
// first error; output produced before the error has already been written.
func (in *Interpreter) Run(ctx context.Context, prog *Program) error {
	in.logger.TraceContext(ctx, "run start",
		slog.Int("statement_count", len(prog.Stmts)))

	in.depth = 0

	if _, err := in.execBlock(ctx, prog.Stmts, in.global); err != nil {
		in.logger.DebugContext(ctx, "run failed", slog.Any("error", err))

		return err
	}

	in.logger.TraceContext(ctx, "run complete")

	return nil
}

// Eval evaluates a single expression in env, or in the global scope if env
// is nil.
func (in *Interpreter) Eval(ctx context.Context, expr Expr, env *Env) (Value, error) {
	if env == nil {
		env = in.global
	}

	return in.eval(ctx, expr, env)
}

// outcome is the result of executing a statement: either normal completion
// or a return carrying a value.
type outcome struct {
	value    Value
	returned bool
}

// Statements

func (in *Interpreter) execBlock(ctx context.Context, block Block, env *Env) (outcome, error) {
	for _, stmt := range block {
		out, err := in.exec(ctx, stmt, env)
		if err != nil || out.returned {
			return out, err
		}
	}

	return outcome{}, nil
}

func (in *Interpreter) exec(ctx context.Context, stmt Stmt, env *Env) (outcome, error) {
	switch s := stmt.(type) {
	case *AssignStmt:
		v, err := in.eval(ctx, s.Value, env)
		if err != nil {
			return outcome{}, err
		}

		if !env.Assign(s.Name, v) {
			env.Define(s.Name, v)
		}

		return outcome{}, nil

	case *ExprStmt:
		return outcome{}, in.execExpr(ctx, s, env)

	case *IfStmt:
		cond, err := in.condition(ctx, "if", s.Cond, env)
		if err != nil {
			return outcome{}, err
		}

		if cond {
			return in.execBlock(ctx, s.Then, env)
		}

		return in.execBlock(ctx, s.Else, env)

	case *DoStmt:
		return in.execDo(ctx, s, env)

	case *FnDef:
		if env.HasLocal(s.Name) {
			return outcome{}, ErrRedefinition.At(s.Pos()).Detailf("%s", s.Name)
		}

		env.Define(s.Name, &Function{
			Name:    s.Name,
			Params:  s.Params,
			Body:    s.Body,
			Closure: env,
		})

		return outcome{}, nil

	case *ReturnStmt:
		v, err := in.eval(ctx, s.Value, env)
		if err != nil {
			return outcome{}, err
		}

		if in.depth == 0 {
			return outcome{}, ErrReturnOutsideFunction.At(s.Pos())
		}

		return outcome{value: v, returned: true}, nil

	default:
		panic("lang: unknown statement type")
	}
}

// execExpr evaluates an expression statement. Outside any function call the
// value is printed with a "=> " prefix, unless the expression is a direct
// call to print.
func (in *Interpreter) execExpr(ctx context.Context, s *ExprStmt, env *Env) error {
	v, err := in.eval(ctx, s.Value, env)
	if err != nil {
		return err
	}

	if in.depth > 0 {
		return nil
	}

	if call, ok := s.Value.(*CallExpr); ok && call.Callee == "print" {
		return nil
	}

	if _, err := io.WriteString(in.stdout, "=> "+v.String()+"\n"); err != nil {
		return ErrWriteOutput.At(s.Pos()).Wrap(err)
	}

	return nil
}

func (in *Interpreter) execDo(ctx context.Context, s *DoStmt, env *Env) (outcome, error) {
	for {
		if err := in.interrupted(ctx, s.Pos()); err != nil {
			return outcome{}, err
		}

		if !s.Post {
			cond, err := in.condition(ctx, "do", s.Cond, env)
			if err != nil {
				return outcome{}, err
			}

			if !cond {
				return outcome{}, nil
			}
		}

		out, err := in.execBlock(ctx, s.Body, env)
		if err != nil || out.returned {
			return out, err
		}

		if s.Post {
			cond, err := in.condition(ctx, "until", s.Cond, env)
			if err != nil {
				return outcome{}, err
			}

			if cond {
				return outcome{}, nil
			}
		}
	}
}

// condition evaluates a loop or branch condition, which must be a Bool.
func (in *Interpreter) condition(ctx context.Context, kind string, expr Expr, env *Env) (bool, error) {
	v, err := in.eval(ctx, expr, env)
	if err != nil {
		return false, err
	}

	b, ok := v.(Bool)
	if !ok {
		return false, ErrTypeMismatch.At(expr.Pos()).
			Detailf("%s condition must be bool, got %s", kind, v.Type())
	}

	return bool(b), nil
}

func (in *Interpreter) interrupted(ctx context.Context, pos Position) error {
	if ctx.Err() == nil {
		return nil
	}

	return ErrInterrupted.At(pos).Wrap(context.Cause(ctx))
}

// Expressions

func (in *Interpreter) eval(ctx context.Context, expr Expr, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *IntExpr:
		return Int(e.Value), nil

	case *BoolExpr:
		return Bool(e.Value), nil

	case *StringExpr:
		return String(e.Value), nil

	case *VarExpr:
		v, ok := env.Get(e.Name)
		if !ok {
			return nil, ErrUndefinedVariable.At(e.Pos()).Detailf("%s", e.Name)
		}

		return v, nil

	case *ArrayExpr:
		elems := make([]Value, len(e.Elems))

		for i, elem := range e.Elems {
			v, err := in.eval(ctx, elem, env)
			if err != nil {
				return nil, err
			}

			elems[i] = v
		}

		return NewArray(elems...), nil

	case *IndexExpr:
		return in.evalIndex(ctx, e, env)

	case *UnaryExpr:
		return in.evalUnary(ctx, e, env)

	case *BinaryExpr:
		return in.evalBinary(ctx, e, env)

	case *CallExpr:
		return in.call(ctx, e, env)

	default:
		panic("lang: unknown expression type")
	}
}

func (in *Interpreter) evalIndex(ctx context.Context, e *IndexExpr, env *Env) (Value, error) {
	base, err := in.eval(ctx, e.Base, env)
	if err != nil {
		return nil, err
	}

	index, err := in.eval(ctx, e.Index, env)
	if err != nil {
		return nil, err
	}

	i, ok := index.(Int)
	if !ok {
		return nil, ErrTypeMismatch.At(e.Pos()).
			Detailf("index must be int, got %s", index.Type())
	}

	var n int

	switch b := base.(type) {
	case *Array:
		n = len(b.Elems)
		if i >= 0 && int64(i) < int64(n) {
			return b.Elems[i], nil
		}

	case String:
		n = len(b)
		if i >= 0 && int64(i) < int64(n) {
			return b[i : i+1], nil
		}

	default:
		return nil, ErrTypeMismatch.At(e.Pos()).
			Detailf("cannot index %s", base.Type())
	}

	return nil, ErrIndexOutOfRange.At(e.Pos()).
		Detailf("index %d, length %d", i, n)
}

func (in *Interpreter) evalUnary(ctx context.Context, e *UnaryExpr, env *Env) (Value, error) {
	v, err := in.eval(ctx, e.Operand, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpNeg:
		if i, ok := v.(Int); ok {
			return -i, nil
		}

		return nil, ErrTypeMismatch.At(e.Pos()).
			Detailf("operator - requires int, got %s", v.Type())

	case OpNot:
		if b, ok := v.(Bool); ok {
			return !b, nil
		}

		return nil, ErrTypeMismatch.At(e.Pos()).
			Detailf("operator not requires bool, got %s", v.Type())

	default:
		panic("lang: unknown unary operator")
	}
}

func (in *Interpreter) evalBinary(ctx context.Context, e *BinaryExpr, env *Env) (Value, error) {
	if e.Op == OpAnd || e.Op == OpOr {
		return in.evalLogical(ctx, e, env)
	}

	lhs, err := in.eval(ctx, e.LHS, env)
	if err != nil {
		return nil, err
	}

	rhs, err := in.eval(ctx, e.RHS, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpEq, OpNeq:
		eq, ok := equal(lhs, rhs)
		if !ok {
			return nil, mismatch(e, lhs, rhs)
		}

		return Bool(eq == (e.Op == OpEq)), nil

	case OpAdd:
		if l, ok := lhs.(String); ok {
			if r, ok := rhs.(String); ok {
				return l + r, nil
			}
		}
	}

	l, lok := lhs.(Int)
	r, rok := rhs.(Int)

	if !lok || !rok {
		return nil, mismatch(e, lhs, rhs)
	}

	switch e.Op {
	case OpAdd:
		return l + r, nil

	case OpSub:
		return l - r, nil

	case OpMul:
		return l * r, nil

	case OpDiv:
		if r == 0 {
			return nil, ErrDivisionByZero.At(e.Pos())
		}

		if l == math.MinInt64 && r == -1 {
			return nil, ErrArithmeticOverflow.At(e.Pos()).Detailf("%d / %d", l, r)
		}

		return l / r, nil

	case OpLt:
		return Bool(l < r), nil

	case OpLte:
		return Bool(l <= r), nil

	case OpGt:
		return Bool(l > r), nil

	case OpGte:
		return Bool(l >= r), nil

	default:
		panic("lang: unknown binary operator")
	}
}

// evalLogical evaluates and/or with short-circuiting. Only the operands that
// are actually evaluated are type-checked.
func (in *Interpreter) evalLogical(ctx context.Context, e *BinaryExpr, env *Env) (Value, error) {
	lhs, err := in.eval(ctx, e.LHS, env)
	if err != nil {
		return nil, err
	}

	l, ok := lhs.(Bool)
	if !ok {
		return nil, ErrTypeMismatch.At(e.Pos()).
			Detailf("operator %s requires bool operands, got %s", e.Op, lhs.Type())
	}

	if (e.Op == OpAnd && !bool(l)) || (e.Op == OpOr && bool(l)) {
		return l, nil
	}

	rhs, err := in.eval(ctx, e.RHS, env)
	if err != nil {
		return nil, err
	}

	r, ok := rhs.(Bool)
	if !ok {
		return nil, ErrTypeMismatch.At(e.Pos()).
			Detailf("operator %s requires bool operands, got %s", e.Op, rhs.Type())
	}

	return r, nil
}

// equal compares two values for == and !=. It reports ok=false for any pair
// other than int/int or string/string.
func equal(lhs, rhs Value) (eq, ok bool) {
	switch l := lhs.(type) {
	case Int:
		r, ok := rhs.(Int)

		return ok && l == r, ok

	case String:
		r, ok := rhs.(String)

		return ok && l == r, ok

	default:
		return false, false
	}
}

func mismatch(e *BinaryExpr, lhs, rhs Value) *Error {
	return ErrTypeMismatch.At(e.Pos()).
		Detailf("operator %s not defined on %s and %s", e.Op, lhs.Type(), rhs.Type())
}

// Calls

func (in *Interpreter) call(ctx context.Context, e *CallExpr, env *Env) (Value, error) {
	callee, ok := env.lookup(e.Callee)
	if !ok {
		return nil, ErrUndefinedFunction.At(e.Pos()).Detailf("%s", e.Callee)
	}

	switch fn := callee.(type) {
	case *Builtin:
		args, err := in.evalArgs(ctx, e.Args, env)
		if err != nil {
			return nil, err
		}

		v, err := fn.Fn(in, args)
		if err != nil {
			return nil, locate(err, e.Pos())
		}

		return v, nil

	case *Function:
		return in.callFunction(ctx, e, fn, env)

	default:
		return nil, ErrNotCallable.At(e.Pos()).
			Detailf("%s is %s", e.Callee, callee.Type())
	}
}

// callFunction binds the arguments, evaluated in the caller's scope, in a
// new scope whose parent is the function's closure, and runs the body.
func (in *Interpreter) callFunction(ctx context.Context, e *CallExpr, fn *Function, env *Env) (Value, error) {
	if len(e.Args) != len(fn.Params) {
		return nil, ErrArityMismatch.At(e.Pos()).
			Detailf("%s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(e.Args))
	}

	args, err := in.evalArgs(ctx, e.Args, env)
	if err != nil {
		return nil, err
	}

	if err := in.interrupted(ctx, e.Pos()); err != nil {
		return nil, err
	}

	if in.depth >= in.maxDepth {
		return nil, ErrMaxDepthExceeded.At(e.Pos()).
			With(slog.Int("max_depth", in.maxDepth))
	}

	in.depth++
	defer func() { in.depth-- }()

	in.logger.TraceContext(ctx, "call",
		slog.String("function", fn.Name),
		slog.Int("depth", in.depth))

	scope := NewEnv(fn.Closure)
	for i, name := range fn.Params {
		scope.Define(name, args[i])
	}

	out, err := in.execBlock(ctx, fn.Body, scope)
	if err != nil {
		return nil, err
	}

	if !out.returned {
		return nil, ErrMissingReturn.At(e.Pos()).Detailf("%s", fn.Name)
	}

	return out.value, nil
}

func (in *Interpreter) evalArgs(ctx context.Context, exprs []Expr, env *Env) ([]Value, error) {
	args := make([]Value, len(exprs))

	for i, expr := range exprs {
		v, err := in.eval(ctx, expr, env)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return args, nil
}

// locate attaches pos to an error returned by a builtin, unless it already
// carries a position.
func locate(err error, pos Position) error {
	e := WrapError(err)
	if _, ok := e.Position(); ok {
		return e
	}

	return e.At(pos)
}
