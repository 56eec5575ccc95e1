package lang

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Parse parses a program from source text.
//
// Parsing stops at the first lexical or syntax error, which is returned as an
// [*Error] carrying the position of the offending token.
func Parse(ctx context.Context, src string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(src)))

	p := newParser(src, o.maxDepth)

	prog, err := p.parseProgram()
	if err != nil {
		o.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("statement_count", len(prog.Stmts)))

	return prog, nil
}

// parser holds the parser state.
type parser struct {
	lex      Lexer
	current  Token
	previous Token
	depth    int
	maxDepth int
}

func newParser(src string, maxDepth int) *parser {
	p := &parser{
		lex:      *NewLexer(src),
		maxDepth: maxDepth,
	}

	p.advance()

	return p
}

// parseProgram parses statements until end of input.
func (p *parser) parseProgram() (*Program, error) {
	stmts, err := p.parseBlock(TokenEOF)
	if err != nil {
		return nil, err
	}

	return &Program{Stmts: stmts}, nil
}

// parseBlock parses newline-separated statements up to, but not including,
// one of the terminator tokens. Reaching end of input first is an error
// unless TokenEOF is itself a terminator.
func (p *parser) parseBlock(terminators ...TokenKind) (Block, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	var block Block

	// Function names defined directly in this block.
	declared := make(map[string]struct{})

	for {
		p.skipNewlines()

		if p.check(terminators...) {
			return block, nil
		}

		if p.check(TokenEOF) {
			return nil, p.unexpected(describe(terminators))
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		if fn, ok := stmt.(*FnDef); ok {
			if _, dup := declared[fn.Name]; dup {
				return nil, ErrDuplicateFunction.At(fn.Pos()).Detailf("%s", fn.Name)
			}

			declared[fn.Name] = struct{}{}
		}

		block = append(block, stmt)

		if !p.check(TokenNewline, TokenEOF) {
			return nil, p.expectedNewline()
		}
	}
}

// parseStatement dispatches on the current token.
func (p *parser) parseStatement() (Stmt, error) {
	switch p.current.Kind {
	case TokenIf:
		return p.parseIf()

	case TokenDo:
		return p.parseDo()

	case TokenFn:
		return p.parseFnDef()

	case TokenReturn:
		return p.parseReturn()

	case TokenIdent:
		// Two-token lookahead on a copy of the lexer distinguishes
		// "name = expr" from an expression statement starting with a name.
		la := p.lex
		if la.Next().Kind == TokenAssign {
			return p.parseAssign()
		}
	}

	tok := p.current

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ExprStmt{Position: tok.Pos, Value: value}, nil
}

// parseAssign parses: ident '=' expr.
func (p *parser) parseAssign() (Stmt, error) {
	name := p.current

	p.advance() // identifier
	p.advance() // '='

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &AssignStmt{Position: name.Pos, Name: name.Text, Value: value}, nil
}

// parseIf parses: 'if' expr NEWLINE stmt* ('else' NEWLINE stmt*)? 'end'.
func (p *parser) parseIf() (Stmt, error) {
	stmt := &IfStmt{Position: p.current.Pos}

	p.advance()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	stmt.Cond = cond

	if err := p.expectNewline(); err != nil {
		return nil, err
	}

	if stmt.Then, err = p.parseBlock(TokenElse, TokenEnd); err != nil {
		return nil, err
	}

	if p.match(TokenElse) {
		if err := p.expectNewline(); err != nil {
			return nil, err
		}

		if stmt.Else, err = p.parseBlock(TokenEnd); err != nil {
			return nil, err
		}
	}

	if err := p.expect(TokenEnd); err != nil {
		return nil, err
	}

	return stmt, nil
}

// parseDo parses either loop form:
//
//	'do' expr NEWLINE stmt* 'end'
//	'do' NEWLINE stmt* 'until' expr
func (p *parser) parseDo() (Stmt, error) {
	stmt := &DoStmt{Position: p.current.Pos}

	p.advance()

	var err error

	if p.check(TokenNewline) {
		stmt.Post = true

		if stmt.Body, err = p.parseBlock(TokenUntil); err != nil {
			return nil, err
		}

		p.advance() // 'until'

		if stmt.Cond, err = p.parseExpr(); err != nil {
			return nil, err
		}

		return stmt, nil
	}

	if stmt.Cond, err = p.parseExpr(); err != nil {
		return nil, err
	}

	if err := p.expectNewline(); err != nil {
		return nil, err
	}

	if stmt.Body, err = p.parseBlock(TokenEnd); err != nil {
		return nil, err
	}

	if err := p.expect(TokenEnd); err != nil {
		return nil, err
	}

	return stmt, nil
}

// parseFnDef parses: 'fn' ident '(' params ')' NEWLINE stmt* 'end'.
func (p *parser) parseFnDef() (Stmt, error) {
	stmt := &FnDef{Position: p.current.Pos}

	p.advance()

	if !p.check(TokenIdent) {
		return nil, p.unexpected("function name")
	}

	stmt.Name = p.current.Text

	p.advance()

	if err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	stmt.Params = params

	if err := p.expectNewline(); err != nil {
		return nil, err
	}

	if stmt.Body, err = p.parseBlock(TokenEnd); err != nil {
		return nil, err
	}

	if err := p.expect(TokenEnd); err != nil {
		return nil, err
	}

	return stmt, nil
}

// parseParams parses a comma-separated list of distinct identifiers and the
// closing parenthesis. The opening parenthesis has been consumed.
func (p *parser) parseParams() ([]string, error) {
	if p.match(TokenRParen) {
		return nil, nil
	}

	var params []string

	seen := make(map[string]struct{})

	for {
		switch p.current.Kind {
		case TokenIdent:
		case TokenEOF, TokenError:
			return nil, p.unexpected("parameter name")
		default:
			return nil, ErrInvalidParameter.At(p.current.Pos).
				Detailf("expected parameter name, found %s", p.current)
		}

		name := p.current.Text
		if _, dup := seen[name]; dup {
			return nil, ErrInvalidParameter.At(p.current.Pos).
				Detailf("duplicate parameter %s", name)
		}

		seen[name] = struct{}{}
		params = append(params, name)

		p.advance()

		if p.match(TokenRParen) {
			return params, nil
		}

		if err := p.expect(TokenComma); err != nil {
			return nil, err
		}
	}
}

// parseReturn parses: 'return' expr.
func (p *parser) parseReturn() (Stmt, error) {
	stmt := &ReturnStmt{Position: p.current.Pos}

	p.advance()

	if p.check(TokenNewline, TokenEOF) {
		return nil, ErrMissingValue.At(stmt.Position)
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	stmt.Value = value

	return stmt, nil
}

// Expressions

// binaryLevels lists the infix operators from lowest to highest precedence.
// Every level is left-associative.
var binaryLevels = []map[TokenKind]BinaryOp{
	{TokenOr: OpOr},
	{TokenAnd: OpAnd},
	{TokenEq: OpEq, TokenNeq: OpNeq},
	{TokenLt: OpLt, TokenLte: OpLte, TokenGt: OpGt, TokenGte: OpGte},
	{TokenPlus: OpAdd, TokenMinus: OpSub},
	{TokenStar: OpMul, TokenSlash: OpDiv},
}

func (p *parser) parseExpr() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	return p.parseBinary(0)
}

func (p *parser) parseBinary(level int) (Expr, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}

	lhs, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := binaryLevels[level][p.current.Kind]
		if !ok {
			return lhs, nil
		}

		tok := p.current

		p.advance()

		rhs, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{Position: tok.Pos, Op: op, LHS: lhs, RHS: rhs}
	}
}

// parseUnary parses prefix operators. A minus sign directly followed by an
// integer literal is folded into a negative literal, which is the only way to
// spell math.MinInt64.
func (p *parser) parseUnary() (Expr, error) {
	var op UnaryOp

	switch p.current.Kind {
	case TokenMinus:
		op = OpNeg
	case TokenNot:
		op = OpNot
	default:
		return p.parsePostfix()
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.current

	p.advance()

	if op == OpNeg && p.check(TokenInt) {
		lit, err := p.parseInt(tok.Pos, true)
		if err != nil {
			return nil, err
		}

		return p.parseIndex(lit)
	}

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &UnaryExpr{Position: tok.Pos, Op: op, Operand: operand}, nil
}

func (p *parser) parsePostfix() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	return p.parseIndex(base)
}

// parseIndex parses any number of '[' expr ']' suffixes applied to base.
func (p *parser) parseIndex(base Expr) (Expr, error) {
	for p.check(TokenLBracket) {
		tok := p.current

		p.advance()

		index, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}

		base = &IndexExpr{Position: tok.Pos, Base: base, Index: index}
	}

	return base, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.current

	switch tok.Kind {
	case TokenInt:
		return p.parseInt(tok.Pos, false)

	case TokenTrue, TokenFalse:
		p.advance()

		return &BoolExpr{Position: tok.Pos, Value: tok.Kind == TokenTrue}, nil

	case TokenString:
		p.advance()

		return &StringExpr{Position: tok.Pos, Value: tok.Text[1 : len(tok.Text)-1]}, nil

	case TokenIdent:
		p.advance()

		if p.match(TokenLParen) {
			args, err := p.parseList(TokenRParen)
			if err != nil {
				return nil, err
			}

			return &CallExpr{Position: tok.Pos, Callee: tok.Text, Args: args}, nil
		}

		return &VarExpr{Position: tok.Pos, Name: tok.Text}, nil

	case TokenLParen:
		p.advance()

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}

		return inner, nil

	case TokenLBracket:
		p.advance()

		elems, err := p.parseList(TokenRBracket)
		if err != nil {
			return nil, err
		}

		return &ArrayExpr{Position: tok.Pos, Elems: elems}, nil

	case TokenEOF, TokenError:
		return nil, p.unexpected("expression")

	default:
		return nil, ErrExpectedTerm.At(tok.Pos).Detailf("found %s", tok)
	}
}

// parseList parses a comma-separated, possibly empty list of expressions and
// the closing token.
func (p *parser) parseList(closing TokenKind) ([]Expr, error) {
	if p.match(closing) {
		return nil, nil
	}

	var list []Expr

	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		list = append(list, expr)

		if p.match(closing) {
			return list, nil
		}

		if err := p.expect(TokenComma); err != nil {
			return nil, err
		}
	}
}

// parseInt converts the current integer token, negated if neg is set.
// Magnitudes that do not fit in an int64 are rejected.
func (p *parser) parseInt(pos Position, neg bool) (Expr, error) {
	text := p.current.Text

	u, err := strconv.ParseUint(text, 10, 64)

	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}

	if err != nil || u > limit {
		if neg {
			text = "-" + text
		}

		return nil, ErrIntegerOverflow.At(pos).Detailf("%s", text)
	}

	p.advance()

	value := int64(u)
	if neg {
		value = -value // wraps to MinInt64 for the largest magnitude
	}

	return &IntExpr{Position: pos, Value: value}, nil
}

// Helper methods

func (p *parser) advance() {
	p.previous = p.current
	p.current = p.lex.Next()
}

func (p *parser) check(kinds ...TokenKind) bool {
	for _, k := range kinds {
		if p.current.Kind == k {
			return true
		}
	}

	return false
}

func (p *parser) match(kind TokenKind) bool {
	if !p.check(kind) {
		return false
	}

	p.advance()

	return true
}

func (p *parser) expect(kind TokenKind) error {
	if !p.match(kind) {
		return p.unexpected(strconv.Quote(kind.String()))
	}

	return nil
}

func (p *parser) expectNewline() error {
	if !p.check(TokenNewline) {
		return p.expectedNewline()
	}

	p.advance()

	return nil
}

func (p *parser) expectedNewline() error {
	switch p.current.Kind {
	case TokenEOF, TokenError:
		return p.unexpected("newline")

	default:
		return ErrExpectedNewline.At(p.current.Pos).Detailf("found %s", p.current)
	}
}

func (p *parser) skipNewlines() {
	for p.check(TokenNewline) {
		p.advance()
	}
}

// unexpected reports the current token where want was expected. A lexical
// error token is reported as the lexical error itself, and end of input as
// [ErrUnexpectedEOF].
func (p *parser) unexpected(want string) error {
	tok := p.current

	switch tok.Kind {
	case TokenError:
		return tok.Err

	case TokenEOF:
		return ErrUnexpectedEOF.At(tok.Pos).Detailf("expected %s", want)

	default:
		return ErrUnexpectedToken.At(tok.Pos).Detailf("%s, expected %s", tok, want)
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return ErrNestingTooDeep.At(p.current.Pos).
			With(slog.Int("max_depth", p.maxDepth))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// describe renders a list of terminator tokens for diagnostics.
func describe(kinds []TokenKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = strconv.Quote(k.String())
	}

	return strings.Join(names, " or ")
}
