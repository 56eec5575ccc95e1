package lang

import (
	"iter"
	"unicode/utf8"
)

// Lexer converts source text into a sequence of tokens.
//
// A Lexer is a plain value: copying it snapshots the scan position, and the
// copy can be advanced without affecting the original. The parser relies on
// this for its two-token lookahead.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
}

// NewLexer returns a lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokens returns an iterator over the remaining tokens. The sequence ends
// after the first [TokenEOF] or [TokenError] token, which is yielded.
func (l *Lexer) Tokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok := l.Next()
			if !yield(tok) {
				return
			}

			if tok.Kind == TokenEOF || tok.Kind == TokenError {
				return
			}
		}
	}
}

// Next scans and returns the next token.
//
// Spaces, tabs, carriage returns and comments ('#' to end of line) are
// skipped. Newlines are significant and returned as [TokenNewline]. Once the
// input is exhausted every call returns [TokenEOF].
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	start := l.position()

	if l.eof() {
		return Token{Kind: TokenEOF, Pos: start}
	}

	c := l.advance()

	switch {
	case c == '\n':
		return l.make(TokenNewline, start)

	case isDigit(c):
		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}

		return l.make(TokenInt, start)

	case isIdentStart(c):
		for !l.eof() && isIdentContinue(l.peek()) {
			l.advance()
		}

		tok := l.make(TokenIdent, start)
		if kind, ok := keywords[tok.Text]; ok {
			tok.Kind = kind
		}

		return tok

	case c == '"':
		return l.scanString(start)
	}

	switch c {
	case '=':
		return l.pair('=', TokenEq, TokenAssign, start)
	case '<':
		return l.pair('=', TokenLte, TokenLt, start)
	case '>':
		return l.pair('=', TokenGte, TokenGt, start)
	case '!':
		if l.match('=') {
			return l.make(TokenNeq, start)
		}

		return l.fail(start, ErrUnexpectedChar.Detailf("'!' must be followed by '='"))
	case '+':
		return l.make(TokenPlus, start)
	case '-':
		return l.make(TokenMinus, start)
	case '*':
		return l.make(TokenStar, start)
	case '/':
		return l.make(TokenSlash, start)
	case '(':
		return l.make(TokenLParen, start)
	case ')':
		return l.make(TokenRParen, start)
	case '[':
		return l.make(TokenLBracket, start)
	case ']':
		return l.make(TokenRBracket, start)
	case ',':
		return l.make(TokenComma, start)
	}

	// Consume the remainder of a multi-byte character so the error token
	// carries the whole rune.
	l.pos = start.Offset
	l.col = start.Column

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	l.col++

	return l.fail(start, ErrUnexpectedChar.Detailf("%q", r))
}

// scanString scans a double-quoted string literal. The opening quote has
// already been consumed. There are no escape sequences; embedded newlines
// are allowed and advance the line counter.
func (l *Lexer) scanString(start Position) Token {
	for !l.eof() && l.peek() != '"' {
		l.advance()
	}

	if l.eof() {
		return l.fail(start, ErrUnterminatedString)
	}

	l.advance() // closing quote

	return l.make(TokenString, start)
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()

		case '#':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		default:
			return
		}
	}
}

// pair returns two if the next byte is next, otherwise one.
func (l *Lexer) pair(next byte, two, one TokenKind, start Position) Token {
	if l.match(next) {
		return l.make(two, start)
	}

	return l.make(one, start)
}

func (l *Lexer) make(kind TokenKind, start Position) Token {
	return Token{
		Kind: kind,
		Text: l.src[start.Offset:l.pos],
		Pos:  start,
	}
}

func (l *Lexer) fail(start Position, err *Error) Token {
	tok := l.make(TokenError, start)
	tok.Err = err.At(start)

	return tok
}

// Helper methods

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() byte { return l.src[l.pos] }

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++

	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return c
}

func (l *Lexer) match(c byte) bool {
	if l.eof() || l.peek() != c {
		return false
	}

	l.advance()

	return true
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// Character classification

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentContinue(c byte) bool { return isIdentStart(c) || isDigit(c) }
