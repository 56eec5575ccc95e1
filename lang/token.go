package lang

//go:generate go tool stringer --linecomment --type TokenKind,Type --output kind_string.go

import "strconv"

// Position identifies a location in source text.
// Line and Column are 1-based; Offset is the 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Pos returns the position itself. It lets AST nodes that embed a Position
// satisfy [Node].
func (p Position) Pos() Position { return p }

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// TokenKind classifies a lexical token. Its String method returns the
// source spelling of keywords, operators and punctuation, and a descriptive
// name for every other kind.
type TokenKind int

const (
	TokenEOF TokenKind = iota // end of input
	TokenError                // error
	TokenNewline              // newline

	TokenInt    // integer
	TokenString // string
	TokenIdent  // identifier

	// Keywords.
	TokenIf     // if
	TokenElse   // else
	TokenDo     // do
	TokenEnd    // end
	TokenFn     // fn
	TokenReturn // return
	TokenAnd    // and
	TokenOr     // or
	TokenNot    // not
	TokenTrue   // true
	TokenFalse  // false
	TokenUntil  // until

	// Operators.
	TokenAssign // =
	TokenPlus   // +
	TokenMinus  // -
	TokenStar   // *
	TokenSlash  // /
	TokenEq     // ==
	TokenNeq    // !=
	TokenLt     // <
	TokenLte    // <=
	TokenGt     // >
	TokenGte    // >=

	// Punctuation.
	TokenLParen   // (
	TokenRParen   // )
	TokenLBracket // [
	TokenRBracket // ]
	TokenComma    // ,
)

// keywords maps reserved words to their token kinds. Matching is exact and
// case-sensitive.
var keywords = map[string]TokenKind{
	"if":     TokenIf,
	"else":   TokenElse,
	"do":     TokenDo,
	"end":    TokenEnd,
	"fn":     TokenFn,
	"return": TokenReturn,
	"and":    TokenAnd,
	"or":     TokenOr,
	"not":    TokenNot,
	"true":   TokenTrue,
	"false":  TokenFalse,
	"until":  TokenUntil,
}

// Keywords returns the reserved words of the language in declaration order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := TokenIf; k <= TokenUntil; k++ {
		out = append(out, k.String())
	}

	return out
}

// Token is a single lexical unit.
type Token struct {
	Kind TokenKind
	Text string // source text of the token (strings include their quotes)
	Err  *Error // lexical error, set only for TokenError
	Pos  Position
}

// String returns a description of the token suitable for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case TokenEOF, TokenNewline:
		return t.Kind.String()

	case TokenInt, TokenString, TokenIdent, TokenError:
		return t.Kind.String() + " " + strconv.Quote(t.Text)

	default:
		return strconv.Quote(t.Kind.String())
	}
}
