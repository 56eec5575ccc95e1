package lang

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
	"unicode/utf8"
)

// FuzzLexer tests the lexer with random inputs to find edge cases.
func FuzzLexer(f *testing.F) {
	f.Add("x = 1")
	f.Add("\"unterminated")
	f.Add("a != b <= c")
	f.Add("# comment\n\n")
	f.Add("!")
	f.Add("é")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		prev := 0

		for tok := range NewLexer(input).Tokens() {
			if tok.Pos.Offset < prev || tok.Pos.Offset > len(input) {
				t.Fatalf("token %s has offset %d out of order (prev %d)", tok, tok.Pos.Offset, prev)
			}

			if tok.Pos.Line < 1 || tok.Pos.Column < 1 {
				t.Fatalf("token %s has invalid position %s", tok, tok.Pos)
			}

			if tok.Kind == TokenError && tok.Err == nil {
				t.Fatalf("error token without error at %s", tok.Pos)
			}

			prev = tok.Pos.Offset
		}
	})
}

// FuzzParse checks that parsing never panics, that every failure is an
// *Error, and that formatting a parsed program is stable.
func FuzzParse(f *testing.F) {
	f.Add("x = 1 + 2 * 3\n")
	f.Add("fn f(a, b)\n  return a + b\nend\nf(1, 2)\n")
	f.Add("if x\n  y = 1\nelse\n  y = 2\nend\n")
	f.Add("do\n  i = i + 1\nuntil i > 3\n")
	f.Add("[1, [2, 3]][1][0]\n")
	f.Add("not -x == 1 or y")
	f.Add("((((")

	f.Fuzz(func(t *testing.T, input string) {
		ctx := context.Background()

		prog, err := Parse(ctx, input, WithMaxDepth(200))
		if err != nil {
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("non-lang error %T: %v", err, err)
			}

			return
		}

		var first bytes.Buffer
		if err := prog.Format(&first, 2); err != nil {
			t.Fatal(err)
		}

		again, err := Parse(ctx, first.String(), WithMaxDepth(400))
		if err != nil {
			t.Fatalf("formatted output does not parse: %v\n%s", err, first.String())
		}

		if !reflect.DeepEqual(shape(prog), shape(again)) {
			t.Fatalf("formatting changed the program:\n%s", first.String())
		}
	})
}

// FuzzRun checks that evaluation never panics on parseable input.
func FuzzRun(f *testing.F) {
	f.Add("x = 1\nx + 1\n")
	f.Add("fn f(n)\n  if n < 1\n    return 0\n  end\n  return f(n - 1)\nend\nf(5)\n")
	f.Add("[1, 2][3]")
	f.Add("1 / 0")

	f.Fuzz(func(t *testing.T, input string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		prog, err := Parse(ctx, input, WithMaxDepth(100))
		if err != nil {
			return
		}

		// Unbounded loops are possible; a canceled context stops them at
		// the first iteration or call.
		cancel()

		in := New(WithStdout(nil), WithMaxDepth(100))

		if err := in.Run(ctx, prog); err != nil {
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("non-lang error %T: %v", err, err)
			}
		}
	})
}
