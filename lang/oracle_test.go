package lang

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/expr-lang/expr"
)

// genInt returns a random integer-valued expression using only operators
// whose semantics agree between this language and expr-lang (no division,
// which expr-lang performs in floating point).
func genInt(r *rand.Rand, depth int) string {
	if depth == 0 || r.IntN(4) == 0 {
		return strconv.Itoa(r.IntN(200) - 100)
	}

	switch r.IntN(4) {
	case 0:
		return "(" + genInt(r, depth-1) + " + " + genInt(r, depth-1) + ")"
	case 1:
		return "(" + genInt(r, depth-1) + " - " + genInt(r, depth-1) + ")"
	case 2:
		return "(" + genInt(r, depth-1) + " * " + genInt(r, depth-1) + ")"
	default:
		return "-(" + genInt(r, depth-1) + ")"
	}
}

// genBool returns a random boolean-valued expression. Integer operands are
// generated one level shallower than depth.
func genBool(r *rand.Rand, depth int) string {
	if depth == 0 || r.IntN(5) == 0 {
		return strconv.FormatBool(r.IntN(2) == 0)
	}

	cmp := []string{"<", "<=", ">", ">=", "==", "!="}

	switch r.IntN(4) {
	case 0:
		return "(" + genInt(r, depth-1) + " " + cmp[r.IntN(len(cmp))] + " " + genInt(r, depth-1) + ")"
	case 1:
		return "(" + genBool(r, depth-1) + " and " + genBool(r, depth-1) + ")"
	case 2:
		return "(" + genBool(r, depth-1) + " or " + genBool(r, depth-1) + ")"
	default:
		return "not (" + genBool(r, depth-1) + ")"
	}
}

// toNative converts an evaluated value to the Go type expr-lang produces.
func toNative(v Value) any {
	switch v := v.(type) {
	case Int:
		return int(v)
	case Bool:
		return bool(v)
	case String:
		return string(v)
	default:
		return v.String()
	}
}

func checkAgainstOracle(t *testing.T, src string) {
	t.Helper()

	want, err := expr.Eval(src, nil)
	if err != nil {
		t.Fatalf("oracle rejected %s: %v", src, err)
	}

	got, err := evalString(t, src)
	if err != nil {
		t.Fatalf("eval %s: %v", src, err)
	}

	if toNative(got) != want {
		t.Errorf("%s: got %v, oracle %v (%T)", src, toNative(got), want, want)
	}
}

func TestOracle_Fixed(t *testing.T) {
	for _, src := range []string{
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"10 - 4 - 3",
		"-3 * -3",
		"2 * 3 < 7 and not false",
		"1 == 1 or 2 * 1 == 3",
		`"foo" + "bar"`,
		`"a" == "a" and "a" != "b"`,
		"not (1 > 2) and 3 >= 3",
	} {
		t.Run(src, func(t *testing.T) {
			checkAgainstOracle(t, src)
		})
	}
}

func TestOracle_Random(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for range 300 {
		checkAgainstOracle(t, genInt(r, 3))
		checkAgainstOracle(t, genBool(r, 4))
	}
}
