package lang

import "testing"

// sameValue reports whether two values are equal under the == operator's rules
// for comparable types, and structurally for arrays. Values of different
// types are never equal. Functions and builtins compare by identity.
func sameValue(a, b Value) bool {
	switch x := a.(type) {
	case Int, Bool, String:
		return a == b

	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}

		for i := range x.Elems {
			if !sameValue(x.Elems[i], y.Elems[i]) {
				return false
			}
		}

		return true

	case *Function:
		y, ok := b.(*Function)

		return ok && x.Closure == y.Closure && x.Name == y.Name

	default:
		return a == b
	}
}

func TestValue_String(t *testing.T) {
	fn := &Function{Name: "f"}

	tests := []struct {
		value Value
		want  string
	}{
		{Int(-42), "-42"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{String("plain text"), "plain text"},
		{NewArray(), "[]"},
		{NewArray(Int(1), String("a"), Bool(false)), `[1, "a", false]`},
		{NewArray(NewArray(String("x")), NewArray()), `[["x"], []]`},
		{fn, "<fn f>"},
		{&Builtin{Name: "len"}, "<builtin len>"},
	}

	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.value.Type(), got, tt.want)
		}
	}
}

func TestValue_Type(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Int(0), "int"},
		{Bool(false), "bool"},
		{String(""), "string"},
		{NewArray(), "array"},
		{&Function{}, "function"},
		{&Builtin{}, "builtin"},
	}

	for _, tt := range tests {
		if got := tt.value.Type().String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}

	if got := Type(6).String(); got != "Type(6)" {
		t.Errorf("unknown type: got %q", got)
	}
}

func TestValue_CloneArrayIsDeep(t *testing.T) {
	inner := NewArray(Int(1))
	outer := NewArray(inner, String("s"))

	clone := outer.Clone().(*Array)
	clone.Elems[0].(*Array).Elems[0] = Int(2)
	clone.Elems[1] = String("t")

	if outer.String() != `[[1], "s"]` {
		t.Errorf("clone shares state with original: %s", outer)
	}
}

func TestValue_CloneFunctionSharesClosure(t *testing.T) {
	env := NewEnv(nil)
	fn := &Function{Name: "f", Params: []string{"a"}, Closure: env}

	clone := fn.Clone().(*Function)
	if clone == fn {
		t.Error("clone returned the same pointer")
	}

	if clone.Closure != env {
		t.Error("clone does not share the closure scope")
	}

	if !sameValue(fn, clone) {
		t.Error("function clone not equal to original")
	}
}

func TestSameValue(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{Int(1), Int(1), true},
		{Int(1), Int(2), false},
		{Int(1), String("1"), false},
		{String("a"), String("a"), true},
		{Bool(true), Bool(true), true},
		{NewArray(Int(1)), NewArray(Int(1)), true},
		{NewArray(Int(1)), NewArray(Int(1), Int(2)), false},
		{NewArray(Int(1)), Int(1), false},
	}

	for _, tt := range tests {
		if got := sameValue(tt.a, tt.b); got != tt.want {
			t.Errorf("sameValue(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
