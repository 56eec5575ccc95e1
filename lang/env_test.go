package lang

import (
	"slices"
	"testing"
)

func TestEnv_DefineGet(t *testing.T) {
	env := NewEnv(nil)
	env.Define("x", Int(1))

	v, ok := env.Get("x")
	if !ok || v != Int(1) {
		t.Fatalf("got %v, %v", v, ok)
	}

	if _, ok := env.Get("missing"); ok {
		t.Error("expected missing name to be unbound")
	}
}

func TestEnv_LookupWalksOutward(t *testing.T) {
	global := NewEnv(nil)
	global.Define("x", Int(1))
	global.Define("y", Int(2))

	local := NewEnv(global)
	local.Define("x", Int(10))

	if v, _ := local.Get("x"); v != Int(10) {
		t.Errorf("inner binding should shadow: got %v", v)
	}

	if v, _ := local.Get("y"); v != Int(2) {
		t.Errorf("outer binding should be visible: got %v", v)
	}

	if v, _ := global.Get("x"); v != Int(1) {
		t.Errorf("shadowing modified outer scope: got %v", v)
	}

	if local.Parent() != global || global.Parent() != nil {
		t.Error("unexpected parent chain")
	}
}

func TestEnv_Assign(t *testing.T) {
	global := NewEnv(nil)
	global.Define("x", Int(1))

	local := NewEnv(global)

	if !local.Assign("x", Int(5)) {
		t.Fatal("assign to outer binding failed")
	}

	if local.HasLocal("x") {
		t.Error("assign created a local binding")
	}

	if v, _ := global.Get("x"); v != Int(5) {
		t.Errorf("got %v, want 5", v)
	}

	if local.Assign("nope", Int(1)) {
		t.Error("assign to unbound name reported success")
	}

	if _, ok := local.Get("nope"); ok {
		t.Error("failed assign created a binding")
	}
}

func TestEnv_HasLocal(t *testing.T) {
	global := NewEnv(nil)
	global.Define("f", Int(1))

	local := NewEnv(global)

	if local.HasLocal("f") {
		t.Error("HasLocal should ignore parent scopes")
	}

	if !global.HasLocal("f") {
		t.Error("HasLocal should see own bindings")
	}
}

func TestEnv_CopyOnStoreAndRetrieve(t *testing.T) {
	env := NewEnv(nil)

	arr := NewArray(Int(1), Int(2))
	env.Define("a", arr)

	arr.Elems[0] = Int(100)

	got, _ := env.Get("a")
	if got.String() != "[1, 2]" {
		t.Fatalf("store did not copy: %s", got)
	}

	got.(*Array).Elems[1] = Int(200)

	again, _ := env.Get("a")
	if again.String() != "[1, 2]" {
		t.Errorf("retrieve did not copy: %s", again)
	}
}

func TestEnv_Names(t *testing.T) {
	global := newGlobalEnv()
	global.Define("zeta", Int(1))

	local := NewEnv(global)
	local.Define("alpha", Int(2))
	local.Define("print", Int(3))

	names := local.Names()

	if !slices.IsSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}

	want := []string{"alpha", "len", "print", "read_file", "write_file", "zeta"}
	if !slices.Equal(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestEnv_NamesEmpty(t *testing.T) {
	if names := NewEnv(nil).Names(); len(names) != 0 {
		t.Errorf("expected no names, got %v", names)
	}

	outer := NewEnv(nil)
	outer.Define("b", Int(1))

	inner := NewEnv(outer)
	inner.Define("b", Int(2))
	inner.Define("a", Int(3))

	if names := inner.Names(); !slices.Equal(names, []string{"a", "b"}) {
		t.Errorf("shadowed name listed twice or unsorted: %v", names)
	}
}

func TestEnv_All(t *testing.T) {
	env := NewEnv(nil)
	env.Define("b", Int(2))
	env.Define("a", Int(1))

	var got []string
	for name, v := range env.All() {
		got = append(got, name+"="+v.String())
	}

	if !slices.Equal(got, []string{"a=1", "b=2"}) {
		t.Errorf("got %v", got)
	}
}
