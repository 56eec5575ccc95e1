package lang

import (
	"iter"
	"maps"
	"slices"
)

// Env is one scope of the lexical environment chain.
//
// Every binding holds its own copy of a value: Define and Assign store a
// clone, and Get returns a clone, so two live bindings never alias the same
// array. Scopes are ordinary garbage-collected objects; a scope captured as
// a [Function] closure stays alive as long as the function is reachable.
//
// An Env is not safe for concurrent use.
type Env struct {
	parent *Env
	vars   map[string]Value
}

// NewEnv returns an empty scope whose lookups fall back to parent.
// A nil parent creates a root scope.
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: make(map[string]Value)}
}

// Parent returns the enclosing scope, or nil for a root scope.
func (e *Env) Parent() *Env { return e.parent }

// Define binds name in this scope to a copy of v, replacing any existing
// binding of name in this scope.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v.Clone()
}

// Assign replaces the value of the innermost binding of name with a copy of
// v. It reports false, and changes nothing, if name is not bound anywhere in
// the chain.
func (e *Env) Assign(name string, v Value) bool {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v.Clone()

			return true
		}
	}

	return false
}

// Get returns an independent copy of the innermost binding of name.
func (e *Env) Get(name string) (Value, bool) {
	v, ok := e.lookup(name)
	if !ok {
		return nil, false
	}

	return v.Clone(), true
}

// lookup returns the stored value itself, without copying. Callers must not
// let it escape into another binding.
func (e *Env) lookup(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// HasLocal reports whether name is bound in this scope, ignoring parents.
func (e *Env) HasLocal(name string) bool {
	_, ok := e.vars[name]

	return ok
}

// Names returns the sorted names visible from this scope, including those
// inherited from enclosing scopes.
func (e *Env) Names() []string {
	seen := make(map[string]struct{})

	for s := e; s != nil; s = s.parent {
		for name := range s.vars {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// All returns an iterator over copies of the bindings of this scope only,
// in name order.
func (e *Env) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range slices.Sorted(maps.Keys(e.vars)) {
			if !yield(name, e.vars[name].Clone()) {
				return
			}
		}
	}
}
