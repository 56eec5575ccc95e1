package lang

import (
	"strconv"
	"strings"
)

// Type identifies the dynamic type of a [Value].
type Type int

const (
	TypeInt Type = iota // int
	TypeBool            // bool
	TypeString          // string
	TypeArray           // array
	TypeFunction        // function
	TypeBuiltin         // builtin
)

// Value is a runtime value.
//
// Values are stored and retrieved by copy: Clone returns a value that shares
// no mutable state with the receiver. Int, Bool and String are immutable Go
// values and return themselves.
type Value interface {
	Type() Type
	Clone() Value

	// String returns the textual form used by print and auto-print.
	String() string
}

// Int is a signed 64-bit integer.
type Int int64

// Bool is a boolean.
type Bool bool

// String is an immutable byte string.
type String string

// Array is an ordered sequence of values.
type Array struct {
	Elems []Value
}

// Function is a user-defined function together with the scope it was
// defined in. Closure is shared by every copy of the function, so a closure
// outlives the call that created it for as long as the function is
// reachable.
type Function struct {
	Name    string
	Params  []string
	Body    Block
	Closure *Env
}

// BuiltinFunc implements a native function. Arguments are already evaluated
// and owned by the callee.
type BuiltinFunc func(in *Interpreter, args []Value) (Value, error)

// Builtin is a native function bound in the global scope.
type Builtin struct {
	Name   string
	Params []string // parameter names, for display only
	Fn     BuiltinFunc
}

// NewArray returns an array holding elems.
func NewArray(elems ...Value) *Array {
	return &Array{Elems: elems}
}

func (Int) Type() Type       { return TypeInt }
func (Bool) Type() Type      { return TypeBool }
func (String) Type() Type    { return TypeString }
func (*Array) Type() Type    { return TypeArray }
func (*Function) Type() Type { return TypeFunction }
func (*Builtin) Type() Type  { return TypeBuiltin }

func (v Int) Clone() Value    { return v }
func (v Bool) Clone() Value   { return v }
func (v String) Clone() Value { return v }

// Clone returns a deep copy of the array.
func (v *Array) Clone() Value {
	elems := make([]Value, len(v.Elems))
	for i, e := range v.Elems {
		elems[i] = e.Clone()
	}

	return &Array{Elems: elems}
}

// Clone returns a copy of the function sharing the same body and closure.
// Neither is ever mutated through a Function.
func (v *Function) Clone() Value {
	c := *v

	return &c
}

func (v *Builtin) Clone() Value { return v }

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

func (v Bool) String() string { return strconv.FormatBool(bool(v)) }

func (v String) String() string { return string(v) }

// String renders the array as "[e1, e2, ...]" with string elements quoted.
func (v *Array) String() string {
	var buf strings.Builder

	buf.WriteByte('[')

	for i, e := range v.Elems {
		if i > 0 {
			buf.WriteString(", ")
		}

		if s, ok := e.(String); ok {
			buf.WriteByte('"')
			buf.WriteString(string(s))
			buf.WriteByte('"')
		} else {
			buf.WriteString(e.String())
		}
	}

	buf.WriteByte(']')

	return buf.String()
}

func (v *Function) String() string { return "<fn " + v.Name + ">" }

func (v *Builtin) String() string { return "<builtin " + v.Name + ">" }
