package lang

// This file defines the native functions bound in every global scope. The
// table is built once per process and copied into each new global scope, so
// a program that rebinds a builtin name never affects another interpreter.

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	builtinsOnce sync.Once
	builtins     map[string]*Builtin
)

// makeBuiltins returns a clone of the lazily-initialized builtin table.
func makeBuiltins() map[string]*Builtin {
	builtinsOnce.Do(func() {
		builtins = map[string]*Builtin{}

		for _, b := range []*Builtin{
			{Name: "print", Params: []string{"value"}, Fn: builtinPrint},
			{Name: "len", Params: []string{"value"}, Fn: builtinLen},
			{Name: "read_file", Params: []string{"path"}, Fn: builtinReadFile},
			{Name: "write_file", Params: []string{"path", "content"}, Fn: builtinWriteFile},
		} {
			builtins[b.Name] = b
		}
	})

	return maps.Clone(builtins)
}

// BuiltinNames returns the sorted names of the builtin functions.
func BuiltinNames() []string {
	return slices.Sorted(maps.Keys(makeBuiltins()))
}

// newGlobalEnv returns a root scope pre-populated with the builtins.
func newGlobalEnv() *Env {
	env := NewEnv(nil)

	for name, b := range makeBuiltins() {
		env.Define(name, b)
	}

	return env
}

func checkArity(name string, args []Value, want int) error {
	if len(args) != want {
		return ErrArityMismatch.Detailf(
			"%s expects %d argument(s), got %d", name, want, len(args))
	}

	return nil
}

func stringArg(name string, args []Value, i int) (string, error) {
	s, ok := args[i].(String)
	if !ok {
		return "", ErrTypeMismatch.Detailf(
			"%s argument %d must be string, got %s", name, i+1, args[i].Type())
	}

	return string(s), nil
}

// print(value) writes the textual form of value and a newline to the
// interpreter's output and returns true.
func builtinPrint(in *Interpreter, args []Value) (Value, error) {
	if err := checkArity("print", args, 1); err != nil {
		return nil, err
	}

	if _, err := io.WriteString(in.stdout, args[0].String()+"\n"); err != nil {
		return nil, ErrWriteOutput.Wrap(err)
	}

	return Bool(true), nil
}

// len(value) returns the byte length of a string or the element count of an
// array.
func builtinLen(_ *Interpreter, args []Value) (Value, error) {
	if err := checkArity("len", args, 1); err != nil {
		return nil, err
	}

	switch v := args[0].(type) {
	case String:
		return Int(len(v)), nil

	case *Array:
		return Int(len(v.Elems)), nil

	default:
		return nil, ErrTypeMismatch.Detailf(
			"len argument must be string or array, got %s", v.Type())
	}
}

// read_file(path) returns [true, content] or [false, message].
func builtinReadFile(in *Interpreter, args []Value) (Value, error) {
	if err := checkArity("read_file", args, 1); err != nil {
		return nil, err
	}

	path, err := stringArg("read_file", args, 0)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		in.logger.Debug("read_file failed",
			slog.String("path", path), slog.Any("error", err))

		return NewArray(Bool(false), String(ioMessage(err))), nil
	}

	in.logger.Trace("read_file",
		slog.String("path", path), slog.Int("bytes", len(data)))

	return NewArray(Bool(true), String(data)), nil
}

// write_file(path, content) returns [true] or [false, message]. The file is
// created or truncated.
func builtinWriteFile(in *Interpreter, args []Value) (Value, error) {
	if err := checkArity("write_file", args, 2); err != nil {
		return nil, err
	}

	path, err := stringArg("write_file", args, 0)
	if err != nil {
		return nil, err
	}

	content, err := stringArg("write_file", args, 1)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		in.logger.Debug("write_file failed",
			slog.String("path", path), slog.Any("error", err))

		return NewArray(Bool(false), String(ioMessage(err))), nil
	}

	in.logger.Trace("write_file",
		slog.String("path", path), slog.Int("bytes", len(content)))

	return NewArray(Bool(true)), nil
}

// ioMessage returns the error text shown to scripts: the underlying cause
// and path, without the Go operation name.
func ioMessage(err error) string {
	if pe, ok := err.(*os.PathError); ok {
		return fmt.Sprintf("%s: %v", pe.Path, pe.Err)
	}

	return err.Error()
}
