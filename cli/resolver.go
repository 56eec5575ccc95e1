package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/dolang/cli/cmd"
	"github.com/ardnew/dolang/log"
)

// resolveYAML returns a [kong.ConfigurationLoader] for YAML config files.
// JSON config files are read with it too.
//
// Top-level keys name global flags. A mapping keyed by a command name holds
// that command's flags, and takes precedence over a top-level key of the
// same name:
//
//	log-level: debug
//	log-pretty: false
//	run:
//	  max-depth: 500
//
// Underscores in keys are equivalent to hyphens. Command-line flags override
// config file values.
func resolveYAML(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		if err != nil {
			return nil, cmd.ErrReadConfig.Wrap(err)
		}

		c := config{}
		c.flatten("", doc)

		log.TraceContext(ctx, "config loaded", slog.Int("keys", len(c)))

		return c, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML document. Keys are
// dot-separated command paths ending in a flag name.
type config map[string]any

// flatten adds the leaves of doc to c under prefix.
func (c config) flatten(prefix string, doc map[string]any) {
	for k, v := range doc {
		key := prefix + strings.ReplaceAll(k, "_", "-")

		if m, ok := v.(map[string]any); ok {
			c.flatten(key+".", m)

			continue
		}

		c[key] = scalar(v)
	}
}

// scalar converts decoded YAML values to the forms kong's mappers accept.
// Numbers are passed as strings so every integer flag type can decode them.
func scalar(v any) any {
	switch v := v.(type) {
	case nil, bool, string:
		return v
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out
	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
	name := strings.ReplaceAll(flag.Name, "_", "-")

	for _, scope := range scopes(parent) {
		if v, ok := c[scope+name]; ok {
			return v, nil
		}
	}

	return nil, nil //nolint:nilnil
}

// scopes returns the key prefixes to search for flags declared at parent,
// most specific first, ending with the top level.
func scopes(parent *kong.Path) []string {
	var names []string

	if parent != nil {
		for n := parent.Command; n != nil && n.Type == kong.CommandNode; n = n.Parent {
			names = append([]string{n.Name}, names...)
		}
	}

	out := make([]string, 0, len(names)+1)
	for i := len(names); i > 0; i-- {
		out = append(out, strings.Join(names[:i], ".")+".")
	}

	return append(out, "")
}
