package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withStdio replaces the command streams for the duration of the test.
func withStdio(t *testing.T, in string) *bytes.Buffer {
	t.Helper()

	oldIn, oldOut := stdin, stdout
	out := new(bytes.Buffer)
	stdin, stdout = strings.NewReader(in), out

	t.Cleanup(func() { stdin, stdout = oldIn, oldOut })

	return out
}

// writeScript writes src to a file in a temporary directory.
func writeScript(t *testing.T, name, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	return path
}

func TestKongContext(t *testing.T) {
	assert.Nil(t, kongContextFrom(t.Context()))
	assert.Empty(t, kongVar(t.Context(), CacheIdentifier))

	var cli struct {
		Run Run `cmd:"" default:"withargs"`
	}

	parser, err := kong.New(&cli, kong.Vars{
		MaxDepthIdentifier: "7",
		CacheIdentifier:    "/tmp/cache",
	})
	require.NoError(t, err)

	ktx, err := parser.Parse(nil)
	require.NoError(t, err)

	ctx := WithContext(t.Context(), ktx)
	assert.Same(t, ktx, kongContextFrom(ctx))
	assert.Equal(t, "/tmp/cache", kongVar(ctx, CacheIdentifier))
	assert.Equal(t, 7, cli.Run.MaxDepth)
	assert.Equal(t, stdinSource, cli.Run.Source)
}

func TestReadSource_Stdin(t *testing.T) {
	for _, name := range []string{"", stdinSource} {
		t.Run("name="+name, func(t *testing.T) {
			withStdio(t, "x = 1\n")

			src, err := readSource(t.Context(), name)
			require.NoError(t, err)
			assert.Equal(t, source{path: stdinName, text: "x = 1\n"}, src)
		})
	}
}

func TestReadSource_StdinConsumed(t *testing.T) {
	withStdio(t, "x = 1\n")

	_, err := readSource(t.Context(), stdinSource)
	require.NoError(t, err)

	src, err := readSource(t.Context(), stdinSource)
	require.NoError(t, err)
	assert.Empty(t, src.text, "standard input is read once")
}

func TestReadSource_File(t *testing.T) {
	path := writeScript(t, "main.do", "print(1)\n")

	src, err := readSource(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, source{path: path, text: "print(1)\n"}, src)
}

func TestReadSource_Missing(t *testing.T) {
	_, err := readSource(t.Context(), filepath.Join(t.TempDir(), "missing.do"))
	require.ErrorIs(t, err, ErrOpenSource)
	require.ErrorIs(t, err, os.ErrNotExist)
}
