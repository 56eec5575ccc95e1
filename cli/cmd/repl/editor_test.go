package repl

import (
	"bytes"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditor_Selection(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	assert.Equal(t, []string{defaultEditor}, editor())

	t.Setenv("EDITOR", "nano -w")
	assert.Equal(t, []string{"nano", "-w"}, editor())

	t.Setenv("VISUAL", "code --wait")
	assert.Equal(t, []string{"code", "--wait"}, editor())
}

// newEditCommand returns an editCommand whose editor exits immediately,
// leaving content unchanged.
func newEditCommand(t *testing.T, content, answer string) (*editCommand, *bytes.Buffer) {
	t.Helper()

	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("no 'true' executable")
	}

	t.Setenv("VISUAL", "true")

	stderr := new(bytes.Buffer)
	cmd := &editCommand{
		ctx:     t.Context(),
		session: newTestSession(t),
		content: content,
	}
	cmd.SetStdin(strings.NewReader(answer))
	cmd.SetStdout(new(bytes.Buffer))
	cmd.SetStderr(stderr)

	return cmd, stderr
}

func TestEditCommand_Parses(t *testing.T) {
	cmd, _ := newEditCommand(t, "x = 1\nx\n", "")

	require.NoError(t, cmd.Run())
	require.NotNil(t, cmd.prog)
	assert.Equal(t, "x = 1\nx\n", cmd.source)
	assert.Len(t, cmd.prog.Stmts, 2)
}

func TestEditCommand_EmptyCancels(t *testing.T) {
	cmd, _ := newEditCommand(t, "  \n", "")

	require.NoError(t, cmd.Run())
	assert.Nil(t, cmd.prog)
}

func TestEditCommand_Declined(t *testing.T) {
	cmd, stderr := newEditCommand(t, "x = (\n", "n\n")

	require.ErrorIs(t, cmd.Run(), ErrEditDeclined)
	assert.Nil(t, cmd.prog)
	assert.Contains(t, stderr.String(), "syntax error")
}

func TestEditCommand_NoAnswer(t *testing.T) {
	cmd, _ := newEditCommand(t, "x = (\n", "")

	require.ErrorIs(t, cmd.Run(), ErrEditDeclined)
}
