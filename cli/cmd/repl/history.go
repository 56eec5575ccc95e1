package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// historyFileMode is the permission mode of the history file.
const historyFileMode fs.FileMode = 0o600

// Mode prefixes of lines in the history file.
const (
	prefixEval = "E:"
	prefixCtrl = "C:"
)

// Entry is a single submitted line and the mode it was entered in.
type Entry struct {
	Line string
	Mode inputMode
}

func (e Entry) encode() string {
	if e.Mode == modeCtrl {
		return prefixCtrl + e.Line
	}

	return prefixEval + e.Line
}

func decodeEntry(line string) Entry {
	if s, ok := strings.CutPrefix(line, prefixCtrl); ok {
		return Entry{Line: s, Mode: modeCtrl}
	}

	// Lines without a prefix are script input.
	s, _ := strings.CutPrefix(line, prefixEval)

	return Entry{Line: s, Mode: modeEval}
}

// History is the list of submitted lines, persisted one per line to a file.
// Resubmitting a line moves it to the end. A History with an empty path is
// kept in memory only.
type History struct {
	path    string
	entries []Entry
	mu      sync.RWMutex
}

// NewHistory returns an empty history backed by the file at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those read from the history file. A
// missing file is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			h.entries = append(h.entries, decodeEntry(line))
		}
	}

	return scanner.Err()
}

// Add appends line to the history. Blank lines are ignored, and an earlier
// identical entry is removed.
func (h *History) Add(line string, mode inputMode) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	e := Entry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	i := slices.Index(h.entries, e)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, e)

	if h.path == "" {
		return nil
	}

	if i >= 0 {
		return h.rewrite()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, historyFileMode)
	if err != nil {
		return err
	}

	_, err = file.WriteString(e.encode() + "\n")
	if cerr := file.Close(); err == nil {
		err = cerr
	}

	return err
}

// At returns the entry at index i; index 0 is the oldest.
func (h *History) At(i int) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewrite replaces the history file with the current entries.
// Must be called with h.mu held.
func (h *History) rewrite() error {
	var b strings.Builder
	for _, e := range h.entries {
		b.WriteString(e.encode())
		b.WriteByte('\n')
	}

	return os.WriteFile(h.path, []byte(b.String()), historyFileMode)
}
