package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/dolang/lang"
)

// evalDoneMsg is sent when a program run in the background finishes.
type evalDoneMsg struct {
	output string
	source string
	err    error
}

// editDoneMsg is sent when the editor produced a script that parses.
type editDoneMsg struct {
	prog   *lang.Program
	source string
}

// editCancelledMsg is sent when the user cleared the editor content or
// declined to re-edit after a parse error.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	contPrompt = "… "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode, or prefix with ':' in eval mode):

  help     Print this help
  vars     List global bindings
  reset    Discard all bindings
  edit     Write a script in $EDITOR and run it
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a statement to run it; expression values print as "=> value"
  An unfinished statement (if, do, fn, unclosed string) continues on the
    next line until it is complete
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C to interrupt a running program or discard unfinished input
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

var keywords = lang.Keywords()

func isKeyword(name string) bool { return slices.Contains(keywords, name) }

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx        context.Context
	session    *Session
	input      textinput.Model
	history    *History
	historyIdx int

	pending []string           // lines of an unfinished statement
	running bool               // a program is running in the background
	cancel  context.CancelFunc // interrupts the running program

	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began

	width    int // terminal width for ellipsization
	quitting bool

	mode       inputMode
	evalText   string
	evalCursor int
	ctrlText   string
	ctrlCursor int
}

// Run starts an interactive session on the terminal. History is persisted
// under cacheDir, or kept in memory if cacheDir is empty.
func Run(ctx context.Context, session *Session, cacheDir string) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if !term.IsTerminal(os.Stdin.Fd()) {
		return ErrNotTerminal
	}

	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		session.logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}

	session.logger.TraceContext(ctx, "repl start",
		slog.String("history", path),
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, session, history), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, session *Session, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		session:    session,
		input:      ti,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-2, 1)

		return m, nil

	case evalDoneMsg:
		m.running = false
		m.cancel = nil

		return m, report(msg.output, msg.source, msg.err)

	case editDoneMsg:
		lines := strings.Count(strings.TrimRight(msg.source, "\n"), "\n") + 1

		var run tea.Cmd

		m, run = m.runProgram(msg.prog, msg.source)

		return m, tea.Sequence(
			tea.Println(hintStyle.Render(fmt.Sprintf("running edited script (%d lines)", lines))),
			run,
		)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("edit: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, cursorOffset(input, m.input.Position()))

	switch {
	case m.running:
		b.WriteString(hintStyle.Render("running (Ctrl+C to interrupt)"))

	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		var hint string

		switch {
		case m.mode == modeCtrl:
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		case len(m.pending) > 0:
			hint = "Continue the statement (Ctrl+C discards it)"
		default:
			hint = "Type a statement, :help for commands, or press Esc"
		}

		b.WriteString(hintStyle.Render(hint))

	case call.inCall && m.mode == modeEval && !m.tabActive:
		if params, ok := m.session.signature(call.name); ok {
			b.WriteString(renderSignatureHint(call.name, params, call.argIndex))

			break
		}

		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width, m.session.isFunction))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width, m.session.isFunction))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.running {
		if msg.Type == tea.KeyCtrlC && m.cancel != nil {
			m.cancel()
		}

		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m.pending = nil
		m.input.Prompt = m.prompt()
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.setInput("")

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.submit()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyPrev(), nil

	case tea.KeyDown:
		return m.historyNext(), nil

	case tea.KeyShiftUp:
		return m.historyPrevInMode(), nil

	case tea.KeyShiftDown:
		return m.historyNextInMode(), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil

	case tea.KeyRunes:
		// Space ends tab-cycling and keeps the current candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping around. A single
// candidate is completed immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// cursorOffset converts the rune cursor position pos in s to a byte offset.
func cursorOffset(s string, pos int) int {
	off := 0
	for i := 0; i < pos && off < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[off:])
		off += size
	}

	return off
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(utf8.RuneCountInString(newInput[:newCursor]))

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also dismisses the completion bar when exactly
// one candidate remains and the typed word already equals it. autoConfirm
// should be false for deletions and cursor navigation.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// setInput replaces the input text and moves the cursor to its end.
func (m *model) setInput(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
	refreshMatches(m, false)
}

// prompt returns the rendered prompt for the current mode and input state.
func (m model) prompt() string {
	switch {
	case m.mode == modeCtrl:
		return ctrlPromptStyle.Render(ctrlPrompt)
	case len(m.pending) > 0:
		return promptStyle.Render(contPrompt)
	default:
		return promptStyle.Render(evalPrompt)
	}
}

// pendingText returns the unfinished statement lines, newline-terminated.
func (m model) pendingText() string {
	if len(m.pending) == 0 {
		return ""
	}

	return strings.Join(m.pending, "\n") + "\n"
}

// submit handles Enter outside tab-cycling.
func (m model) submit() (model, tea.Cmd) {
	line := m.input.Value()
	echo := tea.Println(m.prompt() + inputStyle.Render(line))

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if m.mode == modeCtrl {
		input := strings.TrimSpace(line)
		if input == "" {
			return m, nil
		}

		m.addHistory(input, modeCtrl)

		return m.executeCommand(input, echo)
	}

	if len(m.pending) == 0 {
		input := strings.TrimSpace(line)
		if input == "" {
			return m, nil
		}

		if cmd, ok := strings.CutPrefix(input, ":"); ok {
			m.addHistory(strings.TrimSpace(cmd), modeCtrl)

			return m.executeCommand(cmd, echo)
		}
	}

	m.addHistory(line, modeEval)

	src := m.pendingText() + line + "\n"

	prog, err := m.session.Parse(m.ctx, src)
	if err != nil && incomplete(err) {
		m.pending = append(m.pending, line)
		m.input.Prompt = m.prompt()

		return m, echo
	}

	m.pending = nil
	m.input.Prompt = m.prompt()

	if err != nil {
		return m, tea.Sequence(echo, report("", src, err))
	}

	m, run := m.runProgram(prog, src)

	return m, tea.Sequence(echo, run)
}

func (m *model) addHistory(line string, mode inputMode) {
	if err := m.history.Add(line, mode); err != nil {
		m.session.logger.DebugContext(m.ctx, "history write failed", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
}

// runProgram returns a command that runs prog in the background. Ctrl+C
// cancels it while it runs.
func (m model) runProgram(prog *lang.Program, source string) (model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctx)

	m.running = true
	m.cancel = cancel
	session := m.session

	return m, func() tea.Msg {
		defer cancel()

		out, err := session.Run(ctx, prog)

		return evalDoneMsg{output: out, source: source, err: err}
	}
}

// report prints program output followed by err, if any, annotated with the
// offending line of source.
func report(output, source string, err error) tea.Cmd {
	var cmds []tea.Cmd

	if output != "" {
		cmds = append(cmds, tea.Println(strings.TrimSuffix(output, "\n")))
	}

	if err != nil {
		msg := strings.TrimSuffix(lang.WrapError(err).Snippet(source), "\n")
		cmds = append(cmds, tea.Println(errorStyle.Render(msg)))
	}

	if len(cmds) == 0 {
		return nil
	}

	return tea.Sequence(cmds...)
}

func (m model) executeCommand(input string, echo tea.Cmd) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, echo
	}

	m.session.logger.TraceContext(m.ctx, "repl command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "r", "reset":
		m.session.Reset()
		m.pending = nil
		m.input.Prompt = m.prompt()

		return m, tea.Sequence(echo, tea.Println(resultStyle.Render("bindings discarded")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		var edit tea.Cmd

		m, edit = m.handleEdit()

		return m, tea.Sequence(echo, edit)

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("Unknown command: "+parts[0]+" (try 'help')"),
		))
	}
}

func (m model) listBindings() string {
	bindings := m.session.Bindings()
	if len(bindings) == 0 {
		return hintStyle.Render("  no bindings")
	}

	var b strings.Builder

	for i, s := range bindings {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString("  " + s)
	}

	return b.String()
}

// handleEdit opens the editor on the unfinished statement, if any.
func (m model) handleEdit() (model, tea.Cmd) {
	cmd := &editCommand{
		ctx:     m.ctx,
		session: m.session,
		content: m.pendingText(),
	}

	m.pending = nil
	m.input.Prompt = m.prompt()

	return m, tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editCancelledMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.prog == nil:
			return editCancelledMsg{}
		default:
			return editDoneMsg{prog: cmd.prog, source: cmd.source}
		}
	})
}

// showHistory loads history entry i into the input, switching to its mode.
func (m model) showHistory(i int) model {
	entry, err := m.history.At(i)
	if err != nil {
		return m
	}

	m.historyIdx = i

	if m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.setInput(entry.Line)

	return m
}

func (m model) historyPrev() model {
	if m.historyIdx > 0 {
		return m.showHistory(m.historyIdx - 1)
	}

	return m
}

func (m model) historyNext() model {
	if m.historyIdx < m.history.Len()-1 {
		return m.showHistory(m.historyIdx + 1)
	}

	m.historyIdx = m.history.Len()
	m.setInput("")

	return m
}

func (m model) historyPrevInMode() model {
	for i := m.historyIdx - 1; i >= 0; i-- {
		if entry, err := m.history.At(i); err == nil && entry.Mode == m.mode {
			return m.showHistory(i)
		}
	}

	return m
}

func (m model) historyNextInMode() model {
	for i := m.historyIdx + 1; i < m.history.Len(); i++ {
		if entry, err := m.history.At(i); err == nil && entry.Mode == m.mode {
			return m.showHistory(i)
		}
	}

	// Reached end of mode-specific history, clear input
	if m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.setInput("")
	}

	return m
}

// switchToMode switches to the specified mode, preserving each mode's input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m.input.Prompt = m.prompt()

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
