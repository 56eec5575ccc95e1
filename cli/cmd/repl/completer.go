package repl

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/dolang/lang"
)

// ctrlCommands are the available command-mode commands.
var ctrlCommands = []string{"help", "vars", "reset", "edit", "clear", "quit"}

// isWordByte reports whether c may appear in an identifier.
func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// wordBounds returns the identifier at the cursor position and its byte
// boundaries within input. The word is empty when the cursor sits between
// two non-identifier characters.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 && isWordByte(input[start-1]) {
		start--
	}

	end = cursor
	for end < len(input) && isWordByte(input[end]) {
		end++
	}

	return input[start:end], start, end
}

// inString reports whether offset lies inside a string literal, given that
// line begins outside one.
func inString(line string, offset int) bool {
	return strings.Count(line[:min(offset, len(line))], `"`)%2 == 1
}

// commandWord reports whether the word starting at start is a command name
// typed after the ':' prefix in eval mode.
func commandWord(input string, start int) bool {
	return strings.TrimSpace(input[:start]) == ":"
}

// candidateNames returns the completion candidates for a word beginning at
// start: command names in command mode, otherwise the names visible in the
// session followed by the keywords.
func (m model) candidateNames(input string, start int) []string {
	if m.mode == modeCtrl || commandWord(input, start) {
		return ctrlCommands
	}

	names := m.session.Global().Names()
	for _, kw := range lang.Keywords() {
		if !slices.Contains(names, kw) {
			names = append(names, kw)
		}
	}

	return names
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best-first, and the word's boundaries. There are no
// matches for an empty word or a word inside a string literal.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)
	if word == "" || (m.mode == modeEval && inString(m.pendingText()+input, len(m.pendingText())+wordStart)) {
		return nil, wordStart, wordEnd
	}

	// Identifiers cannot start with a digit, so neither can a completion.
	if word[0] >= '0' && word[0] <= '9' {
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, m.candidateNames(input, wordStart)), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style. Names for which isFunc reports true get a "()" suffix.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc != nil && isFunc(match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		reserve := ellipsisWidth
		if last {
			reserve = 0
		}

		if i > 0 && used+entryWidth+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if function {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
