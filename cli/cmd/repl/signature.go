package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // callee identifier
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// frame is an open bracket seen while scanning for the enclosing call.
type frame struct {
	open   byte
	name   string // identifier immediately before an open paren
	commas int
}

// detectFunctionCall reports the innermost call whose argument list contains
// the cursor. Brackets and commas inside string literals are ignored, as are
// commas nested in array literals or other calls.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	var (
		stack  []frame
		quoted bool
	)

	for i := 0; i < cursor; i++ {
		c := input[i]

		if c == '"' {
			quoted = !quoted

			continue
		}

		if quoted {
			continue
		}

		switch c {
		case '(':
			name, _, _ := wordBounds(input[:i], i)
			stack = append(stack, frame{open: c, name: name})

		case '[':
			stack = append(stack, frame{open: c})

		case ')', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].commas++
			}
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		f := stack[i]
		if f.open == '(' && f.name != "" && !isKeyword(f.name) {
			return functionCall{name: f.name, argIndex: f.commas, inCall: true}
		}
	}

	return functionCall{}
}

// renderSignatureHint renders "name(a, b)" with the parameter at argIdx
// highlighted.
func renderSignatureHint(name string, params []string, argIdx int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == argIdx {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
