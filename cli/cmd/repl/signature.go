package repl

import (
	"strings"
	"unicode/utf8"
)

// builtinParams describes the argument shape of each special form and
// builtin procedure for the inline signature hint. A trailing "..."
// entry marks a variadic tail.
var builtinParams = map[string][]string{
	// Special forms.
	"define":          {"symbol", "value"},
	"begin":           {"expr", "..."},
	"lambda":          {"(formals)", "body"},
	"apply":           {"procedure", "arguments"},
	"map":             {"procedure", "items"},
	"set-property":    {"key", "value", "target"},
	"get-property":    {"key", "target"},
	"discrete-plot":   {"data", "options"},
	"continuous-plot": {"function", "bounds", "options"},

	// Builtin procedures.
	"+":      {"x", "y", "..."},
	"-":      {"x", "y"},
	"*":      {"x", "y", "..."},
	"/":      {"x", "y"},
	"sqrt":   {"x"},
	"^":      {"base", "exponent"},
	"ln":     {"x"},
	"sin":    {"radians"},
	"cos":    {"radians"},
	"tan":    {"radians"},
	"real":   {"z"},
	"imag":   {"z"},
	"mag":    {"z"},
	"arg":    {"z"},
	"conj":   {"z"},
	"list":   {"item", "..."},
	"first":  {"items"},
	"rest":   {"items"},
	"length": {"items"},
	"append": {"items", "value"},
	"join":   {"left", "right"},
	"range":  {"begin", "end", "increment"},
}

// callSite describes the open form enclosing the cursor.
type callSite struct {
	name     string // symbol heading the form
	argIndex int    // index of the argument being typed
	inCall   bool   // cursor sits after the head of an open form
}

// detectCallSite finds the innermost unclosed form left of the cursor
// and reports its head symbol and the index of the argument under the
// cursor. Parentheses inside strings do not nest, and everything after a
// comment marker is ignored.
func detectCallSite(input string, cursor int) callSite {
	if cursor > len(input) {
		cursor = len(input)
	}

	inString := false

	var stack []int

	for i, r := range input[:cursor] {
		if inString {
			inString = r != '"'

			continue
		}

		switch r {
		case '"':
			inString = true
		case ';':
			return callSite{}
		case '(':
			stack = append(stack, i)
		case ')':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if inString || len(stack) == 0 {
		return callSite{}
	}

	open := stack[len(stack)-1]

	pos := open + 1
	for pos < cursor {
		r, size := utf8.DecodeRuneInString(input[pos:])
		if r != ' ' && r != '\t' {
			break
		}

		pos += size
	}

	headStart := pos

	for pos < cursor {
		r, size := utf8.DecodeRuneInString(input[pos:])
		if isWordBoundary(r) {
			break
		}

		pos += size
	}

	name := input[headStart:pos]
	if name == "" || pos == cursor {
		// Nothing after the head yet, or still typing it.
		return callSite{}
	}

	return callSite{
		name:     name,
		argIndex: countArgs(input[pos:cursor]),
		inCall:   true,
	}
}

// countArgs returns the index of the argument being typed at the end of
// the text following a form's head. A nested form or string literal
// counts as one argument regardless of its content.
func countArgs(text string) int {
	var (
		args     int
		inToken  bool
		inString bool
		depth    int
	)

	for _, r := range text {
		switch {
		case inString:
			inString = r != '"'
		case depth > 0:
			switch r {
			case '(':
				depth++
			case ')':
				depth--
			case '"':
				inString = true
			}
		case r == ' ' || r == '\t':
			inToken = false
		case r == '(':
			if !inToken {
				args++
				inToken = true
			}

			depth++
		case r == '"':
			if !inToken {
				args++
				inToken = true
			}

			inString = true
		default:
			if !inToken {
				args++
				inToken = true
			}
		}
	}

	// Mid-token the cursor is still on the last counted argument;
	// otherwise it is about to start the next one.
	if inToken {
		return args - 1
	}

	return args
}

// signatureParams resolves the parameter names of a callable: the static
// table covers the special forms and builtin procedures, and a symbol
// bound to a lambda contributes its formal parameters.
func (m model) signatureParams(name string) ([]string, bool) {
	if params, ok := builtinParams[name]; ok {
		return params, true
	}

	value, ok := m.in.Lookup(name)
	if !ok || !value.Head().IsLambda() {
		return nil, false
	}

	formals := value.At(0)
	params := make([]string, 0, formals.TailLen())

	for i := 0; i < formals.TailLen(); i++ {
		params = append(params, formals.At(i).Head().Symbol())
	}

	return params, true
}

// renderSignatureHint draws the form's shape with the argument under the
// cursor highlighted. A variadic tail stays highlighted for every
// argument at or past its position.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureStyle.Render("("))
	b.WriteString(signatureNameStyle.Render(name))

	for i, param := range params {
		b.WriteString(signatureStyle.Render(" "))

		variadic := param == "..." || strings.HasSuffix(param, "...")

		if argIndex == i || (variadic && argIndex >= i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
