package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/sulaip1/plotscript/lang"
)

func TestDetectCallSite(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{
			name:   "bare symbol",
			input:  "radius",
			cursor: 6,
		},
		{
			name:   "still typing head",
			input:  "(def",
			cursor: 4,
		},
		{
			name:   "empty form",
			input:  "(",
			cursor: 1,
		},
		{
			name:       "head complete no args",
			input:      "(+ ",
			cursor:     3,
			wantName:   "+",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:       "typing first arg",
			input:      "(+ 1",
			cursor:     4,
			wantName:   "+",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:       "first arg complete",
			input:      "(+ 1 ",
			cursor:     5,
			wantName:   "+",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "typing second arg",
			input:      "(+ 1 2",
			cursor:     6,
			wantName:   "+",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "nested form counts as one arg",
			input:      "(+ (* 2 3) ",
			cursor:     11,
			wantName:   "+",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "cursor inside nested form",
			input:      "(+ (* 2 3) 4)",
			cursor:     8,
			wantName:   "*",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "lambda second position",
			input:      "(define f (lambda (x) ",
			cursor:     22,
			wantName:   "lambda",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "string counts as one arg",
			input:      `(join "ab" `,
			cursor:     11,
			wantName:   "join",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:   "cursor inside string",
			input:  `(define s "(a`,
			cursor: 13,
		},
		{
			name:   "cursor after comment",
			input:  "(+ 1 ; c",
			cursor: 8,
		},
		{
			name:   "closed form",
			input:  "(+ 1 2)",
			cursor: 7,
		},
		{
			name:       "hyphenated head",
			input:      "(set-property \"size\" ",
			cursor:     21,
			wantName:   "set-property",
			wantIndex:  1,
			wantInCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectCallSite(tt.input, tt.cursor)

			if got.name != tt.wantName {
				t.Errorf("detectCallSite().name = %q, want %q", got.name, tt.wantName)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("detectCallSite().argIndex = %d, want %d", got.argIndex, tt.wantIndex)
			}

			if got.inCall != tt.wantInCall {
				t.Errorf("detectCallSite().inCall = %v, want %v", got.inCall, tt.wantInCall)
			}
		})
	}
}

func TestCountArgs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"only spaces", "   ", 0},
		{"typing first", " 1", 0},
		{"first complete", " 1 ", 1},
		{"typing second", " 1 2", 1},
		{"nested form is one arg", " (f 1 2) ", 1},
		{"string is one arg", ` "a b" `, 1},
		{"string then typing", ` "a b" x`, 1},
		{"two nested forms", " (a) (b) ", 2},
		{"cursor at nested close", " (a) (b)", 1},
		{"spaces inside string ignored", ` "( ; )"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countArgs(tt.text); got != tt.want {
				t.Errorf("countArgs(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestSignatureParams(t *testing.T) {
	in, err := lang.New(t.Context())
	if err != nil {
		t.Fatalf("interpreter error: %v", err)
	}

	source := `(define f (lambda (x y) (+ x y)))
(define n 4)`

	if _, err := in.EvalString(t.Context(), source); err != nil {
		t.Fatalf("eval error: %v", err)
	}

	m := model{in: in}

	tests := []struct {
		name       string
		funcName   string
		wantParams []string
		wantOK     bool
	}{
		{
			name:       "special form define",
			funcName:   "define",
			wantParams: []string{"symbol", "value"},
			wantOK:     true,
		},
		{
			name:       "special form continuous-plot",
			funcName:   "continuous-plot",
			wantParams: []string{"function", "bounds", "options"},
			wantOK:     true,
		},
		{
			name:       "builtin range",
			funcName:   "range",
			wantParams: []string{"begin", "end", "increment"},
			wantOK:     true,
		},
		{
			name:       "variadic builtin",
			funcName:   "+",
			wantParams: []string{"x", "y", "..."},
			wantOK:     true,
		},
		{
			name:       "user lambda formals",
			funcName:   "f",
			wantParams: []string{"x", "y"},
			wantOK:     true,
		},
		{
			name:     "number binding is not callable",
			funcName: "n",
		},
		{
			name:     "constant is not callable",
			funcName: "pi",
		},
		{
			name:     "unbound symbol",
			funcName: "doesnotexist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, ok := m.signatureParams(tt.funcName)

			if ok != tt.wantOK {
				t.Fatalf("signatureParams(%q) ok = %v, want %v", tt.funcName, ok, tt.wantOK)
			}

			if !slices.Equal(params, tt.wantParams) {
				t.Errorf("signatureParams(%q) = %v, want %v", tt.funcName, params, tt.wantParams)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name     string
		funcName string
		params   []string
		argIndex int
	}{
		{"first param", "append", []string{"items", "value"}, 0},
		{"second param", "append", []string{"items", "value"}, 1},
		{"variadic tail", "list", []string{"item", "..."}, 3},
		{"no params past end", "quit", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.funcName, tt.params, tt.argIndex)

			if got == "" {
				t.Fatalf("renderSignatureHint(%q) returned empty string", tt.funcName)
			}

			if !strings.Contains(got, tt.funcName) {
				t.Errorf("renderSignatureHint(%q) = %q, missing name", tt.funcName, got)
			}

			for _, param := range tt.params {
				if !strings.Contains(got, param) {
					t.Errorf("renderSignatureHint(%q) = %q, missing param %q", tt.funcName, got, param)
				}
			}
		})
	}
}

func BenchmarkDetectCallSite(b *testing.B) {
	input := "(define plot (discrete-plot (list (list -1 -1) (list 1 1)) "
	cursor := len(input)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = detectCallSite(input, cursor)
	}
}
