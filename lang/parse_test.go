package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestTokenize_Kinds(t *testing.T) {
	tokens, err := Tokenize(`(define x "two words") ; trailing comment`)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	want := []TokenKind{TokenLeftParen, TokenAtom, TokenAtom, TokenString, TokenRightParen}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}

	for i, kind := range want {
		if tokens[i].Kind != kind {
			t.Errorf("token %d: expected %v, got %v", i, kind, tokens[i].Kind)
		}
	}

	if tokens[3].Text != "two words" {
		t.Errorf("expected string contents without quotes, got %q", tokens[3].Text)
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize("(one\n  two)")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	tests := []struct {
		index     int
		line, col int
	}{
		{index: 0, line: 1, col: 1}, // (
		{index: 1, line: 1, col: 2}, // one
		{index: 2, line: 2, col: 3}, // two
		{index: 3, line: 2, col: 6}, // )
	}

	for _, tt := range tests {
		tok := tokens[tt.index]
		if tok.Line != tt.line || tok.Col != tt.col {
			t.Errorf("token %d %q: expected %d:%d, got %d:%d",
				tt.index, tok.Text, tt.line, tt.col, tok.Line, tok.Col)
		}
	}
}

func TestTokenize_CommentsSkipped(t *testing.T) {
	tokens, err := Tokenize("; full line\n1 ; tail\n; another\n2")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
}

func TestTokenize_UnterminatedString(t *testing.T) {
	_, err := Tokenize(`(define s "no closing`)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}

	pe := &ParseError{}
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T", err)
	}

	if pe.Line != 1 || pe.Col != 11 {
		t.Errorf("expected position 1:11, got %d:%d", pe.Line, pe.Col)
	}
}

func TestParseExpression_Atoms(t *testing.T) {
	tests := []struct {
		name   string
		source string
		head   Atom
	}{
		{name: "integer", source: "42", head: NumberAtom(42)},
		{name: "negative", source: "-4.5", head: NumberAtom(-4.5)},
		{name: "signed positive", source: "+2", head: NumberAtom(2)},
		{name: "leading point", source: ".5", head: NumberAtom(0.5)},
		{name: "exponent", source: "1e3", head: NumberAtom(1000)},
		{name: "negative exponent", source: "2.5e-2", head: NumberAtom(0.025)},
		{name: "symbol", source: "foo", head: SymbolAtom("foo")},
		{name: "bare minus is a symbol", source: "-", head: SymbolAtom("-")},
		{name: "string", source: `"hi there"`, head: StringAtom("hi there")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := ParseExpression(tt.source)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if !exp.Head().Equal(tt.head) {
				t.Errorf("expected head %v, got %v", tt.head, exp.Head())
			}

			if exp.TailLen() != 0 {
				t.Errorf("expected no children, got %d", exp.TailLen())
			}
		})
	}
}

func TestParseExpression_Form(t *testing.T) {
	exp, err := ParseExpression("(+ 1 (* 2 3))")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if exp.Head().Symbol() != "+" || exp.TailLen() != 2 {
		t.Fatalf("expected (+ _ _), got %v", exp)
	}

	nested := exp.At(1)
	if nested.Head().Symbol() != "*" || nested.TailLen() != 2 {
		t.Errorf("expected nested (* _ _), got %v", nested)
	}

	if !nested.At(0).Head().Equal(NumberAtom(2)) {
		t.Errorf("expected 2, got %v", nested.At(0))
	}
}

func TestParseExpression_TrailingInput(t *testing.T) {
	_, err := ParseExpression("(+ 1 2) extra")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}

	if !strings.Contains(err.Error(), "unexpected input after expression") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestParseProgram_Counts(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{name: "single form", source: "(define x 1)", want: 1},
		{name: "sequence", source: "(define x 1) (define y 2) (+ x y)", want: 3},
		{name: "across lines", source: "(define x 1)\n(+ x\n   2)\n", want: 2},
		{name: "bare atoms", source: "1 two \"three\"", want: 3},
		{name: "comments between", source: "; head\n1\n; middle\n2", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := ParseProgram(tt.source)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if len(program) != tt.want {
				t.Errorf("expected %d expressions, got %d", tt.want, len(program))
			}
		})
	}
}

func TestParseProgram_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		msg    string
	}{
		{name: "empty source", source: "", msg: "empty program"},
		{name: "only comments", source: " ; nothing here\n", msg: "empty program"},
		{name: "empty parens", source: "()", msg: "empty expression"},
		{name: "compound head", source: "((f) 1)", msg: "expected a symbol or number"},
		{name: "string head", source: `("f" 1)`, msg: "a string cannot head an expression"},
		{name: "unbalanced open", source: "(define x", msg: "unbalanced parentheses"},
		{name: "unbalanced nested", source: "(begin (define x 1)", msg: "unbalanced parentheses"},
		{name: "stray close", source: ")", msg: "unexpected )"},
		{name: "malformed number", source: "(+ 1a2 3)", msg: "invalid number literal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProgram(tt.source)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}

			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("expected message containing %q, got %v", tt.msg, err)
			}
		})
	}
}

func TestParseError_Position(t *testing.T) {
	_, err := ParseProgram("(define x 1)\n  (broken")

	pe := &ParseError{}
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T", err)
	}

	// Reported at the unmatched opening parenthesis.
	if pe.Line != 2 || pe.Col != 3 {
		t.Errorf("expected position 2:3, got %d:%d", pe.Line, pe.Col)
	}
}

func TestParseError_Snippet(t *testing.T) {
	_, err := ParseProgram("(define x 1)\n  (broken")
	if err == nil {
		t.Fatal("expected parse error")
	}

	msg := err.Error()

	if !strings.Contains(msg, "2 |   (broken") {
		t.Errorf("expected source snippet in message, got:\n%s", msg)
	}

	// The caret lines up under column 3 of the quoted line.
	lines := strings.Split(msg, "\n")
	caret := lines[len(lines)-1]
	if caret != strings.Repeat(" ", 8)+"^" {
		t.Errorf("expected caret marker, got %q", caret)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	source := `(define f (lambda (x) (* 2 x))) (f 21) (list 1 "two" three)`

	first, err := ParseProgram(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var b strings.Builder
	for i := range first {
		if i > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(first[i].String())
	}

	second, err := ParseProgram(b.String())
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("expected %d expressions, got %d", len(first), len(second))
	}

	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("expression %d changed across round trip: %v vs %v",
				i, first[i], second[i])
		}
	}
}
