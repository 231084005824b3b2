package lang

import (
	"errors"
	"strings"
	"testing"
)

// failingReader always returns an error, simulating a broken input stream.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestSource_Program(t *testing.T) {
	ClearCache()

	src := NewSourceFromString("(define x 1) (+ x 2)")

	program, err := src.Program()
	if err != nil {
		t.Fatalf("program error: %v", err)
	}

	if len(program) != 2 {
		t.Fatalf("expected 2 expressions, got %d", len(program))
	}

	if program[0].Head().Symbol() != "define" {
		t.Errorf("expected define form first, got %v", program[0])
	}
}

func TestSource_ProgramCopiesAreIsolated(t *testing.T) {
	ClearCache()

	const text = "(+ 1 2)"

	first, err := NewSourceFromString(text).Program()
	if err != nil {
		t.Fatalf("program error: %v", err)
	}

	first[0].Append(NumberAtom(99))

	second, err := NewSourceFromString(text).Program()
	if err != nil {
		t.Fatalf("program error: %v", err)
	}

	if second[0].TailLen() != 2 {
		t.Error("expected cached program to be unaffected by caller mutation")
	}
}

func TestSource_Definitions(t *testing.T) {
	ClearCache()

	src := NewSourceFromString(
		"(define a 1) (+ a 1) (define b (lambda (x) x)) (define (f x) 2)",
	)

	var names []string
	for name, e := range src.Definitions() {
		names = append(names, name)

		if e.Head().Symbol() != "define" {
			t.Errorf("expected define form for %q, got %v", name, e)
		}
	}

	// Only bare-symbol defines are indexed, in program order.
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("expected [a b], got %v", names)
	}
}

func TestSource_Definition(t *testing.T) {
	ClearCache()

	src := NewSourceFromString("(define answer 42)")

	e, err := src.Definition("answer")
	if err != nil {
		t.Fatalf("definition error: %v", err)
	}

	want, err := ParseExpression("(define answer 42)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if !e.Equal(want) {
		t.Errorf("expected %v, got %v", want, e)
	}

	if _, err := src.Definition("missing"); !errors.Is(err, ErrUnboundSymbol) {
		t.Errorf("expected ErrUnboundSymbol, got %v", err)
	}
}

func TestSource_DefinitionCopiesAreIsolated(t *testing.T) {
	ClearCache()

	src := NewSourceFromString("(define k 7)")

	first, err := src.Definition("k")
	if err != nil {
		t.Fatalf("definition error: %v", err)
	}

	first.Append(NumberAtom(0)) // Returned copy; the cache keeps the original.

	second, err := src.Definition("k")
	if err != nil {
		t.Fatalf("definition error: %v", err)
	}

	if second.TailLen() != 2 {
		t.Error("expected cached definition to be unaffected by caller mutation")
	}
}

func TestSource_ParseErrors(t *testing.T) {
	ClearCache()

	tests := []struct {
		name   string
		source string
	}{
		{name: "empty", source: ""},
		{name: "comment only", source: "; nothing here"},
		{name: "unbalanced", source: "(define x"},
		{name: "bad literal", source: "(+ 1a2 3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSourceFromString(tt.source)

			if _, err := src.Program(); !errors.Is(err, ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}

			// The error is cached alongside the parse state.
			if _, err := src.Program(); !errors.Is(err, ErrParse) {
				t.Errorf("expected cached ErrParse on reaccess, got %v", err)
			}

			for range src.Definitions() {
				t.Error("expected no definitions from a failed parse")
			}
		})
	}
}

func TestSource_FromReader(t *testing.T) {
	ClearCache()

	src := NewSource(strings.NewReader("(define x 1) (define y 2)"))

	program, err := src.Program()
	if err != nil {
		t.Fatalf("program error: %v", err)
	}

	if len(program) != 2 {
		t.Fatalf("expected 2 expressions, got %d", len(program))
	}

	e, err := src.Definition("y")
	if err != nil {
		t.Fatalf("definition error: %v", err)
	}

	if !e.At(1).Equal(NewNumber(2)) {
		t.Errorf("expected (define y 2), got %v", e)
	}
}

func TestSource_ReaderFailure(t *testing.T) {
	ClearCache()

	if _, err := NewSource(failingReader{}).Program(); !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}
}

func TestReadSource(t *testing.T) {
	text, err := ReadSource(strings.NewReader("(+ 1 2)"))
	if err != nil {
		t.Fatalf("read error: %v", err)
	}

	if text != "(+ 1 2)" {
		t.Errorf("expected program text, got %q", text)
	}

	if _, err := ReadSource(failingReader{}); !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}
}

func TestParseReader(t *testing.T) {
	ClearCache()

	program, err := ParseReader(strings.NewReader("(begin 1 2) 3"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(program) != 2 {
		t.Errorf("expected 2 expressions, got %d", len(program))
	}
}

func TestDefinitionsFrom(t *testing.T) {
	ClearCache()

	var names []string
	for name := range DefinitionsFrom(strings.NewReader("(define p 1) (define q 2)")) {
		names = append(names, name)
	}

	if len(names) != 2 || names[0] != "p" || names[1] != "q" {
		t.Errorf("expected [p q], got %v", names)
	}
}

func TestClearCache(t *testing.T) {
	ClearCache()

	src := NewSourceFromString("(define v 5)")
	if _, err := src.Definition("v"); err != nil {
		t.Fatalf("definition error: %v", err)
	}

	ClearCache()

	// A fresh source over the same text reparses and repopulates the cache.
	src = NewSourceFromString("(define v 5)")

	e, err := src.Definition("v")
	if err != nil {
		t.Fatalf("definition error after clear: %v", err)
	}

	if !e.At(1).Equal(NewNumber(5)) {
		t.Errorf("expected (define v 5), got %v", e)
	}
}
