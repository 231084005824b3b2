package lang

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func newInterp(t *testing.T, opts ...Option) *Interpreter {
	t.Helper()

	in, err := New(t.Context(), opts...)
	if err != nil {
		t.Fatalf("interpreter error: %v", err)
	}

	return in
}

func TestInterpreter_EvalString(t *testing.T) {
	in := newInterp(t)

	tests := []struct {
		name   string
		source string
		want   float64
	}{
		{name: "single", source: "(+ 1 2)", want: 3},
		{name: "sequence", source: "(define x 10) (* x x)", want: 100},
		{name: "closure", source: "(define f (lambda (n) (+ n 1))) (f 41)", want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := in.EvalString(t.Context(), tt.source)
			if err != nil {
				t.Fatalf("eval error: %v", err)
			}

			wantNumber(t, got, tt.want)
		})
	}
}

func TestInterpreter_DefinitionsPersist(t *testing.T) {
	in := newInterp(t)

	if _, err := in.EvalString(t.Context(), "(define base 7)"); err != nil {
		t.Fatalf("eval error: %v", err)
	}

	got, err := in.EvalString(t.Context(), "(* base 6)")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	wantNumber(t, got, 42)
}

func TestInterpreter_ErrorKeepsPriorDefinitions(t *testing.T) {
	in := newInterp(t)

	result, err := in.EvalString(t.Context(), "(define kept 3) (undefined)")
	if !errors.Is(err, ErrUnboundSymbol) {
		t.Fatalf("expected ErrUnboundSymbol, got %v", err)
	}

	if result.Head().Kind() != KindNone {
		t.Errorf("expected NONE result on error, got %v", result)
	}

	got, err := in.EvalString(t.Context(), "kept")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	wantNumber(t, got, 3)

	if !slices.Contains(in.Symbols(), "kept") {
		t.Error("expected Symbols to include kept")
	}
}

func TestInterpreter_Symbols(t *testing.T) {
	in := newInterp(t)

	symbols := in.Symbols()

	if !slices.IsSorted(symbols) {
		t.Error("expected sorted symbols")
	}

	for _, want := range []string{"pi", "e", "I"} {
		if !slices.Contains(symbols, want) {
			t.Errorf("expected builtin constant %q in symbols", want)
		}
	}
}

func TestInterpreter_Reset(t *testing.T) {
	in := newInterp(t)

	if _, err := in.EvalString(t.Context(), "(define gone 1)"); err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if err := in.Reset(t.Context()); err != nil {
		t.Fatalf("reset error: %v", err)
	}

	if _, err := in.EvalString(t.Context(), "gone"); !errors.Is(err, ErrUnboundSymbol) {
		t.Errorf("expected ErrUnboundSymbol after reset, got %v", err)
	}
}

func TestInterpreter_Startup(t *testing.T) {
	in := newInterp(t, WithStartup("(define tau (* 2 pi))"))

	got, err := in.EvalString(t.Context(), "(/ tau pi)")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	wantNumber(t, got, 2)
}

func TestInterpreter_StartupSurvivesReset(t *testing.T) {
	in := newInterp(t, WithStartup("(define greeting \"hello\")"))

	if _, err := in.EvalString(t.Context(), "(define extra 1)"); err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if err := in.Reset(t.Context()); err != nil {
		t.Fatalf("reset error: %v", err)
	}

	got, err := in.EvalString(t.Context(), "greeting")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if got.Head().Kind() != KindString || got.Head().Text() != "hello" {
		t.Errorf("expected startup binding after reset, got %v", got)
	}

	if _, err := in.EvalString(t.Context(), "extra"); !errors.Is(err, ErrUnboundSymbol) {
		t.Errorf("expected extra to be gone after reset, got %v", err)
	}
}

func TestInterpreter_StartupFailure(t *testing.T) {
	if _, err := New(t.Context(), WithStartup("(define")); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse from startup, got %v", err)
	}

	if _, err := New(t.Context(), WithStartup("(undefined)")); !errors.Is(err, ErrUnboundSymbol) {
		t.Errorf("expected ErrUnboundSymbol from startup, got %v", err)
	}
}

func TestInterpreter_MaxDepth(t *testing.T) {
	in := newInterp(t, WithMaxDepth(16))

	deep := strings.Repeat("(+ 1 ", 40) + "0" + strings.Repeat(")", 40)

	if _, err := in.EvalString(t.Context(), deep); !errors.Is(err, ErrRecursionLimit) {
		t.Errorf("expected ErrRecursionLimit, got %v", err)
	}

	// Shallow programs still evaluate.
	got, err := in.EvalString(t.Context(), "(+ 1 (+ 2 3))")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	wantNumber(t, got, 6)
}

func TestInterpreter_CacheDisabled(t *testing.T) {
	in := newInterp(t, WithCache(false))

	got, err := in.EvalString(t.Context(), "(define n 2) (^ n 10)")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	wantNumber(t, got, 1024)
}

func TestInterpreter_EvalReader(t *testing.T) {
	in := newInterp(t)

	got, err := in.EvalReader(t.Context(), strings.NewReader("(- 50 8)"))
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	wantNumber(t, got, 42)

	if _, err := in.EvalReader(t.Context(), failingReader{}); !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}
}

func TestInterpreter_EvalProgram(t *testing.T) {
	in := newInterp(t)

	program, err := ParseProgram("(define a 5) (define b 6) (* a b)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	got, err := in.EvalProgram(t.Context(), program)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	wantNumber(t, got, 30)
}

func TestInterpreter_EvalExpression(t *testing.T) {
	in := newInterp(t)

	e, err := ParseExpression("(sqrt 16)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	got, err := in.EvalExpression(t.Context(), e)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	wantNumber(t, got, 4)
}

func TestInterpreter_Cancellation(t *testing.T) {
	in := newInterp(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := in.EvalString(ctx, "(+ 1 2)"); !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}
