package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestEval_DeepNestingWithinLimit(t *testing.T) {
	depth := 200
	source := strings.Repeat("(+ 1 ", depth) + "0" + strings.Repeat(")", depth)

	wantNumber(t, mustEval(t, source), float64(depth))
}

func TestEval_DeepNestingBeyondLimit(t *testing.T) {
	depth := DefaultMaxDepth + 10
	source := strings.Repeat("(+ 1 ", depth) + "0" + strings.Repeat(")", depth)

	err := evalFailure(t, source)
	if !errors.Is(err, ErrRecursionLimit) {
		t.Errorf("expected ErrRecursionLimit, got %v", err)
	}
}

func TestEval_NonePropagatesAsValue(t *testing.T) {
	// get-property on a missing name yields none, which can be bound and
	// re-evaluated like any other value.
	got := mustEval(t, `(define n (get-property 1 "missing")) n`)
	if !got.Head().IsNone() {
		t.Errorf("expected none, got %v", got)
	}
}

func TestEval_KeywordsNeverResolveAsValues(t *testing.T) {
	// A bare keyword is a form with no arguments, not a lookup.
	for _, source := range []string{"lambda", "apply", "map"} {
		err := evalFailure(t, source)
		if err == nil {
			t.Errorf("%s: expected error", source)
		}
	}
}

func TestEval_SymbolNamedLikeKeywordSubstring(t *testing.T) {
	// Symbols that merely contain keyword text are ordinary symbols.
	wantNumber(t, mustEval(t, "(define defined 1) defined"), 1)
	wantNumber(t, mustEval(t, "(define mapping 2) mapping"), 2)
}

func TestEval_PropertyKeyThroughBinding(t *testing.T) {
	// Property names are ordinary string values and may be computed.
	got := mustEval(t, `
		(define key "object-name")
		(get-property (set-property 1 key "point") key)
	`)

	if got.Head().Text() != "point" {
		t.Errorf("expected \"point\", got %v", got)
	}
}

func TestEval_TaggedValueSurvivesBinding(t *testing.T) {
	// Properties ride along when a tagged expression is bound and looked
	// up again.
	got := mustEval(t, `
		(define p (set-property (list 1 2) "object-name" "point"))
		(get-property p "object-name")
	`)

	if got.Head().Text() != "point" {
		t.Errorf("expected \"point\", got %v", got)
	}
}

func TestEval_ShadowingInsideBeginBody(t *testing.T) {
	// define inside a lambda body binds in the call frame, leaving the
	// global untouched.
	source := `
		(define x 1)
		(define f (lambda (y) (begin (define x 100) (+ x y))))
		(list (f 1) x)
	`

	got := mustEval(t, source)
	if !got.Equal(NewList(NewNumber(101), NewNumber(1))) {
		t.Errorf("expected (101 1), got %v", got)
	}
}

func TestEval_WhitespaceAndCommentsAnywhere(t *testing.T) {
	source := "  (+\t1\r\n\t;; inline note\n 2)  "

	wantNumber(t, mustEval(t, source), 3)
}

func TestEval_SymbolsWithPunctuation(t *testing.T) {
	// Anything between delimiters that is not numeric is a symbol.
	wantNumber(t, mustEval(t, "(define x->y 7) x->y"), 7)
	wantNumber(t, mustEval(t, "(define a.b 8) a.b"), 8)
}

func TestEval_NumbersKeepPrecision(t *testing.T) {
	got := mustEval(t, "0.1")
	if got.Head().Number() != 0.1 {
		t.Errorf("expected exact 0.1, got %v", got.Head().Number())
	}
}

func TestEval_EmptyStringValue(t *testing.T) {
	got := mustEval(t, `""`)
	if !got.Head().IsString() || got.Head().Text() != "" {
		t.Errorf("expected empty string, got %v", got)
	}
}

func TestEval_ListOfLambdas(t *testing.T) {
	source := `
		(define fs (list (lambda (x) (+ x 1)) (lambda (x) (* x 2))))
		(apply (first fs) (list 10))
	`

	wantNumber(t, mustEval(t, source), 11)
}

func TestEval_MapOverComputedList(t *testing.T) {
	got := mustEval(t, "(map (lambda (x) (* x x)) (range 1 3 1))")
	if !got.Equal(NewList(NewNumber(1), NewNumber(4), NewNumber(9))) {
		t.Errorf("expected (1 4 9), got %v", got)
	}
}
