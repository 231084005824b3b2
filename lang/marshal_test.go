package lang

import (
	"reflect"
	"strings"
	"testing"
)

func TestToNative_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   any
	}{
		{name: "number", source: "3", want: float64(3)},
		{name: "string", source: `"text"`, want: "text"},
		{name: "symbol", source: "foo", want: "foo"},
		{
			name:   "application",
			source: "(+ 1 2)",
			want:   map[string]any{"+": []any{float64(1), float64(2)}},
		},
		{
			name:   "nested application",
			source: "(* (+ 1 2) 3)",
			want: map[string]any{"*": []any{
				map[string]any{"+": []any{float64(1), float64(2)}},
				float64(3),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := ParseExpression(tt.source)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := exp.ToNative(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestToNative_Values(t *testing.T) {
	got := mustEval(t, "(list 1 2)").ToNative()
	if want := []any{float64(1), float64(2)}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}

	got = mustEval(t, "(+ 1 I)").ToNative()
	want := map[string]float64{"real": 1, "imag": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}

	got = mustEval(t, "(lambda (x) x)").ToNative()
	if got != "(lambda (x) x)" {
		t.Errorf("expected lambda source text, got %#v", got)
	}

	got = mustEval(t, `(get-property 1 "none")`).ToNative()
	if got != nil {
		t.Errorf("expected nil for NONE, got %#v", got)
	}
}

func TestProgram_FormatYAML(t *testing.T) {
	program, err := ParseProgram("(define x 1) (+ x 2)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var b strings.Builder
	if err := program.FormatYAML(t.Context(), &b, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	got := b.String()

	if !strings.Contains(got, "define:") {
		t.Errorf("expected define mapping in YAML, got %q", got)
	}

	if !strings.Contains(got, "+:") {
		t.Errorf("expected + mapping in YAML, got %q", got)
	}
}

func TestProgram_FormatYAMLFlow(t *testing.T) {
	program, err := ParseProgram("(+ 1 2)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var b strings.Builder
	if err := program.FormatYAML(t.Context(), &b, 0); err != nil {
		t.Fatalf("format error: %v", err)
	}

	got := b.String()

	// Flow style keeps the whole document on one line.
	if strings.Count(strings.TrimSpace(got), "\n") != 0 {
		t.Errorf("expected flow-style YAML on one line, got %q", got)
	}

	if !strings.Contains(got, "[1, 2]") && !strings.Contains(got, "[1,2]") {
		t.Errorf("expected flow sequence in %q", got)
	}
}
