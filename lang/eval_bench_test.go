package lang

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkEvalProgram measures evaluation performance across expression
// shapes.
func BenchmarkEvalProgram(b *testing.B) {
	benches := []struct {
		name   string
		source string
	}{
		{"arithmetic", "(+ 1 (* 2 3) (- 10 4) (/ 8 2))"},
		{"complex", "(mag (+ (* 3 I) 4))"},
		{"list_build", "(range 0 10 0.5)"},
		{"lambda_call", "(square 17)"},
		{"map", "(map square (range 0 10 1))"},
	}

	ctx := context.Background()

	in, err := New(ctx, WithStartup("(define square (lambda (x) (* x x)))"))
	if err != nil {
		b.Fatal(err)
	}

	for _, bb := range benches {
		b.Run(bb.name, func(b *testing.B) {
			program, err := ParseProgram(bb.source)
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := in.EvalProgram(ctx, program)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkParseProgram measures parser performance across input sizes.
func BenchmarkParseProgram(b *testing.B) {
	sizes := []struct {
		name  string
		count int
	}{
		{"small", 10},
		{"medium", 200},
		{"large", 2000},
	}

	for _, size := range sizes {
		// Generate test source
		var sb strings.Builder
		for i := 0; i < size.count; i++ {
			fmt.Fprintf(&sb, "(define def%d (* %d %d))\n", i, i, i)
		}
		source := sb.String()

		b.Run(size.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := ParseProgram(source)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSource_Caching measures the impact of the process-wide parse
// cache on repeated source access.
func BenchmarkSource_Caching(b *testing.B) {
	b.Run("first_parse", func(b *testing.B) {
		ClearCache()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, err := NewSourceFromString(fmt.Sprintf("(define x%d %d)", i, i)).Program()
			if err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("cached_parse", func(b *testing.B) {
		ClearCache()

		const source = "(define square (lambda (x) (* x x))) (square 12)"

		_, err := NewSourceFromString(source).Program()
		if err != nil {
			b.Fatal(err)
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, err := NewSourceFromString(source).Program()
			if err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkContinuousPlot measures plot compilation at increasing sample
// counts.
func BenchmarkContinuousPlot(b *testing.B) {
	sizes := []struct {
		name    string
		samples int
	}{
		{"coarse", 20},
		{"fine", 200},
	}

	ctx := context.Background()

	for _, size := range sizes {
		source := fmt.Sprintf(
			`(continuous-plot (lambda (x) (sin x)) (list -3 3) (list (list "samples" %d)))`,
			size.samples,
		)

		b.Run(size.name, func(b *testing.B) {
			in, err := New(ctx)
			if err != nil {
				b.Fatal(err)
			}

			program, err := ParseProgram(source)
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := in.EvalProgram(ctx, program)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkFormat measures native format output performance.
func BenchmarkFormat(b *testing.B) {
	sizes := []struct {
		name  string
		count int
	}{
		{"small", 10},
		{"large", 1000},
	}

	ctx := context.Background()

	for _, size := range sizes {
		var sb strings.Builder
		for i := 0; i < size.count; i++ {
			fmt.Fprintf(&sb, "(define def%d (+ %d 1))\n", i, i)
		}

		program, err := ParseProgram(sb.String())
		if err != nil {
			b.Fatal(err)
		}

		b.Run(size.name, func(b *testing.B) {
			var buf bytes.Buffer

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				buf.Reset()

				err := program.Format(ctx, &buf, 2)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
