package lang

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// ToNative converts the program into plain Go values suitable for JSON or
// YAML encoding, one value per top-level expression.
func (p Program) ToNative() []any {
	out := make([]any, len(p))
	for i := range p {
		out[i] = p[i].ToNative()
	}

	return out
}

// ToNative converts the expression into a plain Go value: numbers become
// float64, strings and symbols become strings, lists become slices, and
// applications become single-key maps from the head symbol to the
// argument slice. Lambdas render as their native syntax.
func (e Expression) ToNative() any {
	switch e.head.Kind() {
	case KindNumber:
		return e.head.Number()
	case KindComplex:
		v := e.head.Complex()

		return map[string]float64{"real": real(v), "imag": imag(v)}
	case KindString:
		return e.head.Text()
	case KindSymbol:
		if len(e.tail) == 0 {
			return e.head.Symbol()
		}

		return map[string]any{e.head.Symbol(): e.childNatives()}
	case KindList:
		return e.childNatives()
	case KindLambda:
		return e.String()
	default:
		return nil
	}
}

func (e Expression) childNatives() []any {
	out := make([]any, len(e.tail))
	for i := range e.tail {
		out[i] = e.tail[i].ToNative()
	}

	return out
}

// FormatYAML writes the program as YAML to the writer.
func (p Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, p.ToNative(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}
