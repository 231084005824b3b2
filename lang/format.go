package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
)

// formatWidth is the column budget beyond which Format breaks a form
// across lines.
const formatWidth = 72

// String implements fmt.Stringer, rendering the Expression in compact
// native syntax on a single line.
func (e Expression) String() string {
	var b strings.Builder

	e.writeCompact(&b)

	return b.String()
}

func (e Expression) writeCompact(b *strings.Builder) {
	switch {
	case e.head.IsLambda() && len(e.tail) == 2:
		b.WriteString("(lambda ")
		e.tail[0].writeFormals(b)
		b.WriteByte(' ')
		e.tail[1].writeCompact(b)
		b.WriteByte(')')
	case e.head.IsList():
		b.WriteByte('(')

		for i := range e.tail {
			if i > 0 {
				b.WriteByte(' ')
			}

			e.tail[i].writeCompact(b)
		}

		b.WriteByte(')')
	case len(e.tail) == 0:
		b.WriteString(e.head.String())
	default:
		b.WriteByte('(')
		b.WriteString(e.head.String())

		for i := range e.tail {
			b.WriteByte(' ')
			e.tail[i].writeCompact(b)
		}

		b.WriteByte(')')
	}
}

// writeFormals renders a formals list as parenthesized bare symbols.
func (e Expression) writeFormals(b *strings.Builder) {
	b.WriteByte('(')

	for i := range e.tail {
		if i > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(e.tail[i].head.String())
	}

	b.WriteByte(')')
}

// Format writes the program in native syntax to the writer, one top-level
// expression per paragraph. With a positive indent, forms that overflow
// the column budget break across lines with their arguments indented.
func (p Program) Format(_ context.Context, w io.Writer, indent int) error {
	for i := range p {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		if err := formatExpr(w, p[i], indent, 0); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}

// formatExpr writes one expression, breaking oversized nested forms.
func formatExpr(w io.Writer, e Expression, indent, depth int) error {
	compact := e.String()
	if indent == 0 || depth*indent+len(compact) <= formatWidth || !e.hasNestedForm() {
		_, err := fmt.Fprint(w, compact)

		return err
	}

	if _, err := fmt.Fprint(w, "(", e.head.String()); err != nil {
		return err
	}

	pad := strings.Repeat(" ", (depth+1)*indent)

	for i := range e.tail {
		if _, err := fmt.Fprint(w, "\n", pad); err != nil {
			return err
		}

		if err := formatExpr(w, e.tail[i], indent, depth+1); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, ")")

	return err
}

// hasNestedForm reports whether any child is itself a parenthesized form.
func (e Expression) hasNestedForm() bool {
	for i := range e.tail {
		if len(e.tail[i].tail) > 0 || e.tail[i].head.IsList() {
			return true
		}
	}

	return false
}

// FormatAST writes an indented tree dump of the program: one node per
// line as kind(payload), with attached properties as @name lines.
func (p Program) FormatAST(_ context.Context, w io.Writer, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	for i := range p {
		if err := formatNode(w, p[i], indent, 0); err != nil {
			return err
		}
	}

	return nil
}

func formatNode(w io.Writer, e Expression, indent, depth int) error {
	pad := strings.Repeat(" ", depth*indent)

	label := e.head.Kind().String()

	switch e.head.Kind() {
	case KindNumber, KindComplex, KindSymbol, KindString:
		label += "(" + e.head.String() + ")"
	}

	if _, err := fmt.Fprintf(w, "%s%s\n", pad, label); err != nil {
		return err
	}

	inner := pad + strings.Repeat(" ", indent)

	for _, name := range slices.Sorted(e.PropertyNames()) {
		prop, _ := e.Property(name)
		if _, err := fmt.Fprintf(w, "%s@%s %s\n", inner, name, prop); err != nil {
			return err
		}
	}

	for i := range e.tail {
		if err := formatNode(w, e.tail[i], indent, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the program as JSON to the writer.
func (p Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(p.ToNative(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(p.ToNative())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}
