package lang

import (
	"math"
	"strconv"
)

// Kind discriminates the payload carried by an [Atom].
type Kind uint8

// Atom kinds. List and Lambda are structural markers: an Atom of either
// kind carries no payload of its own, and the meaning lives in the tail of
// the Expression it heads.
const (
	KindNone Kind = iota
	KindNumber
	KindComplex
	KindSymbol
	KindString
	KindList
	KindLambda
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNumber:
		return "number"
	case KindComplex:
		return "complex"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindLambda:
		return "lambda"
	default:
		return "invalid"
	}
}

// Atom is the smallest typed value in an expression tree. Exactly one
// payload field is meaningful for a given kind. Atoms are immutable value
// types: they are copied by assignment and never shared.
type Atom struct {
	kind   Kind
	number float64
	cmplx  complex128
	text   string // symbol name or string contents
}

// NoneAtom returns the none-kind Atom, the head of a default Expression.
func NoneAtom() Atom { return Atom{kind: KindNone} }

// NumberAtom returns a number-kind Atom holding v.
func NumberAtom(v float64) Atom { return Atom{kind: KindNumber, number: v} }

// ComplexAtom returns a complex-kind Atom holding v.
func ComplexAtom(v complex128) Atom { return Atom{kind: KindComplex, cmplx: v} }

// SymbolAtom returns a symbol-kind Atom naming name.
func SymbolAtom(name string) Atom { return Atom{kind: KindSymbol, text: name} }

// StringAtom returns a string-kind Atom holding text.
func StringAtom(text string) Atom { return Atom{kind: KindString, text: text} }

// ListAtom returns the structural marker heading constructed lists.
func ListAtom() Atom { return Atom{kind: KindList} }

// LambdaAtom returns the structural marker heading lambda values.
func LambdaAtom() Atom { return Atom{kind: KindLambda} }

// Kind returns the Atom's kind tag.
func (a Atom) Kind() Kind { return a.kind }

func (a Atom) IsNone() bool    { return a.kind == KindNone }
func (a Atom) IsNumber() bool  { return a.kind == KindNumber }
func (a Atom) IsComplex() bool { return a.kind == KindComplex }
func (a Atom) IsSymbol() bool  { return a.kind == KindSymbol }
func (a Atom) IsString() bool  { return a.kind == KindString }
func (a Atom) IsList() bool    { return a.kind == KindList }
func (a Atom) IsLambda() bool  { return a.kind == KindLambda }

// Number returns the numeric payload; zero unless [Atom.IsNumber].
func (a Atom) Number() float64 { return a.number }

// Complex returns the complex payload; zero unless [Atom.IsComplex].
func (a Atom) Complex() complex128 { return a.cmplx }

// Symbol returns the symbol name; empty unless [Atom.IsSymbol].
func (a Atom) Symbol() string {
	if a.kind != KindSymbol {
		return ""
	}

	return a.text
}

// Text returns the string contents; empty unless [Atom.IsString].
func (a Atom) Text() string {
	if a.kind != KindString {
		return ""
	}

	return a.text
}

// Equal reports whether two Atoms hold the same value. Numbers compare
// with a relative epsilon so that accumulated floating-point error from
// equivalent computations does not break structural equality; complex
// values compare the same way per component.
func (a Atom) Equal(b Atom) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNumber:
		return closeEnough(a.number, b.number)
	case KindComplex:
		return closeEnough(real(a.cmplx), real(b.cmplx)) &&
			closeEnough(imag(a.cmplx), imag(b.cmplx))
	case KindSymbol, KindString:
		return a.text == b.text
	default:
		// None, List, and Lambda markers carry no payload.
		return true
	}
}

// String implements fmt.Stringer, rendering the Atom in source syntax.
func (a Atom) String() string {
	switch a.kind {
	case KindNumber:
		return formatNumber(a.number)
	case KindComplex:
		return formatComplex(a.cmplx)
	case KindSymbol:
		return a.text
	case KindString:
		return `"` + a.text + `"`
	case KindList:
		return "list"
	case KindLambda:
		return "lambda"
	default:
		return "NONE"
	}
}

// closeEnough compares two floats with a relative epsilon, with an
// absolute floor of one so values near zero still compare sanely.
func closeEnough(a, b float64) bool {
	if a == b {
		return true
	}

	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}

	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))

	return math.Abs(a-b) <= 8*epsilon*scale
}

const epsilon = 2.220446049250313e-16 // 2^-52, one ulp at 1.0

// formatNumber renders a float in the shortest round-trip form.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatComplex renders a complex value as "re,im".
func formatComplex(v complex128) string {
	return formatNumber(real(v)) + "," + formatNumber(imag(v))
}
