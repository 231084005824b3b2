package lang

import (
	"iter"
	"maps"
)

// Default styling constants, used by the plot compiler and by the property
// getters when a primitive was constructed without an explicit style.
// They are process-wide, read-only named defaults.
const (
	N = 20.0 // sample count and abstract canvas extent
	A = 3.0  // offset of bound labels from the scaled data box
	B = 3.0  // offset of title and axis labels from the scaled data box
	C = 2.0  // line thickness
	D = 2.0  // text scale
	P = 0.5  // point size
)

// Reserved property keys. The plot compiler writes them; renderers read
// them through the property getters. They carry no meaning for ordinary
// computation.
const (
	PropertyObjectName   = "object-name"
	PropertySize         = "size"
	PropertyThickness    = "thickness"
	PropertyPosition     = "position"
	PropertyTextScale    = "text-scale"
	PropertyTextRotation = "text-rotation"
)

// Values of the object-name property assigned by the plot compiler.
const (
	objectPoint      = "point"
	objectLine       = "line"
	objectText       = "text"
	objectDiscrete   = "discrete"
	objectContinuous = "continuous"
)

// Expression is the single node type of the language: a head [Atom], an
// ordered tail of child Expressions, and an optional property map carrying
// rendering metadata. An Expression is simultaneously code and data.
//
// Expressions follow value semantics at every exported boundary: binding
// into an [Environment], reading children through [Expression.Tail] or
// [Expression.At], and property access all copy, so no stored tree aliases
// a caller's tree. Lambda-headed Expressions additionally carry a shared
// reference to the environment captured at their creation; the reference
// is excluded from equality and copied as a pointer by [Expression.Clone].
type Expression struct {
	head  Atom
	tail  []Expression
	props map[string]Expression
	scope *Environment // captured defining frame; non-nil only for lambdas
}

// NoneExpression returns the default Expression: a bare none-kind head.
func NoneExpression() Expression { return Expression{head: NoneAtom()} }

// NewExpression returns an Expression with the given head and no tail.
func NewExpression(head Atom) Expression { return Expression{head: head} }

// NewNumber returns a number literal Expression.
func NewNumber(v float64) Expression { return Expression{head: NumberAtom(v)} }

// NewComplex returns a complex literal Expression.
func NewComplex(v complex128) Expression { return Expression{head: ComplexAtom(v)} }

// NewSymbol returns a symbol Expression.
func NewSymbol(name string) Expression { return Expression{head: SymbolAtom(name)} }

// NewString returns a string literal Expression.
func NewString(text string) Expression { return Expression{head: StringAtom(text)} }

// NewList returns a list Expression holding clones of the given elements.
func NewList(elems ...Expression) Expression {
	e := Expression{head: ListAtom()}
	if len(elems) > 0 {
		e.tail = make([]Expression, len(elems))
		for i := range elems {
			e.tail[i] = elems[i].Clone()
		}
	}

	return e
}

// newLambda assembles a lambda value from its canonical parts. The formals
// list and body are stored as given; scope is shared, not copied.
func newLambda(formals, body Expression, scope *Environment) Expression {
	return Expression{
		head:  LambdaAtom(),
		tail:  []Expression{formals, body},
		scope: scope,
	}
}

// Head returns the head Atom.
func (e Expression) Head() Atom { return e.head }

// TailLen returns the number of child Expressions.
func (e Expression) TailLen() int { return len(e.tail) }

// At returns a copy of the i'th child, or the None Expression when i is
// out of range. It never panics; renderers index primitives without
// guarding.
func (e Expression) At(i int) Expression {
	if i < 0 || i >= len(e.tail) {
		return NoneExpression()
	}

	return e.tail[i].Clone()
}

// Tail iterates over copies of the child Expressions in order.
func (e Expression) Tail() iter.Seq[Expression] {
	return func(yield func(Expression) bool) {
		for i := range e.tail {
			if !yield(e.tail[i].Clone()) {
				return
			}
		}
	}
}

// Append extends the tail by one leaf node holding the given Atom.
func (e *Expression) Append(a Atom) {
	e.tail = append(e.tail, Expression{head: a})
}

// AppendExpression extends the tail with a copy of the given Expression.
func (e *Expression) AppendExpression(x Expression) {
	e.tail = append(e.tail, x.Clone())
}

// Clone returns a deep copy of the Expression: head, tail, and properties
// are copied recursively, while a captured lambda scope is shared.
func (e Expression) Clone() Expression {
	out := Expression{head: e.head, scope: e.scope}

	if len(e.tail) > 0 {
		out.tail = make([]Expression, len(e.tail))
		for i := range e.tail {
			out.tail[i] = e.tail[i].Clone()
		}
	}

	if len(e.props) > 0 {
		out.props = make(map[string]Expression, len(e.props))
		for k, v := range e.props {
			out.props[k] = v.Clone()
		}
	}

	return out
}

// Equal reports structural equality: equal head Atoms and element-wise
// equal tails. Properties and captured scopes are not part of equality.
func (e Expression) Equal(o Expression) bool {
	if !e.head.Equal(o.head) || len(e.tail) != len(o.tail) {
		return false
	}

	for i := range e.tail {
		if !e.tail[i].Equal(o.tail[i]) {
			return false
		}
	}

	return true
}

// IsLiteral reports whether the Expression is a self-evaluating leaf:
// a number, complex, or string literal with no children.
func (e Expression) IsLiteral() bool {
	return len(e.tail) == 0 &&
		(e.head.IsNumber() || e.head.IsComplex() || e.head.IsString())
}

// SetProperty returns a copy of the Expression with the named property set
// to a copy of value. The receiver is not modified.
func (e Expression) SetProperty(name string, value Expression) Expression {
	out := e.Clone()
	if out.props == nil {
		out.props = make(map[string]Expression, 1)
	}

	out.props[name] = value.Clone()

	return out
}

// putProperty attaches a property in place. Reserved for freshly built
// trees the package still owns; exported mutation goes through
// [Expression.SetProperty].
func (e *Expression) putProperty(name string, value Expression) {
	if e.props == nil {
		e.props = make(map[string]Expression, 1)
	}

	e.props[name] = value
}

// Property returns a copy of the named property value and whether it was
// present.
func (e Expression) Property(name string) (Expression, bool) {
	p, ok := e.props[name]
	if !ok {
		return NoneExpression(), false
	}

	return p.Clone(), true
}

// PropertyNames iterates over the names of the attached properties in
// unspecified order.
func (e Expression) PropertyNames() iter.Seq[string] {
	return maps.Keys(e.props)
}

// objectName returns the object-name property when it is a string, or "".
func (e Expression) objectName() string {
	p, ok := e.props[PropertyObjectName]
	if !ok || !p.head.IsString() {
		return ""
	}

	return p.head.Text()
}

// IsPoint reports whether the Expression is a point primitive.
func (e Expression) IsPoint() bool { return e.objectName() == objectPoint }

// IsLine reports whether the Expression is a line primitive.
func (e Expression) IsLine() bool { return e.objectName() == objectLine }

// IsText reports whether the Expression is a text primitive.
func (e Expression) IsText() bool { return e.objectName() == objectText }

// IsDiscrete reports whether the Expression is the result of a
// discrete-plot form.
func (e Expression) IsDiscrete() bool { return e.objectName() == objectDiscrete }

// IsPlot reports whether the Expression is the result of either plotting
// form.
func (e Expression) IsPlot() bool {
	name := e.objectName()

	return name == objectDiscrete || name == objectContinuous
}

// GetSize returns the size property, or the default point size when the
// property is absent or not a number. It never fails.
func (e Expression) GetSize() Expression {
	return e.numberProperty(PropertySize, P)
}

// GetThickness returns the thickness property, or the default line
// thickness when the property is absent or not a number. It never fails.
func (e Expression) GetThickness() Expression {
	return e.numberProperty(PropertyThickness, C)
}

// GetTextScale returns the text-scale property, or the default text scale
// when the property is absent or not a number. It never fails.
func (e Expression) GetTextScale() Expression {
	return e.numberProperty(PropertyTextScale, D)
}

// GetTextRotation returns the text-rotation property in radians, or zero
// when the property is absent or not a number. It never fails.
func (e Expression) GetTextRotation() Expression {
	return e.numberProperty(PropertyTextRotation, 0)
}

// GetPosition returns the position property, or the origin pair (0 0)
// when the property is absent or not a coordinate pair. It never fails.
func (e Expression) GetPosition() Expression {
	if p, ok := e.props[PropertyPosition]; ok && p.isCoordinatePair() {
		return p.Clone()
	}

	return NewList(NewNumber(0), NewNumber(0))
}

// numberProperty returns the named property when it is a number literal,
// or a number Expression holding fallback.
func (e Expression) numberProperty(name string, fallback float64) Expression {
	if p, ok := e.props[name]; ok && p.head.IsNumber() {
		return p.Clone()
	}

	return NewNumber(fallback)
}

// isCoordinatePair reports whether the Expression is a list of exactly two
// number literals, the shape of a plottable (x y) pair.
func (e Expression) isCoordinatePair() bool {
	return e.head.IsList() && len(e.tail) == 2 &&
		e.tail[0].head.IsNumber() && e.tail[1].head.IsNumber()
}

// coordinates returns the pair's numeric components; both zero unless
// [Expression.isCoordinatePair].
func (e Expression) coordinates() (x, y float64) {
	if !e.isCoordinatePair() {
		return 0, 0
	}

	return e.tail[0].head.Number(), e.tail[1].head.Number()
}
