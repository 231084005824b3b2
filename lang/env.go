package lang

import (
	"log/slog"
	"maps"
	"slices"
)

// specialForms is the reserved keyword surface. These names dispatch to
// dedicated evaluation rules and can never be bound or shadowed.
var specialForms = map[string]struct{}{
	"define":          {},
	"begin":           {},
	"lambda":          {},
	"apply":           {},
	"map":             {},
	"set-property":    {},
	"get-property":    {},
	"discrete-plot":   {},
	"continuous-plot": {},
}

// protectedNames are global constants that define may not rebind.
var protectedNames = map[string]struct{}{
	"pi": {},
	"e":  {},
	"I":  {},
}

// IsKeyword reports whether name is a reserved special-form keyword.
func IsKeyword(name string) bool {
	_, ok := specialForms[name]

	return ok
}

// Keywords returns the reserved special-form keywords, sorted.
func Keywords() []string {
	return slices.Sorted(maps.Keys(specialForms))
}

// Procedure is a builtin operation installed in the global environment.
// Arguments arrive fully evaluated; the result must be a value Expression.
type Procedure func(args []Expression) (Expression, error)

// binding holds either a value Expression or a builtin Procedure.
// Procedures are not first-class values: they resolve only in call
// position and through apply/map.
type binding struct {
	value Expression
	proc  Procedure
}

// Environment is one frame of the lexical scope chain: a mapping from
// symbol names to values, linked to an optional parent frame. Lookup
// searches the chain outward; definition always binds locally.
//
// Environments are not safe for concurrent mutation.
type Environment struct {
	bindings map[string]binding
	parent   *Environment
}

// NewEnvironment returns an empty frame with the given parent, which may
// be nil for a root frame.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		bindings: make(map[string]binding),
		parent:   parent,
	}
}

// NewGlobalEnvironment returns a root frame populated with the builtin
// procedures and constants.
func NewGlobalEnvironment() *Environment {
	env := NewEnvironment(nil)
	installBuiltins(env)

	return env
}

// ChildFrame returns a new empty frame whose parent is the receiver; used
// when entering a lambda body.
func (env *Environment) ChildFrame() *Environment {
	return NewEnvironment(env)
}

// Lookup resolves a symbol to a copy of its bound value, searching the
// current frame and then each parent. A builtin procedure name does not
// resolve as a value.
func (env *Environment) Lookup(symbol string) (Expression, error) {
	for e := env; e != nil; e = e.parent {
		b, ok := e.bindings[symbol]
		if !ok {
			continue
		}

		if b.proc != nil {
			break
		}

		return b.value.Clone(), nil
	}

	return NoneExpression(), ErrUnboundSymbol.With(slog.String("symbol", symbol))
}

// Define binds symbol to a copy of value in the current frame only.
// Rebinding in the same frame overwrites; a binding in an ancestor frame
// is shadowed, never mutated.
func (env *Environment) Define(symbol string, value Expression) {
	env.bindings[symbol] = binding{value: value.Clone()}
}

// defineProcedure installs a builtin procedure in the current frame.
func (env *Environment) defineProcedure(symbol string, proc Procedure) {
	env.bindings[symbol] = binding{proc: proc}
}

// Procedure resolves a symbol to a builtin procedure through the chain.
// A value binding found first shadows any outer procedure of the same
// name.
func (env *Environment) Procedure(symbol string) (Procedure, bool) {
	for e := env; e != nil; e = e.parent {
		b, ok := e.bindings[symbol]
		if !ok {
			continue
		}

		return b.proc, b.proc != nil
	}

	return nil, false
}

// IsBound reports whether symbol resolves to anything, value or
// procedure, in the chain.
func (env *Environment) IsBound(symbol string) bool {
	for e := env; e != nil; e = e.parent {
		if _, ok := e.bindings[symbol]; ok {
			return true
		}
	}

	return false
}

// Symbols returns every name bound in the chain, value and procedure
// alike, deduplicated and sorted.
func (env *Environment) Symbols() []string {
	seen := make(map[string]struct{})
	for e := env; e != nil; e = e.parent {
		for name := range e.bindings {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
