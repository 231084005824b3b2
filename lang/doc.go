// Package lang implements the PlotScript language: a small Lisp/Scheme-like
// language whose programs are homoiconic expression trees evaluated by
// post-order reduction against a chain of lexically scoped environments.
//
// # Syntax
//
// A program is a sequence of expressions. An expression is either an atom
// (a number, a double-quoted string, or a symbol) or a parenthesized form
// whose first element is an atom and whose remaining elements are
// sub-expressions:
//
//	Program    = Expression+
//	Expression = Atom | "(" Atom Expression* ")"
//
// Comments run from ";" to the end of the line. The empty form "()" is a
// syntax error, as is a parenthesized form headed by another parenthesized
// form.
//
// # Evaluation
//
// Literals evaluate to themselves. A bare symbol evaluates to the value it
// is bound to in the current environment chain. A parenthesized form headed
// by one of the reserved keywords
//
//	define begin lambda apply map
//	set-property get-property
//	discrete-plot continuous-plot
//
// is a special form with its own evaluation rule; any other symbol head is
// an application: the arguments are evaluated left to right and the symbol
// is resolved to a builtin procedure or a user lambda, which is then called.
// Lambdas capture their defining environment, so free variables resolve in
// the scope where the lambda was created rather than where it is called.
//
// # Plotting
//
// The discrete-plot and continuous-plot forms compile numeric data and
// single-argument lambdas into a list of point, line, and text primitives.
// Each primitive is an ordinary [Expression] annotated through its property
// map; [Expression.IsPoint], [Expression.IsLine], [Expression.IsText], and
// the property getters [Expression.GetSize], [Expression.GetThickness],
// [Expression.GetPosition], [Expression.GetTextScale], and
// [Expression.GetTextRotation] form the complete contract a renderer needs.
//
// # Example
//
//	(begin
//	  (define f (lambda (x) (* x x)))
//	  (continuous-plot f (list -2 2)
//	    (list
//	      (list "title" "a parabola")
//	      (list "abscissa-label" "x")
//	      (list "ordinate-label" "y"))))
//
// Evaluating the program above yields a list of line and text primitives
// describing the graph of f over [-2, 2].
package lang
