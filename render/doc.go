// Package render draws compiled plot expressions.
//
// The lang plot forms produce a list of styled point, line, and text
// primitives on an abstract canvas. This package walks that list through
// the classification predicates and property getters only, never through
// the tree internals, and emits the primitives in tail order as SVG.
// Identical plot expressions always produce byte-identical output.
package render
