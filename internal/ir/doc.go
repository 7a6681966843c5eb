// Package ir defines the Output Tree produced by lowering.
//
// Unlike the Source Tree every node here is owned: it carries a resolved
// type, a parent container set exactly once, and an origin telling whether
// the node was written by the user or synthesized by the pass. Declarations
// also carry the registry symbol they were declared with.
//
// The tree is consumed by code generation and by tooling that wants to show
// error nodes in place of unresolved calls.
package ir
