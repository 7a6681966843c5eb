// Package ast defines the resolved Source Tree handed to the lowering pass.
//
// The tree is produced upstream by the parser and the type resolver. Every
// node kind is a variant of a sealed interface: only this package can add
// variants, so consumers switch over a closed set. Nodes are immutable once
// built; the lowering pass only reads them.
//
// Each expression carries a TypeRef. By the time a tree reaches lowering the
// ref must be a ResolvedTypeRef (or an ErrorTypeRef produced by a failed
// resolution). An ImplicitTypeRef means resolution never ran for that node.
package ast
