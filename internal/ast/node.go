package ast

import "treelower/internal/source"

// Element is implemented by every Source Tree node.
type Element interface {
	// Pos returns the raw node range, including leading comments.
	Pos() source.Span
	element()
}

// Declaration is a member of a File (or a local declaration in a block).
type Declaration interface {
	Element
	declaration()
}

// Statement is an entry of a Block.
type Statement interface {
	Element
	statement()
}

// Expression is a typed value-producing node.
type Expression interface {
	Statement
	TypeRef() TypeRef
	expression()
}

// Accessor is the getter or setter slot of a Property.
type Accessor interface {
	Element
	accessor()
}

// Reference names the callee of a call or the target of an access.
type Reference interface {
	RefName() string
	reference()
}

// TypeRef is the resolved type attached to a node.
type TypeRef interface {
	typeRef()
}
