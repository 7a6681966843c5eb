package ir

import (
	"fmt"

	"treelower/internal/source"
	"treelower/internal/symbols"
	"treelower/internal/types"
)

// Element is implemented by every Output Tree node.
type Element interface {
	Base() *Node
	element()
}

// Container is a node that owns declarations and expressions.
type Container interface {
	ContainerName() string
	container()
}

// Declaration is a symbol-carrying node.
type Declaration interface {
	Element
	Symbol() symbols.SymbolID
	declaration()
}

// Statement is an entry of a Block.
type Statement interface {
	Element
	statement()
}

// Expression is a value-producing node.
type Expression interface {
	Statement
	expression()
}

// Node holds the fields shared by all Output Tree nodes.
type Node struct {
	Span   source.Span
	Type   types.TypeID
	Origin Origin
	parent Container
}

// Base returns the shared node fields.
func (n *Node) Base() *Node { return n }

// Parent returns the owning container, nil until SetParent.
func (n *Node) Parent() Container { return n.parent }

// SetParent records the owner. Ownership is assigned once.
func (n *Node) SetParent(p Container) {
	if p == nil {
		panic("ir: SetParent(nil)")
	}
	if n.parent != nil {
		panic(fmt.Sprintf("ir: parent already set to %s", n.parent.ContainerName()))
	}
	n.parent = p
}

// HasParent reports whether SetParent ran.
func (n *Node) HasParent() bool { return n.parent != nil }
