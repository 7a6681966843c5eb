package ir

import (
	"fmt"

	"treelower/internal/ast"
	"treelower/internal/symbols"
)

// Call invokes a resolved callee. Arguments are positional slots; a nil slot
// means the callee's default value is used.
type Call struct {
	Node
	Callee    symbols.SymbolID
	Name      string
	Arguments []Expression
}

// NewCall allocates a call with slots argument positions.
func NewCall(node Node, callee symbols.SymbolID, name string, slots int) *Call {
	return &Call{Node: node, Callee: callee, Name: name, Arguments: make([]Expression, slots)}
}

// PutArgument stores e in slot index.
func (c *Call) PutArgument(index int, e Expression) {
	if index < 0 || index >= len(c.Arguments) {
		panic(fmt.Sprintf("ir: argument %d out of range for %s/%d", index, c.Name, len(c.Arguments)))
	}
	c.Arguments[index] = e
}

// ErrorCall replaces a call or access whose target did not resolve. It keeps
// the lowered arguments so tooling can still inspect them.
type ErrorCall struct {
	Node
	Message   string
	Arguments []Expression
}

// AddArgument appends e.
func (c *ErrorCall) AddArgument(e Expression) {
	c.Arguments = append(c.Arguments, e)
}

// Const is a literal.
type Const struct {
	Node
	Kind  ast.ConstKind
	Value any
}

// QualifiedAccess reads a property, field, or parameter.
type QualifiedAccess struct {
	Node
	Target   symbols.SymbolID
	Name     string
	Safe     bool
	Receiver Expression
}

// Block is a statement sequence.
type Block struct {
	Node
	Statements []Statement
}

// Return exits the function identified by Target.
type Return struct {
	Node
	Target symbols.SymbolID
	Value  Expression
}

func (*Call) element()            {}
func (*ErrorCall) element()       {}
func (*Const) element()           {}
func (*QualifiedAccess) element() {}
func (*Block) element()           {}
func (*Return) element()          {}

func (*Call) statement()            {}
func (*ErrorCall) statement()       {}
func (*Const) statement()           {}
func (*QualifiedAccess) statement() {}
func (*Block) statement()           {}
func (*Return) statement()          {}

func (*Call) expression()            {}
func (*ErrorCall) expression()       {}
func (*Const) expression()           {}
func (*QualifiedAccess) expression() {}
func (*Block) expression()           {}
func (*Return) expression()          {}
