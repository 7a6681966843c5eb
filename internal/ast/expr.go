package ast

import "treelower/internal/source"

// FunctionCall is a call `callee(args...)`.
type FunctionCall struct {
	Type      TypeRef
	Callee    Reference
	Arguments []Expression
	Span      source.Span
}

// ConstExpression is a literal already normalized by resolution.
type ConstExpression struct {
	Type  TypeRef
	Kind  ConstKind
	Value any
	Span  source.Span
}

// QualifiedAccess reads a property or value, optionally through a receiver.
type QualifiedAccess struct {
	Type     TypeRef
	Safe     bool // `?.`
	Callee   Reference
	Receiver Expression // nil for unqualified access
	Span     source.Span
}

// Block is a statement sequence. An empty block synthesized upstream may have
// no type at all.
type Block struct {
	Type       TypeRef
	Statements []Statement
	Span       source.Span
}

// Return exits the enclosing function.
type Return struct {
	Type   TypeRef
	Result Expression // nil for a bare return
	Span   source.Span
}

// Annotation is an annotation use; it lowers like a constructor call.
type Annotation struct {
	Type      TypeRef
	Callee    Reference
	Arguments []Expression
	Span      source.Span
}

// NewEmptyBlock returns a block with no statements and no type.
func NewEmptyBlock(span source.Span) *Block {
	return &Block{Span: span}
}

func (n *FunctionCall) Pos() source.Span    { return n.Span }
func (n *ConstExpression) Pos() source.Span { return n.Span }
func (n *QualifiedAccess) Pos() source.Span { return n.Span }
func (n *Block) Pos() source.Span           { return n.Span }
func (n *Return) Pos() source.Span          { return n.Span }
func (n *Annotation) Pos() source.Span      { return n.Span }

func (n *FunctionCall) TypeRef() TypeRef    { return n.Type }
func (n *ConstExpression) TypeRef() TypeRef { return n.Type }
func (n *QualifiedAccess) TypeRef() TypeRef { return n.Type }
func (n *Block) TypeRef() TypeRef           { return n.Type }
func (n *Return) TypeRef() TypeRef          { return n.Type }
func (n *Annotation) TypeRef() TypeRef      { return n.Type }

func (*FunctionCall) element()    {}
func (*ConstExpression) element() {}
func (*QualifiedAccess) element() {}
func (*Block) element()           {}
func (*Return) element()          {}
func (*Annotation) element()      {}

func (*FunctionCall) statement()    {}
func (*ConstExpression) statement() {}
func (*QualifiedAccess) statement() {}
func (*Block) statement()           {}
func (*Return) statement()          {}
func (*Annotation) statement()      {}

func (*FunctionCall) expression()    {}
func (*ConstExpression) expression() {}
func (*QualifiedAccess) expression() {}
func (*Block) expression()           {}
func (*Return) expression()          {}
func (*Annotation) expression()      {}
