package ast

import "treelower/internal/source"

// File is the root of one Source Tree.
type File struct {
	Name         string
	Package      string
	Declarations []Declaration
	Annotations  []*Annotation
	Span         source.Span
}

// Property is a top-level, member, or local property.
type Property struct {
	Name        string
	Visibility  Visibility
	Modality    Modality
	IsVar       bool
	IsConst     bool
	IsLateInit  bool
	ReturnType  TypeRef
	Initializer Expression // nil when absent
	Delegate    Expression // nil unless declared with `by`
	Getter      Accessor
	Setter      Accessor // nil for read-only properties
	Annotations []*Annotation
	Span        source.Span
}

// Function is a named function declaration.
type Function struct {
	Name        string
	Visibility  Visibility
	Modality    Modality
	ReturnType  TypeRef
	Parameters  []*ValueParameter
	Body        *Block // nil for bodiless declarations
	Annotations []*Annotation
	Span        source.Span
}

// ValueParameter is a function or setter parameter.
type ValueParameter struct {
	Name       string
	ReturnType TypeRef
	Default    Expression
	Span       source.Span
}

// DefaultGetter stands for a getter not written in source.
type DefaultGetter struct {
	Visibility Visibility
	Span       source.Span
}

// DefaultSetter stands for a setter not written in source.
type DefaultSetter struct {
	Visibility Visibility
	Span       source.Span
}

// PropertyAccessor is an explicitly written getter or setter.
type PropertyAccessor struct {
	IsGetter       bool
	Visibility     Visibility
	ReturnType     TypeRef
	ValueParameter *ValueParameter // setters only
	Body           *Block
	Annotations    []*Annotation
	Span           source.Span
}

func (n *File) Pos() source.Span             { return n.Span }
func (n *Property) Pos() source.Span         { return n.Span }
func (n *Function) Pos() source.Span         { return n.Span }
func (n *ValueParameter) Pos() source.Span   { return n.Span }
func (n *DefaultGetter) Pos() source.Span    { return n.Span }
func (n *DefaultSetter) Pos() source.Span    { return n.Span }
func (n *PropertyAccessor) Pos() source.Span { return n.Span }

func (*File) element()             {}
func (*Property) element()         {}
func (*Function) element()         {}
func (*ValueParameter) element()   {}
func (*DefaultGetter) element()    {}
func (*DefaultSetter) element()    {}
func (*PropertyAccessor) element() {}

func (*Property) declaration() {}
func (*Function) declaration() {}

// Local properties may appear among block statements.
func (*Property) statement() {}

func (*DefaultGetter) accessor()    {}
func (*DefaultSetter) accessor()    {}
func (*PropertyAccessor) accessor() {}
