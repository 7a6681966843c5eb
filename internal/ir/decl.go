package ir

import (
	"treelower/internal/ast"
	"treelower/internal/symbols"
)

// PackageFragment is the container a File belongs to. It comes from the
// package directory rather than from lowering.
type PackageFragment struct {
	FqName string
}

func (p *PackageFragment) ContainerName() string { return "package " + p.FqName }
func (*PackageFragment) container()              {}

// File is the root of one Output Tree.
type File struct {
	Node
	Name         string
	Package      *PackageFragment
	Declarations []Declaration
	Annotations  []Expression
}

// Property is a lowered property declaration.
type Property struct {
	Node
	Sym          symbols.SymbolID
	Name         string
	Visibility   ast.Visibility
	Modality     ast.Modality
	IsVar        bool
	IsConst      bool
	IsLateInit   bool
	IsDelegated  bool
	BackingField *Field
	Getter       *Function
	Setter       *Function
	Annotations  []Expression
}

// Field is storage, currently only synthesized as a property backing field.
type Field struct {
	Node
	Sym         symbols.SymbolID
	Name        string
	Visibility  ast.Visibility
	Initializer *ExpressionBody
}

// Function is a user function or a property accessor.
type Function struct {
	Node
	Sym         symbols.SymbolID
	Name        string
	Visibility  ast.Visibility
	Modality    ast.Modality
	Parameters  []*ValueParameter
	Body        *Block
	Annotations []Expression
	// Property is set for accessors.
	Property symbols.SymbolID
}

// ValueParameter is a parameter of a Function.
type ValueParameter struct {
	Node
	Sym     symbols.SymbolID
	Name    string
	Index   int
	Default *ExpressionBody
}

// External stands in for a referenced declaration that no lowered file
// provides.
type External struct {
	Node
	Sym      symbols.SymbolID
	Name     string
	Callable ast.CallableID
	Arity    int
}

// ExpressionBody wraps an initializer or default value expression.
type ExpressionBody struct {
	Node
	Expression Expression
}

func (n *Property) Symbol() symbols.SymbolID       { return n.Sym }
func (n *Field) Symbol() symbols.SymbolID          { return n.Sym }
func (n *Function) Symbol() symbols.SymbolID       { return n.Sym }
func (n *ValueParameter) Symbol() symbols.SymbolID { return n.Sym }
func (n *External) Symbol() symbols.SymbolID       { return n.Sym }

func (n *File) ContainerName() string     { return "file " + n.Name }
func (n *Property) ContainerName() string { return "property " + n.Name }
func (n *Function) ContainerName() string { return "function " + n.Name }

func (*File) container()     {}
func (*Property) container() {}
func (*Function) container() {}

func (*File) element()           {}
func (*Property) element()       {}
func (*Field) element()          {}
func (*Function) element()       {}
func (*ValueParameter) element() {}
func (*External) element()       {}
func (*ExpressionBody) element() {}

func (*Property) declaration()       {}
func (*Field) declaration()          {}
func (*Function) declaration()       {}
func (*ValueParameter) declaration() {}
func (*External) declaration()       {}

// Local properties live among block statements.
func (*Property) statement() {}
