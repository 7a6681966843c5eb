package symbols

import (
	"treelower/internal/ast"
	"treelower/internal/source"
)

// Kind classifies the declaration a symbol identifies.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFile
	KindProperty
	KindField
	KindFunction
	KindAccessor
	KindValueParameter
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindProperty:
		return "property"
	case KindField:
		return "field"
	case KindFunction:
		return "function"
	case KindAccessor:
		return "accessor"
	case KindValueParameter:
		return "value-parameter"
	case KindExternal:
		return "external"
	default:
		return "invalid"
	}
}

// NoArity keys non-callable declarations such as properties.
const NoArity = -1

// Key identifies a declaration across the files of one lowering run.
// Functions overload by arity.
type Key struct {
	Callable ast.CallableID
	Arity    int
}

func (k Key) IsValid() bool { return k.Callable.IsValid() }

// Owner is the declaration node a symbol gets bound to. An owner must embed
// the very handle it is bound to.
type Owner interface {
	Symbol() SymbolID
}

// Descriptor is the registry slot behind a SymbolID.
type Descriptor struct {
	Kind      Kind
	Span      source.Span
	Delegated bool
	Key       Key // zero for local declarations

	declared bool // false while only forward-referenced
	owner    Owner
}

// Declared reports whether Declare ran for the slot.
func (d *Descriptor) Declared() bool { return d.declared }

// Bound reports whether the slot has an owner.
func (d *Descriptor) Bound() bool { return d.owner != nil }
