package resolve

import (
	"treelower/internal/ast"
	"treelower/internal/symbols"
)

// Target is a reference resolved to a registry symbol.
type Target struct {
	Symbol symbols.SymbolID
	Name   string
	// Params sizes the argument slots of a call; zero for accesses.
	Params int
}

// Resolver adapts oracle answers to the symbols of one registry.
type Resolver struct {
	reg    *symbols.Registry
	oracle Oracle
}

// NewResolver binds an oracle to reg. A nil oracle resolves nothing.
func NewResolver(reg *symbols.Registry, oracle Oracle) *Resolver {
	return &Resolver{reg: reg, oracle: oracle}
}

// ResolveCallee resolves the callee of a call with argc arguments.
func (r *Resolver) ResolveCallee(ref ast.Reference, argc int) (Target, bool) {
	if argc < 0 {
		argc = 0
	}
	return r.resolve(ref, argc)
}

// ResolveAccess resolves the target of a property access.
func (r *Resolver) ResolveAccess(ref ast.Reference) (Target, bool) {
	return r.resolve(ref, symbols.NoArity)
}

func (r *Resolver) resolve(ref ast.Reference, argc int) (Target, bool) {
	if r.oracle == nil || ref == nil {
		return Target{}, false
	}
	m, ok := r.oracle.Resolve(ref, argc)
	if !ok {
		return Target{}, false
	}
	kind := m.Kind
	if kind == symbols.KindInvalid {
		kind = symbols.KindFunction
	}
	return Target{
		Symbol: r.reg.Reference(m.Key(), kind),
		Name:   ref.RefName(),
		Params: m.Params,
	}, true
}
