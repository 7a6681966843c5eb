package lower

import (
	"treelower/internal/ir"
	"treelower/internal/symbols"
	"treelower/internal/types"
)

// scopeContext is the chain of containers and local bindings enclosing the
// node being lowered. It is a persistent list: with and withLocal return a
// new context and never touch the receiver, so a rule's caller sees its own
// context unchanged however the rule exits.
type scopeContext struct {
	top *frame
}

type frame struct {
	next      *frame
	container ir.Container // nil for local frames
	local     *local
	depth     int // containers on the chain, this frame included
}

// local is a name visible to unqualified accesses, such as a value
// parameter or a property declared earlier in a block.
type local struct {
	name string
	sym  symbols.SymbolID
	typ  types.TypeID
}

func (c scopeContext) with(container ir.Container) scopeContext {
	return scopeContext{top: &frame{next: c.top, container: container, depth: c.depth() + 1}}
}

func (c scopeContext) withLocal(name string, sym symbols.SymbolID, typ types.TypeID) scopeContext {
	return scopeContext{top: &frame{
		next:  c.top,
		local: &local{name: name, sym: sym, typ: typ},
		depth: c.depth(),
	}}
}

func (c scopeContext) depth() int {
	if c.top == nil {
		return 0
	}
	return c.top.depth
}

// parent returns the innermost container.
func (c scopeContext) parent() ir.Container {
	for f := c.top; f != nil; f = f.next {
		if f.container != nil {
			return f.container
		}
	}
	violate(nil, "no enclosing container")
	return nil
}

func (c scopeContext) lookupLocal(name string) (local, bool) {
	for f := c.top; f != nil; f = f.next {
		if f.local != nil && f.local.name == name {
			return *f.local, true
		}
	}
	return local{}, false
}

// function returns the innermost enclosing function, if any.
func (c scopeContext) function() (*ir.Function, bool) {
	for f := c.top; f != nil; f = f.next {
		if fn, ok := f.container.(*ir.Function); ok {
			return fn, true
		}
	}
	return nil, false
}

// withScope runs body with container pushed and returns container.
func withScope[C ir.Container](c scopeContext, container C, body func(scopeContext)) C {
	body(c.with(container))
	return container
}
