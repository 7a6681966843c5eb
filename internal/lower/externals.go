package lower

import (
	"treelower/internal/ir"
	"treelower/internal/source"
	"treelower/internal/symbols"
)

// bindExternals binds every symbol the file referenced without declaring to
// an External stub. Afterwards the registry has no unbound symbol.
func (l *lowerer) bindExternals() []*ir.External {
	var out []*ir.External
	for _, id := range l.reg.Unbound() {
		d := l.reg.Descriptor(id)
		if !d.Key.IsValid() {
			violate(nil, "local %s symbol #%d was declared but never bound", d.Kind, id)
		}
		typ, ok := l.refTypes[id]
		if !ok {
			typ = l.types.Builtins().Any
		}
		ext := &ir.External{
			Node:     ir.Node{Span: source.NoSpan, Type: typ, Origin: ir.OriginExternal},
			Sym:      id,
			Name:     d.Key.Callable.Name,
			Callable: d.Key.Callable,
			Arity:    d.Key.Arity,
		}
		ext.SetParent(l.packages.Fragment(d.Key.Callable.Package))
		l.reg.MarkDeclared(id, symbols.KindExternal)
		l.reg.Bind(id, ext)
		out = append(out, ext)
	}
	return out
}
