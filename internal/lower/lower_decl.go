package lower

import (
	"treelower/internal/ast"
	"treelower/internal/ir"
	"treelower/internal/source"
	"treelower/internal/symbols"
	"treelower/internal/trace"
	"treelower/internal/types"
)

func (l *lowerer) lowerFile(ctx scopeContext, f *ast.File) *ir.File {
	frag := l.packages.Fragment(f.Package)
	file := &ir.File{
		Node:    ir.Node{Span: l.rangeOf(f), Type: l.types.Builtins().Unit},
		Name:    f.Name,
		Package: frag,
	}
	file.SetParent(frag)

	return withScope(ctx, file, func(ctx scopeContext) {
		for _, d := range f.Declarations {
			l.checkContext()
			outer := l.span
			l.span = outer.Child(trace.ScopeDecl, nodeName(d))
			file.Declarations = append(file.Declarations, l.lowerDeclaration(ctx, d))
			l.span.End("")
			l.span = outer
		}
		for _, a := range f.Annotations {
			file.Annotations = append(file.Annotations, l.lowerExpr(ctx, a))
		}
	})
}

func (l *lowerer) lowerProperty(ctx scopeContext, p *ast.Property) *ir.Property {
	if p.Modality == ast.ModalityUnknown {
		violate(p, "property %s has no modality", p.Name)
	}
	sp := l.rangeOf(p)
	typ := l.lowerType(p.ReturnType, p)
	delegated := p.Delegate != nil

	owner := ctx.parent()
	var sym symbols.SymbolID
	if _, topLevel := owner.(*ir.File); topLevel {
		key := symbols.Key{Callable: ast.CallableID{Package: l.pkg, Name: p.Name}, Arity: symbols.NoArity}
		sym = l.reg.DeclareKeyed(symbols.KindProperty, key, sp, delegated)
	} else {
		sym = l.reg.Declare(symbols.KindProperty, sp, delegated)
	}

	prop := &ir.Property{
		Node:        ir.Node{Span: sp, Type: typ, Origin: ir.OriginDefined},
		Sym:         sym,
		Name:        p.Name,
		Visibility:  p.Visibility,
		Modality:    p.Modality,
		IsVar:       p.IsVar,
		IsConst:     p.IsConst,
		IsLateInit:  p.IsLateInit,
		IsDelegated: delegated,
	}
	l.reg.Bind(sym, prop)
	prop.SetParent(owner)

	return withScope(ctx, prop, func(ctx scopeContext) {
		// Only an initializer implies storage; a property without one has no
		// backing field even when its accessors would read one.
		if p.Initializer != nil {
			prop.BackingField = l.backingField(ctx, p, prop, sp)
		}
		prop.Getter = l.lowerAccessor(ctx, p, prop, p.Getter, true)
		prop.Setter = l.lowerAccessor(ctx, p, prop, p.Setter, false)
		for _, a := range p.Annotations {
			prop.Annotations = append(prop.Annotations, l.lowerExpr(ctx, a))
		}
	})
}

func (l *lowerer) backingField(ctx scopeContext, p *ast.Property, prop *ir.Property, sp source.Span) *ir.Field {
	sym := l.reg.Declare(symbols.KindField, sp, prop.IsDelegated)
	field := &ir.Field{
		Node:       ir.Node{Span: sp, Type: prop.Type, Origin: ir.OriginBackingField},
		Sym:        sym,
		Name:       p.Name,
		Visibility: ast.VisPrivate,
	}
	l.reg.Bind(sym, field)
	field.SetParent(ctx.parent())
	field.Initializer = l.expressionBody(ctx, p.Initializer)
	return field
}

func (l *lowerer) expressionBody(ctx scopeContext, e ast.Expression) *ir.ExpressionBody {
	x := l.lowerExpr(ctx, e)
	body := &ir.ExpressionBody{
		Node:       ir.Node{Span: x.Base().Span, Type: x.Base().Type, Origin: ir.OriginDefined},
		Expression: x,
	}
	body.SetParent(ctx.parent())
	return body
}

// lowerAccessor lowers the accessor found in the getter or setter slot of p.
func (l *lowerer) lowerAccessor(ctx scopeContext, p *ast.Property, prop *ir.Property, a ast.Accessor, getter bool) *ir.Function {
	// A default accessor is only valid in its own slot and lowers to nothing.
	switch a.(type) {
	case nil:
		return nil
	case *ast.DefaultGetter:
		if getter {
			return nil
		}
		violate(a, "default getter in the setter slot of %s", p.Name)
	case *ast.DefaultSetter:
		if !getter {
			return nil
		}
		violate(a, "default setter in the getter slot of %s", p.Name)
	}
	acc, ok := a.(*ast.PropertyAccessor)
	if !ok {
		violate(a, "unknown accessor variant %T", a)
	}
	if acc.IsGetter != getter {
		violate(acc, "accessor in the wrong slot of %s", p.Name)
	}

	sp := l.rangeOf(acc)
	name := "<set-" + p.Name + ">"
	typ := l.lowerTypeOr(acc.ReturnType, acc, l.types.Builtins().Unit)
	if getter {
		name = "<get-" + p.Name + ">"
		typ = l.lowerTypeOr(acc.ReturnType, acc, prop.Type)
	}

	sym := l.reg.Declare(symbols.KindAccessor, sp, false)
	fn := &ir.Function{
		Node:       ir.Node{Span: sp, Type: typ, Origin: ir.OriginDefined},
		Sym:        sym,
		Name:       name,
		Visibility: acc.Visibility,
		Modality:   p.Modality,
		Property:   prop.Sym,
	}
	l.reg.Bind(sym, fn)
	fn.SetParent(ctx.parent())

	return withScope(ctx, fn, func(ctx scopeContext) {
		if acc.ValueParameter != nil {
			if getter {
				violate(acc, "getter of %s takes a parameter", p.Name)
			}
			vp := l.lowerValueParameter(ctx, acc.ValueParameter, 0, prop.Type)
			fn.Parameters = append(fn.Parameters, vp)
			ctx = ctx.withLocal(vp.Name, vp.Sym, vp.Type)
		}
		if acc.Body != nil {
			fn.Body = l.lowerBlock(ctx, acc.Body)
		}
		for _, an := range acc.Annotations {
			fn.Annotations = append(fn.Annotations, l.lowerExpr(ctx, an))
		}
	})
}

func (l *lowerer) lowerFunction(ctx scopeContext, f *ast.Function) *ir.Function {
	if f.Modality == ast.ModalityUnknown {
		violate(f, "function %s has no modality", f.Name)
	}
	sp := l.rangeOf(f)
	typ := l.lowerTypeOr(f.ReturnType, f, l.types.Builtins().Unit)

	owner := ctx.parent()
	var sym symbols.SymbolID
	if _, topLevel := owner.(*ir.File); topLevel {
		key := symbols.Key{Callable: ast.CallableID{Package: l.pkg, Name: f.Name}, Arity: len(f.Parameters)}
		sym = l.reg.DeclareKeyed(symbols.KindFunction, key, sp, false)
	} else {
		sym = l.reg.Declare(symbols.KindFunction, sp, false)
	}

	fn := &ir.Function{
		Node:       ir.Node{Span: sp, Type: typ, Origin: ir.OriginDefined},
		Sym:        sym,
		Name:       f.Name,
		Visibility: f.Visibility,
		Modality:   f.Modality,
	}
	l.reg.Bind(sym, fn)
	fn.SetParent(owner)

	return withScope(ctx, fn, func(ctx scopeContext) {
		for i, p := range f.Parameters {
			vp := l.lowerValueParameter(ctx, p, i, 0)
			fn.Parameters = append(fn.Parameters, vp)
			ctx = ctx.withLocal(vp.Name, vp.Sym, vp.Type)
		}
		if f.Body != nil {
			fn.Body = l.lowerBlock(ctx, f.Body)
		}
		for _, a := range f.Annotations {
			fn.Annotations = append(fn.Annotations, l.lowerExpr(ctx, a))
		}
	})
}

// lowerValueParameter lowers parameter index of the function on top of ctx.
// fallback types a setter parameter written without a type; zero means the
// parameter must carry one.
func (l *lowerer) lowerValueParameter(ctx scopeContext, p *ast.ValueParameter, index int, fallback types.TypeID) *ir.ValueParameter {
	if p == nil {
		violate(nil, "nil value parameter")
	}
	sp := l.rangeOf(p)
	typ := fallback
	if p.ReturnType != nil || fallback == types.NoTypeID {
		typ = l.lowerType(p.ReturnType, p)
	}

	sym := l.reg.Declare(symbols.KindValueParameter, sp, false)
	vp := &ir.ValueParameter{
		Node:  ir.Node{Span: sp, Type: typ, Origin: ir.OriginDefined},
		Sym:   sym,
		Name:  p.Name,
		Index: index,
	}
	l.reg.Bind(sym, vp)
	vp.SetParent(ctx.parent())
	if p.Default != nil {
		vp.Default = l.expressionBody(ctx, p.Default)
	}
	return vp
}
