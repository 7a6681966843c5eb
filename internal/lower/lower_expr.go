package lower

import (
	"treelower/internal/ast"
	"treelower/internal/diag"
	"treelower/internal/ir"
	"treelower/internal/source"
	"treelower/internal/types"
)

func (l *lowerer) lowerCall(ctx scopeContext, n *ast.FunctionCall) ir.Expression {
	return l.lowerCallLike(ctx, n, n.Type, n.Callee, n.Arguments)
}

// Annotations lower like constructor calls.
func (l *lowerer) lowerAnnotation(ctx scopeContext, n *ast.Annotation) ir.Expression {
	return l.lowerCallLike(ctx, n, n.Type, n.Callee, n.Arguments)
}

func (l *lowerer) lowerCallLike(ctx scopeContext, n ast.Element, typeRef ast.TypeRef, callee ast.Reference, args []ast.Expression) ir.Expression {
	typ := l.lowerType(typeRef, n)
	sp := l.rangeOf(n)

	target, ok := l.resolver.ResolveCallee(callee, len(args))
	if !ok {
		return l.unresolved(ctx, sp, typ, refName(callee), args, nil)
	}
	l.noteRefType(target.Symbol, typ)

	call := ir.NewCall(
		ir.Node{Span: sp, Type: typ, Origin: ir.OriginDefined},
		target.Symbol, target.Name, max(target.Params, len(args)),
	)
	call.SetParent(ctx.parent())
	for i, a := range args {
		call.PutArgument(i, l.lowerExpr(ctx, a))
	}
	return call
}

// unresolved builds the placeholder for a reference that did not resolve.
// prefix holds already lowered arguments, such as an access receiver.
func (l *lowerer) unresolved(ctx scopeContext, sp source.Span, typ types.TypeID, name string, args []ast.Expression, prefix ir.Expression) *ir.ErrorCall {
	msg := "Unresolved reference: " + name
	ec := &ir.ErrorCall{
		Node:    ir.Node{Span: sp, Type: typ, Origin: ir.OriginErrorPlaceholder},
		Message: msg,
	}
	ec.SetParent(ctx.parent())
	if prefix != nil {
		ec.AddArgument(prefix)
	}
	for _, a := range args {
		ec.AddArgument(l.lowerExpr(ctx, a))
	}
	diag.ReportError(l.reporter, diag.LowerUnresolvedReference, sp, msg).Emit()
	return ec
}

func (l *lowerer) lowerConst(ctx scopeContext, n *ast.ConstExpression) *ir.Const {
	c := &ir.Const{
		Node:  ir.Node{Span: l.rangeOf(n), Type: l.lowerType(n.Type, n), Origin: ir.OriginDefined},
		Kind:  n.Kind,
		Value: n.Value,
	}
	c.SetParent(ctx.parent())
	return c
}

func (l *lowerer) lowerAccess(ctx scopeContext, n *ast.QualifiedAccess) ir.Expression {
	typ := l.lowerType(n.Type, n)
	sp := l.rangeOf(n)

	var receiver ir.Expression
	if n.Receiver != nil {
		receiver = l.lowerExpr(ctx, n.Receiver)
	}

	name := refName(n.Callee)
	access := &ir.QualifiedAccess{
		Node:     ir.Node{Span: sp, Type: typ, Origin: ir.OriginDefined},
		Name:     name,
		Safe:     n.Safe,
		Receiver: receiver,
	}
	if loc, ok := l.localTarget(ctx, n); ok {
		access.Target = loc.sym
	} else if target, ok := l.resolver.ResolveAccess(n.Callee); ok {
		access.Target = target.Symbol
		l.noteRefType(target.Symbol, typ)
	} else {
		return l.unresolved(ctx, sp, typ, name, nil, receiver)
	}
	access.SetParent(ctx.parent())
	return access
}

// localTarget looks an unqualified access up among the locals in scope.
// Upstream resolution marks locals with an empty package.
func (l *lowerer) localTarget(ctx scopeContext, n *ast.QualifiedAccess) (local, bool) {
	if n.Receiver != nil {
		return local{}, false
	}
	switch r := n.Callee.(type) {
	case *ast.NamedReference:
		return ctx.lookupLocal(r.Name)
	case *ast.ResolvedReference:
		if r.Callable.Package == "" {
			return ctx.lookupLocal(r.Callable.Name)
		}
	}
	return local{}, false
}

// lowerBlock lowers statements in order. A property declared in the block is
// visible to the statements after it. A block without a type is Unit.
func (l *lowerer) lowerBlock(ctx scopeContext, n *ast.Block) *ir.Block {
	b := &ir.Block{
		Node: ir.Node{
			Span:   l.rangeOf(n),
			Type:   l.lowerTypeOr(n.Type, n, l.types.Builtins().Unit),
			Origin: ir.OriginDefined,
		},
	}
	b.SetParent(ctx.parent())
	for _, s := range n.Statements {
		out := l.lowerStatement(ctx, s)
		if p, ok := out.(*ir.Property); ok {
			ctx = ctx.withLocal(p.Name, p.Sym, p.Type)
		}
		b.Statements = append(b.Statements, out)
	}
	return b
}

func (l *lowerer) lowerReturn(ctx scopeContext, n *ast.Return) *ir.Return {
	fn, ok := ctx.function()
	if !ok {
		violate(n, "return outside a function")
	}
	r := &ir.Return{
		Node: ir.Node{
			Span:   l.rangeOf(n),
			Type:   l.lowerTypeOr(n.Type, n, l.types.Builtins().Nothing),
			Origin: ir.OriginDefined,
		},
		Target: fn.Sym,
	}
	r.SetParent(ctx.parent())
	if n.Result != nil {
		r.Value = l.lowerExpr(ctx, n.Result)
	}
	return r
}
