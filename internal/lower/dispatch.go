package lower

import (
	"treelower/internal/ast"
	"treelower/internal/ir"
	"treelower/internal/trace"
)

// lowerElement is the single entry every rule uses to lower a child. The set
// of Source Tree variants is closed; anything else is broken input.
func (l *lowerer) lowerElement(ctx scopeContext, e ast.Element) ir.Element {
	if l.span.Enabled(trace.ScopeNode) {
		l.span.Point(trace.ScopeNode, nodeName(e), "")
	}
	switch n := e.(type) {
	case *ast.File:
		return l.lowerFile(ctx, n)
	case *ast.Property:
		return l.lowerProperty(ctx, n)
	case *ast.Function:
		return l.lowerFunction(ctx, n)
	case *ast.FunctionCall:
		return l.lowerCall(ctx, n)
	case *ast.ConstExpression:
		return l.lowerConst(ctx, n)
	case *ast.QualifiedAccess:
		return l.lowerAccess(ctx, n)
	case *ast.Block:
		return l.lowerBlock(ctx, n)
	case *ast.Return:
		return l.lowerReturn(ctx, n)
	case *ast.Annotation:
		return l.lowerAnnotation(ctx, n)
	case *ast.ValueParameter, *ast.DefaultGetter, *ast.DefaultSetter, *ast.PropertyAccessor:
		// Lowered by their owning function or property only.
		violate(e, "%T outside its owner", e)
	case nil:
		violate(nil, "nil element")
	default:
		violate(e, "unknown element variant %T", e)
	}
	return nil
}

func (l *lowerer) lowerExpr(ctx scopeContext, e ast.Expression) ir.Expression {
	if e == nil {
		violate(nil, "nil expression")
	}
	out, ok := l.lowerElement(ctx, e).(ir.Expression)
	if !ok {
		violate(e, "%T did not lower to an expression", e)
	}
	return out
}

func (l *lowerer) lowerStatement(ctx scopeContext, s ast.Statement) ir.Statement {
	if s == nil {
		violate(nil, "nil statement")
	}
	out, ok := l.lowerElement(ctx, s).(ir.Statement)
	if !ok {
		violate(s, "%T did not lower to a statement", s)
	}
	return out
}

func (l *lowerer) lowerDeclaration(ctx scopeContext, d ast.Declaration) ir.Declaration {
	if d == nil {
		violate(nil, "nil declaration")
	}
	out, ok := l.lowerElement(ctx, d).(ir.Declaration)
	if !ok {
		violate(d, "%T did not lower to a declaration", d)
	}
	return out
}

func nodeName(e ast.Element) string {
	switch n := e.(type) {
	case *ast.File:
		return "file:" + n.Name
	case *ast.Property:
		return "prop:" + n.Name
	case *ast.Function:
		return "fun:" + n.Name
	case *ast.FunctionCall:
		return "call:" + refName(n.Callee)
	case *ast.QualifiedAccess:
		return "get:" + refName(n.Callee)
	case *ast.ConstExpression:
		return "const"
	case *ast.Block:
		return "block"
	case *ast.Return:
		return "return"
	case *ast.Annotation:
		return "annotation:" + refName(n.Callee)
	default:
		return "node"
	}
}

func refName(r ast.Reference) string {
	if r == nil {
		return "<missing>"
	}
	return r.RefName()
}
