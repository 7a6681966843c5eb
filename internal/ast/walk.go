package ast

// Walk visits e and its children depth-first in source order. Returning false
// from fn skips the children of the current node.
func Walk(e Element, fn func(Element) bool) {
	if isNil(e) || !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Walk(c, fn)
	}
}

// Children lists the direct children of e in source order.
func Children(e Element) []Element {
	var out []Element
	add := func(c Element) {
		if !isNil(c) {
			out = append(out, c)
		}
	}
	addAnnotations := func(as []*Annotation) {
		for _, a := range as {
			add(a)
		}
	}

	switch n := e.(type) {
	case *File:
		for _, d := range n.Declarations {
			add(d)
		}
		addAnnotations(n.Annotations)
	case *Property:
		add(n.Initializer)
		add(n.Delegate)
		add(n.Getter)
		add(n.Setter)
		addAnnotations(n.Annotations)
	case *Function:
		for _, p := range n.Parameters {
			add(p)
		}
		add(n.Body)
		addAnnotations(n.Annotations)
	case *ValueParameter:
		add(n.Default)
	case *PropertyAccessor:
		add(n.ValueParameter)
		add(n.Body)
		addAnnotations(n.Annotations)
	case *FunctionCall:
		for _, a := range n.Arguments {
			add(a)
		}
	case *QualifiedAccess:
		add(n.Receiver)
	case *Block:
		for _, s := range n.Statements {
			add(s)
		}
	case *Return:
		add(n.Result)
	case *Annotation:
		for _, a := range n.Arguments {
			add(a)
		}
	}
	return out
}

// isNil catches both untyped nil and typed nil pointers stored in an interface.
func isNil(e Element) bool {
	switch n := e.(type) {
	case nil:
		return true
	case *File:
		return n == nil
	case *Property:
		return n == nil
	case *Function:
		return n == nil
	case *ValueParameter:
		return n == nil
	case *DefaultGetter:
		return n == nil
	case *DefaultSetter:
		return n == nil
	case *PropertyAccessor:
		return n == nil
	case *FunctionCall:
		return n == nil
	case *ConstExpression:
		return n == nil
	case *QualifiedAccess:
		return n == nil
	case *Block:
		return n == nil
	case *Return:
		return n == nil
	case *Annotation:
		return n == nil
	default:
		return false
	}
}
