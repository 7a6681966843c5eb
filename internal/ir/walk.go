package ir

// Children lists the direct children of e in tree order. Empty argument
// slots are skipped.
func Children(e Element) []Element {
	var out []Element
	addExpr := func(x Expression) {
		if x != nil {
			out = append(out, x)
		}
	}
	addExprs := func(xs []Expression) {
		for _, x := range xs {
			addExpr(x)
		}
	}

	switch n := e.(type) {
	case *File:
		for _, d := range n.Declarations {
			out = append(out, d)
		}
		addExprs(n.Annotations)
	case *Property:
		if n.BackingField != nil {
			out = append(out, n.BackingField)
		}
		if n.Getter != nil {
			out = append(out, n.Getter)
		}
		if n.Setter != nil {
			out = append(out, n.Setter)
		}
		addExprs(n.Annotations)
	case *Field:
		if n.Initializer != nil {
			out = append(out, n.Initializer)
		}
	case *Function:
		for _, p := range n.Parameters {
			out = append(out, p)
		}
		if n.Body != nil {
			out = append(out, n.Body)
		}
		addExprs(n.Annotations)
	case *ValueParameter:
		if n.Default != nil {
			out = append(out, n.Default)
		}
	case *ExpressionBody:
		addExpr(n.Expression)
	case *Call:
		addExprs(n.Arguments)
	case *ErrorCall:
		addExprs(n.Arguments)
	case *QualifiedAccess:
		addExpr(n.Receiver)
	case *Block:
		for _, s := range n.Statements {
			out = append(out, s)
		}
	case *Return:
		addExpr(n.Value)
	}
	return out
}

// Walk visits e and its descendants depth-first. Returning false skips the
// children of the current node.
func Walk(e Element, fn func(Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Walk(c, fn)
	}
}
