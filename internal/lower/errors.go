package lower

import (
	"fmt"

	"treelower/internal/source"
)

// InvariantViolation reports a Source Tree the pass cannot lower, or a
// broken declare/bind protocol. Lower returns it instead of a partial tree.
type InvariantViolation struct {
	Node string // Go type of the offending node, e.g. *ast.Property
	Span source.Span
	Msg  string
	Err  error // underlying registry error, if any
}

func (e *InvariantViolation) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Node == "" {
		return "lower: invariant violated: " + msg
	}
	return fmt.Sprintf("lower: invariant violated at %s %s: %s", e.Node, e.Span, msg)
}

func (e *InvariantViolation) Unwrap() error { return e.Err }

// violate aborts lowering. node may be nil when no Source Tree node is at
// fault.
func violate(node interface{ Pos() source.Span }, format string, args ...any) {
	v := &InvariantViolation{Msg: fmt.Sprintf(format, args...)}
	if node != nil {
		v.Node = fmt.Sprintf("%T", node)
		v.Span = node.Pos()
	}
	panic(v)
}
