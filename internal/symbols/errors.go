package symbols

import "fmt"

// InvariantError reports misuse of the declare/bind protocol. It is raised as
// a panic: a registry that hits it is in a state the caller cannot repair.
type InvariantError struct {
	Op     string
	Symbol SymbolID
	Msg    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("symbols: %s #%d: %s", e.Op, e.Symbol, e.Msg)
}

func invariant(op string, id SymbolID, format string, args ...any) {
	panic(&InvariantError{Op: op, Symbol: id, Msg: fmt.Sprintf(format, args...)})
}
