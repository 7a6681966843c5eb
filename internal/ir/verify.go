package ir

import (
	"errors"
	"fmt"

	"treelower/internal/symbols"
	"treelower/internal/types"
)

// Verify checks the ownership invariants of a lowered file: every node has a
// type and a parent, the parent is the nearest enclosing container, and every
// declaration is the bound owner of its symbol. reg may be nil to skip the
// symbol checks.
func Verify(f *File, reg *symbols.Registry) error {
	if f == nil {
		return errors.New("nil file")
	}
	v := &verifier{reg: reg}
	if f.Package == nil {
		v.errorf(f, "file has no package fragment")
	} else if f.Parent() != f.Package {
		v.errorf(f, "file parent is not its package fragment")
	}
	v.visit(f, f)
	return errors.Join(v.errs...)
}

type verifier struct {
	reg  *symbols.Registry
	errs []error
}

func (v *verifier) errorf(e Element, format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%T at %s: %s", e, e.Base().Span, fmt.Sprintf(format, args...)))
}

func (v *verifier) visit(e Element, owner Container) {
	for _, c := range Children(e) {
		v.check(c, owner)
		next := owner
		if cont, ok := c.(Container); ok {
			next = cont
		}
		v.visit(c, next)
	}
}

func (v *verifier) check(e Element, owner Container) {
	n := e.Base()
	if n.Type == types.NoTypeID {
		v.errorf(e, "missing type")
	}
	switch {
	case !n.HasParent():
		v.errorf(e, "missing parent")
	case n.Parent() != owner:
		v.errorf(e, "parent is %s, want %s", n.Parent().ContainerName(), owner.ContainerName())
	}

	d, ok := e.(Declaration)
	if !ok {
		return
	}
	if !d.Symbol().IsValid() {
		v.errorf(e, "declaration without symbol")
		return
	}
	if v.reg == nil {
		return
	}
	if !v.reg.IsBound(d.Symbol()) {
		v.errorf(e, "symbol %d is not bound", d.Symbol())
		return
	}
	if got := v.reg.Owner(d.Symbol()); got != symbols.Owner(d) {
		v.errorf(e, "symbol %d is bound to another node", d.Symbol())
	}
}
