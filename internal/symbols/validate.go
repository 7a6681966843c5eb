package symbols

import (
	"errors"
	"fmt"
)

// Validate checks the registry arenas for consistency. It returns nil when
// every bound owner carries its own handle and every keyed entry points back
// at a slot with the same key.
func (r *Registry) Validate() error {
	var errs []error
	for i := 1; i <= r.descs.Len(); i++ {
		id := toSymbolID(i)
		d := r.descs.Get(uint32(id))
		if d.Kind == KindInvalid {
			errs = append(errs, fmt.Errorf("symbol %d has invalid kind", id))
		}
		if d.owner != nil && d.owner.Symbol() != id {
			errs = append(errs, fmt.Errorf("symbol %d owner carries %d", id, d.owner.Symbol()))
		}
		if d.owner != nil && !d.declared {
			errs = append(errs, fmt.Errorf("symbol %d bound but never declared", id))
		}
	}
	for key, id := range r.byKey {
		d := r.descs.Get(uint32(id))
		if d == nil {
			errs = append(errs, fmt.Errorf("key %s/%d points at missing symbol %d", key.Callable, key.Arity, id))
			continue
		}
		if d.Key != key {
			errs = append(errs, fmt.Errorf("key %s/%d points at symbol %d keyed %s/%d", key.Callable, key.Arity, id, d.Key.Callable, d.Key.Arity))
		}
	}
	return errors.Join(errs...)
}
