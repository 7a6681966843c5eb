package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"treelower/internal/source"
)

// EventKind labels registry activity reported to an observer.
type EventKind uint8

const (
	EventDeclare EventKind = iota + 1
	EventReference
	EventBind
)

func (k EventKind) String() string {
	switch k {
	case EventDeclare:
		return "declare"
	case EventReference:
		return "reference"
	case EventBind:
		return "bind"
	default:
		return "unknown"
	}
}

// Event describes one registry operation.
type Event struct {
	Kind   EventKind
	Symbol SymbolID
	Sym    Kind
}

// Registry allocates and binds declaration symbols with a two-phase protocol:
// Declare hands out an unbound handle that the declaration node embeds, Bind
// later attaches the finished node. A registry belongs to one lowering pass
// and is not safe for concurrent use.
type Registry struct {
	descs    *Arena[Descriptor]
	byKey    map[Key]SymbolID
	observer func(Event)
}

// NewRegistry creates an empty registry.
func NewRegistry(capHint uint32) *Registry {
	if capHint == 0 {
		capHint = 64
	}
	return &Registry{
		descs: NewArena[Descriptor](capHint),
		byKey: make(map[Key]SymbolID),
	}
}

// SetObserver installs fn to receive every declare/reference/bind event.
func (r *Registry) SetObserver(fn func(Event)) {
	r.observer = fn
}

func (r *Registry) notify(kind EventKind, id SymbolID) {
	if r.observer == nil {
		return
	}
	r.observer(Event{Kind: kind, Symbol: id, Sym: r.descs.Get(uint32(id)).Kind})
}

// Declare allocates an unbound symbol for a local declaration.
func (r *Registry) Declare(kind Kind, span source.Span, delegated bool) SymbolID {
	id := SymbolID(r.descs.Allocate(Descriptor{
		Kind:      kind,
		Span:      span,
		Delegated: delegated,
		declared:  true,
	}))
	r.notify(EventDeclare, id)
	return id
}

// DeclareKeyed declares a symbol other files and forward calls can reach by
// key. A forward reference created earlier for the same key is claimed
// instead of allocating a new slot.
func (r *Registry) DeclareKeyed(kind Kind, key Key, span source.Span, delegated bool) SymbolID {
	if !key.IsValid() {
		return r.Declare(kind, span, delegated)
	}
	if id, ok := r.byKey[key]; ok {
		d := r.descs.Get(uint32(id))
		if d.declared {
			invariant("declare", id, "%s/%d declared twice", key.Callable, key.Arity)
		}
		d.Kind = kind
		d.Span = span
		d.Delegated = delegated
		d.declared = true
		r.notify(EventDeclare, id)
		return id
	}
	id := r.Declare(kind, span, delegated)
	r.descs.Get(uint32(id)).Key = key
	r.byKey[key] = id
	return id
}

// Reference returns the symbol for key, creating an undeclared forward
// reference when nothing claimed the key yet.
func (r *Registry) Reference(key Key, kind Kind) SymbolID {
	if id, ok := r.byKey[key]; ok {
		return id
	}
	id := SymbolID(r.descs.Allocate(Descriptor{Kind: kind, Key: key}))
	r.byKey[key] = id
	r.notify(EventReference, id)
	return id
}

// Lookup returns the symbol registered for key.
func (r *Registry) Lookup(key Key) (SymbolID, bool) {
	id, ok := r.byKey[key]
	return id, ok
}

// Bind attaches owner to id. It may run once per handle, after Declare, and
// owner must carry id.
func (r *Registry) Bind(id SymbolID, owner Owner) {
	d := r.descs.Get(uint32(id))
	switch {
	case d == nil:
		invariant("bind", id, "unknown symbol")
	case owner == nil:
		invariant("bind", id, "nil owner")
	case d.owner != nil:
		invariant("bind", id, "%s already bound", d.Kind)
	case !d.declared:
		invariant("bind", id, "%s bound before declare", d.Kind)
	case owner.Symbol() != id:
		invariant("bind", id, "owner carries symbol #%d", owner.Symbol())
	}
	d.owner = owner
	r.notify(EventBind, id)
}

// Owner dereferences id. Asking for the owner of an unbound symbol is an
// invariant violation.
func (r *Registry) Owner(id SymbolID) Owner {
	d := r.descs.Get(uint32(id))
	if d == nil {
		invariant("owner", id, "unknown symbol")
	}
	if d.owner == nil {
		invariant("owner", id, "%s is not bound", d.Kind)
	}
	return d.owner
}

// Descriptor returns the slot for id, or nil.
func (r *Registry) Descriptor(id SymbolID) *Descriptor {
	return r.descs.Get(uint32(id))
}

// IsBound reports whether id has an owner.
func (r *Registry) IsBound(id SymbolID) bool {
	d := r.descs.Get(uint32(id))
	return d != nil && d.owner != nil
}

// Unbound lists symbols without an owner in allocation order.
func (r *Registry) Unbound() []SymbolID {
	var out []SymbolID
	for i := 1; i <= r.descs.Len(); i++ {
		id := toSymbolID(i)
		if !r.IsBound(id) {
			out = append(out, id)
		}
	}
	return out
}

// MarkDeclared records that an external stub stands in for a forward
// reference, so that it can be bound.
func (r *Registry) MarkDeclared(id SymbolID, kind Kind) {
	d := r.descs.Get(uint32(id))
	if d == nil {
		invariant("declare", id, "unknown symbol")
	}
	if d.declared {
		return
	}
	d.declared = true
	d.Kind = kind
	r.notify(EventDeclare, id)
}

// Len reports the number of allocated symbols.
func (r *Registry) Len() int { return r.descs.Len() }

func toSymbolID(i int) SymbolID {
	n, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("symbol index overflow: %w", err))
	}
	return SymbolID(n)
}
