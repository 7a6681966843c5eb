package types

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
}

type typeKey struct {
	Kind     Kind
	Class    string
	Args     string
	Nullable bool
	Reason   string
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		types: make([]Type, 1, 32), // index 0 reserved for NoTypeID
		index: make(map[typeKey]TypeID, 32),
	}
	in.builtins = Builtins{
		Unit:    in.Intern(Type{Kind: KindUnit}),
		Nothing: in.Intern(Type{Kind: KindNothing}),
		Any:     in.Intern(Type{Kind: KindAny}),
		Boolean: in.Intern(Type{Kind: KindBoolean}),
		Char:    in.Intern(Type{Kind: KindChar}),
		Int:     in.Intern(Type{Kind: KindInt}),
		Long:    in.Intern(Type{Kind: KindLong}),
		Float:   in.Intern(Type{Kind: KindFloat}),
		Double:  in.Intern(Type{Kind: KindDouble}),
		String:  in.Intern(Type{Kind: KindString}),
	}
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := makeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	t.Args = append([]TypeID(nil), t.Args...)
	in.types = append(in.types, t)
	in.index[key] = id
	return id
}

// Nullable returns the nullable variant of id.
func (in *Interner) Nullable(id TypeID) TypeID {
	t, ok := in.Lookup(id)
	if !ok || t.Nullable {
		return id
	}
	t.Nullable = true
	return in.Intern(t)
}

// Error interns an error type carrying reason.
func (in *Interner) Error(reason string) TypeID {
	return in.Intern(Type{Kind: KindError, Reason: reason})
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len reports interned types excluding the sentinel.
func (in *Interner) Len() int { return len(in.types) - 1 }

func makeKey(t Type) typeKey {
	var args strings.Builder
	for i, a := range t.Args {
		if i > 0 {
			args.WriteByte(',')
		}
		args.WriteString(strconv.FormatUint(uint64(a), 10))
	}
	return typeKey{
		Kind:     t.Kind,
		Class:    t.Class,
		Args:     args.String(),
		Nullable: t.Nullable,
		Reason:   t.Reason,
	}
}
