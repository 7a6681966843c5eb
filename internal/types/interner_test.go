package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Unit == NoTypeID || b.Int == NoTypeID || b.String == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	unit, _ := in.Lookup(b.Unit)
	if unit.Kind != KindUnit {
		t.Fatalf("expected unit kind, got %v", unit.Kind)
	}
	if in.Intern(Type{Kind: KindInt}) != b.Int {
		t.Fatalf("builtin Int should be deduplicated")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	elem := in.Builtins().String
	list1 := in.Intern(Type{Kind: KindClass, Class: "kotlin.collections.List", Args: []TypeID{elem}})
	list2 := in.Intern(Type{Kind: KindClass, Class: "kotlin.collections.List", Args: []TypeID{elem}})
	if list1 != list2 {
		t.Fatalf("class types should be deduplicated")
	}
	other := in.Intern(Type{Kind: KindClass, Class: "kotlin.collections.List", Args: []TypeID{in.Builtins().Int}})
	if other == list1 {
		t.Fatalf("type arguments must affect identity")
	}
}

func TestNullableAffectsIdentity(t *testing.T) {
	in := NewInterner()
	i := in.Builtins().Int
	n := in.Nullable(i)
	if n == i {
		t.Fatalf("nullable and non-null types must differ")
	}
	if in.Nullable(n) != n {
		t.Fatalf("Nullable must be idempotent")
	}
}

func TestInvalidKindIsNotInterned(t *testing.T) {
	in := NewInterner()
	before := in.Len()
	if id := in.Intern(Type{}); id != NoTypeID {
		t.Fatalf("invalid descriptor interned as %d", id)
	}
	if in.Len() != before {
		t.Fatalf("interner grew on invalid descriptor")
	}
}

func TestFormat(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	mapType := in.Intern(Type{
		Kind:  KindClass,
		Class: "kotlin.collections.Map",
		Args:  []TypeID{b.String, in.Nullable(b.Int)},
	})

	tests := []struct {
		id   TypeID
		want string
	}{
		{b.Unit, "Unit"},
		{in.Nullable(b.String), "String?"},
		{mapType, "kotlin.collections.Map<String, Int?>"},
		{in.Error("unresolved Foo"), "<error: unresolved Foo>"},
		{NoTypeID, "<no-type>"},
	}
	for _, tt := range tests {
		if got := in.Format(tt.id); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestPrimitiveKind(t *testing.T) {
	if k, ok := PrimitiveKind("kotlin.Int"); !ok || k != KindInt {
		t.Fatalf("PrimitiveKind(kotlin.Int) = %v, %v", k, ok)
	}
	if _, ok := PrimitiveKind("com.example.Foo"); ok {
		t.Fatalf("class names must not map to primitives")
	}
}
