package source

import "testing"

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	if s, ok := interner.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID must map to the empty string, got %q, ok=%v", s, ok)
	}

	id1 := interner.Intern("hello")
	if id1 == NoStringID {
		t.Error("Intern must not return NoStringID for a non-empty string")
	}
	if id2 := interner.Intern("hello"); id1 != id2 {
		t.Errorf("same string interned twice: %d != %d", id1, id2)
	}
	if s := interner.MustLookup(id1); s != "hello" {
		t.Errorf("MustLookup = %q", s)
	}
	if interner.Intern("world") == id1 {
		t.Error("different strings must have different IDs")
	}
	if interner.Len() != 3 {
		t.Errorf("Len = %d, want 3", interner.Len())
	}
}

func TestInternerNormalizesNames(t *testing.T) {
	interner := NewInterner()

	composed := interner.Intern("caf\u00e9")
	decomposed := interner.Intern("cafe\u0301")
	if composed != decomposed {
		t.Errorf("NFC and NFD spellings should intern to the same id: %d != %d", composed, decomposed)
	}

	if id, ok := interner.Find("cafe\u0301"); !ok || id != composed {
		t.Errorf("Find(decomposed) = %d, %v", id, ok)
	}
	if _, ok := interner.Find("missing"); ok {
		t.Error("Find must not insert")
	}
}

func TestInternerMustLookupPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLookup should panic on an unknown id")
		}
	}()
	NewInterner().MustLookup(StringID(42))
}
