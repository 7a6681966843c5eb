package resolve

import (
	"testing"

	"treelower/internal/ast"
	"treelower/internal/source"
	"treelower/internal/symbols"
)

func demoIndex() *Index {
	ix := NewIndex()
	ix.AddFile(&ast.File{
		Package: "demo",
		Declarations: []ast.Declaration{
			&ast.Function{Name: "foo", Parameters: []*ast.ValueParameter{{Name: "a"}, {Name: "b"}}},
			&ast.Function{Name: "foo", Parameters: []*ast.ValueParameter{{Name: "a"}}},
			&ast.Function{Name: "greet", Parameters: []*ast.ValueParameter{
				{Name: "who"},
				{Name: "punct", Default: &ast.ConstExpression{Kind: ast.ConstString, Value: "!"}},
			}},
			&ast.Property{Name: "x"},
		},
	})
	ix.AddFunction(ast.CallableID{Package: "kotlin.io", Name: "println"}, 1)
	ix.AddFunction(ast.CallableID{Package: "other", Name: "foo"}, 2)
	return ix
}

func TestIndexNamedByArity(t *testing.T) {
	ix := demoIndex()
	tests := []struct {
		name    string
		argc    int
		pkg     string
		want    ast.CallableID
		arity   int
		resolve bool
	}{
		{"foo", 2, "demo", ast.CallableID{Package: "demo", Name: "foo"}, 2, true},
		{"foo", 1, "demo", ast.CallableID{Package: "demo", Name: "foo"}, 1, true},
		{"foo", 2, "other", ast.CallableID{Package: "other", Name: "foo"}, 2, true},
		{"foo", 2, "", ast.CallableID{}, 0, false}, // ambiguous across packages
		{"foo", 1, "", ast.CallableID{Package: "demo", Name: "foo"}, 1, true},
		{"foo", 3, "demo", ast.CallableID{}, 0, false},
		{"greet", 1, "demo", ast.CallableID{Package: "demo", Name: "greet"}, 2, true},
		{"println", 1, "demo", ast.CallableID{Package: "kotlin.io", Name: "println"}, 1, true},
		{"x", symbols.NoArity, "demo", ast.CallableID{Package: "demo", Name: "x"}, symbols.NoArity, true},
		{"x", 0, "demo", ast.CallableID{}, 0, false}, // a property is not callable
		{"bar", 1, "demo", ast.CallableID{}, 0, false},
	}
	for _, tt := range tests {
		var oracle Oracle = ix
		if tt.pkg != "" {
			oracle = ix.In(tt.pkg)
		}
		m, ok := oracle.Resolve(&ast.NamedReference{Name: tt.name}, tt.argc)
		if ok != tt.resolve {
			t.Errorf("%s/%d in %q: resolved=%v, want %v", tt.name, tt.argc, tt.pkg, ok, tt.resolve)
			continue
		}
		if !ok {
			continue
		}
		if m.Callable != tt.want || m.Arity != tt.arity {
			t.Errorf("%s/%d in %q: got %s/%d, want %s/%d", tt.name, tt.argc, tt.pkg, m.Callable, m.Arity, tt.want, tt.arity)
		}
	}
}

func TestIndexResolvedPassesThrough(t *testing.T) {
	ix := demoIndex()
	unknown := ast.CallableID{Package: "lib", Name: "ext"}
	m, ok := ix.Resolve(&ast.ResolvedReference{Name: "ext", Callable: unknown}, 3)
	if !ok || m.Callable != unknown || m.Arity != 3 || m.Kind != symbols.KindFunction {
		t.Fatalf("unexpected match %+v ok=%v", m, ok)
	}
	m, ok = ix.Resolve(&ast.ResolvedReference{Name: "greet", Callable: ast.CallableID{Package: "demo", Name: "greet"}}, 1)
	if !ok || m.Params != 2 {
		t.Fatalf("indexed callee must report its parameters, got %+v", m)
	}
}

func TestIndexErrorReferenceNeverResolves(t *testing.T) {
	ix := demoIndex()
	if _, ok := ix.Resolve(&ast.ErrorReference{Name: "foo", Reason: "ambiguous"}, 2); ok {
		t.Fatal("error reference resolved")
	}
	if _, ok := ix.Resolve(nil, 0); ok {
		t.Fatal("nil reference resolved")
	}
}

func TestResolverSharesForwardReference(t *testing.T) {
	reg := symbols.NewRegistry(0)
	r := NewResolver(reg, demoIndex().In("demo"))

	first, ok := r.ResolveCallee(&ast.NamedReference{Name: "foo"}, 2)
	if !ok {
		t.Fatal("foo/2 unresolved")
	}
	second, _ := r.ResolveCallee(&ast.ResolvedReference{Name: "foo", Callable: ast.CallableID{Package: "demo", Name: "foo"}}, 2)
	if first.Symbol != second.Symbol {
		t.Fatalf("same callee got two symbols: %d and %d", first.Symbol, second.Symbol)
	}
	other, _ := r.ResolveCallee(&ast.NamedReference{Name: "foo"}, 1)
	if other.Symbol == first.Symbol {
		t.Fatal("overloads must not share a symbol")
	}

	declared := reg.DeclareKeyed(symbols.KindFunction, symbols.Key{
		Callable: ast.CallableID{Package: "demo", Name: "foo"}, Arity: 2,
	}, source.Span{}, false)
	if declared != first.Symbol {
		t.Fatalf("declaration did not claim the forward reference")
	}
}

func TestResolverWithoutOracle(t *testing.T) {
	r := NewResolver(symbols.NewRegistry(0), nil)
	if _, ok := r.ResolveAccess(&ast.NamedReference{Name: "x"}); ok {
		t.Fatal("nil oracle resolved")
	}
}
