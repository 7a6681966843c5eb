package resolve

import (
	"treelower/internal/ast"
	"treelower/internal/symbols"
)

// Match is the oracle's answer for one reference.
type Match struct {
	Callable ast.CallableID
	Kind     symbols.Kind
	// Arity keys overloads; symbols.NoArity for properties.
	Arity int
	// Params is the callee's parameter count, used to size call slots.
	Params int
}

// Key returns the registry key for m.
func (m Match) Key() symbols.Key {
	return symbols.Key{Callable: m.Callable, Arity: m.Arity}
}

// Oracle resolves a reference. argc is the argument count of a call, or
// symbols.NoArity for a property access.
type Oracle interface {
	Resolve(ref ast.Reference, argc int) (Match, bool)
}

type entry struct {
	Match
	required int // parameters without a default value
}

// Index is a read-only table of the declarations a run can reference. Build
// it completely before sharing it between goroutines.
type Index struct {
	byName     map[string][]entry
	byCallable map[ast.CallableID][]entry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		byName:     make(map[string][]entry),
		byCallable: make(map[ast.CallableID][]entry),
	}
}

// AddFile indexes the top-level functions and properties of f.
func (ix *Index) AddFile(f *ast.File) {
	for _, d := range f.Declarations {
		switch n := d.(type) {
		case *ast.Function:
			required := 0
			for _, p := range n.Parameters {
				if p.Default == nil {
					required++
				}
			}
			ix.add(entry{
				Match: Match{
					Callable: ast.CallableID{Package: f.Package, Name: n.Name},
					Kind:     symbols.KindFunction,
					Arity:    len(n.Parameters),
					Params:   len(n.Parameters),
				},
				required: required,
			})
		case *ast.Property:
			ix.AddProperty(ast.CallableID{Package: f.Package, Name: n.Name})
		}
	}
}

// AddFunction indexes a function without default parameters.
func (ix *Index) AddFunction(id ast.CallableID, arity int) {
	ix.add(entry{
		Match:    Match{Callable: id, Kind: symbols.KindFunction, Arity: arity, Params: arity},
		required: arity,
	})
}

// AddProperty indexes a property.
func (ix *Index) AddProperty(id ast.CallableID) {
	ix.add(entry{Match: Match{Callable: id, Kind: symbols.KindProperty, Arity: symbols.NoArity}})
}

func (ix *Index) add(e entry) {
	for _, old := range ix.byCallable[e.Callable] {
		if old.Arity == e.Arity {
			return
		}
	}
	ix.byName[e.Callable.Name] = append(ix.byName[e.Callable.Name], e)
	ix.byCallable[e.Callable] = append(ix.byCallable[e.Callable], e)
}

// Len reports the number of indexed declarations.
func (ix *Index) Len() int {
	n := 0
	for _, es := range ix.byCallable {
		n += len(es)
	}
	return n
}

// Resolve implements Oracle without a package preference.
func (ix *Index) Resolve(ref ast.Reference, argc int) (Match, bool) {
	return ix.resolve("", ref, argc)
}

// In returns an oracle that prefers declarations of pkg when a name is
// declared in several packages.
func (ix *Index) In(pkg string) Oracle {
	return scoped{ix: ix, pkg: pkg}
}

type scoped struct {
	ix  *Index
	pkg string
}

func (s scoped) Resolve(ref ast.Reference, argc int) (Match, bool) {
	return s.ix.resolve(s.pkg, ref, argc)
}

func (ix *Index) resolve(pkg string, ref ast.Reference, argc int) (Match, bool) {
	switch r := ref.(type) {
	case *ast.ResolvedReference:
		return ix.resolved(r, argc), true
	case *ast.NamedReference:
		return ix.named(pkg, r.Name, argc)
	default:
		// *ast.ErrorReference and nil never resolve.
		return Match{}, false
	}
}

// resolved passes an upstream answer through. Unknown callables still
// resolve; lowering stubs them as externals.
func (ix *Index) resolved(r *ast.ResolvedReference, argc int) Match {
	if e, ok := pick(ix.byCallable[r.Callable], argc); ok {
		return e.Match
	}
	if argc == symbols.NoArity {
		return Match{Callable: r.Callable, Kind: symbols.KindProperty, Arity: symbols.NoArity}
	}
	return Match{Callable: r.Callable, Kind: symbols.KindFunction, Arity: argc, Params: argc}
}

func (ix *Index) named(pkg, name string, argc int) (Match, bool) {
	all := ix.byName[name]
	if pkg != "" {
		var local []entry
		for _, e := range all {
			if e.Callable.Package == pkg {
				local = append(local, e)
			}
		}
		if e, ok := pick(local, argc); ok {
			return e.Match, true
		}
	}
	byPkg := make(map[string][]entry)
	var order []string
	for _, e := range all {
		if _, seen := byPkg[e.Callable.Package]; !seen {
			order = append(order, e.Callable.Package)
		}
		byPkg[e.Callable.Package] = append(byPkg[e.Callable.Package], e)
	}
	var found []Match
	for _, p := range order {
		if e, ok := pick(byPkg[p], argc); ok {
			found = append(found, e.Match)
		}
	}
	if len(found) != 1 {
		return Match{}, false
	}
	return found[0], true
}

// pick chooses among the declarations of one callable id or one package.
// Properties answer accesses; functions answer calls whose argument count
// fits their parameter list, an exact arity winning over defaults.
func pick(es []entry, argc int) (entry, bool) {
	var fits []entry
	for _, e := range es {
		if argc == symbols.NoArity {
			if e.Kind == symbols.KindProperty {
				return e, true
			}
			continue
		}
		if e.Kind != symbols.KindFunction {
			continue
		}
		if e.Params == argc {
			return e, true
		}
		if e.required <= argc && argc <= e.Params {
			fits = append(fits, e)
		}
	}
	if len(fits) == 1 {
		return fits[0], true
	}
	return entry{}, false
}
