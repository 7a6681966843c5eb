package lower

import (
	"context"
	"errors"
	"fmt"

	"treelower/internal/ast"
	"treelower/internal/diag"
	"treelower/internal/ir"
	"treelower/internal/resolve"
	"treelower/internal/source"
	"treelower/internal/symbols"
	"treelower/internal/trace"
	"treelower/internal/types"
)

// Packages hands out the fragment a file or an external stub belongs to.
// Asking twice for one name must return the same fragment.
type Packages interface {
	Fragment(fqName string) *ir.PackageFragment
}

// Options carries the collaborators of one Lower call. Every field may be
// left zero.
type Options struct {
	// Registry receives every symbol; a fresh one is used when nil.
	Registry *symbols.Registry
	// Oracle resolves references not found among the locals in scope.
	Oracle resolve.Oracle
	// Types interns the types of the Output Tree; a fresh one when nil.
	Types *types.Interner
	// Positions skips leading comments in node ranges. Nil keeps raw spans.
	Positions *source.Positions
	// Packages defaults to one fragment per package name, private to the call.
	Packages Packages
	// Reporter receives unresolved-reference diagnostics.
	Reporter diag.Reporter
	// Verify runs ir.Verify on the finished file.
	Verify bool
}

// Result is one lowered file. Externals are the stubs bound to every symbol
// the file references but does not declare, in symbol order.
type Result struct {
	File      *ir.File
	Externals []*ir.External
	Registry  *symbols.Registry
	Types     *types.Interner
}

// Lower converts f into an Output Tree.
func Lower(ctx context.Context, f *ast.File, opts Options) (res *Result, err error) {
	if f == nil {
		return nil, errors.New("lower: nil file")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := newLowerer(ctx, f, opts)
	_, span := trace.Start(ctx, trace.ScopeFile, f.Name)
	l.span = span
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case *InvariantViolation:
				err = v
			case *symbols.InvariantError:
				err = &InvariantViolation{Err: v}
			case ctxAbort:
				err = v.err
			default:
				panic(r)
			}
			res = nil
			span.End("failed")
		}
	}()

	file := l.lowerFile(scopeContext{}, f)
	externals := l.bindExternals()

	if opts.Verify {
		if verr := ir.Verify(file, l.reg); verr != nil {
			span.End("verify failed")
			return nil, fmt.Errorf("lower %s: %w", f.Name, verr)
		}
	}

	span.WithExtra("symbols", fmt.Sprint(l.reg.Len())).
		WithExtra("externals", fmt.Sprint(len(externals))).
		End("")
	return &Result{
		File:      file,
		Externals: externals,
		Registry:  l.reg,
		Types:     l.types,
	}, nil
}

// ctxAbort carries a cancellation out of the walk.
type ctxAbort struct{ err error }

type lowerer struct {
	ctx       context.Context
	pkg       string
	reg       *symbols.Registry
	resolver  *resolve.Resolver
	types     *types.Interner
	positions *source.Positions
	packages  Packages
	reporter  diag.Reporter
	span      *trace.Span // innermost open span

	// refTypes remembers the type at the first reference to a symbol so
	// external stubs can carry it.
	refTypes map[symbols.SymbolID]types.TypeID
}

func newLowerer(ctx context.Context, f *ast.File, opts Options) *lowerer {
	l := &lowerer{
		ctx:       ctx,
		pkg:       f.Package,
		reg:       opts.Registry,
		types:     opts.Types,
		positions: opts.Positions,
		packages:  opts.Packages,
		reporter:  opts.Reporter,
		refTypes:  make(map[symbols.SymbolID]types.TypeID),
	}
	if l.reg == nil {
		l.reg = symbols.NewRegistry(0)
	}
	if l.types == nil {
		l.types = types.NewInterner()
	}
	if l.packages == nil {
		l.packages = make(fragments)
	}
	if l.reporter == nil {
		l.reporter = diag.NopReporter{}
	}
	l.resolver = resolve.NewResolver(l.reg, opts.Oracle)
	return l
}

// fragments is the default Packages.
type fragments map[string]*ir.PackageFragment

func (m fragments) Fragment(fqName string) *ir.PackageFragment {
	if p, ok := m[fqName]; ok {
		return p
	}
	p := &ir.PackageFragment{FqName: fqName}
	m[fqName] = p
	return p
}

// rangeOf is the node range with leading comments skipped.
func (l *lowerer) rangeOf(n ast.Element) source.Span {
	return l.positions.Range(n.Pos())
}

func (l *lowerer) checkContext() {
	if err := l.ctx.Err(); err != nil {
		panic(ctxAbort{err: err})
	}
}

func (l *lowerer) noteRefType(sym symbols.SymbolID, typ types.TypeID) {
	if _, ok := l.refTypes[sym]; !ok {
		l.refTypes[sym] = typ
	}
}
