package lower

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"treelower/internal/ast"
	"treelower/internal/diag"
	"treelower/internal/resolve"
	"treelower/internal/source"
)

func intType() *ast.ResolvedTypeRef    { return ast.Resolved("kotlin.Int") }
func unitType() *ast.ResolvedTypeRef   { return ast.Resolved("kotlin.Unit") }
func stringType() *ast.ResolvedTypeRef { return ast.Resolved("kotlin.String") }

func intConst(v int64) *ast.ConstExpression {
	return &ast.ConstExpression{Type: intType(), Kind: ast.ConstInt, Value: v}
}

func val(name string, init ast.Expression) *ast.Property {
	return &ast.Property{
		Name:        name,
		Visibility:  ast.VisPublic,
		Modality:    ast.ModalityFinal,
		ReturnType:  intType(),
		Initializer: init,
		Getter:      &ast.DefaultGetter{},
	}
}

func fun(name string, params []*ast.ValueParameter, body ...ast.Statement) *ast.Function {
	return &ast.Function{
		Name:       name,
		Visibility: ast.VisPublic,
		Modality:   ast.ModalityFinal,
		ReturnType: intType(),
		Parameters: params,
		Body:       &ast.Block{Type: unitType(), Statements: body},
	}
}

func param(name string) *ast.ValueParameter {
	return &ast.ValueParameter{Name: name, ReturnType: intType()}
}

func call(name string, args ...ast.Expression) *ast.FunctionCall {
	return &ast.FunctionCall{Type: intType(), Callee: &ast.NamedReference{Name: name}, Arguments: args}
}

func access(name string) *ast.QualifiedAccess {
	return &ast.QualifiedAccess{Type: intType(), Callee: &ast.NamedReference{Name: name}}
}

func file(decls ...ast.Declaration) *ast.File {
	return &ast.File{Name: "main.kt", Package: "demo", Declarations: decls}
}

// harness lowers one file against an index built from that file plus extra
// externals, collecting diagnostics.
type harness struct {
	index *resolve.Index
	bag   *diag.Bag
	opts  Options
}

func newHarness(f *ast.File) *harness {
	ix := resolve.NewIndex()
	ix.AddFile(f)
	bag := diag.NewBag(100)
	return &harness{
		index: ix,
		bag:   bag,
		opts: Options{
			Oracle:   ix.In(f.Package),
			Reporter: diag.BagReporter{Bag: bag},
			Verify:   true,
		},
	}
}

func (h *harness) lower(t *testing.T, f *ast.File) *Result {
	t.Helper()
	res, err := Lower(context.Background(), f, h.opts)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Empty(t, res.Registry.Unbound(), "every symbol must be bound after lowering")
	return res
}

func lowerOne(t *testing.T, f *ast.File) (*Result, *diag.Bag) {
	t.Helper()
	h := newHarness(f)
	return h.lower(t, f), h.bag
}

func spanOf(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}
