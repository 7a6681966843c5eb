package lower

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treelower/internal/ast"
	"treelower/internal/diag"
	"treelower/internal/ir"
	"treelower/internal/source"
	"treelower/internal/symbols"
)

func TestPropertyWithInitializer(t *testing.T) {
	res, bag := lowerOne(t, file(val("x", intConst(1))))

	require.Len(t, res.File.Declarations, 1)
	prop, ok := res.File.Declarations[0].(*ir.Property)
	require.True(t, ok)
	assert.Equal(t, "x", prop.Name)
	assert.Equal(t, ir.OriginDefined, prop.Origin)
	assert.Same(t, res.File, prop.Parent())
	assert.Same(t, prop, res.Registry.Owner(prop.Sym))

	field := prop.BackingField
	require.NotNil(t, field)
	assert.Equal(t, ir.OriginBackingField, field.Origin)
	assert.Equal(t, prop.Type, field.Type)
	assert.Same(t, prop, field.Parent())

	require.NotNil(t, field.Initializer)
	c, ok := field.Initializer.Expression.(*ir.Const)
	require.True(t, ok)
	assert.Equal(t, ast.ConstInt, c.Kind)
	assert.Equal(t, int64(1), c.Value)
	assert.Equal(t, res.Types.Builtins().Int, c.Type)

	assert.Nil(t, prop.Getter)
	assert.Nil(t, prop.Setter)
	assert.Zero(t, bag.Len())
}

func TestPropertyWithoutInitializerHasNoBackingField(t *testing.T) {
	p := val("x", nil)
	p.Getter = &ast.PropertyAccessor{IsGetter: true, Body: &ast.Block{
		Statements: []ast.Statement{&ast.Return{Result: intConst(7)}},
	}}
	res, _ := lowerOne(t, file(p))

	prop := res.File.Declarations[0].(*ir.Property)
	assert.Nil(t, prop.BackingField)
	require.NotNil(t, prop.Getter)
	assert.Equal(t, "<get-x>", prop.Getter.Name)
	assert.Equal(t, prop.Type, prop.Getter.Type)
}

func TestForwardCallResolvesToLaterFunction(t *testing.T) {
	f := file(
		val("r", call("foo", intConst(1), intConst(2))),
		fun("foo", []*ast.ValueParameter{param("a"), param("b")}),
	)
	res, bag := lowerOne(t, f)
	require.Zero(t, bag.Len())

	prop := res.File.Declarations[0].(*ir.Property)
	fn := res.File.Declarations[1].(*ir.Function)
	c, ok := prop.BackingField.Initializer.Expression.(*ir.Call)
	require.True(t, ok, "got %T", prop.BackingField.Initializer.Expression)

	assert.Equal(t, fn.Sym, c.Callee)
	assert.Same(t, fn, res.Registry.Owner(c.Callee))
	require.Len(t, c.Arguments, 2)
	assert.Equal(t, int64(1), c.Arguments[0].(*ir.Const).Value)
	assert.Equal(t, int64(2), c.Arguments[1].(*ir.Const).Value)
	assert.Empty(t, res.Externals)
}

func TestOverloadsResolveByArity(t *testing.T) {
	f := file(
		fun("foo", []*ast.ValueParameter{param("a")}),
		fun("foo", []*ast.ValueParameter{param("a"), param("b")}),
		val("one", call("foo", intConst(1))),
		val("two", call("foo", intConst(1), intConst(2))),
	)
	res, _ := lowerOne(t, f)

	foo1 := res.File.Declarations[0].(*ir.Function)
	foo2 := res.File.Declarations[1].(*ir.Function)
	one := res.File.Declarations[2].(*ir.Property).BackingField.Initializer.Expression.(*ir.Call)
	two := res.File.Declarations[3].(*ir.Property).BackingField.Initializer.Expression.(*ir.Call)
	assert.Equal(t, foo1.Sym, one.Callee)
	assert.Equal(t, foo2.Sym, two.Callee)
}

func TestUnresolvedCallBecomesErrorCall(t *testing.T) {
	f := file(
		val("bad", call("bar", intConst(5))),
		val("good", intConst(1)),
	)
	res, bag := lowerOne(t, f)

	ec, ok := res.File.Declarations[0].(*ir.Property).BackingField.Initializer.Expression.(*ir.ErrorCall)
	require.True(t, ok)
	assert.Equal(t, "Unresolved reference: bar", ec.Message)
	assert.Equal(t, ir.OriginErrorPlaceholder, ec.Origin)
	require.Len(t, ec.Arguments, 1)
	assert.Equal(t, int64(5), ec.Arguments[0].(*ir.Const).Value)

	require.Equal(t, 1, bag.Len())
	d := bag.Items()[0]
	assert.Equal(t, diag.LowerUnresolvedReference, d.Code)
	assert.Equal(t, diag.SevError, d.Severity)
	assert.Equal(t, "Unresolved reference: bar", d.Message)

	// lowering went on after the failure
	require.Len(t, res.File.Declarations, 2)
	assert.Equal(t, "good", res.File.Declarations[1].(*ir.Property).Name)
}

func TestUnresolvedCallKeepsCallRange(t *testing.T) {
	text := "val bad = /* oops */ bar(5)"
	fs := source.NewFileSet()
	id := fs.Add("main.kt", []byte(text))

	c := call("bar", intConst(5))
	c.Span = source.Span{File: id, Start: 10, End: 27}
	p := val("bad", c)
	p.Span = source.Span{File: id, Start: 0, End: 27}

	f := file(p)
	h := newHarness(f)
	h.opts.Positions = source.NewPositions(fs)
	res := h.lower(t, f)

	want := source.Span{File: id, Start: 21, End: 27}
	ec, ok := res.File.Declarations[0].(*ir.Property).BackingField.Initializer.Expression.(*ir.ErrorCall)
	require.True(t, ok)
	assert.Equal(t, want, ec.Span)

	require.Equal(t, 1, h.bag.Len())
	assert.Equal(t, want, h.bag.Items()[0].Primary)
}

func TestErrorReferenceNeverResolves(t *testing.T) {
	c := &ast.FunctionCall{Type: intType(), Callee: &ast.ErrorReference{Name: "foo", Reason: "ambiguous"}}
	f := file(fun("foo", nil), val("x", c))
	res, bag := lowerOne(t, f)

	_, ok := res.File.Declarations[1].(*ir.Property).BackingField.Initializer.Expression.(*ir.ErrorCall)
	assert.True(t, ok)
	assert.Equal(t, 1, bag.Len())
}

func TestSetterIsLoweredFromSetterSlot(t *testing.T) {
	getterSpan := spanOf(20, 30)
	setterSpan := spanOf(40, 60)
	p := val("x", intConst(0))
	p.IsVar = true
	p.Getter = &ast.PropertyAccessor{
		IsGetter: true,
		Span:     getterSpan,
		Body:     &ast.Block{Statements: []ast.Statement{&ast.Return{Result: intConst(1)}}},
	}
	p.Setter = &ast.PropertyAccessor{
		Visibility:     ast.VisPrivate,
		Span:           setterSpan,
		ValueParameter: &ast.ValueParameter{Name: "value"},
		Body:           &ast.Block{Statements: []ast.Statement{access("value")}},
	}
	res, bag := lowerOne(t, file(p))
	require.Zero(t, bag.Len())

	prop := res.File.Declarations[0].(*ir.Property)
	require.NotNil(t, prop.Getter)
	require.NotNil(t, prop.Setter)
	assert.NotSame(t, prop.Getter, prop.Setter)

	assert.Equal(t, "<get-x>", prop.Getter.Name)
	assert.Equal(t, getterSpan, prop.Getter.Span)
	assert.Empty(t, prop.Getter.Parameters)

	setter := prop.Setter
	assert.Equal(t, "<set-x>", setter.Name)
	assert.Equal(t, setterSpan, setter.Span)
	assert.Equal(t, ast.VisPrivate, setter.Visibility)
	assert.Equal(t, res.Types.Builtins().Unit, setter.Type)
	assert.Equal(t, prop.Sym, setter.Property)
	require.Len(t, setter.Parameters, 1)
	value := setter.Parameters[0]
	assert.Equal(t, "value", value.Name)
	assert.Equal(t, prop.Type, value.Type)
	assert.Same(t, setter, value.Parent())

	require.NotNil(t, setter.Body)
	read, ok := setter.Body.Statements[0].(*ir.QualifiedAccess)
	require.True(t, ok)
	assert.Equal(t, value.Sym, read.Target)
}

func TestAccessorInWrongSlot(t *testing.T) {
	tests := []struct {
		name           string
		getter, setter ast.Accessor
	}{
		{"setter as getter", &ast.PropertyAccessor{IsGetter: false}, nil},
		{"getter as setter", nil, &ast.PropertyAccessor{IsGetter: true}},
		{"default getter as setter", &ast.DefaultGetter{}, &ast.DefaultGetter{}},
		{"default setter as getter", &ast.DefaultSetter{}, nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p := val("x", nil)
			p.IsVar = true
			p.Getter, p.Setter = tt.getter, tt.setter
			_, err := Lower(context.Background(), file(p), Options{})
			var iv *InvariantViolation
			require.ErrorAs(t, err, &iv)
		})
	}
}

func TestDefaultAccessorsAreNotLowered(t *testing.T) {
	p := val("x", intConst(1))
	p.IsVar = true
	p.Setter = &ast.DefaultSetter{}
	res, _ := lowerOne(t, file(p))
	prop := res.File.Declarations[0].(*ir.Property)
	assert.Nil(t, prop.Getter)
	assert.Nil(t, prop.Setter)
	assert.True(t, prop.IsVar)
}

func TestDelegatedPropertyFlag(t *testing.T) {
	p := val("lazyX", nil)
	p.Delegate = intConst(1)
	res, _ := lowerOne(t, file(p))
	prop := res.File.Declarations[0].(*ir.Property)
	assert.True(t, prop.IsDelegated)
	assert.True(t, res.Registry.Descriptor(prop.Sym).Delegated)
}

func TestRangeSkipsLeadingComments(t *testing.T) {
	text := "// the answer\n/* x */ val x = 42"
	fs := source.NewFileSet()
	id := fs.Add("main.kt", []byte(text))

	c := intConst(42)
	c.Span = source.Span{File: id, Start: 30, End: 32}
	p := val("x", c)
	p.Span = source.Span{File: id, Start: 0, End: 32}

	f := file(p)
	h := newHarness(f)
	h.opts.Positions = source.NewPositions(fs)
	res := h.lower(t, f)

	prop := res.File.Declarations[0].(*ir.Property)
	assert.Equal(t, uint32(22), prop.Span.Start)
	assert.Equal(t, uint32(32), prop.Span.End)
	assert.Equal(t, c.Span, prop.BackingField.Initializer.Expression.Base().Span)
}

func TestParameterAccessAndReturn(t *testing.T) {
	f := file(fun("id", []*ast.ValueParameter{param("v")},
		&ast.Return{Result: access("v")},
	))
	res, bag := lowerOne(t, f)
	require.Zero(t, bag.Len())

	fn := res.File.Declarations[0].(*ir.Function)
	ret, ok := fn.Body.Statements[0].(*ir.Return)
	require.True(t, ok)
	assert.Equal(t, fn.Sym, ret.Target)
	assert.Equal(t, res.Types.Builtins().Nothing, ret.Type)
	get := ret.Value.(*ir.QualifiedAccess)
	assert.Equal(t, fn.Parameters[0].Sym, get.Target)
	assert.Same(t, fn, get.Parent())
}

func TestLocalPropertyVisibleToLaterStatements(t *testing.T) {
	local := val("tmp", intConst(3))
	f := file(fun("run", nil, local, access("tmp")))
	res, _ := lowerOne(t, f)

	fn := res.File.Declarations[0].(*ir.Function)
	require.Len(t, fn.Body.Statements, 2)
	lp := fn.Body.Statements[0].(*ir.Property)
	assert.Same(t, fn, lp.Parent())
	assert.Equal(t, lp.Sym, fn.Body.Statements[1].(*ir.QualifiedAccess).Target)
	assert.False(t, res.Registry.Descriptor(lp.Sym).Key.IsValid(), "local property must not be reachable by key")
}

func TestDefaultArgumentSlots(t *testing.T) {
	greet := fun("greet", []*ast.ValueParameter{
		{Name: "who", ReturnType: stringType()},
		{Name: "punct", ReturnType: stringType(), Default: &ast.ConstExpression{Type: stringType(), Kind: ast.ConstString, Value: "!"}},
	})
	f := file(greet, val("g", call("greet", &ast.ConstExpression{Type: stringType(), Kind: ast.ConstString, Value: "bob"})))
	res, _ := lowerOne(t, f)

	fn := res.File.Declarations[0].(*ir.Function)
	require.NotNil(t, fn.Parameters[1].Default)
	assert.Same(t, fn, fn.Parameters[1].Default.Parent())

	c := res.File.Declarations[1].(*ir.Property).BackingField.Initializer.Expression.(*ir.Call)
	require.Len(t, c.Arguments, 2)
	assert.NotNil(t, c.Arguments[0])
	assert.Nil(t, c.Arguments[1])
}

func TestUnresolvedAccessKeepsReceiver(t *testing.T) {
	acc := &ast.QualifiedAccess{
		Type:     intType(),
		Safe:     true,
		Callee:   &ast.NamedReference{Name: "length"},
		Receiver: intConst(9),
	}
	res, bag := lowerOne(t, file(val("n", acc)))

	ec := res.File.Declarations[0].(*ir.Property).BackingField.Initializer.Expression.(*ir.ErrorCall)
	assert.Equal(t, "Unresolved reference: length", ec.Message)
	require.Len(t, ec.Arguments, 1)
	assert.Equal(t, int64(9), ec.Arguments[0].(*ir.Const).Value)
	assert.Equal(t, 1, bag.Len())
}

func TestExternalsAreStubbed(t *testing.T) {
	printCall := &ast.FunctionCall{
		Type:      unitType(),
		Callee:    &ast.ResolvedReference{Name: "println", Callable: ast.CallableID{Package: "kotlin.io", Name: "println"}},
		Arguments: []ast.Expression{intConst(1)},
	}
	f := file(fun("main", nil, printCall))
	res, _ := lowerOne(t, f)

	require.Len(t, res.Externals, 1)
	ext := res.Externals[0]
	assert.Equal(t, "println", ext.Name)
	assert.Equal(t, 1, ext.Arity)
	assert.Equal(t, ir.OriginExternal, ext.Origin)
	assert.Equal(t, res.Types.Builtins().Unit, ext.Type)
	frag, ok := ext.Parent().(*ir.PackageFragment)
	require.True(t, ok)
	assert.Equal(t, "kotlin.io", frag.FqName)

	c := res.File.Declarations[0].(*ir.Function).Body.Statements[0].(*ir.Call)
	assert.Same(t, ext, res.Registry.Owner(c.Callee))
}

func TestCrossFilePropertyIsExternal(t *testing.T) {
	other := file(val("shared", intConst(1)))
	other.Name = "other.kt"
	main := file(val("copy", access("shared")))

	h := newHarness(main)
	h.index.AddFile(other)
	res := h.lower(t, main)

	require.Len(t, res.Externals, 1)
	assert.Equal(t, symbols.NoArity, res.Externals[0].Arity)
	assert.Equal(t, "shared", res.Externals[0].Name)
}

func TestDeclareAndBindOncePerDeclaration(t *testing.T) {
	p := val("x", intConst(1))
	p.IsVar = true
	p.Setter = &ast.PropertyAccessor{ValueParameter: &ast.ValueParameter{Name: "v"}, Body: &ast.Block{}}
	f := file(
		p,
		fun("foo", []*ast.ValueParameter{param("a")}, &ast.Return{Result: access("a")}),
		val("y", call("foo", intConst(2))),
	)

	reg := symbols.NewRegistry(0)
	declares := map[symbols.SymbolID]int{}
	binds := map[symbols.SymbolID]int{}
	var order []symbols.EventKind
	reg.SetObserver(func(ev symbols.Event) {
		switch ev.Kind {
		case symbols.EventDeclare:
			declares[ev.Symbol]++
		case symbols.EventBind:
			binds[ev.Symbol]++
			assert.Equal(t, 1, declares[ev.Symbol], "bind before declare of #%d", ev.Symbol)
		}
		order = append(order, ev.Kind)
	})

	h := newHarness(f)
	h.opts.Registry = reg
	res := h.lower(t, f)

	// x, field, setter, v, foo, a, y, field
	assert.Len(t, declares, 8)
	for id, n := range declares {
		assert.Equal(t, 1, n, "declare count of #%d", id)
		assert.Equal(t, 1, binds[id], "bind count of #%d", id)
	}
	assert.Empty(t, res.Externals)
	assert.NotEmpty(t, order)
}

func TestInvariantViolations(t *testing.T) {
	tests := []struct {
		name string
		file *ast.File
	}{
		{"implicit type", file(&ast.Property{
			Name: "x", Modality: ast.ModalityFinal, ReturnType: &ast.ImplicitTypeRef{},
		})},
		{"missing modality", file(&ast.Property{Name: "x", ReturnType: intType()})},
		{"const without type", file(val("x", &ast.ConstExpression{Kind: ast.ConstInt, Value: int64(1)}))},
		{"return outside function", file(val("x", &ast.Return{Result: intConst(1)}))},
		{"duplicate declaration", file(fun("f", nil), fun("f", nil))},
		{"getter with parameter", file(func() *ast.Property {
			p := val("x", nil)
			p.Getter = &ast.PropertyAccessor{IsGetter: true, ValueParameter: param("v")}
			return p
		}())},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			res, err := Lower(context.Background(), tt.file, Options{})
			assert.Nil(t, res, "no partial result")
			var iv *InvariantViolation
			require.ErrorAs(t, err, &iv)
		})
	}
}

func TestRegistryErrorIsWrapped(t *testing.T) {
	_, err := Lower(context.Background(), file(fun("f", nil), fun("f", nil)), Options{})
	var regErr *symbols.InvariantError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "declare", regErr.Op)
}

func TestMisplacedVariantInDispatcher(t *testing.T) {
	l := newLowerer(context.Background(), file(), Options{})
	for _, e := range []ast.Element{&ast.DefaultGetter{}, &ast.ValueParameter{}, nil} {
		e := e
		func() {
			defer func() {
				r := recover()
				_, ok := r.(*InvariantViolation)
				assert.True(t, ok, "%T: recovered %v", e, r)
			}()
			l.lowerElement(scopeContext{}, e)
		}()
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Lower(ctx, file(val("x", intConst(1))), Options{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEmptyBlockIsUnit(t *testing.T) {
	f := file(&ast.Function{
		Name: "noop", Modality: ast.ModalityOpen,
		Body: ast.NewEmptyBlock(source.Span{}),
	})
	res, _ := lowerOne(t, f)
	fn := res.File.Declarations[0].(*ir.Function)
	assert.Equal(t, res.Types.Builtins().Unit, fn.Body.Type)
	assert.Equal(t, res.Types.Builtins().Unit, fn.Type)
}

func TestTypesAreInterned(t *testing.T) {
	p := val("names", nil)
	p.ReturnType = ast.ResolvedNullable("kotlin.collections.List", ast.ConeType{ClassID: "kotlin.String"})
	p.Delegate = intConst(0)
	res, _ := lowerOne(t, file(p))
	prop := res.File.Declarations[0].(*ir.Property)
	assert.Equal(t, "kotlin.collections.List<String>?", res.Types.Format(prop.Type))
}

func TestFileAnnotationsAndPackage(t *testing.T) {
	f := file(val("x", intConst(1)))
	f.Annotations = []*ast.Annotation{{
		Type:   ast.Resolved("kotlin.jvm.JvmName"),
		Callee: &ast.ResolvedReference{Name: "JvmName", Callable: ast.CallableID{Package: "kotlin.jvm", Name: "JvmName"}},
		Arguments: []ast.Expression{
			&ast.ConstExpression{Type: stringType(), Kind: ast.ConstString, Value: "Main"},
		},
	}}
	res, _ := lowerOne(t, f)
	assert.Equal(t, "demo", res.File.Package.FqName)
	assert.Same(t, res.File.Package, res.File.Parent())
	require.Len(t, res.File.Annotations, 1)
	ann := res.File.Annotations[0].(*ir.Call)
	assert.Same(t, res.File, ann.Parent())
	require.Len(t, res.Externals, 1)
	assert.Equal(t, "JvmName", res.Externals[0].Name)
}

func TestDumpOfSimpleProperty(t *testing.T) {
	res, _ := lowerOne(t, file(val("x", intConst(1))))
	var buf bytes.Buffer
	require.NoError(t, ir.Dump(&buf, res.File, res.Types))
	want := strings.Join([]string{
		"FILE name:main.kt package:demo",
		"  PROPERTY DEFINED name:x visibility:public modality:final [val] type:Int sym:1",
		"    FIELD PROPERTY_BACKING_FIELD name:x type:Int sym:2",
		"      EXPRESSION_BODY",
		"        CONST Int type:Int value:1",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}
