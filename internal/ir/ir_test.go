package ir

import (
	"bytes"
	"strings"
	"testing"

	"treelower/internal/ast"
	"treelower/internal/source"
	"treelower/internal/symbols"
	"treelower/internal/types"
)

// buildFile assembles `val x = 1` by hand with every ownership link set.
func buildFile(t *testing.T, reg *symbols.Registry, in *types.Interner) *File {
	t.Helper()
	pkg := &PackageFragment{FqName: "demo"}
	f := &File{Node: Node{Type: in.Builtins().Unit}, Name: "a.kt", Package: pkg}
	f.SetParent(pkg)

	propSym := reg.Declare(symbols.KindProperty, source.Span{}, false)
	prop := &Property{
		Node:       Node{Type: in.Builtins().Int},
		Sym:        propSym,
		Name:       "x",
		Visibility: ast.VisPublic,
		Modality:   ast.ModalityFinal,
	}
	reg.Bind(propSym, prop)
	prop.SetParent(f)

	fieldSym := reg.Declare(symbols.KindField, source.Span{}, false)
	field := &Field{Node: Node{Type: in.Builtins().Int, Origin: OriginBackingField}, Sym: fieldSym, Name: "x"}
	reg.Bind(fieldSym, field)
	field.SetParent(prop)

	c := &Const{Node: Node{Type: in.Builtins().Int}, Kind: ast.ConstInt, Value: int64(1)}
	c.SetParent(prop)
	body := &ExpressionBody{Node: Node{Type: in.Builtins().Int}, Expression: c}
	body.SetParent(prop)
	field.Initializer = body
	prop.BackingField = field

	f.Declarations = append(f.Declarations, prop)
	return f
}

func TestVerifyAcceptsWellFormedFile(t *testing.T) {
	reg := symbols.NewRegistry(0)
	in := types.NewInterner()
	f := buildFile(t, reg, in)
	if err := Verify(f, reg); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyReportsMissingParentAndType(t *testing.T) {
	reg := symbols.NewRegistry(0)
	in := types.NewInterner()
	f := buildFile(t, reg, in)
	prop := f.Declarations[0].(*Property)
	prop.Annotations = append(prop.Annotations, &Const{Kind: ast.ConstNull})

	err := Verify(f, reg)
	if err == nil {
		t.Fatal("expected errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "missing type") || !strings.Contains(msg, "missing parent") {
		t.Fatalf("unexpected error text: %s", msg)
	}
}

func TestVerifyReportsWrongParent(t *testing.T) {
	reg := symbols.NewRegistry(0)
	in := types.NewInterner()
	f := buildFile(t, reg, in)
	prop := f.Declarations[0].(*Property)
	stray := &Const{Node: Node{Type: in.Builtins().Int}, Kind: ast.ConstInt, Value: int64(2)}
	stray.SetParent(f)
	prop.Annotations = append(prop.Annotations, stray)

	err := Verify(f, reg)
	if err == nil || !strings.Contains(err.Error(), "parent is file a.kt, want property x") {
		t.Fatalf("expected wrong-parent error, got %v", err)
	}
}

func TestSetParentOnce(t *testing.T) {
	n := &Const{}
	n.SetParent(&PackageFragment{FqName: "a"})
	defer func() {
		if recover() == nil {
			t.Fatal("second SetParent must panic")
		}
	}()
	n.SetParent(&PackageFragment{FqName: "b"})
}

func TestCallArgumentSlots(t *testing.T) {
	call := NewCall(Node{}, symbols.SymbolID(1), "foo", 2)
	second := &Const{Kind: ast.ConstInt, Value: int64(2)}
	call.PutArgument(1, second)
	if call.Arguments[0] != nil || call.Arguments[1] != Expression(second) {
		t.Fatalf("unexpected slots %v", call.Arguments)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("out-of-range slot must panic")
		}
	}()
	call.PutArgument(2, second)
}

func TestDump(t *testing.T) {
	reg := symbols.NewRegistry(0)
	in := types.NewInterner()
	f := buildFile(t, reg, in)

	var buf bytes.Buffer
	if err := Dump(&buf, f, in); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	want := []string{
		"FILE name:a.kt package:demo",
		"  PROPERTY DEFINED name:x visibility:public modality:final [val] type:Int sym:1",
		"    FIELD PROPERTY_BACKING_FIELD name:x type:Int sym:2",
		"      EXPRESSION_BODY",
		"        CONST Int type:Int value:1",
	}
	if got := strings.TrimRight(buf.String(), "\n"); got != strings.Join(want, "\n") {
		t.Fatalf("dump mismatch:\n%s", got)
	}
}
