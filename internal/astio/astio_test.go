package astio

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"treelower/internal/ast"
	"treelower/internal/source"
	"treelower/internal/testkit"
)

const sample = "val answer: Int = 42\nfun greet(name: String) { println(name) }\nprivate var counter\n"

func sampleFile() *ast.File {
	span := func(s, e uint32) source.Span { return source.Span{File: 0, Start: s, End: e} }
	return &ast.File{
		Name:    "main.kt",
		Package: "demo",
		Span:    span(0, uint32(len(sample))),
		Declarations: []ast.Declaration{
			&ast.Property{
				Name:        "answer",
				Modality:    ast.ModalityFinal,
				ReturnType:  ast.Resolved("kotlin.Int"),
				Initializer: &ast.ConstExpression{Type: ast.Resolved("kotlin.Int"), Kind: ast.ConstInt, Value: int64(42), Span: span(18, 20)},
				Getter:      &ast.DefaultGetter{Span: span(0, 20)},
				Span:        span(0, 20),
			},
			&ast.Property{
				Name:       "counter",
				Visibility: ast.VisPrivate,
				Modality:   ast.ModalityOpen,
				IsVar:      true,
				ReturnType: ast.ResolvedNullable("kotlin.collections.List", ast.ConeType{ClassID: "kotlin.String"}),
				Getter:     &ast.DefaultGetter{Visibility: ast.VisPrivate},
				Setter: &ast.PropertyAccessor{
					ReturnType:     ast.Resolved("kotlin.Unit"),
					ValueParameter: &ast.ValueParameter{Name: "value", ReturnType: &ast.ImplicitTypeRef{}},
					Body:           ast.NewEmptyBlock(span(0, 0)),
				},
				Span: span(63, 82),
			},
			&ast.Function{
				Name:       "greet",
				Modality:   ast.ModalityFinal,
				ReturnType: ast.Resolved("kotlin.Unit"),
				Parameters: []*ast.ValueParameter{{
					Name:       "name",
					ReturnType: ast.Resolved("kotlin.String"),
					Default:    &ast.ConstExpression{Type: ast.Resolved("kotlin.String"), Kind: ast.ConstString, Value: "world"},
					Span:       span(31, 43),
				}},
				Body: &ast.Block{
					Type: ast.Resolved("kotlin.Unit"),
					Statements: []ast.Statement{
						&ast.FunctionCall{
							Type:   ast.Resolved("kotlin.Unit"),
							Callee: &ast.NamedReference{Name: "println"},
							Arguments: []ast.Expression{
								&ast.QualifiedAccess{Type: ast.Resolved("kotlin.String"), Callee: &ast.ResolvedReference{Name: "name", Callable: ast.CallableID{Name: "name"}}},
							},
							Span: span(47, 60),
						},
						&ast.Return{Type: &ast.ErrorTypeRef{Reason: "no type"}},
					},
					Span: span(45, 62),
				},
				Span: span(21, 62),
			},
		},
		Annotations: []*ast.Annotation{{
			Callee:    &ast.ErrorReference{Name: "Missing", Reason: "unresolved"},
			Arguments: []ast.Expression{&ast.ConstExpression{Kind: ast.ConstChar, Value: 'x'}, &ast.ConstExpression{Kind: ast.ConstBoolean, Value: true}},
		}},
	}
}

func TestRoundTripKeepsTree(t *testing.T) {
	want := sampleFile()
	var buf bytes.Buffer
	if err := Encode(&buf, []*ast.File{want}, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(&buf, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d files, want 1", len(got))
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Fatalf("tree changed in round trip:\n got %#v\nwant %#v", got[0], want)
	}
}

func TestDecodeRemapsSpans(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, []*ast.File{sampleFile()}, []Source{{Path: "main.kt", Text: []byte(sample)}}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	fs := source.NewFileSet()
	fs.Add("other.kt", []byte("val other = 1\n"))

	files, err := Decode(&buf, fs)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	id, ok := fs.Lookup("main.kt")
	if !ok {
		t.Fatalf("source was not registered")
	}
	if id == 0 {
		t.Fatalf("source should not reuse the id of an existing file")
	}
	f := files[0]
	if f.Span.File != id {
		t.Fatalf("file span points at %d, want %d", f.Span.File, id)
	}
	fn := f.Declarations[2].(*ast.Function)
	if fn.Body.Span.File != id {
		t.Fatalf("body span points at %d, want %d", fn.Body.Span.File, id)
	}
	if got := string(fs.Get(id).Content[fn.Span.Start:fn.Span.End]); !strings.HasPrefix(got, "fun greet") {
		t.Fatalf("span text %q", got)
	}
	if err := testkit.CheckSpanInvariants(f, fs.Get(id)); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
}

func TestDecodeRejectsForeignData(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data := bytes.Replace(buf.Bytes(), []byte(magic), []byte("treelower/other!!"), 1)
	if _, err := Decode(bytes.NewReader(data), nil); err == nil || !strings.Contains(err.Error(), "not a tree snapshot") {
		t.Fatalf("expected magic error, got %v", err)
	}
}

func TestEncodeRejectsBadConst(t *testing.T) {
	f := &ast.File{Name: "bad.kt", Declarations: []ast.Declaration{
		&ast.Property{Name: "x", Initializer: &ast.ConstExpression{Kind: ast.ConstInt, Value: "nope"}},
	}}
	err := Encode(&bytes.Buffer{}, []*ast.File{f}, nil)
	if err == nil || !strings.Contains(err.Error(), "bad.kt") {
		t.Fatalf("expected error naming the file, got %v", err)
	}
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "main"+Ext)
	if err := WriteFile(path, []*ast.File{sampleFile()}, []Source{{Path: "main.kt", Text: []byte(sample)}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := source.NewFileSet()
	files, err := ReadFile(path, fs)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(files) != 1 || files[0].Name != "main.kt" {
		t.Fatalf("unexpected files %+v", files)
	}
	if fs.Len() != 1 {
		t.Fatalf("file set holds %d files, want 1", fs.Len())
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "tmp-*"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestDecodeSharesSourceAcrossSnapshots(t *testing.T) {
	var a, b bytes.Buffer
	src := []Source{{Path: "main.kt", Text: []byte(sample)}}
	if err := Encode(&a, []*ast.File{sampleFile()}, src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := Encode(&b, []*ast.File{sampleFile()}, src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	fs := source.NewFileSet()
	first, err := Decode(&a, fs)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	second, err := Decode(&b, fs)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fs.Len() != 1 || first[0].Span.File != second[0].Span.File {
		t.Fatalf("identical sources must share one file, got %d files", fs.Len())
	}
}
