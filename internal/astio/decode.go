package astio

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"treelower/internal/ast"
	"treelower/internal/source"
)

// Decode reads one snapshot. When fs is non-nil the embedded sources are
// registered in it and every span is rewritten to the new file ids;
// otherwise spans keep the ids recorded in the snapshot.
func Decode(r io.Reader, fs *source.FileSet) ([]*ast.File, error) {
	var snap snapshotDTO
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("astio: decode: %w", err)
	}
	if snap.Magic != magic {
		return nil, fmt.Errorf("astio: not a tree snapshot (magic %q)", snap.Magic)
	}
	if snap.Schema != SchemaVersion {
		return nil, fmt.Errorf("astio: schema %d is not supported (want %d)", snap.Schema, SchemaVersion)
	}

	d := &decoder{}
	if fs != nil {
		d.remap = make([]source.FileID, len(snap.Sources))
		for i, s := range snap.Sources {
			d.remap[i] = fs.Add(s.Path, s.Text)
		}
	}

	files := make([]*ast.File, 0, len(snap.Files))
	for i := range snap.Files {
		f, err := d.file(&snap.Files[i])
		if err != nil {
			return nil, fmt.Errorf("astio: %s: %w", snap.Files[i].Name, err)
		}
		files = append(files, f)
	}
	return files, nil
}

type decoder struct {
	remap []source.FileID
}

func (d *decoder) span(s spanDTO) source.Span {
	id := source.FileID(s.File)
	if int(s.File) < len(d.remap) {
		id = d.remap[s.File]
	}
	return source.Span{File: id, Start: s.Start, End: s.End}
}

func (d *decoder) file(dto *fileDTO) (*ast.File, error) {
	f := &ast.File{Name: dto.Name, Package: dto.Package, Span: d.span(dto.Span)}
	for i := range dto.Decls {
		e, err := d.node(&dto.Decls[i])
		if err != nil {
			return nil, err
		}
		decl, ok := e.(ast.Declaration)
		if !ok {
			return nil, fmt.Errorf("%s is not a declaration", dto.Decls[i].Kind)
		}
		f.Declarations = append(f.Declarations, decl)
	}
	anns, err := d.annotations(dto.Annotations)
	if err != nil {
		return nil, err
	}
	f.Annotations = anns
	return f, nil
}

func (d *decoder) annotations(list []nodeDTO) ([]*ast.Annotation, error) {
	var out []*ast.Annotation
	for i := range list {
		e, err := d.node(&list[i])
		if err != nil {
			return nil, err
		}
		a, ok := e.(*ast.Annotation)
		if !ok {
			return nil, fmt.Errorf("%s is not an annotation", list[i].Kind)
		}
		out = append(out, a)
	}
	return out, nil
}

func (d *decoder) expr(n *nodeDTO) (ast.Expression, error) {
	if n == nil {
		return nil, nil
	}
	e, err := d.node(n)
	if err != nil {
		return nil, err
	}
	x, ok := e.(ast.Expression)
	if !ok {
		return nil, fmt.Errorf("%s is not an expression", n.Kind)
	}
	return x, nil
}

func (d *decoder) exprs(list []nodeDTO) ([]ast.Expression, error) {
	var out []ast.Expression
	for i := range list {
		x, err := d.expr(&list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func (d *decoder) accessor(n *nodeDTO) (ast.Accessor, error) {
	if n == nil {
		return nil, nil
	}
	e, err := d.node(n)
	if err != nil {
		return nil, err
	}
	a, ok := e.(ast.Accessor)
	if !ok {
		return nil, fmt.Errorf("%s is not an accessor", n.Kind)
	}
	return a, nil
}

func (d *decoder) block(n *nodeDTO) (*ast.Block, error) {
	if n == nil {
		return nil, nil
	}
	e, err := d.node(n)
	if err != nil {
		return nil, err
	}
	b, ok := e.(*ast.Block)
	if !ok {
		return nil, fmt.Errorf("%s is not a block", n.Kind)
	}
	return b, nil
}

func (d *decoder) param(n *nodeDTO) (*ast.ValueParameter, error) {
	if n == nil {
		return nil, nil
	}
	e, err := d.node(n)
	if err != nil {
		return nil, err
	}
	p, ok := e.(*ast.ValueParameter)
	if !ok {
		return nil, fmt.Errorf("%s is not a parameter", n.Kind)
	}
	return p, nil
}

func (d *decoder) node(n *nodeDTO) (ast.Element, error) {
	var err error
	sp := d.span(n.Span)
	switch n.Kind {
	case kindProperty:
		p := &ast.Property{
			Name:       n.Name,
			Visibility: ast.Visibility(n.Visibility),
			Modality:   ast.Modality(n.Modality),
			IsVar:      n.Flags&flagVar != 0,
			IsConst:    n.Flags&flagConst != 0,
			IsLateInit: n.Flags&flagLateInit != 0,
			ReturnType: decodeType(n.Type),
			Span:       sp,
		}
		if p.Initializer, err = d.expr(n.Init); err != nil {
			return nil, err
		}
		if p.Delegate, err = d.expr(n.Delegate); err != nil {
			return nil, err
		}
		if p.Getter, err = d.accessor(n.Getter); err != nil {
			return nil, err
		}
		if p.Setter, err = d.accessor(n.Setter); err != nil {
			return nil, err
		}
		if p.Annotations, err = d.annotations(n.Annotations); err != nil {
			return nil, err
		}
		return p, nil
	case kindFunction:
		fn := &ast.Function{
			Name:       n.Name,
			Visibility: ast.Visibility(n.Visibility),
			Modality:   ast.Modality(n.Modality),
			ReturnType: decodeType(n.Type),
			Span:       sp,
		}
		for i := range n.Children {
			p, perr := d.param(&n.Children[i])
			if perr != nil {
				return nil, perr
			}
			fn.Parameters = append(fn.Parameters, p)
		}
		if fn.Body, err = d.block(n.Body); err != nil {
			return nil, err
		}
		if fn.Annotations, err = d.annotations(n.Annotations); err != nil {
			return nil, err
		}
		return fn, nil
	case kindParam:
		p := &ast.ValueParameter{Name: n.Name, ReturnType: decodeType(n.Type), Span: sp}
		if p.Default, err = d.expr(n.Default); err != nil {
			return nil, err
		}
		return p, nil
	case kindGetter:
		return &ast.DefaultGetter{Visibility: ast.Visibility(n.Visibility), Span: sp}, nil
	case kindSetter:
		return &ast.DefaultSetter{Visibility: ast.Visibility(n.Visibility), Span: sp}, nil
	case kindAccessor:
		a := &ast.PropertyAccessor{
			IsGetter:   n.Flags&flagGetter != 0,
			Visibility: ast.Visibility(n.Visibility),
			ReturnType: decodeType(n.Type),
			Span:       sp,
		}
		if a.ValueParameter, err = d.param(n.Param); err != nil {
			return nil, err
		}
		if a.Body, err = d.block(n.Body); err != nil {
			return nil, err
		}
		if a.Annotations, err = d.annotations(n.Annotations); err != nil {
			return nil, err
		}
		return a, nil
	case kindCall:
		c := &ast.FunctionCall{Type: decodeType(n.Type), Callee: decodeRef(n.Ref), Span: sp}
		if c.Arguments, err = d.exprs(n.Children); err != nil {
			return nil, err
		}
		return c, nil
	case kindAnnotation:
		a := &ast.Annotation{Type: decodeType(n.Type), Callee: decodeRef(n.Ref), Span: sp}
		if a.Arguments, err = d.exprs(n.Children); err != nil {
			return nil, err
		}
		return a, nil
	case kindConst:
		kind := ast.ConstKind(n.ConstKind)
		return &ast.ConstExpression{Type: decodeType(n.Type), Kind: kind, Value: decodeConst(kind, n), Span: sp}, nil
	case kindAccess:
		a := &ast.QualifiedAccess{
			Type:   decodeType(n.Type),
			Safe:   n.Flags&flagSafe != 0,
			Callee: decodeRef(n.Ref),
			Span:   sp,
		}
		if a.Receiver, err = d.expr(n.Receiver); err != nil {
			return nil, err
		}
		return a, nil
	case kindBlock:
		b := &ast.Block{Type: decodeType(n.Type), Span: sp}
		for i := range n.Children {
			e, serr := d.node(&n.Children[i])
			if serr != nil {
				return nil, serr
			}
			st, ok := e.(ast.Statement)
			if !ok {
				return nil, fmt.Errorf("%s is not a statement", n.Children[i].Kind)
			}
			b.Statements = append(b.Statements, st)
		}
		return b, nil
	case kindReturn:
		r := &ast.Return{Type: decodeType(n.Type), Span: sp}
		if r.Result, err = d.expr(n.Result); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", n.Kind)
	}
}

func decodeType(t *typeDTO) ast.TypeRef {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case typeResolved:
		return &ast.ResolvedTypeRef{Type: decodeCone(t)}
	case typeError:
		return &ast.ErrorTypeRef{Reason: t.Reason}
	case typeImplicit:
		return &ast.ImplicitTypeRef{}
	default:
		return nil
	}
}

func decodeCone(t *typeDTO) ast.ConeType {
	c := ast.ConeType{ClassID: t.Class, Nullable: t.Nullable}
	for i := range t.Args {
		c.Args = append(c.Args, decodeCone(&t.Args[i]))
	}
	return c
}

func decodeRef(r *refDTO) ast.Reference {
	if r == nil {
		return nil
	}
	switch r.Kind {
	case refResolved:
		return &ast.ResolvedReference{Name: r.Name, Callable: ast.CallableID{Package: r.Package, Name: r.Target}}
	case refNamed:
		return &ast.NamedReference{Name: r.Name}
	case refError:
		return &ast.ErrorReference{Name: r.Name, Reason: r.Reason}
	default:
		return nil
	}
}

func decodeConst(kind ast.ConstKind, n *nodeDTO) any {
	switch kind {
	case ast.ConstNull:
		return nil
	case ast.ConstBoolean:
		return n.Bool
	case ast.ConstChar:
		return rune(n.Int)
	case ast.ConstFloat, ast.ConstDouble:
		return n.Float
	case ast.ConstString:
		return n.Str
	default:
		return n.Int
	}
}
