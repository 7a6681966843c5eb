package astio

import (
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"treelower/internal/ast"
	"treelower/internal/source"
)

// Source is source text shipped inside a snapshot. Span file ids index the
// Sources slice passed to Encode.
type Source struct {
	Path string
	Text []byte
}

// Encode writes files and sources as one snapshot.
func Encode(w io.Writer, files []*ast.File, sources []Source) error {
	snap := snapshotDTO{
		Magic:  magic,
		Schema: SchemaVersion,
		Files:  make([]fileDTO, 0, len(files)),
	}
	for _, s := range sources {
		snap.Sources = append(snap.Sources, sourceDTO(s))
	}
	for _, f := range files {
		dto, err := encodeFile(f)
		if err != nil {
			return err
		}
		snap.Files = append(snap.Files, dto)
	}
	enc := msgpack.NewEncoder(w)
	enc.SetOmitEmpty(true)
	if err := enc.Encode(&snap); err != nil {
		return fmt.Errorf("astio: encode: %w", err)
	}
	return nil
}

func encodeFile(f *ast.File) (fileDTO, error) {
	if f == nil {
		return fileDTO{}, fmt.Errorf("astio: nil file")
	}
	dto := fileDTO{Name: f.Name, Package: f.Package, Span: encodeSpan(f.Span)}
	for _, d := range f.Declarations {
		n, err := encodeNode(d)
		if err != nil {
			return fileDTO{}, fmt.Errorf("astio: %s: %w", f.Name, err)
		}
		dto.Decls = append(dto.Decls, *n)
	}
	anns, err := encodeAnnotations(f.Annotations)
	if err != nil {
		return fileDTO{}, fmt.Errorf("astio: %s: %w", f.Name, err)
	}
	dto.Annotations = anns
	return dto, nil
}

func encodeSpan(sp source.Span) spanDTO {
	return spanDTO{File: uint32(sp.File), Start: sp.Start, End: sp.End}
}

func encodeAnnotations(anns []*ast.Annotation) ([]nodeDTO, error) {
	var out []nodeDTO
	for _, a := range anns {
		n, err := encodeNode(a)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, nil
}

func encodeExprs(xs []ast.Expression) ([]nodeDTO, error) {
	var out []nodeDTO
	for _, x := range xs {
		n, err := encodeNode(x)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, fmt.Errorf("nil expression in list")
		}
		out = append(out, *n)
	}
	return out, nil
}

// encodeOpt encodes an optional child; a nil interface yields nil.
func encodeOpt(e ast.Element) (*nodeDTO, error) {
	if e == nil {
		return nil, nil
	}
	return encodeNode(e)
}

func encodeNode(e ast.Element) (*nodeDTO, error) {
	var err error
	n := &nodeDTO{}
	switch x := e.(type) {
	case *ast.Property:
		n.Kind, n.Name, n.Span = kindProperty, x.Name, encodeSpan(x.Span)
		n.Visibility, n.Modality = uint8(x.Visibility), uint8(x.Modality)
		n.Flags = flagIf(x.IsVar, flagVar) | flagIf(x.IsConst, flagConst) | flagIf(x.IsLateInit, flagLateInit)
		n.Type = encodeType(x.ReturnType)
		if n.Init, err = encodeExprOpt(x.Initializer); err != nil {
			return nil, err
		}
		if n.Delegate, err = encodeExprOpt(x.Delegate); err != nil {
			return nil, err
		}
		if n.Getter, err = encodeAccessorOpt(x.Getter); err != nil {
			return nil, err
		}
		if n.Setter, err = encodeAccessorOpt(x.Setter); err != nil {
			return nil, err
		}
		n.Annotations, err = encodeAnnotations(x.Annotations)
	case *ast.Function:
		n.Kind, n.Name, n.Span = kindFunction, x.Name, encodeSpan(x.Span)
		n.Visibility, n.Modality = uint8(x.Visibility), uint8(x.Modality)
		n.Type = encodeType(x.ReturnType)
		for _, p := range x.Parameters {
			pn, perr := encodeNode(p)
			if perr != nil {
				return nil, perr
			}
			n.Children = append(n.Children, *pn)
		}
		if x.Body != nil {
			if n.Body, err = encodeNode(x.Body); err != nil {
				return nil, err
			}
		}
		n.Annotations, err = encodeAnnotations(x.Annotations)
	case *ast.ValueParameter:
		n.Kind, n.Name, n.Span = kindParam, x.Name, encodeSpan(x.Span)
		n.Type = encodeType(x.ReturnType)
		n.Default, err = encodeExprOpt(x.Default)
	case *ast.DefaultGetter:
		n.Kind, n.Span, n.Visibility = kindGetter, encodeSpan(x.Span), uint8(x.Visibility)
	case *ast.DefaultSetter:
		n.Kind, n.Span, n.Visibility = kindSetter, encodeSpan(x.Span), uint8(x.Visibility)
	case *ast.PropertyAccessor:
		n.Kind, n.Span, n.Visibility = kindAccessor, encodeSpan(x.Span), uint8(x.Visibility)
		n.Flags = flagIf(x.IsGetter, flagGetter)
		n.Type = encodeType(x.ReturnType)
		if x.ValueParameter != nil {
			if n.Param, err = encodeNode(x.ValueParameter); err != nil {
				return nil, err
			}
		}
		if x.Body != nil {
			if n.Body, err = encodeNode(x.Body); err != nil {
				return nil, err
			}
		}
		n.Annotations, err = encodeAnnotations(x.Annotations)
	case *ast.FunctionCall:
		n.Kind, n.Span, n.Type, n.Ref = kindCall, encodeSpan(x.Span), encodeType(x.Type), encodeRef(x.Callee)
		n.Children, err = encodeExprs(x.Arguments)
	case *ast.Annotation:
		n.Kind, n.Span, n.Type, n.Ref = kindAnnotation, encodeSpan(x.Span), encodeType(x.Type), encodeRef(x.Callee)
		n.Children, err = encodeExprs(x.Arguments)
	case *ast.ConstExpression:
		n.Kind, n.Span, n.Type = kindConst, encodeSpan(x.Span), encodeType(x.Type)
		err = encodeConst(n, x)
	case *ast.QualifiedAccess:
		n.Kind, n.Span, n.Type, n.Ref = kindAccess, encodeSpan(x.Span), encodeType(x.Type), encodeRef(x.Callee)
		n.Flags = flagIf(x.Safe, flagSafe)
		n.Receiver, err = encodeExprOpt(x.Receiver)
	case *ast.Block:
		n.Kind, n.Span, n.Type = kindBlock, encodeSpan(x.Span), encodeType(x.Type)
		for _, s := range x.Statements {
			sn, serr := encodeNode(s)
			if serr != nil {
				return nil, serr
			}
			n.Children = append(n.Children, *sn)
		}
	case *ast.Return:
		n.Kind, n.Span, n.Type = kindReturn, encodeSpan(x.Span), encodeType(x.Type)
		n.Result, err = encodeExprOpt(x.Result)
	default:
		return nil, fmt.Errorf("cannot encode %T", e)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func encodeExprOpt(x ast.Expression) (*nodeDTO, error) {
	if x == nil {
		return nil, nil
	}
	return encodeOpt(x)
}

func encodeAccessorOpt(a ast.Accessor) (*nodeDTO, error) {
	if a == nil {
		return nil, nil
	}
	return encodeOpt(a)
}

func flagIf(cond bool, f uint8) uint8 {
	if cond {
		return f
	}
	return 0
}

func encodeType(t ast.TypeRef) *typeDTO {
	switch x := t.(type) {
	case *ast.ResolvedTypeRef:
		dto := encodeCone(x.Type)
		return &dto
	case *ast.ErrorTypeRef:
		return &typeDTO{Kind: typeError, Reason: x.Reason}
	case *ast.ImplicitTypeRef:
		return &typeDTO{Kind: typeImplicit}
	default:
		return nil
	}
}

func encodeCone(c ast.ConeType) typeDTO {
	dto := typeDTO{Kind: typeResolved, Class: c.ClassID, Nullable: c.Nullable}
	for _, a := range c.Args {
		dto.Args = append(dto.Args, encodeCone(a))
	}
	return dto
}

func encodeRef(r ast.Reference) *refDTO {
	switch x := r.(type) {
	case *ast.ResolvedReference:
		return &refDTO{Kind: refResolved, Name: x.Name, Package: x.Callable.Package, Target: x.Callable.Name}
	case *ast.NamedReference:
		return &refDTO{Kind: refNamed, Name: x.Name}
	case *ast.ErrorReference:
		return &refDTO{Kind: refError, Name: x.Name, Reason: x.Reason}
	default:
		return nil
	}
}

func encodeConst(n *nodeDTO, c *ast.ConstExpression) error {
	n.ConstKind = uint8(c.Kind)
	switch c.Kind {
	case ast.ConstNull:
		return nil
	case ast.ConstBoolean:
		b, ok := c.Value.(bool)
		if !ok {
			return fmt.Errorf("boolean constant holds %T", c.Value)
		}
		n.Bool = b
	case ast.ConstString:
		s, ok := c.Value.(string)
		if !ok {
			return fmt.Errorf("string constant holds %T", c.Value)
		}
		n.Str = s
	case ast.ConstFloat, ast.ConstDouble:
		switch v := c.Value.(type) {
		case float32:
			n.Float = float64(v)
		case float64:
			n.Float = v
		default:
			return fmt.Errorf("%s constant holds %T", c.Kind, c.Value)
		}
	default:
		i, err := toInt64(c.Value)
		if err != nil {
			return fmt.Errorf("%s constant: %w", c.Kind, err)
		}
		n.Int = i
	}
	return nil
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", x)
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", x)
		}
		return int64(x), nil
	default:
		return 0, fmt.Errorf("holds %T", v)
	}
}
