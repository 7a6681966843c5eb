package astio

// SchemaVersion is bumped on every incompatible change of the layout below.
const SchemaVersion uint16 = 1

const magic = "treelower/astpack"

type snapshotDTO struct {
	Magic   string      `msgpack:"magic"`
	Schema  uint16      `msgpack:"schema"`
	Sources []sourceDTO `msgpack:"sources,omitempty"`
	Files   []fileDTO   `msgpack:"files"`
}

type sourceDTO struct {
	Path string `msgpack:"path"`
	Text []byte `msgpack:"text"`
}

type spanDTO struct {
	File  uint32 `msgpack:"f"`
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
}

type fileDTO struct {
	Name        string    `msgpack:"name"`
	Package     string    `msgpack:"package"`
	Span        spanDTO   `msgpack:"span"`
	Decls       []nodeDTO `msgpack:"decls,omitempty"`
	Annotations []nodeDTO `msgpack:"annotations,omitempty"`
}

// node kinds
const (
	kindProperty   = "property"
	kindFunction   = "function"
	kindParam      = "param"
	kindGetter     = "default-getter"
	kindSetter     = "default-setter"
	kindAccessor   = "accessor"
	kindCall       = "call"
	kindConst      = "const"
	kindAccess     = "access"
	kindBlock      = "block"
	kindReturn     = "return"
	kindAnnotation = "annotation"
)

// node flags
const (
	flagVar uint8 = 1 << iota
	flagConst
	flagLateInit
	flagSafe
	flagGetter
)

// nodeDTO is a tagged union over every Source Tree variant. Only the fields
// the variant uses are set.
type nodeDTO struct {
	Kind       string   `msgpack:"k"`
	Name       string   `msgpack:"n,omitempty"`
	Span       spanDTO  `msgpack:"s"`
	Type       *typeDTO `msgpack:"t,omitempty"`
	Ref        *refDTO  `msgpack:"r,omitempty"`
	Visibility uint8    `msgpack:"vis,omitempty"`
	Modality   uint8    `msgpack:"mod,omitempty"`
	Flags      uint8    `msgpack:"fl,omitempty"`

	ConstKind uint8   `msgpack:"ck,omitempty"`
	Int       int64   `msgpack:"i,omitempty"`
	Float     float64 `msgpack:"fv,omitempty"`
	Str       string  `msgpack:"str,omitempty"`
	Bool      bool    `msgpack:"b,omitempty"`

	Init        *nodeDTO  `msgpack:"init,omitempty"`
	Delegate    *nodeDTO  `msgpack:"delegate,omitempty"`
	Getter      *nodeDTO  `msgpack:"get,omitempty"`
	Setter      *nodeDTO  `msgpack:"set,omitempty"`
	Receiver    *nodeDTO  `msgpack:"recv,omitempty"`
	Body        *nodeDTO  `msgpack:"body,omitempty"`
	Param       *nodeDTO  `msgpack:"param,omitempty"`
	Default     *nodeDTO  `msgpack:"default,omitempty"`
	Result      *nodeDTO  `msgpack:"result,omitempty"`
	Children    []nodeDTO `msgpack:"c,omitempty"`
	Annotations []nodeDTO `msgpack:"ann,omitempty"`
}

// type reference kinds
const (
	typeResolved uint8 = iota + 1
	typeError
	typeImplicit
)

type typeDTO struct {
	Kind     uint8     `msgpack:"k"`
	Class    string    `msgpack:"c,omitempty"`
	Args     []typeDTO `msgpack:"a,omitempty"`
	Nullable bool      `msgpack:"q,omitempty"`
	Reason   string    `msgpack:"r,omitempty"`
}

// reference kinds
const (
	refResolved uint8 = iota + 1
	refNamed
	refError
)

type refDTO struct {
	Kind    uint8  `msgpack:"k"`
	Name    string `msgpack:"n"`
	Package string `msgpack:"p,omitempty"`
	Target  string `msgpack:"t,omitempty"`
	Reason  string `msgpack:"r,omitempty"`
}
