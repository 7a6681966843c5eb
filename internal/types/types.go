package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type. Output Tree nodes never carry it.
const NoTypeID TypeID = 0

// Kind enumerates the type shapes the Output Tree can carry.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindNothing
	KindAny
	KindBoolean
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindClass // nominal class type with optional arguments
	KindError // placeholder for a type upstream failed to resolve
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "Unit"
	case KindNothing:
		return "Nothing"
	case KindAny:
		return "Any"
	case KindBoolean:
		return "Boolean"
	case KindChar:
		return "Char"
	case KindInt:
		return "Int"
	case KindLong:
		return "Long"
	case KindFloat:
		return "Float"
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	case KindClass:
		return "class"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind     Kind
	Class    string   // fully qualified name, KindClass only
	Args     []TypeID // type arguments, KindClass only
	Nullable bool
	Reason   string // KindError only
}

// Builtins stores TypeIDs for the non-nullable primitives.
type Builtins struct {
	Unit    TypeID
	Nothing TypeID
	Any     TypeID
	Boolean TypeID
	Char    TypeID
	Int     TypeID
	Long    TypeID
	Float   TypeID
	Double  TypeID
	String  TypeID
}

// primitiveByName maps the fully qualified names of builtin classes to kinds.
var primitiveByName = map[string]Kind{
	"kotlin.Unit":    KindUnit,
	"kotlin.Nothing": KindNothing,
	"kotlin.Any":     KindAny,
	"kotlin.Boolean": KindBoolean,
	"kotlin.Char":    KindChar,
	"kotlin.Int":     KindInt,
	"kotlin.Long":    KindLong,
	"kotlin.Float":   KindFloat,
	"kotlin.Double":  KindDouble,
	"kotlin.String":  KindString,
}

// PrimitiveKind returns the builtin kind for a fully qualified class name.
func PrimitiveKind(fqName string) (Kind, bool) {
	k, ok := primitiveByName[fqName]
	return k, ok
}
