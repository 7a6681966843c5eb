package ast

import "fmt"

// Visibility of a declaration.
type Visibility uint8

const (
	VisPublic Visibility = iota
	VisInternal
	VisProtected
	VisPrivate
	VisLocal
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisInternal:
		return "internal"
	case VisProtected:
		return "protected"
	case VisPrivate:
		return "private"
	case VisLocal:
		return "local"
	default:
		return fmt.Sprintf("Visibility(%d)", v)
	}
}

// Modality of a declaration. The zero value means resolution did not decide
// it yet, which lowering treats as a broken input.
type Modality uint8

const (
	ModalityUnknown Modality = iota
	ModalityFinal
	ModalityOpen
	ModalityAbstract
	ModalitySealed
)

func (m Modality) String() string {
	switch m {
	case ModalityUnknown:
		return "unknown"
	case ModalityFinal:
		return "final"
	case ModalityOpen:
		return "open"
	case ModalityAbstract:
		return "abstract"
	case ModalitySealed:
		return "sealed"
	default:
		return fmt.Sprintf("Modality(%d)", m)
	}
}

// ConstKind tags the literal carried by a ConstExpression.
type ConstKind uint8

const (
	ConstNull ConstKind = iota
	ConstBoolean
	ConstChar
	ConstByte
	ConstShort
	ConstInt
	ConstLong
	ConstFloat
	ConstDouble
	ConstString
)

func (k ConstKind) String() string {
	switch k {
	case ConstNull:
		return "Null"
	case ConstBoolean:
		return "Boolean"
	case ConstChar:
		return "Char"
	case ConstByte:
		return "Byte"
	case ConstShort:
		return "Short"
	case ConstInt:
		return "Int"
	case ConstLong:
		return "Long"
	case ConstFloat:
		return "Float"
	case ConstDouble:
		return "Double"
	case ConstString:
		return "String"
	default:
		return fmt.Sprintf("ConstKind(%d)", k)
	}
}
