package ast

// ConeType is the resolver's view of a type.
type ConeType struct {
	ClassID  string // fully qualified class name, e.g. kotlin.Int
	Args     []ConeType
	Nullable bool
}

// ResolvedTypeRef carries a type decided by resolution.
type ResolvedTypeRef struct {
	Type ConeType
}

// ErrorTypeRef records a type resolution failure upstream.
type ErrorTypeRef struct {
	Reason string
}

// ImplicitTypeRef is a type that was never resolved.
type ImplicitTypeRef struct{}

func (*ResolvedTypeRef) typeRef() {}
func (*ErrorTypeRef) typeRef()    {}
func (*ImplicitTypeRef) typeRef() {}

// Resolved is shorthand for a non-nullable class type reference.
func Resolved(classID string, args ...ConeType) *ResolvedTypeRef {
	return &ResolvedTypeRef{Type: ConeType{ClassID: classID, Args: args}}
}

// ResolvedNullable is shorthand for a nullable class type reference.
func ResolvedNullable(classID string, args ...ConeType) *ResolvedTypeRef {
	return &ResolvedTypeRef{Type: ConeType{ClassID: classID, Args: args, Nullable: true}}
}
