package lower

import (
	"treelower/internal/ast"
	"treelower/internal/types"
)

// lowerType converts the type resolution attached to at. Every Output node
// carries a type, so a missing or implicit one is broken input.
func (l *lowerer) lowerType(ref ast.TypeRef, at ast.Element) types.TypeID {
	switch t := ref.(type) {
	case *ast.ResolvedTypeRef:
		return l.coneType(t.Type, at)
	case *ast.ErrorTypeRef:
		return l.types.Error(t.Reason)
	case *ast.ImplicitTypeRef:
		violate(at, "type was never resolved")
	case nil:
		violate(at, "node has no type")
	default:
		violate(at, "unknown type reference %T", ref)
	}
	return types.NoTypeID
}

// lowerTypeOr is lowerType with a fallback for nodes whose type may be
// omitted.
func (l *lowerer) lowerTypeOr(ref ast.TypeRef, at ast.Element, fallback types.TypeID) types.TypeID {
	if ref == nil {
		return fallback
	}
	return l.lowerType(ref, at)
}

func (l *lowerer) coneType(c ast.ConeType, at ast.Element) types.TypeID {
	if c.ClassID == "" {
		violate(at, "type without class id")
	}
	var id types.TypeID
	if k, ok := types.PrimitiveKind(c.ClassID); ok && len(c.Args) == 0 {
		id = l.types.Intern(types.Type{Kind: k})
	} else {
		args := make([]types.TypeID, len(c.Args))
		for i, a := range c.Args {
			args[i] = l.coneType(a, at)
		}
		id = l.types.Intern(types.Type{Kind: types.KindClass, Class: c.ClassID, Args: args})
	}
	if c.Nullable {
		id = l.types.Nullable(id)
	}
	return id
}
