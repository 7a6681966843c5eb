package types

import "strings"

// Format renders id the way types are spelled in dumps, e.g. `List<Int>?`.
func (in *Interner) Format(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<no-type>"
	}
	var sb strings.Builder
	switch t.Kind {
	case KindClass:
		sb.WriteString(t.Class)
		if len(t.Args) > 0 {
			sb.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(in.Format(a))
			}
			sb.WriteByte('>')
		}
	case KindError:
		sb.WriteString("<error")
		if t.Reason != "" {
			sb.WriteString(": ")
			sb.WriteString(t.Reason)
		}
		sb.WriteByte('>')
	default:
		sb.WriteString(t.Kind.String())
	}
	if t.Nullable {
		sb.WriteByte('?')
	}
	return sb.String()
}
