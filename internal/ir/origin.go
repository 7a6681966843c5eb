package ir

// Origin tells where a node came from.
type Origin uint8

const (
	OriginDefined          Origin = iota // written in source
	OriginBackingField                   // storage synthesized for a property
	OriginDefaultAccessor                // accessor synthesized for a property
	OriginExternal                       // stub for a declaration outside the lowered files
	OriginErrorPlaceholder               // stands in for an unresolved reference
)

func (o Origin) String() string {
	switch o {
	case OriginDefined:
		return "DEFINED"
	case OriginBackingField:
		return "PROPERTY_BACKING_FIELD"
	case OriginDefaultAccessor:
		return "DEFAULT_PROPERTY_ACCESSOR"
	case OriginExternal:
		return "EXTERNAL"
	case OriginErrorPlaceholder:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
