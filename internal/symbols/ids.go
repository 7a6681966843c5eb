package symbols

// SymbolID is the handle returned by Declare. It indexes the registry arena
// and is valid as a forward reference before the owner is bound.
type SymbolID uint32

const (
	// NoSymbolID marks the absence of a symbol reference.
	NoSymbolID SymbolID = 0
)

// IsValid reports whether the symbol ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }
