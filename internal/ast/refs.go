package ast

// CallableID identifies a callable declaration across files.
type CallableID struct {
	Package string
	Name    string
}

func (id CallableID) String() string {
	if id.Package == "" {
		return id.Name
	}
	return id.Package + "." + id.Name
}

// IsValid reports whether id names anything.
func (id CallableID) IsValid() bool { return id.Name != "" }

// ResolvedReference was bound to a callable by resolution.
type ResolvedReference struct {
	Name     string
	Callable CallableID
}

// NamedReference carries only a name; the reference oracle decides what it means.
type NamedReference struct {
	Name string
}

// ErrorReference records that resolution already failed for this name.
type ErrorReference struct {
	Name   string
	Reason string
}

func (r *ResolvedReference) RefName() string { return r.Name }
func (r *NamedReference) RefName() string    { return r.Name }
func (r *ErrorReference) RefName() string    { return r.Name }

func (*ResolvedReference) reference() {}
func (*NamedReference) reference()    {}
func (*ErrorReference) reference()    {}
