package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint // instant event
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI command, whole batch
	ScopeFile                    // lowering one Source Tree
	ScopeDecl                    // one top-level declaration
	ScopeNode                    // one lowered node
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeFile:
		return "file"
	case ScopeDecl:
		return "decl"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event is one trace record. File and Worker are inherited from the
// enclosing file span and the driver worker that runs it.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the receiving tracer
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Depth    int    // number of emitted ancestors
	File     string
	Worker   int // 1-based driver worker slot, 0 outside the pool
	Name     string
	Detail   string
	Extra    map[string]string
}
