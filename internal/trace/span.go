package trace

import (
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// Span tracks one begin/end pair. A span the tracer level filters out still
// hands its parent through, so emitted descendants nest under the nearest
// emitted ancestor.
type Span struct {
	tracer  Tracer
	id      uint64 // 0 when not emitted
	parent  uint64
	depth   int
	scope   Scope
	name    string
	file    string
	worker  int
	started time.Time
	extra   map[string]string
}

// Root starts a span without a parent.
func Root(t Tracer, scope Scope, name string) *Span {
	return start(t, nil, scope, name, 0)
}

// Child starts a span nested under s. It inherits the file and worker of s.
func (s *Span) Child(scope Scope, name string) *Span {
	if s == nil {
		return start(Nop, nil, scope, name, 0)
	}
	return start(s.tracer, s, scope, name, s.worker)
}

// A ScopeFile span names the file its descendants belong to.
func start(t Tracer, parent *Span, scope Scope, name string, worker int) *Span {
	if t == nil {
		t = Nop
	}
	s := &Span{tracer: t, scope: scope, name: name, worker: worker}
	if parent != nil {
		s.parent = parent.anchor()
		s.depth = parent.childDepth()
		s.file = parent.file
	}
	if scope == ScopeFile {
		s.file = name
	}
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return s
	}
	s.id = spanIDs.Add(1)
	s.started = time.Now()
	t.Emit(s.event(KindSpanBegin, s.name, ""))
	return s
}

func (s *Span) anchor() uint64 {
	if s.id != 0 {
		return s.id
	}
	return s.parent
}

func (s *Span) childDepth() int {
	if s.id != 0 {
		return s.depth + 1
	}
	return s.depth
}

func (s *Span) event(kind Kind, name, detail string) *Event {
	return &Event{
		Time:     time.Now(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Depth:    s.depth,
		File:     s.file,
		Worker:   s.worker,
		Name:     name,
		Detail:   detail,
	}
}

// End emits the end event and returns the span duration. It is a no-op for
// spans that were filtered out.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	dur := time.Since(s.started)
	ev := s.event(KindSpanEnd, s.name, detail)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return dur
}

// WithExtra attaches a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// Enabled reports whether an event of scope under s would be emitted.
func (s *Span) Enabled(scope Scope) bool {
	return s != nil && s.tracer.Enabled() && s.tracer.Level().ShouldEmit(scope)
}

// Point emits an instant event under s.
func (s *Span) Point(scope Scope, name, detail string) {
	if !s.Enabled(scope) {
		return
	}
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: s.anchor(),
		Depth:    s.childDepth(),
		File:     s.file,
		Worker:   s.worker,
		Name:     name,
		Detail:   detail,
	})
}

// ID returns the span id, or 0 when the span was not emitted.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
