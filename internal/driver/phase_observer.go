package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a pipeline phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during LowerFiles.
type PhaseObserver func(PhaseEvent)

// phase runs fn between a start and an end event and records it on the
// timer. fn receives the timer index so it can nest per-file entries.
func (o *Options) phase(name string, fn func(idx int) error) error {
	idx := o.Timer.Begin(name)
	if o.OnPhase != nil {
		o.OnPhase(PhaseEvent{Name: name, Status: PhaseStart})
	}
	start := time.Now()
	err := fn(idx)
	o.Timer.End(idx, "")
	if o.OnPhase != nil {
		o.OnPhase(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(start)})
	}
	return err
}
