package driver

import "time"

// Status captures the progress state of one file.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being lowered.
	StatusWorking Status = "lowering"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// FileEvent reports progress for one file, identified by its position in
// the input slice. Worker is set from the working event on; Elapsed and
// Unresolved only on done and error events.
type FileEvent struct {
	Index      int
	File       string
	Status     Status
	Worker     int
	Err        error
	Elapsed    time.Duration
	Unresolved int
}

// ProgressSink consumes progress events. Workers call OnEvent concurrently.
type ProgressSink interface {
	OnEvent(FileEvent)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- FileEvent
}

func (s ChannelSink) OnEvent(evt FileEvent) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func (o *Options) emit(evt FileEvent) {
	if o.Progress != nil {
		o.Progress.OnEvent(evt)
	}
}
