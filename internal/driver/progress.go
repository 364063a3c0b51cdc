package driver

import "time"

// Stage is a per-file step of a session.
type Stage string

const (
	StageLoad    Stage = "load"
	StageCompile Stage = "compile"
	StageResolve Stage = "resolve"
	StageWrite   Stage = "write"
)

// Session-wide phases, timed by Session.Timer and reported to the
// PhaseObserver. Prelude runs before load when frameworks are given.
const (
	PhasePrelude = "prelude"
	PhaseLoad    = "load"
	PhaseOrder   = "order"
	PhaseCompile = "compile"
	PhaseResolve = "resolve"
	PhaseWrite   = "write"
)

// PhaseEvent marks a phase boundary. Elapsed is set when Done.
type PhaseEvent struct {
	Name    string
	Done    bool
	Elapsed time.Duration
}

// PhaseObserver receives phase boundaries on the session goroutine.
type PhaseObserver func(PhaseEvent)

// Status captures progress within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole session when File
// is empty.
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Err      error
	Elapsed  time.Duration
	Errors   int
	Warnings int
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }
