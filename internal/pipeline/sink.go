package pipeline

import (
	"sync"
	"time"
)

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

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) OnEvent(evt Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// EmitQueued reports every module as queued.
func EmitQueued(sink ProgressSink, modules []string) {
	if sink == nil {
		return
	}
	for _, m := range modules {
		sink.OnEvent(Event{Module: m, Stage: StageLoad, Status: StatusQueued})
	}
}

// EmitStage reports one status for several modules at once.
func EmitStage(sink ProgressSink, modules []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	for _, m := range modules {
		sink.OnEvent(Event{Module: m, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}

// Emit reports a single event; a nil sink drops it.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
