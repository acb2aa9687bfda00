package trace

import (
	"bufio"
	"io"
	"os"
	"sync"
)

// StreamTracer formats each event as it arrives. Write errors are
// dropped; a broken trace output never fails a build.
type StreamTracer struct {
	mu     sync.Mutex
	w      *bufio.Writer
	out    io.Writer
	level  Level
	format Format
	seq    uint64
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{w: bufio.NewWriter(w), out: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.Allows(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	ev.Seq = t.seq
	_, _ = t.w.Write(FormatEvent(ev, t.format))
	// Phase boundaries are flushed so a crashed run still shows how far
	// it got.
	if ev.Scope <= ScopePhase {
		_ = t.w.Flush()
	}
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.w.Flush(); err != nil {
		return err
	}
	if t.out == os.Stderr || t.out == os.Stdout {
		return nil
	}
	if c, ok := t.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	level  Level
	events []Event
}

// NewRecorder returns a recorder tracing up to level.
func NewRecorder(level Level) *Recorder { return &Recorder{level: level} }

func (r *Recorder) Emit(ev *Event) {
	if !r.level.Allows(ev.Scope) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.Seq = uint64(len(r.events) + 1)
	r.events = append(r.events, *ev)
}

func (r *Recorder) Level() Level { return r.level }
func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events in emission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Ended returns the end events of scope, in order.
func (r *Recorder) Ended(scope Scope) []Event {
	var out []Event
	for _, ev := range r.Events() {
		if ev.Kind == KindEnd && ev.Scope == scope {
			out = append(out, ev)
		}
	}
	return out
}
