package trace

import (
	"errors"
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// Span is an open span. A nil or inactive span accepts every call.
type Span struct {
	tracer   Tracer
	id       uint64
	parent   uint64
	scope    Scope
	name     string
	module   string
	function string
	started  time.Time
	counts   map[string]int
}

func begin(t Tracer, scope Scope, name string, parent spanContext) *Span {
	if t == nil || !t.Level().Allows(scope) {
		return nil
	}
	s := &Span{
		tracer:   t,
		id:       spanIDs.Add(1),
		parent:   parent.id,
		scope:    scope,
		name:     name,
		module:   parent.module,
		function: parent.function,
		started:  time.Now(),
	}
	return s
}

func (s *Span) emitBegin() {
	s.tracer.Emit(&Event{
		Time:     s.started,
		Kind:     KindBegin,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Module:   s.module,
		Function: s.function,
	})
}

// ID returns the span id, or 0 for an inactive span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Count adds n to the named counter reported when the span ends.
func (s *Span) Count(key string, n int) *Span {
	if s == nil {
		return s
	}
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	s.counts[key] += n
	return s
}

// End closes the span. An empty outcome means ok; failed spans carry a
// diagnostic code or a short reason.
func (s *Span) End(outcome string) time.Duration {
	if s == nil {
		return 0
	}
	if outcome == "" {
		outcome = OutcomeOK
	}
	now := time.Now()
	elapsed := now.Sub(s.started)
	s.tracer.Emit(&Event{
		Time:     now,
		Kind:     KindEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Module:   s.module,
		Function: s.function,
		Elapsed:  elapsed,
		Outcome:  outcome,
		Counts:   s.counts,
	})
	return elapsed
}

// Outcome names how a span returning err ended: ok, the code of a
// diagnostic error, or "failed".
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var coded interface{ OutcomeCode() string }
	if errors.As(err, &coded) {
		return coded.OutcomeCode()
	}
	return "failed"
}
