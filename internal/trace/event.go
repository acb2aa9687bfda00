package trace

import "time"

// Kind says whether an event opens or closes a span.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Scope is the granularity of a span, coarsest first.
type Scope uint8

const (
	// ScopeRun covers one whole build or lowering run.
	ScopeRun Scope = iota + 1
	ScopePhase
	ScopeModule
	// ScopeFunction covers one function, method or module initializer.
	ScopeFunction
)

func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopePhase:
		return "phase"
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Event is one begin or end of a span. Module and Function are inherited
// from the enclosing spans, so a function span also names its module.
type Event struct {
	Seq      uint64
	Time     time.Time
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string
	Module   string
	Function string
	// Set on end events only.
	Elapsed time.Duration
	Outcome string
	Counts  map[string]int
}

// Failed reports whether the span ended with an outcome other than ok.
func (e *Event) Failed() bool {
	return e.Kind == KindEnd && e.Outcome != "" && e.Outcome != OutcomeOK
}

// OutcomeOK is the outcome of a span that ended without error.
const OutcomeOK = "ok"
