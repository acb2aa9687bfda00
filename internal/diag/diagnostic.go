package diag

import (
	"github.com/cla7aye15I4nd/TypePython/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single finding. Module names the module the span refers to;
// it is empty for program-wide findings (e.g. a missing entry module).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Module   string
	Primary  source.Span
	Notes    []Note
}
