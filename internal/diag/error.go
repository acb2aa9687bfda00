package diag

import (
	"fmt"
	"strings"

	"github.com/cla7aye15I4nd/TypePython/internal/source"
)

// Error carries one or more error diagnostics out of a phase as a Go error.
// Use errors.As to recover the diagnostics.
type Error struct {
	Bag *Bag
}

// Errorf builds an Error holding a single diagnostic.
func Errorf(code Code, module string, sp source.Span, format string, args ...any) *Error {
	bag := NewBag(1)
	bag.Add(NewError(code, module, sp, fmt.Sprintf(format, args...)))
	return &Error{Bag: bag}
}

// FromBag returns nil when bag holds no errors.
func FromBag(bag *Bag) error {
	if !bag.HasErrors() {
		return nil
	}
	return &Error{Bag: bag}
}

func (e *Error) Error() string {
	items := e.Diagnostics()
	switch len(items) {
	case 0:
		return "no errors"
	case 1:
		return formatOne(items[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(items))
	for i, d := range items {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, formatOne(d))
	}
	return b.String()
}

// Diagnostics returns the carried diagnostics.
func (e *Error) Diagnostics() []Diagnostic {
	if e == nil {
		return nil
	}
	return e.Bag.Items()
}

// First returns the first carried diagnostic.
func (e *Error) First() Diagnostic {
	items := e.Diagnostics()
	if len(items) == 0 {
		return Diagnostic{}
	}
	return items[0]
}

// OutcomeCode is the code of the first diagnostic, for trace outcomes.
func (e *Error) OutcomeCode() string {
	return e.First().Code.ID()
}

// Has reports whether any carried diagnostic has the given code.
func (e *Error) Has(code Code) bool {
	for _, d := range e.Diagnostics() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func formatOne(d Diagnostic) string {
	loc := d.Location()
	if loc == "" {
		return fmt.Sprintf("%s: %s", d.Code.ID(), d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.Code.ID(), d.Message)
}
