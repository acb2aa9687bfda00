package source

import (
	"fmt"
)

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Less reports whether p precedes o.
func (p LineCol) Less(o LineCol) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Col < o.Col
}

// Span covers a region of one module's source. The parser hands positions
// over as line/column pairs; the zero Span means "no position" and is used
// for synthesized nodes.
type Span struct {
	Start LineCol
	End   LineCol // не включительно
}

// At returns a zero-width span at line:col.
func At(line, col uint32) Span {
	p := LineCol{Line: line, Col: col}
	return Span{Start: p, End: p}
}

func (s Span) IsZero() bool {
	return s.Start.Line == 0 && s.End.Line == 0
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) String() string {
	if s.IsZero() {
		return "-"
	}
	if s.Empty() || s.Start.Line == s.End.Line && s.End.Col <= s.Start.Col {
		return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Col)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Col, s.End.Line, s.End.Col)
}

// Cover returns the smallest span containing both s and other.
// A zero span is treated as absent.
func (s Span) Cover(other Span) Span {
	if s.IsZero() {
		return other
	}
	if other.IsZero() {
		return s
	}
	if other.Start.Less(s.Start) {
		s.Start = other.Start
	}
	if s.End.Less(other.End) {
		s.End = other.End
	}
	return s
}
