package uir

import (
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
)

// Local is an entry of a body's local table. Span is where it was
// introduced; hidden locals carry the span of the construct that needed
// them.
type Local struct {
	Name string
	Type Type
	Span source.Span
}

// Body is the lowered form of one function or module initializer.
type Body struct {
	Locals []Local
	Stmts  []*Stmt
}

// AddLocal appends a local and returns its handle.
func (b *Body) AddLocal(name string, t Type, sp source.Span) tir.LocalID {
	id := tir.NextID[tir.LocalID](len(b.Locals))
	b.Locals = append(b.Locals, Local{Name: name, Type: t, Span: sp})
	return id
}

// Local panics on an out-of-range handle.
func (b *Body) Local(id tir.LocalID) *Local { return &b.Locals[id] }
