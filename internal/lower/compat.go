package lower

import (
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// assignable reports whether a value of type from may be stored where to
// is expected. Where either side still depends on a type variable the
// check is deferred to the solver by recording an equality.
func (l *bodyLowerer) assignable(from, to uir.Type, sp source.Span, what string) bool {
	from, to = l.known(from), l.known(to)
	switch {
	case from == to:
		return true
	case from.IsVar() || to.IsVar():
		l.cons.AddEqual(from, to, l.origin(sp, what))
		return true
	case from.Kind == uir.TypeInt && to.Kind == uir.TypeFloat:
		return true
	case from.IsClass() && to.IsClass():
		if l.table.SameGeneric(from.Class, to.Class) {
			if l.table.Class(from.Class).Settled() && l.table.Class(to.Class).Settled() {
				return false
			}
			l.cons.AddEqual(from, to, l.origin(sp, what))
			return true
		}
		return l.table.IsSubclass(from.Class, to.Class)
	}
	return false
}

// comparable reports whether a and b may be operands of one comparison.
func (l *bodyLowerer) comparable(a, b uir.Type, sp source.Span) bool {
	a, b = l.known(a), l.known(b)
	switch {
	case a.IsNumeric() && b.IsNumeric():
		return true
	case a.IsVar() || b.IsVar():
		l.cons.AddEqual(a, b, l.origin(sp, "comparison"))
		return true
	case a.IsClass() && b.IsClass():
		return l.assignable(a, b, sp, "comparison") || l.assignable(b, a, sp, "comparison")
	}
	return a == b && !a.IsVoid()
}

// concrete returns the known type of e, failing when it is still a
// variable. what names the operand in the error.
func (l *bodyLowerer) concrete(e *uir.Expr, what string) (uir.Type, error) {
	t := l.known(e.Type)
	if t.IsVar() {
		return t, l.errorf(diag.InferUnknownElemType, e.Span,
			"the type of %s is not known at this point; annotate the container it comes from", what)
	}
	return t, nil
}

// truthy checks that e may be used as a condition.
func (l *bodyLowerer) truthy(e *uir.Expr, what string) error {
	t, err := l.concrete(e, what)
	if err != nil {
		return err
	}
	if !t.Truthy() {
		return l.errorf(diag.SemaInvalidCondition, e.Span, "%s must be bool or numeric, not %s", what, l.typeName(t))
	}
	return nil
}
