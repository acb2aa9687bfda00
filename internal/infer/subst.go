package infer

import (
	"maps"
	"slices"

	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// Substitution maps type-variable ids to their bindings.
type Substitution map[uir.TypeVarID]uir.Type

// Apply follows bindings transitively; an unbound variable is returned as
// is.
func (s Substitution) Apply(t uir.Type) uir.Type {
	for t.IsVar() {
		next, ok := s[t.Var]
		if !ok {
			return t
		}
		t = next
	}
	return t
}

// Resolved returns the fully followed binding of every variable.
func (s Substitution) Resolved() Substitution {
	out := make(Substitution, len(s))
	for id := range s {
		out[id] = s.Apply(uir.VarType(id))
	}
	return out
}

// Vars lists bound variable ids in ascending order.
func (s Substitution) Vars() []uir.TypeVarID {
	return slices.Sorted(maps.Keys(s))
}

func (s Substitution) clone() Substitution {
	return maps.Clone(s)
}
