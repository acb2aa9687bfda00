package infer

import (
	"fmt"

	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// Classes is the solver's view of the symbol table.
type Classes interface {
	TypeParams(class tir.ClassID) []uir.Type
	SameGeneric(a, b tir.ClassID) bool
	TypeName(t uir.Type) string
}

// Solver unifies constraints into a Substitution.
type Solver struct {
	classes Classes
	subst   Substitution
}

func NewSolver(classes Classes) *Solver {
	return &Solver{classes: classes, subst: make(Substitution)}
}

// Solve unifies every constraint in order and returns the transitive
// substitution. The first failing constraint aborts solving.
func (s *Solver) Solve(set *ConstraintSet) (Substitution, error) {
	for _, c := range set.Constraints() {
		if err := s.apply(c); err != nil {
			return nil, err
		}
	}
	return s.subst.Resolved(), nil
}

// Probe solves a scratch copy of the constraints recorded so far and
// returns what t resolves to. Nothing is committed; a failure leaves t as
// is so the caller reports its own error.
func Probe(classes Classes, set *ConstraintSet, t uir.Type) uir.Type {
	if !t.IsVar() {
		return t
	}
	s := NewSolver(classes)
	for _, c := range set.Constraints() {
		if err := s.apply(c); err != nil {
			return t
		}
	}
	return s.subst.Apply(t)
}

// Unify makes a and b equal, extending the substitution.
func (s *Solver) Unify(a, b uir.Type, origin Origin) error {
	a, b = s.subst.Apply(a), s.subst.Apply(b)
	switch {
	case a.IsVar() && b.IsVar():
		if a.Var == b.Var {
			return nil
		}
		// Bind the younger variable to the older so that the result does
		// not depend on argument order.
		if a.Var < b.Var {
			a, b = b, a
		}
		s.subst[a.Var] = b
		return nil
	case a.IsVar():
		return s.bind(a.Var, b, origin)
	case b.IsVar():
		return s.bind(b.Var, a, origin)
	case a.IsClass() && b.IsClass():
		if a.Class == b.Class {
			return nil
		}
		if !s.classes.SameGeneric(a.Class, b.Class) {
			return s.mismatch(a, b, origin)
		}
		pa, pb := s.classes.TypeParams(a.Class), s.classes.TypeParams(b.Class)
		for i := range pa {
			if err := s.Unify(pa[i], pb[i], origin); err != nil {
				return err
			}
		}
		return nil
	case a.Kind == b.Kind:
		return nil
	default:
		return s.mismatch(a, b, origin)
	}
}

func (s *Solver) bind(v uir.TypeVarID, t uir.Type, origin Origin) error {
	if s.occurs(v, t) {
		return diag.Errorf(diag.InferOccursCheck, origin.Module, origin.Span,
			"infinite type: ?%d occurs in %s (%s)", v, s.classes.TypeName(t), origin)
	}
	s.subst[v] = t
	return nil
}

// occurs reports whether v appears in t, looking through class
// parameters and existing bindings.
func (s *Solver) occurs(v uir.TypeVarID, t uir.Type) bool {
	t = s.subst.Apply(t)
	switch t.Kind {
	case uir.TypeVar:
		return t.Var == v
	case uir.TypeClass:
		for _, p := range s.classes.TypeParams(t.Class) {
			if s.occurs(v, p) {
				return true
			}
		}
	}
	return false
}

func (s *Solver) apply(c Constraint) error {
	if c.Kind == Equal {
		return s.Unify(c.Container, c.Element, c.Origin)
	}
	return s.elementType(c)
}

func (s *Solver) elementType(c Constraint) error {
	container := s.subst.Apply(c.Container)
	if !container.IsClass() {
		return diag.Errorf(diag.InferMismatch, c.Origin.Module, c.Origin.Span,
			"element constraint on non-container %s (%s)", s.classes.TypeName(container), c.Origin)
	}
	params := s.classes.TypeParams(container.Class)
	if len(params) == 0 {
		return diag.Errorf(diag.InferMismatch, c.Origin.Module, c.Origin.Span,
			"element constraint on %s, which has no type parameters (%s)", s.classes.TypeName(container), c.Origin)
	}
	return s.Unify(params[0], c.Element, c.Origin)
}

func (s *Solver) mismatch(a, b uir.Type, origin Origin) error {
	return diag.Errorf(diag.InferMismatch, origin.Module, origin.Span,
		"cannot unify %s with %s (%s)", s.display(a), s.display(b), origin)
}

func (s *Solver) display(t uir.Type) string {
	if t.IsVar() {
		return fmt.Sprintf("?%d", t.Var)
	}
	return s.classes.TypeName(t)
}

// Substitution returns the bindings made so far.
func (s *Solver) Substitution() Substitution {
	return s.subst.clone()
}
