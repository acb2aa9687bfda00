// Package infer solves element-type constraints of built-in containers by
// unification. It is used for one function or module initializer at a
// time; constraints never cross that boundary.
package infer

import (
	"fmt"

	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// Origin says where a constraint came from.
type Origin struct {
	Module string
	Span   source.Span
	What   string
}

func (o Origin) String() string {
	if o.Span.IsZero() {
		return o.What
	}
	return fmt.Sprintf("%s at %s", o.What, o.Span)
}

// ConstraintKind selects how a constraint is solved.
type ConstraintKind uint8

const (
	// ElementType requires the element-type slot of Container to unify
	// with Element.
	ElementType ConstraintKind = iota
	// Equal requires Container and Element to unify directly. It is
	// emitted where a value whose type is still a variable meets a known
	// type, e.g. `n: int = xs[0]` for an inferred list.
	Equal
)

func (k ConstraintKind) String() string {
	if k == Equal {
		return "equal"
	}
	return "element-type"
}

// Constraint is one requirement recorded while lowering a body.
type Constraint struct {
	Kind      ConstraintKind
	Container uir.Type
	Element   uir.Type
	Origin    Origin
}

// VarSource allocates type variables. The symbol table implements it so
// ids are unique across the program.
type VarSource interface {
	FreshVar() uir.Type
}

// ConstraintSet collects the constraints of one lowering unit.
type ConstraintSet struct {
	vars        VarSource
	constraints []Constraint
}

func NewConstraintSet(vars VarSource) *ConstraintSet {
	return &ConstraintSet{vars: vars}
}

// Fresh returns a new type variable.
func (s *ConstraintSet) Fresh() uir.Type {
	return s.vars.FreshVar()
}

// AddElementType records that container's element type is elem.
func (s *ConstraintSet) AddElementType(container, elem uir.Type, origin Origin) {
	s.constraints = append(s.constraints, Constraint{Kind: ElementType, Container: container, Element: elem, Origin: origin})
}

// AddEqual records that a and b are the same type.
func (s *ConstraintSet) AddEqual(a, b uir.Type, origin Origin) {
	s.constraints = append(s.constraints, Constraint{Kind: Equal, Container: a, Element: b, Origin: origin})
}

// Constraints returns the recorded constraints in emission order.
func (s *ConstraintSet) Constraints() []Constraint {
	return s.constraints
}

func (s *ConstraintSet) Len() int { return len(s.constraints) }
