package infer_test

import (
	"errors"
	"testing"

	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/infer"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

var origin = infer.Origin{Module: "main", What: "test"}

func diagCode(t *testing.T, err error) diag.Code {
	t.Helper()
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *diag.Error, got %v", err)
	}
	return de.First().Code
}

func TestUnifyConcrete(t *testing.T) {
	table := symbols.NewTable()
	s := infer.NewSolver(table)
	if err := s.Unify(uir.Int, uir.Int, origin); err != nil {
		t.Fatalf("int ~ int: %v", err)
	}
	if err := s.Unify(uir.ClassType(table.Str()), uir.ClassType(table.Str()), origin); err != nil {
		t.Fatalf("str ~ str: %v", err)
	}
	err := s.Unify(uir.Int, uir.Bool, origin)
	if code := diagCode(t, err); code != diag.InferMismatch {
		t.Fatalf("code = %v", code)
	}
	err = s.Unify(uir.ClassType(table.Str()), uir.ClassType(table.Bytes()), origin)
	if code := diagCode(t, err); code != diag.InferMismatch {
		t.Fatalf("code = %v", code)
	}
}

func TestUnifySymmetric(t *testing.T) {
	check := func(build func(table *symbols.Table) (uir.Type, uir.Type, []uir.Type)) {
		t.Helper()
		t1 := symbols.NewTable()
		a, b, vars := build(t1)
		s1 := infer.NewSolver(t1)
		if err := s1.Unify(a, b, origin); err != nil {
			t.Fatalf("unify(a, b): %v", err)
		}
		t2 := symbols.NewTable()
		a, b, _ = build(t2)
		s2 := infer.NewSolver(t2)
		if err := s2.Unify(b, a, origin); err != nil {
			t.Fatalf("unify(b, a): %v", err)
		}
		sub1, sub2 := s1.Substitution().Resolved(), s2.Substitution().Resolved()
		for _, v := range vars {
			if sub1.Apply(v) != sub2.Apply(v) {
				t.Errorf("%s: %s vs %s", v, sub1.Apply(v), sub2.Apply(v))
			}
		}
	}

	check(func(table *symbols.Table) (uir.Type, uir.Type, []uir.Type) {
		v := table.FreshVar()
		return v, uir.Int, []uir.Type{v}
	})
	check(func(table *symbols.Table) (uir.Type, uir.Type, []uir.Type) {
		v, w := table.FreshVar(), table.FreshVar()
		return v, w, []uir.Type{v, w}
	})
	check(func(table *symbols.Table) (uir.Type, uir.Type, []uir.Type) {
		v, w := table.FreshVar(), table.FreshVar()
		return uir.ClassType(table.List(v)), uir.ClassType(table.List(w)), []uir.Type{v, w}
	})
	check(func(table *symbols.Table) (uir.Type, uir.Type, []uir.Type) {
		v := table.FreshVar()
		return uir.ClassType(table.List(v)), uir.ClassType(table.List(table.StrType())), []uir.Type{v}
	})
}

func TestOccursCheck(t *testing.T) {
	table := symbols.NewTable()
	v := table.FreshVar()
	listOfV := uir.ClassType(table.List(v))
	s := infer.NewSolver(table)
	err := s.Unify(v, listOfV, origin)
	if code := diagCode(t, err); code != diag.InferOccursCheck {
		t.Fatalf("code = %v", code)
	}

	// The same cycle reached through an element constraint.
	set := infer.NewConstraintSet(table)
	set.AddElementType(listOfV, listOfV, origin)
	if _, err := infer.NewSolver(table).Solve(set); diagCode(t, err) != diag.InferOccursCheck {
		t.Fatalf("solve: %v", err)
	}
}

func TestSolveTransitive(t *testing.T) {
	table := symbols.NewTable()
	set := infer.NewConstraintSet(table)
	a := set.Fresh()
	b := set.Fresh()
	outer := uir.ClassType(table.List(a))
	inner := uir.ClassType(table.List(b))
	// outer.append(inner_list); inner_list.append(1)
	set.AddElementType(outer, b, origin)
	set.AddElementType(inner, uir.Int, origin)
	subst, err := infer.NewSolver(table).Solve(set)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if got := subst.Apply(a); got != uir.Int {
		t.Fatalf("a = %s", got)
	}
	if got := subst[a.Var]; got != uir.Int {
		t.Fatalf("substitution is not transitive: a -> %s", got)
	}
}

func TestSolveAppendScenario(t *testing.T) {
	table := symbols.NewTable()
	set := infer.NewConstraintSet(table)
	elem := set.Fresh()
	xs := uir.ClassType(table.List(elem))
	set.AddElementType(xs, uir.Int, origin)
	set.AddElementType(xs, uir.Int, origin)
	subst, err := infer.NewSolver(table).Solve(set)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if subst.Apply(elem) != uir.Int {
		t.Fatalf("elem = %s", subst.Apply(elem))
	}

	set.AddElementType(xs, uir.Bool, origin)
	if _, err := infer.NewSolver(table).Solve(set); diagCode(t, err) != diag.InferMismatch {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestElementTypeOnNonContainer(t *testing.T) {
	table := symbols.NewTable()
	set := infer.NewConstraintSet(table)
	set.AddElementType(uir.ClassType(table.Str()), uir.Int, origin)
	if _, err := infer.NewSolver(table).Solve(set); diagCode(t, err) != diag.InferMismatch {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestProbeDoesNotCommit(t *testing.T) {
	table := symbols.NewTable()
	set := infer.NewConstraintSet(table)
	elem := set.Fresh()
	xs := uir.ClassType(table.List(elem))
	if got := infer.Probe(table, set, elem); got != elem {
		t.Fatalf("probe before constraints = %s", got)
	}
	set.AddElementType(xs, uir.Float, origin)
	if got := infer.Probe(table, set, elem); got != uir.Float {
		t.Fatalf("probe = %s", got)
	}
	if set.Len() != 1 {
		t.Fatalf("probe changed the set: %d", set.Len())
	}
}

func TestEqualConstraintLinksVariables(t *testing.T) {
	table := symbols.NewTable()
	set := infer.NewConstraintSet(table)
	a, b := set.Fresh(), set.Fresh()
	set.AddEqual(a, b, origin)
	set.AddElementType(uir.ClassType(table.List(b)), uir.ClassType(table.Str()), origin)
	subst, err := infer.NewSolver(table).Solve(set)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if got := subst.Apply(a); got != table.StrType() {
		t.Fatalf("a = %s, want str", table.TypeName(got))
	}

	set.AddEqual(a, uir.Int, origin)
	if _, err := infer.NewSolver(table).Solve(set); diagCode(t, err) != diag.InferMismatch {
		t.Fatalf("expected mismatch, got %v", err)
	}
}
