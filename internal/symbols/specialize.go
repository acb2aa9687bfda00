package symbols

import (
	"fmt"

	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// Canonical follows specialization aliases. A class that became equal to
// an existing specialization after inference resolves to that one.
func (t *Table) Canonical(class tir.ClassID) tir.ClassID {
	for {
		next, ok := t.canonical[class]
		if !ok {
			return class
		}
		class = next
	}
}

// CanonicalFunc maps a unique method of an aliased specialization to the
// same method of the canonical class.
func (t *Table) CanonicalFunc(fn tir.FuncID) tir.FuncID {
	for {
		next, ok := t.funcAlias[fn]
		if !ok {
			return fn
		}
		fn = next
	}
}

// Unsettled returns the generic classes whose parameters are not concrete
// yet, in creation order.
func (t *Table) Unsettled() []tir.ClassID {
	out := make([]tir.ClassID, 0, len(t.unsettled))
	for _, id := range t.unsettled {
		if !t.Class(id).settled {
			out = append(out, id)
		}
	}
	return out
}

// Specialize replaces the type parameters of an unsettled class with
// concrete ones, in place. Variables in the signatures of its unique
// methods are rewritten the same way. If an equal specialization already
// exists the class becomes an alias of it and the canonical handle is
// returned.
func (t *Table) Specialize(class tir.ClassID, params []uir.Type) tir.ClassID {
	c := t.Class(class)
	if c.settled {
		return t.Canonical(class)
	}
	if len(params) != len(c.TypeParams) {
		panic(fmt.Errorf("specialize %s: %d params, want %d", c.QualifiedName, len(params), len(c.TypeParams)))
	}
	if t.containsVar(params) {
		panic(fmt.Errorf("specialize %s with non-concrete params %s", c.QualifiedName, uir.Key(params)))
	}
	repl := make(map[uir.TypeVarID]uir.Type, len(params))
	for i, p := range c.TypeParams {
		if p.IsVar() {
			repl[p.Var] = params[i]
		}
	}
	subst := func(ty uir.Type) uir.Type {
		if ty.IsVar() {
			if r, ok := repl[ty.Var]; ok {
				return r
			}
		}
		if ty.IsClass() {
			return uir.ClassType(t.Canonical(ty.Class))
		}
		return ty
	}
	c.TypeParams = append([]uir.Type(nil), params...)
	c.settled = true
	for _, m := range c.Methods {
		f := t.Func(m.Func)
		if !f.Unique {
			continue
		}
		for i := range f.Params {
			f.Params[i].Type = subst(f.Params[i].Type)
		}
		f.Return = subst(f.Return)
		f.QualifiedName = t.ClassName(class) + "." + f.Name
	}

	key := NewClassKey(c.QualifiedName, params)
	existing, ok := t.classByKey[key]
	if !ok || t.Canonical(existing) == class {
		t.classByKey[key] = class
		return class
	}
	target := t.Canonical(existing)
	t.canonical[class] = target
	for _, m := range c.Methods {
		if ref, ok := t.methods[memberKey{target, m.Name}]; ok && ref.Func != m.Func {
			t.funcAlias[m.Func] = ref.Func
		}
	}
	return target
}

// IsAlias reports whether class was merged into another specialization.
func (t *Table) IsAlias(class tir.ClassID) bool {
	_, ok := t.canonical[class]
	return ok
}
