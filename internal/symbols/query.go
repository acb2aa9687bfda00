package symbols

import (
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// OwnMethod looks name up in class's own table only.
func (t *Table) OwnMethod(class tir.ClassID, name string) (MethodRef, bool) {
	ref, ok := t.methods[memberKey{class, name}]
	return ref, ok
}

// ResolveMethod looks name up on class, then on each ancestor.
func (t *Table) ResolveMethod(class tir.ClassID, name string) (MethodRef, bool) {
	for id := class; id.IsValid(); id = t.Class(id).Parent {
		if ref, ok := t.methods[memberKey{id, name}]; ok {
			return ref, true
		}
	}
	return MethodRef{}, false
}

// SuperMethod resolves name starting at the immediate parent of class.
func (t *Table) SuperMethod(class tir.ClassID, name string) (MethodRef, bool) {
	parent := t.Class(class).Parent
	if !parent.IsValid() {
		return MethodRef{}, false
	}
	return t.ResolveMethod(parent, name)
}

// FieldByName returns the layout slot and type of a field, inherited
// fields included. The layout must be final.
func (t *Table) FieldByName(class tir.ClassID, name string) (tir.FieldID, uir.Type, bool) {
	id, ok := t.fields[memberKey{class, name}]
	if !ok {
		return tir.NoFieldID, uir.Type{}, false
	}
	return id, t.Class(class).FieldAt(id).Type, true
}

// FinalizeLayout computes inherited fields for class, parents first, and
// assigns field handles: inherited 0..N-1, own N..N+M-1.
func (t *Table) FinalizeLayout(class tir.ClassID) {
	c := t.Class(class)
	if c.layoutDone {
		return
	}
	c.layoutDone = true
	var inherited []Field
	if c.Parent.IsValid() {
		t.FinalizeLayout(c.Parent)
		p := t.Class(c.Parent)
		inherited = make([]Field, 0, p.NumFields())
		inherited = append(inherited, p.InheritedFields...)
		inherited = append(inherited, p.Fields...)
	}
	c = t.Class(class)
	c.InheritedFields = inherited
	slot := 0
	for _, f := range inherited {
		t.fields[memberKey{class, f.Name}] = fieldID(slot)
		slot++
	}
	for _, f := range c.Fields {
		t.fields[memberKey{class, f.Name}] = fieldID(slot)
		slot++
	}
}

// IsExceptionSubclass reports whether an ancestor of class is Exception.
func (t *Table) IsExceptionSubclass(class tir.ClassID) bool {
	for id := t.Class(class).Parent; id.IsValid(); id = t.Class(id).Parent {
		if t.IsBuiltin(id, ClassException) {
			return true
		}
	}
	return false
}

// IsException reports whether class is Exception or derives from it.
func (t *Table) IsException(class tir.ClassID) bool {
	return t.IsBuiltin(class, ClassException) || t.IsExceptionSubclass(class)
}

// IsSubclass reports whether class equals ancestor or derives from it.
func (t *Table) IsSubclass(class, ancestor tir.ClassID) bool {
	for id := class; id.IsValid(); id = t.Class(id).Parent {
		if id == ancestor {
			return true
		}
	}
	return false
}

// TypeParams returns the type parameters of class. It satisfies the
// solver's view of classes.
func (t *Table) TypeParams(class tir.ClassID) []uir.Type {
	return t.Class(class).TypeParams
}

// GenericBase returns the qualified base name of a generic class, or ""
// for a class without type parameters.
func (t *Table) GenericBase(class tir.ClassID) string {
	c := t.Class(class)
	if !c.Generic() {
		return ""
	}
	return c.QualifiedName
}

// SameGeneric reports whether a and b are specializations of the same
// built-in container.
func (t *Table) SameGeneric(a, b tir.ClassID) bool {
	base := t.GenericBase(a)
	return base != "" && base == t.GenericBase(b) &&
		len(t.Class(a).TypeParams) == len(t.Class(b).TypeParams)
}

func (t *Table) containsVar(ts []uir.Type) bool {
	for _, ty := range ts {
		switch ty.Kind {
		case uir.TypeVar:
			return true
		case uir.TypeClass:
			if !t.Class(t.Canonical(ty.Class)).settled {
				return true
			}
		}
	}
	return false
}

func fieldID(slot int) tir.FieldID { return tir.NextID[tir.FieldID](slot) }
