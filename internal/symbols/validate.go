package symbols

import (
	"errors"
	"fmt"
)

// Validate walks the tables checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	for idx := range t.classes {
		c := &t.classes[idx]
		if int(c.ID) != idx {
			errs = append(errs, fmt.Errorf("class %d stored at %d", c.ID, idx))
		}
		if c.Parent.IsValid() {
			if int(c.Parent) >= len(t.classes) || c.Parent == c.ID {
				errs = append(errs, fmt.Errorf("class %s has invalid parent %d", c.QualifiedName, c.Parent))
				continue
			}
		}
		if !c.layoutDone {
			continue
		}
		for slot := 0; slot < c.NumFields(); slot++ {
			f := c.FieldAt(fieldID(slot))
			got, ok := t.fields[memberKey{c.ID, f.Name}]
			if !ok || int(got) != slot {
				errs = append(errs, fmt.Errorf("class %s field %s: handle %d, want %d", c.QualifiedName, f.Name, got, slot))
			}
		}
		for _, m := range c.Methods {
			if int(m.Func) >= len(t.funcs) {
				errs = append(errs, fmt.Errorf("class %s method %s: function %d out of range", c.QualifiedName, m.Name, m.Func))
			}
		}
	}

	for idx := range t.funcs {
		f := &t.funcs[idx]
		if int(f.ID) != idx {
			errs = append(errs, fmt.Errorf("function %d stored at %d", f.ID, idx))
		}
		if f.Class.IsValid() && int(f.Class) >= len(t.classes) {
			errs = append(errs, fmt.Errorf("function %s has invalid class %d", f.QualifiedName, f.Class))
		}
		if f.Decl == nil && !f.IsRuntime() {
			errs = append(errs, fmt.Errorf("function %s has neither body nor runtime name", f.QualifiedName))
		}
	}

	for from, to := range t.canonical {
		if from == to || int(to) >= len(t.classes) {
			errs = append(errs, fmt.Errorf("class alias %d -> %d is invalid", from, to))
		}
	}

	return errors.Join(errs...)
}
