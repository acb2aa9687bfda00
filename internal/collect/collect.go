// Package collect populates the symbol table from every module's
// top-level declarations before any body is lowered.
//
// Collection runs four phases in strict order over modules sorted by name:
//
//  1. register modules and classes, remembering each raw base-class name;
//  2. resolve base names to class handles;
//  3. collect function and method signatures, fields and globals;
//  4. finalize field layouts, parents first.
//
// Every phase reports all of its errors at once; a phase with errors stops
// collection before the next one starts.
package collect

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/trace"
)

// Options tunes collection.
type Options struct {
	// MaxDiagnostics caps the diagnostics kept; zero means the default.
	MaxDiagnostics int
}

type collector struct {
	table    *symbols.Table
	bag      *diag.Bag
	reporter diag.Reporter
	order    []tir.ModuleID
}

// Run collects definitions of modules into table. Module handles follow
// the sorted order of module names.
func Run(ctx context.Context, table *symbols.Table, modules map[string]*ast.Module, opts Options) error {
	bag := diag.NewBag(opts.MaxDiagnostics)
	c := &collector{table: table, bag: bag, reporter: diag.BagReporter{Bag: bag}}

	phases := []struct {
		name string
		run  func()
	}{
		{"collect.register", func() { c.register(modules) }},
		{"collect.parents", c.resolveParents},
		{"collect.signatures", c.signatures},
		{"collect.layout", c.layout},
	}
	for _, ph := range phases {
		_, span := trace.StartSpan(ctx, trace.ScopePhase, ph.name)
		ph.run()
		var err error
		if bag.HasErrors() {
			bag.Sort()
			err = diag.FromBag(bag)
		}
		span.Count("diagnostics", bag.Len()).End(trace.Outcome(err))
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) errorf(code diag.Code, module tir.ModuleID, sp source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportError(c.reporter, code, c.moduleName(module), sp, fmt.Sprintf(format, args...))
}

func (c *collector) moduleName(id tir.ModuleID) string {
	if !id.IsValid() {
		return ""
	}
	return c.table.Module(id).Name
}

// ---- phase 1 ----

func (c *collector) register(modules map[string]*ast.Module) {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		c.order = append(c.order, c.table.RegisterModule(name, modules[name]))
	}
	for _, mod := range c.order {
		tree := c.table.Module(mod).Tree
		if tree == nil {
			continue
		}
		for _, st := range tree.Body {
			if st.Kind != ast.StmtClassDef {
				continue
			}
			cd := st.Data.(*ast.ClassDef)
			parent := ""
			switch len(cd.Bases) {
			case 0:
			case 1:
				parent = cd.Bases[0]
			default:
				c.errorf(diag.SemaMultipleInheritance, mod, st.Span,
					"class %s has %d base classes; only single inheritance is supported", cd.Name, len(cd.Bases)).Emit()
				continue
			}
			if _, ok := c.table.AddClass(mod, cd.Name, parent, cd, st.Span); !ok {
				c.errorf(diag.SemaDuplicateDefinition, mod, st.Span, "class %s is already defined", cd.Name).Emit()
			}
		}
	}
}

// ---- phase 2 ----

func (c *collector) resolveParents() {
	for _, mod := range c.order {
		for _, id := range c.table.Module(mod).Classes {
			cls := c.table.Class(id)
			if cls.ParentName == "" {
				continue
			}
			parent, ok := c.table.ResolveClassName(mod, cls.ParentName)
			if !ok {
				c.errorf(diag.SemaUndefinedBaseClass, mod, cls.Span,
					"base class %s of %s is not defined", cls.ParentName, cls.Name).Emit()
				continue
			}
			if c.table.Class(parent).Generic() {
				c.errorf(diag.SemaUnsupported, mod, cls.Span,
					"class %s cannot derive from a container type", cls.Name).Emit()
				continue
			}
			c.table.SetParent(id, parent)
		}
	}
	// A cycle can only run through user classes; report each once, at the
	// class with the smallest handle on it.
	reported := make(map[tir.ClassID]bool)
	for _, mod := range c.order {
		for _, id := range c.table.Module(mod).Classes {
			cycle := c.cycleFrom(id)
			if len(cycle) == 0 || reported[cycle[0]] {
				continue
			}
			for _, member := range cycle {
				reported[member] = true
			}
			first := c.table.Class(cycle[0])
			names := make([]string, len(cycle))
			for i, member := range cycle {
				names[i] = c.table.Class(member).QualifiedName
			}
			c.errorf(diag.SemaCyclicInheritance, first.Module, first.Span,
				"inheritance cycle: %s", strings.Join(append(names, names[0]), " -> ")).Emit()
		}
	}
}

// cycleFrom returns the inheritance cycle reachable from id, rotated to
// start at its smallest handle, or nil.
func (c *collector) cycleFrom(id tir.ClassID) []tir.ClassID {
	seen := make(map[tir.ClassID]int)
	var path []tir.ClassID
	for cur := id; cur.IsValid(); cur = c.table.Class(cur).Parent {
		if at, ok := seen[cur]; ok {
			cycle := path[at:]
			start := 0
			for i, m := range cycle {
				if m < cycle[start] {
					start = i
				}
			}
			return append(append([]tir.ClassID(nil), cycle[start:]...), cycle[:start]...)
		}
		seen[cur] = len(path)
		path = append(path, cur)
	}
	return nil
}

// ---- phase 3 ----

func (c *collector) signatures() {
	for _, mod := range c.order {
		tree := c.table.Module(mod).Tree
		if tree == nil {
			continue
		}
		lookup := func(name string) (tir.ClassID, bool) { return c.table.ResolveClassName(mod, name) }
		for _, st := range tree.Body {
			switch st.Kind {
			case ast.StmtFunctionDef:
				fd := st.Data.(*ast.FunctionDef)
				if _, clash := c.table.LocalClass(mod, fd.Name); clash {
					c.errorf(diag.SemaDuplicateDefinition, mod, st.Span, "%s is defined both as a class and a function", fd.Name).Emit()
					continue
				}
				fn, ok := c.table.AddFunction(mod, fd.Name, fd)
				if !ok {
					c.errorf(diag.SemaDuplicateDefinition, mod, st.Span, "function %s is already defined", fd.Name).Emit()
					continue
				}
				c.signature(mod, fn, fd, st.Span, false, lookup)
			case ast.StmtClassDef:
				cd := st.Data.(*ast.ClassDef)
				id, ok := c.table.LocalClass(mod, cd.Name)
				if !ok || c.table.Class(id).Decl != cd {
					continue
				}
				c.classMembers(mod, id, cd, st.Span, lookup)
			}
		}
	}
	for _, mod := range c.order {
		c.globals(mod)
	}
}

func (c *collector) classMembers(mod tir.ModuleID, id tir.ClassID, cd *ast.ClassDef, sp source.Span, lookup symbols.ClassLookup) {
	for _, f := range cd.Fields {
		typ, missing, ok := c.table.AnnotationType(f.Annotation, lookup)
		switch {
		case f.Annotation == nil:
			c.errorf(diag.SemaMissingAnnotation, mod, pick(f.Span, sp), "field %s.%s needs a type annotation", cd.Name, f.Name).Emit()
			continue
		case !ok:
			c.errorf(diag.SemaUndefinedClass, mod, pick(f.Annotation.Span, sp), "unknown type %s for field %s.%s", missing, cd.Name, f.Name).Emit()
			continue
		case typ.IsVoid():
			c.errorf(diag.SemaTypeMismatch, mod, pick(f.Span, sp), "field %s.%s cannot be None", cd.Name, f.Name).Emit()
			continue
		}
		if !c.table.AddField(id, f.Name, typ) {
			c.errorf(diag.SemaDuplicateDefinition, mod, pick(f.Span, sp), "field %s.%s is declared twice", cd.Name, f.Name).Emit()
		}
	}
	for _, md := range cd.Methods {
		fn, ok := c.table.AddMethod(id, md.Name, md)
		if !ok {
			c.errorf(diag.SemaDuplicateDefinition, mod, pick(md.Span, sp), "method %s.%s is already defined", cd.Name, md.Name).Emit()
			continue
		}
		c.signature(mod, fn, md, pick(md.Span, sp), true, lookup)
	}
}

// signature converts the annotations of fd. Methods must take self first;
// self is not part of the recorded parameters.
func (c *collector) signature(mod tir.ModuleID, fn tir.FuncID, fd *ast.FunctionDef, sp source.Span, method bool, lookup symbols.ClassLookup) {
	args := fd.Args
	if method {
		if len(args) == 0 || args[0].Name != "self" {
			c.errorf(diag.SemaMissingSelf, mod, sp, "method %s must take self as its first parameter", fd.Name).Emit()
			return
		}
		args = args[1:]
	}
	params := make([]symbols.Param, 0, len(args))
	failed := false
	for _, a := range args {
		if a.Annotation == nil {
			c.errorf(diag.SemaMissingAnnotation, mod, pick(a.Span, sp), "parameter %s of %s needs a type annotation", a.Name, fd.Name).Emit()
			failed = true
			continue
		}
		typ, missing, ok := c.table.AnnotationType(a.Annotation, lookup)
		if !ok {
			c.errorf(diag.SemaUndefinedClass, mod, pick(a.Annotation.Span, sp), "unknown type %s for parameter %s of %s", missing, a.Name, fd.Name).Emit()
			failed = true
			continue
		}
		if typ.IsVoid() {
			c.errorf(diag.SemaTypeMismatch, mod, pick(a.Span, sp), "parameter %s of %s cannot be None", a.Name, fd.Name).Emit()
			failed = true
			continue
		}
		params = append(params, symbols.Param{Name: a.Name, Type: typ})
	}
	ret, missing, ok := c.table.AnnotationType(fd.Returns, lookup)
	if !ok {
		c.errorf(diag.SemaUndefinedClass, mod, pick(fd.Returns.Span, sp), "unknown return type %s of %s", missing, fd.Name).Emit()
		failed = true
	}
	if failed {
		return
	}
	c.table.SetSignature(fn, params, ret)
}

// ---- phase 4 ----

func (c *collector) layout() {
	for _, mod := range c.order {
		for _, id := range c.table.Module(mod).Classes {
			c.table.FinalizeLayout(id)
			cls := c.table.Class(id)
			for _, own := range cls.Fields {
				for _, inh := range cls.InheritedFields {
					if own.Name == inh.Name {
						c.errorf(diag.SemaDuplicateDefinition, mod, cls.Span,
							"field %s.%s shadows an inherited field", cls.Name, own.Name).Emit()
					}
				}
			}
		}
	}
}

func pick(sp, fallback source.Span) source.Span {
	if sp.IsZero() {
		return fallback
	}
	return sp
}
