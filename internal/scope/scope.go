// Package scope builds the read-only name scope of one module: its own
// functions, classes and globals plus whatever its imports bring in.
package scope

import (
	"context"
	"fmt"
	"strings"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/trace"
)

// GlobalRef addresses a global of some module.
type GlobalRef struct {
	Module tir.ModuleID
	Global tir.GlobalID
}

// Scope maps names visible at the top level of a module to handles.
// Imports never shadow the module's own definitions; among imports the
// later one wins.
type Scope struct {
	Module    tir.ModuleID
	Functions map[string]tir.FuncID
	Classes   map[string]tir.ClassID
	Globals   map[string]GlobalRef
	Modules   map[string]tir.ModuleID

	local map[string]bool
}

func newScope(module tir.ModuleID) *Scope {
	return &Scope{
		Module:    module,
		Functions: make(map[string]tir.FuncID),
		Classes:   make(map[string]tir.ClassID),
		Globals:   make(map[string]GlobalRef),
		Modules:   make(map[string]tir.ModuleID),
		local:     make(map[string]bool),
	}
}

// Build constructs the scope of module from the symbol table and the
// module's import list.
func Build(ctx context.Context, table *symbols.Table, module tir.ModuleID) (*Scope, error) {
	mod := table.Module(module)
	_, span := trace.StartModule(ctx, "scope", mod.Name)

	s := newScope(module)
	for _, fn := range mod.Functions {
		name := table.Func(fn).Name
		s.Functions[name] = fn
		s.local[name] = true
	}
	for _, id := range mod.Classes {
		name := table.Class(id).Name
		s.Classes[name] = id
		s.local[name] = true
	}
	for _, g := range mod.Globals {
		s.Globals[g.Name] = GlobalRef{Module: module, Global: g.ID}
		s.local[g.Name] = true
	}

	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	if mod.Tree != nil {
		for i := range mod.Tree.Imports {
			imp := &mod.Tree.Imports[i]
			target, ok := table.ModuleByName(imp.ModuleID)
			if !ok {
				diag.ReportError(rep, diag.SemaUndefinedModule, mod.Name, imp.Span,
					fmt.Sprintf("module %s is not part of the program", imp.ModuleID)).Emit()
				continue
			}
			switch imp.Kind {
			case ast.ImportModule:
				s.Modules[symbols.ModuleAlias(imp)] = target
			case ast.ImportNames:
				for _, n := range imp.Names {
					if !s.bindNamed(table, target, n.Name, n.Bound()) {
						diag.ReportError(rep, diag.SemaImportNameNotFound, mod.Name, imp.Span,
							fmt.Sprintf("module %s has no function, class or global %s", imp.ModuleID, n.Name)).Emit()
					}
				}
			case ast.ImportStar:
				s.bindStar(table, target)
			}
		}
	}
	err := diag.FromBag(bag)
	span.Count("functions", len(s.Functions)).Count("classes", len(s.Classes)).Count("modules", len(s.Modules)).End(trace.Outcome(err))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// bindNamed binds one `from m import name as bound`, preferring a
// function, then a class, then a global.
func (s *Scope) bindNamed(table *symbols.Table, target tir.ModuleID, name, bound string) bool {
	if s.local[bound] {
		// The module's own definition wins, but the name still exists.
		return s.exists(table, target, name)
	}
	if fn, ok := table.LookupFunction(target, name); ok {
		s.Functions[bound] = fn
		return true
	}
	if id, ok := table.LocalClass(target, name); ok {
		s.Classes[bound] = id
		return true
	}
	if g, ok := table.Global(target, name); ok {
		s.Globals[bound] = GlobalRef{Module: target, Global: g.ID}
		return true
	}
	return false
}

func (s *Scope) exists(table *symbols.Table, target tir.ModuleID, name string) bool {
	_, f := table.LookupFunction(target, name)
	_, c := table.LocalClass(target, name)
	_, g := table.Global(target, name)
	return f || c || g
}

// bindStar snapshots every public function, class and global of target.
func (s *Scope) bindStar(table *symbols.Table, target tir.ModuleID) {
	mod := table.Module(target)
	for _, fn := range mod.Functions {
		if name := table.Func(fn).Name; symbols.Exported(name) && !s.local[name] {
			s.Functions[name] = fn
		}
	}
	for _, id := range mod.Classes {
		if name := table.Class(id).Name; symbols.Exported(name) && !s.local[name] {
			s.Classes[name] = id
		}
	}
	for _, g := range mod.Globals {
		if symbols.Exported(g.Name) && !s.local[g.Name] {
			s.Globals[g.Name] = GlobalRef{Module: target, Global: g.ID}
		}
	}
}

func (s *Scope) Function(name string) (tir.FuncID, bool) {
	fn, ok := s.Functions[name]
	return fn, ok
}

func (s *Scope) Global(name string) (GlobalRef, bool) {
	g, ok := s.Globals[name]
	return g, ok
}

func (s *Scope) ModuleAlias(name string) (tir.ModuleID, bool) {
	m, ok := s.Modules[name]
	return m, ok
}

// Class resolves a class name as written in this module: a bound name,
// "alias.Class" through a module import, or a built-in.
func (s *Scope) Class(table *symbols.Table, name string) (tir.ClassID, bool) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		target, ok := s.Modules[name[:i]]
		if !ok {
			return tir.NoClassID, false
		}
		return table.LocalClass(target, name[i+1:])
	}
	if id, ok := s.Classes[name]; ok {
		return id, true
	}
	return table.BuiltinClass(name)
}

// ClassLookup adapts Class for annotation conversion.
func (s *Scope) ClassLookup(table *symbols.Table) symbols.ClassLookup {
	return func(name string) (tir.ClassID, bool) { return s.Class(table, name) }
}
