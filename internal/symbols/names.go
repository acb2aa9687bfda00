package symbols

import (
	"strings"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// ModuleAlias is the name a whole-module import binds.
func ModuleAlias(imp *ast.Import) string {
	if imp.Alias != "" {
		return imp.Alias
	}
	name := imp.SourceName
	if name == "" {
		name = imp.ModuleID
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Exported reports whether a star import brings name along.
func Exported(name string) bool {
	return !strings.HasPrefix(name, "_")
}

// ResolveClassName finds the class module sees under name: its own
// classes, then named imports, then star imports, then built-ins. A
// dotted name "m.C" goes through the module import bound to m.
func (t *Table) ResolveClassName(module tir.ModuleID, name string) (tir.ClassID, bool) {
	tree := t.Module(module).Tree
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		if tree == nil {
			return tir.NoClassID, false
		}
		alias, cls := name[:i], name[i+1:]
		for k := range tree.Imports {
			imp := &tree.Imports[k]
			if imp.Kind != ast.ImportModule || (ModuleAlias(imp) != alias && imp.ModuleID != alias) {
				continue
			}
			if target, ok := t.ModuleByName(imp.ModuleID); ok {
				return t.LocalClass(target, cls)
			}
		}
		return tir.NoClassID, false
	}
	if id, ok := t.LocalClass(module, name); ok {
		return id, true
	}
	if tree != nil {
		for k := range tree.Imports {
			imp := &tree.Imports[k]
			if imp.Kind != ast.ImportNames {
				continue
			}
			for _, n := range imp.Names {
				if n.Bound() != name {
					continue
				}
				if target, ok := t.ModuleByName(imp.ModuleID); ok {
					if id, ok := t.LocalClass(target, n.Name); ok {
						return id, true
					}
				}
			}
		}
		for k := range tree.Imports {
			imp := &tree.Imports[k]
			if imp.Kind != ast.ImportStar || !Exported(name) {
				continue
			}
			if target, ok := t.ModuleByName(imp.ModuleID); ok {
				if id, ok := t.LocalClass(target, name); ok {
					return id, true
				}
			}
		}
	}
	return t.BuiltinClass(name)
}

// ClassLookup resolves a class name as seen from some module.
type ClassLookup func(name string) (tir.ClassID, bool)

// AnnotationType converts a source annotation. A nil annotation is void.
// On failure the unresolvable class name is returned.
func (t *Table) AnnotationType(ann *ast.TypeExpr, lookup ClassLookup) (uir.Type, string, bool) {
	if ann == nil {
		return uir.Void, "", true
	}
	switch ann.Kind {
	case ast.TypeInt:
		return uir.Int, "", true
	case ast.TypeFloat:
		return uir.Float, "", true
	case ast.TypeBool:
		return uir.Bool, "", true
	case ast.TypeStr:
		return uir.ClassType(t.Str()), "", true
	case ast.TypeBytes:
		return uir.ClassType(t.Bytes()), "", true
	case ast.TypeByteArray:
		return uir.ClassType(t.ByteArray()), "", true
	case ast.TypeList:
		elem, missing, ok := t.AnnotationType(ann.Elem, lookup)
		if !ok {
			return uir.Type{}, missing, false
		}
		if elem.IsVoid() {
			return uir.Type{}, "None", false
		}
		return uir.ClassType(t.List(elem)), "", true
	case ast.TypeClass:
		if ann.Name == "None" {
			return uir.Void, "", true
		}
		if id, ok := lookup(ann.Name); ok {
			return uir.ClassType(id), "", true
		}
		return uir.Type{}, ann.Name, false
	}
	return uir.Type{}, ann.String(), false
}
