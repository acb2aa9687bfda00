package project

import (
	"slices"
	"strings"
	"unicode"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
)

type ImportMeta struct {
	Module string
	Span   source.Span
}

// ModuleMeta is what the project layer knows about one loaded module.
type ModuleMeta struct {
	Name        string       // module id, e.g. "pkg.util"
	File        string       // file the tree was decoded from
	Imports     []ImportMeta // импортируемые модули в порядке исходника
	ContentHash Digest       // хеш сериализованного дерева
	ModuleHash  Digest       // агрегированный хеш модуля с учётом зависимостей
}

// MetaOf extracts the metadata of a decoded module.
func MetaOf(m *ast.Module, file string, content []byte) ModuleMeta {
	meta := ModuleMeta{
		Name:        m.ID,
		File:        file,
		ContentHash: HashContent(content),
	}
	for _, imp := range m.Imports {
		if imp.ModuleID == "" {
			continue
		}
		meta.Imports = append(meta.Imports, ImportMeta{Module: imp.ModuleID, Span: imp.Span})
	}
	return meta
}

// ImportNames returns the distinct imported module ids, sorted.
func (m ModuleMeta) ImportNames() []string {
	out := make([]string, 0, len(m.Imports))
	for _, imp := range m.Imports {
		out = append(out, imp.Module)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// IsValidModuleIdent reports whether name is one identifier segment.
func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsValidModuleName reports whether name is a dotted module id.
func IsValidModuleName(name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range strings.Split(name, ".") {
		if !IsValidModuleIdent(seg) {
			return false
		}
	}
	return true
}
