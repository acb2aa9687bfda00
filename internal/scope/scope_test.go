package scope_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/collect"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/scope"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
)

func library() *ast.Module {
	return &ast.Module{ID: "pkg.lib", Body: ast.Block(
		ast.Def("helper", nil, ast.Ann(ast.TypeInt), ast.Return(ast.Int(1))),
		ast.Def("_private", nil, nil),
		ast.Class("Widget", nil, nil),
		ast.Assign(ast.Name("limit"), ast.Int(10)),
		ast.Assign(ast.Name("_hidden"), ast.Int(0)),
	)}
}

func build(t *testing.T, main *ast.Module) (*symbols.Table, *scope.Scope, error) {
	t.Helper()
	table := symbols.NewTable()
	modules := map[string]*ast.Module{"pkg.lib": library(), "main": main}
	if err := collect.Run(context.Background(), table, modules, collect.Options{}); err != nil {
		t.Fatalf("collect: %v", err)
	}
	mod, _ := table.ModuleByName("main")
	s, err := scope.Build(context.Background(), table, mod)
	return table, s, err
}

func TestModuleImportAlias(t *testing.T) {
	table, s, err := build(t, &ast.Module{ID: "main", Imports: []ast.Import{
		{SourceName: "pkg.lib", ModuleID: "pkg.lib", Kind: ast.ImportModule},
		{SourceName: "pkg.lib", ModuleID: "pkg.lib", Kind: ast.ImportModule, Alias: "L"},
	}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	lib, _ := table.ModuleByName("pkg.lib")
	for _, alias := range []string{"lib", "L"} {
		if got, ok := s.ModuleAlias(alias); !ok || got != lib {
			t.Errorf("alias %s = %d, %v", alias, got, ok)
		}
	}
	if _, ok := s.Class(table, "L.Widget"); !ok {
		t.Error("L.Widget should resolve")
	}
}

func TestNamedImport(t *testing.T) {
	table, s, err := build(t, &ast.Module{ID: "main", Imports: []ast.Import{
		{SourceName: "pkg.lib", ModuleID: "pkg.lib", Kind: ast.ImportNames, Names: []ast.ImportAlias{
			{Name: "helper", Alias: "h"},
			{Name: "Widget"},
			{Name: "limit"},
		}},
	}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	lib, _ := table.ModuleByName("pkg.lib")
	if fn, ok := s.Function("h"); !ok || table.Func(fn).QualifiedName != "pkg.lib.helper" {
		t.Errorf("h = %d, %v", fn, ok)
	}
	if _, ok := s.Class(table, "Widget"); !ok {
		t.Error("Widget missing")
	}
	if g, ok := s.Global("limit"); !ok || g.Module != lib {
		t.Errorf("limit = %+v, %v", g, ok)
	}
}

func TestNamedImportMissing(t *testing.T) {
	_, _, err := build(t, &ast.Module{ID: "main", Imports: []ast.Import{
		{SourceName: "pkg.lib", ModuleID: "pkg.lib", Kind: ast.ImportNames, Names: []ast.ImportAlias{{Name: "nope"}}},
		{SourceName: "ghost", ModuleID: "ghost", Kind: ast.ImportModule},
	}})
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected diag error, got %v", err)
	}
	if !de.Has(diag.SemaImportNameNotFound) || !de.Has(diag.SemaUndefinedModule) {
		t.Fatalf("diagnostics = %v", de)
	}
}

func TestStarImportSkipsPrivateAndLocals(t *testing.T) {
	table, s, err := build(t, &ast.Module{
		ID:      "main",
		Imports: []ast.Import{{SourceName: "pkg.lib", ModuleID: "pkg.lib", Kind: ast.ImportStar}},
		Body: ast.Block(
			ast.Def("helper", nil, nil),
		),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	main, _ := table.ModuleByName("main")
	if fn, _ := s.Function("helper"); table.Func(fn).Module != main {
		t.Error("local helper must win over the star import")
	}
	for _, name := range []string{"_private", "_hidden"} {
		if _, ok := s.Function(name); ok {
			t.Errorf("%s leaked through star import", name)
		}
		if _, ok := s.Global(name); ok {
			t.Errorf("%s leaked through star import", name)
		}
	}
	if _, ok := s.Global("limit"); !ok {
		t.Error("limit missing")
	}
	if id, ok := s.Class(table, "Widget"); !ok || id == tir.NoClassID {
		t.Error("Widget missing")
	}
	if _, ok := s.Class(table, "Exception"); !ok {
		t.Error("built-ins must stay visible")
	}
}
