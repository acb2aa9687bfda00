package lower_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/lower"
	"github.com/cla7aye15I4nd/TypePython/internal/observ"
	"github.com/cla7aye15I4nd/TypePython/internal/pipeline"
	"github.com/cla7aye15I4nd/TypePython/internal/testkit"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
)

func mainModule(body ...*ast.Stmt) map[string]*ast.Module {
	return map[string]*ast.Module{"main": {ID: "main", Path: "main.py", Body: body}}
}

func mustLower(t *testing.T, body ...*ast.Stmt) *tir.Program {
	t.Helper()
	prog, err := lower.Lower(mainModule(body...), "main")
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if err := testkit.CheckProgram(prog); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	return prog
}

func lowerErr(t *testing.T, body ...*ast.Stmt) *diag.Error {
	t.Helper()
	_, err := lower.Lower(mainModule(body...), "main")
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *diag.Error, got %v", err)
	}
	return de
}

func codes(de *diag.Error) []diag.Code {
	out := make([]diag.Code, 0, len(de.Diagnostics()))
	for _, d := range de.Diagnostics() {
		out = append(out, d.Code)
	}
	return out
}

func function(t *testing.T, prog *tir.Program, name string) *tir.Function {
	t.Helper()
	f, ok := prog.FunctionByName(name)
	if !ok {
		t.Fatalf("function %s not in program", name)
	}
	return f
}

func local(t *testing.T, f *tir.Function, name string) (tir.LocalID, tir.Local) {
	t.Helper()
	for i, l := range f.Locals {
		if l.Name == name {
			return tir.NextID[tir.LocalID](i), l
		}
	}
	t.Fatalf("%s has no local %s (locals %v)", f.QualifiedName, name, f.Locals)
	return tir.NoLocalID, tir.Local{}
}

func self() ast.Arg { return ast.Param("self", nil) }

func TestAppendInfersListElement(t *testing.T) {
	prog := mustLower(t, ast.Def("f", nil, nil,
		ast.Assign(ast.Name("xs"), ast.List()),
		ast.ExprS(ast.MethodCall(ast.Name("xs"), "append", ast.Int(1))),
	))
	f := function(t, prog, "main.f")
	_, xs := local(t, f, "xs")
	if xs.Type.Kind != tir.TypeClass {
		t.Fatalf("xs type = %v", xs.Type)
	}
	list := prog.Class(xs.Type.Class)
	if !list.Builtin || len(list.TypeParams) != 1 || list.TypeParams[0] != tir.Int {
		t.Fatalf("xs is %s with params %v, want list[int]", list.QualifiedName, list.TypeParams)
	}
	calls := testkit.Calls(f.Body)
	if len(calls) != 1 || prog.Function(calls[0]).Class != xs.Type.Class {
		t.Fatalf("append should bind to a method of list[int], calls %v", calls)
	}
}

func TestUninferredListFails(t *testing.T) {
	de := lowerErr(t, ast.Def("f", nil, nil,
		ast.Assign(ast.Name("xs"), ast.List()),
	))
	if !de.Has(diag.InferUnresolvedVar) {
		t.Fatalf("codes = %v, want InferUnresolvedVar", codes(de))
	}
}

func TestSpecializationsAreShared(t *testing.T) {
	body := func(name string) *ast.Stmt {
		return ast.Def(name, nil, ast.Ann(ast.TypeInt),
			ast.Assign(ast.Name("xs"), ast.List()),
			ast.ExprS(ast.MethodCall(ast.Name("xs"), "append", ast.Int(1))),
			ast.Return(ast.CallName("len", ast.Name("xs"))),
		)
	}
	prog := mustLower(t, body("f"), body("g"))
	f := function(t, prog, "main.f")
	g := function(t, prog, "main.g")
	_, fx := local(t, f, "xs")
	_, gx := local(t, g, "xs")
	if fx.Type != gx.Type {
		t.Fatalf("list[int] differs between functions: %v vs %v", fx.Type, gx.Type)
	}
	if fc, gc := testkit.Calls(f.Body), testkit.Calls(g.Body); !slices.Equal(fc, gc) {
		t.Fatalf("calls differ: %v vs %v", fc, gc)
	}
}

func TestInheritedLayoutAndSuper(t *testing.T) {
	prog := mustLower(t,
		ast.Class("A", nil, []ast.Field{ast.FieldDecl("x", ast.Ann(ast.TypeInt))},
			ast.Method("__init__", []ast.Arg{self(), ast.Param("x", ast.Ann(ast.TypeInt))}, nil,
				ast.Assign(ast.Attr(ast.Name("self"), "x"), ast.Name("x")),
			),
		),
		ast.Class("B", []string{"A"}, []ast.Field{ast.FieldDecl("y", ast.Ann(ast.TypeBool))},
			ast.Method("__init__", []ast.Arg{self(), ast.Param("x", ast.Ann(ast.TypeInt))}, nil,
				ast.ExprS(ast.MethodCall(ast.CallName("super"), "__init__", ast.Name("x"))),
				ast.Assign(ast.Attr(ast.Name("self"), "y"), ast.Bool(true)),
			),
		),
		ast.Def("make", nil, ast.ClassAnn("B"), ast.Return(ast.CallName("B", ast.Int(1)))),
	)
	b, ok := prog.ClassByName("main.B")
	if !ok {
		t.Fatal("B not in program")
	}
	layout := b.Layout()
	if len(layout) != 2 || layout[0].Name != "x" || layout[1].Name != "y" {
		t.Fatalf("B layout = %v", layout)
	}
	if layout[0].Type != tir.Int || layout[1].Type != tir.Bool {
		t.Fatalf("B layout types = %v", layout)
	}

	init := function(t, prog, "main.B.__init__")
	parent := function(t, prog, "main.A.__init__")
	if len(init.Params) != 2 || init.Params[0].Type != tir.ClassType(b.ID) {
		t.Fatalf("B.__init__ params = %v", init.Params)
	}
	call, ok := init.Body[0].Data.(*tir.ExprStmt).Value.Data.(*tir.CallExpr)
	if !ok || call.Func != parent.ID {
		t.Fatalf("first statement should call A.__init__, got %v", init.Body[0])
	}
	if ref := call.Args[0].Data.(*tir.VarExpr).Ref; ref.Kind != tir.VarSelf {
		t.Fatalf("super receiver = %v, want self", ref)
	}
}

func TestSuperOutsideMethod(t *testing.T) {
	de := lowerErr(t, ast.Def("f", nil, nil,
		ast.ExprS(ast.MethodCall(ast.CallName("super"), "__init__")),
	))
	if !de.Has(diag.SemaInvalidSuper) {
		t.Fatalf("codes = %v", codes(de))
	}
}

func TestVoidFunctionGetsImplicitReturn(t *testing.T) {
	prog := mustLower(t, ast.Def("f", nil, nil, ast.Assign(ast.Name("x"), ast.Int(1))))
	f := function(t, prog, "main.f")
	last := f.Body[len(f.Body)-1]
	if last.Kind != tir.StmtReturn || last.Data.(*tir.ReturnStmt).Value != nil {
		t.Fatalf("last statement = %s, want a bare return", last.Kind)
	}
	if f.Return != tir.Void {
		t.Fatalf("return type = %v", f.Return)
	}
}

func TestMissingReturn(t *testing.T) {
	param := []ast.Arg{ast.Param("x", ast.Ann(ast.TypeBool))}
	de := lowerErr(t, ast.Def("f", param, ast.Ann(ast.TypeInt),
		ast.If(ast.Name("x"), ast.Block(ast.Return(ast.Int(1)))),
	))
	if got := codes(de); len(got) != 1 || got[0] != diag.SemaMissingReturn {
		t.Fatalf("codes = %v", got)
	}

	// Both branches of a trailing if return.
	mustLower(t, ast.Def("f", param, ast.Ann(ast.TypeInt),
		ast.If(ast.Name("x"), ast.Block(ast.Return(ast.Int(1))), ast.Return(ast.Int(2))),
	))
}

func TestBodyErrorsAreBatched(t *testing.T) {
	de := lowerErr(t,
		ast.Def("f", nil, nil, ast.ExprS(ast.Name("y"))),
		ast.Def("g", nil, nil, ast.ExprS(ast.Name("z"))),
		ast.Def("h", nil, nil, ast.Assign(ast.Name("ok"), ast.Int(1))),
	)
	got := codes(de)
	if len(got) != 2 || got[0] != diag.SemaUndefinedVariable || got[1] != diag.SemaUndefinedVariable {
		t.Fatalf("codes = %v", got)
	}
}

func TestMaxDiagnostics(t *testing.T) {
	var defs []*ast.Stmt
	for _, name := range []string{"a", "b", "c", "d"} {
		defs = append(defs, ast.Def(name, nil, nil, ast.ExprS(ast.Name("missing"))))
	}
	_, err := lower.LowerContext(context.Background(), mainModule(defs...), "main", lower.Options{MaxDiagnostics: 2})
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *diag.Error, got %v", err)
	}
	if n := len(de.Diagnostics()); n != 2 {
		t.Fatalf("diagnostics = %d, want 2", n)
	}
}

func TestUndefinedEntry(t *testing.T) {
	_, err := lower.Lower(mainModule(), "nope")
	var de *diag.Error
	if !errors.As(err, &de) || !de.Has(diag.SemaUndefinedModule) {
		t.Fatalf("expected undefined module, got %v", err)
	}
}

func TestImportedFunctionCall(t *testing.T) {
	modules := map[string]*ast.Module{
		"util": {ID: "util", Path: "util.py", Body: ast.Block(
			ast.Def("twice", []ast.Arg{ast.Param("x", ast.Ann(ast.TypeInt))}, ast.Ann(ast.TypeInt),
				ast.Return(ast.Binary(ast.Name("x"), ast.BinMult, ast.Int(2))),
			),
		)},
		"main": {
			ID:      "main",
			Path:    "main.py",
			Imports: []ast.Import{{SourceName: "util", ModuleID: "util", Kind: ast.ImportModule}},
			Body: ast.Block(
				ast.Def("f", nil, ast.Ann(ast.TypeInt),
					ast.Return(ast.Call(ast.Attr(ast.Name("util"), "twice"), ast.Int(3))),
				),
			),
		},
	}
	prog, err := lower.Lower(modules, "main")
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if err := testkit.CheckProgram(prog); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	if entry := prog.Module(prog.Entry); entry.Name != "main" {
		t.Fatalf("entry = %s", entry.Name)
	}
	twice := function(t, prog, "util.twice")
	f := function(t, prog, "main.f")
	if calls := testkit.Calls(f.Body); len(calls) != 1 || calls[0] != twice.ID {
		t.Fatalf("calls = %v, want [%d]", calls, twice.ID)
	}
}

func TestProgressAndTimer(t *testing.T) {
	rec := &pipeline.Recorder{}
	timer := observ.NewTimer()
	_, err := lower.LowerContext(context.Background(), mainModule(
		ast.Def("f", nil, nil, ast.Assign(ast.Name("x"), ast.Int(1))),
	), "main", lower.Options{Progress: rec, Timer: timer})
	if err != nil {
		t.Fatalf("lower: %v", err)
	}

	var lowered []pipeline.Status
	assembled := false
	for _, evt := range rec.Events() {
		switch evt.Stage {
		case pipeline.StageLower:
			if evt.Module != "main" {
				t.Fatalf("lower event for %q", evt.Module)
			}
			lowered = append(lowered, evt.Status)
		case pipeline.StageAssemble:
			assembled = assembled || evt.Status == pipeline.StatusDone
		}
	}
	if !slices.Equal(lowered, []pipeline.Status{pipeline.StatusWorking, pipeline.StatusDone}) {
		t.Fatalf("lower statuses = %v", lowered)
	}
	if !assembled {
		t.Fatal("missing assemble done event")
	}

	var names []string
	for _, p := range timer.Phases() {
		names = append(names, p.Name)
	}
	if want := []string{"collect", "scopes", "bodies", "assemble"}; !slices.Equal(names, want) {
		t.Fatalf("phases = %v, want %v", names, want)
	}
}

func TestFailedModuleReportsError(t *testing.T) {
	rec := &pipeline.Recorder{}
	_, err := lower.LowerContext(context.Background(), mainModule(
		ast.Def("f", nil, nil, ast.ExprS(ast.Name("y"))),
	), "main", lower.Options{Progress: rec})
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, evt := range rec.Events() {
		if evt.Stage == pipeline.StageLower && evt.Status == pipeline.StatusError {
			return
		}
	}
	t.Fatalf("no lower error event in %v", rec.Events())
}

func TestSharedMethodsSpanSpecializations(t *testing.T) {
	prog := mustLower(t, ast.Def("f", nil, ast.Ann(ast.TypeInt),
		ast.Assign(ast.Name("xs"), ast.List(ast.Int(1))),
		ast.Assign(ast.Name("ys"), ast.List(ast.Str("a"))),
		ast.Return(ast.Binary(
			ast.CallName("len", ast.Name("xs")),
			ast.BinAdd,
			ast.CallName("len", ast.Name("ys")),
		)),
	))
	f := function(t, prog, "main.f")
	calls := testkit.Calls(f.Body)
	if len(calls) != 2 || calls[0] != calls[1] {
		t.Fatalf("len calls = %v, want one shared function", calls)
	}
	length := prog.Function(calls[0])
	if !length.Shared || !length.IsRuntime() {
		t.Fatalf("%s shared=%v runtime=%v", length.QualifiedName, length.Shared, length.IsRuntime())
	}
	_, ys := local(t, f, "ys")
	if length.Params[0].Type == ys.Type {
		t.Fatal("self should name the first specialization, not list[str]")
	}
	getitem, ok := prog.Class(ys.Type.Class).Method("__getitem__")
	if !ok || prog.Function(getitem).Shared {
		t.Fatal("unique methods are never shared")
	}
}
