package collect_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/collect"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

func run(t *testing.T, modules map[string]*ast.Module) (*symbols.Table, error) {
	t.Helper()
	table := symbols.NewTable()
	err := collect.Run(context.Background(), table, modules, collect.Options{})
	return table, err
}

func mustRun(t *testing.T, modules map[string]*ast.Module) *symbols.Table {
	t.Helper()
	table, err := run(t, modules)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	return table
}

func codes(t *testing.T, err error) []diag.Code {
	t.Helper()
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *diag.Error, got %v", err)
	}
	out := make([]diag.Code, 0, len(de.Diagnostics()))
	for _, d := range de.Diagnostics() {
		out = append(out, d.Code)
	}
	return out
}

func self() ast.Arg { return ast.Param("self", nil) }

func TestInheritedLayout(t *testing.T) {
	table := mustRun(t, map[string]*ast.Module{
		"main": {ID: "main", Body: ast.Block(
			// B comes first to exercise forward references.
			ast.Class("B", []string{"A"}, []ast.Field{ast.FieldDecl("y", ast.Ann(ast.TypeBool))}),
			ast.Class("A", nil, []ast.Field{ast.FieldDecl("x", ast.Ann(ast.TypeInt))}),
		)},
	})
	mod, _ := table.ModuleByName("main")
	b, ok := table.LocalClass(mod, "B")
	if !ok {
		t.Fatal("B not registered")
	}
	x, xt, _ := table.FieldByName(b, "x")
	y, yt, _ := table.FieldByName(b, "y")
	if x != 0 || y != 1 || xt != uir.Int || yt != uir.Bool {
		t.Fatalf("B layout: x@%d:%s y@%d:%s", x, xt, y, yt)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestUndefinedBasesAreBatched(t *testing.T) {
	_, err := run(t, map[string]*ast.Module{
		"main": {ID: "main", Body: ast.Block(
			ast.Class("A", []string{"Missing1"}, nil),
			ast.Class("B", []string{"Missing2"}, nil),
		)},
	})
	got := codes(t, err)
	if len(got) != 2 || got[0] != diag.SemaUndefinedBaseClass || got[1] != diag.SemaUndefinedBaseClass {
		t.Fatalf("codes = %v", got)
	}
}

func TestMultipleInheritanceRejected(t *testing.T) {
	_, err := run(t, map[string]*ast.Module{
		"main": {ID: "main", Body: ast.Block(
			ast.Class("A", nil, nil),
			ast.Class("B", nil, nil),
			ast.Class("C", []string{"A", "B"}, nil),
		)},
	})
	if got := codes(t, err); len(got) != 1 || got[0] != diag.SemaMultipleInheritance {
		t.Fatalf("codes = %v", got)
	}
}

func TestInheritanceCycle(t *testing.T) {
	_, err := run(t, map[string]*ast.Module{
		"main": {ID: "main", Body: ast.Block(
			ast.Class("A", []string{"B"}, nil),
			ast.Class("B", []string{"A"}, nil),
		)},
	})
	if got := codes(t, err); len(got) != 1 || got[0] != diag.SemaCyclicInheritance {
		t.Fatalf("codes = %v", got)
	}
}

func TestBaseFromImportAndBuiltin(t *testing.T) {
	table := mustRun(t, map[string]*ast.Module{
		"shapes": {ID: "shapes", Body: ast.Block(
			ast.Class("Shape", nil, []ast.Field{ast.FieldDecl("sides", ast.Ann(ast.TypeInt))}),
		)},
		"main": {
			ID: "main",
			Imports: []ast.Import{
				{SourceName: "shapes", ModuleID: "shapes", Kind: ast.ImportNames, Names: []ast.ImportAlias{{Name: "Shape", Alias: "S"}}},
			},
			Body: ast.Block(
				ast.Class("Square", []string{"S"}, []ast.Field{ast.FieldDecl("side", ast.Ann(ast.TypeFloat))}),
				ast.Class("Oops", []string{"Exception"}, nil),
			),
		},
	})
	mod, _ := table.ModuleByName("main")
	sq, _ := table.LocalClass(mod, "Square")
	if slot, _, ok := table.FieldByName(sq, "side"); !ok || slot != 1 {
		t.Fatalf("Square.side = %d", slot)
	}
	oops, _ := table.LocalClass(mod, "Oops")
	if !table.IsExceptionSubclass(oops) {
		t.Fatal("Oops should derive from Exception")
	}
	// Modules get handles in name order.
	if mod != 0 {
		t.Fatalf("main = module %d, want 0", mod)
	}
}

func TestSignatures(t *testing.T) {
	table := mustRun(t, map[string]*ast.Module{
		"main": {ID: "main", Body: ast.Block(
			ast.Class("A", nil, nil,
				ast.Method("make_b", []ast.Arg{self(), ast.Param("n", ast.Ann(ast.TypeInt))}, ast.ClassAnn("B")),
			),
			ast.Class("B", nil, nil),
			ast.Def("total", []ast.Arg{ast.Param("xs", ast.ListOf(ast.Ann(ast.TypeInt)))}, ast.Ann(ast.TypeInt)),
		)},
	})
	mod, _ := table.ModuleByName("main")
	a, _ := table.LocalClass(mod, "A")
	b, _ := table.LocalClass(mod, "B")
	ref, ok := table.OwnMethod(a, "make_b")
	if !ok {
		t.Fatal("make_b missing")
	}
	fn := table.Func(ref.Func)
	if len(fn.Params) != 1 || fn.Params[0].Type != uir.Int || fn.Return != uir.ClassType(b) {
		t.Fatalf("make_b signature: %+v -> %s", fn.Params, fn.Return)
	}
	total, _ := table.LookupFunction(mod, "total")
	if p := table.Func(total).Params[0].Type; p != uir.ClassType(table.List(uir.Int)) {
		t.Fatalf("total param = %s", table.TypeName(p))
	}
}

func TestSignatureErrors(t *testing.T) {
	_, err := run(t, map[string]*ast.Module{
		"main": {ID: "main", Body: ast.Block(
			ast.Class("A", nil, nil,
				ast.Method("no_self", []ast.Arg{ast.Param("x", ast.Ann(ast.TypeInt))}, nil),
			),
			ast.Def("bare", []ast.Arg{ast.Param("x", nil)}, nil),
			ast.Def("ghost", nil, ast.ClassAnn("Ghost")),
		)},
	})
	got := codes(t, err)
	want := map[diag.Code]bool{diag.SemaMissingSelf: true, diag.SemaMissingAnnotation: true, diag.SemaUndefinedClass: true}
	if len(got) != len(want) {
		t.Fatalf("codes = %v", got)
	}
	for _, c := range got {
		if !want[c] {
			t.Fatalf("unexpected code %v in %v", c, got)
		}
	}
}

func TestGlobalTypes(t *testing.T) {
	table := mustRun(t, map[string]*ast.Module{
		"main": {ID: "main", Body: ast.Block(
			ast.Class("P", nil, nil),
			ast.Def("answer", nil, ast.Ann(ast.TypeFloat), ast.Return(ast.Float(4.2))),
			ast.Assign(ast.Name("n"), ast.Int(1)),
			ast.Assign(ast.Name("neg"), ast.Unary(ast.UnaryNeg, ast.Float(1))),
			ast.Assign(ast.Name("s"), ast.Str("hi")),
			ast.Assign(ast.Name("xs"), ast.List(ast.Int(1), ast.Int(2))),
			ast.Assign(ast.Name("p"), ast.CallName("P")),
			ast.Assign(ast.Name("r"), ast.CallName("answer")),
			ast.AnnAssign(ast.Name("empty"), ast.ListOf(ast.Ann(ast.TypeStr)), ast.List()),
			// Rebinding keeps the first registration.
			ast.Assign(ast.Name("n"), ast.Int(2)),
		)},
	})
	mod, _ := table.ModuleByName("main")
	p, _ := table.LocalClass(mod, "P")
	want := map[string]uir.Type{
		"n":     uir.Int,
		"neg":   uir.Float,
		"s":     table.StrType(),
		"xs":    uir.ClassType(table.List(uir.Int)),
		"p":     uir.ClassType(p),
		"r":     uir.Float,
		"empty": uir.ClassType(table.List(table.StrType())),
	}
	for name, typ := range want {
		g, ok := table.Global(mod, name)
		if !ok || g.Type != typ {
			t.Errorf("global %s = %+v, want %s", name, g, table.TypeName(typ))
		}
	}
	if got := len(table.Module(mod).Globals); got != len(want) {
		t.Errorf("%d globals, want %d", got, len(want))
	}
}

func TestGlobalWithoutReadableTypeFails(t *testing.T) {
	_, err := run(t, map[string]*ast.Module{
		"main": {ID: "main", Body: ast.Block(
			ast.Assign(ast.Name("n"), ast.Binary(ast.Int(1), ast.BinAdd, ast.Int(2))),
		)},
	})
	if got := codes(t, err); len(got) != 1 || got[0] != diag.SemaMissingAnnotation {
		t.Fatalf("codes = %v", got)
	}
}

func TestEmptyListGlobalIsPending(t *testing.T) {
	table := mustRun(t, map[string]*ast.Module{
		"main": {ID: "main", Body: ast.Block(
			ast.Assign(ast.Name("xs"), ast.List()),
			ast.Assign(ast.Name("ys"), ast.List()),
		)},
	})
	mod, _ := table.ModuleByName("main")
	xs, ok := table.Global(mod, "xs")
	if !ok || !xs.Type.IsClass() {
		t.Fatalf("xs = %+v", xs)
	}
	ys, _ := table.Global(mod, "ys")
	if xs.Type == ys.Type {
		t.Fatal("each empty list needs its own element variable")
	}
	class := table.Class(xs.Type.Class)
	if class.Settled() || !table.IsBuiltin(xs.Type.Class, symbols.ClassList) {
		t.Fatalf("xs is %s, want a pending list", table.TypeName(xs.Type))
	}
	pending := table.Unsettled()
	if !slices.Contains(pending, xs.Type.Class) || !slices.Contains(pending, ys.Type.Class) {
		t.Fatalf("unsettled = %v", pending)
	}
}
