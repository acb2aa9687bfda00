package lower_test

import (
	"testing"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
)

func global(t *testing.T, prog *tir.Program, name string) tir.Global {
	t.Helper()
	for _, g := range prog.Module(prog.Entry).Globals {
		if g.Name == name {
			return g
		}
	}
	t.Fatalf("entry module has no global %s", name)
	return tir.Global{}
}

func listOf(t *testing.T, prog *tir.Program, typ tir.Type) tir.Type {
	t.Helper()
	if typ.Kind != tir.TypeClass {
		t.Fatalf("type %v is not a class", typ)
	}
	c := prog.Class(typ.Class)
	if !c.Builtin || len(c.TypeParams) != 1 {
		t.Fatalf("%s is not a list", c.QualifiedName)
	}
	return c.TypeParams[0]
}

func TestTopLevelAppendSettlesGlobal(t *testing.T) {
	prog := mustLower(t,
		ast.Assign(ast.Name("x"), ast.List()),
		ast.ExprS(ast.MethodCall(ast.Name("x"), "append", ast.Int(1))),
		ast.ExprS(ast.MethodCall(ast.Name("x"), "append", ast.Int(2))),
		ast.Def("first", nil, ast.Ann(ast.TypeInt), ast.Return(ast.Subscript(ast.Name("x"), ast.Int(0)))),
	)
	x := global(t, prog, "x")
	if elem := listOf(t, prog, x.Type); elem != tir.Int {
		t.Fatalf("x is list[%v], want list[int]", elem)
	}
	if len(prog.Module(prog.Entry).Init) == 0 {
		t.Fatal("initializer lost its statements")
	}
	if f := function(t, prog, "main.first"); f.Return != tir.Int {
		t.Fatalf("first returns %v", f.Return)
	}
}

func TestFunctionSettlesEmptyGlobal(t *testing.T) {
	prog := mustLower(t,
		ast.Assign(ast.Name("flags"), ast.List()),
		ast.Def("mark", nil, nil, ast.ExprS(ast.MethodCall(ast.Name("flags"), "append", ast.Bool(true)))),
	)
	if elem := listOf(t, prog, global(t, prog, "flags").Type); elem != tir.Bool {
		t.Fatalf("flags is list[%v], want list[bool]", elem)
	}
}

func TestEmptyGlobalListsStayApart(t *testing.T) {
	prog := mustLower(t,
		ast.Assign(ast.Name("ints"), ast.List()),
		ast.Assign(ast.Name("floats"), ast.List()),
		ast.ExprS(ast.MethodCall(ast.Name("ints"), "append", ast.Int(1))),
		ast.ExprS(ast.MethodCall(ast.Name("floats"), "append", ast.Float(1.5))),
	)
	if elem := listOf(t, prog, global(t, prog, "ints").Type); elem != tir.Int {
		t.Fatalf("ints is list[%v]", elem)
	}
	if elem := listOf(t, prog, global(t, prog, "floats").Type); elem != tir.Float {
		t.Fatalf("floats is list[%v]", elem)
	}
}

func TestUnconstrainedGlobalListFails(t *testing.T) {
	de := lowerErr(t, ast.Assign(ast.Name("x"), ast.List()))
	if !de.Has(diag.InferUnresolvedVar) || de.Has(diag.SemaMissingAnnotation) {
		t.Fatalf("codes = %v, want InferUnresolvedVar only", codes(de))
	}
}

func TestGlobalListElementMismatch(t *testing.T) {
	de := lowerErr(t,
		ast.Assign(ast.Name("x"), ast.List()),
		ast.ExprS(ast.MethodCall(ast.Name("x"), "append", ast.Int(1))),
		ast.ExprS(ast.MethodCall(ast.Name("x"), "append", ast.Str("no"))),
	)
	if len(de.Diagnostics()) == 0 || de.Has(diag.SemaMissingAnnotation) {
		t.Fatalf("codes = %v", codes(de))
	}
}
