package lower_test

import (
	"testing"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/testkit"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
)

// codeCase lowers body and expects want among the diagnostics, or a clean
// run when want is UnknownCode.
type codeCase struct {
	name string
	body []*ast.Stmt
	want diag.Code
}

func runCodeCases(t *testing.T, cases []codeCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.want == diag.UnknownCode {
				mustLower(t, tc.body...)
				return
			}
			de := lowerErr(t, tc.body...)
			if !de.Has(tc.want) {
				t.Fatalf("codes = %v, want %s", codes(de), tc.want.ID())
			}
		})
	}
}

func pass() *ast.Stmt { return ast.ExprS(ast.Int(0)) }

func boolParam(name string) []ast.Arg { return []ast.Arg{ast.Param(name, ast.Ann(ast.TypeBool))} }

func TestArithmeticResultTypes(t *testing.T) {
	cases := []struct {
		name  string
		value *ast.Expr
		want  tir.Type
	}{
		{"true division of ints", ast.Binary(ast.Int(4), ast.BinDiv, ast.Int(2)), tir.Float},
		{"floor division of ints", ast.Binary(ast.Int(4), ast.BinFloorDiv, ast.Int(2)), tir.Int},
		{"int times int", ast.Binary(ast.Int(4), ast.BinMult, ast.Int(2)), tir.Int},
		{"int plus float", ast.Binary(ast.Int(1), ast.BinAdd, ast.Float(0.5)), tir.Float},
		{"float minus int", ast.Binary(ast.Float(1), ast.BinSub, ast.Int(1)), tir.Float},
		{"int modulo", ast.Binary(ast.Int(7), ast.BinMod, ast.Int(3)), tir.Int},
		{"int power", ast.Binary(ast.Int(2), ast.BinPow, ast.Int(3)), tir.Int},
		{"bitwise and", ast.Binary(ast.Int(6), ast.BinBitAnd, ast.Int(3)), tir.Int},
		{"shift", ast.Binary(ast.Int(1), ast.BinLShift, ast.Int(4)), tir.Int},
		{"negated int", ast.Unary(ast.UnaryNeg, ast.Int(1)), tir.Int},
		{"negated float", ast.Unary(ast.UnaryNeg, ast.Float(1)), tir.Float},
		{"not int", ast.Unary(ast.UnaryNot, ast.Int(1)), tir.Bool},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prog := mustLower(t, ast.Def("f", nil, nil, ast.Assign(ast.Name("y"), tc.value)))
			_, y := local(t, function(t, prog, "main.f"), "y")
			if y.Type != tc.want {
				t.Fatalf("y = %v, want %v", y.Type, tc.want)
			}
		})
	}
}

func TestArithmeticOperandRules(t *testing.T) {
	ret := func(kind ast.TypeKind, value *ast.Expr) []*ast.Stmt {
		return ast.Block(ast.Def("f", nil, ast.Ann(kind), ast.Return(value)))
	}
	runCodeCases(t, []codeCase{
		{"division returned as int", ret(ast.TypeInt, ast.Binary(ast.Int(4), ast.BinDiv, ast.Int(2))), diag.SemaReturnTypeMismatch},
		{"division returned as float", ret(ast.TypeFloat, ast.Binary(ast.Int(4), ast.BinDiv, ast.Int(2))), diag.UnknownCode},
		{"mixed sum returned as int", ret(ast.TypeInt, ast.Binary(ast.Int(1), ast.BinAdd, ast.Float(2))), diag.SemaReturnTypeMismatch},
		{"bitwise or on float", ret(ast.TypeInt, ast.Binary(ast.Float(1), ast.BinBitOr, ast.Int(1))), diag.SemaInvalidBinaryOperands},
		{"shift by float", ret(ast.TypeInt, ast.Binary(ast.Int(1), ast.BinRShift, ast.Float(1))), diag.SemaInvalidBinaryOperands},
		{"str plus int", ret(ast.TypeInt, ast.Binary(ast.Str("a"), ast.BinAdd, ast.Int(1))), diag.SemaInvalidBinaryOperands},
		{"negated str", ret(ast.TypeInt, ast.Unary(ast.UnaryNeg, ast.Str("a"))), diag.SemaInvalidUnaryOperand},
		{"negated float returned as int", ret(ast.TypeInt, ast.Unary(ast.UnaryNeg, ast.Float(1))), diag.SemaReturnTypeMismatch},
	})
}

func TestBlockScopedNames(t *testing.T) {
	use := func() *ast.Stmt { return ast.ExprS(ast.Name("y")) }
	runCodeCases(t, []codeCase{
		{"bound in if", ast.Block(ast.Def("f", boolParam("c"), nil,
			ast.If(ast.Name("c"), ast.Block(ast.Assign(ast.Name("y"), ast.Int(1)))),
			use(),
		)), diag.SemaUndefinedVariable},
		{"bound in else", ast.Block(ast.Def("f", boolParam("c"), nil,
			ast.If(ast.Name("c"), ast.Block(pass()), ast.Assign(ast.Name("y"), ast.Int(1))),
			use(),
		)), diag.SemaUndefinedVariable},
		{"bound in while", ast.Block(ast.Def("f", boolParam("c"), nil,
			ast.While(ast.Name("c"), ast.Assign(ast.Name("y"), ast.Int(1))),
			use(),
		)), diag.SemaUndefinedVariable},
		{"bound in try", ast.Block(ast.Def("f", nil, nil,
			ast.Try(ast.Block(ast.Assign(ast.Name("y"), ast.Int(1))), nil, nil, nil),
			use(),
		)), diag.SemaUndefinedVariable},
		{"bound by except", ast.Block(ast.Def("f", nil, nil,
			ast.Try(ast.Block(pass()), []ast.ExceptHandler{ast.Except("Exception", "y", pass())}, nil, nil),
			use(),
		)), diag.SemaUndefinedVariable},
		{"bound before the block", ast.Block(ast.Def("f", boolParam("c"), nil,
			ast.Assign(ast.Name("y"), ast.Int(0)),
			ast.If(ast.Name("c"), ast.Block(ast.Assign(ast.Name("y"), ast.Int(1)))),
			use(),
		)), diag.UnknownCode},
	})
}

func TestNameLookupOrder(t *testing.T) {
	intParam := []ast.Arg{ast.Param("x", ast.Ann(ast.TypeInt))}
	global := ast.Assign(ast.Name("x"), ast.Float(1.5))
	runCodeCases(t, []codeCase{
		{"parameter before global", ast.Block(global,
			ast.Def("f", intParam, ast.Ann(ast.TypeInt), ast.Return(ast.Name("x"))),
		), diag.UnknownCode},
		{"global when no parameter", ast.Block(global,
			ast.Def("f", nil, ast.Ann(ast.TypeInt), ast.Return(ast.Name("x"))),
		), diag.SemaReturnTypeMismatch},
		{"handler local before parameter", ast.Block(
			ast.Def("f", intParam, nil,
				ast.Try(ast.Block(pass()), []ast.ExceptHandler{ast.Except("Exception", "x", ast.Raise(ast.Name("x")))}, nil, nil),
			),
		), diag.UnknownCode},
		{"parameter again after handler", ast.Block(
			ast.Def("f", intParam, nil,
				ast.Try(ast.Block(pass()), []ast.ExceptHandler{ast.Except("Exception", "x", pass())}, nil, nil),
				ast.Raise(ast.Name("x")),
			),
		), diag.SemaInvalidRaise},
		{"assignment writes the global", ast.Block(global,
			ast.Def("f", nil, nil, ast.Assign(ast.Name("x"), ast.Str("s"))),
		), diag.SemaTypeMismatch},
	})
}

func TestAssignmentToGlobalTargetsGlobal(t *testing.T) {
	prog := mustLower(t,
		ast.Assign(ast.Name("count"), ast.Int(0)),
		ast.Def("bump", nil, nil, ast.Assign(ast.Name("count"), ast.Int(1))),
	)
	f := function(t, prog, "main.bump")
	if len(f.Locals) != 0 {
		t.Fatalf("bump declared locals %v", f.Locals)
	}
	st, ok := f.Body[0].Data.(*tir.AssignStmt)
	if !ok || st.Target.Kind != tir.LValueVar || st.Target.Var.Kind != tir.VarGlobal {
		t.Fatalf("first statement = %v, want a global store", f.Body[0])
	}
}

func TestConstructorArguments(t *testing.T) {
	classes := ast.Block(
		ast.Class("P", nil, []ast.Field{ast.FieldDecl("a", ast.Ann(ast.TypeInt))},
			ast.Method("__init__", []ast.Arg{self(), ast.Param("a", ast.Ann(ast.TypeInt))}, nil,
				ast.Assign(ast.Attr(ast.Name("self"), "a"), ast.Name("a")),
			),
		),
		ast.Class("Q", nil, nil),
		ast.Class("Failure", []string{"Exception"}, nil),
	)
	build := func(call *ast.Expr) []*ast.Stmt {
		return append(ast.Block(ast.Def("f", nil, nil, ast.Assign(ast.Name("v"), call))), classes...)
	}
	runCodeCases(t, []codeCase{
		{"init arity", build(ast.CallName("P", ast.Int(1))), diag.UnknownCode},
		{"init too few", build(ast.CallName("P")), diag.SemaArgCountMismatch},
		{"init too many", build(ast.CallName("P", ast.Int(1), ast.Int(2))), diag.SemaArgCountMismatch},
		{"init argument type", build(ast.CallName("P", ast.Str("a"))), diag.SemaArgTypeMismatch},
		{"no init takes nothing", build(ast.CallName("Q")), diag.UnknownCode},
		{"no init with argument", build(ast.CallName("Q", ast.Int(1))), diag.SemaArgCountMismatch},
		{"exception without message", build(ast.CallName("Failure")), diag.UnknownCode},
		{"exception with message", build(ast.CallName("Failure", ast.Str("bad"))), diag.UnknownCode},
		{"exception message type", build(ast.CallName("Failure", ast.Int(1))), diag.SemaArgTypeMismatch},
		{"exception two messages", build(ast.CallName("Failure", ast.Str("a"), ast.Str("b"))), diag.SemaArgCountMismatch},
		{"builtin exception message", build(ast.CallName("Exception", ast.Str("bad"))), diag.UnknownCode},
		{"stop iteration takes nothing", build(ast.CallName("StopIteration", ast.Str("x"))), diag.SemaArgCountMismatch},
	})
}

func TestSubscriptAssignment(t *testing.T) {
	store := func(value *ast.Expr) *ast.Stmt {
		return ast.Assign(ast.Subscript(ast.Name("xs"), ast.Int(0)), value)
	}
	prog := mustLower(t, ast.Def("f", nil, nil,
		ast.Assign(ast.Name("xs"), ast.List(ast.Int(1), ast.Int(2))),
		store(ast.Int(5)),
	))
	f := function(t, prog, "main.f")
	calls := testkit.Calls(f.Body)
	if len(calls) != 1 || prog.Function(calls[0]).Name != "__setitem__" {
		t.Fatalf("calls = %v, want one __setitem__", calls)
	}

	prog = mustLower(t, ast.Def("g", nil, nil,
		ast.Assign(ast.Name("xs"), ast.List()),
		store(ast.Float(1.5)),
	))
	_, xs := local(t, function(t, prog, "main.g"), "xs")
	if elem := prog.Class(xs.Type.Class).TypeParams; len(elem) != 1 || elem[0] != tir.Float {
		t.Fatalf("xs params = %v, want [float]", elem)
	}

	runCodeCases(t, []codeCase{
		{"element type mismatch", ast.Block(ast.Def("f", nil, nil,
			ast.Assign(ast.Name("xs"), ast.List(ast.Int(1))),
			store(ast.Str("s")),
		)), diag.SemaArgTypeMismatch},
		{"index type mismatch", ast.Block(ast.Def("f", nil, nil,
			ast.Assign(ast.Name("xs"), ast.List(ast.Int(1))),
			ast.Assign(ast.Subscript(ast.Name("xs"), ast.Str("k")), ast.Int(1)),
		)), diag.SemaArgTypeMismatch},
		{"store into int", ast.Block(ast.Def("f", nil, nil,
			ast.Assign(ast.Name("xs"), ast.Int(1)),
			store(ast.Int(2)),
		)), diag.SemaNotIndexable},
	})
}

func TestAugmentedAssignment(t *testing.T) {
	with := func(init *ast.Expr, op ast.BinOp, value *ast.Expr) []*ast.Stmt {
		return ast.Block(ast.Def("f", nil, nil,
			ast.Assign(ast.Name("n"), init),
			ast.AugAssign("n", op, value),
		))
	}
	runCodeCases(t, []codeCase{
		{"int plus int", with(ast.Int(1), ast.BinAdd, ast.Int(2)), diag.UnknownCode},
		{"float plus int", with(ast.Float(1), ast.BinAdd, ast.Int(2)), diag.UnknownCode},
		{"float divided", with(ast.Float(1), ast.BinDiv, ast.Int(2)), diag.UnknownCode},
		{"int floor divided", with(ast.Int(1), ast.BinFloorDiv, ast.Int(2)), diag.UnknownCode},
		{"int divided", with(ast.Int(1), ast.BinDiv, ast.Int(2)), diag.SemaInvalidAugAssign},
		{"int plus float", with(ast.Int(1), ast.BinAdd, ast.Float(0.5)), diag.SemaInvalidAugAssign},
		{"float bitwise", with(ast.Float(1), ast.BinBitOr, ast.Int(1)), diag.SemaInvalidAugAssign},
		{"int shifted by float", with(ast.Int(1), ast.BinLShift, ast.Float(1)), diag.SemaInvalidAugAssign},
		{"str target", with(ast.Str("a"), ast.BinAdd, ast.Str("b")), diag.SemaInvalidAugAssign},
		{"undefined target", ast.Block(ast.Def("f", nil, nil, ast.AugAssign("n", ast.BinAdd, ast.Int(1)))), diag.SemaUndefinedVariable},
		{"self target", ast.Block(ast.Class("C", nil, nil,
			ast.Method("m", []ast.Arg{self()}, nil, ast.AugAssign("self", ast.BinAdd, ast.Int(1))),
		)), diag.SemaInvalidAssignTarget},
	})
}

func TestRaiseAndExceptTyping(t *testing.T) {
	decls := ast.Block(
		ast.Class("Failure", []string{"Exception"}, nil),
		ast.Class("Plain", nil, nil),
	)
	in := func(body ...*ast.Stmt) []*ast.Stmt {
		return append(ast.Block(ast.Def("f", nil, nil, body...)), decls...)
	}
	guarded := func(handler ast.ExceptHandler) []*ast.Stmt {
		return in(ast.Try(ast.Block(pass()), []ast.ExceptHandler{handler}, nil, nil))
	}
	runCodeCases(t, []codeCase{
		{"raise class name", in(ast.Raise(ast.Name("Failure"))), diag.UnknownCode},
		{"raise instance", in(ast.Raise(ast.CallName("Failure", ast.Str("m")))), diag.UnknownCode},
		{"bare reraise", in(ast.Raise(nil)), diag.UnknownCode},
		{"raise int", in(ast.Raise(ast.Int(1))), diag.SemaInvalidRaise},
		{"raise plain object", in(ast.Raise(ast.CallName("Plain"))), diag.SemaInvalidRaise},
		{"raise unknown class", in(ast.Raise(ast.Name("Missing"))), diag.SemaUndefinedClass},
		{"except unknown class", guarded(ast.Except("Missing", "")), diag.SemaUndefinedClass},
		{"except plain class", guarded(ast.Except("Plain", "")), diag.SemaTypeMismatch},
		{"reraise bound exception", guarded(ast.Except("Failure", "e", ast.Raise(ast.Name("e")))), diag.UnknownCode},
	})

	prog := mustLower(t, append(ast.Block(ast.Def("f", nil, nil,
		ast.Try(ast.Block(pass()), []ast.ExceptHandler{
			ast.Except("Failure", "e", pass()),
			ast.Except("", "any", pass()),
		}, nil, nil),
	)), decls...)...)
	f := function(t, prog, "main.f")
	failure, _ := prog.ClassByName("main.Failure")
	base, _ := prog.ClassByName(symbols.BuiltinModule + ".Exception")
	if _, e := local(t, f, "e"); e.Type != tir.ClassType(failure.ID) {
		t.Fatalf("e = %v, want Failure", e.Type)
	}
	if _, bare := local(t, f, "any"); bare.Type != tir.ClassType(base.ID) {
		t.Fatalf("bare handler binds %v, want Exception", bare.Type)
	}
}

func TestFieldAssignment(t *testing.T) {
	point := ast.Class("Point", nil, []ast.Field{
		ast.FieldDecl("x", ast.Ann(ast.TypeInt)),
		ast.FieldDecl("w", ast.Ann(ast.TypeFloat)),
	})
	set := func(field string, value *ast.Expr) []*ast.Stmt {
		return ast.Block(point, ast.Def("f", []ast.Arg{ast.Param("p", ast.ClassAnn("Point"))}, nil,
			ast.Assign(ast.Attr(ast.Name("p"), field), value),
		))
	}
	runCodeCases(t, []codeCase{
		{"int field", set("x", ast.Int(1)), diag.UnknownCode},
		{"int into float field", set("w", ast.Int(1)), diag.UnknownCode},
		{"float into int field", set("x", ast.Float(1)), diag.SemaTypeMismatch},
		{"str into int field", set("x", ast.Str("s")), diag.SemaTypeMismatch},
		{"unknown field", set("z", ast.Int(1)), diag.SemaUndefinedAttribute},
		{"field of int", ast.Block(ast.Def("f", []ast.Arg{ast.Param("n", ast.Ann(ast.TypeInt))}, nil,
			ast.Assign(ast.Attr(ast.Name("n"), "x"), ast.Int(1)),
		)), diag.SemaUndefinedAttribute},
		{"assign to self", ast.Block(ast.Class("C", nil, nil,
			ast.Method("m", []ast.Arg{self()}, nil, ast.Assign(ast.Name("self"), ast.Int(1))),
		)), diag.SemaInvalidAssignTarget},
	})
}
