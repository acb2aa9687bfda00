package ast

import (
	"testing"

	"github.com/cla7aye15I4nd/TypePython/internal/source"
)

func sampleModule() *Module {
	body := Block(
		Class("Point", nil, []Field{FieldDecl("x", Ann(TypeInt))},
			Method("__init__", []Arg{Param("self", nil), Param("x", Ann(TypeInt))}, nil,
				Assign(Attr(Name("self"), "x"), Name("x")),
			),
		),
		Def("main", nil, nil,
			Assign(Name("xs"), List()),
			ExprS(MethodCall(Name("xs"), "append", Int(1))),
			For("i", CallName("range", Int(0), Int(3)),
				ExprS(CallName("print", Name("i"), Bytes([]byte("ab")))),
			),
			If(Compare(Int(1), []CmpOp{CmpLt, CmpLt}, Int(2), Int(3)), Block(Return(nil))),
		),
	)
	body[1].Span = source.At(5, 1)
	return &Module{
		ID:   "main",
		Path: "/src/main.py",
		Imports: []Import{{
			SourceName: "util", ModuleID: "pkg.util", Kind: ImportNames,
			Names: []ImportAlias{{Name: "helper", Alias: "h"}},
		}},
		Body: body,
	}
}

func TestMsgpackRoundTripKeepsKinds(t *testing.T) {
	data, err := Marshal(sampleModule())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	m, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(m.Body) != 2 || m.Body[0].Kind != StmtClassDef || m.Body[1].Kind != StmtFunctionDef {
		t.Fatalf("unexpected body kinds")
	}
	if m.Body[1].Span != source.At(5, 1) {
		t.Fatalf("span lost: %v", m.Body[1].Span)
	}
	cls := m.Body[0].Data.(*ClassDef)
	if len(cls.Methods) != 1 || cls.Methods[0].Name != "__init__" || cls.Fields[0].Annotation.Kind != TypeInt {
		t.Fatalf("class payload lost: %+v", cls)
	}
	fn := m.Body[1].Data.(*FunctionDef)
	forStmt, ok := fn.Body[2].Data.(*ForStmt)
	if !ok || forStmt.Target != "i" {
		t.Fatalf("expected for statement, got %T", fn.Body[2].Data)
	}
	call := forStmt.Body[0].Data.(*ExprStmt).Value.Data.(*CallExpr)
	if c := call.Args[1].Data.(*ConstExpr); c.Kind != ConstBytes || string(c.Bytes) != "ab" {
		t.Fatalf("bytes literal lost: %+v", c)
	}
	ret := fn.Body[3].Data.(*IfStmt).Body[0].Data.(*ReturnStmt)
	if ret.Value != nil {
		t.Fatalf("nil return value must stay nil")
	}
	if m.Imports[0].Names[0].Bound() != "h" {
		t.Fatalf("import alias lost")
	}
}

func TestUnmarshalRejectsUnknownKind(t *testing.T) {
	m := &Module{ID: "m", Body: []*Stmt{{Kind: StmtKind(200), Data: &ExprStmt{Value: Int(1)}}}}
	data, err := Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := Unmarshal(data); err == nil {
		t.Fatalf("expected error for unknown statement kind")
	}
}

func TestNormalizeNFKC(t *testing.T) {
	// U+FF58 FULLWIDTH LATIN SMALL LETTER X and U+FB01 LATIN SMALL LIGATURE FI
	m := &Module{ID: "m", Body: Block(
		Assign(Name("ｘ"), Int(1)),
		ExprS(CallName("print", Name("x"))),
		Def("ﬁnd", nil, nil),
	)}
	Normalize(m)
	if n, _ := m.Body[0].Data.(*AssignStmt).Targets[0].NameOf(); n != "x" {
		t.Fatalf("fullwidth name not normalized: %q", n)
	}
	if fn := m.Body[2].Data.(*FunctionDef); fn.Name != "find" {
		t.Fatalf("ligature not normalized: %q", fn.Name)
	}
}
