package symbols

import (
	"testing"

	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

func TestListSpecializationSharing(t *testing.T) {
	table := NewTable()
	ints := table.List(uir.Int)
	strs := table.List(table.StrType())
	if ints == strs {
		t.Fatalf("list[int] and list[str] share class %d", ints)
	}
	if again := table.List(uir.Int); again != ints {
		t.Fatalf("get-or-create returned %d, want %d", again, ints)
	}

	for _, name := range []string{"append", "__getitem__", "__setitem__", "__iter__"} {
		a, _ := table.OwnMethod(ints, name)
		b, _ := table.OwnMethod(strs, name)
		if a.Func == b.Func {
			t.Errorf("unique method %s shares function %d", name, a.Func)
		}
	}
	for _, name := range []string{"__len__", "__str__", "__repr__"} {
		a, _ := table.OwnMethod(ints, name)
		b, _ := table.OwnMethod(strs, name)
		if a.Func != b.Func {
			t.Errorf("shared method %s: %d vs %d", name, a.Func, b.Func)
		}
	}

	ref, _ := table.OwnMethod(ints, "append")
	fn := table.Func(ref.Func)
	if fn.RuntimeName != "__pyc___builtin___list_append" {
		t.Errorf("runtime name = %q", fn.RuntimeName)
	}
	if len(fn.Params) != 1 || fn.Params[0].Type != uir.Int {
		t.Errorf("append params = %+v", fn.Params)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLayoutStability(t *testing.T) {
	table := NewTable()
	mod := table.RegisterModule("main", nil)
	a, _ := table.AddClass(mod, "A", "", nil, source.Span{})
	b, _ := table.AddClass(mod, "B", "A", nil, source.Span{})
	c, _ := table.AddClass(mod, "C", "B", nil, source.Span{})
	table.SetParent(b, a)
	table.SetParent(c, b)
	table.AddField(a, "x", uir.Int)
	table.AddField(b, "y", uir.Bool)
	table.AddField(c, "z", uir.Float)
	for _, id := range []tir.ClassID{c, b, a} {
		table.FinalizeLayout(id)
	}

	want := map[string]tir.FieldID{"x": 0, "y": 1, "z": 2}
	for name, slot := range want {
		got, _, ok := table.FieldByName(c, name)
		if !ok || got != slot {
			t.Errorf("C.%s = %d, want %d", name, got, slot)
		}
	}
	// A parent's own field keeps its parent slot in every descendant.
	parent := table.Class(b)
	for i, f := range parent.Fields {
		inParent, _, _ := table.FieldByName(b, f.Name)
		inChild, _, _ := table.FieldByName(c, f.Name)
		if int(inParent) != len(parent.InheritedFields)+i || inChild != inParent {
			t.Errorf("field %s: parent %d child %d", f.Name, inParent, inChild)
		}
	}
	if got := table.Class(c).InheritedFields; len(got) != 2 || got[0].Name != "x" || got[1].Name != "y" {
		t.Errorf("inherited fields = %+v", got)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestMethodResolution(t *testing.T) {
	table := NewTable()
	mod := table.RegisterModule("main", nil)
	a, _ := table.AddClass(mod, "A", "", nil, source.Span{})
	b, _ := table.AddClass(mod, "B", "A", nil, source.Span{})
	table.SetParent(b, a)
	fa, _ := table.AddMethod(a, "speak", nil)
	fb, _ := table.AddMethod(b, "speak", nil)
	only, _ := table.AddMethod(a, "only_a", nil)

	if ref, ok := table.ResolveMethod(b, "speak"); !ok || ref.Func != fb {
		t.Errorf("B.speak = %+v", ref)
	}
	if ref, ok := table.SuperMethod(b, "speak"); !ok || ref.Func != fa {
		t.Errorf("super().speak = %+v", ref)
	}
	if ref, ok := table.ResolveMethod(b, "only_a"); !ok || ref.Func != only || ref.Owner != a {
		t.Errorf("B.only_a = %+v", ref)
	}
	if _, ok := table.SuperMethod(a, "speak"); ok {
		t.Error("A has no parent")
	}
}

func TestExceptionHierarchy(t *testing.T) {
	table := NewTable()
	stop := table.StopIteration()
	exc := table.Exception()
	if !table.IsExceptionSubclass(stop) {
		t.Error("StopIteration should derive from Exception")
	}
	if table.IsExceptionSubclass(exc) || !table.IsException(exc) {
		t.Error("Exception is an exception but not its own subclass")
	}
	if table.IsException(table.Str()) {
		t.Error("str is not an exception")
	}
}

func TestSpecializeAliasesEqualClass(t *testing.T) {
	table := NewTable()
	ints := table.List(uir.Int)
	v := table.FreshVar()
	pending := table.List(v)
	if table.Class(pending).Settled() {
		t.Fatal("list[?] must be unsettled")
	}
	iter := table.ListIterator(v)
	if got := table.Unsettled(); len(got) != 2 {
		t.Fatalf("unsettled = %v", got)
	}

	if got := table.Specialize(pending, []uir.Type{uir.Int}); got != ints {
		t.Fatalf("specialize returned %d, want %d", got, ints)
	}
	if table.Canonical(pending) != ints {
		t.Fatal("pending class not aliased")
	}
	pAppend, _ := table.OwnMethod(pending, "append")
	iAppend, _ := table.OwnMethod(ints, "append")
	if table.CanonicalFunc(pAppend.Func) != iAppend.Func {
		t.Fatal("unique method not aliased")
	}
	if fn := table.Func(pAppend.Func); fn.Params[0].Type != uir.Int {
		t.Fatalf("append param = %s", fn.Params[0].Type)
	}

	// list[int] already brought list_iterator[int] along.
	if canon := table.Specialize(iter, []uir.Type{uir.Int}); canon != table.ListIterator(uir.Int) {
		t.Fatalf("iterator canonical = %d", canon)
	}
	if got := table.Unsettled(); len(got) != 0 {
		t.Fatalf("still unsettled: %v", got)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
