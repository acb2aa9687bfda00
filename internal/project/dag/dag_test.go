package dag

import (
	"slices"
	"testing"

	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/project"
)

func meta(name string, imports ...string) project.ModuleMeta {
	m := project.ModuleMeta{Name: name, File: name + ".tpyast", ContentHash: project.HashContent([]byte(name))}
	for _, imp := range imports {
		m.Imports = append(m.Imports, project.ImportMeta{Module: imp})
	}
	return m
}

func idsToNames(idx ModuleIndex, ids []ModuleID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, idx.IDToName[int(id)])
	}
	return out
}

func build(t *testing.T, metas ...project.ModuleMeta) (ModuleIndex, Graph, []ModuleSlot, *diag.Bag) {
	t.Helper()
	idx := BuildIndex(metas)
	bag := diag.NewBag(10)
	g, slots := BuildGraph(idx, metas, diag.BagReporter{Bag: bag})
	return idx, g, slots, bag
}

func TestBuildIndexIncludesImports(t *testing.T) {
	idx := BuildIndex([]project.ModuleMeta{meta("main", "util", "ghost")})
	if want := []string{"ghost", "main", "util"}; !slices.Equal(idx.IDToName, want) {
		t.Fatalf("names = %v, want %v", idx.IDToName, want)
	}
	if id, ok := idx.Lookup("util"); !ok || id != 2 {
		t.Fatalf("util = %d, %v", id, ok)
	}
}

func TestToposortImportersFirst(t *testing.T) {
	idx, g, _, bag := build(t,
		meta("main", "a", "b"),
		meta("a", "c"),
		meta("b", "c"),
		meta("c"),
	)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatal("graph is acyclic")
	}
	if got, want := idsToNames(idx, topo.Order), []string{"main", "a", "b", "c"}; !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if len(topo.Batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(topo.Batches))
	}
}

func TestCyclesAreKept(t *testing.T) {
	idx, g, _, _ := build(t,
		meta("main", "a"),
		meta("a", "b"),
		meta("b", "a"),
	)
	topo := ToposortKahn(g)
	if !topo.Cyclic {
		t.Fatal("expected a cycle")
	}
	if got := idsToNames(idx, topo.Cycles); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("cycle = %v", got)
	}
	if len(topo.Order) != 3 {
		t.Fatalf("order drops cyclic modules: %v", idsToNames(idx, topo.Order))
	}
}

func TestReachableSkipsUnusedAndMissing(t *testing.T) {
	idx, g, _, _ := build(t,
		meta("main", "a", "ghost"),
		meta("a"),
		meta("unused"),
	)
	entry, _ := idx.Lookup("main")
	if got := idsToNames(idx, Reachable(g, entry)); !slices.Equal(got, []string{"a", "main"}) {
		t.Fatalf("reachable = %v", got)
	}
}

func TestDuplicateModule(t *testing.T) {
	dup := meta("a")
	dup.File = "other/a.tpyast"
	_, _, _, bag := build(t, meta("a"), dup)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ProjDuplicateModule {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestModuleHashesFollowImports(t *testing.T) {
	_, g, slots, _ := build(t, meta("main", "a"), meta("a", "b"), meta("b", "a"))
	ModuleHashes(g, slots)
	before := make([]project.Digest, len(slots))
	for i := range slots {
		before[i] = slots[i].Meta.ModuleHash
	}

	changed := meta("b", "a")
	changed.ContentHash = project.HashContent([]byte("b v2"))
	idx, g, slots, _ := build(t, meta("main", "a"), meta("a", "b"), changed)
	ModuleHashes(g, slots)
	for _, name := range []string{"main", "a", "b"} {
		id, _ := idx.Lookup(name)
		if slots[int(id)].Meta.ModuleHash == before[int(id)] {
			t.Errorf("hash of %s did not change", name)
		}
	}
}
