package dag

import (
	"fmt"
	"slices"

	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/project"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
)

type Graph struct {
	Edges   [][]ModuleID // Edges[from] = []to
	Indeg   []int        // входящие степени для Kahn (учитывает только присутствующие модули)
	Present []bool       // признак, что модуль реально загружен (а не только импортируется)
}

// ModuleSlot is the per-id view of the graph.
type ModuleSlot struct {
	Meta    project.ModuleMeta
	Present bool
}

// BuildGraph links every loaded module to the modules it imports. A module
// loaded twice is reported once per extra copy. Imports of modules that
// were never loaded stay in Edges so callers can see them; lowering
// reports them with their source position.
func BuildGraph(idx ModuleIndex, metas []project.ModuleMeta, rep diag.Reporter) (Graph, []ModuleSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]ModuleSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Name = name
	}

	for _, meta := range metas {
		id, ok := idx.NameToID[meta.Name]
		if !ok {
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			diag.ReportError(rep, diag.ProjDuplicateModule, meta.Name, source.Span{},
				fmt.Sprintf("module %s is loaded from both %s and %s", meta.Name, slot.Meta.File, meta.File)).Emit()
			continue
		}
		slot.Meta = meta
		slot.Present = true
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			toID, ok := idx.NameToID[dep.Module]
			// A module importing itself adds no ordering constraint.
			if !ok || ModuleID(from) == toID {
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}
			g.Edges[from] = append(g.Edges[from], toID)
			if g.Present[int(toID)] {
				g.Indeg[int(toID)]++
			}
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}

	return g, slots
}
