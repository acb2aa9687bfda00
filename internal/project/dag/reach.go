package dag

import (
	"github.com/cla7aye15I4nd/TypePython/internal/project"
)

// Reachable returns the loaded modules reachable from entry through
// imports, entry included, in id order.
func Reachable(g Graph, entry ModuleID) []ModuleID {
	seen := make([]bool, len(g.Edges))
	stack := []ModuleID{entry}
	seen[int(entry)] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, to := range g.Edges[int(id)] {
			if !seen[int(to)] && g.Present[int(to)] {
				seen[int(to)] = true
				stack = append(stack, to)
			}
		}
	}
	var out []ModuleID
	for i, ok := range seen {
		if ok && g.Present[i] {
			out = append(out, moduleID(i))
		}
	}
	return out
}

// ModuleHashes folds every module's content hash with the content hashes
// of everything it transitively imports, in id order. Import cycles need
// no special casing this way.
func ModuleHashes(g Graph, slots []ModuleSlot) {
	for i := range slots {
		slot := &slots[i]
		if !slot.Present {
			continue
		}
		id := moduleID(i)
		var deps []project.Digest
		for _, dep := range Reachable(g, id) {
			if dep != id {
				deps = append(deps, slots[int(dep)].Meta.ContentHash)
			}
		}
		slot.Meta.ModuleHash = project.Combine(slot.Meta.ContentHash, deps...)
	}
}
