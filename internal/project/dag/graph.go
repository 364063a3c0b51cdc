package dag

import (
	"slices"
	"strings"

	"ojc/internal/diag"
	"ojc/internal/project"
	"ojc/internal/source"
)

type Graph struct {
	Deps       [][]NodeID // Deps[file] = импортируемые файлы батча
	Dependents [][]NodeID // обратные рёбра
	Pending    []int      // число ещё не упорядоченных зависимостей (для Kahn)
	// ImportSpan[file][dep] is the first @import of dep in file.
	ImportSpan []map[NodeID]source.Span
}

// BuildGraph links every local @import that names another file of the
// batch. Self-imports and repeated imports add no edge.
func BuildGraph(idx Index, metas []project.FileMeta) Graph {
	n := len(idx.IDToName)
	g := Graph{
		Deps:       make([][]NodeID, n),
		Dependents: make([][]NodeID, n),
		Pending:    make([]int, n),
		ImportSpan: make([]map[NodeID]source.Span, n),
	}
	for _, meta := range metas {
		from, ok := idx.NameToID[meta.Path]
		if !ok || g.ImportSpan[from] != nil {
			continue
		}
		g.ImportSpan[from] = make(map[NodeID]source.Span, len(meta.Imports))
		for _, imp := range meta.Imports {
			if !imp.Local {
				continue
			}
			to, ok := idx.NameToID[imp.Path]
			if !ok || to == from {
				continue
			}
			if _, dup := g.ImportSpan[from][to]; dup {
				continue
			}
			g.ImportSpan[from][to] = imp.Span
			g.Deps[from] = append(g.Deps[from], to)
			g.Dependents[to] = append(g.Dependents[to], from)
			g.Pending[from]++
		}
		slices.Sort(g.Deps[from])
	}
	for i := range g.Dependents {
		slices.Sort(g.Dependents[i])
	}
	return g
}

// ReportCycles warns once per file caught in an import cycle, at its first
// import of another cycle member.
func ReportCycles(idx Index, g Graph, topo *Topo, r diag.Reporter) {
	if topo == nil || !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	member := make(map[NodeID]bool, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
		member[id] = true
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		var span source.Span
		found := false
		for _, dep := range g.Deps[int(id)] {
			if member[dep] {
				span, found = g.ImportSpan[int(id)][dep], true
				break
			}
		}
		if !found {
			continue
		}
		_ = diag.ReportWarning(r, diag.ProjImportCycle, span,
			"%q participates in an import cycle: %s", idx.IDToName[int(id)], summary).Emit()
	}
}
