package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type Topo struct {
	Order   []NodeID   // зависимости раньше импортирующих; циклы в конце
	Batches [][]NodeID // волны независимых файлов
	Cyclic  bool
	Cycles  []NodeID // узлы, входящие в циклы
}

func nodeID(i int) NodeID {
	id, err := safecast.Conv[NodeID](i)
	if err != nil {
		panic(fmt.Errorf("node id overflow: %w", err))
	}
	return id
}

// ToposortKahn orders files so that every file comes after the files it
// imports. Files left over by a cycle are appended in index order.
func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Deps)
	pending := make([]int, nodeCount)
	copy(pending, g.Pending)

	topo := &Topo{
		Order:   make([]NodeID, 0, nodeCount),
		Batches: make([][]NodeID, 0),
	}

	current := make([]NodeID, 0, nodeCount)
	for i := range nodeCount {
		if pending[i] == 0 {
			current = append(current, nodeID(i))
		}
	}

	done := make([]bool, nodeCount)
	for len(current) > 0 {
		batch := make([]NodeID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]NodeID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			done[id] = true
			for _, from := range g.Dependents[int(id)] {
				pending[int(from)]--
				if pending[int(from)] == 0 {
					next = append(next, from)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) == nodeCount {
		return topo
	}
	topo.Cyclic = true
	for i := range nodeCount {
		if !done[i] {
			topo.Order = append(topo.Order, nodeID(i))
		}
	}
	topo.Cycles = cycleMembers(g, done)
	return topo
}

// cycleMembers peels off leftover files that no other leftover file
// imports; what remains lies on a cycle.
func cycleMembers(g Graph, done []bool) []NodeID {
	left := slices.Clone(done)
	importers := make([]int, len(g.Deps))
	for i := range g.Deps {
		if left[i] {
			continue
		}
		for _, to := range g.Deps[i] {
			if !left[int(to)] {
				importers[int(to)]++
			}
		}
	}
	queue := make([]int, 0)
	for i := range importers {
		if !left[i] && importers[i] == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		left[i] = true
		for _, to := range g.Deps[i] {
			if left[int(to)] {
				continue
			}
			importers[int(to)]--
			if importers[int(to)] == 0 {
				queue = append(queue, int(to))
			}
		}
	}
	var out []NodeID
	for i := range left {
		if !left[i] {
			out = append(out, nodeID(i))
		}
	}
	return out
}
