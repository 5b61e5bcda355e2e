package pathsearch

import (
	"github.com/sargonas/stellar-router/graph"
	"github.com/sargonas/stellar-router/starmap"
)

// BFS finds the fewest-hops path from start to goal, ignoring edge
// distance entirely. Ties are broken by discovery order: the first
// neighbour enumerated wins. Returns a nil Result if goal is unreachable.
func BFS(g *graph.Graph, sm *starmap.Starmap, start, goal starmap.SystemId, c Constraints) *Result {
	if start == goal {
		return &Result{Algorithm: AlgorithmBFS, Steps: []starmap.SystemId{start}}
	}

	visited := map[starmap.SystemId]struct{}{start: {}}
	prev := make(map[starmap.SystemId]starmap.SystemId)
	queue := []starmap.SystemId{start}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, e := range enumerate(g, sm, u, c) {
			if _, seen := visited[e.Target]; seen {
				continue
			}
			visited[e.Target] = struct{}{}
			prev[e.Target] = u
			if e.Target == goal {
				steps := backtrace(prev, start, goal)
				if steps == nil {
					return nil
				}
				return &Result{Algorithm: AlgorithmBFS, Steps: steps}
			}
			queue = append(queue, e.Target)
		}
	}

	return nil
}
