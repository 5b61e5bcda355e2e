package pathsearch

import (
	"github.com/sargonas/stellar-router/graph"
	"github.com/sargonas/stellar-router/starmap"
)

// AStar finds the minimum-distance path from start to goal using the
// Euclidean distance to goal as an admissible heuristic. Fuel-weighted
// search falls back to plain Dijkstra: fuel cost is not Euclidean-
// dominated, so the heuristic would not be admissible in that mode.
func AStar(g *graph.Graph, sm *starmap.Starmap, start, goal starmap.SystemId, c Constraints, mode WeightMode, fc *FuelContext) (*Result, error) {
	if mode == WeightFuel {
		return dijkstraSearch(g, sm, start, goal, c, mode, fc, AlgorithmAStar, nil)
	}
	heuristic := euclideanHeuristic(sm, goal)
	return dijkstraSearch(g, sm, start, goal, c, mode, fc, AlgorithmAStar, heuristic)
}
