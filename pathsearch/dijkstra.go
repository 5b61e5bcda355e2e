package pathsearch

import (
	"container/heap"

	"github.com/sargonas/stellar-router/fuel"
	"github.com/sargonas/stellar-router/graph"
	"github.com/sargonas/stellar-router/shipcat"
	"github.com/sargonas/stellar-router/starmap"
)

// WeightMode selects what a Dijkstra/A* edge weight represents.
type WeightMode int

const (
	// WeightDistance weighs every edge by its Euclidean distance.
	WeightDistance WeightMode = iota
	// WeightFuel weighs every edge by its fuel hop cost under a static
	// mass model; Gate edges always cost 0 in this mode.
	WeightFuel
)

// FuelContext supplies the ship, loadout, and fuel configuration a
// fuel-weighted search needs to cost each edge.
type FuelContext struct {
	Ship       shipcat.ShipAttributes
	Loadout    shipcat.ShipLoadout
	FuelConfig fuel.Config
}

func edgeWeight(e graph.Edge, mode WeightMode, fc *FuelContext) (float64, error) {
	if mode == WeightDistance || fc == nil {
		return e.Distance, nil
	}
	if e.Kind == graph.Gate {
		return 0, nil
	}
	mass := fc.Loadout.TotalMassKG(fc.Ship)
	return fuel.JumpCost(mass, e.Distance, fc.FuelConfig)
}

// dijkstraItem is one entry in the lazy-decrease-key priority queue: a
// candidate distance to a vertex, possibly stale.
type dijkstraItem struct {
	id   starmap.SystemId
	dist float64
	seq  int // insertion order, breaks ties deterministically
}

type dijkstraHeap []*dijkstraItem

func (h dijkstraHeap) Len() int { return len(h) }
func (h dijkstraHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].seq < h[j].seq
}
func (h dijkstraHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *dijkstraHeap) Push(x interface{}) { *h = append(*h, x.(*dijkstraItem)) }
func (h *dijkstraHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Dijkstra finds the minimum-weight path from start to goal. mode selects
// whether edges are weighted by distance or by fuel cost (fc required for
// WeightFuel); gate edges always cost 0 fuel. Ties are broken by insertion
// order. Returns nil if goal is unreachable.
func Dijkstra(g *graph.Graph, sm *starmap.Starmap, start, goal starmap.SystemId, c Constraints, mode WeightMode, fc *FuelContext) (*Result, error) {
	return dijkstraSearch(g, sm, start, goal, c, mode, fc, AlgorithmDijkstra, nil)
}

// dijkstraSearch is the shared frontier used by both Dijkstra and A*; a
// non-nil heuristic turns it into A*.
func dijkstraSearch(g *graph.Graph, sm *starmap.Starmap, start, goal starmap.SystemId, c Constraints, mode WeightMode, fc *FuelContext, algo Algorithm, heuristic func(starmap.SystemId) float64) (*Result, error) {
	if start == goal {
		return &Result{Algorithm: algo, Steps: []starmap.SystemId{start}}, nil
	}

	dist := map[starmap.SystemId]float64{start: 0}
	prev := make(map[starmap.SystemId]starmap.SystemId)
	visited := make(map[starmap.SystemId]bool)

	pq := &dijkstraHeap{}
	heap.Init(pq)
	seq := 0
	push := func(id starmap.SystemId, d float64) {
		seq++
		heap.Push(pq, &dijkstraItem{id: id, dist: d, seq: seq})
	}
	priority := func(id starmap.SystemId, g float64) float64 {
		if heuristic == nil {
			return g
		}
		return g + heuristic(id)
	}
	push(start, priority(start, 0))

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*dijkstraItem)
		u := item.id
		if visited[u] {
			continue
		}
		visited[u] = true
		if u == goal {
			steps := backtrace(prev, start, goal)
			if steps == nil {
				return nil, nil
			}
			return &Result{Algorithm: algo, Steps: steps}, nil
		}

		for _, e := range enumerate(g, sm, u, c) {
			w, err := edgeWeight(e, mode, fc)
			if err != nil {
				return nil, err
			}
			candidate := dist[u] + w
			if existing, ok := dist[e.Target]; ok && candidate >= existing {
				continue
			}
			dist[e.Target] = candidate
			prev[e.Target] = u
			push(e.Target, priority(e.Target, candidate))
		}
	}

	return nil, nil
}

// euclideanHeuristic returns a function giving the straight-line distance
// from a system to goal when both have positions, else 0 (admissible).
func euclideanHeuristic(sm *starmap.Starmap, goal starmap.SystemId) func(starmap.SystemId) float64 {
	goalSys, ok := sm.Systems[goal]
	if !ok || goalSys.Position == nil {
		return func(starmap.SystemId) float64 { return 0 }
	}
	goalPos := *goalSys.Position
	return func(id starmap.SystemId) float64 {
		sys, ok := sm.Systems[id]
		if !ok || sys.Position == nil {
			return 0
		}
		return sys.Position.DistanceTo(goalPos)
	}
}
