package graph

import (
	"sort"

	"github.com/sargonas/stellar-router/starmap"
)

// DefaultMaxSpatialNeighbors is the per-node spatial-neighbor cap applied
// when a caller does not specify one. It bounds memory at O(n · cap) for
// the spatial and hybrid graphs.
const DefaultMaxSpatialNeighbors = 250

// NeighborResult is one spatial-proximity match: a system id and its
// Euclidean distance (light-years) from the query point.
type NeighborResult struct {
	ID       starmap.SystemId
	Distance float64
}

// SpatialNeighbors is satisfied by a spatial index capable of returning a
// system's nearest neighbors. A transient brute-force implementation is
// used when the caller supplies none.
type SpatialNeighbors interface {
	Nearest(pos starmap.SystemPosition, k int) []NeighborResult
}

type buildOptions struct {
	includeGates        bool
	includeSpatial      bool
	maxSpatialNeighbors int
	index               SpatialNeighbors
}

// BuildGateGraph includes only dataset jump (Gate) adjacency.
func BuildGateGraph(sm *starmap.Starmap) *Graph {
	g := build(sm, buildOptions{includeGates: true})
	g.Mode = ModeGate
	return g
}

// BuildSpatialGraph includes only proximity (Spatial) edges, querying index
// when supplied and falling back to brute-force k-NN otherwise.
// maxSpatialNeighbors <= 0 uses DefaultMaxSpatialNeighbors.
func BuildSpatialGraph(sm *starmap.Starmap, index SpatialNeighbors, maxSpatialNeighbors int) *Graph {
	if maxSpatialNeighbors <= 0 {
		maxSpatialNeighbors = DefaultMaxSpatialNeighbors
	}
	g := build(sm, buildOptions{includeSpatial: true, maxSpatialNeighbors: maxSpatialNeighbors, index: index})
	g.Mode = ModeSpatial
	return g
}

// BuildHybridGraph includes both Gate and Spatial edges; when both exist
// between the same pair, both are kept (search breaks ties on distance).
func BuildHybridGraph(sm *starmap.Starmap, index SpatialNeighbors, maxSpatialNeighbors int) *Graph {
	if maxSpatialNeighbors <= 0 {
		maxSpatialNeighbors = DefaultMaxSpatialNeighbors
	}
	g := build(sm, buildOptions{includeGates: true, includeSpatial: true, maxSpatialNeighbors: maxSpatialNeighbors, index: index})
	g.Mode = ModeHybrid
	return g
}

func build(sm *starmap.Starmap, opts buildOptions) *Graph {
	neighbors := make(map[starmap.SystemId][]Edge)

	if opts.includeGates {
		for u, adj := range sm.Adjacency {
			uSys := sm.Systems[u]
			for _, v := range adj {
				if v == u {
					continue // no self-loops
				}
				dist := 0.0
				vSys, ok := sm.Systems[v]
				if ok && uSys.Position != nil && vSys.Position != nil {
					dist = uSys.Position.DistanceTo(*vSys.Position)
				}
				neighbors[u] = append(neighbors[u], Edge{Target: v, Distance: dist, Kind: Gate})
			}
		}
	}

	if opts.includeSpatial {
		addSpatialEdges(sm, opts, neighbors)
	}

	return &Graph{Neighbors: neighbors}
}

func addSpatialEdges(sm *starmap.Starmap, opts buildOptions, neighbors map[starmap.SystemId][]Edge) {
	emitted := make(map[starmap.SystemId]map[starmap.SystemId]struct{})
	ensure := func(u starmap.SystemId) map[starmap.SystemId]struct{} {
		set, ok := emitted[u]
		if !ok {
			set = make(map[starmap.SystemId]struct{})
			emitted[u] = set
		}
		return set
	}
	addEdge := func(u, v starmap.SystemId, dist float64) {
		if u == v {
			return
		}
		if _, already := ensure(u)[v]; already {
			return
		}
		ensure(u)[v] = struct{}{}
		neighbors[u] = append(neighbors[u], Edge{Target: v, Distance: dist, Kind: Spatial})
	}

	index := opts.index
	if index == nil {
		index = bruteForceIndex{sm: sm}
	}

	for id, sys := range sm.Systems {
		if sys.Position == nil {
			continue
		}
		matches := index.Nearest(*sys.Position, opts.maxSpatialNeighbors+1)
		count := 0
		for _, m := range matches {
			if m.ID == id {
				continue
			}
			if count >= opts.maxSpatialNeighbors {
				break
			}
			addEdge(id, m.ID, m.Distance)
			count++
		}
	}

	// Enforce symmetry: if (u, v) was emitted but the query from v never
	// returned u (e.g. v has more candidates than the cap), add the
	// reverse edge explicitly so every spatial edge is traversable both
	// ways.
	for u, targets := range emitted {
		for v := range targets {
			if _, ok := emitted[v][u]; ok {
				continue
			}
			uSys, vSys := sm.Systems[u], sm.Systems[v]
			dist := 0.0
			if uSys.Position != nil && vSys.Position != nil {
				dist = uSys.Position.DistanceTo(*vSys.Position)
			}
			addEdge(v, u, dist)
		}
	}
}

// bruteForceIndex answers spatial-neighbor queries by scanning every
// positioned system, used when the caller supplies no spatial index.
type bruteForceIndex struct {
	sm *starmap.Starmap
}

func (b bruteForceIndex) Nearest(pos starmap.SystemPosition, k int) []NeighborResult {
	if k <= 0 {
		return nil
	}
	results := make([]NeighborResult, 0, len(b.sm.Systems))
	for id, sys := range b.sm.Systems {
		if sys.Position == nil {
			continue
		}
		results = append(results, NeighborResult{ID: id, Distance: pos.DistanceTo(*sys.Position)})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}
