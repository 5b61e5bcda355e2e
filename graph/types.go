// Package graph builds routing-ready projections of a loaded starmap.
// A Graph is immutable once built and is shared by reference among every
// search that runs against it.
package graph

import "github.com/sargonas/stellar-router/starmap"

// EdgeKind distinguishes how two systems are connected.
type EdgeKind int

const (
	// Gate edges come from the dataset's jump adjacency.
	Gate EdgeKind = iota
	// Spatial edges come from proximity in 3D space, independent of gates.
	Spatial
)

func (k EdgeKind) String() string {
	if k == Gate {
		return "gate"
	}
	return "spatial"
}

// Edge is one directed connection out of a node. Distance is in
// light-years; for Gate edges it is the Euclidean distance between the two
// systems' positions when both are known, else 0.
type Edge struct {
	Target   starmap.SystemId
	Distance float64
	Kind     EdgeKind
}

// Mode names which edge kinds a Graph carries.
type Mode int

const (
	ModeGate Mode = iota
	ModeSpatial
	ModeHybrid
)

// Graph is an adjacency projection of a Starmap: gate-only, spatial-only,
// or the union of both. Built once, read-only thereafter.
type Graph struct {
	Mode      Mode
	Neighbors map[starmap.SystemId][]Edge
}

// EdgesFrom returns the outgoing edges of u, or nil if u has none.
func (g *Graph) EdgesFrom(u starmap.SystemId) []Edge {
	return g.Neighbors[u]
}

// HasGateEdge reports whether v is reachable from u via a Gate edge in
// this graph. Path steps are classified against the starmap's adjacency
// by pathsearch.ClassifyStep, not by this method.
func (g *Graph) HasGateEdge(u, v starmap.SystemId) bool {
	for _, e := range g.Neighbors[u] {
		if e.Kind == Gate && e.Target == v {
			return true
		}
	}
	return false
}
