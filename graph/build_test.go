package graph

import (
	"testing"

	"github.com/sargonas/stellar-router/starmap"
)

func mustPos(t *testing.T, x, y, z float64) *starmap.SystemPosition {
	t.Helper()
	p, err := starmap.NewSystemPosition(x, y, z)
	if err != nil {
		t.Fatalf("NewSystemPosition: %v", err)
	}
	return &p
}

func fixtureStarmap(t *testing.T) *starmap.Starmap {
	t.Helper()
	sm := &starmap.Starmap{
		Systems: map[starmap.SystemId]starmap.System{
			1: {ID: 1, Name: "Alpha", Position: mustPos(t, 0, 0, 0)},
			2: {ID: 2, Name: "Bravo", Position: mustPos(t, 1, 0, 0)},
			3: {ID: 3, Name: "Charlie", Position: mustPos(t, 10, 0, 0)},
			4: {ID: 4, Name: "Delta", Position: nil},
		},
		Adjacency: map[starmap.SystemId][]starmap.SystemId{
			1: {2},
			2: {1, 4},
			4: {2},
		},
	}
	return sm
}

func TestBuildGateGraphNoSelfLoops(t *testing.T) {
	sm := fixtureStarmap(t)
	g := BuildGateGraph(sm)
	for u, edges := range g.Neighbors {
		for _, e := range edges {
			if e.Target == u {
				t.Errorf("unexpected self-loop at %d", u)
			}
		}
	}
	edges := g.EdgesFrom(1)
	if len(edges) != 1 || edges[0].Target != 2 || edges[0].Kind != Gate {
		t.Fatalf("unexpected edges from Alpha: %+v", edges)
	}
	if edges[0].Distance <= 0 {
		t.Errorf("expected positive distance between positioned systems, got %v", edges[0].Distance)
	}
}

func TestBuildSpatialGraphCapAndSymmetry(t *testing.T) {
	sm := fixtureStarmap(t)
	g := BuildSpatialGraph(sm, nil, 1)

	alphaEdges := g.EdgesFrom(1)
	if len(alphaEdges) != 1 {
		t.Fatalf("expected the cap to limit Alpha to 1 spatial neighbour, got %d", len(alphaEdges))
	}
	if alphaEdges[0].Target != 2 {
		t.Errorf("expected Alpha's nearest neighbour to be Bravo, got %d", alphaEdges[0].Target)
	}

	// Charlie is farthest from everyone; confirm it still gets a symmetric
	// edge back from whichever node it was matched to, even though it may
	// not appear within their own capped top-1.
	for u, edges := range g.Neighbors {
		for _, e := range edges {
			reciprocal := false
			for _, back := range g.Neighbors[e.Target] {
				if back.Target == u {
					reciprocal = true
					break
				}
			}
			if !reciprocal {
				t.Errorf("edge %d -> %d has no reciprocal", u, e.Target)
			}
		}
	}
}

func TestBuildHybridGraphUnion(t *testing.T) {
	sm := fixtureStarmap(t)
	g := BuildHybridGraph(sm, nil, 250)

	var gateCount, spatialCount int
	for _, edges := range g.Neighbors {
		for _, e := range edges {
			if e.Kind == Gate {
				gateCount++
			} else {
				spatialCount++
			}
		}
	}
	if gateCount == 0 || spatialCount == 0 {
		t.Fatalf("expected both gate and spatial edges in the hybrid graph, got gate=%d spatial=%d", gateCount, spatialCount)
	}
}

func TestHasGateEdge(t *testing.T) {
	sm := fixtureStarmap(t)
	g := BuildGateGraph(sm)
	if !g.HasGateEdge(1, 2) {
		t.Errorf("expected a gate edge from Alpha to Bravo")
	}
	if g.HasGateEdge(1, 3) {
		t.Errorf("did not expect a gate edge from Alpha to Charlie")
	}
}
