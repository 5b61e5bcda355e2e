package pathsearch

import (
	"testing"

	"github.com/sargonas/stellar-router/graph"
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

// line fixture: 1 -2- 3 -4- 5, gate chain, positions on the X axis.
func lineFixture(t *testing.T) (*starmap.Starmap, *graph.Graph) {
	t.Helper()
	sm := &starmap.Starmap{
		Systems: map[starmap.SystemId]starmap.System{
			1: {ID: 1, Name: "A", Position: mustPos(t, 0, 0, 0)},
			2: {ID: 2, Name: "B", Position: mustPos(t, 1, 0, 0)},
			3: {ID: 3, Name: "C", Position: mustPos(t, 2, 0, 0)},
			4: {ID: 4, Name: "D", Position: mustPos(t, 3, 0, 0)},
			5: {ID: 5, Name: "E", Position: mustPos(t, 4, 0, 0)},
		},
		Adjacency: map[starmap.SystemId][]starmap.SystemId{
			1: {2}, 2: {1, 3}, 3: {2, 4}, 4: {3, 5}, 5: {4},
		},
	}
	return sm, graph.BuildGateGraph(sm)
}

func TestBFSFindsPath(t *testing.T) {
	sm, g := lineFixture(t)
	result := BFS(g, sm, 1, 5, Constraints{})
	if result == nil {
		t.Fatalf("expected a path")
	}
	want := []starmap.SystemId{1, 2, 3, 4, 5}
	if !equalSteps(result.Steps, want) {
		t.Errorf("BFS steps = %v, want %v", result.Steps, want)
	}
}

func TestBFSSameStartGoal(t *testing.T) {
	sm, g := lineFixture(t)
	result := BFS(g, sm, 1, 1, Constraints{})
	if result == nil || len(result.Steps) != 1 || result.Steps[0] != 1 {
		t.Fatalf("expected a single-step result for start == goal, got %v", result)
	}
}

func TestBFSUnreachable(t *testing.T) {
	sm, g := lineFixture(t)
	avoided := map[starmap.SystemId]struct{}{3: {}}
	result := BFS(g, sm, 1, 5, Constraints{AvoidedSystems: avoided})
	if result != nil {
		t.Errorf("expected nil when the only path is blocked, got %v", result)
	}
}

func TestDijkstraDistanceMode(t *testing.T) {
	sm, g := lineFixture(t)
	result, err := Dijkstra(g, sm, 1, 5, Constraints{}, WeightDistance, nil)
	if err != nil {
		t.Fatalf("Dijkstra: %v", err)
	}
	if result == nil {
		t.Fatalf("expected a path")
	}
	want := []starmap.SystemId{1, 2, 3, 4, 5}
	if !equalSteps(result.Steps, want) {
		t.Errorf("Dijkstra steps = %v, want %v", result.Steps, want)
	}
}

func TestAStarMatchesDijkstraOnDistance(t *testing.T) {
	sm, g := lineFixture(t)
	astarResult, err := AStar(g, sm, 1, 5, Constraints{}, WeightDistance, nil)
	if err != nil {
		t.Fatalf("AStar: %v", err)
	}
	dijkstraResult, err := Dijkstra(g, sm, 1, 5, Constraints{}, WeightDistance, nil)
	if err != nil {
		t.Fatalf("Dijkstra: %v", err)
	}
	if !equalSteps(astarResult.Steps, dijkstraResult.Steps) {
		t.Errorf("A* and Dijkstra disagree: %v vs %v", astarResult.Steps, dijkstraResult.Steps)
	}
}

func TestMaxTemperatureFailOpen(t *testing.T) {
	sm, g := lineFixture(t)
	hot := 50.0
	sys3 := sm.Systems[3]
	sys3.Metadata.MinExternalTemp = &hot
	sm.Systems[3] = sys3

	limit := 40.0
	result := BFS(g, sm, 1, 5, Constraints{MaxTemperature: &limit})
	if result != nil {
		t.Errorf("expected system 3 (temp 50 > limit 40) to be excluded, got %v", result)
	}

	// system 4 has no temperature data at all: must not be excluded
	// (fail-open).
	result2 := BFS(g, sm, 3, 5, Constraints{MaxTemperature: &limit, AvoidedSystems: map[starmap.SystemId]struct{}{}})
	if result2 == nil {
		t.Fatal("expected a path through system 4 despite missing temperature data")
	}
	found4 := false
	for _, id := range result2.Steps {
		if id == 4 {
			found4 = true
		}
	}
	if !found4 {
		t.Errorf("expected path to pass through system 4, got %v", result2.Steps)
	}
	if result2.Steps[len(result2.Steps)-1] != 5 {
		t.Errorf("expected path to reach system 5, got %v", result2.Steps)
	}
}

func TestAvoidGatesExcludesGateEdges(t *testing.T) {
	sm, g := lineFixture(t)
	result := BFS(g, sm, 1, 5, Constraints{AvoidGates: true})
	if result != nil {
		t.Errorf("expected no path when gates are avoided and only gate edges exist, got %v", result)
	}
}

func TestClassifyStep(t *testing.T) {
	sm, _ := lineFixture(t)
	if ClassifyStep(sm, 1, 2) != MethodGate {
		t.Errorf("expected 1->2 to classify as gate")
	}
	if ClassifyStep(sm, 1, 3) != MethodJump {
		t.Errorf("expected 1->3 (no direct adjacency) to classify as jump")
	}
}

func equalSteps(got, want []starmap.SystemId) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
