// Package planner orchestrates a single routing request end to end: name
// resolution with fuzzy suggestions, constraint translation, graph
// selection, algorithm dispatch, and edge classification of the result.
package planner

import (
	"github.com/sargonas/stellar-router/diagnostics"
	"github.com/sargonas/stellar-router/fuel"
	"github.com/sargonas/stellar-router/graph"
	"github.com/sargonas/stellar-router/heat"
	"github.com/sargonas/stellar-router/pathsearch"
	"github.com/sargonas/stellar-router/routeerr"
	"github.com/sargonas/stellar-router/shipcat"
	"github.com/sargonas/stellar-router/starmap"
)

var planLog = diagnostics.WithComponent("planner")

// transientIndexWarnThreshold is the positioned-system count above which
// building a throwaway spatial index for a single request is logged as a
// cost warning, so a caller knows to pass a persistent index instead.
const transientIndexWarnThreshold = 2000

// Optimization selects what a weighted search minimizes.
type Optimization int

const (
	OptimizeDistance Optimization = iota
	OptimizeFuel
)

// RouteConstraints narrows the systems and edges a route may use. The zero
// value does NOT enable avoid_critical_state; use DefaultRouteConstraints
// to get the engine's default (critical-state avoidance on).
type RouteConstraints struct {
	MaxJump            *float64
	AvoidSystems       []string
	AvoidGates         bool
	MaxTemperature     *float64
	AvoidCriticalState bool
	Ship               *shipcat.ShipAttributes
	Loadout            *shipcat.ShipLoadout
	HeatConfig         *heat.Config
}

// DefaultRouteConstraints returns the engine's default constraints: no
// avoided systems, no caps, and critical-state avoidance enabled.
func DefaultRouteConstraints() RouteConstraints {
	return RouteConstraints{AvoidCriticalState: true}
}

// Request is a single routing request.
type Request struct {
	Start, Goal         string
	Algorithm           pathsearch.Algorithm
	Constraints         RouteConstraints
	SpatialIndex        graph.SpatialNeighbors
	MaxSpatialNeighbors int
	Optimization        Optimization
	FuelConfig          fuel.Config
}

// RoutePlan is the raw result of a search: resolved ids, the step sequence,
// and a gate/jump split of its hops.
type RoutePlan struct {
	Algorithm pathsearch.Algorithm
	Start     starmap.SystemId
	Goal      starmap.SystemId
	Steps     []starmap.SystemId
	Gates     int
	Jumps     int
}

// Planner wraps a loaded starmap and an optional persistent spatial index,
// the same dependency-injected-struct shape as the engine's other
// service-facing types. A Planner is safe to reuse across many requests;
// its SpatialIndex amortizes the per-request cost a transient index would
// otherwise incur (see spatialIndexOrWarn).
type Planner struct {
	Starmap      *starmap.Starmap
	SpatialIndex graph.SpatialNeighbors
}

// NewPlanner builds a Planner over sm, optionally backed by a persistent
// spatial index. index may be nil; PlanRoute then builds a transient one
// per request that needs spatial edges.
func NewPlanner(sm *starmap.Starmap, index graph.SpatialNeighbors) *Planner {
	return &Planner{Starmap: sm, SpatialIndex: index}
}

// PlanRoute plans req against the Planner's starmap, falling back to the
// Planner's SpatialIndex when req.SpatialIndex is unset.
func (p *Planner) PlanRoute(req Request) (*RoutePlan, error) {
	if req.SpatialIndex == nil {
		req.SpatialIndex = p.SpatialIndex
	}
	return PlanRoute(p.Starmap, req)
}

// PlanRoute resolves start/goal and avoid_systems by name, selects a graph
// projection appropriate to the request, dispatches to the requested
// algorithm, and classifies the resulting path's hops.
func PlanRoute(sm *starmap.Starmap, req Request) (*RoutePlan, error) {
	startID, err := resolveSystem(sm, req.Start)
	if err != nil {
		return nil, err
	}
	goalID, err := resolveSystem(sm, req.Goal)
	if err != nil {
		return nil, err
	}

	avoided := make(map[starmap.SystemId]struct{}, len(req.Constraints.AvoidSystems))
	for _, name := range req.Constraints.AvoidSystems {
		id, err := resolveSystem(sm, name)
		if err != nil {
			return nil, err
		}
		avoided[id] = struct{}{}
	}

	if _, ok := avoided[startID]; ok {
		return nil, routeerr.RouteNotFound(req.Start, req.Goal)
	}
	if _, ok := avoided[goalID]; ok {
		return nil, routeerr.RouteNotFound(req.Start, req.Goal)
	}
	if exceedsTemperature(sm, startID, req.Constraints.MaxTemperature) ||
		exceedsTemperature(sm, goalID, req.Constraints.MaxTemperature) {
		return nil, routeerr.RouteNotFound(req.Start, req.Goal)
	}

	g := selectGraph(sm, req)

	c := pathsearch.Constraints{
		AvoidedSystems:     avoided,
		MaxJump:            req.Constraints.MaxJump,
		AvoidGates:         req.Constraints.AvoidGates,
		MaxTemperature:     req.Constraints.MaxTemperature,
		AvoidCriticalState: req.Constraints.AvoidCriticalState,
		Ship:               req.Constraints.Ship,
		Loadout:            req.Constraints.Loadout,
		HeatConfig:         req.Constraints.HeatConfig,
	}

	steps, algo, err := search(g, sm, startID, goalID, req, c)
	if err != nil {
		return nil, err
	}
	if steps == nil {
		return nil, routeerr.RouteNotFound(req.Start, req.Goal)
	}

	gates, jumps := classifyHops(sm, steps)
	return &RoutePlan{
		Algorithm: algo,
		Start:     startID,
		Goal:      goalID,
		Steps:     steps,
		Gates:     gates,
		Jumps:     jumps,
	}, nil
}

func resolveSystem(sm *starmap.Starmap, name string) (starmap.SystemId, error) {
	id, ok := sm.SystemIDByName(name)
	if ok {
		return id, nil
	}
	return 0, routeerr.UnknownSystem(name, sm.FuzzyMatches(name))
}

func exceedsTemperature(sm *starmap.Starmap, id starmap.SystemId, maxTemperature *float64) bool {
	if maxTemperature == nil {
		return false
	}
	sys, ok := sm.Systems[id]
	if !ok || sys.Metadata.MinExternalTemp == nil {
		return false
	}
	return *sys.Metadata.MinExternalTemp > *maxTemperature
}

// selectGraph implements §4.F step 4: avoid_gates forces a spatial graph,
// BFS forces a gate graph (fuel/heat-free, unweighted), everything else
// gets the hybrid union.
func selectGraph(sm *starmap.Starmap, req Request) *graph.Graph {
	if req.Constraints.AvoidGates {
		return graph.BuildSpatialGraph(sm, req.SpatialIndex, spatialIndexOrWarn(sm, req))
	}
	if req.Algorithm == pathsearch.AlgorithmBFS {
		return graph.BuildGateGraph(sm)
	}
	return graph.BuildHybridGraph(sm, req.SpatialIndex, spatialIndexOrWarn(sm, req))
}

func spatialIndexOrWarn(sm *starmap.Starmap, req Request) int {
	if req.SpatialIndex == nil {
		positioned := 0
		for _, sys := range sm.Systems {
			if sys.Position != nil {
				positioned++
			}
		}
		if positioned > transientIndexWarnThreshold {
			planLog.Warn("building a transient spatial index for %d positioned systems; pass a persistent spatialindex.Index to avoid repeating this work", positioned)
		}
	}
	return req.MaxSpatialNeighbors
}

func search(g *graph.Graph, sm *starmap.Starmap, start, goal starmap.SystemId, req Request, c pathsearch.Constraints) ([]starmap.SystemId, pathsearch.Algorithm, error) {
	mode := pathsearch.WeightDistance
	var fc *pathsearch.FuelContext
	if req.Optimization == OptimizeFuel && req.Constraints.Ship != nil && req.Constraints.Loadout != nil {
		mode = pathsearch.WeightFuel
		fc = &pathsearch.FuelContext{
			Ship:       *req.Constraints.Ship,
			Loadout:    *req.Constraints.Loadout,
			FuelConfig: req.FuelConfig,
		}
	}

	switch req.Algorithm {
	case pathsearch.AlgorithmBFS:
		result := pathsearch.BFS(g, sm, start, goal, c)
		if result == nil {
			return nil, pathsearch.AlgorithmBFS, nil
		}
		return result.Steps, result.Algorithm, nil
	case pathsearch.AlgorithmAStar:
		result, err := pathsearch.AStar(g, sm, start, goal, c, mode, fc)
		if err != nil || result == nil {
			return nil, pathsearch.AlgorithmAStar, err
		}
		return result.Steps, result.Algorithm, nil
	default:
		result, err := pathsearch.Dijkstra(g, sm, start, goal, c, mode, fc)
		if err != nil || result == nil {
			return nil, pathsearch.AlgorithmDijkstra, err
		}
		return result.Steps, result.Algorithm, nil
	}
}

func classifyHops(sm *starmap.Starmap, steps []starmap.SystemId) (gates, jumps int) {
	for i := 1; i < len(steps); i++ {
		if pathsearch.ClassifyStep(sm, steps[i-1], steps[i]) == pathsearch.MethodGate {
			gates++
		} else {
			jumps++
		}
	}
	return gates, jumps
}
