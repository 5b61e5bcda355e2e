// Package pathsearch implements the engine's three search algorithms
// (BFS, Dijkstra, and A*) over a shared neighbor-enumeration and
// constraint-filter contract.
package pathsearch

import (
	"github.com/sargonas/stellar-router/graph"
	"github.com/sargonas/stellar-router/heat"
	"github.com/sargonas/stellar-router/shipcat"
	"github.com/sargonas/stellar-router/starmap"
)

// Constraints narrows the edges a search is allowed to traverse. All
// pointer fields are optional; a nil pointer means the constraint is not
// active.
type Constraints struct {
	AvoidedSystems map[starmap.SystemId]struct{}
	// MaxJump caps a Spatial edge's distance; Gate edges are never capped
	// by it.
	MaxJump *float64
	// AvoidGates skips every Gate edge, restricting search to Spatial
	// connectivity.
	AvoidGates bool
	// MaxTemperature skips a neighbor whose minimum external temperature
	// is known and exceeds this value. Missing temperature passes
	// (fail-open).
	MaxTemperature *float64
	// AvoidCriticalState, together with Ship/Loadout/HeatConfig, skips a
	// neighbor whose hop would reach CRITICAL or be otherwise unsafe.
	AvoidCriticalState bool
	Ship               *shipcat.ShipAttributes
	Loadout            *shipcat.ShipLoadout
	HeatConfig         *heat.Config
}

func (c Constraints) isAvoided(id starmap.SystemId) bool {
	if c.AvoidedSystems == nil {
		return false
	}
	_, ok := c.AvoidedSystems[id]
	return ok
}

// enumerate yields the edges out of u that survive every active
// constraint, in the order the graph stores them.
func enumerate(g *graph.Graph, sm *starmap.Starmap, u starmap.SystemId, c Constraints) []graph.Edge {
	edges := g.EdgesFrom(u)
	if len(edges) == 0 {
		return nil
	}

	out := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		if c.isAvoided(e.Target) {
			continue
		}
		if e.Kind == graph.Spatial && c.MaxJump != nil && e.Distance > *c.MaxJump {
			continue
		}
		if c.AvoidGates && e.Kind == graph.Gate {
			continue
		}
		if c.MaxTemperature != nil {
			if target, ok := sm.Systems[e.Target]; ok && target.Metadata.MinExternalTemp != nil {
				if *target.Metadata.MinExternalTemp > *c.MaxTemperature {
					continue
				}
			}
		}
		if c.AvoidCriticalState && c.Ship != nil && c.Loadout != nil && c.HeatConfig != nil {
			if hopExceedsCritical(sm, u, e, *c.Ship, *c.Loadout, *c.HeatConfig) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// hopExceedsCritical evaluates the heat projection for a single candidate
// hop using the ambient temperature known at each endpoint, and reports
// whether the hop should be excluded from search.
func hopExceedsCritical(sm *starmap.Starmap, u starmap.SystemId, e graph.Edge, ship shipcat.ShipAttributes, loadout shipcat.ShipLoadout, cfg heat.Config) bool {
	var prevAmbient, destAmbient *float64
	if sys, ok := sm.Systems[u]; ok {
		prevAmbient = sys.Metadata.MinExternalTemp
	}
	if sys, ok := sm.Systems[e.Target]; ok {
		destAmbient = sys.Metadata.MinExternalTemp
	}

	projection, err := heat.ProjectHop(heat.ProjectionParams{
		MassKG:                 loadout.TotalMassKG(ship),
		SpecificHeat:           ship.SpecificHeat,
		DistanceLY:             e.Distance,
		HullMassKG:             ship.BaseMassKG,
		CalibrationConstant:    cfg.CalibrationConstant,
		PrevAmbient:            prevAmbient,
		CurrentMinExternalTemp: destAmbient,
	})
	if err != nil {
		return false
	}
	return projection.Warning == "CRITICAL" || !projection.CanProceed
}
