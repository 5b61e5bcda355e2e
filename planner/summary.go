package planner

import (
	"github.com/sargonas/stellar-router/fuel"
	"github.com/sargonas/stellar-router/heat"
	"github.com/sargonas/stellar-router/pathsearch"
	"github.com/sargonas/stellar-router/routeerr"
	"github.com/sargonas/stellar-router/shipcat"
	"github.com/sargonas/stellar-router/starmap"
)

// Step is one system visited along a route, enriched for display.
type Step struct {
	ID          starmap.SystemId
	Name        string
	Distance    float64 // from the previous step; 0 for the first step
	Method      pathsearch.Method
	Temperature *float64
	PlanetCount *int
	MoonCount   *int
	Fuel        *fuel.Projection
	Heat        *heat.Projection
}

// RouteSummary is the fully-annotated result of a routing request, ready
// for a collaborator to render. Kind is an opaque label the caller supplies
// to from_plan (e.g. to distinguish multiple summary variants a hosting
// service produces from the same plan); the core never inspects it.
type RouteSummary struct {
	Kind      string
	Algorithm pathsearch.Algorithm
	Hops      int
	Gates     int
	Jumps     int

	TotalDistance float64
	JumpDistance  float64

	Start starmap.SystemId
	Goal  starmap.SystemId
	Steps []Step

	Fuel *FuelSummary
	Heat *heat.Summary

	// FmapURL and Parameters are collaborator-owned passthrough fields; the
	// core never populates them.
	FmapURL    *string
	Parameters map[string]string
}

// FuelSummary aggregates fuel projections across a route.
type FuelSummary struct {
	TotalCost      float64
	FinalRemaining float64
	Warnings       []string
}

// FromPlan builds a RouteSummary from a resolved RoutePlan: names, per-step
// distances, gate/jump method labels, ambient temperature, and
// planet/moon counts. Returns EmptyRoutePlan if plan.Steps is empty.
func FromPlan(kind string, sm *starmap.Starmap, plan *RoutePlan) (*RouteSummary, error) {
	if plan == nil || len(plan.Steps) == 0 {
		return nil, routeerr.EmptyRoutePlan()
	}

	steps := make([]Step, len(plan.Steps))
	var totalDistance, jumpDistance float64

	for i, id := range plan.Steps {
		sys, ok := sm.Systems[id]
		if !ok {
			return nil, routeerr.RouteNotFound("", "")
		}

		step := Step{
			ID:          id,
			Name:        sys.Name,
			Temperature: sys.Metadata.MinExternalTemp,
			PlanetCount: sys.Metadata.PlanetCount,
			MoonCount:   sys.Metadata.MoonCount,
		}

		if i > 0 {
			prev := plan.Steps[i-1]
			prevSys := sm.Systems[prev]
			if prevSys.Position != nil && sys.Position != nil {
				step.Distance = prevSys.Position.DistanceTo(*sys.Position)
			}
			step.Method = pathsearch.ClassifyStep(sm, prev, id)

			totalDistance += step.Distance
			if step.Method == pathsearch.MethodJump {
				jumpDistance += step.Distance
			}
		}

		steps[i] = step
	}

	return &RouteSummary{
		Kind:          kind,
		Algorithm:     plan.Algorithm,
		Hops:          len(plan.Steps) - 1,
		Gates:         plan.Gates,
		Jumps:         plan.Jumps,
		TotalDistance: totalDistance,
		JumpDistance:  jumpDistance,
		Start:         plan.Start,
		Goal:          plan.Goal,
		Steps:         steps,
	}, nil
}

// AttachFuel populates per-step fuel projections (indices >= 1) and a
// route-wide fuel summary.
func (rs *RouteSummary) AttachFuel(ship shipcat.ShipAttributes, loadout shipcat.ShipLoadout, cfg fuel.Config) error {
	distances := make([]float64, 0, len(rs.Steps)-1)
	for _, step := range rs.Steps[1:] {
		distances = append(distances, step.Distance)
	}

	projections, err := fuel.Route(ship, loadout, distances, cfg)
	if err != nil {
		return err
	}

	warnings := make([]string, 0)
	for i, projection := range projections {
		p := projection
		rs.Steps[i+1].Fuel = &p
		if p.Warning != "" {
			warnings = append(warnings, p.Warning)
		}
	}

	summary := &FuelSummary{Warnings: warnings}
	if len(projections) > 0 {
		last := projections[len(projections)-1]
		summary.TotalCost = last.Cumulative
		summary.FinalRemaining = last.Remaining
	}
	rs.Fuel = summary
	return nil
}

// AttachHeat populates per-step heat projections (indices >= 1) and a
// route-wide heat summary: total cooldown wait time, final residual heat,
// and every OVERHEATED/CRITICAL warning raised along the way.
func (rs *RouteSummary) AttachHeat(ship shipcat.ShipAttributes, loadout shipcat.ShipLoadout, cfg heat.Config) error {
	massKG := loadout.TotalMassKG(ship)

	summary := &heat.Summary{}
	var prevAmbient *float64

	for i := 1; i < len(rs.Steps); i++ {
		step := &rs.Steps[i]
		isGoal := i == len(rs.Steps)-1
		nextIsGate := !isGoal && rs.Steps[i+1].Method == pathsearch.MethodGate

		projection, err := heat.ProjectHop(heat.ProjectionParams{
			MassKG:                 massKG,
			SpecificHeat:           ship.SpecificHeat,
			DistanceLY:             step.Distance,
			HullMassKG:             ship.BaseMassKG,
			CalibrationConstant:    cfg.CalibrationConstant,
			PrevAmbient:            prevAmbient,
			CurrentMinExternalTemp: step.Temperature,
			IsGoal:                 isGoal,
			NextIsGate:             nextIsGate,
		})
		if err != nil {
			return err
		}

		p := projection
		step.Heat = &p
		if p.Warning != "" {
			summary.Warnings = append(summary.Warnings, p.Warning)
		}
		if p.HasWaitTime {
			summary.TotalWaitTimeSeconds += p.WaitTimeSeconds
		}
		summary.FinalResidualHeat = p.ResidualHeat
		prevAmbient = &p.ResidualHeat
	}

	rs.Heat = summary
	return nil
}
