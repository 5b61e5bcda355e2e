package planner

import (
	"strings"
	"testing"

	"github.com/sargonas/stellar-router/fuel"
	"github.com/sargonas/stellar-router/heat"
	"github.com/sargonas/stellar-router/pathsearch"
	"github.com/sargonas/stellar-router/shipcat"
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

// fixtureStarmap matches spec.md's S1-S3 fixture: Nod, Brana, D:2NAS,
// G:3OA0. A single direct gate connects Nod and Brana; D:2NAS and G:3OA0
// sit spatially between them with no gate edges of their own, so an
// avoid_gates search is forced through two pure jump hops.
func fixtureStarmap(t *testing.T) *starmap.Starmap {
	t.Helper()
	systems := map[starmap.SystemId]starmap.System{
		1: {ID: 1, Name: "Nod", Position: mustPos(t, 0, 0, 0)},
		2: {ID: 2, Name: "D:2NAS", Position: mustPos(t, 15, 0, 0)},
		3: {ID: 3, Name: "G:3OA0", Position: mustPos(t, 30, 0, 0)},
		4: {ID: 4, Name: "Brana", Position: mustPos(t, 45, 0, 0)},
	}
	adjacency := map[starmap.SystemId][]starmap.SystemId{
		1: {4},
		4: {1},
	}
	return starmap.New(systems, adjacency)
}

func TestPlanRouteExactRoute(t *testing.T) {
	sm := fixtureStarmap(t)
	plan, err := PlanRoute(sm, Request{
		Start:       "Nod",
		Goal:        "Brana",
		Algorithm:   pathsearch.AlgorithmAStar,
		Constraints: DefaultRouteConstraints(),
	})
	if err != nil {
		t.Fatalf("PlanRoute: %v", err)
	}
	if len(plan.Steps) < 2 {
		t.Fatalf("expected a non-trivial path, got %v", plan.Steps)
	}
	if plan.Steps[0] != 1 {
		t.Errorf("expected path to start at Nod, got %v", plan.Steps[0])
	}
	if plan.Steps[len(plan.Steps)-1] != 4 {
		t.Errorf("expected path to end at Brana, got %v", plan.Steps[len(plan.Steps)-1])
	}
	if plan.Gates+plan.Jumps != len(plan.Steps)-1 {
		t.Errorf("gates(%d) + jumps(%d) != hops(%d)", plan.Gates, plan.Jumps, len(plan.Steps)-1)
	}
}

func TestPlannerStructDelegatesToPlanRoute(t *testing.T) {
	sm := fixtureStarmap(t)
	p := NewPlanner(sm, nil)
	plan, err := p.PlanRoute(Request{
		Start:       "Nod",
		Goal:        "Brana",
		Algorithm:   pathsearch.AlgorithmAStar,
		Constraints: DefaultRouteConstraints(),
	})
	if err != nil {
		t.Fatalf("Planner.PlanRoute: %v", err)
	}
	if plan.Start != 1 || plan.Goal != 4 {
		t.Errorf("plan start/goal = %v/%v, want 1/4", plan.Start, plan.Goal)
	}
}

func TestPlanRouteUnknownSystemSuggestsName(t *testing.T) {
	sm := fixtureStarmap(t)
	_, err := PlanRoute(sm, Request{
		Start:       "Bran",
		Goal:        "Brana",
		Algorithm:   pathsearch.AlgorithmAStar,
		Constraints: DefaultRouteConstraints(),
	})
	if err == nil {
		t.Fatal("expected an UnknownSystem error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Bran") {
		t.Errorf("expected error to reference the unresolved name, got %q", msg)
	}
	found := false
	for _, s := range sm.FuzzyMatches("Bran") {
		if s == "Brana" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Brana among fuzzy suggestions for Bran")
	}
}

func TestPlanRouteAvoidGatesForcesSpatialJumps(t *testing.T) {
	sm := fixtureStarmap(t)
	maxJump := 40.0
	plan, err := PlanRoute(sm, Request{
		Start:     "Nod",
		Goal:      "Brana",
		Algorithm: pathsearch.AlgorithmAStar,
		Constraints: RouteConstraints{
			AvoidGates: true,
			MaxJump:    &maxJump,
		},
	})
	if err != nil {
		t.Fatalf("PlanRoute: %v", err)
	}
	if plan.Gates != 0 {
		t.Errorf("expected every hop to classify as jump, got %d gate hops", plan.Gates)
	}

	summary, err := FromPlan("route", sm, plan)
	if err != nil {
		t.Fatalf("FromPlan: %v", err)
	}
	for i, step := range summary.Steps[1:] {
		if step.Method != pathsearch.MethodJump {
			t.Errorf("step %d: expected jump, got %v", i+1, step.Method)
		}
		if step.Distance > maxJump {
			t.Errorf("step %d: distance %v exceeds max_jump %v", i+1, step.Distance, maxJump)
		}
	}
}

func TestFromPlanEmptyStepsIsError(t *testing.T) {
	sm := fixtureStarmap(t)
	_, err := FromPlan("route", sm, &RoutePlan{})
	if err == nil {
		t.Fatal("expected EmptyRoutePlan error")
	}
}

func testShip() shipcat.ShipAttributes {
	return shipcat.ShipAttributes{
		Name:          "Testship",
		BaseMassKG:    1_000_000,
		SpecificHeat:  900,
		FuelCapacity:  1000,
		CargoCapacity: 500,
	}
}

func TestAttachFuelRefuelRule(t *testing.T) {
	sm := fixtureStarmap(t)
	ship := testShip()
	loadout := shipcat.ShipLoadout{FuelLoad: 1000, CargoMassKG: 0}

	// A synthetic two-step-plus-start plan whose hop distances are chosen so
	// JumpCost(totalMassKG, distance, cfg) yields exactly 900 fuel per hop,
	// matching S5's fixture.
	plan := &RoutePlan{
		Start: 1,
		Goal:  4,
		Steps: []starmap.SystemId{1, 2, 3},
		Jumps: 2,
	}
	summary, err := FromPlan("route", sm, plan)
	if err != nil {
		t.Fatalf("FromPlan: %v", err)
	}

	// Force the per-step distances that produce a 900-unit hop cost at this
	// ship's mass and the default fuel quality, overriding whatever the
	// fixture's actual positions computed.
	cfg := fuel.DefaultConfig()
	targetCost := 900.0
	mass := loadout.TotalMassKG(ship)
	// hop_cost = (mass / 100_000) * (quality/100) * distance
	distance := targetCost / ((mass / 100_000) * (cfg.Quality / 100))
	summary.Steps[1].Distance = distance
	summary.Steps[2].Distance = distance

	if err := summary.AttachFuel(ship, loadout, cfg); err != nil {
		t.Fatalf("AttachFuel: %v", err)
	}

	hop1 := summary.Steps[1].Fuel
	if hop1 == nil {
		t.Fatalf("expected hop 1 fuel projection")
	}
	if hop1.Warning != "" {
		t.Errorf("expected no warning on hop 1, got %q", hop1.Warning)
	}
	if got, want := hop1.Remaining, 100.0; !floatsClose(got, want) {
		t.Errorf("hop 1 remaining = %v, want %v", got, want)
	}

	hop2 := summary.Steps[2].Fuel
	if hop2 == nil {
		t.Fatalf("expected hop 2 fuel projection")
	}
	if hop2.Warning != "REFUEL" {
		t.Errorf("expected REFUEL warning on hop 2, got %q", hop2.Warning)
	}
	if got, want := hop2.Remaining, 1000.0; !floatsClose(got, want) {
		t.Errorf("hop 2 remaining = %v, want %v", got, want)
	}
}

func TestAttachHeatCriticalWarningAndAvoidance(t *testing.T) {
	sm := fixtureStarmap(t)
	ship := testShip()
	loadout := shipcat.ShipLoadout{FuelLoad: 500, CargoMassKG: 0}

	plan := &RoutePlan{Start: 1, Goal: 2, Steps: []starmap.SystemId{1, 2}, Jumps: 1}
	summary, err := FromPlan("route", sm, plan)
	if err != nil {
		t.Fatalf("FromPlan: %v", err)
	}
	summary.Steps[1].Distance = 45

	// A tiny calibration constant drives ΔT well past CRITICAL (150K) for
	// this mass/distance.
	cfg := heat.Config{CalibrationConstant: 1e-10}
	if err := summary.AttachHeat(ship, loadout, cfg); err != nil {
		t.Fatalf("AttachHeat: %v", err)
	}
	if summary.Steps[1].Heat.Warning != "CRITICAL" {
		t.Fatalf("expected CRITICAL warning, got %q", summary.Steps[1].Heat.Warning)
	}
	found := false
	for _, w := range summary.Heat.Warnings {
		if w == "CRITICAL" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CRITICAL among the route-level warnings, got %v", summary.Heat.Warnings)
	}

	// With avoid_critical_state enabled and no alternative path, PlanRoute
	// must fail with RouteNotFound rather than return the overheating hop.
	heatCfg := cfg
	_, err = PlanRoute(sm, Request{
		Start:     "Nod",
		Goal:      "D:2NAS",
		Algorithm: pathsearch.AlgorithmAStar,
		Constraints: RouteConstraints{
			AvoidCriticalState: true,
			Ship:               &ship,
			Loadout:            &loadout,
			HeatConfig:         &heatCfg,
		},
	})
	if err == nil {
		t.Fatal("expected RouteNotFound when every path to the goal is CRITICAL")
	}
}

func floatsClose(a, b float64) bool {
	const epsilon = 1e-6
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < epsilon
}
