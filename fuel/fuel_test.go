package fuel

import (
	"testing"

	"github.com/sargonas/stellar-router/shipcat"
)

func testShip() shipcat.ShipAttributes {
	return shipcat.ShipAttributes{Name: "Reflex", BaseMassKG: 90_000, SpecificHeat: 1.0, FuelCapacity: 1000, CargoCapacity: 500}
}

func TestJumpCostZeroDistance(t *testing.T) {
	cost, err := JumpCost(100_000, 0, DefaultConfig())
	if err != nil {
		t.Fatalf("JumpCost: %v", err)
	}
	if cost != 0 {
		t.Errorf("expected zero-distance hop to cost 0, got %v", cost)
	}
}

func TestJumpCostFormula(t *testing.T) {
	cfg := Config{Quality: 50, DynamicMass: false}
	cost, err := JumpCost(200_000, 10, cfg)
	if err != nil {
		t.Fatalf("JumpCost: %v", err)
	}
	want := (200_000.0 / 100_000.0) * 0.5 * 10
	if cost != want {
		t.Errorf("JumpCost = %v, want %v", cost, want)
	}
}

func TestJumpCostRejectsInvalidInputs(t *testing.T) {
	if _, err := JumpCost(-1, 10, DefaultConfig()); err == nil {
		t.Errorf("expected an error for non-positive mass")
	}
	if _, err := JumpCost(100, -1, DefaultConfig()); err == nil {
		t.Errorf("expected an error for negative distance")
	}
}

func TestProjectHopRefuelRule(t *testing.T) {
	p := ProjectHop(250, 100, 200, 1000)
	if p.Warning != "REFUEL" {
		t.Errorf("expected REFUEL warning, got %q", p.Warning)
	}
	if p.Remaining != 1000 {
		t.Errorf("expected remaining reset to capacity, got %v", p.Remaining)
	}

	p2 := ProjectHop(50, 100, 200, 1000)
	if p2.Warning != "" {
		t.Errorf("expected no warning, got %q", p2.Warning)
	}
	if p2.Remaining != 150 {
		t.Errorf("expected remaining 150, got %v", p2.Remaining)
	}
}

func TestRouteStaticMass(t *testing.T) {
	ship := testShip()
	loadout, err := shipcat.NewLoadout(ship, 1000, 0)
	if err != nil {
		t.Fatalf("NewLoadout: %v", err)
	}
	projections, err := Route(ship, loadout, []float64{1, 2, 0}, DefaultConfig())
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(projections) != 3 {
		t.Fatalf("expected 3 projections, got %d", len(projections))
	}
	if projections[2].HopCost != 0 {
		t.Errorf("expected a gate (zero-distance) hop to cost 0, got %v", projections[2].HopCost)
	}
	if projections[1].Cumulative <= projections[0].Cumulative {
		t.Errorf("expected cumulative cost to increase across hops")
	}
}

func TestRouteDynamicMass(t *testing.T) {
	ship := testShip()
	loadout, err := shipcat.NewLoadout(ship, 1000, 0)
	if err != nil {
		t.Fatalf("NewLoadout: %v", err)
	}
	cfg := Config{Quality: 10, DynamicMass: true}
	projections, err := Route(ship, loadout, []float64{5, 5}, cfg)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if projections[1].HopCost >= projections[0].HopCost {
		t.Errorf("expected dynamic mass to reduce cost for the second identical-distance hop")
	}
}

func TestMaximumDistance(t *testing.T) {
	d, err := MaximumDistance(100, 200_000, 50)
	if err != nil {
		t.Fatalf("MaximumDistance: %v", err)
	}
	if d <= 0 {
		t.Errorf("expected a positive maximum distance, got %v", d)
	}
}
