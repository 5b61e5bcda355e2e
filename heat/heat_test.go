package heat

import "testing"

func TestCoolingConstantBaseCase(t *testing.T) {
	t30 := 30.0
	k := CoolingConstant(1e6, 1.0, &t30)
	if diff := k - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected k = 1.0, got %v", k)
	}

	if CoolingConstant(0, 1.0, nil) != 0 {
		t.Errorf("expected 0 for non-positive mass")
	}
	if CoolingConstant(1e6, 0, nil) != 0 {
		t.Errorf("expected 0 for non-positive specific heat")
	}
}

func TestCoolingTimeFormula(t *testing.T) {
	env := 30.0
	k := 1.0

	if got := CoolingTime(50, 60, env, k); got != 0 {
		t.Errorf("expected no wait when start <= target, got %v", got)
	}

	got := CoolingTime(100, 60, env, k)
	want := 0.8472978603872037 // ln(70/30)
	if diff := got - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("CoolingTime = %v, want %v", got, want)
	}

	// target below env clamps to env + epsilon
	clamped := CoolingTime(100, 10, env, k)
	if clamped <= got {
		t.Errorf("expected clamped cooling time to exceed the unclamped case, got %v vs %v", clamped, got)
	}

	if CoolingTime(100, 60, env, 0) != 0 {
		t.Errorf("expected 0 wait for non-positive k")
	}
}

func TestJumpHeatZeroDistance(t *testing.T) {
	h, err := JumpHeat(1000, 0, 500, 1e-7)
	if err != nil {
		t.Fatalf("JumpHeat: %v", err)
	}
	if h != 0 {
		t.Errorf("expected zero-distance hop to generate no heat, got %v", h)
	}
}

func TestProjectHopGateNoHeat(t *testing.T) {
	p, err := ProjectHop(ProjectionParams{MassKG: 1000, SpecificHeat: 1, DistanceLY: 0, HullMassKG: 500, CalibrationConstant: 1e-7})
	if err != nil {
		t.Fatalf("ProjectHop: %v", err)
	}
	if p.HopHeat != 0 || p.ResidualHeat != Nominal || !p.CanProceed {
		t.Errorf("unexpected gate hop projection: %+v", p)
	}
}

func TestProjectHopClassifiesWarnings(t *testing.T) {
	p, err := ProjectHop(ProjectionParams{
		MassKG: 1000, SpecificHeat: 0.001, DistanceLY: 50, HullMassKG: 500, CalibrationConstant: 1e-7,
		IsGoal: true,
	})
	if err != nil {
		t.Fatalf("ProjectHop: %v", err)
	}
	if p.Warning == "" {
		t.Errorf("expected an overheat warning for a large hop, got none: %+v", p)
	}
}

func TestProjectHopCooldownBeforeNonGoalNonGate(t *testing.T) {
	cold := 10.0
	p, err := ProjectHop(ProjectionParams{
		MassKG: 1000, SpecificHeat: 0.001, DistanceLY: 50, HullMassKG: 500, CalibrationConstant: 1e-7,
		CurrentMinExternalTemp: &cold,
	})
	if err != nil {
		t.Fatalf("ProjectHop: %v", err)
	}
	if !p.HasWaitTime {
		t.Errorf("expected a cooldown wait when the candidate exceeds nominal and more hops follow")
	}
	if p.ResidualHeat > Nominal+1e-9 {
		t.Errorf("expected residual heat to settle at nominal or ambient, got %v", p.ResidualHeat)
	}
}

func TestProjectHopRejectsNonPositiveSpecificHeat(t *testing.T) {
	hot := 1.0e6 // absurdly hot: zoneFactor still resolves, mass/specificHeat drive k
	p, err := ProjectHop(ProjectionParams{
		MassKG: 1000, SpecificHeat: 0, DistanceLY: 50, HullMassKG: 500, CalibrationConstant: 1e-7,
		CurrentMinExternalTemp: &hot,
	})
	if err == nil {
		t.Fatalf("expected an error for non-positive specific heat, got projection %+v", p)
	}
}
