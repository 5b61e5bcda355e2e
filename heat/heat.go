// Package heat models the thermal state of a ship across a route: heat
// generated per hop, Newton's-Law-of-Cooling cooldown time, and the
// overheat/critical classification used by routing and reporting alike.
package heat

import (
	"math"

	"github.com/sargonas/stellar-router/routeerr"
)

// Heat-state thresholds in Kelvin, classifying a ship's instantaneous heat
// state. ProjectHop compares them directly against the hop's projected
// temperature (start temperature plus ΔT); ambient is not subtracted.
const (
	Nominal    = 30.0
	Overheated = 90.0
	Critical   = 150.0
)

const (
	baseCoolingPower = 1e6
	coolingEpsilon   = 0.01
)

// Config controls the heat-energy formula's calibration.
type Config struct {
	// CalibrationConstant scales the heat-energy formula; smaller values
	// produce more heat per light-year travelled.
	CalibrationConstant float64
	// DynamicMass is carried with the configuration but is not read:
	// heat projections (RouteSummary.AttachHeat and the search's
	// critical-state check) use the loadout's initial total mass for
	// every hop.
	DynamicMass bool
}

// DefaultConfig returns the engine's standard heat configuration, tuned to
// keep outputs stable across releases.
func DefaultConfig() Config {
	return Config{CalibrationConstant: 1e-7, DynamicMass: false}
}

// Projection is the heat state produced by a single hop.
type Projection struct {
	HopHeat         float64 // ΔT in Kelvin for this hop
	Warning         string  // "OVERHEATED", "CRITICAL", or empty
	WaitTimeSeconds float64 // 0 when no cooldown was required
	HasWaitTime     bool
	ResidualHeat    float64
	CanProceed      bool
}

// Summary aggregates heat projections across an entire route.
type Summary struct {
	TotalWaitTimeSeconds float64
	FinalResidualHeat    float64
	Warnings             []string
}

// zoneFactor maps an ambient temperature to a cooling efficiency factor.
// Colder environments cool more effectively; an unknown ambient is treated
// conservatively as hot.
func zoneFactor(minExternalTemp *float64) float64 {
	if minExternalTemp == nil {
		return 0.1
	}
	t := *minExternalTemp
	switch {
	case !isFinite(t):
		return 0.1
	case t <= 30.0:
		return 1.0
	case t <= 100.0:
		return 0.7
	case t <= 300.0:
		return 0.4
	case t <= 1000.0:
		return 0.2
	default:
		return 0.05
	}
}

// CoolingConstant computes k (1/s) for Newton's Law of Cooling:
// k = (baseCoolingPower * zoneFactor) / (mass * specificHeat).
func CoolingConstant(totalMassKG, specificHeat float64, minExternalTemp *float64) float64 {
	if !isFinite(totalMassKG) || totalMassKG <= 0 || !isFinite(specificHeat) || specificHeat <= 0 {
		return 0
	}
	return (baseCoolingPower * zoneFactor(minExternalTemp)) / (totalMassKG * specificHeat)
}

// CoolingTime computes the time (seconds) to cool from startTemp to
// targetTemp in an environment at envTemp with cooling constant k. Clamped
// to 0 when already at or below target or when k is non-positive.
// targetTemp is raised to envTemp+epsilon to stay clear of the logarithm's
// domain boundary.
func CoolingTime(startTemp, targetTemp, envTemp, k float64) float64 {
	if !isFinite(startTemp) || !isFinite(targetTemp) || !isFinite(envTemp) || !isFinite(k) || startTemp <= targetTemp || k <= 0 {
		return 0
	}
	target := math.Max(targetTemp, envTemp+coolingEpsilon)
	if startTemp <= target {
		return 0
	}
	ratio := (target - envTemp) / (startTemp - envTemp)
	return -(1.0 / k) * math.Log(ratio)
}

// JumpHeat computes the heat energy generated by a single hop (an
// energy-like quantity; divide by mass*specificHeat for ΔT). A zero
// distance (gate transition) always yields zero.
func JumpHeat(totalMassKG, distanceLY, hullMassKG, calibrationConstant float64) (float64, error) {
	if !isFinite(distanceLY) || distanceLY < 0 {
		return 0, routeerr.ShipDataValidation("distance must be finite and non-negative")
	}
	if !isFinite(totalMassKG) || totalMassKG <= 0 {
		return 0, routeerr.ShipDataValidation("total mass must be finite and positive")
	}
	if !isFinite(hullMassKG) || hullMassKG <= 0 {
		return 0, routeerr.ShipDataValidation("hull mass must be finite and positive")
	}
	if !isFinite(calibrationConstant) || calibrationConstant <= 0 {
		return 0, routeerr.ShipDataValidation("calibration constant must be finite and positive")
	}
	if distanceLY == 0 {
		return 0, nil
	}
	return (3.0 * totalMassKG * distanceLY) / (calibrationConstant * hullMassKG), nil
}

// ProjectionParams bundles a single hop's heat inputs.
type ProjectionParams struct {
	MassKG              float64
	SpecificHeat        float64
	DistanceLY          float64
	HullMassKG          float64
	CalibrationConstant float64
	// PrevAmbient is the temperature carried into this hop, if known: a
	// previous hop's residual heat, or the origin system's ambient
	// temperature. The hop starts from the larger of it and Nominal.
	PrevAmbient *float64
	// CurrentMinExternalTemp is the destination system's minimum external
	// temperature, if known.
	CurrentMinExternalTemp *float64
	// IsGoal marks this hop as the final one; no cooldown is required
	// after arrival.
	IsGoal bool
	// NextIsGate marks the following hop as a gate transition, which also
	// needs no cooldown beforehand.
	NextIsGate bool
}

// ProjectHop computes a single hop's heat projection: the instantaneous
// temperature delta, any OVERHEATED/CRITICAL warning, and (when the
// cooldown policy applies) a wait time and post-cooldown residual.
func ProjectHop(p ProjectionParams) (Projection, error) {
	if !isFinite(p.MassKG) || p.MassKG <= 0 {
		return Projection{}, routeerr.ShipDataValidation("computed mass must be finite and positive")
	}
	if !isFinite(p.SpecificHeat) || p.SpecificHeat <= 0 {
		return Projection{}, routeerr.ShipDataValidation("invalid specific heat")
	}
	if !isFinite(p.DistanceLY) || p.DistanceLY < 0 {
		return Projection{}, routeerr.ShipDataValidation("distance must be finite and non-negative")
	}

	if p.DistanceLY == 0 {
		return Projection{HopHeat: 0, ResidualHeat: Nominal, CanProceed: true}, nil
	}

	hopEnergy, err := JumpHeat(p.MassKG, p.DistanceLY, p.HullMassKG, p.CalibrationConstant)
	if err != nil {
		return Projection{}, err
	}
	hopHeat := hopEnergy / (p.MassKG * p.SpecificHeat)

	prevAmbient := 0.0
	if p.PrevAmbient != nil {
		prevAmbient = *p.PrevAmbient
	}
	startTemp := math.Max(Nominal, prevAmbient)
	candidate := startTemp + hopHeat

	var warning string
	switch {
	case candidate >= Critical:
		warning = "CRITICAL"
	case candidate >= Overheated:
		warning = "OVERHEATED"
	}

	projection := Projection{HopHeat: hopHeat, Warning: warning, ResidualHeat: candidate, CanProceed: true}

	if candidate > Nominal && !p.IsGoal && !p.NextIsGate {
		k := CoolingConstant(p.MassKG, p.SpecificHeat, p.CurrentMinExternalTemp)
		if k > 0 {
			envTemp := 0.0
			if p.CurrentMinExternalTemp != nil {
				envTemp = *p.CurrentMinExternalTemp
			}
			wait := CoolingTime(candidate, Nominal, envTemp, k)
			if wait > 0 {
				projection.WaitTimeSeconds = wait
				projection.HasWaitTime = true
				projection.ResidualHeat = math.Max(Nominal, envTemp)
			}
			projection.CanProceed = true
		} else {
			projection.CanProceed = false
			projection.ResidualHeat = candidate
		}
	}

	return projection, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
