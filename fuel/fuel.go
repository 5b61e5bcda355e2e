// Package fuel models fuel consumption for route hops: per-hop cost,
// route-wide projection with the REFUEL rule, and maximum-range queries.
package fuel

import (
	"math"

	"github.com/sargonas/stellar-router/routeerr"
	"github.com/sargonas/stellar-router/shipcat"
)

// fuelMassPerUnitKG converts a fuel-unit quantity to kilograms when folding
// the fuel load into total operational mass.
const fuelMassPerUnitKG = 1.0

// massConversionFactor is the mass/100_000 term shared by the cost and
// maximum-range formulas.
const massConversionFactor = 100_000.0

// Config controls how fuel cost is computed for a route.
type Config struct {
	// Quality is the fuel quality percentage, 1-100. Higher is more
	// efficient.
	Quality float64
	// DynamicMass recalculates mass after each hop as fuel is consumed,
	// instead of holding the initial load fixed for the whole route.
	DynamicMass bool
}

// DefaultConfig returns the engine's standard fuel configuration.
func DefaultConfig() Config {
	return Config{Quality: 10.0, DynamicMass: false}
}

// Validate checks Quality is finite and within [1, 100].
func (c Config) Validate() error {
	if !isFinite(c.Quality) {
		return routeerr.ShipDataValidation("fuel quality must be finite")
	}
	if c.Quality < 1.0 || c.Quality > 100.0 {
		return routeerr.ShipDataValidation("fuel quality must be between 1 and 100")
	}
	return nil
}

func (c Config) qualityFactor() (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return c.Quality / 100.0, nil
}

// Projection is the fuel state after one hop.
type Projection struct {
	HopCost    float64
	Cumulative float64
	Remaining  float64
	Warning    string // "REFUEL" or empty
}

// JumpCost computes the fuel units required for a single hop of the given
// distance at the given total operational mass. A hop with distance 0
// (a gate transition between coincident positions) costs nothing.
func JumpCost(totalMassKG, distanceLY float64, cfg Config) (float64, error) {
	if !isFinite(distanceLY) || distanceLY < 0 {
		return 0, routeerr.ShipDataValidation("distance must be finite and non-negative")
	}
	if !isFinite(totalMassKG) || totalMassKG <= 0 {
		return 0, routeerr.ShipDataValidation("total mass must be finite and positive")
	}
	if distanceLY == 0 {
		return 0, nil
	}

	quality, err := cfg.qualityFactor()
	if err != nil {
		return 0, err
	}
	massFactor := totalMassKG / massConversionFactor
	return massFactor * quality * distanceLY, nil
}

// MaximumDistance computes how far (light-years) a ship can travel on
// fuelUnits at the given mass and quality, using the inverse of the cost
// formula used by JumpCost.
func MaximumDistance(fuelUnits, shipMassKG, qualityPercent float64) (float64, error) {
	if !isFinite(fuelUnits) || fuelUnits < 0 {
		return 0, routeerr.ShipDataValidation("fuel units must be finite and non-negative")
	}
	if !isFinite(shipMassKG) || shipMassKG <= 0 {
		return 0, routeerr.ShipDataValidation("ship mass must be finite and positive")
	}
	if !isFinite(qualityPercent) {
		return 0, routeerr.ShipDataValidation("fuel quality must be finite")
	}
	quality := qualityPercent / 100.0
	return (fuelUnits * quality * massConversionFactor) / shipMassKG, nil
}

// ProjectHop applies the REFUEL rule: if hopCost exceeds the remaining
// fuel, the tank resets to capacity and a REFUEL warning is raised;
// otherwise remaining is decremented (never below zero).
func ProjectHop(hopCost, cumulative, remaining, capacity float64) Projection {
	if hopCost > remaining {
		return Projection{
			HopCost:    hopCost,
			Cumulative: cumulative,
			Remaining:  capacity,
			Warning:    "REFUEL",
		}
	}
	return Projection{
		HopCost:    hopCost,
		Cumulative: cumulative,
		Remaining:  math.Max(remaining-hopCost, 0),
	}
}

// Route computes per-hop fuel projections for an entire route, applying the
// REFUEL rule (see ProjectHop) at each hop. distancesLY holds one entry per
// hop (index 0 is the first hop, i.e. the distance into step 1). When
// cfg.DynamicMass is set, mass is recomputed after each hop from the
// shrinking fuel load; otherwise the ship's initial loadout mass is used
// throughout.
func Route(ship shipcat.ShipAttributes, loadout shipcat.ShipLoadout, distancesLY []float64, cfg Config) ([]Projection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	projections := make([]Projection, 0, len(distancesLY))
	cumulative := 0.0
	remaining := loadout.FuelLoad
	dynamicFuelLoad := loadout.FuelLoad

	for _, distance := range distancesLY {
		if !isFinite(distance) || distance < 0 {
			return nil, routeerr.ShipDataValidation("distance must be finite and non-negative")
		}

		effectiveFuel := loadout.FuelLoad
		if cfg.DynamicMass {
			effectiveFuel = dynamicFuelLoad
		}
		mass := ship.BaseMassKG + loadout.CargoMassKG + effectiveFuel*fuelMassPerUnitKG
		if !isFinite(mass) || mass <= 0 {
			return nil, routeerr.ShipDataValidation("computed mass must be finite and positive")
		}

		hopCost, err := JumpCost(mass, distance, cfg)
		if err != nil {
			return nil, err
		}
		cumulative += hopCost

		projection := ProjectHop(hopCost, cumulative, remaining, ship.FuelCapacity)
		remaining = projection.Remaining
		if cfg.DynamicMass {
			dynamicFuelLoad = remaining
		}

		projections = append(projections, projection)
	}

	return projections, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
