// Package shipcat loads and validates the ship attribute catalog used to
// parameterize fuel and heat projections, and carries the per-voyage
// loadout derived from it.
package shipcat

import (
	"math"
	"strings"

	"github.com/sargonas/stellar-router/routeerr"
)

// ShipAttributes are a ship's static, catalog-sourced properties. Per-ship
// heat tolerance and dissipation are not part of the canonical catalog;
// heat warnings are judged against the engine-wide thresholds instead.
type ShipAttributes struct {
	Name          string
	BaseMassKG    float64
	SpecificHeat  float64
	FuelCapacity  float64
	CargoCapacity float64
}

func (s ShipAttributes) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return routeerr.ShipDataValidation("ship name must not be empty")
	}
	fields := []struct {
		value float64
		field string
	}{
		{s.BaseMassKG, "base_mass_kg"},
		{s.SpecificHeat, "specific_heat"},
		{s.FuelCapacity, "fuel_capacity"},
		{s.CargoCapacity, "cargo_capacity"},
	}
	for _, f := range fields {
		if !isFinite(f.value) || f.value <= 0 {
			return routeerr.ShipDataValidation(f.field + " must be a finite positive number")
		}
	}
	return nil
}

// ShipLoadout is the per-voyage fuel and cargo load carried aboard a ship.
type ShipLoadout struct {
	FuelLoad    float64
	CargoMassKG float64
}

// NewLoadout validates a loadout against its ship's capacity.
func NewLoadout(ship ShipAttributes, fuelLoad, cargoMassKG float64) (ShipLoadout, error) {
	if !isFinite(fuelLoad) || fuelLoad < 0 {
		return ShipLoadout{}, routeerr.ShipDataValidation("fuel_load must be finite and non-negative")
	}
	if fuelLoad > ship.FuelCapacity {
		return ShipLoadout{}, routeerr.ShipDataValidation("fuel_load exceeds ship fuel_capacity")
	}
	if !isFinite(cargoMassKG) || cargoMassKG < 0 {
		return ShipLoadout{}, routeerr.ShipDataValidation("cargo_mass_kg must be finite and non-negative")
	}
	return ShipLoadout{FuelLoad: fuelLoad, CargoMassKG: cargoMassKG}, nil
}

// FullFuel returns a loadout with a full fuel tank and no cargo.
func FullFuel(ship ShipAttributes) ShipLoadout {
	return ShipLoadout{FuelLoad: ship.FuelCapacity, CargoMassKG: 0}
}

// TotalMassKG is the ship's total operational mass under this loadout: hull
// plus fuel (1 kg per fuel unit) plus cargo.
func (l ShipLoadout) TotalMassKG(ship ShipAttributes) float64 {
	const fuelMassPerUnitKG = 1.0
	return ship.BaseMassKG + l.FuelLoad*fuelMassPerUnitKG + l.CargoMassKG
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
