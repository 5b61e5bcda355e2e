package shipcat

import (
	"strings"
	"testing"

	"github.com/sargonas/stellar-router/routeerr"
)

func TestLoadCatalogBasic(t *testing.T) {
	csv := "name,base_mass_kg,fuel_capacity,cargo_capacity,specific_heat\nReflex,1000,500,200,1.0\n"
	cat, err := LoadCatalog(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	ship, ok := cat.Get("reflex")
	if !ok {
		t.Fatalf("expected case-insensitive lookup to find Reflex")
	}
	if ship.BaseMassKG != 1000 {
		t.Errorf("expected base_mass_kg 1000, got %v", ship.BaseMassKG)
	}
}

func TestLoadCatalogHeaderSynonyms(t *testing.T) {
	csv := "name,base_mass_kg,fuel_capacity,capacity_m^3,specific_heat\nReflex,1000,500,100,1.0\n"
	cat, err := LoadCatalog(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("expected capacity_m^3 to normalize to cargo_capacity: %v", err)
	}
	ship, _ := cat.Get("Reflex")
	if ship.CargoCapacity != 100 {
		t.Errorf("expected cargo_capacity 100, got %v", ship.CargoCapacity)
	}
}

func TestLoadCatalogMissingColumn(t *testing.T) {
	csv := "name,base_mass_kg,fuel_capacity\nReflex,1000,500\n"
	_, err := LoadCatalog(strings.NewReader(csv))
	if err == nil {
		t.Fatalf("expected an error for missing cargo_capacity/specific_heat columns")
	}
}

func TestLoadCatalogDuplicateName(t *testing.T) {
	csv := "name,base_mass_kg,fuel_capacity,cargo_capacity,specific_heat\n" +
		"Reflex,1000,500,200,1.0\n" +
		"  reflex ,1000,500,200,1.0\n"
	_, err := LoadCatalog(strings.NewReader(csv))
	if err == nil {
		t.Fatalf("expected a duplicate-name error")
	}
	var rerr *routeerr.Error
	if e, ok := err.(*routeerr.Error); ok {
		rerr = e
	}
	if rerr == nil || rerr.Kind != routeerr.KindDuplicateShipName {
		t.Errorf("expected KindDuplicateShipName, got %v", err)
	}
}

func TestLoadCatalogInvalidNumber(t *testing.T) {
	csv := "name,base_mass_kg,fuel_capacity,cargo_capacity,specific_heat\nReflex,notanumber,500,200,1.0\n"
	_, err := LoadCatalog(strings.NewReader(csv))
	if err == nil {
		t.Fatalf("expected an error for a non-numeric base_mass_kg")
	}
}

func TestNewLoadoutRejectsExcessFuel(t *testing.T) {
	ship := ShipAttributes{Name: "Reflex", BaseMassKG: 1000, SpecificHeat: 1, FuelCapacity: 500, CargoCapacity: 200}
	if _, err := NewLoadout(ship, 600, 0); err == nil {
		t.Fatalf("expected an error when fuel_load exceeds fuel_capacity")
	}
}

func TestTotalMassKG(t *testing.T) {
	ship := ShipAttributes{Name: "Reflex", BaseMassKG: 1000, SpecificHeat: 1, FuelCapacity: 500, CargoCapacity: 200}
	loadout, err := NewLoadout(ship, 100, 50)
	if err != nil {
		t.Fatalf("NewLoadout: %v", err)
	}
	got := loadout.TotalMassKG(ship)
	want := 1000.0 + 100.0 + 50.0
	if got != want {
		t.Errorf("TotalMassKG = %v, want %v", got, want)
	}
}
