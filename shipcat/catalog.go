package shipcat

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/sargonas/stellar-router/routeerr"
)

// Catalog is an in-memory ship attribute catalog, keyed by a
// case/whitespace-folded ship name.
type Catalog struct {
	ships map[string]ShipAttributes
}

// canonicalFields names the attributes a catalog row must resolve, in
// encounter order for error messages.
var canonicalFields = []string{"name", "base_mass_kg", "specific_heat", "fuel_capacity", "cargo_capacity"}

// headerSynonyms maps each canonical field to the normalized header
// spellings the loader accepts. "capacity_m^3" normalizes to "capacity_m3"
// the same way "capacity_m3" does, so both resolve to cargo_capacity.
var headerSynonyms = map[string][]string{
	"name":           {"name", "shipname", "ship_name", "ship"},
	"base_mass_kg":   {"base_mass_kg", "mass_kg", "mass", "masskg"},
	"specific_heat":  {"specific_heat", "specificheat_c", "specificheat"},
	"fuel_capacity":  {"fuel_capacity", "fuel_capacity_units", "fuelcapacity_units", "fuelcapacity"},
	"cargo_capacity": {"cargo_capacity", "capacity_m3", "capacity"},
}

// normalizeHeader lower-cases a header and keeps only ASCII alphanumerics
// and underscores, so "Fuel-Capacity", "Fuel.Capacity", and
// "capacity_m^3" all collapse onto the same token as their canonical
// synonym.
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LoadCatalog parses a ship_data.csv-style reader into a Catalog. Headers
// are matched case/punctuation-insensitively against a fixed synonym set;
// rows are validated and duplicate (case/whitespace-folded) ship names are
// rejected.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, routeerr.ShipDataValidation(fmt.Sprintf("failed to read ship catalog headers: %v", err))
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	columnFor := make(map[string]int)
	for _, canon := range canonicalFields {
	synonymSearch:
		for _, alt := range headerSynonyms[canon] {
			altNorm := normalizeHeader(alt)
			for i, h := range normalized {
				if h == altNorm {
					columnFor[canon] = i
					break synonymSearch
				}
			}
		}
	}

	var missing []string
	for _, canon := range canonicalFields {
		if _, ok := columnFor[canon]; !ok {
			missing = append(missing, canon)
		}
	}
	if len(missing) > 0 {
		return nil, routeerr.ShipDataValidation(fmt.Sprintf(
			"ship catalog missing required columns: %s. Available: %s",
			strings.Join(missing, ", "), strings.Join(headers, ", "),
		))
	}

	ships := make(map[string]ShipAttributes)
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, routeerr.ShipDataValidation(err.Error())
		}
		row++

		get := func(field string) string {
			i, ok := columnFor[field]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		name := get("name")
		baseMassKG, err := parseRowFloat(get, "base_mass_kg", name, row)
		if err != nil {
			return nil, err
		}
		specificHeat, err := parseRowFloat(get, "specific_heat", name, row)
		if err != nil {
			return nil, err
		}
		fuelCapacity, err := parseRowFloat(get, "fuel_capacity", name, row)
		if err != nil {
			return nil, err
		}
		cargoCapacity, err := parseRowFloat(get, "cargo_capacity", name, row)
		if err != nil {
			return nil, err
		}

		ship := ShipAttributes{
			Name:          strings.TrimSpace(name),
			BaseMassKG:    baseMassKG,
			SpecificHeat:  specificHeat,
			FuelCapacity:  fuelCapacity,
			CargoCapacity: cargoCapacity,
		}
		if err := ship.validate(); err != nil {
			return nil, err
		}

		key := normalizeName(ship.Name)
		if _, exists := ships[key]; exists {
			return nil, routeerr.DuplicateShipName(key)
		}
		ships[key] = ship
	}

	return &Catalog{ships: ships}, nil
}

func parseRowFloat(get func(string) string, field, name string, row int) (float64, error) {
	raw := get(field)
	if raw == "" {
		return 0, routeerr.ShipDataValidationAt(row, field, fmt.Sprintf("missing %s for ship %q", field, name))
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, routeerr.ShipDataValidationAt(row, field, fmt.Sprintf("invalid %s for ship %q: %v", field, name, err))
	}
	if !isFinite(v) || v <= 0 {
		return 0, routeerr.ShipDataValidationAt(row, field, fmt.Sprintf("%s for ship %q must be a finite positive number", field, name))
	}
	return v, nil
}

// Get resolves a ship by case/whitespace-insensitive name.
func (c *Catalog) Get(name string) (ShipAttributes, bool) {
	s, ok := c.ships[normalizeName(name)]
	return s, ok
}

// Names returns every catalog ship name, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.ships))
	for _, s := range c.ships {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}
