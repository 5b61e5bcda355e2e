package routeerr

import (
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindUnknownSystem:         "unknown_system",
		KindRouteNotFound:         "route_not_found",
		KindEmptyRoutePlan:        "empty_route_plan",
		KindUnsupportedSchema:     "unsupported_schema",
		KindDatasetNotFound:       "dataset_not_found",
		KindShipDataValidation:    "ship_data_validation",
		KindDuplicateShipName:     "duplicate_ship_name",
		KindSpatialIndexSerialize: "spatial_index_serialize",
		KindSpatialIndexLoad:      "spatial_index_load",
		KindIO:                    "io",
		Kind(999):                 "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestUnknownSystemCarriesSuggestions(t *testing.T) {
	err := UnknownSystem("Bran", []string{"Brana"})
	if err.Kind != KindUnknownSystem {
		t.Fatalf("Kind = %v, want KindUnknownSystem", err.Kind)
	}
	if err.Name != "Bran" {
		t.Errorf("Name = %q, want Bran", err.Name)
	}
	if len(err.Suggestions) != 1 || err.Suggestions[0] != "Brana" {
		t.Errorf("Suggestions = %v, want [Brana]", err.Suggestions)
	}
	if err.Error() == "" {
		t.Error("expected a non-empty message")
	}
}

func TestIOWrapsAndUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := IO(cause)
	if wrapped.Kind != KindIO {
		t.Fatalf("Kind = %v, want KindIO", wrapped.Kind)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
	if IO(nil) != nil {
		t.Error("IO(nil) should return nil")
	}
}

func TestShipDataValidationAtIncludesRowAndField(t *testing.T) {
	err := ShipDataValidationAt(7, "fuel_capacity", "must be positive")
	if err.Row != 7 || err.Field != "fuel_capacity" {
		t.Errorf("Row/Field = %d/%q, want 7/fuel_capacity", err.Row, err.Field)
	}
}
