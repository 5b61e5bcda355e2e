// Package routeerr defines the unified error taxonomy shared by every
// component of the routing engine. Every fallible operation in the engine
// returns one of these kinds rather than an ad-hoc error string, so
// collaborators (CLI, MCP server, HTTP service) can pattern-match on Kind
// without parsing messages.
package routeerr

import "fmt"

// Kind identifies the category of a routing engine error.
type Kind int

const (
	// KindUnknownSystem means a system name could not be resolved.
	KindUnknownSystem Kind = iota
	// KindRouteNotFound means search exhausted every option under the
	// given constraints without reaching the goal.
	KindRouteNotFound
	// KindEmptyRoutePlan means a summary was requested for a plan with
	// no steps.
	KindEmptyRoutePlan
	// KindUnsupportedSchema means the dataset connection matched neither
	// known schema variant.
	KindUnsupportedSchema
	// KindDatasetNotFound means the dataset file or connection target is
	// missing.
	KindDatasetNotFound
	// KindShipDataValidation means a ship attribute, loadout, or fuel/heat
	// configuration value was invalid.
	KindShipDataValidation
	// KindDuplicateShipName means two catalog rows share a normalized name.
	KindDuplicateShipName
	// KindSpatialIndexSerialize means the index could not be written.
	KindSpatialIndexSerialize
	// KindSpatialIndexLoad means the index could not be read or failed
	// validation (magic, version, or checksum mismatch).
	KindSpatialIndexLoad
	// KindIO wraps any other I/O failure.
	KindIO
)

// String renders the kind the way it would appear in a log line.
func (k Kind) String() string {
	switch k {
	case KindUnknownSystem:
		return "unknown_system"
	case KindRouteNotFound:
		return "route_not_found"
	case KindEmptyRoutePlan:
		return "empty_route_plan"
	case KindUnsupportedSchema:
		return "unsupported_schema"
	case KindDatasetNotFound:
		return "dataset_not_found"
	case KindShipDataValidation:
		return "ship_data_validation"
	case KindDuplicateShipName:
		return "duplicate_ship_name"
	case KindSpatialIndexSerialize:
		return "spatial_index_serialize"
	case KindSpatialIndexLoad:
		return "spatial_index_load"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the single tagged error type returned by every engine operation.
// Context specific to the Kind is carried in the typed fields rather than
// folded into Message, so a caller can recover it without string parsing.
type Error struct {
	Kind Kind

	// Message is a human-readable summary, always populated.
	Message string

	// Name is the system or ship name involved (UnknownSystem,
	// DuplicateShipName).
	Name string
	// Suggestions holds fuzzy-matched candidate names (UnknownSystem only).
	Suggestions []string

	// Start and Goal are the requested endpoint names (RouteNotFound).
	Start string
	Goal  string

	// Path is a file or dataset location (DatasetNotFound,
	// SpatialIndexSerialize, SpatialIndexLoad).
	Path string

	// Row and Field locate a ship-catalog validation failure.
	Row   int
	Field string

	// wrapped is the underlying error for KindIO (set only by IO).
	wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

// Unwrap exposes the wrapped error so errors.Is/errors.As work against the
// underlying cause of an Io-kind error.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// UnknownSystem builds the error returned when a system name cannot be
// resolved. suggestions is expected to already be sorted and truncated.
func UnknownSystem(name string, suggestions []string) *Error {
	return &Error{
		Kind:        KindUnknownSystem,
		Name:        name,
		Suggestions: suggestions,
		Message:     fmt.Sprintf("unknown system %q", name),
	}
}

// RouteNotFound builds the error returned when no path exists between
// start and goal under the active constraints.
func RouteNotFound(start, goal string) *Error {
	return &Error{
		Kind:    KindRouteNotFound,
		Start:   start,
		Goal:    goal,
		Message: fmt.Sprintf("no route from %q to %q under the given constraints", start, goal),
	}
}

// EmptyRoutePlan builds the error returned when a RoutePlan with no steps
// is handed to RouteSummary.FromPlan.
func EmptyRoutePlan() *Error {
	return &Error{
		Kind:    KindEmptyRoutePlan,
		Message: "route plan has no steps",
	}
}

// UnsupportedSchema builds the error returned when neither known dataset
// schema variant could be detected.
func UnsupportedSchema() *Error {
	return &Error{
		Kind:    KindUnsupportedSchema,
		Message: "dataset schema did not match any supported variant",
	}
}

// DatasetNotFound builds the error returned when the dataset is missing at
// the requested location.
func DatasetNotFound(path string) *Error {
	return &Error{
		Kind:    KindDatasetNotFound,
		Path:    path,
		Message: fmt.Sprintf("dataset not found at %q", path),
	}
}

// ShipDataValidation builds the error returned for an invalid ship
// attribute, loadout, or fuel/heat configuration value.
func ShipDataValidation(message string) *Error {
	return &Error{
		Kind:    KindShipDataValidation,
		Message: message,
	}
}

// ShipDataValidationAt is ShipDataValidation with CSV row/field context.
func ShipDataValidationAt(row int, field, message string) *Error {
	return &Error{
		Kind:    KindShipDataValidation,
		Row:     row,
		Field:   field,
		Message: fmt.Sprintf("row %d, field %q: %s", row, field, message),
	}
}

// DuplicateShipName builds the error returned when two catalog rows share
// a case/punctuation-folded name.
func DuplicateShipName(name string) *Error {
	return &Error{
		Kind:    KindDuplicateShipName,
		Name:    name,
		Message: fmt.Sprintf("duplicate ship name %q", name),
	}
}

// SpatialIndexSerialize builds the error returned when an index fails to
// save.
func SpatialIndexSerialize(path, message string) *Error {
	return &Error{
		Kind:    KindSpatialIndexSerialize,
		Path:    path,
		Message: fmt.Sprintf("failed to serialize spatial index at %q: %s", path, message),
	}
}

// SpatialIndexLoad builds the error returned when an index fails to load
// or fails validation.
func SpatialIndexLoad(path, message string) *Error {
	return &Error{
		Kind:    KindSpatialIndexLoad,
		Path:    path,
		Message: fmt.Sprintf("failed to load spatial index at %q: %s", path, message),
	}
}

// IO wraps an arbitrary I/O failure, preserving the original error for
// errors.Is/errors.As.
func IO(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:    KindIO,
		Message: err.Error(),
		wrapped: err,
	}
}
