// Package spatialindex implements a precomputed KD-tree over every
// positioned system in a Starmap, serialized to disk (the EFSI binary
// format) for fast cold-start loading. The index embeds per-system
// minimum external temperature so routing queries can apply fail-open
// temperature filtering without a round trip to the dataset.
package spatialindex

import "github.com/sargonas/stellar-router/starmap"

// Magic bytes identifying an index file, the format version, and the
// flag bit marking that at least one node carries a temperature.
const (
	indexMagic           = "EFSI"
	indexVersion    uint8 = 1
	flagHasTemperature   = 0x01
	// flagHasMetadata marks an index body as carrying a DatasetMetadata
	// block ahead of the node records (the "v2" layout of §4.H).
	flagHasMetadata  = 0x02
	headerSize       = 16
	checksumSize     = 32
	compressionLevel = 3
)

// IndexNode is one indexed system: its identifier, 3D coordinates in
// light-years, and minimum external temperature in Kelvin (nil when
// unknown).
type IndexNode struct {
	SystemID        starmap.SystemId
	Coords          [3]float32
	MinExternalTemp *float32
}

// Query parameterizes a nearest-neighbour search.
type Query struct {
	// K is the maximum number of results to return.
	K int
	// Radius, if non-nil, excludes results farther than this many
	// light-years.
	Radius *float64
	// MaxTemperature, if non-nil, excludes systems whose
	// MinExternalTemp exceeds it. Systems with no temperature data
	// always pass (fail-open).
	MaxTemperature *float64
}

// NearestQuery builds a plain k-nearest query with no constraints.
func NearestQuery(k int) Query {
	return Query{K: k}
}

// WithinRadiusQuery builds a query additionally bounded by radius
// light-years.
func WithinRadiusQuery(k int, radius float64) Query {
	return Query{K: k, Radius: &radius}
}

// WithTemperatureQuery builds a query additionally bounded by a maximum
// temperature in Kelvin.
func WithTemperatureQuery(k int, maxTemperature float64) Query {
	return Query{K: k, MaxTemperature: &maxTemperature}
}

// Neighbor is one result of a nearest-neighbour or radius search.
type Neighbor struct {
	SystemID starmap.SystemId
	Distance float64
}
