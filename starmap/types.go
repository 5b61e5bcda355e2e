// Package starmap owns the loaded entity set for a dataset: systems,
// positions, metadata, and gate adjacency. A Starmap is built once by
// Load and never mutated afterward; its adjacency map is shared by
// reference among every graph projection derived from it.
package starmap

import (
	"fmt"
	"math"
)

// SystemId is the stable numeric identifier carried from the source
// dataset. It is opaque to the routing engine: never interpreted,
// only compared and looked up.
type SystemId int64

// SystemPosition is a 3D Cartesian position in light-years. All three
// components must be finite; NewSystemPosition enforces this.
type SystemPosition struct {
	X, Y, Z float64
}

// NewSystemPosition constructs a position, rejecting any non-finite
// component.
func NewSystemPosition(x, y, z float64) (SystemPosition, error) {
	if !isFinite(x) || !isFinite(y) || !isFinite(z) {
		return SystemPosition{}, fmt.Errorf("system position must be finite, got (%v, %v, %v)", x, y, z)
	}
	return SystemPosition{X: x, Y: y, Z: z}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DistanceTo returns the Euclidean distance between two positions, in
// light-years. Always non-negative and symmetric.
func (p SystemPosition) DistanceTo(other SystemPosition) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// SystemMetadata carries optional descriptive and environmental data for a
// system. Every field is a pointer (nil meaning "absent"); absence is
// common in well-formed datasets and is never an error.
type SystemMetadata struct {
	RegionName          *string
	RegionId             *int64
	ConstellationName    *string
	ConstellationId      *int64
	Security             *float64
	StarTemperatureKelvin *float64
	StarLuminosityWatts   *float64
	// MinExternalTemp is the blackbody-equilibrium-style temperature (K)
	// at the orbital radius of the outermost planet or moon, computed at
	// load time from celestial geometry. Nil when luminosity is unknown
	// or non-positive (e.g. black holes).
	MinExternalTemp *float64
	PlanetCount     *int
	MoonCount       *int
}

// System is a single solar system node. Position is nil when the dataset
// carries no coordinates for it; such systems are excluded from every
// spatial graph and from the spatial index.
type System struct {
	ID       SystemId
	Name     string
	Metadata SystemMetadata
	Position *SystemPosition
}

// Starmap owns the loaded entity set for one dataset. Constructed once by
// Load, never mutated afterward. Adjacency is shared by reference
// (read-only) among every Graph built from this Starmap.
type Starmap struct {
	Systems    map[SystemId]System
	nameToID   map[string]SystemId
	// Adjacency maps a system to its bidirectional gate-connected
	// neighbours: sorted, deduplicated, and identical on both endpoints
	// of every edge, per system.
	Adjacency map[SystemId][]SystemId
}

// New assembles a Starmap from a system set and its gate adjacency,
// deriving the name index. Exported for collaborators and tests that build
// a Starmap directly rather than through Load.
func New(systems map[SystemId]System, adjacency map[SystemId][]SystemId) *Starmap {
	nameToID := make(map[string]SystemId, len(systems))
	for id, sys := range systems {
		nameToID[sys.Name] = id
	}
	return &Starmap{
		Systems:   systems,
		nameToID:  nameToID,
		Adjacency: adjacency,
	}
}

// SystemByName resolves a system by exact, case-sensitive name.
func (s *Starmap) SystemByName(name string) (System, bool) {
	id, ok := s.nameToID[name]
	if !ok {
		return System{}, false
	}
	return s.Systems[id], ok
}

// SystemIDByName resolves a system identifier by exact, case-sensitive
// name.
func (s *Starmap) SystemIDByName(name string) (SystemId, bool) {
	id, ok := s.nameToID[name]
	return id, ok
}

// SystemName resolves a system's name by identifier.
func (s *Starmap) SystemName(id SystemId) (string, bool) {
	sys, ok := s.Systems[id]
	if !ok {
		return "", false
	}
	return sys.Name, true
}

// Names returns every known system name, in no particular order; used by
// fuzzy matching.
func (s *Starmap) Names() []string {
	names := make([]string, 0, len(s.nameToID))
	for name := range s.nameToID {
		names = append(names, name)
	}
	return names
}
