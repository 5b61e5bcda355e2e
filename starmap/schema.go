package starmap

import "database/sql"

// driverKind distinguishes the two database/sql drivers the loader
// supports; schema probing needs it because SQLite and Postgres expose
// catalog metadata through different system views.
type driverKind int

const (
	driverSQLite driverKind = iota
	driverPostgres
)

// schemaVariant names one of the two dataset layouts the loader
// recognizes.
type schemaVariant int

const (
	schemaStaticData schemaVariant = iota
	schemaLegacyMap
)

func (v schemaVariant) String() string {
	if v == schemaStaticData {
		return "static_data"
	}
	return "legacy_map"
}

// metadataJoin describes an optional LEFT JOIN used to enrich a system row
// with a human-readable name for a foreign key column.
type metadataJoin struct {
	fkColumn        string
	table           string
	tableIDColumn   string
	tableNameColumn string
}

// positionColumns names the three coordinate columns, when the schema
// carries positions at all.
type positionColumns struct {
	x, y, z string
}

// schemaDefinition is the resolved column/table mapping for one schema
// variant, used to build every query the loader issues.
type schemaDefinition struct {
	variant schemaVariant

	systemsTable      string
	systemIDColumn    string
	systemNameColumn  string
	jumpsTable        string
	jumpFromColumn    string
	jumpToColumn      string

	constellationJoin *metadataJoin
	regionJoin        *metadataJoin
	securityColumn    string // empty when absent
	positions         *positionColumns

	// luminosityColumn/starTempColumn name the star's luminosity (watts)
	// and surface temperature (Kelvin) columns on the systems table, when
	// the schema carries stellar data at all.
	luminosityColumn string
	starTempColumn   string

	// planetsTable/moonsTable name the optional celestial tables used to
	// compute minimum external temperature and planet/moon counts. Empty
	// when the schema variant never carries them.
	planetsTable        string
	planetSystemColumn  string
	planetDistanceColumn string
	moonsTable          string
	moonSystemColumn    string
	moonDistanceColumn  string
}

func staticDataDefinition() schemaDefinition {
	return schemaDefinition{
		variant:          schemaStaticData,
		systemsTable:     "SolarSystems",
		systemIDColumn:   "solarSystemId",
		systemNameColumn: "name",
		jumpsTable:       "Jumps",
		jumpFromColumn:   "fromSystemId",
		jumpToColumn:     "toSystemId",
		constellationJoin: &metadataJoin{
			fkColumn:        "constellationId",
			table:           "Constellations",
			tableIDColumn:   "constellationId",
			tableNameColumn: "name",
		},
		regionJoin: &metadataJoin{
			fkColumn:        "regionId",
			table:           "Regions",
			tableIDColumn:   "regionId",
			tableNameColumn: "name",
		},
		securityColumn: "security",
		positions: &positionColumns{
			x: "centerX", y: "centerY", z: "centerZ",
		},
		luminosityColumn: "starLuminosity",
		starTempColumn:   "starTemperature",
		planetsTable:         "Planets",
		planetSystemColumn:   "solarSystemId",
		planetDistanceColumn: "distanceFromStar",
		moonsTable:           "Moons",
		moonSystemColumn:     "solarSystemId",
		moonDistanceColumn:   "distanceFromStar",
	}
}

func legacyMapDefinition() schemaDefinition {
	return schemaDefinition{
		variant:          schemaLegacyMap,
		systemsTable:     "mapSolarSystems",
		systemIDColumn:   "solarSystemID",
		systemNameColumn: "solarSystemName",
		jumpsTable:       "mapSolarSystemJumps",
		jumpFromColumn:   "fromSolarSystemID",
		jumpToColumn:     "toSolarSystemID",
	}
}

// detectSchema probes the dataset for the table set matching one of the
// two known variants, preferring the current (static data) layout.
func detectSchema(db *sql.DB, kind driverKind) (schemaDefinition, bool) {
	static := staticDataDefinition()
	if tableExists(db, kind, static.systemsTable) && tableExists(db, kind, static.jumpsTable) {
		return static, true
	}

	legacy := legacyMapDefinition()
	if tableExists(db, kind, legacy.systemsTable) && tableExists(db, kind, legacy.jumpsTable) {
		return legacy, true
	}

	return schemaDefinition{}, false
}

// tableExists probes for a table by name using the catalog view native to
// the driver in use.
func tableExists(db *sql.DB, kind driverKind, table string) bool {
	var query string
	switch kind {
	case driverPostgres:
		query = `SELECT 1 FROM information_schema.tables WHERE table_name = $1 LIMIT 1`
	default:
		query = `SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ? LIMIT 1`
	}

	var dummy int
	err := db.QueryRow(query, table).Scan(&dummy)
	return err == nil
}
