package starmap

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/mattn/go-sqlite3"    // registers the "sqlite3" driver

	"github.com/sargonas/stellar-router/diagnostics"
	"github.com/sargonas/stellar-router/routeerr"
)

var loadLog = diagnostics.WithComponent("starmap")

// OpenDataset opens a relational dataset connection behind database/sql.
// driverName is either "sqlite3" (a local dataset file) or "pgx" (a
// Postgres DSN, for a server-hosted current-schema deployment). The
// returned *sql.DB is the caller's to close.
func OpenDataset(driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, routeerr.IO(err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, routeerr.DatasetNotFound(dsn)
	}
	return db, nil
}

func driverKindOf(driverName string) driverKind {
	if driverName == "pgx" || driverName == "postgres" {
		return driverPostgres
	}
	return driverSQLite
}

// LoadPath opens and loads a SQLite dataset file in one call, the common
// path for CLI and offline use.
func LoadPath(path string) (*Starmap, error) {
	db, err := OpenDataset("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return Load(db, "sqlite3")
}

// Load reads an entire dataset into memory through an already-open
// connection, detecting the schema variant and tolerating absent optional
// metadata. The returned Starmap is immutable and safe for concurrent
// readers.
func Load(db *sql.DB, driverName string) (*Starmap, error) {
	kind := driverKindOf(driverName)
	correlationID := uuid.New()

	schema, ok := detectSchema(db, kind)
	if !ok {
		return nil, routeerr.UnsupportedSchema()
	}
	loadLog.Info("loading starmap correlation=%s schema=%s", correlationID, schema.variant)

	systems, err := loadSystems(db, schema)
	if err != nil {
		return nil, routeerr.IO(err)
	}

	adjacency, orphanCount, unknownIDs, err := loadAdjacency(db, schema, systems)
	if err != nil {
		return nil, routeerr.IO(err)
	}
	if orphanCount > 0 {
		loadLog.Warn("correlation=%s skipped %d jump rows referencing unknown systems, ids=%v", correlationID, orphanCount, unknownIDs)
	}

	if err := computeMinExternalTemps(db, schema, systems); err != nil {
		return nil, routeerr.IO(err)
	}
	if err := loadCelestialCounts(db, schema, systems); err != nil {
		return nil, routeerr.IO(err)
	}

	loadLog.Info("correlation=%s loaded %d systems, %d with positions", correlationID, len(systems), countPositioned(systems))

	return New(systems, adjacency), nil
}

func countPositioned(systems map[SystemId]System) int {
	n := 0
	for _, sys := range systems {
		if sys.Position != nil {
			n++
		}
	}
	return n
}

func loadSystems(db *sql.DB, schema schemaDefinition) (map[SystemId]System, error) {
	selects := []string{
		fmt.Sprintf("s.%s AS system_id", schema.systemIDColumn),
		fmt.Sprintf("s.%s AS system_name", schema.systemNameColumn),
	}
	var joins []string

	if schema.constellationJoin != nil {
		j := schema.constellationJoin
		selects = append(selects, fmt.Sprintf("s.%s AS constellation_id", j.fkColumn), fmt.Sprintf("c.%s AS constellation_name", j.tableNameColumn))
		joins = append(joins, fmt.Sprintf("LEFT JOIN %s c ON c.%s = s.%s", j.table, j.tableIDColumn, j.fkColumn))
	} else {
		selects = append(selects, "NULL AS constellation_id", "NULL AS constellation_name")
	}

	if schema.regionJoin != nil {
		j := schema.regionJoin
		selects = append(selects, fmt.Sprintf("s.%s AS region_id", j.fkColumn), fmt.Sprintf("r.%s AS region_name", j.tableNameColumn))
		joins = append(joins, fmt.Sprintf("LEFT JOIN %s r ON r.%s = s.%s", j.table, j.tableIDColumn, j.fkColumn))
	} else {
		selects = append(selects, "NULL AS region_id", "NULL AS region_name")
	}

	if schema.securityColumn != "" {
		selects = append(selects, fmt.Sprintf("s.%s AS security_status", schema.securityColumn))
	} else {
		selects = append(selects, "NULL AS security_status")
	}

	if schema.positions != nil {
		p := schema.positions
		selects = append(selects, fmt.Sprintf("s.%s AS position_x", p.x), fmt.Sprintf("s.%s AS position_y", p.y), fmt.Sprintf("s.%s AS position_z", p.z))
	} else {
		selects = append(selects, "NULL AS position_x", "NULL AS position_y", "NULL AS position_z")
	}

	if schema.luminosityColumn != "" {
		selects = append(selects, fmt.Sprintf("s.%s AS luminosity", schema.luminosityColumn))
	} else {
		selects = append(selects, "NULL AS luminosity")
	}
	if schema.starTempColumn != "" {
		selects = append(selects, fmt.Sprintf("s.%s AS star_temp", schema.starTempColumn))
	} else {
		selects = append(selects, "NULL AS star_temp")
	}

	query := fmt.Sprintf("SELECT %s FROM %s s %s", joinStrings(selects, ", "), schema.systemsTable, joinStrings(joins, " "))

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	systems := make(map[SystemId]System)
	for rows.Next() {
		var id int64
		var name string
		var constID, regionID sql.NullInt64
		var constName, regionName sql.NullString
		var security, posX, posY, posZ, luminosity, starTemp sql.NullFloat64

		if err := rows.Scan(&id, &name, &constID, &constName, &regionID, &regionName, &security, &posX, &posY, &posZ, &luminosity, &starTemp); err != nil {
			return nil, err
		}

		sys := System{ID: SystemId(id), Name: name}
		if constID.Valid {
			v := constID.Int64
			sys.Metadata.ConstellationId = &v
		}
		if constName.Valid {
			v := constName.String
			sys.Metadata.ConstellationName = &v
		}
		if regionID.Valid {
			v := regionID.Int64
			sys.Metadata.RegionId = &v
		}
		if regionName.Valid {
			v := regionName.String
			sys.Metadata.RegionName = &v
		}
		if security.Valid {
			v := security.Float64
			sys.Metadata.Security = &v
		}
		if luminosity.Valid {
			v := luminosity.Float64
			sys.Metadata.StarLuminosityWatts = &v
		}
		if starTemp.Valid {
			v := starTemp.Float64
			sys.Metadata.StarTemperatureKelvin = &v
		}

		if posX.Valid && posY.Valid && posZ.Valid {
			if !isFinite(posX.Float64) || !isFinite(posY.Float64) || !isFinite(posZ.Float64) {
				return nil, fmt.Errorf("system %d (%s) has a non-finite position", id, name)
			}
			pos, err := NewSystemPosition(
				metersToLightYears(posX.Float64),
				metersToLightYears(posY.Float64),
				metersToLightYears(posZ.Float64),
			)
			if err != nil {
				return nil, err
			}
			sys.Position = &pos
		}

		systems[sys.ID] = sys
	}
	return systems, rows.Err()
}

// maxLoggedUnknownIDs caps how many unknown system ids loadAdjacency
// collects for diagnostics, mirroring original_source/db.rs's
// invalid_system_ids cap.
const maxLoggedUnknownIDs = 5

// loadAdjacency loads jump rows and builds the bidirectional, sorted,
// deduplicated gate adjacency map. Rows referencing unknown systems are
// counted and skipped; up to five distinct unknown ids are collected for
// the caller to log as a diagnostic, never fatal.
func loadAdjacency(db *sql.DB, schema schemaDefinition, systems map[SystemId]System) (map[SystemId][]SystemId, int, []SystemId, error) {
	query := fmt.Sprintf("SELECT %s, %s FROM %s", schema.jumpFromColumn, schema.jumpToColumn, schema.jumpsTable)
	rows, err := db.Query(query)
	if err != nil {
		return nil, 0, nil, err
	}
	defer rows.Close()

	neighborSets := make(map[SystemId]map[SystemId]struct{})
	orphans := 0
	var unknownIDs []SystemId
	seenUnknown := make(map[SystemId]struct{})
	noteUnknown := func(id SystemId) {
		if _, ok := seenUnknown[id]; ok {
			return
		}
		if len(unknownIDs) >= maxLoggedUnknownIDs {
			return
		}
		seenUnknown[id] = struct{}{}
		unknownIDs = append(unknownIDs, id)
	}

	for rows.Next() {
		var from, to int64
		if err := rows.Scan(&from, &to); err != nil {
			return nil, 0, nil, err
		}
		fromID, toID := SystemId(from), SystemId(to)
		if _, ok := systems[fromID]; !ok {
			orphans++
			noteUnknown(fromID)
			continue
		}
		if _, ok := systems[toID]; !ok {
			orphans++
			noteUnknown(toID)
			continue
		}
		if fromID == toID {
			continue
		}
		addNeighbor(neighborSets, fromID, toID)
		addNeighbor(neighborSets, toID, fromID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, nil, err
	}

	adjacency := make(map[SystemId][]SystemId, len(neighborSets))
	for id, set := range neighborSets {
		list := make([]SystemId, 0, len(set))
		for n := range set {
			list = append(list, n)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		adjacency[id] = list
	}
	return adjacency, orphans, unknownIDs, nil
}

func addNeighbor(sets map[SystemId]map[SystemId]struct{}, from, to SystemId) {
	set, ok := sets[from]
	if !ok {
		set = make(map[SystemId]struct{})
		sets[from] = set
	}
	set[to] = struct{}{}
}

// computeMinExternalTemps evaluates the blackbody-style temperature model
// for every system with positive star luminosity, using the farthest
// known planet or moon as the reference orbital radius. Systems lacking
// luminosity (including black holes, modeled as non-positive luminosity)
// are left with no temperature: fail-open for every downstream filter.
func computeMinExternalTemps(db *sql.DB, schema schemaDefinition, systems map[SystemId]System) error {
	if schema.planetsTable == "" && schema.moonsTable == "" {
		return nil
	}

	maxDistance := make(map[SystemId]float64)

	for _, table := range []struct{ name, systemCol, distCol string }{
		{schema.planetsTable, schema.planetSystemColumn, schema.planetDistanceColumn},
		{schema.moonsTable, schema.moonSystemColumn, schema.moonDistanceColumn},
	} {
		if table.name == "" {
			continue
		}
		query := fmt.Sprintf("SELECT %s, %s FROM %s", table.systemCol, table.distCol, table.name)
		rows, err := db.Query(query)
		if err != nil {
			// The table does not exist in this particular dataset; that
			// metadata is simply absent, not an error.
			continue
		}
		for rows.Next() {
			var systemID int64
			var distance float64
			if err := rows.Scan(&systemID, &distance); err != nil {
				rows.Close()
				return err
			}
			id := SystemId(systemID)
			if distance > maxDistance[id] {
				maxDistance[id] = distance
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}

	for id, dist := range maxDistance {
		sys, ok := systems[id]
		if !ok {
			continue
		}
		lum := sys.Metadata.StarLuminosityWatts
		if lum == nil || *lum <= 0 {
			continue // non-positive luminosity models black holes: skipped silently
		}
		temp := minExternalTemperature(dist, *lum)
		sys.Metadata.MinExternalTemp = &temp
		systems[id] = sys
	}
	return nil
}

func loadCelestialCounts(db *sql.DB, schema schemaDefinition, systems map[SystemId]System) error {
	for _, spec := range []struct {
		table, systemCol string
		assign           func(sys *System, count int)
	}{
		{schema.planetsTable, schema.planetSystemColumn, func(sys *System, count int) { sys.Metadata.PlanetCount = &count }},
		{schema.moonsTable, schema.moonSystemColumn, func(sys *System, count int) { sys.Metadata.MoonCount = &count }},
	} {
		if spec.table == "" {
			continue
		}
		query := fmt.Sprintf("SELECT %s, COUNT(*) FROM %s GROUP BY %s", spec.systemCol, spec.table, spec.systemCol)
		rows, err := db.Query(query)
		if err != nil {
			continue // table absent: metadata simply not available
		}
		for rows.Next() {
			var systemID int64
			var count int
			if err := rows.Scan(&systemID, &count); err != nil {
				rows.Close()
				return err
			}
			id := SystemId(systemID)
			if sys, ok := systems[id]; ok {
				c := count
				spec.assign(&sys, c)
				systems[id] = sys
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}
	return nil
}

func joinStrings(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}
