// Command galaxy-export is a worked example wiring the stellar-router
// library end to end: it loads a starmap dataset, loads or builds a
// persisted spatial index, plans a route between two named systems, and
// prints the resulting RouteSummary as JSON. It is demonstration wiring,
// not part of the core contract.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sargonas/stellar-router/pathsearch"
	"github.com/sargonas/stellar-router/planner"
	"github.com/sargonas/stellar-router/spatialindex"
	"github.com/sargonas/stellar-router/starmap"
)

func main() {
	var (
		dbPath      = flag.String("db", "", "path to the starmap SQLite database")
		start       = flag.String("start", "", "start system name")
		goal        = flag.String("goal", "", "goal system name")
		algorithm   = flag.String("algorithm", "astar", "bfs | dijkstra | astar")
		avoidGates  = flag.Bool("avoid-gates", false, "restrict the search to spatial jumps only")
		maxJumpFlag = flag.Float64("max-jump", 0, "cap a single spatial hop's distance in light-years (0 = unlimited)")
		rebuild     = flag.Bool("rebuild-index", false, "rebuild the spatial index even if a cached one exists")
	)
	flag.Parse()

	if *dbPath == "" || *start == "" || *goal == "" {
		fmt.Fprintln(os.Stderr, "usage: galaxy-export -db <path> -start <name> -goal <name> [-algorithm astar] [-avoid-gates] [-max-jump ly] [-rebuild-index]")
		os.Exit(2)
	}

	sm, err := starmap.LoadPath(*dbPath)
	if err != nil {
		fail(err)
	}

	index, err := loadOrBuildIndex(sm, *dbPath, *rebuild)
	if err != nil {
		fail(err)
	}

	constraints := planner.DefaultRouteConstraints()
	constraints.AvoidGates = *avoidGates
	if *maxJumpFlag > 0 {
		constraints.MaxJump = maxJumpFlag
	}

	p := planner.NewPlanner(sm, index)
	plan, err := p.PlanRoute(planner.Request{
		Start:       *start,
		Goal:        *goal,
		Algorithm:   parseAlgorithm(*algorithm),
		Constraints: constraints,
	})
	if err != nil {
		fail(err)
	}

	summary, err := planner.FromPlan("route", sm, plan)
	if err != nil {
		fail(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		fail(err)
	}
}

// loadOrBuildIndex loads the dataset's cached spatial index unless rebuild
// is set or no cached index exists, in which case it builds and persists
// one fresh.
func loadOrBuildIndex(sm *starmap.Starmap, dbPath string, rebuild bool) (*spatialindex.Index, error) {
	indexPath := spatialindex.SpatialIndexPath(dbPath)
	if !rebuild {
		if idx, err := spatialindex.Load(indexPath); err == nil {
			return idx, nil
		}
	}

	idx := spatialindex.Build(sm)
	if err := idx.Save(indexPath); err != nil {
		return nil, err
	}
	return idx, nil
}

func parseAlgorithm(name string) pathsearch.Algorithm {
	switch name {
	case "bfs":
		return pathsearch.AlgorithmBFS
	case "dijkstra":
		return pathsearch.AlgorithmDijkstra
	default:
		return pathsearch.AlgorithmAStar
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "galaxy-export:", err)
	os.Exit(1)
}
