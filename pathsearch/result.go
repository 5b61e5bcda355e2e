package pathsearch

import "github.com/sargonas/stellar-router/starmap"

// Algorithm names the search strategy that produced a Result.
type Algorithm int

const (
	AlgorithmBFS Algorithm = iota
	AlgorithmDijkstra
	AlgorithmAStar
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmBFS:
		return "bfs"
	case AlgorithmDijkstra:
		return "dijkstra"
	case AlgorithmAStar:
		return "astar"
	default:
		return "unknown"
	}
}

// Result is a found path: start and goal inclusive, length >= 2 unless
// start == goal, in which case it is length 1.
type Result struct {
	Algorithm Algorithm
	Steps     []starmap.SystemId
}

// backtrace walks a predecessor map from goal back to start and reverses
// it, producing [start, ..., goal].
func backtrace(prev map[starmap.SystemId]starmap.SystemId, start, goal starmap.SystemId) []starmap.SystemId {
	if start == goal {
		return []starmap.SystemId{start}
	}
	steps := []starmap.SystemId{goal}
	cur := goal
	for cur != start {
		p, ok := prev[cur]
		if !ok {
			return nil
		}
		steps = append(steps, p)
		cur = p
	}
	// reverse in place
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}
