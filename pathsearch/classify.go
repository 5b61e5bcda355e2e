package pathsearch

import "github.com/sargonas/stellar-router/starmap"

// Method labels how a route covered one hop.
type Method int

const (
	MethodGate Method = iota
	MethodJump
)

func (m Method) String() string {
	if m == MethodGate {
		return "gate"
	}
	return "jump"
}

// ClassifyStep reports whether the hop from u to v used a dataset jump
// gate, based on the starmap's own adjacency (independent of which graph
// projection the search actually ran against).
func ClassifyStep(sm *starmap.Starmap, u, v starmap.SystemId) Method {
	for _, n := range sm.Adjacency[u] {
		if n == v {
			return MethodGate
		}
	}
	return MethodJump
}
