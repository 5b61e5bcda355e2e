package spatialindex

import (
	"container/heap"
	"sort"
)

// kdTree is a static, balanced KD-tree (k=3) over a fixed node slice,
// indexing by position into that slice rather than owning a copy of the
// coordinates. There is no Go-ecosystem equivalent of the Rust `kiddo`
// crate in the example pack, so this is hand-rolled; see DESIGN.md.
type kdTree struct {
	nodes []IndexNode
	root  *kdNode
}

type kdNode struct {
	idx         int
	left, right *kdNode
}

// buildKDTree builds a tree over every element of nodes, splitting on
// depth%3 at the median each level so the tree stays balanced
// regardless of input order.
func buildKDTree(nodes []IndexNode) *kdTree {
	t := &kdTree{nodes: nodes}
	idxs := make([]int, len(nodes))
	for i := range idxs {
		idxs[i] = i
	}
	t.root = t.build(idxs, 0)
	return t
}

func (t *kdTree) build(idxs []int, depth int) *kdNode {
	if len(idxs) == 0 {
		return nil
	}
	axis := depth % 3
	sort.Slice(idxs, func(i, j int) bool {
		return t.nodes[idxs[i]].Coords[axis] < t.nodes[idxs[j]].Coords[axis]
	})
	mid := len(idxs) / 2
	node := &kdNode{idx: idxs[mid]}
	node.left = t.build(idxs[:mid], depth+1)
	node.right = t.build(idxs[mid+1:], depth+1)
	return node
}

func squaredDist(a, b [3]float32) float32 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return dx*dx + dy*dy + dz*dz
}

// candidate is one KD-tree hit: the index into the tree's node slice and
// its squared distance to the query point.
type candidate struct {
	idx    int
	distSq float32
}

// candMaxHeap is a bounded max-heap keyed by distSq, so the worst of the
// k-best-so-far sits at the root and can be evicted in O(log k).
type candMaxHeap []candidate

func (h candMaxHeap) Len() int            { return len(h) }
func (h candMaxHeap) Less(i, j int) bool  { return h[i].distSq > h[j].distSq }
func (h candMaxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candMaxHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candMaxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// nearestN returns up to k candidates nearest to point, sorted ascending
// by distance. Empty when k<=0 or the tree holds no nodes.
func (t *kdTree) nearestN(point [3]float32, k int) []candidate {
	if k <= 0 || t.root == nil {
		return nil
	}
	h := &candMaxHeap{}
	heap.Init(h)

	var visit func(n *kdNode, depth int)
	visit = func(n *kdNode, depth int) {
		if n == nil {
			return
		}
		d := squaredDist(point, t.nodes[n.idx].Coords)
		if h.Len() < k {
			heap.Push(h, candidate{idx: n.idx, distSq: d})
		} else if d < (*h)[0].distSq {
			heap.Pop(h)
			heap.Push(h, candidate{idx: n.idx, distSq: d})
		}

		axis := depth % 3
		diff := point[axis] - t.nodes[n.idx].Coords[axis]
		near, far := n.left, n.right
		if diff > 0 {
			near, far = n.right, n.left
		}
		visit(near, depth+1)
		if h.Len() < k || diff*diff < (*h)[0].distSq {
			visit(far, depth+1)
		}
	}
	visit(t.root, 0)

	result := make([]candidate, h.Len())
	copy(result, *h)
	sort.Slice(result, func(i, j int) bool { return result[i].distSq < result[j].distSq })
	return result
}

// withinRadius returns every candidate within radiusSq (squared
// light-years), unsorted.
func (t *kdTree) withinRadius(point [3]float32, radiusSq float32) []candidate {
	if t.root == nil {
		return nil
	}
	var results []candidate

	var visit func(n *kdNode, depth int)
	visit = func(n *kdNode, depth int) {
		if n == nil {
			return
		}
		d := squaredDist(point, t.nodes[n.idx].Coords)
		if d <= radiusSq {
			results = append(results, candidate{idx: n.idx, distSq: d})
		}

		axis := depth % 3
		diff := point[axis] - t.nodes[n.idx].Coords[axis]
		first, second := n.left, n.right
		if diff > 0 {
			first, second = n.right, n.left
		}
		visit(first, depth+1)
		if diff*diff <= radiusSq {
			visit(second, depth+1)
		}
	}
	visit(t.root, 0)
	return results
}
