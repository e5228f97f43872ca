package routing

import (
	"math"

	"transit_router/pkg/graph"
)

// noEdge marks a vertex without a predecessor edge (the source, or unreached).
const noEdge = ^graph.EdgeID(0)

// MinHeap is a concrete-typed min-heap for Dijkstra priority queue.
// Avoids interface boxing overhead of container/heap.
// Items are ordered by distance, then vertex id, so pops are deterministic.
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry.
type PQItem struct {
	Vertex graph.VertexID
	Dist   float64
}

func (a PQItem) less(b PQItem) bool {
	if a.Dist != b.Dist {
		return a.Dist < b.Dist
	}
	return a.Vertex < b.Vertex
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(v graph.VertexID, dist float64) {
	h.items = append(h.items, PQItem{v, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) Reset() {
	h.items = h.items[:0]
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.items[i].less(h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].less(h.items[smallest]) {
			smallest = left
		}
		if right < n && h.items[right].less(h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// shortestPathTree is the single-source result for one source vertex.
type shortestPathTree struct {
	dist []float64      // +Inf when unreachable
	prev []graph.EdgeID // last edge on the shortest path, noEdge for the source
}

// reachable reports whether v was reached from the tree's source.
func (t *shortestPathTree) reachable(v graph.VertexID) bool {
	return !math.IsInf(t.dist[v], 1)
}

// path returns the edge ids from the source to v in traversal order.
func (t *shortestPathTree) path(g *graph.Graph, v graph.VertexID) []graph.EdgeID {
	var edges []graph.EdgeID
	for id := t.prev[v]; id != noEdge; id = t.prev[v] {
		edges = append(edges, id)
		v = g.Edge(id).From
	}
	// Reverse to get source → v.
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return edges
}

// dijkstra computes the shortest-path tree rooted at source over a sealed graph.
// Relaxation only accepts strict improvements and edges are scanned in sealed
// order, so equal-weight ties always resolve the same way.
func dijkstra(g *graph.Graph, h *MinHeap, source graph.VertexID) *shortestPathTree {
	n := g.NumVertices()
	t := &shortestPathTree{
		dist: make([]float64, n),
		prev: make([]graph.EdgeID, n),
	}
	for i := range t.dist {
		t.dist[i] = math.Inf(1)
		t.prev[i] = noEdge
	}

	h.Reset()
	t.dist[source] = 0
	h.Push(source, 0)

	for h.Len() > 0 {
		item := h.Pop()
		u := item.Vertex
		if item.Dist > t.dist[u] {
			continue // stale entry
		}

		for _, id := range g.EdgesFrom(u) {
			e := g.Edge(id)
			newDist := item.Dist + e.Weight
			if newDist < t.dist[e.To] {
				t.dist[e.To] = newDist
				t.prev[e.To] = id
				h.Push(e.To, newDist)
			}
		}
	}

	return t
}
