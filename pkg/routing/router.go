package routing

import (
	"errors"
	"fmt"

	"transit_router/pkg/graph"
)

var (
	// ErrUnknownRoute is returned for a released, stale or never-issued route handle.
	ErrUnknownRoute = errors.New("unknown route handle")

	// ErrEdgeIndex is returned when an edge index is outside [0, EdgeCount).
	ErrEdgeIndex = errors.New("route edge index out of range")
)

// RouteInfo describes a built route.
type RouteInfo struct {
	ID        RouteID
	Weight    float64
	EdgeCount int
}

// Router answers cheapest-path queries over an immutable graph.
// Shortest-path trees are computed lazily, once per source vertex, and cached.
// Router is not safe for concurrent use.
type Router struct {
	g      *graph.Graph
	comps  *graph.Components
	trees  []*shortestPathTree // indexed by source vertex, nil until first query
	pq     MinHeap
	routes slotTable
}

// NewRouter seals g and prepares a router over it.
func NewRouter(g *graph.Graph) *Router {
	g.Seal()
	return &Router{
		g:     g,
		comps: graph.WeakComponents(g),
		trees: make([]*shortestPathTree, g.NumVertices()),
		pq:    MinHeap{items: make([]PQItem, 0, 64)},
	}
}

// Components returns the weak components of the routed graph.
func (r *Router) Components() *graph.Components { return r.comps }

// BuildRoute finds the cheapest path from → to. It returns false when to is
// unreachable. A route from a vertex to itself has weight 0 and no edges.
// Every returned route must eventually be passed to ReleaseRoute.
func (r *Router) BuildRoute(from, to graph.VertexID) (RouteInfo, bool) {
	n := r.g.NumVertices()
	if uint32(from) >= n || uint32(to) >= n {
		panic(fmt.Sprintf("routing: route %d->%d out of range [0,%d)", from, to, n))
	}

	if !r.comps.Same(from, to) {
		return RouteInfo{}, false
	}

	t := r.tree(from)
	if !t.reachable(to) {
		return RouteInfo{}, false
	}

	edges := t.path(r.g, to)
	id := r.routes.alloc(edges)
	return RouteInfo{ID: id, Weight: t.dist[to], EdgeCount: len(edges)}, true
}

// RouteEdge returns the edge at position index along a built route.
// Edge 0 leaves the origin, the last edge arrives at the destination.
func (r *Router) RouteEdge(id RouteID, index int) (graph.EdgeID, error) {
	s, ok := r.routes.get(id)
	if !ok {
		return 0, ErrUnknownRoute
	}
	if index < 0 || index >= len(s.edges) {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrEdgeIndex, index, len(s.edges))
	}
	return s.edges[index], nil
}

// ReleaseRoute discards the stored path of a route. The id must not be used afterwards.
func (r *Router) ReleaseRoute(id RouteID) error {
	if !r.routes.release(id) {
		return ErrUnknownRoute
	}
	return nil
}

// ActiveRoutes returns the number of built routes not yet released.
func (r *Router) ActiveRoutes() int { return r.routes.active }

// CachedTrees returns how many source vertices have a computed shortest-path tree.
func (r *Router) CachedTrees() int {
	var n int
	for _, t := range r.trees {
		if t != nil {
			n++
		}
	}
	return n
}

func (r *Router) tree(source graph.VertexID) *shortestPathTree {
	if t := r.trees[source]; t != nil {
		return t
	}
	t := dijkstra(r.g, &r.pq, source)
	r.trees[source] = t
	return t
}
