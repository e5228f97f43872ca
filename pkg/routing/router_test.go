package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit_router/pkg/graph"
)

func TestBuildRouteSameVertex(t *testing.T) {
	r := NewRouter(buildTestGraph(t))

	info, ok := r.BuildRoute(2, 2)
	require.True(t, ok)
	assert.Zero(t, info.Weight)
	assert.Zero(t, info.EdgeCount)
	assert.NoError(t, r.ReleaseRoute(info.ID))
}

func TestBuildRouteEdges(t *testing.T) {
	g := buildTestGraph(t)
	r := NewRouter(g)

	// 0 -> 5: via 1, 2 costs 1+2+4 = 7; via 3, 4 costs 3+5+6 = 14.
	info, ok := r.BuildRoute(0, 5)
	require.True(t, ok)
	assert.Equal(t, 7.0, info.Weight)
	require.Equal(t, 3, info.EdgeCount)

	want := []graph.VertexID{1, 2, 5}
	from := graph.VertexID(0)
	for i := range info.EdgeCount {
		id, err := r.RouteEdge(info.ID, i)
		require.NoError(t, err)
		e := g.Edge(id)
		assert.Equal(t, from, e.From)
		assert.Equal(t, want[i], e.To)
		from = e.To
	}

	// Reading again, in reverse order, gives the same edges.
	first, err := r.RouteEdge(info.ID, 0)
	require.NoError(t, err)
	last, err := r.RouteEdge(info.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, graph.VertexID(0), g.Edge(first).From)
	assert.Equal(t, graph.VertexID(5), g.Edge(last).To)

	_, err = r.RouteEdge(info.ID, 3)
	assert.ErrorIs(t, err, ErrEdgeIndex)
	_, err = r.RouteEdge(info.ID, -1)
	assert.ErrorIs(t, err, ErrEdgeIndex)

	require.NoError(t, r.ReleaseRoute(info.ID))
	assert.Equal(t, 0, r.ActiveRoutes())
}

func TestBuildRouteUnreachable(t *testing.T) {
	g := graph.New(4)
	g.AddEdge(0, 1, 1) // one-way
	g.AddEdge(2, 3, 1)
	r := NewRouter(g)

	_, ok := r.BuildRoute(1, 0)
	assert.False(t, ok, "no directed path back")

	_, ok = r.BuildRoute(0, 3)
	assert.False(t, ok, "different components")

	assert.Equal(t, 0, r.ActiveRoutes())
	assert.Equal(t, 2, r.Components().Count())
}

func TestBuildRouteOutOfRangePanics(t *testing.T) {
	r := NewRouter(buildTestGraph(t))
	assert.Panics(t, func() { r.BuildRoute(0, 6) })
}

func TestReleasedRouteIsRejected(t *testing.T) {
	r := NewRouter(buildTestGraph(t))

	info, ok := r.BuildRoute(0, 4)
	require.True(t, ok)
	require.NoError(t, r.ReleaseRoute(info.ID))

	_, err := r.RouteEdge(info.ID, 0)
	assert.ErrorIs(t, err, ErrUnknownRoute)
	assert.ErrorIs(t, r.ReleaseRoute(info.ID), ErrUnknownRoute)
	assert.ErrorIs(t, r.ReleaseRoute(RouteID(0)), ErrUnknownRoute)
}

func TestSlotReuseDoesNotAlias(t *testing.T) {
	r := NewRouter(buildTestGraph(t))

	stale, ok := r.BuildRoute(0, 5)
	require.True(t, ok)
	require.NoError(t, r.ReleaseRoute(stale.ID))

	fresh, ok := r.BuildRoute(3, 4)
	require.True(t, ok)
	assert.Equal(t, stale.ID.slot(), fresh.ID.slot(), "slot is recycled")
	assert.NotEqual(t, stale.ID, fresh.ID)

	_, err := r.RouteEdge(stale.ID, 0)
	assert.ErrorIs(t, err, ErrUnknownRoute)

	_, err = r.RouteEdge(fresh.ID, 0)
	assert.NoError(t, err)
	require.NoError(t, r.ReleaseRoute(fresh.ID))
}

func TestIndependentRelease(t *testing.T) {
	r := NewRouter(buildTestGraph(t))

	a, _ := r.BuildRoute(0, 5)
	b, _ := r.BuildRoute(5, 0)
	c, _ := r.BuildRoute(1, 4)
	assert.Equal(t, 3, r.ActiveRoutes())

	require.NoError(t, r.ReleaseRoute(b.ID))
	_, err := r.RouteEdge(a.ID, 0)
	assert.NoError(t, err)
	_, err = r.RouteEdge(c.ID, 0)
	assert.NoError(t, err)

	require.NoError(t, r.ReleaseRoute(a.ID))
	require.NoError(t, r.ReleaseRoute(c.ID))
	assert.Equal(t, 0, r.ActiveRoutes())
}

func TestBuildRouteDeterministicTies(t *testing.T) {
	// Two equal-weight paths 0 -> 3: via 1 and via 2.
	g := graph.New(4)
	g.AddEdge(0, 1, 1)
	g.AddEdge(0, 2, 1)
	g.AddEdge(1, 3, 1)
	g.AddEdge(2, 3, 1)
	r := NewRouter(g)

	edgesOf := func() []graph.EdgeID {
		info, ok := r.BuildRoute(0, 3)
		require.True(t, ok)
		defer r.ReleaseRoute(info.ID)
		var out []graph.EdgeID
		for i := range info.EdgeCount {
			id, err := r.RouteEdge(info.ID, i)
			require.NoError(t, err)
			out = append(out, id)
		}
		return out
	}

	first := edgesOf()
	for range 5 {
		assert.Equal(t, first, edgesOf())
	}
	assert.Equal(t, 1, r.CachedTrees(), "tree for source 0 computed once")

	// A fresh router over an identical graph picks the same path.
	g2 := graph.New(4)
	g2.AddEdge(0, 1, 1)
	g2.AddEdge(0, 2, 1)
	g2.AddEdge(1, 3, 1)
	g2.AddEdge(2, 3, 1)
	r2 := NewRouter(g2)
	info, ok := r2.BuildRoute(0, 3)
	require.True(t, ok)
	id, err := r2.RouteEdge(info.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, first[0], id)
}
