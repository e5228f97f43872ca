package osm

import (
	"math"
	"testing"

	"github.com/paulmach/osm"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit_router/pkg/api"
	"transit_router/pkg/geo"
)

func TestIsBusRoute(t *testing.T) {
	tests := []struct {
		name string
		tags osm.Tags
		want bool
	}{
		{
			name: "bus route",
			tags: osm.Tags{{Key: "type", Value: "route"}, {Key: "route", Value: "bus"}},
			want: true,
		},
		{
			name: "trolleybus route",
			tags: osm.Tags{{Key: "type", Value: "route"}, {Key: "route", Value: "trolleybus"}},
			want: true,
		},
		{
			name: "tram route",
			tags: osm.Tags{{Key: "type", Value: "route"}, {Key: "route", Value: "tram"}},
			want: false,
		},
		{
			name: "route master",
			tags: osm.Tags{{Key: "type", Value: "route_master"}, {Key: "route_master", Value: "bus"}},
			want: false,
		},
		{
			name: "disused bus route",
			tags: osm.Tags{
				{Key: "type", Value: "route"},
				{Key: "route", Value: "bus"},
				{Key: "disused", Value: "yes"},
			},
			want: false,
		},
		{
			name: "no type tag",
			tags: osm.Tags{{Key: "route", Value: "bus"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBusRoute(tt.tags))
		})
	}
}

func TestIsStopRole(t *testing.T) {
	for _, role := range []string{"stop", "stop_entry_only", "stop_exit_only", "stop1"} {
		assert.True(t, isStopRole(role), role)
	}
	for _, role := range []string{"", "platform", "forward", "sto"} {
		assert.False(t, isStopRole(role), role)
	}
}

func TestLineName(t *testing.T) {
	tests := []struct {
		name string
		tags osm.Tags
		want string
	}{
		{"ref wins", osm.Tags{{Key: "ref", Value: "14"}, {Key: "name", Value: "Bus 14"}}, "14"},
		{"name fallback", osm.Tags{{Key: "name", Value: "Airport Express"}}, "Airport Express"},
		{"id fallback", nil, "relation 42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lineName(42, tt.tags))
		})
	}
}

func TestStopName(t *testing.T) {
	named := &osm.Node{ID: 7, Tags: osm.Tags{{Key: "name", Value: "Main St"}}}
	assert.Equal(t, "Main St", stopName(named))
	assert.Equal(t, "node 7", stopName(&osm.Node{ID: 7}))
}

func TestBBox(t *testing.T) {
	var zero BBox
	assert.True(t, zero.IsZero())

	b := BBox{MinLat: 1, MaxLat: 2, MinLng: 103, MaxLng: 104}
	assert.False(t, b.IsZero())
	assert.True(t, b.Contains(1.5, 103.5))
	assert.False(t, b.Contains(0.5, 103.5))
	assert.False(t, b.Contains(1.5, 105))
}

var testStops = map[osm.NodeID]stopInfo{
	1: {Name: "A", Lat: 1.300, Lon: 103.800},
	2: {Name: "B", Lat: 1.310, Lon: 103.800},
	3: {Name: "C", Lat: 1.310, Lon: 103.810},
	4: {Name: "B", Lat: 1.3101, Lon: 103.8001}, // opposite side of the road
	5: {Name: "Far", Lat: 2.0, Lon: 104.5},
}

func findRequest(t *testing.T, doc *api.Document, kind, name string) api.BaseRequest {
	t.Helper()
	for _, r := range doc.BaseRequests {
		if r.Type == kind && r.Name == name {
			return r
		}
	}
	require.Failf(t, "request not found", "%s %q", kind, name)
	return api.BaseRequest{}
}

func TestBuildDocument(t *testing.T) {
	relations := []relationInfo{
		{ID: 100, Name: "14", Stops: []osm.NodeID{1, 2, 3}},
		{ID: 101, Name: "14", Stops: []osm.NodeID{3, 4, 1}},
		{ID: 102, Name: "Loop", Stops: []osm.NodeID{1, 2, 3, 1}},
		{ID: 103, Name: "Ghost", Stops: []osm.NodeID{1, 99}},
	}
	logger, hook := test.NewNullLogger()
	opts := ImportOptions{Settings: api.RoutingSettings{BusWaitTime: 6, BusVelocity: 40}}

	doc := buildDocument(relations, testStops, opts, logger)
	require.NoError(t, doc.Validate())
	assert.Equal(t, opts.Settings, *doc.RoutingSettings)

	// Stops come first, sorted by name; nodes 2 and 4 share the name B.
	var stopNames []string
	for _, r := range doc.BaseRequests {
		if r.Type == api.KindStop {
			stopNames = append(stopNames, r.Name)
		}
	}
	assert.Equal(t, []string{"A", "B", "C"}, stopNames)

	first := findRequest(t, doc, api.KindBus, "14")
	assert.Equal(t, []string{"A", "B", "C"}, first.Stops)
	assert.False(t, first.IsRoundtrip)

	second := findRequest(t, doc, api.KindBus, "14 [101]")
	assert.Equal(t, []string{"C", "B", "A"}, second.Stops)

	loop := findRequest(t, doc, api.KindBus, "Loop")
	assert.True(t, loop.IsRoundtrip)

	a := findRequest(t, doc, api.KindStop, "A")
	want := int(math.Round(geo.Haversine(1.300, 103.800, 1.310, 103.800)))
	assert.Equal(t, want, a.RoadDistances["B"])
	b := findRequest(t, doc, api.KindStop, "B")
	assert.Equal(t, 1.310, *b.Latitude)

	for _, r := range doc.BaseRequests {
		assert.NotEqual(t, "Ghost", r.Name)
	}
	assert.NotEmpty(t, hook.AllEntries())
}

func TestBuildDocumentBBox(t *testing.T) {
	relations := []relationInfo{
		{ID: 1, Name: "Out", Stops: []osm.NodeID{1, 5}},
		{ID: 2, Name: "In", Stops: []osm.NodeID{1, 2}},
	}
	logger, _ := test.NewNullLogger()
	opts := ImportOptions{
		BBox:     BBox{MinLat: 1, MaxLat: 1.5, MinLng: 103, MaxLng: 104},
		Settings: api.RoutingSettings{BusWaitTime: 1, BusVelocity: 20},
	}

	doc := buildDocument(relations, testStops, opts, logger)
	var names []string
	for _, r := range doc.BaseRequests {
		names = append(names, r.Type+" "+r.Name)
	}
	assert.Equal(t, []string{"Stop A", "Stop B", "Bus In"}, names)
}

func TestBuildDocumentCollapsesRepeatedStops(t *testing.T) {
	relations := []relationInfo{{ID: 1, Name: "L", Stops: []osm.NodeID{1, 2, 4, 3}}}
	logger, _ := test.NewNullLogger()

	doc := buildDocument(relations, testStops, ImportOptions{Settings: api.RoutingSettings{BusVelocity: 20}}, logger)
	bus := findRequest(t, doc, api.KindBus, "L")
	assert.Equal(t, []string{"A", "B", "C"}, bus.Stops)
}
