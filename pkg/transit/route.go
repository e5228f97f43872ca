package transit

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"transit_router/pkg/graph"
	"transit_router/pkg/routing"
)

// LegKind tells a waiting leg from a riding leg.
type LegKind int

const (
	LegWait LegKind = iota
	LegRide
)

func (k LegKind) String() string {
	switch k {
	case LegWait:
		return "Wait"
	case LegRide:
		return "Bus"
	default:
		return fmt.Sprintf("LegKind(%d)", int(k))
	}
}

// Leg is one step of an itinerary. Wait legs set Stop; ride legs set Line and SpanCount.
type Leg struct {
	Kind      LegKind
	Time      float64
	Stop      string
	Line      string
	SpanCount int
}

// Itinerary is the fastest way between two stops.
type Itinerary struct {
	TotalTime float64
	Legs      []Leg
}

// Route finds the fastest itinerary between two stops. Each boarding yields a
// wait leg at the boarding stop followed by a ride leg covering SpanCount stops.
func (m *Manager) Route(from, to string) (Itinerary, error) {
	if m.state != stateRouted {
		return Itinerary{}, ErrNotRouted
	}
	fromID, ok := m.stopIndex[from]
	if !ok {
		return Itinerary{}, fmt.Errorf("stop %q: %w", from, ErrNotFound)
	}
	toID, ok := m.stopIndex[to]
	if !ok {
		return Itinerary{}, fmt.Errorf("stop %q: %w", to, ErrNotFound)
	}

	info, ok := m.router.BuildRoute(graph.VertexID(fromID), graph.VertexID(toID))
	if !ok {
		return Itinerary{}, fmt.Errorf("%q to %q: %w", from, to, ErrNoRoute)
	}
	defer m.releaseRoute(info.ID)

	it := Itinerary{
		TotalTime: info.Weight,
		Legs:      make([]Leg, 0, 2*info.EdgeCount),
	}
	for i := range info.EdgeCount {
		id, err := m.router.RouteEdge(info.ID, i)
		if err != nil {
			return Itinerary{}, fmt.Errorf("read route edge %d: %w", i, err)
		}
		e := m.graph.Edge(id)
		meta := m.edges[id]

		it.Legs = append(it.Legs,
			Leg{Kind: LegWait, Time: m.waitTime, Stop: m.stops[e.From].name},
			Leg{Kind: LegRide, Time: e.Weight - m.waitTime, Line: meta.line, SpanCount: meta.span},
		)
	}
	return it, nil
}

func (m *Manager) releaseRoute(id routing.RouteID) {
	if err := m.router.ReleaseRoute(id); err != nil {
		m.log.WithFields(logrus.Fields{"route": uint64(id), "error": err}).Error("release route")
	}
}

// ActiveRoutes returns the number of router handles currently held (0 between queries).
func (m *Manager) ActiveRoutes() int {
	if m.router == nil {
		return 0
	}
	return m.router.ActiveRoutes()
}
