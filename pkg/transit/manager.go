// Package transit maps a bus network (stops, lines, road distances) onto a
// weighted directed graph and answers statistics and itinerary queries.
//
// A Manager goes through two phases. While loading, stops, lines and
// parameters may be registered in any order; stops referenced before their
// definition are created without coordinates. BuildRouter freezes the
// network, builds the graph and router, and enables queries.
package transit

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/rtree"

	"transit_router/pkg/geo"
	"transit_router/pkg/graph"
	"transit_router/pkg/routing"
)

// StopID is a stop's arena index; it doubles as the graph vertex id.
type StopID uint32

type state int

const (
	stateLoading state = iota
	stateRouted
)

// RoadDistance is a measured road distance from one stop to another.
type RoadDistance struct {
	To     string
	Meters int
}

type stop struct {
	id        StopID
	name      string
	coord     geo.Coordinate
	located   bool
	lines     map[string]struct{}
	distances map[StopID]int
}

type line struct {
	name     string
	route    []StopID
	circular bool
	stats    cachedStats
}

// edgeInfo is the side metadata of one graph edge.
type edgeInfo struct {
	line string
	span int
}

// Manager owns all stops and lines of a network. It is not safe for concurrent use.
type Manager struct {
	log logrus.FieldLogger

	stops     []*stop
	stopIndex map[string]StopID
	lines     []*line
	lineIndex map[string]int

	waitTime  float64 // minutes
	velocity  float64 // meters per minute
	paramsSet bool

	state  state
	graph  *graph.Graph
	router *routing.Router
	edges  []edgeInfo // indexed by graph.EdgeID
	nearby rtree.RTreeG[StopID]
}

// NewManager creates an empty network. A nil logger uses the logrus standard logger.
func NewManager(logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		log:       logger.WithField("component", "transit"),
		stopIndex: make(map[string]StopID),
		lineIndex: make(map[string]int),
	}
}

// stopByName returns the stop with the given name, creating an unlocated one if absent.
func (m *Manager) stopByName(name string) *stop {
	if id, ok := m.stopIndex[name]; ok {
		return m.stops[id]
	}
	s := &stop{
		id:        StopID(len(m.stops)),
		name:      name,
		lines:     make(map[string]struct{}),
		distances: make(map[StopID]int),
	}
	m.stops = append(m.stops, s)
	m.stopIndex[name] = s.id
	return s
}

// AddStop defines a stop's coordinate and its road distances to other stops.
// A distance is mirrored to the reverse direction only when that direction
// has no value yet, so an explicit reverse distance always wins.
func (m *Manager) AddStop(name string, coord geo.Coordinate, distances []RoadDistance) error {
	if m.state != stateLoading {
		return fmt.Errorf("add stop %q: %w", name, ErrFrozen)
	}
	for _, d := range distances {
		if d.Meters < 0 {
			return fmt.Errorf("stop %q to %q: %w: %d", name, d.To, ErrInvalidDistance, d.Meters)
		}
	}

	s := m.stopByName(name)
	s.coord = coord
	s.located = true

	for _, d := range distances {
		other := m.stopByName(d.To)
		s.distances[other.id] = d.Meters
		if _, ok := other.distances[s.id]; !ok {
			other.distances[s.id] = d.Meters
		}
	}
	return nil
}

// AddBus defines a line by its ordered stop names. Unknown stops are created
// without coordinates. Registering an existing name replaces its route.
func (m *Manager) AddBus(name string, stops []string, circular bool) error {
	if m.state != stateLoading {
		return fmt.Errorf("add bus %q: %w", name, ErrFrozen)
	}

	l, ok := m.lineByName(name)
	if ok {
		for _, id := range l.route {
			delete(m.stops[id].lines, name)
		}
		l.route = l.route[:0]
	} else {
		l = &line{name: name}
		m.lineIndex[name] = len(m.lines)
		m.lines = append(m.lines, l)
	}
	l.circular = circular

	for _, stopName := range stops {
		s := m.stopByName(stopName)
		l.route = append(l.route, s.id)
		s.lines[name] = struct{}{}
	}

	m.log.WithFields(logrus.Fields{"line": name, "stops": len(stops), "circular": circular}).Debug("line registered")
	return nil
}

// SetParams sets the boarding wait time in minutes and the bus velocity in km/h.
func (m *Manager) SetParams(waitTime int, velocityKmh float64) error {
	if m.state != stateLoading {
		return fmt.Errorf("set params: %w", ErrFrozen)
	}
	if waitTime < 0 || !(velocityKmh > 0) {
		return fmt.Errorf("%w: wait=%d velocity=%v", ErrInvalidParams, waitTime, velocityKmh)
	}
	m.waitTime = float64(waitTime)
	m.velocity = velocityKmh * 1000.0 / 60.0
	m.paramsSet = true
	return nil
}

// Distance returns the road distance in meters from one stop to another.
func (m *Manager) Distance(from, to string) (int, bool) {
	a, ok := m.stopIndex[from]
	if !ok {
		return 0, false
	}
	b, ok := m.stopIndex[to]
	if !ok {
		return 0, false
	}
	d, ok := m.stops[a].distances[b]
	return d, ok
}

// Counts summarizes the size of the network.
type Counts struct {
	Stops int
	Lines int
	Edges int
}

// Counts returns the number of stops, lines and graph edges (0 before routing).
func (m *Manager) Counts() Counts {
	c := Counts{Stops: len(m.stops), Lines: len(m.lines)}
	if m.graph != nil {
		c.Edges = int(m.graph.NumEdges())
	}
	return c
}

func (m *Manager) lineByName(name string) (*line, bool) {
	idx, ok := m.lineIndex[name]
	if !ok {
		return nil, false
	}
	return m.lines[idx], true
}

// roadDistance returns the road distance between two stops.
func (m *Manager) roadDistance(from, to StopID) (int, error) {
	d, ok := m.stops[from].distances[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q to %q", ErrMissingDistance, m.stops[from].name, m.stops[to].name)
	}
	return d, nil
}
