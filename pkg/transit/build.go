package transit

import (
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"transit_router/pkg/graph"
	"transit_router/pkg/routing"
)

// BuildRouter freezes the network and builds the routing graph.
//
// Every line contributes one edge per ordered pair of positions i < j,
// weighted wait + road distance(i..j) / velocity, so a ride of several
// stops is a single edge and waiting is paid once per boarding.
// Non-circular lines are added again in reverse order.
func (m *Manager) BuildRouter() error {
	if m.state != stateLoading {
		return fmt.Errorf("build router: %w", ErrFrozen)
	}
	if !m.paramsSet {
		return ErrParamsNotSet
	}

	start := time.Now()

	g := graph.New(uint32(len(m.stops)))
	m.edges = m.edges[:0]

	for _, l := range m.lines {
		if err := m.addLineEdges(g, l.name, l.route); err != nil {
			m.edges = nil
			return fmt.Errorf("line %q: %w", l.name, err)
		}
		if l.circular {
			continue
		}
		reversed := slices.Clone(l.route)
		slices.Reverse(reversed)
		if err := m.addLineEdges(g, l.name, reversed); err != nil {
			m.edges = nil
			return fmt.Errorf("line %q (return): %w", l.name, err)
		}
	}

	m.graph = g
	m.router = routing.NewRouter(g)
	m.buildNearbyIndex()
	m.state = stateRouted

	counts := m.Counts()
	comps := m.router.Components()
	m.log.WithFields(logrus.Fields{
		"stops":             counts.Stops,
		"lines":             counts.Lines,
		"edges":             counts.Edges,
		"components":        comps.Count(),
		"largest_component": comps.Largest(),
		"elapsed":           time.Since(start).Round(time.Microsecond),
	}).Info("routing graph built")

	return nil
}

// addLineEdges inserts an edge from every stop of seq to every later stop of seq.
func (m *Manager) addLineEdges(g *graph.Graph, name string, seq []StopID) error {
	for i := range seq {
		dist := 0
		for j := i + 1; j < len(seq); j++ {
			d, err := m.roadDistance(seq[j-1], seq[j])
			if err != nil {
				return err
			}
			dist += d

			id := g.AddEdge(
				graph.VertexID(seq[i]),
				graph.VertexID(seq[j]),
				m.waitTime+float64(dist)/m.velocity,
			)
			if int(id) != len(m.edges) {
				panic(fmt.Sprintf("transit: edge id %d out of step with side table (%d)", id, len(m.edges)))
			}
			m.edges = append(m.edges, edgeInfo{line: name, span: j - i})
		}
	}
	return nil
}
