package transit

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"transit_router/pkg/geo"
)

// BusStats describes a line.
type BusStats struct {
	StopCount       int     // 2N-1 for a there-and-back line of N stops
	UniqueStopCount int     // distinct stops on the route
	RouteLength     int     // road meters, both directions for a there-and-back line
	Curvature       float64 // RouteLength over the great-circle length; 0 when that length is 0
}

// cachedStats holds a line's statistics once computed. The network is frozen
// before any statistics are requested, so a computed value is final.
type cachedStats struct {
	computed bool
	value    BusStats
}

func (c *cachedStats) get(compute func() (BusStats, error)) (BusStats, error) {
	if c.computed {
		return c.value, nil
	}
	v, err := compute()
	if err != nil {
		return BusStats{}, err
	}
	c.value = v
	c.computed = true
	return v, nil
}

// BusStats returns the statistics of a line, computing them on first request.
func (m *Manager) BusStats(name string) (BusStats, error) {
	if m.state != stateRouted {
		return BusStats{}, ErrNotRouted
	}
	l, ok := m.lineByName(name)
	if !ok {
		return BusStats{}, fmt.Errorf("bus %q: %w", name, ErrNotFound)
	}
	return l.stats.get(func() (BusStats, error) { return m.computeBusStats(l) })
}

func (m *Manager) computeBusStats(l *line) (BusStats, error) {
	n := len(l.route)
	stats := BusStats{StopCount: n}
	if !l.circular && n > 0 {
		stats.StopCount = 2*n - 1
	}

	unique := make(map[StopID]struct{}, n)
	for _, id := range l.route {
		unique[id] = struct{}{}
	}
	stats.UniqueStopCount = len(unique)

	for _, id := range l.route {
		if s := m.stops[id]; !s.located {
			return BusStats{}, fmt.Errorf("bus %q stop %q: %w", l.name, s.name, ErrStopNotLocated)
		}
	}

	var roadLength int
	var straightLength float64
	for i := 1; i < n; i++ {
		prev, cur := m.stops[l.route[i-1]], m.stops[l.route[i]]
		d, err := m.roadDistance(prev.id, cur.id)
		if err != nil {
			return BusStats{}, err
		}
		roadLength += d
		straightLength += geo.Distance(prev.coord, cur.coord)
	}

	if !l.circular {
		straightLength *= 2
		for i := 1; i < n; i++ {
			d, err := m.roadDistance(l.route[i], l.route[i-1])
			if err != nil {
				return BusStats{}, err
			}
			roadLength += d
		}
	}

	stats.RouteLength = roadLength
	if straightLength > 0 {
		stats.Curvature = float64(roadLength) / straightLength
	} else {
		m.log.WithFields(logrus.Fields{"line": l.name, "route_length": roadLength}).
			Warn("line has zero great-circle length, reporting curvature 0")
	}
	return stats, nil
}

// StopStats lists the lines serving a stop.
type StopStats struct {
	Buses []string // sorted, possibly empty
}

// StopStats returns the sorted names of the lines serving a stop.
func (m *Manager) StopStats(name string) (StopStats, error) {
	if m.state != stateRouted {
		return StopStats{}, ErrNotRouted
	}
	id, ok := m.stopIndex[name]
	if !ok {
		return StopStats{}, fmt.Errorf("stop %q: %w", name, ErrNotFound)
	}

	buses := make([]string, 0, len(m.stops[id].lines))
	for name := range m.stops[id].lines {
		buses = append(buses, name)
	}
	slices.Sort(buses)
	return StopStats{Buses: buses}, nil
}
