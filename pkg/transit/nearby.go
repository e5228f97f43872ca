package transit

import (
	"cmp"
	"slices"

	"transit_router/pkg/geo"
)

// NearbyStop is a stop found by NearbyStops.
type NearbyStop struct {
	Name     string
	Distance float64 // great-circle meters from the query point
}

// buildNearbyIndex loads every located stop into the R-tree. Points are
// stored as [lon, lat] rectangles of zero size.
func (m *Manager) buildNearbyIndex() {
	for _, s := range m.stops {
		if !s.located {
			continue
		}
		p := [2]float64{s.coord.Lon, s.coord.Lat}
		m.nearby.Insert(p, p, s.id)
	}
}

// NearbyStops returns located stops within radiusMeters of c, nearest first
// (ties by name). A limit of 0 or less returns every match. Searches crossing
// the antimeridian query both sides.
func (m *Manager) NearbyStops(c geo.Coordinate, radiusMeters float64, limit int) ([]NearbyStop, error) {
	if m.state != stateRouted {
		return nil, ErrNotRouted
	}

	var found []NearbyStop
	for _, box := range geo.BoundingBoxes(c, radiusMeters) {
		m.nearby.Search(
			[2]float64{box.MinLon, box.MinLat},
			[2]float64{box.MaxLon, box.MaxLat},
			func(_, _ [2]float64, id StopID) bool {
				s := m.stops[id]
				if d := geo.Distance(c, s.coord); d <= radiusMeters {
					found = append(found, NearbyStop{Name: s.name, Distance: d})
				}
				return true
			},
		)
	}

	slices.SortFunc(found, func(a, b NearbyStop) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}
