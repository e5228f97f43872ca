package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"transit_router/pkg/geo"
	"transit_router/pkg/transit"
)

// BuildNetwork registers every base request and the routing settings, then
// builds the router.
func BuildNetwork(doc *Document, logger logrus.FieldLogger) (*transit.Manager, error) {
	m := transit.NewManager(logger)

	for _, req := range doc.BaseRequests {
		var err error
		switch req.Type {
		case KindStop:
			err = m.AddStop(req.Name, coordinate(req.Latitude, req.Longitude), roadDistances(req.RoadDistances))
		case KindBus:
			err = m.AddBus(req.Name, req.Stops, req.IsRoundtrip)
		default:
			err = fmt.Errorf("unknown base request type %q", req.Type)
		}
		if err != nil {
			return nil, err
		}
	}

	if doc.RoutingSettings == nil {
		return nil, transit.ErrParamsNotSet
	}
	if err := m.SetParams(doc.RoutingSettings.BusWaitTime, doc.RoutingSettings.BusVelocity); err != nil {
		return nil, err
	}
	if err := m.BuildRouter(); err != nil {
		return nil, err
	}
	return m, nil
}

// Process builds the network described by doc and answers its stat requests
// in order. Unknown names and missing routes become "not found" answers; any
// other error aborts the batch.
func Process(doc *Document, logger logrus.FieldLogger) ([]Answer, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	start := time.Now()

	m, err := BuildNetwork(doc, logger)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}

	answers := make([]Answer, 0, len(doc.StatRequests))
	notFound := 0
	for _, req := range doc.StatRequests {
		a, err := Handle(m, req)
		if err != nil {
			return nil, fmt.Errorf("request %d (%s): %w", req.ID, req.Type, err)
		}
		if _, ok := a.(ErrorAnswer); ok {
			notFound++
		}
		answers = append(answers, a)
	}

	logger.WithFields(logrus.Fields{
		"requests":  len(doc.StatRequests),
		"not_found": notFound,
		"elapsed":   time.Since(start).Round(time.Microsecond),
	}).Info("batch processed")
	return answers, nil
}

// Handle answers one stat request against a routed network.
func Handle(m *transit.Manager, req StatRequest) (Answer, error) {
	var (
		a   Answer
		err error
	)
	switch req.Type {
	case KindStop:
		a, err = handleStop(m, req)
	case KindBus:
		a, err = handleBus(m, req)
	case KindRoute:
		a, err = handleRoute(m, req)
	case KindNearby:
		a, err = handleNearby(m, req)
	default:
		return nil, fmt.Errorf("unknown stat request type %q", req.Type)
	}
	if errors.Is(err, transit.ErrNotFound) || errors.Is(err, transit.ErrNoRoute) {
		return ErrorAnswer{ID: req.ID, ErrorMessage: NotFoundMessage}, nil
	}
	return a, err
}

func handleStop(m *transit.Manager, req StatRequest) (Answer, error) {
	st, err := m.StopStats(req.Name)
	if err != nil {
		return nil, err
	}
	return StopAnswer{ID: req.ID, Buses: st.Buses}, nil
}

func handleBus(m *transit.Manager, req StatRequest) (Answer, error) {
	st, err := m.BusStats(req.Name)
	if err != nil {
		return nil, err
	}
	return BusAnswer{
		ID:              req.ID,
		RouteLength:     st.RouteLength,
		Curvature:       st.Curvature,
		StopCount:       st.StopCount,
		UniqueStopCount: st.UniqueStopCount,
	}, nil
}

func handleRoute(m *transit.Manager, req StatRequest) (Answer, error) {
	it, err := m.Route(req.From, req.To)
	if err != nil {
		return nil, err
	}
	items := make([]RouteItem, 0, len(it.Legs))
	for _, leg := range it.Legs {
		item := RouteItem{Type: leg.Kind.String(), Time: leg.Time}
		switch leg.Kind {
		case transit.LegWait:
			item.StopName = leg.Stop
		case transit.LegRide:
			item.Bus = leg.Line
			item.SpanCount = leg.SpanCount
		}
		items = append(items, item)
	}
	return RouteAnswer{ID: req.ID, TotalTime: it.TotalTime, Items: items}, nil
}

func handleNearby(m *transit.Manager, req StatRequest) (Answer, error) {
	stops, err := m.NearbyStops(coordinate(req.Latitude, req.Longitude), req.Radius, req.Limit)
	if err != nil {
		return nil, err
	}
	items := make([]NearbyItem, len(stops))
	for i, s := range stops {
		items[i] = NearbyItem{Name: s.Name, Distance: s.Distance}
	}
	return NearbyAnswer{ID: req.ID, Stops: items}, nil
}

// EncodeAnswers writes the answers as a JSON array.
func EncodeAnswers(w io.Writer, answers []Answer, pretty bool) error {
	if answers == nil {
		answers = []Answer{}
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(answers)
}

func coordinate(lat, lon *float64) geo.Coordinate {
	var c geo.Coordinate
	if lat != nil {
		c.Lat = *lat
	}
	if lon != nil {
		c.Lon = *lon
	}
	return c
}

func roadDistances(m map[string]int) []transit.RoadDistance {
	out := make([]transit.RoadDistance, 0, len(m))
	for to, meters := range m {
		out = append(out, transit.RoadDistance{To: to, Meters: meters})
	}
	// Map order is random; sorting keeps stop ids stable between runs.
	slices.SortFunc(out, func(a, b transit.RoadDistance) int { return strings.Compare(a.To, b.To) })
	return out
}
