// Package gtfsfeed imports bus lines from a static GTFS feed.
package gtfsfeed

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/jamespfennell/gtfs"
	"github.com/sirupsen/logrus"

	"transit_router/pkg/api"
	"transit_router/pkg/geo"
)

// ImportOptions configures the importer.
type ImportOptions struct {
	Settings api.RoutingSettings // copied into the document
	Logger   logrus.FieldLogger  // nil uses the logrus standard logger
}

// Import parses a GTFS zip archive and returns a document with one line per
// route. Each route is represented by its trip with the most stops.
func Import(data []byte, opts ImportOptions) (*api.Document, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	static, err := gtfs.ParseStatic(data, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("parse gtfs: %w", err)
	}
	log.WithFields(logrus.Fields{
		"routes":   len(static.Routes),
		"stops":    len(static.Stops),
		"trips":    len(static.Trips),
		"warnings": len(static.Warnings),
	}).Info("Parsed GTFS feed")

	return buildDocument(static, opts.Settings, log), nil
}

func buildDocument(static *gtfs.Static, settings api.RoutingSettings, log logrus.FieldLogger) *api.Document {
	names := stopNames(static.Stops)
	trips := representativeTrips(static.Trips)

	type located struct {
		stop      *gtfs.Stop
		distances map[string]int
	}
	byName := make(map[string]*located)
	usedLines := make(map[string]int)

	var buses []api.BaseRequest
	skipped := 0

	for i := range static.Routes {
		route := &static.Routes[i]
		trip, ok := trips[route.Id]
		if !ok {
			continue
		}

		var seq []string
		for _, st := range orderedStopTimes(trip) {
			s := st.Stop
			if s == nil || s.Latitude == nil || s.Longitude == nil {
				continue
			}
			name := names[s.Id]
			if n := len(seq); n > 0 && seq[n-1] == name {
				continue
			}
			if _, seen := byName[name]; !seen {
				byName[name] = &located{stop: s, distances: make(map[string]int)}
			}
			seq = append(seq, name)
		}
		if len(seq) < 2 {
			skipped++
			continue
		}

		for i := 1; i < len(seq); i++ {
			from, to := byName[seq[i-1]], byName[seq[i]]
			if _, ok := from.distances[seq[i]]; ok {
				continue
			}
			d := int(math.Round(geo.Haversine(*from.stop.Latitude, *from.stop.Longitude, *to.stop.Latitude, *to.stop.Longitude)))
			from.distances[seq[i]] = max(d, 1)
		}

		name := lineName(route)
		usedLines[name]++
		if usedLines[name] > 1 {
			name = fmt.Sprintf("%s [%s]", name, route.Id)
		}
		buses = append(buses, api.BaseRequest{
			Type:        api.KindBus,
			Name:        name,
			Stops:       seq,
			IsRoundtrip: seq[0] == seq[len(seq)-1],
		})
	}

	stopList := make([]string, 0, len(byName))
	for name := range byName {
		stopList = append(stopList, name)
	}
	slices.Sort(stopList)

	doc := &api.Document{
		RoutingSettings: &settings,
		BaseRequests:    make([]api.BaseRequest, 0, len(stopList)+len(buses)),
	}
	for _, name := range stopList {
		s := byName[name]
		lat, lon := *s.stop.Latitude, *s.stop.Longitude
		req := api.BaseRequest{Type: api.KindStop, Name: name, Latitude: &lat, Longitude: &lon}
		if len(s.distances) > 0 {
			req.RoadDistances = s.distances
		}
		doc.BaseRequests = append(doc.BaseRequests, req)
	}
	doc.BaseRequests = append(doc.BaseRequests, buses...)

	if skipped > 0 {
		log.WithField("routes", skipped).Warn("skipped routes with fewer than two located stops")
	}
	log.WithFields(logrus.Fields{"stops": len(stopList), "lines": len(buses)}).Info("Built transit document")
	return doc
}

// stopNames maps stop ids to display names. Names used by more than one stop
// get the stop id appended.
func stopNames(stops []gtfs.Stop) map[string]string {
	count := make(map[string]int, len(stops))
	for _, s := range stops {
		count[s.Name]++
	}
	names := make(map[string]string, len(stops))
	for _, s := range stops {
		switch {
		case s.Name == "":
			names[s.Id] = s.Id
		case count[s.Name] > 1:
			names[s.Id] = fmt.Sprintf("%s [%s]", s.Name, s.Id)
		default:
			names[s.Id] = s.Name
		}
	}
	return names
}

// representativeTrips picks, per route id, the trip with the most stop
// times; ties go to the smaller trip id.
func representativeTrips(trips []gtfs.ScheduledTrip) map[string]*gtfs.ScheduledTrip {
	best := make(map[string]*gtfs.ScheduledTrip)
	for i := range trips {
		t := &trips[i]
		if t.Route == nil {
			continue
		}
		cur, ok := best[t.Route.Id]
		if !ok || len(t.StopTimes) > len(cur.StopTimes) ||
			(len(t.StopTimes) == len(cur.StopTimes) && t.ID < cur.ID) {
			best[t.Route.Id] = t
		}
	}
	return best
}

func orderedStopTimes(t *gtfs.ScheduledTrip) []gtfs.ScheduledStopTime {
	out := slices.Clone(t.StopTimes)
	slices.SortStableFunc(out, func(a, b gtfs.ScheduledStopTime) int {
		return cmp.Compare(a.StopSequence, b.StopSequence)
	})
	return out
}

func lineName(r *gtfs.Route) string {
	if r.ShortName != "" {
		return r.ShortName
	}
	if r.LongName != "" {
		return r.LongName
	}
	return r.Id
}
