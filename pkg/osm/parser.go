// Package osm imports bus lines from OpenStreetMap PBF extracts.
//
// Each type=route relation for a bus-like mode becomes one line. Its stop
// members, in relation order, become the line's stops, and consecutive stops
// are joined by great-circle road distance estimates.
package osm

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/sirupsen/logrus"

	"transit_router/pkg/api"
	"transit_router/pkg/geo"
)

// busRoutes lists route tag values served by road vehicles on fixed lines.
var busRoutes = map[string]bool{
	"bus":        true,
	"trolleybus": true,
	"minibus":    true,
	"share_taxi": true,
}

// isBusRoute returns true if the relation describes a bus line in service.
func isBusRoute(tags osm.Tags) bool {
	if tags.Find("type") != "route" {
		return false
	}
	if !busRoutes[tags.Find("route")] {
		return false
	}
	if tags.Find("disused") == "yes" || tags.Find("abandoned") == "yes" {
		return false
	}
	return true
}

// isStopRole matches "stop", "stop_entry_only", "stop_exit_only" and the
// numbered "stop1", "stop2" of older tagging.
func isStopRole(role string) bool {
	return len(role) >= 4 && role[:4] == "stop"
}

// lineName prefers ref, then name, then the relation id.
func lineName(id osm.RelationID, tags osm.Tags) string {
	if ref := tags.Find("ref"); ref != "" {
		return ref
	}
	if name := tags.Find("name"); name != "" {
		return name
	}
	return "relation " + strconv.FormatInt(int64(id), 10)
}

// stopName returns the node's name tag, or its id when unnamed.
func stopName(n *osm.Node) string {
	if name := n.Tags.Find("name"); name != "" {
		return name
	}
	return "node " + strconv.FormatInt(int64(n.ID), 10)
}

// relationInfo holds a bus relation collected during Pass 1.
type relationInfo struct {
	ID    osm.RelationID
	Name  string
	Stops []osm.NodeID
}

// stopInfo holds a stop node collected during Pass 2.
type stopInfo struct {
	Name     string
	Lat, Lon float64
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only stops inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ImportOptions configures the importer.
type ImportOptions struct {
	BBox     BBox                // if non-zero, drop stops outside it
	Settings api.RoutingSettings // copied into the document
	Logger   logrus.FieldLogger  // nil uses the logrus standard logger
}

// Import reads an OSM PBF file and returns a document defining its bus
// lines and their stops. The reader is consumed twice (seeks back to start
// for the second pass), so it must implement io.ReadSeeker.
func Import(ctx context.Context, rs io.ReadSeeker, opts ImportOptions) (*api.Document, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	// Pass 1: Scan relations to collect bus lines and their stop nodes.
	referencedNodes := make(map[osm.NodeID]struct{})
	var relations []relationInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipWays = true

	for scanner.Scan() {
		r, ok := scanner.Object().(*osm.Relation)
		if !ok || !isBusRoute(r.Tags) {
			continue
		}

		info := relationInfo{ID: r.ID, Name: lineName(r.ID, r.Tags)}
		for _, m := range r.Members {
			if m.Type != osm.TypeNode || !isStopRole(m.Role) {
				continue
			}
			id := osm.NodeID(m.Ref)
			info.Stops = append(info.Stops, id)
			referencedNodes[id] = struct{}{}
		}
		if len(info.Stops) < 2 {
			continue
		}
		relations = append(relations, info)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (relations): %w", err)
	}
	scanner.Close()

	log.WithFields(logrus.Fields{"relations": len(relations), "stop_nodes": len(referencedNodes)}).
		Info("Pass 1 complete")

	// Pass 2: Scan nodes to collect names and coordinates of stop nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	stops := make(map[osm.NodeID]stopInfo, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		stops[n.ID] = stopInfo{Name: stopName(n), Lat: n.Lat, Lon: n.Lon}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.WithField("stops", len(stops)).Info("Pass 2 complete")

	return buildDocument(relations, stops, opts, log), nil
}

// buildDocument turns the collected relations into stop and bus base
// requests. Nodes sharing a name are one stop; the first coordinate seen
// for a name wins.
func buildDocument(relations []relationInfo, stops map[osm.NodeID]stopInfo, opts ImportOptions, log logrus.FieldLogger) *api.Document {
	useBBox := !opts.BBox.IsZero()

	type located struct {
		lat, lon  float64
		distances map[string]int
	}
	byName := make(map[string]*located)
	usedNames := make(map[string]int)

	var buses []api.BaseRequest
	var missing, bboxFiltered, dropped int

	for _, r := range relations {
		var seq []string
		for _, id := range r.Stops {
			s, ok := stops[id]
			if !ok {
				missing++
				continue
			}
			if useBBox && !opts.BBox.Contains(s.Lat, s.Lon) {
				bboxFiltered++
				continue
			}
			if n := len(seq); n > 0 && seq[n-1] == s.Name {
				continue
			}
			if _, seen := byName[s.Name]; !seen {
				byName[s.Name] = &located{lat: s.Lat, lon: s.Lon, distances: make(map[string]int)}
			}
			seq = append(seq, s.Name)
		}
		if len(seq) < 2 {
			dropped++
			continue
		}

		for i := 1; i < len(seq); i++ {
			from, to := byName[seq[i-1]], byName[seq[i]]
			if _, ok := from.distances[seq[i]]; ok {
				continue
			}
			d := int(math.Round(geo.Haversine(from.lat, from.lon, to.lat, to.lon)))
			if d == 0 {
				d = 1 // avoid zero-length hops
			}
			from.distances[seq[i]] = d
		}

		name := r.Name
		usedNames[name]++
		if usedNames[name] > 1 {
			name = fmt.Sprintf("%s [%d]", r.Name, r.ID)
		}
		buses = append(buses, api.BaseRequest{
			Type:        api.KindBus,
			Name:        name,
			Stops:       seq,
			IsRoundtrip: seq[0] == seq[len(seq)-1],
		})
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)

	doc := &api.Document{
		RoutingSettings: &opts.Settings,
		BaseRequests:    make([]api.BaseRequest, 0, len(names)+len(buses)),
	}
	for _, name := range names {
		s := byName[name]
		lat, lon := s.lat, s.lon
		req := api.BaseRequest{Type: api.KindStop, Name: name, Latitude: &lat, Longitude: &lon}
		if len(s.distances) > 0 {
			req.RoadDistances = s.distances
		}
		doc.BaseRequests = append(doc.BaseRequests, req)
	}
	doc.BaseRequests = append(doc.BaseRequests, buses...)

	if missing > 0 {
		log.WithField("members", missing).Warn("skipped stop members with missing nodes")
	}
	if bboxFiltered > 0 {
		log.WithField("members", bboxFiltered).Info("filtered stop members outside bounding box")
	}
	if dropped > 0 {
		log.WithField("relations", dropped).Warn("dropped relations with fewer than two usable stops")
	}
	log.WithFields(logrus.Fields{"stops": len(names), "lines": len(buses)}).Info("Built transit document")

	return doc
}
