package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"transit_router/pkg/api"
	"transit_router/pkg/gtfsfeed"
	"transit_router/pkg/logging"
	osmparser "transit_router/pkg/osm"
)

func main() {
	osmInput := flag.String("osm", "", "Path to .osm.pbf file")
	gtfsInput := flag.String("gtfs", "", "Path to GTFS .zip file")
	output := flag.String("output", "network.json", "Output document path (.json, .yaml or .yml), - for stdout")
	format := flag.String("format", "", "Output format: json or yaml (default: by extension)")
	wait := flag.Int("wait", 6, "Bus wait time in minutes")
	velocity := flag.Float64("velocity", 40, "Bus velocity in km/h")
	bbox := flag.String("bbox", "", "Bounding box filter for OSM: minLat,minLng,maxLat,maxLng (e.g. 1.15,103.6,1.48,104.1)")
	singapore := flag.Bool("singapore", false, "Shortcut for --bbox 1.15,103.6,1.48,104.1 (Singapore bounding box)")
	kl := flag.Bool("kl", false, "Shortcut for --bbox 2.75,101.2,3.5,102.0 (Selangor + Kuala Lumpur bounding box)")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	log := logging.New(os.Stderr, *logLevel, "text")

	if (*osmInput == "") == (*gtfsInput == "") {
		fmt.Fprintln(os.Stderr, "Usage: preprocess (--osm <file.osm.pbf> | --gtfs <feed.zip>) [--output network.json] [--wait 6] [--velocity 40] [--singapore | --kl | --bbox minLat,minLng,maxLat,maxLng]")
		os.Exit(1)
	}

	settings := api.RoutingSettings{BusWaitTime: *wait, BusVelocity: *velocity}
	outFormat, err := api.ParseFormat(*format, api.FormatFromPath(*output))
	if err != nil {
		log.Fatalf("Invalid format: %v", err)
	}

	start := time.Now()

	var doc *api.Document
	if *osmInput != "" {
		doc, err = importOSM(log, *osmInput, settings, *bbox, *singapore, *kl)
	} else {
		doc, err = importGTFS(log, *gtfsInput, settings)
	}
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	if err := doc.Validate(); err != nil {
		log.Fatalf("Imported document is invalid: %v", err)
	}

	log.Infof("Writing %s document to %s...", outFormat, *output)
	if err := writeDocument(*output, doc, outFormat); err != nil {
		log.Fatalf("Failed to write document: %v", err)
	}

	log.Infof("Done in %s. %d base requests", time.Since(start).Round(time.Millisecond), len(doc.BaseRequests))
}

func importOSM(log *logrus.Logger, path string, settings api.RoutingSettings, bbox string, singapore, kl bool) (*api.Document, error) {
	opts := osmparser.ImportOptions{Settings: settings, Logger: log}
	if kl {
		opts.BBox = osmparser.BBox{MinLat: 2.75, MaxLat: 3.5, MinLng: 101.2, MaxLng: 102.0}
		log.Info("Using Selangor + KL bounding box filter: lat [2.75, 3.50], lng [101.20, 102.00]")
	} else if singapore {
		opts.BBox = osmparser.BBox{MinLat: 1.15, MaxLat: 1.48, MinLng: 103.6, MaxLng: 104.1}
		log.Info("Using Singapore bounding box filter: lat [1.15, 1.48], lng [103.6, 104.1]")
	} else if bbox != "" {
		var minLat, minLng, maxLat, maxLng float64
		if _, err := fmt.Sscanf(bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng); err != nil {
			return nil, fmt.Errorf("invalid bbox format (expected minLat,minLng,maxLat,maxLng): %w", err)
		}
		opts.BBox = osmparser.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
		log.Infof("Using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]", minLat, maxLat, minLng, maxLng)
	}

	log.Info("Opening OSM file...")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	log.Info("Parsing OSM bus relations...")
	return osmparser.Import(context.Background(), f, opts)
}

func importGTFS(log *logrus.Logger, path string, settings api.RoutingSettings) (*api.Document, error) {
	log.Info("Reading GTFS feed...")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return gtfsfeed.Import(data, gtfsfeed.ImportOptions{Settings: settings, Logger: log})
}

func writeDocument(path string, doc *api.Document, f api.Format) error {
	if path == "-" {
		return api.Encode(os.Stdout, doc, f)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := api.Encode(out, doc, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
