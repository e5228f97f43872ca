package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"transit_router/pkg/api"
	"transit_router/pkg/config"
	"transit_router/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	envFile := flag.String("env", ".env", "Path to .env file (ignored if missing)")
	input := flag.String("input", "", "Batch document path, - for stdin")
	output := flag.String("output", "", "Answers path, - for stdout")
	format := flag.String("format", "", "Document format: json or yaml (default: by extension)")
	pretty := flag.Bool("pretty", false, "Indent JSON answers")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "Log format: text or json")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Flags given on the command line override everything else.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "output":
			cfg.Output = *output
		case "format":
			cfg.Format = *format
		case "pretty":
			cfg.Pretty = *pretty
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = *logFormat
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("Batch failed")
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	start := time.Now()

	docFormat, err := api.ParseFormat(cfg.Format, api.FormatFromPath(cfg.Input))
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{"input": cfg.Input, "format": docFormat}).Info("Reading document...")
	in, closeIn, err := openInput(cfg.Input)
	if err != nil {
		return err
	}
	doc, err := api.Decode(in, docFormat)
	closeIn()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"base_requests": len(doc.BaseRequests),
		"stat_requests": len(doc.StatRequests),
	}).Info("Document loaded")

	answers, err := api.Process(doc, logger)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}
	if err := api.EncodeAnswers(out, answers, cfg.Pretty); err != nil {
		closeOut()
		return fmt.Errorf("write answers: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("close %s: %w", cfg.Output, err)
	}

	logger.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("Done")
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
