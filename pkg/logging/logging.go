// Package logging builds the logrus loggers used by the commands.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to w. format is "json" or "text"; anything
// else falls back to text. An unknown level falls back to info with a warning.
func New(w io.Writer, level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}

	logger.SetLevel(ParseLevel(logger, level))
	return logger
}

// ParseLevel parses a level name, logging a warning on logger and returning
// info when the name is not recognized.
func ParseLevel(logger logrus.FieldLogger, level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("Invalid log level, using INFO")
		return logrus.InfoLevel
	}
	return lvl
}
