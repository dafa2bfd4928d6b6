// Package logging builds the shared logrus logger from configuration.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a configured logger. Unknown levels fall back to info;
// format "json" selects JSON output, anything else selects text.
func NewLogger(level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
