// Package logging builds the structured logger shared by every spellgraph
// component (store, ingest/html, ingest/wiki, service).
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Format selects the log encoding.
type Format int

const (
	Text Format = iota
	JSON
)

// Config controls logger construction.
type Config struct {
	Format Format
	Level  string // logrus level name; defaults to "info" when empty
	Output io.Writer
}

// Component is a field key used to tag every log line with the subsystem
// that emitted it (store, ingest.html, ingest.wiki, service, detect).
const Component = "component"

// New builds a *logrus.Logger per cfg.
func New(cfg Config) *logrus.Logger {
	l := logrus.New()

	switch cfg.Format {
	case JSON:
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Output != nil {
		l.SetOutput(cfg.Output)
	} else {
		l.SetOutput(os.Stderr)
	}

	return l
}

// For returns an entry tagged with the given component name.
func For(l *logrus.Logger, component string) *logrus.Entry {
	return l.WithField(Component, component)
}
