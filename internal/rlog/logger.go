// Package rlog provides the package-default structured logger used when a
// Connection is dialed without an explicit Options.Logger. It mirrors the
// level-gated, package-level logrus wrapper used elsewhere in this corpus
// (gridhouse's internal/logger) rather than threading a bespoke logging
// interface through the client.
package rlog

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.Mutex
	log *logrus.Logger
)

// Level names accepted by Init, matching logrus's own vocabulary.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Init (re)configures the package-default logger. Safe to call from
// cmd/respipe-cli before any Connection is dialed; if never called, Get
// lazily initializes at WarnLevel.
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(level)
}

func newLogger(level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	switch level {
	case DebugLevel:
		l.SetLevel(logrus.DebugLevel)
	case InfoLevel:
		l.SetLevel(logrus.InfoLevel)
	case ErrorLevel:
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.WarnLevel)
	}
	return l
}

// Get returns the package-default logger, initializing it at WarnLevel on
// first use.
func Get() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		log = newLogger(WarnLevel)
	}
	return log
}
