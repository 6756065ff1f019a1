// Package log provides the logging interface every component in this
// module takes a reference to, backed by logrus.
package log

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the interface components depend on. Warnf is rate-limited
// per (site, key) pair so a tight loop of programmed violations can't
// flood the log.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(site, key, format string, args ...interface{})
}

type logger struct {
	l *logrus.Logger

	mu   sync.Mutex
	seen map[[2]string]struct{}
}

// New returns a logrus-backed Logger with colors and timestamps
// disabled.
func New() Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
	}
	return &logger{l: l, seen: make(map[[2]string]struct{})}
}

func (g *logger) Infof(format string, args ...interface{})  { g.l.Infof(format, args...) }
func (g *logger) Errorf(format string, args ...interface{}) { g.l.Errorf(format, args...) }
func (g *logger) Debugf(format string, args ...interface{}) { g.l.Debugf(format, args...) }

func (g *logger) Warnf(site, key, format string, args ...interface{}) {
	g.mu.Lock()
	k := [2]string{site, key}
	_, already := g.seen[k]
	g.seen[k] = struct{}{}
	g.mu.Unlock()

	if already {
		return
	}
	g.l.Warnf(fmt.Sprintf("[%s] ", site)+format, args...)
}
