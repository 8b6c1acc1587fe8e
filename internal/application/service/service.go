// Package service composes the domain components into the operations the
// transport layer exposes: monthly submission and review, per-day saves with
// track-level locking, leave accounting and monthly export.
package service

import (
	"time"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Actor identifies the caller of an operation. Privileged is supplied by the
// surrounding authentication layer as a plain flag; privileged callers bypass
// month locking and may review submissions. There is no global switch - the
// flag travels with every call.
type Actor struct {
	ID         string
	Privileged bool
}

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// SystemClock returns a Clock reading the system time in loc.
func SystemClock(loc *time.Location) Clock {
	return systemClock{loc: loc}
}
