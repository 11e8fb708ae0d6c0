// Package system provides a real clock implementation.
package system

import "time"

// Clock implements notify.Clock using time.Now. Notification footers show
// local wall-clock time, so no UTC conversion happens here.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current local time.
func (Clock) Now() time.Time {
	return time.Now()
}
