// Package clock provides an abstraction for time operations to improve
// testability. Results roots are named from wall-clock timestamps, and the
// orchestrator measures run durations; both go through the Clock interface
// so tests can control time-dependent behavior.
package clock

import (
	"time"

	"github.com/scachelab/shufflebench/internal/constants"
)

// Clock is an interface for time operations.
// This allows code to be tested with mock clocks.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Ensure RealClock implements Clock.
var _ Clock = RealClock{}

// ResultsStamp formats c.Now() in local time the way timestamped results
// roots are named, e.g. "20240615-103000".
func ResultsStamp(c Clock) string {
	return c.Now().Local().Format(constants.ResultsTimestampLayout)
}
