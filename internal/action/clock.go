package action

import "time"

// Clock supplies the timestamps stamped onto revised records.
// Implemented by SystemClock (production) and testutil.StepClock (tests).
//
// Injecting the clock keeps ReviseField deterministic under test: the
// algorithm reads the clock exactly once per call, so a scripted clock
// yields reproducible documents.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
//
// Thread-safety: SystemClock is stateless and safe for concurrent use.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
