package alarm

import "time"

// Clock abstracts wall-clock time so the scheduler can be driven by a
// virtual clock in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }
