package world

import "time"

// Clock abstracts wall-clock access so decay, rate limiting, and check-in
// logic stay deterministic under test.
type Clock interface {
	Now() time.Time
	// Today returns the current calendar date truncated to midnight in the
	// service's local zone. Check-in idempotency compares these values.
	Today() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// FixedClock returns a preset instant; used by tests.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

func (c FixedClock) Today() time.Time {
	y, m, d := c.T.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.T.Location())
}
