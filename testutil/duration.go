package testutil

import "time"

// Timeouts for test operations, shortest first. Pick the smallest one the
// operation can reliably finish within.
const (
	WaitShort  = 10 * time.Second
	WaitMedium = 15 * time.Second
	WaitLong   = 25 * time.Second
)
