package testutil

import (
	"context"
	"testing"
	"time"
)

// Context returns a context canceled at test cleanup or after the timeout,
// whichever comes first.
func Context(t testing.TB, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
