package gateway

import (
	"context"
	"errors"
	"time"
)

var ErrStopped = errors.New("gateway stopped")

// Note is a single notification handed to a delivery sink.
// Identifier is empty for one-shot notifications (the gateway assigns none).
type Note struct {
	Identifier string
	Title      string
	Body       string
	At         time.Time
}

// Sink delivers notes to the user-facing channel.
// Implementations must be safe for concurrent use.
type Sink interface {
	Deliver(ctx context.Context, n Note) error
}

// ScheduleInfo describes one live trigger, for status output and tests.
type ScheduleInfo struct {
	Identifier string
	Title      string
	Hour       int
	Minute     int
	Next       time.Time
}
