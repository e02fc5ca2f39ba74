package storage

import (
	"context"
	"errors"
	"time"

	"github.com/YrayPixels/recipiehunter-sub001/internal/remind"
)

var ErrClosed = errors.New("storage closed")

// Config configures storage.
//
// Driver values:
//   - "file" (default): JSON document at Path
//   - "sqlite": SQLite database file at Path
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Store is the settings persistence boundary consumed by the engine.
// LoadSettings on a fresh store returns the defaults, not an error.
type Store interface {
	LoadSettings(ctx context.Context) (remind.NotificationSettings, error)
	SaveSettings(ctx context.Context, s remind.NotificationSettings) error
	Close() error
}
