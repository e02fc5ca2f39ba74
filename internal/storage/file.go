package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/YrayPixels/recipiehunter-sub001/internal/remind"
	logx "github.com/YrayPixels/recipiehunter-sub001/pkg/logx"
)

// fileStore keeps the whole settings document in one JSON file.
// Writes go to a temp file in the same directory, then rename, so a crash
// mid-write can never leave a half-written document behind.
type fileStore struct {
	log  logx.Logger
	path string

	mu     sync.Mutex
	closed bool
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = "./reminders.json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &fileStore{log: log, path: path}, nil
}

func (s *fileStore) LoadSettings(ctx context.Context) (remind.NotificationSettings, error) {
	if err := ctx.Err(); err != nil {
		return remind.NotificationSettings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return remind.NotificationSettings{}, ErrClosed
	}

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		// Fresh install.
		return remind.DefaultSettings(), nil
	}
	if err != nil {
		return remind.NotificationSettings{}, err
	}

	var out remind.NotificationSettings
	if err := json.Unmarshal(b, &out); err != nil {
		return remind.NotificationSettings{}, fmt.Errorf("settings file %s: %w", s.path, err)
	}
	if err := out.Validate(); err != nil {
		return remind.NotificationSettings{}, fmt.Errorf("settings file %s: %w", s.path, err)
	}
	return out, nil
}

func (s *fileStore) SaveSettings(ctx context.Context, settings remind.NotificationSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	b, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	s.log.Debug("settings saved", logx.String("path", s.path))
	return nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
