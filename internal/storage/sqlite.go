package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/YrayPixels/recipiehunter-sub001/internal/remind"
	logx "github.com/YrayPixels/recipiehunter-sub001/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &sqliteStore{db: db, log: log}

	// Basic pragmas.
	if cfg.BusyTimeout > 0 {
		ms := cfg.BusyTimeout.Milliseconds()
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) LoadSettings(ctx context.Context) (remind.NotificationSettings, error) {
	var (
		out        remind.NotificationSettings
		morning    string
		midday     string
		evening    string
		quotes     string
		quietStart sql.NullString
		quietEnd   sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT morning_reminder, morning_time, midday_reminder, midday_time,
		        evening_reminder, evening_time, milestone_notifications,
		        motivational_quotes, motivational_quotes_time, goal_reminders,
		        quiet_hours_start, quiet_hours_end
		 FROM settings WHERE id = 1`,
	).Scan(
		&out.MorningReminder, &morning, &out.MiddayReminder, &midday,
		&out.EveningReminder, &evening, &out.MilestoneNotifications,
		&out.MotivationalQuotes, &quotes, &out.GoalReminders,
		&quietStart, &quietEnd,
	)
	if errors.Is(err, sql.ErrNoRows) {
		// Fresh install.
		return remind.DefaultSettings(), nil
	}
	if err != nil {
		return remind.NotificationSettings{}, err
	}

	if out.MorningTime, err = remind.ParseTimeOfDay(morning); err != nil {
		return remind.NotificationSettings{}, err
	}
	if out.MiddayTime, err = remind.ParseTimeOfDay(midday); err != nil {
		return remind.NotificationSettings{}, err
	}
	if out.EveningTime, err = remind.ParseTimeOfDay(evening); err != nil {
		return remind.NotificationSettings{}, err
	}
	if out.MotivationalQuotesTime, err = remind.ParseTimeOfDay(quotes); err != nil {
		return remind.NotificationSettings{}, err
	}
	if quietStart.Valid {
		t, err := remind.ParseTimeOfDay(quietStart.String)
		if err != nil {
			return remind.NotificationSettings{}, err
		}
		out.QuietHoursStart = &t
	}
	if quietEnd.Valid {
		t, err := remind.ParseTimeOfDay(quietEnd.String)
		if err != nil {
			return remind.NotificationSettings{}, err
		}
		out.QuietHoursEnd = &t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body, time, enabled, created_at
		 FROM custom_notifications ORDER BY position`)
	if err != nil {
		return remind.NotificationSettings{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			n         remind.CustomNotification
			clock     string
			createdAt string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &clock, &n.Enabled, &createdAt); err != nil {
			return remind.NotificationSettings{}, err
		}
		if n.Time, err = remind.ParseTimeOfDay(clock); err != nil {
			return remind.NotificationSettings{}, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			n.CreatedAt = ts
		}
		out.CustomNotifications = append(out.CustomNotifications, n)
	}
	if err := rows.Err(); err != nil {
		return remind.NotificationSettings{}, err
	}

	if err := out.Validate(); err != nil {
		return remind.NotificationSettings{}, err
	}
	return out, nil
}

func (s *sqliteStore) SaveSettings(ctx context.Context, settings remind.NotificationSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settings(id, morning_reminder, morning_time, midday_reminder, midday_time,
		                      evening_reminder, evening_time, milestone_notifications,
		                      motivational_quotes, motivational_quotes_time, goal_reminders,
		                      quiet_hours_start, quiet_hours_end)
		 VALUES(1,?,?,?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
		   morning_reminder=excluded.morning_reminder,
		   morning_time=excluded.morning_time,
		   midday_reminder=excluded.midday_reminder,
		   midday_time=excluded.midday_time,
		   evening_reminder=excluded.evening_reminder,
		   evening_time=excluded.evening_time,
		   milestone_notifications=excluded.milestone_notifications,
		   motivational_quotes=excluded.motivational_quotes,
		   motivational_quotes_time=excluded.motivational_quotes_time,
		   goal_reminders=excluded.goal_reminders,
		   quiet_hours_start=excluded.quiet_hours_start,
		   quiet_hours_end=excluded.quiet_hours_end`,
		settings.MorningReminder, settings.MorningTime.String(),
		settings.MiddayReminder, settings.MiddayTime.String(),
		settings.EveningReminder, settings.EveningTime.String(),
		settings.MilestoneNotifications,
		settings.MotivationalQuotes, settings.MotivationalQuotesTime.String(),
		settings.GoalReminders,
		nullClock(settings.QuietHoursStart), nullClock(settings.QuietHoursEnd),
	)
	if err != nil {
		return err
	}

	// The custom set is replaced wholesale; position preserves insertion order.
	if _, err := tx.ExecContext(ctx, `DELETE FROM custom_notifications`); err != nil {
		return err
	}
	for i, n := range settings.CustomNotifications {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO custom_notifications(id, title, body, time, enabled, created_at, position)
			 VALUES(?,?,?,?,?,?,?)`,
			n.ID, n.Title, n.Body, n.Time.String(), n.Enabled,
			n.CreatedAt.Format(time.RFC3339Nano), i,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug("settings saved", logx.Int("custom", len(settings.CustomNotifications)))
	return nil
}

func nullClock(t *remind.TimeOfDay) any {
	if t == nil {
		return nil
	}
	return t.String()
}
