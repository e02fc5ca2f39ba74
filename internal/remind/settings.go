package remind

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CustomNotification is a user-created reminder. ID is generated once at
// creation and never changes or gets reused; the gateway identifier is
// derived from it (see CustomIdentifier).
type CustomNotification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Time      TimeOfDay `json:"time"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCustomNotification validates and builds a custom reminder with a fresh ID.
func NewCustomNotification(title, body string, t TimeOfDay) (CustomNotification, error) {
	n := CustomNotification{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Body:      strings.TrimSpace(body),
		Time:      t,
		Enabled:   true,
		CreatedAt: time.Now(),
	}
	if err := n.Validate(); err != nil {
		return CustomNotification{}, err
	}
	return n, nil
}

func (n CustomNotification) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return fmt.Errorf("custom notification: id required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("custom notification %s: title required", n.ID)
	}
	if strings.TrimSpace(n.Body) == "" {
		return fmt.Errorf("custom notification %s: body required", n.ID)
	}
	if err := n.Time.Validate(); err != nil {
		return fmt.Errorf("custom notification %s: %w", n.ID, err)
	}
	return nil
}

// NotificationSettings is the full declarative reminder model. It is loaded
// whole, edited by the caller, saved, and re-submitted whole to the
// reconciler; there is no incremental diffing of old vs. new values.
type NotificationSettings struct {
	MorningReminder bool      `json:"morning_reminder"`
	MorningTime     TimeOfDay `json:"morning_time"`

	MiddayReminder bool      `json:"midday_reminder"`
	MiddayTime     TimeOfDay `json:"midday_time"`

	EveningReminder bool      `json:"evening_reminder"`
	EveningTime     TimeOfDay `json:"evening_time"`

	// MilestoneNotifications gates one-shot milestone sends only.
	MilestoneNotifications bool `json:"milestone_notifications"`

	MotivationalQuotes     bool      `json:"motivational_quotes"`
	MotivationalQuotesTime TimeOfDay `json:"motivational_quotes_time"`

	// GoalReminders gates one-shot goal sends only.
	GoalReminders bool `json:"goal_reminders"`

	// Quiet hours are unconfigured when either bound is nil.
	QuietHoursStart *TimeOfDay `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   *TimeOfDay `json:"quiet_hours_end,omitempty"`

	// Insertion order is preserved; order has no scheduling significance.
	CustomNotifications []CustomNotification `json:"custom_notifications,omitempty"`
}

// DefaultSettings returns the out-of-box settings for a fresh install.
func DefaultSettings() NotificationSettings {
	return NotificationSettings{
		MorningReminder:        true,
		MorningTime:            MustTimeOfDay("08:00"),
		MiddayReminder:         true,
		MiddayTime:             MustTimeOfDay("13:00"),
		EveningReminder:        true,
		EveningTime:            MustTimeOfDay("20:00"),
		MilestoneNotifications: true,
		MotivationalQuotes:     false,
		MotivationalQuotesTime: MustTimeOfDay("10:00"),
		GoalReminders:          true,
	}
}

// Validate checks every time field and the custom notification set.
// It runs at the persistence boundary so invalid input never reaches the
// reconciler.
func (s NotificationSettings) Validate() error {
	times := []struct {
		name string
		t    TimeOfDay
	}{
		{"morning_time", s.MorningTime},
		{"midday_time", s.MiddayTime},
		{"evening_time", s.EveningTime},
		{"motivational_quotes_time", s.MotivationalQuotesTime},
	}
	for _, f := range times {
		if err := f.t.Validate(); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	if s.QuietHoursStart != nil {
		if err := s.QuietHoursStart.Validate(); err != nil {
			return fmt.Errorf("quiet_hours_start: %w", err)
		}
	}
	if s.QuietHoursEnd != nil {
		if err := s.QuietHoursEnd.Validate(); err != nil {
			return fmt.Errorf("quiet_hours_end: %w", err)
		}
	}

	seen := make(map[string]struct{}, len(s.CustomNotifications))
	for _, n := range s.CustomNotifications {
		if err := n.Validate(); err != nil {
			return err
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("custom notification id %q duplicated", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	return nil
}
