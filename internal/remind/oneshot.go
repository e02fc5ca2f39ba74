package remind

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/YrayPixels/recipiehunter-sub001/internal/eventbus"
	logx "github.com/YrayPixels/recipiehunter-sub001/pkg/logx"
)

// SettingsSource yields the current settings snapshot. The one-shot
// dispatcher consults it only for the milestone/goal gate flags.
type SettingsSource interface {
	LoadSettings(ctx context.Context) (NotificationSettings, error)
}

// Dispatcher sends immediate, non-recurring notifications. It is fully
// independent of the recurring-slot machinery: it never cancels anything,
// never touches a slot identifier, and never consults quiet hours
// (milestone and goal events are high-priority and time-insensitive).
type Dispatcher struct {
	gw       Gateway
	settings SettingsSource
	log      logx.Logger
	bus      eventbus.Bus

	// limiter keeps a burst of milestone/goal events from flooding the
	// delivery channel. Sends over the budget are dropped, not queued.
	limiter *rate.Limiter
}

func NewDispatcher(gw Gateway, settings SettingsSource, log logx.Logger, bus eventbus.Bus) *Dispatcher {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Dispatcher{
		gw:       gw,
		settings: settings,
		log:      log,
		bus:      bus,
		limiter:  rate.NewLimiter(rate.Limit(1), 3),
	}
}

// SendMilestone announces a streak milestone (daysCount days in a row).
// Gated by the milestone_notifications setting.
func (d *Dispatcher) SendMilestone(ctx context.Context, daysCount int) error {
	return d.send(ctx, "milestone",
		func(s NotificationSettings) bool { return s.MilestoneNotifications },
		"Milestone reached!",
		fmt.Sprintf("You've kept your streak going for %d days in a row.", daysCount))
}

// SendGoalReminder nudges the user about a goal deadline.
// Gated by the goal_reminders setting.
func (d *Dispatcher) SendGoalReminder(ctx context.Context, goalTitle string, daysRemaining int) error {
	return d.send(ctx, "goal_reminder",
		func(s NotificationSettings) bool { return s.GoalReminders },
		"Goal reminder",
		fmt.Sprintf("%q: %d days remaining.", goalTitle, daysRemaining))
}

// SendGoalCompletion celebrates a completed goal.
// Gated by the goal_reminders setting.
func (d *Dispatcher) SendGoalCompletion(ctx context.Context, goalTitle string) error {
	return d.send(ctx, "goal_completion",
		func(s NotificationSettings) bool { return s.GoalReminders },
		"Goal completed!",
		fmt.Sprintf("You finished %q. Nice work.", goalTitle))
}

func (d *Dispatcher) send(ctx context.Context, kind string, gate func(NotificationSettings) bool, title, body string) error {
	if d.settings != nil {
		s, err := d.settings.LoadSettings(ctx)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		if !gate(s) {
			d.log.Debug("one-shot suppressed by settings", logx.String("kind", kind))
			return nil
		}
	}

	granted, err := d.gw.RequestPermission(ctx)
	if err != nil {
		return fmt.Errorf("request notification permission: %w", err)
	}
	if !granted {
		d.log.Debug("one-shot skipped: permission denied", logx.String("kind", kind))
		return nil
	}

	if !d.limiter.Allow() {
		d.log.Warn("one-shot dropped: rate limit", logx.String("kind", kind))
		return nil
	}

	if err := d.gw.ScheduleOnceImmediate(ctx, title, body); err != nil {
		return fmt.Errorf("send %s notification: %w", kind, err)
	}
	if d.bus != nil {
		d.bus.Publish(eventbus.Event{
			Type: eventbus.EventOneShotSent,
			Data: eventbus.ReminderEvent{Title: title},
		})
	}
	d.log.Info("one-shot notification sent", logx.String("kind", kind))
	return nil
}
