package remind

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YrayPixels/recipiehunter-sub001/internal/eventbus"
	logx "github.com/YrayPixels/recipiehunter-sub001/pkg/logx"
)

// Gateway is the platform notification primitive the engine drives.
//
// Each call is individually atomic but there is no transaction spanning
// several of them; the Reconciler provides the serialization that makes the
// cancel-then-reschedule pass safe.
type Gateway interface {
	// RequestPermission asks for notification permission. Idempotent;
	// returns false (not an error) when the user has declined.
	RequestPermission(ctx context.Context) (bool, error)

	// ScheduleAt registers (or replaces) the trigger addressed by id.
	// With repeatsDaily the trigger fires every day at hour:minute.
	ScheduleAt(ctx context.Context, id, title, body string, hour, minute int, repeatsDaily bool) error

	// ScheduleOnceImmediate delivers a one-shot notification right away.
	// The gateway assigns its own identifier; nothing to cancel later.
	ScheduleOnceImmediate(ctx context.Context, title, body string) error

	// Cancel removes the trigger addressed by id. Canceling an identifier
	// that was never scheduled is not an error.
	Cancel(ctx context.Context, id string) error

	// CancelAll removes every scheduled trigger.
	CancelAll(ctx context.Context) error
}

// Reconciler brings the gateway's live schedule in line with a settings
// snapshot. At most one reconciliation runs at a time: concurrent calls
// queue on an internal mutex, so a later call can never interleave its
// cancel-all between an earlier call's cancel and schedule phases.
type Reconciler struct {
	mu  sync.Mutex
	gw  Gateway
	log logx.Logger
	bus eventbus.Bus

	// now is swappable for tests.
	now func() time.Time
}

func NewReconciler(gw Gateway, log logx.Logger, bus eventbus.Bus) *Reconciler {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Reconciler{gw: gw, log: log, bus: bus, now: time.Now}
}

// Reconcile performs one full cancel-then-reschedule pass.
//
// Contract (in order):
//  1. Cancel every trigger the gateway holds. A failure here aborts the
//     pass: scheduling on top of an unknown live schedule would leave
//     orphaned identifiers.
//  2. Request permission. Denied is a silent no-op, not an error; the user
//     can grant permission later and trigger reconciliation again.
//  3. Schedule a daily trigger for every enabled slot at its quiet-hours
//     resolved next occurrence. Per-slot failures are logged and skipped;
//     the rest of the batch still runs.
//
// Disabled slots are simply not rescheduled after step 1.
func (r *Reconciler) Reconcile(ctx context.Context, settings NotificationSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gw.CancelAll(ctx); err != nil {
		return fmt.Errorf("cancel all reminders: %w", err)
	}

	granted, err := r.gw.RequestPermission(ctx)
	if err != nil {
		return fmt.Errorf("request notification permission: %w", err)
	}
	if !granted {
		r.log.Debug("notification permission denied; leaving schedule empty")
		return nil
	}

	now := r.now()
	scheduled := 0
	for _, slot := range Slots(settings) {
		if !slot.Enabled {
			continue
		}
		fire := ResolveQuietHours(NextOccurrence(slot.Time, now),
			settings.QuietHoursStart, settings.QuietHoursEnd, now)

		err := r.gw.ScheduleAt(ctx, slot.Identifier, slot.Title, slot.Body,
			fire.Hour(), fire.Minute(), true)
		if err != nil {
			// Best-effort batch: one bad slot must not block the rest.
			r.log.Warn("reminder schedule failed",
				logx.String("identifier", slot.Identifier),
				logx.Err(err))
			r.publish(eventbus.EventReminderScheduled, eventbus.ReminderEvent{
				Identifier: slot.Identifier, Title: slot.Title, Error: err.Error(),
			})
			continue
		}
		scheduled++
		r.log.Debug("reminder scheduled",
			logx.String("identifier", slot.Identifier),
			logx.String("time", TimeOfDay{Hour: fire.Hour(), Minute: fire.Minute()}.String()))
		r.publish(eventbus.EventReminderScheduled, eventbus.ReminderEvent{
			Identifier: slot.Identifier, Title: slot.Title, FireAt: fire,
		})
	}

	r.log.Info("reminders reconciled",
		logx.Int("scheduled", scheduled),
		logx.Int("slots", len(Slots(settings))))
	return nil
}

// CancelOne removes a single trigger without a full reconciliation pass.
// Used when a custom reminder is deleted from the UI before settings are
// re-saved. Cancellation is idempotent: "already absent" is success, and
// gateway failures are logged, not returned.
func (r *Reconciler) CancelOne(ctx context.Context, identifier string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gw.Cancel(ctx, identifier); err != nil {
		r.log.Warn("reminder cancel failed",
			logx.String("identifier", identifier),
			logx.Err(err))
		return
	}
	r.publish(eventbus.EventReminderCanceled, eventbus.ReminderEvent{Identifier: identifier})
}

func (r *Reconciler) publish(typ string, data eventbus.ReminderEvent) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(eventbus.Event{Type: typ, Data: data})
}
