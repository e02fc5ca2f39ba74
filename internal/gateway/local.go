package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/YrayPixels/recipiehunter-sub001/internal/eventbus"
	logx "github.com/YrayPixels/recipiehunter-sub001/pkg/logx"
)

// Config controls the local gateway.
type Config struct {
	// Timezone is an IANA TZ name (e.g. "Asia/Jakarta"); empty means local.
	Timezone string
	// Permission stands in for the OS permission prompt: "granted" (default)
	// or "denied".
	Permission string
}

// Local implements remind.Gateway on top of a cron runner. Every daily
// trigger is one cron entry keyed by its reminder identifier; scheduling an
// identifier that already exists replaces the previous entry (upsert), so
// an identifier can never be live twice.
type Local struct {
	log  logx.Logger
	bus  eventbus.Bus
	sink Sink
	loc  *time.Location

	granted bool

	mu      sync.Mutex
	c       *cron.Cron
	entries map[string]*entry
	timers  map[string]*time.Timer // non-repeating triggers
	stopped bool
}

type entry struct {
	id     cron.EntryID
	title  string
	body   string
	hour   int
	minute int
}

func NewLocal(cfg Config, sink Sink, log logx.Logger, bus eventbus.Bus) (*Local, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	loc := time.Local
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("gateway timezone %q: %w", tz, err)
		}
		loc = l
	}
	g := &Local{
		log:     log,
		bus:     bus,
		sink:    sink,
		loc:     loc,
		granted: !strings.EqualFold(strings.TrimSpace(cfg.Permission), "denied"),
		c:       cron.New(cron.WithLocation(loc)),
		entries: map[string]*entry{},
		timers:  map[string]*time.Timer{},
	}
	return g, nil
}

// Start begins firing triggers. Idempotent.
func (g *Local) Start(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return
	}
	g.c.Start()
}

// Stop halts the cron runner and waits for in-flight deliveries (bounded
// by ctx). After Stop, scheduling calls fail with ErrStopped.
func (g *Local) Stop(ctx context.Context) error {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return nil
	}
	g.stopped = true
	for id, t := range g.timers {
		t.Stop()
		delete(g.timers, id)
	}
	done := g.c.Stop().Done()
	g.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestPermission reports the configured permission grant. Idempotent.
func (g *Local) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return g.granted, nil
}

// ScheduleAt registers (or replaces) the trigger addressed by id.
func (g *Local) ScheduleAt(ctx context.Context, id, title, body string, hour, minute int, repeatsDaily bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("schedule: identifier required")
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("schedule %s: invalid trigger time %02d:%02d", id, hour, minute)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return ErrStopped
	}

	// Upsert by identifier.
	g.removeLocked(id)

	if !repeatsDaily {
		now := time.Now().In(g.loc)
		fire := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, g.loc)
		if !fire.After(now) {
			fire = fire.AddDate(0, 0, 1)
		}
		g.timers[id] = time.AfterFunc(time.Until(fire), func() {
			g.mu.Lock()
			delete(g.timers, id)
			g.mu.Unlock()
			g.deliver(Note{Identifier: id, Title: title, Body: body, At: time.Now()})
		})
		return nil
	}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	eid, err := g.c.AddFunc(spec, func() {
		g.deliver(Note{Identifier: id, Title: title, Body: body, At: time.Now()})
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", id, err)
	}
	g.entries[id] = &entry{id: eid, title: title, body: body, hour: hour, minute: minute}
	return nil
}

// ScheduleOnceImmediate delivers right away, bypassing the trigger store.
func (g *Local) ScheduleOnceImmediate(ctx context.Context, title, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	stopped := g.stopped
	g.mu.Unlock()
	if stopped {
		return ErrStopped
	}
	return g.deliver(Note{Title: title, Body: body, At: time.Now()})
}

// Cancel removes the trigger addressed by id. Missing identifiers are fine.
func (g *Local) Cancel(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeLocked(id)
	return nil
}

// CancelAll removes every trigger.
func (g *Local) CancelAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for id := range g.entries {
		g.removeLocked(id)
	}
	for id, t := range g.timers {
		t.Stop()
		delete(g.timers, id)
	}
	return nil
}

func (g *Local) removeLocked(id string) {
	if e, ok := g.entries[id]; ok {
		g.c.Remove(e.id)
		delete(g.entries, id)
	}
	if t, ok := g.timers[id]; ok {
		t.Stop()
		delete(g.timers, id)
	}
}

// Snapshot lists live triggers sorted by identifier.
func (g *Local) Snapshot() []ScheduleInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ScheduleInfo, 0, len(g.entries))
	for id, e := range g.entries {
		out = append(out, ScheduleInfo{
			Identifier: id,
			Title:      e.title,
			Hour:       e.hour,
			Minute:     e.minute,
			Next:       g.c.Entry(e.id).Next,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}

func (g *Local) deliver(n Note) error {
	if g.sink == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := g.sink.Deliver(ctx, n)
	ev := eventbus.ReminderEvent{Identifier: n.Identifier, Title: n.Title, FireAt: n.At}
	if err != nil {
		ev.Error = err.Error()
		g.log.Warn("notification delivery failed",
			logx.String("identifier", n.Identifier),
			logx.Err(err))
	} else {
		g.log.Debug("notification delivered",
			logx.String("identifier", n.Identifier),
			logx.String("title", n.Title))
	}
	if g.bus != nil {
		g.bus.Publish(eventbus.Event{Type: eventbus.EventReminderDelivered, Data: ev})
	}
	return err
}
