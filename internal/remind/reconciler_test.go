package remind

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	logx "github.com/YrayPixels/recipiehunter-sub001/pkg/logx"
)

// fakeGateway records every call and keeps the live trigger set, mimicking
// the platform notification store: individually atomic ops, no transactions.
type fakeGateway struct {
	mu      sync.Mutex
	granted bool
	permErr error

	// failSchedule lists identifiers whose ScheduleAt call should fail.
	failSchedule map[string]bool
	cancelAllErr error

	live  map[string]fakeTrigger
	calls []string
}

type fakeTrigger struct {
	title, body  string
	hour, minute int
	daily        bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{granted: true, live: map[string]fakeTrigger{}}
}

func (g *fakeGateway) RequestPermission(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "requestPermission")
	return g.granted, g.permErr
}

func (g *fakeGateway) ScheduleAt(ctx context.Context, id, title, body string, hour, minute int, repeatsDaily bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "schedule:"+id)
	if g.failSchedule[id] {
		return errors.New("gateway quota exceeded")
	}
	g.live[id] = fakeTrigger{title: title, body: body, hour: hour, minute: minute, daily: repeatsDaily}
	return nil
}

func (g *fakeGateway) ScheduleOnceImmediate(ctx context.Context, title, body string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "scheduleOnce")
	return nil
}

func (g *fakeGateway) Cancel(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "cancel:"+id)
	delete(g.live, id)
	return nil
}

func (g *fakeGateway) CancelAll(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "cancelAll")
	if g.cancelAllErr != nil {
		return g.cancelAllErr
	}
	g.live = map[string]fakeTrigger{}
	return nil
}

func (g *fakeGateway) snapshot() map[string]fakeTrigger {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]fakeTrigger, len(g.live))
	for k, v := range g.live {
		out[k] = v
	}
	return out
}

func (g *fakeGateway) callLog() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func newTestReconciler(gw Gateway) *Reconciler {
	r := NewReconciler(gw, logx.Nop(), nil)
	r.now = fixedNow
	return r
}

func TestReconcileSchedulesEnabledSlots(t *testing.T) {
	t.Parallel()
	gw := newFakeGateway()
	r := newTestReconciler(gw)

	s := DefaultSettings() // morning, midday, evening enabled; quotes off
	if err := r.Reconcile(context.Background(), s); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	live := gw.snapshot()
	if len(live) != 3 {
		t.Fatalf("live = %v, want 3 triggers", live)
	}
	for _, id := range []string{IdentifierMorning, IdentifierMidday, IdentifierEvening} {
		tr, ok := live[id]
		if !ok {
			t.Fatalf("missing trigger %q", id)
		}
		if !tr.daily {
			t.Fatalf("trigger %q not daily", id)
		}
	}
	if _, ok := live[IdentifierQuote]; ok {
		t.Fatal("disabled quote slot was scheduled")
	}

	// Cancel-all must precede every schedule call.
	calls := gw.callLog()
	if calls[0] != "cancelAll" {
		t.Fatalf("first call = %q, want cancelAll", calls[0])
	}
}

func TestReconcileIdempotent(t *testing.T) {
	t.Parallel()
	gw := newFakeGateway()
	r := newTestReconciler(gw)

	s := DefaultSettings()
	s.CustomNotifications = []CustomNotification{
		{ID: "c1", Title: "Water", Body: "Drink", Time: MustTimeOfDay("09:00"), Enabled: true},
	}

	if err := r.Reconcile(context.Background(), s); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	first := gw.snapshot()

	if err := r.Reconcile(context.Background(), s); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	second := gw.snapshot()

	if len(first) != len(second) {
		t.Fatalf("trigger count changed: %d -> %d", len(first), len(second))
	}
	for id, tr := range first {
		if second[id] != tr {
			t.Fatalf("trigger %q changed across identical reconciles: %+v -> %+v", id, tr, second[id])
		}
	}
}

func TestReconcileRemovesDisabledSlot(t *testing.T) {
	t.Parallel()
	gw := newFakeGateway()
	r := newTestReconciler(gw)

	s := DefaultSettings()
	s.MorningReminder = true
	if err := r.Reconcile(context.Background(), s); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if _, ok := gw.snapshot()[IdentifierMorning]; !ok {
		t.Fatal("morning trigger missing after enable")
	}

	s.MorningReminder = false
	if err := r.Reconcile(context.Background(), s); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if _, ok := gw.snapshot()[IdentifierMorning]; ok {
		t.Fatal("morning trigger still live after disable")
	}
}

func TestReconcileCustomLifecycle(t *testing.T) {
	t.Parallel()
	gw := newFakeGateway()
	r := newTestReconciler(gw)
	ctx := context.Background()

	s := DefaultSettings()
	s.CustomNotifications = []CustomNotification{
		{ID: "c1", Title: "Water", Body: "Drink", Time: MustTimeOfDay("09:00"), Enabled: true},
	}
	if err := r.Reconcile(ctx, s); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if _, ok := gw.snapshot()["custom-c1"]; !ok {
		t.Fatal("custom-c1 not scheduled")
	}

	s.CustomNotifications[0].Enabled = false
	if err := r.Reconcile(ctx, s); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if _, ok := gw.snapshot()["custom-c1"]; ok {
		t.Fatal("custom-c1 still live after disable")
	}

	s.CustomNotifications = nil
	for _, sl := range Slots(s) {
		if sl.Identifier == "custom-c1" {
			t.Fatal("deleted custom notification still in slot derivation")
		}
	}
}

func TestReconcilePermissionDeniedIsNoOp(t *testing.T) {
	t.Parallel()
	gw := newFakeGateway()
	gw.granted = false
	r := newTestReconciler(gw)

	if err := r.Reconcile(context.Background(), DefaultSettings()); err != nil {
		t.Fatalf("Reconcile with denied permission returned error: %v", err)
	}
	if live := gw.snapshot(); len(live) != 0 {
		t.Fatalf("live = %v, want empty after denial", live)
	}
}

func TestReconcilePermissionErrorPropagates(t *testing.T) {
	t.Parallel()
	gw := newFakeGateway()
	gw.permErr = errors.New("prompt crashed")
	r := newTestReconciler(gw)

	if err := r.Reconcile(context.Background(), DefaultSettings()); err == nil {
		t.Fatal("expected permission-request error to propagate")
	}
}

func TestReconcilePerSlotFailureContinues(t *testing.T) {
	t.Parallel()
	gw := newFakeGateway()
	gw.failSchedule = map[string]bool{IdentifierMidday: true}
	r := newTestReconciler(gw)

	if err := r.Reconcile(context.Background(), DefaultSettings()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	live := gw.snapshot()
	if _, ok := live[IdentifierMidday]; ok {
		t.Fatal("failed slot should not be live")
	}
	// The slots after the failed one must still have been attempted.
	if _, ok := live[IdentifierEvening]; !ok {
		t.Fatal("evening slot skipped after midday failure")
	}
}

func TestReconcileCancelAllFailureAborts(t *testing.T) {
	t.Parallel()
	gw := newFakeGateway()
	gw.cancelAllErr = errors.New("store locked")
	r := newTestReconciler(gw)

	if err := r.Reconcile(context.Background(), DefaultSettings()); err == nil {
		t.Fatal("expected cancel-all failure to abort the pass")
	}
	for _, c := range gw.callLog() {
		if c == "schedule:"+IdentifierMorning {
			t.Fatal("scheduled on top of an unknown live schedule")
		}
	}
}

func TestReconcileQuietHoursApplied(t *testing.T) {
	t.Parallel()
	gw := newFakeGateway()
	r := newTestReconciler(gw)

	s := DefaultSettings()
	s.EveningReminder = true
	s.EveningTime = MustTimeOfDay("23:00")
	qs, qe := MustTimeOfDay("22:00"), MustTimeOfDay("07:00")
	s.QuietHoursStart, s.QuietHoursEnd = &qs, &qe

	if err := r.Reconcile(context.Background(), s); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	tr, ok := gw.snapshot()[IdentifierEvening]
	if !ok {
		t.Fatal("evening trigger missing")
	}
	if tr.hour != 7 || tr.minute != 0 {
		t.Fatalf("evening trigger at %02d:%02d, want 07:00 (quiet hours end)", tr.hour, tr.minute)
	}
}

func TestReconcileSerialized(t *testing.T) {
	t.Parallel()
	gw := newFakeGateway()
	r := newTestReconciler(gw)

	a := DefaultSettings()
	a.MorningReminder = true
	a.MiddayReminder = false
	a.EveningReminder = false

	b := DefaultSettings()
	b.MorningReminder = false
	b.MiddayReminder = false
	b.EveningReminder = true

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Reconcile(context.Background(), a)
		}()
		go func() {
			defer wg.Done()
			_ = r.Reconcile(context.Background(), b)
		}()
	}
	wg.Wait()

	// The final live set must exactly match one of the two inputs; a lost
	// update (interleaved cancel-all) would leave a mixture or a short set.
	live := gw.snapshot()
	_, hasMorning := live[IdentifierMorning]
	_, hasEvening := live[IdentifierEvening]
	matchesA := len(live) == 1 && hasMorning
	matchesB := len(live) == 1 && hasEvening
	if !matchesA && !matchesB {
		t.Fatalf("final live set %v matches neither input", live)
	}
}

func TestCancelOne(t *testing.T) {
	t.Parallel()
	gw := newFakeGateway()
	r := newTestReconciler(gw)
	ctx := context.Background()

	s := DefaultSettings()
	s.CustomNotifications = []CustomNotification{
		{ID: "c1", Title: "Water", Body: "Drink", Time: MustTimeOfDay("09:00"), Enabled: true},
	}
	if err := r.Reconcile(ctx, s); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	r.CancelOne(ctx, CustomIdentifier("c1"))
	if _, ok := gw.snapshot()["custom-c1"]; ok {
		t.Fatal("custom-c1 still live after CancelOne")
	}
	if _, ok := gw.snapshot()[IdentifierMorning]; !ok {
		t.Fatal("CancelOne touched an unrelated slot")
	}

	// Canceling an absent identifier is fine.
	r.CancelOne(ctx, CustomIdentifier("never-existed"))
}
