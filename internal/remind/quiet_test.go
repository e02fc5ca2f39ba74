package remind

import (
	"testing"
	"time"
)

func tod(t *testing.T, s string) *TimeOfDay {
	t.Helper()
	v := MustTimeOfDay(s)
	return &v
}

func TestResolveQuietHoursUnconfigured(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cand := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	if got := ResolveQuietHours(cand, nil, nil, now); !got.Equal(cand) {
		t.Fatalf("nil window: got %v, want candidate unchanged", got)
	}
	if got := ResolveQuietHours(cand, tod(t, "22:00"), nil, now); !got.Equal(cand) {
		t.Fatalf("half-configured window: got %v, want candidate unchanged", got)
	}
}

func TestResolveQuietHoursOutsideWindow(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cand := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	got := ResolveQuietHours(cand, tod(t, "22:00"), tod(t, "07:00"), now)
	if !got.Equal(cand) {
		t.Fatalf("outside window: got %v, want %v", got, cand)
	}
}

func TestResolveQuietHoursPushForward(t *testing.T) {
	t.Parallel()
	start, end := tod(t, "22:00"), tod(t, "07:00")

	// now is past today's 07:00, so the rewritten instant rolls to tomorrow.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cand := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	got := ResolveQuietHours(cand, start, end, now)
	want := time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("push-forward: got %v, want %v", got, want)
	}

	// now is before today's 07:00, so today's window end still works.
	now = time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC)
	cand = time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	got = ResolveQuietHours(cand, start, end, now)
	want = time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("same-day window end: got %v, want %v", got, want)
	}
}

func TestResolveQuietHoursResultIsFuture(t *testing.T) {
	t.Parallel()
	start, end := tod(t, "22:00"), tod(t, "07:00")
	now := time.Date(2026, 3, 10, 23, 45, 0, 0, time.UTC)
	cand := NextOccurrence(MustTimeOfDay("23:50"), now)
	got := ResolveQuietHours(cand, start, end, now)
	if !got.After(now) {
		t.Fatalf("adjusted instant %v is not after now %v", got, now)
	}
	if got.Hour() != 7 || got.Minute() != 0 {
		t.Fatalf("adjusted instant %v, want wall clock 07:00", got)
	}
}
