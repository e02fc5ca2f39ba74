package remind

import "testing"

func TestSlotsBuiltinsAlwaysPresent(t *testing.T) {
	t.Parallel()
	s := DefaultSettings()
	s.MorningReminder = false
	s.MiddayReminder = false
	s.EveningReminder = false
	s.MotivationalQuotes = false

	slots := Slots(s)
	if len(slots) != 4 {
		t.Fatalf("len(slots) = %d, want 4", len(slots))
	}
	wantIDs := []string{
		IdentifierMorning, IdentifierMidday, IdentifierEvening, IdentifierQuote,
	}
	for i, id := range wantIDs {
		if slots[i].Identifier != id {
			t.Fatalf("slots[%d].Identifier = %q, want %q", i, slots[i].Identifier, id)
		}
		if slots[i].Enabled {
			t.Fatalf("slots[%d] (%s) enabled, want disabled", i, id)
		}
	}
}

func TestSlotsIdentifierNamespace(t *testing.T) {
	t.Parallel()
	// These strings address previously persisted platform schedules and
	// must never drift.
	if IdentifierMorning != "morning-reminder" ||
		IdentifierMidday != "midday-reminder" ||
		IdentifierEvening != "evening-reminder" ||
		IdentifierQuote != "motivational-quote" {
		t.Fatal("built-in identifier constants changed")
	}
	if got := CustomIdentifier("c1"); got != "custom-c1" {
		t.Fatalf("CustomIdentifier(c1) = %q, want custom-c1", got)
	}
}

func TestSlotsCustomOrderAndUniqueness(t *testing.T) {
	t.Parallel()
	s := DefaultSettings()
	s.CustomNotifications = []CustomNotification{
		{ID: "b", Title: "Water", Body: "Drink up", Time: MustTimeOfDay("09:00"), Enabled: true},
		{ID: "a", Title: "Stretch", Body: "Five minutes", Time: MustTimeOfDay("15:00"), Enabled: false},
	}

	slots := Slots(s)
	if len(slots) != 6 {
		t.Fatalf("len(slots) = %d, want 6", len(slots))
	}
	// Insertion order preserved, not sorted by ID.
	if slots[4].Identifier != "custom-b" || slots[5].Identifier != "custom-a" {
		t.Fatalf("custom slot order = %q, %q", slots[4].Identifier, slots[5].Identifier)
	}
	if !slots[4].Enabled || slots[5].Enabled {
		t.Fatal("custom slot enabled flags not carried over")
	}

	seen := map[string]bool{}
	for _, sl := range slots {
		if seen[sl.Identifier] {
			t.Fatalf("duplicate identifier %q", sl.Identifier)
		}
		seen[sl.Identifier] = true
	}
}

func TestSlotsDeterministic(t *testing.T) {
	t.Parallel()
	s := DefaultSettings()
	s.CustomNotifications = []CustomNotification{
		{ID: "x", Title: "T", Body: "B", Time: MustTimeOfDay("11:00"), Enabled: true},
	}
	a, b := Slots(s), Slots(s)
	if len(a) != len(b) {
		t.Fatalf("derivation not stable: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d differs across derivations: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}

	bad := DefaultSettings()
	bad.MorningTime = TimeOfDay{Hour: 24}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for out-of-range hour")
	}

	dup := DefaultSettings()
	dup.CustomNotifications = []CustomNotification{
		{ID: "c1", Title: "A", Body: "a", Time: MustTimeOfDay("09:00")},
		{ID: "c1", Title: "B", Body: "b", Time: MustTimeOfDay("10:00")},
	}
	if err := dup.Validate(); err == nil {
		t.Fatal("expected error for duplicated custom id")
	}
}

func TestNewCustomNotification(t *testing.T) {
	t.Parallel()
	n, err := NewCustomNotification("  Water  ", " Drink a glass ", MustTimeOfDay("09:30"))
	if err != nil {
		t.Fatalf("NewCustomNotification: %v", err)
	}
	if n.ID == "" {
		t.Fatal("expected generated id")
	}
	if n.Title != "Water" || n.Body != "Drink a glass" {
		t.Fatalf("fields not trimmed: %q / %q", n.Title, n.Body)
	}
	if !n.Enabled {
		t.Fatal("new custom notifications start enabled")
	}

	if _, err := NewCustomNotification("   ", "body", MustTimeOfDay("09:30")); err == nil {
		t.Fatal("expected error for blank title")
	}
}
