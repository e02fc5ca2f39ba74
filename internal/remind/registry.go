package remind

// Gateway identifiers. These are the cancel/replace keys the notification
// gateway addresses triggers by; they must stay byte-exact across releases
// or previously persisted schedules become unreachable.
const (
	IdentifierMorning = "morning-reminder"
	IdentifierMidday  = "midday-reminder"
	IdentifierEvening = "evening-reminder"
	IdentifierQuote   = "motivational-quote"

	customIdentifierPrefix = "custom-"
)

// CustomIdentifier derives the gateway identifier for a custom notification ID.
func CustomIdentifier(id string) string { return customIdentifierPrefix + id }

// Slot is a derived reminder definition: one scheduled (or deliberately
// unscheduled) daily trigger. Slots are never persisted; they are recomputed
// from settings on every reconciliation.
type Slot struct {
	Identifier string
	Enabled    bool
	Title      string
	Body       string
	Time       TimeOfDay
}

// Slots derives the full slot set from a settings snapshot: the four
// built-ins (always present, so a disabled slot still gets explicitly
// canceled) followed by one slot per custom notification in insertion
// order. Pure and deterministic; identifiers are unique across the result.
func Slots(s NotificationSettings) []Slot {
	out := make([]Slot, 0, 4+len(s.CustomNotifications))
	out = append(out,
		Slot{
			Identifier: IdentifierMorning,
			Enabled:    s.MorningReminder,
			Title:      "Good morning!",
			Body:       "Start your day by planning today's meals.",
			Time:       s.MorningTime,
		},
		Slot{
			Identifier: IdentifierMidday,
			Enabled:    s.MiddayReminder,
			Title:      "Midday check-in",
			Body:       "Don't forget to log your lunch.",
			Time:       s.MiddayTime,
		},
		Slot{
			Identifier: IdentifierEvening,
			Enabled:    s.EveningReminder,
			Title:      "Evening reminder",
			Body:       "Log today's meals and keep your streak going.",
			Time:       s.EveningTime,
		},
		Slot{
			Identifier: IdentifierQuote,
			Enabled:    s.MotivationalQuotes,
			Title:      "Daily motivation",
			Body:       "Your daily dose of motivation is ready.",
			Time:       s.MotivationalQuotesTime,
		},
	)
	for _, n := range s.CustomNotifications {
		out = append(out, Slot{
			Identifier: CustomIdentifier(n.ID),
			Enabled:    n.Enabled,
			Title:      n.Title,
			Body:       n.Body,
			Time:       n.Time,
		})
	}
	return out
}
