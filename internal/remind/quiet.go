package remind

import "time"

// ResolveQuietHours adjusts candidate so it does not fire inside the user's
// quiet-hours window. A candidate whose time-of-day falls inside the window
// is rewritten to the window's end (the reminder fires as soon as the
// blackout closes rather than being dropped); if the rewritten instant is
// not strictly in the future relative to now, it rolls forward one day.
//
// Only the original candidate's time-of-day is tested for containment; the
// rewritten time is not re-checked. With a single window the window end can
// never itself be inside the window, so this holds by construction. Keep
// that in mind before extending this to multiple windows.
//
// A nil start or end means quiet hours are not configured and candidate is
// returned unchanged.
func ResolveQuietHours(candidate time.Time, start, end *TimeOfDay, now time.Time) time.Time {
	if start == nil || end == nil {
		return candidate
	}
	tod := TimeOfDay{Hour: candidate.Hour(), Minute: candidate.Minute()}
	if !Within(tod, *start, *end) {
		return candidate
	}
	adjusted := time.Date(candidate.Year(), candidate.Month(), candidate.Day(),
		end.Hour, end.Minute, 0, 0, candidate.Location())
	if !adjusted.After(now) {
		adjusted = adjusted.AddDate(0, 0, 1)
	}
	return adjusted
}
