package remind

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// TimeOfDay is a wall-clock time (hour 0-23, minute 0-59) with no date or
// zone attached. The canonical text form is zero-padded "HH:mm".
//
// Out-of-range values are rejected at parse/validate time, never clamped.
type TimeOfDay struct {
	Hour   int
	Minute int
}

var reClock = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*$`)

// ParseTimeOfDay parses "HH:mm" (a single-digit hour is accepted on input;
// formatting is always zero-padded).
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	m := reClock.FindStringSubmatch(raw)
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q (use HH:mm, e.g. 07:30)", raw)
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	t := TimeOfDay{Hour: h, Minute: mm}
	if err := t.Validate(); err != nil {
		return TimeOfDay{}, err
	}
	return t, nil
}

// MustTimeOfDay is ParseTimeOfDay for compile-time constants (defaults, tests).
func MustTimeOfDay(raw string) TimeOfDay {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("invalid time %s: hour out of range", t)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("invalid time %s: minute out of range", t)
	}
	return nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// minuteOfDay maps the time onto [0, 1439] for interval arithmetic.
func (t TimeOfDay) minuteOfDay() int { return t.Hour*60 + t.Minute }

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// NextOccurrence returns the next instant strictly after now at which the
// wall clock reads t: today if t is still ahead, otherwise tomorrow.
// The result is always in the future relative to now.
func NextOccurrence(t TimeOfDay, now time.Time) time.Time {
	cand := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
	if !cand.After(now) {
		cand = cand.AddDate(0, 0, 1)
	}
	return cand
}

// Within reports whether candidate falls inside the [start, end] window,
// walking the 24-hour clock forward from start. Both bounds are inclusive.
// When start > end the window crosses midnight (e.g. 22:00-07:00 contains
// 23:30 and 06:00 but not 12:00).
func Within(candidate, start, end TimeOfDay) bool {
	c, s, e := candidate.minuteOfDay(), start.minuteOfDay(), end.minuteOfDay()
	if s <= e {
		return c >= s && c <= e
	}
	return c >= s || c <= e
}
