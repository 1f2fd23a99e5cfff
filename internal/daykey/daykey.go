// Package daykey maps absolute instants onto the owner-facing logical day.
// A day key is always the canonical "YYYY-MM-DD" string for one local calendar
// date in the configured timezone.
package daykey

import (
	"fmt"
	"regexp"
	"time"
)

const (
	// Layout is the canonical day key format.
	Layout = "2006-01-02"

	// MonthLayout is the "YYYY-MM" month bucket used by cache tags.
	MonthLayout = "2006-01"

	// MaxDurationMin caps derived durations at 7 days to reject nonsensical input.
	MaxDurationMin = 7 * 24 * 60
)

var pattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsDayKey reports whether v matches the day key pattern.
func IsDayKey(v string) bool {
	return pattern.MatchString(v)
}

// Assert returns an error unless v is a well-formed day key naming a real date.
func Assert(v string) error {
	if !IsDayKey(v) {
		return fmt.Errorf("invalid dayKey: %q", v)
	}
	if _, err := time.Parse(Layout, v); err != nil {
		return fmt.Errorf("invalid dayKey: %q", v)
	}
	return nil
}

// FromTime formats the instant's calendar date in loc.
func FromTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(Layout)
}

// ToDayKey converts an RFC 3339 instant or an already-canonical day key into
// "YYYY-MM-DD" in loc. Day key input is idempotent: it is treated as midnight
// of that date in loc and comes back unchanged.
func ToDayKey(value string, loc *time.Location) (string, error) {
	if IsDayKey(value) {
		if err := Assert(value); err != nil {
			return "", err
		}
		return value, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return "", fmt.Errorf("value is neither an RFC 3339 instant nor a dayKey: %q", value)
	}
	return FromTime(t, loc), nil
}

// StartOfDayUTC returns the UTC instant of local midnight for the day key.
func StartOfDayUTC(dayKey string, loc *time.Location) (time.Time, error) {
	if err := Assert(dayKey); err != nil {
		return time.Time{}, err
	}
	d, _ := time.Parse(Layout, dayKey)
	local := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return local.UTC(), nil
}

// EndOfDayUTC returns the UTC instant of the last millisecond of the local day.
func EndOfDayUTC(dayKey string, loc *time.Location) (time.Time, error) {
	start, err := StartOfDayUTC(dayKey, loc)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(24*time.Hour - time.Millisecond), nil
}

// MonthOf returns the "YYYY-MM" month bucket that owns the day key.
func MonthOf(dayKey string) string {
	if len(dayKey) < 7 {
		return dayKey
	}
	return dayKey[:7]
}

// AddDays shifts a day key by n calendar days.
func AddDays(dayKey string, n int) (string, error) {
	if err := Assert(dayKey); err != nil {
		return "", err
	}
	d, _ := time.Parse(Layout, dayKey)
	return d.AddDate(0, 0, n).Format(Layout), nil
}

// MonthRange returns the inclusive start and exclusive end day keys of a
// "YYYY-MM" month.
func MonthRange(month string) (start, end string, err error) {
	m, err := time.Parse(MonthLayout, month)
	if err != nil {
		return "", "", fmt.Errorf("invalid month: %q", month)
	}
	return m.Format(Layout), m.AddDate(0, 1, 0).Format(Layout), nil
}

// DurationMin is the whole-minute duration from start to end, clamped to
// [0, MaxDurationMin]. A negative raw difference clamps to 0.
func DurationMin(start, end time.Time) int {
	diff := int(end.Sub(start) / time.Minute)
	return ClampInt(diff, 0, MaxDurationMin)
}

// ClampInt bounds n to [min, max].
func ClampInt(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
