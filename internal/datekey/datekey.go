// Package datekey is the single place where calendar days are turned into
// strings and back. A date key is "YYYY-MM-DD" built from a time's own
// calendar fields in its own location; no UTC conversion ever happens here,
// so a reading taken at 23:30 in UTC-5 stays on the day the user saw.
//
// Every other package must derive day keys through ToDateKey.
package datekey

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/common"
)

// Layout is the canonical key layout.
const Layout = "2006-01-02"

// ToDateKey returns the local-calendar key of t.
func ToDateKey(t time.Time) string {
	return t.Format(Layout)
}

// Parse returns midnight of the keyed day in loc (time.Local when nil).
func Parse(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed date %q", common.ErrValidation, key)
	}
	return t, nil
}

// Valid reports whether key is a well-formed, existing calendar day.
func Valid(key string) bool {
	_, err := time.Parse(Layout, key)
	return err == nil
}

// Midnight truncates t to the start of its calendar day in its own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays shifts a key by n calendar days. Arithmetic is done on a UTC
// midnight so DST transitions cannot skip or repeat a day.
func AddDays(key string, n int) (string, error) {
	t, err := Parse(key, time.UTC)
	if err != nil {
		return "", err
	}
	return ToDateKey(t.AddDate(0, 0, n)), nil
}

// AddMonths shifts a key by n calendar months. Days past the end of the
// target month roll over into the following month (Jan 31 + 1 month is
// Mar 2 or Mar 3), mirroring time.AddDate normalization.
func AddMonths(key string, n int) (string, error) {
	t, err := Parse(key, time.UTC)
	if err != nil {
		return "", err
	}
	return ToDateKey(t.AddDate(0, n, 0)), nil
}

// Compare orders two well-formed keys: -1, 0 or +1. The key layout sorts
// lexically in calendar order, so no parsing is needed.
func Compare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// DaysBetween returns the number of calendar days from a to b (negative when
// b precedes a).
func DaysBetween(a, b string) (int, error) {
	ta, err := Parse(a, time.UTC)
	if err != nil {
		return 0, err
	}
	tb, err := Parse(b, time.UTC)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// MonthLabel renders a key's month for headings, e.g. "March 2024".
func MonthLabel(key string) (string, error) {
	t, err := Parse(key, time.UTC)
	if err != nil {
		return "", err
	}
	return t.Format("January 2006"), nil
}

// ShortLabel renders a key for compact headings, e.g. "Mon Mar 4".
func ShortLabel(key string) (string, error) {
	t, err := Parse(key, time.UTC)
	if err != nil {
		return "", err
	}
	return t.Format("Mon Jan 2"), nil
}

// Weekday returns the day of the week of key.
func Weekday(key string) (time.Weekday, error) {
	t, err := Parse(key, time.UTC)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// Today is the key of now's calendar day.
func Today(now time.Time) string {
	return ToDateKey(now)
}
