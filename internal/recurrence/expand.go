// Package recurrence expands a single anchor event into its bounded series
// of dated occurrences sharing one recurrence group.
package recurrence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/datekey"
	"github.com/dmitrijs2005/healthcal/internal/models"
)

const (
	// DefaultMaxOccurrences caps a single series. A daily cadence over a
	// multi-year bound would otherwise insert thousands of rows.
	DefaultMaxOccurrences = 2000

	// DefaultSpanMonths is the implicit bound when a repeat is requested
	// without an end date.
	DefaultSpanMonths = 3
)

// Expander generates occurrence series. The zero value is usable and applies
// the defaults above with uuid identifiers.
type Expander struct {
	// MaxOccurrences is the largest series Expand will produce, anchor
	// included. Zero means DefaultMaxOccurrences.
	MaxOccurrences int

	// DefaultSpanMonths bounds series without an explicit RepeatEndDate.
	// Zero means DefaultSpanMonths.
	DefaultSpanMonths int

	// NewID generates occurrence and group ids. Nil means uuid.NewString.
	NewID func() string
}

func (x Expander) maxOccurrences() int {
	if x.MaxOccurrences <= 0 {
		return DefaultMaxOccurrences
	}
	return x.MaxOccurrences
}

func (x Expander) spanMonths() int {
	if x.DefaultSpanMonths <= 0 {
		return DefaultSpanMonths
	}
	return x.DefaultSpanMonths
}

func (x Expander) newID() string {
	if x.NewID == nil {
		return uuid.NewString()
	}
	return x.NewID()
}

// Bound returns the inclusive end of the series anchored at anchor: the
// explicit RepeatEndDate, or the anchor date plus the default span.
func (x Expander) Bound(anchor models.Event) (string, error) {
	if !datekey.Valid(anchor.Date) {
		return "", fmt.Errorf("%w: malformed date %q", common.ErrValidation, anchor.Date)
	}
	if anchor.RepeatEndDate == "" {
		return datekey.AddMonths(anchor.Date, x.spanMonths())
	}
	if !datekey.Valid(anchor.RepeatEndDate) {
		return "", fmt.Errorf("%w: malformed repeat end date %q", common.ErrValidation, anchor.RepeatEndDate)
	}
	if datekey.Compare(anchor.RepeatEndDate, anchor.Date) < 0 {
		return "", fmt.Errorf("%w: repeat end date %s is before %s", common.ErrValidation, anchor.RepeatEndDate, anchor.Date)
	}
	return anchor.RepeatEndDate, nil
}

// Expand returns the anchor followed by every successor produced by its
// cadence up to and including the bound. Non-repeating anchors come back
// alone and standalone; repeating ones all share a fresh group id and the
// resolved RepeatEndDate. The anchor's ID is kept when set.
//
// Monthly series step from the previous occurrence with roll-over: a day
// that does not exist in the next month spills into the month after
// (2024-01-31, 2024-03-02, 2024-04-02, ...).
//
// Nothing is returned on error, so callers never persist a partial series.
func (x Expander) Expand(anchor models.Event) ([]models.Event, error) {
	repeat, err := models.ParseRepeat(string(anchor.Repeat))
	if err != nil {
		return nil, err
	}
	if !datekey.Valid(anchor.Date) {
		return nil, fmt.Errorf("%w: malformed date %q", common.ErrValidation, anchor.Date)
	}

	first := anchor.Clone()
	if first.ID == "" {
		first.ID = x.newID()
	}

	if repeat == models.RepeatNone {
		first.Repeat = models.RepeatNone
		first.RepeatEndDate = ""
		first.Group = models.Standalone()
		return []models.Event{first}, nil
	}

	bound, err := x.Bound(anchor)
	if err != nil {
		return nil, err
	}

	dates, err := x.dates(repeat, anchor.Date, bound)
	if err != nil {
		return nil, err
	}

	group := models.MemberOf(x.newID())
	first.Repeat = repeat
	first.RepeatEndDate = bound
	first.Group = group

	out := make([]models.Event, 0, len(dates))
	out = append(out, first)
	for _, d := range dates[1:] {
		occ := first.Clone()
		occ.ID = x.newID()
		occ.Date = d
		out = append(out, occ)
	}
	return out, nil
}

// Count returns how many occurrences Expand would produce for anchor without
// allocating the series. It applies the same validation.
func (x Expander) Count(anchor models.Event) (int, error) {
	repeat, err := models.ParseRepeat(string(anchor.Repeat))
	if err != nil {
		return 0, err
	}
	if !datekey.Valid(anchor.Date) {
		return 0, fmt.Errorf("%w: malformed date %q", common.ErrValidation, anchor.Date)
	}
	if repeat == models.RepeatNone {
		return 1, nil
	}
	bound, err := x.Bound(anchor)
	if err != nil {
		return 0, err
	}
	dates, err := x.dates(repeat, anchor.Date, bound)
	if err != nil {
		return 0, err
	}
	return len(dates), nil
}

// dates returns the occurrence keys from start to bound inclusive.
func (x Expander) dates(repeat models.Repeat, start, bound string) ([]string, error) {
	switch repeat {
	case models.RepeatDaily:
		return x.fixedStep(rrule.DAILY, 1, start, bound)
	case models.RepeatWeekly:
		return x.fixedStep(rrule.WEEKLY, 7, start, bound)
	case models.RepeatMonthly:
		return x.monthly(start, bound)
	default:
		return nil, fmt.Errorf("%w: unsupported repeat %q", common.ErrValidation, repeat)
	}
}

// fixedStep handles cadences with a constant length in days. The series size
// is known up front, so oversized requests are rejected before any date is
// generated.
func (x Expander) fixedStep(freq rrule.Frequency, stepDays int, start, bound string) ([]string, error) {
	span, err := datekey.DaysBetween(start, bound)
	if err != nil {
		return nil, err
	}
	if n := span/stepDays + 1; n > x.maxOccurrences() {
		return nil, tooMany(n, x.maxOccurrences())
	}

	dtstart, err := datekey.Parse(start, time.UTC)
	if err != nil {
		return nil, err
	}
	until, err := datekey.Parse(bound, time.UTC)
	if err != nil {
		return nil, err
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     freq,
		Interval: 1,
		Dtstart:  dtstart,
		Until:    until,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	times := r.All()
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, datekey.ToDateKey(t))
	}
	return out, nil
}

func (x Expander) monthly(start, bound string) ([]string, error) {
	out := []string{start}
	cur := start
	for {
		next, err := datekey.AddMonths(cur, 1)
		if err != nil {
			return nil, err
		}
		if datekey.Compare(next, bound) > 0 {
			return out, nil
		}
		if len(out) == x.maxOccurrences() {
			return nil, tooMany(len(out)+1, x.maxOccurrences())
		}
		out = append(out, next)
		cur = next
	}
}

func tooMany(n, limit int) error {
	return fmt.Errorf("%w: series would have %d occurrences, limit is %d", common.ErrValidation, n, limit)
}
