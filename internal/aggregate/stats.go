// Package aggregate derives the calendar's health views from a timeline
// index: period statistics, the record streak and the per-day heat-map
// status. Nothing computed here is persisted; callers recompute on every
// render.
package aggregate

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/datekey"
	"github.com/dmitrijs2005/healthcal/internal/timeline"
)

// Period is an inclusive range of day keys.
type Period struct {
	Start string
	End   string
}

// MonthPeriod returns the calendar month of year/month.
func MonthPeriod(year int, month time.Month) Period {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return Period{Start: datekey.ToDateKey(first), End: datekey.ToDateKey(last)}
}

// Contains reports whether key lies inside the period.
func (p Period) Contains(key string) bool {
	return datekey.Compare(key, p.Start) >= 0 && datekey.Compare(key, p.End) <= 0
}

// Keys lists every day of the period in order.
func (p Period) Keys() ([]string, error) {
	n, err := datekey.DaysBetween(p.Start, p.End)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: period ends %s before it starts %s", common.ErrValidation, p.End, p.Start)
	}
	keys := make([]string, 0, n+1)
	cur := p.Start
	for i := 0; i <= n; i++ {
		keys = append(keys, cur)
		if cur, err = datekey.AddDays(cur, 1); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// Mean is an arithmetic mean that remembers how many samples fed it, so
// "no data" is distinguishable from a mean of zero.
type Mean struct {
	Sum     float64
	Samples int
}

func (m *Mean) add(v float64) {
	m.Sum += v
	m.Samples++
}

// Valid reports whether at least one sample contributed.
func (m Mean) Valid() bool { return m.Samples > 0 }

// Value returns the mean and false when no sample contributed.
func (m Mean) Value() (float64, bool) {
	if m.Samples == 0 {
		return 0, false
	}
	return m.Sum / float64(m.Samples), true
}

func (m Mean) String() string {
	v, ok := m.Value()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", v)
}

// Stats summarizes the records of a period.
type Stats struct {
	Period Period

	// Count is the number of health records in the period.
	Count           int
	DaysWithRecords int

	Weight     Mean
	Systolic   Mean
	Diastolic  Mean
	BloodSugar Mean
	HeartRate  Mean

	Steps       int
	StepSamples int

	EventCount int
	DiaryCount int
}

// ComputeStats aggregates every record, event and diary entry whose day key
// falls in p. Each mean only counts records that define its metric.
func ComputeStats(idx *timeline.Index, p Period) (Stats, error) {
	keys, err := p.Keys()
	if err != nil {
		return Stats{}, err
	}

	s := Stats{Period: p}
	for _, key := range keys {
		recs := idx.RecordsOn(key)
		if len(recs) > 0 {
			s.DaysWithRecords++
		}
		for _, r := range recs {
			s.Count++
			if r.Weight != nil {
				s.Weight.add(*r.Weight)
			}
			if bp := r.BloodPressure; bp != nil {
				s.Systolic.add(float64(bp.Systolic))
				s.Diastolic.add(float64(bp.Diastolic))
				if bp.HeartRate != nil {
					s.HeartRate.add(float64(*bp.HeartRate))
				}
			}
			if r.BloodSugar != nil {
				s.BloodSugar.add(*r.BloodSugar)
			}
			if r.Steps != nil {
				s.Steps += *r.Steps
				s.StepSamples++
			}
		}
		s.EventCount += len(idx.EventsOn(key))
		if idx.DiaryOn(key) != nil {
			s.DiaryCount++
		}
	}
	return s, nil
}

// MonthlyStats is ComputeStats over a calendar month.
func MonthlyStats(idx *timeline.Index, year int, month time.Month) Stats {
	s, _ := ComputeStats(idx, MonthPeriod(year, month))
	return s
}
