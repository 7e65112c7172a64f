// Package timeline builds the per-day lookup over a user's events, health
// records and diary entries. An Index is immutable: whenever a collection
// changes the caller builds a new one from the source data instead of
// patching the old one.
package timeline

import (
	"sort"

	"github.com/dmitrijs2005/healthcal/internal/datekey"
	"github.com/dmitrijs2005/healthcal/internal/models"
)

type day struct {
	events  []models.Event
	records []models.HealthRecord
	diary   *models.DiaryEntry
}

// Index maps date keys to the entities of that day.
type Index struct {
	days map[string]*day
}

// Build indexes the three collections in one pass over each. Records keep
// their input order inside a day; when a day has several diary entries the
// last one wins.
func Build(events []models.Event, records []models.HealthRecord, diaries []models.DiaryEntry) *Index {
	idx := &Index{days: make(map[string]*day)}

	for _, e := range events {
		d := idx.at(e.Date)
		d.events = append(d.events, e)
	}
	for _, r := range records {
		d := idx.at(datekey.ToDateKey(r.Date))
		d.records = append(d.records, r)
	}
	for i := range diaries {
		entry := diaries[i]
		idx.at(entry.Date).diary = &entry
	}

	for _, d := range idx.days {
		sortEvents(d.events)
	}
	return idx
}

func (idx *Index) at(key string) *day {
	d, ok := idx.days[key]
	if !ok {
		d = &day{}
		idx.days[key] = d
	}
	return d
}

// sortEvents puts all-day events first, then timed ones by start time. Ties
// keep their input order.
func sortEvents(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.IsAllDay != b.IsAllDay {
			return a.IsAllDay
		}
		return a.StartTime < b.StartTime
	})
}

// RecordsOn returns the day's health records in insertion order.
func (idx *Index) RecordsOn(key string) []models.HealthRecord {
	if d, ok := idx.days[key]; ok {
		return d.records
	}
	return nil
}

// LatestRecordOn returns the most recently added record of the day, the one
// shown when a cell has room for a single value.
func (idx *Index) LatestRecordOn(key string) (models.HealthRecord, bool) {
	recs := idx.RecordsOn(key)
	if len(recs) == 0 {
		return models.HealthRecord{}, false
	}
	return recs[len(recs)-1], true
}

// HasRecords reports whether the day has at least one health record.
func (idx *Index) HasRecords(key string) bool {
	return len(idx.RecordsOn(key)) > 0
}

// EventsOn returns the day's events, all-day first.
func (idx *Index) EventsOn(key string) []models.Event {
	if d, ok := idx.days[key]; ok {
		return d.events
	}
	return nil
}

// DiaryOn returns the day's diary entry or nil.
func (idx *Index) DiaryOn(key string) *models.DiaryEntry {
	if d, ok := idx.days[key]; ok {
		return d.diary
	}
	return nil
}

// Days returns every key holding at least one entity, ascending.
func (idx *Index) Days() []string {
	keys := make([]string, 0, len(idx.days))
	for k := range idx.days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RecordDays returns the keys with at least one health record, ascending.
func (idx *Index) RecordDays() []string {
	keys := make([]string, 0, len(idx.days))
	for k, d := range idx.days {
		if len(d.records) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
