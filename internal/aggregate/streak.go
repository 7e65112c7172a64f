package aggregate

import (
	"time"

	"github.com/dmitrijs2005/healthcal/internal/datekey"
	"github.com/dmitrijs2005/healthcal/internal/timeline"
)

// Streak counts consecutive days, walking back from today, that hold at
// least one health record. A day without records ends the walk, so the
// streak is 0 when today is empty.
func Streak(idx *timeline.Index, today time.Time) int {
	day := datekey.Midnight(today)
	n := 0
	for idx.HasRecords(datekey.ToDateKey(day)) {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

// LongestStreak returns the longest run of consecutive record days anywhere
// in the index.
func LongestStreak(idx *timeline.Index) int {
	best, run := 0, 0
	prev := ""
	for _, key := range idx.RecordDays() {
		if prev != "" {
			if next, err := datekey.AddDays(prev, 1); err == nil && next == key {
				run++
			} else {
				run = 1
			}
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = key
	}
	return best
}
