package recurrence

import (
	"fmt"
	"testing"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/datekey"
	"github.com/dmitrijs2005/healthcal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func anchor(date string, repeat models.Repeat, end string) models.Event {
	return models.Event{
		UserID:        "u1",
		Title:         "Blood pressure check",
		Date:          date,
		Category:      models.CategoryCheckup,
		IsAllDay:      false,
		StartTime:     "08:00",
		EndTime:       "08:15",
		Repeat:        repeat,
		RepeatEndDate: end,
		Tags:          []string{"bp"},
	}
}

func dates(events []models.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Date)
	}
	return out
}

func TestExpand_NoneReturnsSingleStandalone(t *testing.T) {
	x := Expander{NewID: seqIDs()}

	out, err := x.Expand(anchor("2024-05-01", models.RepeatNone, "2024-06-01"))
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "id-1", out[0].ID)
	assert.False(t, out[0].Group.Grouped())
	assert.Equal(t, models.RepeatNone, out[0].Repeat)
	assert.Empty(t, out[0].RepeatEndDate)
}

func TestExpand_EmptyRepeatMeansNone(t *testing.T) {
	out, err := Expander{}.Expand(anchor("2024-05-01", "", ""))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.RepeatNone, out[0].Repeat)
	assert.NotEmpty(t, out[0].ID)
}

func TestExpand_KeepsAnchorID(t *testing.T) {
	a := anchor("2024-05-01", models.RepeatDaily, "2024-05-03")
	a.ID = "anchor"
	out, err := Expander{NewID: seqIDs()}.Expand(a)
	require.NoError(t, err)
	assert.Equal(t, "anchor", out[0].ID)
}

func TestExpand_Daily(t *testing.T) {
	x := Expander{NewID: seqIDs()}

	out, err := x.Expand(anchor("2024-02-27", models.RepeatDaily, "2024-03-02"))
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, dates(out))

	gid, ok := out[0].Group.GroupID()
	require.True(t, ok)
	seen := map[string]bool{}
	for _, e := range out {
		assert.True(t, e.Group.In(gid))
		assert.Equal(t, models.RepeatDaily, e.Repeat)
		assert.Equal(t, "2024-03-02", e.RepeatEndDate)
		assert.Equal(t, "Blood pressure check", e.Title)
		assert.Equal(t, []string{"bp"}, e.Tags)
		assert.False(t, seen[e.ID], "ids are unique")
		seen[e.ID] = true
	}
}

func TestExpand_WeeklyExcludesDatePastBound(t *testing.T) {
	out, err := Expander{}.Expand(anchor("2024-01-01", models.RepeatWeekly, "2024-01-28"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"}, dates(out))
}

func TestExpand_BoundEqualToAnchor(t *testing.T) {
	out, err := Expander{}.Expand(anchor("2024-01-01", models.RepeatWeekly, "2024-01-01"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Group.Grouped(), "a repeat request always forms a group")
}

func TestExpand_CountMatchesCadenceFormula(t *testing.T) {
	tests := []struct {
		repeat models.Repeat
		step   int
		start  string
		end    string
	}{
		{models.RepeatDaily, 1, "2024-01-01", "2024-01-01"},
		{models.RepeatDaily, 1, "2024-01-01", "2024-12-31"},
		{models.RepeatWeekly, 7, "2024-01-03", "2024-03-01"},
		{models.RepeatWeekly, 7, "2023-10-20", "2024-04-05"},
		{models.RepeatWeekly, 7, "2024-03-25", "2024-03-31"},
	}

	for _, tt := range tests {
		t.Run(string(tt.repeat)+"/"+tt.start+"/"+tt.end, func(t *testing.T) {
			out, err := Expander{}.Expand(anchor(tt.start, tt.repeat, tt.end))
			require.NoError(t, err)

			span, err := datekey.DaysBetween(tt.start, tt.end)
			require.NoError(t, err)
			assert.Len(t, out, span/tt.step+1)

			n, err := Expander{}.Count(anchor(tt.start, tt.repeat, tt.end))
			require.NoError(t, err)
			assert.Equal(t, len(out), n)

			for i, e := range out {
				assert.LessOrEqual(t, e.Date, tt.end)
				if i == 0 {
					continue
				}
				gap, err := datekey.DaysBetween(out[i-1].Date, e.Date)
				require.NoError(t, err)
				assert.Equal(t, tt.step, gap)
			}
		})
	}
}

// Jan 31 + 1 month rolls over into March; the following occurrence steps
// from the rolled date.
func TestExpand_MonthlyRollOverFromJan31(t *testing.T) {
	out, err := Expander{}.Expand(anchor("2024-01-31", models.RepeatMonthly, "2024-03-31"))
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-31", "2024-03-02"}, dates(out))
	assert.GreaterOrEqual(t, len(out), 2)

	gid, ok := out[0].Group.GroupID()
	require.True(t, ok)
	for _, e := range out {
		assert.True(t, e.Group.In(gid))
		assert.LessOrEqual(t, e.Date, "2024-03-31")
	}
}

func TestExpand_MonthlyRegularDay(t *testing.T) {
	out, err := Expander{}.Expand(anchor("2024-01-15", models.RepeatMonthly, "2024-06-15"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-15", "2024-02-15", "2024-03-15", "2024-04-15", "2024-05-15", "2024-06-15"}, dates(out))
}

func TestExpand_DefaultBoundIsThreeMonths(t *testing.T) {
	out, err := Expander{}.Expand(anchor("2024-01-10", models.RepeatMonthly, ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-10", "2024-02-10", "2024-03-10", "2024-04-10"}, dates(out))
	assert.Equal(t, "2024-04-10", out[0].RepeatEndDate)

	out, err = Expander{}.Expand(anchor("2024-11-30", models.RepeatWeekly, ""))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", out[0].RepeatEndDate, "calendar-month arithmetic, not a day count")
	assert.LessOrEqual(t, out[len(out)-1].Date, "2025-03-02")
}

func TestExpand_ConfigurableSpan(t *testing.T) {
	out, err := Expander{DefaultSpanMonths: 1}.Expand(anchor("2024-01-10", models.RepeatMonthly, ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-10", "2024-02-10"}, dates(out))
}

func TestExpand_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		a    models.Event
	}{
		{"end before date", anchor("2024-05-10", models.RepeatDaily, "2024-05-09")},
		{"unknown cadence", anchor("2024-05-10", "yearly", "")},
		{"malformed date", anchor("2024-5-10", models.RepeatDaily, "")},
		{"malformed end", anchor("2024-05-10", models.RepeatDaily, "10/06/2024")},
		{"malformed date without repeat", anchor("someday", models.RepeatNone, "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Expander{}.Expand(tt.a)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Nil(t, out)
		})
	}
}

func TestExpand_OccurrenceCap(t *testing.T) {
	x := Expander{MaxOccurrences: 10}

	out, err := x.Expand(anchor("2024-01-01", models.RepeatDaily, "2024-01-10"))
	require.NoError(t, err)
	assert.Len(t, out, 10)

	out, err = x.Expand(anchor("2024-01-01", models.RepeatDaily, "2024-01-11"))
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Nil(t, out)

	_, err = x.Expand(anchor("2024-01-01", models.RepeatMonthly, "2025-12-31"))
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = x.Count(anchor("2024-01-01", models.RepeatWeekly, "2030-01-01"))
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestExpand_DefaultCapRejectsMultiYearDaily(t *testing.T) {
	_, err := Expander{}.Expand(anchor("2020-01-01", models.RepeatDaily, "2030-01-01"))
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestExpand_DoesNotAliasAnchorTags(t *testing.T) {
	a := anchor("2024-01-01", models.RepeatDaily, "2024-01-03")
	out, err := Expander{}.Expand(a)
	require.NoError(t, err)

	out[1].Tags[0] = "changed"
	assert.Equal(t, "bp", out[0].Tags[0])
	assert.Equal(t, "bp", out[2].Tags[0])
	assert.Equal(t, "bp", a.Tags[0])
}
