package models

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMembership(t *testing.T) {
	var zero Membership
	_, ok := zero.GroupID()
	assert.False(t, ok)
	assert.False(t, zero.Grouped())
	assert.Equal(t, Standalone(), zero)

	m := MemberOf("g1")
	id, ok := m.GroupID()
	assert.True(t, ok)
	assert.Equal(t, "g1", id)
	assert.True(t, m.In("g1"))
	assert.False(t, m.In("g2"))
	assert.False(t, zero.In(""))

	assert.False(t, MemberOf("").Grouped())
	assert.Equal(t, "group:g1", m.String())
	assert.Equal(t, "standalone", zero.String())
}

func TestParseRepeat(t *testing.T) {
	for in, want := range map[string]Repeat{"": RepeatNone, "none": RepeatNone, "Daily": RepeatDaily, " weekly ": RepeatWeekly, "monthly": RepeatMonthly} {
		got, err := ParseRepeat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseRepeat("yearly")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCategoryStyle(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid())
		assert.NotEmpty(t, c.Style().Label)
	}
	assert.False(t, Category("party").Valid())
	assert.Equal(t, CategoryOther.Style(), Category("party").Style())
}

func TestEventPatch_Apply(t *testing.T) {
	e := Event{Title: "Run", StartTime: "07:00", EndTime: "08:00", Date: "2024-01-01", Tags: []string{"a"}}

	EventPatch{
		Title:    ptr("  Swim "),
		Tags:     &[]string{"x", " x", "", "y"},
		Date:     ptr("2024-01-05"),
		IsAllDay: ptr(true),
	}.Apply(&e, false)

	assert.Equal(t, "Swim", e.Title)
	assert.Equal(t, []string{"x", "y"}, e.Tags)
	assert.Equal(t, "2024-01-01", e.Date, "date ignored without withDate")
	assert.True(t, e.IsAllDay)
	assert.Empty(t, e.StartTime)
	assert.Empty(t, e.EndTime)

	EventPatch{Date: ptr("2024-01-05")}.Apply(&e, true)
	assert.Equal(t, "2024-01-05", e.Date)

	assert.True(t, EventPatch{}.Empty())
	assert.False(t, EventPatch{Title: ptr("")}.Empty())
}

func TestEventClone_DetachesTags(t *testing.T) {
	e := Event{Tags: []string{"a"}}
	c := e.Clone()
	c.Tags[0] = "b"
	assert.Equal(t, "a", e.Tags[0])
}

func TestValidateEvent(t *testing.T) {
	valid := Event{UserID: "u", Title: "Doctor", Date: "2024-03-01", Category: CategoryMedical, Repeat: RepeatNone, StartTime: "09:00", EndTime: "09:30"}
	require.NoError(t, ValidateEvent(valid))

	allDay := valid
	allDay.IsAllDay, allDay.StartTime, allDay.EndTime = true, "", ""
	require.NoError(t, ValidateEvent(allDay))

	tests := []struct {
		name string
		mut  func(e *Event)
	}{
		{"no user", func(e *Event) { e.UserID = "" }},
		{"no title", func(e *Event) { e.Title = " " }},
		{"bad date", func(e *Event) { e.Date = "2024-02-31" }},
		{"bad category", func(e *Event) { e.Category = "party" }},
		{"bad repeat", func(e *Event) { e.Repeat = "hourly" }},
		{"bad start", func(e *Event) { e.StartTime = "9:00" }},
		{"bad end", func(e *Event) { e.EndTime = "25:00" }},
		{"end before start", func(e *Event) { e.EndTime = "08:00" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mut(&e)
			assert.ErrorIs(t, ValidateEvent(e), common.ErrValidation)
		})
	}
}

func TestValidateRecord(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	err := ValidateRecord(HealthRecord{UserID: "u", Date: day, Notes: "just notes"})
	assert.ErrorIs(t, err, common.ErrValidation, "a record without metrics is rejected")

	require.NoError(t, ValidateRecord(HealthRecord{UserID: "u", Date: day, Weight: ptr(72.5)}))
	require.NoError(t, ValidateRecord(HealthRecord{UserID: "u", Date: day, Steps: ptr(0)}))
	require.NoError(t, ValidateRecord(HealthRecord{UserID: "u", Date: day, BloodPressure: &BloodPressure{Systolic: 120, Diastolic: 80, HeartRate: ptr(60)}}))

	bad := []HealthRecord{
		{Date: day, Weight: ptr(70.0)},
		{UserID: "u", Weight: ptr(70.0)},
		{UserID: "u", Date: day, Weight: ptr(-1.0)},
		{UserID: "u", Date: day, BloodPressure: &BloodPressure{Systolic: 80, Diastolic: 120}},
		{UserID: "u", Date: day, BloodPressure: &BloodPressure{Systolic: 120, Diastolic: 80, HeartRate: ptr(0)}},
		{UserID: "u", Date: day, BloodSugar: ptr(0.0)},
		{UserID: "u", Date: day, Calories: ptr(-5)},
	}
	for i, r := range bad {
		assert.ErrorIs(t, ValidateRecord(r), common.ErrValidation, "case %d", i)
	}
}

func TestHealthRecordClone(t *testing.T) {
	r := HealthRecord{Weight: ptr(70.0), BloodPressure: &BloodPressure{Systolic: 120, Diastolic: 80, HeartRate: ptr(70)}}
	c := r.Clone()
	*c.Weight = 80
	*c.BloodPressure.HeartRate = 90
	assert.Equal(t, 70.0, *r.Weight)
	assert.Equal(t, 70, *r.BloodPressure.HeartRate)
}

func TestMoodValid(t *testing.T) {
	assert.True(t, MoodGreat.Valid())
	assert.False(t, Mood("meh").Valid())
}
