// Package models defines the HealthCal domain types: calendar events with
// their recurrence membership, health records and diary entries.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/common"
)

// Repeat is the recurrence cadence of an event.
type Repeat string

const (
	RepeatNone    Repeat = "none"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
)

// ParseRepeat accepts the cadence names; the empty string means none.
func ParseRepeat(s string) (Repeat, error) {
	switch r := Repeat(strings.ToLower(strings.TrimSpace(s))); r {
	case "", RepeatNone:
		return RepeatNone, nil
	case RepeatDaily, RepeatWeekly, RepeatMonthly:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unsupported repeat %q", common.ErrValidation, s)
	}
}

// Category classifies an event and carries its display styling.
type Category string

const (
	CategoryMedical    Category = "medical"
	CategoryMedication Category = "medication"
	CategoryExercise   Category = "exercise"
	CategoryCheckup    Category = "checkup"
	CategoryPersonal   Category = "personal"
	CategoryWork       Category = "work"
	CategoryOther      Category = "other"
)

// CategoryStyle is how a category is drawn in calendar cells.
type CategoryStyle struct {
	Label  string
	Color  string
	Symbol string
}

var categoryStyles = map[Category]CategoryStyle{
	CategoryMedical:    {Label: "Medical", Color: "red", Symbol: "+"},
	CategoryMedication: {Label: "Medication", Color: "magenta", Symbol: "*"},
	CategoryExercise:   {Label: "Exercise", Color: "green", Symbol: "^"},
	CategoryCheckup:    {Label: "Checkup", Color: "cyan", Symbol: "?"},
	CategoryPersonal:   {Label: "Personal", Color: "blue", Symbol: "o"},
	CategoryWork:       {Label: "Work", Color: "yellow", Symbol: "#"},
	CategoryOther:      {Label: "Other", Color: "white", Symbol: "."},
}

// Categories lists every supported category in display order.
func Categories() []Category {
	return []Category{
		CategoryMedical, CategoryMedication, CategoryExercise, CategoryCheckup,
		CategoryPersonal, CategoryWork, CategoryOther,
	}
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := categoryStyles[c]
	return ok
}

// Style returns the display styling; unknown categories render as other.
func (c Category) Style() CategoryStyle {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return categoryStyles[CategoryOther]
}

// Membership is an event's place in a recurrence group. The zero value is a
// standalone event; group members are only created through MemberOf, so an
// ungrouped event cannot carry a stray group id.
type Membership struct {
	groupID string
}

// Standalone returns the membership of an event outside any group.
func Standalone() Membership { return Membership{} }

// MemberOf returns membership in the given recurrence group. An empty id
// yields a standalone membership.
func MemberOf(groupID string) Membership { return Membership{groupID: groupID} }

// GroupID returns the group id and whether the event belongs to a group.
func (m Membership) GroupID() (string, bool) {
	return m.groupID, m.groupID != ""
}

// Grouped reports whether the event is a recurrence-group member.
func (m Membership) Grouped() bool { return m.groupID != "" }

// In reports whether the membership is in group id.
func (m Membership) In(id string) bool { return id != "" && m.groupID == id }

func (m Membership) String() string {
	if m.groupID == "" {
		return "standalone"
	}
	return "group:" + m.groupID
}

// Event is one dated occurrence on a user's calendar, standalone or part of
// a recurring series.
type Event struct {
	ID          string
	UserID      string
	Title       string
	Description string

	// Date is the local-calendar day key (YYYY-MM-DD).
	Date     string
	Category Category

	IsAllDay  bool
	StartTime string // HH:MM, empty for all-day events
	EndTime   string // HH:MM, empty for all-day events

	Repeat        Repeat
	RepeatEndDate string // inclusive bound, empty unless Repeat != none
	Group         Membership

	Tags []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of e.
func (e Event) Clone() Event {
	e.Tags = append([]string(nil), e.Tags...)
	return e
}

// EventPatch carries optional field changes for an event or a whole group.
// Nil fields are left untouched. Recurrence fields are deliberately absent:
// single edits detach, group edits keep the series as it is.
type EventPatch struct {
	Title       *string
	Description *string
	Category    *Category
	IsAllDay    *bool
	StartTime   *string
	EndTime     *string
	Tags        *[]string

	// Date moves an event; honored for single-occurrence edits only.
	Date *string
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.IsAllDay == nil &&
		p.StartTime == nil && p.EndTime == nil && p.Tags == nil && p.Date == nil
}

// Apply writes the patched fields into e. Date is applied only when
// withDate is set.
func (p EventPatch) Apply(e *Event, withDate bool) {
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.IsAllDay != nil {
		e.IsAllDay = *p.IsAllDay
	}
	if p.StartTime != nil {
		e.StartTime = strings.TrimSpace(*p.StartTime)
	}
	if p.EndTime != nil {
		e.EndTime = strings.TrimSpace(*p.EndTime)
	}
	if p.Tags != nil {
		e.Tags = NormalizeTags(*p.Tags)
	}
	if withDate && p.Date != nil {
		e.Date = strings.TrimSpace(*p.Date)
	}
	if e.IsAllDay {
		e.StartTime, e.EndTime = "", ""
	}
}

// NormalizeTags trims labels and drops empties and duplicates, keeping the
// first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
