// Package calendar holds the navigation state of the calendar screen and
// turns a fresh timeline index into a renderable grid. The view model keeps
// no entity data between renders: every Render asks its Source again.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/aggregate"
	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/datekey"
	"github.com/dmitrijs2005/healthcal/internal/models"
	"github.com/dmitrijs2005/healthcal/internal/timeline"
)

// Mode selects the span shown by the grid.
type Mode string

const (
	ModeMonth Mode = "month"
	ModeWeek  Mode = "week"
)

// ParseMode accepts "month" or "week".
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeMonth, ModeWeek:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown view mode %q", common.ErrValidation, s)
	}
}

// ParseWeekStart accepts "monday" or "sunday".
func ParseWeekStart(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monday", "mon":
		return time.Monday, nil
	case "sunday", "sun":
		return time.Sunday, nil
	default:
		return 0, fmt.Errorf("%w: week start must be monday or sunday, got %q", common.ErrValidation, s)
	}
}

// Source supplies the current timeline of a user.
type Source interface {
	Timeline(ctx context.Context, userID string) (*timeline.Index, error)
}

// Options configures a ViewModel. A nil Location or Now falls back to
// time.Local or time.Now.
type Options struct {
	UserID    string
	WeekStart time.Weekday
	Location  *time.Location
	Now       func() time.Time
}

// ViewModel is the calendar screen state.
type ViewModel struct {
	source    Source
	userID    string
	weekStart time.Weekday
	loc       *time.Location
	now       func() time.Time

	mode     Mode
	anchor   string
	selected string
}

// NewViewModel starts in month mode with today anchored and selected.
func NewViewModel(source Source, opts Options) *ViewModel {
	vm := &ViewModel{
		source:    source,
		userID:    opts.UserID,
		weekStart: opts.WeekStart,
		loc:       opts.Location,
		now:       opts.Now,
		mode:      ModeMonth,
	}
	if vm.loc == nil {
		vm.loc = time.Local
	}
	if vm.now == nil {
		vm.now = time.Now
	}
	vm.anchor = vm.today()
	vm.selected = vm.anchor
	return vm
}

func (vm *ViewModel) today() string {
	return datekey.Today(vm.now().In(vm.loc))
}

func (vm *ViewModel) Mode() Mode { return vm.mode }

func (vm *ViewModel) Anchor() string { return vm.anchor }

func (vm *ViewModel) Selected() string { return vm.selected }

func (vm *ViewModel) Location() *time.Location { return vm.loc }

// SetMode switches between month and week without moving the anchor.
func (vm *ViewModel) SetMode(m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	vm.mode = m
	return nil
}

// Period returns the days the grid belongs to: the anchor's calendar month
// or the week containing the anchor.
func (vm *ViewModel) Period() aggregate.Period {
	if vm.mode == ModeWeek {
		start := vm.weekOf(vm.anchor)
		end, _ := datekey.AddDays(start, 6)
		return aggregate.Period{Start: start, End: end}
	}
	t, _ := datekey.Parse(vm.anchor, time.UTC)
	return aggregate.MonthPeriod(t.Year(), t.Month())
}

// weekOf returns the first day of the week holding key.
func (vm *ViewModel) weekOf(key string) string {
	wd, err := datekey.Weekday(key)
	if err != nil {
		return key
	}
	offset := (int(wd) - int(vm.weekStart) + 7) % 7
	start, _ := datekey.AddDays(key, -offset)
	return start
}

// PreviousPeriod moves the anchor one month or one week back.
func (vm *ViewModel) PreviousPeriod() error { return vm.shift(-1) }

// NextPeriod moves the anchor one month or one week forward.
func (vm *ViewModel) NextPeriod() error { return vm.shift(1) }

func (vm *ViewModel) shift(n int) error {
	var (
		next string
		err  error
	)
	if vm.mode == ModeWeek {
		next, err = datekey.AddDays(vm.anchor, 7*n)
	} else {
		// month stepping from the 1st so Jan 31 never skips February
		next, err = datekey.AddMonths(vm.Period().Start, n)
	}
	if err != nil {
		return err
	}
	vm.anchor = next
	return nil
}

// GoToToday anchors and selects the current day.
func (vm *ViewModel) GoToToday() {
	vm.anchor = vm.today()
	vm.selected = vm.anchor
}

// SelectDate selects key and brings its period into view when needed.
func (vm *ViewModel) SelectDate(key string) error {
	if !datekey.Valid(key) {
		return fmt.Errorf("%w: malformed date %q", common.ErrValidation, key)
	}
	vm.selected = key
	if !vm.Period().Contains(key) {
		vm.anchor = key
	}
	return nil
}

// Cell is one day of the grid.
type Cell struct {
	Date        string
	Day         int
	InPeriod    bool
	IsToday     bool
	IsSelected  bool
	Events      []models.Event
	RecordCount int
	Latest      *models.HealthRecord
	HasDiary    bool
	Status      aggregate.Status
}

// DayDetail is everything stored on the selected day.
type DayDetail struct {
	Date    string
	Events  []models.Event
	Records []models.HealthRecord
	Diary   *models.DiaryEntry
	Status  aggregate.Status
}

// View is one rendered frame.
type View struct {
	Mode          Mode
	Title         string
	Period        aggregate.Period
	Today         string
	Weeks         [][]Cell
	Stats         aggregate.Stats
	Streak        int
	LongestStreak int
	Selected      *DayDetail
}

// Render fetches the user's timeline and lays out the current period.
func (vm *ViewModel) Render(ctx context.Context) (View, error) {
	idx, err := vm.source.Timeline(ctx, vm.userID)
	if err != nil {
		return View{}, fmt.Errorf("load timeline: %w", err)
	}

	period := vm.Period()
	stats, err := aggregate.ComputeStats(idx, period)
	if err != nil {
		return View{}, err
	}
	title, err := vm.title(period)
	if err != nil {
		return View{}, err
	}

	today := vm.today()
	v := View{
		Mode:          vm.mode,
		Title:         title,
		Period:        period,
		Today:         today,
		Stats:         stats,
		Streak:        aggregate.Streak(idx, vm.now().In(vm.loc)),
		LongestStreak: aggregate.LongestStreak(idx),
	}

	start := vm.weekOf(period.Start)
	end, err := datekey.AddDays(vm.weekOf(period.End), 6)
	if err != nil {
		return View{}, err
	}
	grid, err := aggregate.Period{Start: start, End: end}.Keys()
	if err != nil {
		return View{}, err
	}
	for i := 0; i < len(grid); i += 7 {
		week := make([]Cell, 0, 7)
		for _, key := range grid[i : i+7] {
			week = append(week, vm.cell(idx, key, period, today))
		}
		v.Weeks = append(v.Weeks, week)
	}

	if vm.selected != "" {
		v.Selected = &DayDetail{
			Date:    vm.selected,
			Events:  idx.EventsOn(vm.selected),
			Records: idx.RecordsOn(vm.selected),
			Diary:   idx.DiaryOn(vm.selected),
			Status:  aggregate.DayStatus(idx, vm.selected),
		}
	}
	return v, nil
}

func (vm *ViewModel) cell(idx *timeline.Index, key string, period aggregate.Period, today string) Cell {
	t, _ := datekey.Parse(key, time.UTC)
	c := Cell{
		Date:        key,
		Day:         t.Day(),
		InPeriod:    period.Contains(key),
		IsToday:     key == today,
		IsSelected:  key == vm.selected,
		Events:      idx.EventsOn(key),
		RecordCount: len(idx.RecordsOn(key)),
		HasDiary:    idx.DiaryOn(key) != nil,
		Status:      aggregate.DayStatus(idx, key),
	}
	if r, ok := idx.LatestRecordOn(key); ok {
		c.Latest = &r
	}
	return c
}

func (vm *ViewModel) title(p aggregate.Period) (string, error) {
	if vm.mode == ModeMonth {
		return datekey.MonthLabel(p.Start)
	}
	from, err := datekey.ShortLabel(p.Start)
	if err != nil {
		return "", err
	}
	to, err := datekey.ShortLabel(p.End)
	if err != nil {
		return "", err
	}
	return from + " - " + to, nil
}
