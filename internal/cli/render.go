package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/aggregate"
	"github.com/dmitrijs2005/healthcal/internal/calendar"
	"github.com/dmitrijs2005/healthcal/internal/datekey"
	"github.com/dmitrijs2005/healthcal/internal/models"
	"github.com/fatih/color"
)

// painter colors text only when enabled, whatever color.NoColor says, so
// output written to buffers stays plain.
type painter struct {
	enabled bool
}

func (p painter) paint(s string, attrs ...color.Attribute) string {
	if !p.enabled || len(attrs) == 0 {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

var statusAttrs = map[aggregate.Status][]color.Attribute{
	aggregate.StatusGood:    {color.FgBlack, color.BgGreen},
	aggregate.StatusWarning: {color.FgBlack, color.BgYellow},
	aggregate.StatusDanger:  {color.FgHiWhite, color.BgRed},
}

var categoryAttrs = map[string]color.Attribute{
	"red":     color.FgRed,
	"magenta": color.FgMagenta,
	"green":   color.FgGreen,
	"cyan":    color.FgCyan,
	"blue":    color.FgBlue,
	"yellow":  color.FgYellow,
	"white":   color.FgWhite,
}

const (
	minCellWidth = 6
	maxCellWidth = 14
)

func (a *App) cellWidth() int {
	w := (a.width - 1) / 7
	switch {
	case w < minCellWidth:
		return minCellWidth
	case w > maxCellWidth:
		return maxCellWidth
	}
	return w
}

// cellText lays out one day: the day number (bracketed when selected,
// starred when today), one symbol per event, r for records and d for a
// diary entry.
func cellText(c calendar.Cell, width int) string {
	var b strings.Builder
	switch {
	case c.IsSelected:
		fmt.Fprintf(&b, "[%2d]", c.Day)
	case c.IsToday:
		fmt.Fprintf(&b, "*%2d ", c.Day)
	default:
		fmt.Fprintf(&b, " %2d ", c.Day)
	}
	for _, e := range c.Events {
		b.WriteString(e.Category.Style().Symbol)
	}
	if c.RecordCount > 0 {
		b.WriteByte('r')
	}
	if c.HasDiary {
		b.WriteByte('d')
	}

	s := b.String()
	if len(s) > width {
		s = s[:width-1] + ">"
	}
	return s + strings.Repeat(" ", width-len(s))
}

func (a *App) paintCell(c calendar.Cell, text string) string {
	if !c.InPeriod {
		return a.paint.paint(text, color.FgHiBlack)
	}
	return a.paint.paint(text, statusAttrs[c.Status]...)
}

func (a *App) writeView(v calendar.View) {
	cw := a.cellWidth()
	a.printf("%s\n", a.paint.paint(v.Title, color.Bold))

	if len(v.Weeks) > 0 && len(v.Weeks[0]) > 0 {
		header := make([]string, 0, 7)
		for _, c := range v.Weeks[0] {
			wd, _ := datekey.Weekday(c.Date)
			name := wd.String()[:3]
			header = append(header, name+strings.Repeat(" ", cw-len(name)))
		}
		a.printf("%s\n", strings.Join(header, " "))
	}
	for _, week := range v.Weeks {
		cells := make([]string, 0, len(week))
		for _, c := range week {
			cells = append(cells, a.paintCell(c, cellText(c, cw)))
		}
		a.printf("%s\n", strings.Join(cells, " "))
	}

	a.printf("%s %s %s no-data   streak: %d\n",
		a.paint.paint(" good ", statusAttrs[aggregate.StatusGood]...),
		a.paint.paint(" warning ", statusAttrs[aggregate.StatusWarning]...),
		a.paint.paint(" danger ", statusAttrs[aggregate.StatusDanger]...),
		v.Streak)

	if d := v.Selected; d != nil {
		a.printf("Selected %s: %d event(s), %d record(s)%s\n",
			d.Date, len(d.Events), len(d.Records), diaryMark(d.Diary))
	}
}

func diaryMark(d *models.DiaryEntry) string {
	if d == nil {
		return ""
	}
	return ", diary"
}

// Render prints the current period.
func (a *App) Render(ctx context.Context) error {
	v, err := a.view.Render(ctx)
	if err != nil {
		return err
	}
	a.writeView(v)
	return nil
}

func (a *App) SetMode(ctx context.Context, mode string) error {
	m, err := calendar.ParseMode(mode)
	if err != nil {
		return err
	}
	if err := a.view.SetMode(m); err != nil {
		return err
	}
	return a.Render(ctx)
}

func (a *App) Prev(ctx context.Context) error {
	if err := a.view.PreviousPeriod(); err != nil {
		return err
	}
	return a.Render(ctx)
}

func (a *App) Next(ctx context.Context) error {
	if err := a.view.NextPeriod(); err != nil {
		return err
	}
	return a.Render(ctx)
}

func (a *App) Today(ctx context.Context) error {
	a.view.GoToToday()
	return a.Render(ctx)
}

func (a *App) Select(ctx context.Context, date string) error {
	if err := a.view.SelectDate(date); err != nil {
		return err
	}
	return a.Render(ctx)
}

// Show prints everything stored on the selected day.
func (a *App) Show(ctx context.Context) error {
	v, err := a.view.Render(ctx)
	if err != nil {
		return err
	}
	d := v.Selected
	if d == nil {
		printlnFn("No day selected.")
		return nil
	}

	a.printf("%s  status: %s\n", d.Date, a.paint.paint(string(d.Status), statusAttrs[d.Status]...))
	if len(d.Events) == 0 {
		a.printf("Events: none\n")
	}
	for _, e := range d.Events {
		a.printf("  %s\n", a.eventLine(e))
	}
	if len(d.Records) == 0 {
		a.printf("Records: none\n")
	}
	for _, r := range d.Records {
		a.printf("  %s\n", recordLine(r))
	}
	if d.Diary == nil {
		a.printf("Diary: none\n")
	} else {
		a.writeDiary(*d.Diary)
	}
	return nil
}

func (a *App) eventLine(e models.Event) string {
	style := e.Category.Style()
	when := "all day"
	if !e.IsAllDay {
		when = e.StartTime
		if e.EndTime != "" {
			when += "-" + e.EndTime
		}
	}
	line := fmt.Sprintf("%s %-11s %s [%s]", style.Symbol, when, e.Title, style.Label)
	if e.Group.Grouped() {
		line += fmt.Sprintf(" (%s until %s)", e.Repeat, e.RepeatEndDate)
	}
	if len(e.Tags) > 0 {
		line += " #" + strings.Join(e.Tags, " #")
	}
	line += "  id=" + e.ID
	return a.paint.paint(line, categoryAttrs[style.Color])
}

func recordLine(r models.HealthRecord) string {
	var parts []string
	if r.Weight != nil {
		parts = append(parts, fmt.Sprintf("weight %.1f kg", *r.Weight))
	}
	if bp := r.BloodPressure; bp != nil {
		s := fmt.Sprintf("bp %d/%d", bp.Systolic, bp.Diastolic)
		if bp.HeartRate != nil {
			s += fmt.Sprintf(" pulse %d", *bp.HeartRate)
		}
		parts = append(parts, s)
	}
	if r.BloodSugar != nil {
		parts = append(parts, fmt.Sprintf("sugar %.0f mg/dL", *r.BloodSugar))
	}
	if r.Steps != nil {
		parts = append(parts, fmt.Sprintf("%d steps", *r.Steps))
	}
	if r.Calories != nil {
		parts = append(parts, fmt.Sprintf("%d kcal", *r.Calories))
	}
	if r.WalkingTime != nil {
		parts = append(parts, fmt.Sprintf("walked %d min", *r.WalkingTime))
	}
	line := strings.Join(parts, ", ")
	if r.Notes != "" {
		line += " (" + r.Notes + ")"
	}
	return line + "  id=" + r.ID
}

func (a *App) writeDiary(d models.DiaryEntry) {
	a.printf("Diary (%s):\n", d.Mood)
	if d.Content != "" {
		for _, l := range strings.Split(d.Content, "\n") {
			a.printf("  %s\n", l)
		}
	}
	if len(d.Tags) > 0 {
		a.printf("  tags: %s\n", strings.Join(d.Tags, ", "))
	}
	if len(d.Activities) > 0 {
		a.printf("  activities: %s\n", strings.Join(d.Activities, ", "))
	}
	if len(d.Photos) > 0 {
		a.printf("  photos: %d\n", len(d.Photos))
	}
}

// Stats prints the aggregates of the visible period.
func (a *App) Stats(ctx context.Context) error {
	v, err := a.view.Render(ctx)
	if err != nil {
		return err
	}
	s := v.Stats
	a.printf("%s (%s to %s)\n", v.Title, s.Period.Start, s.Period.End)
	a.printf("  records:        %d on %d day(s)\n", s.Count, s.DaysWithRecords)
	a.printf("  weight:         %s kg\n", s.Weight)
	a.printf("  blood pressure: %s/%s mmHg\n", s.Systolic, s.Diastolic)
	a.printf("  heart rate:     %s bpm\n", s.HeartRate)
	a.printf("  blood sugar:    %s mg/dL\n", s.BloodSugar)
	if s.StepSamples > 0 {
		a.printf("  steps:          %d total over %d record(s)\n", s.Steps, s.StepSamples)
	} else {
		a.printf("  steps:          n/a\n")
	}
	a.printf("  events: %d, diary entries: %d\n", s.EventCount, s.DiaryCount)
	return nil
}

func (a *App) Streak(ctx context.Context) error {
	v, err := a.view.Render(ctx)
	if err != nil {
		return err
	}
	a.printf("Current streak: %s, longest: %s\n", days(v.Streak), days(v.LongestStreak))
	return nil
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// dateOrSelected resolves a typed date, defaulting to the selected day.
func (a *App) dateOrSelected(s string) (string, error) {
	if s == "" {
		return a.view.Selected(), nil
	}
	if _, err := datekey.Parse(s, time.UTC); err != nil {
		return "", err
	}
	return s, nil
}
