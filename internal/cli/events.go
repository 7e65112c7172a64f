package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/models"
)

func categoryPrompt() string {
	names := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		names = append(names, string(c))
	}
	return "Category (" + strings.Join(names, ", ") + ")"
}

// AddEvent prompts for an event and stores its whole series.
func (a *App) AddEvent(ctx context.Context) error {
	e := models.Event{UserID: a.userID}
	var err error

	if e.Title, err = GetSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	date, err := GetWithDefault(a.reader, "Date", a.view.Selected(), a.out)
	if err != nil {
		return err
	}
	if e.Date, err = a.dateOrSelected(date); err != nil {
		return err
	}
	cat, err := GetWithDefault(a.reader, categoryPrompt(), string(models.CategoryOther), a.out)
	if err != nil {
		return err
	}
	e.Category = models.Category(strings.ToLower(cat))

	if e.IsAllDay, err = GetYesNo(a.reader, "All day?", false, a.out); err != nil {
		return err
	}
	if !e.IsAllDay {
		if e.StartTime, err = GetSimpleText(a.reader, "Start time (HH:MM)", a.out); err != nil {
			return err
		}
		if e.EndTime, err = GetSimpleText(a.reader, "End time (HH:MM, optional)", a.out); err != nil {
			return err
		}
	}

	rep, err := GetWithDefault(a.reader, "Repeat (none, daily, weekly, monthly)", string(models.RepeatNone), a.out)
	if err != nil {
		return err
	}
	if e.Repeat, err = models.ParseRepeat(rep); err != nil {
		return err
	}
	if e.Repeat != models.RepeatNone {
		if e.RepeatEndDate, err = GetSimpleText(a.reader, "Repeat until (yyyy-mm-dd, blank for the default span)", a.out); err != nil {
			return err
		}
	}

	tags, err := GetSimpleText(a.reader, "Tags (comma separated)", a.out)
	if err != nil {
		return err
	}
	e.Tags = splitList(tags)
	if e.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}

	series, err := a.events.Create(ctx, e)
	if err != nil {
		return err
	}
	if len(series) == 1 {
		a.printf("Event added on %s.\n", series[0].Date)
	} else {
		a.printf("Added %d occurrences from %s to %s.\n", len(series), series[0].Date, series[len(series)-1].Date)
	}
	return a.Render(ctx)
}

// scope asks whether a change applies to one occurrence or the whole
// series; standalone events never ask. An explicit "one" or "all" argument
// skips the question.
func (a *App) scope(e *models.Event, args []string, verb string) (bool, error) {
	if !e.Group.Grouped() {
		return false, nil
	}
	if len(args) > 1 {
		switch strings.ToLower(args[1]) {
		case "all", "series":
			return true, nil
		case "one", "single":
			return false, nil
		}
	}
	ans, err := GetWithDefault(a.reader, fmt.Sprintf("%s (o)ne occurrence or (a)ll in the series?", verb), "o", a.out)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(ans) {
	case "a", "all":
		return true, nil
	case "o", "one":
		return false, nil
	}
	return false, fmt.Errorf("%w: scope %q must be one or all", common.ErrValidation, ans)
}

func (a *App) eventArg(ctx context.Context, args []string, usage string) (*models.Event, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: usage: %s", common.ErrValidation, usage)
	}
	return a.events.Get(ctx, a.userID, args[0])
}

// promptPatch asks for every editable field; blank answers keep the
// current value.
func (a *App) promptPatch(e *models.Event, withDate bool) (models.EventPatch, error) {
	var p models.EventPatch
	text := func(prompt, cur string) (*string, error) {
		s, err := GetSimpleText(a.reader, fmt.Sprintf("%s [%s]", prompt, cur), a.out)
		if err != nil || s == "" {
			return nil, err
		}
		return &s, nil
	}

	var err error
	if p.Title, err = text("Title", e.Title); err != nil {
		return p, err
	}
	if withDate {
		if p.Date, err = text("Date", e.Date); err != nil {
			return p, err
		}
	}
	cat, err := text(categoryPrompt(), string(e.Category))
	if err != nil {
		return p, err
	}
	if cat != nil {
		c := models.Category(strings.ToLower(*cat))
		p.Category = &c
	}

	allDay, err := GetYesNo(a.reader, "All day?", e.IsAllDay, a.out)
	if err != nil {
		return p, err
	}
	if allDay != e.IsAllDay {
		p.IsAllDay = &allDay
	}
	if !allDay {
		if p.StartTime, err = text("Start time", e.StartTime); err != nil {
			return p, err
		}
		if p.EndTime, err = text("End time", e.EndTime); err != nil {
			return p, err
		}
	}

	tags, err := text("Tags", strings.Join(e.Tags, ", "))
	if err != nil {
		return p, err
	}
	if tags != nil {
		list := splitList(*tags)
		p.Tags = &list
	}
	if p.Description, err = text("Description", e.Description); err != nil {
		return p, err
	}
	return p, nil
}

// EditEvent edits one occurrence (detaching it from its series) or the
// whole series. Usage: editevent <id> [one|all].
func (a *App) EditEvent(ctx context.Context, args []string) error {
	e, err := a.eventArg(ctx, args, "editevent <id> [one|all]")
	if err != nil {
		return err
	}
	all, err := a.scope(e, args, "Edit")
	if err != nil {
		return err
	}
	patch, err := a.promptPatch(e, !all)
	if err != nil {
		return err
	}
	if patch.Empty() {
		printlnFn("Nothing changed.")
		return nil
	}

	if all {
		gid, _ := e.Group.GroupID()
		updated, err := a.events.UpdateGroup(ctx, a.userID, gid, patch)
		if err != nil {
			return err
		}
		a.printf("Updated %d occurrence(s).\n", len(updated))
	} else {
		updated, err := a.events.UpdateSingle(ctx, a.userID, e.ID, patch)
		if err != nil {
			return err
		}
		if e.Group.Grouped() {
			a.printf("Updated %s; it no longer repeats with its series.\n", updated.Date)
		} else {
			a.printf("Updated %s.\n", updated.Date)
		}
	}
	return a.Render(ctx)
}

// DeleteEvent removes one occurrence or the whole series.
// Usage: deleteevent <id> [one|all].
func (a *App) DeleteEvent(ctx context.Context, args []string) error {
	e, err := a.eventArg(ctx, args, "deleteevent <id> [one|all]")
	if err != nil {
		return err
	}
	all, err := a.scope(e, args, "Delete")
	if err != nil {
		return err
	}

	if all {
		gid, _ := e.Group.GroupID()
		n, err := a.events.DeleteGroup(ctx, a.userID, gid)
		if err != nil {
			return err
		}
		a.printf("Deleted %d occurrence(s).\n", n)
	} else {
		if err := a.events.DeleteSingle(ctx, a.userID, e.ID); err != nil {
			return err
		}
		a.printf("Deleted event on %s.\n", e.Date)
	}
	return a.Render(ctx)
}
