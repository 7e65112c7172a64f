package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/datekey"
)

const clockLayout = "15:04"

// ParseClock parses an HH:MM time of day.
func ParseClock(s string) (time.Time, error) {
	if len(s) != len(clockLayout) {
		return time.Time{}, fmt.Errorf("%w: time %q must be HH:MM", common.ErrValidation, s)
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q must be HH:MM", common.ErrValidation, s)
	}
	return t, nil
}

// ValidateEvent checks the fields every stored event must satisfy.
func ValidateEvent(e Event) error {
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if !datekey.Valid(e.Date) {
		return fmt.Errorf("%w: malformed date %q", common.ErrValidation, e.Date)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", common.ErrValidation, e.Category)
	}
	if _, err := ParseRepeat(string(e.Repeat)); err != nil {
		return err
	}
	if e.IsAllDay {
		return nil
	}
	start, err := ParseClock(e.StartTime)
	if err != nil {
		return err
	}
	if e.EndTime == "" {
		return nil
	}
	end, err := ParseClock(e.EndTime)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end time %s before start time %s", common.ErrValidation, e.EndTime, e.StartTime)
	}
	return nil
}
