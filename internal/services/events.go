// Package services implements the calendar's use cases on top of the
// repositories: every mutation that touches more than one row runs inside
// one repomanager transaction.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/eventgroup"
	"github.com/dmitrijs2005/healthcal/internal/logging"
	"github.com/dmitrijs2005/healthcal/internal/models"
	"github.com/dmitrijs2005/healthcal/internal/recurrence"
	"github.com/dmitrijs2005/healthcal/internal/repositories/repomanager"
)

type EventService struct {
	repos    repomanager.Manager
	expander recurrence.Expander
	log      logging.Logger
	now      func() time.Time
}

func NewEventService(repos repomanager.Manager, expander recurrence.Expander, log logging.Logger) *EventService {
	return &EventService{
		repos:    repos,
		expander: expander,
		log:      log.With("component", "events"),
		now:      time.Now,
	}
}

// Create expands anchor into its series and stores every occurrence, or
// none of them.
func (s *EventService) Create(ctx context.Context, anchor models.Event) ([]models.Event, error) {
	now := s.now()
	anchor.Title = strings.TrimSpace(anchor.Title)
	anchor.Tags = models.NormalizeTags(anchor.Tags)
	if anchor.IsAllDay {
		anchor.StartTime, anchor.EndTime = "", ""
	}
	anchor.CreatedAt, anchor.UpdatedAt = now, now

	if err := models.ValidateEvent(anchor); err != nil {
		return nil, err
	}
	series, err := s.expander.Expand(anchor)
	if err != nil {
		return nil, err
	}

	err = s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		for i := range series {
			if err := repos.Events().Create(ctx, &series[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "create event failed", "user", anchor.UserID, "err", err)
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.Info(ctx, "event created", "user", anchor.UserID, "repeat", series[0].Repeat,
		"group", series[0].Group.String(), "occurrences", len(series))
	return series, nil
}

func (s *EventService) List(ctx context.Context, userID string) ([]models.Event, error) {
	return s.repos.Events().ListByUser(ctx, userID)
}

func (s *EventService) Get(ctx context.Context, userID, id string) (*models.Event, error) {
	return s.repos.Events().Get(ctx, userID, id)
}

// UpdateSingle edits one occurrence and detaches it from its series.
func (s *EventService) UpdateSingle(ctx context.Context, userID, id string, patch models.EventPatch) (models.Event, error) {
	var updated models.Event
	err := s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		all, err := repos.Events().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		updated, err = eventgroup.UpdateSingle(all, id, patch, s.now())
		if err != nil {
			return err
		}
		return repos.Events().Update(ctx, &updated)
	})
	if err != nil {
		s.log.Error(ctx, "update event failed", "user", userID, "id", id, "err", err)
		return models.Event{}, fmt.Errorf("update event %s: %w", id, err)
	}
	s.log.Info(ctx, "event detached and updated", "user", userID, "id", id)
	return updated, nil
}

// UpdateGroup applies patch to every occurrence of the series.
func (s *EventService) UpdateGroup(ctx context.Context, userID, groupID string, patch models.EventPatch) ([]models.Event, error) {
	var updated []models.Event
	err := s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		all, err := repos.Events().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		updated, err = eventgroup.UpdateGroup(all, groupID, patch, s.now())
		if err != nil {
			return err
		}
		for i := range updated {
			if err := repos.Events().Update(ctx, &updated[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "update group failed", "user", userID, "group", groupID, "err", err)
		return nil, fmt.Errorf("update group %s: %w", groupID, err)
	}
	s.log.Info(ctx, "group updated", "user", userID, "group", groupID, "occurrences", len(updated))
	return updated, nil
}

// DeleteSingle removes one event. Siblings stay in their series.
func (s *EventService) DeleteSingle(ctx context.Context, userID, id string) error {
	if err := s.repos.Events().Delete(ctx, userID, id); err != nil {
		s.log.Error(ctx, "delete event failed", "user", userID, "id", id, "err", err)
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	s.log.Info(ctx, "event deleted", "user", userID, "id", id)
	return nil
}

// DeleteGroup removes every occurrence of a series and returns how many.
func (s *EventService) DeleteGroup(ctx context.Context, userID, groupID string) (int, error) {
	var n int
	err := s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		all, err := repos.Events().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		ids, err := eventgroup.DeleteGroup(all, groupID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := repos.Events().Delete(ctx, userID, id); err != nil {
				return err
			}
		}
		n = len(ids)
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "delete group failed", "user", userID, "group", groupID, "err", err)
		return 0, fmt.Errorf("delete group %s: %w", groupID, err)
	}
	s.log.Info(ctx, "group deleted", "user", userID, "group", groupID, "occurrences", n)
	return n, nil
}
