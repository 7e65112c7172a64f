package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/models"
)

type EventRepository struct {
	h handle
}

func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	return r.h.write(ctx, func(d *data) error {
		if _, ok := d.events[e.ID]; ok {
			return fmt.Errorf("event %s already exists", e.ID)
		}
		d.events[e.ID] = row[models.Event]{v: e.Clone(), seq: d.next()}
		return nil
	})
}

func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	return r.h.write(ctx, func(d *data) error {
		cur, ok := d.events[e.ID]
		if !ok || cur.v.UserID != e.UserID {
			return fmt.Errorf("event %s: %w", e.ID, common.ErrNotFound)
		}
		next := e.Clone()
		next.CreatedAt = cur.v.CreatedAt
		d.events[e.ID] = row[models.Event]{v: next, seq: cur.seq}
		return nil
	})
}

func (r *EventRepository) Delete(ctx context.Context, userID, id string) error {
	return r.h.write(ctx, func(d *data) error {
		cur, ok := d.events[id]
		if !ok || cur.v.UserID != userID {
			return fmt.Errorf("event %s: %w", id, common.ErrNotFound)
		}
		delete(d.events, id)
		return nil
	})
}

func (r *EventRepository) Get(ctx context.Context, userID, id string) (*models.Event, error) {
	var out models.Event
	err := r.h.read(ctx, func(d *data) error {
		cur, ok := d.events[id]
		if !ok || cur.v.UserID != userID {
			return fmt.Errorf("event %s: %w", id, common.ErrNotFound)
		}
		out = cur.v.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUser orders by date, then start time, then insertion.
func (r *EventRepository) ListByUser(ctx context.Context, userID string) ([]models.Event, error) {
	var out []models.Event
	err := r.h.read(ctx, func(d *data) error {
		out = sorted(d.events,
			func(e models.Event) bool { return e.UserID == userID },
			models.Event.Clone,
			func(a, b models.Event) int {
				if c := strings.Compare(a.Date, b.Date); c != 0 {
					return c
				}
				return strings.Compare(a.StartTime, b.StartTime)
			})
		return nil
	})
	return out, err
}
