package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/models"
)

type DiaryRepository struct {
	h handle
}

func (r *DiaryRepository) Create(ctx context.Context, e *models.DiaryEntry) error {
	return r.h.write(ctx, func(d *data) error {
		if _, ok := d.diaries[e.ID]; ok {
			return fmt.Errorf("diary entry %s already exists", e.ID)
		}
		d.diaries[e.ID] = row[models.DiaryEntry]{v: e.Clone(), seq: d.next()}
		return nil
	})
}

// Update moves the entry to the end of the write order so it wins its day.
func (r *DiaryRepository) Update(ctx context.Context, e *models.DiaryEntry) error {
	return r.h.write(ctx, func(d *data) error {
		cur, ok := d.diaries[e.ID]
		if !ok || cur.v.UserID != e.UserID {
			return fmt.Errorf("diary entry %s: %w", e.ID, common.ErrNotFound)
		}
		next := e.Clone()
		next.CreatedAt = cur.v.CreatedAt
		next.Date = cur.v.Date
		d.diaries[e.ID] = row[models.DiaryEntry]{v: next, seq: d.next()}
		return nil
	})
}

func (r *DiaryRepository) Delete(ctx context.Context, userID, id string) error {
	return r.h.write(ctx, func(d *data) error {
		cur, ok := d.diaries[id]
		if !ok || cur.v.UserID != userID {
			return fmt.Errorf("diary entry %s: %w", id, common.ErrNotFound)
		}
		delete(d.diaries, id)
		return nil
	})
}

// FindByDate returns the last written entry of the day.
func (r *DiaryRepository) FindByDate(ctx context.Context, userID, date string) (*models.DiaryEntry, error) {
	var (
		out   models.DiaryEntry
		found bool
		best  uint64
	)
	err := r.h.read(ctx, func(d *data) error {
		for _, cur := range d.diaries {
			if cur.v.UserID == userID && cur.v.Date == date && (!found || cur.seq > best) {
				out, best, found = cur.v.Clone(), cur.seq, true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("diary %s: %w", date, common.ErrNotFound)
	}
	return &out, nil
}

func (r *DiaryRepository) ListByUser(ctx context.Context, userID string) ([]models.DiaryEntry, error) {
	var out []models.DiaryEntry
	err := r.h.read(ctx, func(d *data) error {
		out = sorted(d.diaries,
			func(e models.DiaryEntry) bool { return e.UserID == userID },
			models.DiaryEntry.Clone,
			func(a, b models.DiaryEntry) int { return strings.Compare(a.Date, b.Date) })
		return nil
	})
	return out, err
}
