package memory

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/models"
)

type RecordRepository struct {
	h handle
}

func (r *RecordRepository) Create(ctx context.Context, rec *models.HealthRecord) error {
	return r.h.write(ctx, func(d *data) error {
		if _, ok := d.records[rec.ID]; ok {
			return fmt.Errorf("record %s already exists", rec.ID)
		}
		d.records[rec.ID] = row[models.HealthRecord]{v: rec.Clone(), seq: d.next()}
		return nil
	})
}

func (r *RecordRepository) Update(ctx context.Context, rec *models.HealthRecord) error {
	return r.h.write(ctx, func(d *data) error {
		cur, ok := d.records[rec.ID]
		if !ok || cur.v.UserID != rec.UserID {
			return fmt.Errorf("record %s: %w", rec.ID, common.ErrNotFound)
		}
		next := rec.Clone()
		next.CreatedAt = cur.v.CreatedAt
		d.records[rec.ID] = row[models.HealthRecord]{v: next, seq: cur.seq}
		return nil
	})
}

func (r *RecordRepository) Delete(ctx context.Context, userID, id string) error {
	return r.h.write(ctx, func(d *data) error {
		cur, ok := d.records[id]
		if !ok || cur.v.UserID != userID {
			return fmt.Errorf("record %s: %w", id, common.ErrNotFound)
		}
		delete(d.records, id)
		return nil
	})
}

func (r *RecordRepository) Get(ctx context.Context, userID, id string) (*models.HealthRecord, error) {
	var out models.HealthRecord
	err := r.h.read(ctx, func(d *data) error {
		cur, ok := d.records[id]
		if !ok || cur.v.UserID != userID {
			return fmt.Errorf("record %s: %w", id, common.ErrNotFound)
		}
		out = cur.v.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUser keeps insertion order.
func (r *RecordRepository) ListByUser(ctx context.Context, userID string) ([]models.HealthRecord, error) {
	var out []models.HealthRecord
	err := r.h.read(ctx, func(d *data) error {
		out = sorted(d.records,
			func(rec models.HealthRecord) bool { return rec.UserID == userID },
			models.HealthRecord.Clone,
			func(a, b models.HealthRecord) int { return 0 })
		return nil
	})
	return out, err
}
