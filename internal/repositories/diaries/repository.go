package diaries

import (
	"context"

	"github.com/dmitrijs2005/healthcal/internal/models"
)

// Repository persists diary entries. FindByDate returns common.ErrNotFound
// when the user wrote nothing that day.
type Repository interface {
	Create(ctx context.Context, d *models.DiaryEntry) error
	Update(ctx context.Context, d *models.DiaryEntry) error
	Delete(ctx context.Context, userID, id string) error
	FindByDate(ctx context.Context, userID, date string) (*models.DiaryEntry, error)
	ListByUser(ctx context.Context, userID string) ([]models.DiaryEntry, error)
}
