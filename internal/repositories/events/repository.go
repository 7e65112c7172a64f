package events

import (
	"context"

	"github.com/dmitrijs2005/healthcal/internal/models"
)

// Repository persists calendar events. Mutations of a missing row return
// common.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (*models.Event, error)
	ListByUser(ctx context.Context, userID string) ([]models.Event, error)
}
