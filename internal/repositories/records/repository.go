package records

import (
	"context"

	"github.com/dmitrijs2005/healthcal/internal/models"
)

// Repository persists health records.
type Repository interface {
	Create(ctx context.Context, r *models.HealthRecord) error
	Update(ctx context.Context, r *models.HealthRecord) error
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (*models.HealthRecord, error)
	ListByUser(ctx context.Context, userID string) ([]models.HealthRecord, error)
}
