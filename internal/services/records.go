package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/datekey"
	"github.com/dmitrijs2005/healthcal/internal/logging"
	"github.com/dmitrijs2005/healthcal/internal/models"
	"github.com/dmitrijs2005/healthcal/internal/repositories/repomanager"
	"github.com/google/uuid"
)

type RecordService struct {
	repos repomanager.Manager
	log   logging.Logger
	now   func() time.Time
	newID func() string
}

func NewRecordService(repos repomanager.Manager, log logging.Logger) *RecordService {
	return &RecordService{
		repos: repos,
		log:   log.With("component", "records"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create stores rec on the calendar day of rec.Date. Records without any
// metric are rejected.
func (s *RecordService) Create(ctx context.Context, rec models.HealthRecord) (models.HealthRecord, error) {
	if err := models.ValidateRecord(rec); err != nil {
		return models.HealthRecord{}, err
	}
	rec.ID = s.newID()
	rec.Date = datekey.Midnight(rec.Date)
	rec.CreatedAt = s.now()

	if err := s.repos.Records().Create(ctx, &rec); err != nil {
		s.log.Error(ctx, "create record failed", "user", rec.UserID, "err", err)
		return models.HealthRecord{}, fmt.Errorf("create record: %w", err)
	}
	s.log.Info(ctx, "record created", "user", rec.UserID, "id", rec.ID, "date", datekey.ToDateKey(rec.Date))
	return rec, nil
}

func (s *RecordService) Update(ctx context.Context, rec models.HealthRecord) error {
	if err := models.ValidateRecord(rec); err != nil {
		return err
	}
	rec.Date = datekey.Midnight(rec.Date)
	if err := s.repos.Records().Update(ctx, &rec); err != nil {
		s.log.Error(ctx, "update record failed", "user", rec.UserID, "id", rec.ID, "err", err)
		return fmt.Errorf("update record %s: %w", rec.ID, err)
	}
	s.log.Info(ctx, "record updated", "user", rec.UserID, "id", rec.ID)
	return nil
}

func (s *RecordService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repos.Records().Delete(ctx, userID, id); err != nil {
		s.log.Error(ctx, "delete record failed", "user", userID, "id", id, "err", err)
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	s.log.Info(ctx, "record deleted", "user", userID, "id", id)
	return nil
}

func (s *RecordService) List(ctx context.Context, userID string) ([]models.HealthRecord, error) {
	return s.repos.Records().ListByUser(ctx, userID)
}
