package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/datekey"
	"github.com/dmitrijs2005/healthcal/internal/logging"
	"github.com/dmitrijs2005/healthcal/internal/models"
	"github.com/dmitrijs2005/healthcal/internal/repositories/repomanager"
	"github.com/google/uuid"
)

type DiaryService struct {
	repos repomanager.Manager
	log   logging.Logger
	now   func() time.Time
	newID func() string
}

func NewDiaryService(repos repomanager.Manager, log logging.Logger) *DiaryService {
	return &DiaryService{
		repos: repos,
		log:   log.With("component", "diary"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func validateEntry(e models.DiaryEntry) error {
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	if !datekey.Valid(e.Date) {
		return fmt.Errorf("%w: malformed date %q", common.ErrValidation, e.Date)
	}
	if !e.Mood.Valid() {
		return fmt.Errorf("%w: unknown mood %q", common.ErrValidation, e.Mood)
	}
	return nil
}

// Save writes the user's entry for entry.Date, replacing the content of an
// existing one so a day never holds two entries written through here.
func (s *DiaryService) Save(ctx context.Context, entry models.DiaryEntry) (models.DiaryEntry, error) {
	if err := validateEntry(entry); err != nil {
		return models.DiaryEntry{}, err
	}
	entry.Tags = models.NormalizeTags(entry.Tags)
	entry.Activities = models.NormalizeTags(entry.Activities)
	now := s.now()

	var created bool
	err := s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		existing, err := repos.Diaries().FindByDate(ctx, entry.UserID, entry.Date)
		switch {
		case errors.Is(err, common.ErrNotFound):
			entry.ID = s.newID()
			entry.CreatedAt, entry.UpdatedAt = now, now
			created = true
			return repos.Diaries().Create(ctx, &entry)
		case err != nil:
			return err
		}
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		entry.UpdatedAt = now
		if entry.Photos == nil {
			entry.Photos = existing.Photos
		}
		return repos.Diaries().Update(ctx, &entry)
	})
	if err != nil {
		s.log.Error(ctx, "save diary failed", "user", entry.UserID, "date", entry.Date, "err", err)
		return models.DiaryEntry{}, fmt.Errorf("save diary %s: %w", entry.Date, err)
	}
	s.log.Info(ctx, "diary saved", "user", entry.UserID, "date", entry.Date, "created", created)
	return entry, nil
}

// Get returns the entry of date, or ErrNotFound.
func (s *DiaryService) Get(ctx context.Context, userID, date string) (*models.DiaryEntry, error) {
	return s.repos.Diaries().FindByDate(ctx, userID, date)
}

func (s *DiaryService) Delete(ctx context.Context, userID, date string) error {
	err := s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		existing, err := repos.Diaries().FindByDate(ctx, userID, date)
		if err != nil {
			return err
		}
		return repos.Diaries().Delete(ctx, userID, existing.ID)
	})
	if err != nil {
		return fmt.Errorf("delete diary %s: %w", date, err)
	}
	s.log.Info(ctx, "diary deleted", "user", userID, "date", date)
	return nil
}

// AttachPhoto appends an uploaded object key to the entry of date.
func (s *DiaryService) AttachPhoto(ctx context.Context, userID, date, key string) error {
	err := s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		existing, err := repos.Diaries().FindByDate(ctx, userID, date)
		if err != nil {
			return err
		}
		existing.Photos = append(existing.Photos, key)
		existing.UpdatedAt = s.now()
		return repos.Diaries().Update(ctx, existing)
	})
	if err != nil {
		return fmt.Errorf("attach photo to %s: %w", date, err)
	}
	s.log.Info(ctx, "photo attached", "user", userID, "date", date, "key", key)
	return nil
}

func (s *DiaryService) List(ctx context.Context, userID string) ([]models.DiaryEntry, error) {
	return s.repos.Diaries().ListByUser(ctx, userID)
}
