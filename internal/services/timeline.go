package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/healthcal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/healthcal/internal/timeline"
)

// TimelineService loads a user's three collections and indexes them. It is
// the calendar view model's data source.
type TimelineService struct {
	repos repomanager.Manager
}

func NewTimelineService(repos repomanager.Manager) *TimelineService {
	return &TimelineService{repos: repos}
}

// Timeline reads events, records and diary entries and builds a fresh index.
func (s *TimelineService) Timeline(ctx context.Context, userID string) (*timeline.Index, error) {
	events, err := s.repos.Events().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	records, err := s.repos.Records().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	diaries, err := s.repos.Diaries().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	return timeline.Build(events, records, diaries), nil
}
