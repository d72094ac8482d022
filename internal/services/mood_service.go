package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

// MoodStore abstracts persistence needed by MoodService.
type MoodStore interface {
	InsertMood(ctx context.Context, rec *models.MoodRecord) error
	ListMoods(ctx context.Context, window models.TimeRange) ([]models.MoodRecord, error)
	GetActivities(ctx context.Context, ids []string) ([]models.ActivityRef, error)
}

type MoodService struct {
	store       MoodStore
	scale       MoodScale
	now         func() time.Time
	idGenerator func() string
}

func NewMoodService(store MoodStore, scale MoodScale) *MoodService {
	return &MoodService{
		store:       store,
		scale:       scale,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: uuid.NewString,
	}
}

func (s *MoodService) Scale() MoodScale { return s.scale }

// Log validates and stores a mood rating tagged with existing, non-deleted
// activities. Duplicate activity ids are collapsed.
func (s *MoodService) Log(ctx context.Context, rating int, activityIDs []string, note string) (*models.MoodRecord, error) {
	if s.store == nil {
		return nil, errors.New("mood service store is nil")
	}
	if err := s.scale.Validate(rating); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(activityIDs))
	seen := map[string]struct{}{}
	for _, id := range activityIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	var activities []models.ActivityRef
	if len(ids) > 0 {
		found, err := s.store.GetActivities(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]models.ActivityRef, len(found))
		for _, a := range found {
			byID[a.ID] = a
		}
		for _, id := range ids {
			a, ok := byID[id]
			if !ok || a.Deleted() {
				return nil, NewValidationError(fmt.Sprintf("activity %q not found", id))
			}
			activities = append(activities, a)
		}
	}
	rec := &models.MoodRecord{
		ID:         s.idGenerator(),
		Rating:     rating,
		Activities: activities,
		RecordedAt: s.now(),
		Note:       strings.TrimSpace(note),
	}
	if err := s.store.InsertMood(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *MoodService) Records(ctx context.Context, window models.TimeRange) ([]models.MoodRecord, error) {
	return s.store.ListMoods(ctx, window)
}

func (s *MoodService) Stats(ctx context.Context, window models.TimeRange) (SeriesStats, error) {
	records, err := s.store.ListMoods(ctx, window)
	if err != nil {
		return SeriesStats{}, err
	}
	return Summarize(MoodSeries, MoodPoints(records))
}

func (s *MoodService) Correlations(ctx context.Context, window models.TimeRange) ([]ActivityCorrelation, error) {
	records, err := s.store.ListMoods(ctx, window)
	if err != nil {
		return nil, err
	}
	return CorrelateActivities(records), nil
}
