package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

type ActivityStore interface {
	InsertActivity(ctx context.Context, a *models.ActivityRef) error
	ListActivities(ctx context.Context, includeDeleted bool) ([]models.ActivityRef, error)
	SoftDeleteActivity(ctx context.Context, id string, at time.Time) (bool, error)
}

type ActivityService struct {
	store       ActivityStore
	now         func() time.Time
	idGenerator func() string
}

func NewActivityService(store ActivityStore) *ActivityService {
	return &ActivityService{
		store:       store,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: uuid.NewString,
	}
}

func (s *ActivityService) Create(ctx context.Context, name, color, icon string) (*models.ActivityRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("activity name required")
	}
	a := &models.ActivityRef{
		ID:        s.idGenerator(),
		Name:      name,
		Color:     strings.TrimSpace(color),
		Icon:      strings.TrimSpace(icon),
		CreatedAt: s.now(),
	}
	if err := s.store.InsertActivity(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ActivityService) List(ctx context.Context, includeDeleted bool) ([]models.ActivityRef, error) {
	return s.store.ListActivities(ctx, includeDeleted)
}

// Delete soft-deletes an activity; its past mood links are kept.
func (s *ActivityService) Delete(ctx context.Context, id string) error {
	ok, err := s.store.SoftDeleteActivity(ctx, id, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("activity not found")
	}
	return nil
}
