package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

// stubStore is an in-memory implementation of every store interface the
// services depend on.
type stubStore struct {
	mu          sync.Mutex
	assessments []models.AssessmentRecord
	moods       []models.MoodRecord
	activities  map[string]models.ActivityRef
	schedules   map[string]models.ScheduleEntry
	markErr     map[string]error
	markCalls   int
}

func newStubStore() *stubStore {
	return &stubStore{
		activities: map[string]models.ActivityRef{},
		schedules:  map[string]models.ScheduleEntry{},
		markErr:    map[string]error{},
	}
}

func (s *stubStore) InsertAssessment(_ context.Context, rec *models.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessments = append(s.assessments, *rec)
	return nil
}

func (s *stubStore) ListAssessments(_ context.Context, typeCode string, window models.TimeRange) ([]models.AssessmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AssessmentRecord
	for _, r := range s.assessments {
		if r.TypeCode == typeCode && window.Contains(r.CompletedAt) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

func (s *stubStore) InsertMood(_ context.Context, rec *models.MoodRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moods = append(s.moods, *rec)
	return nil
}

func (s *stubStore) ListMoods(_ context.Context, window models.TimeRange) ([]models.MoodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MoodRecord
	for _, r := range s.moods {
		if window.Contains(r.RecordedAt) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubStore) GetActivities(_ context.Context, ids []string) ([]models.ActivityRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ActivityRef
	for _, id := range ids {
		if a, ok := s.activities[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubStore) InsertActivity(_ context.Context, a *models.ActivityRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities[a.ID] = *a
	return nil
}

func (s *stubStore) ListActivities(_ context.Context, includeDeleted bool) ([]models.ActivityRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ActivityRef
	for _, a := range s.activities {
		if includeDeleted || !a.Deleted() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubStore) SoftDeleteActivity(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[id]
	if !ok || a.Deleted() {
		return false, nil
	}
	a.DeletedAt = &at
	s.activities[id] = a
	return true, nil
}

func (s *stubStore) InsertSchedule(_ context.Context, e *models.ScheduleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[e.ID] = *e
	return nil
}

func (s *stubStore) UpdateSchedule(_ context.Context, e *models.ScheduleEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[e.ID]; !ok {
		return false, nil
	}
	s.schedules[e.ID] = *e
	return true, nil
}

func (s *stubStore) GetSchedule(_ context.Context, id string) (*models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.schedules[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *stubStore) ListSchedules(_ context.Context, enabledOnly bool) ([]models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ScheduleEntry
	for _, e := range s.schedules {
		if !enabledOnly || e.Enabled {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubStore) MarkScheduleTriggered(_ context.Context, id, day string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markCalls++
	if err := s.markErr[id]; err != nil {
		return false, err
	}
	e, ok := s.schedules[id]
	if !ok {
		return false, errors.New("no such schedule")
	}
	if e.LastTriggeredOn != "" && e.LastTriggeredOn >= day {
		return false, nil
	}
	e.LastTriggeredOn = day
	s.schedules[id] = e
	return true, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}
