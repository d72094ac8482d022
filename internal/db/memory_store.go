package db

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

// MemoryStore keeps everything in process memory. It backs tests and the
// "memory" storage backend; nothing survives a restart.
type MemoryStore struct {
	mu          sync.RWMutex
	assessments []models.AssessmentRecord
	moods       []models.MoodRecord
	moodLinks   map[string][]string
	activities  map[string]models.ActivityRef
	schedules   map[string]models.ScheduleEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		moodLinks:  map[string][]string{},
		activities: map[string]models.ActivityRef{},
		schedules:  map[string]models.ScheduleEntry{},
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) InsertAssessment(_ context.Context, rec *models.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	cp.Responses = append([]int(nil), rec.Responses...)
	s.assessments = append(s.assessments, cp)
	return nil
}

func (s *MemoryStore) ListAssessments(_ context.Context, typeCode string, window models.TimeRange) ([]models.AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AssessmentRecord, 0, len(s.assessments))
	for _, r := range s.assessments {
		if r.TypeCode != typeCode || !window.Contains(r.CompletedAt) {
			continue
		}
		r.Responses = append([]int(nil), r.Responses...)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

func (s *MemoryStore) InsertActivity(_ context.Context, a *models.ActivityRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.activities[a.ID]; dup {
		return errors.New("memory store: duplicate activity id " + a.ID)
	}
	s.activities[a.ID] = *a
	return nil
}

func (s *MemoryStore) ListActivities(_ context.Context, includeDeleted bool) ([]models.ActivityRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ActivityRef, 0, len(s.activities))
	for _, a := range s.activities {
		if includeDeleted || !a.Deleted() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) GetActivities(_ context.Context, ids []string) ([]models.ActivityRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ActivityRef
	for _, id := range ids {
		if a, ok := s.activities[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemoryStore) SoftDeleteActivity(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[id]
	if !ok || a.Deleted() {
		return false, nil
	}
	at = at.UTC()
	a.DeletedAt = &at
	s.activities[id] = a
	return true, nil
}

// InsertMood stores the record with links by id; activities are resolved on
// read so a later soft delete shows up in history.
func (s *MemoryStore) InsertMood(_ context.Context, rec *models.MoodRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(rec.Activities))
	for _, a := range rec.Activities {
		if _, ok := s.activities[a.ID]; !ok {
			return errors.New("memory store: unknown activity " + a.ID)
		}
		ids = append(ids, a.ID)
	}
	cp := *rec
	cp.Activities = nil
	s.moods = append(s.moods, cp)
	s.moodLinks[rec.ID] = ids
	return nil
}

func (s *MemoryStore) ListMoods(_ context.Context, window models.TimeRange) ([]models.MoodRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MoodRecord
	for _, r := range s.moods {
		if !window.Contains(r.RecordedAt) {
			continue
		}
		for _, id := range s.moodLinks[r.ID] {
			r.Activities = append(r.Activities, s.activities[id])
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (s *MemoryStore) InsertSchedule(_ context.Context, e *models.ScheduleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.schedules[e.ID]; dup {
		return errors.New("memory store: duplicate schedule id " + e.ID)
	}
	s.schedules[e.ID] = *e
	return nil
}

func (s *MemoryStore) UpdateSchedule(_ context.Context, e *models.ScheduleEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.schedules[e.ID]
	if !ok {
		return false, nil
	}
	next := *e
	next.LastTriggeredOn = cur.LastTriggeredOn
	next.CreatedAt = cur.CreatedAt
	s.schedules[e.ID] = next
	return true, nil
}

func (s *MemoryStore) GetSchedule(_ context.Context, id string) (*models.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.schedules[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *MemoryStore) ListSchedules(_ context.Context, enabledOnly bool) ([]models.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ScheduleEntry, 0, len(s.schedules))
	for _, e := range s.schedules {
		if !enabledOnly || e.Enabled {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) MarkScheduleTriggered(_ context.Context, id, day string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.schedules[id]
	if !ok || (e.LastTriggeredOn != "" && e.LastTriggeredOn >= day) {
		return false, nil
	}
	e.LastTriggeredOn = day
	s.schedules[id] = e
	return true, nil
}
