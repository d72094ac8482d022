package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

// ScheduleStore abstracts persistence for reminder schedules.
// MarkScheduleTriggered must only write when the stored date is empty or
// strictly before day, and report whether it wrote.
type ScheduleStore interface {
	InsertSchedule(ctx context.Context, s *models.ScheduleEntry) error
	UpdateSchedule(ctx context.Context, s *models.ScheduleEntry) (bool, error)
	GetSchedule(ctx context.Context, id string) (*models.ScheduleEntry, error)
	ListSchedules(ctx context.Context, enabledOnly bool) ([]models.ScheduleEntry, error)
	MarkScheduleTriggered(ctx context.Context, id, day string) (bool, error)
}

// ScheduleInput carries the user-editable fields of a schedule.
type ScheduleInput struct {
	AssessmentTypeCode string
	Frequency          models.Frequency
	Hour               int
	Minute             int
	Weekday            *int
	DayOfMonth         *int
	Enabled            *bool
}

// ScheduleView pairs a schedule with its next trigger; NextTrigger is nil
// for disabled schedules.
type ScheduleView struct {
	models.ScheduleEntry
	NextTrigger *time.Time `json:"next_trigger,omitempty"`
}

type ScheduleService struct {
	store       ScheduleStore
	catalog     *Catalog
	loc         *time.Location
	now         func() time.Time
	idGenerator func() string
}

func NewScheduleService(store ScheduleStore, catalog *Catalog, loc *time.Location) *ScheduleService {
	if loc == nil {
		loc = time.Local
	}
	return &ScheduleService{
		store:       store,
		catalog:     catalog,
		loc:         loc,
		now:         time.Now,
		idGenerator: uuid.NewString,
	}
}

func (s *ScheduleService) apply(entry *models.ScheduleEntry, in ScheduleInput) error {
	def, ok := s.catalog.Get(in.AssessmentTypeCode)
	if !ok {
		return NewValidationError(fmt.Sprintf("assessment type %q not found", in.AssessmentTypeCode))
	}
	entry.AssessmentTypeCode = def.Code
	entry.Frequency = models.Frequency(strings.ToLower(string(in.Frequency)))
	entry.Hour = in.Hour
	entry.Minute = in.Minute
	entry.Weekday = in.Weekday
	entry.DayOfMonth = in.DayOfMonth
	if in.Enabled != nil {
		entry.Enabled = *in.Enabled
	}
	return ValidateSchedule(*entry)
}

func (s *ScheduleService) Create(ctx context.Context, in ScheduleInput) (*models.ScheduleEntry, error) {
	entry := &models.ScheduleEntry{ID: s.idGenerator(), Enabled: true, CreatedAt: s.now().UTC()}
	if err := s.apply(entry, in); err != nil {
		return nil, err
	}
	if err := s.store.InsertSchedule(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Update replaces the editable fields of a schedule. The last-triggered date
// is left untouched; only the reminder sweep moves it.
func (s *ScheduleService) Update(ctx context.Context, id string, in ScheduleInput) (*models.ScheduleEntry, error) {
	entry, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, NewNotFoundError("schedule not found")
	}
	if err := s.apply(entry, in); err != nil {
		return nil, err
	}
	ok, err := s.store.UpdateSchedule(ctx, entry)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewNotFoundError("schedule not found")
	}
	return entry, nil
}

func (s *ScheduleService) List(ctx context.Context) ([]ScheduleView, error) {
	entries, err := s.store.ListSchedules(ctx, false)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	out := make([]ScheduleView, 0, len(entries))
	for _, e := range entries {
		view := ScheduleView{ScheduleEntry: e}
		if e.Enabled {
			next, err := NextTrigger(e, now)
			if err != nil {
				return nil, err
			}
			view.NextTrigger = &next
		}
		out = append(out, view)
	}
	return out, nil
}
