package services

import (
	"context"
	"sync"
	"time"

	"github.com/soaringjerry/Mindtrack/internal/logging"
)

// DueReminder is one schedule that fired during a sweep.
type DueReminder struct {
	ScheduleID         string `json:"schedule_id"`
	AssessmentTypeCode string `json:"assessment_type_code"`
	TriggeredOn        string `json:"triggered_on"`
}

// Notifier delivers reminders produced by a sweep.
type Notifier interface {
	Notify(ctx context.Context, reminders []DueReminder) error
}

// ReminderService runs the periodic due-check over enabled schedules.
type ReminderService struct {
	store    ScheduleStore
	notifier Notifier
	log      logging.Logger
	loc      *time.Location
	now      func() time.Time
	mu       sync.Mutex
}

func NewReminderService(store ScheduleStore, notifier Notifier, log logging.Logger, loc *time.Location) *ReminderService {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderService{store: store, notifier: notifier, log: log, loc: loc, now: time.Now}
}

// Sweep fires every enabled schedule that is due now. The due check and the
// last-triggered write form one unit per schedule: sweeps are serialized in
// process, and the store write is a compare-and-set on the date, so a
// concurrent sweep elsewhere cannot fire the same schedule twice in a day.
// A failed write is logged and the schedule skipped; it is re-checked on the
// next sweep rather than retried.
func (s *ReminderService) Sweep(ctx context.Context) ([]DueReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.ListSchedules(ctx, true)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	today := CalendarDay(now)
	var due []DueReminder
	for _, e := range entries {
		if !IsDue(e, now) || !OccursOn(e, now) {
			continue
		}
		wrote, err := s.store.MarkScheduleTriggered(ctx, e.ID, today)
		if err != nil {
			s.log.Errorf("reminder sweep: mark %s triggered: %v", e.ID, err)
			continue
		}
		if !wrote {
			continue
		}
		due = append(due, DueReminder{ScheduleID: e.ID, AssessmentTypeCode: e.AssessmentTypeCode, TriggeredOn: today})
	}
	if len(due) > 0 && s.notifier != nil {
		if err := s.notifier.Notify(ctx, due); err != nil {
			s.log.Errorf("reminder sweep: notify %d reminders: %v", len(due), err)
		}
	}
	return due, nil
}
