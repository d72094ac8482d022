package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soaringjerry/Mindtrack/internal/models"
	"github.com/soaringjerry/Mindtrack/internal/services"
)

// scheduleRequest carries the time of day as "HH:MM" in the configured zone.
type scheduleRequest struct {
	AssessmentType string `json:"assessment_type" validate:"required"`
	Frequency      string `json:"frequency" validate:"required,oneof=daily weekly biweekly monthly"`
	Time           string `json:"time" validate:"required,datetime=15:04"`
	Weekday        *int   `json:"weekday" validate:"omitempty,min=0,max=6"`
	DayOfMonth     *int   `json:"day_of_month" validate:"omitempty,min=1,max=31"`
	Enabled        *bool  `json:"enabled"`
}

func (req scheduleRequest) input() (services.ScheduleInput, error) {
	tod, err := time.Parse("15:04", req.Time)
	if err != nil {
		return services.ScheduleInput{}, services.NewValidationError("time must be HH:MM")
	}
	return services.ScheduleInput{
		AssessmentTypeCode: req.AssessmentType,
		Frequency:          models.Frequency(req.Frequency),
		Hour:               tod.Hour(),
		Minute:             tod.Minute(),
		Weekday:            req.Weekday,
		DayOfMonth:         req.DayOfMonth,
		Enabled:            req.Enabled,
	}, nil
}

func (rt *Router) decodeSchedule(r *http.Request) (services.ScheduleInput, error) {
	var req scheduleRequest
	if err := decode(r, &req); err != nil {
		return services.ScheduleInput{}, err
	}
	return req.input()
}

// POST /api/schedules
func (rt *Router) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	in, err := rt.decodeSchedule(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	entry, err := rt.Schedules.Create(r.Context(), in)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// PUT /api/schedules/{id}
func (rt *Router) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	in, err := rt.decodeSchedule(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	entry, err := rt.Schedules.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// GET /api/schedules
func (rt *Router) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	views, err := rt.Schedules.List(r.Context())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schedules": views})
}

// POST /api/reminders/sweep
func (rt *Router) handleSweep(w http.ResponseWriter, r *http.Request) {
	due, err := rt.Reminders.Sweep(r.Context())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if due == nil {
		due = []services.DueReminder{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"due": due})
}
