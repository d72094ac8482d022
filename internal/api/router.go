package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/soaringjerry/Mindtrack/internal/logging"
	"github.com/soaringjerry/Mindtrack/internal/middleware"
	"github.com/soaringjerry/Mindtrack/internal/models"
	"github.com/soaringjerry/Mindtrack/internal/services"
	"github.com/soaringjerry/Mindtrack/internal/utils"
)

// Deps are the services and settings the HTTP layer is built from.
type Deps struct {
	Assessments *services.AssessmentService
	Moods       *services.MoodService
	Activities  *services.ActivityService
	Schedules   *services.ScheduleService
	Reminders   *services.ReminderService
	Location    *time.Location
	Log         logging.Logger
	CORSOrigins []string
	// DefaultLocale is used when neither ?lang= nor Accept-Language match.
	DefaultLocale string
	Commit        string
	BuildTime     string
}

type Router struct {
	Deps
}

func NewRouter(deps Deps) *Router {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.DefaultLocale == "" {
		deps.DefaultLocale = "en"
	}
	return &Router{Deps: deps}
}

// Handler returns the full HTTP surface with middleware applied.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(rt.Log))
	r.Use(chimw.Recoverer)
	if len(rt.CORSOrigins) > 0 {
		r.Use(middleware.CORS(rt.CORSOrigins...))
	}
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.NoStore)
	r.Use(middleware.Locale(rt.DefaultLocale))

	r.Get("/health", rt.handleHealth)
	r.Get("/version", rt.handleVersion)

	r.Route("/api", func(r chi.Router) {
		r.Route("/assessments", func(r chi.Router) {
			r.Get("/types", rt.handleAssessmentTypes)
			r.Post("/{code}", rt.handleSubmitAssessment)
			r.Get("/{code}", rt.handleListAssessments)
			r.Get("/{code}/stats", rt.handleAssessmentStats)
			r.Get("/{code}/export", rt.handleExportAssessments)
		})
		r.Route("/moods", func(r chi.Router) {
			r.Post("/", rt.handleLogMood)
			r.Get("/", rt.handleListMoods)
			r.Get("/scale", rt.handleMoodScale)
			r.Get("/stats", rt.handleMoodStats)
			r.Get("/correlations", rt.handleMoodCorrelations)
			r.Get("/export", rt.handleExportMoods)
		})
		r.Route("/activities", func(r chi.Router) {
			r.Post("/", rt.handleCreateActivity)
			r.Get("/", rt.handleListActivities)
			r.Delete("/{id}", rt.handleDeleteActivity)
		})
		r.Route("/schedules", func(r chi.Router) {
			r.Post("/", rt.handleCreateSchedule)
			r.Get("/", rt.handleListSchedules)
			r.Put("/{id}", rt.handleUpdateSchedule)
		})
		r.Post("/reminders/sweep", rt.handleSweep)
	})
	return r
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"name":       "Mindtrack API",
		"locale":     locale,
		"msg":        utils.T(locale, "health.ok"),
		"commit":     rt.Commit,
		"build_time": rt.BuildTime,
	})
}

func (rt *Router) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"commit": rt.Commit, "build_time": rt.BuildTime})
}

// window reads the inclusive ?from=&to= calendar dates in the configured zone.
func (rt *Router) window(r *http.Request) (models.TimeRange, error) {
	var out models.TimeRange
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		d, err := time.ParseInLocation(services.DayLayout, v, rt.Location)
		if err != nil {
			return out, services.NewValidationError("from must be YYYY-MM-DD")
		}
		out.From = d
	}
	if v := q.Get("to"); v != "" {
		d, err := time.ParseInLocation(services.DayLayout, v, rt.Location)
		if err != nil {
			return out, services.NewValidationError("to must be YYYY-MM-DD")
		}
		out.To = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.To.Before(out.From) {
		return out, services.NewValidationError("to is before from")
	}
	return out, nil
}

func trendText(locale string, t services.Trend) string {
	if t == "" {
		return ""
	}
	return utils.TOr(locale, "trend."+string(t), string(t))
}
