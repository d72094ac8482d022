package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/soaringjerry/Mindtrack/internal/middleware"
	"github.com/soaringjerry/Mindtrack/internal/models"
	"github.com/soaringjerry/Mindtrack/internal/services"
	"github.com/soaringjerry/Mindtrack/internal/utils"
)

type submitAssessmentRequest struct {
	Responses []int  `json:"responses" validate:"required,max=100"`
	Note      string `json:"note" validate:"max=2000"`
}

type thresholdView struct {
	models.Threshold
	Text string `json:"text"`
}

type assessmentTypeView struct {
	Code          string               `json:"code"`
	Name          string               `json:"name"`
	QuestionCount int                  `json:"question_count"`
	Scales        []models.AnswerScale `json:"scales"`
	MinScore      int                  `json:"min_score"`
	MaxScore      int                  `json:"max_score"`
	Thresholds    []thresholdView      `json:"thresholds"`
}

type assessmentView struct {
	models.AssessmentRecord
	SeverityText string `json:"severity_text"`
}

func severityText(locale, label string) string {
	return utils.TOr(locale, "severity."+label, label)
}

func viewAssessment(locale string, rec models.AssessmentRecord) assessmentView {
	return assessmentView{AssessmentRecord: rec, SeverityText: severityText(locale, rec.SeverityLabel)}
}

// GET /api/assessments/types
func (rt *Router) handleAssessmentTypes(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	defs := rt.Assessments.Catalog().List()
	out := make([]assessmentTypeView, 0, len(defs))
	for _, def := range defs {
		ths := make([]thresholdView, 0, len(def.Thresholds))
		for _, th := range def.Thresholds {
			ths = append(ths, thresholdView{Threshold: th, Text: severityText(locale, th.Label)})
		}
		out = append(out, assessmentTypeView{
			Code:          def.Code,
			Name:          def.Name,
			QuestionCount: def.QuestionCount,
			Scales:        def.Scales,
			MinScore:      def.MinScore,
			MaxScore:      def.MaxScore,
			Thresholds:    ths,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"types": out})
}

// POST /api/assessments/{code}
func (rt *Router) handleSubmitAssessment(w http.ResponseWriter, r *http.Request) {
	var req submitAssessmentRequest
	if err := decode(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	rec, err := rt.Assessments.Submit(r.Context(), chi.URLParam(r, "code"), req.Responses, req.Note)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewAssessment(middleware.LocaleFromContext(r.Context()), *rec))
}

// GET /api/assessments/{code}?from=&to=
func (rt *Router) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	window, err := rt.window(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	records, err := rt.Assessments.Records(r.Context(), chi.URLParam(r, "code"), window)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	out := make([]assessmentView, 0, len(records))
	for _, rec := range records {
		out = append(out, viewAssessment(locale, rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": out})
}

// GET /api/assessments/{code}/stats?from=&to=
func (rt *Router) handleAssessmentStats(w http.ResponseWriter, r *http.Request) {
	window, err := rt.window(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	stats, err := rt.Assessments.Stats(r.Context(), chi.URLParam(r, "code"), window)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"type_code":  stats.TypeCode,
		"series":     stats.Series,
		"trend_text": trendText(middleware.LocaleFromContext(r.Context()), stats.Series.Trend),
		"alpha":      stats.Alpha,
		"alpha_n":    stats.AlphaN,
	})
}

// GET /api/assessments/{code}/export?from=&to=
func (rt *Router) handleExportAssessments(w http.ResponseWriter, r *http.Request) {
	window, err := rt.window(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	code := chi.URLParam(r, "code")
	records, err := rt.Assessments.Records(r.Context(), code, window)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	body, err := services.ExportAssessmentsCSV(records)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeCSV(w, strings.ToLower(strings.TrimSpace(code))+"-assessments.csv", body)
}
