package api

import (
	"net/http"

	"github.com/soaringjerry/Mindtrack/internal/middleware"
	"github.com/soaringjerry/Mindtrack/internal/models"
	"github.com/soaringjerry/Mindtrack/internal/services"
	"github.com/soaringjerry/Mindtrack/internal/utils"
)

type logMoodRequest struct {
	Rating      int      `json:"rating"`
	ActivityIDs []string `json:"activity_ids" validate:"max=32,dive,required"`
	Note        string   `json:"note" validate:"max=2000"`
}

type moodView struct {
	models.MoodRecord
	RatingLabel string `json:"rating_label"`
	RatingText  string `json:"rating_text"`
}

func (rt *Router) viewMood(locale string, rec models.MoodRecord) moodView {
	label := rt.Moods.Scale().Label(rec.Rating)
	return moodView{MoodRecord: rec, RatingLabel: label, RatingText: utils.TOr(locale, "mood."+label, label)}
}

// POST /api/moods
func (rt *Router) handleLogMood(w http.ResponseWriter, r *http.Request) {
	var req logMoodRequest
	if err := decode(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	rec, err := rt.Moods.Log(r.Context(), req.Rating, req.ActivityIDs, req.Note)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt.viewMood(middleware.LocaleFromContext(r.Context()), *rec))
}

// GET /api/moods?from=&to=
func (rt *Router) handleListMoods(w http.ResponseWriter, r *http.Request) {
	window, err := rt.window(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	records, err := rt.Moods.Records(r.Context(), window)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	out := make([]moodView, 0, len(records))
	for _, rec := range records {
		out = append(out, rt.viewMood(locale, rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": out})
}

// GET /api/moods/scale
func (rt *Router) handleMoodScale(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	scale := rt.Moods.Scale()
	texts := make([]string, 0, len(scale.Labels))
	for _, l := range scale.Labels {
		texts = append(texts, utils.TOr(locale, "mood."+l, l))
	}
	writeJSON(w, http.StatusOK, map[string]any{"min": scale.Min, "max": scale.Max, "labels": scale.Labels, "texts": texts})
}

// GET /api/moods/stats?from=&to=
func (rt *Router) handleMoodStats(w http.ResponseWriter, r *http.Request) {
	window, err := rt.window(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	stats, err := rt.Moods.Stats(r.Context(), window)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"series":     stats,
		"trend_text": trendText(middleware.LocaleFromContext(r.Context()), stats.Trend),
	})
}

// GET /api/moods/correlations?from=&to=
func (rt *Router) handleMoodCorrelations(w http.ResponseWriter, r *http.Request) {
	window, err := rt.window(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	corr, err := rt.Moods.Correlations(r.Context(), window)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"correlations": corr, "min_samples": services.MinActivitySamples})
}

// GET /api/moods/export?from=&to=
func (rt *Router) handleExportMoods(w http.ResponseWriter, r *http.Request) {
	window, err := rt.window(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	records, err := rt.Moods.Records(r.Context(), window)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	body, err := services.ExportMoodsCSV(records, rt.Moods.Scale())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeCSV(w, "moods.csv", body)
}
