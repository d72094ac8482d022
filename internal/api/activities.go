package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type createActivityRequest struct {
	Name  string `json:"name" validate:"required,max=64"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon" validate:"max=32"`
}

// POST /api/activities
func (rt *Router) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if err := decode(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	a, err := rt.Activities.Create(r.Context(), req.Name, req.Color, req.Icon)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// GET /api/activities?include_deleted=1
func (rt *Router) handleListActivities(w http.ResponseWriter, r *http.Request) {
	include, _ := strconv.ParseBool(r.URL.Query().Get("include_deleted"))
	list, err := rt.Activities.List(r.Context(), include)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": list})
}

// DELETE /api/activities/{id}
func (rt *Router) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := rt.Activities.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
