package api

import (
	"net/http"
	"time"

	"github.com/Zeyad-Azima/GymFit/internal/auth"
	"github.com/Zeyad-Azima/GymFit/internal/domain"
	"github.com/Zeyad-Azima/GymFit/internal/goals"
)

// CreateGoalRequest is the payload for POST /v1/goals.
type CreateGoalRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        domain.GoalType `json:"type"`
	Target      float64         `json:"target"`
	Current     float64         `json:"current"`
	Unit        string          `json:"unit"`
	Deadline    time.Time       `json:"deadline"`
}

// UpdateGoalRequest is the payload for PUT /v1/goals/{id}.
type UpdateGoalRequest struct {
	Current *float64 `json:"current"`
}

func (h *Handler) goalsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !requireScope(w, r, auth.ScopeAppRead) {
			return
		}
		items, err := h.goals.List(r.Context(), goals.Filter(r.URL.Query().Get("filter")))
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ListResponse[goals.View]{Items: items})
	case http.MethodPost:
		if !requireScope(w, r, auth.ScopeAppWrite) {
			return
		}
		var req CreateGoalRequest
		if !decodeBody(w, r, &req) {
			return
		}
		view, err := h.goals.Add(r.Context(), goals.AddInput{
			Title:       req.Title,
			Description: req.Description,
			Type:        req.Type,
			Target:      req.Target,
			Current:     req.Current,
			Unit:        req.Unit,
			Deadline:    req.Deadline,
		})
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, view)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) goalsSummary(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, auth.ScopeAppRead) {
		return
	}
	writeJSON(w, http.StatusOK, h.goals.Summary(r.Context()))
}

func (h *Handler) goalByID(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPut, http.MethodDelete) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	id := r.PathValue("id")

	if r.Method == http.MethodDelete {
		if err := h.goals.Delete(r.Context(), id); err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var req UpdateGoalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Current == nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "current is required")
		return
	}
	view, err := h.goals.UpdateProgress(r.Context(), id, *req.Current)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
