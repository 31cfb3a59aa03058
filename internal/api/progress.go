package api

import (
	"net/http"
	"strconv"

	"github.com/Zeyad-Azima/GymFit/internal/auth"
	"github.com/Zeyad-Azima/GymFit/internal/domain"
	"github.com/Zeyad-Azima/GymFit/internal/persistence"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// StartWorkoutRequest is the payload for POST /v1/workouts/start.
type StartWorkoutRequest struct {
	Type string `json:"type"`
}

// EndWorkoutResponse reports the outcome of POST /v1/workouts/end.
type EndWorkoutResponse struct {
	Ended  bool                  `json:"ended"`
	Result *domain.WorkoutResult `json:"result,omitempty"`
}

func (h *Handler) achievements(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, auth.ScopeAppRead) {
		return
	}
	items := h.store.Achievements()
	if unlocked, _ := strconv.ParseBool(r.URL.Query().Get("unlocked")); unlocked {
		items = h.store.UnlockedAchievements()
	}
	writeJSON(w, http.StatusOK, ListResponse[domain.Achievement]{Items: items})
}

func (h *Handler) viewAchievement(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.store.ViewAchievement(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) startWorkout(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	var req StartWorkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	workout, err := h.store.StartWorkout(r.Context(), req.Type)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (h *Handler) endWorkout(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	result, ended := h.store.EndWorkout(r.Context())
	resp := EndWorkoutResponse{Ended: ended}
	if ended {
		resp.Result = &result
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, auth.ScopeAppRead) {
		return
	}

	limit := defaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = min(parsed, maxFeedLimit)
		}
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	items, next := h.store.Activities(cursor, limit)
	writeJSON(w, http.StatusOK, ListResponse[domain.Activity]{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) openSettings(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	if err := h.store.OpenSettings(r.Context(), r.PathValue("kind")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, StatusResponse{Status: "requested"})
}
