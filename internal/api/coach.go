package api

import (
	"net/http"

	"github.com/Zeyad-Azima/GymFit/internal/auth"
	"github.com/Zeyad-Azima/GymFit/internal/coach"
	"github.com/Zeyad-Azima/GymFit/internal/domain"
)

// CoachEndResponse reports the outcome of ending a coach session.
type CoachEndResponse struct {
	Ended  bool                  `json:"ended"`
	Result *domain.WorkoutResult `json:"result,omitempty"`
}

func (h *Handler) coachWorkouts(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, auth.ScopeAppRead) {
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[domain.CoachWorkout]{Items: h.coach.Workouts()})
}

func (h *Handler) coachToggle(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	session, err := h.coach.Toggle(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) coachSession(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, auth.ScopeAppRead) {
		return
	}
	writeJSON(w, http.StatusOK, h.coach.Session())
}

func (h *Handler) coachEnd(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	result, ended := h.coach.End(r.Context())
	resp := CoachEndResponse{Ended: ended}
	if ended {
		resp.Result = &result
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) coachChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !requireScope(w, r, auth.ScopeAppRead) {
			return
		}
		writeJSON(w, http.StatusOK, ListResponse[coach.ChatMessage]{Items: h.coach.Chat()})
	case http.MethodPost:
		if !requireScope(w, r, auth.ScopeAppWrite) {
			return
		}
		var req SendMessageRequest
		if !decodeBody(w, r, &req) {
			return
		}
		msg, err := h.coach.Send(r.Context(), req.Message)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}
