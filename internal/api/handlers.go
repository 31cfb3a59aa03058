// Package api exposes the GymFit app state over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Zeyad-Azima/GymFit/internal/account"
	"github.com/Zeyad-Azima/GymFit/internal/auth"
	"github.com/Zeyad-Azima/GymFit/internal/coach"
	"github.com/Zeyad-Azima/GymFit/internal/domain"
	"github.com/Zeyad-Azima/GymFit/internal/goals"
	"github.com/Zeyad-Azima/GymFit/internal/state"
)

const maxBodyBytes = 1 << 20

// Handler coordinates HTTP requests with the store and the screen services.
type Handler struct {
	store   *state.Store
	goals   *goals.Tracker
	coach   *coach.Coach
	account *account.Service
	logger  *slog.Logger
}

// NewHandler builds a Handler. A nil logger discards output.
func NewHandler(store *state.Store, tracker *goals.Tracker, c *coach.Coach, accounts *account.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{store: store, goals: tracker, coach: c, account: accounts, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", healthz)

	mux.HandleFunc("/v1/dashboard", h.dashboard)
	mux.HandleFunc("/v1/classes", h.classes)
	mux.HandleFunc("/v1/classes/{id}/booking", h.bookClass)
	mux.HandleFunc("/v1/challenge/complete", h.completeChallenge)
	mux.HandleFunc("/v1/theme/toggle", h.toggleTheme)

	mux.HandleFunc("/v1/trainers", h.trainers)
	mux.HandleFunc("/v1/trainers/{id}/messages", h.trainerMessages)
	mux.HandleFunc("/v1/trainers/{id}/{action}", h.trainerAction)

	mux.HandleFunc("/v1/achievements", h.achievements)
	mux.HandleFunc("/v1/achievements/{id}/view", h.viewAchievement)
	mux.HandleFunc("/v1/workouts/start", h.startWorkout)
	mux.HandleFunc("/v1/workouts/end", h.endWorkout)
	mux.HandleFunc("/v1/activities", h.activities)
	mux.HandleFunc("/v1/settings/{kind}", h.openSettings)

	mux.HandleFunc("/v1/goals", h.goalsCollection)
	mux.HandleFunc("/v1/goals/summary", h.goalsSummary)
	mux.HandleFunc("/v1/goals/{id}", h.goalByID)

	mux.HandleFunc("/v1/coach/workouts", h.coachWorkouts)
	mux.HandleFunc("/v1/coach/workouts/{id}/toggle", h.coachToggle)
	mux.HandleFunc("/v1/coach/session", h.coachSession)
	mux.HandleFunc("/v1/coach/session/end", h.coachEnd)
	mux.HandleFunc("/v1/coach/chat", h.coachChat)

	mux.HandleFunc("/v1/auth/login", h.login)
	mux.HandleFunc("/v1/auth/signup", h.signup)
	mux.HandleFunc("/v1/auth/forgot-password", h.forgotPassword)
	mux.HandleFunc("/v1/auth/signout", h.signOut)
	mux.HandleFunc("/v1/account/password", h.changePassword)
	mux.HandleFunc("/v1/account/email", h.changeEmail)
	mux.HandleFunc("/v1/account/backup-codes", h.backupCodes)
	mux.HandleFunc("/v1/account/export/{kind}", h.export)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, auth.ScopeAppRead) {
		return
	}
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *Handler) classes(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, auth.ScopeAppRead) {
		return
	}
	classType := domain.ClassType(r.URL.Query().Get("type"))
	writeJSON(w, http.StatusOK, ListResponse[domain.Class]{Items: h.store.Classes(classType)})
}

func (h *Handler) bookClass(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	class, err := h.store.BookClass(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, class)
}

func (h *Handler) completeChallenge(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	writeJSON(w, http.StatusOK, h.store.CompleteChallenge(r.Context()))
}

func (h *Handler) toggleTheme(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	writeJSON(w, http.StatusOK, ThemeResponse{IsDarkMode: h.store.ToggleTheme(r.Context())})
}

// ListResponse packages list results.
type ListResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// ThemeResponse reports the colour scheme flag.
type ThemeResponse struct {
	IsDarkMode bool `json:"is_dark_mode"`
}

// StatusResponse acknowledges a request with no other result.
type StatusResponse struct {
	Status string `json:"status"`
}

func allowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	return false
}

// requireScope checks the caller's token against scope.
func requireScope(w http.ResponseWriter, r *http.Request, scope string) bool {
	_, err := auth.Authorize(r.Context(), scope)
	switch {
	case err == nil:
		return true
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
	default:
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	}
	return false
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid id")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return false
	}
	return true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrClassNotFound),
		errors.Is(err, domain.ErrTrainerNotFound),
		errors.Is(err, domain.ErrAchievementNotFound),
		errors.Is(err, goals.ErrGoalNotFound),
		errors.Is(err, coach.ErrWorkoutNotFound),
		errors.Is(err, account.ErrUnknownExport):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrClassFull),
		errors.Is(err, account.ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrInvalidWorkout),
		errors.Is(err, coach.ErrEmptyMessage),
		errors.Is(err, goals.ErrInvalidGoal),
		errors.Is(err, goals.ErrInvalidFilter),
		errors.Is(err, account.ErrInvalidCredentials),
		errors.Is(err, account.ErrPasswordMismatch),
		errors.Is(err, account.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
