package api

import (
	"net/http"

	"github.com/Zeyad-Azima/GymFit/internal/auth"
)

// LoginRequest is the payload for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the payload for POST /v1/auth/signup.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPasswordRequest is the payload for POST /v1/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ChangePasswordRequest is the payload for POST /v1/account/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangeEmailRequest is the payload for POST /v1/account/email.
type ChangeEmailRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// BackupCodesResponse lists recovery codes.
type BackupCodesResponse struct {
	Codes []string `json:"codes"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := h.account.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := h.account.Signup(r.Context(), req.Name, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.account.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, StatusResponse{Status: "sent"})
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if err := h.store.SignOut(r.Context()); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, StatusResponse{Status: "requested"})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.account.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "updated"})
}

func (h *Handler) changeEmail(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	var req ChangeEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.account.ChangeEmail(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) backupCodes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !requireScope(w, r, auth.ScopeAppRead) {
			return
		}
		writeJSON(w, http.StatusOK, BackupCodesResponse{Codes: h.account.BackupCodes()})
	case http.MethodPost:
		if !requireScope(w, r, auth.ScopeAppWrite) {
			return
		}
		codes, err := h.account.RegenerateBackupCodes(r.Context())
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, BackupCodesResponse{Codes: codes})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, auth.ScopeAppRead) {
		return
	}
	kind := r.PathValue("kind")
	body, err := h.account.Export(r.Context(), kind)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="gymfit-`+kind+`.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
