package api

import (
	"net/http"

	"github.com/Zeyad-Azima/GymFit/internal/auth"
	"github.com/Zeyad-Azima/GymFit/internal/domain"
)

// SendMessageRequest is the payload for POST /v1/trainers/{id}/messages.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// CloseConversationResponse reports how many pending replies were dropped.
type CloseConversationResponse struct {
	Cancelled int `json:"cancelled"`
}

func (h *Handler) trainers(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, auth.ScopeAppRead) {
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[domain.Trainer]{Items: h.store.Trainers()})
}

func (h *Handler) trainerMessages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listMessages(w, r)
	case http.MethodPost:
		h.sendMessage(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	if !requireScope(w, r, auth.ScopeAppRead) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	msgs, err := h.store.Messages(id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[domain.Message]{Items: msgs})
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	if !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req SendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	msg, err := h.store.SendMessage(r.Context(), id, req.Message)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *Handler) trainerAction(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, auth.ScopeAppWrite) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	switch r.PathValue("action") {
	case "read":
		trainer, err := h.store.MarkConversationRead(ctx, id)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, trainer)
	case "close":
		n, err := h.store.CloseConversation(ctx, id)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, CloseConversationResponse{Cancelled: n})
	case "call":
		if err := h.store.CallTrainer(ctx, id); err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, StatusResponse{Status: "requested"})
	case "video-call":
		if err := h.store.VideoCallTrainer(ctx, id); err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, StatusResponse{Status: "requested"})
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown trainer action")
	}
}
