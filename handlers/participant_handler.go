package handlers

import (
	"net/http"

	"bate-papo/backend/models"
	"bate-papo/backend/utils"
)

// JoinParticipant 處理 POST /participants
func (h *Handler) JoinParticipant(w http.ResponseWriter, r *http.Request) {
	var req models.JoinRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.presence.Join(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated) // 201 Created
}

// ListParticipants 處理 GET /participants
func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.presence.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if participants == nil {
		participants = []models.Participant{}
	}
	writeJSON(w, http.StatusOK, participants)
}

// Heartbeat 處理 POST /status，更新使用者的 lastStatus
func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	if err := h.presence.Heartbeat(r.Context(), utils.GetUserFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
