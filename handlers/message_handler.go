package handlers

import (
	"net/http"
	"strconv"

	"bate-papo/backend/models"
	"bate-papo/backend/utils"

	"github.com/gorilla/mux"
)

// PostMessage 處理 POST /messages
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req models.MessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.messaging.Post(r.Context(), utils.GetUserFromContext(r.Context()), req); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// ListMessages 處理 GET /messages?limit=N
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messaging.List(r.Context(), utils.GetUserFromContext(r.Context()), parseLimit(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// DeleteMessage 處理 DELETE /messages/{id}
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.messaging.Delete(r.Context(), utils.GetUserFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// UpdateMessage 處理 PUT /messages/{id}
func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	var req models.MessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.messaging.Update(r.Context(), utils.GetUserFromContext(r.Context()), id, req); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// parseLimit 回傳 limit 查詢參數；沒有提供或無法解析時回傳 0，代表不限制
func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
