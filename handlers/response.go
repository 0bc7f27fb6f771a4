package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"bate-papo/backend/services"
	"bate-papo/backend/utils"

	"go.uber.org/zap"
)

// errInvalidJSON 是請求體無法解析時回傳給前端的訊息
const errInvalidJSON = `"body" must be a valid JSON object`

// decodeBody 解析 JSON 請求體，空的請求體視為空物件，交給後續驗證處理
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &services.ValidationError{Details: []string{errInvalidJSON}}
}

// writeJSON 統一發送 JSON 響應
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("failed to write response", "error", err)
	}
}

// writeError 將服務層錯誤轉換成狀態碼，只有 422 會帶有內容
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, verr.Details)
	case errors.Is(err, services.ErrConflict):
		w.WriteHeader(http.StatusConflict)
	case errors.Is(err, services.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, services.ErrUnauthorized):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, services.ErrMissingHeader):
		w.WriteHeader(http.StatusBadRequest)
	default:
		// 資料庫錯誤的細節只寫進日誌，不回傳給前端
		zap.S().Errorw("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"requestId", utils.GetRequestIDFromContext(r.Context()),
			"error", err,
		)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
