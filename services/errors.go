package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConflict      = errors.New("name already in use")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("not the author")
	ErrMissingHeader = errors.New("missing User header")
	ErrStore         = errors.New("store failure")
)

// ValidationError 帶有所有驗證失敗的訊息，會以 422 回傳給前端
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// storeError 包裝資料庫錯誤，讓呼叫端可以用 errors.Is(err, ErrStore) 判斷
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
