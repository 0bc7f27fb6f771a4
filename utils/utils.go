package utils

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// contextKey 避免與其他套件的 context key 衝突
type contextKey string

// UserKey 是儲存在 context 中的 User header 的鍵
const UserKey contextKey = "user"

// RequestIDKey 是儲存在 context 中的 request id 的鍵
const RequestIDKey contextKey = "requestID"

// strict 移除所有 HTML 標籤，只保留文字
var strict = bluemonday.StrictPolicy()

// WithUser 將 User header 的值放入 context
func WithUser(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, UserKey, name)
}

// GetUserFromContext 從 context 中提取 User header 的值，沒有時回傳空字串
func GetUserFromContext(ctx context.Context) string {
	name, _ := ctx.Value(UserKey).(string)
	return name
}

// GetRequestIDFromContext 從 context 中提取 request id
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Sanitize 移除使用者輸入中的 HTML 標籤並去除前後空白。
// bluemonday 會把剩下的文字做 HTML 轉義，這裡還原成原本的字元，只做移除不做轉義
func Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// FormatClock 以 HH:mm:ss 格式輸出 t 在 loc 時區的時間，loc 為 nil 時沿用 t 的時區
func FormatClock(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("15:04:05")
}
