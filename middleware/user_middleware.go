// backend/middleware/user_middleware.go
package middleware

import (
	"net/http"

	"bate-papo/backend/utils"
)

// UserHeader 是用來識別使用者的 header
const UserHeader = "User"

// UserMiddleware 將 User header 放入 context，是否必填由各個 handler 決定
func UserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := utils.WithUser(r.Context(), r.Header.Get(UserHeader))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
