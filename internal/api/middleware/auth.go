package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bookwell/appointment-service/internal/api/handlers"
)

const (
	// HeaderUserID заголовок с ID аутентифицированного пользователя
	// Проставляется внешним identity-провайдером (API gateway)
	HeaderUserID = "X-User-ID"

	// HeaderUserRole заголовок с ролью пользователя (опциональный)
	HeaderUserRole = "X-User-Role"

	msgMissingUserID = "требуется заголовок X-User-ID"
	msgInvalidUserID = "некорректный заголовок X-User-ID"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
)

// Auth проверяет наличие X-User-ID и кладет идентификатор и роль в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, r.Header.Get(HeaderUserRole))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста
// Второе значение false, если запрос прошел мимо Auth middleware
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetUserRole возвращает роль пользователя из контекста (пустая строка - без роли)
func GetUserRole(ctx context.Context) string {
	role, _ := ctx.Value(userRoleKey).(string)
	return role
}
