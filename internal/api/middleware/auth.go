// Package middleware holds the router-level middlewares.
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "userRole"
)

const (
	headerUserID = "X-User-ID"
	headerRole   = "X-User-Role"
)

// Auth extracts the authenticated member's id and role from the
// headers set by the API gateway. Requests without a valid user id are
// rejected; a missing or unknown role degrades to member.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(headerUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, "falta el encabezado X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "encabezado X-User-ID inválido")
			return
		}

		role := domain.RoleMember
		switch domain.Role(r.Header.Get(headerRole)) {
		case domain.RoleOperator:
			role = domain.RoleOperator
		case domain.RoleAdmin:
			role = domain.RoleAdmin
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, roleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID returns the authenticated user id set by Auth.
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// GetRole returns the caller's role set by Auth.
func GetRole(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(roleKey).(domain.Role)
	return role, ok
}
