package middleware

import (
	"context"
	"net/http"

	"event_calendar/internal/common"
	"event_calendar/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	UsernameCtxKey contextKey = "username"
)

// Authenticator gates protected routes on a verified session token.
// A missing, malformed, expired or badly signed token all collapse to
// the same 401 outcome; a wrapped handler never runs without claims.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthenticated.Error())
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthenticated.Error())
			return
		}
		username, err := security.GetUsernameFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthenticated.Error())
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UsernameCtxKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int)
	return userID, ok
}

// Helper to get username from context
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameCtxKey).(string)
	return username, ok
}
