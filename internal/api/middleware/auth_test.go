package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"event_calendar/internal/common/security"
	"event_calendar/internal/platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-signing-key"),
		JWTExp: 24 * time.Hour,
	}
	security.InitJWT()
	m.Run()
}

func newProtectedRouter(t *testing.T) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.Group(func(protected chi.Router) {
		protected.Use(Authenticator)
		protected.Get("/protected", func(w http.ResponseWriter, req *http.Request) {
			userID, ok := GetUserIDFromContext(req.Context())
			require.True(t, ok)
			username, ok := GetUsernameFromContext(req.Context())
			require.True(t, ok)
			assert.Equal(t, 1, userID)
			assert.Equal(t, "alice", username)
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticatorAllowsValidToken(t *testing.T) {
	token, err := security.GenerateToken(1, "alice")
	require.NoError(t, err)

	rec := doRequest(t, newProtectedRouter(t), "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthenticatorRejectsIndistinguishably(t *testing.T) {
	expired := expiredToken(t)

	otherKey := jwtauth.New("HS256", []byte("some-other-key"), nil)
	_, foreignToken, err := otherKey.Encode(jwt.MapClaims{
		"user_id":  1,
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	router := newProtectedRouter(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing token", header: ""},
		{name: "malformed token", header: "Bearer not.a.jwt"},
		{name: "wrong signing key", header: "Bearer " + foreignToken},
		{name: "expired token", header: "Bearer " + expired},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			bodies = append(bodies, rec.Body.String())
		})
	}

	// Every failure cause must produce the same externally visible outcome.
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i])
	}
}

func TestAuthenticatorRejectsTokenWithoutIdentityClaims(t *testing.T) {
	_, token, err := security.TokenAuth.Encode(jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	rec := doRequest(t, newProtectedRouter(t), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// expiredToken signs a token whose expiry already elapsed, simulating
// the 24h lifetime running out.
func expiredToken(t *testing.T) string {
	t.Helper()
	now := time.Now()
	_, token, err := security.TokenAuth.Encode(jwt.MapClaims{
		"user_id":  1,
		"username": "alice",
		"iat":      now.Add(-25 * time.Hour).Unix(),
		"exp":      now.Add(-time.Hour).Unix(),
	})
	require.NoError(t, err)
	return token
}
