package security

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"event_calendar/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-signing-key"),
		JWTExp: 24 * time.Hour,
	}
	InitJWT()
	m.Run()
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	tokenString, err := GenerateToken(1, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := TokenAuth.Decode(tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)

	id, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	username, err := GetUsernameFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	assert.NotEmpty(t, claims["jti"], "each token carries a fresh jti")
}

func TestGenerateTokenExpiryIsConfigured(t *testing.T) {
	tokenString, err := GenerateToken(7, "bob")
	require.NoError(t, err)

	token, err := TokenAuth.Decode(tokenString)
	require.NoError(t, err)

	expiry := token.Expiration()
	wantExpiry := time.Now().Add(config.AppConfig.JWTExp)
	assert.WithinDuration(t, wantExpiry, expiry, time.Minute)
}

func TestGetUserIDFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  map[string]interface{}
		want    int
		wantErr bool
	}{
		{name: "float64", claims: map[string]interface{}{"user_id": float64(42)}, want: 42},
		{name: "int64", claims: map[string]interface{}{"user_id": int64(7)}, want: 7},
		{name: "json number", claims: map[string]interface{}{"user_id": json.Number("3")}, want: 3},
		{name: "missing", claims: map[string]interface{}{}, wantErr: true},
		{name: "wrong type", claims: map[string]interface{}{"user_id": "1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetUserIDFromClaims(tt.claims)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetUsernameFromClaims(t *testing.T) {
	username, err := GetUsernameFromClaims(map[string]interface{}{"username": "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	_, err = GetUsernameFromClaims(map[string]interface{}{})
	assert.Error(t, err)

	_, err = GetUsernameFromClaims(map[string]interface{}{"username": ""})
	assert.Error(t, err)
}
