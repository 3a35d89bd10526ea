package security

import (
	"encoding/json"
	"errors"
	"time"

	"event_calendar/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateToken issues a signed bearer token carrying the user identity.
// Expiry is fixed process-wide (24h by default); each token gets a fresh jti.
func GenerateToken(userID int, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      now.Add(config.AppConfig.JWTExp).Unix(),
		"iat":      now.Unix(),
		"jti":      uuid.NewString(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// Helper functions to extract claims, used by the auth middleware.
func GetUserIDFromClaims(claims map[string]interface{}) (int, error) {
	switch v := claims["user_id"].(type) {
	case float64:
		return int(v), nil
	case int64:
		return int(v), nil
	case int:
		return v, nil
	case json.Number:
		id, err := v.Int64()
		if err != nil {
			return 0, errors.New("user_id claim is not an integer")
		}
		return int(id), nil
	default:
		return 0, errors.New("user_id claim is missing or not a number")
	}
}

func GetUsernameFromClaims(claims map[string]interface{}) (string, error) {
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", errors.New("username claim is missing or not a string")
	}
	return username, nil
}
