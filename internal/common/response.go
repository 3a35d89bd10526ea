package common

import (
	"encoding/json"
	"errors"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithDomainError translates a service error into a response.
// Unknown errors collapse to a generic 500 message so internal detail
// never reaches the client.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	code := HTTPStatusFromError(err)
	if code >= http.StatusInternalServerError {
		RespondWithError(w, code, ErrInternalServer.Error())
		return
	}
	if errors.Is(err, ErrUnauthorized) {
		// Bad username and bad password must stay indistinguishable.
		RespondWithError(w, code, ErrUnauthorized.Error())
		return
	}
	RespondWithError(w, code, err.Error())
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
