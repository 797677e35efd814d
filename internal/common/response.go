package common

import (
	"encoding/json"
	"errors"
	"net/http"
)

type MessageResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, MessageResponse{Message: message})
}

// RespondWithDomainError writes the status and fixed message for err.
// Validation errors also carry the list of violated rules.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	resp := MessageResponse{Message: PublicMessage(err)}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		resp.Errors = vErr.Messages
	}
	RespondWithJSON(w, HTTPStatusFromError(err), resp)
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
