package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Failure is the body every failed API call returns.
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write JSON", "error", err)
	}
}

// WriteError writes a failure whose error field is the HTTP status text.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteFailure(w, status, http.StatusText(status), msg, "")
}

// WriteFailure writes a failure carrying an application error code.
func WriteFailure(w http.ResponseWriter, status int, code, msg, hint string) {
	WriteJSON(w, status, Failure{Error: code, Message: msg, Hint: hint})
}
