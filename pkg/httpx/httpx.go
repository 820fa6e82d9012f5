// Package httpx renders the JSON envelope every dashd endpoint speaks:
// {"status":"success"|"error", "data":..., "message":...}.
package httpx

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// WriteData writes a success envelope carrying data.
func WriteData(w http.ResponseWriter, statusCode int, data any) {
	write(w, statusCode, envelope{Status: "success", Data: data})
}

// WriteMessage writes a success envelope carrying only a message.
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	write(w, statusCode, envelope{Status: "success", Message: message})
}

// WriteResult writes a success envelope carrying both a message and data.
func WriteResult(w http.ResponseWriter, statusCode int, message string, data any) {
	write(w, statusCode, envelope{Status: "success", Message: message, Data: data})
}

// WriteError writes an error envelope. The message is caller-facing and
// must not reveal whether a protected resource exists to callers who were
// rejected before authentication.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	write(w, statusCode, envelope{Status: "error", Message: message})
}

func write(w http.ResponseWriter, statusCode int, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
