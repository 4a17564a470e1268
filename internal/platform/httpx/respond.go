// Package httpx provides JSON response utilities built around the API's
// uniform {success, message, error, data} envelope.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response shape shared by every JSON endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   any    `json:"error"`
	Data    any    `json:"data"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success sends a success envelope.
func Success(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail sends a failure envelope.
func Fail(w http.ResponseWriter, status int, message string, errDetail any) {
	JSON(w, status, Envelope{
		Success: false,
		Message: message,
		Error:   errDetail,
	})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
