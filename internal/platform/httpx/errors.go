package httpx

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

// BadRequest sends a 400 failure envelope. The reason travels in the
// error detail list and the message stays the generic "Bad Request", the
// same shape validation failures use.
func BadRequest(w http.ResponseWriter, reason string) {
	Fail(w, http.StatusBadRequest, "Bad Request", []string{reason})
}

// Unauthorized sends a 401 failure envelope.
func Unauthorized(w http.ResponseWriter, message string) {
	Fail(w, http.StatusUnauthorized, message, nil)
}

// Internal sends a 500 failure envelope with a generic message. The real
// cause is logged server-side, never returned to the client.
func Internal(w http.ResponseWriter) {
	Fail(w, http.StatusInternalServerError, "Internal server error", nil)
}

// ValidationFailed sends a 400 envelope carrying one entry per failed field.
func ValidationFailed(w http.ResponseWriter, err error) {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		BadRequest(w, "Bad Request")
		return
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, fe.Field()+" failed on "+fe.Tag())
	}
	Fail(w, http.StatusBadRequest, "Bad Request", details)
}
