// Package response writes the JSON envelope every API response is wrapped in.
// Huma operations get it through the API's transformer; plain chi handlers
// and middleware write it with HandleError.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	domainerrors "github.com/shelfnote/shelfnote-server/internal/errors"
)

// Version is the envelope format version carried in "v".
const Version = 1

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	V       int        `json:"v"`
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the error half of the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Wrap builds a success envelope around data.
func Wrap(data any) Envelope {
	return Envelope{V: Version, Success: true, Data: data}
}

// WrapError builds an error envelope.
func WrapError(code, message string, details any) Envelope {
	return Envelope{
		V:     Version,
		Error: &ErrorBody{Code: code, Message: message, Details: details},
	}
}

// HandleError writes the envelope for err. Domain errors keep their code and
// status; anything else is an opaque 500.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		write(w, domainErr.HTTPStatus(), WrapError(string(domainErr.Code), domainErr.Message, domainErr.Details), logger)
		return
	}

	if logger != nil {
		logger.Error("unhandled error", "error", err)
	}
	write(w, http.StatusInternalServerError, WrapError(string(domainerrors.CodeInternal), "internal server error", nil), logger)
}

func write(w http.ResponseWriter, status int, env Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}
