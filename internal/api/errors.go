package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/starford/hogwarts/internal/apperr"
)

// APIError is the body of every error response.
type APIError struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

const genericMessage = "Something went wrong."

// WriteError maps err to a status code and writes an APIError.
// Invalid arguments become 400 and upstream failures 503; anything else is
// logged and reported as a 500 without detail.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	msg, _ := apperr.Message(err)
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		writeAPIError(w, r, http.StatusBadRequest, "Bad request", msg)
	case errors.Is(err, apperr.ErrUpstreamUnavailable):
		slog.Warn("upstream unavailable",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		writeAPIError(w, r, http.StatusServiceUnavailable, "External API error", msg)
	default:
		slog.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		writeAPIError(w, r, http.StatusInternalServerError, "Internal server error", genericMessage)
	}
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, label, msg string) {
	writeJSON(w, status, APIError{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     label,
		Message:   msg,
		Path:      r.URL.Path,
	})
}

// NotFound writes a 404 APIError for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeAPIError(w, r, http.StatusNotFound, "Not found", "no route for "+r.URL.Path)
}

// MethodNotAllowed writes a 405 APIError.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeAPIError(w, r, http.StatusMethodNotAllowed, "Method not allowed", r.Method+" is not supported")
}
