// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/trailbook/trailbook/internal/handler/dto"
	"github.com/trailbook/trailbook/internal/middleware"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeMessage writes a bare success envelope.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.Envelope{Error: false, Message: message})
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.Envelope{Error: true, Message: message})
}

// writeServerError logs the underlying cause with the request ID and
// returns a generic 500 envelope. Store and filesystem errors are never
// echoed to clients.
func writeServerError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.Error("request failed",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, "Something went wrong")
}

// NotFound handles 404 responses for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
