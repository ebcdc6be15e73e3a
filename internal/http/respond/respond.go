// Package respond writes JSON responses and turns unhandled handler errors
// into a final 500 response.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type messageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Message writes {"message": msg} with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, messageResponse{Message: msg})
}

// HandlerFunc is an http handler that may give up on an error it does not
// know how to report. Such errors are logged and answered with a generic 500.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

func (fn HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := fn(w, r); err != nil {
		slog.ErrorContext(r.Context(), "unhandled request error",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)

		Message(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// Unauthorized answers 401 with the standard body.
var Unauthorized = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	Message(w, http.StatusUnauthorized, "Unauthorized")
})

// MethodNotAllowed answers 405 with the standard body.
var MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	Message(w, http.StatusMethodNotAllowed, "Method Not Allowed")
})
