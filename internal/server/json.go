package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/FAU-CDI/nightcap/internal/triplestore"
	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
	"github.com/FAU-CDI/nightcap/pkg/protocol"
	"github.com/FAU-CDI/nightcap/pkg/term"
)

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(value)
}

func writeText(w http.ResponseWriter, value string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(value + "\n"))
}

// statusOf returns the http status code to report err with
func statusOf(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, protocol.ErrSyntax),
		errors.Is(err, term.ErrValidation),
		errors.Is(err, term.ErrUnsupportedPosition):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, impl.ErrConcurrencyViolation):
		return http.StatusConflict
	case errors.Is(err, triplestore.ErrClosed),
		errors.Is(err, triplestore.ErrFailed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err to w.
// Server errors are logged.
func (server *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		server.Stats.LogError("request", err, "method", r.Method, "path", r.URL.Path)
	}
	http.Error(w, err.Error(), status)
}
