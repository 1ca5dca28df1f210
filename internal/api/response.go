// ABOUTME: JSON response helpers for the HTTP API.
// ABOUTME: Errors are reported as {"error": "..."} with a status derived from the error kind.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harperreed/trainer/internal/coach"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// errBadRequest marks malformed query parameters and bodies.
var errBadRequest = errors.New("bad request")

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := coach.HTTPStatus(err)
	if errors.Is(err, errBadRequest) {
		status = http.StatusBadRequest
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeErrorMessage(w, status, "internal error")
		return
	}
	writeErrorMessage(w, status, err.Error())
}
