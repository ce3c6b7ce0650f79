package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/spacesedan/tickerpulse/internal/errs"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("[API] Failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError maps err onto its HTTP status and the public error body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errs.HTTPStatus(err), errorResponse{
		Error: errs.PublicMessage(err),
		Kind:  string(errs.KindOf(err)),
	})
}
