package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= 500 {
		logger.Error("request failed", "status", status, "error", err)
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}
