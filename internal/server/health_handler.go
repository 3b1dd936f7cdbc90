package server

import (
	"net/http"

	"trustcheck/internal/json"
)

// ServeHealth handles the "/health" route
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	json.Write(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
