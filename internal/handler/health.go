package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Health handles GET /health. Reports unhealthy when the database does not
// answer a ping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := h.db.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:    "unhealthy",
			Message:   "database unreachable",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    "ok",
		Message:   "NexaWorks contact API",
		Timestamp: time.Now().UTC(),
	})
}
