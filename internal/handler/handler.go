package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nexaworks/site-backend/internal/metrics"
	"github.com/nexaworks/site-backend/internal/repository"
	"github.com/nexaworks/site-backend/internal/service"
)

// Handler holds shared dependencies for non-resource endpoints (health).
type Handler struct {
	db repository.DB
}

// New creates the base Handler.
func New(db repository.DB) *Handler {
	return &Handler{db: db}
}

// writeJSON writes a success envelope. Extra payload keys are passed through
// so each endpoint can name its data field (contact, contacts, response).
func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes a failure envelope with a stable machine-readable kind.
func writeError(w http.ResponseWriter, status int, kind, message string, fields []service.FieldError) {
	body := map[string]any{
		"success": false,
		"error":   kind,
		"message": message,
	}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeServiceError maps the workflow error taxonomy to HTTP status codes.
// Internal detail (driver messages, ids) stays out of the client payload.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr *service.ValidationError
		transitionErr *service.TransitionError
		constraintErr *repository.ConstraintError
		transientErr  *repository.TransientError
		partialErr    *repository.PartialWriteError
	)

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_failed",
			"one or more fields are invalid", validationErr.Fields)
	case errors.As(err, &transitionErr):
		writeError(w, http.StatusBadRequest, "invalid_transition", transitionErr.Error(), nil)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "record not found", nil)
	case errors.As(err, &partialErr):
		metrics.PartialWrites.Inc()
		slog.Error("partial write needs reconciliation",
			"response_id", partialErr.ResponseID, "error", err)
		writeError(w, http.StatusInternalServerError, "partial_write",
			"response recorded but message update failed", nil)
	case errors.Is(err, repository.ErrDuplicate), errors.As(err, &constraintErr):
		writeError(w, http.StatusBadGateway, "storage_rejected",
			"the storage layer rejected the write", nil)
	case errors.As(err, &transientErr):
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable",
			"the storage layer is temporarily unavailable", nil)
	default:
		slog.Error("unhandled error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error",
			"an unexpected error occurred", nil)
	}
}
