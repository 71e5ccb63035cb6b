package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/nexaworks/site-backend/pkg/whatsapp"
)

// WebhookHandler serves the WhatsApp Cloud API webhook endpoints.
type WebhookHandler struct {
	wa *whatsapp.Client
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(wa *whatsapp.Client) *WebhookHandler {
	return &WebhookHandler{wa: wa}
}

// Verify handles GET /webhooks/whatsapp, the Meta subscription handshake:
// echo hub.challenge when hub.verify_token matches ours.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !h.wa.VerifyWebhook(q.Get("hub.mode"), q.Get("hub.verify_token")) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(q.Get("hub.challenge")))
}

// Receive handles POST /webhooks/whatsapp. Inbound events (delivery statuses,
// replies) are logged and acknowledged; Meta retries on non-200 so the body
// is drained and 200 returned even when we do nothing with it.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	slog.Debug("whatsapp webhook event", "bytes", len(body))
	w.WriteHeader(http.StatusOK)
}
