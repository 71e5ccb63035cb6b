// Package notify implements the best-effort notification dispatcher. Every
// event spawns one detached task with a bounded timeout; failures are logged
// and counted, never returned to the workflow that triggered them.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nexaworks/site-backend/internal/metrics"
	"github.com/nexaworks/site-backend/internal/model"
	"github.com/nexaworks/site-backend/pkg/mail"
	"github.com/nexaworks/site-backend/pkg/whatsapp"
)

// DefaultTimeout caps a single notification attempt.
const DefaultTimeout = 5 * time.Second

// Config carries the addressing and channel configuration for the Dispatcher.
type Config struct {
	// From is the sender address for outbound email.
	From string
	// AdminEmail receives new-contact alerts. Empty disables the channel.
	AdminEmail string
	// AdminPhone receives new-contact WhatsApp alerts (E.164 without "+").
	// Empty disables the channel.
	AdminPhone string
	// Timeout bounds one attempt. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Dispatcher fans notification events out to the configured channels.
// Each event gets at most one attempt per channel; there is no retry queue.
type Dispatcher struct {
	mail  mail.Sender
	texts whatsapp.TextSender
	cfg   Config

	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Either sender may be nil to disable
// that channel.
func NewDispatcher(mailSender mail.Sender, textSender whatsapp.TextSender, cfg Config) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Dispatcher{mail: mailSender, texts: textSender, cfg: cfg}
}

// NewContact alerts the admin channels about a fresh submission. Returns
// immediately; delivery happens on a detached task.
func (d *Dispatcher) NewContact(msg *model.ContactMessage) {
	subject := fmt.Sprintf("New contact from %s (%s)", msg.Name, msg.Service)
	body := fmt.Sprintf(
		"Name: %s\nEmail: %s\nPhone: %s\nCompany: %s\nService: %s\n\n%s",
		msg.Name, msg.Email, msg.Phone, msg.Company, msg.Service, msg.Message,
	)

	if d.mail != nil && d.cfg.AdminEmail != "" {
		d.dispatch("email", "new_contact", msg.ID, func(ctx context.Context) error {
			return d.mail.Send(ctx, mail.Message{
				From:    d.cfg.From,
				To:      d.cfg.AdminEmail,
				Subject: subject,
				Text:    body,
			})
		})
	}
	if d.texts != nil && d.cfg.AdminPhone != "" {
		text := fmt.Sprintf("New contact: %s <%s> about %s", msg.Name, msg.Email, msg.Service)
		d.dispatch("whatsapp", "new_contact", msg.ID, func(ctx context.Context) error {
			return d.texts.SendText(ctx, d.cfg.AdminPhone, text)
		})
	}
}

// Response emails the original submitter that an admin replied.
func (d *Dispatcher) Response(resp *model.ContactResponse, msg *model.ContactMessage) {
	if d.mail == nil || msg.Email == "" {
		return
	}
	d.dispatch("email", "response", msg.ID, func(ctx context.Context) error {
		return d.mail.Send(ctx, mail.Message{
			From:    d.cfg.From,
			To:      msg.Email,
			Subject: fmt.Sprintf("Re: your %s inquiry", msg.Service),
			Text:    resp.ResponseMessage,
		})
	})
}

// dispatch runs one attempt on its own goroutine with a bounded deadline.
// The context is detached from the triggering request so an early HTTP
// response does not cancel the attempt.
func (d *Dispatcher) dispatch(channel, event, messageID string, attempt func(context.Context) error) {
	metrics.NotificationsAttempted.WithLabelValues(channel, event).Inc()
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
		defer cancel()
		if err := attempt(ctx); err != nil {
			metrics.NotificationsFailed.WithLabelValues(channel, event).Inc()
			slog.Warn("notification failed",
				"channel", channel, "event", event,
				"contact_id", messageID, "error", err)
		}
	}()
}

// Wait blocks until all in-flight notification attempts finish. Called during
// graceful shutdown and from tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
