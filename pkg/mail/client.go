// Package mail provides a lightweight transactional email client for the
// Resend HTTP API. Uses raw HTTP calls (no SDK) to minimize external
// dependencies.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the Resend API endpoint.
const DefaultBaseURL = "https://api.resend.com"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("mail: not configured")

// Message is one transactional email.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
}

// Sender sends transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client is a raw HTTP client for the Resend API.
type Client struct {
	APIKey  string
	BaseURL string

	httpClient *http.Client
}

// NewClient creates a Client. An empty apiKey yields a client whose Send
// returns ErrNotConfigured; callers can treat that as "email disabled".
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ Sender = (*Client)(nil)

// Send posts the message to POST /emails.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.APIKey == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"from":    msg.From,
		"to":      []string{msg.To},
		"subject": msg.Subject,
		"text":    msg.Text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("mail: send failed: status %d: %s", res.StatusCode, snippet)
	}
	return nil
}
