// Package whatsapp provides a lightweight WhatsApp Cloud API client
// (Meta Graph API). Uses raw HTTP calls (no SDK) to minimize external
// dependencies.
package whatsapp

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the Graph API endpoint including version.
const DefaultBaseURL = "https://graph.facebook.com/v19.0"

// ErrNotConfigured is returned when access token or phone number id is unset.
var ErrNotConfigured = errors.New("whatsapp: not configured")

// TextSender sends a plain text WhatsApp message.
type TextSender interface {
	SendText(ctx context.Context, to, body string) error
}

// Client is a raw HTTP client for the WhatsApp Cloud API.
type Client struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string

	httpClient *http.Client
}

// NewClient creates a Client. Empty credentials yield a client whose SendText
// returns ErrNotConfigured; callers can treat that as "whatsapp disabled".
func NewClient(accessToken, phoneNumberID, verifyToken string) *Client {
	return &Client{
		AccessToken:   accessToken,
		PhoneNumberID: phoneNumberID,
		VerifyToken:   verifyToken,
		BaseURL:       DefaultBaseURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

var _ TextSender = (*Client)(nil)

// SendText posts a text message to POST /{phone-number-id}/messages.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	if c.AccessToken == "" || c.PhoneNumberID == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": body},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.BaseURL, c.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("whatsapp: send failed: status %d: %s", res.StatusCode, snippet)
	}
	return nil
}

// VerifyWebhook implements the Cloud API webhook handshake: Meta calls
// GET /webhooks/whatsapp with hub.mode, hub.verify_token and hub.challenge,
// and expects the challenge echoed back when the token matches.
func (c *Client) VerifyWebhook(mode, token string) bool {
	if c.VerifyToken == "" {
		return false
	}
	return mode == "subscribe" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(c.VerifyToken)) == 1
}
