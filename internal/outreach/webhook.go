package outreach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

// WebhookChannel is the terminal fallback: it forwards the business and the
// prepared message to an automation webhook (Zapier, n8n and the like) for
// manual follow-up. It is always available; without a configured URL the
// payload is only logged, which still counts as delivered.
type WebhookChannel struct {
	client     *http.Client
	webhookURL string
}

// NewWebhookChannel builds the channel. If client is nil and a URL is
// configured, an ID-token client is created for authenticated
// service-to-service calls, falling back to a plain timeout-bounded client.
func NewWebhookChannel(client *http.Client, webhookURL string) *WebhookChannel {
	webhookURL = strings.TrimRight(webhookURL, "/")
	if client == nil {
		if webhookURL != "" {
			if idc, err := idtoken.NewClient(context.Background(), webhookURL); err == nil {
				client = idc
			}
		}
		if client == nil {
			client = &http.Client{Timeout: 10 * time.Second}
		}
	}
	return &WebhookChannel{client: client, webhookURL: webhookURL}
}

var _ Channel = (*WebhookChannel)(nil)

// Name identifies the channel in outreach results.
func (c *WebhookChannel) Name() string { return MethodWebhook }

// Available always holds; the webhook is the guaranteed last resort.
func (c *WebhookChannel) Available(target Target) bool { return true }

type webhookBusiness struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Address  string  `json:"address"`
	Category string  `json:"category"`
}

type webhookOutreach struct {
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

type webhookPayload struct {
	Timestamp string          `json:"timestamp"`
	Business  webhookBusiness `json:"business"`
	Outreach  webhookOutreach `json:"outreach"`
}

// Send posts the follow-up envelope to the automation webhook.
func (c *WebhookChannel) Send(ctx context.Context, target Target, msg Message) (string, error) {
	business := target.Business
	payload := webhookPayload{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Business: webhookBusiness{
			ID:       business.ID,
			Name:     business.Name,
			Phone:    business.Phone,
			Email:    business.Email,
			Address:  business.Address,
			Category: business.Category,
		},
		Outreach: webhookOutreach{
			Subject:  msg.Subject,
			Message:  msg.Body,
			Priority: "high",
		},
	}

	if c.webhookURL == "" {
		log.Printf("webhook channel unconfigured, logged follow-up for business %d (%s)", business.ID, business.Name)
		return "Business data sent to automation webhook for manual follow-up", nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return "Business data sent to automation webhook for manual follow-up", nil
}
