package outreach

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultCallMeBotBaseURL = "https://api.callmebot.com"

// WhatsAppChannel delivers via the CallMeBot WhatsApp gateway. Without an API
// key the message is only prepared and logged, which still counts as a
// successful delivery attempt so unconfigured installs can exercise the full
// flow.
type WhatsAppChannel struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewWhatsAppChannel builds the channel. A nil client falls back to a
// timeout-bounded default.
func NewWhatsAppChannel(client *http.Client, apiKey string) *WhatsAppChannel {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WhatsAppChannel{client: client, apiKey: apiKey, baseURL: defaultCallMeBotBaseURL}
}

var _ Channel = (*WhatsAppChannel)(nil)

// Name identifies the channel in outreach results.
func (c *WhatsAppChannel) Name() string { return MethodWhatsApp }

// WithBaseURL overrides the gateway endpoint. Used by tests.
func (c *WhatsAppChannel) WithBaseURL(baseURL string) *WhatsAppChannel {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Available requires a phone number.
func (c *WhatsAppChannel) Available(target Target) bool {
	return target.Business.Phone != nil && *target.Business.Phone != ""
}

// Send delivers the subject and body as one WhatsApp text.
func (c *WhatsAppChannel) Send(ctx context.Context, target Target, msg Message) (string, error) {
	phone := *target.Business.Phone
	text := msg.Subject + "\n\n" + msg.Body

	if c.apiKey == "" {
		log.Printf("whatsapp channel unconfigured, prepared message for %s", phone)
		return fmt.Sprintf("WhatsApp message prepared for %s - requires CallMeBot setup", phone), nil
	}

	params := url.Values{}
	params.Set("phone", formatPhoneForWhatsApp(phone))
	params.Set("text", text)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/whatsapp.php?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create whatsapp request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("whatsapp gateway returned %d", resp.StatusCode)
	}
	return fmt.Sprintf("WhatsApp message sent to %s via CallMeBot", phone), nil
}

func formatPhoneForWhatsApp(phone string) string {
	return strings.NewReplacer("+", "", " ", "").Replace(phone)
}
