package outreach

import (
	"context"

	"github.com/leadlift/webtracker/api/internal/entity"
)

// Channel method names, also used for per-method success accounting.
const (
	MethodWhatsApp = "whatsapp"
	MethodSMS      = "sms"
	MethodEmail    = "email"
	MethodWebhook  = "webhook"
)

// Target is the per-business delivery context. Email carries the stored or
// discovered address and may be empty; Sender identifies the operator for
// channels that need a from-address.
type Target struct {
	Business *entity.Business
	Email    string
	Sender   Sender
}

// Channel is one outreach delivery mechanism. Channels are tried in priority
// order; the first successful Send wins and no channel is retried.
type Channel interface {
	Name() string
	// Available reports whether the channel can address this target at all
	// (e.g. a phone number is present).
	Available(target Target) bool
	// Send attempts delivery and returns a human-readable detail string.
	Send(ctx context.Context, target Target, msg Message) (string, error)
}
