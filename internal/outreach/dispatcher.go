package outreach

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/leadlift/webtracker/api/internal/dto"
	"github.com/leadlift/webtracker/api/internal/entity"
	"github.com/leadlift/webtracker/api/internal/repository"
	"github.com/leadlift/webtracker/api/internal/service"
)

// ErrNoTargets indicates that none of the requested ids resolved to a stored
// prospect; treated as a client error at the REST boundary.
var ErrNoTargets = errors.New("no valid businesses found for the provided ids")

const defaultInterBusinessDelay = 500 * time.Millisecond

// EmailDiscoverer finds a transient contact address for a prospect that has
// a website but no stored email.
type EmailDiscoverer interface {
	FindBusinessEmail(ctx context.Context, business *entity.Business) service.EmailSearchResult
}

// Dispatcher runs bulk outreach: one business at a time, channels tried in
// priority order, first success wins. The inter-business pause is a
// deliberate throttle against upstream gateways, not a correctness mechanism.
type Dispatcher struct {
	prospects repository.ProspectRepository
	channels  []Channel
	finder    EmailDiscoverer
	limiter   *rate.Limiter
}

// NewDispatcher wires the dispatcher. Channels are attempted in slice order;
// finder may be nil to disable email discovery.
func NewDispatcher(prospects repository.ProspectRepository, channels []Channel, finder EmailDiscoverer, delay time.Duration) *Dispatcher {
	if delay <= 0 {
		delay = defaultInterBusinessDelay
	}
	return &Dispatcher{
		prospects: prospects,
		channels:  channels,
		finder:    finder,
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Dispatch contacts every requested business. Whether delivery succeeded or
// every channel failed, the business ends up marked contacted with its notes
// overwritten by the outcome, so no business is attempted twice.
func (d *Dispatcher) Dispatch(ctx context.Context, req dto.BulkOutreachRequest) (*dto.OutreachSummary, error) {
	targets := make([]entity.Business, 0, len(req.BusinessIDs))
	for _, id := range req.BusinessIDs {
		business, err := d.prospects.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrBusinessNotFound) {
				continue
			}
			return nil, fmt.Errorf("load business %d: %w", id, err)
		}
		targets = append(targets, *business)
	}
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	sender := Sender{Name: req.SenderName, Email: req.SenderEmail}
	summary := &dto.OutreachSummary{TotalProcessed: len(targets)}

	for i := range targets {
		business := &targets[i]

		if err := d.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("outreach throttle: %w", err)
		}

		msg := RenderTemplate(req.Template, business.Name, sender)
		method, detail, delivered := d.contact(ctx, business, sender, msg)

		switch {
		case !delivered:
			summary.FailureCount++
		case method == MethodEmail:
			summary.EmailSuccessCount++
		default:
			summary.SMSSuccessCount++
		}

		status := entity.StatusContacted
		notes := fmt.Sprintf("%s (Template: %s)", detail, req.Template)
		if _, err := d.prospects.UpdateContact(ctx, business.ID, repository.ContactPatch{
			ContactStatus: &status,
			Notes:         &notes,
		}); err != nil {
			return nil, fmt.Errorf("record outreach for business %d: %w", business.ID, err)
		}

		summary.Results = append(summary.Results, dto.OutreachResult{
			BusinessID: business.ID,
			Business:   business.Name,
			Method:     method,
			Details:    detail,
		})
	}

	contacted := summary.EmailSuccessCount + summary.SMSSuccessCount
	summary.Message = fmt.Sprintf(
		"Contacted %d businesses successfully (%d emails, %d SMS). %d failed.",
		contacted, summary.EmailSuccessCount, summary.SMSSuccessCount, summary.FailureCount,
	)
	return summary, nil
}

// contact walks the channel chain for one business and reports the channel
// used, the human-readable detail and whether any channel succeeded.
func (d *Dispatcher) contact(ctx context.Context, business *entity.Business, sender Sender, msg Message) (method, detail string, delivered bool) {
	target := Target{Business: business, Email: d.resolveEmail(ctx, business), Sender: sender}

	lastFailure := "No contact methods available"
	for _, channel := range d.channels {
		if !channel.Available(target) {
			continue
		}

		result, err := channel.Send(ctx, target, msg)
		if err != nil {
			log.Printf("outreach channel %s failed for business %d: %v", channel.Name(), business.ID, err)
			lastFailure = fmt.Sprintf("%s channel failed: %v", channel.Name(), err)
			continue
		}
		return channel.Name(), result, true
	}
	return "failed", lastFailure, false
}

func (d *Dispatcher) resolveEmail(ctx context.Context, business *entity.Business) string {
	if business.Email != nil && *business.Email != "" {
		return *business.Email
	}
	if d.finder == nil || business.Website == nil {
		return ""
	}
	return d.finder.FindBusinessEmail(ctx, business).Email
}
