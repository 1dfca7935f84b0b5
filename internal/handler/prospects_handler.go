package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/leadlift/webtracker/api/internal/dto"
	"github.com/leadlift/webtracker/api/internal/entity"
	"github.com/leadlift/webtracker/api/internal/outreach"
	"github.com/leadlift/webtracker/api/internal/repository"
)

// InterestNotifier sends a courtesy message to the operator when a prospect
// turns interested. Delivery failures must never surface to the caller.
type InterestNotifier interface {
	NotifyOperator(ctx context.Context, to string, msg outreach.Message) (string, error)
}

// ProspectsHandler exposes the stored-prospect endpoints.
type ProspectsHandler struct {
	prospects         repository.ProspectRepository
	notifier          InterestNotifier
	notificationEmail string
}

// NewProspectsHandler creates a new handler instance. notifier may be nil
// when no outbound email channel is configured.
func NewProspectsHandler(prospects repository.ProspectRepository, notifier InterestNotifier, notificationEmail string) *ProspectsHandler {
	return &ProspectsHandler{
		prospects:         prospects,
		notifier:          notifier,
		notificationEmail: notificationEmail,
	}
}

// List handles GET /businesses requests.
func (h *ProspectsHandler) List(c echo.Context) error {
	filter := dto.BusinessFilter{
		ContactStatus: strings.TrimSpace(c.QueryParam("contactStatus")),
		Category:      strings.TrimSpace(c.QueryParam("category")),
	}
	if noWebsite := strings.TrimSpace(c.QueryParam("noWebsiteOnly")); noWebsite != "" {
		parsed, err := strconv.ParseBool(noWebsite)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid noWebsiteOnly")
		}
		filter.NoWebsiteOnly = parsed
	}
	if filter.ContactStatus != "" && !entity.ContactStatus(filter.ContactStatus).Valid() {
		return Error(c, http.StatusBadRequest, "invalid contactStatus")
	}

	businesses, err := h.prospects.List(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list businesses")
	}

	return Success(c, http.StatusOK, "businesses retrieved", businesses)
}

// UpdateContact handles PATCH /businesses/:id/contact requests.
func (h *ProspectsHandler) UpdateContact(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid business id")
	}

	var req dto.UpdateContactRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	status := entity.ContactStatus(strings.TrimSpace(req.ContactStatus))
	if !status.Valid() {
		return Error(c, http.StatusBadRequest, "invalid contactStatus")
	}

	business, err := h.prospects.UpdateContact(c.Request().Context(), id, repository.ContactPatch{
		ContactStatus: &status,
		Notes:         req.Notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return Error(c, http.StatusNotFound, "business not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to update contact status")
	}

	if status == entity.StatusInterested {
		h.notifyInterest(c.Request().Context(), business, req.NotificationEmail)
	}

	return Success(c, http.StatusOK, "contact status updated", business)
}

// notifyInterest emails the operator about a newly interested prospect.
// Best-effort only; any failure is logged and swallowed.
func (h *ProspectsHandler) notifyInterest(ctx context.Context, business *entity.Business, override string) {
	if h.notifier == nil {
		return
	}
	to := strings.TrimSpace(override)
	if to == "" {
		to = h.notificationEmail
	}
	if to == "" {
		return
	}

	msg := outreach.Message{
		Subject: fmt.Sprintf("Interested lead: %s", business.Name),
		Body: fmt.Sprintf("%s (%s) was marked as interested. Address: %s",
			business.Name, business.Category, business.Address),
	}
	if _, err := h.notifier.NotifyOperator(ctx, to, msg); err != nil {
		log.Printf("interest notification for business %d failed: %v", business.ID, err)
	}
}

// Export handles GET /export requests and streams the no-website prospects
// as a CSV attachment.
func (h *ProspectsHandler) Export(c echo.Context) error {
	businesses, err := h.prospects.ListWithoutWebsite(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to export businesses")
	}

	var sb strings.Builder
	sb.WriteString("Name,Category,Address,Phone,Rating,Contact Status,Notes\n")
	for _, b := range businesses {
		rating := ""
		if b.Rating != nil {
			rating = strconv.FormatFloat(*b.Rating, 'f', -1, 64)
		}
		notes := ""
		if b.Notes != nil {
			notes = *b.Notes
		}
		row := []string{
			csvQuote(b.Name),
			csvQuote(b.Category),
			csvQuote(b.Address),
			csvQuote(derefString(b.Phone)),
			rating,
			csvQuote(string(b.ContactStatus)),
			csvQuote(notes),
		}
		sb.WriteString(strings.Join(row, ","))
		sb.WriteByte('\n')
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="businesses-without-websites.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(sb.String()))
}

// csvQuote wraps a text field in double quotes, doubling any embedded quote.
func csvQuote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
