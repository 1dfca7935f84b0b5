package handler

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/leadlift/webtracker/api/internal/dto"
	"github.com/leadlift/webtracker/api/internal/outreach"
)

// OutreachHandler exposes the bulk outreach endpoint.
type OutreachHandler struct {
	dispatcher *outreach.Dispatcher
}

// NewOutreachHandler creates a new handler instance.
func NewOutreachHandler(dispatcher *outreach.Dispatcher) *OutreachHandler {
	return &OutreachHandler{dispatcher: dispatcher}
}

// SendBulk handles POST /send-bulk-email requests.
func (h *OutreachHandler) SendBulk(c echo.Context) error {
	var req dto.BulkOutreachRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Template = strings.TrimSpace(req.Template)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	req.SenderEmail = strings.TrimSpace(req.SenderEmail)
	req.SenderName = strings.TrimSpace(req.SenderName)

	if len(req.BusinessIDs) == 0 {
		return Error(c, http.StatusBadRequest, "businessIds is required")
	}
	if req.Subject == "" || req.Message == "" {
		return Error(c, http.StatusBadRequest, "subject and message are required")
	}
	if req.SenderName == "" {
		return Error(c, http.StatusBadRequest, "senderName is required")
	}
	if _, err := mail.ParseAddress(req.SenderEmail); err != nil {
		return Error(c, http.StatusBadRequest, "invalid senderEmail")
	}

	summary, err := h.dispatcher.Dispatch(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, outreach.ErrNoTargets) {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		return Error(c, http.StatusInternalServerError, "bulk outreach failed")
	}

	return Success(c, http.StatusOK, summary.Message, summary)
}
