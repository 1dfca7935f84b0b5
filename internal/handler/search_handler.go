package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/leadlift/webtracker/api/internal/dto"
	"github.com/leadlift/webtracker/api/internal/service"
)

const (
	minSearchRadiusKm = 1
	maxSearchRadiusKm = 50
)

// SearchHandler exposes the business discovery endpoint.
type SearchHandler struct {
	ingest *service.IngestService
}

// NewSearchHandler creates a new handler instance.
func NewSearchHandler(ingest *service.IngestService) *SearchHandler {
	return &SearchHandler{ingest: ingest}
}

// Search handles POST /search requests.
func (h *SearchHandler) Search(c echo.Context) error {
	var req dto.SearchRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Location = strings.TrimSpace(req.Location)
	req.Category = strings.TrimSpace(req.Category)

	if req.Location == "" {
		return Error(c, http.StatusBadRequest, "location is required")
	}
	if req.Radius < minSearchRadiusKm || req.Radius > maxSearchRadiusKm {
		return Error(c, http.StatusBadRequest, "radius must be between 1 and 50 km")
	}

	result, err := h.ingest.Ingest(c.Request().Context(), req.Location, req.Category, req.Radius)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "search failed")
	}

	return Success(c, http.StatusOK, "search completed", result)
}
