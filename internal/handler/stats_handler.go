package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadlift/webtracker/api/internal/repository"
)

// StatsHandler exposes the aggregate counters and the search log.
type StatsHandler struct {
	prospects repository.ProspectRepository
	history   repository.SearchHistoryRepository
}

// NewStatsHandler creates a new handler instance.
func NewStatsHandler(prospects repository.ProspectRepository, history repository.SearchHistoryRepository) *StatsHandler {
	return &StatsHandler{prospects: prospects, history: history}
}

// Stats handles GET /stats requests.
func (h *StatsHandler) Stats(c echo.Context) error {
	stats, err := h.prospects.Stats(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to compute stats")
	}
	return Success(c, http.StatusOK, "stats retrieved", stats)
}

// History handles GET /search-history requests.
func (h *StatsHandler) History(c echo.Context) error {
	entries, err := h.history.List(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list search history")
	}
	return Success(c, http.StatusOK, "search history retrieved", entries)
}
