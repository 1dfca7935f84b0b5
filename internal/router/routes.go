package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadlift/webtracker/api/internal/config"
	"github.com/leadlift/webtracker/api/internal/handler"
	middlewarepkg "github.com/leadlift/webtracker/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Search    *handler.SearchHandler
	Prospects *handler.ProspectsHandler
	Stats     *handler.StatsHandler
	Outreach  *handler.OutreachHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/search", handlers.Search.Search, middlewarepkg.SearchRateLimiter(cfg.RateLimitSearch))

	e.GET("/businesses", handlers.Prospects.List)
	e.PATCH("/businesses/:id/contact", handlers.Prospects.UpdateContact)
	e.GET("/export", handlers.Prospects.Export)

	e.GET("/stats", handlers.Stats.Stats)
	e.GET("/search-history", handlers.Stats.History)

	e.POST("/send-bulk-email", handlers.Outreach.SendBulk)
}
