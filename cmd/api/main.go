package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/leadlift/webtracker/api/internal/config"
	"github.com/leadlift/webtracker/api/internal/database"
	"github.com/leadlift/webtracker/api/internal/handler"
	middlewarepkg "github.com/leadlift/webtracker/api/internal/middleware"
	"github.com/leadlift/webtracker/api/internal/outreach"
	"github.com/leadlift/webtracker/api/internal/repository"
	"github.com/leadlift/webtracker/api/internal/router"
	"github.com/leadlift/webtracker/api/internal/service"
	"github.com/leadlift/webtracker/api/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		prospects repository.ProspectRepository
		history   repository.SearchHistoryRepository
	)
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("failed to ensure schema: %v", err)
		}

		prospects = repository.NewPGXProspectRepository(pool)
		history = repository.NewPGXSearchHistoryRepository(pool)
	} else {
		log.Println("DATABASE_URL not set, using in-memory store")
		prospects = repository.NewMemoryProspectRepository()
		history = repository.NewMemorySearchHistoryRepository()
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}

	adapters := []source.Adapter{}
	if cfg.GooglePlacesAPIKey != "" {
		adapters = append(adapters, source.NewGooglePlacesAdapter(httpClient, cfg.GooglePlacesAPIKey))
	}
	adapters = append(adapters, source.NewOSMAdapter(httpClient), source.NewSampleAdapter())

	ingestService := service.NewIngestService(adapters, prospects, history, cfg.PhoneRegion)
	emailFinder := service.NewEmailFinder(service.WithHTTPClient(httpClient))

	emailChannel := outreach.NewEmailChannel(httpClient, cfg.SendGridAPIKey, cfg.NotificationEmail)
	channels := []outreach.Channel{
		outreach.NewWhatsAppChannel(httpClient, cfg.CallMeBotAPIKey),
		outreach.NewSMSChannel(httpClient, cfg.TextBeltKey),
		emailChannel,
		outreach.NewWebhookChannel(nil, cfg.OutreachWebhookURL),
	}
	dispatcher := outreach.NewDispatcher(prospects, channels, emailFinder, cfg.OutreachDelay)

	handlers := router.Handlers{
		Search:    handler.NewSearchHandler(ingestService),
		Prospects: handler.NewProspectsHandler(prospects, emailChannel, cfg.NotificationEmail),
		Stats:     handler.NewStatsHandler(prospects, history),
		Outreach:  handler.NewOutreachHandler(dispatcher),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
