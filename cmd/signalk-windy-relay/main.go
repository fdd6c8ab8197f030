package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "signalk-windy-relay/internal/api/http"
	"signalk-windy-relay/internal/config"
	"signalk-windy-relay/internal/relay"
	"signalk-windy-relay/internal/scheduler"
	"signalk-windy-relay/internal/signalk"
	"signalk-windy-relay/internal/windy"
)

func main() {
	// Load configuration. Fails fast when WINDY_API_KEY is missing.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound Windy calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	windyClient := windy.NewClient(httpClient, windy.DefaultBaseURL, cfg.WindyAPIKey)

	buf := relay.NewBuffer()
	ingestor := relay.NewIngestor(relay.NewPathMapping(cfg.Paths), buf, cfg.Debug)

	service := relay.NewService(buf, windyClient, windy.StationMeta{
		ID:       cfg.StationID,
		Name:     cfg.StationName,
		Provider: cfg.Provider,
		URL:      cfg.StationURL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Subscription feed from the Signal K server.
	stream, err := signalk.NewClient(cfg.SignalKURL, cfg.Paths.All(), ingestor.Ingest)
	if err != nil {
		log.Fatalf("invalid SIGNALK_URL: %v", err)
	}

	go func() {
		if err := stream.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("signalk stream stopped: %v", err)
		}
	}()

	// Submit and status timers.
	sched := scheduler.New(cfg.SubmitInterval, cfg.StatusInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "signalk-windy-relay",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "signalk-windy-relay",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	log.Printf("INFO: relaying station %d to Windy every %s", cfg.StationID, cfg.SubmitInterval)

	// Wait for termination signal
	<-ctx.Done()

	log.Printf("INFO: shutting down; final status: %s", service.UpdateStatus())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
