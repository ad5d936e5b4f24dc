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
	"github.com/joho/godotenv"

	httpapi "weather-reporter/internal/api/http"
	"weather-reporter/internal/config"
	"weather-reporter/internal/job"
	"weather-reporter/internal/report"
	"weather-reporter/internal/scheduler"
	"weather-reporter/internal/store"
	"weather-reporter/internal/weather"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound API calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	fetcher := weather.NewOpenWeatherFetcher(httpClient, cfg.OpenWeatherAPIKey)
	collector := weather.NewCollector(fetcher, cfg.Cities, cfg.FetchDelay)
	writer := report.NewWriter(cfg.ReportDir)
	mailer := report.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail, cfg.SenderPassword, cfg.ReceiverEmail)

	// In-memory run history with configured retention.
	history := store.NewRunHistory(cfg.HistoryMaxRuns, cfg.HistoryMaxAge)

	// One unit of work: collect -> write -> mail.
	dailyJob := job.New(collector, writer, mailer, history)

	// Scheduler firing the job once per day at the configured local time,
	// bounded by how long the full city list can legitimately take.
	runTimeout := scheduler.RunTimeout(len(cfg.Cities), cfg.FetchDelay, cfg.HTTPTimeout)
	sched := scheduler.New(cfg.ScheduleAt, runTimeout, dailyJob)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-reporter",
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
			"service": "weather-reporter",
		})
	})

	// Operational API routes.
	httpapi.RegisterRoutes(app, history, dailyJob)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
