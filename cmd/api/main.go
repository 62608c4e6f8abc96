package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"leadengine/internal/auth"
	"leadengine/internal/config"
	"leadengine/internal/database"
	"leadengine/internal/database/migration"
	handlers "leadengine/internal/http/handler"
	"leadengine/internal/http/middleware"
	"leadengine/internal/mailer"
	"leadengine/internal/otel"
	"leadengine/internal/queue"
	"leadengine/internal/repository/postgres"
	"leadengine/internal/service"
	"leadengine/internal/storage"
	"leadengine/internal/whop"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx := context.Background()

	// Initialize OpenTelemetry tracing (no-op when OTEL_SDK_DISABLED=true)
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Outreach dispatch queue; messages are consumed by cmd/worker
	dispatchQueue, err := queue.NewAMQP(cfg.AMQP)
	if err != nil {
		log.Fatalf("failed to connect to message broker: %v", err)
	}
	defer dispatchQueue.Close()

	// Outbound clients
	platform := whop.NewClient(cfg.Platform)
	mail, err := mailer.NewHTTP(cfg.Mailer)
	if err != nil {
		log.Fatalf("failed to initialize mailer: %v", err)
	}

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		log.Fatalf("failed to initialize token manager: %v", err)
	}

	// Initialize repositories and services
	userRepo := postgres.NewUserPostgres(db)
	leadRepo := postgres.NewLeadPostgres(db)
	memberRepo := postgres.NewMemberPostgres(db)
	campaignRepo := postgres.NewCampaignPostgres(db)
	analyticsRepo := postgres.NewAnalyticsPostgres(db)
	billingRepo := postgres.NewBillingPostgres(db)

	svcs := handlers.Services{
		Auth:      service.NewAuthService(userRepo, hasher, tokens),
		Leads:     service.NewLeadService(leadRepo, objStore),
		Members:   service.NewMemberService(memberRepo, platform, mail),
		Campaigns: service.NewCampaignService(campaignRepo, leadRepo, dispatchQueue, mail),
		Analytics: service.NewAnalyticsService(analyticsRepo),
		Billing:   service.NewBillingService(userRepo, memberRepo, billingRepo),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	promReg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMW, err := middleware.NewPrometheusMiddleware(promReg)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}
	app.Use(promMW.Handler())

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, svcs, cfg.Billing.WebhookSecret, promReg)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
