package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"leadengine/internal/config"
	"leadengine/internal/database"
	"leadengine/internal/mailer"
	"leadengine/internal/otel"
	"leadengine/internal/queue"
	"leadengine/internal/repository/postgres"
	"leadengine/internal/service"
)

// The worker drains the outreach queue: each job references a queued
// message, which is rendered into an email and delivered. Failed jobs are
// redelivered by the broker until the retry budget is exhausted.
func main() {
	cfg := config.Load()
	loc := time.UTC

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	dispatchQueue, err := queue.NewAMQP(cfg.AMQP)
	if err != nil {
		log.Fatalf("failed to connect to message broker: %v", err)
	}
	defer dispatchQueue.Close()

	mail, err := mailer.NewHTTP(cfg.Mailer)
	if err != nil {
		log.Fatalf("failed to initialize mailer: %v", err)
	}

	campaignRepo := postgres.NewCampaignPostgres(db)
	leadRepo := postgres.NewLeadPostgres(db)
	campaignSvc := service.NewCampaignService(campaignRepo, leadRepo, dispatchQueue, mail)

	log.Printf("outreach worker started, queue=%s", cfg.AMQP.QueueName)

	err = dispatchQueue.Consume(ctx, func(ctx context.Context, job queue.OutreachJob) error {
		dispatchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return campaignSvc.Dispatch(dispatchCtx, job.OutreachMessageID)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("consumer stopped: %v", err)
	}

	log.Println("outreach worker shut down")
}
