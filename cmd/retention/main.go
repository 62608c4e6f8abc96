package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/robfig/cron/v3"

	"leadengine/internal/config"
	"leadengine/internal/database"
	"leadengine/internal/mailer"
	"leadengine/internal/repository/postgres"
	"leadengine/internal/service"
	"leadengine/internal/whop"
)

// The retention scheduler periodically re-syncs every account's member list
// and emails at-risk members. One sweep per schedule tick; a tick is skipped
// if the previous sweep is still running.
func main() {
	cfg := config.Load()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	platform := whop.NewClient(cfg.Platform)
	mail, err := mailer.NewHTTP(cfg.Mailer)
	if err != nil {
		log.Fatalf("failed to initialize mailer: %v", err)
	}

	userRepo := postgres.NewUserPostgres(db)
	memberRepo := postgres.NewMemberPostgres(db)
	memberSvc := service.NewMemberService(memberRepo, platform, mail)
	retentionSvc := service.NewRetentionService(userRepo, memberSvc)

	schedule := os.Getenv("RETENTION_CRON")
	if schedule == "" {
		schedule = "0 */6 * * *" // every six hours
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err = c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		res, err := retentionSvc.Sweep(ctx)
		if err != nil {
			log.Printf("retention sweep failed: %v", err)
			return
		}
		log.Printf("retention sweep done: users=%d synced=%d sent=%d skipped=%d",
			res.Users, res.Synced, res.Sent, res.Skipped)
	})
	if err != nil {
		log.Fatalf("invalid retention schedule %q: %v", schedule, err)
	}

	log.Printf("retention scheduler started, cron=%q", schedule)
	c.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	// Let an in-flight sweep finish before exiting.
	<-c.Stop().Done()
	log.Println("retention scheduler shut down")
}
