package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"library-lending-backend/internal/bootstrap"
	"library-lending-backend/internal/config"
	"library-lending-backend/internal/jobs"
	"library-lending-backend/internal/logger"
	"library-lending-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	envFile := flag.String("env", "", "Optional .env file loaded before the configuration")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'sweep-expired-reservations', 'send-overdue-reminders', 'all')")
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("Failed to load env file: %v", err)
		}
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Library Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize snapshot store
	repo, closer, err := bootstrap.OpenSnapshotStore(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to open snapshot store", "error", err)
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer closer.Close()

	// Initialize services
	emailService := bootstrap.NewEmailService(cfg)
	jobRunner := jobs.NewJobRunner(&jobs.Services{
		Email:       emailService,
		Circulation: bootstrap.NewCirculationService(cfg, repo, emailService),
	}, cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.RunByName(*runOnce); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n\nAvailable jobs:\n", err)
			fmt.Fprintf(os.Stderr, "  %s\n  %s\n  %s\n", jobs.JobSweepExpiredReservations, jobs.JobSendOverdueReminders, jobs.JobAll)
			closer.Close()
			os.Exit(1)
		}
		logger.Info("Job completed", "job", *runOnce)
		return
	}

	sched, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	sched.Start()
	logger.Info("Scheduler started", "jobs", sched.Entries())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down scheduler...")
	sched.Stop()
	logger.Info("Scheduler stopped")
}
