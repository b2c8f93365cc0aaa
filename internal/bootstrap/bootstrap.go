// Package bootstrap builds the pieces both binaries share from a loaded config.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"library-lending-backend/internal/config"
	"library-lending-backend/internal/engine"
	"library-lending-backend/internal/logger"
	"library-lending-backend/internal/repository"
	"library-lending-backend/internal/repository/jsonfile"
	"library-lending-backend/internal/repository/postgres"
	"library-lending-backend/internal/service"

	_ "github.com/lib/pq"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenSnapshotStore opens the configured snapshot store, creating its schema
// and applying the seed document when one is configured. The returned closer
// releases the database connection, if any.
func OpenSnapshotStore(ctx context.Context, cfg *config.Config) (repository.SnapshotRepository, io.Closer, error) {
	var (
		repo   repository.SnapshotRepository
		closer io.Closer = nopCloser{}
	)

	switch cfg.Snapshot.Type {
	case config.SnapshotFile:
		logger.Info("Using file snapshot store", "path", cfg.Snapshot.Path)
		repo = jsonfile.NewStore(cfg.Snapshot.Path)

	case config.SnapshotPostgres:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("Database connection established")

		store := postgres.NewStore(db, cfg.Snapshot.Name)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to create snapshot schema: %w", err)
		}
		repo, closer = store, db

	default:
		return nil, nil, fmt.Errorf("unknown snapshot type: %q", cfg.Snapshot.Type)
	}

	if cfg.Snapshot.Seed != "" {
		seeded, err := repository.Seed(ctx, repo, jsonfile.NewStore(cfg.Snapshot.Seed))
		if err != nil {
			closer.Close()
			return nil, nil, err
		}
		if seeded {
			logger.Info("Seeded snapshot", "seed", cfg.Snapshot.Seed)
		}
	}

	return repo, closer, nil
}

// NewEmailService picks SendGrid when an API key is configured and the
// log-only sender otherwise.
func NewEmailService(cfg *config.Config) service.EmailService {
	if cfg.SendGrid.APIKey == "" {
		logger.Warn("No SendGrid API key configured, notifications will only be logged")
		return service.NewLogEmailService()
	}
	return service.NewSendGridEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
}

// Policy converts the circulation section into engine limits.
func Policy(cfg *config.Config) engine.Policy {
	c := cfg.Circulation
	maxRenewals := -1
	if c.MaxRenewals != nil {
		maxRenewals = *c.MaxRenewals
	}
	return engine.Policy{
		MaxLoans:        c.MaxLoans,
		LoanDays:        c.LoanDays,
		MaxRenewals:     maxRenewals,
		RenewDays:       c.RenewDays,
		MaxReservations: c.MaxReservations,
		PickupDays:      c.PickupDays,
	}
}

func NewCirculationService(cfg *config.Config, repo repository.SnapshotRepository, emailSvc service.EmailService) service.CirculationService {
	return service.NewCirculationService(repo, engine.New(Policy(cfg)), emailSvc)
}
