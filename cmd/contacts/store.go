package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jask/contacts/internal/config"
	"github.com/jask/contacts/internal/database"
	"github.com/jask/contacts/internal/database/repository"
	"github.com/jask/contacts/internal/logging"
	"github.com/jask/contacts/internal/service"
)

// store is the opened, migrated and seeded database plus the service over it.
type store struct {
	cfg config.Config
	log *zap.Logger
	db  *sql.DB
	svc *service.ContactService
}

func openStore(ctx context.Context) (*store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(cfg.Log, verbose)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if cfg.Database.MigrationsPath != "" {
		if err := database.RunMigrations(cfg.Database.Driver, cfg.Database.Path, cfg.Database.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if cfg.Database.MigrationsPath == "" {
		if err := database.RunMigrationsWithDB(db, cfg.Database.Driver); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	n, err := database.SeedDefaults(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	log.Info("store ready",
		zap.String("path", cfg.Database.Path),
		zap.String("driver", cfg.Database.Driver),
		zap.Int("seeded", n))

	return &store{
		cfg: cfg,
		log: log,
		db:  db,
		svc: &service.ContactService{
			Contacts: repository.NewContactRepo(db),
			Latency:  cfg.Store.Latency,
			Log:      log.Named("service"),
		},
	}, nil
}

func (s *store) Close() {
	_ = s.db.Close()
	_ = s.log.Sync()
}
