package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/config"
	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/repository/memory"
	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/repository/mongostore"
	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/repository/postgres"
	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/services"
	"github.com/google/logger"
)

// app is everything a command needs, built from the configuration.
type app struct {
	cfg      *config.Config
	matching *services.MatchingService
	stats    *services.StatsService
	close    func()
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	closeLog, err := initLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		closeLog()
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		closeRepo()
		closeLog()
		return nil, err
	}

	matching := services.NewMatchingService(repo, services.PostalCodeDistance{}, services.MatchingConfig{
		DefaultMaxDistance: cfg.Matching.MaxDistance,
		ResultLimit:        cfg.Matching.ResultLimit,
		QueryTimeout:       cfg.Matching.QueryTimeout,
		Location:           loc,
	})
	return &app{
		cfg:      cfg,
		matching: matching,
		stats:    services.NewStatsService(repo, cfg.Matching.QueryTimeout),
		close: func() {
			closeRepo()
			closeLog()
		},
	}, nil
}

func initLogger(cfg config.LogConfig) (func(), error) {
	var out io.Writer = io.Discard
	var file *os.File
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, file = f, f
	}

	l := logger.Init(appName, cfg.Verbose, false, out)
	logger.SetLevel(logger.Level(cfg.Level))
	return func() {
		l.Close()
		if file != nil {
			_ = file.Close()
		}
	}, nil
}

func openRepository(ctx context.Context, cfg *config.Config) (services.Repository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		m := cfg.Store.Mongo
		store, err := mongostore.Connect(ctx, m.URI, m.Database, m.Collection)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(context.Background()); err != nil {
				logger.Warningf("Failed to disconnect from MongoDB: %v", err)
			}
		}, nil

	case config.DriverPostgres:
		p := cfg.Store.Postgres
		store, err := postgres.Open(ctx, p.DSN, p.Table)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warningf("Failed to close PostgreSQL pool: %v", err)
			}
		}, nil

	default:
		if cfg.Store.FixtureFile == "" {
			logger.Warning("Memory store has no fixture file, starting empty")
			return memory.NewStore(), func() {}, nil
		}
		store, err := memory.LoadFile(cfg.Store.FixtureFile)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
