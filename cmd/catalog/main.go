package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"musiccatalog/internal/config"
	"musiccatalog/internal/database"
	"musiccatalog/internal/logging"
	"musiccatalog/internal/migrations"
	"musiccatalog/internal/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logging.SetGlobalLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dialect, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logger.Fatal(err, "open database")
	}
	defer db.Close()

	if cfg.Bootstrap.AutoMigrate {
		if err := migrations.Up(db, dialect); err != nil {
			logger.Fatal(err, "migrate database")
		}
	}

	dataStore := store.New(db, dialect)

	if cfg.Bootstrap.SeedDemoData {
		if err := bootstrapDemoData(ctx, dataStore); err != nil {
			logger.Fatal(err, "seed demo data")
		}
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           newHTTPHandler(cfg, dataStore),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("driver", dialect.String()).Msg("catalog API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err, "server error")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "graceful shutdown")
	}
}
