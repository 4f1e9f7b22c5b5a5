// Package main is the startup and verification entry point for the ASES
// configuration and persistence layer. It loads configuration, establishes
// the Firestore connection and verifies the store is answering, then reports
// a startup summary. The evolution cycle, backtester and exchange execution
// are external collaborators wired on top of these components.
package main

import (
	"context"

	"github.com/ases-trading/ases/internal/config"
	"github.com/ases-trading/ases/internal/modules/strategies"
	"github.com/ases-trading/ases/internal/store"
	"github.com/ases-trading/ases/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:  cfg.System.LogLevel,
		Pretty: true,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("project", cfg.Firebase.ProjectID).
		Str("exchange", cfg.Exchange.ExchangeID).
		Bool("sandbox_mode", cfg.Exchange.SandboxMode).
		Msg("Starting ASES persistence layer")

	if !cfg.Exchange.SandboxMode {
		log.Warn().Msg("Sandbox mode is disabled, exchange collaborators will trade live")
	}

	ctx := context.Background()

	st, err := store.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Firestore")
	}
	defer st.Close()

	if err := st.HealthCheck(ctx); err != nil {
		log.Fatal().Err(err).Msg("Firestore health check failed")
	}

	repo := strategies.NewRepository(st, log)
	active, err := repo.Active(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read active strategies")
	}

	log.Info().
		Str("collection_prefix", cfg.Firebase.CollectionPrefix).
		Int("active_strategies", len(active)).
		Msg("Persistence layer ready")
}
