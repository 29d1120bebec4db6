// Package main runs Scoundrel in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scoundrel/internal/config"
	"github.com/cory-johannsen/scoundrel/internal/game/run"
	"github.com/cory-johannsen/scoundrel/internal/game/shuffle"
	"github.com/cory-johannsen/scoundrel/internal/observability"
	"github.com/cory-johannsen/scoundrel/internal/server"
	"github.com/cory-johannsen/scoundrel/internal/storage"
	"github.com/cory-johannsen/scoundrel/internal/ui"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and SCOUNDREL_* environment")
	seed := flag.Int64("seed", -1, "shuffle seed for reproducible runs; -1 shuffles randomly")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	if err := play(cfg, *seed, logger); err != nil {
		logger.Error("scoundrel exited with error", zap.Error(err))
		_ = logger.Sync()
		log.Fatal(err)
	}
	logger.Info("scoundrel exited", zap.Duration("uptime", time.Since(start)))
	_ = logger.Sync()
}

func play(cfg config.Config, seed int64, logger *zap.Logger) error {
	ctx := context.Background()

	store, closeStore, err := storage.OpenLeaderboard(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	src := shuffle.NewCryptoSource()
	if seed >= 0 {
		src = shuffle.NewSeededSource(uint64(seed))
		logger.Info("seeded shuffles", zap.Int64("seed", seed))
	}
	shuffler := shuffle.NewLoggedShuffler(src, logger)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	newRun := func() *run.Run {
		return run.NewShuffled(shuffler, run.WithLogger(logger))
	}
	app := ui.New(screen, store, newRun, ui.Options{
		DefaultName:     cfg.UI.DefaultName,
		LeaderboardSize: cfg.Leaderboard.Size,
		Mouse:           cfg.UI.Mouse,
		TickRate:        cfg.UI.TickRate,
	}, logger)

	lc := server.NewLifecycle(logger)
	lc.Add("ui", app)
	return lc.Run(ctx)
}
