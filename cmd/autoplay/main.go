// Package main plays Scoundrel runs headless with the built-in chooser or a
// Lua strategy and writes a YAML report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scoundrel/internal/autoplay"
	"github.com/cory-johannsen/scoundrel/internal/config"
	"github.com/cory-johannsen/scoundrel/internal/game/run"
	"github.com/cory-johannsen/scoundrel/internal/game/shuffle"
	"github.com/cory-johannsen/scoundrel/internal/leaderboard"
	"github.com/cory-johannsen/scoundrel/internal/observability"
	"github.com/cory-johannsen/scoundrel/internal/scripting"
	"github.com/cory-johannsen/scoundrel/internal/storage"
)

// options are the command-line settings layered over the config file.
type options struct {
	seed       int64
	report     string
	transcript string
	color      bool
	recordAs   string
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and SCOUNDREL_* environment")
	seed := flag.Int64("seed", -1, "shuffle seed for reproducible runs; -1 shuffles randomly")
	runs := flag.Int("runs", 0, "number of runs; 0 uses autoplay.runs")
	strategyPath := flag.String("strategy", "", "Lua strategy file; overrides autoplay.strategy")
	reportPath := flag.String("report", "-", "YAML report path; - writes to stdout")
	transcriptPath := flag.String("transcript", "", "write a transcript of every run to this path; - for stderr")
	color := flag.Bool("color", false, "keep ANSI colors in the transcript")
	recordAs := flag.String("record", "", "record finished runs on the leaderboard under this name")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *runs > 0 {
		cfg.Autoplay.Runs = *runs
	}
	if *strategyPath != "" {
		cfg.Autoplay.Strategy = *strategyPath
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	opts := options{seed: *seed, report: *reportPath, transcript: *transcriptPath, color: *color, recordAs: *recordAs}
	err = play(ctx, cfg, opts, logger)
	stop()
	if err != nil {
		logger.Error("autoplay failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		_ = logger.Sync()
		log.Fatal(err)
	}
	logger.Info("autoplay exited", zap.Duration("elapsed", time.Since(start)))
	_ = logger.Sync()
}

// play runs cfg.Autoplay.Runs games and writes the report. Every resource it
// opens is released before it returns.
func play(ctx context.Context, cfg config.Config, opts options, logger *zap.Logger) error {
	src := shuffle.NewCryptoSource()
	if opts.seed >= 0 {
		src = shuffle.NewSeededSource(uint64(opts.seed))
	}
	shuffler := shuffle.NewLoggedShuffler(src, logger)

	var chooser autoplay.Chooser = autoplay.Greedy{}
	name := "greedy"
	if cfg.Autoplay.Strategy != "" {
		s, err := scripting.LoadStrategy(cfg.Autoplay.Strategy, cfg.Autoplay.InstructionLimit, shuffler, logger)
		if err != nil {
			return fmt.Errorf("loading strategy: %w", err)
		}
		defer s.Close()
		chooser, name = s, s.Name()
	}

	var store leaderboard.Store
	if opts.recordAs != "" {
		st, closeStore, err := storage.OpenLeaderboard(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("opening leaderboard: %w", err)
		}
		defer closeStore()
		store = st
	}

	var transcript *autoplay.Transcript
	if opts.transcript != "" {
		w, closeW, err := open(opts.transcript, os.Stderr)
		if err != nil {
			return err
		}
		defer closeW()
		transcript = autoplay.NewTranscript(w, opts.color)
	}

	report := autoplay.Report{Strategy: name}
	if opts.seed >= 0 {
		s := uint64(opts.seed)
		report.Seed = &s
	}

	driver := autoplay.NewDriver(chooser, cfg.Autoplay.MaxSteps, logger)
	for i := 0; i < cfg.Autoplay.Runs; i++ {
		r := run.NewShuffled(shuffler, run.WithLogger(logger))
		res, err := driver.Play(ctx, r)
		if err != nil && !errors.Is(err, autoplay.ErrStepLimit) {
			logger.Error("autoplay interrupted", zap.Int("run", i+1), zap.Error(err))
			report.Add(res, -1, err)
			break
		}

		rank := -1
		if store != nil && err == nil {
			player := leaderboard.NormalizeName(opts.recordAs, cfg.UI.DefaultName)
			pos, recErr := store.Record(ctx, leaderboard.FromRun(player, res.Final, time.Now()))
			if recErr != nil {
				logger.Error("recording run", zap.Error(recErr))
			} else {
				rank = pos
			}
		}
		if transcript != nil {
			transcript.Run(i+1, res)
		}
		report.Add(res, rank, err)
	}

	if transcript != nil && transcript.Err() != nil {
		logger.Error("writing transcript", zap.Error(transcript.Err()))
	}

	w, closeW, err := open(opts.report, os.Stdout)
	if err != nil {
		return err
	}
	defer closeW()
	if err := report.WriteYAML(w); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	logger.Info("autoplay finished",
		zap.String("strategy", name),
		zap.Int("runs", report.Summary.Runs),
		zap.Int("won", report.Summary.Won),
	)
	return nil
}

// open returns a writer for path, or std when path is "-".
func open(path string, std *os.File) (io.Writer, func(), error) {
	if path == "-" {
		return std, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
