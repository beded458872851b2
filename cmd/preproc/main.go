package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	var (
		id         = flag.Int("id", -1, "Run id; selects the window of each file to process (required)")
		outPath    = flag.String("o", "", "Output JSON file (required)")
		maxRecords = flag.Int("max", 10000, "Records to take from each file")
		inputDir   = flag.String("input", "data", "Corpus directory")
		configPath = flag.String("config", "", "YAML config file (optional)")
		steps      = flag.String("steps", "", "Stages to run, e.g. 1-5,9 (default: from config)")
		dbPath     = flag.String("db", "", "SQLite database to store results in (optional)")
		workers    = flag.Int("workers", 0, "Concurrent normalizers (default: from config)")
		runID      = flag.String("run-id", "", "ULID to store results under (default: new)")
		debug      = flag.Bool("debug", false, "Development logging")
	)
	flag.Parse()

	if *id < 0 {
		fmt.Fprintln(os.Stderr, "-id required")
		os.Exit(2)
	}
	if *outPath == "" {
		fmt.Fprintln(os.Stderr, "-o required")
		os.Exit(2)
	}

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{
		ID:         *id,
		OutPath:    *outPath,
		Max:        *maxRecords,
		InputDir:   *inputDir,
		ConfigPath: *configPath,
		Steps:      *steps,
		DBPath:     *dbPath,
		Workers:    *workers,
		RunID:      *runID,
	}
	if err := run(ctx, opts, logger); err != nil {
		logger.Error("preprocessing failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
