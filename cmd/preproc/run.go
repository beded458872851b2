package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/preproc/internal/corpus"
	"github.com/cognicore/preproc/pkg/preproc"
	"github.com/cognicore/preproc/pkg/preproc/config"
	"github.com/cognicore/preproc/pkg/preproc/stats"
	"github.com/cognicore/preproc/pkg/preproc/store"
	"github.com/cognicore/preproc/pkg/preproc/store/sqlite"
)

type options struct {
	ID         int
	OutPath    string
	Max        int
	InputDir   string
	ConfigPath string
	Steps      string
	DBPath     string
	Workers    int
	RunID      string

	// Store, when set, receives the processed comments instead of a
	// database opened from DBPath. run does not close it.
	Store store.Store
}

type runner struct {
	runID    string
	id       int
	max      int
	workers  int
	pipeline *preproc.Pipeline
	store    store.Store
	analyzer *stats.Analyzer
	logger   *zap.Logger
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	if err := corpus.CheckMax(opts.Max); err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	steps, err := cfg.StepSet()
	if err != nil {
		return err
	}
	if opts.Steps != "" {
		if steps, err = preproc.ParseSteps(opts.Steps); err != nil {
			return err
		}
	}
	workers := cfg.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}

	components, err := cfg.Loader().Load()
	if err != nil {
		return fmt.Errorf("load components: %w", err)
	}

	runID := opts.RunID
	if runID == "" {
		runID = store.NewRunID()
	} else if err := store.CheckRunID(runID); err != nil {
		return err
	}

	r := &runner{
		runID:    runID,
		id:       opts.ID,
		max:      opts.Max,
		workers:  workers,
		pipeline: components.Pipeline(steps, logger),
		store:    opts.Store,
		analyzer: stats.NewAnalyzer(),
		logger:   logger,
	}

	if r.store == nil && opts.DBPath != "" {
		st, err := sqlite.OpenSQLite(ctx, opts.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()
		r.store = st
	}

	paths, err := corpus.Discover(opts.InputDir)
	if err != nil {
		return err
	}
	logger.Info("starting run",
		zap.String("run_id", r.runID),
		zap.Int("files", len(paths)),
		zap.Stringer("steps", steps),
		zap.Int("workers", workers))

	var out []corpus.Comment
	for _, path := range paths {
		comments, err := r.processFile(ctx, path)
		if err != nil {
			return err
		}
		out = append(out, comments...)
	}

	if err := writeJSON(opts.OutPath, out); err != nil {
		return err
	}
	r.logSummary(len(out), opts.OutPath)
	return nil
}

// processFile samples, decodes and normalizes one corpus file. Comments come
// back in sample order with Body replaced by the normalized text.
func (r *runner) processFile(ctx context.Context, path string) ([]corpus.Comment, error) {
	records, err := corpus.LoadFile(path, r.logger)
	if err != nil {
		return nil, err
	}
	start, end := corpus.SampleWindow(len(records), r.id, r.max)
	sampled := corpus.Select(records, r.id, r.max)
	r.logger.Info("sampling file",
		zap.String("file", path),
		zap.Int("records", len(records)),
		zap.Int("sampled", len(sampled)),
		zap.Bool("all", r.max >= len(records)),
		zap.Bool("wraparound", r.max < len(records) && end < start))

	comments := make([]corpus.Comment, 0, len(sampled))
	for i, raw := range sampled {
		c, err := corpus.Decode(raw)
		if err != nil {
			r.logger.Warn("skipping undecodable record", zap.String("file", path), zap.Int("index", i), zap.Error(err))
			continue
		}
		if c.Body == "" {
			r.logger.Warn("skipping record without body", zap.String("file", path), zap.String("id", c.ID))
			continue
		}
		corpus.Label(&c, path)
		comments = append(comments, c)
	}

	normalized := make([]string, len(comments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range comments {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			normalized[i] = r.pipeline.Normalize(gctx, comments[i].Body)
			r.analyzer.Process(comments[i].Cat, normalized[i])
			if r.store == nil {
				return nil
			}
			return r.store.UpsertComment(gctx, r.record(comments[i], normalized[i]))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process %s: %w", path, err)
	}

	for i := range comments {
		comments[i].Body = normalized[i]
	}
	return comments, nil
}

func (r *runner) record(c corpus.Comment, normalized string) store.Comment {
	return store.Comment{
		RunID:            r.runID,
		ID:               c.ID,
		Category:         c.Cat,
		Subreddit:        c.Subreddit,
		Author:           c.Author,
		Score:            c.Score,
		Controversiality: c.Controversiality,
		Ups:              c.Ups,
		Downs:            c.Downs,
		Body:             c.Body,
		Normalized:       normalized,
	}
}

func (r *runner) logSummary(written int, outPath string) {
	snap := r.analyzer.Snapshot()
	fields := []zap.Field{
		zap.String("run_id", r.runID),
		zap.String("output", outPath),
		zap.Int("comments", written),
		zap.Int64("empty", snap.Total.Empty),
		zap.Int64("tokens", snap.Total.Tokens),
		zap.Int64("sentences", snap.Total.Sentences),
	}
	for _, tc := range snap.TopTags(5) {
		fields = append(fields, zap.Int64("tag_"+tc.Tag, tc.Count))
	}
	r.logger.Info("run complete", fields...)

	for name, cat := range snap.Categories {
		r.logger.Info("category",
			zap.String("category", name),
			zap.Int64("comments", cat.Comments),
			zap.Int64("tokens", cat.Tokens),
			zap.Int64("sentences", cat.Sentences))
	}
	for _, c := range snap.StopwordCandidates(50, 0.5) {
		r.logger.Debug("stopword candidate",
			zap.String("token", c.Token),
			zap.Float64("df_percent", c.DFPercent),
			zap.Float64("entropy", c.CatEntropy))
	}
}

func writeJSON(path string, comments []corpus.Comment) error {
	if comments == nil {
		comments = []corpus.Comment{}
	}
	data, err := json.MarshalIndent(comments, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
