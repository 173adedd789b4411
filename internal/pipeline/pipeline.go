// Package pipeline runs one extraction: snapshot, read, build, aggregate,
// plan and publish.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/runnerr0/histdump/internal/category"
	"github.com/runnerr0/histdump/internal/chunk"
	"github.com/runnerr0/histdump/internal/config"
	"github.com/runnerr0/histdump/internal/export"
	"github.com/runnerr0/histdump/internal/history"
	"github.com/runnerr0/histdump/internal/stats"
	"github.com/runnerr0/histdump/internal/storage"
	"go.uber.org/zap"
)

// Options is the resolved input of a run.
type Options struct {
	Source        string
	TempDir       string
	IncludeHidden bool

	OutputDir   string
	JSONFile    string
	CSVFile     string
	StatsFile   string
	ChunkPrefix string

	// Budget is the per-chunk token budget. Zero selects single-file output.
	Budget    int
	Estimator chunk.Estimator
}

// OptionsFromConfig resolves paths and parses the chunk size of cfg.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	source, err := config.ExpandPath(cfg.Source.Path)
	if err != nil {
		return Options{}, err
	}
	outDir, err := config.ExpandPath(cfg.Output.Dir)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Source:        source,
		TempDir:       cfg.Source.TempDir,
		IncludeHidden: cfg.Source.IncludeHidden,
		OutputDir:     outDir,
		JSONFile:      cfg.Output.JSONFile,
		CSVFile:       cfg.Output.CSVFile,
		StatsFile:     cfg.Output.StatsFile,
		ChunkPrefix:   cfg.Output.ChunkPrefix,
		Estimator: chunk.Estimator{
			CharsPerToken: cfg.Chunking.CharsPerToken,
			EntryOverhead: cfg.Chunking.EntryOverhead,
			VisitOverhead: cfg.Chunking.VisitOverhead,
		},
	}

	if cfg.Chunking.Size != "" {
		budget, err := chunk.ParseBudget(cfg.Chunking.Size)
		if err != nil {
			return Options{}, err
		}
		opts.Budget = budget
	}
	return opts, nil
}

// Chunked reports whether the run splits output into chunks.
func (o Options) Chunked() bool {
	return o.Budget != 0
}

// Extraction is the in-memory result of reading and building.
type Extraction struct {
	Entries     []history.Entry
	Summary     *stats.Summary
	Categories  []string
	ExtractedAt time.Time
}

// Result describes a published export.
type Result struct {
	*Extraction
	Chunks []*chunk.Chunk
	Files  []string
}

// Runner executes runs against a shared taxonomy.
type Runner struct {
	taxonomy *category.Taxonomy
	logger   *zap.Logger
	now      func() time.Time
}

// NewRunner returns a runner. A nil logger disables logging.
func NewRunner(taxonomy *category.Taxonomy, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		taxonomy: taxonomy,
		logger:   logger,
		now:      time.Now,
	}
}

// Extract snapshots the source, validates its schema and builds the
// categorized entry set with its statistics. Nothing is written.
func (r *Runner) Extract(ctx context.Context, opts Options) (*Extraction, error) {
	if opts.Budget != 0 {
		if err := chunk.ValidateBudget(opts.Budget); err != nil {
			return nil, err
		}
	}

	snap, err := storage.NewSnapshot(opts.Source, opts.TempDir)
	if err != nil {
		return nil, err
	}
	defer snap.Close() //nolint:errcheck
	r.logger.Debug("snapshot created", zap.String("source", opts.Source), zap.String("copy", snap.Path))

	reader, err := storage.Open(ctx, snap.Path, storage.Options{IncludeHidden: opts.IncludeHidden})
	if err != nil {
		// Report the user's path, not the temp copy.
		var unavailable *storage.UnavailableError
		if errors.As(err, &unavailable) {
			unavailable.Path = opts.Source
		}
		return nil, err
	}
	defer reader.Close()

	if err := reader.CheckSchema(ctx); err != nil {
		return nil, err
	}

	urls, err := reader.URLs(ctx)
	if err != nil {
		return nil, err
	}
	visits, err := reader.Visits(ctx)
	if err != nil {
		return nil, err
	}
	terms, err := reader.SearchTerms(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Info("read history",
		zap.Int("urls", len(urls)),
		zap.Int("visits", len(visits)),
		zap.Int("search_terms", len(terms)),
		zap.Bool("include_hidden", opts.IncludeHidden),
	)

	entries, err := history.NewBuilder(r.taxonomy).Build(urls, visits, terms)
	if err != nil {
		return nil, err
	}

	summary := stats.Aggregate(entries, r.taxonomy)
	r.logger.Debug("built entries",
		zap.Int("entries", summary.TotalEntries),
		zap.Int("visits", summary.TotalVisits),
		zap.Int("distinct_search_terms", summary.TotalSearchTerms),
	)

	return &Extraction{
		Entries:     entries,
		Summary:     summary,
		Categories:  r.taxonomy.Labels(),
		ExtractedAt: r.now().UTC(),
	}, nil
}

// Plan partitions an extraction by opts.Budget.
func (r *Runner) Plan(ext *Extraction, opts Options) ([]*chunk.Chunk, error) {
	est := opts.Estimator
	planner := chunk.NewPlanner(&est, ext.Categories, ext.ExtractedAt)
	chunks, err := planner.Plan(ext.Entries, opts.Budget)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("planned chunks", zap.Int("chunks", len(chunks)), zap.Int("budget", opts.Budget))
	return chunks, nil
}

// Export runs the whole pipeline and publishes the JSON (single file or
// chunks), CSV and statistics files. Either every file is published or none.
func (r *Runner) Export(ctx context.Context, opts Options) (*Result, error) {
	ext, err := r.Extract(ctx, opts)
	if err != nil {
		return nil, err
	}
	res := &Result{Extraction: ext}

	if opts.Chunked() {
		if res.Chunks, err = r.Plan(ext, opts); err != nil {
			return nil, err
		}
	}

	pub, err := export.NewPublisher(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	defer pub.Abort() //nolint:errcheck

	if opts.Chunked() {
		pub.ReplaceMatching(export.ChunkFilePattern(opts.ChunkPrefix))
		for _, c := range res.Chunks {
			c := c
			if err := pub.Write(export.ChunkFileName(opts.ChunkPrefix, c), func(w io.Writer) error {
				return export.WriteChunk(w, c)
			}); err != nil {
				return nil, err
			}
		}
	} else {
		if err := pub.Write(opts.JSONFile, func(w io.Writer) error {
			return export.WriteJSON(w, ext.Entries, ext.Categories, ext.ExtractedAt)
		}); err != nil {
			return nil, err
		}
	}

	if err := pub.Write(opts.CSVFile, func(w io.Writer) error {
		return export.WriteCSV(w, ext.Entries)
	}); err != nil {
		return nil, err
	}
	if err := pub.Write(opts.StatsFile, func(w io.Writer) error {
		return export.WriteStats(w, ext.Summary)
	}); err != nil {
		return nil, err
	}

	files, err := pub.Commit()
	if err != nil {
		return nil, fmt.Errorf("publish outputs: %w", err)
	}
	res.Files = files

	r.logger.Info("export complete",
		zap.Int("entries", len(ext.Entries)),
		zap.Int("chunks", len(res.Chunks)),
		zap.Strings("files", files),
	)
	return res, nil
}
