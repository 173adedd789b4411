package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/runnerr0/histdump/internal/config"
	"github.com/runnerr0/histdump/internal/export"
	"github.com/runnerr0/histdump/internal/pipeline"
	"github.com/runnerr0/histdump/internal/stats"
)

// exportJSON is the JSON output structure for the export command.
type exportJSON struct {
	Version        string         `json:"version"`
	Source         string         `json:"source"`
	ExtractionDate string         `json:"extraction_date"`
	TotalChunks    int            `json:"total_chunks"`
	Files          []string       `json:"files"`
	Statistics     *stats.Summary `json:"statistics"`
}

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	cfg, logger, err := prepare(c.globals)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	return c.executeWithConfig(context.Background(), cfg, logger)
}

// executeWithConfig runs export against a provided config (for testing).
func (c *ExportCommand) executeWithConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	applySource(cfg, c.Source, c.IncludeHidden)
	if c.OutputDir != "" {
		cfg.Output.Dir = c.OutputDir
	}
	if c.ChunkSize != "" {
		cfg.Chunking.Size = c.ChunkSize
	}

	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	res, err := newRunner(logger).Export(ctx, opts)
	if err != nil {
		return err
	}

	if wantJSON(c.globals) {
		return printJSON(exportJSON{
			Version:        c.version,
			Source:         opts.Source,
			ExtractionDate: export.FormatDate(res.ExtractedAt),
			TotalChunks:    len(res.Chunks),
			Files:          res.Files,
			Statistics:     res.Summary,
		})
	}

	printSummaryHuman(c.version, opts.Source, res.Summary)

	fmt.Println()
	fmt.Printf("Extracted:     %s\n", formatDate(res.ExtractedAt))
	if opts.Chunked() {
		fmt.Printf("Chunks:        %s (budget %s tokens)\n", formatNumber(len(res.Chunks)), formatNumber(opts.Budget))
	}
	fmt.Println("Files created:")
	for _, path := range res.Files {
		fmt.Printf("  %s %s\n", padLabel(filepath.Base(path)), fileSize(path))
	}
	return nil
}
