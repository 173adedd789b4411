package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/runnerr0/histdump/internal/chunk"
	"github.com/runnerr0/histdump/internal/config"
	"github.com/runnerr0/histdump/internal/export"
	"github.com/runnerr0/histdump/internal/pipeline"
)

// planJSON is the JSON output structure for the plan command.
type planJSON struct {
	Budget       int             `json:"budget"`
	TotalEntries int             `json:"total_entries"`
	TotalChunks  int             `json:"total_chunks"`
	Chunks       []planChunkJSON `json:"chunks"`
}

type planChunkJSON struct {
	ChunkID         int    `json:"chunk_id"`
	File            string `json:"file"`
	Entries         int    `json:"entries"`
	EstimatedTokens int    `json:"estimated_tokens"`
	OverBudget      bool   `json:"over_budget,omitempty"`
}

// Execute implements the go-flags Commander interface for PlanCommand.
func (c *PlanCommand) Execute(args []string) error {
	if c.ChunkSize == "" {
		return fmt.Errorf("--chunk-size is required for plan command")
	}

	cfg, logger, err := prepare(c.globals)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	return c.executeWithConfig(context.Background(), cfg, logger)
}

// executeWithConfig runs plan against a provided config (for testing).
func (c *PlanCommand) executeWithConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	applySource(cfg, c.Source, c.IncludeHidden)
	cfg.Chunking.Size = c.ChunkSize

	// Parsing first rejects a bad budget before the source is touched.
	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	if !opts.Chunked() {
		return fmt.Errorf("--chunk-size is required for plan command")
	}

	runner := newRunner(logger)
	ext, err := runner.Extract(ctx, opts)
	if err != nil {
		return err
	}
	chunks, err := runner.Plan(ext, opts)
	if err != nil {
		return err
	}

	out := planJSON{
		Budget:       opts.Budget,
		TotalEntries: len(ext.Entries),
		TotalChunks:  len(chunks),
		Chunks:       make([]planChunkJSON, len(chunks)),
	}
	for i, ch := range chunks {
		out.Chunks[i] = describeChunk(ch, opts)
	}

	if wantJSON(c.globals) {
		return printJSON(out)
	}

	fmt.Println("Chunk Plan")
	fmt.Println("==========")
	fmt.Printf("Budget:        %s tokens\n", formatNumber(out.Budget))
	fmt.Printf("Entries:       %s\n", formatNumber(out.TotalEntries))
	fmt.Printf("Chunks:        %s\n", formatNumber(out.TotalChunks))
	if len(out.Chunks) > 0 {
		fmt.Println()
		for _, pc := range out.Chunks {
			note := ""
			if pc.OverBudget {
				note = "  (single entry over budget)"
			}
			fmt.Printf("  %s %8s entries %10s tokens%s\n",
				padLabel(pc.File), formatNumber(pc.Entries), formatNumber(pc.EstimatedTokens), note)
		}
	}
	return nil
}

func describeChunk(ch *chunk.Chunk, opts pipeline.Options) planChunkJSON {
	return planChunkJSON{
		ChunkID:         ch.ID,
		File:            export.ChunkFileName(opts.ChunkPrefix, ch),
		Entries:         len(ch.Entries),
		EstimatedTokens: ch.EstimatedTokens,
		OverBudget:      ch.EstimatedTokens > opts.Budget,
	}
}
