package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/runnerr0/histdump/internal/category"
	"github.com/runnerr0/histdump/internal/config"
	"github.com/runnerr0/histdump/internal/logging"
	"github.com/runnerr0/histdump/internal/pipeline"
)

// labelWidth caps the first column of the human tables.
const labelWidth = 40

// loadConfig reads --config when given, otherwise the default config file,
// creating it with defaults on first use.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.Load(globals.Config)
	}
	return config.LoadOrCreate()
}

// newLogger builds the run logger; --verbose forces debug level.
func newLogger(cfg *config.Config, globals *GlobalFlags) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if globals != nil && globals.Verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// prepare loads config and logger for a subcommand. The caller must Sync the
// logger.
func prepare(globals *GlobalFlags) (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg, globals)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// applySource overrides the configured source with command flags.
func applySource(cfg *config.Config, source string, includeHidden bool) {
	if source != "" {
		cfg.Source.Path = source
	}
	if includeHidden {
		cfg.Source.IncludeHidden = true
	}
}

func newRunner(logger *zap.Logger) *pipeline.Runner {
	return pipeline.NewRunner(category.Default(), logger)
}

func wantJSON(globals *GlobalFlags) bool {
	return globals != nil && globals.JSON
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// formatNumber formats a count with comma separators.
func formatNumber(n int) string {
	return humanize.Comma(int64(n))
}

// fileSize returns a human-readable size of path, or "?" when unknown.
func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return humanize.Bytes(uint64(info.Size()))
}

// padLabel truncates and pads s to labelWidth terminal cells, so wide
// characters in titles and domains keep the columns aligned.
func padLabel(s string) string {
	return runewidth.FillRight(runewidth.Truncate(s, labelWidth, "…"), labelWidth)
}
