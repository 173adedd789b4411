package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/histdump/internal/config"
	"github.com/runnerr0/histdump/internal/pipeline"
	"github.com/runnerr0/histdump/internal/stats"
)

// consoleTopDomains is the number of domains the human summary lists.
const consoleTopDomains = 10

// Execute implements the go-flags Commander interface for SummaryCommand.
func (c *SummaryCommand) Execute(args []string) error {
	cfg, logger, err := prepare(c.globals)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	return c.executeWithConfig(context.Background(), cfg, logger)
}

// executeWithConfig runs summary against a provided config (for testing).
func (c *SummaryCommand) executeWithConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	applySource(cfg, c.Source, c.IncludeHidden)
	// Chunking plays no part in a summary.
	cfg.Chunking.Size = ""

	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	ext, err := newRunner(logger).Extract(ctx, opts)
	if err != nil {
		return err
	}

	if wantJSON(c.globals) {
		return printJSON(ext.Summary)
	}
	printSummaryHuman(c.version, opts.Source, ext.Summary)
	return nil
}

// printSummaryHuman prints totals, categories and top domains.
func printSummaryHuman(version, source string, s *stats.Summary) {
	fmt.Println("History Summary")
	fmt.Println("===============")
	fmt.Printf("Version:       %s\n", version)
	fmt.Printf("Source:        %s\n", source)
	fmt.Printf("Entries:       %s\n", formatNumber(s.TotalEntries))
	fmt.Printf("Visits:        %s\n", formatNumber(s.TotalVisits))
	fmt.Printf("Search terms:  %s\n", formatNumber(s.TotalSearchTerms))

	if s.DateRange.Oldest.Known() {
		fmt.Printf("Oldest:        %s\n", s.DateRange.Oldest.Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", s.DateRange.Newest.Local().Format("2006-01-02"))
	}
	if s.TopDomain != nil {
		fmt.Printf("Most visited:  %s (%s visits)\n", s.TopDomain.Domain, formatNumber(int(s.TopDomain.VisitCount)))
	}

	fmt.Println()
	fmt.Println("Categories:")
	for _, label := range sortedCategories(s.Categories) {
		fmt.Printf("  %s %s\n", padLabel(label), formatNumber(s.Categories[label]))
	}

	if len(s.TopDomains) > 0 {
		fmt.Println()
		fmt.Printf("Top %d Domains:\n", consoleTopDomains)
		for i, d := range s.TopDomains {
			if i == consoleTopDomains {
				break
			}
			fmt.Printf("  %s %s\n", padLabel(d.Domain), formatNumber(d.Count))
		}
	}
}

// sortedCategories orders labels by count, descending, then by name.
func sortedCategories(counts map[string]int) []string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}

// formatDate renders an instant for the console.
func formatDate(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
