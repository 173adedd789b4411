package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Path:          DefaultSourcePath(),
			TempDir:       "",
			IncludeHidden: false,
		},
		Output: OutputConfig{
			Dir:         ".",
			JSONFile:    "comet_history_complete.json",
			CSVFile:     "comet_history_summary.csv",
			StatsFile:   "comet_history_statistics.json",
			ChunkPrefix: "comet_history_chunk",
		},
		Chunking: ChunkingConfig{
			Size:          "",
			CharsPerToken: 4,
			EntryOverhead: 40,
			VisitOverhead: 8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
